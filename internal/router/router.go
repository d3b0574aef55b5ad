package router

import (
	"context"
	"database/sql"
	"net/http"
	"os"

	mem "pet-care-backend/internal/adapters/storage/memory"
	pg "pet-care-backend/internal/adapters/storage/postgres"
	"pet-care-backend/internal/domain/dashboard"
	"pet-care-backend/internal/domain/exports"
	"pet-care-backend/internal/domain/pets"
	"pet-care-backend/internal/domain/plans"
	"pet-care-backend/internal/domain/subscriptions"
	"pet-care-backend/internal/domain/updates"
	"pet-care-backend/internal/domain/users"
	"pet-care-backend/internal/middleware"
	"pet-care-backend/internal/platform/logger"
	"pet-care-backend/internal/ports/auth"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Options struct {
	AuthVerifier auth.AuthVerifier // puede ser nil (modo dev)
	TokenIssuer  auth.TokenIssuer  // puede ser nil (login sin token)

	Log logger.Logger

	// Opcional: si viene, usa Postgres. Si no, in-memory.
	DB *sql.DB
}

func NewRouter(opts Options) http.Handler {
	r := chi.NewRouter()

	log := opts.Log
	if log == nil {
		log = logger.NewFromEnv()
	}

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(middleware.Metrics)

	r.Use(middleware.AuthContext(opts.AuthVerifier))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	var (
		userRepo   users.Repository
		petRepo    pets.Repository
		updateRepo updates.Repository
		planRepo   plans.Repository
		subRepo    subscriptions.Repository
		dashRepo   dashboard.Repository
		exportRepo exports.Repository
	)

	// Si no te pasan DB explícita, intenta por env (para dev/handoff)
	db := opts.DB
	if db == nil {
		if dsn := os.Getenv("DB_DSN"); dsn != "" {
			opened, err := pg.Open(dsn)
			if err == nil {
				db = opened
			} else {
				log.Warn("postgres no disponible, usando repos in-memory", map[string]any{"error": err.Error()})
			}
		}
	}

	if db != nil {
		userRepo = pg.NewUsersRepo(db)
		petRepo = pg.NewPetsRepo(db)
		updateRepo = pg.NewUpdatesRepo(db)
		planRepo = pg.NewPlansRepo(db)
		subRepo = pg.NewSubscriptionsRepo(db)
		dashRepo = pg.NewDashboardRepo(db)
		exportRepo = pg.NewExportsRepo(db)
	} else {
		userRepo = mem.NewUserRepo()
		petRepo = mem.NewPetRepo()
		updateRepo = mem.NewUpdateRepo()
		planRepo = mem.NewPlanRepo()
		subRepo = mem.NewSubscriptionRepo()
		dashRepo = mem.NewDashboardRepo()
		exportRepo = mem.NewExportRepo()
	}

	// Services por módulo
	planSvc := plans.NewService(planRepo)
	if err := planSvc.EnsureDefaults(context.Background()); err != nil {
		log.Error("no se pudieron sembrar los planes default", map[string]any{"error": err.Error()})
	}

	subSvc := subscriptions.NewService(subRepo, planSvc)

	userSvc := users.NewService(userRepo, opts.TokenIssuer)
	petSvc := pets.NewService(petRepo, subSvc)
	updateSvc := updates.NewService(updateRepo, petSvc, log)
	dashSvc := dashboard.NewService(dashRepo)
	exportSvc := exports.NewService(exportRepo, subSvc)

	// Rutas por módulo, todas bajo /api
	r.Route("/api", func(api chi.Router) {
		users.RegisterRoutes(api, userSvc)
		pets.RegisterRoutes(api, petSvc)
		updates.RegisterRoutes(api, updateSvc)
		plans.RegisterRoutes(api, planSvc)
		subscriptions.RegisterRoutes(api, subSvc)
		dashboard.RegisterRoutes(api, dashSvc)
		exports.RegisterRoutes(api, exportSvc)
	})

	return r
}
