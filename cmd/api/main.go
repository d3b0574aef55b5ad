package main

import (
	"log"
	"net/http"
	"os"
	"time"

	"pet-care-backend/internal/adapters/auth/jwtauth"
	"pet-care-backend/internal/metrics"
	"pet-care-backend/internal/platform/logger"
	"pet-care-backend/internal/router"

	"github.com/joho/godotenv"
)

func main() {
	// .env es opcional; en deploy las vars vienen del entorno.
	_ = godotenv.Load()

	appLog := logger.NewFromEnv()
	metrics.Register()

	addr := ":8080"
	if v := os.Getenv("PORT"); v != "" {
		addr = ":" + v
	}

	opts := router.Options{Log: appLog}

	// Sin JWT_SECRET queda en modo dev: identidad por header X-Debug-User-ID.
	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		ttl := time.Duration(0)
		if v := os.Getenv("TOKEN_TTL"); v != "" {
			parsed, err := time.ParseDuration(v)
			if err != nil {
				log.Fatalf("TOKEN_TTL inválido: %v", err)
			}
			ttl = parsed
		}
		jwtSvc, err := jwtauth.New(secret, ttl)
		if err != nil {
			log.Fatalf("jwt: %v", err)
		}
		opts.AuthVerifier = jwtSvc
		opts.TokenIssuer = jwtSvc
	} else {
		appLog.Warn("JWT_SECRET no seteado, auth en modo dev", nil)
	}

	r := router.NewRouter(opts)

	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	appLog.Info("starting server", map[string]any{"addr": addr})
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server error: %v", err)
	}
}
