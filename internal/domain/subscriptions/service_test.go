package subscriptions

import (
	"context"
	"errors"
	"testing"
	"time"

	"pet-care-backend/internal/domain/plans"
	"pet-care-backend/internal/ports/capabilities"
)

// -------------------------
// Test repos (in-memory)
// -------------------------

type testRepo struct {
	byID map[string]Subscription
}

func newTestRepo() *testRepo {
	return &testRepo{byID: map[string]Subscription{}}
}

func (r *testRepo) Create(ctx context.Context, s Subscription) error {
	if _, ok := r.byID[s.ID]; ok {
		return errors.New("repo: already exists")
	}
	r.byID[s.ID] = s
	return nil
}

func (r *testRepo) Update(ctx context.Context, s Subscription) error {
	if _, ok := r.byID[s.ID]; !ok {
		return ErrNotFound
	}
	r.byID[s.ID] = s
	return nil
}

func (r *testRepo) GetActiveByUser(ctx context.Context, userID string) (Subscription, error) {
	var winner Subscription
	has := false
	for _, s := range r.byID {
		if s.UserID != userID || s.Status != StatusActive {
			continue
		}
		if !has || s.StartedAt.After(winner.StartedAt) {
			winner = s
			has = true
		}
	}
	if !has {
		return Subscription{}, ErrNotFound
	}
	return winner, nil
}

func (r *testRepo) ListByUser(ctx context.Context, userID string) ([]Subscription, error) {
	out := make([]Subscription, 0)
	for _, s := range r.byID {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	return out, nil
}

type testPlanRepo struct {
	byID map[string]plans.Plan
}

func (r *testPlanRepo) Create(ctx context.Context, p plans.Plan) error {
	r.byID[p.ID] = p
	return nil
}

func (r *testPlanRepo) Update(ctx context.Context, p plans.Plan) error {
	r.byID[p.ID] = p
	return nil
}

func (r *testPlanRepo) GetByID(ctx context.Context, id string) (plans.Plan, error) {
	p, ok := r.byID[id]
	if !ok {
		return plans.Plan{}, plans.ErrNotFound
	}
	return p, nil
}

func (r *testPlanRepo) GetByName(ctx context.Context, name plans.PlanName) (plans.Plan, error) {
	for _, p := range r.byID {
		if p.Name == name {
			return p, nil
		}
	}
	return plans.Plan{}, plans.ErrNotFound
}

func (r *testPlanRepo) List(ctx context.Context) ([]plans.Plan, error) {
	out := make([]plans.Plan, 0, len(r.byID))
	for _, p := range r.byID {
		out = append(out, p)
	}
	return out, nil
}

// newTestPlans siembra los tres tiers con IDs predecibles.
func newTestPlans() *plans.Service {
	repo := &testPlanRepo{byID: map[string]plans.Plan{
		"plan-free": {ID: "plan-free", Name: plans.PlanFree, MaxPets: 2},
		"plan-p1":   {ID: "plan-p1", Name: plans.PlanPremium1, MaxPets: 5, HealthRecords: true},
		"plan-p2":   {ID: "plan-p2", Name: plans.PlanPremium2, MaxPets: 10, HealthRecords: true, DataExport: true},
	}}
	return plans.NewService(repo)
}

func newTestService(repo *testRepo, now time.Time) *Service {
	svc := NewService(repo, newTestPlans())
	svc.now = func() time.Time { return now }
	return svc
}

// -------------------------
// Transición
// -------------------------

func TestDecide(t *testing.T) {
	if got := decide(nil, "plan-p1"); got != transitionCreate {
		t.Fatalf("expected create, got %d", got)
	}

	cur := &Subscription{PlanID: "plan-p1", Status: StatusActive}
	if got := decide(cur, "plan-p1"); got != transitionRenew {
		t.Fatalf("expected renew, got %d", got)
	}
	if got := decide(cur, "plan-p2"); got != transitionSwitch {
		t.Fatalf("expected switch, got %d", got)
	}
}

func TestSubscribe_Create(t *testing.T) {
	repo := newTestRepo()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc := newTestService(repo, now)

	sub, err := svc.Subscribe(context.Background(), "user-1", "plan-p1")
	if err != nil {
		t.Fatalf("Subscribe error: %v", err)
	}
	if sub.Status != StatusActive || sub.PlanID != "plan-p1" {
		t.Fatalf("unexpected subscription %+v", sub)
	}
	if sub.StartedAt != now {
		t.Fatalf("expected StartedAt pinned to now")
	}
}

func TestSubscribe_UnknownPlan(t *testing.T) {
	repo := newTestRepo()
	svc := newTestService(repo, time.Now())

	if _, err := svc.Subscribe(context.Background(), "user-1", "plan-nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSubscribe_SamePlan_RenewsInPlace(t *testing.T) {
	repo := newTestRepo()
	now1 := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	now2 := now1.Add(48 * time.Hour)
	svc := newTestService(repo, now1)

	first, err := svc.Subscribe(context.Background(), "user-1", "plan-p1")
	if err != nil {
		t.Fatalf("Subscribe #1 error: %v", err)
	}

	svc.now = func() time.Time { return now2 }
	second, err := svc.Subscribe(context.Background(), "user-1", "plan-p1")
	if err != nil {
		t.Fatalf("Subscribe #2 error: %v", err)
	}

	if second.ID != first.ID {
		t.Fatalf("expected same subscription on renew, got %s vs %s", first.ID, second.ID)
	}
	if second.StartedAt != now2 {
		t.Fatalf("expected StartedAt refreshed on renew")
	}
	if len(repo.byID) != 1 {
		t.Fatalf("expected 1 stored subscription, got %d", len(repo.byID))
	}
}

func TestSubscribe_DifferentPlan_CancelsAndCreates(t *testing.T) {
	repo := newTestRepo()
	now1 := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	now2 := now1.Add(24 * time.Hour)
	svc := newTestService(repo, now1)

	first, err := svc.Subscribe(context.Background(), "user-1", "plan-p1")
	if err != nil {
		t.Fatalf("Subscribe #1 error: %v", err)
	}

	svc.now = func() time.Time { return now2 }
	second, err := svc.Subscribe(context.Background(), "user-1", "plan-p2")
	if err != nil {
		t.Fatalf("Subscribe #2 error: %v", err)
	}

	if second.ID == first.ID {
		t.Fatalf("expected a new subscription on plan switch")
	}
	if second.PlanID != "plan-p2" || second.Status != StatusActive {
		t.Fatalf("unexpected new subscription %+v", second)
	}

	old := repo.byID[first.ID]
	if old.Status != StatusCancelled || old.EndedAt == nil {
		t.Fatalf("expected old subscription cancelled, got %+v", old)
	}

	// Invariante: una sola activa.
	active := 0
	for _, s := range repo.byID {
		if s.Status == StatusActive {
			active++
		}
	}
	if active != 1 {
		t.Fatalf("expected exactly 1 active subscription, got %d", active)
	}
}

func TestCancel(t *testing.T) {
	repo := newTestRepo()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc := newTestService(repo, now)

	if _, err := svc.Cancel(context.Background(), "user-1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound without active sub, got %v", err)
	}

	if _, err := svc.Subscribe(context.Background(), "user-1", "plan-p1"); err != nil {
		t.Fatalf("Subscribe error: %v", err)
	}

	cancelled, err := svc.Cancel(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("Cancel error: %v", err)
	}
	if cancelled.Status != StatusCancelled || cancelled.EndedAt == nil {
		t.Fatalf("unexpected cancelled sub %+v", cancelled)
	}

	// Segunda cancelación: ya no hay activa.
	if _, err := svc.Cancel(context.Background(), "user-1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second cancel, got %v", err)
	}
}

// -------------------------
// Capabilities
// -------------------------

func TestCapabilities_DefaultToFreeMode(t *testing.T) {
	repo := newTestRepo()
	svc := newTestService(repo, time.Now())

	max, err := svc.MaxPets(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("MaxPets error: %v", err)
	}
	if max != 2 {
		t.Fatalf("expected Free Mode limit 2, got %d", max)
	}

	has, err := svc.HasFeature(context.Background(), "user-1", capabilities.FeatureDataExport)
	if err != nil {
		t.Fatalf("HasFeature error: %v", err)
	}
	if has {
		t.Fatalf("expected no data export on Free Mode")
	}
}

func TestCapabilities_FollowActivePlan(t *testing.T) {
	repo := newTestRepo()
	svc := newTestService(repo, time.Now())

	if _, err := svc.Subscribe(context.Background(), "user-1", "plan-p2"); err != nil {
		t.Fatalf("Subscribe error: %v", err)
	}

	max, err := svc.MaxPets(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("MaxPets error: %v", err)
	}
	if max != 10 {
		t.Fatalf("expected Premium Tier 2 limit 10, got %d", max)
	}

	for _, c := range []struct {
		feature capabilities.Feature
		want    bool
	}{
		{capabilities.FeatureHealthRecords, true},
		{capabilities.FeatureDataExport, true},
		{capabilities.Feature("unknown"), false},
	} {
		has, err := svc.HasFeature(context.Background(), "user-1", c.feature)
		if err != nil {
			t.Fatalf("HasFeature(%s) error: %v", c.feature, err)
		}
		if has != c.want {
			t.Fatalf("HasFeature(%s) = %v, expected %v", c.feature, has, c.want)
		}
	}
}
