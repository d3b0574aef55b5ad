package updates

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"pet-care-backend/internal/domain/pets"
)

// -------------------------
// Test repo (in-memory)
// -------------------------

var errRepoNotFound = errors.New("repo: not found")

type testRepo struct {
	byID map[string]Update

	// failCreate fuerza el error del store para testear el corte del sweep.
	failCreate error
}

func newTestRepo() *testRepo {
	return &testRepo{byID: map[string]Update{}}
}

func (r *testRepo) Create(ctx context.Context, u Update) error {
	if r.failCreate != nil {
		return r.failCreate
	}
	if _, ok := r.byID[u.ID]; ok {
		return errors.New("repo: already exists")
	}
	r.byID[u.ID] = u
	return nil
}

func (r *testRepo) HasActive(ctx context.Context, userID, sourceID string, scheduledFor time.Time) (bool, error) {
	for _, u := range r.byID {
		if u.Active && u.UserID == userID && u.SourceID == sourceID && u.ScheduledFor.Equal(scheduledFor) {
			return true, nil
		}
	}
	return false, nil
}

func (r *testRepo) ListActiveByUser(ctx context.Context, userID string, limit int) ([]Update, error) {
	out := make([]Update, 0)
	for _, u := range r.byID {
		if u.Active && u.UserID == userID {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].ScheduledFor.Equal(out[j].ScheduledFor) {
			return out[i].ScheduledFor.After(out[j].ScheduledFor)
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *testRepo) CountUnread(ctx context.Context, userID string) (int, error) {
	n := 0
	for _, u := range r.byID {
		if u.Active && !u.Read && u.UserID == userID {
			n++
		}
	}
	return n, nil
}

func (r *testRepo) MarkRead(ctx context.Context, id string) error {
	u, ok := r.byID[id]
	if !ok || !u.Active {
		return ErrNotFound
	}
	u.Read = true
	r.byID[id] = u
	return nil
}

func (r *testRepo) MarkAllRead(ctx context.Context, userID string) error {
	for id, u := range r.byID {
		if u.Active && u.UserID == userID {
			u.Read = true
			r.byID[id] = u
		}
	}
	return nil
}

func (r *testRepo) Dismiss(ctx context.Context, id string) error {
	u, ok := r.byID[id]
	if !ok || !u.Active {
		return ErrNotFound
	}
	u.Active = false
	r.byID[id] = u
	return nil
}

// -------------------------
// Pet source de prueba
// -------------------------

type testPetSource struct {
	byOwner map[string][]pets.Pet
}

func (s *testPetSource) ListByOwner(ctx context.Context, ownerUserID string) ([]pets.Pet, error) {
	return s.byOwner[ownerUserID], nil
}

func newSweepService(repo *testRepo, petsByOwner map[string][]pets.Pet, now time.Time) *Service {
	svc := NewService(repo, &testPetSource{byOwner: petsByOwner}, nil)
	svc.now = func() time.Time { return now }
	return svc
}

func datePtr(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

// -------------------------
// Sweep: schedules
// -------------------------

func TestCheck_NoPets_ReturnsEmpty(t *testing.T) {
	repo := newTestRepo()
	now := time.Date(2026, 3, 10, 19, 30, 0, 0, time.UTC)
	svc := newSweepService(repo, map[string][]pets.Pet{}, now)

	created, err := svc.Check(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("Check error: %v", err)
	}
	if len(created) != 0 {
		t.Fatalf("expected no updates, got %d", len(created))
	}
}

func petWithSchedule(sch pets.Schedule) map[string][]pets.Pet {
	return map[string][]pets.Pet{
		"user-1": {{
			ID:          "pet-1",
			OwnerUserID: "user-1",
			Name:        "Milo",
			Species:     pets.SpeciesDog,
			Schedules:   []pets.Schedule{sch},
		}},
	}
}

func TestCheck_Schedule_MatchesWithinTolerance(t *testing.T) {
	sch := pets.Schedule{
		ID:              "sch-1",
		Type:            pets.ScheduleFeeding,
		Time:            "7:30 PM",
		Frequency:       pets.FrequencyDaily,
		NotificationsOn: true,
	}

	// 19:29, 19:30 y 19:31 matchean; 19:32 no.
	for _, minute := range []int{29, 30, 31} {
		repo := newTestRepo()
		now := time.Date(2026, 3, 10, 19, minute, 0, 0, time.UTC)
		svc := newSweepService(repo, petWithSchedule(sch), now)

		created, err := svc.Check(context.Background(), "user-1")
		if err != nil {
			t.Fatalf("Check at 19:%02d error: %v", minute, err)
		}
		if len(created) != 1 {
			t.Fatalf("expected 1 update at 19:%02d, got %d", minute, len(created))
		}

		u := created[0]
		if u.Kind != KindSchedule {
			t.Fatalf("expected kind schedule, got %s", u.Kind)
		}
		if u.Title != "Feeding Reminder" {
			t.Fatalf("expected title 'Feeding Reminder', got %q", u.Title)
		}
		want := time.Date(2026, 3, 10, 19, 30, 0, 0, time.UTC)
		if !u.ScheduledFor.Equal(want) {
			t.Fatalf("expected ScheduledFor %v, got %v", want, u.ScheduledFor)
		}
	}

	repo := newTestRepo()
	now := time.Date(2026, 3, 10, 19, 32, 0, 0, time.UTC)
	svc := newSweepService(repo, petWithSchedule(sch), now)

	created, err := svc.Check(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("Check at 19:32 error: %v", err)
	}
	if len(created) != 0 {
		t.Fatalf("expected no updates at 19:32, got %d", len(created))
	}
}

func TestCheck_Schedule_NotificationsOff_Skipped(t *testing.T) {
	repo := newTestRepo()
	now := time.Date(2026, 3, 10, 19, 30, 0, 0, time.UTC)
	svc := newSweepService(repo, petWithSchedule(pets.Schedule{
		ID:              "sch-1",
		Type:            pets.ScheduleFeeding,
		Time:            "7:30 PM",
		NotificationsOn: false,
	}), now)

	created, err := svc.Check(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("Check error: %v", err)
	}
	if len(created) != 0 {
		t.Fatalf("expected no updates for muted schedule, got %d", len(created))
	}
}

func TestCheck_Idempotent_SecondSweepCreatesNothing(t *testing.T) {
	repo := newTestRepo()
	now := time.Date(2026, 3, 10, 19, 30, 0, 0, time.UTC)
	svc := newSweepService(repo, petWithSchedule(pets.Schedule{
		ID:              "sch-1",
		Type:            pets.ScheduleMedication,
		Time:            "7:30 PM",
		NotificationsOn: true,
	}), now)

	first, err := svc.Check(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("Check #1 error: %v", err)
	}
	if len(first) != 1 {
		t.Fatalf("expected 1 update on first sweep, got %d", len(first))
	}

	// Mismo instante (o dentro de la ventana): nada nuevo.
	svc.now = func() time.Time { return now.Add(time.Minute) }
	second, err := svc.Check(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("Check #2 error: %v", err)
	}
	if len(second) != 0 {
		t.Fatalf("expected no updates on second sweep, got %d", len(second))
	}
	if len(repo.byID) != 1 {
		t.Fatalf("expected 1 stored update, got %d", len(repo.byID))
	}
}

func TestCheck_Schedule_BadTime_SkipsButSiblingsFire(t *testing.T) {
	repo := newTestRepo()
	now := time.Date(2026, 3, 10, 19, 30, 0, 0, time.UTC)
	svc := newSweepService(repo, map[string][]pets.Pet{
		"user-1": {{
			ID:          "pet-1",
			OwnerUserID: "user-1",
			Name:        "Milo",
			Schedules: []pets.Schedule{
				{ID: "sch-bad", Type: pets.ScheduleFeeding, Time: "7:30", NotificationsOn: true},
				{ID: "sch-ok", Type: pets.ScheduleExercise, Time: "7:30 PM", NotificationsOn: true},
			},
		}},
	}, now)

	created, err := svc.Check(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("Check error: %v", err)
	}
	if len(created) != 1 {
		t.Fatalf("expected 1 update (bad time skipped), got %d", len(created))
	}
	if created[0].SourceID != "sch-ok" {
		t.Fatalf("expected update from sch-ok, got %s", created[0].SourceID)
	}
}

// -------------------------
// Sweep: vacunas y visitas
// -------------------------

func TestCheck_Vaccination_DueYesterday_FiresAtNineToday(t *testing.T) {
	repo := newTestRepo()
	now := time.Date(2026, 3, 10, 14, 45, 0, 0, time.UTC)
	svc := newSweepService(repo, map[string][]pets.Pet{
		"user-1": {{
			ID:          "pet-1",
			OwnerUserID: "user-1",
			Name:        "Milo",
			Vaccinations: []pets.Vaccination{{
				ID:              "vac-1",
				Name:            "Rabies",
				NextDueAt:       datePtr(2026, 3, 9),
				NotificationsOn: true,
			}},
		}},
	}, now)

	created, err := svc.Check(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("Check error: %v", err)
	}
	if len(created) != 1 {
		t.Fatalf("expected 1 update, got %d", len(created))
	}

	u := created[0]
	if u.Kind != KindVaccination || u.Title != "Vaccination Due" {
		t.Fatalf("unexpected update %q (%s)", u.Title, u.Kind)
	}
	want := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	if !u.ScheduledFor.Equal(want) {
		t.Fatalf("expected ScheduledFor %v, got %v", want, u.ScheduledFor)
	}
}

func TestCheck_Vaccination_DueTomorrow_DoesNotFire(t *testing.T) {
	repo := newTestRepo()
	now := time.Date(2026, 3, 10, 14, 45, 0, 0, time.UTC)
	svc := newSweepService(repo, map[string][]pets.Pet{
		"user-1": {{
			ID:          "pet-1",
			OwnerUserID: "user-1",
			Name:        "Milo",
			Vaccinations: []pets.Vaccination{{
				ID:              "vac-1",
				Name:            "Rabies",
				NextDueAt:       datePtr(2026, 3, 11),
				NotificationsOn: true,
			}},
		}},
	}, now)

	created, err := svc.Check(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("Check error: %v", err)
	}
	if len(created) != 0 {
		t.Fatalf("expected no updates for future due date, got %d", len(created))
	}
}

func TestCheck_VetVisit_DueToday_Fires(t *testing.T) {
	repo := newTestRepo()
	now := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	svc := newSweepService(repo, map[string][]pets.Pet{
		"user-1": {{
			ID:          "pet-1",
			OwnerUserID: "user-1",
			Name:        "Milo",
			VetVisits: []pets.VetVisit{{
				ID:              "visit-1",
				Reason:          "checkup",
				NextVisitAt:     datePtr(2026, 3, 10),
				NotificationsOn: true,
			}},
		}},
	}, now)

	created, err := svc.Check(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("Check error: %v", err)
	}
	if len(created) != 1 {
		t.Fatalf("expected 1 update, got %d", len(created))
	}
	if created[0].Title != "Vet Visit Reminder" {
		t.Fatalf("expected 'Vet Visit Reminder', got %q", created[0].Title)
	}
}

func TestCheck_StoreFailure_ReturnsCreatedSoFar(t *testing.T) {
	repo := newTestRepo()
	now := time.Date(2026, 3, 10, 19, 30, 0, 0, time.UTC)
	svc := newSweepService(repo, map[string][]pets.Pet{
		"user-1": {{
			ID:          "pet-1",
			OwnerUserID: "user-1",
			Name:        "Milo",
			Schedules: []pets.Schedule{
				{ID: "sch-1", Type: pets.ScheduleFeeding, Time: "7:30 PM", NotificationsOn: true},
				{ID: "sch-2", Type: pets.ScheduleMedication, Time: "7:30 PM", NotificationsOn: true},
			},
		}},
	}, now)

	// El primer insert pasa, después el store se cae.
	boom := errors.New("store down")
	origCreate, err := svc.Check(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("warm-up Check error: %v", err)
	}
	if len(origCreate) != 2 {
		t.Fatalf("expected 2 updates on warm-up, got %d", len(origCreate))
	}

	repo2 := newTestRepo()
	repo2.failCreate = boom
	svc2 := newSweepService(repo2, map[string][]pets.Pet{
		"user-1": {{
			ID:          "pet-1",
			OwnerUserID: "user-1",
			Name:        "Milo",
			Schedules: []pets.Schedule{
				{ID: "sch-1", Type: pets.ScheduleFeeding, Time: "7:30 PM", NotificationsOn: true},
			},
		}},
	}, now)

	created, err := svc2.Check(context.Background(), "user-1")
	if !errors.Is(err, boom) {
		t.Fatalf("expected store error, got %v", err)
	}
	if len(created) != 0 {
		t.Fatalf("expected no created updates before the failure, got %d", len(created))
	}
}

// -------------------------
// Feed y mutaciones
// -------------------------

func TestDismiss_ExcludesFromFeed_AndKeysStaysTaken(t *testing.T) {
	repo := newTestRepo()
	now := time.Date(2026, 3, 10, 19, 30, 0, 0, time.UTC)
	svc := newSweepService(repo, petWithSchedule(pets.Schedule{
		ID:              "sch-1",
		Type:            pets.ScheduleFeeding,
		Time:            "7:30 PM",
		NotificationsOn: true,
	}), now)

	created, err := svc.Check(context.Background(), "user-1")
	if err != nil || len(created) != 1 {
		t.Fatalf("Check error: %v created=%d", err, len(created))
	}

	if err := svc.Dismiss(context.Background(), created[0].ID); err != nil {
		t.Fatalf("Dismiss error: %v", err)
	}

	items, unread, err := svc.List(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(items) != 0 || unread != 0 {
		t.Fatalf("expected empty feed after dismiss, got %d items, %d unread", len(items), unread)
	}

	// Al día siguiente el mismo schedule genera un instante nuevo.
	svc.now = func() time.Time { return now.Add(24 * time.Hour) }
	next, err := svc.Check(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("Check next day error: %v", err)
	}
	if len(next) != 1 {
		t.Fatalf("expected 1 update next day, got %d", len(next))
	}
}

func TestMarkRead_And_MarkAllRead(t *testing.T) {
	repo := newTestRepo()
	now := time.Date(2026, 3, 10, 19, 30, 0, 0, time.UTC)
	svc := newSweepService(repo, map[string][]pets.Pet{
		"user-1": {{
			ID:          "pet-1",
			OwnerUserID: "user-1",
			Name:        "Milo",
			Schedules: []pets.Schedule{
				{ID: "sch-1", Type: pets.ScheduleFeeding, Time: "7:30 PM", NotificationsOn: true},
				{ID: "sch-2", Type: pets.ScheduleMedication, Time: "7:30 PM", NotificationsOn: true},
			},
		}},
	}, now)

	created, err := svc.Check(context.Background(), "user-1")
	if err != nil || len(created) != 2 {
		t.Fatalf("Check error: %v created=%d", err, len(created))
	}

	if err := svc.MarkRead(context.Background(), created[0].ID); err != nil {
		t.Fatalf("MarkRead error: %v", err)
	}
	_, unread, err := svc.List(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if unread != 1 {
		t.Fatalf("expected 1 unread after MarkRead, got %d", unread)
	}

	if err := svc.MarkAllRead(context.Background(), "user-1"); err != nil {
		t.Fatalf("MarkAllRead error: %v", err)
	}
	_, unread, err = svc.List(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if unread != 0 {
		t.Fatalf("expected 0 unread after MarkAllRead, got %d", unread)
	}
}

func TestMarkRead_Unknown_ReturnsNotFound(t *testing.T) {
	repo := newTestRepo()
	svc := newSweepService(repo, map[string][]pets.Pet{}, time.Now())

	if err := svc.MarkRead(context.Background(), "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

// -------------------------
// Create directo
// -------------------------

func TestCreate_Direct_DedupsOnSameKey(t *testing.T) {
	repo := newTestRepo()
	now := time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)
	svc := newSweepService(repo, map[string][]pets.Pet{}, now)

	in := CreateInput{
		UserID:       "user-1",
		Kind:         KindSchedule,
		Title:        "Feeding Reminder",
		SourceID:     "sch-1",
		ScheduledFor: now,
	}

	_, created, err := svc.Create(context.Background(), in)
	if err != nil {
		t.Fatalf("Create #1 error: %v", err)
	}
	if !created {
		t.Fatalf("expected created=true on first insert")
	}

	_, created, err = svc.Create(context.Background(), in)
	if err != nil {
		t.Fatalf("Create #2 error: %v", err)
	}
	if created {
		t.Fatalf("expected created=false on duplicate key")
	}
}

func TestCreate_Direct_RejectsBadInput(t *testing.T) {
	repo := newTestRepo()
	svc := newSweepService(repo, map[string][]pets.Pet{}, time.Now())

	cases := []CreateInput{
		{},
		{UserID: "u", SourceID: "s", Title: "t", Kind: Kind("weird"), ScheduledFor: time.Now()},
		{UserID: "u", SourceID: "s", Title: "t", Kind: KindSchedule}, // sin ScheduledFor
		{UserID: "u", SourceID: "", Title: "t", Kind: KindSchedule, ScheduledFor: time.Now()},
	}
	for i, in := range cases {
		if _, _, err := svc.Create(context.Background(), in); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("case %d: expected ErrInvalidInput, got %v", i, err)
		}
	}
}
