package users

import (
	"context"
	"errors"
	"strings"
	"testing"
)

type testRepo struct {
	byID    map[string]User
	byEmail map[string]User
}

func newTestRepo() *testRepo {
	return &testRepo{byID: map[string]User{}, byEmail: map[string]User{}}
}

func (r *testRepo) Create(ctx context.Context, u User) error {
	if _, ok := r.byEmail[u.Email]; ok {
		return ErrEmailTaken
	}
	r.byID[u.ID] = u
	r.byEmail[u.Email] = u
	return nil
}

func (r *testRepo) GetByID(ctx context.Context, id string) (User, error) {
	u, ok := r.byID[id]
	if !ok {
		return User{}, ErrNotFound
	}
	return u, nil
}

func (r *testRepo) GetByEmail(ctx context.Context, email string) (User, error) {
	u, ok := r.byEmail[email]
	if !ok {
		return User{}, ErrNotFound
	}
	return u, nil
}

// testIssuer emite tokens predecibles para no depender de jwt en estos tests.
type testIssuer struct{}

func (testIssuer) Issue(userID, email string) (string, error) {
	return "token-for-" + userID, nil
}

func TestRegister_HashesPassword_AndNormalizesEmail(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo, nil)

	u, err := svc.Register(context.Background(), RegisterInput{
		Email:    "  Ana@Example.COM ",
		Name:     "Ana",
		Password: "supersecret",
	})
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}
	if u.Email != "ana@example.com" {
		t.Fatalf("expected normalized email, got %q", u.Email)
	}
	if u.PasswordHash == "" || strings.Contains(u.PasswordHash, "supersecret") {
		t.Fatalf("expected hashed password, got %q", u.PasswordHash)
	}
}

func TestRegister_Validation(t *testing.T) {
	svc := NewService(newTestRepo(), nil)

	cases := []RegisterInput{
		{Email: "not-an-email", Password: "supersecret"},
		{Email: "ana@example.com", Password: "short"},
		{Email: "", Password: "supersecret"},
	}
	for i, in := range cases {
		if _, err := svc.Register(context.Background(), in); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("case %d: expected ErrInvalidInput, got %v", i, err)
		}
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc := NewService(newTestRepo(), nil)

	in := RegisterInput{Email: "ana@example.com", Password: "supersecret"}
	if _, err := svc.Register(context.Background(), in); err != nil {
		t.Fatalf("Register #1 error: %v", err)
	}
	if _, err := svc.Register(context.Background(), in); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestLogin(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo, testIssuer{})

	u, err := svc.Register(context.Background(), RegisterInput{
		Email:    "ana@example.com",
		Password: "supersecret",
	})
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}

	logged, token, err := svc.Login(context.Background(), "ANA@example.com", "supersecret")
	if err != nil {
		t.Fatalf("Login error: %v", err)
	}
	if logged.ID != u.ID {
		t.Fatalf("expected same user, got %s vs %s", logged.ID, u.ID)
	}
	if token != "token-for-"+u.ID {
		t.Fatalf("unexpected token %q", token)
	}

	// Password mal y usuario inexistente devuelven el mismo error.
	if _, _, err := svc.Login(context.Background(), "ana@example.com", "wrongpass"); !errors.Is(err, ErrBadCredentials) {
		t.Fatalf("expected ErrBadCredentials, got %v", err)
	}
	if _, _, err := svc.Login(context.Background(), "ghost@example.com", "supersecret"); !errors.Is(err, ErrBadCredentials) {
		t.Fatalf("expected ErrBadCredentials, got %v", err)
	}
}

func TestLogin_WithoutIssuer_ReturnsEmptyToken(t *testing.T) {
	svc := NewService(newTestRepo(), nil)

	if _, err := svc.Register(context.Background(), RegisterInput{
		Email:    "ana@example.com",
		Password: "supersecret",
	}); err != nil {
		t.Fatalf("Register error: %v", err)
	}

	_, token, err := svc.Login(context.Background(), "ana@example.com", "supersecret")
	if err != nil {
		t.Fatalf("Login error: %v", err)
	}
	if token != "" {
		t.Fatalf("expected empty token in dev mode, got %q", token)
	}
}
