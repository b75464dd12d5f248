package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/campusmart/campusmart/internal/cache"
	"github.com/campusmart/campusmart/internal/repository"
	"github.com/campusmart/campusmart/internal/storage"
	"github.com/campusmart/campusmart/internal/testutil"
)

type integrationDeps struct {
	repo  *repository.Repository
	cache *cache.Cache
}

func setupIntegration(t *testing.T) *integrationDeps {
	t.Helper()

	databaseURL := testutil.RequireEnv(t, "DATABASE_URL")
	redisURL := testutil.RequireEnv(t, "REDIS_URL")

	ctx := context.Background()

	repo, err := repository.New(ctx, databaseURL)
	if err != nil {
		t.Fatalf("connect database: %v", err)
	}
	t.Cleanup(repo.Close)

	unlock, err := testutil.AcquireDBLock(ctx, repo.Pool())
	if err != nil {
		t.Fatalf("acquire db lock: %v", err)
	}
	t.Cleanup(func() {
		if err := unlock(); err != nil {
			t.Errorf("release db lock: %v", err)
		}
	})

	if err := testutil.ResetSchema(ctx, repo.Pool()); err != nil {
		t.Fatalf("reset schema: %v", err)
	}

	c, err := cache.New(ctx, redisURL)
	if err != nil {
		t.Fatalf("connect redis: %v", err)
	}
	t.Cleanup(func() { c.Close() })

	if err := testutil.FlushRedis(ctx, c.Client()); err != nil {
		t.Fatalf("flush redis: %v", err)
	}

	return &integrationDeps{repo: repo, cache: c}
}

func TestAuthFlowIntegration(t *testing.T) {
	deps := setupIntegration(t)
	ctx := context.Background()

	svc := NewAuthService(deps.repo, deps.cache, time.Hour, nil)

	user, err := svc.SignUp(ctx, SignUpInput{
		Email:    "Jo@Campus.EDU",
		Password: "hunter2hunter2",
		Username: "jo",
	})
	if err != nil {
		t.Fatalf("SignUp: %v", err)
	}
	if user.Email != "jo@campus.edu" {
		t.Errorf("email not normalized: %s", user.Email)
	}

	// Signup does not start a session; login is a separate step.
	if _, err := svc.SignUp(ctx, SignUpInput{Email: "jo@campus.edu", Password: "other"}); !errors.Is(err, ErrEmailTaken) {
		t.Errorf("duplicate SignUp = %v, want ErrEmailTaken", err)
	}

	if _, _, err := svc.SignIn(ctx, "jo@campus.edu", "wrong-password"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("SignIn with wrong password = %v, want ErrInvalidCredentials", err)
	}
	if _, _, err := svc.SignIn(ctx, "nobody@campus.edu", "hunter2hunter2"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("SignIn for unknown account = %v, want ErrInvalidCredentials", err)
	}

	identity, token, err := svc.SignIn(ctx, "jo@campus.edu", "hunter2hunter2")
	if err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	if identity.UserID != user.ID || identity.Username != "jo" {
		t.Errorf("unexpected identity: %+v", identity)
	}

	resolved, err := svc.SessionFromToken(ctx, token)
	if err != nil {
		t.Fatalf("SessionFromToken: %v", err)
	}
	if resolved == nil || resolved.UserID != user.ID {
		t.Errorf("session did not resolve to the signed-in user: %+v", resolved)
	}

	if err := svc.SignOut(ctx, token); err != nil {
		t.Fatalf("SignOut: %v", err)
	}

	resolved, err = svc.SessionFromToken(ctx, token)
	if err != nil {
		t.Fatalf("SessionFromToken after SignOut: %v", err)
	}
	if resolved != nil {
		t.Errorf("session survived SignOut: %+v", resolved)
	}
}

func TestListingFlowIntegration(t *testing.T) {
	deps := setupIntegration(t)
	ctx := context.Background()

	authSvc := NewAuthService(deps.repo, deps.cache, time.Hour, nil)
	store, err := storage.New(t.TempDir(), "http://localhost:8080")
	if err != nil {
		t.Fatalf("storage.New: %v", err)
	}
	svc := NewListingService(deps.repo, store, nil)

	owner, err := authSvc.SignUp(ctx, SignUpInput{Email: "seller@campus.edu", Password: "hunter2hunter2"})
	if err != nil {
		t.Fatalf("SignUp: %v", err)
	}

	first, err := svc.Create(ctx, CreateListingInput{
		Title:           "Calculus textbook",
		Category:        "Books",
		TransactionKind: "sell",
		PriceInput:      "450",
		OwnerID:         owner.ID,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if first.Price == nil || *first.Price != 450 {
		t.Errorf("sell listing price = %v, want 450", first.Price)
	}

	time.Sleep(10 * time.Millisecond) // keep created_at strictly increasing

	second, err := svc.Create(ctx, CreateListingInput{
		Title:           "Desk lamp",
		Category:        "Household",
		TransactionKind: "donate",
		PriceInput:      "999", // ignored for donate
		OwnerID:         owner.ID,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if second.Price != nil {
		t.Errorf("donate listing stored a price: %d", *second.Price)
	}

	listings, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(listings) != 2 {
		t.Fatalf("List returned %d listings, want 2", len(listings))
	}
	// Newest first.
	if listings[0].ID != second.ID || listings[1].ID != first.ID {
		t.Errorf("listings not ordered newest first: %s, %s", listings[0].Title, listings[1].Title)
	}
	if listings[1].Price == nil || *listings[1].Price != 450 {
		t.Errorf("price lost on round trip: %v", listings[1].Price)
	}
}
