package v1

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"contesthub/config"
	"contesthub/database"
	"contesthub/models"
	"contesthub/realtime"
	"contesthub/services"
	"contesthub/utils/response"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const (
	adminEmail   = "admin@x.com"
	creatorEmail = "creator@x.com"
	userEmail    = "user@x.com"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// fakeProvider stubs services.PaymentProvider with function fields
type fakeProvider struct {
	CreateFunc func(ctx context.Context, req services.CheckoutRequest) (*services.CheckoutSession, error)
	GetFunc    func(ctx context.Context, id string) (*services.CheckoutSession, error)
}

func (f *fakeProvider) CreateCheckoutSession(ctx context.Context, req services.CheckoutRequest) (*services.CheckoutSession, error) {
	return f.CreateFunc(ctx, req)
}

func (f *fakeProvider) GetCheckoutSession(ctx context.Context, id string) (*services.CheckoutSession, error) {
	return f.GetFunc(ctx, id)
}

type testEnv struct {
	t        *testing.T
	db       *gorm.DB
	router   *gin.Engine
	provider *fakeProvider
}

// newTestEnv builds the full router on an in-memory store.
// Bearer tokens are taken as the caller's email.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := database.OpenSQLite(":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := database.Populate(db, adminEmail); err != nil {
		t.Fatalf("populate: %v", err)
	}
	db.Create(&models.User{Email: creatorEmail, Name: "Creator", Role: models.RoleCreator})

	verifier := services.VerifierFunc(func(_ context.Context, token string) (*services.Identity, error) {
		if token == "invalid" {
			return nil, services.ErrInvalidCredential
		}
		return &services.Identity{Email: token, Name: "Name of " + token}, nil
	})
	provider := &fakeProvider{}
	cfg := &config.Config{RateLimit: config.RateLimitConfig{Rate: 1000, Burst: 1000}}

	ctx, cancel := context.WithCancel(context.Background())
	hub := realtime.NewHub(64)
	go hub.Run(ctx)
	t.Cleanup(cancel)

	router := NewRouter(cfg, Dependencies{
		DB:           db,
		Verifier:     verifier,
		Users:        services.NewUserService(db, nil),
		Contests:     services.NewContestService(db),
		Participants: services.NewParticipantService(db),
		Payments:     services.NewPaymentService(db, provider, "usd", "http://app.test"),
		Stats:        services.NewStatsService(db),
		Hub:          hub,
		Notifier:     services.NewWinnerNotifier(config.MailConfig{}, "", "usd"),
	})
	return &testEnv{t: t, db: db, router: router, provider: provider}
}

func (e *testEnv) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	e.t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			e.t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
	return v
}

func expectStatus(t *testing.T, w *httptest.ResponseRecorder, status int) {
	t.Helper()
	if w.Code != status {
		t.Fatalf("status = %d, want %d (body %s)", w.Code, status, w.Body.String())
	}
}

// createApprovedContest creates a contest as the creator and approves it as admin
func (e *testEnv) createApprovedContest(input services.ContestInput) string {
	e.t.Helper()
	w := e.do(http.MethodPost, "/contests", creatorEmail, input)
	expectStatus(e.t, w, http.StatusCreated)
	id := *decode[response.InsertResult](e.t, w).InsertedID

	w = e.do(http.MethodPatch, "/admin/contests/"+id+"/status", adminEmail, gin.H{"status": "approved"})
	expectStatus(e.t, w, http.StatusOK)
	return id
}

func (e *testEnv) contest(id string) models.Contest {
	e.t.Helper()
	var c models.Contest
	if err := e.db.First(&c, "id = ?", id).Error; err != nil {
		e.t.Fatalf("load contest: %v", err)
	}
	return c
}
