package v1

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"contesthub/models"
	"contesthub/services"
	"contesthub/utils/response"
)

func TestAuthenticationErrors(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodGet, "/users", "", nil)
	expectStatus(t, w, http.StatusUnauthorized)
	if body := decode[map[string]string](t, w); body["message"] != "Unauthorized access" {
		t.Errorf("missing token message = %q", body["message"])
	}

	w = env.do(http.MethodGet, "/users", "invalid", nil)
	expectStatus(t, w, http.StatusUnauthorized)
	if body := decode[map[string]string](t, w); body["message"] != "Invalid Token" {
		t.Errorf("invalid token message = %q", body["message"])
	}

	w = env.do(http.MethodGet, "/users", userEmail, nil)
	expectStatus(t, w, http.StatusForbidden)
	if body := decode[map[string]string](t, w); body["message"] != "Forbidden access" {
		t.Errorf("forbidden message = %q", body["message"])
	}

	w = env.do(http.MethodPost, "/contests", userEmail, services.ContestInput{Name: "x", Type: "y"})
	expectStatus(t, w, http.StatusForbidden)
}

func TestPublicRoutes(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodGet, "/", "", nil)
	expectStatus(t, w, http.StatusOK)
	if w.Body.String() != "ContestHub is on Air!" {
		t.Errorf("banner = %q", w.Body.String())
	}
	expectStatus(t, env.do(http.MethodGet, "/health", "", nil), http.StatusOK)
	expectStatus(t, env.do(http.MethodGet, "/contests/popular", "", nil), http.StatusOK)
	expectStatus(t, env.do(http.MethodGet, "/contests/nope", "", nil), http.StatusNotFound)
	expectStatus(t, env.do(http.MethodGet, "/stats", "", nil), http.StatusOK)
	expectStatus(t, env.do(http.MethodGet, "/leaderboard?filter=week", "", nil), http.StatusOK)
	expectStatus(t, env.do(http.MethodGet, "/leaderboard?filter=year", "", nil), http.StatusBadRequest)
	expectStatus(t, env.do(http.MethodGet, "/ws/contests/nope", "", nil), http.StatusNotFound)

	w = env.do(http.MethodGet, "/metrics", "", nil)
	expectStatus(t, w, http.StatusOK)
	if !strings.Contains(w.Body.String(), "contesthub_http_requests_total") {
		t.Error("metrics output lacks the request counter")
	}
}

func TestUserProfileAndRole(t *testing.T) {
	env := newTestEnv(t)
	env.do(http.MethodPost, "/users", "", map[string]string{"email": userEmail, "name": "Old"})

	w := env.do(http.MethodGet, "/users/"+userEmail+"/role", userEmail, nil)
	expectStatus(t, w, http.StatusOK)
	if body := decode[map[string]string](t, w); body["role"] != "user" {
		t.Errorf("role = %q", body["role"])
	}

	w = env.do(http.MethodGet, "/users/nobody@x.com/role", "nobody@x.com", nil)
	expectStatus(t, w, http.StatusOK)
	if body := decode[map[string]string](t, w); body["role"] != "user" {
		t.Errorf("unknown user role = %q", body["role"])
	}

	w = env.do(http.MethodPatch, "/users/"+userEmail, userEmail, map[string]string{"name": "New", "role": "admin"})
	expectStatus(t, w, http.StatusOK)
	patched := decode[models.User](t, w)
	if patched.Name != "New" || patched.Role != models.RoleUser {
		t.Errorf("patched user = %+v", patched)
	}

	expectStatus(t, env.do(http.MethodGet, "/users/"+userEmail, "other@x.com", nil), http.StatusForbidden)
	expectStatus(t, env.do(http.MethodGet, "/users/"+userEmail, adminEmail, nil), http.StatusOK)

	w = env.do(http.MethodGet, "/users/ghost@x.com", "ghost@x.com", nil)
	expectStatus(t, w, http.StatusOK)
	if strings.TrimSpace(w.Body.String()) != "null" {
		t.Errorf("missing profile body = %s", w.Body.String())
	}

	expectStatus(t, env.do(http.MethodPatch, "/users/"+patched.ID+"/role", userEmail, map[string]string{"role": "admin"}), http.StatusForbidden)
	expectStatus(t, env.do(http.MethodPatch, "/users/"+patched.ID+"/role", adminEmail, map[string]string{"role": "boss"}), http.StatusBadRequest)
	w = env.do(http.MethodPatch, "/users/"+patched.ID+"/role", adminEmail, map[string]string{"role": "creator"})
	expectStatus(t, w, http.StatusOK)
	if got := decode[models.User](t, w); got.Role != models.RoleCreator {
		t.Errorf("role after change = %q", got.Role)
	}

	w = env.do(http.MethodGet, "/users?search=new", adminEmail, nil)
	expectStatus(t, w, http.StatusOK)
	if list := decode[services.UserList](t, w); list.Total != 1 {
		t.Errorf("search total = %d", list.Total)
	}
}

func TestContestOwnership(t *testing.T) {
	env := newTestEnv(t)
	id := env.createApprovedContest(services.ContestInput{Name: "Mine", Type: "art"})
	env.db.Create(&models.User{Email: "rival@x.com", Role: models.RoleCreator})

	expectStatus(t, env.do(http.MethodPatch, "/contests/"+id, "rival@x.com", map[string]string{"name": "Stolen"}), http.StatusForbidden)
	w := env.do(http.MethodPatch, "/contests/"+id, creatorEmail, map[string]interface{}{"name": "Renamed", "status": "rejected"})
	expectStatus(t, w, http.StatusOK)
	if got := decode[models.Contest](t, w); got.Name != "Renamed" || got.Status != models.ContestApproved {
		t.Errorf("updated contest = %+v", got)
	}

	w = env.do(http.MethodGet, "/contests/creator/"+creatorEmail, creatorEmail, nil)
	expectStatus(t, w, http.StatusOK)
	if got := decode[[]models.Contest](t, w); len(got) != 1 {
		t.Errorf("creator contests = %d", len(got))
	}
	expectStatus(t, env.do(http.MethodGet, "/contests/creator/"+creatorEmail, "rival@x.com", nil), http.StatusForbidden)

	expectStatus(t, env.do(http.MethodDelete, "/contests/"+id, userEmail, nil), http.StatusForbidden)
	expectStatus(t, env.do(http.MethodDelete, "/contests/"+id, "rival@x.com", nil), http.StatusForbidden)
	expectStatus(t, env.do(http.MethodDelete, "/contests/"+id, creatorEmail, nil), http.StatusOK)
	expectStatus(t, env.do(http.MethodGet, "/contests/"+id, "", nil), http.StatusNotFound)
}

func TestSubmissionAndWinnerFlow(t *testing.T) {
	env := newTestEnv(t)
	id := env.createApprovedContest(services.ContestInput{Name: "Essay", Type: "writing", PrizeMoney: 120})

	w := env.do(http.MethodPost, "/participants", userEmail, map[string]string{"contestId": id})
	expectStatus(t, w, http.StatusOK)
	participantID := *decode[response.InsertResult](t, w).InsertedID

	expectStatus(t, env.do(http.MethodPatch, "/participants/"+participantID+"/submit", "thief@x.com", map[string]string{"submittedTask": "x"}), http.StatusForbidden)
	expectStatus(t, env.do(http.MethodPatch, "/participants/"+participantID+"/submit", userEmail, map[string]string{}), http.StatusBadRequest)
	w = env.do(http.MethodPatch, "/participants/"+participantID+"/submit", userEmail, map[string]string{"submittedTask": "https://essay.example"})
	expectStatus(t, w, http.StatusOK)

	w = env.do(http.MethodGet, "/submissions/"+id, creatorEmail, nil)
	expectStatus(t, w, http.StatusOK)
	if subs := decode[[]models.Participant](t, w); len(subs) != 1 || subs[0].SubmittedTask == nil {
		t.Errorf("submissions = %+v", subs)
	}
	expectStatus(t, env.do(http.MethodGet, "/submissions/"+id, userEmail, nil), http.StatusForbidden)

	w = env.do(http.MethodGet, "/submissions/"+id+"/export", creatorEmail, nil)
	expectStatus(t, w, http.StatusOK)
	if ct := w.Header().Get("Content-Type"); !strings.Contains(ct, "spreadsheetml") {
		t.Errorf("export content type = %q", ct)
	}

	expectStatus(t, env.do(http.MethodPatch, "/contests/"+id+"/winner", creatorEmail, map[string]string{"winnerEmail": "stranger@x.com"}), http.StatusNotFound)
	w = env.do(http.MethodPatch, "/contests/"+id+"/winner", creatorEmail, map[string]string{"winnerEmail": userEmail})
	expectStatus(t, w, http.StatusOK)
	expectStatus(t, env.do(http.MethodPatch, "/contests/"+id+"/winner", creatorEmail, map[string]string{"winnerEmail": userEmail}), http.StatusConflict)

	w = env.do(http.MethodGet, "/contests/"+id, "", nil)
	expectStatus(t, w, http.StatusOK)
	if got := decode[models.Contest](t, w); got.WinnerEmail == nil || *got.WinnerEmail != userEmail {
		t.Errorf("contest winner = %v", got.WinnerEmail)
	}

	w = env.do(http.MethodGet, "/winners/"+userEmail, userEmail, nil)
	expectStatus(t, w, http.StatusOK)
	if wins := decode[[]models.Participant](t, w); len(wins) != 1 || wins[0].ContestID != id {
		t.Errorf("wins = %+v", wins)
	}

	w = env.do(http.MethodGet, "/leaderboard", "", nil)
	expectStatus(t, w, http.StatusOK)
	board := decode[[]services.LeaderboardEntry](t, w)
	if len(board) != 1 || board[0].UserEmail != userEmail || board[0].TotalPrize != 120 {
		t.Errorf("leaderboard = %+v", board)
	}

	w = env.do(http.MethodGet, "/stats", "", nil)
	expectStatus(t, w, http.StatusOK)
	if stats := decode[services.PlatformStats](t, w); stats.TotalWinners != 1 || stats.TotalPrizeMoney != 120 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestPaidCheckoutFlow(t *testing.T) {
	env := newTestEnv(t)
	id := env.createApprovedContest(services.ContestInput{Name: "Paid", Type: "coding", Price: 12.5})

	w := env.do(http.MethodPost, "/participants", userEmail, map[string]string{"contestId": id})
	expectStatus(t, w, http.StatusBadRequest)
	if body := decode[map[string]string](t, w); body["message"] != "Contest requires payment" {
		t.Errorf("free registration on paid contest = %s", w.Body.String())
	}

	var requested services.CheckoutRequest
	env.provider.CreateFunc = func(_ context.Context, req services.CheckoutRequest) (*services.CheckoutSession, error) {
		requested = req
		return &services.CheckoutSession{ID: "cs_1", URL: "https://checkout.test/cs_1"}, nil
	}
	env.provider.GetFunc = func(_ context.Context, sessionID string) (*services.CheckoutSession, error) {
		return &services.CheckoutSession{
			ID:            sessionID,
			PaymentStatus: services.PaymentStatusPaid,
			AmountTotal:   requested.AmountMinor,
			Currency:      requested.Currency,
			Metadata:      requested.Metadata,
		}, nil
	}

	w = env.do(http.MethodPost, "/create-payment-intent", userEmail, map[string]interface{}{"contestId": id, "price": 0.01})
	expectStatus(t, w, http.StatusOK)
	if body := decode[map[string]string](t, w); body["url"] != "https://checkout.test/cs_1" {
		t.Errorf("checkout body = %s", w.Body.String())
	}
	if requested.AmountMinor != 1250 {
		t.Errorf("charged %d minor units, want 1250", requested.AmountMinor)
	}

	expectStatus(t, env.do(http.MethodPost, "/verify-payment", "other@x.com", map[string]string{"sessionId": "cs_1"}), http.StatusForbidden)

	w = env.do(http.MethodPost, "/verify-payment", userEmail, map[string]string{"sessionId": "cs_1"})
	expectStatus(t, w, http.StatusOK)
	if body := decode[map[string]interface{}](t, w); body["success"] != true || body["alreadyRegistered"] != false {
		t.Errorf("verify body = %s", w.Body.String())
	}
	w = env.do(http.MethodPost, "/verify-payment", userEmail, map[string]string{"sessionId": "cs_1"})
	expectStatus(t, w, http.StatusOK)
	if body := decode[map[string]interface{}](t, w); body["alreadyRegistered"] != true {
		t.Errorf("re-verify body = %s", w.Body.String())
	}
	if got := env.contest(id).ParticipantsCount; got != 1 {
		t.Errorf("participantsCount = %d, want 1", got)
	}

	w = env.do(http.MethodGet, "/payments/"+userEmail, userEmail, nil)
	expectStatus(t, w, http.StatusOK)
	if history := decode[[]models.Payment](t, w); len(history) != 1 || history[0].Amount != 12.5 {
		t.Errorf("payment history = %+v", history)
	}
	expectStatus(t, env.do(http.MethodGet, "/payments/"+userEmail, "other@x.com", nil), http.StatusForbidden)

	w = env.do(http.MethodPost, "/create-payment-intent", userEmail, map[string]string{"contestId": id})
	expectStatus(t, w, http.StatusBadRequest)
	if body := decode[map[string]string](t, w); body["message"] != "Already registered" {
		t.Errorf("message = %q", body["message"])
	}
}

func TestPaymentProviderFailures(t *testing.T) {
	env := newTestEnv(t)
	id := env.createApprovedContest(services.ContestInput{Name: "Paid", Type: "coding", Price: 3})
	env.provider.CreateFunc = func(context.Context, services.CheckoutRequest) (*services.CheckoutSession, error) {
		return nil, errors.New("provider down")
	}
	env.provider.GetFunc = func(context.Context, string) (*services.CheckoutSession, error) {
		return nil, errors.New("provider down")
	}

	w := env.do(http.MethodPost, "/create-payment-intent", userEmail, map[string]string{"contestId": id})
	expectStatus(t, w, http.StatusInternalServerError)
	if body := decode[map[string]string](t, w); body["message"] != "Failed to create payment session" {
		t.Errorf("message = %q", body["message"])
	}

	w = env.do(http.MethodPost, "/verify-payment", userEmail, map[string]string{"sessionId": "cs"})
	expectStatus(t, w, http.StatusInternalServerError)
	if body := decode[map[string]string](t, w); body["message"] != "Payment verification failed" {
		t.Errorf("message = %q", body["message"])
	}
}
