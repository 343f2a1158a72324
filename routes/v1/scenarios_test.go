package v1

import (
	"context"
	"net/http"
	"testing"

	"contesthub/models"
	"contesthub/services"
	"contesthub/utils/response"
)

func TestRegisterUserTwice(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodPost, "/users", "", map[string]string{"email": "a@x.com", "name": "A"})
	expectStatus(t, w, http.StatusOK)
	first := decode[response.InsertResult](t, w)
	if !first.Acknowledged || first.InsertedID == nil || *first.InsertedID == "" {
		t.Fatalf("first register = %s", w.Body.String())
	}

	w = env.do(http.MethodPost, "/users", "", map[string]string{"email": "a@x.com"})
	expectStatus(t, w, http.StatusOK)
	second := decode[map[string]interface{}](t, w)
	if second["message"] != "User already exists" {
		t.Errorf("message = %v", second["message"])
	}
	if v, ok := second["insertedId"]; !ok || v != nil {
		t.Errorf("insertedId = %v (present %v), want null", v, ok)
	}
}

func TestContestModerationFlow(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodPost, "/contests", creatorEmail, services.ContestInput{Name: "Poster", Type: "design", Price: 5, PrizeMoney: 50})
	expectStatus(t, w, http.StatusCreated)
	id := *decode[response.InsertResult](t, w).InsertedID

	created := env.contest(id)
	if created.Status != models.ContestPending || created.ParticipantsCount != 0 || created.CreatorEmail != creatorEmail {
		t.Fatalf("created contest = %+v", created)
	}

	w = env.do(http.MethodGet, "/contests", "", nil)
	expectStatus(t, w, http.StatusOK)
	if got := decode[[]models.Contest](t, w); len(got) != 0 {
		t.Fatalf("pending contest is publicly listed: %+v", got)
	}

	w = env.do(http.MethodPatch, "/admin/contests/"+id+"/status", creatorEmail, map[string]string{"status": "approved"})
	expectStatus(t, w, http.StatusForbidden)
	w = env.do(http.MethodPatch, "/admin/contests/"+id+"/status", adminEmail, map[string]string{"status": "published"})
	expectStatus(t, w, http.StatusBadRequest)
	w = env.do(http.MethodPatch, "/admin/contests/"+id+"/status", adminEmail, map[string]string{"status": "approved"})
	expectStatus(t, w, http.StatusOK)

	w = env.do(http.MethodGet, "/contests?type=design", "", nil)
	expectStatus(t, w, http.StatusOK)
	listed := decode[[]models.Contest](t, w)
	if len(listed) != 1 || listed[0].ID != id || listed[0].Status != models.ContestApproved {
		t.Errorf("approved contest listing = %+v", listed)
	}

	w = env.do(http.MethodGet, "/admin/contests?page=1&limit=5", adminEmail, nil)
	expectStatus(t, w, http.StatusOK)
	if page := decode[services.ContestList](t, w); page.Total != 1 {
		t.Errorf("admin list total = %d", page.Total)
	}
}

func TestDuplicateParticipantRegistration(t *testing.T) {
	env := newTestEnv(t)
	id := env.createApprovedContest(services.ContestInput{Name: "Free", Type: "writing"})

	w := env.do(http.MethodPost, "/participants", userEmail, map[string]string{"contestId": id})
	expectStatus(t, w, http.StatusOK)
	if first := decode[response.InsertResult](t, w); first.InsertedID == nil {
		t.Fatalf("first registration = %s", w.Body.String())
	}

	w = env.do(http.MethodPost, "/participants", userEmail, map[string]string{"contestId": id})
	expectStatus(t, w, http.StatusOK)
	second := decode[map[string]interface{}](t, w)
	if second["message"] != "Already registered" || second["insertedId"] != nil {
		t.Errorf("second registration = %s", w.Body.String())
	}

	if got := env.contest(id).ParticipantsCount; got != 1 {
		t.Errorf("participantsCount = %d, want 1", got)
	}

	w = env.do(http.MethodGet, "/participants/check?contestId="+id, userEmail, nil)
	expectStatus(t, w, http.StatusOK)
	if check := decode[map[string]interface{}](t, w); check["registered"] != true {
		t.Errorf("check = %s", w.Body.String())
	}
	w = env.do(http.MethodGet, "/participants/check?contestId="+id+"&email="+userEmail, "someone@x.com", nil)
	expectStatus(t, w, http.StatusForbidden)

	w = env.do(http.MethodPost, "/participants", userEmail, map[string]string{"contestId": "missing"})
	expectStatus(t, w, http.StatusNotFound)
}

func TestUnpaidVerificationWritesNothing(t *testing.T) {
	env := newTestEnv(t)
	id := env.createApprovedContest(services.ContestInput{Name: "Paid", Type: "coding", Price: 10})
	env.provider.GetFunc = func(context.Context, string) (*services.CheckoutSession, error) {
		return &services.CheckoutSession{
			ID:            "cs_unpaid",
			PaymentStatus: "unpaid",
			Metadata:      map[string]string{services.MetaContestID: id, services.MetaUserEmail: userEmail},
		}, nil
	}

	w := env.do(http.MethodPost, "/verify-payment", userEmail, map[string]string{"sessionId": "cs_unpaid"})
	expectStatus(t, w, http.StatusBadRequest)
	if body := decode[map[string]string](t, w); body["message"] != "Payment not completed" {
		t.Errorf("message = %q", body["message"])
	}

	var payments, participants int64
	env.db.Model(&models.Payment{}).Count(&payments)
	env.db.Model(&models.Participant{}).Count(&participants)
	if payments != 0 || participants != 0 {
		t.Errorf("wrote %d payments and %d participants", payments, participants)
	}
	if got := env.contest(id).ParticipantsCount; got != 0 {
		t.Errorf("participantsCount = %d", got)
	}
}
