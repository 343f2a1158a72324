package services

import (
	"context"
	"errors"
	"testing"

	"contesthub/models"
)

func TestRegisterParticipantRequiresOpenFreeContest(t *testing.T) {
	db := newTestDB(t)
	svc := NewParticipantService(db)
	ctx := context.Background()
	paid := seedContest(t, db, models.Contest{Name: "paid", Type: "t", Price: 5})
	pending := seedContest(t, db, models.Contest{Name: "pending", Type: "t", Status: models.ContestPending})
	rejected := seedContest(t, db, models.Contest{Name: "rejected", Type: "t", Status: models.ContestRejected})
	seedParticipant(t, db, models.Participant{ContestID: paid.ID, UserEmail: "buyer@x.com"})

	cases := []struct {
		contest string
		want    error
	}{
		{paid.ID, ErrPaymentRequired},
		{pending.ID, ErrContestClosed},
		{rejected.ID, ErrContestClosed},
	}
	for _, c := range cases {
		if _, created, err := svc.Register(ctx, c.contest, Registrant{Email: "u@x.com"}); !errors.Is(err, c.want) || created {
			t.Errorf("Register(%s) = %v, %v, want %v", c.contest, created, err, c.want)
		}
	}

	existing, created, err := svc.Register(ctx, paid.ID, Registrant{Email: "Buyer@x.com"})
	if err != nil || created || existing == nil {
		t.Errorf("paid member Register = %v, %v, %v", existing, created, err)
	}

	var participants int64
	db.Model(&models.Participant{}).Count(&participants)
	if participants != 1 {
		t.Errorf("participants = %d, want 1", participants)
	}
	if got := reloadContest(t, db, paid.ID).ParticipantsCount; got != 0 {
		t.Errorf("paid participants_count = %d, want 0", got)
	}
}

func TestRegisterParticipantCountsOnce(t *testing.T) {
	db := newTestDB(t)
	svc := NewParticipantService(db)
	ctx := context.Background()
	contest := seedContest(t, db, models.Contest{Name: "c", Type: "t"})
	user := Registrant{Email: "U@x.com", Name: "U", Photo: "u.png"}

	first, created, err := svc.Register(ctx, contest.ID, user)
	if err != nil || !created {
		t.Fatalf("first Register = %v, %v", created, err)
	}
	if first.ContestName != "c" || first.UserEmail != "u@x.com" || first.IsWinner {
		t.Errorf("participant = %+v", first)
	}

	second, created, err := svc.Register(ctx, contest.ID, user)
	if err != nil {
		t.Fatalf("second Register: %v", err)
	}
	if created || second.ID != first.ID {
		t.Errorf("duplicate registration created a row: %+v", second)
	}
	if got := reloadContest(t, db, contest.ID).ParticipantsCount; got != 1 {
		t.Errorf("participants_count = %d, want 1", got)
	}

	if _, _, err := svc.Register(ctx, "missing", user); !errors.Is(err, ErrContestNotFound) {
		t.Errorf("missing contest err = %v", err)
	}
}

func TestCheckRegistration(t *testing.T) {
	db := newTestDB(t)
	svc := NewParticipantService(db)
	ctx := context.Background()
	contest := seedContest(t, db, models.Contest{Name: "c", Type: "t"})

	if p, err := svc.CheckRegistration(ctx, contest.ID, "u@x.com"); err != nil || p != nil {
		t.Errorf("before register = %v, %v", p, err)
	}
	svc.Register(ctx, contest.ID, Registrant{Email: "u@x.com"})
	if p, err := svc.CheckRegistration(ctx, contest.ID, "U@X.COM"); err != nil || p == nil {
		t.Errorf("after register = %v, %v", p, err)
	}
}

func TestSubmitTaskRequiresOwner(t *testing.T) {
	db := newTestDB(t)
	svc := NewParticipantService(db)
	ctx := context.Background()
	contest := seedContest(t, db, models.Contest{Name: "c", Type: "t"})
	p, _, _ := svc.Register(ctx, contest.ID, Registrant{Email: "u@x.com"})

	if _, err := svc.SubmitTask(ctx, p.ID, "thief@x.com", "mine"); !errors.Is(err, ErrNotOwner) {
		t.Errorf("stranger submit err = %v", err)
	}
	if _, err := svc.SubmitTask(ctx, "missing", "u@x.com", "x"); !errors.Is(err, ErrParticipantNotFound) {
		t.Errorf("missing participant err = %v", err)
	}

	got, err := svc.SubmitTask(ctx, p.ID, "u@x.com", "https://github.com/u/entry")
	if err != nil {
		t.Fatalf("SubmitTask: %v", err)
	}
	if got.SubmittedTask == nil || *got.SubmittedTask != "https://github.com/u/entry" || got.SubmittedAt == nil {
		t.Errorf("submitted participant = %+v", got)
	}

	subs, err := svc.ListSubmissions(ctx, contest.ID)
	if err != nil || len(subs) != 1 {
		t.Fatalf("ListSubmissions = %d, %v", len(subs), err)
	}
}

func TestListByUserAndWins(t *testing.T) {
	db := newTestDB(t)
	svc := NewParticipantService(db)
	ctx := context.Background()
	a := seedContest(t, db, models.Contest{Name: "a", Type: "t"})
	b := seedContest(t, db, models.Contest{Name: "b", Type: "t"})
	svc.Register(ctx, a.ID, Registrant{Email: "u@x.com"})
	svc.Register(ctx, b.ID, Registrant{Email: "u@x.com"})
	svc.Register(ctx, b.ID, Registrant{Email: "other@x.com"})

	all, err := svc.ListByUser(ctx, "u@x.com")
	if err != nil || len(all) != 2 {
		t.Fatalf("ListByUser = %d, %v", len(all), err)
	}

	contests := NewContestService(db)
	if _, _, err := contests.DeclareWinner(ctx, b.ID, Winner{Email: "u@x.com"}, Actor{Role: models.RoleAdmin}); err != nil {
		t.Fatalf("DeclareWinner: %v", err)
	}
	wins, err := svc.ListWinsByUser(ctx, "u@x.com")
	if err != nil || len(wins) != 1 || wins[0].ContestID != b.ID {
		t.Errorf("ListWinsByUser = %+v, %v", wins, err)
	}
	if wins, _ := svc.ListWinsByUser(ctx, "other@x.com"); len(wins) != 0 {
		t.Errorf("loser has %d wins", len(wins))
	}
}
