package services

import (
	"context"
	"testing"
	"time"

	"contesthub/database"
	"contesthub/models"

	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.OpenSQLite(":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func seedContest(t *testing.T, db *gorm.DB, c models.Contest) *models.Contest {
	t.Helper()
	if c.CreatorEmail == "" {
		c.CreatorEmail = "creator@example.com"
	}
	if c.Status == "" {
		c.Status = models.ContestApproved
	}
	if err := db.Create(&c).Error; err != nil {
		t.Fatalf("seed contest: %v", err)
	}
	return &c
}

func seedParticipant(t *testing.T, db *gorm.DB, p models.Participant) *models.Participant {
	t.Helper()
	if err := db.Create(&p).Error; err != nil {
		t.Fatalf("seed participant: %v", err)
	}
	return &p
}

func reloadContest(t *testing.T, db *gorm.DB, id string) models.Contest {
	t.Helper()
	var c models.Contest
	if err := db.First(&c, "id = ?", id).Error; err != nil {
		t.Fatalf("reload contest: %v", err)
	}
	return c
}

func timePtr(t time.Time) *time.Time { return &t }
func floatPtr(f float64) *float64    { return &f }

// fakeRoleCache records calls so tests can assert on invalidation
type fakeRoleCache struct {
	roles       map[string]models.Role
	invalidated []string
}

func newFakeRoleCache() *fakeRoleCache {
	return &fakeRoleCache{roles: map[string]models.Role{}}
}

func (f *fakeRoleCache) Get(_ context.Context, email string) (models.Role, bool) {
	r, ok := f.roles[email]
	return r, ok
}

func (f *fakeRoleCache) Set(_ context.Context, email string, role models.Role) {
	f.roles[email] = role
}

func (f *fakeRoleCache) Invalidate(_ context.Context, email string) {
	delete(f.roles, email)
	f.invalidated = append(f.invalidated, email)
}
