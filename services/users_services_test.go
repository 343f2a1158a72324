package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"contesthub/models"
)

func TestRegisterUserIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db, nil)
	ctx := context.Background()

	first, created, err := svc.Register(ctx, "A@x.com", "Alice", "a.png")
	if err != nil || !created {
		t.Fatalf("first Register = %v, %v", created, err)
	}
	if first.Role != models.RoleUser || first.Email != "a@x.com" {
		t.Errorf("unexpected user %+v", first)
	}

	second, created, err := svc.Register(ctx, "a@x.com", "Other", "")
	if err != nil {
		t.Fatalf("second Register: %v", err)
	}
	if created {
		t.Error("second Register reported a new user")
	}
	if second.ID != first.ID || second.Name != "Alice" {
		t.Errorf("second Register returned %+v", second)
	}

	var count int64
	db.Model(&models.User{}).Count(&count)
	if count != 1 {
		t.Errorf("user count = %d, want 1", count)
	}
}

func TestGetRoleDefaultsToUser(t *testing.T) {
	svc := NewUserService(newTestDB(t), nil)

	role, err := svc.GetRole(context.Background(), "nobody@x.com")
	if err != nil {
		t.Fatalf("GetRole: %v", err)
	}
	if role != models.RoleUser {
		t.Errorf("role = %q, want user", role)
	}
}

func TestGetRoleUsesCache(t *testing.T) {
	db := newTestDB(t)
	cache := newFakeRoleCache()
	svc := NewUserService(db, cache)
	ctx := context.Background()

	db.Create(&models.User{Email: "c@x.com", Role: models.RoleCreator})
	if role, _ := svc.GetRole(ctx, "c@x.com"); role != models.RoleCreator {
		t.Fatalf("role = %q, want creator", role)
	}
	if cache.roles["c@x.com"] != models.RoleCreator {
		t.Error("role was not cached")
	}

	cache.roles["c@x.com"] = models.RoleAdmin
	if role, _ := svc.GetRole(ctx, "c@x.com"); role != models.RoleAdmin {
		t.Errorf("cached role ignored, got %q", role)
	}
}

func TestSetRole(t *testing.T) {
	db := newTestDB(t)
	cache := newFakeRoleCache()
	svc := NewUserService(db, cache)
	ctx := context.Background()

	user, _, _ := svc.Register(ctx, "u@x.com", "U", "")
	cache.roles["u@x.com"] = models.RoleUser

	updated, err := svc.SetRole(ctx, user.ID, "creator")
	if err != nil {
		t.Fatalf("SetRole: %v", err)
	}
	if updated.Role != models.RoleCreator {
		t.Errorf("returned role = %q", updated.Role)
	}
	if len(cache.invalidated) != 1 || cache.invalidated[0] != "u@x.com" {
		t.Errorf("cache invalidations = %v", cache.invalidated)
	}
	if role, _ := svc.GetRole(ctx, "u@x.com"); role != models.RoleCreator {
		t.Errorf("stored role = %q, want creator", role)
	}

	if _, err := svc.SetRole(ctx, user.ID, "owner"); !errors.Is(err, ErrInvalidRole) {
		t.Errorf("invalid role err = %v", err)
	}
	if _, err := svc.SetRole(ctx, "missing", "admin"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("missing user err = %v", err)
	}
}

func TestUpdateProfileOnlyTouchesAllowedFields(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db, nil)
	ctx := context.Background()
	svc.Register(ctx, "p@x.com", "Old", "old.png")

	name := "  New Name "
	updated, err := svc.UpdateProfile(ctx, "p@x.com", ProfileUpdate{Name: &name})
	if err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}
	if updated.Name != "New Name" || updated.Photo != "old.png" || updated.Role != models.RoleUser {
		t.Errorf("unexpected profile %+v", updated)
	}

	if _, err := svc.UpdateProfile(ctx, "ghost@x.com", ProfileUpdate{Name: &name}); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("missing user err = %v", err)
	}
}

func TestGetProfileMissingReturnsNil(t *testing.T) {
	svc := NewUserService(newTestDB(t), nil)
	user, err := svc.GetProfile(context.Background(), "ghost@x.com")
	if err != nil || user != nil {
		t.Errorf("GetProfile = %v, %v; want nil, nil", user, err)
	}
}

func TestListUsersSearchAndPaging(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db, nil)
	ctx := context.Background()

	for i := 0; i < 12; i++ {
		svc.Register(ctx, fmt.Sprintf("user%02d@x.com", i), fmt.Sprintf("User %d", i), "")
	}
	svc.Register(ctx, "zed@y.com", "Zed 100%", "")

	page, err := svc.List(ctx, "", NewPage(2, 5))
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if page.Total != 13 || page.TotalPages != 3 || len(page.Users) != 5 || page.Page != 2 {
		t.Errorf("page = total %d pages %d len %d", page.Total, page.TotalPages, len(page.Users))
	}

	found, _ := svc.List(ctx, "ZED", NewPage(1, 10))
	if found.Total != 1 || found.Users[0].Email != "zed@y.com" {
		t.Errorf("name search = %+v", found)
	}
	byEmail, _ := svc.List(ctx, "@Y.COM", NewPage(1, 10))
	if byEmail.Total != 1 {
		t.Errorf("email search total = %d", byEmail.Total)
	}
	literal, _ := svc.List(ctx, "%", NewPage(1, 10))
	if literal.Total != 1 {
		t.Errorf("wildcard characters should match literally, total = %d", literal.Total)
	}
}

func TestNewPage(t *testing.T) {
	p := NewPage(0, 0)
	if p.Page != 1 || p.Limit != DefaultPageSize || p.Offset() != 0 {
		t.Errorf("NewPage(0,0) = %+v", p)
	}
	p = NewPage(3, 1000)
	if p.Limit != MaxPageSize || p.Offset() != 2*MaxPageSize {
		t.Errorf("NewPage(3,1000) = %+v", p)
	}
	if got := NewPage(1, 10).TotalPages(21); got != 3 {
		t.Errorf("TotalPages(21) = %d", got)
	}
	if got := NewPage(1, 10).TotalPages(0); got != 0 {
		t.Errorf("TotalPages(0) = %d", got)
	}
}
