package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"contesthub/metrics"
	"contesthub/models"

	"gorm.io/gorm"
)

// ProfileUpdate holds the profile fields a user may change on their own record
type ProfileUpdate struct {
	Name  *string `json:"name"`
	Photo *string `json:"photo"`
}

func (u ProfileUpdate) fields() map[string]interface{} {
	fields := map[string]interface{}{}
	if u.Name != nil {
		fields["name"] = strings.TrimSpace(*u.Name)
	}
	if u.Photo != nil {
		fields["photo"] = *u.Photo
	}
	return fields
}

// UserList is one page of users
type UserList struct {
	Users      []models.User `json:"users"`
	Total      int64         `json:"total"`
	Page       int           `json:"page"`
	TotalPages int           `json:"totalPages"`
}

type UserService struct {
	db    *gorm.DB
	cache RoleCache
}

func NewUserService(db *gorm.DB, cache RoleCache) *UserService {
	if cache == nil {
		cache = noopRoleCache{}
	}
	return &UserService{db: db, cache: cache}
}

// Register inserts a user on first sign-in.
// It returns created=false and leaves the store untouched when the email is already known.
func (s *UserService) Register(ctx context.Context, email, name, photo string) (*models.User, bool, error) {
	defer metrics.RecordDBOperation("register", "users", time.Now())

	email = strings.ToLower(strings.TrimSpace(email))
	var existing models.User
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&existing).Error
	if err == nil {
		return &existing, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	user := models.User{
		Email: email,
		Name:  name,
		Photo: photo,
		Role:  models.RoleUser,
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, false, fmt.Errorf("failed to create user: %w", err)
	}
	return &user, true, nil
}

// List returns a page of users whose name or email contains search, case-insensitively
func (s *UserService) List(ctx context.Context, search string, page Page) (*UserList, error) {
	defer metrics.RecordDBOperation("list", "users", time.Now())

	query := s.db.WithContext(ctx).Model(&models.User{})
	if search = strings.TrimSpace(search); search != "" {
		pattern := containsPattern(search)
		query = query.Where(`LOWER(name) LIKE ? ESCAPE '\' OR LOWER(email) LIKE ? ESCAPE '\'`, pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}
	users := []models.User{}
	if err := query.Order("created_at DESC").Offset(page.Offset()).Limit(page.Limit).Find(&users).Error; err != nil {
		return nil, err
	}
	return &UserList{
		Users:      users,
		Total:      total,
		Page:       page.Page,
		TotalPages: page.TotalPages(total),
	}, nil
}

// GetRole returns the stored role for email, or RoleUser when no record exists
func (s *UserService) GetRole(ctx context.Context, email string) (models.Role, error) {
	email = strings.ToLower(email)
	if role, ok := s.cache.Get(ctx, email); ok {
		return role, nil
	}

	defer metrics.RecordDBOperation("get_role", "users", time.Now())
	var user models.User
	err := s.db.WithContext(ctx).Select("role").Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.RoleUser, nil
	}
	if err != nil {
		return "", err
	}

	role, ok := models.ParseRole(string(user.Role))
	if !ok {
		role = models.RoleUser
	}
	s.cache.Set(ctx, email, role)
	return role, nil
}

// GetProfile returns the stored user, or nil when none exists
func (s *UserService) GetProfile(ctx context.Context, email string) (*models.User, error) {
	defer metrics.RecordDBOperation("get", "users", time.Now())

	var user models.User
	err := s.db.WithContext(ctx).Where("email = ?", strings.ToLower(email)).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateProfile applies the allowed profile fields to the user with email
func (s *UserService) UpdateProfile(ctx context.Context, email string, update ProfileUpdate) (*models.User, error) {
	defer metrics.RecordDBOperation("update", "users", time.Now())

	email = strings.ToLower(email)
	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if fields := update.fields(); len(fields) > 0 {
		if err := s.db.WithContext(ctx).Model(&user).Updates(fields).Error; err != nil {
			return nil, fmt.Errorf("failed to update profile: %w", err)
		}
		if err := s.db.WithContext(ctx).First(&user, "id = ?", user.ID).Error; err != nil {
			return nil, err
		}
	}
	return &user, nil
}

// SetRole changes the role of the user with the given id
func (s *UserService) SetRole(ctx context.Context, userID string, role string) (*models.User, error) {
	defer metrics.RecordDBOperation("set_role", "users", time.Now())

	parsed, ok := models.ParseRole(role)
	if !ok {
		return nil, ErrInvalidRole
	}

	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(&user).Update("role", parsed).Error; err != nil {
		return nil, fmt.Errorf("failed to update role: %w", err)
	}
	user.Role = parsed
	s.cache.Invalidate(ctx, user.Email)
	return &user, nil
}
