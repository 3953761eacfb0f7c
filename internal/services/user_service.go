package services

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"freight_routes/internal/apperr"
	"freight_routes/internal/auth"
	"freight_routes/internal/models"
	"freight_routes/internal/repository"
)

type CreateUserInput struct {
	Email    string `json:"email" binding:"required,email"`
	FullName string `json:"full_name" binding:"required"`
	Password string `json:"password" binding:"required,min=6"`
	Role     string `json:"role" binding:"required"`
}

// UpdateUserInput carries a partial update; absent fields stay untouched.
type UpdateUserInput struct {
	FullName *string `json:"full_name"`
	Role     *string `json:"role"`
	IsActive *bool   `json:"is_active"`
}

// UserService orchestrates admin-gated user management plus self-service
// password changes.
type UserService struct {
	users *repository.UserRepository
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{users: repository.NewUserRepository(db)}
}

// Create creates a user with must_change_password set, so the first login
// forces a password change. Admin only.
func (s *UserService) Create(input CreateUserInput, actor *models.User) (*models.User, error) {
	if !auth.Can(actor.Role, auth.ActionManageUsers) {
		return nil, apperr.Authorization("Only admins can create users")
	}
	if !models.ValidRole(input.Role) {
		return nil, apperr.Validation(fmt.Sprintf("Unknown role '%s'", input.Role))
	}

	existing, err := s.users.ByEmail(input.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperr.Conflict(fmt.Sprintf("User with email '%s' already exists", input.Email))
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:              input.Email,
		FullName:           input.FullName,
		PasswordHash:       hash,
		Role:               input.Role,
		IsActive:           true,
		MustChangePassword: true,
	}
	if err := s.users.Create(user); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, apperr.Conflict(fmt.Sprintf("User with email '%s' already exists", input.Email))
		}
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"user_id":    user.ID,
		"email":      user.Email,
		"created_by": actor.ID,
	}).Info("user created")
	return user, nil
}

// Update applies a partial update to a user. Admin only.
func (s *UserService) Update(id uuid.UUID, input UpdateUserInput, actor *models.User) (*models.User, error) {
	if !auth.Can(actor.Role, auth.ActionManageUsers) {
		return nil, apperr.Authorization("Only admins can update users")
	}

	user, err := s.users.ByID(id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperr.NotFound("User")
	}

	if input.Role != nil && !models.ValidRole(*input.Role) {
		return nil, apperr.Validation(fmt.Sprintf("Unknown role '%s'", *input.Role))
	}

	if input.FullName != nil {
		user.FullName = *input.FullName
	}
	if input.Role != nil {
		user.Role = *input.Role
	}
	if input.IsActive != nil {
		user.IsActive = *input.IsActive
	}

	if err := s.users.Save(user); err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{"user_id": user.ID, "updated_by": actor.ID}).Info("user updated")
	return user, nil
}

// Get returns the user or a not-found error.
func (s *UserService) Get(id uuid.UUID) (*models.User, error) {
	user, err := s.users.ByID(id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperr.NotFound("User")
	}
	return user, nil
}

// List returns a page of users plus the total count.
func (s *UserService) List(limit, offset int) ([]models.User, int64, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return s.users.List(limit, offset)
}

// ResetPassword sets a new password for the user and forces a change on
// next login. Admin only.
func (s *UserService) ResetPassword(id uuid.UUID, newPassword string, actor *models.User) (*models.User, error) {
	if !auth.Can(actor.Role, auth.ActionManageUsers) {
		return nil, apperr.Authorization("Only admins can reset passwords")
	}

	user, err := s.users.ByID(id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperr.NotFound("User")
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return nil, err
	}
	user.PasswordHash = hash
	user.MustChangePassword = true

	if err := s.users.Save(user); err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{"user_id": user.ID, "reset_by": actor.ID}).Info("password reset")
	return user, nil
}

// ChangePassword sets the caller's own password and clears the
// must-change flag.
func (s *UserService) ChangePassword(user *models.User, newPassword string) (*models.User, error) {
	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return nil, err
	}
	user.PasswordHash = hash
	user.MustChangePassword = false

	if err := s.users.Save(user); err != nil {
		return nil, err
	}

	logrus.WithField("user_id", user.ID).Info("password changed")
	return user, nil
}

// EnsureAdmin creates the bootstrap admin account if no user with the
// given email exists. Returns the created user, or nil when one already
// existed. Runs at startup.
func (s *UserService) EnsureAdmin(email, password string) (*models.User, error) {
	existing, err := s.users.ByEmail(email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, nil
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}
	admin := &models.User{
		Email:              email,
		FullName:           "System Admin",
		PasswordHash:       hash,
		Role:               models.RoleAdmin,
		IsActive:           true,
		MustChangePassword: false,
	}
	if err := s.users.Create(admin); err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{"user_id": admin.ID, "email": email}).Info("admin user created")
	return admin, nil
}
