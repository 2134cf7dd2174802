package service

import (
	"context"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"formdesk/internal/authz"
	"formdesk/internal/model"
	"formdesk/internal/repository"
)

// UserService handles account management for the admin portal
type UserService struct {
	userRepo repository.UserRepo
}

// NewUserService creates a new user service
func NewUserService(userRepo repository.UserRepo) *UserService {
	return &UserService{
		userRepo: userRepo,
	}
}

// CreateUserInput is the admin-portal payload for a new account
type CreateUserInput struct {
	Name              string                  `json:"name"`
	Email             string                  `json:"email"`
	Password          string                  `json:"password"`
	Role              model.Role              `json:"role"`
	EmployeeID        string                  `json:"employeeId"`
	VendorID          string                  `json:"vendorId"`
	ModulePermissions model.ModulePermissions `json:"modulePermissions"`
}

// UpdateUserInput carries the fields an update may touch. Pointers separate
// "not sent" from zero values so partial updates work.
type UpdateUserInput struct {
	Name              *string                  `json:"name"`
	Email             *string                  `json:"email"`
	Password          *string                  `json:"password"`
	Role              *model.Role              `json:"role"`
	EmployeeID        *string                  `json:"employeeId"`
	VendorID          *string                  `json:"vendorId"`
	ModulePermissions *model.ModulePermissions `json:"modulePermissions"`
}

func (in UpdateUserInput) touchesProtectedFields() bool {
	return in.Role != nil || in.EmployeeID != nil || in.VendorID != nil || in.ModulePermissions != nil
}

// List returns a paginated page of accounts; each entry carries the
// read-only flag resolved against the calling principal.
func (s *UserService) List(ctx context.Context, principal authz.Principal, q model.PageQuery) ([]*model.UserView, int64, error) {
	if d := authz.Resolve(principal, authz.ActionManageUsers, authz.Resource{}); !d.Allowed() {
		return nil, 0, fmt.Errorf("%w: %s", ErrForbidden, d.Reason)
	}

	users, total, err := s.userRepo.List(ctx, q)
	if err != nil {
		return nil, 0, err
	}

	views := make([]*model.UserView, len(users))
	for i, u := range users {
		views[i] = &model.UserView{User: u, ReadOnly: s.readOnlyFor(principal, u)}
	}
	return views, total, nil
}

// Get returns one account with its read-only flag
func (s *UserService) Get(ctx context.Context, principal authz.Principal, userID string) (*model.UserView, error) {
	if d := authz.Resolve(principal, authz.ActionManageUsers, authz.Resource{}); !d.Allowed() {
		return nil, fmt.Errorf("%w: %s", ErrForbidden, d.Reason)
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return &model.UserView{User: user, ReadOnly: s.readOnlyFor(principal, user)}, nil
}

// Create registers a new account. Creating an ADMIN, or setting the
// protected fields, needs a SUPERADMIN caller.
func (s *UserService) Create(ctx context.Context, principal authz.Principal, input CreateUserInput) (*model.User, error) {
	if d := authz.Resolve(principal, authz.ActionManageUsers, authz.Resource{}); !d.Allowed() {
		return nil, fmt.Errorf("%w: %s", ErrForbidden, d.Reason)
	}

	if input.Role == "" {
		input.Role = model.RoleUser
	}
	if input.Role != model.RoleUser || input.EmployeeID != "" || input.VendorID != "" ||
		input.ModulePermissions.Users || input.ModulePermissions.Forms {
		if d := authz.Resolve(principal, authz.ActionSetUserRole, authz.Resource{}); !d.Allowed() {
			return nil, fmt.Errorf("%w: %s", ErrForbidden, d.Reason)
		}
	}

	var violations []FieldViolation
	if input.Name == "" {
		violations = append(violations, FieldViolation{Field: "name", Message: "name is required"})
	}
	if input.Email == "" {
		violations = append(violations, FieldViolation{Field: "email", Message: "email is required"})
	}
	if len(input.Password) < 8 {
		violations = append(violations, FieldViolation{Field: "password", Message: "password must be at least 8 characters"})
	}
	if err := validationError(violations); err != nil {
		return nil, err
	}

	existing, err := s.userRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Name:              input.Name,
		Email:             input.Email,
		PasswordHash:      string(hash),
		Role:              input.Role,
		EmployeeID:        input.EmployeeID,
		VendorID:          input.VendorID,
		ModulePermissions: input.ModulePermissions,
	}

	if _, err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Update mutates an account within the resolver's constraints. A read-only
// outcome surfaces as ErrReadOnlyUser so the handler can signal "viewable,
// not editable" rather than a plain deny.
func (s *UserService) Update(ctx context.Context, principal authz.Principal, userID string, input UpdateUserInput) (*model.User, error) {
	target, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, ErrUserNotFound
	}

	res := authz.Resource{OwnerID: target.ID, TargetRole: target.Role}

	d := authz.Resolve(principal, authz.ActionMutateUser, res)
	switch d.Outcome {
	case authz.Deny:
		return nil, fmt.Errorf("%w: %s", ErrForbidden, d.Reason)
	case authz.ReadOnly:
		return nil, ErrReadOnlyUser
	}

	if input.touchesProtectedFields() {
		if d := authz.Resolve(principal, authz.ActionEditProtectedField, res); !d.Allowed() {
			return nil, fmt.Errorf("%w: %s", ErrForbidden, d.Reason)
		}
	}

	if input.Name != nil {
		target.Name = *input.Name
	}
	if input.Email != nil && *input.Email != target.Email {
		existing, err := s.userRepo.GetByEmail(ctx, *input.Email)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, ErrEmailTaken
		}
		target.Email = *input.Email
	}
	if input.Password != nil {
		if len(*input.Password) < 8 {
			return nil, validationError([]FieldViolation{{Field: "password", Message: "password must be at least 8 characters"}})
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*input.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		target.PasswordHash = string(hash)
	}
	if input.Role != nil {
		target.Role = *input.Role
	}
	if input.EmployeeID != nil {
		target.EmployeeID = *input.EmployeeID
	}
	if input.VendorID != nil {
		target.VendorID = *input.VendorID
	}
	if input.ModulePermissions != nil {
		target.ModulePermissions = *input.ModulePermissions
	}

	if err := s.userRepo.Update(ctx, target); err != nil {
		return nil, err
	}
	return target, nil
}

func (s *UserService) readOnlyFor(principal authz.Principal, target *model.User) bool {
	d := authz.Resolve(principal, authz.ActionMutateUser, authz.Resource{OwnerID: target.ID, TargetRole: target.Role})
	return d.Outcome == authz.ReadOnly
}
