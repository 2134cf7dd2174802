package model

import "time"

// Role is the portal-level role of an account
type Role string

const (
	RoleUser       Role = "USER"
	RoleAdmin      Role = "ADMIN"
	RoleSuperAdmin Role = "SUPERADMIN"
)

// ModulePermissions gates admin-portal sub-areas for non-super admins.
// Only meaningful when Role is ADMIN; SUPERADMIN implicitly has all of them.
type ModulePermissions struct {
	Users bool `json:"users" bson:"users"`
	Forms bool `json:"forms" bson:"forms"`
}

// User is an account document (respondents and admins share the collection)
type User struct {
	ID                string            `json:"id" bson:"_id,omitempty"`
	Name              string            `json:"name" bson:"name"`
	Email             string            `json:"email" bson:"email"`
	PasswordHash      string            `json:"-" bson:"passwordHash"`
	Role              Role              `json:"role" bson:"role"`
	EmployeeID        string            `json:"employeeId,omitempty" bson:"employeeId,omitempty"`
	VendorID          string            `json:"vendorId,omitempty" bson:"vendorId,omitempty"`
	ModulePermissions ModulePermissions `json:"modulePermissions" bson:"modulePermissions"`
	CreatedAt         time.Time         `json:"createdAt" bson:"createdAt"`
	UpdatedAt         time.Time         `json:"updatedAt" bson:"updatedAt"`
}

// UserView wraps a user with the read-only flag so the admin UI can render a
// non-editable view instead of failing the request.
type UserView struct {
	*User
	ReadOnly bool `json:"readOnly"`
}
