package model

import "strconv"

// UserRole is the numeric role the API stores for an account.
type UserRole int

const (
	// RoleUser can browse records and charts.
	RoleUser UserRole = 1
	// RoleAdmin can additionally manage users, upload CSV files and run batch operations.
	RoleAdmin UserRole = 2
)

// RoleAdminClaim is the role name carried in the bearer token for admins.
const RoleAdminClaim = "Admin"

// Label returns the display label for the role, or "—" for unknown values.
func (r UserRole) Label() string {
	switch r {
	case RoleUser:
		return "User"
	case RoleAdmin:
		return "Admin"
	default:
		return "—"
	}
}

// Valid reports whether r is a role the API knows.
func (r UserRole) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// ParseUserRole accepts "1"/"2" or "user"/"admin".
func ParseUserRole(s string) (UserRole, bool) {
	switch s {
	case "user", "User":
		return RoleUser, true
	case "admin", "Admin":
		return RoleAdmin, true
	}
	n, err := strconv.Atoi(s)
	if err != nil || !UserRole(n).Valid() {
		return 0, false
	}
	return UserRole(n), true
}

// UserRoles lists the roles in form order.
var UserRoles = []UserRole{RoleUser, RoleAdmin}

// User is an account row returned by /User/UsersByFilter.
type User struct {
	ID    int64    `json:"id"`
	Email string   `json:"email"`
	Role  UserRole `json:"role"`
}

// CreateUserRequest is the body of POST /User/CreateUser.
type CreateUserRequest struct {
	Email    string   `json:"email"`
	Password string   `json:"password"`
	Role     UserRole `json:"role"`
}

// Validate checks the create user form. confirm is the repeated password.
func (r CreateUserRequest) Validate(confirm string) error {
	switch {
	case r.Email == "":
		return &ValidationError{Field: "email", Message: "Email is required"}
	case r.Password == "":
		return &ValidationError{Field: "password", Message: "Password is required"}
	case r.Password != confirm:
		return &ValidationError{Field: "confirm", Message: "Passwords do not match"}
	case !r.Role.Valid():
		return &ValidationError{Field: "role", Message: "Select a role"}
	}
	return nil
}

// UserFilter holds the user list form. Empty fields are not sent.
type UserFilter struct {
	Email string    `json:"email,omitempty"`
	Role  *UserRole `json:"role,omitempty"`
}
