package models

const (
	RoleAdmin = "ADMIN"
	RoleUser  = "USER"
)

// UserProfile is the cached identity shown in the dashboard chrome.
type UserProfile struct {
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	Role  string `json:"role"`
}

// IsAdmin reports whether the profile may mutate inventory and suppliers.
func (p UserProfile) IsAdmin() bool {
	return p.Role == RoleAdmin
}

// PlaceholderProfile is shown until a real profile is known.
func PlaceholderProfile() UserProfile {
	return UserProfile{Name: "Loading...", Role: RoleUser}
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string       `json:"token"`
	User  *UserProfile `json:"user,omitempty"`
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}
