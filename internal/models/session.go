package models

// UserInfo is the profile kept for the logged-in user. It lives in memory
// and in the secure store, never anywhere else.
type UserInfo struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	Authorization string `json:"authorization"` // "true" | "false"
	IsActive      bool   `json:"isActive"`
}

// IsAuthorized reports whether the account is flagged as authorized by the backend.
func (u UserInfo) IsAuthorized() bool {
	return u.Authorization == "true"
}

// UserFormData is the payload for registering a new user.
type UserFormData struct {
	Name          string `json:"name" validate:"required"`
	Email         string `json:"email" validate:"required,email"`
	Password      string `json:"password" validate:"required"`
	Phone         string `json:"phone" validate:"required,phone"`
	Authorization string `json:"authorization" validate:"omitempty,oneof=true false"`
}

// SessionState is a point-in-time copy of the auth context.
type SessionState struct {
	IsAuthenticated bool               `json:"isAuthenticated"`
	UserInfo        *UserInfo          `json:"userInfo"`
	ContactsInfo    []EmergencyContact `json:"contactsInfo"`
}
