package dto

// ValidateTokenRequest carries the session token to verify.
type ValidateTokenRequest struct {
	Token string `json:"token"`
}

// UserResponse is the public identity shape.
type UserResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// ValidateTokenResponse returns a refreshed token plus the current identity.
// A missing user means the presented token was invalid, expired, or unknown.
type ValidateTokenResponse struct {
	Token string        `json:"token"`
	User  *UserResponse `json:"user,omitempty"`
}
