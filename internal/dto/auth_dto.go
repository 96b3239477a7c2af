package dto

type SignupRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required"`
	DisplayName string `json:"displayName"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse is the payload returned by signup, login and session lookup.
// AccessToken is empty on session lookups resolved from the cookie.
type AuthResponse struct {
	UserId      string `json:"userId"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName,omitempty"`
	AccessToken string `json:"accessToken,omitempty"`
	TokenType   string `json:"tokenType,omitempty"`
}

// SignupPendingResponse is returned when signup succeeded at the provider but
// the immediate login did not; the caller should retry login manually.
type SignupPendingResponse struct {
	Ok   bool   `json:"ok"`
	Code string `json:"code"`
}

const CodeLoginAfterSignupFailed = "login_after_signup"
