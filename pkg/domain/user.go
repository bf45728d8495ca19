package domain

// User is the account record returned by /auth/me and cached beside the token.
type User struct {
	ID       int    `json:"id"`
	Email    string `json:"email"`
	IsActive bool   `json:"is_active"`
}

// Token is the response of the password grant endpoint.
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Credentials is the payload for account registration.
type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}
