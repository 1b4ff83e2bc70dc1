package dto

// TokenRequest is the credential exchange payload for API clients.
type TokenRequest struct {
	ClientID     string `json:"clientID" binding:"required"`
	ClientSecret string `json:"clientSecret" binding:"required"`
}

// TokenResponse carries the issued bearer token.
type TokenResponse struct {
	Token     string `json:"token"`
	TokenType string `json:"tokenType"`
	ExpiresIn int64  `json:"expiresIn"` // seconds
}
