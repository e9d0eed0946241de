// Package dto holds the JSON request and response bodies of the HTTP API.
package dto

// TokenTypeBearer is the only token type issued.
const TokenTypeBearer = "Bearer"

// AuthPayload is the body of POST /authorize.
type AuthPayload struct {
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
}

// AuthBody is returned by a successful POST /authorize.
type AuthBody struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// NewAuthBody wraps a signed token.
func NewAuthBody(accessToken string) AuthBody {
	return AuthBody{AccessToken: accessToken, TokenType: TokenTypeBearer}
}
