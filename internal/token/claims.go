package token

import (
	"context"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the claim set carried by issued tokens.
// Subject holds the e-mail, Company the organization.
type Claims struct {
	Company string `json:"company"`
	jwt.RegisteredClaims
}

// String renders the claims for the protected page.
func (c *Claims) String() string {
	return fmt.Sprintf("Email: %s\nCompany: %s", c.Subject, c.Company)
}

type contextKey string

const claimsContextKey contextKey = "token_claims"

// ContextWithClaims adds validated claims to the context.
func ContextWithClaims(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, claimsContextKey, claims)
}

// ClaimsFromContext retrieves claims from the context.
// Returns nil if the request did not pass bearer authentication.
func ClaimsFromContext(ctx context.Context) *Claims {
	claims, ok := ctx.Value(claimsContextKey).(*Claims)
	if !ok {
		return nil
	}
	return claims
}
