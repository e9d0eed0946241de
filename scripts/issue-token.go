// Command issue-token signs a bearer token offline with the server's secret,
// for poking at GET /protected without going through POST /authorize.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/webdemo/webdemo/internal/token"
)

type output struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ID          string    `json:"jti"`
	Subject     string    `json:"sub"`
	Company     string    `json:"company"`
	ExpiresAt   time.Time `json:"expires_at"`
}

func main() {
	var (
		secret  = flag.String("secret", os.Getenv("JWT_SECRET"), "HMAC secret, defaults to $JWT_SECRET")
		subject = flag.String("subject", "b@b.com", "Token subject")
		company = flag.String("company", "ACME", "Company claim")
		ttl     = flag.Duration("ttl", 24*time.Hour, "Token lifetime")
		format  = flag.String("format", "plain", "Output format: plain or json")
	)
	flag.Parse()

	if *secret == "" {
		fmt.Fprintln(os.Stderr, "JWT_SECRET is required")
		os.Exit(1)
	}
	if *ttl <= 0 {
		fmt.Fprintln(os.Stderr, "ttl must be positive")
		os.Exit(1)
	}

	keys, err := token.NewKeys(*secret)
	if err != nil {
		fmt.Fprintln(os.Stderr, "build keys:", err)
		os.Exit(1)
	}

	svc := token.NewService(keys, token.Config{Subject: *subject, Company: *company, TTL: *ttl})
	signed, claims, err := svc.Issue()
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}

	out := output{
		AccessToken: signed,
		TokenType:   "Bearer",
		ID:          claims.ID,
		Subject:     claims.Subject,
		Company:     claims.Company,
		ExpiresAt:   claims.ExpiresAt.Time,
	}

	switch strings.ToLower(*format) {
	case "plain":
		fmt.Println(out.AccessToken)
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(out)
	default:
		fmt.Fprintln(os.Stderr, "invalid format; use plain or json")
		os.Exit(1)
	}
}
