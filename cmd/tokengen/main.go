// Command tokengen mints session token pairs for local development and API
// exploration. Tokens are signed with the secrets passed on the command line
// (or the dev defaults), so they only work against a server configured with
// the same secrets.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"tracker-gateway/internal/auth/token"
	"tracker-gateway/pkg/domain"
)

const (
	devAccessSecret  = "dev-access-secret-change-me-now"
	devRefreshSecret = "dev-refresh-secret-change-me-now"
)

type output struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
	Email        string `json:"email"`
	ResourceID   uint64 `json:"resource_id"`
}

func main() {
	email := flag.String("email", "dev@moodup.team", "Subject email to embed in the tokens")
	resourceID := flag.Uint64("resource-id", 1, "Teamdeck resource ID to embed in the tokens")
	ttl := flag.Duration("ttl", 24*time.Hour, "Access token time-to-live")
	accessSecret := flag.String("access-secret", devAccessSecret, "Access token signing secret")
	refreshSecret := flag.String("refresh-secret", devRefreshSecret, "Refresh token signing secret")
	asJSON := flag.Bool("json", false, "Output as JSON")
	flag.Parse()

	issuer := token.NewIssuer(*accessSecret, *refreshSecret, *ttl)
	tokens, err := issuer.Issue(*email, domain.ResourceID(*resourceID))
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(output{
			AccessToken:  tokens.AccessToken.String(),
			RefreshToken: tokens.RefreshToken.String(),
			ExpiresIn:    tokens.ExpiresIn,
			Email:        *email,
			ResourceID:   *resourceID,
		})
		return
	}

	fmt.Println("Access token:")
	fmt.Println("  " + tokens.AccessToken.String())
	fmt.Println("Refresh token:")
	fmt.Println("  " + tokens.RefreshToken.String())
	fmt.Printf("Expires in: %ds\n", tokens.ExpiresIn)
	fmt.Println()
	fmt.Printf("Usage: curl -H 'Authorization: Bearer %s' http://localhost:8000/me\n", tokens.AccessToken.String())
}
