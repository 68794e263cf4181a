// Package main provides a CLI tool for minting operator tokens for the
// Devotly admin endpoints. Tokens are signed with the key from
// DEVOTLY_ADMIN_JWT_KEY (or a dev default) and expire quickly.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"devotly/internal/jwttoken"
)

// Dev signing key used when DEVOTLY_ADMIN_JWT_KEY is not set. Will NOT work
// against a production deployment.
const devSigningKey = "dev-secret-key-change-in-production"

const defaultTokenTTL = 15 * time.Minute

type tokenOutput struct {
	Token     string            `json:"token"`
	Actor     string            `json:"actor"`
	ExpiresIn string            `json:"expires_in"`
	Usage     map[string]string `json:"usage"`
}

func main() {
	actor := flag.String("actor", "", "Operator identity recorded in the audit log (required)")
	ttl := flag.Duration("ttl", defaultTokenTTL, "Token time-to-live")
	jsonOutput := flag.Bool("json", false, "Output as JSON")
	flag.Parse()

	if *actor == "" {
		fmt.Fprintln(os.Stderr, "tokengen: -actor is required")
		flag.Usage()
		os.Exit(1)
	}

	signingKey := os.Getenv("DEVOTLY_ADMIN_JWT_KEY")
	keyType := "env"
	if signingKey == "" {
		signingKey = devSigningKey
		keyType = "dev"
	}

	svc := jwttoken.NewService(signingKey, *ttl)
	token, err := svc.IssueToken(*actor)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error generating token: %v\n", err)
		os.Exit(1)
	}

	if *jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(tokenOutput{
			Token:     token,
			Actor:     *actor,
			ExpiresIn: ttl.String(),
			Usage: map[string]string{
				"header":      "Authorization: Bearer <token>",
				"signing_key": keyType,
			},
		})
		return
	}

	fmt.Println("Operator Token (JWT)")
	fmt.Println("====================")
	fmt.Printf("Signing Key: %s\n", keyType)
	fmt.Printf("Actor:       %s\n", *actor)
	fmt.Printf("Expires In:  %s\n", ttl)
	fmt.Println()
	fmt.Println("Token:")
	fmt.Println(token)
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  curl -H \"Authorization: Bearer <token>\" http://localhost:8080/admin/admission/status")
}
