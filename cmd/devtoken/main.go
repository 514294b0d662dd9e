package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"

	"github.com/WeAreCode045/wphub-pro-sub002/internal/infra/config"
	"github.com/WeAreCode045/wphub-pro-sub002/internal/infra/security"
)

// devtoken mints an identity token signed with auth.jwt_secret for local API calls.
func main() {
	_ = godotenv.Load()

	userID := flag.String("user", "", "user id placed in the sub claim")
	email := flag.String("email", "", "email claim")
	ttl := flag.Duration("ttl", time.Hour, "token lifetime")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if cfg.App.Env == "production" {
		log.Fatalf("refusing to mint tokens in production")
	}

	token, err := security.SignIdentityToken(cfg.Auth.JWTSecret, security.IdentityTokenOptions{
		UserID:   *userID,
		Email:    *email,
		Issuer:   cfg.Auth.Issuer,
		Audience: cfg.Auth.Audience,
		TTL:      *ttl,
	})
	if err != nil {
		log.Fatalf("sign token: %v", err)
	}
	fmt.Println(token)
}
