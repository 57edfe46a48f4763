// Command token mints a bearer token for the trading and AI routes.
package main

import (
	"crypto_backend/internal/platform/config"
	jwtmw "crypto_backend/internal/platform/jwt"
	"flag"
	"fmt"
	"log"
)

func main() {
	subject := flag.String("subject", "operator", "token subject")
	ttl := flag.Duration("ttl", 0, "token lifetime (defaults to auth.token_ttl)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	if cfg.Auth.JWTSecret == "" {
		log.Fatal("JWT_SECRET is not set")
	}
	if *ttl <= 0 {
		*ttl = cfg.Auth.TokenTTL
	}

	token, err := jwtmw.NewGenerator(cfg.Auth.JWTSecret, *ttl).GenerateToken(*subject)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(token)
}
