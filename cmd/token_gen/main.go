package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Mints a development bearer token so the API can be exercised without
// the hosted auth provider.
func main() {
	userID := flag.String("user", "", "user id (random uuid when empty)")
	email := flag.String("email", "dev@example.com", "email claim")
	role := flag.String("role", "user", "role claim: user, organizer or admin")
	ttl := flag.Duration("ttl", 24*time.Hour, "token lifetime")
	flag.Parse()

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		log.Fatal("JWT_SECRET must be set")
	}

	sub := *userID
	if sub == "" {
		sub = uuid.NewString()
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   sub,
		"email": *email,
		"role":  *role,
		"iat":   now.Unix(),
		"exp":   now.Add(*ttl).Unix(),
	})

	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		log.Fatalf("sign token: %v", err)
	}

	fmt.Println("User ID:", sub)
	fmt.Println("Token:", signed)
}
