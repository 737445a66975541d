package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/your-org/ventilation-store/internal/config"
	"github.com/your-org/ventilation-store/internal/pkg/auth"
)

// Mints a development access token signed with JWT_SECRET.
func main() {
	email := flag.String("email", "dev@example.com", "email claim")
	role := flag.String("role", "customer", "role claim (customer or admin)")
	subject := flag.String("sub", "", "user id; a random one is generated when empty")
	ttl := flag.Duration("ttl", 24*time.Hour, "token lifetime")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	userID := uuid.New()
	if *subject != "" {
		if userID, err = uuid.Parse(*subject); err != nil {
			log.Fatal("Invalid -sub:", err)
		}
	}

	token, err := auth.NewJWTManager(cfg).GenerateAccessToken(userID, *email, *role, *ttl)
	if err != nil {
		log.Fatal("Error generating token:", err)
	}

	fmt.Printf("User ID: %s\n", userID)
	fmt.Printf("Role:    %s\n", *role)
	fmt.Printf("Token:   %s\n", token)
}
