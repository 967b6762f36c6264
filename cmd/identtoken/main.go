package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"server/internal/middleware"
)

func main() {
	var (
		identityFlag string
		ttlFlag      time.Duration
	)
	flag.StringVar(&identityFlag, "identity", "", "caller identity to embed in the token")
	flag.DurationVar(&ttlFlag, "ttl", 24*time.Hour, "token lifetime")
	flag.Parse()

	_ = godotenv.Load()

	identity := strings.TrimSpace(identityFlag)
	if identity == "" {
		fmt.Fprintln(os.Stderr, "-identity is required")
		os.Exit(1)
	}

	secret := strings.TrimSpace(os.Getenv("JWT_SECRET"))
	if secret == "" {
		fmt.Fprintln(os.Stderr, "JWT_SECRET is required")
		os.Exit(1)
	}

	token, err := middleware.SignIdentityToken(secret, identity, ttlFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "sign token: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(token)
}
