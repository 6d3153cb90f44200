package main

import (
	"crypto/rand"
	"encoding/hex"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/smarttransit/seat-admin/internal/middleware"
	"github.com/smarttransit/seat-admin/pkg/jwt"
)

func main() {
	var (
		newSecret   bool
		userID      string
		roles       string
		permissions string
		expiry      time.Duration
	)
	flag.BoolVar(&newSecret, "new-secret", false, "print a fresh JWT_SECRET and exit")
	flag.StringVar(&userID, "user", "", "operator user id (random when empty)")
	flag.StringVar(&roles, "roles", "admin", "comma separated roles")
	flag.StringVar(&permissions, "permissions",
		middleware.PermissionManageBuses+","+middleware.PermissionManageTrips,
		"comma separated permissions")
	flag.DurationVar(&expiry, "expiry", 8*time.Hour, "token lifetime")
	flag.Parse()

	if newSecret {
		secret := make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			log.Fatalf("Failed to generate secret: %v", err)
		}
		fmt.Printf("JWT_SECRET=%s\n", hex.EncodeToString(secret))
		return
	}

	_ = godotenv.Load()

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		log.Fatal("JWT_SECRET is not set")
	}
	issuer := os.Getenv("JWT_ISSUER")
	if issuer == "" {
		issuer = "smarttransit-admin"
	}

	id := uuid.New()
	if userID != "" {
		parsed, err := uuid.Parse(userID)
		if err != nil {
			log.Fatalf("Invalid -user: %v", err)
		}
		id = parsed
	}

	token, err := jwt.NewService(secret, issuer, expiry).
		GenerateAccessToken(id, splitList(roles), splitList(permissions))
	if err != nil {
		log.Fatalf("Failed to issue token: %v", err)
	}

	fmt.Fprintf(os.Stderr, "Token for %s valid for %s\n", id, expiry)
	fmt.Println(token)
}

func splitList(v string) []string {
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
