package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"

	"tasklist_backend/internal/db"
	"tasklist_backend/internal/domain"
	"tasklist_backend/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

// Seeds a user account so the API can be exercised without going
// through the register endpoint. Expects DATABASE_URL.
func main() {
	username := flag.String("username", "testuser", "username to create")
	password := flag.String("password", "testpass", "password for the user")
	flag.Parse()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL not set")
	}

	pool := db.Connect(dsn)
	defer pool.Close()

	repo := repository.NewUserRepository(pool)
	ctx := context.Background()

	if existing, err := repo.GetByUsername(ctx, *username); err == nil {
		log.Printf("user %q already exists (id=%d)", existing.Username, existing.ID)
		return
	} else if !errors.Is(err, repository.ErrNotFound) {
		log.Fatalf("lookup failed: %v", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("hash password: %v", err)
	}

	user := &domain.User{Username: *username, PasswordHash: string(hash)}
	if err := repo.Create(ctx, user); err != nil {
		log.Fatalf("create user: %v", err)
	}

	log.Printf("created user %q (id=%d)", user.Username, user.ID)
}
