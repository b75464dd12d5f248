// Command seed-demo creates a demo account and a few sample listings so a
// fresh deployment has something to show.
//
// Usage:
//
//	go run ./scripts/seed-demo.go -database-url postgres://... [-email demo@campusmart.local] [-password demo1234]
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/campusmart/campusmart/internal/auth"
	"github.com/campusmart/campusmart/internal/model"
	"github.com/campusmart/campusmart/internal/repository"
)

func main() {
	var (
		databaseURL = flag.String("database-url", os.Getenv("DATABASE_URL"), "PostgreSQL connection string")
		email       = flag.String("email", "demo@campusmart.local", "Demo user email")
		password    = flag.String("password", "demo1234", "Demo user password")
		username    = flag.String("username", "demo", "Demo user display name")
	)
	flag.Parse()

	if *databaseURL == "" {
		fmt.Fprintln(os.Stderr, "DATABASE_URL is required")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	repo, err := repository.New(ctx, *databaseURL)
	if err != nil {
		fmt.Fprintln(os.Stderr, "connect database:", err)
		os.Exit(1)
	}
	defer repo.Close()

	user, err := ensureUser(ctx, repo, *email, *password, *username)
	if err != nil {
		fmt.Fprintln(os.Stderr, "seed user:", err)
		os.Exit(1)
	}
	fmt.Printf("user: %s (%s)\n", user.Email, user.ID)

	for _, listing := range sampleListings(user.ID) {
		if err := repo.CreateListing(ctx, listing); err != nil {
			fmt.Fprintln(os.Stderr, "seed listing:", err)
			os.Exit(1)
		}
		fmt.Printf("listing: %s (%s)\n", listing.Title, listing.ID)
	}
}

func ensureUser(ctx context.Context, repo *repository.Repository, email, password, username string) (*model.User, error) {
	existing, err := repo.GetUserByEmail(ctx, email)
	if err == nil {
		return existing, nil
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		ID:           ulid.Make().String(),
		Email:        email,
		Username:     username,
		Bio:          "Demo account",
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}

	if err := repo.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func sampleListings(ownerID string) []*model.Listing {
	price := func(v int64) *int64 { return &v }

	return []*model.Listing{
		{
			ID:              ulid.Make().String(),
			Title:           "Calculus textbook (3rd edition)",
			Category:        "textbooks",
			TransactionKind: model.TransactionSell,
			Subject:         "Mathematics",
			Course:          "MATH 101",
			Price:           price(450),
			Description:     "Lightly used, no markings.",
			OwnerID:         ownerID,
		},
		{
			ID:              ulid.Make().String(),
			Title:           "Desk lamp",
			Category:        "furniture",
			TransactionKind: model.TransactionDonate,
			Description:     "Works fine, moving out.",
			OwnerID:         ownerID,
		},
		{
			ID:              ulid.Make().String(),
			Title:           "Scientific calculator for physics notes",
			Category:        "electronics",
			TransactionKind: model.TransactionExchange,
			Subject:         "Physics",
			Description:     "Will swap for a complete PHYS 201 notes bundle.",
			OwnerID:         ownerID,
		},
	}
}
