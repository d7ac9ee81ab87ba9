package main

import (
	"database/sql"
	"fmt"
	"log"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/daryha/buzzletBack/config"
	"github.com/daryha/buzzletBack/pkg/helpers"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	dsn := cfg.PostgresDSN()
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer func() { _ = db.Close() }()

	email := "demo@buzzlet.dev"
	password := "Demo!pass123"
	name := "Demo User"
	hash, err := helpers.NewPasswordHasher(cfg.BcryptCost).Hash(password)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	var userID string
	err = db.QueryRow(`
		INSERT INTO users (email, password_hash, name)
		VALUES ($1, $2, $3)
		ON CONFLICT (email) DO UPDATE SET name = EXCLUDED.name
		RETURNING id
	`, email, hash, name).Scan(&userID)
	if err != nil {
		log.Fatalf("failed to seed user: %v", err)
	}
	fmt.Printf("seeded user: id=%s email=%s password=%s\n", userID, email, password)

	var postID string
	err = db.QueryRow(`
		INSERT INTO posts (author_id, title, description, text, published)
		VALUES ($1, $2, $3, $4, true)
		RETURNING id
	`, userID, "Welcome to Buzzlet", "A first post", "Share what you are working on.").Scan(&postID)
	if err != nil {
		log.Fatalf("failed to seed post: %v", err)
	}

	for _, tag := range []string{"welcome", "buzzlet"} {
		if _, err := db.Exec(`
			WITH t AS (
				INSERT INTO tags (name) VALUES ($1)
				ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
				RETURNING id
			)
			INSERT INTO post_tags (post_id, tag_id) SELECT $2, id FROM t
			ON CONFLICT DO NOTHING
		`, tag, postID); err != nil {
			log.Fatalf("failed to tag post: %v", err)
		}
	}
	fmt.Printf("seeded post: id=%s\n", postID)
}
