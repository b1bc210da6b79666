package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/memoria-app/memoria/config"
	"github.com/memoria-app/memoria/pkg/helpers"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := sql.Open("pgx", cfg.PostgresDSN())
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer func() { _ = db.Close() }()

	email := "demo@memoria.local"
	password := "password123"
	name := "Demo User"
	hash, err := helpers.HashPassword(password)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	var userID string
	err = db.QueryRow(`
		INSERT INTO users (email, password_hash, name)
		VALUES (lower($1), $2, $3)
		ON CONFLICT (lower(email)) DO UPDATE SET name = EXCLUDED.name
		RETURNING id
	`, email, hash, name).Scan(&userID)
	if err != nil {
		log.Fatalf("failed to seed user: %v", err)
	}
	fmt.Printf("seeded user: id=%s email=%s password=%s\n", userID, email, password)

	moments := []struct {
		text string
		mood string
		tags []string
		ago  time.Duration
	}{
		{"First morning run of the year. Cold but worth it.", "energized", []string{"running", "outdoors"}, 72 * time.Hour},
		{"Coffee with Sam, talked about the move.", "happy", []string{"friends", "coffee"}, 48 * time.Hour},
		{"Long day. Shipping deadline slipped again.", "tired", []string{"work"}, 24 * time.Hour},
		{"Sunset from the rooftop. Quiet and golden.", "calm", []string{"outdoors", "sunset"}, 2 * time.Hour},
	}

	momentIDs := make([]string, 0, len(moments))
	for _, m := range moments {
		var id string
		created := time.Now().UTC().Add(-m.ago)
		err := db.QueryRow(`
			INSERT INTO moments (user_id, text, mood, tags, created_at, updated_at)
			VALUES ($1, $2, $3, $4::text[], $5, $5)
			RETURNING id
		`, userID, m.text, m.mood, "{"+strings.Join(m.tags, ",")+"}", created).Scan(&id)
		if err != nil {
			log.Fatalf("failed to seed moment: %v", err)
		}
		momentIDs = append(momentIDs, id)
	}
	fmt.Printf("seeded %d moments\n", len(momentIDs))

	now := time.Now().UTC()
	members := make([]map[string]any, 0, 2)
	for _, id := range momentIDs[:2] {
		members = append(members, map[string]any{
			"moment_id": id,
			"added_at":  now.Format(time.RFC3339Nano),
		})
	}
	membersJSON, _ := json.Marshal(members)

	var memoryID string
	err = db.QueryRow(`
		INSERT INTO memories (user_id, title, description, members)
		VALUES ($1, $2, $3, $4::jsonb)
		RETURNING id
	`, userID, "A good week", "Moments worth keeping from this week.", string(membersJSON)).Scan(&memoryID)
	if err != nil {
		log.Fatalf("failed to seed memory: %v", err)
	}
	fmt.Printf("seeded memory: id=%s with %d members\n", memoryID, len(members))
}
