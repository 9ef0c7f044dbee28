package main

import (
	"database/sql"
	"errors"
	"fmt"
	"log"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/oksasatya/blood-donation-service/config"
	"github.com/oksasatya/blood-donation-service/pkg/helpers"
)

type seedUser struct {
	email      string
	name       string
	role       string
	bloodGroup string
	location   string
}

var users = []seedUser{
	{"admin@blooddonation.local", "Admin", "admin", "O-", "Jakarta"},
	{"rina@blooddonation.local", "Rina", "user", "O+", "Bandung"},
	{"budi@blooddonation.local", "Budi", "user", "O+", "Jakarta"},
	{"sari@blooddonation.local", "Sari", "user", "A+", "Surabaya"},
	{"dewa@blooddonation.local", "Dewa", "user", "AB-", "Denpasar"},
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	dsn := cfg.PostgresDSN()
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer func() { _ = db.Close() }()

	password := "password123"
	hash, err := helpers.HashPassword(password)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	ids := make(map[string]int64, len(users))
	for _, u := range users {
		var id int64
		err = db.QueryRow(`
			INSERT INTO users (email, password, name, role, blood_group, location)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (email) DO UPDATE
			SET name = EXCLUDED.name, role = EXCLUDED.role,
			    blood_group = EXCLUDED.blood_group, location = EXCLUDED.location,
			    updated_at = now()
			RETURNING id
		`, u.email, hash, u.name, u.role, u.bloodGroup, u.location).Scan(&id)
		if err != nil {
			log.Fatalf("failed to seed user %s: %v", u.email, err)
		}
		ids[u.email] = id
		fmt.Printf("seeded user: id=%d email=%s role=%s blood_group=%s password=%s\n", id, u.email, u.role, u.bloodGroup, password)
	}

	var eventID int64
	err = db.QueryRow(`
		INSERT INTO events (name, location, date, start_time, end_time, capacity, description)
		SELECT 'City Hall Blood Drive', 'City Hall', CURRENT_DATE + 7, '08:00'::time, '14:00'::time, 120, 'Quarterly community drive'
		WHERE NOT EXISTS (SELECT 1 FROM events WHERE name = 'City Hall Blood Drive')
		RETURNING id
	`).Scan(&eventID)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		if err := db.QueryRow(`SELECT id FROM events WHERE name = 'City Hall Blood Drive'`).Scan(&eventID); err != nil {
			log.Fatalf("failed to load event: %v", err)
		}
	case err != nil:
		log.Fatalf("failed to seed event: %v", err)
	}
	fmt.Printf("event ensured: id=%d\n", eventID)

	donors := []struct {
		email    string
		phone    string
		age      int
		hospital string
	}{
		{"rina@blooddonation.local", "081234567890", 27, "RS Hasan Sadikin"},
		{"budi@blooddonation.local", "081298765432", 34, "RSCM"},
	}
	for _, d := range donors {
		uid := ids[d.email]
		var city, bg string
		if err := db.QueryRow(`SELECT location, blood_group FROM users WHERE id = $1`, uid).Scan(&city, &bg); err != nil {
			log.Fatalf("failed to load user %d: %v", uid, err)
		}
		res, err := db.Exec(`
			INSERT INTO donor_registered (user_id, phone, city, age, blood_group, hospital)
			SELECT $1, $2, $3, $4, $5, $6
			WHERE NOT EXISTS (SELECT 1 FROM donor_registered WHERE user_id = $1)
		`, uid, d.phone, city, d.age, bg, d.hospital)
		if err != nil {
			log.Fatalf("failed to seed donor for user %d: %v", uid, err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			fmt.Printf("registered donor: user_id=%d hospital=%s\n", uid, d.hospital)
		}
	}

	if _, err := db.Exec(`
		INSERT INTO event_applications (user_id, event_id, application_type)
		VALUES ($1, $2, 'donor')
		ON CONFLICT (user_id, event_id) DO NOTHING
	`, ids["rina@blooddonation.local"], eventID); err != nil {
		log.Fatalf("failed to seed application: %v", err)
	}
	fmt.Println("pending application ensured for rina")
}
