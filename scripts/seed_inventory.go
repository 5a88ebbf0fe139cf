// seed_inventory.go loads a hotel inventory fixture (or the built-in sample
// hotel) into Postgres.
//
// Usage:
//
//	go run scripts/seed_inventory.go -db postgres://localhost/concierge -inventory hotel.yaml
package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/MikeSquared-Agency/Concierge/internal/store"
)

func main() {
	dbURL := flag.String("db", os.Getenv("CONCIERGE_DATABASE_URL"), "Postgres connection URL")
	path := flag.String("inventory", "", "inventory YAML file (default: sample hotel)")
	dryRun := flag.Bool("dry-run", false, "validate and print counts without writing")
	flag.Parse()

	inv := store.SampleInventory()
	if *path != "" {
		loaded, err := store.LoadInventory(*path)
		if err != nil {
			log.Fatalf("load inventory: %v", err)
		}
		inv = loaded
	}

	log.Printf("inventory: %d rooms, %d guests, %d bookings, %d tenant constraints",
		len(inv.Rooms), len(inv.Guests), len(inv.Bookings), len(inv.TenantConstraints))
	if *dryRun {
		return
	}
	if *dbURL == "" {
		log.Fatal("-db or CONCIERGE_DATABASE_URL required")
	}

	ctx := context.Background()
	db, err := store.NewPostgresStore(ctx, *dbURL)
	if err != nil {
		log.Fatalf("connect: %v", err)
	}
	defer db.Close()

	for _, r := range inv.Rooms {
		if err := db.UpsertRoom(ctx, r); err != nil {
			log.Fatalf("room %s: %v", r.ID, err)
		}
	}
	for _, g := range inv.Guests {
		if err := db.UpsertGuest(ctx, g); err != nil {
			log.Fatalf("guest %s: %v", g.ID, err)
		}
	}
	for _, b := range inv.Bookings {
		if err := db.UpsertBooking(ctx, b); err != nil {
			log.Fatalf("booking %s: %v", b.ID, err)
		}
	}
	for _, c := range inv.TenantConstraints {
		if err := db.UpsertTenantConstraint(ctx, c); err != nil {
			log.Fatalf("tenant constraint %s/%s: %v", c.TenantID, c.TemplateCode, err)
		}
	}
	log.Println("seed complete")
}
