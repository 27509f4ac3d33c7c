// Command seed wipes the catalog tables and loads a small demo data set,
// useful for local development and manual API testing.
package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"

	"github.com/cinelane/ticketing/internal/config"
	"github.com/cinelane/ticketing/internal/database"
	"github.com/cinelane/ticketing/internal/repository"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	db, err := openDB(cfg)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	if err := database.Migrate(db, cfg.DBDriver); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	ctx := context.Background()

	// Orders reference everything else, so they go first.
	for _, table := range []string{"orders", "tickets", "viewers", "sellers"} {
		if _, err := db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			log.Fatalf("clear %s: %v", table, err)
		}
	}

	viewers := repository.NewViewerRepo(db)
	sellers := repository.NewSellerRepo(db)
	tickets := repository.NewTicketRepo(db)
	orders := repository.NewOrderRepo(db)

	v1 := &repository.Viewer{Name: "John Doe", Age: 30, Gender: "male"}
	v2 := &repository.Viewer{Name: "Jane Smith", Age: 25, Gender: "female"}
	for _, v := range []*repository.Viewer{v1, v2} {
		if err := viewers.Create(ctx, v); err != nil {
			log.Fatalf("seed viewer %s: %v", v.Name, err)
		}
	}

	show1 := time.Date(2025, 1, 25, 18, 30, 0, 0, time.UTC)
	show2 := time.Date(2025, 1, 26, 21, 0, 0, 0, time.UTC)
	t1 := &repository.Ticket{MovieTitle: "Avengers: Endgame", SeatNumber: "A10", ShowTime: show1}
	t2 := &repository.Ticket{MovieTitle: "Inception", SeatNumber: "B15", ShowTime: show2}
	for _, t := range []*repository.Ticket{t1, t2} {
		if err := tickets.Create(ctx, t); err != nil {
			log.Fatalf("seed ticket %s: %v", t.MovieTitle, err)
		}
	}

	s1 := &repository.Seller{Name: "Alice", Age: 35, Gender: "female", Position: "Manager", Salary: 5000}
	s2 := &repository.Seller{Name: "Bob", Age: 28, Gender: "male", Position: "Cashier", Salary: 3000}
	for _, s := range []*repository.Seller{s1, s2} {
		if err := sellers.Create(ctx, s); err != nil {
			log.Fatalf("seed seller %s: %v", s.Name, err)
		}
	}

	now := time.Now().UTC()
	for _, o := range []*repository.Order{
		{ViewerID: v1.ID, TicketID: t1.ID, SellerID: s1.ID, OrderDate: now},
		{ViewerID: v2.ID, TicketID: t2.ID, SellerID: s2.ID, OrderDate: now},
	} {
		if err := orders.Create(ctx, o); err != nil {
			log.Fatalf("seed order: %v", err)
		}
	}

	fmt.Println("seeded 2 viewers, 2 tickets, 2 sellers, 2 orders")
}

func openDB(cfg config.Config) (*sql.DB, error) {
	switch cfg.DBDriver {
	case "mysql":
		return database.OpenMySQL(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	case "sqlite":
		return database.OpenSQLite(cfg.DBPath)
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
}
