package main

import (
	"context"
	"log"
	"os"
	"time"

	"golang.org/x/crypto/bcrypt"

	"venuebook/internal/database"
	"venuebook/internal/domain"
	"venuebook/internal/modules/notification"
	"venuebook/internal/repository"
)

// Seeds a local database with development fixtures: an admin, a venue owner
// with a venue, halls and foods, and a plain user.
func main() {
	start := time.Now()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = "venuebook.db"
	}

	db, err := database.Connect(dsn)
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	log.Println("Running AutoMigrate...")
	if err := repository.AutoMigrate(db, &notification.Notification{}); err != nil {
		log.Fatal("AutoMigrate failed:", err)
	}

	log.Println("Cleaning old data...")
	db.Exec("DELETE FROM notifications")
	db.Exec("DELETE FROM payments")
	db.Exec("DELETE FROM bookings")
	db.Exec("DELETE FROM booking_requests")
	db.Exec("DELETE FROM foods")
	db.Exec("DELETE FROM halls")
	db.Exec("DELETE FROM venues")
	db.Exec("DELETE FROM users")

	ctx := context.Background()
	users := repository.NewUserRepository(db)
	venues := repository.NewVenueRepository(db)

	log.Println("Creating users...")
	admin := &domain.User{
		Name:         "Admin",
		Email:        "admin@venuebook.local",
		PasswordHash: hash("admin123"),
		Role:         domain.RoleAdmin,
	}
	mustCreate(users.Create(ctx, admin))
	log.Println("Admin created: admin@venuebook.local / admin123")

	owner := &domain.User{
		Name:         "Sunita Shrestha",
		Email:        "sunita@grandpavilion.local",
		PasswordHash: hash("owner123"),
		Role:         domain.RoleOwner,
		Phone:        "+977 9841 000001",
	}
	mustCreate(users.Create(ctx, owner))
	log.Println("Owner created: sunita@grandpavilion.local / owner123")

	user := &domain.User{
		Name:         "Ramesh Karki",
		Email:        "ramesh@mail.local",
		PasswordHash: hash("user123"),
		Role:         domain.RoleUser,
		Phone:        "+977 9841 000002",
	}
	mustCreate(users.Create(ctx, user))
	log.Println("User created: ramesh@mail.local / user123")

	log.Println("Creating venue...")
	venue := &domain.Venue{
		OwnerID:     owner.ID,
		Name:        "Grand Pavilion",
		Location:    "Lazimpat, Kathmandu",
		Description: "Banquet venue with two halls and full catering.",
		Status:      domain.VenueActive,
	}
	mustCreate(venues.Create(ctx, venue))

	halls := []domain.Hall{
		{VenueID: venue.ID, Name: "Crystal Hall", Capacity: 500, BasePrice: 650},
		{VenueID: venue.ID, Name: "Garden Terrace", Capacity: 200, BasePrice: 500},
	}
	for i := range halls {
		mustCreate(venues.AddHall(ctx, &halls[i]))
	}

	foods := []domain.Food{
		{VenueID: venue.ID, Name: "Dal Bhat Set", Category: "Main", Price: 0},
		{VenueID: venue.ID, Name: "Chicken Sekuwa", Category: "Starter", Price: 0},
		{VenueID: venue.ID, Name: "Juju Dhau", Category: "Dessert", Price: 0},
	}
	for i := range foods {
		mustCreate(venues.AddFood(ctx, &foods[i]))
	}

	log.Printf("Seed complete in %s", time.Since(start))
}

func hash(password string) string {
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal(err)
	}
	return string(h)
}

func mustCreate(err error) {
	if err != nil {
		log.Fatal("seed failed:", err)
	}
}
