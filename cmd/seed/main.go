package main

import (
	"log"

	"go-stock-management/internal/config"
	"go-stock-management/internal/model"
	"go-stock-management/pkg/database"

	"github.com/joho/godotenv"
)

// Seeds the demo accounts. Skips entirely if any user already exists so it
// is safe to run more than once.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, relying on system env")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	if err := db.AutoMigrate(&model.User{}); err != nil {
		log.Fatalf("❌ Failed to migrate users table: %v", err)
	}

	var count int64
	if err := db.Model(&model.User{}).Count(&count).Error; err != nil {
		log.Fatalf("❌ Failed to check existing users: %v", err)
	}
	if count > 0 {
		log.Println("Users already exist in the database. Skipping seed.")
		return
	}

	type account struct {
		username string
		email    string
		fullName string
		password string
		role     string
	}
	accounts := []account{
		{"admin", "admin@stockmanagement.com", "System Administrator", "admin123", model.RoleAdmin},
		{"user", "user@stockmanagement.com", "Stock User", "user123", model.RoleUser},
		{"viewer", "viewer@stockmanagement.com", "Stock Viewer", "viewer123", model.RoleViewer},
	}

	for _, a := range accounts {
		email := a.email
		fullName := a.fullName
		user := model.User{
			Username: a.username,
			Email:    &email,
			FullName: &fullName,
			Role:     a.role,
			Active:   true,
		}
		if err := user.SetPassword(a.password); err != nil {
			log.Fatalf("❌ Failed to hash password for %s: %v", a.username, err)
		}
		if err := db.Create(&user).Error; err != nil {
			log.Fatalf("❌ Failed to create user %s: %v", a.username, err)
		}
		log.Printf("Added user: %s (%s)", a.username, a.role)
	}

	log.Printf("✅ Successfully seeded %d demo users!", len(accounts))
}
