package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/volunhub-dev/volunhub/db"
	"github.com/volunhub-dev/volunhub/internal/auth"
	"github.com/volunhub-dev/volunhub/internal/config"
	"github.com/volunhub-dev/volunhub/internal/router"
)

func main() {
	var err error

	err = godotenv.Load()

	if err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	if err = auth.InitJWTSecret(); err != nil {
		log.Fatalf("Failed to initialize JWT secret: %v", err)
	}

	dbConfig := config.LoadDB()

	if err = db.ConnectDatabase(dbConfig.DSN()); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err = db.MigrateDatabase(); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	r := router.NewRouter()

	var port string

	if port = os.Getenv("PORT"); port == "" {
		port = "3000"
		log.Println("PORT not set, defaulting to 3000")
	}

	if err = r.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
