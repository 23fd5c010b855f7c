package main

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"robotics-event-api/config"
	"robotics-event-api/fixtures"
	"robotics-event-api/packages/core/middleware"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	if len(os.Args) < 2 {
		printUsage()
		return
	}

	cfg := config.Load()
	logger, err := config.NewLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer logger.Sync()

	command := os.Args[1]

	// token does not touch the database
	if command == "token" {
		if err := printToken(cfg, os.Args[2:]); err != nil {
			logger.Fatal("Failed to issue token", zap.Error(err))
		}
		return
	}

	config.ConnectDatabase(cfg)
	fixtureManager := fixtures.NewFixtures(config.DB, nil, logger)

	switch command {
	case "generate":
		if err := fixtureManager.GenerateTestData(); err != nil {
			logger.Fatal("Failed to generate fixtures", zap.Error(err))
		}
		fmt.Println("✅ Fixtures generated successfully!")
	case "clear":
		if err := fixtureManager.ClearAllData(); err != nil {
			logger.Fatal("Failed to clear fixtures", zap.Error(err))
		}
		fmt.Println("✅ All fixture data cleared!")
	case "regenerate":
		fmt.Println("Clearing existing data...")
		if err := fixtureManager.ClearAllData(); err != nil {
			logger.Fatal("Failed to clear fixtures", zap.Error(err))
		}
		fmt.Println("Generating new fixtures...")
		if err := fixtureManager.GenerateTestData(); err != nil {
			logger.Fatal("Failed to generate fixtures", zap.Error(err))
		}
		fmt.Println("✅ Fixtures regenerated successfully!")
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
	}
}

// printToken issues a token for a subject and a comma separated role list.
func printToken(cfg *config.Config, args []string) error {
	subject, roles := "admin", []string{middleware.RoleAdmin, middleware.RoleReferee}
	if len(args) > 0 {
		subject = args[0]
	}
	if len(args) > 1 {
		roles = strings.Split(args[1], ",")
	}
	token, err := middleware.IssueToken(cfg.JWTSecret, subject, roles, 24*time.Hour)
	if err != nil {
		return err
	}
	fmt.Println(token)
	return nil
}

func printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  go run ./cmd/fixtures generate              - Generate 12 teams, score types and a half-played schedule")
	fmt.Println("  go run ./cmd/fixtures clear                 - Clear all fixture data")
	fmt.Println("  go run ./cmd/fixtures regenerate            - Clear and regenerate all data")
	fmt.Println("  go run ./cmd/fixtures token [subject] [roles] - Print a 24h JWT (roles: admin,referee)")
}
