package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/angelmondragon/supplychain-backend/internal/users"
	"github.com/angelmondragon/supplychain-backend/pkg/config"
	"github.com/angelmondragon/supplychain-backend/pkg/db"
	"github.com/angelmondragon/supplychain-backend/pkg/logger"
	"github.com/angelmondragon/supplychain-backend/pkg/security"
)

func main() {
	ctx := context.Background()
	logg := logger.New(logger.Options{ServiceName: "supplychain-create-user"})

	_ = godotenv.Load()

	username := flag.String("username", "", "login name for the new account")
	email := flag.String("email", "", "optional email address")
	password := flag.String("password", "", "password (falls back to SUPPLYCHAIN_BOOTSTRAP_PASSWORD, then a generated one)")
	firstName := flag.String("first-name", "", "optional first name")
	lastName := flag.String("last-name", "", "optional last name")
	staff := flag.Bool("staff", true, "grant the staff role")
	flag.Parse()

	if *username == "" {
		fail("missing -username")
	}
	if *password == "" {
		*password = os.Getenv("SUPPLYCHAIN_BOOTSTRAP_PASSWORD")
	}
	generated := false
	if *password == "" {
		temp, err := security.GenerateTempPassword(16)
		if err != nil {
			fail("failed to generate password: %v", err)
		}
		*password, generated = temp, true
	}

	cfg, err := config.Load()
	if err != nil {
		fail("failed to load config: %v", err)
	}

	logg = logger.New(logger.Options{
		ServiceName: "supplychain-create-user",
		Env:         cfg.App.Env,
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		Format:      logger.ParseFormat(cfg.App.LogFormat),
		WarnStack:   cfg.App.LogWarnStack,
	})
	ctx = logg.WithFields(ctx, map[string]any{"env": cfg.App.Env, "username": *username})

	dbClient, err := db.New(ctx, cfg.DB, db.Options{UseSQLite: cfg.FeatureFlags.UseSQLite}, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer dbClient.Close()

	svc, err := users.NewService(dbClient, cfg.Password)
	if err != nil {
		logg.Error(ctx, "failed to create user service", err)
		os.Exit(1)
	}

	user, err := svc.Create(ctx, users.CreateInput{
		Username:  *username,
		Email:     *email,
		Password:  *password,
		FirstName: *firstName,
		LastName:  *lastName,
		IsStaff:   *staff,
	})
	if err != nil {
		logg.Error(ctx, "failed to create user", err)
		os.Exit(1)
	}

	logg.Info(logg.WithField(ctx, "user_id", user.ID.String()), "user created")
	fmt.Println("created user:", user.ID)
	if generated {
		fmt.Println("temporary password:", *password)
	}
}

func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
