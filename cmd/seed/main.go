// Command seed resets the database and loads the Blogly sample data.
package main

import (
	"context"
	"flag"
	"log"

	"blogly/internal/cache"
	"blogly/internal/config"
	"blogly/internal/database"
	"blogly/internal/middleware"
	"blogly/internal/seed"
)

func main() {
	fake := flag.Int("fake", 0, "Number of generated users to add after the fixed sample data")
	randSeed := flag.Int64("seed", 0, "Random seed for generated data (0 picks one)")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	middleware.Logger = middleware.NewLogger(cfg.Env)

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer func() {
		if err := database.Close(db); err != nil {
			log.Printf("Failed to close database: %v", err)
		}
	}()

	// The server caches rows by id; a reseed must drop them.
	redisClient, err := cache.NewClient(cfg.RedisURL)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	if redisClient != nil {
		defer func() { _ = redisClient.Close() }()
	}

	ctx := context.Background()
	s := seed.NewSeeder(db, cache.New(redisClient, cfg.CacheTTL()), *randSeed)

	if err := s.Blogly(ctx); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	if *fake > 0 {
		posts, err := s.Fake(ctx, *fake)
		if err != nil {
			log.Fatalf("Generated seeding failed after %d posts: %v", posts, err)
		}
	}

	log.Println("Database seeded.")
}
