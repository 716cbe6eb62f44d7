// cmd/tools/knowledge-seeder/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"gyaansetu-gateway/internal/common/config"
	"gyaansetu-gateway/internal/common/database"
	"gyaansetu-gateway/internal/knowledge"
)

func main() {
	seedCmd := flag.NewFlagSet("seed", flag.ExitOnError)
	validateCmd := flag.NewFlagSet("validate", flag.ExitOnError)
	countCmd := flag.NewFlagSet("count", flag.ExitOnError)

	seedFrom := seedCmd.String("from", "", "Snapshot file to upload (default: bundled GSEB set)")
	seedKey := seedCmd.String("key", "", "Redis key (default: knowledge.redis_key)")
	seedTTL := seedCmd.Duration("ttl", 0, "Expiry for the snapshot key, 0 keeps it")

	validatePath := validateCmd.String("path", "", "Snapshot file to check (default: bundled GSEB set)")

	countKey := countCmd.String("key", "", "Redis key (default: knowledge.redis_key)")

	if len(os.Args) < 2 {
		help()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "seed":
		seedCmd.Parse(os.Args[2:])
		n, err := seed(*seedFrom, *seedKey, *seedTTL)
		if err != nil {
			fmt.Printf("Error seeding snapshot: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Stored %d documents.\n", n)

	case "validate":
		validateCmd.Parse(os.Args[2:])
		docs, err := readSnapshot(*validatePath)
		if err == nil {
			err = validateDocuments(docs)
		}
		if err != nil {
			fmt.Printf("Snapshot validation failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Snapshot validation passed. Found %d documents.\n", len(docs))

	case "count":
		countCmd.Parse(os.Args[2:])
		n, err := count(*countKey)
		if err != nil {
			fmt.Printf("Error reading snapshot: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Snapshot holds %d documents.\n", n)

	case "help":
		fallthrough
	default:
		help()
	}
}

func readSnapshot(path string) ([]knowledge.Document, error) {
	if path == "" {
		return knowledge.EmbeddedSource{}.Load(context.Background())
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return knowledge.DecodeSnapshot(data)
}

// validateDocuments checks the fields the retrieval filters and prompts rely on.
func validateDocuments(docs []knowledge.Document) error {
	if len(docs) == 0 {
		return fmt.Errorf("snapshot contains no documents")
	}
	for i, d := range docs {
		if d.Subject == "" || d.Chapter == "" || d.Topic == "" {
			return fmt.Errorf("document %d missing subject, chapter or topic", i)
		}
		if d.ClassLevel <= 0 {
			return fmt.Errorf("document %d (%s) has no class level", i, d.Topic)
		}
		if d.ContentEn == "" && d.ContentGu == "" {
			return fmt.Errorf("document %d (%s) has no content", i, d.Topic)
		}
	}
	return nil
}

func redisSource(key string) (*knowledge.RedisSource, *database.RedisClient, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	if cfg.Database.Redis.Address == "" {
		return nil, nil, fmt.Errorf("database.redis.address is not configured")
	}
	if key == "" {
		key = cfg.Knowledge.RedisKey
	}
	rdb := database.NewRedis(cfg.Database.Redis)
	return &knowledge.RedisSource{Client: rdb.Client, Key: key}, rdb, nil
}

func seed(from, key string, ttl time.Duration) (int, error) {
	docs, err := readSnapshot(from)
	if err != nil {
		return 0, err
	}
	if err := validateDocuments(docs); err != nil {
		return 0, err
	}

	src, rdb, err := redisSource(key)
	if err != nil {
		return 0, err
	}
	defer rdb.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := src.Store(ctx, docs, ttl); err != nil {
		return 0, err
	}
	return len(docs), nil
}

func count(key string) (int, error) {
	src, rdb, err := redisSource(key)
	if err != nil {
		return 0, err
	}
	defer rdb.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	docs, err := src.Load(ctx)
	if err != nil {
		return 0, err
	}
	return len(docs), nil
}

func help() {
	fmt.Println(`
Usage: knowledge-seeder <command> [flags]

Commands:
  seed      Upload a document snapshot to Redis for knowledge.source=redis
  validate  Check a snapshot file without uploading it
  count     Report how many documents the Redis snapshot holds
  help      Show this help message

Examples:
  knowledge-seeder seed
  knowledge-seeder seed -from data/gseb-class9.json -key gyaansetu:knowledge:class9
  knowledge-seeder validate -path data/gseb-class9.json

Redis settings come from configs/config.yaml or DATABASE_REDIS_ADDRESS.`)
}
