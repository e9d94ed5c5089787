package main

import (
	"context"
	"log"
	"time"

	"github.com/Mizuri0x/contentblast/app"
	"github.com/Mizuri0x/contentblast/app/config"
	"github.com/Mizuri0x/contentblast/store"

	"github.com/go-redis/redis/v8"
)

// sessionPurgeInterval is how often expired session rows are swept out of
// postgres. Redis entries expire on their own and the file store purges
// lazily on lookup.
const sessionPurgeInterval = time.Hour

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	users, sessions, err := openStores(cfg)
	if err != nil {
		log.Fatalf("failed to open stores: %v", err)
	}

	a := app.New(cfg, users, sessions)
	if err := a.Router().Run(cfg.Addr); err != nil {
		log.Fatalf("server exited: %v", err)
	}
}

func openStores(cfg *config.Config) (store.UserStore, store.SessionStore, error) {
	var users store.UserStore
	var sessions store.SessionStore

	switch cfg.Store.Driver {
	case "memory":
		m := store.NewMemory()
		users, sessions = m.Users(), m.Sessions()
	case "postgres":
		pg, err := store.OpenPostgres(cfg.Store.Postgres.DSN())
		if err != nil {
			return nil, nil, err
		}
		if err := pg.EnsureSchema(context.Background()); err != nil {
			return nil, nil, err
		}
		log.Println("Connected to Postgres")
		users, sessions = pg.Users(), pg.Sessions()
		go purgeSessionsLoop(pg)
	default:
		fs, err := store.NewFileStore(cfg.Store.DataDir)
		if err != nil {
			return nil, nil, err
		}
		users, sessions = fs.Users(), fs.Sessions()
	}

	// Sessions can live in redis regardless of the user store driver.
	if cfg.Store.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.Store.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		sessions = store.NewRedisSessions(redis.NewClient(opts))
		log.Println("Using redis session store")
	}

	return users, sessions, nil
}

func purgeSessionsLoop(pg *store.Postgres) {
	ticker := time.NewTicker(sessionPurgeInterval)
	defer ticker.Stop()
	for range ticker.C {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		if err := pg.PurgeExpiredSessions(ctx, time.Now()); err != nil {
			log.Printf("session purge failed: %v", err)
		}
		cancel()
	}
}
