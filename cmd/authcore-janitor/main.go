// Command authcore-janitor runs the periodic maintenance the engine does
// not do inline: deleting expired verification tokens and security log
// entries past their retention window, straight against Postgres.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lucasandr3/authcore/store/postgres"
)

func main() {
	var (
		dsn       = flag.String("dsn", os.Getenv("DATABASE_URL"), "postgres connection string")
		interval  = flag.Duration("interval", time.Hour, "time between maintenance sweeps")
		retention = flag.Int("log-retention-days", 90, "security log retention in days")
		once      = flag.Bool("once", false, "run a single sweep and exit")
	)
	flag.Parse()

	if *dsn == "" {
		log.Fatal("authcore-janitor: -dsn or DATABASE_URL is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, *dsn)
	if err != nil {
		log.Fatalf("authcore-janitor: connecting: %v", err)
	}
	defer pool.Close()

	tokens := postgres.NewTokenStore(pool)
	logs := postgres.NewLogStore(pool)

	sweep := func() {
		now := time.Now()
		removed, err := tokens.DeleteExpired(ctx, now)
		if err != nil {
			log.Printf("authcore-janitor: purging tokens: %v", err)
		} else if removed > 0 {
			log.Printf("authcore-janitor: purged %d expired verification tokens", removed)
		}
		cutoff := now.Add(-time.Duration(*retention) * 24 * time.Hour)
		removed, err = logs.DeleteOlderThan(ctx, cutoff)
		if err != nil {
			log.Printf("authcore-janitor: cleaning logs: %v", err)
		} else if removed > 0 {
			log.Printf("authcore-janitor: removed %d security log entries older than %s", removed, cutoff.Format(time.RFC3339))
		}
	}

	sweep()
	if *once {
		return
	}

	ticker := time.NewTicker(*interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			log.Println("authcore-janitor: shutting down")
			return
		case <-ticker.C:
			sweep()
		}
	}
}
