package db

import (
	"context"
	"os"
	"testing"
	"time"
)

func TestConnectRejectsEmptyDSN(t *testing.T) {
	if _, err := Connect(context.Background(), ""); err == nil {
		t.Fatal("expected an error for an empty DSN")
	}
}

func TestConnectRejectsMalformedDSN(t *testing.T) {
	if _, err := Connect(context.Background(), "::not-a-dsn::"); err == nil {
		t.Fatal("expected an error for a malformed DSN")
	}
}

// TestConnectIntegration needs a reachable database; it is skipped unless
// DATABASE_URL is set.
func TestConnectIntegration(t *testing.T) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set, skipping integration test")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := Connect(ctx, dsn)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		t.Errorf("ping: %v", err)
	}
}
