package db

import (
	"context"
	"os"
	"testing"
)

func TestConnectMongo_BadURI(t *testing.T) {
	old := os.Getenv("MONGO_URI")
	defer os.Setenv("MONGO_URI", old)

	os.Setenv("MONGO_URI", "mongodb://bad:uri")
	client, err := ConnectMongo()
	if err == nil {
		t.Error("expected error for bad URI, got nil")
	}
	if client != nil {
		t.Error("expected nil client on error")
	}
}

// Integration test (requires running MongoDB)
func TestEnsureIndexes_Integration(t *testing.T) {
	client, cleanup := integrationClient(t)
	defer cleanup()

	database := client.Database(testDBName())
	if err := EnsureIndexes(context.Background(), database); err != nil {
		t.Errorf("EnsureIndexes failed: %v", err)
	}
	// Creating the same indexes twice must be a no-op.
	if err := EnsureIndexes(context.Background(), database); err != nil {
		t.Errorf("EnsureIndexes second run failed: %v", err)
	}
}
