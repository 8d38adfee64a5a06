package storage

import (
	"context"
	"os"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

func getRedisClient(t *testing.T) *redis.Client {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(context.Background()).Err(); err != nil {
		t.Skipf("Redis not available: %v", err)
	}
	return client
}

func clearRedisCollections(ctx context.Context, client *redis.Client) {
	for _, name := range []string{usersCollection, restaurantsCollection, ordersCollection, driversCollection} {
		client.Del(ctx, collectionKeyPrefix+name)
	}
}

func TestRedisAdapter_RoundTrip(t *testing.T) {
	client := getRedisClient(t)
	defer client.Close()

	ctx := context.Background()
	clearRedisCollections(ctx, client)
	defer clearRedisCollections(ctx, client)

	assertRoundTrip(t, NewRedisAdapter(client, zerolog.Nop()))
}

func TestRedisAdapter_MissingKeyLoadsEmpty(t *testing.T) {
	client := getRedisClient(t)
	defer client.Close()

	ctx := context.Background()
	clearRedisCollections(ctx, client)

	adapter := NewRedisAdapter(client, zerolog.Nop())
	drivers, err := adapter.LoadDrivers(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(drivers) != 0 {
		t.Errorf("expected no drivers, got %d", len(drivers))
	}
}

func TestRedisAdapter_MalformedValueLoadsEmpty(t *testing.T) {
	client := getRedisClient(t)
	defer client.Close()

	ctx := context.Background()
	clearRedisCollections(ctx, client)
	defer clearRedisCollections(ctx, client)

	client.Set(ctx, collectionKeyPrefix+usersCollection, "not json", 0)

	users, err := NewRedisAdapter(client, zerolog.Nop()).LoadUsers(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(users) != 0 {
		t.Errorf("expected no users, got %d", len(users))
	}
}
