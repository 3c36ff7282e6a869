package redis_test

import (
	"context"
	"testing"
	"time"

	"wallet-ledger/internal/adapter/storage/redis"
	"wallet-ledger/internal/core/ports"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChangeNotifier_PublishSubscribe(t *testing.T) {
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	defer client.Close()

	notifier := redis.NewChangeNotifier(client)
	ctx := context.Background()
	walletID := uuid.New()

	events, cancel, err := notifier.Subscribe(ctx, walletID)
	require.NoError(t, err)
	defer cancel()

	err = notifier.Publish(ctx, ports.WalletChange{WalletID: walletID, Version: 7})
	require.NoError(t, err)

	select {
	case change := <-events:
		assert.Equal(t, walletID, change.WalletID)
		assert.Equal(t, int64(7), change.Version)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for wallet change event")
	}
}

func TestChangeNotifier_SubscriberScopedToWallet(t *testing.T) {
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	defer client.Close()

	notifier := redis.NewChangeNotifier(client)
	ctx := context.Background()
	watched := uuid.New()
	other := uuid.New()

	events, cancel, err := notifier.Subscribe(ctx, watched)
	require.NoError(t, err)
	defer cancel()

	// Event for a different wallet must not reach this subscriber.
	require.NoError(t, notifier.Publish(ctx, ports.WalletChange{WalletID: other, Version: 1}))
	require.NoError(t, notifier.Publish(ctx, ports.WalletChange{WalletID: watched, Version: 2}))

	select {
	case change := <-events:
		assert.Equal(t, watched, change.WalletID)
		assert.Equal(t, int64(2), change.Version)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for wallet change event")
	}
}

func TestChangeNotifier_CancelClosesChannel(t *testing.T) {
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	defer client.Close()

	notifier := redis.NewChangeNotifier(client)
	events, cancel, err := notifier.Subscribe(context.Background(), uuid.New())
	require.NoError(t, err)

	cancel()

	select {
	case _, ok := <-events:
		assert.False(t, ok, "channel should be closed after cancel")
	case <-time.After(2 * time.Second):
		t.Fatal("channel not closed after cancel")
	}
}
