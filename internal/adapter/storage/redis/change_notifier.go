package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"wallet-ledger/internal/core/ports"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
)

// ChangeNotifier implements ports.ChangeNotifier using Redis pub/sub,
// one channel per wallet. Events are dirty-flags: subscribers re-load
// the wallet, they never apply the event as a diff.
type ChangeNotifier struct {
	client *goredis.Client
	prefix string
}

// NewChangeNotifier creates a Redis-backed wallet change notifier.
func NewChangeNotifier(client *goredis.Client) *ChangeNotifier {
	return &ChangeNotifier{
		client: client,
		prefix: "wallet:changed:",
	}
}

func (n *ChangeNotifier) channel(walletID uuid.UUID) string {
	return n.prefix + walletID.String()
}

// Publish broadcasts one change event. Missed events are acceptable
// (subscribers fall back to polling with the version token), so there
// is no retry.
func (n *ChangeNotifier) Publish(ctx context.Context, change ports.WalletChange) error {
	payload, err := json.Marshal(change)
	if err != nil {
		return fmt.Errorf("marshal wallet change: %w", err)
	}
	if err := n.client.Publish(ctx, n.channel(change.WalletID), payload).Err(); err != nil {
		return fmt.Errorf("publish wallet change: %w", err)
	}
	return nil
}

// Subscribe listens for changes of one wallet. The returned cancel
// function closes the subscription and the channel.
func (n *ChangeNotifier) Subscribe(ctx context.Context, walletID uuid.UUID) (<-chan ports.WalletChange, func(), error) {
	sub := n.client.Subscribe(ctx, n.channel(walletID))

	// Confirm the subscription before handing out the channel so callers
	// don't miss events published right after Subscribe returns.
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, nil, fmt.Errorf("subscribe wallet changes: %w", err)
	}

	out := make(chan ports.WalletChange, 16)
	go func() {
		defer close(out)
		for msg := range sub.Channel() {
			var change ports.WalletChange
			if err := json.Unmarshal([]byte(msg.Payload), &change); err != nil {
				continue
			}
			out <- change
		}
	}()

	cancel := func() { _ = sub.Close() }
	return out, cancel, nil
}
