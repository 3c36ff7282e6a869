package ports

import (
	"context"

	"github.com/google/uuid"
)

// WalletChange is the event published after every committed mutation.
// It carries no state; consumers re-load the wallet. Version lets a
// consumer skip a reload it has already seen.
type WalletChange struct {
	WalletID uuid.UUID `json:"wallet_id"`
	Version  int64     `json:"version"`
}

// ChangeNotifier broadcasts wallet mutations to interested consumers.
// Publish is fire-and-forget: exactly one event per committed save, and
// delivery failures never fail the mutation itself.
type ChangeNotifier interface {
	Publish(ctx context.Context, change WalletChange) error
	// Subscribe returns a channel of changes for one wallet and a cancel
	// function releasing the subscription.
	Subscribe(ctx context.Context, walletID uuid.UUID) (<-chan WalletChange, func(), error)
}
