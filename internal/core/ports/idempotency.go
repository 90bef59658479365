package ports

import "context"

// IdempotencyStore tracks which item an owner's Idempotency-Key produced.
//
// Reserve claims the key before the item is written. When the key is already
// taken it reports the recorded item id, or "" while the first request is
// still in flight. Complete records the created item; Release frees a claim
// whose create failed.
type IdempotencyStore interface {
	Reserve(ctx context.Context, ownerID, key string) (existingID string, reserved bool, err error)
	Complete(ctx context.Context, ownerID, key, itemID string) error
	Release(ctx context.Context, ownerID, key string) error
}
