package service

import (
	"context"
	"slices"

	"github.com/bookclub/bookclub-server/internal/store"
)

// PurchaseLedger records which books this device has bought. Purchases
// are appended without a duplicate check; membership is what counts.
type PurchaseLedger struct {
	kv store.KV
}

// NewPurchaseLedger returns a ledger over persistent kv.
func NewPurchaseLedger(kv store.KV) *PurchaseLedger {
	return &PurchaseLedger{kv: kv}
}

// List returns every recorded purchase in order, duplicates included.
func (l *PurchaseLedger) List(ctx context.Context) []string {
	ids := store.LoadJSON[[]string](ctx, l.kv, store.KeyPurchases)
	if ids == nil {
		return []string{}
	}
	return ids
}

// HasPurchased reports whether bookID appears in the ledger.
func (l *PurchaseLedger) HasPurchased(ctx context.Context, bookID string) bool {
	return slices.Contains(l.List(ctx), bookID)
}

// Purchase appends bookID to the ledger.
func (l *PurchaseLedger) Purchase(ctx context.Context, bookID string) error {
	ids := append(l.List(ctx), bookID)
	return store.SaveJSON(ctx, l.kv, store.KeyPurchases, ids)
}
