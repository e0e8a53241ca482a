package service

import (
	"context"
	"log"

	"flatgram/internal/persist"
	"flatgram/internal/store"
)

// persistAfterMutation flushes the store to durable storage after a
// successful mutation. A failed save is logged and otherwise ignored: the
// in-memory state stays authoritative and the operation has already
// succeeded, so memory and disk may diverge until the next save lands.
func persistAfterMutation(ctx context.Context, gw persist.Gateway, s *store.Store, component string) {
	if err := gw.Save(ctx, s); err != nil {
		log.Printf("[%s] persist failed, in-memory state retained: %v", component, err)
	}
}
