package live

import (
	"context"
)

// Query produces a fresh snapshot of a view.
type Query[T any] func(ctx context.Context) (T, error)

// Watch runs query once immediately and again after every committed write touching
// one of the tables. The returned channel always holds the latest snapshot: a slow
// reader skips intermediate ones. A failed query is logged and skipped. The channel
// closes when ctx is done.
func Watch[T any](ctx context.Context, hub *Hub, query Query[T], tables ...string) <-chan T {
	out := make(chan T, 1)
	sub := hub.Subscribe(tables...)

	go func() {
		defer close(out)
		defer sub.Close()

		emit := func() {
			snapshot, err := query(ctx)
			if err != nil {
				if ctx.Err() == nil {
					hub.log.Warn("live query failed", "subscription", sub.ID, "error", err)
				}
				return
			}
			for {
				select {
				case out <- snapshot:
					return
				default:
				}
				// Drop the stale snapshot the reader has not taken yet.
				select {
				case <-out:
				default:
				}
			}
		}

		emit()
		for {
			select {
			case <-ctx.Done():
				return
			case <-sub.C:
				emit()
			}
		}
	}()
	return out
}
