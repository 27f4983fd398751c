// Package registry provides the named resource store shared by the
// runtime's two loops.
//
// The store maps opaque hierarchical string keys to typed slots. A
// slot's value type is fixed at registration; reading a slot with the
// wrong expected type reports failure, never a reinterpreted value.
//
// # Access model
//
// Snapshot reads copy the value out under the slot's lock:
//
//	dt, ok := registry.Get[time.Duration](store, "app/timing/render")
//
// Closure access holds the slot's lock for the closure's duration,
// which is how shared mutable resources (the window, the name table)
// are touched without a data race:
//
//	registry.WithMutate(store, "app/window", func(w *backend.Window) struct{} {
//		(*w).SetShouldClose(true)
//		return struct{}{}
//	})
//
// # Locking
//
// Each slot carries its own mutex; per-key operations are linearizable
// relative to each other, and operations on different keys proceed
// independently. Closures must not re-enter the store on their own key.
//
// # Register vs Put
//
// Register fails when the key is occupied: duplicates are treated as
// programming errors (the orchestrator's single-instance guard relies
// on this). Put upserts, for values republished every iteration such
// as frame timings, but still refuses to change an existing slot's
// type.
package registry
