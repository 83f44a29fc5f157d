package entity

// Option is a named variant owned by exactly one product. A zero ID means
// the option has not been persisted yet. Version is the optimistic
// concurrency token: the store increments it on every update, and an
// update carrying a stale version is rejected as a conflict.
type Option struct {
	ID        int64
	Name      string
	ProductID int64
	Active    bool
	Version   int64
}
