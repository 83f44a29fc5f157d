package application

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/gestorly/catalog-api/internal/domain/entity"
)

// CatalogSearcher is the slice of ProductService the coordinator needs.
type CatalogSearcher interface {
	Search(ctx context.Context, namePattern *string, isActive *bool) ([]entity.Product, error)
}

// Snapshot is an immutable view of the coordinator's display state.
type Snapshot struct {
	Text     string
	Active   *bool // nil = all statuses
	Busy     bool
	Error    string
	Products []entity.Product
}

const defaultDebounce = 300 * time.Millisecond

// SearchCoordinator debounces rapid text filter edits, cancels superseded
// searches and serializes result application onto its own state.
//
// Every filter change invalidates whatever was pending or in flight:
// the debounce timer is stopped, the in-flight load's context is
// cancelled and its generation number is retired, so a slow superseded
// search can never apply its results over a newer one (last writer wins
// by issuance order, not completion order). Text edits then re-arm the
// debounce timer; status changes and clear-filters reload immediately.
type SearchCoordinator struct {
	searcher CatalogSearcher
	logger   *logrus.Logger
	debounce time.Duration

	mu       sync.Mutex
	text     string
	active   *bool
	busy     bool
	errMsg   string
	products []entity.Product
	timer    *time.Timer
	cancel   context.CancelFunc
	gen      uint64 // issuance counter; only the load holding the current value may apply
	subs     []chan Snapshot
	closed   bool
}

func NewSearchCoordinator(searcher CatalogSearcher, logger *logrus.Logger, debounce time.Duration) *SearchCoordinator {
	if debounce <= 0 {
		debounce = defaultDebounce
	}
	return &SearchCoordinator{
		searcher: searcher,
		logger:   logger,
		debounce: debounce,
		products: []entity.Product{},
	}
}

// SetSearchText records a text filter edit. The pending debounce timer
// and any unapplied in-flight load are discarded and a fresh debounce
// window starts. An unchanged value is a no-op.
func (c *SearchCoordinator) SetSearchText(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || text == c.text {
		return
	}
	c.text = text
	c.invalidateLocked()
	gen := c.gen
	c.timer = time.AfterFunc(c.debounce, func() { c.debounceFired(gen) })
	c.notifyLocked()
}

func (c *SearchCoordinator) debounceFired(gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	// A later edit or status change retired this window.
	if c.closed || gen != c.gen {
		return
	}
	c.timer = nil
	c.startLoadLocked()
}

// SetStatus records a status filter change. Status changes are discrete,
// not typed character by character, so they bypass the debounce and
// reload immediately. An unchanged value is a no-op.
func (c *SearchCoordinator) SetStatus(active *bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || equalStatus(c.active, active) {
		return
	}
	c.active = active
	c.invalidateLocked()
	c.startLoadLocked()
}

// ClearFilters resets the text filter and the status filter to their
// defaults and reloads immediately.
func (c *SearchCoordinator) ClearFilters() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.text = ""
	c.active = nil
	c.invalidateLocked()
	c.startLoadLocked()
}

// Load issues a search with the current filters. While a load is in
// flight this is a no-op; only the cancel-and-restart paths above may
// preempt a running load.
func (c *SearchCoordinator) Load() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || c.busy {
		return
	}
	c.startLoadLocked()
}

// invalidateLocked retires the current generation: the debounce timer is
// stopped and the in-flight load, if any, is cancelled and will be
// discarded on completion.
func (c *SearchCoordinator) invalidateLocked() {
	c.gen++
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.busy = false
}

func (c *SearchCoordinator) startLoadLocked() {
	c.gen++
	gen := c.gen
	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	c.busy = true
	c.errMsg = ""

	var namePattern *string
	if t := strings.TrimSpace(c.text); t != "" {
		namePattern = &t
	}
	active := c.active

	go c.runLoad(ctx, gen, namePattern, active)
	c.notifyLocked()
}

func (c *SearchCoordinator) runLoad(ctx context.Context, gen uint64, namePattern *string, active *bool) {
	products, err := c.searcher.Search(ctx, namePattern, active)

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		// Superseded while in flight; a newer load owns the state now.
		return
	}
	c.busy = false
	c.cancel = nil
	if err != nil {
		c.logger.WithError(err).Error("catalog load failed")
		// Keep showing the previous, still valid collection.
		c.errMsg = "products could not be loaded, try again later"
	} else {
		c.products = products
	}
	c.notifyLocked()
}

// Snapshot returns a copy of the current display state.
func (c *SearchCoordinator) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *SearchCoordinator) snapshotLocked() Snapshot {
	products := make([]entity.Product, len(c.products))
	copy(products, c.products)
	return Snapshot{
		Text:     c.text,
		Active:   c.active,
		Busy:     c.busy,
		Error:    c.errMsg,
		Products: products,
	}
}

// Subscribe returns a channel receiving a snapshot after every state
// change. The channel holds only the latest snapshot: a slow receiver
// sees intermediate states coalesced, never a blocked coordinator.
func (c *SearchCoordinator) Subscribe() <-chan Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	ch := make(chan Snapshot, 1)
	c.subs = append(c.subs, ch)
	return ch
}

func (c *SearchCoordinator) notifyLocked() {
	snap := c.snapshotLocked()
	for _, ch := range c.subs {
		select {
		case ch <- snap:
		default:
			select {
			case <-ch:
			default:
			}
			ch <- snap
		}
	}
}

// Close cancels any pending or in-flight work and closes all
// subscriptions. The coordinator ignores further calls.
func (c *SearchCoordinator) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	c.invalidateLocked()
	for _, ch := range c.subs {
		close(ch)
	}
	c.subs = nil
}

func equalStatus(a, b *bool) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
