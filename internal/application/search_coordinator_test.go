package application

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gestorly/catalog-api/internal/domain/entity"
)

type searchCall struct {
	Name   *string
	Active *bool
}

// scriptedSearcher records every search and lets a test hold the first
// call open on a gate to shape interleavings deterministically.
type scriptedSearcher struct {
	mu       sync.Mutex
	calls    []searchCall
	products []entity.Product
	err      error
	gate     chan struct{} // when set, the next call waits on it once
}

func (s *scriptedSearcher) Search(ctx context.Context, namePattern *string, isActive *bool) ([]entity.Product, error) {
	s.mu.Lock()
	s.calls = append(s.calls, searchCall{Name: namePattern, Active: isActive})
	gate := s.gate
	s.gate = nil
	products := s.products
	err := s.err
	s.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err != nil {
		return nil, err
	}
	out := make([]entity.Product, len(products))
	copy(out, products)
	return out, nil
}

func (s *scriptedSearcher) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

func (s *scriptedSearcher) lastCall() searchCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[len(s.calls)-1]
}

func (s *scriptedSearcher) setResults(products []entity.Product, err error) {
	s.mu.Lock()
	s.products = products
	s.err = err
	s.mu.Unlock()
}

func waitIdle(t *testing.T, c *SearchCoordinator) {
	t.Helper()
	require.Eventually(t, func() bool { return !c.Snapshot().Busy }, time.Second, 2*time.Millisecond)
}

func TestDebounceCoalescesRapidEdits(t *testing.T) {
	s := &scriptedSearcher{products: []entity.Product{{ID: 1, Name: "Probe"}}}
	c := NewSearchCoordinator(s, newTestLogger(), 40*time.Millisecond)
	defer c.Close()

	c.SetSearchText("p")
	c.SetSearchText("pr")
	c.SetSearchText("pro")

	require.Eventually(t, func() bool { return s.callCount() == 1 }, time.Second, 2*time.Millisecond)
	waitIdle(t, c)

	call := s.lastCall()
	require.NotNil(t, call.Name)
	assert.Equal(t, "pro", *call.Name, "only the final text survives the debounce window")
	assert.Equal(t, 1, s.callCount())

	snap := c.Snapshot()
	assert.Equal(t, "pro", snap.Text)
	require.Len(t, snap.Products, 1)
}

func TestUnchangedTextIsNoOp(t *testing.T) {
	s := &scriptedSearcher{}
	c := NewSearchCoordinator(s, newTestLogger(), 10*time.Millisecond)
	defer c.Close()

	c.SetSearchText("abc")
	require.Eventually(t, func() bool { return s.callCount() == 1 }, time.Second, 2*time.Millisecond)
	waitIdle(t, c)

	c.SetSearchText("abc")
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 1, s.callCount(), "re-setting the same text must not re-arm the debounce")
}

func TestBlankTextSearchesWithoutNameFilter(t *testing.T) {
	s := &scriptedSearcher{}
	c := NewSearchCoordinator(s, newTestLogger(), 10*time.Millisecond)
	defer c.Close()

	c.SetSearchText("   ")
	require.Eventually(t, func() bool { return s.callCount() == 1 }, time.Second, 2*time.Millisecond)

	assert.Nil(t, s.lastCall().Name, "whitespace-only text means no name filter")
}

func TestStatusChangeBypassesDebounce(t *testing.T) {
	s := &scriptedSearcher{}
	c := NewSearchCoordinator(s, newTestLogger(), time.Hour)
	defer c.Close()

	active := true
	c.SetStatus(&active)

	require.Eventually(t, func() bool { return s.callCount() == 1 }, time.Second, 2*time.Millisecond)
	call := s.lastCall()
	require.NotNil(t, call.Active)
	assert.True(t, *call.Active)
}

func TestUnchangedStatusIsNoOp(t *testing.T) {
	s := &scriptedSearcher{}
	c := NewSearchCoordinator(s, newTestLogger(), 10*time.Millisecond)
	defer c.Close()

	active := true
	c.SetStatus(&active)
	waitIdle(t, c)
	require.Equal(t, 1, s.callCount())

	same := true
	c.SetStatus(&same)
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, 1, s.callCount())
}

func TestStatusChangeCancelsPendingTextSearch(t *testing.T) {
	s := &scriptedSearcher{}
	c := NewSearchCoordinator(s, newTestLogger(), 50*time.Millisecond)
	defer c.Close()

	c.SetSearchText("pending")
	active := false
	c.SetStatus(&active) // fires immediately, retiring the debounce window

	waitIdle(t, c)
	time.Sleep(80 * time.Millisecond) // past the original debounce deadline

	require.Equal(t, 1, s.callCount(), "the debounced text search must not fire after being retired")
	call := s.lastCall()
	require.NotNil(t, call.Name, "the immediate reload still carries the current text")
	assert.Equal(t, "pending", *call.Name)
}

func TestClearFiltersResetsAndReloads(t *testing.T) {
	s := &scriptedSearcher{}
	c := NewSearchCoordinator(s, newTestLogger(), 10*time.Millisecond)
	defer c.Close()

	c.SetSearchText("lamp")
	active := true
	c.SetStatus(&active)
	waitIdle(t, c)

	c.ClearFilters()
	waitIdle(t, c)

	call := s.lastCall()
	assert.Nil(t, call.Name)
	assert.Nil(t, call.Active)

	snap := c.Snapshot()
	assert.Empty(t, snap.Text)
	assert.Nil(t, snap.Active)
}

func TestLoadIsNoOpWhileBusy(t *testing.T) {
	gate := make(chan struct{})
	s := &scriptedSearcher{gate: gate}
	c := NewSearchCoordinator(s, newTestLogger(), 10*time.Millisecond)
	defer c.Close()

	c.Load()
	require.Eventually(t, func() bool { return c.Snapshot().Busy }, time.Second, 2*time.Millisecond)

	c.Load()
	c.Load()
	assert.Equal(t, 1, s.callCount(), "reloads while busy are dropped")

	close(gate)
	waitIdle(t, c)
	assert.Equal(t, 1, s.callCount())
}

func TestSupersededSearchNeverOverwritesNewer(t *testing.T) {
	gate := make(chan struct{})
	slow := []entity.Product{{ID: 1, Name: "Slow"}}
	s := &scriptedSearcher{gate: gate, products: slow}
	c := NewSearchCoordinator(s, newTestLogger(), 5*time.Millisecond)
	defer c.Close()

	// First load hangs on the gate.
	c.Load()
	require.Eventually(t, func() bool { return s.callCount() == 1 }, time.Second, 2*time.Millisecond)

	// A text edit supersedes it; the second search returns fresh results.
	fresh := []entity.Product{{ID: 2, Name: "Fresh"}}
	s.setResults(fresh, nil)
	c.SetSearchText("fresh")

	require.Eventually(t, func() bool { return s.callCount() == 2 }, time.Second, 2*time.Millisecond)
	waitIdle(t, c)

	// Let the first search finish late. Its results must be discarded.
	close(gate)
	time.Sleep(30 * time.Millisecond)

	snap := c.Snapshot()
	require.Len(t, snap.Products, 1)
	assert.Equal(t, "Fresh", snap.Products[0].Name, "last writer wins by issuance order, not completion order")
}

func TestLoadFailureKeepsPreviousResults(t *testing.T) {
	s := &scriptedSearcher{products: []entity.Product{{ID: 1, Name: "Keyboard"}}}
	c := NewSearchCoordinator(s, newTestLogger(), 5*time.Millisecond)
	defer c.Close()

	c.Load()
	waitIdle(t, c)
	require.Len(t, c.Snapshot().Products, 1)

	s.setResults(nil, errors.New("connection reset"))
	c.SetSearchText("anything")
	require.Eventually(t, func() bool { return c.Snapshot().Error != "" }, time.Second, 2*time.Millisecond)

	snap := c.Snapshot()
	require.Len(t, snap.Products, 1, "the stale but valid collection stays on screen")
	assert.Equal(t, "Keyboard", snap.Products[0].Name)
	assert.False(t, snap.Busy)
}

func TestErrorClearsOnNextLoad(t *testing.T) {
	s := &scriptedSearcher{err: errors.New("down")}
	c := NewSearchCoordinator(s, newTestLogger(), 5*time.Millisecond)
	defer c.Close()

	c.Load()
	require.Eventually(t, func() bool { return c.Snapshot().Error != "" }, time.Second, 2*time.Millisecond)

	s.setResults([]entity.Product{{ID: 1, Name: "Back"}}, nil)
	c.SetSearchText("back")
	require.Eventually(t, func() bool {
		snap := c.Snapshot()
		return snap.Error == "" && len(snap.Products) == 1
	}, time.Second, 2*time.Millisecond)
}

func TestSubscribeCoalescesToLatest(t *testing.T) {
	s := &scriptedSearcher{products: []entity.Product{{ID: 1, Name: "Keyboard"}}}
	c := NewSearchCoordinator(s, newTestLogger(), 5*time.Millisecond)
	defer c.Close()

	ch := c.Subscribe()

	c.SetSearchText("k")
	c.SetSearchText("ke")
	c.SetSearchText("key")
	waitIdle(t, c)

	// Drain whatever is buffered; the last snapshot observed must reflect
	// the final state even if intermediate ones were coalesced away.
	var last Snapshot
	deadline := time.After(time.Second)
	for {
		select {
		case snap := <-ch:
			last = snap
			if !last.Busy && last.Text == "key" && len(last.Products) == 1 {
				return
			}
		case <-deadline:
			t.Fatalf("never observed final snapshot, last: %+v", last)
		}
	}
}

func TestCloseStopsEverything(t *testing.T) {
	s := &scriptedSearcher{}
	c := NewSearchCoordinator(s, newTestLogger(), 20*time.Millisecond)

	ch := c.Subscribe()
	c.SetSearchText("pending")
	c.Close()

	_, open := <-ch
	for open {
		_, open = <-ch
	}

	time.Sleep(50 * time.Millisecond)
	assert.Zero(t, s.callCount(), "pending debounce must not fire after close")

	c.SetSearchText("after close")
	c.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Zero(t, s.callCount())
}
