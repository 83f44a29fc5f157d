package application

import (
	"testing"
	"time"
)

func TestDebugBusyCall(t *testing.T) {
	gate := make(chan struct{})
	s := &scriptedSearcher{gate: gate}
	c := NewSearchCoordinator(s, newTestLogger(), 10*time.Millisecond)
	defer c.Close()
	c.Load()
	for i := 0; i < 20; i++ {
		t.Logf("i=%d busy=%v calls=%d", i, c.Snapshot().Busy, s.callCount())
		time.Sleep(time.Millisecond)
	}
	close(gate)
}
