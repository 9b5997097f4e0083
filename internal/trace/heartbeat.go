package trace

import (
	"strconv"
	"sync"
	"time"
)

// Heartbeat emits a KindHeartbeat event every interval. A trace whose last
// lines are heartbeats without a matching span end shows where a run hangs.
type Heartbeat struct {
	done chan struct{}
	wg   sync.WaitGroup
	once sync.Once
}

// StartHeartbeat returns nil when tracing is disabled or interval is not positive.
func StartHeartbeat(tracer Tracer, interval time.Duration) *Heartbeat {
	if tracer == nil || !tracer.Enabled() || interval <= 0 {
		return nil
	}
	h := &Heartbeat{done: make(chan struct{})}
	h.wg.Add(1)
	go func() {
		defer h.wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for beat := 1; ; beat++ {
			select {
			case <-h.done:
				return
			case <-ticker.C:
				emit(tracer, &Event{
					Kind:   KindHeartbeat,
					Scope:  ScopeDriver,
					GID:    goroutineID(),
					Name:   "heartbeat",
					Detail: "#" + strconv.Itoa(beat),
				})
			}
		}
	}()
	return h
}

// Stop ends the goroutine and waits for it; safe on nil and when repeated.
func (h *Heartbeat) Stop() {
	if h == nil {
		return
	}
	h.once.Do(func() { close(h.done) })
	h.wg.Wait()
}
