package main

import (
	"sync"
	"time"
)

// mTicker fans a single ticker out to every connection's writer so the
// process keeps one timer no matter how many peers need keepalive pings.
type mTicker struct {
	mux         sync.Mutex // Protects subscribers map
	subscribers subscribers

	tickerMux sync.Mutex // Used to sync start/stop
	ticker    *time.Ticker
	stopCh    chan struct{}
	stopped   bool
}

type subscribers map[*subscriber]interface {
}

type subscriber struct {
	tick chan time.Time
}

func newMTicker(interval time.Duration) *mTicker {
	t := &mTicker{
		subscribers: make(subscribers),
	}

	go func() {
		t.tickerMux.Lock()
		stopped := t.stopped

		if !stopped {
			t.stopCh = make(chan struct{}, 1)
			t.ticker = time.NewTicker(interval)
		}
		t.tickerMux.Unlock()

		if !stopped {
			t.run()
		}
	}()
	return t
}

func newSubscriber() *subscriber {
	return &subscriber{
		tick: make(chan time.Time, 1),
	}
}

// subscribe returns a channel to which ticks will be delivered. Ticks that
// can't be delivered to the channel, because it is not ready to receive, are
// discarded.
func (t *mTicker) subscribe() *subscriber {
	t.mux.Lock()
	defer t.mux.Unlock()

	sub := newSubscriber()
	t.subscribers[sub] = nil
	return sub
}

func (t *mTicker) unsubscribe(subscriber *subscriber) {
	t.mux.Lock()
	defer t.mux.Unlock()

	if _, ok := t.subscribers[subscriber]; !ok {
		return
	}
	close(subscriber.tick)
	delete(t.subscribers, subscriber)
}

// stop stops the ticker and closes all subscribed channels. Safe to call
// before the ticker goroutine has started and safe to call twice.
func (t *mTicker) stop() {
	t.tickerMux.Lock()
	defer t.tickerMux.Unlock()

	if t.stopped {
		return
	}
	t.stopped = true

	t.mux.Lock()
	for sub := range t.subscribers {
		close(sub.tick)
		delete(t.subscribers, sub)
	}
	t.mux.Unlock()

	if t.stopCh != nil {
		t.ticker.Stop()
		t.stopCh <- struct{}{}
	}
}

func (t *mTicker) run() {
	for {
		select {
		case tick := <-t.ticker.C:
			t.mux.Lock()
			for sub := range t.subscribers {
				select {
				case sub.tick <- tick:
				default:
					incr("pings.dropped", 1)
				}
			}
			t.mux.Unlock()
		case <-t.stopCh:
			return
		}
	}
}
