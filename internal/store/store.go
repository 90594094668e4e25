// Package store serializes all mutations of the shop snapshot behind a
// single writer and fans completed snapshots out to subscribers.
package store

import (
	"sync"
	"time"

	"dukaan/internal/engine"
	"dukaan/internal/models"
)

// Observer is notified after every committed transition. The monitoring
// collector implements it; the websocket stream subscribes via Subscribe.
type Observer interface {
	StateChanged(action models.ActionRecord, state engine.State)
}

// Store owns the current snapshot. Every mutation reads the latest
// snapshot, applies the pure reducer and swaps in the result while holding
// the write lock, so concurrent callers observe a strict sequence of
// states and no action is ever applied against a stale snapshot.
type Store struct {
	mu        sync.RWMutex
	state     engine.State
	observers []Observer

	subMu sync.Mutex
	subs  map[chan engine.State]struct{}

	now func() time.Time
}

// New creates a store seeded with the given snapshot.
func New(initial engine.State) *Store {
	return &Store{
		state: initial,
		subs:  make(map[chan engine.State]struct{}),
		now:   time.Now,
	}
}

// AddObserver registers a synchronous transition observer. Observers are
// invoked in commit order, one transition at a time.
func (s *Store) AddObserver(o Observer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, o)
}

// Snapshot returns a deep copy of the current state.
func (s *Store) Snapshot() engine.State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Clone()
}

// Dispatch applies an action record and returns the resulting snapshot.
func (s *Store) Dispatch(action models.ActionRecord) engine.State {
	return s.apply(action, func(cur engine.State) engine.State {
		return engine.Dispatch(cur, action, s.now())
	})
}

// AddProduct registers a new catalog entry.
func (s *Store) AddProduct(item models.InventoryItem) engine.State {
	return s.apply(models.ActionRecord{}, func(cur engine.State) engine.State {
		return cur.AddProduct(item)
	})
}

// AddToCart merges one product into the cart.
func (s *Store) AddToCart(name string, quantity int) engine.State {
	return s.apply(models.ActionRecord{Kind: models.ActionAddToCart}, func(cur engine.State) engine.State {
		return cur.AddToCart(name, quantity)
	})
}

// RemoveFromCart drops a cart line.
func (s *Store) RemoveFromCart(name string) engine.State {
	return s.apply(models.ActionRecord{Kind: models.ActionUpdateCart}, func(cur engine.State) engine.State {
		return cur.RemoveFromCart(name)
	})
}

// Checkout commits the cart as a sale.
func (s *Store) Checkout() engine.State {
	return s.apply(models.ActionRecord{Kind: models.ActionRecordSale}, func(cur engine.State) engine.State {
		return cur.Checkout(s.now())
	})
}

// QuickRestock applies the fixed-quantity restock shortcut.
func (s *Store) QuickRestock(itemID string) engine.State {
	return s.apply(models.ActionRecord{Kind: models.ActionRestock}, func(cur engine.State) engine.State {
		return cur.QuickRestock(itemID, s.now())
	})
}

// apply commits one transition. Observers are notified and subscribers fed
// before the write lock is released, so every consumer sees snapshots in
// commit order; observer callbacks must be cheap and must not call back
// into the store.
func (s *Store) apply(action models.ActionRecord, fn func(engine.State) engine.State) engine.State {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = fn(s.state)
	snapshot := s.state.Clone()

	for _, o := range s.observers {
		o.StateChanged(action, snapshot)
	}
	s.broadcast(snapshot)
	return snapshot
}

// Subscribe returns a channel receiving every snapshot committed after the
// call. Slow subscribers drop snapshots instead of blocking the writer.
func (s *Store) Subscribe() (<-chan engine.State, func()) {
	ch := make(chan engine.State, 8)
	s.subMu.Lock()
	s.subs[ch] = struct{}{}
	s.subMu.Unlock()

	cancel := func() {
		s.subMu.Lock()
		if _, ok := s.subs[ch]; ok {
			delete(s.subs, ch)
			close(ch)
		}
		s.subMu.Unlock()
	}
	return ch, cancel
}

func (s *Store) broadcast(snapshot engine.State) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	for ch := range s.subs {
		select {
		case ch <- snapshot:
		default:
		}
	}
}
