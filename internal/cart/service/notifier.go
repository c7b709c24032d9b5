package service

import "sync"

// Change is the event delivered to cart subscribers after every mutation.
// The badge counter only needs the aggregates, not the full cart.
type Change struct {
	UserID    string
	ItemCount int
	Total     float64
}

// Notifier fans out cart change events to per-user subscribers. Delivery is
// best effort: a subscriber that is not draining its channel misses events
// instead of blocking mutations.
type Notifier struct {
	mu   sync.Mutex
	subs map[string]map[int]chan Change
	next int
}

func NewNotifier() *Notifier {
	return &Notifier{subs: make(map[string]map[int]chan Change)}
}

func (n *Notifier) Subscribe(userID string) (<-chan Change, func()) {
	n.mu.Lock()
	defer n.mu.Unlock()

	ch := make(chan Change, 8)
	id := n.next
	n.next++

	if n.subs[userID] == nil {
		n.subs[userID] = make(map[int]chan Change)
	}
	n.subs[userID][id] = ch

	cancel := func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		if set, ok := n.subs[userID]; ok {
			if c, ok := set[id]; ok {
				delete(set, id)
				close(c)
			}
			if len(set) == 0 {
				delete(n.subs, userID)
			}
		}
	}

	return ch, cancel
}

func (n *Notifier) Notify(userID string, change Change) {
	n.mu.Lock()
	defer n.mu.Unlock()

	for _, ch := range n.subs[userID] {
		select {
		case ch <- change:
		default:
		}
	}
}
