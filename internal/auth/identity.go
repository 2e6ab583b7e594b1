package auth

import "sync"

// Identity holds the user currently signed in on this device and notifies
// subscribers, synchronously and in subscription order, whenever it changes.
type Identity struct {
	mu     sync.Mutex
	userID string
	nextID int
	subs   map[int]func(userID string)
	order  []int
}

func NewIdentity() *Identity {
	return &Identity{subs: make(map[int]func(string))}
}

func (i *Identity) Current() string {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.userID
}

// Subscribe registers fn and returns a function that removes it.
func (i *Identity) Subscribe(fn func(userID string)) (unsubscribe func()) {
	i.mu.Lock()
	defer i.mu.Unlock()
	id := i.nextID
	i.nextID++
	i.subs[id] = fn
	i.order = append(i.order, id)
	return func() {
		i.mu.Lock()
		defer i.mu.Unlock()
		delete(i.subs, id)
	}
}

// Set changes the current user. Setting the same value again does not notify.
func (i *Identity) Set(userID string) {
	i.mu.Lock()
	if i.userID == userID {
		i.mu.Unlock()
		return
	}
	i.userID = userID
	fns := make([]func(string), 0, len(i.subs))
	for _, id := range i.order {
		if fn, ok := i.subs[id]; ok {
			fns = append(fns, fn)
		}
	}
	i.mu.Unlock()

	for _, fn := range fns {
		fn(userID)
	}
}
