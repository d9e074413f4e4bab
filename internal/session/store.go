package session

import (
	"container/list"
	"sync"

	"github.com/google/uuid"
)

// Factory builds the controller for a new session id.
type Factory func(id string) *Controller

// Store keeps the most recently used sessions in memory. Sessions beyond
// capacity are evicted oldest first; nothing is persisted.
type Store struct {
	capacity int
	factory  Factory
	items    map[string]*list.Element
	queue    *list.List
	mutex    sync.Mutex
}

// NewStore creates a session store holding at most capacity sessions.
func NewStore(capacity int, factory Factory) *Store {
	if capacity <= 0 {
		capacity = 1
	}
	return &Store{
		capacity: capacity,
		factory:  factory,
		items:    make(map[string]*list.Element),
		queue:    list.New(),
	}
}

// Get returns the session with the given id and marks it recently used.
func (s *Store) Get(id string) (*Controller, bool) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	element, exists := s.items[id]
	if !exists {
		return nil, false
	}
	s.queue.MoveToFront(element)
	return element.Value.(*Controller), true
}

// GetOrCreate returns the session for id, creating a fresh one under a new
// id when id is unknown. created reports whether a new session was made.
func (s *Store) GetOrCreate(id string) (ctrl *Controller, created bool) {
	if id != "" {
		if ctrl, ok := s.Get(id); ok {
			return ctrl, false
		}
	}
	return s.Create(), true
}

// Create starts a new session with a random id.
func (s *Store) Create() *Controller {
	ctrl := s.factory(uuid.New().String())

	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.items[ctrl.ID()] = s.queue.PushFront(ctrl)
	if s.queue.Len() > s.capacity {
		s.evict()
	}
	return ctrl
}

// Delete drops a session.
func (s *Store) Delete(id string) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if element, exists := s.items[id]; exists {
		s.queue.Remove(element)
		delete(s.items, id)
	}
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.queue.Len()
}

// evict removes the least recently used session.
func (s *Store) evict() {
	element := s.queue.Back()
	if element == nil {
		return
	}
	s.queue.Remove(element)
	delete(s.items, element.Value.(*Controller).ID())
}
