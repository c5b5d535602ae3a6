package movies

import (
	"sort"
	"sync"
)

// Store is an in-memory movie collection safe for concurrent use.
// Ids start at 1 and are never reused until Reset.
type Store struct {
	mu     sync.RWMutex
	nextID int
	items  map[int]Movie
}

func NewStore() *Store {
	return &Store{
		nextID: 1,
		items:  make(map[int]Movie),
	}
}

// Add stores a new movie under the next free id.
func (s *Store) Add(title string, year int) Movie {
	s.mu.Lock()
	defer s.mu.Unlock()

	m := Movie{
		ID:    s.nextID,
		Title: title,
		Year:  year,
	}
	s.nextID++
	s.items[m.ID] = m
	return m
}

// All returns a snapshot of every movie ordered by id.
func (s *Store) All() []Movie {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.collect(func(Movie) bool { return true })
}

// ByYear returns a snapshot of the movies released in year, ordered by id.
func (s *Store) ByYear(year int) []Movie {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.collect(func(m Movie) bool { return m.Year == year })
}

func (s *Store) Get(id int) (Movie, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.items[id]
	return m, ok
}

// Delete removes the movie with the given id and reports whether it existed.
func (s *Store) Delete(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[id]; !ok {
		return false
	}
	delete(s.items, id)
	return true
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.items)
}

// Reset drops every movie and restarts ids at 1.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = make(map[int]Movie)
	s.nextID = 1
}

// collect must be called with s.mu held.
func (s *Store) collect(match func(Movie) bool) []Movie {
	out := make([]Movie, 0, len(s.items))
	for _, m := range s.items {
		if match(m) {
			out = append(out, m)
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
