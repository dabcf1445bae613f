package store

import (
	"sync"

	"github.com/example/cart-sync-service/internal/domain"
)

type change struct {
	prev, next domain.State
}

// Store хранит состояние в памяти. Редьюсер применяется под mu, поэтому
// GetState видит действие сразу после возврата Dispatch. Вызовы подписчиков
// ставятся в очередь и доставляются в порядке Dispatch той горутиной, что уже
// разбирает очередь; подписчик может сам вызывать Dispatch.
type Store struct {
	mu        sync.Mutex
	state     domain.State
	listeners map[int]domain.Listener
	order     []int
	nextID    int

	pending  []change
	draining bool
}

func New(initial domain.State) *Store {
	return &Store{
		state:     initial,
		listeners: make(map[int]domain.Listener),
	}
}

func (s *Store) GetState() domain.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.state
	st.Cart = st.Cart.Clone()
	return st
}

func (s *Store) Subscribe(l domain.Listener) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = l
	s.order = append(s.order, id)
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.listeners, id)
			for i, v := range s.order {
				if v == id {
					s.order = append(s.order[:i:i], s.order[i+1:]...)
					break
				}
			}
			s.mu.Unlock()
		})
	}
}

func (s *Store) Dispatch(a domain.Action) {
	s.mu.Lock()
	prev := s.state
	next := Reduce(prev, a)
	s.state = next
	s.pending = append(s.pending, change{prev: prev, next: next})
	if s.draining {
		s.mu.Unlock()
		return
	}
	s.draining = true
	for len(s.pending) > 0 {
		c := s.pending[0]
		s.pending = s.pending[1:]
		ls := make([]domain.Listener, 0, len(s.order))
		for _, id := range s.order {
			ls = append(ls, s.listeners[id])
		}
		s.mu.Unlock()
		for _, l := range ls {
			l(c.prev, c.next)
		}
		s.mu.Lock()
	}
	s.draining = false
	s.mu.Unlock()
}

var _ domain.Store = (*Store)(nil)
