// Package watch реализует отменяемые подписки на поток значений,
// в котором последнее опубликованное значение вытесняет предыдущие.
//
// Каждый подписчик получает значения в своей горутине через ящик на одно
// значение: если подписчик не успевает, промежуточные значения пропускаются,
// но более старое значение никогда не приходит после более нового.
package watch

import (
	"sync"
	"sync/atomic"
)

// Subscription регистрация подписчика. Cancel можно вызывать многократно.
type Subscription struct {
	once   sync.Once
	cancel func()
}

// NewSubscription оборачивает функцию отмены
func NewSubscription(cancel func()) *Subscription {
	return &Subscription{cancel: cancel}
}

// Cancel отписывает подписчика. Новые значения ему больше не доставляются.
func (s *Subscription) Cancel() {
	if s == nil {
		return
	}
	s.once.Do(func() {
		if s.cancel != nil {
			s.cancel()
		}
	})
}

type subscriber[T any] struct {
	fn     func(T)
	active atomic.Bool
	wake   chan struct{}
	done   chan struct{}

	mu      sync.Mutex
	pending T
	has     bool
}

func newSubscriber[T any](fn func(T)) *subscriber[T] {
	s := &subscriber[T]{
		fn:   fn,
		wake: make(chan struct{}, 1),
		done: make(chan struct{}),
	}
	s.active.Store(true)
	return s
}

// offer кладёт значение в ящик, вытесняя недоставленное
func (s *subscriber[T]) offer(v T) {
	s.mu.Lock()
	s.pending = v
	s.has = true
	s.mu.Unlock()

	select {
	case s.wake <- struct{}{}:
	default:
	}
}

func (s *subscriber[T]) run() {
	for {
		select {
		case <-s.done:
			return
		case <-s.wake:
		}

		s.mu.Lock()
		if !s.has {
			s.mu.Unlock()
			continue
		}
		v := s.pending
		var zero T
		s.pending = zero
		s.has = false
		s.mu.Unlock()

		if !s.active.Load() {
			return
		}
		s.fn(v)
	}
}

func (s *subscriber[T]) stop() {
	if s.active.CompareAndSwap(true, false) {
		close(s.done)
	}
}

// Hub рассылает значения подписчикам. Publish не блокируется на подписчиках.
type Hub[T any] struct {
	mu   sync.Mutex
	subs map[uint64]*subscriber[T]
	next uint64
	last T
	has  bool
}

// NewHub создаёт пустой Hub
func NewHub[T any]() *Hub[T] {
	return &Hub[T]{subs: make(map[uint64]*subscriber[T])}
}

// Subscribe регистрирует fn. Если значение уже публиковалось,
// подписчик сразу получит последнее.
func (h *Hub[T]) Subscribe(fn func(T)) *Subscription {
	sub := newSubscriber(fn)

	h.mu.Lock()
	id := h.next
	h.next++
	h.subs[id] = sub
	if h.has {
		sub.offer(h.last)
	}
	h.mu.Unlock()

	go sub.run()

	return NewSubscription(func() {
		sub.stop()
		h.mu.Lock()
		delete(h.subs, id)
		h.mu.Unlock()
	})
}

// Publish запоминает v как последнее значение и ставит его в ящики подписчиков
func (h *Hub[T]) Publish(v T) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.last = v
	h.has = true
	for _, s := range h.subs {
		s.offer(v)
	}
}

// Last возвращает последнее опубликованное значение
func (h *Hub[T]) Last() (T, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.last, h.has
}

// Len количество активных подписчиков
func (h *Hub[T]) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// Close отписывает всех подписчиков
func (h *Hub[T]) Close() {
	h.mu.Lock()
	subs := h.subs
	h.subs = make(map[uint64]*subscriber[T])
	h.mu.Unlock()

	for _, s := range subs {
		s.stop()
	}
}
