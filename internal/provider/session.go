package provider

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/mmcdole/classboard/internal/domain"
)

// session resolves the student every scoped source needs. The student is
// fetched once per process and read back from the cache on later starts.
type session struct {
	client domain.RegisterClient
	cache  domain.Cache
	logger *slog.Logger

	mu      sync.Mutex
	student *domain.Student
}

// cached returns the known student without touching the network.
func (s *session) cached() (domain.Student, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.student != nil {
		return *s.student, true
	}
	var st domain.Student
	if s.cache.Get(KeyStudent, &st) && st.ID != "" {
		s.student = &st
		return st, true
	}
	return domain.Student{}, false
}

// current returns the known student, fetching it when nothing is cached.
func (s *session) current(ctx context.Context) (domain.Student, error) {
	if st, ok := s.cached(); ok {
		return st, nil
	}
	st, err := s.client.CurrentStudent(ctx)
	if err != nil {
		return domain.Student{}, fmt.Errorf("resolve student: %w", err)
	}
	if err := s.save(st); err != nil {
		s.logger.Error("failed to save student", "error", err)
	}
	return st, nil
}

func (s *session) save(st domain.Student) error {
	s.mu.Lock()
	s.student = &st
	s.mu.Unlock()
	return s.cache.Put(KeyStudent, st)
}

func (s *session) clear() {
	s.mu.Lock()
	s.student = nil
	s.mu.Unlock()
	s.cache.InvalidatePrefix(KeyStudent)
}
