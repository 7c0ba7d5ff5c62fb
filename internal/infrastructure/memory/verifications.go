package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/estate-leads-api/internal/domain"
)

// VerificationStore keeps pending codes in process memory. Codes are lost on
// restart and are not visible to other instances; use the redis or dynamo
// store when running more than one replica.
type VerificationStore struct {
	mu    sync.Mutex
	codes map[string]domain.VerificationCode
}

func NewVerificationStore() *VerificationStore {
	return &VerificationStore{codes: make(map[string]domain.VerificationCode)}
}

func (s *VerificationStore) Put(_ context.Context, v *domain.VerificationCode) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.codes[v.PhoneNumber] = *v
	return nil
}

func (s *VerificationStore) Get(_ context.Context, phone string) (*domain.VerificationCode, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.codes[phone]
	if !ok {
		return nil, fmt.Errorf("verification not found: %w", domain.ErrNotFound)
	}
	return &v, nil
}

// Consume removes the pending code for phone if it still carries codeHash and
// reports whether this call removed it.
func (s *VerificationStore) Consume(_ context.Context, phone, codeHash string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.codes[phone]
	if !ok || v.CodeHash != codeHash {
		return false, nil
	}
	delete(s.codes, phone)
	return true, nil
}
