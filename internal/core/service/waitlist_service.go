package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/shizzytech/LinguaSync-AI/internal/core/domain"
	"github.com/shizzytech/LinguaSync-AI/internal/core/repository"
	"github.com/shizzytech/LinguaSync-AI/internal/metrics"
)

type WaitlistService struct {
	waitlistRepo repository.WaitlistRepository
	metrics      *metrics.Metrics
}

func NewWaitlistService(waitlistRepo repository.WaitlistRepository, m *metrics.Metrics) *WaitlistService {
	return &WaitlistService{
		waitlistRepo: waitlistRepo,
		metrics:      m,
	}
}

// Join adds email to the waitlist. A repeat submission is not an error: the
// existing entry is returned with alreadyRegistered set.
func (s *WaitlistService) Join(ctx context.Context, email string, referralSource *string) (entry *domain.WaitlistEntry, alreadyRegistered bool, err error) {
	existing, err := s.waitlistRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		s.metrics.ObserveWaitlistSignup(metrics.ResultDuplicate)
		return existing, true, nil
	}

	entry = domain.NewWaitlistEntry(email, referralSource)
	if err := s.waitlistRepo.Create(ctx, entry); err != nil {
		if !errors.Is(err, repository.ErrDuplicate) {
			return nil, false, err
		}

		// Lost a race with a concurrent submission of the same email
		existing, findErr := s.waitlistRepo.FindByEmail(ctx, email)
		if findErr != nil {
			return nil, false, findErr
		}
		if existing == nil {
			return nil, false, fmt.Errorf("waitlist entry vanished after conflict: %w", err)
		}
		s.metrics.ObserveWaitlistSignup(metrics.ResultDuplicate)
		return existing, true, nil
	}

	s.metrics.ObserveWaitlistSignup(metrics.ResultCreated)
	return entry, false, nil
}

func (s *WaitlistService) List(ctx context.Context) ([]*domain.WaitlistEntry, error) {
	return s.waitlistRepo.List(ctx)
}
