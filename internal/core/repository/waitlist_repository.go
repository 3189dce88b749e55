package repository

import (
	"context"

	"github.com/shizzytech/LinguaSync-AI/internal/core/domain"
)

type WaitlistRepository interface {
	Create(ctx context.Context, entry *domain.WaitlistEntry) error
	FindByEmail(ctx context.Context, email string) (*domain.WaitlistEntry, error)
	List(ctx context.Context) ([]*domain.WaitlistEntry, error)
}
