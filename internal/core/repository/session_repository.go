package repository

import (
	"context"
	"time"

	"github.com/shizzytech/LinguaSync-AI/internal/core/domain"
)

type SessionRepository interface {
	Find(ctx context.Context, id string) (*domain.Session, error)
	Save(ctx context.Context, session *domain.Session) error
	Delete(ctx context.Context, id string) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
