package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shizzytech/LinguaSync-AI/internal/core/domain"
	"github.com/shizzytech/LinguaSync-AI/internal/core/repository"
)

type waitlistRepository struct {
	db *DB
}

func NewWaitlistRepository(db *DB) repository.WaitlistRepository {
	return &waitlistRepository{db: db}
}

func (r *waitlistRepository) Create(ctx context.Context, entry *domain.WaitlistEntry) error {
	entry.Email = domain.NormalizeEmail(entry.Email)

	query := r.db.Rebind(`
		INSERT INTO waitlist_entries (email, referral_source, created_at)
		VALUES (?, ?, ?)
		RETURNING id
	`)
	err := r.db.GetContext(ctx, &entry.ID, query,
		entry.Email,
		entry.ReferralSource,
		entry.CreatedAt,
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("waitlist email %s: %w", entry.Email, repository.ErrDuplicate)
	}
	if err != nil {
		return fmt.Errorf("failed to create waitlist entry: %w", err)
	}
	return nil
}

func (r *waitlistRepository) FindByEmail(ctx context.Context, email string) (*domain.WaitlistEntry, error) {
	query := r.db.Rebind(`
		SELECT id, email, referral_source, created_at
		FROM waitlist_entries
		WHERE email = ?
	`)
	var entry domain.WaitlistEntry
	err := r.db.GetContext(ctx, &entry, query, domain.NormalizeEmail(email))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find waitlist entry: %w", err)
	}
	return &entry, nil
}

func (r *waitlistRepository) List(ctx context.Context) ([]*domain.WaitlistEntry, error) {
	query := `
		SELECT id, email, referral_source, created_at
		FROM waitlist_entries
		ORDER BY id
	`
	entries := []*domain.WaitlistEntry{}
	err := r.db.SelectContext(ctx, &entries, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list waitlist entries: %w", err)
	}
	return entries, nil
}
