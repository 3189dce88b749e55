package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shizzytech/LinguaSync-AI/internal/core/domain"
	"github.com/shizzytech/LinguaSync-AI/internal/core/repository"
)

type userRepository struct {
	db *DB
}

func NewUserRepository(db *DB) repository.UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	user.Email = domain.NormalizeEmail(user.Email)
	user.Username = domain.NormalizeUsername(user.Username)

	query := r.db.Rebind(`
		INSERT INTO users (username, email, password, created_at)
		VALUES (?, ?, ?, ?)
		RETURNING id
	`)
	err := r.db.GetContext(ctx, &user.ID, query,
		user.Username,
		user.Email,
		user.Password,
		user.CreatedAt,
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("email %s: %w", user.Email, repository.ErrDuplicate)
	}
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *userRepository) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	return r.findOne(ctx, "id", id)
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, "email", domain.NormalizeEmail(email))
}

func (r *userRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.findOne(ctx, "username", domain.NormalizeUsername(username))
}

// findOne is only ever called with a fixed column name.
func (r *userRepository) findOne(ctx context.Context, column string, value any) (*domain.User, error) {
	query := r.db.Rebind(`
		SELECT id, username, email, password, created_at
		FROM users
		WHERE ` + column + ` = ?
		ORDER BY id
		LIMIT 1
	`)
	var user domain.User
	err := r.db.GetContext(ctx, &user, query, value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user by %s: %w", column, err)
	}
	return &user, nil
}

func (r *userRepository) List(ctx context.Context) ([]*domain.User, error) {
	query := `
		SELECT id, username, email, password, created_at
		FROM users
		ORDER BY id
	`
	var users []*domain.User
	err := r.db.SelectContext(ctx, &users, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}
