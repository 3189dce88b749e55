// Package repositorytest holds behaviour checks shared by every storage
// implementation.
package repositorytest

import (
	"context"
	"testing"
	"time"

	"github.com/shizzytech/LinguaSync-AI/internal/core/domain"
	"github.com/shizzytech/LinguaSync-AI/internal/core/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func UserRepository(t *testing.T, newRepo func(t *testing.T) repository.UserRepository) {
	ctx := context.Background()

	t.Run("absent lookups return nil without error", func(t *testing.T) {
		repo := newRepo(t)

		byID, err := repo.FindByID(ctx, 42)
		require.NoError(t, err)
		assert.Nil(t, byID)

		byEmail, err := repo.FindByEmail(ctx, "missing@example.com")
		require.NoError(t, err)
		assert.Nil(t, byEmail)

		byName, err := repo.FindByUsername(ctx, "missing")
		require.NoError(t, err)
		assert.Nil(t, byName)
	})

	t.Run("create assigns id and normalizes", func(t *testing.T) {
		repo := newRepo(t)

		user := domain.NewUser("Polyglot", "Poly@Example.com", "hash")
		require.NoError(t, repo.Create(ctx, user))
		assert.NotZero(t, user.ID)

		found, err := repo.FindByEmail(ctx, "POLY@example.COM")
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, user.ID, found.ID)
		assert.Equal(t, "polyglot", found.Username)
		assert.Equal(t, "poly@example.com", found.Email)
		assert.Equal(t, "hash", found.Password)
		assert.WithinDuration(t, user.CreatedAt, found.CreatedAt, time.Second)

		byName, err := repo.FindByUsername(ctx, "POLYGLOT")
		require.NoError(t, err)
		require.NotNil(t, byName)
		assert.Equal(t, user.ID, byName.ID)

		byID, err := repo.FindByID(ctx, user.ID)
		require.NoError(t, err)
		require.NotNil(t, byID)
		assert.Equal(t, "poly@example.com", byID.Email)
	})

	t.Run("duplicate email in any case is rejected", func(t *testing.T) {
		repo := newRepo(t)

		require.NoError(t, repo.Create(ctx, domain.NewUser("one", "same@example.com", "hash")))
		err := repo.Create(ctx, domain.NewUser("two", "SAME@example.com", "hash"))
		assert.ErrorIs(t, err, repository.ErrDuplicate)
	})

	t.Run("list returns users by id", func(t *testing.T) {
		repo := newRepo(t)

		require.NoError(t, repo.Create(ctx, domain.NewUser("one", "one@example.com", "hash")))
		require.NoError(t, repo.Create(ctx, domain.NewUser("two", "two@example.com", "hash")))

		users, err := repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, users, 2)
		assert.Equal(t, "one", users[0].Username)
		assert.Equal(t, "two", users[1].Username)
	})
}

func WaitlistRepository(t *testing.T, newRepo func(t *testing.T) repository.WaitlistRepository) {
	ctx := context.Background()

	t.Run("absent lookup returns nil without error", func(t *testing.T) {
		repo := newRepo(t)

		entry, err := repo.FindByEmail(ctx, "missing@example.com")
		require.NoError(t, err)
		assert.Nil(t, entry)
	})

	t.Run("empty list is not nil", func(t *testing.T) {
		repo := newRepo(t)

		entries, err := repo.List(ctx)
		require.NoError(t, err)
		assert.NotNil(t, entries)
		assert.Empty(t, entries)
	})

	t.Run("create and find ignore case", func(t *testing.T) {
		repo := newRepo(t)

		source := "newsletter"
		entry := domain.NewWaitlistEntry("Early@Bird.io", &source)
		require.NoError(t, repo.Create(ctx, entry))
		assert.NotZero(t, entry.ID)

		found, err := repo.FindByEmail(ctx, "EARLY@bird.io")
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, entry.ID, found.ID)
		assert.Equal(t, "early@bird.io", found.Email)
		require.NotNil(t, found.ReferralSource)
		assert.Equal(t, "newsletter", *found.ReferralSource)
	})

	t.Run("nil referral source round trips", func(t *testing.T) {
		repo := newRepo(t)

		require.NoError(t, repo.Create(ctx, domain.NewWaitlistEntry("plain@bird.io", nil)))

		found, err := repo.FindByEmail(ctx, "plain@bird.io")
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Nil(t, found.ReferralSource)
	})

	t.Run("duplicate email is rejected", func(t *testing.T) {
		repo := newRepo(t)

		require.NoError(t, repo.Create(ctx, domain.NewWaitlistEntry("dup@bird.io", nil)))
		err := repo.Create(ctx, domain.NewWaitlistEntry("Dup@Bird.io", nil))
		assert.ErrorIs(t, err, repository.ErrDuplicate)

		entries, err := repo.List(ctx)
		require.NoError(t, err)
		assert.Len(t, entries, 1)
	})
}

func SessionRepository(t *testing.T, newRepo func(t *testing.T) repository.SessionRepository) {
	ctx := context.Background()

	t.Run("missing session returns nil", func(t *testing.T) {
		repo := newRepo(t)

		session, err := repo.Find(ctx, "nope")
		require.NoError(t, err)
		assert.Nil(t, session)
	})

	t.Run("save is an upsert", func(t *testing.T) {
		repo := newRepo(t)

		require.NoError(t, repo.Save(ctx, domain.NewSession("sid-1", []byte("first"), time.Hour)))
		require.NoError(t, repo.Save(ctx, domain.NewSession("sid-1", []byte("second"), 2*time.Hour)))

		session, err := repo.Find(ctx, "sid-1")
		require.NoError(t, err)
		require.NotNil(t, session)
		assert.Equal(t, []byte("second"), session.Data)
		assert.False(t, session.IsExpired())
	})

	t.Run("delete removes the row", func(t *testing.T) {
		repo := newRepo(t)

		require.NoError(t, repo.Save(ctx, domain.NewSession("sid-2", []byte("data"), time.Hour)))
		require.NoError(t, repo.Delete(ctx, "sid-2"))
		require.NoError(t, repo.Delete(ctx, "sid-2"))

		session, err := repo.Find(ctx, "sid-2")
		require.NoError(t, err)
		assert.Nil(t, session)
	})

	t.Run("delete expired keeps live sessions", func(t *testing.T) {
		repo := newRepo(t)

		expired := domain.NewSession("old", []byte("data"), -time.Hour)
		require.NoError(t, repo.Save(ctx, expired))
		require.NoError(t, repo.Save(ctx, domain.NewSession("live", []byte("data"), time.Hour)))

		deleted, err := repo.DeleteExpired(ctx, time.Now())
		require.NoError(t, err)
		assert.Equal(t, int64(1), deleted)

		old, err := repo.Find(ctx, "old")
		require.NoError(t, err)
		assert.Nil(t, old)

		live, err := repo.Find(ctx, "live")
		require.NoError(t, err)
		assert.NotNil(t, live)
	})
}
