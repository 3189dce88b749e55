package memory

import (
	"testing"

	"github.com/shizzytech/LinguaSync-AI/internal/core/repository"
	"github.com/shizzytech/LinguaSync-AI/internal/core/repository/repositorytest"
)

func TestUserRepository(t *testing.T) {
	repositorytest.UserRepository(t, func(t *testing.T) repository.UserRepository {
		return NewStore().Users()
	})
}

func TestWaitlistRepository(t *testing.T) {
	repositorytest.WaitlistRepository(t, func(t *testing.T) repository.WaitlistRepository {
		return NewStore().Waitlist()
	})
}

func TestSessionRepository(t *testing.T) {
	repositorytest.SessionRepository(t, func(t *testing.T) repository.SessionRepository {
		return NewStore().Sessions()
	})
}
