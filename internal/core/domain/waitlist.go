package domain

import (
	"strings"
	"time"
)

type WaitlistEntry struct {
	ID             int64     `db:"id"`
	Email          string    `db:"email"`
	ReferralSource *string   `db:"referral_source"`
	CreatedAt      time.Time `db:"created_at"`
}

func NewWaitlistEntry(email string, referralSource *string) *WaitlistEntry {
	var source *string
	if referralSource != nil {
		if s := strings.TrimSpace(*referralSource); s != "" {
			source = &s
		}
	}

	return &WaitlistEntry{
		Email:          NormalizeEmail(email),
		ReferralSource: source,
		CreatedAt:      time.Now().UTC(),
	}
}
