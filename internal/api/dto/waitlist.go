package dto

import (
	"time"

	"github.com/shizzytech/LinguaSync-AI/internal/core/domain"
)

// WaitlistRequest represents a waitlist submission
type WaitlistRequest struct {
	Email          string  `json:"email" binding:"required,email"`
	ReferralSource *string `json:"referralSource" binding:"omitempty,max=255"`
}

type WaitlistEntryResponse struct {
	ID             int64     `json:"id"`
	Email          string    `json:"email"`
	ReferralSource *string   `json:"referralSource"`
	CreatedAt      time.Time `json:"createdAt"`
}

type WaitlistSubmitResponse struct {
	Message           string                `json:"message"`
	AlreadyRegistered bool                  `json:"alreadyRegistered,omitempty"`
	Entry             WaitlistEntryResponse `json:"entry"`
}

type WaitlistListResponse struct {
	Entries []WaitlistEntryResponse `json:"entries"`
}

func NewWaitlistEntryResponse(entry *domain.WaitlistEntry) WaitlistEntryResponse {
	return WaitlistEntryResponse{
		ID:             entry.ID,
		Email:          entry.Email,
		ReferralSource: entry.ReferralSource,
		CreatedAt:      entry.CreatedAt,
	}
}
