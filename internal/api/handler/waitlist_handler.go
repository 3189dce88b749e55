package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shizzytech/LinguaSync-AI/internal/api/dto"
	"github.com/shizzytech/LinguaSync-AI/internal/core/service"
	"github.com/sirupsen/logrus"
)

type WaitlistHandler struct {
	waitlistService *service.WaitlistService
	log             logrus.FieldLogger
}

func NewWaitlistHandler(waitlistService *service.WaitlistService, log logrus.FieldLogger) *WaitlistHandler {
	return &WaitlistHandler{
		waitlistService: waitlistService,
		log:             log,
	}
}

// Submit handles POST /api/waitlist. A repeated email is not an error: the
// existing entry comes back with alreadyRegistered set.
func (h *WaitlistHandler) Submit(c *gin.Context) {
	var req dto.WaitlistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	entry, alreadyRegistered, err := h.waitlistService.Join(c.Request.Context(), req.Email, req.ReferralSource)
	if err != nil {
		respondError(c, h.log, err, "Error adding to waitlist")
		return
	}

	if alreadyRegistered {
		c.JSON(http.StatusOK, dto.WaitlistSubmitResponse{
			Message:           "Email already on waitlist",
			AlreadyRegistered: true,
			Entry:             dto.NewWaitlistEntryResponse(entry),
		})
		return
	}

	c.JSON(http.StatusCreated, dto.WaitlistSubmitResponse{
		Message: "Added to waitlist successfully",
		Entry:   dto.NewWaitlistEntryResponse(entry),
	})
}

// List handles GET /api/waitlist
func (h *WaitlistHandler) List(c *gin.Context) {
	entries, err := h.waitlistService.List(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err, "Error fetching waitlist entries")
		return
	}

	response := dto.WaitlistListResponse{
		Entries: make([]dto.WaitlistEntryResponse, len(entries)),
	}
	for i, entry := range entries {
		response.Entries[i] = dto.NewWaitlistEntryResponse(entry)
	}

	c.JSON(http.StatusOK, response)
}
