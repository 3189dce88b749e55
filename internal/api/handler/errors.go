package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shizzytech/LinguaSync-AI/internal/api/dto"
	"github.com/shizzytech/LinguaSync-AI/internal/api/middleware"
	"github.com/shizzytech/LinguaSync-AI/internal/api/validation"
	"github.com/shizzytech/LinguaSync-AI/internal/core/service"
	"github.com/sirupsen/logrus"
)

// respondError maps domain errors to their status; anything else is logged
// and reported as a 500 with the endpoint's generic message.
func respondError(c *gin.Context, log logrus.FieldLogger, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrEmailTaken):
		c.JSON(http.StatusConflict, dto.ErrorResponse{Message: "Email already in use"})
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Message: "Invalid credentials"})
	case errors.Is(err, service.ErrPasswordTooLong):
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Message: "Validation error",
			Errors:  map[string][]string{"password": {"Password must be at most 72 bytes"}},
		})
	case errors.Is(err, service.ErrUserNotFound):
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Message: "User not found"})
	default:
		middleware.RequestLogger(c, log).WithError(err).Error(fallback)
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: fallback})
	}
}

func respondValidationError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, dto.ErrorResponse{
		Message: "Validation error",
		Errors:  validation.Errors(err),
	})
}
