package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"
	"github.com/shizzytech/LinguaSync-AI/internal/api/dto"
	"github.com/shizzytech/LinguaSync-AI/internal/api/middleware"
	"github.com/shizzytech/LinguaSync-AI/internal/core/domain"
	"github.com/shizzytech/LinguaSync-AI/internal/core/service"
	"github.com/sirupsen/logrus"
)

// UserIDKey is the session value holding the authenticated user's id
const UserIDKey = "user_id"

var errNoSession = errors.New("session not loaded")

type AuthHandler struct {
	authService *service.AuthService
	store       middleware.SessionStore
	log         logrus.FieldLogger
}

func NewAuthHandler(authService *service.AuthService, store middleware.SessionStore, log logrus.FieldLogger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		store:       store,
		log:         log,
	}
}

// Register handles POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	user, err := h.authService.Register(c.Request.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		respondError(c, h.log, err, "Error registering user")
		return
	}

	if err := h.startSession(c, user); err != nil {
		respondError(c, h.log, err, "Error registering user")
		return
	}

	c.JSON(http.StatusCreated, dto.AuthResponse{
		Message: "User registered successfully",
		User:    dto.NewUserResponse(user),
	})
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	user, err := h.authService.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, h.log, err, "Error logging in")
		return
	}

	if err := h.startSession(c, user); err != nil {
		respondError(c, h.log, err, "Error logging in")
		return
	}

	c.JSON(http.StatusOK, dto.AuthResponse{
		Message: "Login successful",
		User:    dto.NewUserResponse(user),
	})
}

// Logout handles POST /api/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	session, ok := middleware.GetSession(c)
	if !ok {
		respondError(c, h.log, errNoSession, "Error logging out")
		return
	}

	session.Options.MaxAge = -1
	if err := session.Save(c.Request, c.Writer); err != nil {
		respondError(c, h.log, err, "Error logging out")
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Logged out successfully"})
}

// Me handles GET /api/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	session, ok := middleware.GetSession(c)
	if !ok {
		respondError(c, h.log, errNoSession, "Error fetching user")
		return
	}

	userID, ok := sessionUserID(session)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Message: "Not authenticated"})
		return
	}

	user, err := h.authService.CurrentUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.log, err, "Error fetching user")
		return
	}

	c.JSON(http.StatusOK, dto.MeResponse{User: dto.NewUserResponse(user)})
}

// startSession rotates the session id and binds it to user
func (h *AuthHandler) startSession(c *gin.Context, user *domain.User) error {
	session, ok := middleware.GetSession(c)
	if !ok {
		return errNoSession
	}

	if err := h.store.Renew(c.Request, session); err != nil {
		return err
	}

	session.Values[UserIDKey] = user.ID
	return session.Save(c.Request, c.Writer)
}

func sessionUserID(session *sessions.Session) (int64, bool) {
	id, ok := session.Values[UserIDKey].(int64)
	return id, ok && id > 0
}
