// auth.go handles listener accounts: registration, login, and session
// refresh. Accounts exist so saved topics survive across devices;
// transcript extraction itself only needs an API key.
package handlers

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/podpicker/podpicker-api/internal/middleware"
	"github.com/podpicker/podpicker-api/internal/models"
)

// normalizeEmail canonicalizes an address for storage and lookup so
// "Ali@Example.com " and "ali@example.com" are the same account.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a listener account and signs it in.
// POST /api/v1/auth/register
func (h *Handler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid_request",
			Message: "Email and password (min 8 chars) are required",
			Code:    http.StatusBadRequest,
		})
		return
	}

	email := normalizeEmail(req.Email)

	existing, _ := h.DB.GetUserByEmail(c.Request.Context(), email)
	if existing != nil {
		c.JSON(http.StatusConflict, models.ErrorResponse{
			Error:   "email_taken",
			Message: "An account with this email already exists",
			Code:    http.StatusConflict,
		})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("❌ Password hashing failed: %v", err)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "server_error",
			Message: "Could not create the account",
			Code:    http.StatusInternalServerError,
		})
		return
	}

	user := &models.User{
		Email:        email,
		PasswordHash: string(hash),
	}

	if err := h.DB.CreateUser(c.Request.Context(), user); err != nil {
		log.Printf("❌ User insert failed: %v", err)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "database_error",
			Message: "Could not create the account",
			Code:    http.StatusInternalServerError,
		})
		return
	}

	h.issueSession(c, http.StatusCreated, user)
}

// Login verifies credentials and starts a session.
// POST /api/v1/auth/login
func (h *Handler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid_request",
			Message: "Email and password are required",
			Code:    http.StatusBadRequest,
		})
		return
	}

	// Unknown email and wrong password produce the same response, so
	// login can't be used to enumerate accounts.
	user, err := h.DB.GetUserByEmail(c.Request.Context(), normalizeEmail(req.Email))
	if err != nil {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{
			Error:   "invalid_credentials",
			Message: "Invalid email or password",
			Code:    http.StatusUnauthorized,
		})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{
			Error:   "invalid_credentials",
			Message: "Invalid email or password",
			Code:    http.StatusUnauthorized,
		})
		return
	}

	h.issueSession(c, http.StatusOK, user)
}

// GetMe returns the signed-in listener.
// GET /api/v1/auth/me
func (h *Handler) GetMe(c *gin.Context) {
	user := middleware.GetUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{
			Error:   "unauthorized",
			Message: "Not signed in",
			Code:    http.StatusUnauthorized,
		})
		return
	}

	c.JSON(http.StatusOK, user)
}

// RefreshToken swaps a valid session token for a fresh one, restarting
// the lifetime clock so active listeners never get logged out mid-use.
// POST /api/v1/auth/refresh
func (h *Handler) RefreshToken(c *gin.Context) {
	user := middleware.GetUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{
			Error:   "unauthorized",
			Message: "Not signed in",
			Code:    http.StatusUnauthorized,
		})
		return
	}

	h.issueSession(c, http.StatusOK, user)
}

// issueSession mints a session token for user and writes the auth
// response with the given status.
func (h *Handler) issueSession(c *gin.Context, status int, user *models.User) {
	token, err := middleware.GenerateSessionToken(user, h.JWTSecret)
	if err != nil {
		log.Printf("❌ Session token signing failed: %v", err)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "token_error",
			Message: "Could not start a session",
			Code:    http.StatusInternalServerError,
		})
		return
	}

	c.JSON(status, models.AuthResponse{
		Token: token,
		User:  *user,
	})
}
