package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/cockroachdb/errors"
	"github.com/sirupsen/logrus"
	"github.com/ukydev/vehicle-service-history/internal/auth"
	"github.com/ukydev/vehicle-service-history/internal/db"
	"github.com/ukydev/vehicle-service-history/internal/models"
)

const maxLoginBody = 1 << 16

// AuthHandler handles authentication requests
type AuthHandler struct {
	authService    *auth.Service
	userCollection db.UserCollection
	log            logrus.FieldLogger
}

// NewAuthHandler creates a new authentication handler
func NewAuthHandler(authService *auth.Service, userCollection db.UserCollection, log logrus.FieldLogger) *AuthHandler {
	return &AuthHandler{
		authService:    authService,
		userCollection: userCollection,
		log:            log,
	}
}

// Login handles user login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed", "METHOD_NOT_ALLOWED")
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxLoginBody))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to read request body", "INVALID_REQUEST")
		return
	}

	var loginReq models.LoginRequest
	if err := json.Unmarshal(body, &loginReq); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON", "INVALID_REQUEST")
		return
	}

	if loginReq.Username == "" || loginReq.Password == "" {
		writeError(w, http.StatusBadRequest, "Username and password are required", "INVALID_REQUEST")
		return
	}

	user, err := h.userCollection.FindUserByUsername(r.Context(), loginReq.Username)
	if err != nil && !errors.Is(err, db.ErrNotFound) {
		h.log.WithError(err).Error("failed to look up user")
		writeError(w, http.StatusInternalServerError, "Login failed", "INTERNAL_ERROR")
		return
	}

	token, err := h.authService.Authenticate(user, loginReq.Password)
	switch {
	case errors.Is(err, auth.ErrUserInactive):
		writeError(w, http.StatusUnauthorized, "Account is deactivated", "ACCOUNT_INACTIVE")
		return
	case errors.Is(err, auth.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "Invalid credentials", "INVALID_CREDENTIALS")
		return
	case err != nil:
		h.log.WithError(err).Error("failed to issue token")
		writeError(w, http.StatusInternalServerError, "Failed to generate token", "INTERNAL_ERROR")
		return
	}

	// A failed last-login update does not fail the login.
	if err := h.userCollection.UpdateLastLogin(r.Context(), user.ID); err != nil {
		h.log.WithError(err).WithField("user_id", user.ID).Warn("failed to update last login")
	}

	writeJSON(w, http.StatusOK, models.LoginResponse{
		Token: token,
		User:  *user,
	})
}
