package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/phrazzld/calshare/internal/api/middleware"
	"github.com/phrazzld/calshare/internal/api/shared"
	"github.com/phrazzld/calshare/internal/domain"
	"github.com/phrazzld/calshare/internal/service"
	"github.com/phrazzld/calshare/internal/service/auth"
)

// AuthHandler handles registration, login and logout.
type AuthHandler struct {
	registry   service.RegistryService
	sessions   service.SessionService
	jwtService auth.JWTService
	logger     *slog.Logger
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
func NewAuthHandler(
	registry service.RegistryService,
	sessions service.SessionService,
	jwtService auth.JWTService,
	logger *slog.Logger,
) *AuthHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthHandler{
		registry:   registry,
		sessions:   sessions,
		jwtService: jwtService,
		logger:     logger.With("component", "auth_handler"),
	}
}

// Register handles POST /api/users.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := shared.DecodeJSON(w, r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		HandleAPIError(w, r, shared.ValidationFailure(err))
		return
	}

	user, err := h.registry.Register(r.Context(), req.Username)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, userResponse(user))
}

// ListUsers handles GET /api/users, the directory of share recipients.
func (h *AuthHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.registry.List(r.Context())
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	resp := make([]UserResponse, 0, len(users))
	for _, u := range users {
		resp = append(resp, userResponse(u))
	}
	shared.RespondWithJSON(w, r, http.StatusOK, resp)
}

// Login handles POST /api/sessions. When the request already carries a valid
// bearer token, that session is replaced by the new one.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := shared.DecodeJSON(w, r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		HandleAPIError(w, r, shared.ValidationFailure(err))
		return
	}

	current, _ := middleware.GetSession(r)
	session, err := h.sessions.Login(r.Context(), current, req.Username)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	token, expiresAt, err := h.jwtService.GenerateToken(r.Context(), session.ID, session.Username())
	if err != nil {
		h.logger.Error("failed to generate token", "error", err, "session_id", session.ID)
		// The session is useless without a token.
		if logoutErr := h.sessions.Logout(r.Context(), session); logoutErr != nil {
			h.logger.Warn("failed to end orphaned session", "error", logoutErr, "session_id", session.ID)
		}
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"Failed to generate authentication token", err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, SessionResponse{
		SessionID: session.ID,
		Username:  session.Username(),
		Token:     token,
		ExpiresAt: expiresAt.Format(time.RFC3339),
	})
}

// Logout handles DELETE /api/sessions/current.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	session, _ := middleware.GetSession(r)
	if err := h.sessions.Logout(r.Context(), session); err != nil {
		HandleAPIError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func userResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:             u.ID,
		Username:       u.Username,
		TimezoneOffset: u.TimezoneOffset(),
		CreatedAt:      u.CreatedAt,
	}
}
