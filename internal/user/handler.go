package user

import (
	"encoding/json"
	"net/http"

	"github.com/sebuszqo/FinanceTracker/internal/apperrors"
	"github.com/sirupsen/logrus"
)

// TokenIssuer signs an access token for a user ID.
type TokenIssuer interface {
	GenerateAccessJWT(userID string) (string, error)
}

type Handler struct {
	userService  Service
	tokens       TokenIssuer
	log          logrus.FieldLogger
	respondJSON  func(w http.ResponseWriter, status int, payload interface{})
	respondError func(w http.ResponseWriter, status int, message string, errors ...[]string)
}

func NewHandler(
	userService Service,
	tokens TokenIssuer,
	log logrus.FieldLogger,
	respondJSON func(w http.ResponseWriter, status int, payload interface{}),
	respondError func(w http.ResponseWriter, status int, message string, errors ...[]string),
) *Handler {
	return &Handler{
		userService:  userService,
		tokens:       tokens,
		log:          log,
		respondJSON:  respondJSON,
		respondError: respondError,
	}
}

func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.userService.Register(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		status := apperrors.StatusCode(err)
		if status == http.StatusInternalServerError {
			h.log.WithError(err).Error("could not register user")
		}
		h.respondError(w, status, apperrors.Message(err), apperrors.Details(err))
		return
	}

	token, err := h.tokens.GenerateAccessJWT(user.ID)
	if err != nil {
		h.log.WithError(err).WithField("user_id", user.ID).Error("could not sign token for new user")
		h.respondError(w, http.StatusInternalServerError, "Server Error")
		return
	}

	h.respondJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"token":   token,
		"user":    user.Public(),
	})
}
