package auth

import (
	"encoding/json"
	"net/http"

	"github.com/sebuszqo/FinanceTracker/internal/apperrors"
	"github.com/sirupsen/logrus"
)

type Handler struct {
	authService  Service
	log          logrus.FieldLogger
	respondJSON  func(w http.ResponseWriter, status int, payload interface{})
	respondError func(w http.ResponseWriter, status int, message string, errors ...[]string)
}

func NewHandler(
	authService Service,
	log logrus.FieldLogger,
	respondJSON func(w http.ResponseWriter, status int, payload interface{}),
	respondError func(w http.ResponseWriter, status int, message string, errors ...[]string),
) *Handler {
	return &Handler{
		authService:  authService,
		log:          log,
		respondJSON:  respondJSON,
		respondError: respondError,
	}
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := apperrors.StatusCode(err)
	if status == http.StatusInternalServerError {
		h.log.WithError(err).WithField("path", r.URL.Path).Error("request failed")
	}
	h.respondError(w, status, apperrors.Message(err), apperrors.Details(err))
}

func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		Code     string `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	existingUser, token, err := h.authService.Login(r.Context(), req.Email, req.Password, req.Code)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"token":   token,
		"user":    existingUser.Public(),
	})
}

func (h *Handler) HandleMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		h.respondError(w, http.StatusUnauthorized, NotAuthorizedMessage)
		return
	}

	existingUser, err := h.authService.Me(r.Context(), userID)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    existingUser,
	})
}

func (h *Handler) HandleRegisterTwoFactor(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		h.respondError(w, http.StatusUnauthorized, NotAuthorizedMessage)
		return
	}

	otpURI, err := h.authService.RegisterTwoFactor(r.Context(), userID)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Two-factor authentication initiated. Please verify to enable.",
		"data": map[string]string{
			"otp_uri": otpURI,
		},
	})
}

type twoFactorCodeRequest struct {
	Code string `json:"code"`
}

func (h *Handler) HandleVerifyTwoFactorCode(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		h.respondError(w, http.StatusUnauthorized, NotAuthorizedMessage)
		return
	}

	var req twoFactorCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.authService.VerifyTwoFactorCode(r.Context(), userID, req.Code); err != nil {
		h.fail(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Two-factor authentication enabled",
	})
}

func (h *Handler) HandleDisableTwoFactor(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		h.respondError(w, http.StatusUnauthorized, NotAuthorizedMessage)
		return
	}

	var req twoFactorCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.authService.DisableTwoFactor(r.Context(), userID, req.Code); err != nil {
		h.fail(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Two-factor authentication disabled successfully",
	})
}
