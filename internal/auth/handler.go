package auth

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/pawmark/auth-service/internal/account"
	"github.com/pawmark/auth-service/internal/notify"
)

type Handler struct {
	service *Service
	guard   *account.Guard
	log     *zap.Logger
}

func NewHandler(service *Service, guard *account.Guard, log *zap.Logger) *Handler {
	return &Handler{
		service: service,
		guard:   guard,
		log:     log,
	}
}

type registerRequest struct {
	Username        string `json:"username"`
	Password        string `json:"password"`
	RecoveryContact string `json:"recovery_contact,omitempty"`
}

type registerResponse struct {
	TOTPSecret    string `json:"totp_secret"`
	EnrollmentURI string `json:"enrollment_uri"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	SessionHandle string `json:"session_handle"`
}

type verifyRequest struct {
	SessionHandle string `json:"session_handle"`
	TOTPCode      string `json:"totp_code"`
}

type verifyResponse struct {
	Authenticated bool   `json:"authenticated"`
	AccessToken   string `json:"access_token"`
}

type logoutRequest struct {
	SessionHandle string `json:"session_handle"`
}

type resetRequest struct {
	Username string `json:"username"`
}

type resetConfirmRequest struct {
	Username         string `json:"username"`
	VerificationCode string `json:"verification_code"`
	NewPassword      string `json:"new_password"`
}

type okResponse struct {
	OK bool `json:"ok"`
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	if req.Username == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "username and password are required")
		return
	}

	enrollment, err := h.service.Register(req.Username, req.Password, req.RecoveryContact)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, registerResponse{
		TOTPSecret:    enrollment.Secret,
		EnrollmentURI: enrollment.URI,
	})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	if req.Username == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "username and password are required")
		return
	}

	handle, err := h.service.Login(req.Username, req.Password)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{SessionHandle: handle})
}

func (h *Handler) VerifyTOTP(w http.ResponseWriter, r *http.Request) {
	var req verifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	if req.SessionHandle == "" || req.TOTPCode == "" {
		writeError(w, http.StatusBadRequest, "session_handle and totp_code are required")
		return
	}

	token, err := h.service.VerifyTOTP(req.SessionHandle, req.TOTPCode)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, verifyResponse{
		Authenticated: true,
		AccessToken:   token,
	})
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	var req logoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	h.service.Logout(req.SessionHandle)
	writeJSON(w, http.StatusOK, okResponse{OK: true})
}

func (h *Handler) RequestReset(w http.ResponseWriter, r *http.Request) {
	var req resetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	if req.Username == "" {
		writeError(w, http.StatusBadRequest, "username is required")
		return
	}

	if err := h.service.RequestReset(req.Username); err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, okResponse{OK: true})
}

func (h *Handler) ConfirmReset(w http.ResponseWriter, r *http.Request) {
	var req resetConfirmRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	if req.Username == "" || req.VerificationCode == "" || req.NewPassword == "" {
		writeError(w, http.StatusBadRequest, "username, verification_code and new_password are required")
		return
	}

	if err := h.service.ResetPassword(req.Username, req.VerificationCode, req.NewPassword); err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, okResponse{OK: true})
}

func (h *Handler) AdminLock(w http.ResponseWriter, r *http.Request) {
	username := mux.Vars(r)["username"]
	if err := h.guard.AdminLock(username); err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	h.log.Info("account locked by admin", zap.String("username", username))
	writeJSON(w, http.StatusOK, okResponse{OK: true})
}

func (h *Handler) AdminUnlock(w http.ResponseWriter, r *http.Request) {
	username := mux.Vars(r)["username"]
	if err := h.guard.AdminUnlock(username); err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	h.log.Info("account unlocked by admin", zap.String("username", username))
	writeJSON(w, http.StatusOK, okResponse{OK: true})
}

func (h *Handler) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrValidationFailed):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, account.ErrAlreadyExists):
		writeError(w, http.StatusConflict, "username already taken")
	case errors.Is(err, account.ErrNotFound):
		writeError(w, http.StatusNotFound, "account not found")
	case errors.Is(err, ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "invalid credentials")
	case errors.Is(err, ErrAccountLocked):
		writeError(w, http.StatusLocked, "account locked")
	case errors.Is(err, ErrNotAuthenticated):
		writeError(w, http.StatusUnauthorized, "not authenticated")
	case errors.Is(err, ErrSessionExpired):
		writeError(w, http.StatusUnauthorized, "session expired")
	case errors.Is(err, ErrInvalidCode):
		writeError(w, http.StatusUnauthorized, "invalid code")
	case errors.Is(err, notify.ErrDeliveryFailed):
		writeError(w, http.StatusBadGateway, "delivery failed")
	default:
		h.log.Error("request failed",
			zap.String("path", r.URL.Path),
			zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
