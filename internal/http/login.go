package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/authwizard/authwizard/internal/service"
	"github.com/authwizard/authwizard/pkg/httpx"
	"github.com/authwizard/authwizard/pkg/slogx"
)

// Both unknown-email and wrong-password land on this exact message so the
// endpoint cannot be used to enumerate registered addresses. The unverified
// case is deliberately distinguishable.
const (
	loginFailedMessage      = "User login failed. Please check email and password."
	loginUnverifiedMessage  = "User login failed. Email is not verified"
	internalFailuresMessage = "There was an internal server error while processing the request."
)

type LoginHandler struct {
	AccountService *service.AccountService
}

func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req service.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, MessageResponse{
			Message: "Invalid request body",
		})
		return
	}

	if err := req.Validate(); err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, MessageResponse{Message: err.Error()})
		return
	}

	token, err := h.AccountService.Login(ctx, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			httpx.WriteJSON(w, http.StatusForbidden, MessageResponse{Message: loginFailedMessage})
		case errors.Is(err, service.ErrEmailNotVerified):
			httpx.WriteJSON(w, http.StatusForbidden, MessageResponse{Message: loginUnverifiedMessage})
		default:
			log.Error("login failed", "err", err)
			httpx.WriteJSON(w, http.StatusInternalServerError, MessageResponse{
				Message: internalFailuresMessage,
			})
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, TokenResponse{Token: token})
}
