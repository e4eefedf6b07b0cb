package http

import (
	"encoding/json"
	"errors"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/authwizard/authwizard/internal/service"
	"github.com/authwizard/authwizard/pkg/httpx"
	"github.com/authwizard/authwizard/pkg/slogx"
)

const signupSuccessMessage = "User registration was successful"

type SignupHandler struct {
	AccountService *service.AccountService
}

func (h *SignupHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req service.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, MessageResponse{
			Message: "Invalid request body",
		})
		return
	}

	if err := req.Validate(); err != nil {
		var vErr validation.Errors
		if errors.As(err, &vErr) {
			httpx.WriteJSON(w, http.StatusBadRequest, MessageResponse{Message: vErr.Error()})
			return
		}
		httpx.WriteJSON(w, http.StatusBadRequest, MessageResponse{Message: err.Error()})
		return
	}

	if _, err := h.AccountService.Signup(ctx, req); err != nil {
		switch {
		case errors.Is(err, service.ErrEmailTaken):
			httpx.WriteJSON(w, http.StatusConflict, MessageResponse{
				Message: "User with this email already exists",
			})
		default:
			log.Error("signup failed", "err", err)
			httpx.WriteJSON(w, http.StatusInternalServerError, MessageResponse{
				Message: "There was an internal server error while processing the request.",
			})
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, MessageResponse{Message: signupSuccessMessage})
}
