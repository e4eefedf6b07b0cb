package http

import (
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"github.com/authwizard/authwizard/internal/service"
	"github.com/authwizard/authwizard/pkg/slogx"
)

//go:embed templates/verify_feedback.html
var feedbackFS embed.FS

var feedbackPage = template.Must(template.ParseFS(feedbackFS, "templates/verify_feedback.html"))

// VerifyEmailHandler serves the verification link from the welcome mail.
// Every outcome renders the same human-readable feedback page; a bad link
// is not an error here.
type VerifyEmailHandler struct {
	AccountService *service.AccountService
}

func (h *VerifyEmailHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	result, err := h.AccountService.VerifyEmail(ctx, r.PathValue("token"))
	if err != nil {
		log.Error("email verification failed", "err", err)
		http.Error(w, internalFailuresMessage, http.StatusInternalServerError)
		return
	}

	var message string
	switch result.Outcome {
	case service.VerifyOutcomeAlreadyVerified:
		message = fmt.Sprintf("Hello %s, your email has already been verified", result.FirstName)
	case service.VerifyOutcomeVerified:
		message = fmt.Sprintf("Hello %s, your email has been verified successfully!", result.FirstName)
	default:
		message = "Email verification link is invalid or expired"
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if err := feedbackPage.Execute(w, map[string]any{"Message": message}); err != nil {
		log.Error("failed to render verification feedback page", "err", err)
	}
}
