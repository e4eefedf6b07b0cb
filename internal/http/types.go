package http

// MessageResponse is the generic JSON payload: success messages and error
// messages share this shape.
type MessageResponse struct {
	Message string `json:"message"`
}

// TokenResponse carries the session token returned on login.
type TokenResponse struct {
	Token string `json:"token"`
}

type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

type HealthChecks struct {
	Database string `json:"database"`
}
