package types

import (
	"os"
	"strings"
)

// ContextUserKey is where the auth middleware stores the authenticated user
// on the gin context.
const ContextUserKey = "user"

// AllowedOrigins is consulted by both the CORS middleware and the websocket
// origin check. Local frontend dev servers are always allowed; deployments
// add theirs through FRONTEND_URL (single) or CORS_ORIGINS (comma-separated).
var AllowedOrigins = loadAllowedOrigins()

func loadAllowedOrigins() []string {
	origins := []string{
		"http://localhost:5173",
		"http://127.0.0.1:5173",
	}

	if frontend := os.Getenv("FRONTEND_URL"); frontend != "" {
		origins = append(origins, frontend)
	}

	for _, origin := range strings.Split(os.Getenv("CORS_ORIGINS"), ",") {
		if trimmed := strings.TrimSpace(origin); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}

	return origins
}
