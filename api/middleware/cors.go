package middleware

import (
	"net/http"
	"strings"

	"github.com/go-chi/cors"
)

// CORS returns middleware allowing the storefront origin plus local dev.
func CORS(clientBaseURL string) func(http.Handler) http.Handler {
	origins := []string{"http://localhost:3000"}
	if trimmed := strings.TrimSpace(clientBaseURL); trimmed != "" && trimmed != origins[0] {
		origins = append(origins, trimmed)
	}

	return cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "Idempotency-Key", "X-Requested-With"},
		ExposedHeaders:   []string{"X-Request-Id", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}).Handler
}
