package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

var defaultCORSOrigins = []string{
	"http://localhost:5174", // local storefront dev server
	"http://localhost:3000",
}

// CORS returns middleware that applies the API's allowed origin policy.
// The configured frontend URL is appended to the local dev origins.
func CORS(frontendURL string) func(http.Handler) http.Handler {
	origins := defaultCORSOrigins
	if frontendURL != "" {
		origins = append(append([]string{}, origins...), frontendURL)
	}
	return cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "Idempotency-Key", "X-Requested-With"},
		AllowCredentials: true,
		MaxAge:           300,
	}).Handler
}
