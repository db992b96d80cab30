package middleware

import (
	"net/http"
	"slices"

	"github.com/rs/cors"
)

// CORS lets browser dashboards call the API with the token header. Credentials
// are only allowed for an explicit origin list; a wildcard stays anonymous.
func CORS(origins []string, tokenHeader string) func(http.Handler) http.Handler {
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	return cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type", requestIDHeader, tokenHeader},
		ExposedHeaders:   []string{requestIDHeader},
		AllowCredentials: !slices.Contains(origins, "*"),
		MaxAge:           3600,
	}).Handler
}
