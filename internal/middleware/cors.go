package middleware

import (
	"net/http"

	"github.com/rs/cors"
)

// Cors lets a browser board on any origin talk to the service. Session tokens
// travel in the Authorization header, so no credentials are involved.
func Cors() Middleware {
	options := cors.Options{
		AllowOriginFunc: func(origin string) bool {
			return true
		},
		AllowedMethods: []string{
			http.MethodHead,
			http.MethodGet,
			http.MethodPost,
		},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	}
	return cors.New(options).Handler
}
