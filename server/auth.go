package server

import (
	"context"
	"net/http"
	"os"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/globaltfn/remindme-server/server/handlers"
)

// requireAuth verifies the bearer token issued by the external identity
// provider and stores its subject in the request context. Session handling
// itself lives entirely with the provider; this server only checks the
// signature.
func requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		secret := []byte(os.Getenv("JWT_SECRET"))

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			unauthorised(w)
			return
		}
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			unauthorised(w)
			return
		}

		token, err := jwt.Parse(parts[1], func(token *jwt.Token) (any, error) {
			return secret, nil
		}, jwt.WithValidMethods([]string{"HS256"}))
		if err != nil || !token.Valid {
			unauthorised(w)
			return
		}

		subject, err := token.Claims.GetSubject()
		if err != nil || subject == "" {
			unauthorised(w)
			return
		}

		ctx := context.WithValue(r.Context(), handlers.UserKey, subject)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func unauthorised(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte(`{"message":"unauthorised"}`))
}
