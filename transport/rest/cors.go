package rest

import (
	"net/http"
	"slices"
)

const anyOrigin = "*"

func (that *Server) cors(next http.Handler) http.Handler {
	allowed := AllowedOrigin(that.allowedOrigins)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")

		switch {
		case slices.Contains(that.allowedOrigins, anyOrigin) || len(that.allowedOrigins) == 0:
			w.Header().Set("Access-Control-Allow-Origin", anyOrigin)
		case origin != "" && allowed(r):
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Add("Vary", "Origin")
		}

		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// AllowedOrigin - origin check shared with the websocket upgrader. Requests without an
// Origin header come from non-browser clients and are let through.
func AllowedOrigin(origins []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" || len(origins) == 0 {
			return true
		}

		return slices.Contains(origins, anyOrigin) || slices.Contains(origins, origin)
	}
}
