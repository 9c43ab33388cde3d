// Racetrack - Live Race Telemetry Ingestion and Leaderboards
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/racetrack

package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/goccy/go-json"

	"github.com/tomtom215/racetrack/internal/logging"
	"github.com/tomtom215/racetrack/internal/metrics"
)

// APITokenHeader is the primary header carrying the shared secret.
const APITokenHeader = "X-API-Token"

// unauthorizedBody is the fixed 401 payload.
var unauthorizedBody, _ = json.Marshal(map[string]string{"error": "Unauthorized"})

// SharedSecret returns middleware that requires the X-API-Token header, or
// an "Authorization: Bearer" header, to equal token. An empty token
// disables the check. Comparison is constant-time.
func SharedSecret(token string) func(http.HandlerFunc) http.HandlerFunc {
	expected := []byte(token)
	return func(next http.HandlerFunc) http.HandlerFunc {
		if token == "" {
			return next
		}
		return func(w http.ResponseWriter, r *http.Request) {
			presented := PresentedToken(r)
			if presented == "" || subtle.ConstantTimeCompare([]byte(presented), expected) != 1 {
				metrics.APIUnauthorized.Inc()
				logging.Ctx(r.Context()).Debug().
					Str("path", r.URL.Path).
					Bool("token_present", presented != "").
					Msg("rejected request without valid API token")

				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write(unauthorizedBody)
				return
			}
			next(w, r)
		}
	}
}

// PresentedToken returns the token a request carries, preferring
// X-API-Token over a bearer Authorization header.
func PresentedToken(r *http.Request) string {
	if token := r.Header.Get(APITokenHeader); token != "" {
		return token
	}
	auth := r.Header.Get("Authorization")
	if len(auth) > 7 && strings.EqualFold(auth[:7], "bearer ") {
		return strings.TrimSpace(auth[7:])
	}
	return ""
}
