package middleware

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/fleetdock/fleetdock/pkg/composables"
	"github.com/fleetdock/fleetdock/pkg/configuration"
)

func realIP(r *http.Request, conf *configuration.Configuration) string {
	if v := r.Header.Get(conf.RealIPHeader); v != "" {
		return v
	}
	return r.RemoteAddr
}

func requestID(r *http.Request, conf *configuration.Configuration) string {
	if v := strings.TrimSpace(r.Header.Get(conf.RequestIDHeader)); v != "" {
		return v
	}
	return uuid.NewString()
}

func locale(r *http.Request) string {
	accept := r.Header.Get("Accept-Language")
	if accept == "" {
		return "en"
	}
	primary := strings.TrimSpace(strings.Split(accept, ",")[0])
	if idx := strings.Index(primary, ";"); idx >= 0 {
		primary = primary[:idx]
	}
	if primary == "" {
		return "en"
	}
	return primary
}

// ProvideRequestContext resolves the ambient request data (request id, client
// IP, acting user, locale) once and makes it available via composables.
func ProvideRequestContext() mux.MiddlewareFunc {
	conf := configuration.Use()
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			params := &composables.Params{
				RequestID: requestID(r, conf),
				IP:        realIP(r, conf),
				UserAgent: r.UserAgent(),
				Actor:     strings.TrimSpace(r.Header.Get(conf.ActorHeader)),
				Locale:    locale(r),
				Request:   r,
				Writer:    w,
			}
			w.Header().Set(conf.RequestIDHeader, params.RequestID)
			next.ServeHTTP(w, r.WithContext(composables.WithParams(r.Context(), params)))
		})
	}
}
