package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/fleetdock/fleetdock/pkg/composables"
	"github.com/fleetdock/fleetdock/pkg/configuration"
	"github.com/fleetdock/fleetdock/pkg/httpapi"
)

func writeJSON(w http.ResponseWriter, status int, payload any) {
	_ = httpapi.WriteJSON(w, status, payload)
}

func writeAPIError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	meta := map[string]string{}
	if id := composables.UseRequestID(r.Context()); id != "" {
		meta["request_id"] = id
	}
	_ = httpapi.WriteError(w, status, code, message, meta)
}

func pageParams(r *http.Request) (limit, offset int) {
	conf := configuration.Use()
	limit = conf.PageSize
	if v := strings.TrimSpace(r.URL.Query().Get("limit")); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 && parsed <= conf.MaxPageSize {
			limit = parsed
		}
	}
	if v := strings.TrimSpace(r.URL.Query().Get("offset")); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			offset = parsed
		}
	}
	return limit, offset
}

func firstError(errs map[string]string) string {
	for _, v := range errs {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return "validation failed"
}
