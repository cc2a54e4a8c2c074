package server

import (
	"net/http"
	"strconv"
)

// parseIntQuery extracts a positive int parameter from query string with a default value.
func parseIntQuery(r *http.Request, key string, def int) int {
	if v := r.URL.Query().Get(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil && i > 0 {
			return i
		}
	}
	return def
}

// wantColor reports whether ANSI styling was not turned off with ?color=0.
func wantColor(r *http.Request) bool {
	switch r.URL.Query().Get("color") {
	case "0", "false", "no", "off":
		return false
	}
	return true
}
