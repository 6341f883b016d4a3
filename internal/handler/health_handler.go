package handler

import (
	"net/http"

	"lms-platform/internal/util"
)

// Health godoc
// @Summary Liveness
// @Tags Health
// @Produce json
// @Success 200 {object} requestresponse.Envelope
// @Router /health [get]
func Health(service string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		util.WriteJSON(w, r, http.StatusOK, "OK", "healthy", map[string]string{"service": service})
	}
}
