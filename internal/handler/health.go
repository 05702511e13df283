package handler

import (
	"context"
	"net/http"
	"time"
)

func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, r, http.StatusOK, map[string]string{"message": "Server is running"})
}

// Healthz checks the database and the object store.
func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	checks := map[string]string{"database": "ok", "storage": "ok"}
	healthy := true

	if err := h.repository.Ping(ctx); err != nil {
		checks["database"] = err.Error()
		healthy = false
	}
	if err := h.objects.Ping(ctx); err != nil {
		checks["storage"] = err.Error()
		healthy = false
	}

	if !healthy {
		h.writeJSON(w, r, http.StatusServiceUnavailable, Response{Success: false, Message: "unhealthy", Data: checks})
		return
	}
	h.successResponse(w, r, http.StatusOK, "healthy", checks)
}
