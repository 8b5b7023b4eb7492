package server

import (
	"net/http"
	"runtime"
	"time"
)

// Version is the API server version reported by /health.
const Version = "0.1.0"

type healthResponse struct {
	Status    string `json:"status"`
	Version   string `json:"version"`
	GoVersion string `json:"go_version"`
	Uptime    string `json:"uptime"`
	Store     string `json:"store"`
	MaxTicks  int    `json:"max_ticks"`
	Active    int    `json:"active_simulations"`
	Capacity  int    `json:"simulation_slots"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())
	storeStatus := "disabled"
	if s.store != nil {
		storeStatus = "sqlite"
	}
	respondOK(w, reqID, healthResponse{
		Status:    "healthy",
		Version:   Version,
		GoVersion: runtime.Version(),
		Uptime:    time.Since(s.startTime).Round(time.Second).String(),
		Store:     storeStatus,
		MaxTicks:  s.config.MaxTicks,
		Active:    s.active.inUse(),
		Capacity:  s.active.capacity(),
	})
}
