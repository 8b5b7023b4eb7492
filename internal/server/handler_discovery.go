package server

import "net/http"

type endpointInfo struct {
	Path        string   `json:"path"`
	Methods     []string `json:"methods"`
	Description string   `json:"description"`
}

type discoveryResponse struct {
	Name        string         `json:"name"`
	Version     string         `json:"version"`
	Description string         `json:"description"`
	Endpoints   []endpointInfo `json:"endpoints"`
}

func (s *Server) handleDiscovery(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())
	respondOK(w, reqID, discoveryResponse{
		Name:        "groupsched API",
		Version:     "v1",
		Description: "Round-robin group contention simulator",
		Endpoints: []endpointInfo{
			{"/api/v1/simulations", []string{"POST"}, "Run a scenario (JSON or YAML body). Accepts ?state=RUNNING,LOCKED to filter rows"},
			{"/api/v1/runs", []string{"GET"}, "List stored runs. Accepts ?scenario=, ?limit=, ?offset="},
			{"/api/v1/runs/{id}", []string{"GET"}, "Stored run with its final registry and groups"},
			{"/api/v1/runs/{id}/schedule", []string{"GET"}, "Gantt rows of a stored run. Accepts ?state="},
			{"/api/v1/health", []string{"GET"}, "Server health and version"},
		},
	})
}
