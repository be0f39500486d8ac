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
	endpoints := []endpointInfo{
		{"/api/v1/roster", []string{"GET", "PUT"}, "Current roster. PUT replaces it and resets exclusion history"},
		{"/api/v1/workers", []string{"GET"}, "Workers in roster order"},
		{"/api/v1/jobs", []string{"GET"}, "Jobs in allocation order"},
		{"/api/v1/rounds", []string{"GET", "POST"}, "Round audit log. POST runs a complete allocation"},
		{"/api/v1/rounds/{id}", []string{"GET"}, "Single round detail"},
		{"/api/v1/health", []string{"GET"}, "Server health and version"},
	}
	if s.gatherer != nil {
		endpoints = append(endpoints, endpointInfo{"/metrics", []string{"GET"}, "Prometheus metrics"})
	}
	respondOK(w, reqID, discoveryResponse{
		Name:        "rota API",
		Version:     "v1",
		Description: "Round-by-round allocation of workers to jobs",
		Endpoints:   endpoints,
	})
}
