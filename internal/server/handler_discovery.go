package server

import "net/http"

type endpointInfo struct {
	Path        string   `json:"path"`
	Methods     []string `json:"methods"`
	Access      string   `json:"access"`
	Description string   `json:"description"`
}

type discoveryResponse struct {
	Name        string         `json:"name"`
	Version     string         `json:"version"`
	Description string         `json:"description"`
	API         string         `json:"api"`
	Endpoints   []endpointInfo `json:"endpoints"`
}

// consoleEndpoints lists the console pages. Access is "guest", "user" or "admin".
var consoleEndpoints = []endpointInfo{
	{"/login", []string{"GET", "POST"}, "guest", "Sign in with email and password"},
	{"/logout", []string{"GET"}, "user", "End the browser session"},
	{"/", []string{"GET"}, "user", "Hero records search and paginated list"},
	{"/records/{id}", []string{"GET"}, "user", "Single record detail"},
	{"/records/export", []string{"GET"}, "user", "Current page as CSV or XLSX (?format=csv|xlsx)"},
	{"/charts", []string{"GET"}, "user", "Classification counts and engagement metrics"},
	{"/users", []string{"GET"}, "admin", "Account list"},
	{"/users/new", []string{"GET", "POST"}, "admin", "Create an account"},
	{"/users/{id}/delete", []string{"POST"}, "admin", "Delete an account"},
	{"/upload", []string{"GET", "POST"}, "admin", "Import a CSV export of posts"},
	{"/admin", []string{"GET"}, "admin", "Batch operations"},
	{"/admin/mark", []string{"POST"}, "admin", "Classify unmarked records"},
	{"/admin/reset-mark", []string{"POST"}, "admin", "Clear every classification"},
	{"/admin/recalculate", []string{"POST"}, "admin", "Recompute engagement metrics"},
	{"/healthz", []string{"GET"}, "guest", "Console health and version"},
	{"/discovery", []string{"GET"}, "guest", "This listing"},
}

func (s *Server) handleDiscovery(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())
	respondOK(w, reqID, discoveryResponse{
		Name:        "Hero Records console",
		Version:     Version,
		Description: "Browse, chart and administer classified hero records",
		API:         s.config.APIURL,
		Endpoints:   consoleEndpoints,
	})
}
