package httpserver

import "net/http"

func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /robots.txt", s.handleRobots)
	mux.HandleFunc("GET /sitemap.xml", s.handleSitemap)
	mux.HandleFunc("GET /api/player-count", s.handlePlayerCount)
	mux.HandleFunc("GET /api/skills", s.handleSkills)

	mux.HandleFunc("POST /api/auth/register", s.handleRegister)
	mux.HandleFunc("POST /api/auth/login", s.handleLogin)
	mux.HandleFunc("POST /api/auth/refresh", s.handleRefresh)
	mux.HandleFunc("POST /api/auth/logout", s.handleLogout)
	mux.HandleFunc("GET /api/auth/session", s.handleSession)

	mux.HandleFunc("POST /api/applications", s.handleSubmitApplication)
	mux.HandleFunc("GET /api/applications", s.handleListApplications)
	mux.HandleFunc("GET /api/applications/{id}", s.handleGetApplication)
	mux.HandleFunc("DELETE /api/applications/{id}", s.handleDeleteApplication)

	mux.HandleFunc("GET /api/admin/users", s.handleListUsers)
	mux.HandleFunc("PATCH /api/admin/users", s.handleUpdateRole)
	mux.HandleFunc("DELETE /api/admin/users", s.handleDeleteUser)
	mux.HandleFunc("GET /api/admin/stats", s.handleStats)

	return mux
}
