package httpserver

import (
	"net/http"
	"strings"

	"github.com/dmitrijs2005/rpportal/internal/logging"
	"github.com/dmitrijs2005/rpportal/internal/server/auth"
	"github.com/dmitrijs2005/rpportal/internal/server/services"
)

// accountRef names the target account. userId is accepted alongside
// accountId for older dashboard clients.
type accountRef struct {
	AccountID string `json:"accountId"`
	UserID    string `json:"userId"`
}

func (a accountRef) id() string {
	if a.AccountID != "" {
		return strings.TrimSpace(a.AccountID)
	}
	return strings.TrimSpace(a.UserID)
}

type roleChangeRequest struct {
	accountRef
	Role string `json:"role"`
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	q := services.ListQuery{
		Page:   queryInt(r, "page"),
		Limit:  queryInt(r, "limit"),
		Search: r.URL.Query().Get("search"),
	}

	page, err := s.accounts.List(r.Context(), auth.ActorFromContext(r.Context()), q)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (s *Server) handleUpdateRole(w http.ResponseWriter, r *http.Request) {
	actor := auth.ActorFromContext(r.Context())

	var req roleChangeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	updated, err := s.accounts.UpdateRole(r.Context(), actor, req.id(), strings.TrimSpace(req.Role))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	logging.FromContext(r.Context(), s.logger).Info(r.Context(), "role changed",
		"account_id", updated.ID, "role", updated.Role, "by", actor.ID)
	writeJSON(w, http.StatusOK, map[string]any{"user": updated})
}

func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	actor := auth.ActorFromContext(r.Context())

	var ref accountRef
	if id := r.URL.Query().Get("id"); id != "" {
		ref.AccountID = id
	} else if err := decodeJSON(w, r, &ref); err != nil {
		s.writeError(w, r, err)
		return
	}

	if err := s.accounts.Delete(r.Context(), actor, ref.id()); err != nil {
		s.writeError(w, r, err)
		return
	}

	logging.FromContext(r.Context(), s.logger).Info(r.Context(), "account deleted", "account_id", ref.id(), "by", actor.ID)
	writeJSON(w, http.StatusOK, map[string]string{"message": "account deleted"})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.accounts.Stats(r.Context(), auth.ActorFromContext(r.Context()))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
