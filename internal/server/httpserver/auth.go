package httpserver

import (
	"net/http"
	"time"

	"github.com/dmitrijs2005/rpportal/internal/common"
	"github.com/dmitrijs2005/rpportal/internal/logging"
	"github.com/dmitrijs2005/rpportal/internal/roles"
	"github.com/dmitrijs2005/rpportal/internal/server/auth"
	"github.com/dmitrijs2005/rpportal/internal/server/services"
)

// SessionCookie holds the opaque session token used to refresh access
// tokens.
const SessionCookie = common.SessionCookieName

const sessionCookiePath = "/api/auth"

var errTooManyAttempts = common.Reason(common.ErrTooManyAttempts, "too many login attempts, try again later")

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	AccessToken  string        `json:"accessToken"`
	TokenType    string        `json:"tokenType"`
	User         *auth.Actor   `json:"user"`
	Capabilities roles.Actions `json:"capabilities"`
}

type sessionResponse struct {
	Authenticated bool          `json:"authenticated"`
	User          *auth.Actor   `json:"user,omitempty"`
	Capabilities  roles.Actions `json:"capabilities"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var in services.RegisterInput
	if err := decodeJSON(w, r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}

	account, err := s.accounts.Register(r.Context(), in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	logging.FromContext(r.Context(), s.logger).Info(r.Context(), "account registered", "account_id", account.ID)
	writeJSON(w, http.StatusCreated, map[string]any{"user": account})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	peer := auth.PeerKey(r.RemoteAddr)
	if ok, wait := s.throttle.Allow(peer); !ok {
		w.Header().Set("Retry-After", retryAfter(wait))
		s.writeError(w, r, errTooManyAttempts)
		return
	}

	var in loginRequest
	if err := decodeJSON(w, r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}
	if in.Email == "" || in.Password == "" {
		s.writeError(w, r, common.Reason(common.ErrorUnauthenticated, "invalid credentials"))
		return
	}

	pair, err := s.accounts.Login(r.Context(), in.Email, in.Password)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.throttle.Reset(peer)

	s.setSessionCookie(w, pair.SessionToken, pair.SessionExpiresAt)
	writeJSON(w, http.StatusOK, newTokenResponse(pair))
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	c, err := r.Cookie(SessionCookie)
	if err != nil || c.Value == "" {
		s.writeError(w, r, common.ErrorUnauthenticated)
		return
	}

	pair, err := s.accounts.Refresh(r.Context(), c.Value)
	if err != nil {
		s.clearSessionCookie(w)
		s.writeError(w, r, err)
		return
	}

	s.setSessionCookie(w, pair.SessionToken, pair.SessionExpiresAt)
	writeJSON(w, http.StatusOK, newTokenResponse(pair))
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(SessionCookie); err == nil {
		if err := s.accounts.Logout(r.Context(), c.Value); err != nil {
			s.writeError(w, r, err)
			return
		}
	}
	s.clearSessionCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

// handleSession reports who the access token belongs to and what they may
// do. Anonymous callers get an unauthenticated answer, not an error.
func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	actor := auth.ActorFromContext(r.Context())
	if actor == nil {
		writeJSON(w, http.StatusOK, sessionResponse{})
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse{
		Authenticated: true,
		User:          actor,
		Capabilities:  roles.Capabilities(actor.Role),
	})
}

func newTokenResponse(pair *services.TokenPair) tokenResponse {
	return tokenResponse{
		AccessToken:  pair.AccessToken,
		TokenType:    "Bearer",
		User:         pair.Actor,
		Capabilities: roles.Capabilities(pair.Actor.Role),
	}
}

func (s *Server) setSessionCookie(w http.ResponseWriter, token string, expires time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     sessionCookiePath,
		Expires:  expires,
		HttpOnly: true,
		Secure:   s.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *Server) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     sessionCookiePath,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}
