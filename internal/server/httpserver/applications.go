package httpserver

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/rpportal/internal/common"
	"github.com/dmitrijs2005/rpportal/internal/logging"
	"github.com/dmitrijs2005/rpportal/internal/server/auth"
	"github.com/dmitrijs2005/rpportal/internal/server/services"
	"github.com/dmitrijs2005/rpportal/internal/skills"
)

// looseInt accepts a JSON number or a numeric string, as HTML forms send
// ages as text.
type looseInt int

func (n *looseInt) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*n = 0
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			*n = 0
			return nil
		}
		v, err := strconv.Atoi(s)
		if err != nil {
			return fmt.Errorf("not a number: %q", s)
		}
		*n = looseInt(v)
		return nil
	}
	var v int
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*n = looseInt(v)
	return nil
}

type applicationRequest struct {
	Email                string     `json:"email"`
	DiscordHandle        string     `json:"discordHandle"`
	AgeIRL               looseInt   `json:"ageIRL"`
	Discovery            string     `json:"discovery"`
	Origin               string     `json:"origin"`
	AgeRP                looseInt   `json:"ageRP"`
	CharacterName        string     `json:"characterName"`
	MainCraft            string     `json:"mainCraft"`
	Height               string     `json:"height"`
	Backstory            string     `json:"backstory"`
	Appearance           string     `json:"appearance"`
	Skills               skills.Set `json:"skills"`
	RoleplayContribution string     `json:"roleplayContribution"`
	Projects             string     `json:"projects"`
	RulesRead            bool       `json:"rulesRead"`
	LoreRead             bool       `json:"loreRead"`
	Referrer             string     `json:"referrer"`
}

func (a applicationRequest) draft() services.Draft {
	return services.Draft{
		Email:                a.Email,
		DiscordHandle:        a.DiscordHandle,
		AgeIRL:               int(a.AgeIRL),
		Discovery:            a.Discovery,
		Origin:               a.Origin,
		AgeRP:                int(a.AgeRP),
		CharacterName:        a.CharacterName,
		MainCraft:            a.MainCraft,
		Height:               a.Height,
		Backstory:            a.Backstory,
		Appearance:           a.Appearance,
		Skills:               a.Skills,
		RoleplayContribution: a.RoleplayContribution,
		Projects:             a.Projects,
		RulesRead:            a.RulesRead,
		LoreRead:             a.LoreRead,
		Referrer:             a.Referrer,
	}
}

func (s *Server) handleSubmitApplication(w http.ResponseWriter, r *http.Request) {
	actor := auth.ActorFromContext(r.Context())
	if actor == nil {
		s.writeError(w, r, common.ErrorUnauthenticated)
		return
	}

	var req applicationRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	app, err := s.applications.Submit(r.Context(), actor, req.draft())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	logging.FromContext(r.Context(), s.logger).Info(r.Context(), "application submitted", "application_id", app.ID)
	writeJSON(w, http.StatusCreated, app)
}

func (s *Server) handleListApplications(w http.ResponseWriter, r *http.Request) {
	page, err := s.applications.List(r.Context(), auth.ActorFromContext(r.Context()), queryInt(r, "page"), queryInt(r, "limit"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (s *Server) handleGetApplication(w http.ResponseWriter, r *http.Request) {
	app, err := s.applications.Get(r.Context(), auth.ActorFromContext(r.Context()), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, app)
}

func (s *Server) handleDeleteApplication(w http.ResponseWriter, r *http.Request) {
	if err := s.applications.Delete(r.Context(), auth.ActorFromContext(r.Context()), r.PathValue("id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
