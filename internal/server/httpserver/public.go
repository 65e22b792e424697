package httpserver

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/rpportal/internal/logging"
	"github.com/dmitrijs2005/rpportal/internal/server/i18n"
	"github.com/dmitrijs2005/rpportal/internal/skills"
)

const cacheDaily = "public, s-maxage=86400, stale-while-revalidate"

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.db.PingContext(ctx); err != nil {
			logging.FromContext(r.Context(), s.logger).Warn(r.Context(), "database ping failed", "error", err)
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleRobots(w http.ResponseWriter, r *http.Request) {
	base := strings.TrimRight(s.siteURL, "/")

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Cache-Control", cacheDaily)
	fmt.Fprintf(w, `User-agent: *
Allow: /
Disallow: /api/
Disallow: /admin/
Disallow: /login

# Sitemap
Sitemap: %s/sitemap.xml

Crawl-delay: 1
`, base)
}

type sitemapPage struct {
	path       string
	changefreq string
	priority   string
}

var sitemapPages = []sitemapPage{
	{"", "daily", "1.0"},
	{"/wiki", "weekly", "0.9"},
	{"/login", "yearly", "0.3"},
	{"/formulaire", "monthly", "0.7"},
}

type urlset struct {
	XMLName xml.Name     `xml:"http://www.sitemaps.org/schemas/sitemap/0.9 urlset"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod"`
	ChangeFreq string `xml:"changefreq"`
	Priority   string `xml:"priority"`
}

func (s *Server) handleSitemap(w http.ResponseWriter, r *http.Request) {
	base := strings.TrimRight(s.siteURL, "/")
	lastmod := s.now().UTC().Format(time.RFC3339)

	set := urlset{}
	for _, p := range sitemapPages {
		set.URLs = append(set.URLs, sitemapURL{
			Loc:        base + p.path,
			LastMod:    lastmod,
			ChangeFreq: p.changefreq,
			Priority:   p.priority,
		})
	}

	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	w.Header().Set("Cache-Control", cacheDaily)
	_, _ = w.Write([]byte(xml.Header))
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(set); err != nil {
		logging.FromContext(r.Context(), s.logger).Error(r.Context(), "sitemap encode", "error", err)
	}
}

type playerCount struct {
	OnlinePlayers int `json:"onlinePlayers"`
	MaxPlayers    int `json:"maxPlayers"`
}

// handlePlayerCount proxies the game server status API. Any upstream
// failure reports zero players.
func (s *Server) handlePlayerCount(w http.ResponseWriter, r *http.Request) {
	count, err := s.fetchPlayerCount(r.Context())
	if err != nil {
		logging.FromContext(r.Context(), s.logger).Warn(r.Context(), "player count unavailable", "error", err)
	}
	writeJSON(w, http.StatusOK, count)
}

func (s *Server) fetchPlayerCount(ctx context.Context) (playerCount, error) {
	var out playerCount
	if s.statusURL == "" {
		return out, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.statusURL, nil)
	if err != nil {
		return out, err
	}
	resp, err := s.statusClient.Do(req)
	if err != nil {
		return out, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return out, fmt.Errorf("status api returned %d", resp.StatusCode)
	}

	var body struct {
		Players *struct {
			Online int `json:"online"`
			Max    int `json:"max"`
		} `json:"players"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return out, fmt.Errorf("decode status: %w", err)
	}
	if body.Players != nil {
		out.OnlinePlayers = body.Players.Online
		out.MaxPlayers = body.Players.Max
	}
	return out, nil
}

type skillInfo struct {
	Key     string   `json:"key"`
	Name    string   `json:"name"`
	Effects []string `json:"effects"`
}

type skillCatalog struct {
	MinLevel      int         `json:"minLevel"`
	MaxLevel      int         `json:"maxLevel"`
	TotalBudget   int         `json:"totalBudget"`
	Discretionary int         `json:"discretionary"`
	Attributes    []skillInfo `json:"attributes"`
	Initial       skills.Set  `json:"initial"`
}

// handleSkills describes the point allocator so a client can render it:
// bounds, budget and the localized effect label of every level.
func (s *Server) handleSkills(w http.ResponseWriter, r *http.Request) {
	tag := i18n.ResolveTag(r)

	cat := skillCatalog{
		MinLevel:      skills.MinLevel,
		MaxLevel:      skills.MaxLevel,
		TotalBudget:   skills.TotalBudget,
		Discretionary: skills.Discretionary,
		Initial:       skills.Baseline(),
	}
	for _, a := range skills.Attributes() {
		info := skillInfo{Key: a.String(), Name: i18n.Translate(tag, a.String())}
		for _, e := range skills.Effects(a) {
			info.Effects = append(info.Effects, i18n.Translate(tag, e))
		}
		cat.Attributes = append(cat.Attributes, info)
	}

	w.Header().Set("Cache-Control", "public, max-age=3600")
	writeJSON(w, http.StatusOK, cat)
}
