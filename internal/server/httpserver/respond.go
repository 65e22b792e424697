package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/rpportal/internal/common"
	"github.com/dmitrijs2005/rpportal/internal/logging"
	"github.com/dmitrijs2005/rpportal/internal/server/i18n"
)

const maxBodyBytes = 1 << 20

type errorResponse struct {
	Error    string   `json:"error"`
	Problems []string `json:"problems,omitempty"`
}

// writeJSON writes payload with the given status code.
func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// statusFor maps a service error to its HTTP status and the English message
// shown to the caller.
func statusFor(err error) (int, string) {
	reason := common.PublicReason(err)
	pick := func(fallback string) string {
		if reason != "" {
			return reason
		}
		return fallback
	}

	switch {
	case errors.Is(err, common.ErrorValidation):
		return http.StatusBadRequest, pick("invalid request body")
	case errors.Is(err, common.ErrorUnauthenticated):
		return http.StatusUnauthorized, pick("authentication required")
	case errors.Is(err, common.ErrRefreshTokenExpired),
		errors.Is(err, common.ErrTokenExpired),
		errors.Is(err, common.ErrInvalidToken):
		return http.StatusUnauthorized, pick("session expired")
	case errors.Is(err, common.ErrorForbidden):
		return http.StatusForbidden, pick("administrator rights required")
	case errors.Is(err, common.ErrorNotFound):
		return http.StatusNotFound, pick("not found")
	case errors.Is(err, common.ErrorConflict):
		return http.StatusConflict, pick("conflict")
	case errors.Is(err, common.ErrTooManyAttempts):
		return http.StatusTooManyRequests, pick("too many login attempts, try again later")
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

// writeError renders err as {"error": ...} in the caller's language.
// Internal errors are logged and never echoed.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, msg := statusFor(err)
	tag := i18n.ResolveTag(r)
	l := logging.FromContext(r.Context(), s.logger)

	if status == http.StatusInternalServerError {
		l.Error(r.Context(), "request failed", "error", err)
	} else {
		l.Debug(r.Context(), "request rejected", "status", status, "error", err)
	}

	resp := errorResponse{Error: i18n.Translate(tag, msg)}

	var ve *common.ValidationError
	if errors.As(err, &ve) {
		resp.Problems = make([]string, 0, len(ve.Problems))
		for _, p := range ve.Problems {
			resp.Problems = append(resp.Problems, i18n.Translate(tag, p))
		}
		resp.Error = strings.Join(resp.Problems, "; ")
	}

	writeJSON(w, status, resp)
}

// decodeJSON reads one JSON object from the body into dst.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(body)
	if err := dec.Decode(dst); err != nil {
		return common.NewValidationError("invalid request body")
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return common.NewValidationError("invalid request body")
	}
	return nil
}

// queryInt parses an integer query parameter, returning 0 when it is absent
// or malformed so the service defaults apply.
func queryInt(r *http.Request, name string) int {
	n, err := strconv.Atoi(strings.TrimSpace(r.URL.Query().Get(name)))
	if err != nil {
		return 0
	}
	return n
}

func retryAfter(d time.Duration) string {
	secs := int((d + time.Second - 1) / time.Second)
	if secs < 1 {
		secs = 1
	}
	return fmt.Sprint(secs)
}

func isHTTPS(url string) bool {
	return strings.HasPrefix(strings.ToLower(url), "https://")
}
