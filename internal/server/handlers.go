package server

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"math"
	"net/http"
	"strconv"

	"github.com/jmylchreest/scour/internal/auth"
	"github.com/jmylchreest/scour/internal/logger"
	"github.com/jmylchreest/scour/internal/version"
	"github.com/jmylchreest/scour/pkg/cleaner/text"
)

// Error details returned in the "detail" field.
const (
	detailMissingToken = "Missing or invalid token"
	detailInvalidToken = "Invalid token"
	detailBlocked      = "Token blocked"
	detailRateLimited  = "Rate limit exceeded"
	detailMissingText  = "Missing text"
	detailTooLarge     = "Request body too large"
	detailInternal     = "Internal server error"
)

type cleanResponse struct {
	Clean string `json:"clean"`
}

type errorResponse struct {
	Detail string `json:"detail"`
}

// statsCleaner is implemented by cleaners that can report pipeline metrics.
type statsCleaner interface {
	CleanWithStats(content string) *text.Result
}

func (s *Server) handleClean(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	token, err := s.auth.Authenticate(r.Header.Get("Authorization"))
	if err != nil {
		status, detail := authFailure(err)
		logger.DebugContext(ctx, "authentication failed", "error", err)
		writeError(w, status, detail)
		return
	}

	if !s.limiter.Allow(token) {
		wait := s.limiter.RetryAfter(token)
		w.Header().Set("Retry-After", strconv.Itoa(retryAfterSeconds(wait.Seconds())))
		logger.InfoContext(ctx, "rate limit exceeded", "token", auth.Fingerprint(token), "retry_after", wait)
		writeError(w, http.StatusTooManyRequests, detailRateLimited)
		return
	}

	input, err := decodeText(http.MaxBytesReader(w, r.Body, s.opts.MaxBodySize))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, detailTooLarge)
			return
		}
		logger.DebugContext(ctx, "request body rejected", "error", err)
		writeError(w, http.StatusBadRequest, detailMissingText)
		return
	}
	if input == nil {
		writeError(w, http.StatusBadRequest, detailMissingText)
		return
	}

	clean, err := s.clean(r, *input)
	if err != nil {
		logger.ErrorContext(ctx, "cleaning failed", "cleaner", s.cleaner.Name(), "error", err)
		writeError(w, http.StatusInternalServerError, detailInternal)
		return
	}

	writeJSON(w, http.StatusOK, cleanResponse{Clean: clean})
}

// clean runs the configured cleaner. At debug level it collects and logs stats
// when the cleaner supports them.
func (s *Server) clean(r *http.Request, input string) (string, error) {
	ctx := r.Context()
	l := logger.FromContext(ctx)

	if sc, ok := s.cleaner.(statsCleaner); ok && l.Enabled(ctx, slog.LevelDebug) {
		res := sc.CleanWithStats(input)
		l.DebugContext(ctx, "cleaned",
			"input_bytes", res.Stats.InputBytes,
			"output_bytes", res.Stats.OutputBytes,
			"markup", res.Stats.Markup,
			"elements_removed", res.Stats.TotalElementsRemoved(),
			"duration", res.Stats.TotalDuration)
		for _, warn := range res.Warnings {
			l.WarnContext(ctx, "cleaning warning", "phase", warn.Phase, "message", warn.Message)
		}
		return res.Content, nil
	}
	return s.cleaner.Clean(input)
}

// decodeText reads a JSON object and returns its "text" member. It returns nil
// when the member is absent, null or not a string.
func decodeText(body io.Reader) (*string, error) {
	var payload map[string]any
	if err := json.NewDecoder(body).Decode(&payload); err != nil {
		return nil, err
	}
	s, ok := payload["text"].(string)
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func authFailure(err error) (int, string) {
	switch {
	case errors.Is(err, auth.ErrBlocked):
		return http.StatusForbidden, detailBlocked
	case errors.Is(err, auth.ErrUnrecognized):
		return http.StatusUnauthorized, detailInvalidToken
	default:
		return http.StatusUnauthorized, detailMissingToken
	}
}

// retryAfterSeconds rounds up to whole seconds, with a floor of one.
func retryAfterSeconds(secs float64) int {
	n := int(math.Ceil(secs))
	if n < 1 {
		return 1
	}
	return n
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, version.Get())
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, errorResponse{Detail: detail})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		logger.Warn("failed to write response", "error", err)
	}
}
