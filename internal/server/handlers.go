package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"slices"
	"strconv"

	"github.com/hyperjump/newsprobe/internal/models"
	"github.com/hyperjump/newsprobe/internal/render"
	"github.com/hyperjump/newsprobe/internal/session"
	"go.uber.org/zap"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 200
)

// sessionFor returns the caller's session, issuing a cookie for a new one.
func (s *Server) sessionFor(w http.ResponseWriter, r *http.Request) *session.Session {
	var id string
	if c, err := r.Cookie(SessionCookie); err == nil {
		id = c.Value
	}
	sess, created := s.sessions.Get(id)
	if created {
		http.SetCookie(w, &http.Cookie{
			Name:     SessionCookie,
			Value:    sess.ID(),
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}
	return sess
}

func (s *Server) widgetFor(sess *session.Session) render.Widget {
	params := sess.Params()
	w := render.NewWidget(sess.State(), params, params.Limit)
	w.Models = s.models
	return w
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	sess := s.sessionFor(w, r)
	s.renderHTML(w, "page", pageData{
		Title:  siteTitle,
		About:  s.about,
		Widget: s.widgetFor(sess),
	})
}

// handleWidget serves the widget fragment alone, for clients that refresh
// the demo without reloading the page.
func (s *Server) handleWidget(w http.ResponseWriter, r *http.Request) {
	sess := s.sessionFor(w, r)
	var buf bytes.Buffer
	if err := s.widgets.WriteWidget(&buf, s.widgetFor(sess)); err != nil {
		s.logger.Error("render failed", zap.String("template", "widget"), zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

func (s *Server) handleDemoSearch(w http.ResponseWriter, r *http.Request) {
	sess := s.sessionFor(w, r)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	p, err := s.applyParams(sess.Params(), r.PostForm, true)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	sess.Dispatch(r.Context(), p)
	http.Redirect(w, r, "/#demo", http.StatusSeeOther)
}

func (s *Server) handleDemoLimit(w http.ResponseWriter, r *http.Request) {
	sess := s.sessionFor(w, r)
	n, err := strconv.Atoi(r.FormValue("top_k"))
	if err != nil {
		http.Error(w, "top_k must be an integer", http.StatusBadRequest)
		return
	}
	sess.SetLimit(n)
	http.Redirect(w, r, "/#demo", http.StatusSeeOther)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	sess := s.sessionFor(w, r)
	p, err := s.applyParams(sess.Params(), r.URL.Query(), false)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.logger.Debug("search request",
		zap.String("session", sess.ID()),
		zap.String("query", p.Query),
		zap.Int("top_k", p.Limit),
	)
	state := sess.Dispatch(r.Context(), p)
	s.respondJSON(w, http.StatusOK, render.NewDocument(state, state.Params.Limit))
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	sess := s.sessionFor(w, r)
	s.respondJSON(w, http.StatusOK, render.NewDocument(sess.State(), sess.Params().Limit))
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		s.respondError(w, http.StatusNotImplemented, "history not enabled")
		return
	}
	limit := defaultHistoryLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			s.respondError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = min(n, maxHistoryLimit)
	}
	ctx := r.Context()
	entries, err := s.history.Recent(ctx, limit)
	if err != nil {
		s.logger.Error("history: recent failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, "failed to read history")
		return
	}
	total, err := s.history.Count(ctx)
	if err != nil {
		s.logger.Error("history: count failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, "failed to read history")
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"entries": entries,
		"total":   total,
	})
}

// diskUser is implemented by stores that can report their size on disk.
type diskUser interface {
	DiskUsage() (int64, error)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := map[string]interface{}{
		"status":   "ok",
		"sessions": s.sessions.Len(),
	}
	if du, ok := s.history.(diskUser); ok {
		if n, err := du.DiskUsage(); err == nil {
			resp["history_bytes"] = n
		}
	}
	s.respondJSON(w, http.StatusOK, resp)
}

// applyParams overlays q, top_k, rerank and model from values onto p. When
// checkbox is set, rerank follows HTML form semantics: absent means off.
// Unknown models are rejected.
func (s *Server) applyParams(p models.SearchParameters, values url.Values, checkbox bool) (models.SearchParameters, error) {
	if values.Has("q") {
		p.Query = values.Get("q")
	}
	if v := values.Get("top_k"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return p, errors.New("top_k must be an integer")
		}
		p.Limit = n
	}
	switch v := values.Get("rerank"); {
	case v != "":
		b, err := strconv.ParseBool(v)
		if err != nil {
			return p, errors.New("rerank must be true or false")
		}
		p.RerankEnabled = b
	case checkbox:
		p.RerankEnabled = false
	}
	if v := values.Get("model"); v != "" {
		if len(s.models) > 0 && !slices.Contains(s.models, v) {
			return p, fmt.Errorf("unknown model %q", v)
		}
		p.ModelName = v
	}
	return p, nil
}

func (s *Server) renderHTML(w http.ResponseWriter, name string, data interface{}) {
	var buf bytes.Buffer
	if err := s.pages.ExecuteTemplate(&buf, name, data); err != nil {
		s.logger.Error("render failed", zap.String("template", name), zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
