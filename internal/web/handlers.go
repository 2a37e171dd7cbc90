package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/colonyops/vaultflow/internal/core/transition"
	"github.com/colonyops/vaultflow/internal/core/vault"
)

// logsPageLimit caps the records shown on the logs page.
const logsPageLimit = 50

// actionKind routes a mutation endpoint to its engine action.
type actionKind int

const (
	actionApprove actionKind = iota
	actionReject
	actionSend
	actionDone
)

var engineActions = map[actionKind]transition.Action{
	actionApprove: transition.ActionApprove,
	actionReject:  transition.ActionReject,
	actionSend:    transition.ActionSendForApproval,
	actionDone:    transition.ActionMarkDone,
}

// actionResponse is the only contract the presentation layer relies on:
// mutations always answer with this envelope, never an unhandled fault.
type actionResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// handleAction builds the handler for one mutation endpoint. Every error
// kind degrades to a structured failure response; the process keeps serving.
func (s *Server) handleAction(kind actionKind) http.HandlerFunc {
	action := engineActions[kind]
	return func(w http.ResponseWriter, r *http.Request) {
		path := r.FormValue("filepath")

		_, err := s.app.Vault.Apply(r.Context(), action, path)
		if err != nil {
			s.writeJSON(w, actionResponse{Success: false, Error: userMessage(err)})
			return
		}
		s.writeJSON(w, actionResponse{Success: true})
	}
}

// userMessage maps internal error kinds to operator-facing strings.
func userMessage(err error) string {
	switch {
	case errors.Is(err, transition.ErrInvalidInput):
		return "No valid file path provided"
	case errors.Is(err, vault.ErrNotFound):
		return "File does not exist"
	case errors.Is(err, vault.ErrAlreadyExists):
		return "A file with the same name already exists at the destination"
	default:
		return err.Error()
	}
}

func (s *Server) handleAPICounts(w http.ResponseWriter, r *http.Request) {
	counts, err := s.app.Activity.Counts(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, counts)
}

func (s *Server) handleAPIActivity(w http.ResponseWriter, r *http.Request) {
	entries, err := s.app.Activity.Recent(r.Context(), queryLimit(r, 0))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, entries)
}

func (s *Server) handleAPILogs(w http.ResponseWriter, r *http.Request) {
	records, err := s.app.Vault.RecentLogs(r.Context(), queryLimit(r, logsPageLimit))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, records)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, map[string]string{"status": "ok"})
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	counts, err := s.app.Activity.Counts(ctx)
	if err != nil {
		s.renderError(w, err)
		return
	}
	entries, err := s.app.Activity.Recent(ctx, 0)
	if err != nil {
		s.renderError(w, err)
		return
	}

	// The overview document is optional free-form text.
	var overview any
	if data, err := os.ReadFile(s.app.Config.DashboardFile()); err == nil {
		if html, err := renderMarkdown(data); err == nil {
			overview = html
		}
	}

	s.renderPage(w, "dashboard", map[string]any{
		"Title":    "Dashboard",
		"Counts":   counts,
		"Order":    vault.Primary(),
		"Activity": entries,
		"Overview": overview,
	})
}

func (s *Server) handlePendingApproval(w http.ResponseWriter, r *http.Request) {
	s.renderListing(w, r, "Pending Approval", vault.CategoryPendingApproval, true)
}

func (s *Server) handleNeedsAction(w http.ResponseWriter, r *http.Request) {
	s.renderListing(w, r, "Needs Action", vault.CategoryNeedsAction, true)
}

func (s *Server) handleSocialDrafts(w http.ResponseWriter, r *http.Request) {
	s.renderListing(w, r, "Social Drafts", vault.CategorySocialDraft, false)
}

func (s *Server) renderListing(w http.ResponseWriter, r *http.Request, title string, category vault.Category, approvable bool) {
	items, err := s.app.Activity.Listing(r.Context(), category)
	if err != nil {
		s.renderError(w, err)
		return
	}
	s.renderPage(w, "listing", map[string]any{
		"Title":      title,
		"Items":      items,
		"Approvable": approvable,
		"Social":     category == vault.CategorySocialDraft,
	})
}

func (s *Server) handleLogs(w http.ResponseWriter, r *http.Request) {
	records, err := s.app.Vault.RecentLogs(r.Context(), logsPageLimit)
	if err != nil {
		s.renderError(w, err)
		return
	}
	s.renderPage(w, "logs", map[string]any{
		"Title":   "Logs",
		"Records": records,
	})
}

func (s *Server) handleViewFile(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("filepath")
	if path == "" {
		http.Error(w, "file not found", http.StatusNotFound)
		return
	}

	content, err := s.app.Vault.ReadItem(r.Context(), path)
	if err != nil {
		if errors.Is(err, vault.ErrNotFound) {
			http.Error(w, "file not found", http.StatusNotFound)
			return
		}
		s.renderError(w, err)
		return
	}

	html, err := renderMarkdown(content)
	if err != nil {
		s.renderError(w, err)
		return
	}

	s.renderPage(w, "view", map[string]any{
		"Title":    filepath.Base(path),
		"Filepath": path,
		"Content":  html,
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error().Err(err).Msg("encode response")
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	s.logger.Error().Err(err).Msg("request failed")
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusInternalServerError)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}

func (s *Server) renderError(w http.ResponseWriter, err error) {
	s.logger.Error().Err(err).Msg("page render failed")
	http.Error(w, "internal error: "+err.Error(), http.StatusInternalServerError)
}

func queryLimit(r *http.Request, fallback int) int {
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}
