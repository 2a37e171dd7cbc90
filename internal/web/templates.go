package web

import (
	"embed"
	"html/template"
	"net/http"
	"time"
)

//go:embed templates/*.gohtml
var templatesFS embed.FS

var pageFuncs = template.FuncMap{
	"timefmt": func(t time.Time) string { return t.Format("2006-01-02 15:04:05") },
}

var pages = template.Must(
	template.New("pages").Funcs(pageFuncs).ParseFS(templatesFS, "templates/*.gohtml"),
)

// renderPage executes one of the embedded page templates.
func (s *Server) renderPage(w http.ResponseWriter, name string, data map[string]any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pages.ExecuteTemplate(w, name, data); err != nil {
		s.logger.Error().Err(err).Str("template", name).Msg("template execution failed")
	}
}
