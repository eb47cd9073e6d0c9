package views

import (
	"html/template"
	"net/http"
	"path/filepath"

	"github.com/minigarde/portal/shared"

	"github.com/pkg/errors"
)

// Renderer executes the portal's page templates. Every *.tmpl under the
// configured directory is parsed once at startup.
type Renderer struct {
	Logger *shared.Logger `inject:""`

	templates *template.Template
}

func (r *Renderer) Load(path string) error {
	templates, err := template.New("").Funcs(FuncMap()).ParseGlob(filepath.Join(path, "*.tmpl"))
	if err != nil {
		return errors.Wrap(err, "failed to parse templates")
	}
	r.templates = templates
	return nil
}

func (r *Renderer) Render(w http.ResponseWriter, req *http.Request, name string, data interface{}) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := r.templates.ExecuteTemplate(w, name, data); err != nil {
		r.Logger.Err(req.Context(), "failed to render template", "template", name, "error", err.Error())
		http.Error(w, "Erreur interne", http.StatusInternalServerError)
	}
}

func FuncMap() template.FuncMap {
	return template.FuncMap{
		"avatarColor":     AvatarColor,
		"initials":        Initials,
		"sleepBarPercent": SleepBarPercent,
		"formatSleep":     FormatSleep,
		"formatBytes":     FormatBytes,
		"formatDate":      FormatDate,
		"weekdayLabel":    WeekdayLabel,
		"weatherOptions":  WeatherOptions,
		"moodOptions":     MoodOptions,
		"appetiteOptions": AppetiteOptions,
	}
}
