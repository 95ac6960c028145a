package api

import (
	"embed"
	"fmt"
	"html/template"
)

//go:embed templates/*.html
var templateFS embed.FS

// LoadTemplates parses the embedded page templates. Each page file
// defines a single named template ("login", "home") over the shared
// layout blocks.
func LoadTemplates() *template.Template {
	funcMap := template.FuncMap{
		"kg": func(load float64) string {
			if load == float64(int64(load)) {
				return fmt.Sprintf("%.0f kg", load)
			}
			return fmt.Sprintf("%.1f kg", load)
		},
	}

	return template.Must(
		template.New("pages").Funcs(funcMap).ParseFS(templateFS, "templates/*.html"),
	)
}
