package router

import (
	"bytes"
	"embed"
	"html/template"
	"io/fs"
	"net/http"

	"github.com/GustavoCaso/spadesk/internal/listquery"
	"github.com/GustavoCaso/spadesk/internal/logger"
)

//go:embed templates
var templatesFS embed.FS

var templateFuncs = template.FuncMap{
	"sortIndicator": sortIndicator,
}

var pages = []string{
	"pages/home.html",
	"pages/listing.html",
}

type templates struct {
	logger *logger.Logger
	pages  map[string]*template.Template
}

func embeddedFS() fs.FS {
	subTemplateFS, err := fs.Sub(templatesFS, "templates")
	if err != nil {
		panic(err)
	}

	return subTemplateFS
}

func parseTemplates(fsDir fs.FS, logger *logger.Logger) *templates {
	baseTempl := template.Must(template.New("base").Funcs(templateFuncs).ParseFS(fsDir,
		"layout.html",
		"partials/nav.html",
		"partials/listing.html",
	))

	t := &templates{
		logger: logger,
		pages:  make(map[string]*template.Template, len(pages)),
	}
	for _, page := range pages {
		t.pages[page] = template.Must(template.Must(baseTempl.Clone()).ParseFS(fsDir, page))
	}

	return t
}

// Render executes the layout with the given page. Output is buffered so a failing template
// never sends a partial page.
func (t *templates) Render(w http.ResponseWriter, page string, data any) {
	tmpl, ok := t.pages[page]
	if !ok {
		t.logger.Error("Unknown template", "page", page)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		t.logger.Error("Failed to render template", "page", page, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

func sortIndicator(direction listquery.Direction) string {
	switch direction {
	case listquery.Asc:
		return "▲"
	case listquery.Desc:
		return "▼"
	default:
		return ""
	}
}
