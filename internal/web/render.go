package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"log"
	"net/http"

	"github.com/MuseumTrail/MT-Backend/internal/utils"
)

//go:embed templates/*.html
var templateFS embed.FS

var pages = []string{"login", "signup", "dashboard", "museum", "quiz"}

// ParseFS names each template after its file.
const layoutTemplate = "layout.html"

// View is passed to every page template.
type View struct {
	Username string
	Flashes  []Flash
	Data     any
}

// Renderer executes the embedded page templates inside the shared layout.
type Renderer struct {
	pages map[string]*template.Template
}

func NewRenderer() (*Renderer, error) {
	funcs := template.FuncMap{
		"inc": func(i int) int { return i + 1 },
	}

	rd := &Renderer{pages: make(map[string]*template.Template, len(pages))}
	for _, p := range pages {
		t, err := template.New(layoutTemplate).Funcs(funcs).ParseFS(templateFS, "templates/layout.html", "templates/"+p+".html")
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", p, err)
		}
		rd.pages[p] = t
	}
	return rd, nil
}

// Render writes page with status. Pending flash notices are consumed and shown
// together with extra.
func (rd *Renderer) Render(w http.ResponseWriter, r *http.Request, status int, page string, data any, extra ...Flash) {
	t, ok := rd.pages[page]
	if !ok {
		http.Error(w, "Unknown page", http.StatusInternalServerError)
		return
	}

	username, _ := utils.GetUsernameFromContext(r.Context())
	view := View{
		Username: username,
		Flashes:  append(PopFlashes(w, r), extra...),
		Data:     data,
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, layoutTemplate, view); err != nil {
		log.Printf("[web] render %s: %v", page, err)
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}
