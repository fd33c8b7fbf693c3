package handler

import (
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strings"

	"github.com/joestump/movies/internal/auth"
	"github.com/joestump/movies/internal/session"
	"github.com/joestump/movies/internal/store"
	"github.com/joestump/movies/web"
)

// BasePage carries layout-level data available to every template.
type BasePage struct {
	Title      string
	User       *store.User // nil for anonymous requests
	Flash      session.Flash
	Production bool
}

func (h *base) newBasePage(r *http.Request, title string) BasePage {
	return BasePage{
		Title:      title,
		User:       auth.UserFromContext(r.Context()),
		Flash:      session.FlashFromContext(r.Context()),
		Production: h.production,
	}
}

var funcs = template.FuncMap{
	"join": strings.Join,
	"isOwner": func(m *store.Movie, u *store.User) bool {
		return u != nil && store.IsOwner(m, u.ID)
	},
	"rating": func(v float64) string {
		return fmt.Sprintf("%.1f", v)
	},
}

// pageCache maps a render key (e.g. "home.html", "movies/show.html") to a
// compiled template set containing base.html + partials + that one page file.
// Each page gets its own set so {{define "content"}} blocks don't collide.
var pageCache map[string]*template.Template

func init() {
	partials, err := fs.Glob(web.TemplateFS, "templates/partials/*.html")
	if err != nil {
		panic("glob partials: " + err.Error())
	}

	pageCache = make(map[string]*template.Template)
	err = fs.WalkDir(web.TemplateFS, "templates/pages", func(p string, d fs.DirEntry, e error) error {
		if e != nil || d.IsDir() || !strings.HasSuffix(p, ".html") {
			return e
		}

		files := make([]string, 0, 2+len(partials))
		files = append(files, "templates/base.html")
		files = append(files, partials...)
		files = append(files, p)

		t, err := template.New("").Funcs(funcs).ParseFS(web.TemplateFS, files...)
		if err != nil {
			return fmt.Errorf("parse %s: %w", p, err)
		}
		rel, _ := strings.CutPrefix(p, "templates/pages/")
		pageCache[rel] = t
		return nil
	})
	if err != nil {
		panic("build page cache: " + err.Error())
	}
}

// render executes a full-page template (base layout + named page) with status.
func render(w http.ResponseWriter, status int, tmpl string, data any) {
	t, ok := pageCache[tmpl]
	if !ok {
		http.Error(w, "template not found: "+tmpl, http.StatusInternalServerError)
		return
	}
	var buf strings.Builder
	if err := t.ExecuteTemplate(&buf, "base", data); err != nil {
		http.Error(w, "template error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(buf.String()))
}
