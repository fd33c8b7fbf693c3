package handler

import (
	"log/slog"
	"net/http"
)

// base holds what every handler needs to render pages.
type base struct {
	log        *slog.Logger
	production bool
}

// ErrorPage is the template data for the 403, 404 and 500 pages.
type ErrorPage struct {
	BasePage
	URL    string
	Detail string // only set outside production
}

func (h *base) notFound(w http.ResponseWriter, r *http.Request) {
	render(w, http.StatusNotFound, "errors/404.html", ErrorPage{
		BasePage: h.newBasePage(r, "Page Not Found"),
		URL:      r.URL.RequestURI(),
	})
}

func (h *base) forbidden(w http.ResponseWriter, r *http.Request) {
	render(w, http.StatusForbidden, "errors/403.html", ErrorPage{
		BasePage: h.newBasePage(r, "Forbidden"),
		URL:      r.URL.RequestURI(),
	})
}

// serverError logs err and renders the 500 page.
func (h *base) serverError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	h.log.Error(msg, "error", err, "method", r.Method, "path", r.URL.Path)
	page := ErrorPage{BasePage: h.newBasePage(r, "Server Error")}
	if !h.production {
		page.Detail = msg + ": " + err.Error()
	}
	render(w, http.StatusInternalServerError, "errors/500.html", page)
}
