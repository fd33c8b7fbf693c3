package handler

import "net/http"

// HomeHandler serves the landing page.
type HomeHandler struct {
	*base
}

// Index renders GET /.
func (h *HomeHandler) Index(w http.ResponseWriter, r *http.Request) {
	render(w, http.StatusOK, "home.html", h.newBasePage(r, "Home"))
}
