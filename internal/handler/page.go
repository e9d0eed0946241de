package handler

import (
	"io/fs"
	"net/http"

	"github.com/webdemo/webdemo/internal/web"
)

// PageHandler serves static pages from the assets tree.
type PageHandler struct {
	assets fs.FS
}

// NewPageHandler creates a new PageHandler.
func NewPageHandler(assets fs.FS) *PageHandler {
	return &PageHandler{assets: assets}
}

// Index handles GET /.
func (h *PageHandler) Index(w http.ResponseWriter, r *http.Request) {
	http.ServeFileFS(w, r, h.assets, web.IndexFile)
}

// Assets serves files below /assets/.
func (h *PageHandler) Assets() http.Handler {
	return http.StripPrefix("/assets", http.FileServer(http.FS(h.assets)))
}
