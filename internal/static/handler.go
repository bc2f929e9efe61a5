package static

import (
	"fmt"
	"net/http"
	"os"
	"path"
	"path/filepath"

	"github.com/ekisa-team/defaultrisk/internal/xfs"
)

// Handler serves a prebuilt single-page-app bundle. Existing files are served
// as-is; extensionless paths that match no file fall back to the entry
// document so client-side routes resolve; anything else is a 404.
type Handler struct {
	files http.Handler
	root  string
	index string
}

// NewHandler creates a Handler rooted at dir with index as the entry document.
func NewHandler(dir, index string) (*Handler, error) {
	if !xfs.IsDir(dir) {
		return nil, fmt.Errorf("static: directory %q does not exist", dir)
	}
	if !xfs.IsFile(filepath.Join(dir, index)) {
		return nil, fmt.Errorf("static: entry document %q not found in %q", index, dir)
	}

	return &Handler{
		files: http.FileServer(http.Dir(dir)),
		root:  dir,
		index: index,
	}, nil
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	upath := path.Clean("/" + r.URL.Path)
	if upath == "/" || upath == "/"+h.index {
		h.serveIndex(w, r)
		return
	}

	if xfs.IsFile(filepath.Join(h.root, filepath.FromSlash(upath))) {
		h.files.ServeHTTP(w, r)
		return
	}

	if path.Ext(upath) == "" {
		h.serveIndex(w, r)
		return
	}

	http.NotFound(w, r)
}

func (h *Handler) serveIndex(w http.ResponseWriter, r *http.Request) {
	f, err := os.Open(filepath.Join(h.root, h.index))
	if err != nil {
		http.NotFound(w, r)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	http.ServeContent(w, r, h.index, info.ModTime(), f)
}
