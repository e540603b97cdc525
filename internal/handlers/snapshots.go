package handlers

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// ViewSnapshotHandler serves one trigger snapshot by file name.
func ViewSnapshotHandler(snapshotDir string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := r.URL.Query().Get("name")
		if name == "" || name != filepath.Base(name) || !strings.HasSuffix(name, ".jpg") {
			http.Error(w, "Invalid snapshot name", http.StatusBadRequest)
			return
		}

		path := filepath.Join(snapshotDir, name)
		if _, err := os.Stat(path); os.IsNotExist(err) {
			http.NotFound(w, r)
			return
		}

		w.Header().Set("Content-Type", "image/jpeg")
		http.ServeFile(w, r, path)
	}
}
