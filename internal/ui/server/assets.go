package server

import (
	"errors"
	"io/fs"
	"net/http"
)

// assetHandler serves one named file from the asset filesystem.
func (s *server) assetHandler(name, contentType string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, err := fs.ReadFile(s.assets, name)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				http.NotFound(w, r)
				return
			}
			s.logger.FromContext(r.Context()).WithCategory("http").Error("read asset "+name, err)
			http.Error(w, "failed to read asset", http.StatusInternalServerError)
			return
		}
		if contentType != "" {
			w.Header().Set("Content-Type", contentType)
		}
		w.Header().Set("Cache-Control", "public, max-age=300")
		if r.Method == http.MethodHead {
			return
		}
		_, _ = w.Write(data)
	})
}
