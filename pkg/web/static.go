package web

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io/fs"
	"mime"
	"net/http"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/JaimeStill/coursecast/pkg/routes"
)

// Static serves files from subdir of fsys under urlPrefix. Responses carry
// Cache-Control with maxAge; a zero maxAge sends no-cache. Directory
// listings are not served.
func Static(fsys fs.FS, subdir, urlPrefix string, maxAge time.Duration) (http.Handler, error) {
	sub, err := fs.Sub(fsys, subdir)
	if err != nil {
		return nil, fmt.Errorf("static %s: %w", subdir, err)
	}

	files := http.StripPrefix(urlPrefix, http.FileServerFS(sub))
	cache := cacheControl(maxAge)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/") || r.URL.Path == urlPrefix {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Cache-Control", cache)
		files.ServeHTTP(w, r)
	}), nil
}

// Bytes serves a fixed payload with a content-derived ETag. HEAD and
// conditional GET requests are handled by http.ServeContent.
func Bytes(data []byte, contentType string) http.HandlerFunc {
	sum := sha256.Sum256(data)
	etag := `"` + hex.EncodeToString(sum[:8]) + `"`

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", contentType)
		w.Header().Set("ETag", etag)
		http.ServeContent(w, r, "", time.Time{}, bytes.NewReader(data))
	}
}

// FileRoutes reads each named file from subdir of fsys and returns GET
// routes serving it at "/<name>". A missing file is an error.
func FileRoutes(fsys fs.FS, subdir string, names ...string) ([]routes.Route, error) {
	out := make([]routes.Route, 0, len(names))
	for _, name := range names {
		data, err := fs.ReadFile(fsys, path.Join(subdir, name))
		if err != nil {
			return nil, fmt.Errorf("public file %s: %w", name, err)
		}

		ctype := mimeType(name)
		out = append(out, routes.Route{
			Method:  http.MethodGet,
			Pattern: "/" + name,
			Handler: Bytes(data, ctype),
		})
	}
	return out, nil
}

func cacheControl(maxAge time.Duration) string {
	if maxAge <= 0 {
		return "no-cache"
	}
	return "public, max-age=" + strconv.Itoa(int(maxAge.Seconds()))
}

func mimeType(name string) string {
	if t := mime.TypeByExtension(path.Ext(name)); t != "" {
		return t
	}
	return "application/octet-stream"
}
