package fileserver

import (
	"net/http"
	"strings"
	"time"

	"github.com/klauspost/compress/gzhttp"
)

// buildHandler assembles the request chain over the serving root. The CORS
// layer sits outermost so the headers ride along no matter which inner
// layer produces the response.
func buildHandler(root string, compress bool) http.Handler {
	var handler http.Handler = http.FileServer(http.Dir(root))
	handler = rejectTraversal(handler)
	if compress {
		handler = gzhttp.GzipHandler(handler)
	}
	handler = logRequests(handler)
	return AllowCORS(handler)
}

// http.FileServer already refuses to escape its root, but the guard here
// makes traversal attempts fail loudly before any filesystem access.
func rejectTraversal(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if containsDotDot(r.URL.Path) {
			http.Error(w, "invalid path", http.StatusBadRequest)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func containsDotDot(path string) bool {
	if !strings.Contains(path, "..") {
		return false
	}
	for _, segment := range strings.FieldsFunc(path, isPathSeparator) {
		if segment == ".." {
			return true
		}
	}
	return false
}

func isPathSeparator(r rune) bool {
	return r == '/' || r == '\\'
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		writer := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(writer, r)
		logger.Debug(r.Method, " ", r.URL.Path, " ", writer.status, " ", time.Since(start))
	})
}
