package httpserver

import (
	"net/http"
	"path/filepath"

	"github.com/go-chi/chi/v5"
)

// Routes groups handlers. DeviceAuth gates the measurement write endpoint;
// reads are public.
type Routes struct {
	Ingest     http.HandlerFunc
	Config     http.HandlerFunc
	Latest     http.HandlerFunc
	History    http.HandlerFunc
	Health     http.HandlerFunc
	DeviceAuth func(http.Handler) http.Handler
}

// NewRouter registers endpoints. Device IDs match digits only; non-numeric
// path segments never reach a handler.
func NewRouter(routes Routes, webDir string) http.Handler {
	r := chi.NewRouter()

	if routes.Config != nil {
		r.Get("/config/{device_id:[0-9]+}", routes.Config)
	}
	if routes.Ingest != nil {
		r.With(routes.DeviceAuth).Post("/measurement/{device_id:[0-9]+}", routes.Ingest)
	}
	if routes.Latest != nil {
		r.Get("/measurement/{device_id:[0-9]+}", routes.Latest)
	}
	if routes.History != nil {
		r.Get("/history/{device_id:[0-9]+}", routes.History)
	}
	if routes.Health != nil {
		r.Get("/health", routes.Health)
	}

	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		http.ServeFile(w, req, filepath.Join(webDir, "index.html"))
	})

	return r
}
