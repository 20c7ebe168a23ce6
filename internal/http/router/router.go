// Package router builds the HTTP handler tree for the API.
//
// Route table (prefixed with http_server.base_path):
//
//	GET    /persons        → list all persons
//	POST   /persons        → create a person
//	PUT    /persons/{id}   → update a person
//	DELETE /persons/{id}   → delete a person
package router

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/aanand-mishra/persons-api/internal/config"
	"github.com/aanand-mishra/persons-api/internal/http/handlers/person"
	"github.com/aanand-mishra/persons-api/internal/http/middleware"
	"github.com/aanand-mishra/persons-api/internal/storage"
)

// New wires the person handlers and middleware around store.
func New(cfg config.HTTPServer, store storage.Storage, log *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logger(log))
	r.Use(chimw.Recoverer)

	if len(cfg.AllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: cfg.AllowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Content-Type", middleware.RequestIDHeader},
			ExposedHeaders: []string{middleware.RequestIDHeader},
			MaxAge:         300,
		}))
	}

	r.Route(cfg.BasePath+"/persons", func(r chi.Router) {
		r.Get("/", person.GetList(store))
		r.Post("/", person.New(store))
		r.Put("/{id}", person.Update(store))
		r.Delete("/{id}", person.Delete(store))
	})

	return r
}
