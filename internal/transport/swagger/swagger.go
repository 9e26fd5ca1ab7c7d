package swagger

import (
	"net/http"

	"github.com/frahmantamala/campus-ops/api"
	"github.com/go-chi/chi"
	httpSwagger "github.com/swaggo/http-swagger"
)

const DocumentPath = "/openapi.yml"

// Document serves the embedded OpenAPI file.
func Document(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(api.Document)
}

// Handler is the swagger UI, pointed at DocumentPath.
func Handler() http.Handler {
	return httpSwagger.Handler(httpSwagger.URL(DocumentPath))
}

// Mount registers the document and the UI at the router root, outside the
// API prefix.
func Mount(r chi.Router) {
	r.Get(DocumentPath, Document)
	r.Handle("/swagger/*", Handler())
}
