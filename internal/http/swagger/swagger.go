// Package swagger serves the API document and a Swagger UI for it.
package swagger

import (
	_ "embed"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/swaggest/swgui"
	"github.com/swaggest/swgui/v5emb"
)

//go:embed openapi.json
var spec []byte

const (
	basePath = "/swagger/"
	specPath = "/swagger/openapi.json"
)

func Spec() []byte {
	return spec
}

// Mount registers the UI under /swagger/ and the document at
// /swagger/openapi.json.
func Mount(r chi.Router) {
	ui := v5emb.NewHandlerWithConfig(swgui.Config{
		Title:       "Contacts API Documentation",
		SwaggerJSON: specPath,
		BasePath:    basePath,
		ShowTopBar:  true,
	})

	r.Get(specPath, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(spec)
	})
	r.Handle(basePath+"*", ui)
	r.Handle("/swagger", http.RedirectHandler(basePath, http.StatusFound))
}
