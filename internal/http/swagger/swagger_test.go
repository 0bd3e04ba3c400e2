package swagger

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpecDescribesRoutes(t *testing.T) {
	var doc struct {
		Paths map[string]json.RawMessage `json:"paths"`
	}
	require.NoError(t, json.Unmarshal(Spec(), &doc))

	for _, p := range []string{"/users/register", "/users/login", "/users/avatars", "/api/contacts", "/api/contacts/{id}/favorite"} {
		assert.Contains(t, doc.Paths, p)
	}
}

func TestMount(t *testing.T) {
	r := chi.NewRouter()
	Mount(r)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/swagger/openapi.json", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/swagger/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
