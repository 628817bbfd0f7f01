package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devhubhq/devhub/pkg/resource"
)

func TestApiValidate(t *testing.T) {
	valid := Api{Name: "GitHub", Endpoint: "https://api.github.com", Method: "GET", Description: "repos"}

	tests := []struct {
		name   string
		mutate func(*Api)
		errMsg string
	}{
		{name: "valid", mutate: func(*Api) {}},
		{name: "missing name", mutate: func(a *Api) { a.Name = "" }, errMsg: "name is required"},
		{name: "missing endpoint", mutate: func(a *Api) { a.Endpoint = "" }, errMsg: "endpoint is required"},
		{name: "missing description", mutate: func(a *Api) { a.Description = "" }, errMsg: "description is required"},
		{name: "invalid method", mutate: func(a *Api) { a.Method = "PATCH" }, errMsg: "invalid method"},
		{name: "lowercase method", mutate: func(a *Api) { a.Method = "get" }, errMsg: "invalid method"},
		{name: "empty method", mutate: func(a *Api) { a.Method = "" }, errMsg: "invalid method"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := valid
			tt.mutate(&api)
			err := api.Validate()
			if tt.errMsg == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
			}
		})
	}
}

func newCatalogRouter(store Store) *mux.Router {
	r := mux.NewRouter()
	NewHandlers(store, nil).RegisterRoutes(r)
	return r
}

func TestCatalogCRUD(t *testing.T) {
	mem := resource.NewMemoryStore[Api, *Api]()
	router := newCatalogRouter(mem)

	body := `{"name": "GitHub", "endpoint": "https://api.github.com", "method": "GET", "description": "repos"}`
	req := httptest.NewRequest("POST", "/api/apis", bytes.NewReader([]byte(body)))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code, "body: %s", w.Body.String())

	var created Api
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.False(t, created.ID.IsZero())

	req = httptest.NewRequest("GET", "/api/apis?search=github", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var envelope struct {
		Apis       []Api `json:"apis"`
		TotalPages int   `json:"totalPages"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Len(t, envelope.Apis, 1)
	assert.Equal(t, 1, envelope.TotalPages)

	update := fmt.Sprintf(`{"_id": %q, "method": "POST"}`, created.ID.Hex())
	req = httptest.NewRequest("PUT", "/api/apis", bytes.NewReader([]byte(update)))
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var updated Api
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	assert.Equal(t, "POST", updated.Method)

	req = httptest.NewRequest("DELETE", "/api/apis?id="+created.ID.Hex(), nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "API deleted successfully")
}

func TestCatalogRejectsInvalidMethod(t *testing.T) {
	mem := resource.NewMemoryStore[Api, *Api]()
	router := newCatalogRouter(mem)

	body := `{"name": "X", "endpoint": "https://x", "method": "HEAD", "description": "d"}`
	req := httptest.NewRequest("POST", "/api/apis", bytes.NewReader([]byte(body)))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// The enum also holds on body-addressed updates.
	seeded := &Api{Name: "X", Endpoint: "https://x", Method: "GET", Description: "d"}
	require.NoError(t, mem.Insert(req.Context(), seeded))

	update := fmt.Sprintf(`{"_id": %q, "method": "TRACE"}`, seeded.ID.Hex())
	req = httptest.NewRequest("PUT", "/api/apis", bytes.NewReader([]byte(update)))
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid method")
}
