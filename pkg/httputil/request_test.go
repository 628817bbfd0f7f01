package httputil

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseJSON(t *testing.T) {
	req := httptest.NewRequest("POST", "/", bytes.NewReader([]byte(`{"name": "widget"}`)))
	var dest struct {
		Name string `json:"name"`
	}
	require.NoError(t, ParseJSON(req, &dest))
	assert.Equal(t, "widget", dest.Name)

	req = httptest.NewRequest("POST", "/", bytes.NewReader([]byte(`{broken`)))
	err := ParseJSON(req, &dest)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid JSON")
}

func TestParseJSONOrError(t *testing.T) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/", bytes.NewReader([]byte(`not json`)))
	var dest map[string]any

	ok := ParseJSONOrError(w, req, &dest)
	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid JSON")
}

func TestPathString(t *testing.T) {
	router := mux.NewRouter()
	var got string
	router.HandleFunc("/things/{id}", func(w http.ResponseWriter, r *http.Request) {
		val, err := PathString(r, "id")
		require.NoError(t, err)
		got = val
	})

	req := httptest.NewRequest("GET", "/things/abc123", nil)
	router.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, "abc123", got)

	req = httptest.NewRequest("GET", "/missing", nil)
	_, err := PathString(req, "id")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing path parameter")
}

func TestParseQueryInt(t *testing.T) {
	req := httptest.NewRequest("GET", "/?page=3", nil)
	val, err := ParseQueryInt(req, "page", 1)
	require.NoError(t, err)
	assert.Equal(t, 3, val)

	req = httptest.NewRequest("GET", "/", nil)
	val, err = ParseQueryInt(req, "page", 1)
	require.NoError(t, err)
	assert.Equal(t, 1, val)

	req = httptest.NewRequest("GET", "/?page=abc", nil)
	_, err = ParseQueryInt(req, "page", 1)
	require.Error(t, err)
}

func TestRequireQuery(t *testing.T) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/?userId=user_1", nil)
	val, ok := RequireQuery(w, req, "userId")
	assert.True(t, ok)
	assert.Equal(t, "user_1", val)

	w = httptest.NewRecorder()
	req = httptest.NewRequest("GET", "/", nil)
	_, ok = RequireQuery(w, req, "userId")
	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "userId is required")
}
