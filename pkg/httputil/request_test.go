package httputil

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestParseJSON verifies decoding and the invalid-JSON error path
func TestParseJSON(t *testing.T) {
	var dest struct {
		Name string `json:"name"`
	}

	r := httptest.NewRequest("POST", "/", strings.NewReader(`{"name":"x"}`))
	require.NoError(t, ParseJSON(r, &dest))
	assert.Equal(t, "x", dest.Name)

	r = httptest.NewRequest("POST", "/", strings.NewReader(`{broken`))
	assert.Error(t, ParseJSON(r, &dest))
}

// TestParseJSONOrError verifies the 400 shortcut
func TestParseJSONOrError(t *testing.T) {
	var dest map[string]interface{}

	rec := httptest.NewRecorder()
	r := httptest.NewRequest("POST", "/", strings.NewReader(`{broken`))
	ok := ParseJSONOrError(rec, r, &dest)

	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// TestPathString verifies mux path variable extraction
func TestPathString(t *testing.T) {
	router := mux.NewRouter()
	var got string
	var gotErr error
	router.HandleFunc("/things/{id}", func(w http.ResponseWriter, r *http.Request) {
		got, gotErr = PathString(r, "id")
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/things/abc", nil))
	require.NoError(t, gotErr)
	assert.Equal(t, "abc", got)

	// A request that never went through the router has no variables.
	_, err := PathString(httptest.NewRequest("GET", "/things/abc", nil), "id")
	assert.Error(t, err)
}
