package router

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aanand-mishra/persons-api/internal/config"
	"github.com/aanand-mishra/persons-api/internal/http/middleware"
	"github.com/aanand-mishra/persons-api/internal/storage"
	"github.com/aanand-mishra/persons-api/internal/storage/memory"
	"github.com/aanand-mishra/persons-api/internal/storage/sqlite"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	resp := httptest.NewRecorder()
	h.ServeHTTP(resp, req)
	return resp
}

func TestRoutesWithBasePath(t *testing.T) {
	h := New(config.HTTPServer{BasePath: "/person-management-backend/api"}, memory.New(), discardLogger())

	resp := serve(h, httptest.NewRequest(http.MethodGet, "/person-management-backend/api/persons", nil))
	require.Equal(t, http.StatusOK, resp.Code)
	assert.JSONEq(t, `[]`, resp.Body.String())

	resp = serve(h, httptest.NewRequest(http.MethodGet, "/persons", nil))
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestUnsupportedMethod(t *testing.T) {
	h := New(config.HTTPServer{}, memory.New(), discardLogger())

	resp := serve(h, httptest.NewRequest(http.MethodPatch, "/persons/1", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, resp.Code)
}

func TestRequestIDGeneratedAndEchoed(t *testing.T) {
	h := New(config.HTTPServer{}, memory.New(), discardLogger())

	resp := serve(h, httptest.NewRequest(http.MethodGet, "/persons", nil))
	assert.Len(t, resp.Header().Get(middleware.RequestIDHeader), 36)

	req := httptest.NewRequest(http.MethodGet, "/persons", nil)
	req.Header.Set(middleware.RequestIDHeader, "trace-123")
	resp = serve(h, req)
	assert.Equal(t, "trace-123", resp.Header().Get(middleware.RequestIDHeader))
}

func TestCORSPreflight(t *testing.T) {
	h := New(config.HTTPServer{AllowedOrigins: []string{"http://localhost:5173"}}, memory.New(), discardLogger())

	req := httptest.NewRequest(http.MethodOptions, "/persons/1", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPut)
	resp := serve(h, req)

	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "http://localhost:5173", resp.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, resp.Header().Get("Access-Control-Allow-Methods"), http.MethodPut)
}

func TestCORSUnknownOrigin(t *testing.T) {
	h := New(config.HTTPServer{AllowedOrigins: []string{"http://localhost:5173"}}, memory.New(), discardLogger())

	req := httptest.NewRequest(http.MethodGet, "/persons", nil)
	req.Header.Set("Origin", "http://evil.example")
	resp := serve(h, req)

	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Empty(t, resp.Header().Get("Access-Control-Allow-Origin"))
}

func TestCRUDFlowOnEveryBackend(t *testing.T) {
	backends := map[string]func(t *testing.T) storage.Storage{
		config.DriverMemory: func(t *testing.T) storage.Storage { return memory.New() },
		config.DriverSQLite: func(t *testing.T) storage.Storage {
			s, err := sqlite.New()
			require.NoError(t, err)
			return s
		},
	}

	for name, open := range backends {
		t.Run(name, func(t *testing.T) {
			store := open(t)
			defer store.Close()
			h := New(config.HTTPServer{}, store, discardLogger())

			post := func(body string) *httptest.ResponseRecorder {
				req := httptest.NewRequest(http.MethodPost, "/persons", bytes.NewBufferString(body))
				req.Header.Set("Content-Type", "application/json")
				return serve(h, req)
			}

			resp := post(`{"name":"Ann","email":"ann@x.com","age":30}`)
			require.Equal(t, http.StatusCreated, resp.Code)
			assert.JSONEq(t, `{"id":1,"name":"Ann","email":"ann@x.com","age":30}`, resp.Body.String())

			resp = post(`{"name":"Bob","email":"bob@x.com","age":40}`)
			require.Equal(t, http.StatusCreated, resp.Code)

			req := httptest.NewRequest(http.MethodPut, "/persons/2", bytes.NewBufferString(`{"name":"Bobby","email":"bob@y.com","age":41}`))
			resp = serve(h, req)
			require.Equal(t, http.StatusOK, resp.Code)
			assert.JSONEq(t, `{"id":2,"name":"Bobby","email":"bob@y.com","age":41}`, resp.Body.String())

			resp = serve(h, httptest.NewRequest(http.MethodDelete, "/persons/1", nil))
			require.Equal(t, http.StatusNoContent, resp.Code)

			resp = post(`{"name":"Cid","email":"cid@x.com","age":50}`)
			require.Equal(t, http.StatusCreated, resp.Code)
			assert.JSONEq(t, `{"id":3,"name":"Cid","email":"cid@x.com","age":50}`, resp.Body.String())

			resp = serve(h, httptest.NewRequest(http.MethodGet, "/persons", nil))
			require.Equal(t, http.StatusOK, resp.Code)
			assert.JSONEq(t, `[
				{"id":2,"name":"Bobby","email":"bob@y.com","age":41},
				{"id":3,"name":"Cid","email":"cid@x.com","age":50}
			]`, resp.Body.String())
		})
	}
}

func TestBrowserFormCreateThroughBasePath(t *testing.T) {
	h := New(config.HTTPServer{
		BasePath:       "/person-management-backend/api",
		AllowedOrigins: []string{"http://localhost:5173"},
	}, memory.New(), discardLogger())

	req := httptest.NewRequest(http.MethodPost, "/person-management-backend/api/persons",
		bytes.NewBufferString(`{"id":"","name":"Ann","email":"ann@x.com","age":"30"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Origin", "http://localhost:5173")
	resp := serve(h, req)

	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	assert.Equal(t, "http://localhost:5173", resp.Header().Get("Access-Control-Allow-Origin"))
	assert.JSONEq(t, `{"id":1,"name":"Ann","email":"ann@x.com","age":30}`, resp.Body.String())
}
