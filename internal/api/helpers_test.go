package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
)

// newTestRouter mounts the given handlers on the same routes the server
// registers, without the auth middleware.
func newTestRouter(projects *ProjectHandler, tasks *TaskHandler, generation *GenerationHandler) http.Handler {
	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		if projects != nil {
			r.Get("/projects", projects.List)
			r.Post("/projects", projects.Create)
			r.Get("/projects/{projectID}", projects.Get)
			r.Put("/projects/{projectID}", projects.Rename)
			r.Delete("/projects/{projectID}", projects.Delete)
		}
		if tasks != nil {
			r.Get("/projects/{projectID}/tasks", tasks.List)
			r.Post("/projects/{projectID}/tasks", tasks.Create)
			r.Get("/projects/{projectID}/tasks/{taskID}", tasks.Get)
			r.Put("/projects/{projectID}/tasks/{taskID}", tasks.Edit)
			r.Delete("/projects/{projectID}/tasks/{taskID}", tasks.Delete)
			r.Post("/projects/{projectID}/tasks/{taskID}/transition", tasks.Transition)
			r.Post("/projects/{projectID}/tasks/{taskID}/importance", tasks.ToggleImportance)
			r.Post("/projects/{projectID}/reorder", tasks.Reorder)
		}
		if generation != nil {
			r.Post("/generate/specification", generation.GenerateFromSpec)
			r.Post("/projects/{projectID}/generate", generation.GenerateTasks)
			r.Post("/projects/{projectID}/tasks/{taskID}/decompose", generation.Decompose)
			r.Post("/projects/{projectID}/tasks/{taskID}/query", generation.Query)
			r.Post("/projects/{projectID}/tasks/{taskID}/code", generation.GenerateCode)
			r.Post("/projects/{projectID}/tasks/{taskID}/code/publish", generation.PublishCode)
		}
	})
	return r
}

// doJSON performs a request with an optional JSON body and returns the
// recorded response.
func doJSON(t *testing.T, handler http.Handler, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

// decodeBody unmarshals the recorded JSON response into out.
func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
}
