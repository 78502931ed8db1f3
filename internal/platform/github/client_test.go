package github

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taipo/kanban-api/internal/config"
)

func testClientConfig() config.GitHubConfig {
	return config.GitHubConfig{
		Token:      "test-token",
		Owner:      "acme",
		Repository: "generated-code",
		Branch:     "main",
	}
}

func TestNewClientNotConfigured(t *testing.T) {
	t.Parallel()

	_, err := NewClient(config.GitHubConfig{}, nil)
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestNewClientDefaultsBranch(t *testing.T) {
	t.Parallel()

	cfg := testClientConfig()
	cfg.Branch = ""
	client, err := NewClient(cfg, nil)
	require.NoError(t, err)
	assert.Equal(t, "main", client.branch)
}

func TestPublishFileCreate(t *testing.T) {
	t.Parallel()

	var putBody contentsRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		assert.Equal(t, "application/vnd.github+json", r.Header.Get("Accept"))
		assert.Contains(t, r.URL.Path, "/repos/acme/generated-code/contents/generated/task_3.txt")

		switch r.Method {
		case http.MethodGet:
			// File does not exist yet.
			w.WriteHeader(http.StatusNotFound)
		case http.MethodPut:
			require.NoError(t, json.NewDecoder(r.Body).Decode(&putBody))
			w.WriteHeader(http.StatusCreated)
		default:
			t.Errorf("unexpected method %s", r.Method)
		}
	}))
	defer server.Close()

	client, err := NewClient(testClientConfig(), nil)
	require.NoError(t, err)
	client = client.WithBaseURL(server.URL)

	err = client.PublishFile(context.Background(), "generated/task_3.txt", "Add generated code for task 3: Login", "func Login() {}")
	require.NoError(t, err)

	assert.Equal(t, "Add generated code for task 3: Login", putBody.Message)
	assert.Equal(t, "main", putBody.Branch)
	assert.Empty(t, putBody.SHA, "new files are created without a blob SHA")

	decoded, err := base64.StdEncoding.DecodeString(putBody.Content)
	require.NoError(t, err)
	assert.Equal(t, "func Login() {}", string(decoded))
}

func TestPublishFileUpdateSendsSHA(t *testing.T) {
	t.Parallel()

	var putBody contentsRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			w.WriteHeader(http.StatusOK)
			_ = json.NewEncoder(w).Encode(contentsResponse{SHA: "abc123"})
		case http.MethodPut:
			require.NoError(t, json.NewDecoder(r.Body).Decode(&putBody))
			w.WriteHeader(http.StatusOK)
		}
	}))
	defer server.Close()

	client, err := NewClient(testClientConfig(), nil)
	require.NoError(t, err)
	client = client.WithBaseURL(server.URL)

	err = client.PublishFile(context.Background(), "generated/task_3.txt", "Update", "new content")
	require.NoError(t, err)
	assert.Equal(t, "abc123", putBody.SHA, "updates must carry the existing blob SHA")
}

func TestPublishFileAPIError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			w.WriteHeader(http.StatusNotFound)
		case http.MethodPut:
			w.WriteHeader(http.StatusUnprocessableEntity)
			_, _ = w.Write([]byte(`{"message":"Invalid request"}`))
		}
	}))
	defer server.Close()

	client, err := NewClient(testClientConfig(), nil)
	require.NoError(t, err)
	client = client.WithBaseURL(server.URL)

	err = client.PublishFile(context.Background(), "generated/task_3.txt", "Add", "content")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "422")
}

func TestPublishFileLookupFailure(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	client, err := NewClient(testClientConfig(), nil)
	require.NoError(t, err)
	client = client.WithBaseURL(server.URL)

	err = client.PublishFile(context.Background(), "generated/task_3.txt", "Add", "content")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
}
