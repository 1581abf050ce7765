package api

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"filevault/pkg/config"
	contentMemory "filevault/pkg/content/memory"
	"filevault/pkg/files"
	metadataMemory "filevault/pkg/metadata/memory"
	sessionMemory "filevault/pkg/session/memory"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	meta := metadataMemory.NewMemoryMetadataStore()
	sessions := sessionMemory.NewMemorySessionStore()
	blobs := contentMemory.NewMemoryContentStore()
	filesSvc := files.NewService(meta, blobs, "/tmp/filevault-test")

	cfg := config.ServerConfig{
		Port:              5000,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
		ShutdownTimeout:   30 * time.Second,
	}

	srv := httptest.NewServer(New(cfg, meta, sessions, filesSvc).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(t *testing.T, srv *httptest.Server, method, path string, body any, headers map[string]string) (int, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, srv.URL+path, reader)
	require.NoError(t, err)
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var decoded map[string]any
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &decoded))
	}
	return resp.StatusCode, decoded
}

func basicAuth(email, password string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(email+":"+password))
}

func registerAndConnect(t *testing.T, srv *httptest.Server, email, password string) (userID, token string) {
	t.Helper()

	status, body := doJSON(t, srv, http.MethodPost, "/users", map[string]string{
		"email": email, "password": password,
	}, nil)
	require.Equal(t, http.StatusCreated, status)
	userID = body["id"].(string)

	status, body = doJSON(t, srv, http.MethodGet, "/connect", nil, map[string]string{
		"Authorization": basicAuth(email, password),
	})
	require.Equal(t, http.StatusOK, status)
	token = body["token"].(string)
	require.NotEmpty(t, token)
	return userID, token
}

func TestUserLifecycle(t *testing.T) {
	srv := newTestServer(t)

	// Register
	status, body := doJSON(t, srv, http.MethodPost, "/users", map[string]string{
		"email": "bob@dylan.com", "password": "toto1234!",
	}, nil)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "bob@dylan.com", body["email"])
	assert.NotEmpty(t, body["id"])
	assert.NotContains(t, body, "password")

	// Duplicate registration
	status, body = doJSON(t, srv, http.MethodPost, "/users", map[string]string{
		"email": "bob@dylan.com", "password": "other",
	}, nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Already exist", body["error"])

	// Connect
	status, body = doJSON(t, srv, http.MethodGet, "/connect", nil, map[string]string{
		"Authorization": basicAuth("bob@dylan.com", "toto1234!"),
	})
	require.Equal(t, http.StatusOK, status)
	token := body["token"].(string)
	require.NotEmpty(t, token)

	// Who am I
	status, body = doJSON(t, srv, http.MethodGet, "/users/me", nil, map[string]string{
		"X-Token": token,
	})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "bob@dylan.com", body["email"])

	// Disconnect
	req, err := http.NewRequest(http.MethodGet, srv.URL+"/disconnect", nil)
	require.NoError(t, err)
	req.Header.Set("X-Token", token)
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	// Token is dead now
	status, body = doJSON(t, srv, http.MethodGet, "/users/me", nil, map[string]string{
		"X-Token": token,
	})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "Unauthorized", body["error"])
}

func TestCreateUser_Validation(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name    string
		body    map[string]string
		wantErr string
	}{
		{"missing email", map[string]string{"password": "pw"}, "Missing email"},
		{"missing password", map[string]string{"email": "a@b.c"}, "Missing password"},
		{"empty body", map[string]string{}, "Missing email"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := doJSON(t, srv, http.MethodPost, "/users", tt.body, nil)
			assert.Equal(t, http.StatusBadRequest, status)
			assert.Equal(t, tt.wantErr, body["error"])
		})
	}
}

func TestConnect_Unauthorized(t *testing.T) {
	srv := newTestServer(t)
	registerAndConnect(t, srv, "bob@dylan.com", "toto1234!")

	tests := []struct {
		name   string
		header string
	}{
		{"no header", ""},
		{"not basic", "Bearer abc"},
		{"bad base64", "Basic %%%"},
		{"unknown user", basicAuth("nobody@dylan.com", "toto1234!")},
		{"wrong password", basicAuth("bob@dylan.com", "nope")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			headers := map[string]string{}
			if tt.header != "" {
				headers["Authorization"] = tt.header
			}
			status, body := doJSON(t, srv, http.MethodGet, "/connect", nil, headers)
			assert.Equal(t, http.StatusUnauthorized, status)
			assert.Equal(t, "Unauthorized", body["error"])
		})
	}
}

func TestDisconnect_UnknownToken(t *testing.T) {
	srv := newTestServer(t)

	status, body := doJSON(t, srv, http.MethodGet, "/disconnect", nil, map[string]string{
		"X-Token": "never-issued",
	})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "Unauthorized", body["error"])
}

func TestStatusAndStats(t *testing.T) {
	srv := newTestServer(t)

	// Status reads are idempotent
	for i := 0; i < 3; i++ {
		status, body := doJSON(t, srv, http.MethodGet, "/status", nil, nil)
		require.Equal(t, http.StatusOK, status)
		assert.Equal(t, true, body["redis"])
		assert.Equal(t, true, body["db"])
	}

	status, body := doJSON(t, srv, http.MethodGet, "/stats", nil, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(0), body["users"])
	assert.Equal(t, float64(0), body["files"])

	_, token := registerAndConnect(t, srv, "bob@dylan.com", "toto1234!")
	uploadFolder(t, srv, token, "documents")

	status, body = doJSON(t, srv, http.MethodGet, "/stats", nil, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(1), body["users"])
	assert.Equal(t, float64(1), body["files"])

	// Stats reads do not mutate the counts
	status, body = doJSON(t, srv, http.MethodGet, "/stats", nil, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(1), body["users"])
	assert.Equal(t, float64(1), body["files"])
}

func uploadFolder(t *testing.T, srv *httptest.Server, token, name string) string {
	t.Helper()

	status, body := doJSON(t, srv, http.MethodPost, "/files", map[string]any{
		"name": name, "type": "folder",
	}, map[string]string{"X-Token": token})
	require.Equal(t, http.StatusCreated, status)
	return body["id"].(string)
}

func TestUpload_RequiresToken(t *testing.T) {
	srv := newTestServer(t)

	status, body := doJSON(t, srv, http.MethodPost, "/files", map[string]any{
		"name": "x", "type": "folder",
	}, nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "Unauthorized", body["error"])
}

func TestUpload_File(t *testing.T) {
	srv := newTestServer(t)
	userID, token := registerAndConnect(t, srv, "bob@dylan.com", "toto1234!")

	status, body := doJSON(t, srv, http.MethodPost, "/files", map[string]any{
		"name": "myText.txt",
		"type": "file",
		"data": base64.StdEncoding.EncodeToString([]byte("Hello Webstack!\n")),
	}, map[string]string{"X-Token": token})

	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, userID, body["userId"])
	assert.Equal(t, "myText.txt", body["name"])
	assert.Equal(t, "file", body["type"])
	assert.Equal(t, false, body["isPublic"])
	assert.Equal(t, "0", body["parentId"])
	assert.NotEmpty(t, body["id"])
	assert.NotContains(t, body, "localPath")
	assert.NotContains(t, body, "data")
}

func TestUpload_NestedUnderFolder(t *testing.T) {
	srv := newTestServer(t)
	_, token := registerAndConnect(t, srv, "bob@dylan.com", "toto1234!")

	folderID := uploadFolder(t, srv, token, "images")

	status, body := doJSON(t, srv, http.MethodPost, "/files", map[string]any{
		"name":     "cat.png",
		"type":     "image",
		"data":     base64.StdEncoding.EncodeToString([]byte("png bytes")),
		"parentId": folderID,
		"isPublic": true,
	}, map[string]string{"X-Token": token})

	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, folderID, body["parentId"])
	assert.Equal(t, true, body["isPublic"])
}

func TestUpload_Validation(t *testing.T) {
	srv := newTestServer(t)
	_, token := registerAndConnect(t, srv, "bob@dylan.com", "toto1234!")

	fileID := func() string {
		status, body := doJSON(t, srv, http.MethodPost, "/files", map[string]any{
			"name": "plain.txt", "type": "file",
			"data": base64.StdEncoding.EncodeToString([]byte("x")),
		}, map[string]string{"X-Token": token})
		require.Equal(t, http.StatusCreated, status)
		return body["id"].(string)
	}()

	tests := []struct {
		name     string
		body     map[string]any
		wantCode int
		wantErr  string
	}{
		{
			"missing name",
			map[string]any{"type": "file", "data": "aGk="},
			http.StatusBadRequest, "Missing name",
		},
		{
			"missing type",
			map[string]any{"name": "x", "data": "aGk="},
			http.StatusBadRequest, "Missing type",
		},
		{
			"invalid type",
			map[string]any{"name": "x", "type": "archive", "data": "aGk="},
			http.StatusBadRequest, "Missing type",
		},
		{
			"missing data for file",
			map[string]any{"name": "x", "type": "file"},
			http.StatusBadRequest, "Missing data",
		},
		{
			"parent not found",
			map[string]any{"name": "x", "type": "folder", "parentId": "ffffffffffffffffffffffff"},
			http.StatusBadRequest, "Parent not found",
		},
		{
			"parent is a file",
			map[string]any{"name": "x", "type": "folder", "parentId": fileID},
			http.StatusBadRequest, "Parent is not a folder",
		},
		{
			"numeric parent not found",
			map[string]any{"name": "x", "type": "folder", "parentId": 7},
			http.StatusBadRequest, "Parent not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := doJSON(t, srv, http.MethodPost, "/files", tt.body, map[string]string{"X-Token": token})
			assert.Equal(t, tt.wantCode, status)
			assert.Equal(t, tt.wantErr, body["error"])
		})
	}
}

// Clients following the original wire format send the root parent as the
// JSON number 0. That must land at the root, not be rejected.
func TestUpload_NumericRootParent(t *testing.T) {
	srv := newTestServer(t)
	_, token := registerAndConnect(t, srv, "bob@dylan.com", "toto1234!")

	status, body := doJSON(t, srv, http.MethodPost, "/files", map[string]any{
		"name": "docs", "type": "folder", "parentId": 0,
	}, map[string]string{"X-Token": token})

	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "0", body["parentId"])
}

func TestRoutes_MethodNotAllowed(t *testing.T) {
	srv := newTestServer(t)

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/files"},
		{http.MethodPost, "/status"},
		{http.MethodDelete, "/users"},
	} {
		t.Run(fmt.Sprintf("%s %s", tc.method, tc.path), func(t *testing.T) {
			req, err := http.NewRequest(tc.method, srv.URL+tc.path, nil)
			require.NoError(t, err)
			resp, err := srv.Client().Do(req)
			require.NoError(t, err)
			resp.Body.Close()
			assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
		})
	}
}
