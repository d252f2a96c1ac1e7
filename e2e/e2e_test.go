// Package e2e_test exercises the full service against real MongoDB and
// Redis containers. Run with -short to skip when Docker is unavailable.
package e2e_test

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	mongocontainer "github.com/testcontainers/testcontainers-go/modules/mongodb"
	rediscontainer "github.com/testcontainers/testcontainers-go/modules/redis"

	"github.com/anverma/filecab"
	"github.com/anverma/filecab/filesystem"
	filecabhttp "github.com/anverma/filecab/http"
	"github.com/anverma/filecab/mongo"
	"github.com/anverma/filecab/sessionstore"
)

var (
	backendOnce    sync.Once
	backendCleanup func()
	mongoURI       string
	redisAddr      string
	backendErr     error
)

// sharedBackends starts one MongoDB and one Redis container, reused across
// all tests in the package. Termination is stashed in backendCleanup and
// runs from TestMain, so the containers outlive the test that happens to
// start them.
func sharedBackends(t *testing.T) (string, string) {
	t.Helper()

	backendOnce.Do(func() {
		ctx := context.Background()

		mongoC, err := mongocontainer.Run(ctx, "mongo:7")
		if err != nil {
			backendErr = fmt.Errorf("start mongo container: %w", err)
			return
		}
		terminateMongo := func() {
			if err := testcontainers.TerminateContainer(mongoC); err != nil {
				fmt.Fprintf(os.Stderr, "failed to terminate mongo container: %v\n", err)
			}
		}

		mongoURI, err = mongoC.ConnectionString(ctx)
		if err != nil {
			terminateMongo()
			backendErr = fmt.Errorf("mongo connection string: %w", err)
			return
		}

		redisC, err := rediscontainer.Run(ctx, "redis:7-alpine")
		if err != nil {
			terminateMongo()
			backendErr = fmt.Errorf("start redis container: %w", err)
			return
		}
		terminateAll := func() {
			if err := testcontainers.TerminateContainer(redisC); err != nil {
				fmt.Fprintf(os.Stderr, "failed to terminate redis container: %v\n", err)
			}
			terminateMongo()
		}

		redisURL, err := redisC.ConnectionString(ctx)
		if err != nil {
			terminateAll()
			backendErr = fmt.Errorf("redis connection string: %w", err)
			return
		}
		redisAddr = strings.TrimPrefix(redisURL, "redis://")
		backendCleanup = terminateAll
	})

	if backendErr != nil {
		t.Fatalf("shared backends: %v", backendErr)
	}

	return mongoURI, redisAddr
}

type env struct {
	url    string
	client *http.Client
}

// newEnv wires a complete service against the shared containers, isolated
// by a per-test database name and blob directory.
func newEnv(t *testing.T, dbName string) *env {
	t.Helper()

	uri, addr := sharedBackends(t)
	ctx := context.Background()

	store, err := mongo.Connect(ctx, mongo.Config{URI: uri, Database: dbName})
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close(context.Background()) })

	sessions, err := sessionstore.NewRedis(ctx, sessionstore.Config{Addr: addr})
	require.NoError(t, err)
	t.Cleanup(func() { _ = sessions.Close() })

	blobs, err := filesystem.Open(t.TempDir())
	require.NoError(t, err)

	auth := filecab.NewAuthService(store.Users(), sessions)
	users := filecab.NewUserService(store.Users(), nil)
	files := filecab.NewFileService(store.Files(), blobs)
	handler := filecabhttp.NewHandler(auth, users, files, filecabhttp.CORSConfig{})

	srv := newTestServer(t, handler.Router())
	return srv
}

func (e *env) do(t *testing.T, method, path, token string, body any) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, e.url+path, reader)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("X-Token", token)
	}

	resp, err := e.client.Do(req)
	require.NoError(t, err)
	return resp
}

func decodeJSON[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer func() { _ = resp.Body.Close() }()

	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func (e *env) register(t *testing.T, email, password string) filecab.PublicUser {
	t.Helper()

	resp := e.do(t, "POST", "/users", "", map[string]string{"email": email, "password": password})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return decodeJSON[filecab.PublicUser](t, resp)
}

func (e *env) login(t *testing.T, email, password string) string {
	t.Helper()

	req, err := http.NewRequest("GET", e.url+"/connect", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Basic "+base64.StdEncoding.EncodeToString([]byte(email+":"+password)))

	resp, err := e.client.Do(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeJSON[map[string]string](t, resp)
	require.NotEmpty(t, body["token"])
	return body["token"]
}

func (e *env) upload(t *testing.T, token string, body map[string]any) filecab.File {
	t.Helper()

	resp := e.do(t, "POST", "/files", token, body)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return decodeJSON[filecab.File](t, resp)
}

func TestAuthLifecycle(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	e := newEnv(t, "filecab_auth")

	user := e.register(t, "a@x.com", "pw")
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "a@x.com", user.Email)

	// Duplicate registration.
	resp := e.do(t, "POST", "/users", "", map[string]string{"email": "a@x.com", "password": "other"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Already exist", decodeJSON[map[string]string](t, resp)["error"])

	token := e.login(t, "a@x.com", "pw")

	// The session resolves to the registered account.
	resp = e.do(t, "GET", "/users/me", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	me := decodeJSON[filecab.PublicUser](t, resp)
	assert.Equal(t, user.ID, me.ID)
	assert.Equal(t, "a@x.com", me.Email)

	// Wrong password never logs in.
	req, err := http.NewRequest("GET", e.url+"/connect", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Basic "+base64.StdEncoding.EncodeToString([]byte("a@x.com:wrong")))
	wrongResp, err := e.client.Do(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, wrongResp.StatusCode)
	_ = wrongResp.Body.Close()

	// Logout revokes the session for good.
	resp = e.do(t, "GET", "/disconnect", token, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	_ = resp.Body.Close()

	resp = e.do(t, "GET", "/users/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	_ = resp.Body.Close()

	resp = e.do(t, "GET", "/disconnect", token, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	_ = resp.Body.Close()
}

func TestUserEmailUniqueness(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}

	uri, _ := sharedBackends(t)
	ctx := context.Background()

	store, err := mongo.Connect(ctx, mongo.Config{URI: uri, Database: "filecab_unique"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close(context.Background()) })

	users := store.Users()
	_, err = users.Insert(ctx, "dup@x.com", filecab.DigestPassword("pw"))
	require.NoError(t, err)

	// A second insert with the same email hits the unique index directly,
	// closing the window between the registration pre-check and the insert.
	_, err = users.Insert(ctx, "dup@x.com", filecab.DigestPassword("other"))
	assert.ErrorIs(t, err, filecab.ErrInvalidInput)
	assert.EqualError(t, err, "Already exist")
}

func TestUploadAndContentRoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	e := newEnv(t, "filecab_content")

	e.register(t, "a@x.com", "pw")
	token := e.login(t, "a@x.com", "pw")

	file := e.upload(t, token, map[string]any{
		"name": "n.txt",
		"type": "file",
		"data": base64.StdEncoding.EncodeToString([]byte("hi")),
	})
	assert.False(t, file.IsPublic)
	assert.Equal(t, filecab.RootParentID, file.ParentID)

	// Owner reads the exact uploaded bytes back.
	resp := e.do(t, "GET", "/files/"+file.ID+"/data", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, "hi", string(body))
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/plain")

	// Anonymous fetch of a private file is not found.
	resp = e.do(t, "GET", "/files/"+file.ID+"/data", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	_ = resp.Body.Close()

	// Unpublishing an already private file is a no-op update.
	resp = e.do(t, "PUT", "/files/"+file.ID+"/unpublish", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	unpublished := decodeJSON[filecab.File](t, resp)
	assert.False(t, unpublished.IsPublic)
	assert.Equal(t, file.ID, unpublished.ID)

	// Publish opens the content to anonymous readers.
	resp = e.do(t, "PUT", "/files/"+file.ID+"/publish", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	published := decodeJSON[filecab.File](t, resp)
	assert.True(t, published.IsPublic)

	resp = e.do(t, "GET", "/files/"+file.ID+"/data", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err = io.ReadAll(resp.Body)
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, "hi", string(body))

	// A second user cannot see the file itself even though it is public.
	e.register(t, "b@x.com", "pw")
	otherToken := e.login(t, "b@x.com", "pw")
	resp = e.do(t, "GET", "/files/"+file.ID, otherToken, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	_ = resp.Body.Close()
}

func TestFolderHierarchyAndPagination(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	e := newEnv(t, "filecab_folders")

	e.register(t, "a@x.com", "pw")
	token := e.login(t, "a@x.com", "pw")

	folder := e.upload(t, token, map[string]any{"name": "docs", "type": "folder"})
	assert.Equal(t, string(filecab.TypeFolder), string(folder.Type))

	// A folder has no content.
	resp := e.do(t, "GET", "/files/"+folder.ID+"/data", token, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "A folder doesn't have content", decodeJSON[map[string]string](t, resp)["error"])

	plain := e.upload(t, token, map[string]any{
		"name": "leaf.txt", "type": "file", "data": "aGk=",
	})

	// A plain file cannot be a parent.
	resp = e.do(t, "POST", "/files", token, map[string]any{
		"name": "x.txt", "type": "file", "data": "aGk=", "parentId": plain.ID,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Parent is not a folder", decodeJSON[map[string]string](t, resp)["error"])

	// A well-formed but nonexistent parent id.
	resp = e.do(t, "POST", "/files", token, map[string]any{
		"name": "x.txt", "type": "file", "data": "aGk=", "parentId": "507f1f77bcf86cd799439011",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Parent not found", decodeJSON[map[string]string](t, resp)["error"])

	// Fill the folder past one page.
	for i := 0; i < 25; i++ {
		e.upload(t, token, map[string]any{
			"name":     fmt.Sprintf("f%02d.txt", i),
			"type":     "file",
			"data":     "aGk=",
			"parentId": folder.ID,
		})
	}

	resp = e.do(t, "GET", "/files?parentId="+folder.ID, token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	page0 := decodeJSON[[]filecab.File](t, resp)
	assert.Len(t, page0, 20)

	resp = e.do(t, "GET", "/files?parentId="+folder.ID+"&page=1", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	page1 := decodeJSON[[]filecab.File](t, resp)
	assert.Len(t, page1, 5)

	// Pages are disjoint.
	seen := map[string]bool{}
	for _, f := range page0 {
		seen[f.ID] = true
	}
	for _, f := range page1 {
		assert.False(t, seen[f.ID], "file %s appears on both pages", f.ID)
	}

	// Children stay under their exact parent; the root page has only the
	// folder and the loose file.
	resp = e.do(t, "GET", "/files", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	root := decodeJSON[[]filecab.File](t, resp)
	assert.Len(t, root, 2)

	// Listing under a non-folder parent is an empty page, not an error.
	resp = e.do(t, "GET", "/files?parentId="+plain.ID, token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, decodeJSON[[]filecab.File](t, resp))

	// Non-numeric page falls back to the first page.
	resp = e.do(t, "GET", "/files?parentId="+folder.ID+"&page=abc", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decodeJSON[[]filecab.File](t, resp), 20)
}
