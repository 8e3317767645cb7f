package main

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthCheck(t *testing.T) {
	app, _ := newTestApplication(t)
	ts := newTestServer(t, app.routes())

	res := ts.request(t, http.MethodGet, "/v1/healthcheck", "", nil)
	status, body := readResponse(t, res)

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "available", body["status"])
}

func TestRegisterAndLogin(t *testing.T) {
	app, _ := newTestApplication(t)
	ts := newTestServer(t, app.routes())

	res := ts.request(t, http.MethodPost, "/v1/users/register", "", map[string]string{
		"username": "alice",
		"email":    "alice@example.com",
		"password": "Password1!",
	})
	status, _ := readResponse(t, res)
	require.Equal(t, http.StatusCreated, status)

	// duplicate username
	res = ts.request(t, http.MethodPost, "/v1/users/register", "", map[string]string{
		"username": "alice",
		"email":    "other@example.com",
		"password": "Password1!",
	})
	status, _ = readResponse(t, res)
	assert.Equal(t, http.StatusUnprocessableEntity, status)

	res = ts.request(t, http.MethodPost, "/v1/users/login", "", map[string]string{
		"username": "alice",
		"password": "Password1!",
	})
	status, body := readResponse(t, res)
	require.Equal(t, http.StatusOK, status)

	token, ok := body["token"].(map[string]any)
	require.True(t, ok)
	assert.NotEmpty(t, token["token"])

	res = ts.request(t, http.MethodPost, "/v1/users/login", "", map[string]string{
		"username": "alice",
		"password": "WrongPassword1!",
	})
	status, _ = readResponse(t, res)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func loginTestUser(t *testing.T, ts *testServer, username string) string {
	res := ts.request(t, http.MethodPost, "/v1/users/register", "", map[string]string{
		"username": username,
		"email":    username + "@example.com",
		"password": "Password1!",
	})
	status, _ := readResponse(t, res)
	require.Equal(t, http.StatusCreated, status)

	res = ts.request(t, http.MethodPost, "/v1/users/login", "", map[string]string{
		"username": username,
		"password": "Password1!",
	})
	status, body := readResponse(t, res)
	require.Equal(t, http.StatusOK, status)

	token := body["token"].(map[string]any)
	return token["token"].(string)
}

func TestCreateAndFetchPost(t *testing.T) {
	app, _ := newTestApplication(t)
	ts := newTestServer(t, app.routes())

	token := loginTestUser(t, ts, "author")

	res := ts.request(t, http.MethodPost, "/v1/posts", token, map[string]any{
		"title":   "Hello, World!",
		"content": "My first post.",
		"tags":    []string{"go", "intro"},
	})
	status, body := readResponse(t, res)
	require.Equal(t, http.StatusCreated, status)

	post := body["post"].(map[string]any)
	assert.Equal(t, "hello-world", post["slug"])

	// anonymous read by slug
	res = ts.request(t, http.MethodGet, "/v1/posts/slug/hello-world", "", nil)
	status, body = readResponse(t, res)
	require.Equal(t, http.StatusOK, status)

	post = body["post"].(map[string]any)
	assert.Equal(t, float64(1), post["view_count"])

	// creating a post requires authentication
	res = ts.request(t, http.MethodPost, "/v1/posts", "", map[string]any{
		"title":   "No Auth",
		"content": "Should fail.",
	})
	status, _ = readResponse(t, res)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestInvalidAuthenticationToken(t *testing.T) {
	app, _ := newTestApplication(t)
	ts := newTestServer(t, app.routes())

	res := ts.request(t, http.MethodGet, "/v1/feed/home", "notavalidtoken26characters!", nil)
	status, _ := readResponse(t, res)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestNotFoundRoute(t *testing.T) {
	app, _ := newTestApplication(t)
	ts := newTestServer(t, app.routes())

	res := ts.request(t, http.MethodGet, "/v1/doesnotexist", "", nil)
	status, _ := readResponse(t, res)
	assert.Equal(t, http.StatusNotFound, status)
}
