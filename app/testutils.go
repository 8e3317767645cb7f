package main

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/sushihentaime/blogspot/internal/common"
	"github.com/sushihentaime/blogspot/internal/engagementservice"
	"github.com/sushihentaime/blogspot/internal/feedservice"
	"github.com/sushihentaime/blogspot/internal/notificationservice"
	"github.com/sushihentaime/blogspot/internal/postservice"
	"github.com/sushihentaime/blogspot/internal/userservice"
)

type testServer struct {
	*httptest.Server
}

func newTestServer(t *testing.T, h http.Handler) *testServer {
	ts := httptest.NewServer(h)

	t.Cleanup(ts.Close)

	return &testServer{ts}
}

func (ts *testServer) request(t *testing.T, method, path, token string, body any) *http.Response {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		assert.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, ts.URL+path, reader)
	assert.NoError(t, err)

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := ts.Client().Do(req)
	assert.NoError(t, err)

	return res
}

func readResponse(t *testing.T, res *http.Response) (int, envelope) {
	defer res.Body.Close()

	responseBody, err := io.ReadAll(res.Body)
	if err != nil {
		t.Fatal(err)
	}

	var envelope envelope
	err = json.Unmarshal(responseBody, &envelope)
	if err != nil {
		t.Fatal(err)
	}

	return res.StatusCode, envelope
}

func newTestApplication(t *testing.T) (*application, *sql.DB) {
	db := common.TestDB("file://../migrations", t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	rabbitURI := common.TestRabbitMQ(t)
	rabbitmq, err := common.NewMessageBroker(rabbitURI)
	assert.NoError(t, err)
	t.Cleanup(func() { rabbitmq.Close() })

	err = common.SetupUserExchange(rabbitmq)
	assert.NoError(t, err)

	err = common.SetupNotificationExchange(rabbitmq)
	assert.NoError(t, err)

	notificationService := notificationservice.NewNotificationService(db, rabbitmq, logger)
	t.Cleanup(notificationService.Close)

	cfg := &Config{Environment: "test", Version: "test"}
	cfg.Limiter.Enabled = false

	cache := common.NewCache(feedservice.TrendingTTL, 10*time.Minute)
	postService := postservice.NewPostService(db, notificationService)

	app := &application{
		config:              cfg,
		logger:              logger,
		userService:         userservice.NewUserService(db, rabbitmq, notificationService, logger),
		postService:         postService,
		feedService:         feedservice.NewFeedService(postService.Model(), cache),
		engagementService:   engagementservice.NewEngagementService(db, notificationService),
		notificationService: notificationService,
		broker:              rabbitmq,
	}

	return app, db
}
