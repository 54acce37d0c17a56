package monitor

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"dropbox-comments/core/loader"
	"dropbox-comments/feature/monitor/mocks"
	"dropbox-comments/feature/scheduler"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupTestApp(t *testing.T) (*fiber.App, *mocks.Controller, *Monitor) {
	t.Helper()
	app := fiber.New()
	ctrl := new(mocks.Controller)
	m := New(ctrl, zap.NewNop(), WithLocation(time.UTC))

	manager := loader.NewManager()
	manager.Register(NewFeature(m))
	require.NoError(t, manager.LoadAll(app))
	return app, ctrl, m
}

func decode(t *testing.T, r io.Reader) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.NewDecoder(r).Decode(&body))
	return body
}

func TestHandleStatus(t *testing.T) {
	app, ctrl, m := setupTestApp(t)
	last := time.Now().UTC().Truncate(time.Second)
	ctrl.On("Status").Return(scheduler.StatusIdle)
	ctrl.On("Interval").Return(15)
	ctrl.On("LastSync").Return(last, true)
	m.observe(scheduler.Success{CycleID: "c1", Processed: 2, Unmatched: 1, FinishedAt: last})

	resp, err := app.Test(httptest.NewRequest("GET", "/sync/status", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	body := decode(t, resp.Body)
	assert.Equal(t, "idle", body["status"])
	assert.Equal(t, float64(15), body["interval_minutes"])
	assert.Equal(t, float64(2), body["synced_today"])
	assert.Equal(t, last.Format(time.RFC3339), body["last_sync"])
	result, ok := body["last_result"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "success", result["status"])
	assert.Equal(t, "c1", result["cycle_id"])
}

func TestHandleStatus_NeverSynced(t *testing.T) {
	app, ctrl, _ := setupTestApp(t)
	ctrl.On("Status").Return(scheduler.StatusIdle)
	ctrl.On("Interval").Return(5)
	ctrl.On("LastSync").Return(time.Time{}, false)

	resp, err := app.Test(httptest.NewRequest("GET", "/sync/status", nil))
	require.NoError(t, err)

	body := decode(t, resp.Body)
	assert.NotContains(t, body, "last_sync")
	assert.NotContains(t, body, "last_result")
}

func TestHandleTrigger(t *testing.T) {
	tests := []struct {
		name     string
		accepted bool
		want     int
	}{
		{"accepted", true, fiber.StatusAccepted},
		{"already running", false, fiber.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app, ctrl, _ := setupTestApp(t)
			ctrl.On("TriggerNow").Return(tt.accepted)
			ctrl.On("Status").Return(scheduler.StatusSyncing).Maybe()

			resp, err := app.Test(httptest.NewRequest("POST", "/sync/trigger", nil))
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.StatusCode)
			ctrl.AssertCalled(t, "TriggerNow")
		})
	}
}

func TestHandleSetInterval(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		setup   func(*mocks.Controller)
		want    int
		wantKey string
	}{
		{
			name:    "valid",
			body:    `{"minutes":10}`,
			setup:   func(c *mocks.Controller) { c.On("SetInterval", 10).Return(nil) },
			want:    fiber.StatusOK,
			wantKey: "interval_minutes",
		},
		{
			name: "not allowed",
			body: `{"minutes":7}`,
			setup: func(c *mocks.Controller) {
				c.On("SetInterval", 7).Return(fmt.Errorf("%w: 7", scheduler.ErrInvalidInterval))
			},
			want:    fiber.StatusBadRequest,
			wantKey: "allowed",
		},
		{
			name:    "malformed body",
			body:    `{"minutes":`,
			setup:   func(c *mocks.Controller) {},
			want:    fiber.StatusBadRequest,
			wantKey: "error",
		},
		{
			name:    "unexpected error",
			body:    `{"minutes":5}`,
			setup:   func(c *mocks.Controller) { c.On("SetInterval", 5).Return(errors.New("boom")) },
			want:    fiber.StatusInternalServerError,
			wantKey: "error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app, ctrl, _ := setupTestApp(t)
			tt.setup(ctrl)

			req := httptest.NewRequest("PUT", "/sync/interval", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.StatusCode)
			assert.Contains(t, decode(t, resp.Body), tt.wantKey)
		})
	}
}

func TestHandleReload(t *testing.T) {
	app, ctrl, _ := setupTestApp(t)
	ctrl.On("ReloadCredentials").Return()

	resp, err := app.Test(httptest.NewRequest("POST", "/sync/reload", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	ctrl.AssertCalled(t, "ReloadCredentials")
}
