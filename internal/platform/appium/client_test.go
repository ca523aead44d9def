package appium

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mj1618/element-inspector/internal/platform"
)

const pageSource = `<?xml version="1.0" encoding="UTF-8"?>
<hierarchy rotation="0">
  <android.widget.FrameLayout index="0" package="io.appium.android.apis" class="android.widget.FrameLayout">
    <android.widget.TextView index="0" text="Accessibility" resource-id="android:id/text1"/>
  </android.widget.FrameLayout>
</hierarchy>`

// mockAppiumServer answers the handful of WebDriver endpoints the client uses.
func mockAppiumServer(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		path := r.URL.Path

		if path == "/wd/hub/sessions" {
			json.NewEncoder(w).Encode(map[string]any{
				"value": []map[string]any{{"id": "abc123", "capabilities": map[string]any{}}},
			})
			return
		}

		if !strings.HasPrefix(path, "/wd/hub/session/abc123/") {
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]any{
				"value": map[string]any{"error": "invalid session id", "message": "session is gone"},
			})
			return
		}

		switch {
		case strings.HasSuffix(path, "/source"):
			json.NewEncoder(w).Encode(map[string]any{"value": pageSource})
		case strings.HasSuffix(path, "/screenshot"):
			json.NewEncoder(w).Encode(map[string]any{
				"value": base64.StdEncoding.EncodeToString([]byte("fake-png-data")),
			})
		case strings.HasSuffix(path, "/element") && r.Method == http.MethodPost:
			var loc platform.Locator
			if err := json.NewDecoder(r.Body).Decode(&loc); err != nil {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			if loc.Value == "Accessibility" {
				json.NewEncoder(w).Encode(map[string]any{
					"value": map[string]any{w3cElementKey: "elem-1"},
				})
				return
			}
			if loc.Value == "legacy" {
				json.NewEncoder(w).Encode(map[string]any{
					"value": map[string]any{legacyElementKey: "elem-2"},
				})
				return
			}
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]any{
				"value": map[string]any{
					"error":   "no such element",
					"message": "An element could not be located on the page using the given search parameters.",
				},
			})
		case strings.HasSuffix(path, "/elements") && r.Method == http.MethodPost:
			var loc platform.Locator
			if err := json.NewDecoder(r.Body).Decode(&loc); err != nil {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			refs := []map[string]string{}
			if loc.Value == "android.widget.TextView" {
				refs = append(refs,
					map[string]string{w3cElementKey: "elem-1"},
					map[string]string{legacyElementKey: "elem-2"},
				)
			}
			json.NewEncoder(w).Encode(map[string]any{"value": refs})
		default:
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(map[string]any{
				"value": map[string]any{"error": "unknown error", "message": "boom"},
			})
		}
	}))
}

func TestClient_SnapshotDiscoversSession(t *testing.T) {
	srv := mockAppiumServer(t)
	defer srv.Close()

	c := New(srv.URL + "/wd/hub/")
	got, err := c.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, pageSource, got)

	id, err := c.SessionID(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "abc123", id)
}

func TestClient_Screenshot(t *testing.T) {
	srv := mockAppiumServer(t)
	defer srv.Close()

	c := New(srv.URL+"/wd/hub", WithSession("abc123"))
	data, err := c.Screenshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []byte("fake-png-data"), data)
}

func TestClient_FindElement(t *testing.T) {
	srv := mockAppiumServer(t)
	defer srv.Close()
	c := New(srv.URL+"/wd/hub", WithSession("abc123"), WithHTTPClient(srv.Client()))
	ctx := context.Background()

	id, err := c.FindElement(ctx, platform.Locator{Using: "accessibility id", Value: "Accessibility"})
	require.NoError(t, err)
	assert.Equal(t, "elem-1", id)

	id, err = c.FindElement(ctx, platform.Locator{Using: "id", Value: "legacy"})
	require.NoError(t, err)
	assert.Equal(t, "elem-2", id)

	_, err = c.FindElement(ctx, platform.Locator{Using: "xpath", Value: "//*[@text='Aksesibiliti']"})
	require.Error(t, err)
	assert.ErrorIs(t, err, platform.ErrNoSuchElement)
	assert.Contains(t, err.Error(), "By.xpath: //*[@text='Aksesibiliti']")
}

func TestClient_FindElements(t *testing.T) {
	srv := mockAppiumServer(t)
	defer srv.Close()
	c := New(srv.URL+"/wd/hub", WithSession("abc123"), WithHTTPClient(srv.Client()))
	ctx := context.Background()

	ids, err := c.FindElements(ctx, platform.Locator{Using: "class name", Value: "android.widget.TextView"})
	require.NoError(t, err)
	assert.Equal(t, []string{"elem-1", "elem-2"}, ids)

	ids, err = c.FindElements(ctx, platform.Locator{Using: "class name", Value: "android.widget.Switch"})
	require.NoError(t, err)
	assert.Empty(t, ids)

	_, err = New(srv.URL+"/wd/hub", WithSession("stale"), WithHTTPClient(srv.Client())).
		FindElements(ctx, platform.Locator{Using: "id", Value: "x"})
	assert.ErrorIs(t, err, platform.ErrNoSession)
}

func TestClient_InvalidSession(t *testing.T) {
	srv := mockAppiumServer(t)
	defer srv.Close()

	c := New(srv.URL+"/wd/hub", WithSession("stale"))
	_, err := c.Snapshot(context.Background())
	assert.ErrorIs(t, err, platform.ErrNoSession)
}

func TestClient_NoSessions(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"value": []any{}})
	}))
	defer srv.Close()

	_, err := New(srv.URL).Snapshot(context.Background())
	assert.ErrorIs(t, err, platform.ErrNoSession)
}

func TestClient_ServerError(t *testing.T) {
	srv := mockAppiumServer(t)
	defer srv.Close()

	c := New(srv.URL+"/wd/hub", WithSession("abc123"))
	err := c.sessionCall(context.Background(), http.MethodGet, "/window/rect", nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown error (HTTP 500): boom")
}

func TestProviderRegistration(t *testing.T) {
	p, err := platform.NewProvider(platform.ProviderOptions{URL: "http://127.0.0.1:1", Session: "s"})
	require.NoError(t, err)
	c, ok := p.Source.(*Client)
	require.True(t, ok, "source should be the appium client")
	assert.Equal(t, "s", c.sessionID)
	assert.Same(t, c, p.Finder)
	assert.Same(t, c, p.Screenshotter)
}
