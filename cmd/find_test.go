package cmd

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/mj1618/element-inspector/internal/platform"
)

// slowAppium serves pageSource and reports com.app:id/submit as present only
// from the third lookup on.
type slowAppium struct {
	mu      sync.Mutex
	lookups int
}

func (a *slowAppium) Lookups() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.lookups
}

func (a *slowAppium) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	path := r.URL.Path
	reply := func(status int, value any) {
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(map[string]any{"value": value})
	}

	var loc platform.Locator
	if r.Method == http.MethodPost {
		_ = json.NewDecoder(r.Body).Decode(&loc)
	}

	switch {
	case path == "/wd/hub/sessions":
		reply(http.StatusOK, []map[string]any{{"id": "s1"}})
	case strings.HasSuffix(path, "/session/s1/source"):
		reply(http.StatusOK, pageSource)
	case strings.HasSuffix(path, "/session/s1/element"):
		a.mu.Lock()
		a.lookups++
		ready := a.lookups >= 3
		a.mu.Unlock()
		if ready && loc.Value == "com.app:id/submit" {
			reply(http.StatusOK, map[string]string{"element-6066-11e4-a52e-4f735466cecf": "elem-3"})
			return
		}
		reply(http.StatusNotFound, map[string]string{"error": "no such element", "message": "not here"})
	case strings.HasSuffix(path, "/session/s1/elements"):
		refs := []map[string]string{}
		if loc.Value == "android.widget.Button" {
			refs = append(refs, map[string]string{"element-6066-11e4-a52e-4f735466cecf": "elem-3"})
		}
		reply(http.StatusOK, refs)
	default:
		reply(http.StatusInternalServerError, map[string]string{"error": "unknown error", "message": path})
	}
}

func TestFind_WaitsForElement(t *testing.T) {
	appium := &slowAppium{}
	srv := httptest.NewServer(appium)
	defer srv.Close()

	out, _, err := executeWithInput(t, strings.NewReader(""), "find",
		"--appium-url", srv.URL+"/wd/hub",
		"--id", "com.app:id/submit", "--wait", "5s", "--interval", "1ms",
		"--format", "json")
	if err != nil {
		t.Fatalf("find failed: %v", err)
	}

	var got findResult
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("invalid JSON %q: %v", out, err)
	}
	if !got.OK || got.Element != "elem-3" {
		t.Errorf("got %+v, want elem-3", got)
	}
	if n := appium.Lookups(); n != 3 {
		t.Errorf("lookups = %d, want 3", n)
	}
}

func TestFind_WaitTimesOutWithReport(t *testing.T) {
	appium := &slowAppium{}
	srv := httptest.NewServer(appium)
	defer srv.Close()

	_, stderr, err := executeWithInput(t, strings.NewReader(""), "find",
		"--appium-url", srv.URL+"/wd/hub",
		"--accessibility-id", "Submt", "--wait", "30ms", "--interval", "5ms",
		"--color", "never")
	if !errors.Is(err, platform.ErrNoSuchElement) {
		t.Fatalf("err = %v, want %v", err, platform.ErrNoSuchElement)
	}
	if appium.Lookups() < 2 {
		t.Errorf("lookups = %d, want the lookup retried", appium.Lookups())
	}
	if strings.Count(stderr, "NoSuchElementException") != 1 {
		t.Errorf("expected exactly one report on stderr, got:\n%s", stderr)
	}
	if !strings.Contains(stderr, "Submit") {
		t.Errorf("report does not name the Submit button:\n%s", stderr)
	}
}

func TestFind_AllListsMatches(t *testing.T) {
	srv := httptest.NewServer(&slowAppium{})
	defer srv.Close()

	out, _, err := executeWithInput(t, strings.NewReader(""), "find",
		"--appium-url", srv.URL+"/wd/hub",
		"--class-name", "android.widget.Button", "--all", "--format", "json")
	if err != nil {
		t.Fatalf("find --all failed: %v", err)
	}
	var got findAllResult
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("invalid JSON %q: %v", out, err)
	}
	if got.Count != 1 || len(got.Elements) != 1 || got.Elements[0] != "elem-3" {
		t.Errorf("got %+v, want one Button", got)
	}
}

func TestFind_AllEmptyIsInspected(t *testing.T) {
	srv := httptest.NewServer(&slowAppium{})
	defer srv.Close()

	out, stderr, err := executeWithInput(t, strings.NewReader(""), "find",
		"--appium-url", srv.URL+"/wd/hub",
		"--class-name", "android.widget.EditTex", "--all", "--format", "json")
	if err != nil {
		t.Fatalf("an empty result should not fail: %v", err)
	}
	var got findAllResult
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("invalid JSON %q: %v", out, err)
	}
	if got.Count != 0 {
		t.Errorf("count = %d, want 0", got.Count)
	}
	if !strings.Contains(stderr, "android.widget.EditText") {
		t.Errorf("expected a report naming the EditText on stderr, got:\n%s", stderr)
	}
}

func TestFind_WaitAndAllAreExclusive(t *testing.T) {
	_, _, err := executeWithInput(t, strings.NewReader(""), "find",
		"--id", "x", "--wait", "1s", "--all")
	if err == nil {
		t.Error("expected --wait and --all to be rejected together")
	}
}
