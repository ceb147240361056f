package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goccy/go-json"

	"github.com/goliatone/go-stepform/internal/logging"
	"github.com/goliatone/go-stepform/pkg/renderers/jsonview"
	"github.com/goliatone/go-stepform/pkg/renderers/vanilla"
	"github.com/goliatone/go-stepform/pkg/schema"
	"github.com/goliatone/go-stepform/pkg/testsupport"
)

func newTestServer(t *testing.T, opts ...Option) (*Server, *httptest.Server, *http.Client) {
	t.Helper()

	html, err := vanilla.New()
	if err != nil {
		t.Fatalf("vanilla renderer: %v", err)
	}
	opts = append([]Option{WithLogger(logging.NewNop())}, opts...)
	srv, err := New(testsupport.TwoStepConfig(), html, jsonview.New(), opts...)
	if err != nil {
		t.Fatalf("new server: %v", err)
	}

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookie jar: %v", err)
	}
	return srv, ts, &http.Client{Jar: jar}
}

func get(t *testing.T, client *http.Client, url string) (int, string) {
	t.Helper()
	resp, err := client.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	return readBody(t, resp)
}

func post(t *testing.T, client *http.Client, url, accept string) (int, string) {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, url, nil)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if accept != "" {
		req.Header.Set("Accept", accept)
	}
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	return readBody(t, resp)
}

func readBody(t *testing.T, resp *http.Response) (int, string) {
	t.Helper()
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp.StatusCode, string(body)
}

func TestServer_NavigationFollowsSessionCookie(t *testing.T) {
	_, ts, client := newTestServer(t)

	status, body := get(t, client, ts.URL+"/")
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	if !strings.Contains(body, "Step 1 of 2") {
		t.Fatalf("expected first step, got:\n%s", body)
	}
	if !strings.Contains(body, `action="/next"`) {
		t.Fatalf("expected interactive next form, got:\n%s", body)
	}

	status, body = post(t, client, ts.URL+"/next", "")
	if status != http.StatusOK {
		t.Fatalf("expected redirect to resolve to 200, got %d", status)
	}
	if !strings.Contains(body, "Step 2 of 2") {
		t.Fatalf("expected second step after next, got:\n%s", body)
	}

	_, body = post(t, client, ts.URL+"/next", "")
	if !strings.Contains(body, "Step 2 of 2") {
		t.Fatalf("next on the last step should stay put, got:\n%s", body)
	}

	_, body = post(t, client, ts.URL+"/steps/0", "")
	if !strings.Contains(body, "Step 1 of 2") {
		t.Fatalf("expected jump to first step, got:\n%s", body)
	}
}

func TestServer_SessionsAreIndependent(t *testing.T) {
	_, ts, first := newTestServer(t)
	jar, _ := cookiejar.New(nil)
	second := &http.Client{Jar: jar}

	post(t, first, ts.URL+"/next", "")

	_, body := get(t, second, ts.URL+"/")
	if !strings.Contains(body, "Step 1 of 2") {
		t.Fatalf("second client should start at step 1, got:\n%s", body)
	}
	_, body = get(t, first, ts.URL+"/")
	if !strings.Contains(body, "Step 2 of 2") {
		t.Fatalf("first client should stay at step 2, got:\n%s", body)
	}
}

func TestServer_InvalidStepIndex(t *testing.T) {
	_, ts, client := newTestServer(t)

	status, _ := post(t, client, ts.URL+"/steps/two", "")
	if status != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", status)
	}
}

func TestServer_OutOfRangeIndexIsClamped(t *testing.T) {
	_, ts, client := newTestServer(t)

	_, body := post(t, client, ts.URL+"/steps/9", "application/json")
	var payload struct {
		View struct {
			Index int `json:"index"`
		} `json:"view"`
	}
	if err := json.Unmarshal([]byte(body), &payload); err != nil {
		t.Fatalf("decode: %v\n%s", err, body)
	}
	if payload.View.Index != 1 {
		t.Fatalf("expected clamped index 1, got %d", payload.View.Index)
	}
}

func TestServer_APIViewAndJSONNavigation(t *testing.T) {
	_, ts, client := newTestServer(t)

	status, body := get(t, client, ts.URL+"/api/view")
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}

	type viewPayload struct {
		Name  string `json:"name"`
		Index int    `json:"index"`
		Count int    `json:"count"`
	}
	var payload struct {
		View  viewPayload `json:"view"`
		Links *struct {
			Next string `json:"next"`
		} `json:"links"`
	}
	if err := json.Unmarshal([]byte(body), &payload); err != nil {
		t.Fatalf("decode: %v\n%s", err, body)
	}
	if diff := testsupport.Diff(viewPayload{Name: "Intake", Index: 0, Count: 2}, payload.View); diff != "" {
		t.Fatalf("unexpected view (-want +got):\n%s", diff)
	}
	if payload.Links == nil || payload.Links.Next != "/next" {
		t.Fatalf("expected next link, got %+v", payload.Links)
	}

	status, body = post(t, client, ts.URL+"/next", "application/json")
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	payload.Links = nil
	if err := json.Unmarshal([]byte(body), &payload); err != nil {
		t.Fatalf("decode: %v\n%s", err, body)
	}
	if payload.View.Index != 1 {
		t.Fatalf("expected index 1 after next, got %d", payload.View.Index)
	}
}

func TestServer_ReloadResetsSessions(t *testing.T) {
	reloaded := testsupport.TwoStepConfig()
	reloaded.Name = "Intake v2"
	reloaded.Steps = append(reloaded.Steps, schema.Step{
		StepID: "extra",
		Name:   "Extra",
		Order:  schema.Int(9),
		Actions: []schema.Action{{
			ActionID: "extra-notes",
			Type:     schema.ActionTypeFieldInput,
			Properties: schema.FieldProperties{
				LogicalName: "extra",
				Label:       "Extra",
				DataType:    schema.DataTypeSingleLineText,
			},
		}},
	})

	srv, ts, client := newTestServer(t, WithReloader(func(context.Context) (schema.FormConfig, error) {
		return reloaded, nil
	}))

	post(t, client, ts.URL+"/next", "")

	status, body := post(t, client, ts.URL+"/admin/reload", "")
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", status, body)
	}
	if !strings.Contains(body, `"steps":3`) {
		t.Fatalf("expected reload summary, got %s", body)
	}
	if srv.Config().Name != "Intake v2" {
		t.Fatalf("expected swapped config, got %q", srv.Config().Name)
	}

	_, body = get(t, client, ts.URL+"/")
	if !strings.Contains(body, "Step 1 of 3") {
		t.Fatalf("expected session reset to first step, got:\n%s", body)
	}
}

func TestServer_ReloadWithSameStepCountResetsSessions(t *testing.T) {
	reloaded := testsupport.TwoStepConfig()
	reloaded.Name = "Intake v2"

	store := NewMemoryStore()
	_, ts, client := newTestServer(t,
		WithStore(store),
		WithSessionIDs(func() string { return "same-count" }),
		WithReloader(func(context.Context) (schema.FormConfig, error) {
			return reloaded, nil
		}),
	)

	post(t, client, ts.URL+"/next", "")
	_, body := get(t, client, ts.URL+"/")
	if !strings.Contains(body, "Step 2 of 2") {
		t.Fatalf("expected second step before reload, got:\n%s", body)
	}
	before, err := store.Load(context.Background(), "same-count")
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if status, body := post(t, client, ts.URL+"/admin/reload", ""); status != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", status, body)
	}

	_, body = get(t, client, ts.URL+"/")
	if !strings.Contains(body, "Step 1 of 2") {
		t.Fatalf("expected session reset to first step, got:\n%s", body)
	}

	after, err := store.Load(context.Background(), "same-count")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if after.State.Index != 0 || after.Revision == before.Revision {
		t.Fatalf("expected reset record under a new revision, before %+v after %+v", before, after)
	}

	post(t, client, ts.URL+"/next", "")
	_, body = get(t, client, ts.URL+"/")
	if !strings.Contains(body, "Step 2 of 2") {
		t.Fatalf("expected navigation to resume after reload, got:\n%s", body)
	}
}

func TestServer_ReloadFailureKeepsConfig(t *testing.T) {
	srv, ts, client := newTestServer(t, WithReloader(func(context.Context) (schema.FormConfig, error) {
		return schema.FormConfig{}, errors.New("boom")
	}))

	status, _ := post(t, client, ts.URL+"/admin/reload", "")
	if status != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", status)
	}
	if srv.Config().Name != "Intake" {
		t.Fatalf("config should be unchanged, got %q", srv.Config().Name)
	}
}

func TestServer_ReloadNotConfigured(t *testing.T) {
	_, ts, client := newTestServer(t)

	status, _ := post(t, client, ts.URL+"/admin/reload", "")
	if status != http.StatusNotImplemented {
		t.Fatalf("expected 501, got %d", status)
	}
}

type failingStore struct {
	*MemoryStore
}

func (failingStore) Ping(context.Context) error {
	return errors.New("down")
}

func TestServer_Healthz(t *testing.T) {
	_, ts, client := newTestServer(t)
	status, body := get(t, client, ts.URL+"/healthz")
	if status != http.StatusOK || !strings.Contains(body, `"ok"`) {
		t.Fatalf("expected healthy, got %d %s", status, body)
	}

	_, ts, client = newTestServer(t, WithStore(failingStore{NewMemoryStore()}))
	status, _ = get(t, client, ts.URL+"/healthz")
	if status != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", status)
	}
}

func TestServer_Metrics(t *testing.T) {
	_, ts, client := newTestServer(t, WithMetrics(NewMetrics()))

	post(t, client, ts.URL+"/next", "")

	status, body := get(t, client, ts.URL+"/metrics")
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	for _, want := range []string{
		`stepform_navigations_total{action="next"} 1`,
		`stepform_render_duration_seconds_count{renderer="vanilla"}`,
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected %q in metrics output:\n%s", want, body)
		}
	}
}

func TestServer_MetricsDisabled(t *testing.T) {
	_, ts, client := newTestServer(t)
	status, _ := get(t, client, ts.URL+"/metrics")
	if status != http.StatusNotFound {
		t.Fatalf("expected 404 without metrics, got %d", status)
	}
}

func TestServer_BasePath(t *testing.T) {
	_, ts, client := newTestServer(t, WithBasePath("/forms/"))

	status, body := get(t, client, ts.URL+"/forms/")
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	if !strings.Contains(body, `action="/forms/next"`) {
		t.Fatalf("expected endpoints under base path, got:\n%s", body)
	}

	_, body = post(t, client, ts.URL+"/forms/next", "")
	if !strings.Contains(body, "Step 2 of 2") {
		t.Fatalf("expected second step, got:\n%s", body)
	}

	status, _ = get(t, client, ts.URL+"/")
	if status != http.StatusNotFound {
		t.Fatalf("expected root to be unrouted, got %d", status)
	}
}

func TestServer_SessionIDs(t *testing.T) {
	store := NewMemoryStore()
	_, ts, client := newTestServer(t, WithStore(store), WithSessionIDs(func() string { return "fixed" }))

	post(t, client, ts.URL+"/next", "")

	record, err := store.Load(context.Background(), "fixed")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if record.State.Index != 1 || record.State.Count != 2 {
		t.Fatalf("unexpected stored state: %+v", record.State)
	}
	if record.Revision == "" {
		t.Fatal("expected stored record to carry the config revision")
	}
}
