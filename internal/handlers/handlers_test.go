package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/hudulabs/hudumcp/internal/hudu"
	"github.com/hudulabs/hudumcp/internal/router"
)

// fakeAPI implements the hudu.API interface for testing
type fakeAPI struct {
	listBody  map[string]interface{}
	listErr   error
	getBody   map[string]interface{}
	getErr    error
	lastPath  string
	lastQuery url.Values
	lastID    int
}

func (f *fakeAPI) List(ctx context.Context, path string, query url.Values) (map[string]interface{}, error) {
	f.lastPath = path
	f.lastQuery = query
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.listBody, nil
}

func (f *fakeAPI) Get(ctx context.Context, path string, id int) (map[string]interface{}, error) {
	f.lastPath = path
	f.lastID = id
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.getBody, nil
}

func (f *fakeAPI) Ping(ctx context.Context) error {
	return nil
}

func newRegisteredRouter(t *testing.T, api hudu.API) *router.Router {
	t.Helper()
	r := router.New(nil, nil)
	if err := Register(r, api); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	return r
}

func TestRegisterExposesFullToolSurface(t *testing.T) {
	r := newRegisteredRouter(t, &fakeAPI{})

	expected := []string{
		"get_companies", "get_company_details",
		"get_articles", "get_article_details",
		"get_assets", "get_asset_details",
		"get_asset_passwords", "get_asset_layouts",
		"get_users", "get_networks", "get_procedures",
		"get_folders", "get_activity_logs",
	}

	registered := make(map[string]bool)
	for _, tool := range r.Tools() {
		registered[tool.Name] = true
		if tool.Description == "" {
			t.Errorf("Tool %q has no description", tool.Name)
		}
	}

	for _, name := range expected {
		if !registered[name] {
			t.Errorf("Expected tool %q to be registered", name)
		}
	}
	if len(registered) != len(expected) {
		t.Errorf("Expected %d tools, got %d", len(expected), len(registered))
	}
}

func TestListHandlerShapesCollectionResponse(t *testing.T) {
	api := &fakeAPI{
		listBody: map[string]interface{}{
			"companies": []interface{}{
				map[string]interface{}{"id": float64(1), "name": "Acme"},
				map[string]interface{}{"id": float64(2), "name": "Globex"},
			},
		},
	}
	res := resource{singular: "company", collection: "companies", path: "/companies"}

	data, err := res.listHandler(api)(context.Background(), map[string]interface{}{
		"page": 2, "page_size": 25,
	})
	if err != nil {
		t.Fatalf("listHandler returned error: %v", err)
	}

	if api.lastPath != "/companies" {
		t.Errorf("Expected path /companies, got %s", api.lastPath)
	}
	items, ok := data["companies"].([]interface{})
	if !ok || len(items) != 2 {
		t.Fatalf("Expected 2 companies in response, got %v", data["companies"])
	}

	meta, ok := data["meta"].(map[string]interface{})
	if !ok {
		t.Fatal("Expected meta object in response")
	}
	if meta["current_page"] != 2 || meta["page_size"] != 25 || meta["count"] != 2 {
		t.Errorf("Unexpected meta: %v", meta)
	}

	summary, _ := data["summary"].(string)
	if !strings.Contains(summary, "2") || !strings.Contains(summary, "companies") {
		t.Errorf("Expected summary naming the count and collection, got %q", summary)
	}
}

func TestGetHandlerUnwrapsSingularRecord(t *testing.T) {
	api := &fakeAPI{
		getBody: map[string]interface{}{
			"company": map[string]interface{}{"id": float64(42), "name": "Acme"},
		},
	}
	res := resource{singular: "company", collection: "companies", path: "/companies"}

	data, err := res.getHandler(api)(context.Background(), map[string]interface{}{"id": 42})
	if err != nil {
		t.Fatalf("getHandler returned error: %v", err)
	}

	if api.lastID != 42 {
		t.Errorf("Expected API called with id 42, got %d", api.lastID)
	}
	record, ok := data["company"].(map[string]interface{})
	if !ok || record["name"] != "Acme" {
		t.Errorf("Expected unwrapped company record, got %v", data["company"])
	}
}

func TestGetHandlerFallsBackToBareRecord(t *testing.T) {
	api := &fakeAPI{
		getBody: map[string]interface{}{"id": float64(7), "name": "Bare"},
	}
	res := resource{singular: "company", collection: "companies", path: "/companies"}

	data, err := res.getHandler(api)(context.Background(), map[string]interface{}{"id": 7})
	if err != nil {
		t.Fatalf("getHandler returned error: %v", err)
	}
	record, ok := data["company"].(map[string]interface{})
	if !ok || record["name"] != "Bare" {
		t.Errorf("Expected bare body used as record, got %v", data["company"])
	}
}

func TestPasswordListingMasksSecrets(t *testing.T) {
	api := &fakeAPI{
		listBody: map[string]interface{}{
			"asset_passwords": []interface{}{
				map[string]interface{}{
					"id":         float64(1),
					"name":       "server root",
					"password":   "hunter2",
					"otp_secret": "JBSWY3DP",
				},
				map[string]interface{}{
					"id":       float64(2),
					"name":     "switch admin",
					"password": "s3cret",
				},
			},
		},
	}
	r := newRegisteredRouter(t, api)

	result, err := r.Call(context.Background(), "get_asset_passwords", nil)
	if err != nil {
		t.Fatalf("Call returned error: %v", err)
	}

	text := result.Text()
	for _, secret := range []string{"hunter2", "s3cret", "JBSWY3DP"} {
		if strings.Contains(text, secret) {
			t.Errorf("Secret value %q leaked into the reply", secret)
		}
	}
	if !strings.Contains(text, SecretMask) {
		t.Error("Expected mask string in the reply")
	}
}

func TestMaskPasswordSecretsSetsPasswordUnconditionally(t *testing.T) {
	items := []interface{}{
		map[string]interface{}{"id": float64(1), "name": "no password field"},
	}
	masked := maskPasswordSecrets(items)

	record := masked[0].(map[string]interface{})
	if record["password"] != SecretMask {
		t.Errorf("Expected password field forced to mask, got %v", record["password"])
	}
	if _, present := record["otp_secret"]; present {
		t.Error("Expected absent otp_secret to stay absent")
	}
}

func TestPasswordListing401BecomesGuidanceReply(t *testing.T) {
	api := &fakeAPI{
		listErr: &hudu.StatusError{Code: http.StatusUnauthorized},
	}
	r := newRegisteredRouter(t, api)

	result, err := r.Call(context.Background(), "get_asset_passwords", nil)
	if err != nil {
		t.Fatalf("Expected 401 to be translated into a successful reply, got: %v", err)
	}

	text := result.Text()
	if !strings.Contains(text, "\"asset_passwords\": []") {
		t.Errorf("Expected empty password list in reply, got: %s", text)
	}
	if !strings.Contains(text, "password access") && !strings.Contains(text, "Password Access") {
		t.Errorf("Expected guidance message in reply, got: %s", text)
	}
}

func TestPasswordListingOtherErrorsPropagate(t *testing.T) {
	api := &fakeAPI{
		listErr: &hudu.StatusError{Code: http.StatusInternalServerError},
	}
	r := newRegisteredRouter(t, api)

	_, err := r.Call(context.Background(), "get_asset_passwords", nil)
	if err == nil {
		t.Fatal("Expected non-401 failure to propagate as an error")
	}
	toolErr, ok := err.(*router.ToolError)
	if !ok || toolErr.Kind != router.KindInternal {
		t.Errorf("Expected internal error kind, got %v", err)
	}
}

func TestNonStatusErrorPropagates(t *testing.T) {
	api := &fakeAPI{listErr: errors.New("dial tcp: connection refused")}
	r := newRegisteredRouter(t, api)

	_, err := r.Call(context.Background(), "get_companies", nil)
	if err == nil {
		t.Fatal("Expected network failure to propagate")
	}
}

func TestArticleListingTrimsContentToPreview(t *testing.T) {
	long := strings.Repeat("lorem ipsum ", 200)
	api := &fakeAPI{
		listBody: map[string]interface{}{
			"articles": []interface{}{
				map[string]interface{}{"id": float64(1), "name": "Runbook", "content": long},
				map[string]interface{}{"id": float64(2), "name": "Short", "content": "brief"},
			},
		},
	}
	r := newRegisteredRouter(t, api)

	result, err := r.Call(context.Background(), "get_articles", nil)
	if err != nil {
		t.Fatalf("Call returned error: %v", err)
	}

	if strings.Contains(result.Text(), long) {
		t.Error("Expected long article content to be trimmed in list results")
	}
	if !strings.Contains(result.Text(), "brief") {
		t.Error("Expected short article content to pass through unchanged")
	}
}

func TestEndToEndPageSizeClamp(t *testing.T) {
	api := &fakeAPI{
		listBody: map[string]interface{}{"companies": []interface{}{}},
	}
	r := newRegisteredRouter(t, api)

	_, err := r.Call(context.Background(), "get_companies", map[string]interface{}{
		"page_size": float64(250),
	})
	if err != nil {
		t.Fatalf("Call returned error: %v", err)
	}

	if got := api.lastQuery.Get("page_size"); got != "100" {
		t.Errorf("Expected collaborator called with page_size=100, got %q", got)
	}
}

func TestSchemaViolationOnDetailTool(t *testing.T) {
	r := newRegisteredRouter(t, &fakeAPI{})

	_, err := r.Call(context.Background(), "get_company_details", map[string]interface{}{"id": "abc"})
	if err == nil {
		t.Fatal("Expected non-numeric id to fail validation")
	}
	toolErr, ok := err.(*router.ToolError)
	if !ok {
		t.Fatalf("Expected *router.ToolError, got %T", err)
	}
	if toolErr.Kind != router.KindInvalidParams {
		t.Errorf("Expected invalid params kind, got %q", toolErr.Kind)
	}
	if !strings.Contains(toolErr.Message, "id") {
		t.Errorf("Expected message naming field id, got: %s", toolErr.Message)
	}
}

func TestListHandlerAcceptsDataKeyedResponses(t *testing.T) {
	api := &fakeAPI{
		listBody: map[string]interface{}{
			"data": []interface{}{map[string]interface{}{"id": float64(1)}},
		},
	}
	res := resource{singular: "network", collection: "networks", path: "/networks"}

	data, err := res.listHandler(api)(context.Background(), map[string]interface{}{})
	if err != nil {
		t.Fatalf("listHandler returned error: %v", err)
	}
	items, ok := data["networks"].([]interface{})
	if !ok || len(items) != 1 {
		t.Errorf("Expected fallback to data key, got %v", data["networks"])
	}
}
