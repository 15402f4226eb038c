package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	app "github.com/mcplab/calcserver/internal/app"
	"github.com/mcplab/calcserver/internal/app/storage/memory"
)

func newTestHandler(t *testing.T) http.Handler {
	t.Helper()
	application, err := app.New(app.Stores{History: memory.New()}, nil)
	if err != nil {
		t.Fatalf("build application: %v", err)
	}
	info := ServerInfo{Version: "test", StorageDriver: "memory", StoragePath: ""}
	return NewHandler(application, info, nil)
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var decoded map[string]any
	if len(rec.Body.Bytes()) > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), &decoded); err != nil {
			t.Fatalf("decode response %q: %v", rec.Body.String(), err)
		}
	}
	return rec, decoded
}

func TestRootEndpoint(t *testing.T) {
	h := newTestHandler(t)

	rec, body := doJSON(t, h, http.MethodGet, "/", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if body["message"] != "Calculator MCP Server" {
		t.Fatalf("unexpected message %v", body["message"])
	}
	if body["mcp_version"] != "1.0" {
		t.Fatalf("unexpected mcp_version %v", body["mcp_version"])
	}
	caps, ok := body["capabilities"].([]any)
	if !ok || len(caps) != 1 || caps[0] != "tools" {
		t.Fatalf("unexpected capabilities %v", body["capabilities"])
	}
	names, ok := body["available_tools"].([]any)
	if !ok || len(names) != 5 {
		t.Fatalf("expected 5 available tools, got %v", body["available_tools"])
	}
}

func TestHealthEndpoint(t *testing.T) {
	h := newTestHandler(t)

	rec, body := doJSON(t, h, http.MethodGet, "/health", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if body["status"] != "healthy" {
		t.Fatalf("unexpected status %v", body["status"])
	}
	storage, ok := body["storage"].(map[string]any)
	if !ok || storage["driver"] != "memory" {
		t.Fatalf("unexpected storage info %v", body["storage"])
	}
}

func TestToolsEndpoint(t *testing.T) {
	h := newTestHandler(t)

	rec, body := doJSON(t, h, http.MethodGet, "/tools", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	list, ok := body["tools"].([]any)
	if !ok || len(list) != 5 {
		t.Fatalf("expected 5 tools, got %v", body["tools"])
	}
	first, ok := list[0].(map[string]any)
	if !ok || first["name"] != "plus" {
		t.Fatalf("expected plus first, got %v", list[0])
	}
	if _, ok := first["inputSchema"]; !ok {
		t.Fatalf("expected inputSchema on tool definition")
	}
}

func TestRestOperations(t *testing.T) {
	tests := []struct {
		path string
		a, b float64
		want float64
	}{
		{"/plus", 10, 5, 15},
		{"/sub", 10, 4, 6},
		{"/mul", 6, 7, 42},
		{"/div", 15, 3, 5},
		{"/div", 7, 2, 3.5},
	}

	h := newTestHandler(t)
	for _, tt := range tests {
		rec, body := doJSON(t, h, http.MethodPost, tt.path, map[string]float64{"a": tt.a, "b": tt.b})
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d (%s)", tt.path, rec.Code, rec.Body.String())
		}
		if body["result"] != tt.want {
			t.Fatalf("%s: expected result %v, got %v", tt.path, tt.want, body["result"])
		}
		if body["a"] != tt.a || body["b"] != tt.b {
			t.Fatalf("%s: operands not echoed: %v", tt.path, body)
		}
	}
}

func TestRestDivisionByZero(t *testing.T) {
	h := newTestHandler(t)

	rec, body := doJSON(t, h, http.MethodPost, "/div", map[string]float64{"a": 10, "b": 0})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if body["error"] != "Division by zero is not allowed" {
		t.Fatalf("unexpected error %v", body["error"])
	}
	if body["operation"] != "div" || body["a"] != float64(10) || body["b"] != float64(0) {
		t.Fatalf("expected operation context in error body, got %v", body)
	}
}

func TestRestMissingParameters(t *testing.T) {
	h := newTestHandler(t)

	cases := []map[string]any{
		{},
		{"a": 5},
		{"b": 5},
		{"a": nil, "b": 3},
	}
	for _, payload := range cases {
		rec, body := doJSON(t, h, http.MethodPost, "/plus", payload)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("payload %v: expected 400, got %d", payload, rec.Code)
		}
		if body["error"] != "Missing required parameters: a and b" {
			t.Fatalf("payload %v: unexpected error %v", payload, body["error"])
		}
	}
}

func TestRestMalformedBody(t *testing.T) {
	h := newTestHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/plus", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestHistoryEndpoint(t *testing.T) {
	h := newTestHandler(t)

	rec, body := doJSON(t, h, http.MethodGet, "/history", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if body["count"] != float64(0) {
		t.Fatalf("expected empty history, got %v", body)
	}
	if _, ok := body["history"].([]any); !ok {
		t.Fatalf("expected history to be a list, got %v", body["history"])
	}

	for i := 0; i < 3; i++ {
		if rec, _ := doJSON(t, h, http.MethodPost, "/plus", map[string]float64{"a": float64(i), "b": 1}); rec.Code != http.StatusOK {
			t.Fatalf("seed calculation failed with %d", rec.Code)
		}
	}

	rec, body = doJSON(t, h, http.MethodGet, "/history?limit=2", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if body["count"] != float64(2) {
		t.Fatalf("expected count 2, got %v", body["count"])
	}
	records := body["history"].([]any)
	newest := records[0].(map[string]any)
	if newest["operand_a"] != float64(2) {
		t.Fatalf("expected newest record first, got %v", newest)
	}
	if newest["operation"] != "plus" || newest["result"] != float64(3) {
		t.Fatalf("unexpected record shape %v", newest)
	}
}

func TestHistoryEndpointRejectsBadLimit(t *testing.T) {
	h := newTestHandler(t)

	rec, _ := doJSON(t, h, http.MethodGet, "/history?limit=abc", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	h := newTestHandler(t)

	rec, _ := doJSON(t, h, http.MethodGet, "/plus", nil)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rec.Code)
	}
}
