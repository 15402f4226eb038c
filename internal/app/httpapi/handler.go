// Package httpapi exposes the calculator over two surfaces: the MCP
// JSON-RPC endpoint at /mcp and plain REST endpoints per operation.
package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	app "github.com/mcplab/calcserver/internal/app"
	"github.com/mcplab/calcserver/internal/app/domain/calc"
	"github.com/mcplab/calcserver/internal/app/metrics"
	"github.com/mcplab/calcserver/internal/app/services/calculator"
	"github.com/mcplab/calcserver/internal/app/services/history"
	"github.com/mcplab/calcserver/internal/middleware"
	"github.com/mcplab/calcserver/pkg/logger"
)

// ServerInfo describes deployment facts surfaced on / and /health.
type ServerInfo struct {
	Version       string
	StorageDriver string
	StoragePath   string
}

// handler bundles HTTP endpoints for the application services.
type handler struct {
	app  *app.Application
	info ServerInfo
}

// NewHandler returns a router exposing the MCP and REST API.
func NewHandler(application *app.Application, info ServerInfo, log *logger.Logger) http.Handler {
	if log == nil {
		log = logger.NewDefault("httpapi")
	}
	h := &handler{app: application, info: info}

	r := mux.NewRouter()
	r.Use(middleware.LoggingMiddleware(log))
	r.Use(middleware.MetricsMiddleware())

	r.HandleFunc("/", h.root).Methods(http.MethodGet)
	r.HandleFunc("/health", h.health).Methods(http.MethodGet)
	r.HandleFunc("/tools", h.listTools).Methods(http.MethodGet)
	r.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)

	r.HandleFunc("/mcp", h.mcp).Methods(http.MethodPost)

	for _, op := range calc.Operations() {
		op := op
		r.HandleFunc("/"+string(op), func(w http.ResponseWriter, req *http.Request) {
			h.operation(w, req, op)
		}).Methods(http.MethodPost)
	}
	r.HandleFunc("/history", h.history).Methods(http.MethodGet)

	return r
}

func (h *handler) root(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"message":         "Calculator MCP Server",
		"mcp_version":     "1.0",
		"version":         h.info.Version,
		"capabilities":    []string{"tools"},
		"available_tools": toolNames(),
		"endpoints": map[string]string{
			"/mcp":     "MCP protocol endpoint",
			"/health":  "Health check",
			"/tools":   "List available tools",
			"/history": "Calculation history",
			"/metrics": "Prometheus metrics",
		},
	})
}

func (h *handler) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "healthy",
		"storage": map[string]string{
			"driver": h.info.StorageDriver,
			"path":   h.info.StoragePath,
		},
	})
}

func (h *handler) listTools(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"tools": tools})
}

func (h *handler) operation(w http.ResponseWriter, r *http.Request, op calc.Operation) {
	var payload struct {
		A *float64 `json:"a"`
		B *float64 `json:"b"`
	}
	if err := decodeJSON(r.Body, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if payload.A == nil || payload.B == nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("Missing required parameters: a and b"))
		return
	}

	result, err := h.app.Calculator.Execute(r.Context(), op, *payload.A, *payload.B)
	if err != nil {
		if errors.Is(err, calculator.ErrDivisionByZero) {
			writeJSON(w, http.StatusBadRequest, map[string]any{
				"error":     err.Error(),
				"operation": op,
				"a":         *payload.A,
				"b":         *payload.B,
			})
			return
		}
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"operation": result.Operation,
		"a":         result.OperandA,
		"b":         result.OperandB,
		"result":    result.Result,
	})
}

func (h *handler) history(w http.ResponseWriter, r *http.Request) {
	limit := history.DefaultLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Errorf("limit must be an integer"))
			return
		}
		limit = parsed
	}

	records, err := h.app.History.List(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if records == nil {
		records = []calc.Calculation{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"history": records,
		"count":   len(records),
	})
}

func decodeJSON(body io.ReadCloser, dst interface{}) error {
	defer body.Close()
	return json.NewDecoder(body).Decode(dst)
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}
