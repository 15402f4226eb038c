package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/mcplab/calcserver/internal/app/domain/calc"
	"github.com/mcplab/calcserver/internal/app/services/calculator"
	"github.com/mcplab/calcserver/internal/app/services/history"
)

// JSON-RPC 2.0 error codes used by the MCP endpoint.
const (
	codeParseError     = -32700
	codeMethodNotFound = -32601
	codeInvalidParams  = -32602
	codeInternalError  = -32603
)

type rpcRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	Method  string          `json:"method"`
	Params  rpcParams       `json:"params"`
	ID      json.RawMessage `json:"id"`
}

type rpcParams struct {
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	Result  any             `json:"result,omitempty"`
	Error   *rpcError       `json:"error,omitempty"`
	ID      json.RawMessage `json:"id"`
}

// textContent is the MCP tool result payload: a list of content blocks.
type textContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

func toolResult(text string) map[string]any {
	return map[string]any{
		"content": []textContent{{Type: "text", Text: text}},
	}
}

// mcp handles the MCP protocol endpoint.
//
// Supported methods:
//   - tools/list: return the tool catalogue
//   - tools/call: execute a tool
func (h *handler) mcp(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var req rpcRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeRPCError(w, http.StatusBadRequest, nil, codeParseError, fmt.Sprintf("invalid JSON-RPC request: %v", err))
		return
	}

	switch req.Method {
	case "tools/list":
		writeRPCResult(w, req.ID, map[string]any{"tools": tools})

	case "tools/call":
		h.mcpToolCall(w, r, req)

	default:
		writeRPCError(w, http.StatusBadRequest, req.ID, codeMethodNotFound, fmt.Sprintf("Method not found: %s", req.Method))
	}
}

func (h *handler) mcpToolCall(w http.ResponseWriter, r *http.Request, req rpcRequest) {
	name := strings.TrimSpace(req.Params.Name)

	if op := calc.Operation(name); op.Valid() {
		a, okA := numberArg(req.Params.Arguments, "a")
		b, okB := numberArg(req.Params.Arguments, "b")
		if !okA || !okB {
			writeRPCError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "Missing required parameters: a and b")
			return
		}

		result, err := h.app.Calculator.Execute(r.Context(), op, a, b)
		if err != nil {
			if errors.Is(err, calculator.ErrDivisionByZero) {
				writeRPCError(w, http.StatusBadRequest, req.ID, codeInternalError, err.Error())
				return
			}
			writeRPCError(w, http.StatusInternalServerError, req.ID, codeInternalError, err.Error())
			return
		}

		text := fmt.Sprintf("%s: %s %s %s = %s",
			op.Verb(),
			calc.FormatNumber(result.OperandA),
			op.Symbol(),
			calc.FormatNumber(result.OperandB),
			calc.FormatNumber(result.Result),
		)
		writeRPCResult(w, req.ID, toolResult(text))
		return
	}

	switch name {
	case "history":
		limit := history.DefaultLimit
		if v, ok := numberArg(req.Params.Arguments, "limit"); ok {
			limit = int(v)
		}

		records, err := h.app.History.List(r.Context(), limit)
		if err != nil {
			writeRPCError(w, http.StatusInternalServerError, req.ID, codeInternalError, err.Error())
			return
		}

		if len(records) == 0 {
			writeRPCResult(w, req.ID, toolResult("No calculation history found"))
			return
		}

		lines := make([]string, 0, len(records))
		for _, rec := range records {
			lines = append(lines, rec.Summary())
		}
		text := fmt.Sprintf("Calculation History (last %d):\n%s", limit, strings.Join(lines, "\n"))
		writeRPCResult(w, req.ID, toolResult(text))

	default:
		writeRPCError(w, http.StatusBadRequest, req.ID, codeMethodNotFound, fmt.Sprintf("Unknown tool: %s", name))
	}
}

// numberArg extracts a numeric argument. JSON numbers decode as float64.
func numberArg(args map[string]any, key string) (float64, bool) {
	v, ok := args[key].(float64)
	return v, ok
}

func writeRPCResult(w http.ResponseWriter, id json.RawMessage, result any) {
	writeJSON(w, http.StatusOK, rpcResponse{
		JSONRPC: "2.0",
		Result:  result,
		ID:      normalizeID(id),
	})
}

func writeRPCError(w http.ResponseWriter, status int, id json.RawMessage, code int, message string) {
	writeJSON(w, status, rpcResponse{
		JSONRPC: "2.0",
		Error:   &rpcError{Code: code, Message: message},
		ID:      normalizeID(id),
	})
}

// normalizeID keeps absent request ids encodable as JSON null.
func normalizeID(id json.RawMessage) json.RawMessage {
	if len(id) == 0 {
		return json.RawMessage("null")
	}
	return id
}
