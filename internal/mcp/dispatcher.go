// Package mcp implements the JSON-RPC 2.0 codec and request dispatcher for the
// Sentinel inventory tools.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"runtime/debug"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ProtocolVersion is the MCP protocol revision reported by initialize.
const ProtocolVersion = "2024-11-05"

// ToolHandler executes a tool call with its raw arguments.
type ToolHandler func(ctx context.Context, args json.RawMessage) (any, error)

// Tool describes a capability in tools/list.
type Tool struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"inputSchema"`
}

type toolEntry struct {
	tool    Tool
	handler ToolHandler
}

// Options configure a Dispatcher.
type Options struct {
	// Name and Version identify the server in the initialize handshake.
	Name    string
	Version string
	Logger  *slog.Logger
}

// Dispatcher routes decoded requests to handlers and always produces a
// well-formed response envelope.
type Dispatcher struct {
	opts   Options
	logger *slog.Logger
	tools  []toolEntry
	index  map[string]int
}

// NewDispatcher creates a dispatcher with no tools registered.
func NewDispatcher(opts Options) *Dispatcher {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Dispatcher{
		opts:   opts,
		logger: logger,
		index:  map[string]int{},
	}
}

// Register adds a tool. Registering a name twice replaces the handler and
// descriptor while keeping the original position in tools/list.
func (d *Dispatcher) Register(tool Tool, handler ToolHandler) {
	entry := toolEntry{tool: tool, handler: handler}
	if i, ok := d.index[tool.Name]; ok {
		d.tools[i] = entry
		return
	}
	d.index[tool.Name] = len(d.tools)
	d.tools = append(d.tools, entry)
}

// Tools returns the registered tool descriptors in registration order.
func (d *Dispatcher) Tools() []Tool {
	out := make([]Tool, len(d.tools))
	for i, e := range d.tools {
		out[i] = e.tool
	}
	return out
}

// Handle processes one input line and returns the encoded response, or nil
// when the line is a notification that takes no reply.
func (d *Dispatcher) Handle(ctx context.Context, line []byte) []byte {
	logger := d.logger.With("request_id", uuid.NewString())
	start := time.Now()

	req, err := Decode(line)
	if err != nil {
		var decodeErr *DecodeError
		if !errors.As(err, &decodeErr) {
			decodeErr = &DecodeError{Code: CodeParseError}
		}
		logger.Debug("rejected request", "code", decodeErr.Code)
		return d.encode(logger, decodeErr.Response())
	}

	logger = logger.With("method", req.Method)

	if !req.HasID() && strings.HasPrefix(req.Method, "notifications/") {
		logger.Debug("notification received")
		return nil
	}

	result, err := d.invoke(ctx, req)
	resp := d.toResponse(logger, req, result, err)
	logger.Debug("request handled", "duration", time.Since(start), "error", resp.Error != nil)
	return d.encode(logger, resp)
}

// invoke runs the routed handler, converting panics into errors.
func (d *Dispatcher) invoke(ctx context.Context, req *Request) (result any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panic: %v\n%s", r, debug.Stack())
		}
	}()
	return d.route(ctx, req)
}

func (d *Dispatcher) route(ctx context.Context, req *Request) (any, error) {
	switch req.Method {
	case "initialize":
		return d.handleInitialize(), nil
	case "ping":
		return struct{}{}, nil
	case "tools/list":
		return map[string]any{"tools": d.Tools()}, nil
	case "tools/call":
		return d.handleToolsCall(ctx, req.Params)
	default:
		return nil, NewError(CodeMethodNotFound, MsgMethodNotFound)
	}
}

func (d *Dispatcher) handleInitialize() any {
	return map[string]any{
		"protocolVersion": ProtocolVersion,
		"capabilities": map[string]any{
			"tools": map[string]any{},
		},
		"serverInfo": map[string]any{
			"name":    d.opts.Name,
			"version": d.opts.Version,
		},
	}
}

func (d *Dispatcher) handleToolsCall(ctx context.Context, params json.RawMessage) (any, error) {
	var call struct {
		Name      json.RawMessage `json:"name"`
		Arguments json.RawMessage `json:"arguments"`
	}
	if len(params) == 0 || json.Unmarshal(params, &call) != nil {
		return nil, NewError(CodeInvalidParams, MsgMissingToolName)
	}

	var name string
	if call.Name == nil || json.Unmarshal(call.Name, &name) != nil || name == "" {
		return nil, NewError(CodeInvalidParams, MsgMissingToolName)
	}

	i, ok := d.index[name]
	if !ok {
		return nil, NewError(CodeMethodNotFound, MsgMethodNotFound)
	}
	return d.tools[i].handler(ctx, call.Arguments)
}

// toResponse maps handler output onto the envelope. Errors that are not a
// *ResponseError never reach the client verbatim.
func (d *Dispatcher) toResponse(logger *slog.Logger, req *Request, result any, err error) Response {
	if err == nil {
		return NewResult(req.ID, result)
	}

	var rpcErr *ResponseError
	if errors.As(err, &rpcErr) {
		return NewErrorResponse(req.ID, rpcErr.Code, rpcErr.Message)
	}

	logger.Error("handler failed", "error", err)
	return NewErrorResponse(req.ID, CodeInternalError, MsgInternalError)
}

func (d *Dispatcher) encode(logger *slog.Logger, resp Response) []byte {
	data, err := Encode(resp)
	if err == nil {
		return data
	}

	logger.Error("failed to encode response", "error", err)
	data, err = Encode(NewErrorResponse(resp.ID, CodeInternalError, MsgInternalError))
	if err != nil {
		// Unreachable: resp.ID was produced by Decode.
		return []byte(`{"jsonrpc":"2.0","error":{"code":-32603,"message":"Internal error"},"id":null}`)
	}
	return data
}

// Bind wraps a typed handler. Arguments are decoded into T once here; absent
// or null arguments leave T at its zero value and decode failures surface as
// invalid params.
func Bind[T any](fn func(ctx context.Context, args T) (any, error)) ToolHandler {
	return func(ctx context.Context, raw json.RawMessage) (any, error) {
		var args T
		if len(raw) > 0 && string(raw) != "null" {
			if err := json.Unmarshal(raw, &args); err != nil {
				return nil, NewError(CodeInvalidParams, MsgInvalidParams)
			}
		}
		return fn(ctx, args)
	}
}
