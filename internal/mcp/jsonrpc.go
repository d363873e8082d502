package mcp

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Version is the only JSON-RPC protocol version accepted.
const Version = "2.0"

// Standard JSON-RPC 2.0 error codes.
const (
	CodeParseError     = -32700
	CodeInvalidRequest = -32600
	CodeMethodNotFound = -32601
	CodeInvalidParams  = -32602
	CodeInternalError  = -32603
)

// Fixed error messages sent to clients.
const (
	MsgParseError      = "Parse error"
	MsgInvalidRequest  = "Invalid Request"
	MsgMethodNotFound  = "Method not found"
	MsgMissingToolName = "Invalid params: missing tool name"
	MsgInvalidParams   = "Invalid params"
	MsgInternalError   = "Internal error"
)

// Request is a decoded JSON-RPC request.
type Request struct {
	JSONRPC string
	Method  string
	Params  json.RawMessage
	// ID is the raw id exactly as received. Nil when the id was absent.
	ID json.RawMessage
}

// HasID reports whether the request carried an id member, including null.
func (r *Request) HasID() bool {
	return r.ID != nil
}

// ResponseError represents a JSON-RPC error object.
type ResponseError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("jsonrpc error %d: %s", e.Code, e.Message)
}

// NewError creates a ResponseError. Handlers return it to choose the code
// sent to the client.
func NewError(code int, message string) *ResponseError {
	return &ResponseError{Code: code, Message: message}
}

// Response is a JSON-RPC response envelope. Exactly one of Result and Error
// is set.
type Response struct {
	JSONRPC string          `json:"jsonrpc"`
	Result  any             `json:"result,omitempty"`
	Error   *ResponseError  `json:"error,omitempty"`
	ID      json.RawMessage `json:"id"`
}

// NewResult builds a success response. A nil result is sent as an empty
// object so the envelope still carries a result member.
func NewResult(id json.RawMessage, result any) Response {
	if result == nil {
		result = struct{}{}
	}
	return Response{JSONRPC: Version, Result: result, ID: id}
}

// NewErrorResponse builds an error response.
func NewErrorResponse(id json.RawMessage, code int, message string) Response {
	return Response{JSONRPC: Version, Error: NewError(code, message), ID: id}
}

// DecodeError is returned by Decode for lines that cannot be dispatched.
type DecodeError struct {
	Code int
	// ID is the request id to echo, nil when unknown.
	ID json.RawMessage
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode request: %s", e.Message())
}

// Message returns the fixed client-facing message for the error code.
func (e *DecodeError) Message() string {
	if e.Code == CodeParseError {
		return MsgParseError
	}
	return MsgInvalidRequest
}

// Response converts the error into the response sent to the client.
func (e *DecodeError) Response() Response {
	return NewErrorResponse(e.ID, e.Code, e.Message())
}

// Decode parses one line into a Request. Failures are always *DecodeError.
func Decode(line []byte) (*Request, error) {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(line, &envelope); err != nil || envelope == nil {
		return nil, &DecodeError{Code: CodeParseError}
	}

	req := &Request{}
	if raw, ok := envelope["id"]; ok {
		if !validID(raw) {
			return nil, &DecodeError{Code: CodeInvalidRequest}
		}
		req.ID = raw
	}

	invalid := &DecodeError{Code: CodeInvalidRequest, ID: req.ID}

	if err := unmarshalString(envelope["jsonrpc"], &req.JSONRPC); err != nil || req.JSONRPC != Version {
		return nil, invalid
	}
	if err := unmarshalString(envelope["method"], &req.Method); err != nil || req.Method == "" {
		return nil, invalid
	}
	if raw, ok := envelope["params"]; ok && !bytes.Equal(raw, []byte("null")) {
		req.Params = raw
	}

	return req, nil
}

// Encode serializes a response to a single JSON line without the trailing
// newline.
func Encode(resp Response) ([]byte, error) {
	if resp.JSONRPC == "" {
		resp.JSONRPC = Version
	}
	if (resp.Error == nil) == (resp.Result == nil) {
		return nil, fmt.Errorf("response must carry exactly one of result or error")
	}
	data, err := json.Marshal(resp)
	if err != nil {
		return nil, fmt.Errorf("encode response: %w", err)
	}
	return data, nil
}

func unmarshalString(raw json.RawMessage, dst *string) error {
	if raw == nil {
		return fmt.Errorf("missing member")
	}
	return json.Unmarshal(raw, dst)
}

// validID accepts the id types JSON-RPC allows: string, number, or null.
func validID(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return false
	}
	switch c := trimmed[0]; {
	case c == '"':
		return true
	case c == '-' || (c >= '0' && c <= '9'):
		return true
	case bytes.Equal(trimmed, []byte("null")):
		return true
	}
	return false
}
