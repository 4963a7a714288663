package rhinoline

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"
)

// Response is one decoded reply from the server. Exactly one of Result and
// Err is usually set; both absent is a valid empty success.
type Response struct {
	// ID echoes the request id. The channel warns on mismatch but still
	// returns the response — see Invoke.
	ID int64

	// Result is the raw result member, nil when the server sent none.
	Result json.RawMessage

	// Err is the server's error member, nil when the server sent none.
	// It is response content, not a local failure: Invoke returns it as
	// data and callers decide how to react.
	Err *ServerError
}

// ServerError is the decoded error member of a response.
type ServerError struct {
	Code    int
	Message string
	Raw     json.RawMessage
}

func (e *ServerError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("server error %d: %s", e.Code, e.Message)
	}
	return "server error: " + string(e.Raw)
}

// Get returns the value at a gjson path inside Result. Missing paths and a
// nil Result yield a zero gjson.Result (Exists reports false).
func (r *Response) Get(path string) gjson.Result {
	if r.Result == nil {
		return gjson.Result{}
	}
	return gjson.GetBytes(r.Result, path)
}

// GetString returns the string at a gjson path inside Result, or "" when
// the path is missing.
func (r *Response) GetString(path string) string {
	return r.Get(path).String()
}

// GetBool returns the boolean at a gjson path inside Result, or false when
// the path is missing.
func (r *Response) GetBool(path string) bool {
	return r.Get(path).Bool()
}

var jsonNull = []byte("null")

// decodeResponse parses one trimmed response line into a Response.
func decodeResponse(line []byte) (*Response, error) {
	var wire wireResponse
	if err := json.Unmarshal(line, &wire); err != nil {
		return nil, err
	}

	resp := &Response{Result: wire.Result}
	if wire.ID != nil {
		resp.ID = *wire.ID
	}
	if len(wire.Error) > 0 && !bytes.Equal(wire.Error, jsonNull) {
		se := &ServerError{Raw: wire.Error}
		var obj struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
		}
		// Best-effort: the error member may be a bare string or any
		// other shape; Raw always has the full value.
		if err := json.Unmarshal(wire.Error, &obj); err == nil {
			se.Code = obj.Code
			se.Message = obj.Message
		}
		resp.Err = se
	}
	return resp, nil
}
