//go:build ignore

// Command mock-server simulates a Rhino bridge server for integration
// tests. It reads line-delimited JSON-RPC 2.0 requests on stdin and
// writes one response line per request on stdout.
//
// Environment variables control failure modes:
//
//	RHINO_MOCK_MODE=exit-before-response — exit 7 on the first request, no response
//	RHINO_MOCK_MODE=close-stdout         — close stdout on the first request, stay alive
//	RHINO_MOCK_MODE=malformed            — answer the first request with a non-JSON line
//	RHINO_MOCK_MODE=wrong-id             — answer with id+1000
//	RHINO_MOCK_MODE=server-error         — answer with an error member instead of result
//	RHINO_MOCK_MODE=delay                — sleep 2s before each response (for ctx cancel tests)
//	RHINO_MOCK_MODE=stderr               — write RHINO_MOCK_STDERR_LINES diagnostic lines first
//
// The default response echoes the request back as the result:
//
//	{"id": N, "result": {"method": "...", "params": {...}}}
package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"
)

type rpcRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      int64           `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params"`
}

var (
	out  = bufio.NewWriter(os.Stdout)
	mode = os.Getenv("RHINO_MOCK_MODE")
)

func main() {
	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 4096), 8<<20)

	if mode == "stderr" {
		n, _ := strconv.Atoi(os.Getenv("RHINO_MOCK_STDERR_LINES"))
		for i := 0; i < n; i++ {
			fmt.Fprintf(os.Stderr, "diagnostic line %d\n", i)
		}
	}

	for scanner.Scan() {
		var req rpcRequest
		if err := json.Unmarshal(scanner.Bytes(), &req); err != nil {
			continue
		}
		handleRequest(&req)
	}
}

func handleRequest(req *rpcRequest) {
	switch mode {
	case "exit-before-response":
		os.Exit(7)
	case "close-stdout":
		out.Flush()
		os.Stdout.Close()
		time.Sleep(30 * time.Second)
		os.Exit(0)
	case "malformed":
		writeLine("this is not json")
		return
	case "wrong-id":
		respond(req.ID+1000, req)
		return
	case "server-error":
		line, _ := json.Marshal(map[string]any{
			"id": req.ID,
			"error": map[string]any{
				"code":    -32000,
				"message": "mock server error",
			},
		})
		writeLine(string(line))
		return
	case "delay":
		time.Sleep(2 * time.Second)
	}
	respond(req.ID, req)
}

// respond echoes the request method and params back as the result.
func respond(id int64, req *rpcRequest) {
	params := req.Params
	if len(params) == 0 {
		params = json.RawMessage("{}")
	}
	line, err := json.Marshal(map[string]any{
		"id": id,
		"result": map[string]any{
			"method": req.Method,
			"params": params,
		},
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "mock-server: marshal: %v\n", err)
		return
	}
	writeLine(string(line))
}

func writeLine(s string) {
	out.WriteString(s)
	out.WriteByte('\n')
	out.Flush()
}
