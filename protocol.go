package rhinoline

import "encoding/json"

const jsonrpcVersion = "2.0"

// Method names understood by the rhino_mcp server. These, and the params
// keys the facade methods assemble, are a fixed external contract — renaming
// them breaks compatibility with deployed servers.
const (
	MethodExecuteRhinoCode = "execute_rhino_code"
	MethodSceneObjects     = "get_scene_objects_with_metadata"
	MethodCaptureViewport  = "capture_viewport"
	MethodSceneInfo        = "get_scene_info"
	MethodLayers           = "get_layers"

	MethodGHAvailable       = "is_server_available"
	MethodGHExecuteCode     = "execute_code_in_gh"
	MethodGHContext         = "get_gh_context"
	MethodGHObjects         = "get_objects"
	MethodGHSelected        = "get_selected"
	MethodGHUpdateScript    = "update_script"
	MethodGHUpdateScriptRef = "update_script_with_code_reference"
	MethodGHExpire          = "expire_and_get_info"
)

// request is one outbound line. The params member is always present (empty
// object when the method takes none); standard JSON escaping guarantees the
// serialized form contains no literal newline.
type request struct {
	JSONRPC string         `json:"jsonrpc"`
	Method  string         `json:"method"`
	Params  map[string]any `json:"params"`
	ID      int64          `json:"id"`
}

// wireResponse is one inbound line. ID is a pointer so an absent id (itself
// a protocol anomaly) is distinguishable from id 0.
type wireResponse struct {
	ID     *int64          `json:"id"`
	Result json.RawMessage `json:"result"`
	Error  json.RawMessage `json:"error"`
}
