//go:build !windows

package rhinoline

import (
	"context"
	"testing"
	"time"
)

// newFacadeClient wires a Client straight to a testServer, skipping the
// subprocess so request shapes can be asserted off the wire.
func newFacadeClient(t *testing.T) (*Client, *testServer) {
	t.Helper()
	cn, srv, capture := newTestConn(t)
	c := &Client{
		opts:  resolveOptions(),
		log:   capture.logger(),
		state: stateRunning,
		conn:  cn,
	}
	return c, srv
}

// roundTrip runs one facade call against srv and returns the request that
// reached the wire.
func roundTrip(t *testing.T, srv *testServer, fn func() (*Response, error)) map[string]any {
	t.Helper()
	reqCh := make(chan map[string]any, 1)
	go func() { reqCh <- srv.echo(t, `{}`) }()
	if _, err := fn(); err != nil {
		t.Fatalf("call: %v", err)
	}
	select {
	case req := <-reqCh:
		return req
	case <-time.After(testTimeout):
		t.Fatal("timeout waiting for request")
		return nil
	}
}

func wireParams(t *testing.T, req map[string]any) map[string]any {
	t.Helper()
	params, ok := req["params"].(map[string]any)
	if !ok {
		t.Fatalf("request params is not an object: %v", req["params"])
	}
	return params
}

func assertAbsent(t *testing.T, params map[string]any, keys ...string) {
	t.Helper()
	for _, key := range keys {
		if v, ok := params[key]; ok {
			t.Errorf("key %q should be omitted, got %v", key, v)
		}
	}
}

func TestExecuteCodeParams(t *testing.T) {
	c, srv := newFacadeClient(t)
	req := roundTrip(t, srv, func() (*Response, error) {
		return c.ExecuteCode(context.Background(), "result = 42")
	})
	if req["method"] != MethodExecuteRhinoCode {
		t.Errorf("method = %v", req["method"])
	}
	params := wireParams(t, req)
	if params["code"] != "result = 42" {
		t.Errorf("code = %v", params["code"])
	}
}

func TestExecuteCodeRejectsEmpty(t *testing.T) {
	c, _ := newFacadeClient(t)
	if _, err := c.ExecuteCode(context.Background(), ""); err == nil {
		t.Error("empty code should be rejected before the wire")
	}
	if _, err := c.ExecuteGHCode(context.Background(), ""); err == nil {
		t.Error("empty Grasshopper code should be rejected before the wire")
	}
}

func TestSceneObjectsDefaults(t *testing.T) {
	c, srv := newFacadeClient(t)
	req := roundTrip(t, srv, func() (*Response, error) {
		return c.SceneObjects(context.Background(), ObjectQuery{})
	})
	params := wireParams(t, req)
	filters, ok := params["filters"].(map[string]any)
	if !ok || len(filters) != 0 {
		t.Errorf("filters should default to an empty object, got %v", params["filters"])
	}
	assertAbsent(t, params, "metadata_fields")
}

func TestSceneObjectsQuery(t *testing.T) {
	c, srv := newFacadeClient(t)
	req := roundTrip(t, srv, func() (*Response, error) {
		return c.SceneObjects(context.Background(), ObjectQuery{
			Filters:        map[string]any{"layer": "Default", "name": "Cube*"},
			MetadataFields: []string{"name", "layer"},
		})
	})
	params := wireParams(t, req)
	filters := params["filters"].(map[string]any)
	if filters["layer"] != "Default" || filters["name"] != "Cube*" {
		t.Errorf("filters = %v", filters)
	}
	fields := params["metadata_fields"].([]any)
	if len(fields) != 2 || fields[0] != "name" {
		t.Errorf("metadata_fields = %v", fields)
	}
}

func TestCaptureViewportDefaults(t *testing.T) {
	c, srv := newFacadeClient(t)
	req := roundTrip(t, srv, func() (*Response, error) {
		return c.CaptureViewport(context.Background(), ViewportCapture{})
	})
	if req["method"] != MethodCaptureViewport {
		t.Errorf("method = %v", req["method"])
	}
	params := wireParams(t, req)
	if params["show_annotations"] != true {
		t.Errorf("show_annotations = %v, want true", params["show_annotations"])
	}
	if params["max_size"] != float64(800) {
		t.Errorf("max_size = %v, want 800", params["max_size"])
	}
	assertAbsent(t, params, "layer")
}

func TestCaptureViewportOptions(t *testing.T) {
	c, srv := newFacadeClient(t)
	req := roundTrip(t, srv, func() (*Response, error) {
		return c.CaptureViewport(context.Background(), ViewportCapture{
			Layer:           "Notes",
			HideAnnotations: true,
			MaxSize:         256,
		})
	})
	params := wireParams(t, req)
	if params["show_annotations"] != false {
		t.Errorf("show_annotations = %v, want false", params["show_annotations"])
	}
	if params["max_size"] != float64(256) {
		t.Errorf("max_size = %v, want 256", params["max_size"])
	}
	if params["layer"] != "Notes" {
		t.Errorf("layer = %v", params["layer"])
	}
}

func TestNoArgMethodsSendEmptyParams(t *testing.T) {
	cases := []struct {
		method string
		call   func(*Client) (*Response, error)
	}{
		{MethodSceneInfo, func(c *Client) (*Response, error) { return c.SceneInfo(context.Background()) }},
		{MethodLayers, func(c *Client) (*Response, error) { return c.Layers(context.Background()) }},
		{MethodGHAvailable, func(c *Client) (*Response, error) { return c.GHAvailable(context.Background()) }},
	}
	for _, tc := range cases {
		t.Run(tc.method, func(t *testing.T) {
			c, srv := newFacadeClient(t)
			req := roundTrip(t, srv, func() (*Response, error) { return tc.call(c) })
			if req["method"] != tc.method {
				t.Errorf("method = %v, want %v", req["method"], tc.method)
			}
			params := wireParams(t, req)
			if len(params) != 0 {
				t.Errorf("params = %v, want empty object", params)
			}
		})
	}
}

func TestGHContextParams(t *testing.T) {
	c, srv := newFacadeClient(t)
	req := roundTrip(t, srv, func() (*Response, error) {
		return c.GHContext(context.Background(), true)
	})
	params := wireParams(t, req)
	if params["simplified"] != true {
		t.Errorf("simplified = %v", params["simplified"])
	}
}

func TestGHObjectsEmptyGUIDs(t *testing.T) {
	c, srv := newFacadeClient(t)
	req := roundTrip(t, srv, func() (*Response, error) {
		return c.GHObjects(context.Background(), ComponentQuery{ContextDepth: 2})
	})
	params := wireParams(t, req)
	guids, ok := params["instance_guids"].([]any)
	if !ok || len(guids) != 0 {
		t.Errorf("instance_guids should be an empty array, got %v", params["instance_guids"])
	}
	if params["simplified"] != false {
		t.Errorf("simplified = %v", params["simplified"])
	}
	if params["context_depth"] != float64(2) {
		t.Errorf("context_depth = %v", params["context_depth"])
	}
}

func TestGHSelectedParams(t *testing.T) {
	c, srv := newFacadeClient(t)
	req := roundTrip(t, srv, func() (*Response, error) {
		return c.GHSelected(context.Background(), true, 1)
	})
	params := wireParams(t, req)
	if params["simplified"] != true || params["context_depth"] != float64(1) {
		t.Errorf("params = %v", params)
	}
}

func TestUpdateScriptOmitsZeroFields(t *testing.T) {
	c, srv := newFacadeClient(t)
	req := roundTrip(t, srv, func() (*Response, error) {
		return c.UpdateScript(context.Background(), ScriptUpdate{InstanceGUID: "guid-1"})
	})
	params := wireParams(t, req)
	if params["instance_guid"] != "guid-1" {
		t.Errorf("instance_guid = %v", params["instance_guid"])
	}
	assertAbsent(t, params, "code", "description", "message_to_user", "param_definitions")
}

func TestUpdateScriptFullParams(t *testing.T) {
	c, srv := newFacadeClient(t)
	req := roundTrip(t, srv, func() (*Response, error) {
		return c.UpdateScript(context.Background(), ScriptUpdate{
			InstanceGUID:  "guid-1",
			Code:          "result = 1",
			Description:   "adds one",
			MessageToUser: "done",
			ParamDefinitions: []map[string]any{
				{"name": "x", "access": "item"},
			},
		})
	})
	params := wireParams(t, req)
	for _, key := range []string{"instance_guid", "code", "description", "message_to_user", "param_definitions"} {
		if _, ok := params[key]; !ok {
			t.Errorf("missing key %q", key)
		}
	}
}

func TestUpdateScriptRequiresGUID(t *testing.T) {
	c, _ := newFacadeClient(t)
	if _, err := c.UpdateScript(context.Background(), ScriptUpdate{Code: "x"}); err == nil {
		t.Error("missing instance GUID should be rejected")
	}
	if _, err := c.UpdateScriptWithCodeReference(context.Background(), ScriptReference{FilePath: "x.py"}); err == nil {
		t.Error("missing instance GUID should be rejected")
	}
	if _, err := c.ExpireComponent(context.Background(), ""); err == nil {
		t.Error("missing instance GUID should be rejected")
	}
}

func TestScriptReferenceForceFlagAlwaysSent(t *testing.T) {
	c, srv := newFacadeClient(t)
	req := roundTrip(t, srv, func() (*Response, error) {
		return c.UpdateScriptWithCodeReference(context.Background(), ScriptReference{
			InstanceGUID: "guid-1",
			FilePath:     "scripts/tool.py",
		})
	})
	params := wireParams(t, req)
	force, ok := params["force_code_reference"]
	if !ok || force != false {
		t.Errorf("force_code_reference must always be sent, got (%v, %v)", force, ok)
	}
	if params["file_path"] != "scripts/tool.py" {
		t.Errorf("file_path = %v", params["file_path"])
	}
	assertAbsent(t, params, "description", "name", "param_definitions")
}

func TestExpireComponentParams(t *testing.T) {
	c, srv := newFacadeClient(t)
	req := roundTrip(t, srv, func() (*Response, error) {
		return c.ExpireComponent(context.Background(), "guid-9")
	})
	if req["method"] != MethodGHExpire {
		t.Errorf("method = %v", req["method"])
	}
	if wireParams(t, req)["instance_guid"] != "guid-9" {
		t.Errorf("instance_guid = %v", wireParams(t, req)["instance_guid"])
	}
}
