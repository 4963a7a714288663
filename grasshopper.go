//go:build !windows

package rhinoline

import (
	"context"
	"errors"
)

// GHAvailable checks whether the Grasshopper side of the server is reachable.
func (c *Client) GHAvailable(ctx context.Context) (*Response, error) {
	return c.Invoke(ctx, MethodGHAvailable, nil)
}

// ExecuteGHCode runs an IronPython snippet inside Grasshopper. Use
// `result = value` in the snippet for output.
func (c *Client) ExecuteGHCode(ctx context.Context, code string) (*Response, error) {
	if code == "" {
		return nil, errors.New("rhinoline: code required")
	}
	return c.Invoke(ctx, MethodGHExecuteCode, map[string]any{"code": code})
}

// GHContext returns the current Grasshopper document state and definition
// graph. Simplified requests minimal per-component info.
func (c *Client) GHContext(ctx context.Context, simplified bool) (*Response, error) {
	return c.Invoke(ctx, MethodGHContext, map[string]any{"simplified": simplified})
}

// ComponentQuery selects Grasshopper components by instance GUID.
type ComponentQuery struct {
	InstanceGUIDs []string

	// Simplified requests minimal component info.
	Simplified bool

	// ContextDepth is how many levels of connected components to include
	// (0-3).
	ContextDepth int
}

// GHObjects returns information about specific Grasshopper components.
func (c *Client) GHObjects(ctx context.Context, q ComponentQuery) (*Response, error) {
	guids := q.InstanceGUIDs
	if guids == nil {
		guids = []string{}
	}
	return c.Invoke(ctx, MethodGHObjects, map[string]any{
		"instance_guids": guids,
		"simplified":     q.Simplified,
		"context_depth":  q.ContextDepth,
	})
}

// GHSelected returns information about the currently selected Grasshopper
// components.
func (c *Client) GHSelected(ctx context.Context, simplified bool, contextDepth int) (*Response, error) {
	return c.Invoke(ctx, MethodGHSelected, map[string]any{
		"simplified":    simplified,
		"context_depth": contextDepth,
	})
}

// ScriptUpdate describes changes to a Grasshopper script component. Zero
// fields are left unchanged and their keys are omitted from the request.
type ScriptUpdate struct {
	InstanceGUID  string
	Code          string
	Description   string
	MessageToUser string

	// ParamDefinitions redefines the component's parameters. When set,
	// ALL parameters are redefined.
	ParamDefinitions []map[string]any
}

// UpdateScript updates a Grasshopper script component in place.
func (c *Client) UpdateScript(ctx context.Context, u ScriptUpdate) (*Response, error) {
	if u.InstanceGUID == "" {
		return nil, errors.New("rhinoline: instance GUID required")
	}
	params := map[string]any{"instance_guid": u.InstanceGUID}
	if u.Code != "" {
		params["code"] = u.Code
	}
	if u.Description != "" {
		params["description"] = u.Description
	}
	if u.MessageToUser != "" {
		params["message_to_user"] = u.MessageToUser
	}
	if u.ParamDefinitions != nil {
		params["param_definitions"] = u.ParamDefinitions
	}
	return c.Invoke(ctx, MethodGHUpdateScript, params)
}

// ScriptReference points a Grasshopper script component at an external
// Python file.
type ScriptReference struct {
	InstanceGUID string

	// FilePath is the external Python file to reference.
	FilePath string

	ParamDefinitions []map[string]any
	Description      string
	Name             string

	// ForceCodeReference switches the component to referenced-code mode.
	// Always transmitted, even when false — the server expects the key.
	ForceCodeReference bool
}

// UpdateScriptWithCodeReference updates a script component to use code from
// an external file.
func (c *Client) UpdateScriptWithCodeReference(ctx context.Context, ref ScriptReference) (*Response, error) {
	if ref.InstanceGUID == "" {
		return nil, errors.New("rhinoline: instance GUID required")
	}
	params := map[string]any{
		"instance_guid":        ref.InstanceGUID,
		"force_code_reference": ref.ForceCodeReference,
	}
	if ref.FilePath != "" {
		params["file_path"] = ref.FilePath
	}
	if ref.ParamDefinitions != nil {
		params["param_definitions"] = ref.ParamDefinitions
	}
	if ref.Description != "" {
		params["description"] = ref.Description
	}
	if ref.Name != "" {
		params["name"] = ref.Name
	}
	return c.Invoke(ctx, MethodGHUpdateScriptRef, params)
}

// ExpireComponent expires a Grasshopper component and returns its updated
// information.
func (c *Client) ExpireComponent(ctx context.Context, instanceGUID string) (*Response, error) {
	if instanceGUID == "" {
		return nil, errors.New("rhinoline: instance GUID required")
	}
	return c.Invoke(ctx, MethodGHExpire, map[string]any{"instance_guid": instanceGUID})
}
