//go:build !windows

package rhinoline

import (
	"context"
	"errors"
)

// defaultViewportMaxSize matches the server's documented default for the
// capture_viewport max_size parameter.
const defaultViewportMaxSize = 800

// ExecuteCode runs an IronPython snippet inside Rhino. Assign to a variable
// named `result` in the snippet to get a value back beyond success/failure.
func (c *Client) ExecuteCode(ctx context.Context, code string) (*Response, error) {
	if code == "" {
		return nil, errors.New("rhinoline: code required")
	}
	return c.Invoke(ctx, MethodExecuteRhinoCode, map[string]any{"code": code})
}

// ObjectQuery selects scene objects and the metadata returned for them.
type ObjectQuery struct {
	// Filters narrows the selection, e.g. {"layer": "Default", "name": "Cube*"}.
	Filters map[string]any

	// MetadataFields limits the returned metadata. Nil means the server's
	// default field set; the key is omitted from the request entirely.
	MetadataFields []string
}

// SceneObjects returns detailed information about objects in the Rhino
// scene, with their metadata.
func (c *Client) SceneObjects(ctx context.Context, q ObjectQuery) (*Response, error) {
	filters := q.Filters
	if filters == nil {
		filters = map[string]any{}
	}
	params := map[string]any{"filters": filters}
	if q.MetadataFields != nil {
		params["metadata_fields"] = q.MetadataFields
	}
	return c.Invoke(ctx, MethodSceneObjects, params)
}

// ViewportCapture configures a viewport image capture.
type ViewportCapture struct {
	// Layer optionally filters annotations to one layer. Empty omits the
	// key from the request.
	Layer string

	// HideAnnotations suppresses object annotations (shown by default).
	HideAnnotations bool

	// MaxSize is the maximum image dimension in pixels; 0 means 800.
	MaxSize int
}

// CaptureViewport captures the current Rhino viewport as an image. On
// success the result carries the image data (base64 encoded).
func (c *Client) CaptureViewport(ctx context.Context, v ViewportCapture) (*Response, error) {
	maxSize := v.MaxSize
	if maxSize <= 0 {
		maxSize = defaultViewportMaxSize
	}
	params := map[string]any{
		"show_annotations": !v.HideAnnotations,
		"max_size":         maxSize,
	}
	if v.Layer != "" {
		params["layer"] = v.Layer
	}
	return c.Invoke(ctx, MethodCaptureViewport, params)
}

// SceneInfo returns basic information about the current Rhino scene.
func (c *Client) SceneInfo(ctx context.Context) (*Response, error) {
	return c.Invoke(ctx, MethodSceneInfo, nil)
}

// Layers returns the layers in the Rhino document.
func (c *Client) Layers(ctx context.Context) (*Response, error) {
	return c.Invoke(ctx, MethodLayers, nil)
}
