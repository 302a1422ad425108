package siteseeker

import (
	"context"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nourishdc/siteseeker/catalog"
)

func callTool(args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Name = "find_food_sites"
	req.Params.Arguments = args
	return req
}

func textContent(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, result.Content)
	text, ok := mcp.AsTextContent(result.Content[0])
	require.True(t, ok, "content type = %T", result.Content[0])
	return text.Text
}

func TestFindFoodSitesTool(t *testing.T) {
	geo := &stubGeocoder{coords: catalog.Coordinates{Lat: 38.936, Lng: -76.994}}
	e := newTestEngine(t, geo, nil)

	result, err := e.handleFindFoodSites(context.Background(),
		callTool(map[string]any{"message": "closest food bank 20017"}))
	require.NoError(t, err)
	assert.False(t, result.IsError)
	assert.Contains(t, textContent(t, result), "Near Pantry")
}

func TestFindFoodSitesToolDeviceCoordinates(t *testing.T) {
	geo := &stubGeocoder{}
	e := newTestEngine(t, geo, nil)

	result, err := e.handleFindFoodSites(context.Background(),
		callTool(map[string]any{"message": "nearest food bank", "lat": 38.936, "lng": -76.994}))
	require.NoError(t, err)
	assert.False(t, result.IsError)
	assert.Contains(t, textContent(t, result), "Near Pantry")
	assert.Zero(t, geo.calls)
}

func TestFindFoodSitesToolMissingMessage(t *testing.T) {
	e := newTestEngine(t, &stubGeocoder{}, nil)

	result, err := e.handleFindFoodSites(context.Background(), callTool(map[string]any{}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestNewMCPServer(t *testing.T) {
	s := NewMCPServer(newTestEngine(t, &stubGeocoder{}, nil))
	require.NotNil(t, s)
}
