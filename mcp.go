package siteseeker

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/nourishdc/siteseeker/catalog"
)

// NewMCPServer exposes the lookup pipeline as an MCP tool for agent
// clients. The tool shares the /api/chat semantics exactly.
func NewMCPServer(e *Engine) *server.MCPServer {
	s := server.NewMCPServer("siteseeker", Version)

	tool := mcp.NewTool("find_food_sites",
		mcp.WithDescription("Find nearby food distribution sites from a natural-language request. "+
			"Include a 5-digit ZIP code in the message or pass device coordinates."),
		mcp.WithString("message",
			mcp.Required(),
			mcp.Description("The user's request, e.g. \"closest food bank 20017\""),
		),
		mcp.WithNumber("lat", mcp.Description("Device latitude, used when no ZIP code is present")),
		mcp.WithNumber("lng", mcp.Description("Device longitude, used when no ZIP code is present")),
	)
	s.AddTool(tool, e.handleFindFoodSites)

	return s
}

func (e *Engine) handleFindFoodSites(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	message, err := req.RequireString("message")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var device *catalog.Coordinates
	lat := req.GetFloat("lat", 0)
	lng := req.GetFloat("lng", 0)
	if lat != 0 || lng != 0 {
		device = &catalog.Coordinates{Lat: lat, Lng: lng}
	}

	reply, perr := e.Process(ctx, message, device)
	if perr != nil {
		// The reply already carries the user-facing apology.
		return mcp.NewToolResultError(reply), nil
	}
	return mcp.NewToolResultText(reply), nil
}
