package mcpserver

import (
	"context"
	"fmt"
	"strings"

	"storefront/internal/domain"
	"storefront/internal/service"

	"github.com/mark3labs/mcp-go/mcp"
)

// registerPluginTools iterates all registered component plugins and
// auto-registers MCP tools for them. If a plugin implements
// MCPCapablePlugin, its custom tools are registered. Otherwise a generic
// create tool is created for the type.
func (s *Server) registerPluginTools() {
	if s.registry == nil {
		return
	}

	s.registry.ForEach(func(p service.ComponentPlugin) {
		componentType := p.ComponentType()

		// Check if plugin declares custom MCP tools
		if mcpPlugin, ok := p.(service.MCPCapablePlugin); ok {
			for _, toolDef := range mcpPlugin.MCPTools() {
				def := toolDef // capture for closure
				tool := mcp.NewTool(def.Name, mcp.WithDescription(def.Description))
				if def.Destructive {
					tool = mcp.NewTool(def.Name,
						mcp.WithDescription("🛑 DESTRUCTIVE: "+def.Description),
						mcp.WithToolAnnotation(mcp.ToolAnnotation{DestructiveHint: boolPtr(true)}),
					)
				}
				s.mcp.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
					if def.Destructive {
						approved, err := s.approval.Request(def.Name, def.Description)
						if err != nil || !approved {
							return textResult("Action rejected by user"), nil
						}
					}
					result, err := def.Handler(req.GetArguments())
					if err != nil {
						return nil, err
					}
					return jsonResult(result)
				})
			}
			return
		}

		// Generic fallback: add_{type}_section for any plugin component type
		toolName := fmt.Sprintf("add_%s_section", strings.ReplaceAll(string(componentType), "-", "_"))
		s.mcp.AddTool(mcp.NewTool(
			toolName,
			mcp.WithDescription(fmt.Sprintf("Add a %s component to the current page with its default props", p.Label())),
			mcp.WithString("props", mcp.Description("JSON object of props to merge over the defaults (optional)")),
		), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			c, err := s.registry.NewComponent(componentType)
			if err != nil {
				return nil, err
			}
			if propsJSON := req.GetString("props", ""); propsJSON != "" {
				var props map[string]any
				if err := parseJSON(propsJSON, &props); err != nil {
					return nil, fmt.Errorf("invalid props JSON: %w", err)
				}
				if c.Props == nil {
					c.Props = make(map[string]any, len(props))
				}
				for k, v := range props {
					c.Props[k] = v
				}
			}

			var existing []*domain.Component
			if page := s.builder.Store().CurrentPage(); page != nil {
				existing = page.Components
			}
			x, y := s.layout.NextPosition(existing, c.Size.Width, c.Size.Height)
			c.Position = domain.Position{X: x, Y: y}

			if err := s.builder.AddComponent(ctx, c); err != nil {
				return nil, err
			}
			if page := s.builder.Store().CurrentPage(); page != nil {
				s.emitCanvasChanged(ctx, page.ID)
			}
			return jsonResult(c)
		})
	})
}
