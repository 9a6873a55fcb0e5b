package mcpserver

import (
	"context"
	"fmt"
	"strings"

	"storefront/internal/builder"
	"storefront/internal/domain"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerComponentTools() {
	// ── create_component ───────────────────────────────
	s.mcp.AddTool(mcp.NewTool("create_component",
		mcp.WithDescription("Create a component on the current page. Position is auto-calculated if not provided."),
		mcp.WithString("type",
			mcp.Description("Component type: hero, product-grid, text, image, button, header, footer, testimonial, newsletter"),
			mcp.Required(),
		),
		mcp.WithNumber("x", mcp.Description("X position (optional, auto-layout if omitted)")),
		mcp.WithNumber("y", mcp.Description("Y position (optional, auto-layout if omitted)")),
		mcp.WithNumber("width", mcp.Description("Width (optional, uses the type's default)")),
		mcp.WithNumber("height", mcp.Description("Height (optional, uses the type's default)")),
		mcp.WithString("props", mcp.Description("JSON object of initial props, merged over the type's defaults (optional)")),
	), s.handleCreateComponent)

	// ── update_component ───────────────────────────────
	s.mcp.AddTool(mcp.NewTool("update_component",
		mcp.WithDescription("Update a component's props. Props are shallow-merged over the existing ones."),
		mcp.WithString("componentId", mcp.Description("Component ID"), mcp.Required()),
		mcp.WithString("props", mcp.Description("JSON object of props to set"), mcp.Required()),
	), s.handleUpdateComponent)

	// ── list_components ────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("list_components",
		mcp.WithDescription("List all components on the current page, optionally filtered by type"),
		mcp.WithString("type", mcp.Description("Filter by component type (optional)")),
	), s.handleListComponents)

	// ── delete_component (destructive) ─────────────────
	s.mcp.AddTool(mcp.NewTool("delete_component",
		mcp.WithDescription("🛑 DESTRUCTIVE: Delete a component and its children. Requires user approval."),
		mcp.WithString("componentId", mcp.Description("Component ID to delete"), mcp.Required()),
		mcp.WithToolAnnotation(mcp.ToolAnnotation{DestructiveHint: boolPtr(true)}),
	), s.handleDeleteComponent)

	// ── move_component ─────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("move_component",
		mcp.WithDescription("Move a component to a new position on the canvas"),
		mcp.WithString("componentId", mcp.Description("Component ID"), mcp.Required()),
		mcp.WithNumber("x", mcp.Description("New X position"), mcp.Required()),
		mcp.WithNumber("y", mcp.Description("New Y position"), mcp.Required()),
	), s.handleMoveComponent)

	// ── resize_component ───────────────────────────────
	s.mcp.AddTool(mcp.NewTool("resize_component",
		mcp.WithDescription("Resize a component"),
		mcp.WithString("componentId", mcp.Description("Component ID"), mcp.Required()),
		mcp.WithNumber("width", mcp.Description("New width"), mcp.Required()),
		mcp.WithNumber("height", mcp.Description("New height"), mcp.Required()),
	), s.handleResizeComponent)

	// ── batch_move_components ──────────────────────────
	s.mcp.AddTool(mcp.NewTool("batch_move_components",
		mcp.WithDescription("Move multiple components by a relative offset (dx, dy)"),
		mcp.WithString("componentIds",
			mcp.Description("Comma-separated component IDs"),
			mcp.Required(),
		),
		mcp.WithNumber("dx", mcp.Description("Horizontal offset"), mcp.Required()),
		mcp.WithNumber("dy", mcp.Description("Vertical offset"), mcp.Required()),
	), s.handleBatchMoveComponents)

	// ── arrange_components ─────────────────────────────
	s.mcp.AddTool(mcp.NewTool("arrange_components",
		mcp.WithDescription("Auto-arrange all components on the current page using a grid layout"),
		mcp.WithNumber("startX", mcp.Description("Starting X position (default 0)")),
		mcp.WithNumber("startY", mcp.Description("Starting Y position (default 0)")),
	), s.handleArrangeComponents)

	// ── duplicate_component ────────────────────────────
	s.mcp.AddTool(mcp.NewTool("duplicate_component",
		mcp.WithDescription("Duplicate a component and its subtree, offset slightly from the original"),
		mcp.WithString("componentId", mcp.Description("Component ID to duplicate"), mcp.Required()),
	), s.handleDuplicateComponent)

	// ── reorder_component ──────────────────────────────
	s.mcp.AddTool(mcp.NewTool("reorder_component",
		mcp.WithDescription("Move a root component one step up or down in the page's render order"),
		mcp.WithString("componentId", mcp.Description("Component ID"), mcp.Required()),
		mcp.WithString("direction", mcp.Description("\"up\" or \"down\""), mcp.Required()),
	), s.handleReorderComponent)
}

func boolPtr(v bool) *bool { return &v }

// ── Handlers ───────────────────────────────────────────────

func (s *Server) handleCreateComponent(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	componentType, _ := args["type"].(string)
	if componentType == "" {
		return nil, fmt.Errorf("type is required")
	}

	c, err := s.registry.NewComponent(domain.ComponentType(componentType))
	if err != nil {
		return nil, err
	}

	// Merge initial props over the type's defaults
	if propsJSON, ok := args["props"].(string); ok && propsJSON != "" {
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

	c.Size.Width = getFloat(args, "width", c.Size.Width)
	c.Size.Height = getFloat(args, "height", c.Size.Height)

	// Auto-layout if position not provided
	x, hasX := args["x"].(float64)
	y, hasY := args["y"].(float64)
	if !hasX || !hasY {
		var existing []*domain.Component
		if page := s.builder.Store().CurrentPage(); page != nil {
			existing = page.Components
		}
		x, y = s.layout.NextPosition(existing, c.Size.Width, c.Size.Height)
	}
	c.Position = domain.Position{X: x, Y: y}

	if err := s.builder.AddComponent(ctx, c); err != nil {
		return nil, fmt.Errorf("create component: %w", err)
	}

	if page := s.builder.Store().CurrentPage(); page != nil {
		s.emitCanvasChanged(ctx, page.ID)
	}
	return jsonResult(c)
}

func (s *Server) handleUpdateComponent(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	c, err := s.getComponentForTool(args)
	if err != nil {
		return nil, err
	}

	propsJSON, _ := args["props"].(string)
	var props map[string]any
	if err := parseJSON(propsJSON, &props); err != nil {
		return nil, fmt.Errorf("invalid props JSON: %w", err)
	}

	if err := s.builder.UpdateComponent(ctx, c.ID, builder.ComponentPatch{Props: props}); err != nil {
		return nil, fmt.Errorf("update component: %w", err)
	}

	page, _ := s.currentPage()
	if page != nil {
		s.emitCanvasChanged(ctx, page.ID)
	}
	return jsonResult(s.builder.Store().FindComponent(c.ID))
}

func (s *Server) handleListComponents(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	page, err := s.currentPage()
	if err != nil {
		return nil, err
	}

	filterType := req.GetString("type", "")
	var summaries []componentSummary
	for _, root := range page.Components {
		root.Walk(func(c *domain.Component) bool {
			if filterType == "" || string(c.Type) == filterType {
				summaries = append(summaries, summarizeComponent(c))
			}
			return true
		})
	}
	return jsonResult(summaries)
}

func (s *Server) handleDeleteComponent(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	c, err := s.getComponentForTool(args)
	if err != nil {
		return nil, err
	}

	// Require approval (with metadata for frontend highlight)
	meta := fmt.Sprintf(`{"componentIds":["%s"]}`, c.ID)
	approved, err := s.approval.Request("delete_component",
		fmt.Sprintf("Delete %s component %s", c.Type, c.ID), meta)
	if err != nil || !approved {
		return textResult("Action rejected by user"), nil
	}

	if err := s.builder.RemoveComponent(ctx, c.ID); err != nil {
		return nil, fmt.Errorf("delete component: %w", err)
	}

	page, _ := s.currentPage()
	if page != nil {
		s.emitCanvasChanged(ctx, page.ID)
	}
	return textResult(fmt.Sprintf("Component %s deleted", c.ID)), nil
}

func (s *Server) handleMoveComponent(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	c, err := s.getComponentForTool(args)
	if err != nil {
		return nil, err
	}

	x := getFloat(args, "x", c.Position.X)
	y := getFloat(args, "y", c.Position.Y)

	if err := s.builder.MoveComponent(ctx, c.ID, domain.Position{X: x, Y: y}); err != nil {
		return nil, fmt.Errorf("move component: %w", err)
	}

	page, _ := s.currentPage()
	if page != nil {
		s.emitCanvasChanged(ctx, page.ID)
	}
	return textResult(fmt.Sprintf("Component %s moved to (%.0f, %.0f)", c.ID, x, y)), nil
}

func (s *Server) handleResizeComponent(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	c, err := s.getComponentForTool(args)
	if err != nil {
		return nil, err
	}

	w := getFloat(args, "width", c.Size.Width)
	h := getFloat(args, "height", c.Size.Height)

	if err := s.builder.ResizeComponent(ctx, c.ID, domain.Size{Width: w, Height: h}); err != nil {
		return nil, fmt.Errorf("resize component: %w", err)
	}

	page, _ := s.currentPage()
	if page != nil {
		s.emitCanvasChanged(ctx, page.ID)
	}
	return textResult(fmt.Sprintf("Component %s resized to (%.0f × %.0f)", c.ID, w, h)), nil
}

func (s *Server) handleBatchMoveComponents(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	idsStr, _ := args["componentIds"].(string)
	dx := getFloat(args, "dx", 0)
	dy := getFloat(args, "dy", 0)

	ids := splitIDs(idsStr)
	if len(ids) == 0 {
		return nil, fmt.Errorf("componentIds is required")
	}

	store := s.builder.Store()
	moved := 0
	for _, id := range ids {
		c := store.FindComponent(id)
		if c == nil {
			continue
		}
		pos := domain.Position{X: c.Position.X + dx, Y: c.Position.Y + dy}
		if err := s.builder.MoveComponent(ctx, id, pos); err != nil {
			return nil, fmt.Errorf("move %s: %w", id, err)
		}
		moved++
	}

	page, _ := s.currentPage()
	if page != nil {
		s.emitCanvasChanged(ctx, page.ID)
	}
	return textResult(fmt.Sprintf("Moved %d components by (%.0f, %.0f)", moved, dx, dy)), nil
}

func (s *Server) handleArrangeComponents(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	page, err := s.currentPage()
	if err != nil {
		return nil, err
	}

	startX := getFloat(args, "startX", 0)
	startY := getFloat(args, "startY", 0)

	// Arrange clones, then apply as regular moves so the revision
	// history sees the change.
	clones := make([]*domain.Component, len(page.Components))
	for i, c := range page.Components {
		clones[i] = c.Clone()
	}
	s.layout.ArrangeGroup(clones, startX, startY)

	for _, c := range clones {
		if err := s.builder.MoveComponent(ctx, c.ID, c.Position); err != nil {
			return nil, fmt.Errorf("arrange %s: %w", c.ID, err)
		}
	}

	s.emitCanvasChanged(ctx, page.ID)
	return textResult(fmt.Sprintf("Arranged %d components", len(clones))), nil
}

func (s *Server) handleDuplicateComponent(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	c, err := s.getComponentForTool(args)
	if err != nil {
		return nil, err
	}

	clone, err := s.builder.DuplicateComponent(ctx, c.ID)
	if err != nil {
		return nil, fmt.Errorf("duplicate component: %w", err)
	}

	page, _ := s.currentPage()
	if page != nil {
		s.emitCanvasChanged(ctx, page.ID)
	}
	return jsonResult(clone)
}

func (s *Server) handleReorderComponent(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	c, err := s.getComponentForTool(args)
	if err != nil {
		return nil, err
	}

	direction := strings.ToLower(req.GetString("direction", ""))
	switch direction {
	case "up":
		err = s.builder.MoveComponentUp(ctx, c.ID)
	case "down":
		err = s.builder.MoveComponentDown(ctx, c.ID)
	default:
		return nil, fmt.Errorf("direction must be \"up\" or \"down\"")
	}
	if err != nil {
		return nil, fmt.Errorf("reorder component: %w", err)
	}

	page, _ := s.currentPage()
	if page != nil {
		s.emitCanvasChanged(ctx, page.ID)
	}
	return textResult(fmt.Sprintf("Component %s moved %s", c.ID, direction)), nil
}

// componentSummary keeps list output small; props and children are elided.
type componentSummary struct {
	ID       string  `json:"id"`
	Type     string  `json:"type"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	Children int     `json:"children"`
}

func summarizeComponent(c *domain.Component) componentSummary {
	return componentSummary{
		ID:       c.ID,
		Type:     string(c.Type),
		X:        c.Position.X,
		Y:        c.Position.Y,
		Width:    c.Size.Width,
		Height:   c.Size.Height,
		Children: len(c.Children),
	}
}
