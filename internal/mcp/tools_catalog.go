package mcpserver

import (
	"context"
	"fmt"
	"strings"

	"storefront/internal/service"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerCatalogTools() {
	// ── list_products ──────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("list_products",
		mcp.WithDescription("List catalog products, optionally filtered by category or a name/description search"),
		mcp.WithString("category", mcp.Description("Filter by category (optional)")),
		mcp.WithString("query", mcp.Description("Case-insensitive match against name and description (optional)")),
	), s.handleListProducts)

	// ── get_product ────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("get_product",
		mcp.WithDescription("Get a single product by ID"),
		mcp.WithString("productId", mcp.Description("Product ID"), mcp.Required()),
	), s.handleGetProduct)

	// ── list_categories ────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("list_categories",
		mcp.WithDescription("List the distinct product categories in the catalog"),
	), s.handleListCategories)

	// ── create_product ─────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("create_product",
		mcp.WithDescription("Add a product to the catalog"),
		mcp.WithString("name", mcp.Description("Product name"), mcp.Required()),
		mcp.WithString("sku", mcp.Description("Stock keeping unit (optional)")),
		mcp.WithString("description", mcp.Description("Product description (optional)")),
		mcp.WithString("category", mcp.Description("Category (optional)")),
		mcp.WithNumber("price", mcp.Description("Price (optional, defaults to 0)")),
		mcp.WithString("imageUrl", mcp.Description("Image URL (optional)")),
		mcp.WithBoolean("inStock", mcp.Description("Stock status (optional, defaults to true)")),
	), s.handleCreateProduct)

	// ── update_product ─────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("update_product",
		mcp.WithDescription("Update a product. Omitted fields keep their current values."),
		mcp.WithString("productId", mcp.Description("Product ID"), mcp.Required()),
		mcp.WithString("name", mcp.Description("New name (optional)")),
		mcp.WithString("sku", mcp.Description("New SKU (optional)")),
		mcp.WithString("description", mcp.Description("New description (optional)")),
		mcp.WithString("category", mcp.Description("New category (optional)")),
		mcp.WithNumber("price", mcp.Description("New price (optional)")),
		mcp.WithString("imageUrl", mcp.Description("New image URL (optional)")),
		mcp.WithBoolean("inStock", mcp.Description("New stock status (optional)")),
	), s.handleUpdateProduct)

	// ── delete_product (destructive) ───────────────────
	s.mcp.AddTool(mcp.NewTool("delete_product",
		mcp.WithDescription("🛑 DESTRUCTIVE: Delete a product from the catalog. Requires user approval."),
		mcp.WithString("productId", mcp.Description("Product ID to delete"), mcp.Required()),
		mcp.WithToolAnnotation(mcp.ToolAnnotation{DestructiveHint: boolPtr(true)}),
	), s.handleDeleteProduct)
}

func (s *Server) handleListProducts(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	products, err := s.catalog.ListProducts()
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	category := req.GetString("category", "")
	query := strings.ToLower(req.GetString("query", ""))

	filtered := products[:0]
	for _, p := range products {
		if category != "" && p.Category != category {
			continue
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(p.Name), query) &&
			!strings.Contains(strings.ToLower(p.Description), query) {
			continue
		}
		filtered = append(filtered, p)
	}
	return jsonResult(filtered)
}

func (s *Server) handleGetProduct(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	productID := req.GetString("productId", "")
	if productID == "" {
		return nil, fmt.Errorf("productId is required")
	}
	product, err := s.catalog.GetProduct(productID)
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	return jsonResult(product)
}

func (s *Server) handleListCategories(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	categories, err := s.catalog.Categories()
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return jsonResult(categories)
}

func (s *Server) handleCreateProduct(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	input := service.ProductInput{
		Name:        req.GetString("name", ""),
		SKU:         req.GetString("sku", ""),
		Description: req.GetString("description", ""),
		Category:    req.GetString("category", ""),
		Price:       getFloat(args, "price", 0),
		ImageURL:    req.GetString("imageUrl", ""),
		InStock:     true,
	}
	if v, ok := args["inStock"].(bool); ok {
		input.InStock = v
	}

	product, err := s.catalog.CreateProduct(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	return jsonResult(product)
}

func (s *Server) handleUpdateProduct(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	productID := req.GetString("productId", "")
	if productID == "" {
		return nil, fmt.Errorf("productId is required")
	}

	// Start from the current values so omitted fields survive.
	current, err := s.catalog.GetProduct(productID)
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	input := service.ProductInput{
		Name:        req.GetString("name", current.Name),
		SKU:         req.GetString("sku", current.SKU),
		Description: req.GetString("description", current.Description),
		Category:    req.GetString("category", current.Category),
		Price:       getFloat(args, "price", current.Price),
		ImageURL:    req.GetString("imageUrl", current.ImageURL),
		InStock:     current.InStock,
	}
	if v, ok := args["inStock"].(bool); ok {
		input.InStock = v
	}

	product, err := s.catalog.UpdateProduct(ctx, productID, input)
	if err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}
	return jsonResult(product)
}

func (s *Server) handleDeleteProduct(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	productID := req.GetString("productId", "")
	if productID == "" {
		return nil, fmt.Errorf("productId is required")
	}

	meta := fmt.Sprintf(`{"productIds":["%s"]}`, productID)
	approved, err := s.approval.Request("delete_product",
		fmt.Sprintf("Delete product %s from the catalog", productID), meta)
	if err != nil || !approved {
		return textResult("Action rejected by user"), nil
	}

	if err := s.catalog.DeleteProduct(ctx, productID); err != nil {
		return nil, fmt.Errorf("delete product: %w", err)
	}
	return textResult(fmt.Sprintf("Product %s deleted", productID)), nil
}
