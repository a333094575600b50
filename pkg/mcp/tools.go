package mcp

import "github.com/mark3labs/mcp-go/mcp"

func listCategoriesTool() mcp.Tool {
	return mcp.NewTool("list_categories",
		mcp.WithDescription("Returns category names and how many components and blocks each holds"),
	)
}

func listComponentsTool() mcp.Tool {
	return mcp.NewTool("list_components",
		mcp.WithDescription("Lists components and blocks, optionally filtered by category, kind or keyword"),
		mcp.WithString("category", mcp.Description("Only entries in this category")),
		mcp.WithString("kind", mcp.Description("component or block"), mcp.Enum("component", "block")),
		mcp.WithString("keyword", mcp.Description("Case-insensitive match on name or description")),
	)
}

func getComponentTool() mcp.Tool {
	return mcp.NewTool("get_component",
		mcp.WithDescription("Full schema of one component or block: props, variants, sub-components, colors. Dotted names such as Dialog.Trigger return the sub-component"),
		mcp.WithString("name", mcp.Required(), mcp.Description("Component, block or Parent.Member name")),
	)
}

func getComponentExamplesTool() mcp.Tool {
	return mcp.NewTool("get_component_examples",
		mcp.WithDescription("Usage examples of one component, block or sub-component"),
		mcp.WithString("name", mcp.Required(), mcp.Description("Component, block or Parent.Member name")),
	)
}

func searchComponentsTool() mcp.Tool {
	return mcp.NewTool("search_components",
		mcp.WithDescription("Ranked search over names, descriptions, prop names and variant values"),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search terms")),
		mcp.WithNumber("limit", mcp.Description("Maximum results, default 10")),
	)
}
