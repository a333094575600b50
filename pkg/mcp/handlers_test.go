package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnana997/uireg/pkg/registry"
	"github.com/gnana997/uireg/pkg/util"
)

// --- helpers ---

func testServer() *Server {
	buttonProps := registry.NewProps()
	buttonProps.Set("variant", &registry.PropSchema{Type: "enum", Values: []string{"default", "destructive"}, Default: "default"})
	buttonProps.Set("size", &registry.PropSchema{Type: "string"})

	dialogSubs := registry.NewSubComponents()
	dialogSubs.Set("Trigger", &registry.SubComponentSchema{
		Description: "Opens the dialog",
		Props:       registry.NewProps(),
		Examples:    []string{},
		Passthrough: true,
		Primitive:   "@radix-ui/react-dialog#Trigger",
	})
	dialogSubs.Set("Content", &registry.SubComponentSchema{
		Description: "Content container",
		Props:       registry.NewProps(),
		Examples:    []string{"<Dialog.Content>...</Dialog.Content>"},
	})

	reg := registry.Assemble([]registry.Unit{
		{Schema: &registry.ComponentSchema{
			Name:        "Button",
			Category:    "actions",
			Kind:        registry.KindComponent,
			Description: "A clickable button",
			Props:       buttonProps,
			Examples:    []string{"<Button>Click</Button>"},
		}},
		{Schema: &registry.ComponentSchema{
			Name:          "Dialog",
			Category:      "overlay",
			Kind:          registry.KindComponent,
			Description:   "A modal dialog overlay",
			Props:         registry.NewProps(),
			Examples:      []string{"<Dialog>...</Dialog>"},
			SubComponents: dialogSubs,
		}},
		{
			Schema: &registry.ComponentSchema{
				Name:        "LoginForm",
				Category:    "blocks",
				Kind:        registry.KindBlock,
				Description: "Email and password sign-in",
				Props:       registry.NewProps(),
			},
			Files:        []string{"blocks/login-form/login-form.tsx"},
			Dependencies: []string{"Button"},
		},
	}, nil)

	return NewServer(reg, util.Discard())
}

func callTool(t *testing.T, s *Server, req mcp.CallToolRequest) *mcp.CallToolResult {
	t.Helper()
	var handler func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error)

	switch req.Params.Name {
	case "list_categories":
		handler = s.handleListCategories
	case "list_components":
		handler = s.handleListComponents
	case "get_component":
		handler = s.handleGetComponent
	case "get_component_examples":
		handler = s.handleGetComponentExamples
	case "search_components":
		handler = s.handleSearchComponents
	default:
		t.Fatalf("unknown tool: %s", req.Params.Name)
	}

	result, err := s.loggingMiddleware()(handler)(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, result)
	return result
}

func makeRequest(toolName string, args map[string]any) mcp.CallToolRequest {
	var arguments any
	if args != nil {
		arguments = args
	}
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      toolName,
			Arguments: arguments,
		},
	}
}

func resultJSON(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, result.Content)
	textContent, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected TextContent, got %T", result.Content[0])
	return textContent.Text
}

// --- list_categories ---

func TestHandleListCategories(t *testing.T) {
	s := testServer()
	result := callTool(t, s, makeRequest("list_categories", nil))
	assert.False(t, result.IsError)

	var cats []map[string]any
	require.NoError(t, json.Unmarshal([]byte(resultJSON(t, result)), &cats))
	require.Len(t, cats, 3)
	assert.Equal(t, "actions", cats[0]["name"])
	assert.Equal(t, float64(1), cats[0]["component_count"])
	assert.Equal(t, "blocks", cats[1]["name"])
}

// --- list_components ---

func TestHandleListComponents_NoFilter(t *testing.T) {
	s := testServer()
	result := callTool(t, s, makeRequest("list_components", nil))
	assert.False(t, result.IsError)

	var comps []map[string]any
	require.NoError(t, json.Unmarshal([]byte(resultJSON(t, result)), &comps))
	require.Len(t, comps, 3)
	assert.Equal(t, "Button", comps[0]["name"])
	assert.Equal(t, float64(2), comps[0]["prop_count"])
}

func TestHandleListComponents_Filters(t *testing.T) {
	tests := []struct {
		name string
		args map[string]any
		want []string
	}{
		{"category", map[string]any{"category": "actions"}, []string{"Button"}},
		{"kind", map[string]any{"kind": "block"}, []string{"LoginForm"}},
		{"keyword in description", map[string]any{"keyword": "modal"}, []string{"Dialog"}},
		{"keyword in name", map[string]any{"keyword": "BUTT"}, []string{"Button"}},
		{"no match", map[string]any{"category": "forms"}, []string{}},
	}

	s := testServer()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := callTool(t, s, makeRequest("list_components", tt.args))
			var comps []map[string]any
			require.NoError(t, json.Unmarshal([]byte(resultJSON(t, result)), &comps))
			names := []string{}
			for _, c := range comps {
				names = append(names, c["name"].(string))
			}
			assert.Equal(t, tt.want, names)
		})
	}
}

// --- get_component ---

func TestHandleGetComponent(t *testing.T) {
	s := testServer()
	result := callTool(t, s, makeRequest("get_component", map[string]any{"name": "Button"}))
	assert.False(t, result.IsError)

	var comp registry.ComponentSchema
	require.NoError(t, json.Unmarshal([]byte(resultJSON(t, result)), &comp))
	assert.Equal(t, "Button", comp.Name)
	variant, ok := comp.Props.Get("variant")
	require.True(t, ok)
	assert.Equal(t, []string{"default", "destructive"}, variant.Values)
}

func TestHandleGetComponent_Block(t *testing.T) {
	s := testServer()
	result := callTool(t, s, makeRequest("get_component", map[string]any{"name": "LoginForm"}))
	assert.False(t, result.IsError)

	var block map[string]any
	require.NoError(t, json.Unmarshal([]byte(resultJSON(t, result)), &block))
	assert.Equal(t, []any{"Button"}, block["dependencies"])
	assert.Equal(t, []any{"blocks/login-form/login-form.tsx"}, block["files"])
}

func TestHandleGetComponent_SubComponent(t *testing.T) {
	s := testServer()
	result := callTool(t, s, makeRequest("get_component", map[string]any{"name": "Dialog.Trigger"}))
	assert.False(t, result.IsError)

	var sub map[string]any
	require.NoError(t, json.Unmarshal([]byte(resultJSON(t, result)), &sub))
	assert.Equal(t, "Dialog", sub["parent"])
	assert.Equal(t, "Trigger", sub["name"])
	assert.Equal(t, true, sub["passthrough"])
}

func TestHandleGetComponent_Errors(t *testing.T) {
	s := testServer()
	for _, args := range []map[string]any{
		nil,
		{"name": "NonExistent"},
		{"name": "Dialog.Missing"},
		{"name": "Ghost.Trigger"},
	} {
		result := callTool(t, s, makeRequest("get_component", args))
		assert.True(t, result.IsError, "%v", args)
	}
}

// --- get_component_examples ---

func TestHandleGetComponentExamples(t *testing.T) {
	s := testServer()
	result := callTool(t, s, makeRequest("get_component_examples", map[string]any{"name": "Button"}))
	assert.False(t, result.IsError)

	var examples []string
	require.NoError(t, json.Unmarshal([]byte(resultJSON(t, result)), &examples))
	assert.Equal(t, []string{"<Button>Click</Button>"}, examples)
}

func TestHandleGetComponentExamples_SubComponent(t *testing.T) {
	s := testServer()

	result := callTool(t, s, makeRequest("get_component_examples", map[string]any{"name": "Dialog.Content"}))
	var own []string
	require.NoError(t, json.Unmarshal([]byte(resultJSON(t, result)), &own))
	assert.Equal(t, []string{"<Dialog.Content>...</Dialog.Content>"}, own)

	result = callTool(t, s, makeRequest("get_component_examples", map[string]any{"name": "Dialog.Trigger"}))
	var inherited []string
	require.NoError(t, json.Unmarshal([]byte(resultJSON(t, result)), &inherited))
	assert.Equal(t, []string{"<Dialog>...</Dialog>"}, inherited, "falls back to the parent's examples")
}

func TestHandleGetComponentExamples_Empty(t *testing.T) {
	s := testServer()
	result := callTool(t, s, makeRequest("get_component_examples", map[string]any{"name": "LoginForm"}))
	assert.False(t, result.IsError)
	assert.Equal(t, "[]", resultJSON(t, result))
}

func TestHandleGetComponentExamples_NotFound(t *testing.T) {
	s := testServer()
	result := callTool(t, s, makeRequest("get_component_examples", map[string]any{"name": "NonExistent"}))
	assert.True(t, result.IsError)
}

// --- search_components ---

func TestHandleSearchComponents(t *testing.T) {
	s := testServer()
	result := callTool(t, s, makeRequest("search_components", map[string]any{"query": "dialog"}))
	assert.False(t, result.IsError)

	var hits []map[string]any
	require.NoError(t, json.Unmarshal([]byte(resultJSON(t, result)), &hits))
	require.Len(t, hits, 1)
	assert.Equal(t, "Dialog", hits[0]["name"])
}

func TestHandleSearchComponents_Ranking(t *testing.T) {
	s := testServer()
	// "destructive" only appears as a variant value of Button.
	result := callTool(t, s, makeRequest("search_components", map[string]any{"query": "destructive"}))
	var hits []map[string]any
	require.NoError(t, json.Unmarshal([]byte(resultJSON(t, result)), &hits))
	require.Len(t, hits, 1)
	assert.Equal(t, "Button", hits[0]["name"])

	// Every term must match.
	result = callTool(t, s, makeRequest("search_components", map[string]any{"query": "button modal"}))
	assert.Equal(t, "[]", resultJSON(t, result))
}

func TestHandleSearchComponents_Limit(t *testing.T) {
	s := testServer()
	result := callTool(t, s, makeRequest("search_components", map[string]any{"query": "o", "limit": 2}))
	var hits []map[string]any
	require.NoError(t, json.Unmarshal([]byte(resultJSON(t, result)), &hits))
	assert.Len(t, hits, 2)
}

func TestHandleSearchComponents_EmptyQuery(t *testing.T) {
	s := testServer()
	assert.True(t, callTool(t, s, makeRequest("search_components", map[string]any{"query": "  "})).IsError)
	assert.True(t, callTool(t, s, makeRequest("search_components", nil)).IsError)
}

func TestSanitizeParams(t *testing.T) {
	long := make([]byte, shortStringMax+1)
	for i := range long {
		long[i] = 'x'
	}
	out := sanitizeParams(map[string]any{"name": "Button", "query": string(long), "limit": 3})
	assert.Equal(t, "Button", out["name"])
	assert.Equal(t, shortStringMax+1, out["query_len"])
	assert.NotContains(t, out, "query")
	assert.Equal(t, 3, out["limit"])
}
