package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/gnana997/uireg/pkg/registry"
)

const defaultSearchLimit = 10

type categorySummary struct {
	Name           string `json:"name"`
	ComponentCount int    `json:"component_count"`
}

type componentSummary struct {
	Name        string        `json:"name"`
	Category    string        `json:"category"`
	Kind        registry.Kind `json:"kind"`
	Description string        `json:"description,omitempty"`
	PropCount   int           `json:"prop_count"`
	SubCount    int           `json:"sub_component_count,omitempty"`
}

type searchHit struct {
	componentSummary
	Score int `json:"score"`
}

type subComponentDetail struct {
	Parent string `json:"parent"`
	Name   string `json:"name"`
	*registry.SubComponentSchema
}

func (s *Server) handleListCategories(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	names := make([]string, 0, len(s.reg.Index.ByCategory))
	for name := range s.reg.Index.ByCategory {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]categorySummary, 0, len(names))
	for _, name := range names {
		out = append(out, categorySummary{Name: name, ComponentCount: len(s.reg.Index.ByCategory[name])})
	}
	return jsonResult(out)
}

func (s *Server) handleListComponents(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	category := req.GetString("category", "")
	kind := registry.Kind(req.GetString("kind", ""))
	keyword := strings.ToLower(req.GetString("keyword", ""))

	out := []componentSummary{}
	for _, name := range s.reg.Index.ByName {
		schema, ok := s.reg.Lookup(name)
		if !ok {
			continue
		}
		if category != "" && schema.Category != category {
			continue
		}
		if kind != "" && schema.Kind != kind {
			continue
		}
		if keyword != "" &&
			!strings.Contains(strings.ToLower(schema.Name), keyword) &&
			!strings.Contains(strings.ToLower(schema.Description), keyword) {
			continue
		}
		out = append(out, summarize(schema))
	}
	return jsonResult(out)
}

func (s *Server) handleGetComponent(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if parent, member, ok := strings.Cut(name, "."); ok {
		sub, err := s.subComponent(parent, member)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return jsonResult(subComponentDetail{Parent: parent, Name: member, SubComponentSchema: sub})
	}

	if block, ok := s.reg.Blocks[name]; ok {
		return jsonResult(block)
	}
	if comp, ok := s.reg.Components[name]; ok {
		return jsonResult(comp)
	}
	return mcp.NewToolResultError(notFound(name)), nil
}

func (s *Server) handleGetComponentExamples(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if parent, member, ok := strings.Cut(name, "."); ok {
		sub, err := s.subComponent(parent, member)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		examples := sub.Examples
		if len(examples) == 0 {
			// Members are usually shown inside the parent's examples.
			if schema, ok := s.reg.Lookup(parent); ok {
				examples = schema.Examples
			}
		}
		return jsonResult(nonNil(examples))
	}

	schema, ok := s.reg.Lookup(name)
	if !ok {
		return mcp.NewToolResultError(notFound(name)), nil
	}
	return jsonResult(nonNil(schema.Examples))
}

func (s *Server) handleSearchComponents(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	terms := strings.Fields(strings.ToLower(query))
	if len(terms) == 0 {
		return mcp.NewToolResultError("query must not be empty"), nil
	}
	limit := req.GetInt("limit", defaultSearchLimit)
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	hits := []searchHit{}
	for _, name := range s.reg.Index.ByName {
		schema, ok := s.reg.Lookup(name)
		if !ok {
			continue
		}
		if score := scoreSchema(schema, terms); score > 0 {
			hits = append(hits, searchHit{componentSummary: summarize(schema), Score: score})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Score > hits[j].Score })
	if len(hits) > limit {
		hits = hits[:limit]
	}
	return jsonResult(hits)
}

func (s *Server) subComponent(parent, member string) (*registry.SubComponentSchema, error) {
	schema, ok := s.reg.Lookup(parent)
	if !ok {
		return nil, fmt.Errorf("%s", notFound(parent))
	}
	if schema.SubComponents != nil {
		if sub, ok := schema.SubComponents.Get(member); ok {
			return sub, nil
		}
	}
	return nil, fmt.Errorf("%s has no sub-component %q", parent, member)
}

// scoreSchema ranks name matches above description, prop and variant
// matches. Every term must match somewhere.
func scoreSchema(schema *registry.ComponentSchema, terms []string) int {
	name := strings.ToLower(schema.Name)
	desc := strings.ToLower(schema.Description)

	total := 0
	for _, term := range terms {
		score := 0
		switch {
		case name == term:
			score = 10
		case strings.HasPrefix(name, term):
			score = 6
		case strings.Contains(name, term):
			score = 4
		}
		if strings.Contains(desc, term) {
			score += 2
		}
		if schema.Props != nil {
			for pair := schema.Props.Oldest(); pair != nil; pair = pair.Next() {
				if strings.Contains(strings.ToLower(pair.Key), term) ||
					slices.Contains(pair.Value.Values, term) {
					score++
					break
				}
			}
		}
		if schema.SubComponents != nil {
			for pair := schema.SubComponents.Oldest(); pair != nil; pair = pair.Next() {
				if strings.Contains(strings.ToLower(pair.Key), term) {
					score++
					break
				}
			}
		}
		if score == 0 {
			return 0
		}
		total += score
	}
	return total
}

func summarize(schema *registry.ComponentSchema) componentSummary {
	out := componentSummary{
		Name:        schema.Name,
		Category:    schema.Category,
		Kind:        schema.Kind,
		Description: schema.Description,
	}
	if schema.Props != nil {
		out.PropCount = schema.Props.Len()
	}
	if schema.SubComponents != nil {
		out.SubCount = schema.SubComponents.Len()
	}
	return out
}

func notFound(name string) string {
	return fmt.Sprintf("component %q not found", name)
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal result: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}
