package mcp

import (
	"context"
	"encoding/json"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// shortStringMax bounds logged argument strings; longer values are logged
// as their length.
const shortStringMax = 64

// loggingMiddleware records every tool call with its duration and response
// size.
func (s *Server) loggingMiddleware() server.ToolHandlerMiddleware {
	return func(next server.ToolHandlerFunc) server.ToolHandlerFunc {
		return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			start := time.Now()
			result, err := next(ctx, req)

			attrs := []any{
				"tool", req.Params.Name,
				"params", sanitizeParams(req.GetArguments()),
				"ms", time.Since(start).Milliseconds(),
				"response_bytes", responseBytes(result),
			}
			if err != nil {
				attrs = append(attrs, "error", err)
			}
			s.logger.Debug("tool call", attrs...)

			return result, err
		}
	}
}

func sanitizeParams(args map[string]any) map[string]any {
	out := make(map[string]any, len(args))
	for k, v := range args {
		if str, ok := v.(string); ok && len(str) > shortStringMax {
			out[k+"_len"] = len(str)
		} else {
			out[k] = v
		}
	}
	return out
}

func responseBytes(result *mcp.CallToolResult) int {
	if result == nil {
		return 0
	}
	b, err := json.Marshal(result.Content)
	if err != nil {
		return 0
	}
	return len(b)
}
