package mcptool

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	mcpGoServer "github.com/mark3labs/mcp-go/server"

	"github.com/i2y/raml2graphql/internal/domain"
	"github.com/i2y/raml2graphql/internal/usecase"
)

// Tool names exposed over MCP.
const (
	ConvertToolName = "convert_api_to_graphql"
	GatherToolName  = "gather_api_structure"
)

// ToolRegisterer defines the interface for registering tools with an MCP server.
type ToolRegisterer interface {
	// AddTool registers a tool and its handler with the server.
	AddTool(tool mcp.Tool, handlerFunc mcpGoServer.ToolHandlerFunc)
}

// Tools exposes schema conversion as MCP tools.
type Tools struct {
	convertUseCase *usecase.ConvertSchemaUseCase
	logger         *slog.Logger
}

// NewTools creates the MCP tool handlers.
func NewTools(convertUC *usecase.ConvertSchemaUseCase, logger *slog.Logger) *Tools {
	return &Tools{
		convertUseCase: convertUC,
		logger:         logger.With("component", "mcp_tools"),
	}
}

// Register adds both conversion tools to s.
func (t *Tools) Register(s ToolRegisterer) {
	s.AddTool(newTool(ConvertToolName,
		"Convert a RAML or OpenAPI description into the text of a GraphQL Query schema."),
		t.HandleConvert)
	s.AddTool(newTool(GatherToolName,
		"Describe the GraphQL Query fields of a RAML or OpenAPI description as JSON."),
		t.HandleGather)
	t.logger.Info("Registered MCP tools.", slog.Int("count", 2))
}

func newTool(name, description string) mcp.Tool {
	return mcp.NewTool(name,
		mcp.WithDescription(description),
		mcp.WithString("source",
			mcp.Required(),
			mcp.Description("File path, http(s) URL or github://owner/repo/path[@ref] of the API description"),
		),
		mcp.WithString("type",
			mcp.Description("Force the source format instead of inferring it from the source"),
			mcp.Enum(string(domain.SchemaTypeRAML), string(domain.SchemaTypeOpenAPI), string(domain.SchemaTypeGitHub)),
		),
	)
}

// HandleConvert returns the rendered schema text.
func (t *Tools) HandleConvert(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	converted, errResult := t.convert(ctx, request)
	if errResult != nil {
		return errResult, nil
	}
	return mcp.NewToolResultText(converted.Text), nil
}

// HandleGather returns the structured form as indented JSON.
func (t *Tools) HandleGather(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	converted, errResult := t.convert(ctx, request)
	if errResult != nil {
		return errResult, nil
	}
	data, err := json.MarshalIndent(converted.Structure, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode structure: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}

// convert runs the conversion named by the request arguments. Failures are
// returned as tool error results so the client sees the message.
func (t *Tools) convert(ctx context.Context, request mcp.CallToolRequest) (domain.ConvertedSchema, *mcp.CallToolResult) {
	args := request.GetArguments()
	source, _ := args["source"].(string)
	if source == "" {
		return domain.ConvertedSchema{}, mcp.NewToolResultError("missing required argument: source")
	}
	schemaType, _ := args["type"].(string)

	log := t.logger.With(slog.String("tool", request.Params.Name), slog.String("source", source))
	log.Info("Tool invoked.")

	converted, err := t.convertUseCase.Execute(ctx, domain.SchemaSource{
		URL:  source,
		Type: domain.SchemaType(schemaType),
	})
	if err != nil {
		log.Error("Tool conversion failed.", slog.Any("error", err))
		return domain.ConvertedSchema{}, mcp.NewToolResultError(err.Error())
	}
	return converted, nil
}
