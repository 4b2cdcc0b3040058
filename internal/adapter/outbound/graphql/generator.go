package graphql

import (
	"log/slog"

	"github.com/i2y/raml2graphql/internal/domain"
)

// Generator implements the usecase.SchemaGenerator interface on top of
// Render and Gather.
type Generator struct {
	logger *slog.Logger
}

// NewGenerator creates a new GraphQL schema Generator.
func NewGenerator(logger *slog.Logger) *Generator {
	return &Generator{
		logger: logger.With("component", "graphql_generator"),
	}
}

// Render renders the Query schema text for api.
func (g *Generator) Render(api domain.Element) (string, error) {
	text, err := Render(api)
	if err != nil {
		g.logger.Error("Failed to render GraphQL schema.", slog.Any("error", err))
		return "", err
	}
	g.logger.Debug("Rendered GraphQL schema.", slog.Int("bytes", len(text)))
	return text, nil
}

// Gather collects the structured form of the Query schema for api.
func (g *Generator) Gather(api domain.Element) (domain.APIStructure, error) {
	structure, err := Gather(api)
	if err != nil {
		g.logger.Error("Failed to gather GraphQL structure.", slog.Any("error", err))
		return domain.APIStructure{}, err
	}

	unknown := 0
	for _, field := range structure.Resources {
		for _, arg := range field.Args {
			if arg.Type == UnknownType {
				unknown++
				g.logger.Warn("Argument type has no GraphQL mapping.",
					slog.String("query_name", field.QueryName),
					slog.String("argument", arg.Name))
			}
		}
	}
	g.logger.Debug("Gathered GraphQL structure.",
		slog.Int("field_count", len(structure.Resources)),
		slog.Int("unknown_type_count", unknown))
	return structure, nil
}
