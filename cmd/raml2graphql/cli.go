package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/i2y/raml2graphql/internal/adapter/outbound/github"
	"github.com/i2y/raml2graphql/internal/domain"
)

// converter converts a batch of sources, continuing past failures.
type converter interface {
	ConvertAll(ctx context.Context, sources []domain.SchemaSource) ([]domain.ConvertedSchema, error)
}

// runCLI converts sources and writes each result to out, or to one file per
// source under outDir when it is set. File names are unique within a batch.
// Successful conversions are written even when others fail; the failures are
// returned.
func runCLI(ctx context.Context, conv converter, sources []domain.SchemaSource, format, outDir string, out io.Writer) error {
	if len(sources) == 0 {
		return errors.New("no sources given and none configured")
	}
	if _, _, err := encode(domain.ConvertedSchema{}, format); err != nil {
		return err
	}

	converted, convErr := conv.ConvertAll(ctx, sources)

	if outDir != "" {
		if err := os.MkdirAll(outDir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	used := make(map[string]int)
	for i, schema := range converted {
		data, ext, err := encode(schema, format)
		if err != nil {
			return err
		}
		if outDir != "" {
			file := filepath.Join(outDir, uniqueName(used, outputName(schema.Source))+ext)
			if err := os.WriteFile(file, data, 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", file, err)
			}
			continue
		}
		if i > 0 && format == "yaml" {
			data = append([]byte("---\n"), data...)
		}
		if _, err := out.Write(data); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return convErr
}

// encode serializes a conversion in the requested format and returns the
// file extension that goes with it.
func encode(schema domain.ConvertedSchema, format string) ([]byte, string, error) {
	switch format {
	case "text", "":
		return []byte(schema.Text), ".graphql", nil
	case "json":
		data, err := json.MarshalIndent(schema.Structure, "", "  ")
		if err != nil {
			return nil, "", fmt.Errorf("failed to encode %s as JSON: %w", schema.Source, err)
		}
		return append(data, '\n'), ".json", nil
	case "yaml":
		data, err := yaml.Marshal(schema.Structure)
		if err != nil {
			return nil, "", fmt.Errorf("failed to encode %s as YAML: %w", schema.Source, err)
		}
		return data, ".yaml", nil
	default:
		return nil, "", fmt.Errorf("unknown output format %q (want text, json or yaml)", format)
	}
}

// uniqueName returns name the first time it is seen and name-2, name-3 and
// so on after that, so sources sharing a base name do not overwrite each
// other's output.
func uniqueName(used map[string]int, name string) string {
	for {
		used[name]++
		n := used[name]
		if n == 1 {
			return name
		}
		candidate := fmt.Sprintf("%s-%d", name, n)
		if used[candidate] == 0 {
			used[candidate] = 1
			return candidate
		}
	}
}

// outputName derives a file name stem from a source: the base name of its
// path without extension.
func outputName(source string) string {
	if ref, err := github.ParseURL(source); err == nil {
		source = ref.Path
	}
	if i := strings.IndexAny(source, "?#"); i >= 0 {
		source = source[:i]
	}
	name := path.Base(strings.TrimRight(source, "/"))
	name = strings.TrimSuffix(name, path.Ext(name))
	if name == "" || name == "." || name == "/" || strings.Contains(name, ":") {
		return "schema"
	}
	return name
}
