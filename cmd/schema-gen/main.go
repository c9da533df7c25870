// Schema Generator
//
// Generates JSON Schema files from the fact and export types so that
// producers and storefront consumers can validate payloads.
//
// Usage:
//
//	go run cmd/schema-gen/main.go
//
// Output:
//
//	schemas/facts.json
//	schemas/export.json
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/invopop/jsonschema"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/kosarica/catalog-service/internal/catalog"
	"github.com/kosarica/catalog-service/internal/handlers"
	"github.com/kosarica/catalog-service/internal/localization"
	"github.com/kosarica/catalog-service/internal/pricing"
)

// SchemaGroup represents a group of related schemas
type SchemaGroup struct {
	Name   string
	Types  []any
	Output string
}

func main() {
	outputDir := "schemas"
	if len(os.Args) > 1 {
		outputDir = os.Args[1]
	}

	paths, err := generate(outputDir, schemaGroups())
	if err != nil {
		fmt.Fprintf(os.Stderr, "schema-gen: %v\n", err)
		os.Exit(1)
	}
	for _, path := range paths {
		fmt.Printf("Generated %s\n", path)
	}
}

func schemaGroups() []SchemaGroup {
	return []SchemaGroup{
		{
			Name: "facts",
			Types: []any{
				catalog.ProductItem{},
				pricing.ProductItemPrice{},
				catalog.FullInventory{},
				catalog.StockBalance{},
				catalog.BackorderAvailability{},
				handlers.FactResponse{},
			},
			Output: "facts.json",
		},
		{
			Name: "export",
			Types: []any{
				localization.ItemView{},
				localization.ProductView{},
				handlers.ItemExportFailure{},
				handlers.ProductExportResponse{},
				handlers.CurrentPriceResponse{},
			},
			Output: "export.json",
		},
	}
}

// generate writes one document per group into dir and returns the written paths.
func generate(dir string, groups []SchemaGroup) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	paths := make([]string, 0, len(groups))
	for _, group := range groups {
		path := filepath.Join(dir, group.Output)
		data, err := json.MarshalIndent(groupDocument(group), "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to marshal %s: %w", group.Name, err)
		}
		if err := os.WriteFile(path, data, 0644); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// groupDocument merges the $defs of every type in the group.
func groupDocument(group SchemaGroup) map[string]any {
	reflector := &jsonschema.Reflector{}
	defs := jsonschema.Definitions{}
	for _, t := range group.Types {
		for name, def := range reflector.Reflect(t).Definitions {
			defs[name] = def
		}
	}

	title := cases.Title(language.English).String(group.Name)
	return map[string]any{
		"$schema":     "https://json-schema.org/draft/2020-12/schema",
		"$id":         fmt.Sprintf("https://kosarica.hr/schemas/catalog/%s.json", group.Name),
		"title":       title + " API Types",
		"description": fmt.Sprintf("JSON Schema for %s API types generated from Go structs", group.Name),
		"$defs":       defs,
	}
}
