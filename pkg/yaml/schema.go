package yaml

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/invopop/jsonschema"
)

// SchemaGenerator reflects a JSON schema from a Go type, attaching doc
// comments from the named packages as descriptions. Used by the go:generate
// mains under internal/schemagen to produce the committed schema files.
type SchemaGenerator struct {
	obj      any
	pkgPaths []string
}

// NewSchemaGenerator creates a generator for obj. Each pkgPath names a
// package (by import path) whose Go comments feed the schema descriptions.
func NewSchemaGenerator(obj any, pkgPaths ...string) *SchemaGenerator {
	return &SchemaGenerator{
		obj:      obj,
		pkgPaths: pkgPaths,
	}
}

// Generate reflects the schema and renders it as indented JSON.
func (g *SchemaGenerator) Generate() ([]byte, error) {
	modRoot, modPath, err := findModule()
	if err != nil {
		return nil, fmt.Errorf("locate module: %w", err)
	}

	r := new(jsonschema.Reflector)

	for _, pkgPath := range g.pkgPaths {
		rel := strings.TrimPrefix(pkgPath, modPath+"/")
		dir := filepath.Join(modRoot, filepath.FromSlash(rel))

		err := r.AddGoComments(pkgPath, dir)
		if err != nil {
			return nil, fmt.Errorf("extract comments from %q: %w", pkgPath, err)
		}
	}

	schema := r.Reflect(g.obj)

	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}

	return append(data, '\n'), nil
}

// findModule walks up from the working directory to the enclosing go.mod
// and returns its directory and module path. Generators run via go:generate
// from package directories, so the module root is always above.
func findModule() (string, string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", "", fmt.Errorf("get working directory: %w", err)
	}

	for {
		data, err := os.ReadFile(filepath.Join(dir, "go.mod"))
		if err == nil {
			path := modulePath(data)
			if path == "" {
				return "", "", fmt.Errorf("no module path in %s", filepath.Join(dir, "go.mod"))
			}

			return dir, path, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", "", errors.New("go.mod not found")
		}

		dir = parent
	}
}

func modulePath(data []byte) string {
	for line := range strings.Lines(string(data)) {
		if rest, ok := strings.CutPrefix(strings.TrimSpace(line), "module "); ok {
			return strings.TrimSpace(rest)
		}
	}

	return ""
}
