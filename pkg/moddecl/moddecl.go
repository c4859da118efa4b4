// SPDX-License-Identifier: MPL-2.0

package moddecl

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/modgate/modgate/pkg/cueutil"
	"github.com/modgate/modgate/pkg/modgraph"
)

// DefaultFileName is the declaration file looked up when none is configured.
const DefaultFileName = "modgate.cue"

var (
	//go:embed moddecl_schema.cue
	schema []byte

	// ErrDeclarationsNotFound is returned when the declaration file does not exist.
	ErrDeclarationsNotFound = errors.New("module declarations not found")
	// ErrEdgesNotFound is returned when the edges file does not exist.
	ErrEdgesNotFound = errors.New("edges file not found")
)

type (
	// Declarations is the decoded content of a declaration file.
	Declarations struct {
		// Root is the Go import path under which module base packages live.
		Root string `json:"root,omitempty"`
		// Modules lists the module declarations in file order.
		Modules []modgraph.Module `json:"modules"`
		// FilePath stores where the declarations were loaded from (not in CUE).
		FilePath string `json:"-"`
	}

	edgesFile struct {
		Edges []modgraph.Edge `json:"edges"`
	}
)

// Parse decodes declaration file content. filename is used in errors.
func Parse(data []byte, filename string) (*Declarations, error) {
	result, err := cueutil.ParseAndDecode[Declarations](schema, data, "#Declarations", cueutil.WithFilename(filename))
	if err != nil {
		return nil, err
	}
	result.Value.FilePath = filename
	return result.Value, nil
}

// Load reads and decodes a declaration file.
func Load(ctx context.Context, path string) (*Declarations, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("load declarations canceled: %w", err)
	}
	result, err := cueutil.ParseFile[Declarations](schema, path, "#Declarations")
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrDeclarationsNotFound, path)
		}
		return nil, err
	}
	result.Value.FilePath = path
	return result.Value, nil
}

// Graph builds the immutable module graph from the declarations.
func (d *Declarations) Graph() (*modgraph.Graph, error) {
	g, err := modgraph.NewGraph(d.Root, d.Modules)
	if err != nil {
		if d.FilePath != "" {
			return nil, fmt.Errorf("%s: %w", d.FilePath, err)
		}
		return nil, err
	}
	return g, nil
}

// ParseEdges decodes edges file content. filename is used in errors.
func ParseEdges(data []byte, filename string) ([]modgraph.Edge, error) {
	result, err := cueutil.ParseAndDecode[edgesFile](schema, data, "#Edges", cueutil.WithFilename(filename))
	if err != nil {
		return nil, err
	}
	return result.Value.Edges, nil
}

// LoadEdges reads and decodes an edges file.
func LoadEdges(ctx context.Context, path string) ([]modgraph.Edge, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("load edges canceled: %w", err)
	}
	result, err := cueutil.ParseFile[edgesFile](schema, path, "#Edges")
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrEdgesNotFound, path)
		}
		return nil, err
	}
	return result.Value.Edges, nil
}

// Generate renders declarations as a CUE declaration file.
func Generate(d *Declarations) string {
	var sb strings.Builder

	sb.WriteString("// Module declarations checked by `modgate verify`.\n")
	sb.WriteString("// type: \"open\" lets any module depend on this one; \"encapsulated\" (the\n")
	sb.WriteString("// default) only admits modules that list it in allowed_dependencies.\n\n")

	if d.Root != "" {
		fmt.Fprintf(&sb, "root: %q\n\n", d.Root)
	}

	if len(d.Modules) == 0 {
		sb.WriteString("modules: []\n")
		return sb.String()
	}

	sb.WriteString("modules: [\n")
	for _, m := range d.Modules {
		sb.WriteString("\t{\n")
		fmt.Fprintf(&sb, "\t\tname: %q\n", m.Name)
		if m.DisplayName != "" {
			fmt.Fprintf(&sb, "\t\tdisplay_name: %q\n", m.DisplayName)
		}
		fmt.Fprintf(&sb, "\t\ttype: %q\n", m.Visibility.Effective())
		if len(m.AllowedDependencies) > 0 {
			quoted := make([]string, len(m.AllowedDependencies))
			for i, dep := range m.AllowedDependencies {
				quoted[i] = fmt.Sprintf("%q", dep)
			}
			fmt.Fprintf(&sb, "\t\tallowed_dependencies: [%s]\n", strings.Join(quoted, ", "))
		}
		if m.BasePackage != "" {
			fmt.Fprintf(&sb, "\t\tbase_package: %q\n", m.BasePackage)
		}
		sb.WriteString("\t},\n")
	}
	sb.WriteString("]\n")

	return sb.String()
}
