// SPDX-License-Identifier: MPL-2.0

package scan

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"golang.org/x/tools/go/packages"

	"github.com/modgate/modgate/pkg/modgraph"
)

// Discovery lists the modules implied by the package layout of a Go module.
type Discovery struct {
	// Root is the Go module path of the main module.
	Root string
	// Modules are the direct subpackages of Root, each as one encapsulated
	// module, in name order.
	Modules []modgraph.Module
}

// Discover loads the packages below opts.Dir and proposes one module per
// direct subpackage of the main module. Subpackages whose names are not
// valid module names are skipped.
func Discover(ctx context.Context, opts Options) (*Discovery, error) {
	pkgs, err := load(ctx, opts, packages.NeedName|packages.NeedModule)
	if err != nil {
		return nil, err
	}

	root := ""
	for _, pkg := range pkgs {
		if pkg.Module != nil && pkg.Module.Main {
			root = pkg.Module.Path
			break
		}
	}
	if root == "" {
		return nil, fmt.Errorf("no main Go module found in %q", opts.Dir)
	}

	var names []modgraph.ModuleName
	for _, pkg := range pkgs {
		rest, ok := strings.CutPrefix(pkg.PkgPath, root+"/")
		if !ok {
			continue
		}
		first, _, _ := strings.Cut(rest, "/")
		name := modgraph.ModuleName(first)
		if valid, _ := name.IsValid(); !valid || slices.Contains(names, name) {
			continue
		}
		names = append(names, name)
	}
	slices.Sort(names)

	d := &Discovery{Root: root, Modules: make([]modgraph.Module, len(names))}
	for i, name := range names {
		d.Modules[i] = modgraph.Module{Name: name, Visibility: modgraph.VisibilityEncapsulated}
	}
	return d, nil
}
