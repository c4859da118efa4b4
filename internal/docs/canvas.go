// SPDX-License-Identifier: MPL-2.0

package docs

import (
	"fmt"
	"strings"

	"github.com/modgate/modgate/pkg/modgraph"
)

// Canvas renders the markdown canvas of one module: its identity, its
// declared and observed dependencies, its dependents and the packages seen
// in it.
func (d *Documenter) Canvas(name modgraph.ModuleName) (string, error) {
	m, err := d.module(name)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	d.writeCanvas(&sb, m, "#")
	return sb.String(), nil
}

func (d *Documenter) writeCanvas(sb *strings.Builder, m modgraph.Module, heading string) {
	base := d.graph.BasePackage(m.Name)

	fmt.Fprintf(sb, "%s %s\n\n", heading, m.Title())
	sb.WriteString("| | |\n|---|---|\n")
	fmt.Fprintf(sb, "| Module | `%s` |\n", m.Name)
	if base != "" {
		fmt.Fprintf(sb, "| Base package | `%s` |\n", base)
	}
	fmt.Fprintf(sb, "| Visibility | %s |\n", m.Visibility.Effective())
	if !m.IsOpen() {
		fmt.Fprintf(sb, "| Allowed dependents | %s |\n", nameList(d.allowedDependents(m.Name)))
	}
	fmt.Fprintf(sb, "| Allowed dependencies | %s |\n", nameList(m.AllowedDependencies))
	fmt.Fprintf(sb, "| Dependencies | %s |\n", nameList(d.deps[m.Name]))
	fmt.Fprintf(sb, "| Dependents | %s |\n", nameList(d.dependents[m.Name]))
	if api := d.opts.Canvas.APIBase; api != "" && base != "" {
		url := strings.TrimSuffix(api, "/") + "/" + base
		fmt.Fprintf(sb, "| API | [%s](%s) |\n", base, url)
	}

	if pkgs := d.packages[m.Name]; len(pkgs) > 0 {
		fmt.Fprintf(sb, "\n%s# Packages\n\n", heading)
		for _, pkg := range pkgs {
			fmt.Fprintf(sb, "- `%s`\n", pkg)
		}
	}

	var violations []string
	for _, dep := range d.deps[m.Name] {
		if d.violating[pair{m.Name, dep}] {
			violations = append(violations, fmt.Sprintf("- depends on encapsulated module `%s`", dep))
		}
	}
	for _, dependent := range d.dependents[m.Name] {
		if d.violating[pair{dependent, m.Name}] {
			violations = append(violations, fmt.Sprintf("- `%s` depends on it without being allowed", dependent))
		}
	}
	if len(violations) > 0 {
		fmt.Fprintf(sb, "\n%s# Boundary violations\n\n%s\n", heading, strings.Join(violations, "\n"))
	}

	fmt.Fprintf(sb, "\nDiagram: [%s](%s)\n", ModuleDiagramFile(m.Name), ModuleDiagramFile(m.Name))
}

// allowedDependents lists the modules whose allow-list names target.
func (d *Documenter) allowedDependents(target modgraph.ModuleName) []modgraph.ModuleName {
	var out []modgraph.ModuleName
	for _, m := range d.graph.Modules() {
		if m.Allows(target) {
			out = append(out, m.Name)
		}
	}
	return out
}

// Aggregate renders every module canvas into one document.
func (d *Documenter) Aggregate() string {
	var sb strings.Builder

	title := d.graph.Root()
	if title == "" {
		title = "Application"
	}
	fmt.Fprintf(&sb, "# %s modules\n\n", title)
	fmt.Fprintf(&sb, "Component diagram: [%s](%s)\n\n", ComponentsFile, ComponentsFile)
	for _, m := range d.graph.Modules() {
		fmt.Fprintf(&sb, "- [%s](%s)\n", m.Title(), CanvasFile(m.Name))
	}
	for _, m := range d.graph.Modules() {
		sb.WriteString("\n")
		d.writeCanvas(&sb, m, "##")
	}
	return sb.String()
}

func nameList(names []modgraph.ModuleName) string {
	if len(names) == 0 {
		return "none"
	}
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = "`" + string(n) + "`"
	}
	return strings.Join(quoted, ", ")
}
