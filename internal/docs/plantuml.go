// SPDX-License-Identifier: MPL-2.0

package docs

import (
	"fmt"
	"strings"

	"github.com/modgate/modgate/pkg/modgraph"
)

// Components renders the application diagram: every module and every
// observed dependency between modules.
func (d *Documenter) Components() string {
	title := d.opts.Diagram.Title
	if title == "" {
		title = d.graph.Root()
	}
	if title == "" {
		title = "Modules"
	}

	var rels []pair
	for _, m := range d.graph.Modules() {
		for _, dep := range d.deps[m.Name] {
			rels = append(rels, pair{m.Name, dep})
		}
	}
	return d.diagram(title, d.graph.Modules(), rels)
}

// ModuleDiagram renders one module together with its direct dependencies
// and dependents.
func (d *Documenter) ModuleDiagram(name modgraph.ModuleName) (string, error) {
	focus, err := d.module(name)
	if err != nil {
		return "", err
	}

	modules := []modgraph.Module{focus}
	var rels []pair
	add := func(other modgraph.ModuleName, rel pair) {
		if m, ok := d.graph.Module(other); ok && !containsModule(modules, other) {
			modules = append(modules, m)
		}
		rels = append(rels, rel)
	}
	for _, dep := range d.deps[name] {
		add(dep, pair{name, dep})
	}
	for _, dependent := range d.dependents[name] {
		add(dependent, pair{dependent, name})
	}
	return d.diagram(focus.Title(), modules, rels), nil
}

func (d *Documenter) diagram(title string, modules []modgraph.Module, rels []pair) string {
	var sb strings.Builder

	sb.WriteString("@startuml\n")
	if d.opts.Diagram.Style == StyleC4 {
		sb.WriteString("!include <C4/C4_Component>\n")
		sb.WriteString(`AddRelTag("violation", $textColor="red", $lineColor="red", $lineStyle=DashedLine())` + "\n")
	} else {
		sb.WriteString("skinparam componentStyle uml2\n")
	}
	fmt.Fprintf(&sb, "title %s\n\n", title)

	for _, m := range modules {
		if d.opts.Diagram.Style == StyleC4 {
			fmt.Fprintf(&sb, "Component(%s, %q, %q, %q)\n",
				alias(m.Name), m.Title(), string(m.Visibility.Effective())+" module", d.graph.BasePackage(m.Name))
			continue
		}
		fmt.Fprintf(&sb, "component %q as %s <<%s>>\n", m.Title(), alias(m.Name), m.Visibility.Effective())
	}
	if len(rels) > 0 {
		sb.WriteByte('\n')
	}
	for _, r := range rels {
		violation := d.violating[r]
		switch {
		case d.opts.Diagram.Style == StyleC4 && violation:
			fmt.Fprintf(&sb, "Rel(%s, %s, \"violates boundary\", $tags=\"violation\")\n", alias(r.from), alias(r.to))
		case d.opts.Diagram.Style == StyleC4:
			fmt.Fprintf(&sb, "Rel(%s, %s, \"depends on\")\n", alias(r.from), alias(r.to))
		case violation:
			fmt.Fprintf(&sb, "%s .[#red].> %s : violates boundary\n", alias(r.from), alias(r.to))
		default:
			fmt.Fprintf(&sb, "%s --> %s\n", alias(r.from), alias(r.to))
		}
	}

	sb.WriteString("@enduml\n")
	return sb.String()
}

// alias converts a module name into a PlantUML identifier.
func alias(name modgraph.ModuleName) string {
	return strings.Map(func(r rune) rune {
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r == '_' {
			return r
		}
		return '_'
	}, string(name))
}

func containsModule(modules []modgraph.Module, name modgraph.ModuleName) bool {
	for _, m := range modules {
		if m.Name == name {
			return true
		}
	}
	return false
}
