// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"cmp"

	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/slices"
)

// Id identifies a catalog entry.
type Id int

const (
	DeclarationsNotFoundId Id = iota + 1
	DeclarationsParseErrorId
	EdgesLoadFailedId
	ScanFailedId
	BoundaryViolationsId
	UnknownModuleId
	DependencyCycleId
	BaselineLoadFailedId
	ConfigLoadFailedId
	DocsWriteFailedId
)

type MarkdownMsg string

type HttpLink string

type Issue struct {
	id       Id          // ID used to look up the issue
	mdMsg    MarkdownMsg // Markdown text that will be rendered
	docLinks []HttpLink
	extLinks []HttpLink // external links that might be useful for the user
}

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

// Render renders the issue as terminal markdown with the given glamour style
// ("dark", "light", "notty", "auto" or a style file path).
func (i *Issue) Render(stylePath string) (string, error) {
	md := string(i.mdMsg)
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		md += "\n\n## See also\n"
		for _, link := range i.docLinks {
			md += "- <" + string(link) + ">\n"
		}
		for _, link := range i.extLinks {
			md += "- <" + string(link) + ">\n"
		}
	}
	return render(md, stylePath)
}

var (
	render = glamour.Render

	declarationsNotFoundIssue = &Issue{
		id: DeclarationsNotFoundId,
		mdMsg: `
# No module declarations found!

modgate needs a declaration file listing the application modules.

## Things you can try:
- Generate one from the package layout of the current Go module:
~~~
$ modgate init
~~~

- Point modgate at an existing file:
~~~
$ modgate verify --modules path/to/modgate.cue
~~~

## Example declaration file:
~~~cue
root: "example.com/shop"
modules: [
  {name: "orders", allowed_dependencies: ["billing"]},
  {name: "billing"},
  {name: "catalog", type: "open"},
]
~~~`,
	}

	declarationsParseErrorIssue = &Issue{
		id: DeclarationsParseErrorId,
		mdMsg: `
# Failed to parse module declarations!

The declaration file contains syntax errors or does not match the schema.

## Common issues:
- Invalid CUE syntax (missing quotes, braces, commas)
- Unknown field names (fields are closed: name, display_name, type,
  allowed_dependencies, base_package)
- A type other than "open" or "encapsulated"
- The same module declared twice
- An allowed_dependencies entry naming a module that is not declared

## Things you can try:
- Check the error message above for the field path (e.g. modules[0].type)
- Validate the file with the cue command-line tool`,
	}

	edgesLoadFailedIssue = &Issue{
		id: EdgesLoadFailedId,
		mdMsg: `
# Failed to load dependency edges!

The edges file could not be read or decoded.

## Things you can try:
- Check that the file exists and contains a list of edges:
~~~cue
edges: [
  {from: "orders", to: "billing"},
]
~~~

- Drop --edges to scan the Go packages below --dir instead`,
	}

	scanFailedIssue = &Issue{
		id: ScanFailedId,
		mdMsg: `
# Failed to scan Go packages!

modgate loads packages with the go command to discover imports.

## Things you can try:
- Run modgate from inside a Go module (a directory with go.mod)
- Make sure the go command is on your PATH
- Check that the package patterns match something:
~~~
$ go list ./...
~~~`,
	}

	boundaryViolationsIssue = &Issue{
		id: BoundaryViolationsId,
		mdMsg: `
# Module boundary violations found!

A module depends on an encapsulated module that does not list it as an
allowed dependent.

## Things you can try:
- Remove the offending import and depend on an open module instead
- Add the target module to the dependent's allowed_dependencies
- Mark the target module as open if every module may use it:
~~~cue
{name: "shared", type: "open"}
~~~

- Accept the current violations while you fix them gradually:
~~~
$ modgate verify --update-baseline modgate-baseline.toml
~~~`,
	}

	unknownModuleIssue = &Issue{
		id: UnknownModuleId,
		mdMsg: `
# Unknown module referenced!

A dependency names a module that is not declared. This usually means a new
package was added under the root without a declaration.

## Things you can try:
- Declare the module in your declaration file
- Set base_package when the module does not live directly under the root
- List what modgate currently knows:
~~~
$ modgate modules
~~~`,
	}

	dependencyCycleIssue = &Issue{
		id: DependencyCycleId,
		mdMsg: `
# Module dependency cycle detected!

Modules depend on each other in a loop, so none of them can be understood
or changed in isolation.

## Things you can try:
- Move the shared code into a module both can depend on
- Invert one dependency with an interface owned by the depending module
- Disable the check while you untangle the cycle:
~~~
$ modgate verify --no-cycles
~~~`,
	}

	baselineLoadFailedIssue = &Issue{
		id: BaselineLoadFailedId,
		mdMsg: `
# Failed to load the baseline!

The baseline file is not valid TOML or contains invalid entries.

## Expected format:
~~~toml
[[entries]]
kind = "violation"
from = "orders"
to = "billing"
~~~

## Things you can try:
- Regenerate it from the current state:
~~~
$ modgate verify --update-baseline modgate-baseline.toml
~~~`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

## Things you can try:
- Check the config file syntax against the schema
- Show the effective configuration:
~~~
$ modgate config show
~~~

- Create a default file:
~~~
$ modgate config init
~~~`,
	}

	docsWriteFailedIssue = &Issue{
		id: DocsWriteFailedId,
		mdMsg: `
# Failed to write documentation!

## Things you can try:
- Check that the output directory is writable
- Choose another directory:
~~~
$ modgate docs --output-dir /tmp/modgate-docs
~~~`,
	}

	issues = map[Id]*Issue{
		declarationsNotFoundIssue.Id():   declarationsNotFoundIssue,
		declarationsParseErrorIssue.Id(): declarationsParseErrorIssue,
		edgesLoadFailedIssue.Id():        edgesLoadFailedIssue,
		scanFailedIssue.Id():             scanFailedIssue,
		boundaryViolationsIssue.Id():     boundaryViolationsIssue,
		unknownModuleIssue.Id():          unknownModuleIssue,
		dependencyCycleIssue.Id():        dependencyCycleIssue,
		baselineLoadFailedIssue.Id():     baselineLoadFailedIssue,
		configLoadFailedIssue.Id():       configLoadFailedIssue,
		docsWriteFailedIssue.Id():        docsWriteFailedIssue,
	}
)

// Values returns every catalog entry ordered by Id.
func Values() []*Issue {
	out := make([]*Issue, 0, len(issues))
	for _, i := range issues {
		out = append(out, i)
	}
	slices.SortFunc(out, func(a, b *Issue) int { return cmp.Compare(a.id, b.id) })
	return out
}

func Get(id Id) *Issue {
	return issues[id]
}
