// SPDX-License-Identifier: MPL-2.0

// Package issue provides user-facing error texture: a catalog of known
// failure modes rendered as markdown, plus ActionableError for structured
// error context.
package issue

import (
	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

type Id int

const (
	PluginDirNotFoundId Id = iota + 1
	ManifestParseErrorId
	NamespaceNotFoundId
	CommandNotFoundId
	ScriptExecutionFailedId
	ConfigLoadFailedId
)

type MarkdownMsg string

type HttpLink string

// Issue is one known failure mode with a rendered explanation.
type Issue struct {
	id       Id          // ID used to look up the issue
	mdMsg    MarkdownMsg // Markdown text that will be rendered
	docLinks []HttpLink  // documentation links shown under "See also"
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

// Render renders the issue's markdown for terminal display.
func (i *Issue) Render(stylePath string) (string, error) {
	extraMd := ""
	if len(i.docLinks) > 0 {
		extraMd += "\n\n## See also: "
		for _, link := range i.docLinks {
			extraMd += "- [" + string(link) + "]"
		}
	}
	return render(string(i.mdMsg)+extraMd, stylePath)
}

var (
	render = glamour.Render

	pluginDirNotFoundIssue = &Issue{
		id: PluginDirNotFoundId,
		mdMsg: `
# Plugin directory not found!

The directory you pointed plugrun at does not exist or holds no plugin
manifest.

## A plugin directory looks like this:
~~~
my-plugin/
  plugin.cue      (or plugin.toml)
~~~

## Things you can try:
- Check the path for typos
- Add the directory explicitly:
~~~
$ plugrun run app --plugin-dir /path/to/my-plugin
~~~
- Add its parent to search_paths in your config file`,
	}

	manifestParseErrorIssue = &Issue{
		id: ManifestParseErrorId,
		mdMsg: `
# Failed to parse plugin manifest!

The plugin's manifest contains syntax errors or invalid configuration.

## Common issues:
- Invalid CUE/TOML syntax (missing quotes, braces, etc.)
- Missing required fields (namespace; name and script per command)
- Duplicate command names

## Example of a valid plugin.cue:
~~~cue
namespace: "app"
commands: [
	{
		name:        "generate"
		description: "Generate a scaffold"
		script:      "echo generating $1"
	},
]
~~~`,
	}

	namespaceNotFoundIssue = &Issue{
		id: NamespaceNotFoundId,
		mdMsg: `
# No plugin registered for that namespace!

The namespace you invoked does not match any registered plugin.

## Things you can try:
- List all registered plugins and commands:
~~~
$ plugrun list
~~~
- Check for typos (namespaces are case-sensitive)
- Verify your plugin directories are on the search path`,
	}

	commandNotFoundIssue = &Issue{
		id: CommandNotFoundId,
		mdMsg: `
# Command not found!

The plugin was found, but none of its command names match the start of the
arguments you passed.

## Things you can try:
- List the plugin's commands:
~~~
$ plugrun list
~~~
- Check for typos in the command name (matching is case-sensitive)
- Remember matching is by prefix over the declared command order`,
	}

	scriptExecutionFailedIssue = &Issue{
		id: ScriptExecutionFailedId,
		mdMsg: `
# Script execution failed!

The command's script failed to execute properly.

## Common causes:
- Command not found in PATH
- Permission denied
- Syntax error in the script

## Things you can try:
- Run with verbose mode for more details:
~~~
$ plugrun --verbose run <namespace> <command>
~~~
- Test the script manually in your shell`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

Could not load the plugrun configuration file.

## Configuration file locations:
- Linux: ~/.config/plugrun/config.toml
- macOS: ~/Library/Application Support/plugrun/config.toml
- Windows: %APPDATA%\plugrun\config.toml

## Example configuration:
~~~toml
search_paths = ["/home/user/plugins"]

[ui]
verbose = false
color_scheme = "auto"
~~~`,
	}

	issues = map[Id]*Issue{
		pluginDirNotFoundIssue.Id():     pluginDirNotFoundIssue,
		manifestParseErrorIssue.Id():    manifestParseErrorIssue,
		namespaceNotFoundIssue.Id():     namespaceNotFoundIssue,
		commandNotFoundIssue.Id():       commandNotFoundIssue,
		scriptExecutionFailedIssue.Id(): scriptExecutionFailedIssue,
		configLoadFailedIssue.Id():      configLoadFailedIssue,
	}
)

func Values() []*Issue {
	return maps.Values(issues)
}

func Get(id Id) *Issue {
	return issues[id]
}
