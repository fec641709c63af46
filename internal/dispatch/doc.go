// SPDX-License-Identifier: MPL-2.0

// Package dispatch implements the plugin registry and the command
// resolution/dispatch core: given a namespace and a raw argument string it
// locates the responsible plugin, locates the first matching command inside
// it, partitions the remaining arguments and hands the resulting execution
// context to the configured executor.
//
// Resolution misses are not errors: Run always returns a well-formed
// *Context whose populated fields encode how far resolution progressed.
// Only executor failures surface as hard errors, unmodified.
package dispatch
