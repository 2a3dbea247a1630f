package hoist

// Synthesized names are content-addressed: they encode the module id plus a
// hash of the specifier and key they stand for. Two transforms of the same
// module always produce the same names regardless of traversal order, and
// names from different modules can never collide because each is prefixed
// with its module id.

import (
	"strconv"

	"github.com/hoistpack/hoistpack/internal/helpers"
)

// GlobalAlias is the shared replacement for free references to "global"
const GlobalAlias = "$bundle$global"

func formatHash(text string) string {
	return strconv.FormatUint(helpers.HashString(text), 16)
}

// ImportName returns the synthesized local name for an imported binding.
// The whole namespace ("*") hashes only the source; a specific key hashes
// both.
func ImportName(moduleID string, source string, imported string) string {
	if imported == "*" {
		return "$" + moduleID + "$import$" + formatHash(source)
	}
	return "$" + moduleID + "$import$" + formatHash(source) + "$" + formatHash(imported)
}

// ImportAsyncName returns the synthesized name for a dynamic import namespace
func ImportAsyncName(moduleID string, source string) string {
	return "$" + moduleID + "$importAsync$" + formatHash(source)
}

// ImportAsyncKeyName returns the synthesized name for one key read off a
// dynamic import namespace
func ImportAsyncKeyName(moduleID string, source string, imported string) string {
	return "$" + moduleID + "$importAsync$" + formatHash(source) + "$" + formatHash(imported)
}

// ExportName returns the synthesized name for an exported binding. The whole
// exports object ("*") has a fixed name per module.
func ExportName(moduleID string, exported string) string {
	if exported == "*" {
		return "$" + moduleID + "$exports"
	}
	return "$" + moduleID + "$export$" + formatHash(exported)
}

// RequireName returns the indirection variable used for a non-constant
// binding destructured from a require
func RequireName(moduleID string, local string) string {
	return "$" + moduleID + "$require$" + local
}

// TopLevelName returns the rename for an ordinary top-level declaration
func TopLevelName(moduleID string, name string) string {
	return "$" + moduleID + "$var$" + name
}
