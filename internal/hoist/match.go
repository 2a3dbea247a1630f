package hoist

import (
	"github.com/hoistpack/hoistpack/internal/js_ast"
)

// matchRequire matches a call to a free "require" with exactly one string
// literal argument. Anything else (shadowed require, computed specifier,
// extra arguments) is not a hoistable require.
func matchRequire(expr js_ast.Expr, module *js_ast.Module) (string, bool) {
	call, ok := expr.Data.(*js_ast.ECall)
	if !ok || len(call.Args) != 1 {
		return "", false
	}
	ident, ok := call.Target.Data.(*js_ast.EIdentifier)
	if !ok || ident.Name != "require" ||
		ident.Scope == module.IgnoreScope || module.Decls[ident.Id()] {
		return "", false
	}
	str, ok := call.Args[0].Data.(*js_ast.EString)
	if !ok {
		return "", false
	}
	return str.Value, true
}

// matchImport matches an "import(...)" expression with a string literal
// specifier
func matchImport(expr js_ast.Expr) (string, bool) {
	if imp, ok := expr.Data.(*js_ast.EImport); ok {
		if str, ok := imp.Expr.Data.(*js_ast.EString); ok {
			return str.Value, true
		}
	}
	return "", false
}

// memberParts splits a member expression into its target and static key. The
// second result is false when the expression is not a member access or the
// key is computed from a non-literal.
func memberParts(expr js_ast.Expr) (js_ast.Expr, string, bool) {
	switch e := expr.Data.(type) {
	case *js_ast.EDot:
		return e.Target, e.Name, true
	case *js_ast.EIndex:
		if str, ok := e.Index.Data.(*js_ast.EString); ok {
			return e.Target, str.Value, true
		}
	}
	return js_ast.Expr{}, "", false
}

// matchMemberExpr matches "object.property" (or "object['property']") where
// object is a free identifier
func matchMemberExpr(expr js_ast.Expr, object string, property string, module *js_ast.Module) bool {
	target, key, ok := memberParts(expr)
	if !ok || key != property {
		return false
	}
	ident, ok := target.Data.(*js_ast.EIdentifier)
	return ok && ident.Name == object &&
		ident.Scope != module.IgnoreScope && !module.Decls[ident.Id()]
}

// hasBindingIdentifier reports whether an assignment target pattern binds the
// given free name as a whole. Member expression targets don't count; those
// mutate a property rather than rebinding the name.
func hasBindingIdentifier(target js_ast.Expr, name string, module *js_ast.Module) bool {
	switch e := target.Data.(type) {
	case *js_ast.EIdentifier:
		return e.Name == name && !module.Decls[e.Id()] && e.Scope != module.IgnoreScope

	case *js_ast.EArray:
		for _, item := range e.Items {
			if hasBindingIdentifier(item, name, module) {
				return true
			}
		}

	case *js_ast.EObject:
		for _, prop := range e.Properties {
			if prop.Value != nil && hasBindingIdentifier(*prop.Value, name, module) {
				return true
			}
		}

	case *js_ast.ESpread:
		return hasBindingIdentifier(e.Value, name, module)

	case *js_ast.EBinary:
		if e.Op == js_ast.BinOpAssign {
			return hasBindingIdentifier(e.Left, name, module)
		}
	}
	return false
}
