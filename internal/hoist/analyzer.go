package hoist

import (
	"sort"

	"github.com/hoistpack/hoistpack/internal/js_ast"
	"github.com/hoistpack/hoistpack/internal/logger"
)

// The analyzer makes one read-only pass over the module and records every
// fact the rewriter needs: which bindings came from imports or requires, what
// the module exports, which accesses are non-static, and whether the module
// must fall back to a CommonJS-style wrapper. It never modifies the tree.

type ImportKind uint8

const (
	// A "require(...)" call
	ImportRequire ImportKind = iota

	// An "import" statement
	ImportStatic

	// An "import(...)" expression
	ImportDynamic
)

func (kind ImportKind) String() string {
	switch kind {
	case ImportStatic:
		return "import"
	case ImportDynamic:
		return "dynamic-import"
	default:
		return "require"
	}
}

// ImportRecord says that one local binding holds a value from another module
type ImportRecord struct {
	Source    string
	Specifier string
	Kind      ImportKind
	Loc       logger.Loc
}

// BailoutReason tags why an optimization was skipped. Bailouts are purely
// informational and never abort the transform.
type BailoutReason uint8

const (
	BailoutNonTopLevelRequire BailoutReason = iota
	BailoutNonStaticDestructuring
	BailoutTopLevelReturn
	BailoutEval
	BailoutFreeModule
	BailoutFreeExports
	BailoutExportsReassignment
	BailoutModuleReassignment
	BailoutNonStaticExports
	BailoutNonStaticDynamicImport
	BailoutNonStaticAccess
)

func (reason BailoutReason) String() string {
	switch reason {
	case BailoutNonTopLevelRequire:
		return "NonTopLevelRequire"
	case BailoutNonStaticDestructuring:
		return "NonStaticDestructuring"
	case BailoutTopLevelReturn:
		return "TopLevelReturn"
	case BailoutEval:
		return "Eval"
	case BailoutFreeModule:
		return "FreeModule"
	case BailoutFreeExports:
		return "FreeExports"
	case BailoutExportsReassignment:
		return "ExportsReassignment"
	case BailoutModuleReassignment:
		return "ModuleReassignment"
	case BailoutNonStaticExports:
		return "NonStaticExports"
	case BailoutNonStaticDynamicImport:
		return "NonStaticDynamicImport"
	default:
		return "NonStaticAccess"
	}
}

// Message returns a human-readable explanation for trace output
func (reason BailoutReason) Message() string {
	switch reason {
	case BailoutNonTopLevelRequire:
		return "A \"require\" call outside top-level statement position keeps the required module wrapped"
	case BailoutNonStaticDestructuring:
		return "Destructuring a required module with computed, nested, or rest patterns keeps its namespace object alive"
	case BailoutTopLevelReturn:
		return "A top-level \"return\" statement forces the module to run inside a wrapper function"
	case BailoutEval:
		return "A call to \"eval\" forces the module to run inside a wrapper function"
	case BailoutFreeModule:
		return "Using \"module\" as a free value forces the module to run inside a wrapper function"
	case BailoutFreeExports:
		return "Using \"exports\" or top-level \"this\" as a value keeps the exports object from being made static"
	case BailoutExportsReassignment:
		return "Reassigning \"exports\" forces the module to run inside a wrapper function"
	case BailoutModuleReassignment:
		return "Reassigning \"module\" forces the module to run inside a wrapper function"
	case BailoutNonStaticExports:
		return "A computed access on the exports object keeps it from being made static"
	case BailoutNonStaticDynamicImport:
		return "An \"import(...)\" expression not consumed by destructuring keeps its namespace object alive"
	default:
		return "A non-static access on an imported binding keeps its namespace object alive"
	}
}

type Bailout struct {
	Loc    logger.Loc
	Reason BailoutReason
}

// Analysis is the fact base produced by one analyzer pass
type Analysis struct {
	// Local binding to the import it holds
	Imports map[js_ast.Id]ImportRecord

	// Local binding to the name it is exported as. When the same binding is
	// exported more than once the first exported name wins.
	Exports map[js_ast.Id]string

	// Locations where a binding was accessed with a computed key or used as a
	// bare value
	NonStaticAccess map[js_ast.Id][]logger.Loc

	// Locations where a binding was reassigned after being bound to an
	// imported or required value
	NonConstBindings map[js_ast.Id][]logger.Loc

	// Specifiers whose namespace must be kept alive as an object
	NonStaticRequires map[string]bool

	// Specifiers that must stay wrapped to preserve side effect ordering
	WrappedRequires map[string]bool

	// Sticky flags. Each only ever moves toward the conservative value.
	StaticCJSExports bool
	HasCJSExports    bool
	IsESM            bool
	ShouldWrap       bool

	// Only collected when tracing is enabled, sorted by location
	Bailouts []Bailout

	trace bool
}

type analyzer struct {
	module *js_ast.Module
	res    *Analysis

	inModuleThis bool
	inTopLevel   bool
	inExportDecl bool
	inFunction   bool
	inAssign     bool
}

// Analyze collects the fact base for one module. The tree is not modified.
func Analyze(module *js_ast.Module, trace bool) *Analysis {
	res := &Analysis{
		Imports:           make(map[js_ast.Id]ImportRecord),
		Exports:           make(map[js_ast.Id]string),
		NonStaticAccess:   make(map[js_ast.Id][]logger.Loc),
		NonConstBindings:  make(map[js_ast.Id][]logger.Loc),
		NonStaticRequires: make(map[string]bool),
		WrappedRequires:   make(map[string]bool),
		StaticCJSExports:  true,
		trace:             trace,
	}
	a := &analyzer{module: module, res: res, inModuleThis: true, inTopLevel: true}

	for _, stmt := range module.Stmts {
		a.visitModuleItem(stmt)
	}
	a.inModuleThis = false

	// Reads of an imported namespace through a computed key or as a bare
	// value were recorded as they were found. Only now do we know which of
	// them landed on an import, so the matching bailouts are appended late
	// and the whole list is re-sorted by location.
	if trace {
		for id := range res.Imports {
			for _, loc := range res.NonStaticAccess[id] {
				res.Bailouts = append(res.Bailouts, Bailout{Loc: loc, Reason: BailoutNonStaticAccess})
			}
		}
		sort.SliceStable(res.Bailouts, func(i int, j int) bool {
			return res.Bailouts[i].Loc.Start < res.Bailouts[j].Loc.Start
		})
	}
	return res
}

func (a *analyzer) bailout(loc logger.Loc, reason BailoutReason) {
	if a.res.trace {
		a.res.Bailouts = append(a.res.Bailouts, Bailout{Loc: loc, Reason: reason})
	}
}

func (a *analyzer) isFree(id js_ast.Id) bool {
	return !a.module.Decls[id] && id.Scope != a.module.IgnoreScope
}

////////////////////////////////////////////////////////////////////////////////
// Statements

func (a *analyzer) visitModuleItem(stmt js_ast.Stmt) {
	switch s := stmt.Data.(type) {
	case *js_ast.SImport:
		a.res.IsESM = true
		a.visitImportStmt(s)
		return

	case *js_ast.SExportClause:
		a.res.IsESM = true
		for _, item := range s.Items {
			// The first exported name for a binding wins
			id := item.Name.Id()
			if _, ok := a.res.Exports[id]; !ok {
				a.res.Exports[id] = item.Alias
			}
		}
		return

	case *js_ast.SExportFrom, *js_ast.SExportStar:
		// Re-exports never touch local bindings
		a.res.IsESM = true
		return

	case *js_ast.SExportDefault:
		a.res.IsESM = true
		a.visitExportDefault(s)
		return

	case *js_ast.SFunction:
		if s.IsExport {
			a.res.IsESM = true
			if s.Fn.Name != nil {
				a.res.Exports[s.Fn.Name.Id()] = s.Fn.Name.Name
			}
		}

	case *js_ast.SClass:
		if s.IsExport {
			a.res.IsESM = true
			if s.Class.Name != nil {
				a.res.Exports[s.Class.Name.Id()] = s.Class.Name.Name
			}
		}

	case *js_ast.SLocal:
		if s.IsExport {
			a.res.IsESM = true
			for _, decl := range s.Decls {
				a.inExportDecl = true
				a.visitBinding(decl.Binding)
				a.inExportDecl = false
			}
			// Fall through to the declarator visit below so initializers are
			// still checked for requires
		} else {
			// A top-level declaration keeps top-level position for its
			// declarators, so requires in them can be hoisted
			for _, decl := range s.Decls {
				a.visitVarDeclarator(decl)
			}
			return
		}

	case *js_ast.SExpr:
		// A bare top-level "require(...)" is a pure side effect import and
		// needs no further analysis
		if _, ok := matchRequire(s.Value, a.module); ok {
			return
		}
	}

	a.inTopLevel = false
	a.visitStmt(stmt)
	a.inTopLevel = true
}

func (a *analyzer) visitImportStmt(s *js_ast.SImport) {
	if s.DefaultName != nil {
		a.res.Imports[s.DefaultName.Id()] = ImportRecord{
			Source: s.Path.Text, Specifier: "default", Kind: ImportStatic, Loc: s.DefaultName.Loc}
	}
	if s.StarName != nil {
		a.res.Imports[s.StarName.Id()] = ImportRecord{
			Source: s.Path.Text, Specifier: "*", Kind: ImportStatic, Loc: s.StarName.Loc}
	}
	if s.Items != nil {
		for _, item := range *s.Items {
			a.res.Imports[item.Name.Id()] = ImportRecord{
				Source: s.Path.Text, Specifier: item.Alias, Kind: ImportStatic, Loc: item.Name.Loc}
		}
	}
}

func (a *analyzer) visitExportDefault(s *js_ast.SExportDefault) {
	if s.Value.Stmt != nil {
		switch inner := s.Value.Stmt.Data.(type) {
		case *js_ast.SFunction:
			if inner.Fn.Name != nil {
				a.res.Exports[inner.Fn.Name.Id()] = "default"
			}
		case *js_ast.SClass:
			if inner.Class.Name != nil {
				a.res.Exports[inner.Class.Name.Id()] = "default"
			}
		}
	}
	a.inTopLevel = false
	if s.Value.Stmt != nil {
		a.visitStmt(*s.Value.Stmt)
	} else if s.Value.Expr != nil {
		a.visitExpr(*s.Value.Expr)
	}
	a.inTopLevel = true
}

func (a *analyzer) visitStmts(stmts []js_ast.Stmt) {
	for _, stmt := range stmts {
		a.visitStmt(stmt)
	}
}

func (a *analyzer) visitStmt(stmt js_ast.Stmt) {
	switch s := stmt.Data.(type) {
	case *js_ast.SBlock:
		a.visitStmts(s.Stmts)

	case *js_ast.SExpr:
		a.visitExpr(s.Value)

	case *js_ast.SLocal:
		for _, decl := range s.Decls {
			a.visitVarDeclarator(decl)
		}

	case *js_ast.SFunction:
		a.visitFn(&s.Fn)

	case *js_ast.SClass:
		a.visitClass(&s.Class)

	case *js_ast.SReturn:
		if !a.inFunction {
			a.res.ShouldWrap = true
			a.bailout(stmt.Loc, BailoutTopLevelReturn)
		}
		if s.Value != nil {
			a.visitExpr(*s.Value)
		}

	case *js_ast.SThrow:
		a.visitExpr(s.Value)

	case *js_ast.SIf:
		a.visitExpr(s.Test)
		a.visitStmt(s.Yes)
		if s.No != nil {
			a.visitStmt(*s.No)
		}

	case *js_ast.SFor:
		if s.Init != nil {
			a.visitStmt(*s.Init)
		}
		if s.Test != nil {
			a.visitExpr(*s.Test)
		}
		if s.Update != nil {
			a.visitExpr(*s.Update)
		}
		a.visitStmt(s.Body)

	case *js_ast.SForIn:
		a.visitStmt(s.Init)
		a.visitExpr(s.Value)
		a.visitStmt(s.Body)

	case *js_ast.SForOf:
		a.visitStmt(s.Init)
		a.visitExpr(s.Value)
		a.visitStmt(s.Body)

	case *js_ast.SWhile:
		a.visitExpr(s.Test)
		a.visitStmt(s.Body)

	case *js_ast.SDoWhile:
		a.visitStmt(s.Body)
		a.visitExpr(s.Test)

	case *js_ast.STry:
		a.visitStmts(s.Body)
		if s.Catch != nil {
			if s.Catch.Binding != nil {
				a.visitBinding(*s.Catch.Binding)
			}
			a.visitStmts(s.Catch.Body)
		}
		if s.Finally != nil {
			a.visitStmts(s.Finally.Stmts)
		}

	case *js_ast.SSwitch:
		a.visitExpr(s.Test)
		for _, c := range s.Cases {
			if c.Value != nil {
				a.visitExpr(*c.Value)
			}
			a.visitStmts(c.Body)
		}

	case *js_ast.SLabel:
		a.visitStmt(s.Stmt)
	}
}

func (a *analyzer) visitVarDeclarator(decl js_ast.Decl) {
	if decl.Value != nil {
		init := *decl.Value

		if src, ok := matchRequire(init, a.module); ok {
			a.addPatImports(decl.Binding, src, ImportRequire)
			return
		}

		switch e := init.Data.(type) {
		case *js_ast.EDot:
			// const yx = require('y').x  =>  const {x: yx} = require('y')
			if src, ok := matchRequire(e.Target, a.module); ok {
				a.addMemberRequire(decl.Binding, src, e.Name, true)
				return
			}

		case *js_ast.EIndex:
			if src, ok := matchRequire(e.Target, a.module); ok {
				if str, isStr := e.Index.Data.(*js_ast.EString); isStr {
					a.addMemberRequire(decl.Binding, src, str.Value, true)
				} else {
					a.addMemberRequire(decl.Binding, src, "", false)
				}
				return
			}

		case *js_ast.EAwait:
			// let x = await import('foo')
			// let {x} = await import('foo')
			if src, ok := matchImport(e.Value); ok {
				a.addPatImports(decl.Binding, src, ImportDynamic)
				return
			}
		}
	}

	inTopLevel := a.inTopLevel
	a.inTopLevel = false
	a.visitBinding(decl.Binding)
	if decl.Value != nil {
		a.visitExpr(*decl.Value)
	}
	a.inTopLevel = inTopLevel
}

// addMemberRequire records "require('src').key" bound to a pattern. A
// non-static key makes the whole require non-static.
func (a *analyzer) addMemberRequire(binding js_ast.Binding, src string, key string, keyIsStatic bool) {
	if !a.inTopLevel {
		a.res.WrappedRequires[src] = true
		a.res.NonStaticRequires[src] = true
		a.bailout(binding.Loc, BailoutNonTopLevelRequire)
	}
	if !keyIsStatic {
		a.res.NonStaticRequires[src] = true
		a.bailout(binding.Loc, BailoutNonStaticDestructuring)
		return
	}
	if ident, ok := binding.Data.(*js_ast.BIdentifier); ok {
		a.res.Imports[ident.Id()] = ImportRecord{Source: src, Specifier: key, Kind: ImportRequire, Loc: binding.Loc}
		a.res.NonConstBindings[ident.Id()] = append(a.res.NonConstBindings[ident.Id()], binding.Loc)
	} else {
		a.res.NonStaticRequires[src] = true
		a.bailout(binding.Loc, BailoutNonStaticDestructuring)
	}
}

// addPatImports records the bindings a require, import statement equivalent,
// or dynamic import introduces through the given pattern
func (a *analyzer) addPatImports(binding js_ast.Binding, src string, kind ImportKind) {
	if !a.inTopLevel {
		a.res.WrappedRequires[src] = true
		if kind != ImportDynamic {
			a.res.NonStaticRequires[src] = true
			a.bailout(binding.Loc, BailoutNonTopLevelRequire)
		}
	}

	switch b := binding.Data.(type) {
	case *js_ast.BIdentifier:
		// let x = require('y'): member accesses of x are tracked later
		a.res.Imports[b.Id()] = ImportRecord{Source: src, Specifier: "*", Kind: kind, Loc: binding.Loc}

	case *js_ast.BObject:
		for _, prop := range b.Properties {
			if prop.IsSpread {
				// let {x, ...y} = require('y'): unknown keys are used
				a.res.NonStaticRequires[src] = true
				a.bailout(binding.Loc, BailoutNonStaticDestructuring)
				continue
			}

			var imported string
			if str, ok := prop.Key.Data.(*js_ast.EString); ok && !prop.IsComputed {
				imported = str.Value
			} else {
				// Computed property
				a.res.NonStaticRequires[src] = true
				a.bailout(binding.Loc, BailoutNonStaticDestructuring)
				continue
			}

			ident, ok := prop.Value.Data.(*js_ast.BIdentifier)
			if !ok || (prop.DefaultValue != nil && ident.Name != imported) {
				// Nested patterns and renamed defaults are non-static
				a.res.NonStaticRequires[src] = true
				a.bailout(binding.Loc, BailoutNonStaticDestructuring)
				continue
			}

			a.res.Imports[ident.Id()] = ImportRecord{Source: src, Specifier: imported, Kind: kind, Loc: prop.Value.Loc}

			// The exports of a CommonJS module can be mutated after the fact,
			// so a destructured binding cannot be replaced by the exported
			// value directly
			a.res.NonConstBindings[ident.Id()] = append(a.res.NonConstBindings[ident.Id()], prop.Value.Loc)
		}

	default:
		a.res.NonStaticRequires[src] = true
		a.bailout(binding.Loc, BailoutNonStaticDestructuring)
	}
}

////////////////////////////////////////////////////////////////////////////////
// Bindings

// visitBinding walks a declaration pattern. Binding identifiers only matter
// inside an export declaration or on the left of an assignment; defaults and
// computed keys are ordinary expressions.
func (a *analyzer) visitBinding(binding js_ast.Binding) {
	switch b := binding.Data.(type) {
	case *js_ast.BIdentifier:
		a.bindingIdent(b.Name, b.Scope, binding.Loc)

	case *js_ast.BArray:
		for _, item := range b.Items {
			a.visitBinding(item.Binding)
			if item.DefaultValue != nil {
				a.visitExpr(*item.DefaultValue)
			}
		}

	case *js_ast.BObject:
		for _, prop := range b.Properties {
			if prop.IsComputed {
				a.visitExpr(prop.Key)
			}
			a.visitBinding(prop.Value)
			if prop.DefaultValue != nil {
				a.visitExpr(*prop.DefaultValue)
			}
		}
	}
}

func (a *analyzer) bindingIdent(name string, scope js_ast.ScopeID, loc logger.Loc) {
	id := js_ast.Id{Name: name, Scope: scope}
	if a.inExportDecl {
		a.res.Exports[id] = name
	}
	if a.inAssign && scope == a.module.TopLevelScope {
		a.res.NonConstBindings[id] = append(a.res.NonConstBindings[id], loc)
	}
}

////////////////////////////////////////////////////////////////////////////////
// Expressions

func (a *analyzer) visitExpr(expr js_ast.Expr) {
	// A require reaching this visitor is outside both top-level statement
	// position and a variable declaration, so the referenced module must stay
	// wrapped to preserve side effect ordering
	if src, ok := matchRequire(expr, a.module); ok {
		a.res.WrappedRequires[src] = true
		a.bailout(expr.Loc, BailoutNonTopLevelRequire)
	}

	if src, ok := matchImport(expr); ok {
		a.res.NonStaticRequires[src] = true
		a.res.WrappedRequires[src] = true
		a.bailout(expr.Loc, BailoutNonStaticDynamicImport)
	}

	switch e := expr.Data.(type) {
	case *js_ast.EIdentifier:
		id := e.Id()
		isModule := e.Name == "module"
		isExports := e.Name == "exports"
		if (isModule || isExports) && a.isFree(id) {
			a.res.HasCJSExports = true
			a.res.StaticCJSExports = false
			if isModule {
				a.res.ShouldWrap = true
				a.bailout(expr.Loc, BailoutFreeModule)
			} else {
				a.bailout(expr.Loc, BailoutFreeExports)
			}
		}
		a.res.NonStaticAccess[id] = append(a.res.NonStaticAccess[id], expr.Loc)

	case *js_ast.EDot, *js_ast.EIndex:
		a.visitMemberExpr(expr)

	case *js_ast.EThis:
		if a.inModuleThis {
			a.res.HasCJSExports = true
			a.res.StaticCJSExports = false
			a.bailout(expr.Loc, BailoutFreeExports)
		}

	case *js_ast.EUnary:
		// "typeof module" must not count as a free use of "module"
		if e.Op == js_ast.UnOpTypeof {
			if ident, ok := e.Value.Data.(*js_ast.EIdentifier); ok &&
				ident.Name == "module" && a.isFree(ident.Id()) {
				return
			}
		}
		a.visitExpr(e.Value)

	case *js_ast.ECall:
		a.visitCallExpr(expr.Loc, e)

	case *js_ast.ENew:
		a.visitExpr(e.Target)
		for _, arg := range e.Args {
			a.visitExpr(arg)
		}

	case *js_ast.EBinary:
		if e.Op >= js_ast.BinOpAssign {
			a.visitAssignExpr(e)
		} else {
			a.visitExpr(e.Left)
			a.visitExpr(e.Right)
		}

	case *js_ast.EArray:
		for _, item := range e.Items {
			a.visitExpr(item)
		}

	case *js_ast.EObject:
		for _, prop := range e.Properties {
			a.visitObjectProperty(prop)
		}

	case *js_ast.ESpread:
		a.visitExpr(e.Value)

	case *js_ast.ETemplate:
		if e.Tag != nil {
			a.visitExpr(*e.Tag)
		}
		for _, part := range e.Parts {
			a.visitExpr(part.Value)
		}

	case *js_ast.EAwait:
		a.visitExpr(e.Value)

	case *js_ast.EYield:
		if e.Value != nil {
			a.visitExpr(*e.Value)
		}

	case *js_ast.EIf:
		a.visitExpr(e.Test)
		a.visitExpr(e.Yes)
		a.visitExpr(e.No)

	case *js_ast.EImport:
		a.visitExpr(e.Expr)

	case *js_ast.EFunction:
		a.visitFn(&e.Fn)

	case *js_ast.EArrow:
		inFunction := a.inFunction
		a.inFunction = true
		for _, arg := range e.Args {
			a.visitBinding(arg.Binding)
			if arg.Default != nil {
				a.visitExpr(*arg.Default)
			}
		}
		a.visitStmts(e.Body.Stmts)
		a.inFunction = inFunction

	case *js_ast.EClass:
		a.visitClass(&e.Class)
	}
}

func (a *analyzer) visitObjectProperty(prop js_ast.Property) {
	if prop.IsComputed {
		a.visitExpr(prop.Key)
	}
	if prop.Value != nil {
		if fn, ok := prop.Value.Data.(*js_ast.EFunction); ok &&
			(prop.Kind == js_ast.PropertyGet || prop.Kind == js_ast.PropertySet || prop.IsMethod) {
			a.visitFn(&fn.Fn)
			return
		}
		a.visitExpr(*prop.Value)
	}
	if prop.Initializer != nil {
		a.visitExpr(*prop.Initializer)
	}
}

func (a *analyzer) visitMemberExpr(expr js_ast.Expr) {
	if matchMemberExpr(expr, "module", "exports", a.module) {
		a.res.StaticCJSExports = false
		a.res.HasCJSExports = true
		return
	}
	if matchMemberExpr(expr, "module", "hot", a.module) ||
		matchMemberExpr(expr, "module", "require", a.module) {
		return
	}

	var target js_ast.Expr
	var index *js_ast.Expr
	isStatic := false
	switch e := expr.Data.(type) {
	case *js_ast.EDot:
		target = e.Target
		isStatic = true
	case *js_ast.EIndex:
		target = e.Target
		index = &e.Index
		if _, ok := e.Index.Data.(*js_ast.EString); ok {
			isStatic = true
		}
	}

	switch t := target.Data.(type) {
	case *js_ast.EDot, *js_ast.EIndex:
		// module.exports.foo
		if matchMemberExpr(target, "module", "exports", a.module) {
			a.res.HasCJSExports = true
			if !isStatic {
				a.res.StaticCJSExports = false
				a.bailout(expr.Loc, BailoutNonStaticExports)
			}
		}
		return

	case *js_ast.EIdentifier:
		if t.Name == "exports" && a.isFree(t.Id()) {
			a.res.HasCJSExports = true
			if !isStatic {
				a.res.StaticCJSExports = false
				a.bailout(expr.Loc, BailoutNonStaticExports)
			}
		}
		if t.Name == "module" && a.isFree(t.Id()) {
			a.res.HasCJSExports = true
			a.res.StaticCJSExports = false
			a.res.ShouldWrap = true
			a.bailout(expr.Loc, BailoutFreeModule)
		}
		if !isStatic && t.Name != "import" {
			a.res.NonStaticAccess[t.Id()] = append(a.res.NonStaticAccess[t.Id()], expr.Loc)
		}
		return

	case *js_ast.EThis:
		if a.inModuleThis {
			a.res.HasCJSExports = true
			if !isStatic {
				a.res.StaticCJSExports = false
				a.bailout(expr.Loc, BailoutNonStaticExports)
			}
		}
		return
	}

	a.visitExpr(target)
	if index != nil {
		a.visitExpr(*index)
	}
}

func (a *analyzer) visitCallExpr(loc logger.Loc, call *js_ast.ECall) {
	switch t := call.Target.Data.(type) {
	case *js_ast.EIdentifier:
		if t.Name == "eval" && a.isFree(t.Id()) {
			a.res.ShouldWrap = true
			a.bailout(loc, BailoutEval)
		}

	case *js_ast.EDot, *js_ast.EIndex:
		// import('foo').then(foo => ...)
		if target, key, ok := memberParts(call.Target); ok && key == "then" {
			if src, isImport := matchImport(target); isImport && len(call.Args) > 0 {
				callback := call.Args[0]
				var param *js_ast.Binding
				switch fn := callback.Data.(type) {
				case *js_ast.EFunction:
					if len(fn.Fn.Args) > 0 {
						param = &fn.Fn.Args[0].Binding
					}
				case *js_ast.EArrow:
					if len(fn.Args) > 0 {
						param = &fn.Args[0].Binding
					}
				}

				if param != nil {
					a.addPatImports(*param, src, ImportDynamic)
				} else {
					a.res.NonStaticRequires[src] = true
					a.res.WrappedRequires[src] = true
					a.bailout(loc, BailoutNonStaticDynamicImport)
				}

				// Only the callback is visited so the import expression
				// itself is not flagged as a bare value
				a.visitExpr(callback)
				return
			}
		}
	}

	a.visitExpr(call.Target)
	for _, arg := range call.Args {
		a.visitExpr(arg)
	}
}

func (a *analyzer) visitAssignExpr(e *js_ast.EBinary) {
	a.inAssign = true
	a.visitAssignTarget(e.Left)
	a.inAssign = false
	a.visitExpr(e.Right)

	if hasBindingIdentifier(e.Left, "exports", a.module) {
		// Must wrap for cases like "exports.foo = 2; exports = 1; exports.foo = 3;"
		// where the second assignment detaches the local from the real object
		a.res.StaticCJSExports = false
		a.res.HasCJSExports = true
		a.res.ShouldWrap = true
		a.bailout(e.Left.Loc, BailoutExportsReassignment)
	}
	if hasBindingIdentifier(e.Left, "module", a.module) {
		a.res.StaticCJSExports = false
		a.res.HasCJSExports = true
		a.res.ShouldWrap = true
		a.bailout(e.Left.Loc, BailoutModuleReassignment)
	}
}

// visitAssignTarget walks the left side of an assignment. Plain identifiers
// are binding positions, not value reads, so they bypass the identifier rules
// in visitExpr.
func (a *analyzer) visitAssignTarget(expr js_ast.Expr) {
	switch e := expr.Data.(type) {
	case *js_ast.EIdentifier:
		a.bindingIdent(e.Name, e.Scope, expr.Loc)

	case *js_ast.EArray:
		for _, item := range e.Items {
			a.visitAssignTarget(item)
		}

	case *js_ast.EObject:
		for _, prop := range e.Properties {
			if prop.IsComputed {
				a.visitExpr(prop.Key)
			}
			if prop.Value != nil {
				a.visitAssignTarget(*prop.Value)
			}
			if prop.Initializer != nil {
				a.visitExpr(*prop.Initializer)
			}
		}

	case *js_ast.ESpread:
		a.visitAssignTarget(e.Value)

	case *js_ast.EBinary:
		// A default in a destructuring assignment: "[x = 1] = y"
		if e.Op == js_ast.BinOpAssign {
			a.visitAssignTarget(e.Left)
			a.visitExpr(e.Right)
			return
		}
		a.visitExpr(expr)

	default:
		a.visitExpr(expr)
	}
}

func (a *analyzer) visitFn(fn *js_ast.Fn) {
	inModuleThis, inFunction := a.inModuleThis, a.inFunction
	a.inModuleThis, a.inFunction = false, true
	for _, arg := range fn.Args {
		a.visitBinding(arg.Binding)
		if arg.Default != nil {
			a.visitExpr(*arg.Default)
		}
	}
	a.visitStmts(fn.Body.Stmts)
	a.inModuleThis, a.inFunction = inModuleThis, inFunction
}

func (a *analyzer) visitClass(class *js_ast.Class) {
	inModuleThis, inFunction := a.inModuleThis, a.inFunction
	a.inModuleThis, a.inFunction = false, true
	if class.Extends != nil {
		a.visitExpr(*class.Extends)
	}
	for _, prop := range class.Properties {
		a.visitObjectProperty(prop)
	}
	a.inModuleThis, a.inFunction = inModuleThis, inFunction
}
