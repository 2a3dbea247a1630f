package hoist

import (
	"github.com/hoistpack/hoistpack/internal/js_ast"
	"github.com/hoistpack/hoistpack/internal/logger"
)

// The rewriter folds the original tree into a new one using the analyzer's
// fact base. Imports and hoistable requires become synthesized side-effect
// imports plus renamed bindings, exports become uniquely named top-level
// variables, and everything the analyzer flagged as non-static is left
// behind in its original runtime form.

// ImportedSymbol records one value this module pulls in from another module
type ImportedSymbol struct {
	Source   string
	Local    string
	Imported string
	Loc      logger.Loc
}

// ExportedSymbol records one value this module exposes
type ExportedSymbol struct {
	Local    string
	Exported string
	Loc      logger.Loc
}

// HoistResult is the summary a linker needs to stitch hoisted modules
// together into one scope
type HoistResult struct {
	ImportedSymbols []ImportedSymbol
	ExportedSymbols []ExportedSymbol
	ReExports       []ImportedSymbol
	SelfReferences  map[string]bool
	WrappedRequires map[string]bool
	DynamicImports  map[string]string

	StaticCJSExports bool
	HasCJSExports    bool
	IsESM            bool
	ShouldWrap       bool
}

type rewriter struct {
	moduleID string
	module   *js_ast.Module
	source   *logger.Source
	analysis *Analysis

	moduleItems     []js_ast.Stmt
	exportDecls     []string
	exportDeclsSeen map[string]bool

	importedSymbols []ImportedSymbol
	exportedSymbols []ExportedSymbol
	reExports       []ImportedSymbol
	selfReferences  map[string]bool
	dynamicImports  map[string]string

	inFunctionScope bool
	diagnostics     []logger.Msg
}

// Rewrite produces the hoisted tree for one module. The input tree is not
// modified; shared subtrees may be referenced by the result.
func Rewrite(module js_ast.Module, source *logger.Source, analysis *Analysis, moduleID string) (js_ast.Module, HoistResult, []logger.Msg) {
	h := &rewriter{
		moduleID:        moduleID,
		module:          &module,
		source:          source,
		analysis:        analysis,
		exportDeclsSeen: make(map[string]bool),
		selfReferences:  make(map[string]bool),
		dynamicImports:  make(map[string]string),
	}

	h.foldModuleItems(module.Stmts)

	result := HoistResult{
		ImportedSymbols:  h.importedSymbols,
		ExportedSymbols:  h.exportedSymbols,
		ReExports:        h.reExports,
		SelfReferences:   h.selfReferences,
		WrappedRequires:  analysis.WrappedRequires,
		DynamicImports:   h.dynamicImports,
		StaticCJSExports: analysis.StaticCJSExports,
		HasCJSExports:    analysis.HasCJSExports,
		IsESM:            analysis.IsESM,
		ShouldWrap:       analysis.ShouldWrap,
	}

	out := module
	out.Stmts = h.moduleItems
	return out, result, h.diagnostics
}

////////////////////////////////////////////////////////////////////////////////
// Module body

func (h *rewriter) foldModuleItems(stmts []js_ast.Stmt) {
	// ESM imports and re-exports are hoisted above everything else; requires
	// become synthesized imports at their original statement position
	var hoistedImports []js_ast.Stmt

	for _, stmt := range stmts {
		switch s := stmt.Data.(type) {
		case *js_ast.SImport:
			hoistedImports = append(hoistedImports, h.syntheticImport(s.Path.Text))
			h.checkImportSpecifiers(s)

		case *js_ast.SExportFrom:
			hoistedImports = append(hoistedImports, h.syntheticImport(s.Path.Text))
			for _, item := range s.Items {
				h.reExports = append(h.reExports, ImportedSymbol{
					Source:   s.Path.Text,
					Local:    item.Alias,
					Imported: item.Name.Name,
					Loc:      item.AliasLoc,
				})
			}

		case *js_ast.SExportStar:
			hoistedImports = append(hoistedImports, h.syntheticImport(s.Path.Text))
			local := "*"
			loc := stmt.Loc
			if s.Alias != nil {
				local = s.Alias.Name
				loc = s.Alias.Loc
			}
			h.reExports = append(h.reExports, ImportedSymbol{
				Source: s.Path.Text, Local: local, Imported: "*", Loc: loc})

		case *js_ast.SExportClause:
			h.foldExportClause(s)

		case *js_ast.SExportDefault:
			h.foldExportDefault(stmt.Loc, s)

		case *js_ast.SFunction:
			if s.IsExport {
				fn := h.foldFnWithName(s.Fn)
				h.moduleItems = append(h.moduleItems, js_ast.Stmt{Loc: stmt.Loc,
					Data: &js_ast.SFunction{Fn: fn}})
			} else {
				folded := h.foldStmt(stmt)
				h.moduleItems = append(h.moduleItems, folded)
			}

		case *js_ast.SClass:
			if s.IsExport {
				class := h.foldClassWithName(s.Class)
				h.moduleItems = append(h.moduleItems, js_ast.Stmt{Loc: stmt.Loc,
					Data: &js_ast.SClass{Class: class}})
			} else {
				folded := h.foldStmt(stmt)
				h.moduleItems = append(h.moduleItems, folded)
			}

		case *js_ast.SLocal:
			if s.IsExport {
				decls := make([]js_ast.Decl, len(s.Decls))
				for i, decl := range s.Decls {
					decls[i] = h.foldDecl(decl)
				}
				h.moduleItems = append(h.moduleItems, js_ast.Stmt{Loc: stmt.Loc,
					Data: &js_ast.SLocal{Kind: s.Kind, Decls: decls}})
			} else {
				h.foldTopLevelLocal(stmt.Loc, s)
			}

		case *js_ast.SExpr:
			// A bare "require('other')" behaves like "import 'other'": it
			// adds the dependency edge and no symbols at all
			if src, ok := matchRequire(s.Value, h.module); ok {
				h.addRequire(src)
			} else {
				folded := h.foldStmt(stmt)
				h.moduleItems = append(h.moduleItems, folded)
			}

		default:
			// Fold before appending: folding can itself append synthesized
			// imports, which belong before the statement that required them
			folded := h.foldStmt(stmt)
			h.moduleItems = append(h.moduleItems, folded)
		}
	}

	// CommonJS exports assigned somewhere in the body need a hoisted
	// declaration so references before the assignment see a declared variable
	for _, name := range h.exportDecls {
		hoistedImports = append(hoistedImports, js_ast.Stmt{
			Data: &js_ast.SLocal{Kind: js_ast.LocalVar, Decls: []js_ast.Decl{{
				Binding: h.syntheticBinding(name),
			}}},
		})
	}

	h.moduleItems = append(hoistedImports, h.moduleItems...)
}

// checkImportSpecifiers emits a fatal diagnostic for every import binding the
// module later reassigns. Import bindings are immutable by language rule, so
// renaming them in place would silently change behavior.
func (h *rewriter) checkImportSpecifiers(s *js_ast.SImport) {
	check := func(local js_ast.NameLoc) {
		spans := h.analysis.NonConstBindings[local.Id()]
		if len(spans) == 0 {
			return
		}
		var notes []logger.Msg
		for _, span := range spans[1:] {
			notes = append(notes, logger.Msg{
				Kind:     logger.Note,
				Location: logger.LocationOrNil(h.source, logger.Range{Loc: span}),
			})
		}
		notes = append(notes, logger.Msg{
			Kind:     logger.Note,
			Text:     "Originally imported here",
			Location: logger.LocationOrNil(h.source, logger.Range{Loc: local.Loc}),
		})
		h.diagnostics = append(h.diagnostics, logger.Msg{
			Kind:     logger.Error,
			Text:     "Assignment to an import specifier is not allowed",
			Location: logger.LocationOrNil(h.source, logger.Range{Loc: spans[0]}),
			Notes:    notes,
		})
	}

	if s.DefaultName != nil {
		check(*s.DefaultName)
	}
	if s.StarName != nil {
		check(*s.StarName)
	}
	if s.Items != nil {
		for _, item := range *s.Items {
			check(item.Name)
		}
	}
}

func (h *rewriter) foldExportClause(s *js_ast.SExportClause) {
	for _, item := range s.Items {
		id := item.Name.Id()
		if imp, ok := h.analysis.Imports[id]; ok {
			// Exporting an imported binding is a re-export
			h.reExports = append(h.reExports, ImportedSymbol{
				Source:   imp.Source,
				Local:    item.Alias,
				Imported: imp.Specifier,
				Loc:      item.AliasLoc,
			})
			continue
		}

		// A binding appears only once in the exports mapping but can be
		// exported several times under different names. Map each alias back
		// through the name recorded for the binding.
		orig := h.analysis.Exports[id]
		var local string
		if h.analysis.ShouldWrap {
			local = orig
		} else {
			local = h.getExportIdent(item.AliasLoc, orig)
		}
		h.exportedSymbols = append(h.exportedSymbols, ExportedSymbol{
			Local: local, Exported: item.Alias, Loc: item.AliasLoc})
	}
}

func (h *rewriter) foldExportDefault(loc logger.Loc, s *js_ast.SExportDefault) {
	if s.Value.Expr != nil {
		name := h.getExportIdent(s.DefaultLoc, "default")
		init := h.foldExpr(*s.Value.Expr)
		h.moduleItems = append(h.moduleItems, js_ast.Stmt{Loc: loc,
			Data: &js_ast.SLocal{Kind: js_ast.LocalVar, Decls: []js_ast.Decl{{
				Binding: h.syntheticBinding(name),
				Value:   &init,
			}}}})
		return
	}

	switch inner := s.Value.Stmt.Data.(type) {
	case *js_ast.SFunction:
		fn := inner.Fn
		if !(h.analysis.ShouldWrap && fn.Name != nil) {
			name := h.getExportIdent(s.DefaultLoc, "default")
			fn.Name = &js_ast.NameLoc{Loc: s.DefaultLoc, Name: name, Scope: h.module.IgnoreScope}
		}
		fn = h.foldFnBody(fn)
		h.moduleItems = append(h.moduleItems, js_ast.Stmt{Loc: loc, Data: &js_ast.SFunction{Fn: fn}})

	case *js_ast.SClass:
		class := inner.Class
		if !(h.analysis.ShouldWrap && class.Name != nil) {
			name := h.getExportIdent(s.DefaultLoc, "default")
			class.Name = &js_ast.NameLoc{Loc: s.DefaultLoc, Name: name, Scope: h.module.IgnoreScope}
		}
		class = h.foldClassBody(class)
		h.moduleItems = append(h.moduleItems, js_ast.Stmt{Loc: loc, Data: &js_ast.SClass{Class: class}})
	}
}

// foldTopLevelLocal splits a top-level declaration around any hoistable
// requires so that side effect ordering is preserved:
//
//	var x = f(), y = require('o'), z = g();
//	  -> var x = f(); import 'id:o'; var y = g();
func (h *rewriter) foldTopLevelLocal(loc logger.Loc, s *js_ast.SLocal) {
	var decls []js_ast.Decl

	flush := func() {
		if len(decls) > 0 {
			h.moduleItems = append(h.moduleItems, js_ast.Stmt{Loc: loc,
				Data: &js_ast.SLocal{Kind: s.Kind, Decls: decls}})
			decls = nil
		}
	}

	for _, decl := range s.Decls {
		if decl.Value != nil {
			// var x = require('foo')
			if src, ok := matchRequire(*decl.Value, h.module); ok && !h.analysis.NonStaticRequires[src] {
				flush()
				h.addRequire(src)
				h.handleNonConstRequire(decl, src)
				continue
			}

			// var x = require('foo').bar
			if target, _, ok := memberParts(*decl.Value); ok {
				if src, isReq := matchRequire(target, h.module); isReq && !h.analysis.NonStaticRequires[src] {
					flush()
					h.addRequire(src)
					h.handleNonConstRequire(decl, src)
					continue
				}
			}
		}

		// Requires nested inside the initializer are hoisted as the fold
		// runs. When that happens mid-declaration, the declarators folded so
		// far must be emitted before the new import to keep their side
		// effects ordered ahead of it.
		itemsLen := len(h.moduleItems)
		folded := h.foldDecl(decl)
		if len(h.moduleItems) > itemsLen && len(decls) > 0 {
			split := js_ast.Stmt{Loc: loc, Data: &js_ast.SLocal{Kind: s.Kind, Decls: decls}}
			h.moduleItems = append(h.moduleItems[:itemsLen],
				append([]js_ast.Stmt{split}, h.moduleItems[itemsLen:]...)...)
			decls = nil
		}
		decls = append(decls, folded)
	}

	flush()
}

// handleNonConstRequire emits indirection variables for destructured require
// bindings that are later reassigned. The local variable starts out pointing
// at the imported value and can be reassigned without affecting the original
// export. This is only possible for CommonJS; reassigned ESM imports are a
// fatal diagnostic instead.
func (h *rewriter) handleNonConstRequire(decl js_ast.Decl, src string) {
	var ids []js_ast.Id
	h.nonConstBindingIdents(decl.Binding, &ids)

	for _, id := range ids {
		imp, ok := h.analysis.Imports[id]
		if !ok {
			continue
		}
		importName := h.getImportIdent(decl.Binding.Loc, src, imp.Specifier)
		init := js_ast.Expr{Loc: decl.Binding.Loc,
			Data: &js_ast.EIdentifier{Name: importName, Scope: h.module.IgnoreScope}}
		h.moduleItems = append(h.moduleItems, js_ast.Stmt{Loc: decl.Binding.Loc,
			Data: &js_ast.SLocal{Kind: js_ast.LocalVar, Decls: []js_ast.Decl{{
				Binding: h.syntheticBinding(RequireName(h.moduleID, id.Name)),
				Value:   &init,
			}}}})
	}
}

func (h *rewriter) nonConstBindingIdents(binding js_ast.Binding, out *[]js_ast.Id) {
	switch b := binding.Data.(type) {
	case *js_ast.BIdentifier:
		if _, ok := h.analysis.NonConstBindings[b.Id()]; ok {
			*out = append(*out, b.Id())
		}
	case *js_ast.BArray:
		for _, item := range b.Items {
			h.nonConstBindingIdents(item.Binding, out)
		}
	case *js_ast.BObject:
		for _, prop := range b.Properties {
			h.nonConstBindingIdents(prop.Value, out)
		}
	}
}

////////////////////////////////////////////////////////////////////////////////
// Synthesized nodes and names

func (h *rewriter) syntheticImport(src string) js_ast.Stmt {
	return js_ast.Stmt{Data: &js_ast.SImport{
		Path: js_ast.Path{Text: h.moduleID + ":" + src},
	}}
}

func (h *rewriter) syntheticBinding(name string) js_ast.Binding {
	return js_ast.Binding{Data: &js_ast.BIdentifier{Name: name, Scope: h.module.IgnoreScope}}
}

func (h *rewriter) addRequire(src string) {
	h.moduleItems = append(h.moduleItems, h.syntheticImport(src))
}

func (h *rewriter) getImportIdent(loc logger.Loc, source string, imported string) string {
	name := ImportName(h.moduleID, source, imported)
	h.importedSymbols = append(h.importedSymbols, ImportedSymbol{
		Source: source, Local: name, Imported: imported, Loc: loc})
	return name
}

func (h *rewriter) getExportIdent(loc logger.Loc, exported string) string {
	name := ExportName(h.moduleID, exported)
	h.exportedSymbols = append(h.exportedSymbols, ExportedSymbol{
		Local: name, Exported: exported, Loc: loc})
	return name
}

func (h *rewriter) addExportDecl(name string) {
	if !h.exportDeclsSeen[name] {
		h.exportDeclsSeen[name] = true
		h.exportDecls = append(h.exportDecls, name)
	}
}

////////////////////////////////////////////////////////////////////////////////
// Statements

func (h *rewriter) foldStmts(stmts []js_ast.Stmt) []js_ast.Stmt {
	out := make([]js_ast.Stmt, len(stmts))
	for i, stmt := range stmts {
		out[i] = h.foldStmt(stmt)
	}
	return out
}

func (h *rewriter) foldStmt(stmt js_ast.Stmt) js_ast.Stmt {
	switch s := stmt.Data.(type) {
	case *js_ast.SBlock:
		return js_ast.Stmt{Loc: stmt.Loc, Data: &js_ast.SBlock{Stmts: h.foldStmts(s.Stmts)}}

	case *js_ast.SExpr:
		return js_ast.Stmt{Loc: stmt.Loc, Data: &js_ast.SExpr{Value: h.foldExpr(s.Value)}}

	case *js_ast.SLocal:
		decls := make([]js_ast.Decl, len(s.Decls))
		for i, decl := range s.Decls {
			decls[i] = h.foldDecl(decl)
		}
		return js_ast.Stmt{Loc: stmt.Loc, Data: &js_ast.SLocal{Kind: s.Kind, Decls: decls, IsExport: s.IsExport}}

	case *js_ast.SFunction:
		return js_ast.Stmt{Loc: stmt.Loc, Data: &js_ast.SFunction{Fn: h.foldFnWithName(s.Fn), IsExport: s.IsExport}}

	case *js_ast.SClass:
		return js_ast.Stmt{Loc: stmt.Loc, Data: &js_ast.SClass{Class: h.foldClassWithName(s.Class), IsExport: s.IsExport}}

	case *js_ast.SReturn:
		out := &js_ast.SReturn{}
		if s.Value != nil {
			value := h.foldExpr(*s.Value)
			out.Value = &value
		}
		return js_ast.Stmt{Loc: stmt.Loc, Data: out}

	case *js_ast.SThrow:
		return js_ast.Stmt{Loc: stmt.Loc, Data: &js_ast.SThrow{Value: h.foldExpr(s.Value)}}

	case *js_ast.SIf:
		out := &js_ast.SIf{Test: h.foldExpr(s.Test), Yes: h.foldStmt(s.Yes)}
		if s.No != nil {
			no := h.foldStmt(*s.No)
			out.No = &no
		}
		return js_ast.Stmt{Loc: stmt.Loc, Data: out}

	case *js_ast.SFor:
		out := &js_ast.SFor{Body: h.foldStmt(s.Body)}
		if s.Init != nil {
			init := h.foldStmt(*s.Init)
			out.Init = &init
		}
		if s.Test != nil {
			test := h.foldExpr(*s.Test)
			out.Test = &test
		}
		if s.Update != nil {
			update := h.foldExpr(*s.Update)
			out.Update = &update
		}
		return js_ast.Stmt{Loc: stmt.Loc, Data: out}

	case *js_ast.SForIn:
		return js_ast.Stmt{Loc: stmt.Loc, Data: &js_ast.SForIn{
			Init: h.foldStmt(s.Init), Value: h.foldExpr(s.Value), Body: h.foldStmt(s.Body)}}

	case *js_ast.SForOf:
		return js_ast.Stmt{Loc: stmt.Loc, Data: &js_ast.SForOf{IsAwait: s.IsAwait,
			Init: h.foldStmt(s.Init), Value: h.foldExpr(s.Value), Body: h.foldStmt(s.Body)}}

	case *js_ast.SWhile:
		return js_ast.Stmt{Loc: stmt.Loc, Data: &js_ast.SWhile{
			Test: h.foldExpr(s.Test), Body: h.foldStmt(s.Body)}}

	case *js_ast.SDoWhile:
		return js_ast.Stmt{Loc: stmt.Loc, Data: &js_ast.SDoWhile{
			Body: h.foldStmt(s.Body), Test: h.foldExpr(s.Test)}}

	case *js_ast.STry:
		out := &js_ast.STry{Body: h.foldStmts(s.Body)}
		if s.Catch != nil {
			catch := js_ast.Catch{Loc: s.Catch.Loc, Body: h.foldStmts(s.Catch.Body)}
			if s.Catch.Binding != nil {
				binding := h.foldBinding(*s.Catch.Binding)
				catch.Binding = &binding
			}
			out.Catch = &catch
		}
		if s.Finally != nil {
			out.Finally = &js_ast.Finally{Loc: s.Finally.Loc, Stmts: h.foldStmts(s.Finally.Stmts)}
		}
		return js_ast.Stmt{Loc: stmt.Loc, Data: out}

	case *js_ast.SSwitch:
		cases := make([]js_ast.Case, len(s.Cases))
		for i, c := range s.Cases {
			out := js_ast.Case{Body: h.foldStmts(c.Body)}
			if c.Value != nil {
				value := h.foldExpr(*c.Value)
				out.Value = &value
			}
			cases[i] = out
		}
		return js_ast.Stmt{Loc: stmt.Loc, Data: &js_ast.SSwitch{
			Test: h.foldExpr(s.Test), BodyLoc: s.BodyLoc, Cases: cases}}

	case *js_ast.SLabel:
		return js_ast.Stmt{Loc: stmt.Loc, Data: &js_ast.SLabel{Name: s.Name, Stmt: h.foldStmt(s.Stmt)}}

	default:
		// SEmpty, SDebugger, SDirective, SBreak, SContinue
		return stmt
	}
}

func (h *rewriter) foldDecl(decl js_ast.Decl) js_ast.Decl {
	out := js_ast.Decl{Binding: h.foldBinding(decl.Binding)}
	if decl.Value != nil {
		value := h.foldExpr(*decl.Value)
		out.Value = &value
	}
	return out
}

////////////////////////////////////////////////////////////////////////////////
// Bindings

func (h *rewriter) foldBinding(binding js_ast.Binding) js_ast.Binding {
	switch b := binding.Data.(type) {
	case *js_ast.BIdentifier:
		name, scope := h.foldName(b.Name, b.Scope, binding.Loc)
		return js_ast.Binding{Loc: binding.Loc, Data: &js_ast.BIdentifier{Name: name, Scope: scope}}

	case *js_ast.BArray:
		items := make([]js_ast.ArrayBinding, len(b.Items))
		for i, item := range b.Items {
			out := js_ast.ArrayBinding{Binding: h.foldBinding(item.Binding)}
			if item.DefaultValue != nil {
				value := h.foldExpr(*item.DefaultValue)
				out.DefaultValue = &value
			}
			items[i] = out
		}
		return js_ast.Binding{Loc: binding.Loc, Data: &js_ast.BArray{Items: items, HasSpread: b.HasSpread}}

	case *js_ast.BObject:
		props := make([]js_ast.PropertyBinding, len(b.Properties))
		for i, prop := range b.Properties {
			out := prop
			if prop.IsComputed {
				out.Key = h.foldExpr(prop.Key)
			}
			out.Value = h.foldBinding(prop.Value)
			if prop.DefaultValue != nil {
				value := h.foldExpr(*prop.DefaultValue)
				out.DefaultValue = &value
			}
			props[i] = out
		}
		return js_ast.Binding{Loc: binding.Loc, Data: &js_ast.BObject{Properties: props}}

	default:
		return binding
	}
}

////////////////////////////////////////////////////////////////////////////////
// Expressions

func (h *rewriter) foldExprs(exprs []js_ast.Expr) []js_ast.Expr {
	out := make([]js_ast.Expr, len(exprs))
	for i, expr := range exprs {
		out[i] = h.foldExpr(expr)
	}
	return out
}

func (h *rewriter) foldExpr(expr js_ast.Expr) js_ast.Expr {
	switch e := expr.Data.(type) {
	case *js_ast.EDot, *js_ast.EIndex:
		return h.foldMemberExpr(expr)

	case *js_ast.ECall:
		// require('foo') -> $id$import$foo
		if src, ok := matchRequire(expr, h.module); ok {
			h.addRequire(src)
			return js_ast.Expr{Loc: expr.Loc, Data: &js_ast.EIdentifier{
				Name: h.getImportIdent(expr.Loc, src, "*"), Scope: h.module.IgnoreScope}}
		}
		return js_ast.Expr{Loc: expr.Loc, Data: &js_ast.ECall{
			Target: h.foldExpr(e.Target), Args: h.foldExprs(e.Args)}}

	case *js_ast.EImport:
		if src, ok := matchImport(expr); ok {
			h.addRequire(src)
			name := ImportAsyncName(h.moduleID, src)
			h.dynamicImports[name] = src
			if h.analysis.NonStaticRequires[src] || h.analysis.ShouldWrap {
				h.importedSymbols = append(h.importedSymbols, ImportedSymbol{
					Source: src, Local: name, Imported: "*", Loc: expr.Loc})
			}
			return js_ast.Expr{Loc: expr.Loc, Data: &js_ast.EIdentifier{
				Name: name, Scope: h.module.IgnoreScope}}
		}
		return js_ast.Expr{Loc: expr.Loc, Data: &js_ast.EImport{Expr: h.foldExpr(e.Expr)}}

	case *js_ast.EThis:
		if !h.inFunctionScope {
			// In ESM top-level "this" is undefined; in CommonJS it is the
			// exports object
			if h.analysis.IsESM {
				return js_ast.Expr{Loc: expr.Loc, Data: &js_ast.EUndefined{}}
			} else if !h.analysis.ShouldWrap {
				h.selfReferences["*"] = true
				return js_ast.Expr{Loc: expr.Loc, Data: &js_ast.EIdentifier{
					Name: h.getExportIdent(expr.Loc, "*"), Scope: h.module.IgnoreScope}}
			}
		}
		return expr

	case *js_ast.EUnary:
		// typeof require -> "function", typeof module -> "object"
		if e.Op == js_ast.UnOpTypeof {
			if ident, ok := e.Value.Data.(*js_ast.EIdentifier); ok && !h.module.Decls[ident.Id()] {
				if ident.Name == "require" {
					return js_ast.Expr{Loc: expr.Loc, Data: &js_ast.EString{Value: "function"}}
				}
				if ident.Name == "module" {
					return js_ast.Expr{Loc: expr.Loc, Data: &js_ast.EString{Value: "object"}}
				}
			}
		}
		return js_ast.Expr{Loc: expr.Loc, Data: &js_ast.EUnary{Op: e.Op, Value: h.foldExpr(e.Value)}}

	case *js_ast.EBinary:
		if e.Op == js_ast.BinOpComma {
			return h.foldCommaExpr(expr, true)
		}
		if e.Op >= js_ast.BinOpAssign {
			return h.foldAssignExpr(expr.Loc, e)
		}
		return js_ast.Expr{Loc: expr.Loc, Data: &js_ast.EBinary{
			Op: e.Op, Left: h.foldExpr(e.Left), Right: h.foldExpr(e.Right)}}

	case *js_ast.EIdentifier:
		name, scope := h.foldName(e.Name, e.Scope, expr.Loc)
		if name == e.Name && scope == e.Scope {
			return expr
		}
		return js_ast.Expr{Loc: expr.Loc, Data: &js_ast.EIdentifier{Name: name, Scope: scope}}

	case *js_ast.EArray:
		return js_ast.Expr{Loc: expr.Loc, Data: &js_ast.EArray{Items: h.foldExprs(e.Items)}}

	case *js_ast.EObject:
		props := make([]js_ast.Property, len(e.Properties))
		for i, prop := range e.Properties {
			props[i] = h.foldObjectProperty(prop)
		}
		return js_ast.Expr{Loc: expr.Loc, Data: &js_ast.EObject{Properties: props}}

	case *js_ast.ESpread:
		return js_ast.Expr{Loc: expr.Loc, Data: &js_ast.ESpread{Value: h.foldExpr(e.Value)}}

	case *js_ast.ETemplate:
		out := &js_ast.ETemplate{Head: e.Head, Parts: make([]js_ast.TemplatePart, len(e.Parts))}
		if e.Tag != nil {
			tag := h.foldExpr(*e.Tag)
			out.Tag = &tag
		}
		for i, part := range e.Parts {
			out.Parts[i] = js_ast.TemplatePart{Value: h.foldExpr(part.Value), Tail: part.Tail}
		}
		return js_ast.Expr{Loc: expr.Loc, Data: out}

	case *js_ast.EAwait:
		return js_ast.Expr{Loc: expr.Loc, Data: &js_ast.EAwait{Value: h.foldExpr(e.Value)}}

	case *js_ast.EYield:
		out := &js_ast.EYield{IsStar: e.IsStar}
		if e.Value != nil {
			value := h.foldExpr(*e.Value)
			out.Value = &value
		}
		return js_ast.Expr{Loc: expr.Loc, Data: out}

	case *js_ast.EIf:
		return js_ast.Expr{Loc: expr.Loc, Data: &js_ast.EIf{
			Test: h.foldExpr(e.Test), Yes: h.foldExpr(e.Yes), No: h.foldExpr(e.No)}}

	case *js_ast.ENew:
		return js_ast.Expr{Loc: expr.Loc, Data: &js_ast.ENew{
			Target: h.foldExpr(e.Target), Args: h.foldExprs(e.Args)}}

	case *js_ast.EFunction:
		return js_ast.Expr{Loc: expr.Loc, Data: &js_ast.EFunction{Fn: h.foldFnWithName(e.Fn)}}

	case *js_ast.EArrow:
		// Arrows share "this" with their surroundings, so inFunctionScope is
		// deliberately left alone
		out := &js_ast.EArrow{IsAsync: e.IsAsync, HasRestArg: e.HasRestArg, PreferExpr: e.PreferExpr}
		out.Args = h.foldArgs(e.Args)
		out.Body = js_ast.FnBody{Loc: e.Body.Loc, Stmts: h.foldStmts(e.Body.Stmts)}
		return js_ast.Expr{Loc: expr.Loc, Data: out}

	case *js_ast.EClass:
		return js_ast.Expr{Loc: expr.Loc, Data: &js_ast.EClass{Class: h.foldClassWithName(e.Class)}}

	default:
		// Literals and everything else without children
		return expr
	}
}

// foldCommaExpr keeps requires alive in non-final comma positions by wrapping
// them in "!". A later pass would otherwise be free to drop a bare identifier
// that is not the sequence result, losing the dependency edge.
func (h *rewriter) foldCommaExpr(expr js_ast.Expr, isLast bool) js_ast.Expr {
	if e, ok := expr.Data.(*js_ast.EBinary); ok && e.Op == js_ast.BinOpComma {
		return js_ast.Expr{Loc: expr.Loc, Data: &js_ast.EBinary{
			Op:    js_ast.BinOpComma,
			Left:  h.foldCommaExpr(e.Left, false),
			Right: h.foldCommaExpr(e.Right, isLast),
		}}
	}
	if !isLast {
		if _, ok := matchRequire(expr, h.module); ok {
			return js_ast.Expr{Loc: expr.Loc, Data: &js_ast.EUnary{
				Op: js_ast.UnOpNot, Value: h.foldExpr(expr)}}
		}
	}
	return h.foldExpr(expr)
}

func (h *rewriter) foldObjectProperty(prop js_ast.Property) js_ast.Property {
	out := prop
	if prop.IsComputed {
		out.Key = h.foldExpr(prop.Key)
	}
	if prop.Value != nil {
		value := h.foldExpr(*prop.Value)
		out.Value = &value
	}
	if prop.Initializer != nil {
		init := h.foldExpr(*prop.Initializer)
		out.Initializer = &init
	}
	return out
}

func (h *rewriter) foldMemberExpr(expr js_ast.Expr) js_ast.Expr {
	if !h.analysis.ShouldWrap {
		// module.exports -> $id$exports
		if matchMemberExpr(expr, "module", "exports", h.module) {
			h.selfReferences["*"] = true
			return js_ast.Expr{Loc: expr.Loc, Data: &js_ast.EIdentifier{
				Name: h.getExportIdent(expr.Loc, "*"), Scope: h.module.IgnoreScope}}
		}

		// module.hot is always null outside a development environment
		if matchMemberExpr(expr, "module", "hot", h.module) {
			return js_ast.Expr{Loc: expr.Loc, Data: &js_ast.ENull{}}
		}
	}

	target, key, isStatic := memberParts(expr)
	if !isStatic {
		// A computed member folds both sides
		e := expr.Data.(*js_ast.EIndex)
		return js_ast.Expr{Loc: expr.Loc, Data: &js_ast.EIndex{
			Target: h.foldExpr(e.Target), Index: h.foldExpr(e.Index)}}
	}

	switch t := target.Data.(type) {
	case *js_ast.EIdentifier:
		// import * as y from 'x'; const y = require('x'); const y = await import('x')
		// y.foo -> $id$import$x$foo
		if imp, ok := h.analysis.Imports[t.Id()]; ok {
			if imp.Specifier == "*" &&
				len(h.analysis.NonStaticAccess[t.Id()]) == 0 &&
				len(h.analysis.NonConstBindings[t.Id()]) == 0 &&
				!h.analysis.NonStaticRequires[imp.Source] {
				if imp.Kind == ImportDynamic {
					// The namespace variable stays; only record which key of
					// the dynamic import is used
					h.importedSymbols = append(h.importedSymbols, ImportedSymbol{
						Source:   imp.Source,
						Local:    ImportAsyncKeyName(h.moduleID, imp.Source, key),
						Imported: key,
						Loc:      expr.Loc,
					})
				} else {
					return js_ast.Expr{Loc: expr.Loc, Data: &js_ast.EIdentifier{
						Name: h.getImportIdent(expr.Loc, imp.Source, key), Scope: h.module.IgnoreScope}}
				}
			}
		}

		// exports.foo -> $id$export$foo
		if t.Name == "exports" && !h.module.Decls[t.Id()] &&
			h.analysis.StaticCJSExports && !h.analysis.ShouldWrap {
			h.selfReferences[key] = true
			return js_ast.Expr{Loc: expr.Loc, Data: &js_ast.EIdentifier{
				Name: h.getExportIdent(expr.Loc, key), Scope: h.module.IgnoreScope}}
		}

	case *js_ast.ECall:
		// require('foo').bar -> $id$import$foo$bar
		if src, ok := matchRequire(target, h.module); ok {
			h.addRequire(src)
			return js_ast.Expr{Loc: expr.Loc, Data: &js_ast.EIdentifier{
				Name: h.getImportIdent(expr.Loc, src, key), Scope: h.module.IgnoreScope}}
		}

	case *js_ast.EDot, *js_ast.EIndex:
		// module.exports.foo -> $id$export$foo
		if h.analysis.StaticCJSExports && !h.analysis.ShouldWrap &&
			matchMemberExpr(target, "module", "exports", h.module) {
			h.selfReferences[key] = true
			return js_ast.Expr{Loc: expr.Loc, Data: &js_ast.EIdentifier{
				Name: h.getExportIdent(expr.Loc, key), Scope: h.module.IgnoreScope}}
		}

	case *js_ast.EThis:
		// this.foo -> $id$export$foo
		if h.analysis.StaticCJSExports && !h.analysis.ShouldWrap &&
			!h.inFunctionScope && !h.analysis.IsESM {
			h.selfReferences[key] = true
			return js_ast.Expr{Loc: expr.Loc, Data: &js_ast.EIdentifier{
				Name: h.getExportIdent(expr.Loc, key), Scope: h.module.IgnoreScope}}
		}
	}

	// The key is a property name, not a binding reference, so only the
	// target is folded
	switch e := expr.Data.(type) {
	case *js_ast.EDot:
		return js_ast.Expr{Loc: expr.Loc, Data: &js_ast.EDot{
			Target: h.foldExpr(e.Target), Name: e.Name, NameLoc: e.NameLoc}}
	default:
		i := expr.Data.(*js_ast.EIndex)
		return js_ast.Expr{Loc: expr.Loc, Data: &js_ast.EIndex{
			Target: h.foldExpr(i.Target), Index: i.Index}}
	}
}

func (h *rewriter) foldAssignExpr(loc logger.Loc, e *js_ast.EBinary) js_ast.Expr {
	if h.analysis.ShouldWrap {
		return js_ast.Expr{Loc: loc, Data: &js_ast.EBinary{
			Op: e.Op, Left: h.foldExpr(e.Left), Right: h.foldExpr(e.Right)}}
	}

	if _, _, isMember := memberParts(e.Left); isMember || isComputedMember(e.Left) {
		// module.exports = ... -> $id$exports = ...
		if matchMemberExpr(e.Left, "module", "exports", h.module) {
			left := js_ast.Expr{Loc: e.Left.Loc, Data: &js_ast.EIdentifier{
				Name: h.getExportIdent(e.Left.Loc, "*"), Scope: h.module.IgnoreScope}}
			return js_ast.Expr{Loc: loc, Data: &js_ast.EBinary{
				Op: e.Op, Left: left, Right: h.foldExpr(e.Right)}}
		}

		target, key, keyIsStatic := memberParts(e.Left)
		if !keyIsStatic {
			if idx, ok := e.Left.Data.(*js_ast.EIndex); ok {
				target = idx.Target
			}
		}

		isCJSExports := false
		switch t := target.Data.(type) {
		case *js_ast.EDot, *js_ast.EIndex:
			isCJSExports = matchMemberExpr(target, "module", "exports", h.module)
		case *js_ast.EIdentifier:
			isCJSExports = t.Name == "exports" && !h.module.Decls[t.Id()]
		}

		if isCJSExports {
			// exports.foo = ... -> $id$export$foo = ... when every export
			// access is static, otherwise the whole exports object is kept
			// and the property write goes through it
			var left js_ast.Expr
			if h.analysis.StaticCJSExports {
				name := h.getExportIdent(e.Left.Loc, key)
				h.addExportDecl(name)
				left = js_ast.Expr{Loc: e.Left.Loc, Data: &js_ast.EIdentifier{
					Name: name, Scope: h.module.IgnoreScope}}
			} else {
				name := h.getExportIdent(e.Left.Loc, "*")
				obj := js_ast.Expr{Loc: e.Left.Loc, Data: &js_ast.EIdentifier{
					Name: name, Scope: h.module.IgnoreScope}}
				switch member := e.Left.Data.(type) {
				case *js_ast.EDot:
					left = js_ast.Expr{Loc: e.Left.Loc, Data: &js_ast.EDot{
						Target: obj, Name: member.Name, NameLoc: member.NameLoc}}
				case *js_ast.EIndex:
					left = js_ast.Expr{Loc: e.Left.Loc, Data: &js_ast.EIndex{
						Target: obj, Index: h.foldExpr(member.Index)}}
				}
			}
			return js_ast.Expr{Loc: loc, Data: &js_ast.EBinary{
				Op: e.Op, Left: left, Right: h.foldExpr(e.Right)}}
		}
	}

	return js_ast.Expr{Loc: loc, Data: &js_ast.EBinary{
		Op: e.Op, Left: h.foldExpr(e.Left), Right: h.foldExpr(e.Right)}}
}

func isComputedMember(expr js_ast.Expr) bool {
	_, ok := expr.Data.(*js_ast.EIndex)
	return ok
}

////////////////////////////////////////////////////////////////////////////////
// Names

// foldName maps one identifier occurrence to its hoisted name
func (h *rewriter) foldName(name string, scope js_ast.ScopeID, loc logger.Loc) (string, js_ast.ScopeID) {
	id := js_ast.Id{Name: name, Scope: scope}

	if imp, ok := h.analysis.Imports[id]; ok && !h.analysis.NonStaticRequires[imp.Source] {
		if imp.Kind == ImportDynamic {
			// Dynamic import bindings keep their local variable. Record which
			// parts of the namespace are used so unused exports of the
			// imported module can still be dropped.
			if imp.Specifier != "*" {
				h.importedSymbols = append(h.importedSymbols, ImportedSymbol{
					Source:   imp.Source,
					Local:    ImportAsyncKeyName(h.moduleID, imp.Source, imp.Specifier),
					Imported: imp.Specifier,
					Loc:      imp.Loc,
				})
			} else if len(h.analysis.NonStaticAccess[id]) > 0 {
				h.importedSymbols = append(h.importedSymbols, ImportedSymbol{
					Source:   imp.Source,
					Local:    ImportAsyncName(h.moduleID, imp.Source),
					Imported: "*",
					Loc:      imp.Loc,
				})
			}
		} else {
			// A reassigned binding cannot reference the imported value
			// directly; it references the indirection variable emitted by
			// handleNonConstRequire instead
			if _, nonConst := h.analysis.NonConstBindings[id]; nonConst {
				return RequireName(h.moduleID, name), h.module.IgnoreScope
			}
			return h.getImportIdent(imp.Loc, imp.Source, imp.Specifier), h.module.IgnoreScope
		}
	}

	if exported, ok := h.analysis.Exports[id]; ok {
		// A wrapped module keeps its original names and only records the
		// export mapping
		if h.analysis.ShouldWrap {
			h.exportedSymbols = append(h.exportedSymbols, ExportedSymbol{
				Local: name, Exported: exported, Loc: loc})
			return name, scope
		}
		return h.getExportIdent(loc, exported), h.module.IgnoreScope
	}

	if name == "exports" && !h.module.Decls[id] && !h.analysis.ShouldWrap {
		h.selfReferences["*"] = true
		return h.getExportIdent(loc, "*"), h.module.IgnoreScope
	}

	if name == "global" && !h.module.Decls[id] {
		return GlobalAlias, h.module.IgnoreScope
	}

	if scope == h.module.TopLevelScope && h.module.Decls[id] && !h.analysis.ShouldWrap {
		return TopLevelName(h.moduleID, name), h.module.IgnoreScope
	}

	return name, scope
}

////////////////////////////////////////////////////////////////////////////////
// Functions and classes

func (h *rewriter) foldArgs(args []js_ast.Arg) []js_ast.Arg {
	out := make([]js_ast.Arg, len(args))
	for i, arg := range args {
		folded := js_ast.Arg{Binding: h.foldBinding(arg.Binding)}
		if arg.Default != nil {
			value := h.foldExpr(*arg.Default)
			folded.Default = &value
		}
		out[i] = folded
	}
	return out
}

// foldFnWithName renames the function's own name as well as its body
func (h *rewriter) foldFnWithName(fn js_ast.Fn) js_ast.Fn {
	if fn.Name != nil {
		name, scope := h.foldName(fn.Name.Name, fn.Name.Scope, fn.Name.Loc)
		fn.Name = &js_ast.NameLoc{Loc: fn.Name.Loc, Name: name, Scope: scope}
	}
	return h.foldFnBody(fn)
}

func (h *rewriter) foldFnBody(fn js_ast.Fn) js_ast.Fn {
	inFunctionScope := h.inFunctionScope
	h.inFunctionScope = true
	fn.Args = h.foldArgs(fn.Args)
	fn.Body = js_ast.FnBody{Loc: fn.Body.Loc, Stmts: h.foldStmts(fn.Body.Stmts)}
	h.inFunctionScope = inFunctionScope
	return fn
}

func (h *rewriter) foldClassWithName(class js_ast.Class) js_ast.Class {
	if class.Name != nil {
		name, scope := h.foldName(class.Name.Name, class.Name.Scope, class.Name.Loc)
		class.Name = &js_ast.NameLoc{Loc: class.Name.Loc, Name: name, Scope: scope}
	}
	return h.foldClassBody(class)
}

func (h *rewriter) foldClassBody(class js_ast.Class) js_ast.Class {
	inFunctionScope := h.inFunctionScope
	h.inFunctionScope = true
	if class.Extends != nil {
		extends := h.foldExpr(*class.Extends)
		class.Extends = &extends
	}
	props := make([]js_ast.Property, len(class.Properties))
	for i, prop := range class.Properties {
		props[i] = h.foldObjectProperty(prop)
	}
	class.Properties = props
	h.inFunctionScope = inFunctionScope
	return class
}
