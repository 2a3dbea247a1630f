package js_parser

import (
	"github.com/hoistpack/hoistpack/internal/js_ast"
)

// The resolver binds every identifier in the tree to the scope that declares
// it. Scope identities are allocated in traversal order, so the same source
// text always produces the same ScopeIDs.
//
// References that don't resolve to any declaration are bound to the module's
// top-level scope. This makes free references to names like "require" or
// "exports" carry the same Id as a hypothetical top-level declaration of that
// name, so later passes can compare them directly.

type scope struct {
	id      js_ast.ScopeID
	parent  *scope
	members map[string]js_ast.ScopeID
}

type resolver struct {
	nextID js_ast.ScopeID
	top    *scope
	decls  map[js_ast.Id]bool
}

func resolve(module *js_ast.Module) {
	r := &resolver{decls: make(map[js_ast.Id]bool)}
	top := r.newScope(nil)
	r.top = top

	r.hoistDecls(top, module.Stmts)
	r.declareLexical(top, module.Stmts)
	for i := range module.Stmts {
		r.visitStmt(top, &module.Stmts[i])
	}

	module.TopLevelScope = top.id
	module.IgnoreScope = r.nextID + 1
	module.Decls = r.decls
}

func (r *resolver) newScope(parent *scope) *scope {
	r.nextID++
	return &scope{id: r.nextID, parent: parent, members: make(map[string]js_ast.ScopeID)}
}

func (r *resolver) declare(s *scope, name string) {
	s.members[name] = s.id
	r.decls[js_ast.Id{Name: name, Scope: s.id}] = true
}

func (s *scope) lookup(name string) (js_ast.ScopeID, bool) {
	for current := s; current != nil; current = current.parent {
		if id, ok := current.members[name]; ok {
			return id, true
		}
	}
	return js_ast.ScopeUnresolved, false
}

// resolveRef binds one reference. Unresolved references get the top-level
// scope.
func (r *resolver) resolveRef(s *scope, name string) js_ast.ScopeID {
	if id, ok := s.lookup(name); ok {
		return id
	}
	return r.top.id
}

// hoistDecls declares "var" and function declaration names into the nearest
// function-level scope, descending through nested blocks but not into nested
// function bodies
func (r *resolver) hoistDecls(s *scope, stmts []js_ast.Stmt) {
	for i := range stmts {
		r.hoistDeclsInStmt(s, &stmts[i])
	}
}

func (r *resolver) hoistDeclsInStmt(s *scope, stmt *js_ast.Stmt) {
	switch st := stmt.Data.(type) {
	case *js_ast.SLocal:
		if st.Kind == js_ast.LocalVar {
			for i := range st.Decls {
				r.declareBinding(s, st.Decls[i].Binding)
			}
		}

	case *js_ast.SFunction:
		if st.Fn.Name != nil {
			r.declare(s, st.Fn.Name.Name)
		}

	case *js_ast.SExportDefault:
		if st.Value.Stmt != nil {
			if fn, ok := st.Value.Stmt.Data.(*js_ast.SFunction); ok && fn.Fn.Name != nil {
				r.declare(s, fn.Fn.Name.Name)
			}
		}

	case *js_ast.SBlock:
		r.hoistDecls(s, st.Stmts)

	case *js_ast.SIf:
		r.hoistDeclsInStmt(s, &st.Yes)
		if st.No != nil {
			r.hoistDeclsInStmt(s, st.No)
		}

	case *js_ast.SFor:
		if st.Init != nil {
			r.hoistDeclsInStmt(s, st.Init)
		}
		r.hoistDeclsInStmt(s, &st.Body)

	case *js_ast.SForIn:
		r.hoistDeclsInStmt(s, &st.Init)
		r.hoistDeclsInStmt(s, &st.Body)

	case *js_ast.SForOf:
		r.hoistDeclsInStmt(s, &st.Init)
		r.hoistDeclsInStmt(s, &st.Body)

	case *js_ast.SWhile:
		r.hoistDeclsInStmt(s, &st.Body)

	case *js_ast.SDoWhile:
		r.hoistDeclsInStmt(s, &st.Body)

	case *js_ast.STry:
		r.hoistDecls(s, st.Body)
		if st.Catch != nil {
			r.hoistDecls(s, st.Catch.Body)
		}
		if st.Finally != nil {
			r.hoistDecls(s, st.Finally.Stmts)
		}

	case *js_ast.SSwitch:
		for i := range st.Cases {
			r.hoistDecls(s, st.Cases[i].Body)
		}

	case *js_ast.SLabel:
		r.hoistDeclsInStmt(s, &st.Stmt)
	}
}

// declareLexical declares the block-scoped names introduced directly by these
// statements: "let", "const", class declarations, and import bindings
func (r *resolver) declareLexical(s *scope, stmts []js_ast.Stmt) {
	for i := range stmts {
		switch st := stmts[i].Data.(type) {
		case *js_ast.SLocal:
			if st.Kind != js_ast.LocalVar {
				for j := range st.Decls {
					r.declareBinding(s, st.Decls[j].Binding)
				}
			}

		case *js_ast.SClass:
			if st.Class.Name != nil {
				r.declare(s, st.Class.Name.Name)
			}

		case *js_ast.SImport:
			if st.DefaultName != nil {
				r.declare(s, st.DefaultName.Name)
			}
			if st.StarName != nil {
				r.declare(s, st.StarName.Name)
			}
			if st.Items != nil {
				for j := range *st.Items {
					r.declare(s, (*st.Items)[j].Name.Name)
				}
			}

		case *js_ast.SExportDefault:
			if st.Value.Stmt != nil {
				if class, ok := st.Value.Stmt.Data.(*js_ast.SClass); ok && class.Class.Name != nil {
					r.declare(s, class.Class.Name.Name)
				}
			}
		}
	}
}

func (r *resolver) declareBinding(s *scope, binding js_ast.Binding) {
	switch b := binding.Data.(type) {
	case *js_ast.BIdentifier:
		r.declare(s, b.Name)
	case *js_ast.BArray:
		for i := range b.Items {
			r.declareBinding(s, b.Items[i].Binding)
		}
	case *js_ast.BObject:
		for i := range b.Properties {
			r.declareBinding(s, b.Properties[i].Value)
		}
	}
}

// bindBinding assigns the declaring scope to the identifiers in a binding
// pattern that was declared earlier, and resolves any default value and
// computed key expressions
func (r *resolver) bindBinding(s *scope, binding *js_ast.Binding) {
	switch b := binding.Data.(type) {
	case *js_ast.BIdentifier:
		b.Scope = r.resolveRef(s, b.Name)
	case *js_ast.BArray:
		for i := range b.Items {
			r.bindBinding(s, &b.Items[i].Binding)
			if b.Items[i].DefaultValue != nil {
				r.visitExpr(s, b.Items[i].DefaultValue)
			}
		}
	case *js_ast.BObject:
		for i := range b.Properties {
			property := &b.Properties[i]
			if property.IsComputed {
				r.visitExpr(s, &property.Key)
			}
			r.bindBinding(s, &property.Value)
			if property.DefaultValue != nil {
				r.visitExpr(s, property.DefaultValue)
			}
		}
	}
}

func (r *resolver) visitStmts(s *scope, stmts []js_ast.Stmt) {
	for i := range stmts {
		r.visitStmt(s, &stmts[i])
	}
}

// visitBlock gives a statement list its own lexical scope
func (r *resolver) visitBlock(parent *scope, stmts []js_ast.Stmt) {
	child := r.newScope(parent)
	r.declareLexical(child, stmts)
	r.visitStmts(child, stmts)
}

func (r *resolver) visitStmt(s *scope, stmt *js_ast.Stmt) {
	switch st := stmt.Data.(type) {
	case *js_ast.SBlock:
		r.visitBlock(s, st.Stmts)

	case *js_ast.SExpr:
		r.visitExpr(s, &st.Value)

	case *js_ast.SLocal:
		for i := range st.Decls {
			decl := &st.Decls[i]
			r.bindBinding(s, &decl.Binding)
			if decl.Value != nil {
				r.visitExpr(s, decl.Value)
			}
		}

	case *js_ast.SFunction:
		if st.Fn.Name != nil {
			st.Fn.Name.Scope = r.resolveRef(s, st.Fn.Name.Name)
		}
		r.visitFn(s, &st.Fn, false /* nameIsLocal */)

	case *js_ast.SClass:
		if st.Class.Name != nil {
			st.Class.Name.Scope = r.resolveRef(s, st.Class.Name.Name)
		}
		r.visitClass(s, &st.Class, false /* nameIsLocal */)

	case *js_ast.SIf:
		r.visitExpr(s, &st.Test)
		r.visitStmt(s, &st.Yes)
		if st.No != nil {
			r.visitStmt(s, st.No)
		}

	case *js_ast.SFor:
		child := r.newScope(s)
		if st.Init != nil {
			if local, ok := st.Init.Data.(*js_ast.SLocal); ok && local.Kind != js_ast.LocalVar {
				for i := range local.Decls {
					r.declareBinding(child, local.Decls[i].Binding)
				}
			}
			r.visitStmt(child, st.Init)
		}
		if st.Test != nil {
			r.visitExpr(child, st.Test)
		}
		if st.Update != nil {
			r.visitExpr(child, st.Update)
		}
		r.visitStmt(child, &st.Body)

	case *js_ast.SForIn:
		child := r.newScope(s)
		if local, ok := st.Init.Data.(*js_ast.SLocal); ok && local.Kind != js_ast.LocalVar {
			for i := range local.Decls {
				r.declareBinding(child, local.Decls[i].Binding)
			}
		}
		r.visitStmt(child, &st.Init)
		r.visitExpr(child, &st.Value)
		r.visitStmt(child, &st.Body)

	case *js_ast.SForOf:
		child := r.newScope(s)
		if local, ok := st.Init.Data.(*js_ast.SLocal); ok && local.Kind != js_ast.LocalVar {
			for i := range local.Decls {
				r.declareBinding(child, local.Decls[i].Binding)
			}
		}
		r.visitStmt(child, &st.Init)
		r.visitExpr(child, &st.Value)
		r.visitStmt(child, &st.Body)

	case *js_ast.SWhile:
		r.visitExpr(s, &st.Test)
		r.visitStmt(s, &st.Body)

	case *js_ast.SDoWhile:
		r.visitStmt(s, &st.Body)
		r.visitExpr(s, &st.Test)

	case *js_ast.STry:
		r.visitBlock(s, st.Body)
		if st.Catch != nil {
			child := r.newScope(s)
			if st.Catch.Binding != nil {
				r.declareBinding(child, *st.Catch.Binding)
				r.bindBinding(child, st.Catch.Binding)
			}
			r.declareLexical(child, st.Catch.Body)
			r.visitStmts(child, st.Catch.Body)
		}
		if st.Finally != nil {
			r.visitBlock(s, st.Finally.Stmts)
		}

	case *js_ast.SSwitch:
		r.visitExpr(s, &st.Test)
		child := r.newScope(s)
		for i := range st.Cases {
			r.declareLexical(child, st.Cases[i].Body)
		}
		for i := range st.Cases {
			if st.Cases[i].Value != nil {
				r.visitExpr(child, st.Cases[i].Value)
			}
			r.visitStmts(child, st.Cases[i].Body)
		}

	case *js_ast.SLabel:
		r.visitStmt(s, &st.Stmt)

	case *js_ast.SReturn:
		if st.Value != nil {
			r.visitExpr(s, st.Value)
		}

	case *js_ast.SThrow:
		r.visitExpr(s, &st.Value)

	case *js_ast.SImport:
		if st.DefaultName != nil {
			st.DefaultName.Scope = r.resolveRef(s, st.DefaultName.Name)
		}
		if st.StarName != nil {
			st.StarName.Scope = r.resolveRef(s, st.StarName.Name)
		}
		if st.Items != nil {
			for i := range *st.Items {
				item := &(*st.Items)[i]
				item.Name.Scope = r.resolveRef(s, item.Name.Name)
			}
		}

	case *js_ast.SExportClause:
		// "export {a as b}" references local bindings by name
		for i := range st.Items {
			item := &st.Items[i]
			item.Name.Scope = r.resolveRef(s, item.Name.Name)
		}

	case *js_ast.SExportDefault:
		if st.Value.Expr != nil {
			r.visitExpr(s, st.Value.Expr)
		}
		if st.Value.Stmt != nil {
			r.visitStmt(s, st.Value.Stmt)
		}
	}
}

func (r *resolver) visitFn(parent *scope, fn *js_ast.Fn, nameIsLocal bool) {
	child := r.newScope(parent)

	// A function expression's name is only visible inside the function
	if nameIsLocal && fn.Name != nil {
		r.declare(child, fn.Name.Name)
		fn.Name.Scope = child.id
	}

	for i := range fn.Args {
		r.declareBinding(child, fn.Args[i].Binding)
	}
	for i := range fn.Args {
		r.bindBinding(child, &fn.Args[i].Binding)
		if fn.Args[i].Default != nil {
			r.visitExpr(child, fn.Args[i].Default)
		}
	}

	r.hoistDecls(child, fn.Body.Stmts)
	r.declareLexical(child, fn.Body.Stmts)
	r.visitStmts(child, fn.Body.Stmts)
}

func (r *resolver) visitArrow(parent *scope, arrow *js_ast.EArrow) {
	child := r.newScope(parent)

	for i := range arrow.Args {
		r.declareBinding(child, arrow.Args[i].Binding)
	}
	for i := range arrow.Args {
		r.bindBinding(child, &arrow.Args[i].Binding)
		if arrow.Args[i].Default != nil {
			r.visitExpr(child, arrow.Args[i].Default)
		}
	}

	r.hoistDecls(child, arrow.Body.Stmts)
	r.declareLexical(child, arrow.Body.Stmts)
	r.visitStmts(child, arrow.Body.Stmts)
}

func (r *resolver) visitClass(parent *scope, class *js_ast.Class, nameIsLocal bool) {
	s := parent

	// A class expression's name is only visible inside the class
	if nameIsLocal && class.Name != nil {
		s = r.newScope(parent)
		r.declare(s, class.Name.Name)
		class.Name.Scope = s.id
	}

	if class.Extends != nil {
		r.visitExpr(s, class.Extends)
	}

	for i := range class.Properties {
		property := &class.Properties[i]
		if property.IsComputed {
			r.visitExpr(s, &property.Key)
		}
		if property.Value != nil {
			r.visitExpr(s, property.Value)
		}
		if property.Initializer != nil {
			r.visitExpr(s, property.Initializer)
		}
	}
}

func (r *resolver) visitExpr(s *scope, expr *js_ast.Expr) {
	switch e := expr.Data.(type) {
	case *js_ast.EIdentifier:
		e.Scope = r.resolveRef(s, e.Name)

	case *js_ast.EArray:
		for i := range e.Items {
			r.visitExpr(s, &e.Items[i])
		}

	case *js_ast.EUnary:
		r.visitExpr(s, &e.Value)

	case *js_ast.EBinary:
		r.visitExpr(s, &e.Left)
		r.visitExpr(s, &e.Right)

	case *js_ast.ENew:
		r.visitExpr(s, &e.Target)
		for i := range e.Args {
			r.visitExpr(s, &e.Args[i])
		}

	case *js_ast.ECall:
		r.visitExpr(s, &e.Target)
		for i := range e.Args {
			r.visitExpr(s, &e.Args[i])
		}

	case *js_ast.EDot:
		r.visitExpr(s, &e.Target)

	case *js_ast.EIndex:
		r.visitExpr(s, &e.Target)
		r.visitExpr(s, &e.Index)

	case *js_ast.EArrow:
		r.visitArrow(s, e)

	case *js_ast.EFunction:
		r.visitFn(s, &e.Fn, true /* nameIsLocal */)

	case *js_ast.EClass:
		r.visitClass(s, &e.Class, true /* nameIsLocal */)

	case *js_ast.EObject:
		for i := range e.Properties {
			property := &e.Properties[i]
			if property.IsComputed {
				r.visitExpr(s, &property.Key)
			}
			if property.Value != nil {
				r.visitExpr(s, property.Value)
			}
			if property.Initializer != nil {
				r.visitExpr(s, property.Initializer)
			}
		}

	case *js_ast.ESpread:
		r.visitExpr(s, &e.Value)

	case *js_ast.ETemplate:
		if e.Tag != nil {
			r.visitExpr(s, e.Tag)
		}
		for i := range e.Parts {
			r.visitExpr(s, &e.Parts[i].Value)
		}

	case *js_ast.EAwait:
		r.visitExpr(s, &e.Value)

	case *js_ast.EYield:
		if e.Value != nil {
			r.visitExpr(s, e.Value)
		}

	case *js_ast.EIf:
		r.visitExpr(s, &e.Test)
		r.visitExpr(s, &e.Yes)
		r.visitExpr(s, &e.No)

	case *js_ast.EImport:
		r.visitExpr(s, &e.Expr)
	}
}
