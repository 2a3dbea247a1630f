package js_parser

// This parser accepts the subset of modern JavaScript that the hoisting
// transform is specified over. It is a recursive descent parser with a Pratt
// expression core driven by the precedence levels in js_ast. Parenthesized
// expressions are parsed as expressions first and converted to arrow function
// arguments afterward if a "=>" token follows, which avoids backtracking.
//
// After parsing, a resolver pass (see resolver.go) assigns a ScopeID to every
// lexical scope and binds each identifier to its declaring scope, producing
// the declared-bindings set that downstream passes key their maps with.

import (
	"github.com/hoistpack/hoistpack/internal/js_ast"
	"github.com/hoistpack/hoistpack/internal/js_lexer"
	"github.com/hoistpack/hoistpack/internal/logger"
)

type parser struct {
	log     logger.Log
	source  logger.Source
	lexer   js_lexer.Lexer
	allowIn bool
}

// Parse turns one source file into a module tree. The returned flag is false
// when a syntax error was reported; the tree is not usable in that case.
func Parse(log logger.Log, source logger.Source) (module js_ast.Module, ok bool) {
	ok = true
	defer func() {
		r := recover()
		if _, isLexerPanic := r.(js_lexer.LexerPanic); isLexerPanic {
			ok = false
		} else if r != nil {
			panic(r)
		}
	}()

	p := &parser{
		log:     log,
		source:  source,
		allowIn: true,
	}
	p.lexer = js_lexer.NewLexer(log, source)

	stmts := p.parseStmtsUpTo(js_lexer.TEndOfFile)
	module = js_ast.Module{Stmts: stmts}
	resolve(&module)
	return
}

func (p *parser) parseStmtsUpTo(end js_lexer.T) []js_ast.Stmt {
	stmts := []js_ast.Stmt{}
	for p.lexer.Token != end {
		stmts = append(stmts, p.parseStmt())
	}
	return stmts
}

func (p *parser) expectSemicolon() {
	switch p.lexer.Token {
	case js_lexer.TSemicolon:
		p.lexer.Next()
	case js_lexer.TCloseBrace, js_lexer.TEndOfFile:
		// Automatic semicolon insertion
	default:
		if !p.lexer.HasNewlineBefore {
			p.lexer.Expected(js_lexer.TSemicolon)
		}
	}
}

func (p *parser) parseStmt() js_ast.Stmt {
	loc := p.lexer.Loc()

	switch p.lexer.Token {
	case js_lexer.TSemicolon:
		p.lexer.Next()
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SEmpty{}}

	case js_lexer.TOpenBrace:
		p.lexer.Next()
		stmts := p.parseStmtsUpTo(js_lexer.TCloseBrace)
		p.lexer.Next()
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SBlock{Stmts: stmts}}

	case js_lexer.TDebugger:
		p.lexer.Next()
		p.expectSemicolon()
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SDebugger{}}

	case js_lexer.TVar:
		p.lexer.Next()
		decls := p.parseDecls()
		p.expectSemicolon()
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SLocal{Kind: js_ast.LocalVar, Decls: decls}}

	case js_lexer.TLet:
		p.lexer.Next()
		decls := p.parseDecls()
		p.expectSemicolon()
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SLocal{Kind: js_ast.LocalLet, Decls: decls}}

	case js_lexer.TConst:
		p.lexer.Next()
		decls := p.parseDecls()
		p.expectSemicolon()
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SLocal{Kind: js_ast.LocalConst, Decls: decls}}

	case js_lexer.TFunction:
		p.lexer.Next()
		return p.parseFnStmt(loc, false /* isAsync */, false /* isExport */)

	case js_lexer.TClass:
		p.lexer.Next()
		class := p.parseClass(true /* nameRequired */)
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SClass{Class: class}}

	case js_lexer.TIf:
		p.lexer.Next()
		p.lexer.Expect(js_lexer.TOpenParen)
		test := p.parseExpr(js_ast.LLowest)
		p.lexer.Expect(js_lexer.TCloseParen)
		yes := p.parseStmt()
		var no *js_ast.Stmt
		if p.lexer.Token == js_lexer.TElse {
			p.lexer.Next()
			stmt := p.parseStmt()
			no = &stmt
		}
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SIf{Test: test, Yes: yes, No: no}}

	case js_lexer.TWhile:
		p.lexer.Next()
		p.lexer.Expect(js_lexer.TOpenParen)
		test := p.parseExpr(js_ast.LLowest)
		p.lexer.Expect(js_lexer.TCloseParen)
		body := p.parseStmt()
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SWhile{Test: test, Body: body}}

	case js_lexer.TDo:
		p.lexer.Next()
		body := p.parseStmt()
		p.lexer.Expect(js_lexer.TWhile)
		p.lexer.Expect(js_lexer.TOpenParen)
		test := p.parseExpr(js_ast.LLowest)
		p.lexer.Expect(js_lexer.TCloseParen)
		if p.lexer.Token == js_lexer.TSemicolon {
			p.lexer.Next()
		}
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SDoWhile{Body: body, Test: test}}

	case js_lexer.TFor:
		return p.parseForStmt(loc)

	case js_lexer.TSwitch:
		p.lexer.Next()
		p.lexer.Expect(js_lexer.TOpenParen)
		test := p.parseExpr(js_ast.LLowest)
		p.lexer.Expect(js_lexer.TCloseParen)
		bodyLoc := p.lexer.Loc()
		p.lexer.Expect(js_lexer.TOpenBrace)
		cases := []js_ast.Case{}
		for p.lexer.Token != js_lexer.TCloseBrace {
			var value *js_ast.Expr
			if p.lexer.Token == js_lexer.TDefault {
				p.lexer.Next()
			} else {
				p.lexer.Expect(js_lexer.TCase)
				expr := p.parseExpr(js_ast.LLowest)
				value = &expr
			}
			p.lexer.Expect(js_lexer.TColon)
			body := []js_ast.Stmt{}
			for p.lexer.Token != js_lexer.TCloseBrace &&
				p.lexer.Token != js_lexer.TCase &&
				p.lexer.Token != js_lexer.TDefault {
				body = append(body, p.parseStmt())
			}
			cases = append(cases, js_ast.Case{Value: value, Body: body})
		}
		p.lexer.Next()
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SSwitch{Test: test, BodyLoc: bodyLoc, Cases: cases}}

	case js_lexer.TTry:
		p.lexer.Next()
		p.lexer.Expect(js_lexer.TOpenBrace)
		body := p.parseStmtsUpTo(js_lexer.TCloseBrace)
		p.lexer.Next()
		var catch *js_ast.Catch
		var finally *js_ast.Finally
		if p.lexer.Token == js_lexer.TCatch {
			catchLoc := p.lexer.Loc()
			p.lexer.Next()
			var binding *js_ast.Binding
			if p.lexer.Token == js_lexer.TOpenParen {
				p.lexer.Next()
				b := p.parseBinding()
				binding = &b
				p.lexer.Expect(js_lexer.TCloseParen)
			}
			p.lexer.Expect(js_lexer.TOpenBrace)
			catchBody := p.parseStmtsUpTo(js_lexer.TCloseBrace)
			p.lexer.Next()
			catch = &js_ast.Catch{Loc: catchLoc, Binding: binding, Body: catchBody}
		}
		if p.lexer.Token == js_lexer.TFinally {
			finallyLoc := p.lexer.Loc()
			p.lexer.Next()
			p.lexer.Expect(js_lexer.TOpenBrace)
			finallyBody := p.parseStmtsUpTo(js_lexer.TCloseBrace)
			p.lexer.Next()
			finally = &js_ast.Finally{Loc: finallyLoc, Stmts: finallyBody}
		}
		return js_ast.Stmt{Loc: loc, Data: &js_ast.STry{Body: body, Catch: catch, Finally: finally}}

	case js_lexer.TReturn:
		p.lexer.Next()
		var value *js_ast.Expr
		if p.lexer.Token != js_lexer.TSemicolon &&
			p.lexer.Token != js_lexer.TCloseBrace &&
			p.lexer.Token != js_lexer.TEndOfFile &&
			!p.lexer.HasNewlineBefore {
			expr := p.parseExpr(js_ast.LLowest)
			value = &expr
		}
		p.expectSemicolon()
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SReturn{Value: value}}

	case js_lexer.TThrow:
		p.lexer.Next()
		value := p.parseExpr(js_ast.LLowest)
		p.expectSemicolon()
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SThrow{Value: value}}

	case js_lexer.TBreak:
		p.lexer.Next()
		label := p.parseLabelName()
		p.expectSemicolon()
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SBreak{Label: label}}

	case js_lexer.TContinue:
		p.lexer.Next()
		label := p.parseLabelName()
		p.expectSemicolon()
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SContinue{Label: label}}

	case js_lexer.TImport:
		return p.parseImportStmt(loc)

	case js_lexer.TExport:
		return p.parseExportStmt(loc)

	default:
		// "async function foo() {}"
		if p.lexer.IsContextualKeyword("async") {
			asyncRange := p.lexer.Range()
			oldLexer := p.lexer
			p.lexer.Next()
			if p.lexer.Token == js_lexer.TFunction && !p.lexer.HasNewlineBefore {
				p.lexer.Next()
				return p.parseFnStmt(logger.Loc{Start: asyncRange.Loc.Start}, true /* isAsync */, false /* isExport */)
			}
			p.lexer = oldLexer
		}

		expr := p.parseExpr(js_ast.LLowest)

		// Labeled statement
		if ident, ok := expr.Data.(*js_ast.EIdentifier); ok && p.lexer.Token == js_lexer.TColon {
			p.lexer.Next()
			stmt := p.parseStmt()
			return js_ast.Stmt{Loc: loc, Data: &js_ast.SLabel{
				Name: js_ast.NameLoc{Loc: expr.Loc, Name: ident.Name},
				Stmt: stmt,
			}}
		}

		p.expectSemicolon()
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SExpr{Value: expr}}
	}
}

func (p *parser) parseLabelName() *js_ast.NameLoc {
	if p.lexer.Token != js_lexer.TIdentifier || p.lexer.HasNewlineBefore {
		return nil
	}
	name := js_ast.NameLoc{Loc: p.lexer.Loc(), Name: p.lexer.Identifier}
	p.lexer.Next()
	return &name
}

func (p *parser) parseFnStmt(loc logger.Loc, isAsync bool, isExport bool) js_ast.Stmt {
	fn := p.parseFn(true /* nameRequired */, isAsync)
	return js_ast.Stmt{Loc: loc, Data: &js_ast.SFunction{Fn: fn, IsExport: isExport}}
}

func (p *parser) parseFn(nameRequired bool, isAsync bool) js_ast.Fn {
	fn := js_ast.Fn{IsAsync: isAsync}

	if p.lexer.Token == js_lexer.TAsterisk {
		fn.IsGenerator = true
		p.lexer.Next()
	}

	if p.lexer.Token == js_lexer.TIdentifier {
		fn.Name = &js_ast.NameLoc{Loc: p.lexer.Loc(), Name: p.lexer.Identifier}
		p.lexer.Next()
	} else if nameRequired {
		p.lexer.Expected(js_lexer.TIdentifier)
	}

	fn.Args, fn.HasRestArg = p.parseFnArgs()
	fn.Body = p.parseFnBody()
	return fn
}

func (p *parser) parseFnArgs() ([]js_ast.Arg, bool) {
	args := []js_ast.Arg{}
	hasRestArg := false
	p.lexer.Expect(js_lexer.TOpenParen)

	for p.lexer.Token != js_lexer.TCloseParen {
		if p.lexer.Token == js_lexer.TDotDotDot {
			p.lexer.Next()
			hasRestArg = true
			args = append(args, js_ast.Arg{Binding: p.parseBinding()})
			break
		}

		binding := p.parseBinding()
		var def *js_ast.Expr
		if p.lexer.Token == js_lexer.TEquals {
			p.lexer.Next()
			expr := p.parseExpr(js_ast.LComma)
			def = &expr
		}
		args = append(args, js_ast.Arg{Binding: binding, Default: def})

		if p.lexer.Token != js_lexer.TComma {
			break
		}
		p.lexer.Next()
	}

	p.lexer.Expect(js_lexer.TCloseParen)
	return args, hasRestArg
}

func (p *parser) parseFnBody() js_ast.FnBody {
	loc := p.lexer.Loc()
	p.lexer.Expect(js_lexer.TOpenBrace)
	stmts := p.parseStmtsUpTo(js_lexer.TCloseBrace)
	p.lexer.Next()
	return js_ast.FnBody{Loc: loc, Stmts: stmts}
}

func (p *parser) parseClass(nameRequired bool) js_ast.Class {
	class := js_ast.Class{}

	if p.lexer.Token == js_lexer.TIdentifier {
		class.Name = &js_ast.NameLoc{Loc: p.lexer.Loc(), Name: p.lexer.Identifier}
		p.lexer.Next()
	} else if nameRequired && p.lexer.Token != js_lexer.TExtends && p.lexer.Token != js_lexer.TOpenBrace {
		p.lexer.Expected(js_lexer.TIdentifier)
	}

	if p.lexer.Token == js_lexer.TExtends {
		p.lexer.Next()
		extends := p.parseExpr(js_ast.LNew)
		class.Extends = &extends
	}

	class.BodyLoc = p.lexer.Loc()
	p.lexer.Expect(js_lexer.TOpenBrace)

	for p.lexer.Token != js_lexer.TCloseBrace {
		if p.lexer.Token == js_lexer.TSemicolon {
			p.lexer.Next()
			continue
		}
		property := p.parseProperty(true /* isClass */)
		class.Properties = append(class.Properties, property)
	}

	p.lexer.Next()
	return class
}

// parseProperty parses one object literal property or one class member
func (p *parser) parseProperty(isClass bool) js_ast.Property {
	property := js_ast.Property{Kind: js_ast.PropertyNormal}

	if isClass && p.lexer.IsContextualKeyword("static") {
		oldLexer := p.lexer
		p.lexer.Next()
		if p.lexer.Token == js_lexer.TOpenParen || p.lexer.Token == js_lexer.TEquals {
			// A member actually named "static"
			p.lexer = oldLexer
		} else {
			property.IsStatic = true
		}
	}

	if p.lexer.Token == js_lexer.TDotDotDot {
		p.lexer.Next()
		value := p.parseExpr(js_ast.LComma)
		property.Kind = js_ast.PropertySpread
		property.Value = &value
		return property
	}

	// "get x() {}" and "set x(y) {}"
	if p.lexer.IsContextualKeyword("get") || p.lexer.IsContextualKeyword("set") {
		kind := js_ast.PropertyGet
		if p.lexer.Identifier == "set" {
			kind = js_ast.PropertySet
		}
		oldLexer := p.lexer
		p.lexer.Next()
		if p.lexer.Token != js_lexer.TOpenParen &&
			p.lexer.Token != js_lexer.TComma &&
			p.lexer.Token != js_lexer.TCloseBrace &&
			p.lexer.Token != js_lexer.TColon &&
			p.lexer.Token != js_lexer.TEquals {
			property.Kind = kind
			key, isComputed := p.parsePropertyKey()
			property.Key = key
			property.IsComputed = isComputed
			property.IsMethod = true
			fn := js_ast.Fn{}
			fn.Args, fn.HasRestArg = p.parseFnArgs()
			fn.Body = p.parseFnBody()
			value := js_ast.Expr{Loc: property.Key.Loc, Data: &js_ast.EFunction{Fn: fn}}
			property.Value = &value
			return property
		}
		p.lexer = oldLexer
	}

	isAsync := false
	if p.lexer.IsContextualKeyword("async") {
		oldLexer := p.lexer
		p.lexer.Next()
		if p.lexer.Token != js_lexer.TOpenParen &&
			p.lexer.Token != js_lexer.TComma &&
			p.lexer.Token != js_lexer.TCloseBrace &&
			p.lexer.Token != js_lexer.TColon &&
			p.lexer.Token != js_lexer.TEquals &&
			!p.lexer.HasNewlineBefore {
			isAsync = true
		} else {
			p.lexer = oldLexer
		}
	}

	isGenerator := false
	if p.lexer.Token == js_lexer.TAsterisk {
		isGenerator = true
		p.lexer.Next()
	}

	key, isComputed := p.parsePropertyKey()
	property.Key = key
	property.IsComputed = isComputed

	// Method
	if p.lexer.Token == js_lexer.TOpenParen {
		property.IsMethod = true
		fn := js_ast.Fn{IsAsync: isAsync, IsGenerator: isGenerator}
		fn.Args, fn.HasRestArg = p.parseFnArgs()
		fn.Body = p.parseFnBody()
		value := js_ast.Expr{Loc: key.Loc, Data: &js_ast.EFunction{Fn: fn}}
		property.Value = &value
		return property
	}

	// Class field
	if isClass {
		if p.lexer.Token == js_lexer.TEquals {
			p.lexer.Next()
			initializer := p.parseExpr(js_ast.LComma)
			property.Initializer = &initializer
		}
		p.expectSemicolon()
		return property
	}

	// "{key: value}"
	if p.lexer.Token == js_lexer.TColon {
		p.lexer.Next()
		value := p.parseExpr(js_ast.LComma)
		property.Value = &value
		return property
	}

	// Shorthand: "{a}" or "{a = 1}" (the latter is only valid in patterns)
	if str, ok := key.Data.(*js_ast.EString); ok && !isComputed {
		property.WasShorthand = true
		value := js_ast.Expr{Loc: key.Loc, Data: &js_ast.EIdentifier{Name: str.Value}}
		property.Value = &value
		if p.lexer.Token == js_lexer.TEquals {
			p.lexer.Next()
			initializer := p.parseExpr(js_ast.LComma)
			property.Initializer = &initializer
		}
		return property
	}

	p.lexer.Expected(js_lexer.TColon)
	return property
}

func (p *parser) parsePropertyKey() (js_ast.Expr, bool) {
	loc := p.lexer.Loc()

	switch p.lexer.Token {
	case js_lexer.TOpenBracket:
		p.lexer.Next()
		expr := p.parseExpr(js_ast.LComma)
		p.lexer.Expect(js_lexer.TCloseBracket)
		return expr, true

	case js_lexer.TStringLiteral:
		value := p.lexer.String
		p.lexer.Next()
		return js_ast.Expr{Loc: loc, Data: &js_ast.EString{Value: value}}, false

	case js_lexer.TNumericLiteral:
		value := p.lexer.Number
		p.lexer.Next()
		return js_ast.Expr{Loc: loc, Data: &js_ast.ENumber{Value: value}}, false

	default:
		if p.lexer.Token < js_lexer.TIdentifier {
			p.lexer.Expected(js_lexer.TIdentifier)
		}
		name := p.lexer.Identifier
		p.lexer.Next()
		return js_ast.Expr{Loc: loc, Data: &js_ast.EString{Value: name}}, false
	}
}

func (p *parser) parseDecls() []js_ast.Decl {
	decls := []js_ast.Decl{}

	for {
		binding := p.parseBinding()
		var value *js_ast.Expr
		if p.lexer.Token == js_lexer.TEquals {
			p.lexer.Next()
			expr := p.parseExpr(js_ast.LComma)
			value = &expr
		}
		decls = append(decls, js_ast.Decl{Binding: binding, Value: value})

		if p.lexer.Token != js_lexer.TComma {
			break
		}
		p.lexer.Next()
	}

	return decls
}

func (p *parser) parseBinding() js_ast.Binding {
	loc := p.lexer.Loc()

	switch p.lexer.Token {
	case js_lexer.TIdentifier:
		name := p.lexer.Identifier
		p.lexer.Next()
		return js_ast.Binding{Loc: loc, Data: &js_ast.BIdentifier{Name: name}}

	case js_lexer.TOpenBracket:
		p.lexer.Next()
		items := []js_ast.ArrayBinding{}
		hasSpread := false
		for p.lexer.Token != js_lexer.TCloseBracket {
			if p.lexer.Token == js_lexer.TComma {
				binding := js_ast.Binding{Loc: p.lexer.Loc(), Data: &js_ast.BMissing{}}
				items = append(items, js_ast.ArrayBinding{Binding: binding})
				p.lexer.Next()
				continue
			}

			if p.lexer.Token == js_lexer.TDotDotDot {
				p.lexer.Next()
				hasSpread = true
				items = append(items, js_ast.ArrayBinding{Binding: p.parseBinding()})
				break
			}

			binding := p.parseBinding()
			var def *js_ast.Expr
			if p.lexer.Token == js_lexer.TEquals {
				p.lexer.Next()
				expr := p.parseExpr(js_ast.LComma)
				def = &expr
			}
			items = append(items, js_ast.ArrayBinding{Binding: binding, DefaultValue: def})

			if p.lexer.Token != js_lexer.TComma {
				break
			}
			p.lexer.Next()
		}
		p.lexer.Expect(js_lexer.TCloseBracket)
		return js_ast.Binding{Loc: loc, Data: &js_ast.BArray{Items: items, HasSpread: hasSpread}}

	case js_lexer.TOpenBrace:
		p.lexer.Next()
		properties := []js_ast.PropertyBinding{}
		for p.lexer.Token != js_lexer.TCloseBrace {
			property := p.parsePropertyBinding()
			properties = append(properties, property)

			if p.lexer.Token != js_lexer.TComma {
				break
			}
			p.lexer.Next()
		}
		p.lexer.Expect(js_lexer.TCloseBrace)
		return js_ast.Binding{Loc: loc, Data: &js_ast.BObject{Properties: properties}}
	}

	p.lexer.Expected(js_lexer.TIdentifier)
	return js_ast.Binding{}
}

func (p *parser) parsePropertyBinding() js_ast.PropertyBinding {
	if p.lexer.Token == js_lexer.TDotDotDot {
		p.lexer.Next()
		value := p.parseBinding()
		return js_ast.PropertyBinding{IsSpread: true, Value: value}
	}

	key, isComputed := p.parsePropertyKey()

	// "{key: value}"
	if p.lexer.Token == js_lexer.TColon {
		p.lexer.Next()
		value := p.parseBinding()
		var def *js_ast.Expr
		if p.lexer.Token == js_lexer.TEquals {
			p.lexer.Next()
			expr := p.parseExpr(js_ast.LComma)
			def = &expr
		}
		return js_ast.PropertyBinding{IsComputed: isComputed, Key: key, Value: value, DefaultValue: def}
	}

	// Shorthand: "{a}" or "{a = 1}"
	str, ok := key.Data.(*js_ast.EString)
	if !ok || isComputed {
		p.lexer.Expected(js_lexer.TColon)
	}
	value := js_ast.Binding{Loc: key.Loc, Data: &js_ast.BIdentifier{Name: str.Value}}
	var def *js_ast.Expr
	if p.lexer.Token == js_lexer.TEquals {
		p.lexer.Next()
		expr := p.parseExpr(js_ast.LComma)
		def = &expr
	}
	return js_ast.PropertyBinding{Key: key, Value: value, DefaultValue: def}
}

func (p *parser) parseForStmt(loc logger.Loc) js_ast.Stmt {
	p.lexer.Next()
	p.lexer.Expect(js_lexer.TOpenParen)

	var init *js_ast.Stmt
	isAwait := false

	if p.lexer.Token == js_lexer.TAwait {
		isAwait = true
		p.lexer.Next()
	}

	switch p.lexer.Token {
	case js_lexer.TSemicolon:

	case js_lexer.TVar, js_lexer.TLet, js_lexer.TConst:
		kind := js_ast.LocalVar
		if p.lexer.Token == js_lexer.TLet {
			kind = js_ast.LocalLet
		} else if p.lexer.Token == js_lexer.TConst {
			kind = js_ast.LocalConst
		}
		p.lexer.Next()

		oldAllowIn := p.allowIn
		p.allowIn = false
		decls := p.parseDecls()
		p.allowIn = oldAllowIn

		stmt := js_ast.Stmt{Loc: loc, Data: &js_ast.SLocal{Kind: kind, Decls: decls}}
		init = &stmt

	default:
		oldAllowIn := p.allowIn
		p.allowIn = false
		expr := p.parseExpr(js_ast.LLowest)
		p.allowIn = oldAllowIn

		stmt := js_ast.Stmt{Loc: expr.Loc, Data: &js_ast.SExpr{Value: expr}}
		init = &stmt
	}

	// "for (x in y)"
	if p.lexer.Token == js_lexer.TIn {
		p.lexer.Next()
		value := p.parseExpr(js_ast.LLowest)
		p.lexer.Expect(js_lexer.TCloseParen)
		body := p.parseStmt()
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SForIn{Init: *init, Value: value, Body: body}}
	}

	// "for (x of y)"
	if p.lexer.IsContextualKeyword("of") {
		p.lexer.Next()
		value := p.parseExpr(js_ast.LComma)
		p.lexer.Expect(js_lexer.TCloseParen)
		body := p.parseStmt()
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SForOf{IsAwait: isAwait, Init: *init, Value: value, Body: body}}
	}

	p.lexer.Expect(js_lexer.TSemicolon)

	var test *js_ast.Expr
	if p.lexer.Token != js_lexer.TSemicolon {
		expr := p.parseExpr(js_ast.LLowest)
		test = &expr
	}
	p.lexer.Expect(js_lexer.TSemicolon)

	var update *js_ast.Expr
	if p.lexer.Token != js_lexer.TCloseParen {
		expr := p.parseExpr(js_ast.LLowest)
		update = &expr
	}
	p.lexer.Expect(js_lexer.TCloseParen)

	body := p.parseStmt()
	return js_ast.Stmt{Loc: loc, Data: &js_ast.SFor{Init: init, Test: test, Update: update, Body: body}}
}

func (p *parser) parsePath() js_ast.Path {
	path := js_ast.Path{Loc: p.lexer.Loc(), Text: p.lexer.String}
	p.lexer.Expect(js_lexer.TStringLiteral)
	return path
}

func (p *parser) parseImportStmt(loc logger.Loc) js_ast.Stmt {
	p.lexer.Next()

	switch p.lexer.Token {
	case js_lexer.TOpenParen:
		// "import('path')" in statement position
		expr := p.parseSuffix(p.parseImportExpr(loc), js_ast.LLowest)
		p.expectSemicolon()
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SExpr{Value: expr}}

	case js_lexer.TStringLiteral:
		// "import 'path'"
		path := p.parsePath()
		p.expectSemicolon()
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SImport{Path: path}}
	}

	stmt := js_ast.SImport{}

	if p.lexer.Token == js_lexer.TIdentifier {
		// "import defaultItem from 'path'"
		stmt.DefaultName = &js_ast.NameLoc{Loc: p.lexer.Loc(), Name: p.lexer.Identifier}
		p.lexer.Next()
		if p.lexer.Token == js_lexer.TComma {
			p.lexer.Next()
		} else {
			p.lexer.ExpectContextualKeyword("from")
			stmt.Path = p.parsePath()
			p.expectSemicolon()
			return js_ast.Stmt{Loc: loc, Data: &stmt}
		}
	}

	switch p.lexer.Token {
	case js_lexer.TAsterisk:
		// "import * as ns from 'path'"
		p.lexer.Next()
		p.lexer.ExpectContextualKeyword("as")
		if p.lexer.Token != js_lexer.TIdentifier {
			p.lexer.Expected(js_lexer.TIdentifier)
		}
		stmt.StarName = &js_ast.NameLoc{Loc: p.lexer.Loc(), Name: p.lexer.Identifier}
		p.lexer.Next()

	case js_lexer.TOpenBrace:
		// "import {item1, item2 as other} from 'path'"
		items := p.parseImportClause()
		stmt.Items = &items

	default:
		p.lexer.Expected(js_lexer.TOpenBrace)
	}

	p.lexer.ExpectContextualKeyword("from")
	stmt.Path = p.parsePath()
	p.expectSemicolon()
	return js_ast.Stmt{Loc: loc, Data: &stmt}
}

func (p *parser) parseImportClause() []js_ast.ClauseItem {
	items := []js_ast.ClauseItem{}
	p.lexer.Expect(js_lexer.TOpenBrace)

	for p.lexer.Token != js_lexer.TCloseBrace {
		aliasLoc := p.lexer.Loc()
		alias := p.parseClauseAlias()
		name := js_ast.NameLoc{Loc: aliasLoc, Name: alias}
		p.lexer.Next()

		if p.lexer.IsContextualKeyword("as") {
			p.lexer.Next()
			if p.lexer.Token != js_lexer.TIdentifier {
				p.lexer.Expected(js_lexer.TIdentifier)
			}
			name = js_ast.NameLoc{Loc: p.lexer.Loc(), Name: p.lexer.Identifier}
			p.lexer.Next()
		} else if !js_lexer.IsIdentifier(alias) {
			// "import {'x'} from 'path'" is not valid without "as"
			p.lexer.ExpectedString("\"as\"")
		}

		items = append(items, js_ast.ClauseItem{Alias: alias, AliasLoc: aliasLoc, Name: name})

		if p.lexer.Token != js_lexer.TComma {
			break
		}
		p.lexer.Next()
	}

	p.lexer.Expect(js_lexer.TCloseBrace)
	return items
}

// A clause alias can be an identifier, a keyword, or a string literal
func (p *parser) parseClauseAlias() string {
	if p.lexer.Token == js_lexer.TStringLiteral {
		return p.lexer.String
	}
	if p.lexer.Token < js_lexer.TIdentifier {
		p.lexer.Expected(js_lexer.TIdentifier)
	}
	return p.lexer.Identifier
}

func (p *parser) parseExportStmt(loc logger.Loc) js_ast.Stmt {
	p.lexer.Next()

	switch p.lexer.Token {
	case js_lexer.TDefault:
		defaultLoc := p.lexer.Loc()
		p.lexer.Next()

		if p.lexer.Token == js_lexer.TFunction {
			fnLoc := p.lexer.Loc()
			p.lexer.Next()
			fn := p.parseFn(false /* nameRequired */, false /* isAsync */)
			stmt := js_ast.Stmt{Loc: fnLoc, Data: &js_ast.SFunction{Fn: fn}}
			return js_ast.Stmt{Loc: loc, Data: &js_ast.SExportDefault{DefaultLoc: defaultLoc, Value: js_ast.ExprOrStmt{Stmt: &stmt}}}
		}

		if p.lexer.IsContextualKeyword("async") {
			oldLexer := p.lexer
			p.lexer.Next()
			if p.lexer.Token == js_lexer.TFunction && !p.lexer.HasNewlineBefore {
				fnLoc := p.lexer.Loc()
				p.lexer.Next()
				fn := p.parseFn(false /* nameRequired */, true /* isAsync */)
				stmt := js_ast.Stmt{Loc: fnLoc, Data: &js_ast.SFunction{Fn: fn}}
				return js_ast.Stmt{Loc: loc, Data: &js_ast.SExportDefault{DefaultLoc: defaultLoc, Value: js_ast.ExprOrStmt{Stmt: &stmt}}}
			}
			p.lexer = oldLexer
		}

		if p.lexer.Token == js_lexer.TClass {
			classLoc := p.lexer.Loc()
			p.lexer.Next()
			class := p.parseClass(false /* nameRequired */)
			stmt := js_ast.Stmt{Loc: classLoc, Data: &js_ast.SClass{Class: class}}
			return js_ast.Stmt{Loc: loc, Data: &js_ast.SExportDefault{DefaultLoc: defaultLoc, Value: js_ast.ExprOrStmt{Stmt: &stmt}}}
		}

		expr := p.parseExpr(js_ast.LComma)
		p.expectSemicolon()
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SExportDefault{DefaultLoc: defaultLoc, Value: js_ast.ExprOrStmt{Expr: &expr}}}

	case js_lexer.TAsterisk:
		p.lexer.Next()
		var alias *js_ast.ExportStarAlias
		if p.lexer.IsContextualKeyword("as") {
			p.lexer.Next()
			if p.lexer.Token != js_lexer.TIdentifier {
				p.lexer.Expected(js_lexer.TIdentifier)
			}
			alias = &js_ast.ExportStarAlias{Loc: p.lexer.Loc(), Name: p.lexer.Identifier}
			p.lexer.Next()
		}
		p.lexer.ExpectContextualKeyword("from")
		path := p.parsePath()
		p.expectSemicolon()
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SExportStar{Alias: alias, Path: path}}

	case js_lexer.TOpenBrace:
		items := p.parseExportClause()
		if p.lexer.IsContextualKeyword("from") {
			p.lexer.Next()
			path := p.parsePath()
			p.expectSemicolon()
			return js_ast.Stmt{Loc: loc, Data: &js_ast.SExportFrom{Items: items, Path: path}}
		}
		p.expectSemicolon()
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SExportClause{Items: items}}

	case js_lexer.TVar:
		p.lexer.Next()
		decls := p.parseDecls()
		p.expectSemicolon()
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SLocal{Kind: js_ast.LocalVar, Decls: decls, IsExport: true}}

	case js_lexer.TLet:
		p.lexer.Next()
		decls := p.parseDecls()
		p.expectSemicolon()
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SLocal{Kind: js_ast.LocalLet, Decls: decls, IsExport: true}}

	case js_lexer.TConst:
		p.lexer.Next()
		decls := p.parseDecls()
		p.expectSemicolon()
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SLocal{Kind: js_ast.LocalConst, Decls: decls, IsExport: true}}

	case js_lexer.TFunction:
		p.lexer.Next()
		return p.parseFnStmt(loc, false /* isAsync */, true /* isExport */)

	case js_lexer.TClass:
		p.lexer.Next()
		class := p.parseClass(true /* nameRequired */)
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SClass{Class: class, IsExport: true}}

	default:
		if p.lexer.IsContextualKeyword("async") {
			p.lexer.Next()
			p.lexer.Expect(js_lexer.TFunction)
			return p.parseFnStmt(loc, true /* isAsync */, true /* isExport */)
		}
		p.lexer.Expected(js_lexer.TOpenBrace)
		return js_ast.Stmt{}
	}
}

func (p *parser) parseExportClause() []js_ast.ClauseItem {
	items := []js_ast.ClauseItem{}
	p.lexer.Expect(js_lexer.TOpenBrace)

	for p.lexer.Token != js_lexer.TCloseBrace {
		nameLoc := p.lexer.Loc()
		name := p.parseClauseAlias()
		alias := name
		aliasLoc := nameLoc
		p.lexer.Next()

		if p.lexer.IsContextualKeyword("as") {
			p.lexer.Next()
			aliasLoc = p.lexer.Loc()
			alias = p.parseClauseAlias()
			p.lexer.Next()
		}

		items = append(items, js_ast.ClauseItem{
			Alias:    alias,
			AliasLoc: aliasLoc,
			Name:     js_ast.NameLoc{Loc: nameLoc, Name: name},
		})

		if p.lexer.Token != js_lexer.TComma {
			break
		}
		p.lexer.Next()
	}

	p.lexer.Expect(js_lexer.TCloseBrace)
	return items
}
