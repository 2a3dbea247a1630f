package js_parser

import (
	"github.com/hoistpack/hoistpack/internal/js_ast"
	"github.com/hoistpack/hoistpack/internal/js_lexer"
	"github.com/hoistpack/hoistpack/internal/logger"
)

func (p *parser) parseExpr(level js_ast.L) js_ast.Expr {
	return p.parseSuffix(p.parsePrefix(level), level)
}

func (p *parser) parsePrefix(level js_ast.L) js_ast.Expr {
	loc := p.lexer.Loc()

	switch p.lexer.Token {
	case js_lexer.TFalse:
		p.lexer.Next()
		return js_ast.Expr{Loc: loc, Data: &js_ast.EBoolean{Value: false}}

	case js_lexer.TTrue:
		p.lexer.Next()
		return js_ast.Expr{Loc: loc, Data: &js_ast.EBoolean{Value: true}}

	case js_lexer.TNull:
		p.lexer.Next()
		return js_ast.Expr{Loc: loc, Data: &js_ast.ENull{}}

	case js_lexer.TThis:
		p.lexer.Next()
		return js_ast.Expr{Loc: loc, Data: &js_ast.EThis{}}

	case js_lexer.TNumericLiteral:
		value := p.lexer.Number
		p.lexer.Next()
		return js_ast.Expr{Loc: loc, Data: &js_ast.ENumber{Value: value}}

	case js_lexer.TStringLiteral:
		value := p.lexer.String
		p.lexer.Next()
		return js_ast.Expr{Loc: loc, Data: &js_ast.EString{Value: value}}

	case js_lexer.TNoSubstitutionTemplateLiteral:
		head := p.lexer.String
		p.lexer.Next()
		return js_ast.Expr{Loc: loc, Data: &js_ast.ETemplate{Head: head}}

	case js_lexer.TTemplateHead:
		head := p.lexer.String
		parts := p.parseTemplateParts()
		return js_ast.Expr{Loc: loc, Data: &js_ast.ETemplate{Head: head, Parts: parts}}

	case js_lexer.TSlash, js_lexer.TSlashEquals:
		p.lexer.ScanRegExp()
		value := p.lexer.Raw()
		p.lexer.Next()
		return js_ast.Expr{Loc: loc, Data: &js_ast.ERegExp{Value: value}}

	case js_lexer.TIdentifier:
		name := p.lexer.Identifier
		p.lexer.Next()

		// Handle async arrow functions: "async x => {}" and "async (x) => {}"
		if name == "async" && !p.lexer.HasNewlineBefore {
			if p.lexer.Token == js_lexer.TIdentifier {
				argName := p.lexer.Identifier
				argLoc := p.lexer.Loc()
				p.lexer.Next()
				p.lexer.Expect(js_lexer.TEqualsGreaterThan)
				arg := js_ast.Arg{Binding: js_ast.Binding{Loc: argLoc, Data: &js_ast.BIdentifier{Name: argName}}}
				return p.parseArrowBody(loc, []js_ast.Arg{arg}, false, true)
			}
			if p.lexer.Token == js_lexer.TFunction {
				p.lexer.Next()
				fn := p.parseFn(false /* nameRequired */, true /* isAsync */)
				return js_ast.Expr{Loc: loc, Data: &js_ast.EFunction{Fn: fn}}
			}
			if p.lexer.Token == js_lexer.TOpenParen {
				// This could be an async arrow or a call to a function named
				// "async". Parse the parenthesized part as an expression and
				// decide when we see whether "=>" follows.
				openLoc := p.lexer.Loc()
				_, commaSeparated, sawArrow := p.parseParenExpr(openLoc)
				if sawArrow {
					args, hasRestArg := p.exprsToArgs(commaSeparated)
					return p.parseArrowBody(loc, args, hasRestArg, true)
				}
				target := js_ast.Expr{Loc: loc, Data: &js_ast.EIdentifier{Name: name}}
				return js_ast.Expr{Loc: loc, Data: &js_ast.ECall{Target: target, Args: commaSeparated}}
			}
		}

		// "x => {}"
		if p.lexer.Token == js_lexer.TEqualsGreaterThan && level <= js_ast.LAssign {
			arg := js_ast.Arg{Binding: js_ast.Binding{Loc: loc, Data: &js_ast.BIdentifier{Name: name}}}
			p.lexer.Next()
			return p.parseArrowBodyAfterArrow(loc, []js_ast.Arg{arg}, false, false)
		}

		return js_ast.Expr{Loc: loc, Data: &js_ast.EIdentifier{Name: name}}

	case js_lexer.TAwait:
		p.lexer.Next()
		value := p.parseExpr(js_ast.LPrefix)
		return js_ast.Expr{Loc: loc, Data: &js_ast.EAwait{Value: value}}

	case js_lexer.TYield:
		p.lexer.Next()
		isStar := false
		if p.lexer.Token == js_lexer.TAsterisk && !p.lexer.HasNewlineBefore {
			isStar = true
			p.lexer.Next()
		}
		var value *js_ast.Expr
		switch p.lexer.Token {
		case js_lexer.TCloseBrace, js_lexer.TCloseParen, js_lexer.TCloseBracket,
			js_lexer.TSemicolon, js_lexer.TComma, js_lexer.TColon, js_lexer.TEndOfFile:
		default:
			if !p.lexer.HasNewlineBefore || isStar {
				expr := p.parseExpr(js_ast.LYield)
				value = &expr
			}
		}
		return js_ast.Expr{Loc: loc, Data: &js_ast.EYield{Value: value, IsStar: isStar}}

	case js_lexer.TFunction:
		p.lexer.Next()
		fn := p.parseFn(false /* nameRequired */, false /* isAsync */)
		return js_ast.Expr{Loc: loc, Data: &js_ast.EFunction{Fn: fn}}

	case js_lexer.TClass:
		p.lexer.Next()
		class := p.parseClass(false /* nameRequired */)
		return js_ast.Expr{Loc: loc, Data: &js_ast.EClass{Class: class}}

	case js_lexer.TNew:
		p.lexer.Next()

		// "new.target" is parsed as a plain identifier chain and left alone
		if p.lexer.Token == js_lexer.TDot {
			p.lexer.Next()
			if !p.lexer.IsContextualKeyword("target") {
				p.lexer.ExpectedString("\"target\"")
			}
			p.lexer.Next()
			return js_ast.Expr{Loc: loc, Data: &js_ast.EIdentifier{Name: "new.target"}}
		}

		target := p.parseExpr(js_ast.LMember)
		args := []js_ast.Expr{}
		if p.lexer.Token == js_lexer.TOpenParen {
			args = p.parseCallArgs()
		}
		return js_ast.Expr{Loc: loc, Data: &js_ast.ENew{Target: target, Args: args}}

	case js_lexer.TImport:
		p.lexer.Next()
		return p.parseImportExpr(loc)

	case js_lexer.TOpenParen:
		openLoc := p.lexer.Loc()
		expr, commaSeparated, sawArrow := p.parseParenExpr(openLoc)
		if sawArrow {
			if level > js_ast.LAssign {
				p.lexer.Expected(js_lexer.TCloseParen)
			}
			args, hasRestArg := p.exprsToArgs(commaSeparated)
			return p.parseArrowBody(loc, args, hasRestArg, false)
		}
		return expr

	case js_lexer.TOpenBracket:
		p.lexer.Next()
		items := []js_ast.Expr{}
		for p.lexer.Token != js_lexer.TCloseBracket {
			if p.lexer.Token == js_lexer.TComma {
				items = append(items, js_ast.Expr{Loc: p.lexer.Loc(), Data: &js_ast.EMissing{}})
				p.lexer.Next()
				continue
			}
			if p.lexer.Token == js_lexer.TDotDotDot {
				spreadLoc := p.lexer.Loc()
				p.lexer.Next()
				value := p.parseExpr(js_ast.LComma)
				items = append(items, js_ast.Expr{Loc: spreadLoc, Data: &js_ast.ESpread{Value: value}})
			} else {
				items = append(items, p.parseExpr(js_ast.LComma))
			}
			if p.lexer.Token != js_lexer.TComma {
				break
			}
			p.lexer.Next()
		}
		p.lexer.Expect(js_lexer.TCloseBracket)
		return js_ast.Expr{Loc: loc, Data: &js_ast.EArray{Items: items}}

	case js_lexer.TOpenBrace:
		p.lexer.Next()
		properties := []js_ast.Property{}
		for p.lexer.Token != js_lexer.TCloseBrace {
			properties = append(properties, p.parseProperty(false /* isClass */))
			if p.lexer.Token != js_lexer.TComma {
				break
			}
			p.lexer.Next()
		}
		p.lexer.Expect(js_lexer.TCloseBrace)
		return js_ast.Expr{Loc: loc, Data: &js_ast.EObject{Properties: properties}}

	case js_lexer.TExclamation:
		p.lexer.Next()
		value := p.parseExpr(js_ast.LPrefix)
		return js_ast.Expr{Loc: loc, Data: &js_ast.EUnary{Op: js_ast.UnOpNot, Value: value}}

	case js_lexer.TMinus:
		p.lexer.Next()
		value := p.parseExpr(js_ast.LPrefix)
		return js_ast.Expr{Loc: loc, Data: &js_ast.EUnary{Op: js_ast.UnOpNeg, Value: value}}

	case js_lexer.TPlus:
		p.lexer.Next()
		value := p.parseExpr(js_ast.LPrefix)
		return js_ast.Expr{Loc: loc, Data: &js_ast.EUnary{Op: js_ast.UnOpPos, Value: value}}

	case js_lexer.TTilde:
		p.lexer.Next()
		value := p.parseExpr(js_ast.LPrefix)
		return js_ast.Expr{Loc: loc, Data: &js_ast.EUnary{Op: js_ast.UnOpCpl, Value: value}}

	case js_lexer.TTypeof:
		p.lexer.Next()
		value := p.parseExpr(js_ast.LPrefix)
		return js_ast.Expr{Loc: loc, Data: &js_ast.EUnary{Op: js_ast.UnOpTypeof, Value: value}}

	case js_lexer.TVoid:
		p.lexer.Next()
		value := p.parseExpr(js_ast.LPrefix)
		return js_ast.Expr{Loc: loc, Data: &js_ast.EUnary{Op: js_ast.UnOpVoid, Value: value}}

	case js_lexer.TDelete:
		p.lexer.Next()
		value := p.parseExpr(js_ast.LPrefix)
		return js_ast.Expr{Loc: loc, Data: &js_ast.EUnary{Op: js_ast.UnOpDelete, Value: value}}

	case js_lexer.TMinusMinus:
		p.lexer.Next()
		value := p.parseExpr(js_ast.LPrefix)
		return js_ast.Expr{Loc: loc, Data: &js_ast.EUnary{Op: js_ast.UnOpPreDec, Value: value}}

	case js_lexer.TPlusPlus:
		p.lexer.Next()
		value := p.parseExpr(js_ast.LPrefix)
		return js_ast.Expr{Loc: loc, Data: &js_ast.EUnary{Op: js_ast.UnOpPreInc, Value: value}}

	default:
		p.lexer.ExpectedString("an expression")
		return js_ast.Expr{}
	}
}

// parseImportExpr is called with the lexer just past "import". Dynamic import
// is a call-like form but not an ordinary call: the target is never a free
// identifier that code can observe.
func (p *parser) parseImportExpr(loc logger.Loc) js_ast.Expr {
	p.lexer.Expect(js_lexer.TOpenParen)
	value := p.parseExpr(js_ast.LComma)
	if p.lexer.Token == js_lexer.TComma {
		// Trailing import assertions are parsed and dropped
		p.lexer.Next()
		if p.lexer.Token != js_lexer.TCloseParen {
			p.parseExpr(js_ast.LComma)
			if p.lexer.Token == js_lexer.TComma {
				p.lexer.Next()
			}
		}
	}
	p.lexer.Expect(js_lexer.TCloseParen)
	return js_ast.Expr{Loc: loc, Data: &js_ast.EImport{Expr: value}}
}

func (p *parser) parseTemplateParts() []js_ast.TemplatePart {
	parts := []js_ast.TemplatePart{}
	for {
		p.lexer.Next()
		value := p.parseExpr(js_ast.LLowest)
		p.lexer.RescanCloseBraceAsTemplateToken()
		tail := p.lexer.String
		parts = append(parts, js_ast.TemplatePart{Value: value, Tail: tail})
		if p.lexer.Token == js_lexer.TTemplateTail {
			p.lexer.Next()
			return parts
		}
	}
}

// parseParenExpr parses everything between "(" and ")". If a "=>" token
// follows the close paren, the comma-separated items are returned so they can
// be converted into arrow function arguments. Otherwise the items are joined
// into a single (possibly comma) expression.
func (p *parser) parseParenExpr(loc logger.Loc) (js_ast.Expr, []js_ast.Expr, bool) {
	p.lexer.Expect(js_lexer.TOpenParen)
	items := []js_ast.Expr{}

	oldAllowIn := p.allowIn
	p.allowIn = true

	for p.lexer.Token != js_lexer.TCloseParen {
		if p.lexer.Token == js_lexer.TDotDotDot {
			spreadLoc := p.lexer.Loc()
			p.lexer.Next()
			value := p.parseExpr(js_ast.LComma)
			items = append(items, js_ast.Expr{Loc: spreadLoc, Data: &js_ast.ESpread{Value: value}})
		} else {
			items = append(items, p.parseExpr(js_ast.LComma))
		}
		if p.lexer.Token != js_lexer.TComma {
			break
		}
		p.lexer.Next()
	}

	p.allowIn = oldAllowIn
	p.lexer.Expect(js_lexer.TCloseParen)

	if p.lexer.Token == js_lexer.TEqualsGreaterThan {
		return js_ast.Expr{}, items, true
	}

	if len(items) == 0 {
		p.lexer.ExpectedString("an expression")
	}

	expr := items[0]
	for _, item := range items[1:] {
		expr = js_ast.JoinWithComma(expr, item)
	}
	return expr, items, false
}

// exprsToArgs converts the comma-separated contents of a parenthesized
// expression into arrow function arguments
func (p *parser) exprsToArgs(items []js_ast.Expr) ([]js_ast.Arg, bool) {
	args := []js_ast.Arg{}
	hasRestArg := false
	for _, item := range items {
		if spread, ok := item.Data.(*js_ast.ESpread); ok {
			hasRestArg = true
			args = append(args, js_ast.Arg{Binding: p.convertExprToBinding(spread.Value)})
			continue
		}
		if binary, ok := item.Data.(*js_ast.EBinary); ok && binary.Op == js_ast.BinOpAssign {
			def := binary.Right
			args = append(args, js_ast.Arg{Binding: p.convertExprToBinding(binary.Left), Default: &def})
			continue
		}
		args = append(args, js_ast.Arg{Binding: p.convertExprToBinding(item)})
	}
	return args, hasRestArg
}

func (p *parser) convertExprToBinding(expr js_ast.Expr) js_ast.Binding {
	switch e := expr.Data.(type) {
	case *js_ast.EMissing:
		return js_ast.Binding{Loc: expr.Loc, Data: &js_ast.BMissing{}}

	case *js_ast.EIdentifier:
		return js_ast.Binding{Loc: expr.Loc, Data: &js_ast.BIdentifier{Name: e.Name}}

	case *js_ast.EArray:
		items := []js_ast.ArrayBinding{}
		hasSpread := false
		for _, item := range e.Items {
			if spread, ok := item.Data.(*js_ast.ESpread); ok {
				hasSpread = true
				items = append(items, js_ast.ArrayBinding{Binding: p.convertExprToBinding(spread.Value)})
				continue
			}
			if binary, ok := item.Data.(*js_ast.EBinary); ok && binary.Op == js_ast.BinOpAssign {
				def := binary.Right
				items = append(items, js_ast.ArrayBinding{
					Binding:      p.convertExprToBinding(binary.Left),
					DefaultValue: &def,
				})
				continue
			}
			items = append(items, js_ast.ArrayBinding{Binding: p.convertExprToBinding(item)})
		}
		return js_ast.Binding{Loc: expr.Loc, Data: &js_ast.BArray{Items: items, HasSpread: hasSpread}}

	case *js_ast.EObject:
		properties := []js_ast.PropertyBinding{}
		for _, property := range e.Properties {
			if property.Kind == js_ast.PropertySpread {
				properties = append(properties, js_ast.PropertyBinding{
					IsSpread: true,
					Value:    p.convertExprToBinding(*property.Value),
				})
				continue
			}
			binding := p.convertExprToBinding(*property.Value)
			properties = append(properties, js_ast.PropertyBinding{
				IsComputed:   property.IsComputed,
				Key:          property.Key,
				Value:        binding,
				DefaultValue: property.Initializer,
			})
		}
		return js_ast.Binding{Loc: expr.Loc, Data: &js_ast.BObject{Properties: properties}}

	default:
		p.log.AddError(&p.source, expr.Loc, "Invalid binding pattern")
		panic(js_lexer.LexerPanic{})
	}
}

func (p *parser) parseArrowBody(loc logger.Loc, args []js_ast.Arg, hasRestArg bool, isAsync bool) js_ast.Expr {
	p.lexer.Expect(js_lexer.TEqualsGreaterThan)
	return p.parseArrowBodyAfterArrow(loc, args, hasRestArg, isAsync)
}

func (p *parser) parseArrowBodyAfterArrow(loc logger.Loc, args []js_ast.Arg, hasRestArg bool, isAsync bool) js_ast.Expr {
	if p.lexer.Token == js_lexer.TOpenBrace {
		body := p.parseFnBody()
		return js_ast.Expr{Loc: loc, Data: &js_ast.EArrow{
			Args:       args,
			Body:       body,
			IsAsync:    isAsync,
			HasRestArg: hasRestArg,
		}}
	}

	expr := p.parseExpr(js_ast.LComma)
	stmt := js_ast.Stmt{Loc: expr.Loc, Data: &js_ast.SReturn{Value: &expr}}
	return js_ast.Expr{Loc: loc, Data: &js_ast.EArrow{
		Args:       args,
		Body:       js_ast.FnBody{Loc: expr.Loc, Stmts: []js_ast.Stmt{stmt}},
		IsAsync:    isAsync,
		HasRestArg: hasRestArg,
		PreferExpr: true,
	}}
}

func (p *parser) parseCallArgs() []js_ast.Expr {
	args := []js_ast.Expr{}
	p.lexer.Expect(js_lexer.TOpenParen)

	oldAllowIn := p.allowIn
	p.allowIn = true

	for p.lexer.Token != js_lexer.TCloseParen {
		if p.lexer.Token == js_lexer.TDotDotDot {
			spreadLoc := p.lexer.Loc()
			p.lexer.Next()
			value := p.parseExpr(js_ast.LComma)
			args = append(args, js_ast.Expr{Loc: spreadLoc, Data: &js_ast.ESpread{Value: value}})
		} else {
			args = append(args, p.parseExpr(js_ast.LComma))
		}
		if p.lexer.Token != js_lexer.TComma {
			break
		}
		p.lexer.Next()
	}

	p.allowIn = oldAllowIn
	p.lexer.Expect(js_lexer.TCloseParen)
	return args
}

func (p *parser) parseSuffix(left js_ast.Expr, level js_ast.L) js_ast.Expr {
	for {
		switch p.lexer.Token {
		case js_lexer.TDot:
			p.lexer.Next()
			if p.lexer.Token < js_lexer.TIdentifier {
				p.lexer.Expected(js_lexer.TIdentifier)
			}
			nameLoc := p.lexer.Loc()
			name := p.lexer.Identifier
			p.lexer.Next()
			left = js_ast.Expr{Loc: left.Loc, Data: &js_ast.EDot{Target: left, Name: name, NameLoc: nameLoc}}

		case js_lexer.TOpenBracket:
			p.lexer.Next()
			oldAllowIn := p.allowIn
			p.allowIn = true
			index := p.parseExpr(js_ast.LLowest)
			p.allowIn = oldAllowIn
			p.lexer.Expect(js_lexer.TCloseBracket)
			left = js_ast.Expr{Loc: left.Loc, Data: &js_ast.EIndex{Target: left, Index: index}}

		case js_lexer.TOpenParen:
			if level >= js_ast.LCall {
				return left
			}
			args := p.parseCallArgs()
			left = js_ast.Expr{Loc: left.Loc, Data: &js_ast.ECall{Target: left, Args: args}}

		case js_lexer.TNoSubstitutionTemplateLiteral:
			if level >= js_ast.LPrefix {
				return left
			}
			tag := left
			head := p.lexer.String
			p.lexer.Next()
			left = js_ast.Expr{Loc: left.Loc, Data: &js_ast.ETemplate{Tag: &tag, Head: head}}

		case js_lexer.TTemplateHead:
			if level >= js_ast.LPrefix {
				return left
			}
			tag := left
			head := p.lexer.String
			parts := p.parseTemplateParts()
			left = js_ast.Expr{Loc: left.Loc, Data: &js_ast.ETemplate{Tag: &tag, Head: head, Parts: parts}}

		case js_lexer.TQuestion:
			if level >= js_ast.LConditional {
				return left
			}
			p.lexer.Next()

			oldAllowIn := p.allowIn
			p.allowIn = true
			yes := p.parseExpr(js_ast.LComma)
			p.allowIn = oldAllowIn

			p.lexer.Expect(js_lexer.TColon)
			no := p.parseExpr(js_ast.LComma)
			left = js_ast.Expr{Loc: left.Loc, Data: &js_ast.EIf{Test: left, Yes: yes, No: no}}

		case js_lexer.TMinusMinus:
			if p.lexer.HasNewlineBefore || level >= js_ast.LPostfix {
				return left
			}
			p.lexer.Next()
			left = js_ast.Expr{Loc: left.Loc, Data: &js_ast.EUnary{Op: js_ast.UnOpPostDec, Value: left}}

		case js_lexer.TPlusPlus:
			if p.lexer.HasNewlineBefore || level >= js_ast.LPostfix {
				return left
			}
			p.lexer.Next()
			left = js_ast.Expr{Loc: left.Loc, Data: &js_ast.EUnary{Op: js_ast.UnOpPostInc, Value: left}}

		case js_lexer.TComma:
			if level >= js_ast.LComma {
				return left
			}
			p.lexer.Next()
			right := p.parseExpr(js_ast.LComma)
			left = js_ast.Expr{Loc: left.Loc, Data: &js_ast.EBinary{Op: js_ast.BinOpComma, Left: left, Right: right}}

		case js_lexer.TIn:
			if level >= js_ast.LCompare || !p.allowIn {
				return left
			}
			p.lexer.Next()
			right := p.parseExpr(js_ast.LCompare)
			left = js_ast.Expr{Loc: left.Loc, Data: &js_ast.EBinary{Op: js_ast.BinOpIn, Left: left, Right: right}}

		case js_lexer.TInstanceof:
			if level >= js_ast.LCompare {
				return left
			}
			p.lexer.Next()
			right := p.parseExpr(js_ast.LCompare)
			left = js_ast.Expr{Loc: left.Loc, Data: &js_ast.EBinary{Op: js_ast.BinOpInstanceof, Left: left, Right: right}}

		default:
			op, leftLevel, rightLevel, ok := binaryOpInfo(p.lexer.Token)
			if !ok || level >= leftLevel {
				return left
			}
			p.lexer.Next()
			right := p.parseExpr(rightLevel)
			left = js_ast.Expr{Loc: left.Loc, Data: &js_ast.EBinary{Op: op, Left: left, Right: right}}
		}
	}
}

// binaryOpInfo maps an infix token to its operator and the precedence levels
// used on each side. Right-associative operators parse their right side at a
// lower level than their own.
func binaryOpInfo(token js_lexer.T) (js_ast.OpCode, js_ast.L, js_ast.L, bool) {
	switch token {
	case js_lexer.TPlus:
		return js_ast.BinOpAdd, js_ast.LAdd, js_ast.LAdd, true
	case js_lexer.TMinus:
		return js_ast.BinOpSub, js_ast.LAdd, js_ast.LAdd, true
	case js_lexer.TAsterisk:
		return js_ast.BinOpMul, js_ast.LMultiply, js_ast.LMultiply, true
	case js_lexer.TSlash:
		return js_ast.BinOpDiv, js_ast.LMultiply, js_ast.LMultiply, true
	case js_lexer.TPercent:
		return js_ast.BinOpRem, js_ast.LMultiply, js_ast.LMultiply, true
	case js_lexer.TAsteriskAsterisk:
		return js_ast.BinOpPow, js_ast.LExponentiation, js_ast.LExponentiation - 1, true
	case js_lexer.TLessThan:
		return js_ast.BinOpLt, js_ast.LCompare, js_ast.LCompare, true
	case js_lexer.TLessThanEquals:
		return js_ast.BinOpLe, js_ast.LCompare, js_ast.LCompare, true
	case js_lexer.TGreaterThan:
		return js_ast.BinOpGt, js_ast.LCompare, js_ast.LCompare, true
	case js_lexer.TGreaterThanEquals:
		return js_ast.BinOpGe, js_ast.LCompare, js_ast.LCompare, true
	case js_lexer.TLessThanLessThan:
		return js_ast.BinOpShl, js_ast.LShift, js_ast.LShift, true
	case js_lexer.TGreaterThanGreaterThan:
		return js_ast.BinOpShr, js_ast.LShift, js_ast.LShift, true
	case js_lexer.TGreaterThanGreaterThanGreaterThan:
		return js_ast.BinOpUShr, js_ast.LShift, js_ast.LShift, true
	case js_lexer.TEqualsEquals:
		return js_ast.BinOpLooseEq, js_ast.LEquals, js_ast.LEquals, true
	case js_lexer.TExclamationEquals:
		return js_ast.BinOpLooseNe, js_ast.LEquals, js_ast.LEquals, true
	case js_lexer.TEqualsEqualsEquals:
		return js_ast.BinOpStrictEq, js_ast.LEquals, js_ast.LEquals, true
	case js_lexer.TExclamationEqualsEquals:
		return js_ast.BinOpStrictNe, js_ast.LEquals, js_ast.LEquals, true
	case js_lexer.TQuestionQuestion:
		return js_ast.BinOpNullishCoalescing, js_ast.LNullishCoalescing, js_ast.LNullishCoalescing, true
	case js_lexer.TBarBar:
		return js_ast.BinOpLogicalOr, js_ast.LLogicalOr, js_ast.LLogicalOr, true
	case js_lexer.TAmpersandAmpersand:
		return js_ast.BinOpLogicalAnd, js_ast.LLogicalAnd, js_ast.LLogicalAnd, true
	case js_lexer.TBar:
		return js_ast.BinOpBitwiseOr, js_ast.LBitwiseOr, js_ast.LBitwiseOr, true
	case js_lexer.TAmpersand:
		return js_ast.BinOpBitwiseAnd, js_ast.LBitwiseAnd, js_ast.LBitwiseAnd, true
	case js_lexer.TCaret:
		return js_ast.BinOpBitwiseXor, js_ast.LBitwiseXor, js_ast.LBitwiseXor, true

	case js_lexer.TEquals:
		return js_ast.BinOpAssign, js_ast.LAssign, js_ast.LAssign - 1, true
	case js_lexer.TPlusEquals:
		return js_ast.BinOpAddAssign, js_ast.LAssign, js_ast.LAssign - 1, true
	case js_lexer.TMinusEquals:
		return js_ast.BinOpSubAssign, js_ast.LAssign, js_ast.LAssign - 1, true
	case js_lexer.TAsteriskEquals:
		return js_ast.BinOpMulAssign, js_ast.LAssign, js_ast.LAssign - 1, true
	case js_lexer.TSlashEquals:
		return js_ast.BinOpDivAssign, js_ast.LAssign, js_ast.LAssign - 1, true
	case js_lexer.TPercentEquals:
		return js_ast.BinOpRemAssign, js_ast.LAssign, js_ast.LAssign - 1, true
	case js_lexer.TAsteriskAsteriskEquals:
		return js_ast.BinOpPowAssign, js_ast.LAssign, js_ast.LAssign - 1, true
	case js_lexer.TLessThanLessThanEquals:
		return js_ast.BinOpShlAssign, js_ast.LAssign, js_ast.LAssign - 1, true
	case js_lexer.TGreaterThanGreaterThanEquals:
		return js_ast.BinOpShrAssign, js_ast.LAssign, js_ast.LAssign - 1, true
	case js_lexer.TGreaterThanGreaterThanGreaterThanEquals:
		return js_ast.BinOpUShrAssign, js_ast.LAssign, js_ast.LAssign - 1, true
	case js_lexer.TBarEquals:
		return js_ast.BinOpBitwiseOrAssign, js_ast.LAssign, js_ast.LAssign - 1, true
	case js_lexer.TAmpersandEquals:
		return js_ast.BinOpBitwiseAndAssign, js_ast.LAssign, js_ast.LAssign - 1, true
	case js_lexer.TCaretEquals:
		return js_ast.BinOpBitwiseXorAssign, js_ast.LAssign, js_ast.LAssign - 1, true
	case js_lexer.TQuestionQuestionEquals:
		return js_ast.BinOpNullishCoalescingAssign, js_ast.LAssign, js_ast.LAssign - 1, true
	case js_lexer.TBarBarEquals:
		return js_ast.BinOpLogicalOrAssign, js_ast.LAssign, js_ast.LAssign - 1, true
	case js_lexer.TAmpersandAmpersandEquals:
		return js_ast.BinOpLogicalAndAssign, js_ast.LAssign, js_ast.LAssign - 1, true
	}
	return 0, 0, 0, false
}
