package js_printer

// The printer converts a tree back into JavaScript source text. Output is
// fully determined by the tree: printing the same tree always produces the
// same bytes. Parentheses are re-derived from operator precedence rather than
// preserved from the input.

import (
	"strconv"
	"strings"

	"github.com/hoistpack/hoistpack/internal/js_ast"
)

type printer struct {
	js     []byte
	indent int
}

func Print(module js_ast.Module) []byte {
	p := &printer{}
	for _, stmt := range module.Stmts {
		p.printStmt(stmt)
	}
	return p.js
}

func PrintExpr(expr js_ast.Expr) []byte {
	p := &printer{}
	p.printExpr(expr, js_ast.LLowest)
	return p.js
}

func (p *printer) print(text string) {
	p.js = append(p.js, text...)
}

func (p *printer) printIndent() {
	for i := 0; i < p.indent; i++ {
		p.print("  ")
	}
}

func (p *printer) printNewline() {
	p.print("\n")
}

func quoteString(text string) string {
	sb := strings.Builder{}
	sb.WriteByte('"')
	for _, c := range text {
		switch c {
		case '"':
			sb.WriteString("\\\"")
		case '\\':
			sb.WriteString("\\\\")
		case '\n':
			sb.WriteString("\\n")
		case '\r':
			sb.WriteString("\\r")
		case '\t':
			sb.WriteString("\\t")
		case '\b':
			sb.WriteString("\\b")
		case '\f':
			sb.WriteString("\\f")
		case '\v':
			sb.WriteString("\\v")
		case ' ':
			sb.WriteString("\\u2028")
		case ' ':
			sb.WriteString("\\u2029")
		default:
			if c < 0x20 {
				const hex = "0123456789abcdef"
				sb.WriteString("\\x")
				sb.WriteByte(hex[c>>4])
				sb.WriteByte(hex[c&15])
			} else {
				sb.WriteRune(c)
			}
		}
	}
	sb.WriteByte('"')
	return sb.String()
}

func escapeTemplateText(text string) string {
	sb := strings.Builder{}
	for i := 0; i < len(text); i++ {
		c := text[i]
		switch c {
		case '`':
			sb.WriteString("\\`")
		case '\\':
			sb.WriteString("\\\\")
		case '$':
			if i+1 < len(text) && text[i+1] == '{' {
				sb.WriteString("\\$")
			} else {
				sb.WriteByte(c)
			}
		default:
			sb.WriteByte(c)
		}
	}
	return sb.String()
}

func (p *printer) printNumber(value float64) {
	if value == float64(int64(value)) && value >= -9007199254740991 && value <= 9007199254740991 {
		p.print(strconv.FormatInt(int64(value), 10))
	} else {
		p.print(strconv.FormatFloat(value, 'g', -1, 64))
	}
}

// stmtStartNeedsParens reports whether the leftmost token of this expression
// would be mis-parsed at the start of an expression statement
func stmtStartNeedsParens(expr js_ast.Expr) bool {
	for {
		switch e := expr.Data.(type) {
		case *js_ast.EObject, *js_ast.EFunction, *js_ast.EClass:
			return true
		case *js_ast.EDot:
			expr = e.Target
		case *js_ast.EIndex:
			expr = e.Target
		case *js_ast.ECall:
			expr = e.Target
		case *js_ast.EBinary:
			expr = e.Left
		case *js_ast.EUnary:
			if !e.Op.IsPrefix() {
				expr = e.Value
				continue
			}
			return false
		case *js_ast.EIf:
			expr = e.Test
		case *js_ast.ETemplate:
			if e.Tag != nil {
				expr = *e.Tag
				continue
			}
			return false
		default:
			return false
		}
	}
}

func (p *printer) printStmt(stmt js_ast.Stmt) {
	p.printIndent()
	p.printStmtNoIndent(stmt)
}

func (p *printer) printStmtNoIndent(stmt js_ast.Stmt) {
	switch st := stmt.Data.(type) {
	case *js_ast.SEmpty:
		p.print(";")
		p.printNewline()

	case *js_ast.SDebugger:
		p.print("debugger;")
		p.printNewline()

	case *js_ast.SDirective:
		p.print(quoteString(st.Value))
		p.print(";")
		p.printNewline()

	case *js_ast.SBlock:
		p.printBlock(st.Stmts)
		p.printNewline()

	case *js_ast.SExpr:
		if stmtStartNeedsParens(st.Value) {
			p.print("(")
			p.printExpr(st.Value, js_ast.LLowest)
			p.print(")")
		} else {
			p.printExpr(st.Value, js_ast.LLowest)
		}
		p.print(";")
		p.printNewline()

	case *js_ast.SLocal:
		if st.IsExport {
			p.print("export ")
		}
		p.printDecls(st.Kind, st.Decls)
		p.print(";")
		p.printNewline()

	case *js_ast.SFunction:
		if st.IsExport {
			p.print("export ")
		}
		p.printFn(st.Fn)
		p.printNewline()

	case *js_ast.SClass:
		if st.IsExport {
			p.print("export ")
		}
		p.printClass(st.Class)
		p.printNewline()

	case *js_ast.SLabel:
		p.print(st.Name.Name)
		p.print(": ")
		p.printStmtNoIndent(st.Stmt)

	case *js_ast.SIf:
		p.printIf(st)
		p.printNewline()

	case *js_ast.SWhile:
		p.print("while (")
		p.printExpr(st.Test, js_ast.LLowest)
		p.print(") ")
		p.printBody(st.Body)
		p.printNewline()

	case *js_ast.SDoWhile:
		p.print("do ")
		p.printBody(st.Body)
		p.print(" while (")
		p.printExpr(st.Test, js_ast.LLowest)
		p.print(");")
		p.printNewline()

	case *js_ast.SFor:
		p.print("for (")
		if st.Init != nil {
			p.printForInit(*st.Init)
		}
		p.print("; ")
		if st.Test != nil {
			p.printExpr(*st.Test, js_ast.LLowest)
		}
		p.print("; ")
		if st.Update != nil {
			p.printExpr(*st.Update, js_ast.LLowest)
		}
		p.print(") ")
		p.printBody(st.Body)
		p.printNewline()

	case *js_ast.SForIn:
		p.print("for (")
		p.printForInit(st.Init)
		p.print(" in ")
		p.printExpr(st.Value, js_ast.LLowest)
		p.print(") ")
		p.printBody(st.Body)
		p.printNewline()

	case *js_ast.SForOf:
		p.print("for ")
		if st.IsAwait {
			p.print("await ")
		}
		p.print("(")
		p.printForInit(st.Init)
		p.print(" of ")
		p.printExpr(st.Value, js_ast.LComma)
		p.print(") ")
		p.printBody(st.Body)
		p.printNewline()

	case *js_ast.STry:
		p.print("try ")
		p.printBlock(st.Body)
		if st.Catch != nil {
			p.print(" catch ")
			if st.Catch.Binding != nil {
				p.print("(")
				p.printBinding(*st.Catch.Binding)
				p.print(") ")
			}
			p.printBlock(st.Catch.Body)
		}
		if st.Finally != nil {
			p.print(" finally ")
			p.printBlock(st.Finally.Stmts)
		}
		p.printNewline()

	case *js_ast.SSwitch:
		p.print("switch (")
		p.printExpr(st.Test, js_ast.LLowest)
		p.print(") {")
		p.printNewline()
		p.indent++
		for _, c := range st.Cases {
			p.printIndent()
			if c.Value != nil {
				p.print("case ")
				p.printExpr(*c.Value, js_ast.LLowest)
				p.print(":")
			} else {
				p.print("default:")
			}
			p.printNewline()
			p.indent++
			for _, s := range c.Body {
				p.printStmt(s)
			}
			p.indent--
		}
		p.indent--
		p.printIndent()
		p.print("}")
		p.printNewline()

	case *js_ast.SReturn:
		if st.Value != nil {
			p.print("return ")
			p.printExpr(*st.Value, js_ast.LLowest)
			p.print(";")
		} else {
			p.print("return;")
		}
		p.printNewline()

	case *js_ast.SThrow:
		p.print("throw ")
		p.printExpr(st.Value, js_ast.LLowest)
		p.print(";")
		p.printNewline()

	case *js_ast.SBreak:
		if st.Label != nil {
			p.print("break " + st.Label.Name + ";")
		} else {
			p.print("break;")
		}
		p.printNewline()

	case *js_ast.SContinue:
		if st.Label != nil {
			p.print("continue " + st.Label.Name + ";")
		} else {
			p.print("continue;")
		}
		p.printNewline()

	case *js_ast.SImport:
		p.print("import ")
		hasPart := false
		if st.DefaultName != nil {
			p.print(st.DefaultName.Name)
			hasPart = true
		}
		if st.StarName != nil {
			if hasPart {
				p.print(", ")
			}
			p.print("* as " + st.StarName.Name)
			hasPart = true
		}
		if st.Items != nil {
			if hasPart {
				p.print(", ")
			}
			p.print("{")
			for i, item := range *st.Items {
				if i > 0 {
					p.print(", ")
				}
				p.printClauseAlias(item.Alias)
				if item.Name.Name != item.Alias {
					p.print(" as " + item.Name.Name)
				}
			}
			p.print("}")
			hasPart = true
		}
		if hasPart {
			p.print(" from ")
		}
		p.print(quoteString(st.Path.Text))
		p.print(";")
		p.printNewline()

	case *js_ast.SExportClause:
		p.print("export {")
		for i, item := range st.Items {
			if i > 0 {
				p.print(", ")
			}
			p.print(item.Name.Name)
			if item.Alias != item.Name.Name {
				p.print(" as ")
				p.printClauseAlias(item.Alias)
			}
		}
		p.print("};")
		p.printNewline()

	case *js_ast.SExportFrom:
		p.print("export {")
		for i, item := range st.Items {
			if i > 0 {
				p.print(", ")
			}
			p.printClauseAlias(item.Name.Name)
			if item.Alias != item.Name.Name {
				p.print(" as ")
				p.printClauseAlias(item.Alias)
			}
		}
		p.print("} from ")
		p.print(quoteString(st.Path.Text))
		p.print(";")
		p.printNewline()

	case *js_ast.SExportDefault:
		p.print("export default ")
		if st.Value.Expr != nil {
			p.printExpr(*st.Value.Expr, js_ast.LComma)
			p.print(";")
			p.printNewline()
		} else {
			p.printStmtNoIndent(*st.Value.Stmt)
		}

	case *js_ast.SExportStar:
		p.print("export *")
		if st.Alias != nil {
			p.print(" as " + st.Alias.Name)
		}
		p.print(" from ")
		p.print(quoteString(st.Path.Text))
		p.print(";")
		p.printNewline()
	}
}

// Aliases in import and export clauses may be arbitrary strings
func (p *printer) printClauseAlias(alias string) {
	if isValidIdentifier(alias) {
		p.print(alias)
	} else {
		p.print(quoteString(alias))
	}
}

func isValidIdentifier(text string) bool {
	if len(text) == 0 {
		return false
	}
	for i, c := range text {
		if c == '_' || c == '$' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') {
			continue
		}
		if i > 0 && c >= '0' && c <= '9' {
			continue
		}
		return false
	}
	return true
}

func (p *printer) printIf(st *js_ast.SIf) {
	p.print("if (")
	p.printExpr(st.Test, js_ast.LLowest)
	p.print(") ")
	p.printBody(st.Yes)
	if st.No != nil {
		p.print(" else ")
		if elseIf, ok := st.No.Data.(*js_ast.SIf); ok {
			p.printIf(elseIf)
		} else {
			p.printBody(*st.No)
		}
	}
}

// printBody prints a statement that is the body of an "if", loop, or similar.
// Non-block bodies are wrapped in a block to avoid dangling-else ambiguity.
func (p *printer) printBody(stmt js_ast.Stmt) {
	if block, ok := stmt.Data.(*js_ast.SBlock); ok {
		p.printBlock(block.Stmts)
		return
	}
	p.print("{")
	p.printNewline()
	p.indent++
	p.printStmt(stmt)
	p.indent--
	p.printIndent()
	p.print("}")
}

func (p *printer) printBlock(stmts []js_ast.Stmt) {
	p.print("{")
	p.printNewline()
	p.indent++
	for _, stmt := range stmts {
		p.printStmt(stmt)
	}
	p.indent--
	p.printIndent()
	p.print("}")
}

// printForInit prints a loop initializer without a trailing semicolon
func (p *printer) printForInit(stmt js_ast.Stmt) {
	switch st := stmt.Data.(type) {
	case *js_ast.SLocal:
		p.printDecls(st.Kind, st.Decls)
	case *js_ast.SExpr:
		p.printExpr(st.Value, js_ast.LLowest)
	}
}

func (p *printer) printDecls(kind js_ast.LocalKind, decls []js_ast.Decl) {
	p.print(kind.String())
	p.print(" ")
	for i, decl := range decls {
		if i > 0 {
			p.print(", ")
		}
		p.printBinding(decl.Binding)
		if decl.Value != nil {
			p.print(" = ")
			p.printExpr(*decl.Value, js_ast.LComma)
		}
	}
}

func (p *printer) printBinding(binding js_ast.Binding) {
	switch b := binding.Data.(type) {
	case *js_ast.BMissing:

	case *js_ast.BIdentifier:
		p.print(b.Name)

	case *js_ast.BArray:
		p.print("[")
		for i, item := range b.Items {
			if i > 0 {
				p.print(", ")
			}
			if b.HasSpread && i == len(b.Items)-1 {
				p.print("...")
			}
			p.printBinding(item.Binding)
			if item.DefaultValue != nil {
				p.print(" = ")
				p.printExpr(*item.DefaultValue, js_ast.LComma)
			}
		}
		p.print("]")

	case *js_ast.BObject:
		p.print("{")
		for i, property := range b.Properties {
			if i > 0 {
				p.print(", ")
			}
			if property.IsSpread {
				p.print("...")
				p.printBinding(property.Value)
				continue
			}
			if property.IsComputed {
				p.print("[")
				p.printExpr(property.Key, js_ast.LComma)
				p.print("]: ")
				p.printBinding(property.Value)
			} else if str, ok := property.Key.Data.(*js_ast.EString); ok &&
				isValidIdentifier(str.Value) && bindingIsShorthand(str.Value, property.Value) {
				p.printBinding(property.Value)
			} else {
				p.printPropertyKey(property.Key)
				p.print(": ")
				p.printBinding(property.Value)
			}
			if property.DefaultValue != nil {
				p.print(" = ")
				p.printExpr(*property.DefaultValue, js_ast.LComma)
			}
		}
		p.print("}")
	}
}

func bindingIsShorthand(key string, value js_ast.Binding) bool {
	if ident, ok := value.Data.(*js_ast.BIdentifier); ok {
		return ident.Name == key
	}
	return false
}

func (p *printer) printPropertyKey(key js_ast.Expr) {
	switch k := key.Data.(type) {
	case *js_ast.EString:
		if isValidIdentifier(k.Value) {
			p.print(k.Value)
		} else {
			p.print(quoteString(k.Value))
		}
	case *js_ast.ENumber:
		p.printNumber(k.Value)
	default:
		p.printExpr(key, js_ast.LComma)
	}
}

func (p *printer) printFn(fn js_ast.Fn) {
	if fn.IsAsync {
		p.print("async ")
	}
	p.print("function")
	if fn.IsGenerator {
		p.print("*")
	}
	if fn.Name != nil {
		p.print(" " + fn.Name.Name)
	}
	p.printFnArgs(fn.Args, fn.HasRestArg)
	p.print(" ")
	p.printBlock(fn.Body.Stmts)
}

func (p *printer) printFnArgs(args []js_ast.Arg, hasRestArg bool) {
	p.print("(")
	for i, arg := range args {
		if i > 0 {
			p.print(", ")
		}
		if hasRestArg && i == len(args)-1 {
			p.print("...")
		}
		p.printBinding(arg.Binding)
		if arg.Default != nil {
			p.print(" = ")
			p.printExpr(*arg.Default, js_ast.LComma)
		}
	}
	p.print(")")
}

func (p *printer) printClass(class js_ast.Class) {
	p.print("class")
	if class.Name != nil {
		p.print(" " + class.Name.Name)
	}
	if class.Extends != nil {
		p.print(" extends ")
		p.printExpr(*class.Extends, js_ast.LNew)
	}
	p.print(" {")
	p.printNewline()
	p.indent++
	for _, property := range class.Properties {
		p.printIndent()
		p.printClassProperty(property)
		p.printNewline()
	}
	p.indent--
	p.printIndent()
	p.print("}")
}

func (p *printer) printMethod(property js_ast.Property) {
	fn := property.Value.Data.(*js_ast.EFunction).Fn
	if fn.IsAsync {
		p.print("async ")
	}
	if fn.IsGenerator {
		p.print("*")
	}
	switch property.Kind {
	case js_ast.PropertyGet:
		p.print("get ")
	case js_ast.PropertySet:
		p.print("set ")
	}
	if property.IsComputed {
		p.print("[")
		p.printExpr(property.Key, js_ast.LComma)
		p.print("]")
	} else {
		p.printPropertyKey(property.Key)
	}
	p.printFnArgs(fn.Args, fn.HasRestArg)
	p.print(" ")
	p.printBlock(fn.Body.Stmts)
}

func (p *printer) printClassProperty(property js_ast.Property) {
	if property.IsStatic {
		p.print("static ")
	}
	if property.IsMethod {
		p.printMethod(property)
		return
	}

	// Class field
	if property.IsComputed {
		p.print("[")
		p.printExpr(property.Key, js_ast.LComma)
		p.print("]")
	} else {
		p.printPropertyKey(property.Key)
	}
	if property.Initializer != nil {
		p.print(" = ")
		p.printExpr(*property.Initializer, js_ast.LComma)
	}
	p.print(";")
}

func (p *printer) printObjectProperty(property js_ast.Property) {
	if property.Kind == js_ast.PropertySpread {
		p.print("...")
		p.printExpr(*property.Value, js_ast.LComma)
		return
	}

	if property.IsMethod || property.Kind == js_ast.PropertyGet || property.Kind == js_ast.PropertySet {
		p.printMethod(property)
		return
	}

	if property.IsComputed {
		p.print("[")
		p.printExpr(property.Key, js_ast.LComma)
		p.print("]: ")
		p.printExpr(*property.Value, js_ast.LComma)
		return
	}

	// Shorthand survives only while the value is still the same identifier
	if str, ok := property.Key.Data.(*js_ast.EString); ok && property.WasShorthand {
		if ident, ok := property.Value.Data.(*js_ast.EIdentifier); ok && ident.Name == str.Value {
			p.print(ident.Name)
			if property.Initializer != nil {
				p.print(" = ")
				p.printExpr(*property.Initializer, js_ast.LComma)
			}
			return
		}
	}

	p.printPropertyKey(property.Key)
	p.print(": ")
	p.printExpr(*property.Value, js_ast.LComma)
}

func (p *printer) printExpr(expr js_ast.Expr, level js_ast.L) {
	switch e := expr.Data.(type) {
	case *js_ast.EMissing:

	case *js_ast.EUndefined:
		p.print("undefined")

	case *js_ast.ENull:
		p.print("null")

	case *js_ast.EThis:
		p.print("this")

	case *js_ast.EBoolean:
		if e.Value {
			p.print("true")
		} else {
			p.print("false")
		}

	case *js_ast.ENumber:
		p.printNumber(e.Value)

	case *js_ast.EString:
		p.print(quoteString(e.Value))

	case *js_ast.ERegExp:
		p.print(e.Value)

	case *js_ast.EIdentifier:
		p.print(e.Name)

	case *js_ast.ETemplate:
		if e.Tag != nil {
			p.printExpr(*e.Tag, js_ast.LPostfix)
		}
		p.print("`")
		p.print(escapeTemplateText(e.Head))
		for _, part := range e.Parts {
			p.print("${")
			p.printExpr(part.Value, js_ast.LLowest)
			p.print("}")
			p.print(escapeTemplateText(part.Tail))
		}
		p.print("`")

	case *js_ast.EArray:
		p.print("[")
		for i, item := range e.Items {
			if i > 0 {
				p.print(", ")
			}
			p.printExpr(item, js_ast.LComma)
		}
		p.print("]")

	case *js_ast.EObject:
		p.print("{")
		for i, property := range e.Properties {
			if i > 0 {
				p.print(", ")
			}
			p.printObjectProperty(property)
		}
		p.print("}")

	case *js_ast.ESpread:
		p.print("...")
		p.printExpr(e.Value, js_ast.LComma)

	case *js_ast.EDot:
		p.printExpr(e.Target, js_ast.LPostfix)
		p.print(".")
		p.print(e.Name)

	case *js_ast.EIndex:
		p.printExpr(e.Target, js_ast.LPostfix)
		p.print("[")
		p.printExpr(e.Index, js_ast.LLowest)
		p.print("]")

	case *js_ast.ECall:
		wrap := level >= js_ast.LCall
		if wrap {
			p.print("(")
		}
		p.printExpr(e.Target, js_ast.LPostfix)
		p.print("(")
		for i, arg := range e.Args {
			if i > 0 {
				p.print(", ")
			}
			p.printExpr(arg, js_ast.LComma)
		}
		p.print(")")
		if wrap {
			p.print(")")
		}

	case *js_ast.ENew:
		wrap := level >= js_ast.LCall
		if wrap {
			p.print("(")
		}
		p.print("new ")
		p.printExpr(e.Target, js_ast.LMember)
		p.print("(")
		for i, arg := range e.Args {
			if i > 0 {
				p.print(", ")
			}
			p.printExpr(arg, js_ast.LComma)
		}
		p.print(")")
		if wrap {
			p.print(")")
		}

	case *js_ast.EImport:
		p.print("import(")
		p.printExpr(e.Expr, js_ast.LComma)
		p.print(")")

	case *js_ast.EFunction:
		p.printFn(e.Fn)

	case *js_ast.EClass:
		p.printClass(e.Class)

	case *js_ast.EArrow:
		wrap := level >= js_ast.LAssign
		if wrap {
			p.print("(")
		}
		if e.IsAsync {
			p.print("async ")
		}
		if len(e.Args) == 1 && !e.HasRestArg && e.Args[0].Default == nil {
			if _, ok := e.Args[0].Binding.Data.(*js_ast.BIdentifier); ok {
				p.printBinding(e.Args[0].Binding)
			} else {
				p.printFnArgs(e.Args, e.HasRestArg)
			}
		} else {
			p.printFnArgs(e.Args, e.HasRestArg)
		}
		p.print(" => ")
		printedExpr := false
		if e.PreferExpr && len(e.Body.Stmts) == 1 {
			if ret, ok := e.Body.Stmts[0].Data.(*js_ast.SReturn); ok && ret.Value != nil {
				if stmtStartNeedsParens(*ret.Value) {
					p.print("(")
					p.printExpr(*ret.Value, js_ast.LLowest)
					p.print(")")
				} else {
					p.printExpr(*ret.Value, js_ast.LComma)
				}
				printedExpr = true
			}
		}
		if !printedExpr {
			p.printBlock(e.Body.Stmts)
		}
		if wrap {
			p.print(")")
		}

	case *js_ast.EAwait:
		wrap := level >= js_ast.LPrefix
		if wrap {
			p.print("(")
		}
		p.print("await ")
		p.printExpr(e.Value, js_ast.LPrefix-1)
		if wrap {
			p.print(")")
		}

	case *js_ast.EYield:
		wrap := level >= js_ast.LAssign
		if wrap {
			p.print("(")
		}
		p.print("yield")
		if e.IsStar {
			p.print("*")
		}
		if e.Value != nil {
			p.print(" ")
			p.printExpr(*e.Value, js_ast.LYield)
		}
		if wrap {
			p.print(")")
		}

	case *js_ast.EUnary:
		entry := e.Op.Entry()
		if e.Op.IsPrefix() {
			wrap := level >= js_ast.LPrefix
			if wrap {
				p.print("(")
			}
			p.print(entry.Text)
			if entry.IsKeyword {
				p.print(" ")
			} else if inner, ok := e.Value.Data.(*js_ast.EUnary); ok &&
				inner.Op.IsPrefix() && inner.Op.Entry().Text[0] == entry.Text[0] {
				// Avoid "- -x" being printed as "--x"
				p.print(" ")
			}
			p.printExpr(e.Value, js_ast.LPrefix-1)
			if wrap {
				p.print(")")
			}
		} else {
			wrap := level >= js_ast.LPostfix
			if wrap {
				p.print("(")
			}
			p.printExpr(e.Value, js_ast.LPostfix-1)
			p.print(entry.Text)
			if wrap {
				p.print(")")
			}
		}

	case *js_ast.EBinary:
		entry := e.Op.Entry()
		wrap := level >= entry.Level
		leftLevel := entry.Level - 1
		rightLevel := entry.Level - 1
		if e.Op.IsLeftAssociative() {
			rightLevel = entry.Level
		}
		if e.Op.IsRightAssociative() {
			leftLevel = entry.Level
		}
		if wrap {
			p.print("(")
		}
		p.printExpr(e.Left, leftLevel)
		if e.Op == js_ast.BinOpComma {
			p.print(", ")
		} else {
			p.print(" " + entry.Text + " ")
		}
		p.printExpr(e.Right, rightLevel)
		if wrap {
			p.print(")")
		}

	case *js_ast.EIf:
		wrap := level >= js_ast.LConditional
		if wrap {
			p.print("(")
		}
		p.printExpr(e.Test, js_ast.LConditional)
		p.print(" ? ")
		p.printExpr(e.Yes, js_ast.LComma)
		p.print(" : ")
		p.printExpr(e.No, js_ast.LComma)
		if wrap {
			p.print(")")
		}
	}
}
