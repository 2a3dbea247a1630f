package js_parser

import (
	"testing"

	"github.com/hoistpack/hoistpack/internal/js_printer"
	"github.com/hoistpack/hoistpack/internal/logger"
	"github.com/hoistpack/hoistpack/internal/test"
)

func expectPrinted(t *testing.T, contents string, expected string) {
	t.Helper()
	t.Run(contents, func(t *testing.T) {
		t.Helper()
		log := logger.NewDeferLog()
		module, ok := Parse(log, test.SourceForTest(contents))
		msgs := log.Done()
		text := ""
		for _, msg := range msgs {
			text += msg.String(logger.StderrOptions{}, logger.TerminalInfo{})
		}
		test.AssertEqualWithDiff(t, text, "")
		if !ok {
			t.Fatal("parse error")
		}
		js := js_printer.Print(module)
		test.AssertEqualWithDiff(t, string(js), expected)
	})
}

func expectParseError(t *testing.T, contents string, expected string) {
	t.Helper()
	t.Run(contents, func(t *testing.T) {
		t.Helper()
		log := logger.NewDeferLog()
		Parse(log, test.SourceForTest(contents))
		msgs := log.Done()
		text := ""
		for _, msg := range msgs {
			text += msg.String(logger.StderrOptions{}, logger.TerminalInfo{})
		}
		test.AssertEqualWithDiff(t, text, expected)
	})
}

func TestDeclarations(t *testing.T) {
	expectPrinted(t, "var x = 1", "var x = 1;\n")
	expectPrinted(t, "let x, y = 2", "let x, y = 2;\n")
	expectPrinted(t, "const x = 1", "const x = 1;\n")
	expectPrinted(t, "var [a, b = 2] = c", "var [a, b = 2] = c;\n")
	expectPrinted(t, "var [a, , b] = c", "var [a, , b] = c;\n")
	expectPrinted(t, "var [a, ...rest] = c", "var [a, ...rest] = c;\n")
	expectPrinted(t, "var {a, b: c} = d", "var {a, b: c} = d;\n")
	expectPrinted(t, "var {a = 1, b: {c}} = d", "var {a = 1, b: {c}} = d;\n")
	expectPrinted(t, "var {...rest} = d", "var {...rest} = d;\n")
}

func TestStatements(t *testing.T) {
	expectPrinted(t, "debugger", "debugger;\n")
	expectPrinted(t, ";", ";\n")
	expectPrinted(t, "if (a) b(); else c()", "if (a) {\n  b();\n} else {\n  c();\n}\n")
	expectPrinted(t, "if (a) {} else if (b) {} else {}", "if (a) {\n} else if (b) {\n} else {\n}\n")
	expectPrinted(t, "while (a) b()", "while (a) {\n  b();\n}\n")
	expectPrinted(t, "do a(); while (b)", "do {\n  a();\n} while (b);\n")
	expectPrinted(t, "for (let i = 0; i < 3; i++) f(i)", "for (let i = 0; i < 3; i++) {\n  f(i);\n}\n")
	expectPrinted(t, "for (;;) f()", "for (; ; ) {\n  f();\n}\n")
	expectPrinted(t, "for (const k in o) f(k)", "for (const k in o) {\n  f(k);\n}\n")
	expectPrinted(t, "for (const v of xs) f(v)", "for (const v of xs) {\n  f(v);\n}\n")
	expectPrinted(t, "outer: for (;;) break outer", "outer: for (; ; ) {\n  break outer;\n}\n")
	expectPrinted(t, "for (;;) continue", "for (; ; ) {\n  continue;\n}\n")
	expectPrinted(t, "throw new Error(\"x\")", "throw new Error(\"x\");\n")
	expectPrinted(t, "try { a() } catch (e) { b(e) } finally { c() }",
		"try {\n  a();\n} catch (e) {\n  b(e);\n} finally {\n  c();\n}\n")
	expectPrinted(t, "try { a() } catch { b() }", "try {\n  a();\n} catch {\n  b();\n}\n")
	expectPrinted(t, "switch (x) { case 1: a(); break; default: b() }",
		"switch (x) {\n  case 1:\n    a();\n    break;\n  default:\n    b();\n}\n")
	expectPrinted(t, "{ a(); b() }", "{\n  a();\n  b();\n}\n")
}

func TestFunctions(t *testing.T) {
	expectPrinted(t, "function f() {}", "function f() {\n}\n")
	expectPrinted(t, "function f(a, b = 1, ...rest) { return a }",
		"function f(a, b = 1, ...rest) {\n  return a;\n}\n")
	expectPrinted(t, "async function f() { await g() }", "async function f() {\n  await g();\n}\n")
	expectPrinted(t, "function* f() { yield 1; yield* g() }",
		"function* f() {\n  yield 1;\n  yield* g();\n}\n")
	expectPrinted(t, "x = function() {}", "x = function() {\n};\n")
	expectPrinted(t, "x = function named() {}", "x = function named() {\n};\n")
}

func TestArrows(t *testing.T) {
	expectPrinted(t, "let f = (a) => a + 1", "let f = a => a + 1;\n")
	expectPrinted(t, "let f = a => a + 1", "let f = a => a + 1;\n")
	expectPrinted(t, "let f = () => { return 1 }", "let f = () => {\n  return 1;\n};\n")
	expectPrinted(t, "let f = (a, b) => a(b)", "let f = (a, b) => a(b);\n")
	expectPrinted(t, "let f = ({a}) => a", "let f = ({a}) => a;\n")
	expectPrinted(t, "let f = () => ({a: 1})", "let f = () => ({a: 1});\n")
}

func TestClasses(t *testing.T) {
	expectPrinted(t, "class A {}", "class A {\n}\n")
	expectPrinted(t, "class A extends B {}", "class A extends B {\n}\n")
	expectPrinted(t, "class A { constructor(x) { this.x = x } }",
		"class A {\n  constructor(x) {\n    this.x = x;\n  }\n}\n")
	expectPrinted(t, "class A { static create() { return new A() } }",
		"class A {\n  static create() {\n    return new A();\n  }\n}\n")
	expectPrinted(t, "class A { get x() { return 1 } set x(v) {} }",
		"class A {\n  get x() {\n    return 1;\n  }\n  set x(v) {\n  }\n}\n")
	expectPrinted(t, "class A { count = 0 }", "class A {\n  count = 0;\n}\n")
	expectPrinted(t, "x = class extends B {}", "x = class extends B {\n};\n")
}

func TestExpressions(t *testing.T) {
	expectPrinted(t, "x = 1 + 2 * 3", "x = 1 + 2 * 3;\n")
	expectPrinted(t, "(1 + 2) * 3", "(1 + 2) * 3;\n")
	expectPrinted(t, "a = b = c", "a = b = c;\n")
	expectPrinted(t, "a ? b : c", "a ? b : c;\n")
	expectPrinted(t, "a && b || c", "a && b || c;\n")
	expectPrinted(t, "a === b", "a === b;\n")
	expectPrinted(t, "-x", "-x;\n")
	expectPrinted(t, "- -x", "- -x;\n")
	expectPrinted(t, "!x", "!x;\n")
	expectPrinted(t, "typeof x", "typeof x;\n")
	expectPrinted(t, "delete a.b", "delete a.b;\n")
	expectPrinted(t, "x++", "x++;\n")
	expectPrinted(t, "++x", "++x;\n")
	expectPrinted(t, "a.b.c(d)[e]", "a.b.c(d)[e];\n")
	expectPrinted(t, "new A(1)", "new A(1);\n")
	expectPrinted(t, "new a.B()", "new a.B();\n")
	expectPrinted(t, "a, b, c", "a, b, c;\n")
	expectPrinted(t, "f(...args)", "f(...args);\n")
	expectPrinted(t, "x = [1, \"two\", [3]]", "x = [1, \"two\", [3]];\n")
	expectPrinted(t, "x = `a${b}c`", "x = `a${b}c`;\n")
	expectPrinted(t, "x = tag`a${b}`", "x = tag`a${b}`;\n")
	expectPrinted(t, "import(\"x\").then(f)", "import(\"x\").then(f);\n")
}

func TestObjectLiterals(t *testing.T) {
	expectPrinted(t, "x = {a: 1, b, [c]: 2, \"d e\": 3}", "x = {a: 1, b, [c]: 2, \"d e\": 3};\n")
	expectPrinted(t, "x = {m() { return 1 }}", "x = {m() {\n  return 1;\n}};\n")
	expectPrinted(t, "x = {get a() { return 1 }}", "x = {get a() {\n  return 1;\n}};\n")
	expectPrinted(t, "({a: 1})", "({a: 1});\n")
}

func TestImports(t *testing.T) {
	expectPrinted(t, "import \"x\"", "import \"x\";\n")
	expectPrinted(t, "import a from \"x\"", "import a from \"x\";\n")
	expectPrinted(t, "import * as ns from \"x\"", "import * as ns from \"x\";\n")
	expectPrinted(t, "import {a, b as c} from \"x\"", "import {a, b as c} from \"x\";\n")
	expectPrinted(t, "import a, {b} from \"x\"", "import a, {b} from \"x\";\n")
	expectPrinted(t, "import a, * as ns from \"x\"", "import a, * as ns from \"x\";\n")
}

func TestExports(t *testing.T) {
	expectPrinted(t, "export {}", "export {};\n")
	expectPrinted(t, "export {a, b as c}", "export {a, b as c};\n")
	expectPrinted(t, "export {a} from \"x\"", "export {a} from \"x\";\n")
	expectPrinted(t, "export {a as b} from \"x\"", "export {a as b} from \"x\";\n")
	expectPrinted(t, "export * from \"x\"", "export * from \"x\";\n")
	expectPrinted(t, "export * as ns from \"x\"", "export * as ns from \"x\";\n")
	expectPrinted(t, "export var a = 1", "export var a = 1;\n")
	expectPrinted(t, "export let a = 1", "export let a = 1;\n")
	expectPrinted(t, "export const a = 1", "export const a = 1;\n")
	expectPrinted(t, "export function f() {}", "export function f() {\n}\n")
	expectPrinted(t, "export class A {}", "export class A {\n}\n")
	expectPrinted(t, "export default 1 + 2", "export default 1 + 2;\n")
	expectPrinted(t, "export default function() {}", "export default function() {\n}\n")
	expectPrinted(t, "export default function f() {}", "export default function f() {\n}\n")
	expectPrinted(t, "export default class {}", "export default class {\n}\n")
}

func TestParseErrors(t *testing.T) {
	expectParseError(t, "var 1 = 2", "<stdin>: error: Expected identifier but found \"1\"\n")
	expectParseError(t, "({a: 1}", "<stdin>: error: Expected \")\" but found end of file\n")
	expectParseError(t, "import * ns from \"x\"", "<stdin>: error: Expected \"as\" but found \"ns\"\n")
}
