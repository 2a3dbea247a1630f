package hoist

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/hoistpack/hoistpack/internal/js_ast"
	"github.com/hoistpack/hoistpack/internal/js_parser"
	"github.com/hoistpack/hoistpack/internal/js_printer"
	"github.com/hoistpack/hoistpack/internal/logger"
	"github.com/hoistpack/hoistpack/internal/test"
)

func parseForTest(t *testing.T, contents string) (js_ast.Module, logger.Source) {
	t.Helper()
	log := logger.NewDeferLog()
	source := test.SourceForTest(contents)
	module, ok := js_parser.Parse(log, source)
	if !ok {
		t.Fatalf("parse error in %q: %v", contents, log.Done())
	}
	return module, source
}

func hoistForTest(t *testing.T, contents string) (js_ast.Module, HoistResult, []Bailout, []logger.Msg) {
	t.Helper()
	module, source := parseForTest(t, contents)
	return Hoist(module, &source, Options{ModuleID: "abc", TraceBailouts: true})
}

func expectHoisted(t *testing.T, contents string, expected string) HoistResult {
	t.Helper()
	out, result, _, diagnostics := hoistForTest(t, contents)
	if len(diagnostics) > 0 {
		t.Fatalf("unexpected diagnostic: %s", diagnostics[0].Text)
	}
	test.AssertEqualWithDiff(t, string(js_printer.Print(out)), expected)
	return result
}

func hasImportedSymbol(result HoistResult, source string, local string, imported string) bool {
	for _, sym := range result.ImportedSymbols {
		if sym.Source == source && sym.Local == local && sym.Imported == imported {
			return true
		}
	}
	return false
}

func hasExportedSymbol(result HoistResult, local string, exported string) bool {
	for _, sym := range result.ExportedSymbols {
		if sym.Local == local && sym.Exported == exported {
			return true
		}
	}
	return false
}

func hasBailout(bailouts []Bailout, reason BailoutReason) bool {
	for _, b := range bailouts {
		if b.Reason == reason {
			return true
		}
	}
	return false
}

func TestRequireBecomesImport(t *testing.T) {
	result := expectHoisted(t,
		"var x = require(\"other\");\nx.foo();\n",
		"import \"abc:other\";\n"+
			ImportName("abc", "other", "foo")+"();\n")
	if !hasImportedSymbol(result, "other", ImportName("abc", "other", "foo"), "foo") {
		t.Fatalf("missing imported symbol: %v", result.ImportedSymbols)
	}
	test.AssertEqual(t, result.IsESM, false)
}

func TestRequireInStatementPosition(t *testing.T) {
	// A bare require behaves like "import 'other'": it adds the edge and no
	// symbols at all
	result := expectHoisted(t,
		"require(\"other\");\n",
		"import \"abc:other\";\n")
	test.AssertEqual(t, len(result.ImportedSymbols), 0)
}

func TestRequireDestructure(t *testing.T) {
	expectHoisted(t,
		"const {foo} = require(\"other\");\nconsole.log(foo);\n",
		"import \"abc:other\";\n"+
			"var "+RequireName("abc", "foo")+" = "+ImportName("abc", "other", "foo")+";\n"+
			"console.log("+RequireName("abc", "foo")+");\n")
}

func TestRequireMemberInit(t *testing.T) {
	expectHoisted(t,
		"const bar = require(\"other\").foo;\nbar();\n",
		"import \"abc:other\";\n"+
			"var "+RequireName("abc", "bar")+" = "+ImportName("abc", "other", "foo")+";\n"+
			RequireName("abc", "bar")+"();\n")
}

func TestRequireSideEffectOrdering(t *testing.T) {
	// The declaration is split so the import lands exactly where the require
	// ran
	expectHoisted(t,
		"const a = f(), b = require(\"x\"), c = g();\n",
		"const "+TopLevelName("abc", "a")+" = f();\n"+
			"import \"abc:x\";\n"+
			"const "+TopLevelName("abc", "c")+" = g();\n")
}

func TestRequireNestedInInitializer(t *testing.T) {
	expectHoisted(t,
		"const a = f(), b = g(require(\"x\")), c = h();\n",
		"const "+TopLevelName("abc", "a")+" = f();\n"+
			"import \"abc:x\";\n"+
			"const "+TopLevelName("abc", "b")+" = g("+ImportName("abc", "x", "*")+"), "+
			TopLevelName("abc", "c")+" = h();\n")
}

func TestRequireInCommaSequence(t *testing.T) {
	result := expectHoisted(t,
		"var x = (require(\"a\"), require(\"b\"));\n",
		"import \"abc:a\";\n"+
			"import \"abc:b\";\n"+
			"var "+TopLevelName("abc", "x")+" = (!"+ImportName("abc", "a", "*")+", "+
			ImportName("abc", "b", "*")+");\n")
	if !result.WrappedRequires["a"] || !result.WrappedRequires["b"] {
		t.Fatalf("expected both specifiers wrapped: %v", result.WrappedRequires)
	}
}

func TestBareCommaSequenceRequires(t *testing.T) {
	result := expectHoisted(t,
		"(require(\"a\"), require(\"b\"));\n",
		"import \"abc:a\";\n"+
			"import \"abc:b\";\n"+
			"!"+ImportName("abc", "a", "*")+", "+ImportName("abc", "b", "*")+";\n")
	if !result.WrappedRequires["a"] || !result.WrappedRequires["b"] {
		t.Fatalf("expected both specifiers wrapped: %v", result.WrappedRequires)
	}
}

func TestRequireInsideTryCatch(t *testing.T) {
	result := expectHoisted(t,
		"try {\n  require(\"other\");\n} catch (e) {\n  report(e);\n}\n",
		"import \"abc:other\";\n"+
			"try {\n  "+ImportName("abc", "other", "*")+";\n} catch (e) {\n  report(e);\n}\n")
	if !result.WrappedRequires["other"] {
		t.Fatalf("expected other wrapped: %v", result.WrappedRequires)
	}
}

func TestRequireInsideFunction(t *testing.T) {
	_, result, bailouts, diagnostics := hoistForTest(t,
		"function f() {\n  require(\"x\");\n}\n")
	if len(diagnostics) > 0 {
		t.Fatalf("unexpected diagnostic: %s", diagnostics[0].Text)
	}
	if !result.WrappedRequires["x"] {
		t.Fatalf("expected x wrapped: %v", result.WrappedRequires)
	}
	if !hasBailout(bailouts, BailoutNonTopLevelRequire) {
		t.Fatalf("missing NonTopLevelRequire bailout: %v", bailouts)
	}
}

func TestEsmNamedImport(t *testing.T) {
	result := expectHoisted(t,
		"import {foo} from \"other\";\nfoo();\n",
		"import \"abc:other\";\n"+
			ImportName("abc", "other", "foo")+"();\n")
	test.AssertEqual(t, result.IsESM, true)
}

func TestEsmNamespaceStaticAccess(t *testing.T) {
	expectHoisted(t,
		"import * as ns from \"other\";\nns.foo();\n",
		"import \"abc:other\";\n"+
			ImportName("abc", "other", "foo")+"();\n")
}

func TestEsmNamespaceNonStaticAccess(t *testing.T) {
	// A computed key on the namespace keeps the whole namespace object
	result := expectHoisted(t,
		"import * as ns from \"other\";\nconsole.log(ns[foo]);\n",
		"import \"abc:other\";\n"+
			"console.log("+ImportName("abc", "other", "*")+"[foo]);\n")
	if !hasImportedSymbol(result, "other", ImportName("abc", "other", "*"), "*") {
		t.Fatalf("missing namespace import: %v", result.ImportedSymbols)
	}
}

func TestImportMutationIsFatal(t *testing.T) {
	_, _, _, diagnostics := hoistForTest(t,
		"import {foo} from \"other\";\nfoo = 2;\n")
	if len(diagnostics) != 1 {
		t.Fatalf("expected one diagnostic, got %d", len(diagnostics))
	}
	msg := diagnostics[0]
	test.AssertEqual(t, msg.Text, "Assignment to an import specifier is not allowed")
	if len(msg.Notes) == 0 || msg.Notes[len(msg.Notes)-1].Text != "Originally imported here" {
		t.Fatalf("missing import note: %v", msg.Notes)
	}
}

func TestCjsStaticExports(t *testing.T) {
	result := expectHoisted(t,
		"exports.foo = 2;\nconsole.log(exports.foo);\n",
		"var "+ExportName("abc", "foo")+";\n"+
			ExportName("abc", "foo")+" = 2;\n"+
			"console.log("+ExportName("abc", "foo")+");\n")
	test.AssertEqual(t, result.HasCJSExports, true)
	test.AssertEqual(t, result.StaticCJSExports, true)
	test.AssertEqual(t, result.SelfReferences["foo"], true)
	if !hasExportedSymbol(result, ExportName("abc", "foo"), "foo") {
		t.Fatalf("missing exported symbol: %v", result.ExportedSymbols)
	}
}

func TestCjsModuleExportsObject(t *testing.T) {
	result := expectHoisted(t,
		"module.exports = function() {\n};\n",
		ExportName("abc", "*")+" = function() {\n};\n")
	test.AssertEqual(t, result.HasCJSExports, true)
	if !hasExportedSymbol(result, ExportName("abc", "*"), "*") {
		t.Fatalf("missing exports object symbol: %v", result.ExportedSymbols)
	}
}

func TestCjsNonStaticExports(t *testing.T) {
	result := expectHoisted(t,
		"exports[foo] = 2;\n",
		ExportName("abc", "*")+"[foo] = 2;\n")
	test.AssertEqual(t, result.StaticCJSExports, false)
	test.AssertEqual(t, result.HasCJSExports, true)
}

func TestCjsTopLevelThis(t *testing.T) {
	expectHoisted(t,
		"this.foo = 2;\nconsole.log(this.foo);\n",
		ExportName("abc", "foo")+" = 2;\n"+
			"console.log("+ExportName("abc", "foo")+");\n")
}

func TestEsmTopLevelThis(t *testing.T) {
	expectHoisted(t,
		"import \"x\";\nconsole.log(this);\n",
		"import \"abc:x\";\n"+
			"console.log(undefined);\n")
}

func TestShouldWrapTriggers(t *testing.T) {
	cases := []struct {
		contents string
		wrap     bool
	}{
		{"return;\n", true},
		{"eval(\"x\");\n", true},
		{"console.log(module);\n", true},
		{"exports = {};\n", true},
		{"module = {};\n", true},

		// Feature detection must not force a wrapper
		{"typeof module;\n", false},
		{"typeof require;\n", false},
		{"if (module.hot) {\n}\n", false},
	}
	for _, c := range cases {
		_, result, _, diagnostics := hoistForTest(t, c.contents)
		if len(diagnostics) > 0 {
			t.Fatalf("%q: unexpected diagnostic: %s", c.contents, diagnostics[0].Text)
		}
		if result.ShouldWrap != c.wrap {
			t.Fatalf("%q: ShouldWrap = %v, want %v", c.contents, result.ShouldWrap, c.wrap)
		}
	}
}

func TestWrappedModuleKeepsNames(t *testing.T) {
	result := expectHoisted(t,
		"exports.foo = 2;\nreturn;\n",
		"exports.foo = 2;\nreturn;\n")
	test.AssertEqual(t, result.ShouldWrap, true)
	test.AssertEqual(t, result.HasCJSExports, true)
}

func TestTypeofReplacement(t *testing.T) {
	expectHoisted(t,
		"console.log(typeof require, typeof module);\n",
		"console.log(\"function\", \"object\");\n")
}

func TestModuleHotIsNull(t *testing.T) {
	expectHoisted(t,
		"if (module.hot) {\n  foo();\n}\n",
		"if (null) {\n  foo();\n}\n")
}

func TestDynamicImportDestructuring(t *testing.T) {
	module, source := parseForTest(t, "const {foo} = await import(\"other\");\nfoo();\n")

	// Destructuring the awaited value is as analyzable as a static require
	// and must not keep the namespace alive
	analysis := Analyze(&module, false)
	if len(analysis.NonStaticRequires) != 0 {
		t.Fatalf("unexpected non-static requires: %v", analysis.NonStaticRequires)
	}

	out, result, _, diagnostics := Hoist(module, &source, Options{ModuleID: "abc"})
	if len(diagnostics) > 0 {
		t.Fatalf("unexpected diagnostic: %s", diagnostics[0].Text)
	}
	test.AssertEqualWithDiff(t, string(js_printer.Print(out)),
		"import \"abc:other\";\n"+
			"const {foo: "+TopLevelName("abc", "foo")+"} = await "+ImportAsyncName("abc", "other")+";\n"+
			TopLevelName("abc", "foo")+"();\n")
	test.AssertEqual(t, result.DynamicImports[ImportAsyncName("abc", "other")], "other")
	if !hasImportedSymbol(result, "other", ImportAsyncKeyName("abc", "other", "foo"), "foo") {
		t.Fatalf("missing dynamic key symbol: %v", result.ImportedSymbols)
	}
}

func TestDynamicImportThenCallback(t *testing.T) {
	_, result, _, diagnostics := hoistForTest(t,
		"import(\"other\").then(({foo}) => foo());\n")
	if len(diagnostics) > 0 {
		t.Fatalf("unexpected diagnostic: %s", diagnostics[0].Text)
	}
	test.AssertEqual(t, result.DynamicImports[ImportAsyncName("abc", "other")], "other")
	if !hasImportedSymbol(result, "other", ImportAsyncKeyName("abc", "other", "foo"), "foo") {
		t.Fatalf("missing dynamic key symbol: %v", result.ImportedSymbols)
	}
}

func TestDynamicImportBareValue(t *testing.T) {
	_, result, bailouts, diagnostics := hoistForTest(t,
		"doSomething(import(\"other\"));\n")
	if len(diagnostics) > 0 {
		t.Fatalf("unexpected diagnostic: %s", diagnostics[0].Text)
	}
	// The namespace escapes, so the whole exports object must stay alive
	if !hasImportedSymbol(result, "other", ImportAsyncName("abc", "other"), "*") {
		t.Fatalf("missing namespace symbol: %v", result.ImportedSymbols)
	}
	if !hasBailout(bailouts, BailoutNonStaticDynamicImport) {
		t.Fatalf("missing NonStaticDynamicImport bailout: %v", bailouts)
	}
}

func TestExportDefaultExpr(t *testing.T) {
	result := expectHoisted(t,
		"export default 1 + 2;\n",
		"var "+ExportName("abc", "default")+" = 1 + 2;\n")
	if !hasExportedSymbol(result, ExportName("abc", "default"), "default") {
		t.Fatalf("missing default export: %v", result.ExportedSymbols)
	}
}

func TestExportDefaultFunction(t *testing.T) {
	expectHoisted(t,
		"export default function foo() {\n}\n",
		"function "+ExportName("abc", "default")+"() {\n}\n")
}

func TestExportClauseRename(t *testing.T) {
	result := expectHoisted(t,
		"let x = 3;\nexport {x as y};\n",
		"let "+ExportName("abc", "y")+" = 3;\n")
	if !hasExportedSymbol(result, ExportName("abc", "y"), "y") {
		t.Fatalf("missing renamed export: %v", result.ExportedSymbols)
	}
}

func TestExportDecl(t *testing.T) {
	expectHoisted(t,
		"import {a} from \"x\";\nexport const b = a;\n",
		"import \"abc:x\";\n"+
			"const "+ExportName("abc", "b")+" = "+ImportName("abc", "x", "a")+";\n")
}

func TestExportOfImportIsReExport(t *testing.T) {
	result := expectHoisted(t,
		"import {foo as bar} from \"other\";\nexport {bar};\n",
		"import \"abc:other\";\n")
	want := []ImportedSymbol{{Source: "other", Local: "bar", Imported: "foo", Loc: result.ReExports[0].Loc}}
	if diff := cmp.Diff(want, result.ReExports); diff != "" {
		t.Fatalf("re-exports mismatch (-want +got):\n%s", diff)
	}
}

func TestReExports(t *testing.T) {
	result := expectHoisted(t,
		"export {foo} from \"a\";\nexport * from \"b\";\nexport * as ns from \"c\";\n",
		"import \"abc:a\";\n"+
			"import \"abc:b\";\n"+
			"import \"abc:c\";\n")
	if len(result.ReExports) != 3 {
		t.Fatalf("expected 3 re-exports: %v", result.ReExports)
	}
	test.AssertEqual(t, result.ReExports[0].Imported, "foo")
	test.AssertEqual(t, result.ReExports[1].Local, "*")
	test.AssertEqual(t, result.ReExports[2].Local, "ns")
	test.AssertEqual(t, result.ReExports[2].Imported, "*")
}

func TestFreeGlobalAlias(t *testing.T) {
	expectHoisted(t,
		"global.x = 1;\n",
		GlobalAlias+".x = 1;\n")
}

func TestTopLevelRename(t *testing.T) {
	expectHoisted(t,
		"function f(a) {\n  return a;\n}\nlet x = f(1);\n",
		"function "+TopLevelName("abc", "f")+"(a) {\n  return a;\n}\n"+
			"let "+TopLevelName("abc", "x")+" = "+TopLevelName("abc", "f")+"(1);\n")
}

func TestStickyFlagsCombine(t *testing.T) {
	// Mixed module style moves every flag toward the conservative value and
	// never back
	_, result, _, _ := hoistForTest(t,
		"import \"a\";\nexports.foo = 1;\nrequire(\"b\");\n")
	test.AssertEqual(t, result.IsESM, true)
	test.AssertEqual(t, result.HasCJSExports, true)
	test.AssertEqual(t, result.StaticCJSExports, true)
}

func TestDeterminism(t *testing.T) {
	contents := "import {a} from \"x\";\n" +
		"const {b} = require(\"y\");\n" +
		"export const c = a + b;\n" +
		"exports.d = 4;\n" +
		"import(\"z\").then(({e}) => e());\n"

	var firstOut string
	var firstResult HoistResult
	var firstBailouts []Bailout
	for i := 0; i < 5; i++ {
		out, result, bailouts, _ := hoistForTest(t, contents)
		printed := string(js_printer.Print(out))
		if i == 0 {
			firstOut, firstResult, firstBailouts = printed, result, bailouts
			continue
		}
		test.AssertEqualWithDiff(t, printed, firstOut)
		if diff := cmp.Diff(firstResult, result); diff != "" {
			t.Fatalf("run %d result mismatch (-first +got):\n%s", i, diff)
		}
		if diff := cmp.Diff(firstBailouts, bailouts); diff != "" {
			t.Fatalf("run %d bailouts mismatch (-first +got):\n%s", i, diff)
		}
	}
}

func TestBailoutsAreSortedByLocation(t *testing.T) {
	_, _, bailouts, _ := hoistForTest(t,
		"function f() {\n  require(\"x\");\n}\neval(\"y\");\nreturn;\n")
	for i := 1; i < len(bailouts); i++ {
		if bailouts[i-1].Loc.Start > bailouts[i].Loc.Start {
			t.Fatalf("bailouts out of order at %d: %v", i, bailouts)
		}
	}
	if !hasBailout(bailouts, BailoutEval) || !hasBailout(bailouts, BailoutTopLevelReturn) {
		t.Fatalf("missing expected bailouts: %v", bailouts)
	}
}

func TestBailoutReasonStrings(t *testing.T) {
	reasons := []BailoutReason{
		BailoutNonTopLevelRequire, BailoutNonStaticDestructuring, BailoutTopLevelReturn,
		BailoutEval, BailoutFreeModule, BailoutFreeExports, BailoutExportsReassignment,
		BailoutModuleReassignment, BailoutNonStaticExports, BailoutNonStaticDynamicImport,
		BailoutNonStaticAccess,
	}
	seen := map[string]bool{}
	for _, reason := range reasons {
		tag := reason.String()
		if tag == "" || seen[tag] {
			t.Fatalf("bad tag for reason %d: %q", reason, tag)
		}
		seen[tag] = true
		if reason.Message() == "" {
			t.Fatalf("missing message for %s", tag)
		}
	}
}

func TestSynthesizedNames(t *testing.T) {
	// Names are content-addressed: equal inputs equal names, different
	// modules different names
	test.AssertEqual(t, ImportName("abc", "other", "*"), ImportName("abc", "other", "*"))
	if ImportName("abc", "other", "*") == ImportName("xyz", "other", "*") {
		t.Fatal("module id must namespace import names")
	}
	if ImportName("abc", "a", "foo") == ImportName("abc", "b", "foo") {
		t.Fatal("source must be part of the name")
	}
	test.AssertEqual(t, ExportName("abc", "*"), "$abc$exports")
	test.AssertEqual(t, RequireName("abc", "x"), "$abc$require$x")
	test.AssertEqual(t, TopLevelName("abc", "x"), "$abc$var$x")
	for _, name := range []string{
		ImportName("abc", "other", "foo"),
		ImportAsyncName("abc", "other"),
		ImportAsyncKeyName("abc", "other", "foo"),
		ExportName("abc", "foo"),
	} {
		if len(name) == 0 || name[0] != '$' {
			t.Fatalf("unexpected name shape: %q", name)
		}
	}
}

func TestNonStaticDestructuringBailsOut(t *testing.T) {
	module, source := parseForTest(t, "const {x: {y}} = require(\"other\");\n")
	analysis := Analyze(&module, true)
	if !analysis.NonStaticRequires["other"] {
		t.Fatalf("expected non-static require: %v", analysis.NonStaticRequires)
	}
	out, _, _, diagnostics := Hoist(module, &source, Options{ModuleID: "abc"})
	if len(diagnostics) > 0 {
		t.Fatalf("unexpected diagnostic: %s", diagnostics[0].Text)
	}
	// The require stays a genuine runtime call
	printed := string(js_printer.Print(out))
	expected := "import \"abc:other\";\n" +
		"const {x: {y: " + TopLevelName("abc", "y") + "}} = " + ImportName("abc", "other", "*") + ";\n"
	test.AssertEqualWithDiff(t, printed, expected)
}

func TestHoistResultSummaryShape(t *testing.T) {
	_, result, _, _ := hoistForTest(t,
		"import {a} from \"x\";\nexport const b = a;\n")
	if len(result.ImportedSymbols) == 0 || len(result.ExportedSymbols) == 0 {
		t.Fatalf("summary incomplete: %+v", result)
	}
	for _, sym := range result.ImportedSymbols {
		test.AssertEqual(t, sym.Source, "x")
		test.AssertEqual(t, sym.Local, fmt.Sprintf("%s", ImportName("abc", "x", sym.Imported)))
	}
}
