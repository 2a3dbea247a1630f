package js_printer

import (
	"testing"

	"github.com/hoistpack/hoistpack/internal/js_parser"
	"github.com/hoistpack/hoistpack/internal/logger"
	"github.com/hoistpack/hoistpack/internal/test"
)

func expectPrinted(t *testing.T, contents string, expected string) {
	t.Helper()
	t.Run(contents, func(t *testing.T) {
		t.Helper()
		log := logger.NewDeferLog()
		module, ok := js_parser.Parse(log, test.SourceForTest(contents))
		if !ok {
			t.Fatalf("parse error: %v", log.Done())
		}
		test.AssertEqualWithDiff(t, string(Print(module)), expected)
	})
}

func TestParens(t *testing.T) {
	// Associativity decides which side needs parentheses
	expectPrinted(t, "a - (b - c)", "a - (b - c);\n")
	expectPrinted(t, "(a - b) - c", "a - b - c;\n")
	expectPrinted(t, "a = (b = c)", "a = b = c;\n")
	expectPrinted(t, "(a, b), c", "a, b, c;\n")
	expectPrinted(t, "a, (b, c)", "a, b, c;\n")
	expectPrinted(t, "a * (b + c)", "a * (b + c);\n")
	expectPrinted(t, "(a ? b : c) ? d : e", "(a ? b : c) ? d : e;\n")
	expectPrinted(t, "-(x + y)", "-(x + y);\n")
	expectPrinted(t, "(new A)()", "new A()();\n")
	expectPrinted(t, "typeof (a + b)", "typeof (a + b);\n")
}

func TestStatementStart(t *testing.T) {
	// Expressions whose first token would be mis-parsed in statement position
	expectPrinted(t, "({a: 1})", "({a: 1});\n")
	expectPrinted(t, "({a: 1}).a", "({a: 1}.a);\n")
	expectPrinted(t, "(function() {})()", "(function() {\n}());\n")
	expectPrinted(t, "(class {})", "(class {\n});\n")
}

func TestStrings(t *testing.T) {
	expectPrinted(t, "x = 'a'", "x = \"a\";\n")
	expectPrinted(t, "x = '\"'", "x = \"\\\"\";\n")
	expectPrinted(t, "x = \"'\"", "x = \"'\";\n")
	expectPrinted(t, "x = 'a\\nb'", "x = \"a\\nb\";\n")
	expectPrinted(t, "x = `a\\${b}`", "x = `a\\${b}`;\n")
}

func TestNumbers(t *testing.T) {
	expectPrinted(t, "x = 0", "x = 0;\n")
	expectPrinted(t, "x = 123", "x = 123;\n")
	expectPrinted(t, "x = 1.5", "x = 1.5;\n")
}
