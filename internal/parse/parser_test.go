package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emberlang/emberc/internal/psi"
	"github.com/emberlang/emberc/internal/tree"
)

// parseSource runs the full tokenize -> build -> parse -> finalize
// pipeline over src and returns both the raw psi.Result and its abstract
// tree, ready for structural assertions.
func parseSource(t *testing.T, src string) (*psi.Result, *tree.Abstract) {
	t.Helper()
	b, ok := psi.NewBuilder([]byte(src))
	require.True(t, ok, "source must tokenize and delimiter-match cleanly")
	New(b).ParseFile()
	result, _ := b.Finalize()
	return result, tree.BuildAbstract(result)
}

// countKind returns how many nodes of kind k appear anywhere in a.
func countKind(a *tree.Abstract, k psi.Kind) int {
	n := 0
	for _, node := range a.Nodes {
		if node.Kind == k {
			n++
		}
	}
	return n
}

// firstOfKind returns the index (into a.Nodes) of the first node of kind
// k in pre-order, or -1 if none exists.
func firstOfKind(a *tree.Abstract, k psi.Kind) int32 {
	for i, node := range a.Nodes {
		if node.Kind == k {
			return int32(i)
		}
	}
	return -1
}

func TestParseFile_UsingNamespaceClass(t *testing.T) {
	src := `using System;

namespace App
{
    public class Calculator
    {
        private int result;

        public int Result { get; set; }

        constructor()
        {
            result = 0;
        }

        public int Add(int a, int b)
        {
            result = a + b;
            return result;
        }
    }

    public enum Operation
    {
        Add,
        Subtract,
    }
}`
	result, a := parseSource(t, src)
	assert.Empty(t, result.Errors, "clean source should parse without diagnostics")

	assert.Equal(t, 1, countKind(a, psi.UsingDirective))
	assert.Equal(t, 1, countKind(a, psi.NamespaceDeclaration))
	assert.Equal(t, 1, countKind(a, psi.ClassDeclaration))
	assert.Equal(t, 1, countKind(a, psi.EnumDeclaration))
	assert.Equal(t, 2, countKind(a, psi.EnumMember))
	assert.Equal(t, 1, countKind(a, psi.FieldDeclaration))
	assert.Equal(t, 1, countKind(a, psi.PropertyDeclaration))
	assert.Equal(t, 2, countKind(a, psi.AccessorDeclaration))
	assert.Equal(t, 1, countKind(a, psi.ConstructorDeclaration))
	assert.Equal(t, 1, countKind(a, psi.MethodDeclaration))
	assert.Equal(t, 1, countKind(a, psi.ReturnStatement))
}

func TestParseFile_ExpressionPrecedence(t *testing.T) {
	// x = a + b * c should bind as x = (a + (b * c)): three nested
	// BinaryExpression nodes — assignment, wrapping addition, wrapping
	// multiplication — not three siblings.
	src := `class C { void M() { x = a + b * c; } }`
	_, a := parseSource(t, src)

	var binIdx []int32
	for i, n := range a.Nodes {
		if n.Kind == psi.BinaryExpression {
			binIdx = append(binIdx, int32(i))
		}
	}
	require.Len(t, binIdx, 3, "assignment, addition, and multiplication")

	// Production-stream order is pre-order, and PrecedeNode always opens
	// the wrapping node before the node it wraps, so the three binary
	// nodes are discovered outermost-first: assignment, then addition,
	// then multiplication.
	assign, add, mul := binIdx[0], binIdx[1], binIdx[2]
	assert.Equal(t, assign, a.Nodes[add].Parent, "the addition must be the assignment's RHS")
	assert.Equal(t, add, a.Nodes[mul].Parent, "the multiplication must nest under the addition, not sit beside it")
}

func TestParseFile_SwitchExpressionIsPostfix(t *testing.T) {
	// A switch-expression is a postfix form on a unary operand, sitting
	// between unary and multiplicative: `x switch { ... } * 2` must parse
	// as `(x switch {...}) * 2`, not `x switch { ... * 2 }`.
	src := `class C { void M() { y = x switch { 1 => 2, _ => 3 } * 2; } }`
	result, a := parseSource(t, src)
	assert.Empty(t, result.Errors)

	require.Equal(t, 1, countKind(a, psi.SwitchExpression))
	require.Equal(t, 2, countKind(a, psi.SwitchExpressionArm))

	switchIdx := firstOfKind(a, psi.SwitchExpression)
	require.NotEqual(t, int32(-1), switchIdx)

	// The switch-expression's parent must be a BinaryExpression (the
	// multiplication), confirming it was parsed as the left operand of
	// `*` rather than swallowing the `* 2` into its last arm.
	parent := a.Nodes[switchIdx].Parent
	require.NotEqual(t, int32(-1), parent)
	assert.Equal(t, psi.BinaryExpression, a.Nodes[parent].Kind)
}

func TestParseFile_ControlFlowStatements(t *testing.T) {
	src := `class C
{
    void M()
    {
        if (x > 0)
        {
            return;
        }
        else
        {
            throw x;
        }

        for (int i = 0; i < 10; i++)
        {
            continue;
        }

        foreach (var item in items)
        {
            break;
        }

        while (x < 10)
        {
            x++;
        }

        do
        {
            x--;
        } while (x > 0);

        switch (x)
        {
            case 1:
                return;
            default:
                return;
        }

        try
        {
            risky();
        }
        catch (Exception e)
        {
            handle(e);
        }
        finally
        {
            cleanup();
        }

        using (f)
        {
            use(f);
        }
    }
}`
	result, a := parseSource(t, src)
	assert.Empty(t, result.Errors, "well-formed control flow should not produce diagnostics")

	assert.Equal(t, 1, countKind(a, psi.IfStatement))
	assert.Equal(t, 1, countKind(a, psi.ForStatement))
	assert.Equal(t, 1, countKind(a, psi.ForeachStatement))
	assert.Equal(t, 1, countKind(a, psi.WhileStatement))
	assert.Equal(t, 1, countKind(a, psi.DoStatement))
	assert.Equal(t, 1, countKind(a, psi.SwitchStatement))
	assert.Equal(t, 2, countKind(a, psi.SwitchSection))
	assert.Equal(t, 1, countKind(a, psi.TryStatement))
	assert.Equal(t, 1, countKind(a, psi.CatchClause))
	assert.Equal(t, 1, countKind(a, psi.FinallyClause))
	assert.Equal(t, 1, countKind(a, psi.UsingStatement))
	assert.Equal(t, 1, countKind(a, psi.BreakStatement))
	assert.Equal(t, 1, countKind(a, psi.ContinueStatement))
	assert.Equal(t, 1, countKind(a, psi.ThrowStatement))
	assert.Equal(t, 3, countKind(a, psi.ReturnStatement))
}

func TestParseFile_InterpolatedString(t *testing.T) {
	src := `class C { int x = "a${1+2}b"; }`
	result, a := parseSource(t, src)
	assert.Empty(t, result.Errors)

	require.Equal(t, 1, countKind(a, psi.InterpolatedStringExpression))
	// Three parts: the literal "a", the `${1+2}` interpolation, and the
	// literal "b" — the tokenizer treats the leading/trailing text as
	// separate RegularStringPart runs, and the interpolation as one more
	// part.
	assert.GreaterOrEqual(t, countKind(a, psi.InterpolatedStringPart), 2)
	assert.Equal(t, 1, countKind(a, psi.BinaryExpression), "the `1+2` inside the interpolation must still parse as an expression")
}

func TestParseFile_ObjectAndArrayCreation(t *testing.T) {
	src := `class C
{
    void M()
    {
        a = new Foo(1, 2) { X = 1 };
        b = new int[3];
        c = new dynamic { X = 1, Y = 2 };
    }
}`
	result, a := parseSource(t, src)
	assert.Empty(t, result.Errors)

	assert.Equal(t, 2, countKind(a, psi.ObjectCreationExpression))
	assert.Equal(t, 1, countKind(a, psi.ArrayCreationExpression))
	assert.Equal(t, 2, countKind(a, psi.InitializerExpression))
}

func TestParseFile_LambdaExpression(t *testing.T) {
	src := `class C { void M() { f = x => x + 1; g = (int a, int b) => a + b; } }`
	result, a := parseSource(t, src)
	assert.Empty(t, result.Errors)
	assert.Equal(t, 2, countKind(a, psi.LambdaExpression))
}

func TestParseFile_GenericTypeAndShiftDisambiguation(t *testing.T) {
	// "List<List<int>>" must not be misread as a shift operator closing a
	// generic argument list, and a genuine ">>" must still parse as shift.
	src := `class C
{
    void M()
    {
        x = new List<List<int>>();
        y = a >> b;
    }
}`
	result, a := parseSource(t, src)
	assert.Empty(t, result.Errors)
	assert.GreaterOrEqual(t, countKind(a, psi.TypeArgumentList), 1, "both List<...> and List<int> contribute a type argument list")
	assert.Equal(t, 3, countKind(a, psi.BinaryExpression), "two assignments plus the >> shift")
}

func TestParseFile_RecoversFromMalformedMember(t *testing.T) {
	// A garbled member declaration should not stop the rest of the class
	// body from parsing, and must surface at least one diagnostic.
	// memberAnchors has no mid-list anchor for plain field declarations
	// (only "}" and the modifier/type-declaration keywords), so recovery
	// from a run of garbage tokens only resumes cleanly once it reaches a
	// recognizable member-starting keyword like "public".
	src := `class C
{
    int x;
    !!! garbage here;
    public int y;
}`
	result, a := parseSource(t, src)
	assert.NotEmpty(t, result.Errors, "malformed input must be flagged")
	assert.Equal(t, 2, countKind(a, psi.FieldDeclaration), "fields on either side of the recovery anchor must still parse")
}

func TestParseFile_EmptyFileParsesCleanly(t *testing.T) {
	result, a := parseSource(t, "")
	assert.Empty(t, result.Errors)
	assert.Equal(t, psi.File, a.Nodes[0].Kind)
}

func TestParseFile_EmptyInterfaceBodyParsesCleanly(t *testing.T) {
	result, a := parseSource(t, "interface IThing {}")
	assert.Empty(t, result.Errors, "a bare brace pair is the one interface body this parser supports")
	assert.Equal(t, 1, countKind(a, psi.InterfaceDeclaration))
}

func TestParseFile_MultiDimensionalArrayRankIsUnsupported(t *testing.T) {
	src := `class C
{
    int[,] grid;
}`
	result, a := parseSource(t, src)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0].Message, "unsupported multi-dimensional array rank")
	assert.Equal(t, 1, countKind(a, psi.ArrayType), "the rank specifier still produces an array-type node")
}

func TestParseFile_SingleDimensionArrayParsesCleanly(t *testing.T) {
	src := `class C
{
    int[] items;
}`
	result, a := parseSource(t, src)
	assert.Empty(t, result.Errors)
	assert.Equal(t, 1, countKind(a, psi.ArrayType))
}

func TestParseFile_NonEmptyInterfaceBodyIsUnsupported(t *testing.T) {
	// Member lists are never implemented for interfaces (matching the
	// original's permanently-unfinished TryParseInterfaceDeclaration), so
	// anything beyond a bare "{}" attaches a single diagnostic instead of
	// being parsed as members.
	src := `interface IThing
{
    int DoSomething();
}`
	result, a := parseSource(t, src)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0].Message, "unsupported interface body")
	assert.Equal(t, 1, countKind(a, psi.InterfaceDeclaration))
	assert.Equal(t, 0, countKind(a, psi.MethodDeclaration), "interface members are never parsed")
}
