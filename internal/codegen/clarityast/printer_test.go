//go:build !integration

package clarityast

import (
	"errors"
	"testing"
)

func TestPrintInlineAndBrokenForms(t *testing.T) {
	program := Program{
		Comment("Constants"),
		L(A("define-constant"), A("PRECISION"), U("1000000")),
		Blank{},
		Form(2,
			A("define-read-only"),
			L(A("get-name")),
			L(A("ok"), Str("Pool \"A\"")),
		),
	}

	got, err := Print(program)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	expected := ";; Constants\n" +
		"(define-constant PRECISION u1000000)\n" +
		"\n" +
		"(define-read-only (get-name)\n" +
		"    (ok \"Pool \\\"A\\\"\"))\n"
	if got != expected {
		t.Fatalf("expected:\n%s\ngot:\n%s", expected, got)
	}
}

func TestPrintTupleInlineAndBroken(t *testing.T) {
	inline, err := Print(Program{Tuple{Fields: []Field{{Name: "dx", Value: A("dx")}, {Name: "dk", Value: U("0")}}}})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if inline != "{ dx: dx, dk: u0 }\n" {
		t.Fatalf("unexpected inline tuple: %q", inline)
	}

	broken, err := Print(Program{Tuple{Fields: []Field{{Name: "a", Value: A("x")}, {Name: "b", Value: A("y")}}, Break: true}})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if broken != "{\n    a: x,\n    b: y\n}\n" {
		t.Fatalf("unexpected broken tuple: %q", broken)
	}
}

func TestPrintRejectsInjectedAtoms(t *testing.T) {
	testCases := []Node{
		A("bad token"),
		A("x)(define-public"),
		A(""),
		A("semi;colon"),
		Tuple{Fields: []Field{{Name: "a b", Value: A("x")}}},
		nil,
	}

	for _, testCase := range testCases {
		_, err := Print(Program{L(A("define-fungible-token"), testCase)})
		if !errors.Is(err, ErrInvalidNode) {
			t.Fatalf("expected ErrInvalidNode for %#v, got %v", testCase, err)
		}
	}
}

func TestPrintEscapesStrings(t *testing.T) {
	got, err := Print(Program{L(A("some"), UTF8Str("café \\ \"q\""))})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	expected := "(some u\"caf\\u{e9} \\\\ \\\"q\\\"\")\n"
	if got != expected {
		t.Fatalf("expected %q, got %q", expected, got)
	}

	if _, err := Print(Program{Str("naïve")}); !errors.Is(err, ErrInvalidNode) {
		t.Fatalf("expected non-ascii Str to be rejected, got %v", err)
	}
}

func TestPrintTrailingCommentClosesOnOwnLine(t *testing.T) {
	got, err := Print(Program{Form(1, A("begin"), A("x"), Comment("done"))})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	expected := "(begin\n    x\n    ;; done\n)\n"
	if got != expected {
		t.Fatalf("expected %q, got %q", expected, got)
	}
}

func TestPrintIsDeterministic(t *testing.T) {
	program := Program{Form(2, A("define-public"), L(A("f")), Tuple{Fields: []Field{{Name: "k", Value: U("1")}}})}
	first, err := Print(program)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	for i := 0; i < 5; i++ {
		again, err := Print(program)
		if err != nil || again != first {
			t.Fatalf("expected identical output, got %q err=%v", again, err)
		}
	}
}
