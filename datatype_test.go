package agate

import (
	"context"
	"testing"
)

func TestBooleanCast(t *testing.T) {
	b := NewBoolean()
	for _, in := range []string{"yes", "Y", "true", "1"} {
		v, err := b.Cast(in)
		if err != nil {
			t.Fatalf("Cast(%q): %v", in, err)
		}
		if v != true {
			t.Fatalf("Cast(%q) = %v, want true", in, v)
		}
	}
	v, err := b.Cast("")
	if err != nil {
		t.Fatalf("Cast(\"\"): %v", err)
	}
	if !IsNull(v) {
		t.Fatalf("Cast(\"\") = %v, want Null", v)
	}
}

func TestNumberCast(t *testing.T) {
	n := NewNumber()
	v, err := n.Cast("1,234.50")
	if err != nil {
		t.Fatalf("Cast: %v", err)
	}
	if n.CastToText(v) != "1234.50" {
		t.Fatalf("CastToText = %q, want %q", n.CastToText(v), "1234.50")
	}
}

func TestTypeTesterPicksFirstMatchingType(t *testing.T) {
	tester := NewTypeTester()
	columnNames := []string{"flag", "qty", "label"}
	samples := map[string][]string{
		"flag":  {"true", "false", "true"},
		"qty":   {"1", "2", "3"},
		"label": {"alice", "bob", "carol"},
	}
	types := tester.Infer(context.Background(), columnNames, samples)
	if types[0].Name() != "Boolean" {
		t.Fatalf("expected Boolean for flag column, got %s", types[0].Name())
	}
	if types[1].Name() != "Number" {
		t.Fatalf("expected Number for qty column, got %s", types[1].Name())
	}
	if types[2].Name() != "Text" {
		t.Fatalf("expected Text for label column, got %s", types[2].Name())
	}
}

func TestTimeDeltaParsesCommonForms(t *testing.T) {
	td := NewTimeDelta()
	v, err := td.Cast("2 days")
	if err != nil {
		t.Fatalf("Cast: %v", err)
	}
	d := v.(Duration)
	if d.Duration.Hours() != 48 {
		t.Fatalf("expected 48h, got %v", d.Duration)
	}
}
