package agate

import (
	"testing"
)

func TestJoinLeftOuterMultiRowRight(t *testing.T) {
	left := mustTable(t, [][]any{
		{"1", "a"},
		{"2", "b"},
		{"3", "c"},
	}, []string{"id", "letter"}, []DataType{NewNumber(), NewText()})

	right := mustTable(t, [][]any{
		{"1", "x"},
		{"1", "y"},
		{"4", "z"},
	}, []string{"id", "value"}, []DataType{NewNumber(), NewText()})

	joined, err := left.Join(right, JoinOptions{LeftKey: []string{"id"}})
	if err != nil {
		t.Fatalf("Join: %v", err)
	}
	if joined.Len() != 4 {
		t.Fatalf("expected 4 rows, got %d", joined.Len())
	}

	type triple struct {
		id, letter, value string
	}
	got := make([]triple, joined.Len())
	for i, r := range joined.rows {
		val := r.At(2)
		text := ""
		if !IsNull(val) {
			text = joined.columnTypes[2].CastToText(val)
		}
		got[i] = triple{joined.columnTypes[0].CastToText(r.At(0)), r.At(1).(string), text}
	}

	want := []triple{
		{"1", "a", "x"},
		{"1", "a", "y"},
		{"2", "b", ""},
		{"3", "c", ""},
	}
	for i, w := range want {
		if got[i] != w {
			t.Fatalf("row %d: want %+v got %+v", i, w, got[i])
		}
	}
}

func TestJoinInnerDropsUnmatched(t *testing.T) {
	left := mustTable(t, [][]any{
		{"1", "a"},
		{"2", "b"},
		{"3", "c"},
	}, []string{"id", "letter"}, []DataType{NewNumber(), NewText()})

	right := mustTable(t, [][]any{
		{"1", "x"},
		{"1", "y"},
		{"4", "z"},
	}, []string{"id", "value"}, []DataType{NewNumber(), NewText()})

	joined, err := left.Join(right, JoinOptions{LeftKey: []string{"id"}, Inner: true})
	if err != nil {
		t.Fatalf("Join: %v", err)
	}
	if joined.Len() != 2 {
		t.Fatalf("expected 2 rows for inner join, got %d", joined.Len())
	}
}

func TestJoinRequireMatchErrors(t *testing.T) {
	left := mustTable(t, [][]any{{"1"}, {"9"}}, []string{"id"}, []DataType{NewNumber()})
	right := mustTable(t, [][]any{{"1"}}, []string{"id"}, []DataType{NewNumber()})

	_, err := left.Join(right, JoinOptions{LeftKey: []string{"id"}, RequireMatch: true})
	if err == nil {
		t.Fatal("expected JoinError")
	}
	if _, ok := err.(*JoinError); !ok {
		t.Fatalf("expected *JoinError, got %T", err)
	}
}
