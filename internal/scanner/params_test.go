package scanner

import (
	"reflect"
	"testing"
)

func TestSplitParams(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"f()", nil},
		{"f(1)", []string{"1"}},
		{"f(1,2,3)", []string{"1", "2", "3"}},
		{"f(g(1,2),3)", []string{"g(1,2)", "3"}},
		{`f("a,b",c)`, []string{`"a,b"`, "c"}},
		{`f(")",1)`, []string{`")"`, "1"}},
		{"f(1,2){body,with,commas}", []string{"1", "2"}},
		{"(x>1)", []string{"x>1"}},
		{"f(1,)", []string{"1"}},
		{"noparen", nil},
	}

	for _, tt := range tests {
		got := SplitParams(tt.input)
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("SplitParams(%q): expected %q, got %q", tt.input, tt.want, got)
		}
	}
}

func TestMatchParen(t *testing.T) {
	tests := []struct {
		input string
		open  int
		want  int
	}{
		{"f(1)", 1, 3},
		{"f(g(1),2){x}", 1, 8},
		{`f(")")`, 1, 5},
		{"f(1", 1, -1},
		{"f(1)", 0, -1},
	}

	for _, tt := range tests {
		if got := MatchParen(tt.input, tt.open); got != tt.want {
			t.Errorf("MatchParen(%q, %d): expected %d, got %d", tt.input, tt.open, tt.want, got)
		}
	}
}

func TestSubscript(t *testing.T) {
	body, end, ok := Subscript("if(1){a=1{b}}rest", 5)
	if !ok {
		t.Fatal("expected block")
	}
	if body != "a=1{b}" {
		t.Errorf("expected body 'a=1{b}', got %q", body)
	}
	if end != 13 {
		t.Errorf("expected end 13, got %d", end)
	}

	if _, _, ok := Subscript("if(1){a=1", 5); ok {
		t.Error("expected unterminated block to fail")
	}
	if _, _, ok := Subscript("if(1)", 5); ok {
		t.Error("expected missing block to fail")
	}
}
