// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

package desugar

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"autonomine.net/ascript/internal/scanner"
)

func TestDesugar(t *testing.T) {
	tests := []struct {
		name  string
		input []string
		want  []string
	}{
		{
			"def with params",
			[]string{"def~add(a,b){return=a+b}"},
			[]string{`def("add","a","b"){return=a+b}`},
		},
		{
			"def without params",
			[]string{"def~hello(){print(1)}"},
			[]string{`def("hello"){print(1)}`},
		},
		{
			"for",
			[]string{"for(i=0,i<10,i=i+1){print(i)}"},
			[]string{`for("i",0,i<10,i=i+1){print(i)}`},
		},
		{
			"for with long names",
			[]string{"for(count=start*2,count<limit,count=count+1){x=count}"},
			[]string{`for("count",start*2,count<limit,count=count+1){x=count}`},
		},
		{
			"canonical for untouched",
			[]string{`for("i",0,i<3,i=i+1){x=i}`},
			[]string{`for("i",0,i<3,i=i+1){x=i}`},
		},
		{
			"if else",
			[]string{"if(x>1){a=1}", "else{a=2}"},
			[]string{"if(x>1){a=1}", "if(!(x>1)){a=2}"},
		},
		{
			"if untouched",
			[]string{"if(x){a=1}", "b=2"},
			[]string{"if(x){a=1}", "b=2"},
		},
		{
			"pass through",
			[]string{"x=1", "print(x)", "define=2", "forx=1", "iffy=3", "elsewhere=4"},
			[]string{"x=1", "print(x)", "define=2", "forx=1", "iffy=3", "elsewhere=4"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Desugar(tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestDesugarDoesNotModifyInput(t *testing.T) {
	in := []string{"if(x){a=1}", "else{a=2}"}
	if _, err := Desugar(in); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if in[1] != "else{a=2}" {
		t.Errorf("input was modified: %q", in)
	}
}

func TestMalformedElse(t *testing.T) {
	tests := [][]string{
		{"else{a=2}"},
		{"if(x){a=1}", "b=2", "else{a=2}"},
		{"if(x){a=1}", "else{a=2}", "else{a=3}"},
	}

	for _, in := range tests {
		_, err := Desugar(in)
		if !errors.Is(err, ErrMalformedElse) {
			t.Errorf("%q: expected ErrMalformedElse, got %v", in, err)
			continue
		}
		var me *MalformedElseError
		if !errors.As(err, &me) {
			t.Errorf("%q: expected *MalformedElseError, got %T", in, err)
		}
	}
}

func TestParse(t *testing.T) {
	src := `
# absolute value
def abs(n){
	return=n
	if(n<0){return=0-n}
}
if(abs(0-3)==3){
	print("ok")
}
else{
	print("bad")
}
`
	got, err := Parse(src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 commands, got %d: %q", len(got), got)
	}
	if !strings.HasPrefix(got[0], `def("abs","n"){`) {
		t.Errorf("expected def call, got %q", got[0])
	}
	if !strings.HasPrefix(got[2], "if(!(abs(0-3)==3)){") {
		t.Errorf("expected negated if, got %q", got[2])
	}
}

func TestParsePassThroughRoundTrip(t *testing.T) {
	src := "x=1\ny=x+2\nprint(y)\nz=\"a b\""
	lines := strings.Split(src, "\n")

	got, err := Parse(src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var want []string
	for _, line := range lines {
		cmds, err := scanner.Split(line)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want = append(want, cmds...)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestParseIncomplete(t *testing.T) {
	_, err := Parse("if(x){")
	if !errors.Is(err, scanner.ErrIncomplete) {
		t.Errorf("expected ErrIncomplete, got %v", err)
	}
}
