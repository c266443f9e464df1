package main

import (
	"strings"
	"testing"

	"github.com/multimethod/genfunc/internal/dispatch"
)

func TestLoadDefs(t *testing.T) {
	src := `
# comment
def show Int
def show String
def log String Any...
`
	table := dispatch.NewMethodTable(0, dispatch.NoopWarner{})
	if err := loadDefs(strings.NewReader(src), table); err != nil {
		t.Fatal(err)
	}
	if got, want := table.Defs().Len(), 3; got != want {
		t.Fatalf("got %d defs, want %d", got, want)
	}
}

func TestLoadDefsRejectsMalformedLine(t *testing.T) {
	table := dispatch.NewMethodTable(0, dispatch.NoopWarner{})
	if err := loadDefs(strings.NewReader("not a def line"), table); err == nil {
		t.Fatal("expected error for malformed line")
	}
}

func TestParseTypeToken(t *testing.T) {
	if got := parseTypeToken("Any"); got.String() != "Any" {
		t.Fatalf("got %s", got)
	}
	if got := parseTypeToken("String..."); got.String() != "String..." {
		t.Fatalf("got %s", got)
	}
}
