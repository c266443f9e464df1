package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/multimethod/genfunc/internal/dispatch"
	"github.com/multimethod/genfunc/internal/types"
)

// loadDefs reads a flat line-oriented method-definition format, the
// minimal textual shape this demo CLI needs to populate a MethodTable:
//
//	# comment
//	def <name> <Type1> [Type2 ...] [Type...]
//
// A trailing argument ending in "..." declares a vararg tail, e.g.
// "def log String Any..." accepts one String followed by any number of
// further arguments.
func loadDefs(r io.Reader, table *dispatch.MethodTable) error {
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 || fields[0] != "def" {
			return fmt.Errorf("line %d: expected \"def <name> <types...>\", got %q", lineNo, line)
		}
		name := fields[1]
		elems := make([]types.Type, 0, len(fields)-2)
		for _, tok := range fields[2:] {
			elems = append(elems, parseTypeToken(tok))
		}
		table.AddMethod(&dispatch.Method{
			Sig:  types.TTuple{Elements: elems},
			Func: name,
		})
	}
	return scanner.Err()
}

func parseTypeToken(tok string) types.Type {
	if tok == "Any" {
		return types.Any
	}
	if strings.HasSuffix(tok, "...") {
		return types.TSeq{Elem: parseTypeToken(strings.TrimSuffix(tok, "..."))}
	}
	return types.TCon{Name: tok}
}
