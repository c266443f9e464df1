// Command gfctl is a demo CLI around the dispatch engine: define methods
// from a small text format, dispatch a call against them, and inspect a
// table's cache footprint or its specialization journal.
package main

import (
	"context"
	"fmt"
	"net"
	"os"

	"github.com/mattn/go-isatty"
	"google.golang.org/grpc"

	"github.com/multimethod/genfunc/internal/config"
	"github.com/multimethod/genfunc/internal/dispatch"
	"github.com/multimethod/genfunc/internal/introspect"
	"github.com/multimethod/genfunc/internal/journal"
	"github.com/multimethod/genfunc/internal/types"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "dispatch":
		runDispatch(os.Args[2:])
	case "inspect":
		runInspect(os.Args[2:])
	case "serve":
		runServe(os.Args[2:])
	default:
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: gfctl <dispatch|inspect|serve> -defs <file> [args...]")
}

// colorWarner wraps dispatch.WriterWarner with ANSI coloring, applied
// only when the file it writes to (stderr, in loadTable) is a terminal.
type colorWarner struct {
	inner *dispatch.WriterWarner
	color bool
}

func newColorWarner(f *os.File) *colorWarner {
	return &colorWarner{
		inner: &dispatch.WriterWarner{Out: f},
		color: isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()),
	}
}

func (w *colorWarner) Warn(a, b types.TTuple) {
	if !w.color {
		w.inner.Warn(a, b)
		return
	}
	fmt.Fprintf(w.inner.Out, "\033[33mambiguity warning:\033[0m %s and %s have no more specific applicable method\n", a, b)
}

// loadTable builds a MethodTable from the def file at defsPath and, when
// the config enables it, opens the specialization journal and wires it
// into the table so AddMethod/Dispatch record to it as they run. The
// caller owns the returned journal and must Close it (nil if disabled).
func loadTable(defsPath string) (*dispatch.MethodTable, *journal.Journal, error) {
	cfg := config.Default()
	f, err := os.Open(defsPath)
	if err != nil {
		return nil, nil, fmt.Errorf("opening defs %s: %w", defsPath, err)
	}
	defer f.Close()

	warner := dispatch.Warner(dispatch.NoopWarner{})
	if cfg.AmbiguityWarnings {
		warner = newColorWarner(os.Stderr)
	}
	table := dispatch.NewMethodTable(cfg.MaxArgsHint, warner)

	var j *journal.Journal
	if cfg.Journal.Enabled {
		j, err = journal.Open(cfg.Journal.Path)
		if err != nil {
			return nil, nil, err
		}
		table.Journal = j
	}

	if err := loadDefs(f, table); err != nil {
		if j != nil {
			j.Close()
		}
		return nil, nil, err
	}
	return table, j, nil
}

func runDispatch(args []string) {
	if len(args) < 2 || args[0] != "-defs" {
		usage()
		os.Exit(1)
	}
	table, j, err := loadTable(args[1])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if j != nil {
		defer j.Close()
	}
	d := dispatch.NewDispatcher(table, nil)

	callArgs := make([]types.Type, 0, len(args)-2)
	for _, tok := range args[2:] {
		callArgs = append(callArgs, parseTypeToken(tok))
	}

	m, _, err := d.Dispatch(callArgs)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Printf("matched: %v (uid %d)\n", m.Func, m.UID)
}

func runInspect(args []string) {
	if len(args) < 2 || args[0] != "-defs" {
		usage()
		os.Exit(1)
	}
	table, j, err := loadTable(args[1])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if j != nil {
		defer j.Close()
	}
	inspectStats(os.Stdout, table)

	if j != nil {
		if err := inspectJournal(context.Background(), os.Stdout, j); err != nil {
			fmt.Fprintln(os.Stderr, err)
		}
	}
}

// runServe loads a table and exposes it over the introspection gRPC
// service (MatchingMethods/MethodLookupByType) so an out-of-process
// client can query it without linking this module.
func runServe(args []string) {
	if len(args) < 4 || args[0] != "-defs" || args[2] != "-addr" {
		fmt.Fprintln(os.Stderr, "usage: gfctl serve -defs <file> -addr <host:port>")
		os.Exit(1)
	}
	table, j, err := loadTable(args[1])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if j != nil {
		defer j.Close()
	}
	d := dispatch.NewDispatcher(table, nil)

	srv, err := introspect.NewServer(d)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	lis, err := net.Listen("tcp", args[3])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	grpcServer := grpc.NewServer()
	srv.RegisterWith(grpcServer)
	fmt.Printf("introspect service listening on %s\n", lis.Addr())
	if err := grpcServer.Serve(lis); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
