package main

import (
	"context"
	"fmt"
	"io"

	"github.com/dustin/go-humanize"

	"github.com/multimethod/genfunc/internal/dispatch"
	"github.com/multimethod/genfunc/internal/journal"
)

// inspectStats prints method-table and cache-footprint statistics.
func inspectStats(w io.Writer, table *dispatch.MethodTable) {
	defCount := table.Defs().Len()
	cacheCount := table.CacheLen()
	fmt.Fprintf(w, "%s definitions, %s cache entries (max arity %d)\n",
		humanize.Comma(int64(defCount)), humanize.Comma(int64(cacheCount)), table.MaxArgs())
}

// inspectJournal prints a short summary of recent journal activity.
func inspectJournal(ctx context.Context, w io.Writer, j *journal.Journal) error {
	specs, err := j.TailSpecializations(ctx, 10)
	if err != nil {
		return err
	}
	ambiguous, err := j.Ambiguous(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "last %s specializations, %s recorded ambiguities\n",
		humanize.Comma(int64(len(specs))), humanize.Comma(int64(len(ambiguous))))
	for _, s := range specs {
		fmt.Fprintf(w, "  %s  method#%d  %s -> %s\n", humanize.Time(s.RecordedAt), s.MethodUID, s.Signature, s.CacheKey)
	}
	return nil
}
