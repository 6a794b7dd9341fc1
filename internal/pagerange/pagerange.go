// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pagerange parses human-supplied page selection expressions.
//
// An expression is the literal "all" (case-insensitive) or a
// comma-separated list of clauses, each either a single 1-indexed page
// number ("3") or a dash-separated inclusive range ("5-7"). Whitespace
// around tokens is insignificant. The parsed result is a deduplicated,
// ascending list of zero-indexed page numbers bounded by the document
// length.
package pagerange

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// ParseError reports a malformed clause inside a page-range expression.
// Out-of-range page numbers are not parse errors; they are silently
// dropped during expansion.
type ParseError struct {
	// Clause is the offending clause, trimmed.
	Clause string
	// Expr is the full original expression.
	Expr string
	// Err is the underlying cause, if any.
	Err error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid clause %q in page range %q: %v", e.Clause, e.Expr, e.Err)
	}
	return fmt.Sprintf("invalid clause %q in page range %q", e.Clause, e.Expr)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Parse converts expr into a sorted, deduplicated list of zero-indexed
// page numbers, each within [0, totalPages). Values outside the document
// are dropped without error; a clause that does not parse aborts the
// whole parse with a *ParseError and no partial result. A reversed range
// ("5-1") expands to no pages.
//
// The returned slice may be empty; callers decide whether an empty
// selection is fatal.
func Parse(expr string, totalPages int) ([]int, error) {
	if strings.EqualFold(strings.TrimSpace(expr), "all") {
		pages := make([]int, totalPages)
		for i := range pages {
			pages[i] = i
		}
		return pages, nil
	}

	set := make(map[int]struct{})
	for _, raw := range strings.Split(expr, ",") {
		clause := strings.TrimSpace(raw)
		if strings.Contains(clause, "-") {
			parts := strings.Split(clause, "-")
			if len(parts) != 2 {
				return nil, &ParseError{Clause: clause, Expr: expr}
			}
			start, err := parseBound(parts[0])
			if err != nil {
				return nil, &ParseError{Clause: clause, Expr: expr, Err: err}
			}
			end, err := parseBound(parts[1])
			if err != nil {
				return nil, &ParseError{Clause: clause, Expr: expr, Err: err}
			}
			// Inclusive 1-indexed bounds; start > end yields nothing.
			for i := start - 1; i <= end-1; i++ {
				if i >= 0 && i < totalPages {
					set[i] = struct{}{}
				}
			}
			continue
		}

		n, err := parseBound(clause)
		if err != nil {
			return nil, &ParseError{Clause: clause, Expr: expr, Err: err}
		}
		if i := n - 1; i >= 0 && i < totalPages {
			set[i] = struct{}{}
		}
	}

	pages := make([]int, 0, len(set))
	for i := range set {
		pages = append(pages, i)
	}
	sort.Ints(pages)
	return pages, nil
}

// parseBound parses one 1-indexed page number token.
func parseBound(tok string) (int, error) {
	return strconv.Atoi(strings.TrimSpace(tok))
}
