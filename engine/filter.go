package engine

import (
	"sort"

	"github.com/SamsonMokaya/pesapal-challenge/ast"
	"github.com/SamsonMokaya/pesapal-challenge/dberr"
	"github.com/SamsonMokaya/pesapal-challenge/index"
	"github.com/SamsonMokaya/pesapal-challenge/pattern"
	"github.com/SamsonMokaya/pesapal-challenge/schema"
	"github.com/SamsonMokaya/pesapal-challenge/value"
)

// matchPositions computes the set of row positions in rows matching
// every filter, used identically by SELECT, UPDATE, and DELETE. When
// there is exactly one filter, it is equality (not LIKE), its value
// is non-Null, and an index exists on that column, rows are retrieved
// through the index instead of a scan; the result is always returned
// in ascending (scan) order regardless of path, since result order is
// observable to callers.
func matchPositions(sch *schema.Schema, rows []index.Row, indexes map[string]index.Index, filters []ast.Filter) ([]int, error) {
	if len(filters) == 0 {
		out := make([]int, len(rows))
		for i := range rows {
			out[i] = i
		}
		return out, nil
	}

	if len(filters) == 1 && filters[0].Op == ast.OpEq {
		f := filters[0]
		col, ok := sch.Column(f.Column)
		if !ok {
			return nil, dberr.New(dberr.Schema, "unknown column %q", f.Column)
		}
		target, err := value.Coerce(f.Value, col.Type)
		if err != nil {
			return nil, dberr.Wrap(dberr.Type, err, "filter on column %q", f.Column)
		}
		if !target.IsNull() {
			if id, ok := sch.IndexOn(col.Name); ok {
				positions := append([]int(nil), index.Lookup(indexes[id.Name], target)...)
				sort.Ints(positions)
				return positions, nil
			}
		}
	}

	var out []int
	for pos, row := range rows {
		matched, err := matchAll(sch, row, filters)
		if err != nil {
			return nil, err
		}
		if matched {
			out = append(out, pos)
		}
	}
	return out, nil
}

func matchAll(sch *schema.Schema, row index.Row, filters []ast.Filter) (bool, error) {
	for _, f := range filters {
		ok, err := evalFilter(sch, row, f)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

// evalFilter evaluates one predicate against row.
func evalFilter(sch *schema.Schema, row index.Row, f ast.Filter) (bool, error) {
	col, ok := sch.Column(f.Column)
	if !ok {
		return false, dberr.New(dberr.Schema, "unknown column %q", f.Column)
	}
	cell := row[f.Column]

	switch f.Op {
	case ast.OpEq:
		target, err := value.Coerce(f.Value, col.Type)
		if err != nil {
			return false, dberr.Wrap(dberr.Type, err, "filter on column %q", f.Column)
		}
		if col.Type == value.Text {
			return cell.EqualFold(target), nil
		}
		return cell.Equal(target), nil
	case ast.OpLike:
		if col.Type != value.Text {
			return false, nil
		}
		if cell.IsNull() {
			return false, nil
		}
		pat, ok := f.Value.(string)
		if !ok {
			return false, dberr.New(dberr.Type, "LIKE pattern for column %q must be a string", f.Column)
		}
		return pattern.Match(pat, cell.Str), nil
	default:
		return false, dberr.New(dberr.Parse, "unsupported filter operator on column %q", f.Column)
	}
}
