package engine

import (
	"strings"

	"github.com/SamsonMokaya/pesapal-challenge/ast"
	"github.com/SamsonMokaya/pesapal-challenge/dberr"
	"github.com/SamsonMokaya/pesapal-challenge/pattern"
	"github.com/SamsonMokaya/pesapal-challenge/schema"
	"github.com/SamsonMokaya/pesapal-challenge/value"
)

// joinRow is a working row during nested-loop join execution. Its
// keys are unqualified until the first join has been applied, and
// table.column-qualified afterward.
type joinRow map[string]value.Value

// selectJoin executes the left-deep nested-loop multi-way join.
func (e *Engine) selectJoin(stmt *ast.SelectStmt) ([]Row, error) {
	baseSnap, err := e.loadTable(stmt.Table)
	if err != nil {
		return nil, err
	}

	tableOrder := []string{stmt.Table}
	schemas := map[string]*schema.Schema{stmt.Table: baseSnap.Schema}

	working := make([]joinRow, 0, len(baseSnap.Rows))
	for _, r := range baseSnap.Rows {
		jr := make(joinRow, len(r))
		for k, v := range r {
			jr[k] = v
		}
		working = append(working, jr)
	}

	for _, j := range stmt.Joins {
		firstJoin := len(tableOrder) == 1

		rightSnap, err := e.loadTable(j.Table)
		if err != nil {
			return nil, err
		}
		if j.RightTable != j.Table {
			return nil, dberr.New(dberr.Schema, "join ON clause references table %q but JOIN names table %q", j.RightTable, j.Table)
		}
		if !rightSnap.Schema.HasColumn(j.RightColumn) {
			return nil, dberr.New(dberr.Schema, "unknown column %q in table %q", j.RightColumn, j.Table)
		}
		if firstJoin {
			if !baseSnap.Schema.HasColumn(j.LeftColumn) {
				return nil, dberr.New(dberr.Schema, "unknown column %q in table %q", j.LeftColumn, j.LeftTable)
			}
		} else if leftSch, ok := schemas[j.LeftTable]; !ok || !leftSch.HasColumn(j.LeftColumn) {
			return nil, dberr.New(dberr.Schema, "unknown column %q.%q in join", j.LeftTable, j.LeftColumn)
		}

		tableOrder = append(tableOrder, j.Table)
		schemas[j.Table] = rightSnap.Schema

		next := make([]joinRow, 0, len(working))
		for _, wrow := range working {
			var leftVal value.Value
			if firstJoin {
				leftVal = wrow[j.LeftColumn]
			} else {
				leftVal = wrow[j.LeftTable+"."+j.LeftColumn]
			}
			if leftVal.IsNull() {
				continue // Null never matches anything, including Null
			}
			for _, rrow := range rightSnap.Rows {
				rightVal := rrow[j.RightColumn]
				if rightVal.IsNull() || !leftVal.Equal(rightVal) {
					continue
				}
				combined := make(joinRow, len(wrow)+len(rrow))
				if firstJoin {
					for k, v := range wrow {
						combined[stmt.Table+"."+k] = v
					}
				} else {
					for k, v := range wrow {
						combined[k] = v
					}
				}
				for k, v := range rrow {
					combined[j.Table+"."+k] = v
				}
				next = append(next, combined)
			}
		}
		working = next
	}

	for _, f := range stmt.Where {
		working2 := make([]joinRow, 0, len(working))
		for _, row := range working {
			ok, err := evalJoinFilter(row, f, tableOrder, schemas)
			if err != nil {
				return nil, err
			}
			if ok {
				working2 = append(working2, row)
			}
		}
		working = working2
	}

	return projectJoinRows(working, stmt, tableOrder, schemas)
}

// resolveJoinColumn finds the qualified key ("table.column") and
// declaring table/column for a filter or projection name that may
// already be qualified, or may need resolving to the first table in
// join order that declares it.
func resolveJoinColumn(name string, tableOrder []string, schemas map[string]*schema.Schema) (qualifiedKey, table, bareCol string, col schema.Column, err error) {
	if t, c, ok := strings.Cut(name, "."); ok {
		sch, known := schemas[t]
		if !known {
			return "", "", "", schema.Column{}, dberr.New(dberr.Schema, "unknown table %q in %q", t, name)
		}
		colDef, has := sch.Column(c)
		if !has {
			return "", "", "", schema.Column{}, dberr.New(dberr.Schema, "unknown column %q in table %q", c, t)
		}
		return t + "." + c, t, c, colDef, nil
	}
	for _, t := range tableOrder {
		if colDef, has := schemas[t].Column(name); has {
			return t + "." + name, t, name, colDef, nil
		}
	}
	return "", "", "", schema.Column{}, dberr.New(dberr.Schema, "unknown column %q", name)
}

func evalJoinFilter(row joinRow, f ast.Filter, tableOrder []string, schemas map[string]*schema.Schema) (bool, error) {
	qualifiedKey, _, _, col, err := resolveJoinColumn(f.Column, tableOrder, schemas)
	if err != nil {
		return false, err
	}
	cell := row[qualifiedKey]

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

// projectJoinRows applies column projection to the fully joined and
// filtered row set.
func projectJoinRows(rows []joinRow, stmt *ast.SelectStmt, tableOrder []string, schemas map[string]*schema.Schema) ([]Row, error) {
	out := make([]Row, 0, len(rows))

	if !stmt.Star && len(stmt.Columns) > 0 {
		type field struct {
			outKey string
			qual   string
		}
		fields := make([]field, 0, len(stmt.Columns))
		for _, c := range stmt.Columns {
			qualifiedKey, _, bareCol, _, err := resolveJoinColumn(c, tableOrder, schemas)
			if err != nil {
				return nil, err
			}
			outKey := c
			if !strings.Contains(c, ".") {
				outKey = bareCol
			}
			fields = append(fields, field{outKey: outKey, qual: qualifiedKey})
		}
		for _, row := range rows {
			r := make(Row, len(fields))
			for _, f := range fields {
				r[f.outKey] = row[f.qual].Raw()
			}
			out = append(out, r)
		}
		return out, nil
	}

	// SELECT *: simplify unambiguous unqualified names. A column
	// suffix is unambiguous when exactly one joined table declares it.
	suffixCount := make(map[string]int)
	for _, t := range tableOrder {
		for _, col := range schemas[t].Columns {
			suffixCount[col.Name]++
		}
	}
	for _, row := range rows {
		r := make(Row, len(row))
		for qualified, v := range row {
			_, suffix, _ := strings.Cut(qualified, ".")
			if suffixCount[suffix] == 1 {
				r[suffix] = v.Raw()
			} else {
				r[qualified] = v.Raw()
			}
		}
		out = append(out, r)
	}
	return out, nil
}
