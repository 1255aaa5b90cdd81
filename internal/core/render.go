// Copyright (c) 2025 COREGX. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package core

import (
	"strconv"
	"strings"

	"github.com/samber/lo"

	"github.com/coregx/sqlstmt/internal/dialects"
)

// Result is a rendered statement. Params[i] binds the i-th placeholder in Query.
type Result struct {
	Query  string
	Params []any
}

// Unpack returns the query and parameters as separate values.
func (r Result) Unpack() (string, []any) {
	return r.Query, r.Params
}

// Args returns the query and parameters as a two-element list, ready to be
// spread into a call that takes them positionally.
func (r Result) Args() []any {
	return []any{r.Query, r.Params}
}

// Build renders the Statement into SQL text and its ordered parameters.
//
// Build does not modify the Statement; calling it again without further setter
// calls yields an identical Result with a freshly allocated Params slice.
func (s *Statement) Build() (Result, error) {
	b := &renderer{ph: dialects.MySQL.Placeholder()}

	switch s.operation {
	case OpSelect:
		if err := s.renderSelect(b); err != nil {
			return Result{}, err
		}
	case OpInsert:
		s.renderInsert(b, "INSERT")
	case OpUpdate:
		s.renderUpdate(b)
	case OpDelete:
		b.sql.WriteString("DELETE FROM ")
		b.sql.WriteString(s.table)
		b.conditions(" WHERE ", &s.wheres)
	case OpReplace:
		s.renderInsert(b, "REPLACE")
	default:
		return Result{}, ErrUnsupportedOperation
	}

	return Result{Query: b.sql.String(), Params: b.params}, nil
}

// Destruct is Build returning the query and parameters positionally.
func (s *Statement) Destruct() (string, []any, error) {
	res, err := s.Build()
	if err != nil {
		return "", nil, err
	}
	return res.Query, res.Params, nil
}

// Validate reports statement shapes that Build renders but a driver would
// reject. It currently checks that INSERT and REPLACE carry one value per column.
func (s *Statement) Validate() error {
	switch s.operation {
	case OpInsert, OpReplace:
		if len(s.values) != len(s.fields) {
			return &ValueCountError{Columns: len(s.fields), Values: len(s.values)}
		}
	case OpNone:
		return ErrUnsupportedOperation
	}
	return nil
}

// renderer collects SQL text and parameters in placeholder order.
type renderer struct {
	sql    strings.Builder
	params []any
	ph     string
}

// conditions writes "<prefix>col = ? AND col = ?" and appends the bound values.
// Nothing is written for an empty set.
func (b *renderer) conditions(prefix string, set *orderedValues) {
	if set.len() == 0 {
		return
	}
	b.sql.WriteString(prefix)
	b.sql.WriteString(strings.Join(b.assignments(set), " AND "))
	b.params = append(b.params, set.values()...)
}

// assignments renders one "col = ?" fragment per column of set.
func (b *renderer) assignments(set *orderedValues) []string {
	return lo.Map(set.columns(), func(col string, _ int) string {
		return col + " = " + b.ph
	})
}

func (s *Statement) renderSelect(b *renderer) error {
	if s.limit != nil && *s.limit < 0 {
		return ErrNegativeLimit
	}
	if s.offset != nil && *s.offset < 0 {
		return ErrNegativeOffset
	}

	b.sql.WriteString("SELECT ")
	if s.distinct {
		b.sql.WriteString("DISTINCT ")
	}
	b.sql.WriteString(strings.Join(lo.Map(s.fields, func(f string, _ int) string {
		return s.selectExpr(f)
	}), ", "))
	b.sql.WriteString(" FROM ")
	b.sql.WriteString(s.table)

	for _, j := range s.joins {
		b.sql.WriteString(" " + string(j.kind) + " JOIN " + j.table + " ON " + j.on)
	}

	b.conditions(" WHERE ", &s.wheres)

	if len(s.groupBy) > 0 {
		b.sql.WriteString(" GROUP BY ")
		b.sql.WriteString(strings.Join(s.groupBy, ", "))
	}

	b.conditions(" HAVING ", &s.having)

	if s.orderBy != "" {
		dir := s.orderDir
		if dir == "" {
			dir = Asc
		}
		b.sql.WriteString(" ORDER BY " + s.orderBy + " " + string(dir))
	}

	if s.limit != nil {
		b.sql.WriteString(" LIMIT " + strconv.Itoa(*s.limit))
	}
	if s.offset != nil {
		b.sql.WriteString(" OFFSET " + strconv.Itoa(*s.offset))
	}
	return nil
}

// selectExpr returns the registered expression for a selected field, checking
// string, date and numeric registrations in that order.
func (s *Statement) selectExpr(field string) string {
	for _, family := range []map[string]string{s.stringExpr, s.dateExpr, s.numericExpr} {
		if expr, ok := family[field]; ok {
			return expr
		}
	}
	return field
}

// renderInsert renders INSERT and REPLACE, which differ only in the keyword.
func (s *Statement) renderInsert(b *renderer, keyword string) {
	placeholders := lo.Times(len(s.fields), func(_ int) string { return b.ph })

	b.sql.WriteString(keyword + " INTO " + s.table)
	b.sql.WriteString(" (" + strings.Join(s.fields, ", ") + ")")
	b.sql.WriteString(" VALUES (" + strings.Join(placeholders, ", ") + ")")
	b.params = append(b.params, s.values...)
}

func (s *Statement) renderUpdate(b *renderer) {
	b.sql.WriteString("UPDATE " + s.table + " SET ")
	b.sql.WriteString(strings.Join(b.assignments(&s.setValues), ", "))
	b.params = append(b.params, s.setValues.values()...)

	b.conditions(" WHERE ", &s.wheres)
}
