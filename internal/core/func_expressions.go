// Copyright (c) 2025 COREGX. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package core

import (
	"strconv"
	"strings"
)

// =============================================================================
// String Functions
// =============================================================================

// Upper renders column as UPPER(column) when it is selected.
func (s *Statement) Upper(column string) *Statement {
	setExpr(&s.stringExpr, column, "UPPER("+column+")")
	return s
}

// Lower renders column as LOWER(column) when it is selected.
func (s *Statement) Lower(column string) *Statement {
	setExpr(&s.stringExpr, column, "LOWER("+column+")")
	return s
}

// Concat renders column as CONCAT(column, parts...) when it is selected.
// Parts are written verbatim, so string literals must carry their own quotes.
//
// Example:
//
//	Concat("first_name", "' '", "last_name")
//
// Generates: CONCAT(first_name, ' ', last_name)
func (s *Statement) Concat(column string, parts ...string) *Statement {
	args := append([]string{column}, parts...)
	setExpr(&s.stringExpr, column, "CONCAT("+strings.Join(args, ", ")+")")
	return s
}

// =============================================================================
// Date Functions
// =============================================================================

// Curdate registers CURDATE() under the column name "curdate".
//
//	New().Curdate().Select("curdate").From("dual")
//
// Generates: SELECT CURDATE() FROM dual
func (s *Statement) Curdate() *Statement {
	setExpr(&s.dateExpr, "curdate", "CURDATE()")
	return s
}

// Now registers NOW() under the column name "now".
func (s *Statement) Now() *Statement {
	setExpr(&s.dateExpr, "now", "NOW()")
	return s
}

// DateFormat renders column as DATE_FORMAT(column, 'format') when it is selected.
// Single quotes inside format are doubled.
func (s *Statement) DateFormat(column, format string) *Statement {
	setExpr(&s.dateExpr, column, "DATE_FORMAT("+column+", "+quoteLiteral(format)+")")
	return s
}

// Day renders column as DAY(column) when it is selected.
func (s *Statement) Day(column string) *Statement {
	setExpr(&s.dateExpr, column, "DAY("+column+")")
	return s
}

// Month renders column as MONTH(column) when it is selected.
func (s *Statement) Month(column string) *Statement {
	setExpr(&s.dateExpr, column, "MONTH("+column+")")
	return s
}

// Year renders column as YEAR(column) when it is selected.
func (s *Statement) Year(column string) *Statement {
	setExpr(&s.dateExpr, column, "YEAR("+column+")")
	return s
}

// =============================================================================
// Math Functions
// =============================================================================

// Abs renders column as ABS(column) when it is selected.
func (s *Statement) Abs(column string) *Statement {
	setExpr(&s.numericExpr, column, "ABS("+column+")")
	return s
}

// Round renders column as ROUND(column, decimals) when it is selected.
func (s *Statement) Round(column string, decimals int) *Statement {
	setExpr(&s.numericExpr, column, "ROUND("+column+", "+strconv.Itoa(decimals)+")")
	return s
}

// Floor renders column as FLOOR(column) when it is selected.
func (s *Statement) Floor(column string) *Statement {
	setExpr(&s.numericExpr, column, "FLOOR("+column+")")
	return s
}

// Ceil renders column as CEIL(column) when it is selected.
func (s *Statement) Ceil(column string) *Statement {
	setExpr(&s.numericExpr, column, "CEIL("+column+")")
	return s
}

// Pow renders column as POW(column, exponent) when it is selected.
func (s *Statement) Pow(column string, exponent float64) *Statement {
	setExpr(&s.numericExpr, column, "POW("+column+", "+strconv.FormatFloat(exponent, 'f', -1, 64)+")")
	return s
}

// Sqrt renders column as SQRT(column) when it is selected.
func (s *Statement) Sqrt(column string) *Statement {
	setExpr(&s.numericExpr, column, "SQRT("+column+")")
	return s
}

// =============================================================================
// Aggregates
// =============================================================================

// Aggregates append to the current column list, so call them after Select.
// They are rendered as written and never replaced by a registered expression.

// Count appends COUNT(column) to the selected columns.
func (s *Statement) Count(column string) *Statement {
	return s.aggregate("COUNT", column)
}

// Sum appends SUM(column) to the selected columns.
func (s *Statement) Sum(column string) *Statement {
	return s.aggregate("SUM", column)
}

// Avg appends AVG(column) to the selected columns.
func (s *Statement) Avg(column string) *Statement {
	return s.aggregate("AVG", column)
}

// Min appends MIN(column) to the selected columns.
func (s *Statement) Min(column string) *Statement {
	return s.aggregate("MIN", column)
}

// Max appends MAX(column) to the selected columns.
func (s *Statement) Max(column string) *Statement {
	return s.aggregate("MAX", column)
}

func (s *Statement) aggregate(fn, column string) *Statement {
	s.fields = append(s.fields, fn+"("+column+")")
	return s
}

func setExpr(family *map[string]string, column, expr string) {
	if *family == nil {
		*family = make(map[string]string)
	}
	(*family)[column] = expr
}

// quoteLiteral wraps v in single quotes, doubling any embedded quote.
func quoteLiteral(v string) string {
	return "'" + strings.ReplaceAll(v, "'", "''") + "'"
}
