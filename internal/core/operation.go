package core

// Operation selects which SQL form a Statement renders.
type Operation int

// Supported operations. OpNone is the state of a fresh Statement and fails to render.
const (
	OpNone Operation = iota
	OpSelect
	OpInsert
	OpUpdate
	OpDelete
	OpReplace
)

// String returns the SQL keyword for the operation.
func (o Operation) String() string {
	switch o {
	case OpSelect:
		return "SELECT"
	case OpInsert:
		return "INSERT"
	case OpUpdate:
		return "UPDATE"
	case OpDelete:
		return "DELETE"
	case OpReplace:
		return "REPLACE"
	default:
		return "UNKNOWN"
	}
}

// Direction is an ORDER BY direction.
type Direction string

// Sort directions.
const (
	Asc  Direction = "ASC"
	Desc Direction = "DESC"
)

// JoinType is the keyword placed before JOIN.
type JoinType string

// Common join types. Any other keyword accepted by the backend may be used.
const (
	InnerJoin JoinType = "INNER"
	LeftJoin  JoinType = "LEFT"
	RightJoin JoinType = "RIGHT"
	FullJoin  JoinType = "FULL"
	CrossJoin JoinType = "CROSS"
)

// join is one JOIN clause.
type join struct {
	kind  JoinType
	table string
	on    string
}
