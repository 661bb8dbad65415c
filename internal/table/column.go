package table

import "fmt"

// Column describes one table column over rows of type Row.
//
// Accessor reads the cell value from the row. Render, when set, turns the
// value into display text and always wins over the default formatting, even
// for zero values. Action columns have no Accessor and render from the row.
type Column[Row any] struct {
	Header   string
	Key      string
	Accessor func(Row) any
	Render   func(value any, row Row) string
}

// Field builds a plain column.
func Field[Row any](header, key string, accessor func(Row) any) Column[Row] {
	return Column[Row]{Header: header, Key: key, Accessor: accessor}
}

// Rendered builds a column with a custom renderer.
func Rendered[Row any](header, key string, accessor func(Row) any, render func(value any, row Row) string) Column[Row] {
	return Column[Row]{Header: header, Key: key, Accessor: accessor, Render: render}
}

// Action builds a synthetic column that renders purely from the row.
func Action[Row any](header, key string, render func(row Row) string) Column[Row] {
	return Column[Row]{
		Header: header,
		Key:    key,
		Render: func(_ any, row Row) string { return render(row) },
	}
}

// Value returns the raw accessor value, or nil for action columns.
func (c Column[Row]) Value(row Row) any {
	if c.Accessor == nil {
		return nil
	}
	return c.Accessor(row)
}

// Cell returns the display text for row.
func (c Column[Row]) Cell(row Row) string {
	v := c.Value(row)
	if c.Render != nil {
		return c.Render(v, row)
	}
	if v == nil {
		return ""
	}
	return fmt.Sprint(v)
}
