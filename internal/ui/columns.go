package ui

import (
	"fmt"

	"github.com/me/heroconsole/internal/columns"
	"github.com/me/heroconsole/internal/table"
	"github.com/me/heroconsole/pkg/model"
)

// keyAction marks the column the users template renders as a delete button.
const keyAction = "actions"

var recordColumns = columns.Records

var userColumns = append(append([]table.Column[model.User](nil), columns.Users...),
	table.Action("", keyAction, func(u model.User) string { return fmt.Sprintf("/users/%d/delete", u.ID) }),
)

// truncate shortens s to n runes. List pages truncate cells; exports do not.
func truncate(s string, n int) string {
	return columns.Truncate(s, n)
}
