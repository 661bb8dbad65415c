// Package columns defines the record and user column sets shared by the web
// console, the CLI and the terminal pager.
package columns

import (
	"github.com/dustin/go-humanize"

	"github.com/me/heroconsole/internal/table"
	"github.com/me/heroconsole/pkg/model"
)

// Column keys front ends look up.
const (
	KeyID   = "id"
	KeyText = "text"
)

// DateLayout is how record timestamps are shown.
const DateLayout = "2006-01-02 15:04"

func count(v any, _ model.HeroRecord) string {
	return humanize.Comma(v.(int64))
}

// Date renders the record timestamp, falling back to the raw value.
func Date(r model.HeroRecord) string {
	if t, ok := r.Time(); ok {
		return t.Format(DateLayout)
	}
	return r.DateTime
}

// Records is the full record column set. Cells are never truncated, so
// exports carry the whole text.
var Records = []table.Column[model.HeroRecord]{
	table.Field("ID", KeyID, func(r model.HeroRecord) any { return r.ID }),
	table.Rendered("Date", "dateTime", func(r model.HeroRecord) any { return r.DateTime },
		func(_ any, r model.HeroRecord) string { return Date(r) }),
	table.Field("Wall owner", "wallOwner", func(r model.HeroRecord) any { return r.WallOwner }),
	table.Field("Post author", "postAuthor", func(r model.HeroRecord) any { return r.PostAuthor }),
	table.Field("Author name", "authorName", func(r model.HeroRecord) any { return r.AuthorName }),
	table.Field("Text", KeyText, func(r model.HeroRecord) any { return r.Text }),
	table.Rendered("Likes", "likes", func(r model.HeroRecord) any { return r.Likes }, count),
	table.Rendered("Reposts", "reposts", func(r model.HeroRecord) any { return r.Reposts }, count),
	table.Rendered("Comments", "comments", func(r model.HeroRecord) any { return r.Comments }, count),
	table.Rendered("Views", "views", func(r model.HeroRecord) any { return r.Views }, count),
	table.Rendered("Subscribers", "subscribers", func(r model.HeroRecord) any { return r.Subscribers }, count),
	table.Field("Post URL", "url", func(r model.HeroRecord) any { return r.URL }),
}

// RecordsCompact fits a terminal: fewer columns, text cut to one line.
var RecordsCompact = []table.Column[model.HeroRecord]{
	Records[0],
	Records[1],
	Records[3],
	Records[6],
	Records[9],
	table.Rendered("Text", KeyText, func(r model.HeroRecord) any { return r.Text },
		func(v any, _ model.HeroRecord) string { return Truncate(oneLine(v.(string)), 60) }),
}

// Users is the account column set.
var Users = []table.Column[model.User]{
	table.Field("ID", KeyID, func(u model.User) any { return u.ID }),
	table.Field("Email", "email", func(u model.User) any { return u.Email }),
	table.Rendered("Role", "role", func(u model.User) any { return u.Role },
		func(v any, _ model.User) string { return v.(model.UserRole).Label() }),
}

// Truncate shortens s to n runes.
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}

func oneLine(s string) string {
	out := []rune(s)
	for i, c := range out {
		if c == '\t' || c == '\n' || c == '\r' {
			out[i] = ' '
		}
	}
	return string(out)
}
