package model

import (
	"sort"
	"strconv"
	"strings"
	"time"
)

// HeroRecord is one classified social-media post.
type HeroRecord struct {
	ID           int64  `json:"id"`
	URL          string `json:"url"`
	URLWithOwner string `json:"urlWithOwner"`
	WallOwner    string `json:"wallOwner"`
	PostAuthor   string `json:"postAuthor"`
	DateTime     string `json:"dateTime"`
	Text         string `json:"text"`
	Likes        int64  `json:"likes"`
	Reposts      int64  `json:"reposts"`
	Comments     int64  `json:"comments"`
	Views        int64  `json:"views"`
	CommentURL   string `json:"commentUrl,omitempty"`
	AuthorName   string `json:"authorName"`
	Subscribers  int64  `json:"subscribers"`
}

// recordTimeLayouts are the timestamp shapes the API has been seen to emit.
var recordTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.9999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

// Time parses DateTime. ok is false when the value is empty or unparseable.
func (r HeroRecord) Time() (t time.Time, ok bool) {
	return ParseRecordTime(r.DateTime)
}

// ParseRecordTime parses an API or datetime-local timestamp.
func ParseRecordTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range recordTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FullText returns the post text with tab separators turned into line breaks.
func (r HeroRecord) FullText() string {
	return strings.ReplaceAll(r.Text, "\t", "\n")
}

// RecordField is one labelled field of a record, used by detail views.
type RecordField struct {
	Key   string
	Label string
	Value any
}

// Fields lists every field of the record in display order.
func (r HeroRecord) Fields() []RecordField {
	return []RecordField{
		{"id", "ID", r.ID},
		{"url", "Post URL", r.URL},
		{"urlWithOwner", "Post URL with owner", r.URLWithOwner},
		{"wallOwner", "Wall owner", r.WallOwner},
		{"postAuthor", "Post author", r.PostAuthor},
		{"dateTime", "Date", r.DateTime},
		{"text", "Text", r.FullText()},
		{"likes", "Likes", r.Likes},
		{"reposts", "Reposts", r.Reposts},
		{"comments", "Comments", r.Comments},
		{"views", "Views", r.Views},
		{"commentUrl", "Comment URL", r.CommentURL},
		{"authorName", "Author name", r.AuthorName},
		{"subscribers", "Subscribers", r.Subscribers},
	}
}

// RecordFilter is the hero records search form. Empty fields are not sent.
type RecordFilter struct {
	URL          string `json:"url,omitempty"`
	URLWithOwner string `json:"urlWithOwner,omitempty"`
	WallOwner    string `json:"wallOwner,omitempty"`
	PostAuthor   string `json:"postAuthor,omitempty"`
	Text         string `json:"text,omitempty"`
	CommentURL   string `json:"commentUrl,omitempty"`
	AuthorName   string `json:"authorName,omitempty"`
	FromDateTime string `json:"fromDateTime,omitempty"`
	ToDateTime   string `json:"toDateTime,omitempty"`
}

// RecordFilterField describes one input of the records search form.
type RecordFilterField struct {
	Key      string
	Label    string
	DateTime bool
}

// RecordFilterFields lists the search form inputs in display order.
var RecordFilterFields = []RecordFilterField{
	{Key: "url", Label: "Post URL"},
	{Key: "urlWithOwner", Label: "Post URL with owner"},
	{Key: "wallOwner", Label: "Wall owner"},
	{Key: "postAuthor", Label: "Post author"},
	{Key: "text", Label: "Post text"},
	{Key: "commentUrl", Label: "Comment URL"},
	{Key: "authorName", Label: "Author name"},
	{Key: "fromDateTime", Label: "From date", DateTime: true},
	{Key: "toDateTime", Label: "To date", DateTime: true},
}

// Get returns the form value for key.
func (f RecordFilter) Get(key string) string {
	if p := f.field(key); p != nil {
		return *p
	}
	return ""
}

// Set stores the form value for key; unknown keys are ignored.
func (f *RecordFilter) Set(key, value string) {
	if p := f.field(key); p != nil {
		*p = strings.TrimSpace(value)
	}
}

func (f *RecordFilter) field(key string) *string {
	switch key {
	case "url":
		return &f.URL
	case "urlWithOwner":
		return &f.URLWithOwner
	case "wallOwner":
		return &f.WallOwner
	case "postAuthor":
		return &f.PostAuthor
	case "text":
		return &f.Text
	case "commentUrl":
		return &f.CommentURL
	case "authorName":
		return &f.AuthorName
	case "fromDateTime":
		return &f.FromDateTime
	case "toDateTime":
		return &f.ToDateTime
	}
	return nil
}

// Classification is the category a record was marked with.
type Classification int

const (
	ClassSvo Classification = iota + 1
	ClassVov
	ClassWork
	ClassCombat
	ClassPersonal
	ClassUnmarked
	ClassNoHero
)

// Classifications lists every classification in form order.
var Classifications = []Classification{
	ClassSvo, ClassVov, ClassWork, ClassCombat, ClassPersonal, ClassUnmarked, ClassNoHero,
}

var classificationNames = map[Classification]string{
	ClassSvo:      "Svo",
	ClassVov:      "Vov",
	ClassWork:     "Work",
	ClassCombat:   "Combat",
	ClassPersonal: "Personal",
	ClassUnmarked: "Unmarked",
	ClassNoHero:   "NoHero",
}

var classificationLabels = map[string]string{
	"Svo":      "Heroes of the special military operation",
	"Vov":      "Heroes of the Great Patriotic War",
	"Work":     "Heroes of Labour, emergency services and police",
	"Combat":   "Heroes of military conflicts",
	"Personal": "Personal context",
	"Unmarked": "Not marked",
	"NoHero":   "No \"hero\" word",
}

// Name returns the key the API uses for the classification in count maps.
func (c Classification) Name() string {
	return classificationNames[c]
}

// Label returns the display label.
func (c Classification) Label() string {
	return ClassificationLabel(c.Name())
}

// ParseClassification accepts the classification number or its API key,
// ignoring case.
func ParseClassification(s string) (Classification, bool) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		c := Classification(n)
		return c, c.Name() != ""
	}
	for _, c := range Classifications {
		if strings.EqualFold(c.Name(), s) {
			return c, true
		}
	}
	return 0, false
}

// ClassificationLabel maps an API classification key to its label, falling back to the key.
func ClassificationLabel(name string) string {
	if l, ok := classificationLabels[name]; ok {
		return l
	}
	return name
}

// ChartFilter is the charts page form. Classification is sent as its number.
type ChartFilter struct {
	FromDateTime   string          `json:"fromDateTime,omitempty"`
	ToDateTime     string          `json:"toDateTime,omitempty"`
	Classification *Classification `json:"classification,omitempty"`
}

// ClassificationCounts maps classification keys ("Svo", "Vov", ...) to record counts.
type ClassificationCounts map[string]int

// CountSlice is one entry of a ClassificationCounts, ready for charting.
type CountSlice struct {
	Name  string `json:"name"`
	Label string `json:"label"`
	Value int    `json:"value"`
}

// Slices returns the counts in a stable order: known classifications first, then the rest by name.
func (c ClassificationCounts) Slices() []CountSlice {
	out := make([]CountSlice, 0, len(c))
	seen := make(map[string]bool, len(c))
	for _, cl := range Classifications {
		name := cl.Name()
		if v, ok := c[name]; ok {
			out = append(out, CountSlice{Name: name, Label: cl.Label(), Value: v})
			seen[name] = true
		}
	}
	var rest []string
	for name := range c {
		if !seen[name] {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	for _, name := range rest {
		out = append(out, CountSlice{Name: name, Label: ClassificationLabel(name), Value: c[name]})
	}
	return out
}

// Total sums all counts.
func (c ClassificationCounts) Total() int {
	n := 0
	for _, v := range c {
		n += v
	}
	return n
}

// MetricPoint is one day of engagement metrics.
type MetricPoint struct {
	Date    string  `json:"date"`
	VR      float64 `json:"vr"`
	ER      float64 `json:"er"`
	Average float64 `json:"average"`
}

// MarkResult is returned by POST /HeroRecords/Mark.
type MarkResult struct {
	MarkedCount          int `json:"markedCount"`
	NoHeroCount          int `json:"noHeroCount"`
	UnknownCategoryCount int `json:"unknownCategoryCount"`
}
