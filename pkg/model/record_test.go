package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseRecordTime(t *testing.T) {
	for _, s := range []string{
		"2024-05-09T10:30:00Z",
		"2024-05-09T10:30:00.1234567",
		"2024-05-09T10:30:00",
		"2024-05-09T10:30",
	} {
		tm, ok := ParseRecordTime(s)
		assert.True(t, ok, s)
		assert.Equal(t, 2024, tm.Year(), s)
		assert.Equal(t, 30, tm.Minute(), s)
	}

	_, ok := ParseRecordTime("yesterday")
	assert.False(t, ok)
	_, ok = ParseRecordTime("")
	assert.False(t, ok)
}

func TestHeroRecord_FullText(t *testing.T) {
	r := HeroRecord{Text: "line one\tline two"}
	assert.Equal(t, "line one\nline two", r.FullText())
}

func TestRecordFilter_GetSet(t *testing.T) {
	var f RecordFilter
	for _, field := range RecordFilterFields {
		f.Set(field.Key, "  v-"+field.Key+" ")
	}
	for _, field := range RecordFilterFields {
		assert.Equal(t, "v-"+field.Key, f.Get(field.Key))
	}
	f.Set("unknown", "x")
	assert.Equal(t, "", f.Get("unknown"))
}

func TestClassificationCounts_Slices(t *testing.T) {
	c := ClassificationCounts{"Personal": 2, "Svo": 5, "Zeta": 1, "Alpha": 3}
	s := c.Slices()

	names := make([]string, len(s))
	for i, e := range s {
		names[i] = e.Name
	}
	assert.Equal(t, []string{"Svo", "Personal", "Alpha", "Zeta"}, names)
	assert.Equal(t, ClassSvo.Label(), s[0].Label)
	assert.Equal(t, "Zeta", s[3].Label)
	assert.Equal(t, 11, c.Total())
}

func TestParseUserRole(t *testing.T) {
	r, ok := ParseUserRole("2")
	assert.True(t, ok)
	assert.Equal(t, RoleAdmin, r)

	r, ok = ParseUserRole("user")
	assert.True(t, ok)
	assert.Equal(t, RoleUser, r)

	_, ok = ParseUserRole("3")
	assert.False(t, ok)
	assert.Equal(t, "—", UserRole(9).Label())
}

func TestCreateUserRequest_Validate(t *testing.T) {
	ok := CreateUserRequest{Email: "a@b.c", Password: "pw", Role: RoleUser}
	assert.NoError(t, ok.Validate("pw"))

	cases := map[string]struct {
		req     CreateUserRequest
		confirm string
		field   string
	}{
		"missing email":    {CreateUserRequest{Password: "pw", Role: RoleUser}, "pw", "email"},
		"missing password": {CreateUserRequest{Email: "a@b.c", Role: RoleUser}, "", "password"},
		"mismatch":         {ok, "other", "confirm"},
		"bad role":         {CreateUserRequest{Email: "a@b.c", Password: "pw"}, "pw", "role"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			err := tc.req.Validate(tc.confirm)
			var vErr *ValidationError
			if assert.ErrorAs(t, err, &vErr) {
				assert.Equal(t, tc.field, vErr.Field)
			}
		})
	}
}

func TestParseClassification(t *testing.T) {
	c, ok := ParseClassification("3")
	assert.True(t, ok)
	assert.Equal(t, ClassWork, c)

	c, ok = ParseClassification("nohero")
	assert.True(t, ok)
	assert.Equal(t, ClassNoHero, c)

	_, ok = ParseClassification("8")
	assert.False(t, ok)
	_, ok = ParseClassification("")
	assert.False(t, ok)
}
