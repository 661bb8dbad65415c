package session_test

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/me/heroconsole/internal/session"
	"github.com/me/heroconsole/internal/session/sessiontest"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestDecodeRole(t *testing.T) {
	t.Run("role claim", func(t *testing.T) {
		assert.Equal(t, "Admin", session.DecodeRole(sessiontest.Token("Admin")))
	})

	t.Run("short role claim", func(t *testing.T) {
		tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"role": "User"}).SignedString([]byte("k"))
		require.NoError(t, err)
		assert.Equal(t, "User", session.DecodeRole(tok))
	})

	t.Run("role list", func(t *testing.T) {
		tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			session.RoleClaim: []string{"Admin", "User"},
		}).SignedString([]byte("k"))
		require.NoError(t, err)
		assert.Equal(t, "Admin", session.DecodeRole(tok))
	})

	t.Run("no role", func(t *testing.T) {
		assert.Equal(t, "", session.DecodeRole(sessiontest.Token("")))
	})

	t.Run("malformed", func(t *testing.T) {
		assert.Equal(t, "", session.DecodeRole("not-a-jwt"))
		assert.Equal(t, "", session.DecodeRole("a.b.c"))
		assert.Equal(t, "", session.DecodeRole(""))
	})
}

func TestManager_MalformedTokenIsAuthenticatedWithoutRole(t *testing.T) {
	m := session.NewManager(session.NewMemoryStore("garbage"), testLogger())

	st := m.Current()
	assert.True(t, st.Authenticated)
	assert.Equal(t, "", st.Role)
	assert.False(t, st.IsAdmin())
}

func TestManager_LoginLogoutNotify(t *testing.T) {
	store := session.NewMemoryStore("")
	m := session.NewManager(store, testLogger())
	assert.False(t, m.Current().Authenticated)

	var seen []session.State
	unsubscribe := m.Subscribe(func(st session.State) { seen = append(seen, st) })

	tok := sessiontest.Token("Admin")
	require.NoError(t, m.Login(tok))
	assert.Equal(t, tok, store.Token())
	assert.True(t, m.Current().IsAdmin())

	require.NoError(t, m.Logout())
	assert.Equal(t, "", store.Token())
	assert.False(t, m.Current().Authenticated)

	require.Len(t, seen, 2)
	assert.Equal(t, "Admin", seen[0].Role)
	assert.False(t, seen[1].Authenticated)

	unsubscribe()
	require.NoError(t, m.Login(tok))
	assert.Len(t, seen, 2, "unsubscribed observer must not be called")
}

func TestManager_ClearActsAsLogout(t *testing.T) {
	m := session.NewManager(session.NewMemoryStore(sessiontest.Token("User")), testLogger())
	calls := 0
	m.Subscribe(func(session.State) { calls++ })

	var store session.CredentialStore = m
	require.NoError(t, store.Clear())

	assert.Equal(t, 1, calls)
	assert.Equal(t, "", store.Token())
}

func TestFileStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "credentials.json")
	fs := session.NewFileStore(path)

	assert.Equal(t, "", fs.Token())
	require.NoError(t, fs.SetToken("tok-1"))
	assert.Equal(t, "tok-1", fs.Token())

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	require.NoError(t, fs.Clear())
	assert.Equal(t, "", fs.Token())
	require.NoError(t, fs.Clear(), "clearing twice is fine")
}

func TestGate(t *testing.T) {
	anon := session.State{}
	user := session.State{Token: "t", Authenticated: true, Role: "User"}
	admin := session.State{Token: "t", Authenticated: true, Role: "Admin"}

	tests := []struct {
		name   string
		state  session.State
		access session.Access
		want   session.Decision
	}{
		{"anon public", anon, session.Public, session.Allow},
		{"anon login page", anon, session.GuestOnly, session.Allow},
		{"user login page", user, session.GuestOnly, session.RedirectHome},
		{"anon protected", anon, session.Protected, session.RedirectLogin},
		{"user protected", user, session.Protected, session.Allow},
		{"anon admin", anon, session.AdminOnly, session.RedirectLogin},
		{"user admin", user, session.AdminOnly, session.RedirectHome},
		{"admin admin", admin, session.AdminOnly, session.Allow},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, session.Gate(tt.state, tt.access))
		})
	}
}

func TestLoginLogoutGatesAdminRoutes(t *testing.T) {
	m := session.NewManager(session.NewMemoryStore(""), testLogger())

	require.NoError(t, m.Login(sessiontest.Token("Admin")))
	assert.Equal(t, "Admin", m.Current().Role)
	assert.Equal(t, session.Allow, session.Gate(m.Current(), session.AdminOnly))

	require.NoError(t, m.Logout())
	assert.Equal(t, "", m.Token())
	assert.Equal(t, session.RedirectLogin, session.Gate(m.Current(), session.AdminOnly))
}
