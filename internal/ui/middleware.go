package ui

import (
	"context"
	"net/http"

	"github.com/me/heroconsole/internal/apiclient"
	"github.com/me/heroconsole/internal/session"
	"github.com/me/heroconsole/pkg/model"
)

// Context keys for session data.
type contextKey string

const (
	sessionContextKey contextKey = "session"
	guardContextKey   contextKey = "auth_guard"
)

// SessionFromContext retrieves the session from the request context.
func SessionFromContext(ctx context.Context) *model.Session {
	sess, _ := ctx.Value(sessionContextKey).(*model.Session)
	return sess
}

// Gate returns middleware that loads the browser session, applies
// session.Gate for the access class and adds the session to the context.
// A session past half its lifetime is extended and its cookie re-issued.
func (ui *UI) Gate(access session.Access) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := SessionFromContext(r.Context())
			if sess == nil {
				var err error
				sess, err = ui.sessions.GetSessionFromRequest(r)
				if err != nil {
					ui.logger.Error("session lookup failed", "error", err)
					sess = nil
				}
				if extended, err := ui.sessions.Refresh(r.Context(), sess); err != nil {
					ui.logger.Warn("session refresh failed", "error", err)
				} else if extended {
					SetSessionCookie(w, sess, ui.secure)
				}
			}

			switch session.Gate(stateOf(sess), access) {
			case session.RedirectLogin:
				http.Redirect(w, r, "/login", http.StatusSeeOther)
				return
			case session.RedirectHome:
				http.Redirect(w, r, "/", http.StatusSeeOther)
				return
			}

			if sess != nil {
				r = r.WithContext(context.WithValue(r.Context(), sessionContextKey, sess))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// authGuard swallows the handler's output once the API has rejected the
// session's token, so the guard middleware can answer with a login redirect.
type authGuard struct {
	http.ResponseWriter
	expired     bool
	wroteHeader bool
}

func (g *authGuard) expire() {
	g.expired = true
	g.Header().Del("Content-Disposition")
	// A cookie re-issued by Gate would outlive the deleted session.
	g.Header().Del("Set-Cookie")
}

func (g *authGuard) WriteHeader(code int) {
	if g.expired {
		return
	}
	g.wroteHeader = true
	g.ResponseWriter.WriteHeader(code)
}

func (g *authGuard) Write(b []byte) (int, error) {
	if g.expired {
		return len(b), nil
	}
	g.wroteHeader = true
	return g.ResponseWriter.Write(b)
}

// UnauthorizedGuard turns any page whose API call came back 401 into a
// redirect to the login page. The browser session is already gone by then.
func (ui *UI) UnauthorizedGuard(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		g := &authGuard{ResponseWriter: w}
		ctx := context.WithValue(r.Context(), guardContextKey, g)
		next.ServeHTTP(g, r.WithContext(ctx))

		if g.expired && !g.wroteHeader {
			ClearSessionCookie(w)
			http.Redirect(w, r, "/login", http.StatusSeeOther)
		}
	})
}

// api returns an API client bound to the request's browser session.
func (ui *UI) api(r *http.Request) *apiclient.Client {
	creds := &sessionCredentials{sm: ui.sessions, ctx: r.Context(), sess: SessionFromContext(r.Context())}
	g, _ := r.Context().Value(guardContextKey).(*authGuard)
	return apiclient.New(ui.apiURL, creds, ui.apiLogger,
		apiclient.WithHTTPClient(ui.httpClient),
		apiclient.WithUnauthorizedHandler(func() {
			if g != nil {
				g.expire()
			}
		}),
	)
}
