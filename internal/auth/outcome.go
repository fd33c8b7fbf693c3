package auth

import (
	"context"
	"net/http"
)

type outcomeKind int

const (
	kindContinue outcomeKind = iota
	kindRedirect
	kindReject
)

// Outcome is the decision a Guard makes about a request.
type Outcome struct {
	kind   outcomeKind
	ctx    context.Context
	target string
	status int
}

// Continue passes the request on with ctx, which may carry an identity.
func Continue(ctx context.Context) Outcome {
	return Outcome{kind: kindContinue, ctx: ctx}
}

// Redirect sends the client to target with 302 Found.
func Redirect(target string) Outcome {
	return Outcome{kind: kindRedirect, target: target}
}

// Reject ends the request with status.
func Reject(status int) Outcome {
	return Outcome{kind: kindReject, status: status}
}

func (o Outcome) Continues() bool          { return o.kind == kindContinue }
func (o Outcome) Context() context.Context { return o.ctx }
func (o Outcome) Target() string           { return o.target }
func (o Outcome) Status() int              { return o.status }

// A Guard inspects a request and decides whether it proceeds.
type Guard func(*http.Request) Outcome

// Chain runs guards in order, handing each the context produced by the
// previous Continue. It stops at the first outcome that does not continue.
func Chain(guards ...Guard) Guard {
	return func(r *http.Request) Outcome {
		out := Continue(r.Context())
		for _, g := range guards {
			out = g(r.WithContext(out.ctx))
			if !out.Continues() {
				return out
			}
		}
		return out
	}
}

// Use adapts g into router middleware.
func Use(g Guard) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			out := g(r)
			switch out.kind {
			case kindContinue:
				next.ServeHTTP(w, r.WithContext(out.ctx))
			case kindRedirect:
				http.Redirect(w, r, out.target, http.StatusFound)
			default:
				http.Error(w, http.StatusText(out.status), out.status)
			}
		})
	}
}
