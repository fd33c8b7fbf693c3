package session

import (
	"context"
	"net/http"
)

// Category selects one of the four flash slots.
type Category string

const (
	Success Category = "success"
	Error   Category = "error"
	Info    Category = "info"
	Warning Category = "warning"
)

// Categories lists the flash slots in display order.
var Categories = []Category{Success, Error, Info, Warning}

func (c Category) key() string {
	return "flash_" + string(c)
}

// Message is a single flash message.
type Message struct {
	Category Category
	Text     string
}

// Flash holds the messages taken from a session for one request. The zero
// value has no messages.
type Flash struct {
	Success string
	Error   string
	Info    string
	Warning string
}

// Get returns the message in slot c.
func (f Flash) Get(c Category) string {
	switch c {
	case Success:
		return f.Success
	case Error:
		return f.Error
	case Info:
		return f.Info
	case Warning:
		return f.Warning
	}
	return ""
}

// Messages returns the non-empty slots in display order.
func (f Flash) Messages() []Message {
	var out []Message
	for _, c := range Categories {
		if text := f.Get(c); text != "" {
			out = append(out, Message{Category: c, Text: text})
		}
	}
	return out
}

// Empty reports whether no slot is set.
func (f Flash) Empty() bool {
	return f == Flash{}
}

// SetFlash writes msg into slot c, replacing any earlier message in that slot.
func (m *Manager) SetFlash(ctx context.Context, c Category, msg string) {
	m.sm.Put(ctx, c.key(), msg)
}

// TakeFlash reads and clears all four slots. The clearing write is persisted
// with the rest of the session when the request commits, so a message is seen
// by exactly one request. Two concurrent requests on the same session may both
// see it; the last commit wins.
func (m *Manager) TakeFlash(ctx context.Context) Flash {
	return Flash{
		Success: m.sm.PopString(ctx, Success.key()),
		Error:   m.sm.PopString(ctx, Error.key()),
		Info:    m.sm.PopString(ctx, Info.key()),
		Warning: m.sm.PopString(ctx, Warning.key()),
	}
}

type flashKey struct{}

// FlashMiddleware takes the pending flash messages and exposes them to the
// rest of the request via FlashFromContext.
func (m *Manager) FlashMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f := m.TakeFlash(r.Context())
		ctx := context.WithValue(r.Context(), flashKey{}, f)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// FlashFromContext returns the messages taken by FlashMiddleware.
func FlashFromContext(ctx context.Context) Flash {
	f, _ := ctx.Value(flashKey{}).(Flash)
	return f
}
