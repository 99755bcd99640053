// Package notice models the transient notifications shown to panel users.
// Notices carry their own expiry so callers decide visibility from a clock
// instead of running timers.
package notice

import "time"

// DefaultTTL is how long a notice stays visible.
const DefaultTTL = 3200 * time.Millisecond

// Kind classifies a notice for styling.
type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
	KindInfo    Kind = "info"
)

// User-facing messages.
const (
	MsgCreated       = "Restaurante criado com sucesso!"
	MsgCreateFailed  = "Erro ao criar restaurante. Verifique os dados."
	MsgFillRequired  = "Preencha nome e slug."
	MsgSubmitPending = "Aguarde: o restaurante anterior ainda está sendo criado."
	MsgListFailed    = "Não consegui carregar a lista de restaurantes. Verifique se existe GET /api/restaurants."
	MsgRoadmap       = "Em breve: páginas públicas por slug."
	MsgEditSoon      = "Em breve: editar e configurar cardápio."
)

// Notice is a message shown for a limited time.
type Notice struct {
	Kind    Kind          `json:"kind"`
	Message string        `json:"message"`
	ShownAt time.Time     `json:"shown_at"`
	TTL     time.Duration `json:"-"`
}

// New creates a notice shown at now. A non-positive ttl uses DefaultTTL.
func New(kind Kind, message string, now time.Time, ttl time.Duration) Notice {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return Notice{Kind: kind, Message: message, ShownAt: now, TTL: ttl}
}

// ExpiresAt returns when the notice dismisses itself.
func (n Notice) ExpiresAt() time.Time {
	return n.ShownAt.Add(n.TTL)
}

// Visible reports whether the notice should still be shown at now.
func (n Notice) Visible(now time.Time) bool {
	if n.Message == "" {
		return false
	}
	return now.Before(n.ExpiresAt())
}
