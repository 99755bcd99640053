package panel

import (
	"github.com/xcalota/panel/internal/core/catalog"
	"github.com/xcalota/panel/internal/core/domain"
	"github.com/xcalota/panel/internal/core/notice"
)

// Card is one rendered restaurant.
type Card struct {
	Key        string `json:"key"`
	Name       string `json:"name"`
	SlugLabel  string `json:"slug_label"`
	PublicPath string `json:"public_path"`
}

// View is a snapshot of everything the screen renders.
type View struct {
	Query     string         `json:"query"`
	Cards     []Card         `json:"cards"`
	Stats     catalog.Stats  `json:"stats"`
	Loading   bool           `json:"loading"`
	Creating  bool           `json:"creating"`
	ListError string         `json:"list_error,omitempty"`
	Form      Form           `json:"form"`
	Notice    *notice.Notice `json:"notice,omitempty"`
}

// Empty reports whether there is nothing to show and no error to explain it.
func (v View) Empty() bool {
	return len(v.Cards) == 0 && v.ListError == ""
}

// View renders the current state filtered by query.
func (p *Panel) View(query string) View {
	p.mu.Lock()
	defer p.mu.Unlock()

	shown := catalog.Filter(p.restaurants, query)
	v := View{
		Query:     query,
		Cards:     make([]Card, 0, len(shown)),
		Stats:     catalog.Summarize(p.restaurants, shown),
		Loading:   p.loading > 0,
		Creating:  p.creating,
		ListError: p.listError,
		Form:      p.form,
	}
	for _, r := range shown {
		v.Cards = append(v.Cards, cardFor(r))
	}
	if p.notice.Visible(p.now()) {
		n := p.notice
		v.Notice = &n
	}
	return v
}

func cardFor(r domain.Restaurant) Card {
	return Card{
		Key:        r.Key(),
		Name:       r.DisplayName(),
		SlugLabel:  r.SlugLabel(),
		PublicPath: r.PublicPath(),
	}
}
