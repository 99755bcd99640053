// Package panel holds the state behind the restaurant panel screen: the
// in-memory list, the create form, the in-flight flag and the current notice.
// It drives the restaurant API client and turns its failures into notices.
package panel

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/xcalota/panel/internal/core/catalog"
	"github.com/xcalota/panel/internal/core/domain"
	"github.com/xcalota/panel/internal/core/notice"
	"github.com/xcalota/panel/internal/shell/restapi"
)

// ErrSubmitInFlight is returned when a submit arrives while another one is
// still waiting for the API.
var ErrSubmitInFlight = errors.New("a create request is already in flight")

// =============================================================================
// Panel
// =============================================================================

// Config holds panel configuration.
type Config struct {
	Client    restapi.Client
	NoticeTTL time.Duration
	Logger    *slog.Logger

	// Now is the clock used for notices. Defaults to time.Now.
	Now func() time.Time
}

// Panel is the state of one panel screen. It is safe for concurrent use;
// network calls run outside the lock.
type Panel struct {
	client    restapi.Client
	noticeTTL time.Duration
	logger    *slog.Logger
	now       func() time.Time

	mu          sync.Mutex
	restaurants []domain.Restaurant
	listError   string
	loading     int
	creating    bool
	form        Form
	notice      notice.Notice
}

// New creates a panel with an empty list.
func New(cfg Config) *Panel {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.NoticeTTL <= 0 {
		cfg.NoticeTTL = notice.DefaultTTL
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	return &Panel{
		client:      cfg.Client,
		noticeTTL:   cfg.NoticeTTL,
		logger:      cfg.Logger,
		now:         cfg.Now,
		restaurants: []domain.Restaurant{},
	}
}

// Refresh re-reads the list from the API.
// On failure the list becomes empty and ListError is set; the error is
// returned for logging only.
func (p *Panel) Refresh(ctx context.Context) error {
	p.mu.Lock()
	p.loading++
	p.listError = ""
	p.mu.Unlock()

	list, err := p.client.List(ctx)

	p.mu.Lock()
	defer p.mu.Unlock()
	p.loading--

	if err != nil {
		p.logger.Warn("failed to list restaurants", "error", err)
		p.restaurants = []domain.Restaurant{}
		p.listError = notice.MsgListFailed
		return err
	}

	p.restaurants = list
	return nil
}

// Submit validates the form input and creates a restaurant.
//
// Validation failures and API failures become error notices and leave the
// list untouched. On success the form is cleared, a success notice is shown
// and the list is re-read; if the re-read comes back empty the created
// record is shown on its own.
func (p *Panel) Submit(ctx context.Context, name, slug string) (domain.Restaurant, error) {
	draft, err := domain.NewDraft(name, slug)
	if err != nil {
		p.mu.Lock()
		p.form = Form{Name: name, Slug: slug, slugTyped: slug != ""}
		p.showLocked(notice.KindError, notice.MsgFillRequired)
		p.mu.Unlock()
		return domain.Restaurant{}, err
	}

	p.mu.Lock()
	if p.creating {
		p.showLocked(notice.KindInfo, notice.MsgSubmitPending)
		p.mu.Unlock()
		return domain.Restaurant{}, ErrSubmitInFlight
	}
	p.creating = true
	p.form = Form{Name: name, Slug: slug, slugTyped: slug != ""}
	p.mu.Unlock()

	defer func() {
		p.mu.Lock()
		p.creating = false
		p.mu.Unlock()
	}()

	created, err := p.client.Create(ctx, draft)
	if err != nil {
		p.logger.Warn("failed to create restaurant",
			"error", err,
			"slug", draft.Slug,
		)
		p.mu.Lock()
		p.showLocked(notice.KindError, notice.MsgCreateFailed)
		p.mu.Unlock()
		return domain.Restaurant{}, err
	}

	p.logger.Info("restaurant created",
		"id", created.ID,
		"slug", created.Slug,
	)

	p.mu.Lock()
	p.form = Form{}
	p.showLocked(notice.KindSuccess, notice.MsgCreated)
	p.mu.Unlock()

	// A failed re-list already empties the list; the fallback below covers it.
	_ = p.Refresh(ctx)

	p.mu.Lock()
	if len(p.restaurants) == 0 {
		p.restaurants = catalog.AfterCreate(p.restaurants, created)
		p.listError = ""
	}
	p.mu.Unlock()

	return created, nil
}

// Notify shows an informational or custom notice, replacing the current one.
func (p *Panel) Notify(kind notice.Kind, message string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.showLocked(kind, message)
}

// Restaurants returns a copy of the in-memory list.
func (p *Panel) Restaurants() []domain.Restaurant {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]domain.Restaurant, len(p.restaurants))
	copy(out, p.restaurants)
	return out
}

// Notice returns the current notice if it is still visible.
func (p *Panel) Notice() (notice.Notice, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.notice.Visible(p.now()) {
		return notice.Notice{}, false
	}
	return p.notice, true
}

// showLocked replaces the current notice. Caller holds p.mu.
func (p *Panel) showLocked(kind notice.Kind, message string) {
	p.notice = notice.New(kind, message, p.now(), p.noticeTTL)
}
