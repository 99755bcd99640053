package panel

import "github.com/xcalota/panel/internal/core/domain"

// Form is the create form. The slug field follows the name field with a
// suggested slug until the user types a slug of their own.
type Form struct {
	Name string `json:"name"`
	Slug string `json:"slug"`

	slugTyped bool
}

// SetName updates the name and, unless a slug was typed, the suggested slug.
func (f *Form) SetName(name string) {
	f.Name = name
	if !f.slugTyped {
		f.Slug = domain.Slugify(name)
	}
}

// SetSlug records a typed slug. Clearing the field hands it back to the
// suggestion.
func (f *Form) SetSlug(slug string) {
	f.Slug = slug
	f.slugTyped = slug != ""
	if !f.slugTyped {
		f.Slug = domain.Slugify(f.Name)
	}
}

// SetName updates the panel's form name field.
func (p *Panel) SetName(name string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.form.SetName(name)
}

// SetSlug updates the panel's form slug field.
func (p *Panel) SetSlug(slug string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.form.SetSlug(slug)
}

// Form returns the current form contents.
func (p *Panel) Form() Form {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.form
}
