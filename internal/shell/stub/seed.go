package stub

import (
	"context"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/xcalota/panel/internal/core/domain"
	"github.com/xcalota/panel/internal/shell/store"
)

// =============================================================================
// Seed File
// =============================================================================

// Seed is the YAML seed file format:
//
//	restaurants:
//	  - name: Pizza Joe
//	    slug: pizza-joe
//	  - name: Maria Açaí      # slug derived from the name
type Seed struct {
	Restaurants []SeedRestaurant `yaml:"restaurants"`
}

// SeedRestaurant is one seeded record. ID and Slug are optional.
type SeedRestaurant struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
	Slug string `yaml:"slug"`
}

// LoadSeed reads and parses a seed file.
func LoadSeed(path string) (*Seed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	return ParseSeed(data)
}

// ParseSeed parses seed YAML. Every record needs a name.
func ParseSeed(data []byte) (*Seed, error) {
	var seed Seed
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}
	for i, r := range seed.Restaurants {
		if strings.TrimSpace(r.Name) == "" {
			return nil, fmt.Errorf("seed restaurant %d: %w", i, domain.ErrNameRequired)
		}
	}
	return &seed, nil
}

// Apply inserts the seeded restaurants in one transaction.
func (s *Seed) Apply(ctx context.Context, st store.Store) (int, error) {
	err := st.WithTx(ctx, func(tx store.Store) error {
		for _, r := range s.Restaurants {
			slug := strings.TrimSpace(r.Slug)
			if slug == "" {
				slug = domain.Slugify(r.Name)
			}
			rest := &domain.Restaurant{
				ID:   r.ID,
				Name: strings.TrimSpace(r.Name),
				Slug: slug,
			}
			if err := tx.CreateRestaurant(ctx, rest); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(s.Restaurants), nil
}
