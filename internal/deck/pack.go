package deck

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

// The two system packs that always exist. Their IDs are fixed so they
// survive resets and can be referenced without a lookup.
const (
	AllCardsPackID      = "pack-all"
	RecentlyAddedPackID = "pack-recent"
)

var validate = validator.New()

// Pack is a named grouping of cards. Deleting a pack never deletes cards,
// it only strips the pack id from their membership sets.
type Pack struct {
	ID          string    `json:"id"`
	Name        string    `json:"name" validate:"required,min=1,max=50"`
	Description string    `json:"description" validate:"max=200"`
	Color       string    `json:"color" validate:"hexcolor"`
	IsDefault   bool      `json:"is_default"`
	CreatedAt   time.Time `json:"created_at"`
}

// Validate checks the pack's field constraints (name 1-50 chars,
// description up to 200, color #RRGGBB).
func (p *Pack) Validate() error {
	if err := validate.Struct(p); err != nil {
		return fmt.Errorf("invalid pack: %w", err)
	}
	return nil
}

// System reports whether this is one of the built-in packs.
func (p *Pack) System() bool {
	return p.ID == AllCardsPackID || p.ID == RecentlyAddedPackID
}

// NewPack creates a user pack. User packs are never default.
func NewPack(name, description, color string, now time.Time) (*Pack, error) {
	id, err := gonanoid.New()
	if err != nil {
		return nil, fmt.Errorf("generate pack id: %w", err)
	}

	p := &Pack{
		ID:          id,
		Name:        name,
		Description: description,
		Color:       color,
		CreatedAt:   now,
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// SystemPacks returns fresh copies of the two built-in packs.
func SystemPacks(now time.Time) []Pack {
	return []Pack{
		{
			ID:        AllCardsPackID,
			Name:      "All Cards",
			Color:     "#4F46E5",
			IsDefault: true,
			CreatedAt: now,
		},
		{
			ID:        RecentlyAddedPackID,
			Name:      "Recently Added",
			Color:     "#10B981",
			IsDefault: true,
			CreatedAt: now,
		},
	}
}
