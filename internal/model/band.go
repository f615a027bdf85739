package model

import (
	"errors"
	"fmt"
)

// ErrInvalidBand reports a band whose base level is not strictly below its top level.
var ErrInvalidBand = errors.New("invalid level band")

// Band is the vertical slab between a base level and a top level.
type Band struct {
	Base Level `json:"base"`
	Top  Level `json:"top"`
}

// NewBand returns a band from base to top, rejecting base.Elevation >= top.Elevation.
func NewBand(base Level, top Level) (Band, error) {
	b := Band{Base: base, Top: top}
	if err := b.Validate(); err != nil {
		return Band{}, err
	}
	return b, nil
}

// Validate checks the elevation ordering.
func (b Band) Validate() error {
	if b.Base.Elevation >= b.Top.Elevation {
		return fmt.Errorf("%w: base %q (%g) must be below top %q (%g)", ErrInvalidBand, b.Base.Name, b.Base.Elevation, b.Top.Name, b.Top.Elevation)
	}
	return nil
}

func (b Band) String() string {
	return fmt.Sprintf("%s..%s", b.Base.Name, b.Top.Name)
}
