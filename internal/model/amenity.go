package model

import "strings"

// Amenity is a named feature (wifi, pool, ...) that places can offer.
type Amenity struct {
	Base
	Name string `gorm:"size:50;not null;uniqueIndex" json:"name"`
}

// NewAmenity builds and validates an amenity.
func NewAmenity(name string) (*Amenity, error) {
	a := &Amenity{Base: NewBase(), Name: strings.TrimSpace(name)}
	if err := a.Validate(); err != nil {
		return nil, err
	}
	return a, nil
}

// Validate checks the name.
func (a *Amenity) Validate() error {
	return ValidateName("Name", a.Name)
}

// Attribute returns the value of a lookup column.
func (a *Amenity) Attribute(field string) (any, bool) {
	switch field {
	case "id":
		return a.ID, true
	case "name":
		return a.Name, true
	}
	return nil, false
}

// AmenityPatch lists the mutable amenity fields.
type AmenityPatch struct {
	Name *string
}

// Apply copies the set fields onto a.
func (p AmenityPatch) Apply(a *Amenity) {
	if p.Name != nil {
		a.Name = strings.TrimSpace(*p.Name)
	}
}
