package model

// Place is a rental listing owned by a user. Amenities are linked through
// the place_amenities join table; deleting the owner deletes the place.
type Place struct {
	Base
	Title       string    `gorm:"size:255;not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	Price       float64   `gorm:"not null" json:"price"`
	Latitude    float64   `gorm:"not null" json:"latitude"`
	Longitude   float64   `gorm:"not null" json:"longitude"`
	OwnerID     string    `gorm:"size:36;not null;index" json:"owner_id"`
	Owner       *User     `gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE" json:"-"`
	Amenities   []Amenity `gorm:"many2many:place_amenities;constraint:OnDelete:CASCADE" json:"-"`
}

// NewPlace builds and validates a place for ownerID.
func NewPlace(title, description string, price, latitude, longitude float64, ownerID string) (*Place, error) {
	p := &Place{
		Base:        NewBase(),
		Title:       title,
		Description: description,
		Price:       price,
		Latitude:    latitude,
		Longitude:   longitude,
		OwnerID:     ownerID,
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Validate checks the title, price and coordinates.
func (p *Place) Validate() error {
	if err := ValidateTitle(p.Title); err != nil {
		return err
	}
	if err := ValidatePrice(p.Price); err != nil {
		return err
	}
	if err := ValidateLatitude(p.Latitude); err != nil {
		return err
	}
	if err := ValidateLongitude(p.Longitude); err != nil {
		return err
	}
	if p.OwnerID == "" {
		return errOwnerRequired
	}
	return nil
}

// Attribute returns the value of a lookup column.
func (p *Place) Attribute(field string) (any, bool) {
	switch field {
	case "id":
		return p.ID, true
	case "title":
		return p.Title, true
	case "owner_id":
		return p.OwnerID, true
	}
	return nil, false
}

// HasAmenity reports whether the amenity is already linked.
func (p *Place) HasAmenity(amenityID string) bool {
	for _, a := range p.Amenities {
		if a.ID == amenityID {
			return true
		}
	}
	return false
}

// PlacePatch lists the mutable place fields. The owner cannot change.
type PlacePatch struct {
	Title       *string
	Description *string
	Price       *float64
	Latitude    *float64
	Longitude   *float64
}

// Apply copies the set fields onto p.
func (pp PlacePatch) Apply(p *Place) {
	if pp.Title != nil {
		p.Title = *pp.Title
	}
	if pp.Description != nil {
		p.Description = *pp.Description
	}
	if pp.Price != nil {
		p.Price = *pp.Price
	}
	if pp.Latitude != nil {
		p.Latitude = *pp.Latitude
	}
	if pp.Longitude != nil {
		p.Longitude = *pp.Longitude
	}
}
