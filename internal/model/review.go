package model

// Review is a rating left by a user on a place. A user reviews a given place
// at most once, enforced by the idx_review_user_place unique index.
type Review struct {
	Base
	Text    string `gorm:"type:text;not null" json:"text"`
	Rating  int    `gorm:"not null" json:"rating"`
	PlaceID string `gorm:"size:36;not null;uniqueIndex:idx_review_user_place,priority:2" json:"place_id"`
	UserID  string `gorm:"size:36;not null;uniqueIndex:idx_review_user_place,priority:1" json:"user_id"`
	Place   *Place `gorm:"foreignKey:PlaceID;constraint:OnDelete:CASCADE" json:"-"`
	User    *User  `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

// NewReview builds and validates a review.
func NewReview(text string, rating int, placeID, userID string) (*Review, error) {
	r := &Review{
		Base:    NewBase(),
		Text:    text,
		Rating:  rating,
		PlaceID: placeID,
		UserID:  userID,
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return r, nil
}

// Validate checks the text, rating and references.
func (r *Review) Validate() error {
	if err := ValidateText(r.Text); err != nil {
		return err
	}
	if err := ValidateRating(r.Rating); err != nil {
		return err
	}
	if r.PlaceID == "" {
		return errPlaceRequired
	}
	if r.UserID == "" {
		return errUserRequired
	}
	return nil
}

// Attribute returns the value of a lookup column.
func (r *Review) Attribute(field string) (any, bool) {
	switch field {
	case "id":
		return r.ID, true
	case "place_id":
		return r.PlaceID, true
	case "user_id":
		return r.UserID, true
	case "rating":
		return r.Rating, true
	}
	return nil, false
}

// ReviewPatch lists the mutable review fields.
type ReviewPatch struct {
	Text   *string
	Rating *int
}

// Apply copies the set fields onto r.
func (p ReviewPatch) Apply(r *Review) {
	if p.Text != nil {
		r.Text = *p.Text
	}
	if p.Rating != nil {
		r.Rating = *p.Rating
	}
}
