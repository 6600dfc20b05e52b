package model

// User represents an account as stored in the `users` table. The password
// hash never leaves the process: it is excluded from JSON.
//
// Fields:
//  FirstName    – 1..50 characters.
//  LastName     – 1..50 characters.
//  Email        – unique, normalized to lower case.
//  PasswordHash – bcrypt hash of the password.
//  IsAdmin      – grants access to admin-only routes.
type User struct {
	Base
	FirstName    string `gorm:"size:50;not null" json:"first_name"`
	LastName     string `gorm:"size:50;not null" json:"last_name"`
	Email        string `gorm:"size:120;not null;uniqueIndex" json:"email"`
	PasswordHash string `gorm:"size:128;not null" json:"-"`
	IsAdmin      bool   `gorm:"not null;default:false" json:"is_admin"`
}

// NewUser builds and validates a user. passwordHash must already be hashed.
func NewUser(firstName, lastName, email, passwordHash string, isAdmin bool) (*User, error) {
	u := &User{
		Base:         NewBase(),
		FirstName:    firstName,
		LastName:     lastName,
		Email:        NormalizeEmail(email),
		PasswordHash: passwordHash,
		IsAdmin:      isAdmin,
	}
	if err := u.Validate(); err != nil {
		return nil, err
	}
	return u, nil
}

// Validate checks every field rule of a user.
func (u *User) Validate() error {
	if err := ValidateName("First name", u.FirstName); err != nil {
		return err
	}
	if err := ValidateName("Last name", u.LastName); err != nil {
		return err
	}
	if err := ValidateEmail(u.Email); err != nil {
		return err
	}
	if u.PasswordHash == "" {
		return errPasswordRequired
	}
	return nil
}

// Attribute returns the value of a lookup column.
func (u *User) Attribute(field string) (any, bool) {
	switch field {
	case "id":
		return u.ID, true
	case "email":
		return u.Email, true
	case "first_name":
		return u.FirstName, true
	case "last_name":
		return u.LastName, true
	case "is_admin":
		return u.IsAdmin, true
	}
	return nil, false
}

// UserPatch lists the mutable user fields; nil means "leave unchanged".
type UserPatch struct {
	FirstName    *string
	LastName     *string
	Email        *string
	PasswordHash *string
	IsAdmin      *bool
}

// Apply copies the set fields onto u.
func (p UserPatch) Apply(u *User) {
	if p.FirstName != nil {
		u.FirstName = *p.FirstName
	}
	if p.LastName != nil {
		u.LastName = *p.LastName
	}
	if p.Email != nil {
		u.Email = NormalizeEmail(*p.Email)
	}
	if p.PasswordHash != nil {
		u.PasswordHash = *p.PasswordHash
	}
	if p.IsAdmin != nil {
		u.IsAdmin = *p.IsAdmin
	}
}
