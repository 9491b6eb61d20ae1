package models

import "time"

// UserProfile is the single local user. It exists only while authenticated.
type UserProfile struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Avatar    string    `json:"avatar,omitempty"`
	Bio       string    `json:"bio,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Location  string    `json:"location,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// ProfileUpdate is a partial profile edit; nil fields are left untouched.
type ProfileUpdate struct {
	Name     *string
	Avatar   *string
	Bio      *string
	Phone    *string
	Location *string
}

// Apply returns p with every non-nil field of u merged in.
func (u ProfileUpdate) Apply(p UserProfile) UserProfile {
	if u.Name != nil {
		p.Name = *u.Name
	}
	if u.Avatar != nil {
		p.Avatar = *u.Avatar
	}
	if u.Bio != nil {
		p.Bio = *u.Bio
	}
	if u.Phone != nil {
		p.Phone = *u.Phone
	}
	if u.Location != nil {
		p.Location = *u.Location
	}
	return p
}

// IsEmpty reports whether u carries no changes.
func (u ProfileUpdate) IsEmpty() bool {
	return u.Name == nil && u.Avatar == nil && u.Bio == nil && u.Phone == nil && u.Location == nil
}
