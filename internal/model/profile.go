package model

import "time"

// Profile holds a user's public details. Its ID equals the user ID.
type Profile struct {
	ID         string    `json:"id"`
	FullName   string    `json:"full_name,omitempty"`
	Username   string    `json:"username,omitempty"`
	AvatarURL  string    `json:"avatar_url,omitempty"`
	AvatarMime string    `json:"-"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// ProfileInput holds the editable profile fields.
type ProfileInput struct {
	FullName string `json:"full_name"`
	Username string `json:"username"`
}

// DisplayName returns the best available name for the profile.
func (p *Profile) DisplayName() string {
	if p == nil {
		return ""
	}
	if p.Username != "" {
		return p.Username
	}
	return p.FullName
}
