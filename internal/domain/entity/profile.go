package entity

import (
	"strings"
	"time"
)

// Profile is a user's public identity. Its ID is the auth uid.
type Profile struct {
	ID              string    `json:"id" firestore:"id"`
	FirstName       string    `json:"firstName" firestore:"firstName"`
	MiddleName      string    `json:"middleName,omitempty" firestore:"middleName,omitempty"`
	LastName        string    `json:"lastName" firestore:"lastName"`
	Email           string    `json:"email,omitempty" firestore:"email,omitempty"`
	Bio             string    `json:"bio" firestore:"bio"`
	ProfileImageURL *string   `json:"profileImageUrl" firestore:"profileImageUrl"`
	Rating          float64   `json:"rating" firestore:"rating"`
	NumRatings      int       `json:"numRatings" firestore:"numRatings"`
	Friends         []string  `json:"friends" firestore:"friends"`
	FriendRequests  []string  `json:"friendRequests" firestore:"friendRequests"`
	CreatedAt       time.Time `json:"createdAt" firestore:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt" firestore:"updatedAt"`
}

func (p *Profile) DisplayName() string {
	parts := make([]string, 0, 3)
	for _, s := range []string{p.FirstName, p.MiddleName, p.LastName} {
		if s = strings.TrimSpace(s); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " ")
}

func (p *Profile) HasFriend(id string) bool {
	return containsID(p.Friends, id)
}

func (p *Profile) HasFriendRequestFrom(id string) bool {
	return containsID(p.FriendRequests, id)
}

// ImageURL falls back to fallback when no image was ever uploaded.
func (p *Profile) ImageURL(fallback string) string {
	if p.ProfileImageURL == nil || *p.ProfileImageURL == "" {
		return fallback
	}
	return *p.ProfileImageURL
}

func containsID(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
