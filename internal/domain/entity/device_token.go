package entity

import "time"

// DeviceToken is a push registration token. The token string is the
// document id, so registering the same device twice is a no-op.
type DeviceToken struct {
	Token     string    `json:"token" firestore:"token"`
	UserID    string    `json:"userId" firestore:"userId"`
	UpdatedAt time.Time `json:"updatedAt" firestore:"updatedAt"`
}
