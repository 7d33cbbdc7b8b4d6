package entity

import "time"

type Location struct {
	ID        string    `json:"id" firestore:"id"`
	Lat       float64   `json:"lat" firestore:"lat"`
	Lng       float64   `json:"lng" firestore:"lng"`
	Name      string    `json:"name" firestore:"name"`
	UserID    string    `json:"userId" firestore:"userId"`
	CreatedAt time.Time `json:"createdAt" firestore:"createdAt"`
}
