package entity

import (
	"time"
)

// Review is written once by the reviewer and never edited. Both names are
// copied at write time.
type Review struct {
	ID           string    `json:"id" firestore:"id"`
	Rating       int       `json:"rating" firestore:"rating"`
	Comment      string    `json:"comment" firestore:"comment"`
	ReviewerUID  string    `json:"reviewerUID" firestore:"reviewerUID"`
	ReviewerName string    `json:"reviewerName" firestore:"reviewerName"`
	RevieweeID   string    `json:"revieweeId" firestore:"revieweeId"`
	RevieweeName string    `json:"revieweeName" firestore:"revieweeName"`
	CreatedAt    time.Time `json:"createdAt" firestore:"createdAt"`
}
