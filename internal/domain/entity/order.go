package entity

import "time"

// Order is a snapshot of a posting taken when it was bought. The posting
// itself is deleted right after the order is written.
type Order struct {
	ID                string    `json:"id" firestore:"id"`
	PostingID         string    `json:"postingId" firestore:"postingId"`
	PostingName       string    `json:"postingName" firestore:"postingName"`
	Description       string    `json:"description" firestore:"description"`
	Price             Price     `json:"price" firestore:"-"`
	ServiceType       string    `json:"serviceType" firestore:"serviceType"`
	Category          string    `json:"category" firestore:"category"`
	PostingImageURL   *string   `json:"postingImageUrl" firestore:"postingImageUrl"`
	Location          string    `json:"location" firestore:"location"`
	SellerID          string    `json:"sellerId" firestore:"sellerId"`
	BuyerID           string    `json:"buyerId" firestore:"buyerId"`
	CheckoutSessionID string    `json:"checkoutSessionId" firestore:"checkoutSessionId"`
	CreatedAt         time.Time `json:"createdAt" firestore:"createdAt"`
}

func NewOrderFromPosting(p *Posting, buyerID, sessionID string) *Order {
	return &Order{
		PostingID:         p.ID,
		PostingName:       p.PostingName,
		Description:       p.Description,
		Price:             p.Price,
		ServiceType:       string(p.ServiceType),
		Category:          p.Category,
		PostingImageURL:   p.PostingImageURL,
		Location:          p.Location,
		SellerID:          p.PostingUID,
		BuyerID:           buyerID,
		CheckoutSessionID: sessionID,
	}
}
