package entity

import (
	"sort"
	"time"
)

type Message struct {
	ID         string `json:"id" firestore:"id"`
	Text       string `json:"text" firestore:"text"`
	SenderID   string `json:"senderId" firestore:"senderId"`
	ReceiverID string `json:"receiverId" firestore:"receiverId"`
	// Participants is the sorted {sender, receiver} pair so a conversation
	// can be queried with a single equality predicate.
	Participants []string  `json:"-" firestore:"participants"`
	Timestamp    time.Time `json:"timestamp" firestore:"timestamp,serverTimestamp"`
}

func ParticipantPair(a, b string) []string {
	pair := []string{a, b}
	sort.Strings(pair)
	return pair
}

// Between reports whether m was exchanged by a and b, in either direction.
func (m *Message) Between(a, b string) bool {
	return (m.SenderID == a && m.ReceiverID == b) || (m.SenderID == b && m.ReceiverID == a)
}
