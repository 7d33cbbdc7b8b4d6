package entity

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

type ServiceType string

const (
	ServiceOffering               ServiceType = "offering"
	ServiceRequesting             ServiceType = "requesting"
	ServiceOfferingWithDelivery   ServiceType = "offering-with-delivery"
	ServiceRequestingWithDelivery ServiceType = "requesting-with-delivery"
)

var ServiceTypes = []ServiceType{
	ServiceOffering,
	ServiceRequesting,
	ServiceOfferingWithDelivery,
	ServiceRequestingWithDelivery,
}

func (s ServiceType) Valid() bool {
	for _, v := range ServiceTypes {
		if s == v {
			return true
		}
	}
	return false
}

var Categories = []string{
	"tutoring",
	"cleaning",
	"gardening",
	"pet-care",
	"moving",
	"handyman",
	"plumbing",
	"electrical",
	"painting",
	"photography",
	"design",
	"writing",
	"programming",
	"music",
	"fitness",
	"beauty",
	"cooking",
	"childcare",
	"delivery",
	"other",
}

func ValidCategory(c string) bool {
	for _, v := range Categories {
		if c == v {
			return true
		}
	}
	return false
}

// Price is kept as text because stored postings carry it either as a number
// or as a string. Use Float to get the numeric value.
type Price string

func (p Price) Float() (float64, bool) {
	s := strings.TrimSpace(string(p))
	s = strings.TrimPrefix(s, "$")
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func (p Price) MarshalJSON() ([]byte, error) {
	if f, ok := p.Float(); ok {
		return json.Marshal(f)
	}
	return json.Marshal(string(p))
}

func (p *Price) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*p = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*p = Price(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("price must be a number or a string")
	}
	*p = Price(n.String())
	return nil
}

// StoreValue is what gets written to the document store: a number when the
// price parses, the raw text otherwise.
func (p Price) StoreValue() interface{} {
	if f, ok := p.Float(); ok {
		return f
	}
	return string(p)
}

// PriceFromStore accepts whatever the store returned for the price field.
func PriceFromStore(v interface{}) Price {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return Price(t)
	case float64:
		return Price(strconv.FormatFloat(t, 'f', -1, 64))
	case int64:
		return Price(strconv.FormatInt(t, 10))
	case int:
		return Price(strconv.Itoa(t))
	default:
		return Price(fmt.Sprint(t))
	}
}

type Posting struct {
	ID              string      `json:"id" firestore:"id"`
	PostingName     string      `json:"postingName" firestore:"postingName"`
	Description     string      `json:"description" firestore:"description"`
	Price           Price       `json:"price" firestore:"-"`
	ServiceType     ServiceType `json:"serviceType" firestore:"serviceType"`
	Category        string      `json:"category" firestore:"category"`
	PostingImageURL *string     `json:"postingImageUrl" firestore:"postingImageUrl"`
	Location        string      `json:"location" firestore:"location"`
	PostingUID      string      `json:"postingUID" firestore:"postingUID"`
	CreatedAt       time.Time   `json:"createdAt" firestore:"createdAt"`
	UpdatedAt       time.Time   `json:"updatedAt" firestore:"updatedAt"`
}
