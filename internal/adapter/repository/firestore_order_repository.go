package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"gigmarket/internal/domain/entity"
	"gigmarket/internal/domain/repository"
	"gigmarket/pkg/errors"
)

const ordersCollection = "orders"

type orderDoc struct {
	entity.Order
	Price interface{} `firestore:"price"`
}

type firestoreOrderRepository struct {
	client *firestore.Client
}

func NewFirestoreOrderRepository(client *firestore.Client) repository.OrderRepository {
	return &firestoreOrderRepository{
		client: client,
	}
}

func (r *firestoreOrderRepository) Create(ctx context.Context, order *entity.Order) error {
	// Keyed by checkout session so one payment yields at most one order.
	if order.ID == "" {
		order.ID = order.CheckoutSessionID
	}
	if order.ID == "" {
		order.ID = r.client.Collection(ordersCollection).NewDoc().ID
	}
	order.CreatedAt = time.Now().UTC()

	doc := &orderDoc{Order: *order, Price: order.Price.StoreValue()}
	_, err := r.client.Collection(ordersCollection).Doc(order.ID).Create(ctx, doc)
	if status.Code(err) == codes.AlreadyExists {
		return errors.Conflict("Checkout session has already been used")
	}
	if err != nil {
		return errors.Internal("Failed to create order", err)
	}
	return nil
}

func (r *firestoreOrderRepository) ListByBuyer(ctx context.Context, buyerID string) ([]*entity.Order, error) {
	docs, err := r.client.Collection(ordersCollection).
		Where("buyerId", "==", buyerID).
		OrderBy("createdAt", firestore.Desc).
		Documents(ctx).GetAll()
	if err != nil {
		return nil, errors.Internal("Failed to list orders", err)
	}

	orders := make([]*entity.Order, 0, len(docs))
	for _, doc := range docs {
		var d orderDoc
		if err := doc.DataTo(&d); err != nil {
			return nil, errors.Internal("Failed to parse order data", err)
		}
		order := d.Order
		order.ID = doc.Ref.ID
		order.Price = entity.PriceFromStore(d.Price)
		orders = append(orders, &order)
	}
	return orders, nil
}
