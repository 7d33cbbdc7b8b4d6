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
	"gigmarket/pkg/logger"
)

const postingsCollection = "postings"

// postingDoc stores the price as whatever type it parses to; older
// documents hold it as a string.
type postingDoc struct {
	entity.Posting
	Price interface{} `firestore:"price"`
}

func toPostingDoc(p *entity.Posting) *postingDoc {
	return &postingDoc{Posting: *p, Price: p.Price.StoreValue()}
}

func postingFromSnapshot(doc *firestore.DocumentSnapshot) (*entity.Posting, error) {
	var d postingDoc
	if err := doc.DataTo(&d); err != nil {
		return nil, err
	}
	posting := d.Posting
	posting.ID = doc.Ref.ID
	posting.Price = entity.PriceFromStore(d.Price)
	return &posting, nil
}

type firestorePostingRepository struct {
	client *firestore.Client
}

func NewFirestorePostingRepository(client *firestore.Client) repository.PostingRepository {
	return &firestorePostingRepository{
		client: client,
	}
}

func (r *firestorePostingRepository) Create(ctx context.Context, posting *entity.Posting) error {
	if posting.ID == "" {
		posting.ID = r.client.Collection(postingsCollection).NewDoc().ID
	}

	now := time.Now().UTC()
	if posting.CreatedAt.IsZero() {
		posting.CreatedAt = now
	}
	posting.UpdatedAt = now

	_, err := r.client.Collection(postingsCollection).Doc(posting.ID).Set(ctx, toPostingDoc(posting))
	if err != nil {
		return errors.Internal("Failed to create posting", err)
	}
	return nil
}

func (r *firestorePostingRepository) GetByID(ctx context.Context, id string) (*entity.Posting, error) {
	doc, err := r.client.Collection(postingsCollection).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Posting", err)
		}
		return nil, errors.Internal("Failed to get posting", err)
	}

	posting, err := postingFromSnapshot(doc)
	if err != nil {
		return nil, errors.Internal("Failed to parse posting data", err)
	}
	return posting, nil
}

func (r *firestorePostingRepository) Update(ctx context.Context, posting *entity.Posting) error {
	posting.UpdatedAt = time.Now().UTC()

	_, err := r.client.Collection(postingsCollection).Doc(posting.ID).Set(ctx, toPostingDoc(posting))
	if err != nil {
		return errors.Internal("Failed to update posting", err)
	}
	return nil
}

func (r *firestorePostingRepository) Delete(ctx context.Context, id string) error {
	_, err := r.client.Collection(postingsCollection).Doc(id).Delete(ctx)
	if err != nil {
		return errors.Internal("Failed to delete posting", err)
	}
	return nil
}

func (r *firestorePostingRepository) List(ctx context.Context) ([]*entity.Posting, error) {
	query := r.client.Collection(postingsCollection).OrderBy("createdAt", firestore.Desc)
	return r.collect(ctx, query)
}

func (r *firestorePostingRepository) ListByOwner(ctx context.Context, ownerID string) ([]*entity.Posting, error) {
	query := r.client.Collection(postingsCollection).Where("postingUID", "==", ownerID)
	return r.collect(ctx, query)
}

func (r *firestorePostingRepository) collect(ctx context.Context, query firestore.Query) ([]*entity.Posting, error) {
	docs, err := query.Documents(ctx).GetAll()
	if err != nil {
		return nil, errors.Internal("Failed to list postings", err)
	}

	postings := make([]*entity.Posting, 0, len(docs))
	for _, doc := range docs {
		posting, err := postingFromSnapshot(doc)
		if err != nil {
			logger.Warn("Skipping malformed posting %s: %v", doc.Ref.ID, err)
			continue
		}
		postings = append(postings, posting)
	}
	return postings, nil
}
