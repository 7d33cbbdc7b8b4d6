package repository

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"

	"gigmarket/internal/domain/entity"
	"gigmarket/internal/domain/repository"
	"gigmarket/pkg/errors"
)

const messagesCollection = "messages"

type firestoreMessageRepository struct {
	client *firestore.Client
}

func NewFirestoreMessageRepository(client *firestore.Client) repository.MessageRepository {
	return &firestoreMessageRepository{
		client: client,
	}
}

func (r *firestoreMessageRepository) Create(ctx context.Context, message *entity.Message) error {
	if message.ID == "" {
		message.ID = uuid.New().String()
	}
	message.Participants = entity.ParticipantPair(message.SenderID, message.ReceiverID)

	// Timestamp is zero here so the serverTimestamp tag asks Firestore for
	// the commit time.
	wr, err := r.client.Collection(messagesCollection).Doc(message.ID).Set(ctx, message)
	if err != nil {
		return errors.Internal("Failed to send message", err)
	}
	stampFromWrite(message, wr)
	return nil
}

// stampFromWrite copies the commit time Firestore stored as the server
// timestamp back onto message.
func stampFromWrite(message *entity.Message, wr *firestore.WriteResult) {
	if message.Timestamp.IsZero() && wr != nil {
		message.Timestamp = wr.UpdateTime
	}
}

func (r *firestoreMessageRepository) conversation(a, b string) firestore.Query {
	return r.client.Collection(messagesCollection).
		Where("participants", "==", entity.ParticipantPair(a, b)).
		OrderBy("timestamp", firestore.Asc)
}

func (r *firestoreMessageRepository) ListConversation(ctx context.Context, a, b string) ([]*entity.Message, error) {
	docs, err := r.conversation(a, b).Documents(ctx).GetAll()
	if err != nil {
		return nil, errors.Internal("Failed to get messages", err)
	}
	return messagesFromDocs(docs, a, b)
}

func (r *firestoreMessageRepository) WatchConversation(ctx context.Context, a, b string) repository.MessageIterator {
	return &snapshotMessageIterator{
		it: r.conversation(a, b).Snapshots(ctx),
		a:  a,
		b:  b,
	}
}

type snapshotMessageIterator struct {
	it   *firestore.QuerySnapshotIterator
	a, b string
}

func (s *snapshotMessageIterator) Next() ([]*entity.Message, error) {
	snap, err := s.it.Next()
	if err != nil {
		return nil, err
	}
	docs, err := snap.Documents.GetAll()
	if err != nil {
		return nil, errors.Internal("Failed to read message snapshot", err)
	}
	return messagesFromDocs(docs, s.a, s.b)
}

func (s *snapshotMessageIterator) Stop() {
	s.it.Stop()
}

func messagesFromDocs(docs []*firestore.DocumentSnapshot, a, b string) ([]*entity.Message, error) {
	messages := make([]*entity.Message, 0, len(docs))
	for _, doc := range docs {
		var message entity.Message
		if err := doc.DataTo(&message); err != nil {
			return nil, errors.Internal("Failed to parse message data", err)
		}
		message.ID = doc.Ref.ID
		if !message.Between(a, b) {
			continue
		}
		messages = append(messages, &message)
	}
	return messages, nil
}
