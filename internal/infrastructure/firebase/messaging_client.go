package firebase

import (
	"context"

	"firebase.google.com/go/v4/messaging"

	"gigmarket/internal/domain/service"
)

type MessagingClient struct {
	client *messaging.Client
}

func NewMessagingClient(client *messaging.Client) *MessagingClient {
	return &MessagingClient{
		client: client,
	}
}

func (m *MessagingClient) Send(ctx context.Context, tokens []string, n service.PushNotification) ([]string, error) {
	if len(tokens) == 0 {
		return nil, nil
	}

	resp, err := m.client.SendEachForMulticast(ctx, &messaging.MulticastMessage{
		Tokens: tokens,
		Notification: &messaging.Notification{
			Title: n.Title,
			Body:  n.Body,
		},
		Data: n.Data,
	})
	if err != nil {
		return nil, err
	}

	var stale []string
	for i, r := range resp.Responses {
		if r.Success {
			continue
		}
		if messaging.IsUnregistered(r.Error) || messaging.IsInvalidArgument(r.Error) {
			stale = append(stale, tokens[i])
		}
	}
	return stale, nil
}
