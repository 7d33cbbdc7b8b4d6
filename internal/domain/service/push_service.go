package service

import "context"

type PushNotification struct {
	Title string
	Body  string
	Data  map[string]string
}

type PushService interface {
	// Send delivers to each token and returns the tokens the provider
	// reported as no longer registered.
	Send(ctx context.Context, tokens []string, n PushNotification) ([]string, error)
}
