package usecase

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"gigmarket/internal/domain/entity"
	"gigmarket/internal/domain/repository"
	"gigmarket/internal/domain/service"
	"gigmarket/internal/infrastructure/ratelimit"
	"gigmarket/pkg/errors"
	"gigmarket/pkg/logger"
)

const selfAuthor = "You"

type ChatUseCase struct {
	messageRepo repository.MessageRepository
	profileRepo repository.ProfileRepository
	tokenRepo   repository.DeviceTokenRepository
	push        service.PushService
	limiter     MessageLimiter

	// pending tracks fire-and-forget work started after a send.
	pending sync.WaitGroup
}

func NewChatUseCase(
	messageRepo repository.MessageRepository,
	profileRepo repository.ProfileRepository,
	tokenRepo repository.DeviceTokenRepository,
	push service.PushService,
	limiter MessageLimiter,
) *ChatUseCase {
	return &ChatUseCase{
		messageRepo: messageRepo,
		profileRepo: profileRepo,
		tokenRepo:   tokenRepo,
		push:        push,
		limiter:     limiter,
	}
}

type SendMessageInput struct {
	ReceiverID  string
	Text        string
	DeviceToken string
}

// SendMessage appends a message to the conversation. Text that is empty
// after trimming is ignored: nothing is written and no error is returned.
func (uc *ChatUseCase) SendMessage(ctx context.Context, actorID string, input SendMessageInput) (*entity.Message, error) {
	if actorID == "" {
		return nil, errors.AuthRequired()
	}
	if strings.TrimSpace(input.Text) == "" {
		return nil, nil
	}
	if input.ReceiverID == "" {
		return nil, errors.BadRequest("Receiver is required", nil)
	}
	if input.ReceiverID == actorID {
		return nil, errors.BadRequest("You cannot message yourself", nil)
	}

	if uc.limiter != nil {
		if ok, wait := uc.limiter.Allow(actorID, ratelimit.ActionSendMessage); !ok {
			return nil, errors.TooManyRequests("You are sending messages too quickly", wait)
		}
	}

	message := &entity.Message{
		Text:       input.Text,
		SenderID:   actorID,
		ReceiverID: input.ReceiverID,
	}
	if err := uc.messageRepo.Create(ctx, message); err != nil {
		logger.Error("Send message from %s failed: %v", actorID, err)
		return nil, err
	}

	uc.afterSend(context.WithoutCancel(ctx), message, input.DeviceToken)
	return message, nil
}

// afterSend registers the sender's device and notifies the receiver.
// Failures are only logged.
func (uc *ChatUseCase) afterSend(ctx context.Context, message *entity.Message, deviceToken string) {
	uc.pending.Add(1)
	go func() {
		defer uc.pending.Done()

		if deviceToken != "" && uc.tokenRepo != nil {
			if err := uc.tokenRepo.Register(ctx, message.SenderID, deviceToken); err != nil {
				logger.Warn("Device token registration failed for %s: %v", message.SenderID, err)
			}
		}

		if uc.push == nil || uc.tokenRepo == nil {
			return
		}
		tokens, err := uc.tokenRepo.ListByUser(ctx, message.ReceiverID)
		if err != nil {
			logger.Warn("Listing device tokens for %s failed: %v", message.ReceiverID, err)
			return
		}
		if len(tokens) == 0 {
			return
		}

		title := "New message"
		if sender, err := uc.profileRepo.GetByID(ctx, message.SenderID); err == nil {
			title = sender.DisplayName()
		}

		stale, err := uc.push.Send(ctx, tokens, service.PushNotification{
			Title: title,
			Body:  message.Text,
			Data: map[string]string{
				"type":     "chat_message",
				"senderId": message.SenderID,
			},
		})
		if err != nil {
			logger.Upstream("push", message.ReceiverID, err)
			return
		}
		for _, token := range stale {
			if err := uc.tokenRepo.Delete(ctx, token); err != nil {
				logger.Warn("Removing stale device token failed: %v", err)
			}
		}
	}()
}

// Wait blocks until background work started by SendMessage has finished.
func (uc *ChatUseCase) Wait() {
	uc.pending.Wait()
}

func (uc *ChatUseCase) ListConversation(ctx context.Context, actorID, peerID string) ([]*entity.Message, error) {
	if actorID == "" {
		return nil, errors.AuthRequired()
	}
	messages, err := uc.messageRepo.ListConversation(ctx, actorID, peerID)
	if err != nil {
		logger.Error("Loading conversation %s/%s failed: %v", actorID, peerID, err)
		return nil, err
	}
	return messages, nil
}

// PeerName resolves the display name shown for the other side of a chat.
func (uc *ChatUseCase) PeerName(ctx context.Context, peerID string) (string, error) {
	peer, err := uc.profileRepo.GetByID(ctx, peerID)
	if err != nil {
		return "", err
	}
	return peer.DisplayName(), nil
}

// ChatSubscription is a standing query over one conversation. Every value
// on Updates is the complete, ordered conversation.
type ChatSubscription struct {
	updates chan []*entity.Message
	cancel  context.CancelFunc
	done    chan struct{}

	mutex sync.Mutex
	err   error
}

func (s *ChatSubscription) Updates() <-chan []*entity.Message {
	return s.updates
}

// Stop cancels the standing query and waits for it to wind down. It is safe
// to call more than once.
func (s *ChatSubscription) Stop() {
	s.cancel()
	<-s.done
}

// Err reports why the subscription ended, if it ended on its own.
func (s *ChatSubscription) Err() error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.err
}

func (uc *ChatUseCase) Subscribe(ctx context.Context, actorID, peerID string) (*ChatSubscription, error) {
	if actorID == "" {
		return nil, errors.AuthRequired()
	}
	if peerID == "" || peerID == actorID {
		return nil, errors.BadRequest("Invalid chat peer", nil)
	}

	ctx, cancel := context.WithCancel(ctx)
	sub := &ChatSubscription{
		updates: make(chan []*entity.Message),
		cancel:  cancel,
		done:    make(chan struct{}),
	}
	it := uc.messageRepo.WatchConversation(ctx, actorID, peerID)

	go func() {
		defer close(sub.done)
		defer close(sub.updates)
		defer it.Stop()

		for {
			messages, err := it.Next()
			if err != nil {
				if ctx.Err() == nil {
					logger.Error("Chat subscription %s/%s ended: %v", actorID, peerID, err)
					sub.mutex.Lock()
					sub.err = err
					sub.mutex.Unlock()
				}
				return
			}
			select {
			case sub.updates <- messages:
			case <-ctx.Done():
				return
			}
		}
	}()

	return sub, nil
}

type ChatLine struct {
	MessageID string    `json:"messageId"`
	Author    string    `json:"author"`
	Text      string    `json:"text"`
	Mine      bool      `json:"mine"`
	Timestamp time.Time `json:"timestamp"`
}

// RenderChat attributes each message to "You" or to peerName, oldest first.
func RenderChat(messages []*entity.Message, selfID, peerName string) []ChatLine {
	ordered := append([]*entity.Message(nil), messages...)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Timestamp.Before(ordered[j].Timestamp)
	})

	lines := make([]ChatLine, 0, len(ordered))
	for _, m := range ordered {
		author := peerName
		mine := m.SenderID == selfID
		if mine {
			author = selfAuthor
		}
		lines = append(lines, ChatLine{
			MessageID: m.ID,
			Author:    author,
			Text:      m.Text,
			Mine:      mine,
			Timestamp: m.Timestamp,
		})
	}
	return lines
}
