package authstate

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"gigmarket/pkg/logger"
)

// Channel is the Redis channel used to share auth state between instances.
const Channel = "auth-state"

const subscriberBuffer = 4

// State is the signed-in user as every stream consumer sees it.
type State struct {
	UserID          string `json:"userId"`
	DisplayName     string `json:"displayName"`
	ProfileImageURL string `json:"profileImageUrl"`
	SignedIn        bool   `json:"signedIn"`
}

type envelope struct {
	Origin string `json:"origin"`
	State  State  `json:"state"`
}

type subscriber struct {
	ch   chan State
	once sync.Once
}

func (s *subscriber) close() {
	s.once.Do(func() { close(s.ch) })
}

// Hub fans auth state out to every subscriber of a user. It is created at
// startup and torn down with Close.
type Hub struct {
	mutex  sync.Mutex
	subs   map[string]map[*subscriber]struct{}
	last   map[string]State
	closed bool

	id     string
	rdb    *redis.Client
	pubsub *redis.PubSub
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewHub() *Hub {
	return &Hub{
		subs: make(map[string]map[*subscriber]struct{}),
		last: make(map[string]State),
		id:   uuid.New().String(),
	}
}

// NewRedisHub returns a hub that also relays state through Redis so that
// every API instance sees sign-ins and sign-outs.
func NewRedisHub(ctx context.Context, rdb *redis.Client) (*Hub, error) {
	h := NewHub()

	pubsub := rdb.Subscribe(ctx, Channel)
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return nil, err
	}

	runCtx, cancel := context.WithCancel(context.Background())
	h.rdb = rdb
	h.pubsub = pubsub
	h.cancel = cancel

	h.wg.Add(1)
	go h.relay(runCtx, pubsub.Channel())

	logger.Info("Auth state hub subscribed to Redis channel %s", Channel)
	return h, nil
}

func (h *Hub) relay(ctx context.Context, ch <-chan *redis.Message) {
	defer h.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var env envelope
			if err := json.Unmarshal([]byte(msg.Payload), &env); err != nil {
				logger.Warn("Invalid auth state payload: %v", err)
				continue
			}
			if env.Origin == h.id {
				continue
			}
			h.apply(env.State)
		}
	}
}

// Subscribe registers for state changes of uid. The last known state, if
// any, is delivered first. The returned func unsubscribes.
func (h *Hub) Subscribe(uid string) (<-chan State, func()) {
	sub := &subscriber{ch: make(chan State, subscriberBuffer)}

	h.mutex.Lock()
	if h.closed {
		h.mutex.Unlock()
		sub.close()
		return sub.ch, func() {}
	}
	conns, ok := h.subs[uid]
	if !ok {
		conns = make(map[*subscriber]struct{})
		h.subs[uid] = conns
	}
	conns[sub] = struct{}{}
	if s, ok := h.last[uid]; ok {
		sub.ch <- s
	}
	h.mutex.Unlock()

	return sub.ch, func() {
		h.mutex.Lock()
		if conns, ok := h.subs[uid]; ok {
			delete(conns, sub)
			if len(conns) == 0 {
				delete(h.subs, uid)
			}
		}
		h.mutex.Unlock()
		sub.close()
	}
}

func (h *Hub) Publish(ctx context.Context, s State) {
	h.apply(s)
	h.broadcast(ctx, s)
}

// SignOut publishes a signed-out state for uid and ends its subscriptions.
func (h *Hub) SignOut(ctx context.Context, uid string) {
	s := State{UserID: uid, SignedIn: false}
	h.apply(s)
	h.broadcast(ctx, s)
}

func (h *Hub) apply(s State) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if h.closed {
		return
	}

	for sub := range h.subs[s.UserID] {
		deliver(sub, s)
		if !s.SignedIn {
			sub.close()
		}
	}

	if s.SignedIn {
		h.last[s.UserID] = s
	} else {
		delete(h.last, s.UserID)
		delete(h.subs, s.UserID)
	}
}

// deliver keeps the newest state when a subscriber falls behind.
func deliver(sub *subscriber, s State) {
	select {
	case sub.ch <- s:
		return
	default:
	}
	select {
	case <-sub.ch:
	default:
	}
	select {
	case sub.ch <- s:
	default:
	}
}

func (h *Hub) broadcast(ctx context.Context, s State) {
	if h.rdb == nil {
		return
	}
	payload, err := json.Marshal(envelope{Origin: h.id, State: s})
	if err != nil {
		logger.Error("Failed to encode auth state: %v", err)
		return
	}
	if err := h.rdb.Publish(ctx, Channel, payload).Err(); err != nil {
		logger.Error("Failed to publish auth state: %v", err)
	}
}

// Close ends every subscription and stops the Redis relay.
func (h *Hub) Close() error {
	h.mutex.Lock()
	if h.closed {
		h.mutex.Unlock()
		return nil
	}
	h.closed = true
	for uid, conns := range h.subs {
		for sub := range conns {
			sub.close()
		}
		delete(h.subs, uid)
	}
	h.mutex.Unlock()

	if h.cancel == nil {
		return nil
	}
	h.cancel()
	err := h.pubsub.Close()
	h.wg.Wait()
	return err
}
