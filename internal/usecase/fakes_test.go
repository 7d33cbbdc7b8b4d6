package usecase

import (
	"context"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"gigmarket/internal/domain/entity"
	"gigmarket/internal/domain/repository"
	"gigmarket/internal/domain/service"
	"gigmarket/internal/infrastructure/authstate"
	"gigmarket/pkg/errors"
)

func union(ids []string, id string) []string {
	for _, v := range ids {
		if v == id {
			return ids
		}
	}
	return append(ids, id)
}

func without(ids []string, id string) []string {
	out := make([]string, 0, len(ids))
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

// profiles

type fakeProfileRepo struct {
	mu           sync.Mutex
	profiles     map[string]*entity.Profile
	addFriendErr error
}

func newFakeProfileRepo(profiles ...*entity.Profile) *fakeProfileRepo {
	r := &fakeProfileRepo{profiles: make(map[string]*entity.Profile)}
	for _, p := range profiles {
		r.profiles[p.ID] = p
	}
	return r
}

func (r *fakeProfileRepo) get(id string) *entity.Profile {
	r.mu.Lock()
	defer r.mu.Unlock()
	p := *r.profiles[id]
	return &p
}

func (r *fakeProfileRepo) Create(ctx context.Context, p *entity.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *p
	r.profiles[p.ID] = &cp
	return nil
}

func (r *fakeProfileRepo) GetByID(ctx context.Context, id string) (*entity.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.profiles[id]
	if !ok {
		return nil, errors.NotFound("Profile", nil)
	}
	cp := *p
	cp.Friends = append([]string(nil), p.Friends...)
	cp.FriendRequests = append([]string(nil), p.FriendRequests...)
	return &cp, nil
}

func (r *fakeProfileRepo) mutate(id string, fn func(p *entity.Profile)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.profiles[id]
	if !ok {
		return errors.NotFound("Profile", nil)
	}
	fn(p)
	return nil
}

func (r *fakeProfileRepo) Update(ctx context.Context, id string, u repository.ProfileUpdate) error {
	return r.mutate(id, func(p *entity.Profile) {
		if u.FirstName != nil {
			p.FirstName = *u.FirstName
		}
		if u.MiddleName != nil {
			p.MiddleName = *u.MiddleName
		}
		if u.LastName != nil {
			p.LastName = *u.LastName
		}
		if u.Bio != nil {
			p.Bio = *u.Bio
		}
		if u.ProfileImageURL != nil {
			url := *u.ProfileImageURL
			p.ProfileImageURL = &url
		}
	})
}

func (r *fakeProfileRepo) SetRating(ctx context.Context, id string, rating float64, n int) error {
	return r.mutate(id, func(p *entity.Profile) {
		p.Rating = rating
		p.NumRatings = n
	})
}

func (r *fakeProfileRepo) AddFriendRequest(ctx context.Context, target, requester string) error {
	return r.mutate(target, func(p *entity.Profile) { p.FriendRequests = union(p.FriendRequests, requester) })
}

func (r *fakeProfileRepo) RemoveFriendRequest(ctx context.Context, target, requester string) error {
	return r.mutate(target, func(p *entity.Profile) { p.FriendRequests = without(p.FriendRequests, requester) })
}

func (r *fakeProfileRepo) AcceptFriendRequest(ctx context.Context, target, requester string) error {
	return r.mutate(target, func(p *entity.Profile) {
		p.FriendRequests = without(p.FriendRequests, requester)
		p.Friends = union(p.Friends, requester)
	})
}

func (r *fakeProfileRepo) AddFriend(ctx context.Context, id, friend string) error {
	if r.addFriendErr != nil {
		return r.addFriendErr
	}
	return r.mutate(id, func(p *entity.Profile) { p.Friends = union(p.Friends, friend) })
}

// postings

type fakePostingRepo struct {
	mu        sync.Mutex
	postings  []*entity.Posting
	listErr   error
	deleteErr error
	nextID    int
}

func newFakePostingRepo(postings ...*entity.Posting) *fakePostingRepo {
	return &fakePostingRepo{postings: postings}
}

func (r *fakePostingRepo) Create(ctx context.Context, p *entity.Posting) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p.ID == "" {
		r.nextID++
		p.ID = fmt.Sprintf("posting-%d", r.nextID)
	}
	p.CreatedAt = time.Now().UTC()
	p.UpdatedAt = p.CreatedAt
	cp := *p
	r.postings = append(r.postings, &cp)
	return nil
}

func (r *fakePostingRepo) GetByID(ctx context.Context, id string) (*entity.Posting, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.postings {
		if p.ID == id {
			cp := *p
			return &cp, nil
		}
	}
	return nil, errors.NotFound("Posting", nil)
}

func (r *fakePostingRepo) Update(ctx context.Context, p *entity.Posting) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, existing := range r.postings {
		if existing.ID == p.ID {
			cp := *p
			r.postings[i] = &cp
			return nil
		}
	}
	return errors.NotFound("Posting", nil)
}

func (r *fakePostingRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.deleteErr != nil {
		return r.deleteErr
	}
	for i, p := range r.postings {
		if p.ID == id {
			r.postings = append(r.postings[:i], r.postings[i+1:]...)
			return nil
		}
	}
	return nil
}

func (r *fakePostingRepo) List(ctx context.Context) ([]*entity.Posting, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.listErr != nil {
		return nil, r.listErr
	}
	return append([]*entity.Posting(nil), r.postings...), nil
}

func (r *fakePostingRepo) ListByOwner(ctx context.Context, owner string) ([]*entity.Posting, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Posting
	for _, p := range r.postings {
		if p.PostingUID == owner {
			out = append(out, p)
		}
	}
	return out, nil
}

// reviews

type fakeReviewRepo struct {
	mu      sync.Mutex
	reviews []*entity.Review
}

func (r *fakeReviewRepo) Create(ctx context.Context, review *entity.Review) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	review.ID = fmt.Sprintf("review-%d", len(r.reviews)+1)
	review.CreatedAt = time.Now()
	r.reviews = append(r.reviews, review)
	return nil
}

func (r *fakeReviewRepo) ListByReviewee(ctx context.Context, id string) ([]*entity.Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Review
	for i := len(r.reviews) - 1; i >= 0; i-- {
		if r.reviews[i].RevieweeID == id {
			out = append(out, r.reviews[i])
		}
	}
	return out, nil
}

// messages

type fakeMessageRepo struct {
	mu       sync.Mutex
	messages []*entity.Message
	clock    time.Time
	watchers []*fakeMessageIterator
}

func newFakeMessageRepo() *fakeMessageRepo {
	return &fakeMessageRepo{clock: time.Unix(1620000000, 0)}
}

func (r *fakeMessageRepo) Create(ctx context.Context, m *entity.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m.ID = fmt.Sprintf("m%d", len(r.messages)+1)
	m.Participants = entity.ParticipantPair(m.SenderID, m.ReceiverID)
	if m.Timestamp.IsZero() {
		r.clock = r.clock.Add(time.Second)
		m.Timestamp = r.clock
	}
	r.messages = append(r.messages, m)
	for _, w := range r.watchers {
		w.push(r.conversation(w.a, w.b))
	}
	return nil
}

func (r *fakeMessageRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.messages)
}

func (r *fakeMessageRepo) conversation(a, b string) []*entity.Message {
	var out []*entity.Message
	for _, m := range r.messages {
		if m.Between(a, b) {
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	return out
}

func (r *fakeMessageRepo) ListConversation(ctx context.Context, a, b string) ([]*entity.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.conversation(a, b), nil
}

func (r *fakeMessageRepo) WatchConversation(ctx context.Context, a, b string) repository.MessageIterator {
	r.mu.Lock()
	defer r.mu.Unlock()
	it := &fakeMessageIterator{ctx: ctx, a: a, b: b, ch: make(chan []*entity.Message, 16), stopped: make(chan struct{})}
	it.push(r.conversation(a, b))
	r.watchers = append(r.watchers, it)
	return it
}

type fakeMessageIterator struct {
	ctx     context.Context
	a, b    string
	ch      chan []*entity.Message
	stopped chan struct{}
	once    sync.Once
}

func (it *fakeMessageIterator) push(msgs []*entity.Message) {
	select {
	case it.ch <- msgs:
	default:
	}
}

func (it *fakeMessageIterator) Next() ([]*entity.Message, error) {
	select {
	case msgs := <-it.ch:
		return msgs, nil
	case <-it.ctx.Done():
		return nil, it.ctx.Err()
	}
}

func (it *fakeMessageIterator) Stop() {
	it.once.Do(func() { close(it.stopped) })
}

// locations

type fakeLocationRepo struct {
	mu        sync.Mutex
	locations map[string]*entity.Location
}

func newFakeLocationRepo() *fakeLocationRepo {
	return &fakeLocationRepo{locations: make(map[string]*entity.Location)}
}

func (r *fakeLocationRepo) Create(ctx context.Context, l *entity.Location) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	l.ID = fmt.Sprintf("loc-%d", len(r.locations)+1)
	r.locations[l.ID] = l
	return nil
}

func (r *fakeLocationRepo) GetByID(ctx context.Context, id string) (*entity.Location, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.locations[id]
	if !ok {
		return nil, errors.NotFound("Location", nil)
	}
	return l, nil
}

func (r *fakeLocationRepo) ListByUser(ctx context.Context, userID string) ([]*entity.Location, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Location
	for _, l := range r.locations {
		if l.UserID == userID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (r *fakeLocationRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.locations, id)
	return nil
}

// orders

type fakeOrderRepo struct {
	mu     sync.Mutex
	orders []*entity.Order
}

func (r *fakeOrderRepo) Create(ctx context.Context, o *entity.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if o.ID == "" {
		o.ID = o.CheckoutSessionID
	}
	for _, existing := range r.orders {
		if existing.ID == o.ID {
			return errors.Conflict("Checkout session has already been used")
		}
	}
	r.orders = append(r.orders, o)
	return nil
}

func (r *fakeOrderRepo) ListByBuyer(ctx context.Context, buyer string) ([]*entity.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Order
	for _, o := range r.orders {
		if o.BuyerID == buyer {
			out = append(out, o)
		}
	}
	return out, nil
}

// device tokens

type fakeTokenRepo struct {
	mu     sync.Mutex
	tokens map[string]string
}

func newFakeTokenRepo() *fakeTokenRepo {
	return &fakeTokenRepo{tokens: make(map[string]string)}
}

func (r *fakeTokenRepo) Register(ctx context.Context, userID, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tokens[token] = userID
	return nil
}

func (r *fakeTokenRepo) ListByUser(ctx context.Context, userID string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for token, owner := range r.tokens {
		if owner == userID {
			out = append(out, token)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (r *fakeTokenRepo) Delete(ctx context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.tokens, token)
	return nil
}

// outbound services

type fakeFileService struct {
	mu      sync.Mutex
	uploads []string
	deleted []string
	err     error
}

func (f *fakeFileService) UploadFile(ctx context.Context, file io.Reader, fileType, folder string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	url := fmt.Sprintf("https://storage.googleapis.com/bucket/%s/%d.png", folder, len(f.uploads)+1)
	f.uploads = append(f.uploads, url)
	return url, nil
}

func (f *fakeFileService) DeleteFile(ctx context.Context, url string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, url)
	return nil
}

type fakePush struct {
	mu    sync.Mutex
	sent  []service.PushNotification
	to    [][]string
	stale []string
}

func (f *fakePush) Send(ctx context.Context, tokens []string, n service.PushNotification) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, n)
	f.to = append(f.to, tokens)
	return f.stale, nil
}

type fakeCheckout struct {
	paid       bool
	postingID  string
	amount     int64
	createErr  error
	lastItem   service.CheckoutItem
	successURL string
	cancelURL  string
}

func (f *fakeCheckout) CreateSession(ctx context.Context, item service.CheckoutItem, successURL, cancelURL string) (*service.CheckoutSession, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.lastItem = item
	f.successURL = successURL
	f.cancelURL = cancelURL
	return &service.CheckoutSession{ID: "cs_test_1", URL: "https://checkout.test/cs_test_1"}, nil
}

func (f *fakeCheckout) SessionStatus(ctx context.Context, id string) (*service.CheckoutStatus, error) {
	return &service.CheckoutStatus{Paid: f.paid, PostingID: f.postingID, AmountTotal: f.amount}, nil
}

type fakeAuthClient struct {
	users   map[string]string // email -> uid
	revoked []string
}

func (f *fakeAuthClient) CreateUser(ctx context.Context, email, password, name string) (string, error) {
	uid := "uid-" + email
	f.users[email] = uid
	return uid, nil
}

func (f *fakeAuthClient) VerifyToken(ctx context.Context, token string) (string, error) {
	for email, uid := range f.users {
		if token == "token-"+email {
			return uid, nil
		}
	}
	return "", fmt.Errorf("bad token")
}

func (f *fakeAuthClient) RevokeTokens(ctx context.Context, uid string) error {
	f.revoked = append(f.revoked, uid)
	return nil
}

func (f *fakeAuthClient) SignInWithEmailPassword(ctx context.Context, email, password string) (string, string, error) {
	if _, ok := f.users[email]; !ok || password != "secret" {
		return "", "", fmt.Errorf("INVALID_LOGIN_CREDENTIALS")
	}
	return "token-" + email, "refresh-" + email, nil
}

func (f *fakeAuthClient) RefreshIDToken(ctx context.Context, refresh string) (string, string, error) {
	return "", "", fmt.Errorf("not supported")
}

type fakeStates struct {
	mu        sync.Mutex
	published []authstate.State
	signedOut []string
}

func (f *fakeStates) Publish(ctx context.Context, s authstate.State) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.published = append(f.published, s)
}

func (f *fakeStates) SignOut(ctx context.Context, uid string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.signedOut = append(f.signedOut, uid)
}
