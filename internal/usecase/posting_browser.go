package usecase

import (
	"context"
	"sync"

	"gigmarket/internal/domain/entity"
	"gigmarket/pkg/loader"
	"gigmarket/pkg/logger"
	"gigmarket/pkg/utils"
)

// PostingBrowser holds one browsing session over the postings collection:
// the collection is fetched once, then every filter or sort change
// recomputes the full result and goes back to the first page.
type PostingBrowser struct {
	loader *loader.Loader[[]*entity.Posting]

	mutex   sync.Mutex
	all     []*entity.Posting
	query   PostingQuery
	results []*entity.Posting
	page    int
}

func NewPostingBrowser(fetch func(ctx context.Context) ([]*entity.Posting, error)) *PostingBrowser {
	return &PostingBrowser{
		loader: loader.New(fetch),
		page:   1,
	}
}

// Load fetches the collection. A failed fetch leaves the browser empty; the
// error is logged and kept on the loader result.
func (b *PostingBrowser) Load(ctx context.Context) loader.Result[[]*entity.Posting] {
	res := b.loader.Load(ctx)
	if !res.Ok() {
		logger.Error("Failed to fetch postings: %v", res.Err)
	}

	b.mutex.Lock()
	defer b.mutex.Unlock()
	b.all = res.Data
	b.recompute()
	return res
}

func (b *PostingBrowser) Status() loader.Status {
	return b.loader.Result().Status
}

func (b *PostingBrowser) SetQuery(q PostingQuery) {
	b.update(func(cur *PostingQuery) { *cur = q })
}

func (b *PostingBrowser) SetKeyword(keyword string) {
	b.update(func(q *PostingQuery) { q.Keyword = keyword })
}

func (b *PostingBrowser) SetServiceType(serviceType string) {
	b.update(func(q *PostingQuery) { q.ServiceType = serviceType })
}

func (b *PostingBrowser) SetCategory(category string) {
	b.update(func(q *PostingQuery) { q.Category = category })
}

func (b *PostingBrowser) SetMaxPrice(maxPrice *float64) {
	b.update(func(q *PostingQuery) { q.MaxPrice = maxPrice })
}

func (b *PostingBrowser) SetSort(key string) {
	b.update(func(q *PostingQuery) { q.Sort = key })
}

func (b *PostingBrowser) update(change func(*PostingQuery)) {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	change(&b.query)
	b.recompute()
}

func (b *PostingBrowser) recompute() {
	b.results = ApplyPostingQuery(b.all, b.query)
	b.page = 1
}

func (b *PostingBrowser) NextPage() {
	b.GoToPage(b.Page().Number + 1)
}

func (b *PostingBrowser) PrevPage() {
	b.GoToPage(b.Page().Number - 1)
}

// GoToPage moves to page n, clamped into the available pages.
func (b *PostingBrowser) GoToPage(n int) {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	b.page = utils.NewPage(n, utils.PostingsPageSize, len(b.results)).Number
}

func (b *PostingBrowser) Page() utils.Page {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	return utils.NewPage(b.page, utils.PostingsPageSize, len(b.results))
}

// Items returns the postings on the current page.
func (b *PostingBrowser) Items() []*entity.Posting {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	return utils.Slice(b.results, utils.NewPage(b.page, utils.PostingsPageSize, len(b.results)))
}

// Results returns every posting that passed the current query.
func (b *PostingBrowser) Results() []*entity.Posting {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	return append([]*entity.Posting(nil), b.results...)
}

func (b *PostingBrowser) Empty() bool {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	return len(b.results) == 0
}
