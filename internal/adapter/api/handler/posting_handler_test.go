package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gigmarket/internal/adapter/api"
	"gigmarket/internal/domain/entity"
	"gigmarket/internal/usecase"
	"gigmarket/pkg/errors"
)

type memoryPostings struct {
	items   []*entity.Posting
	created []*entity.Posting
}

func (m *memoryPostings) Create(ctx context.Context, p *entity.Posting) error {
	p.ID = fmt.Sprintf("new-%d", len(m.created)+1)
	m.created = append(m.created, p)
	return nil
}

func (m *memoryPostings) GetByID(ctx context.Context, id string) (*entity.Posting, error) {
	for _, p := range m.items {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, errors.NotFound("Posting", nil)
}

func (m *memoryPostings) Update(ctx context.Context, p *entity.Posting) error { return nil }
func (m *memoryPostings) Delete(ctx context.Context, id string) error         { return nil }

func (m *memoryPostings) List(ctx context.Context) ([]*entity.Posting, error) {
	return m.items, nil
}

func (m *memoryPostings) ListByOwner(ctx context.Context, ownerID string) ([]*entity.Posting, error) {
	var out []*entity.Posting
	for _, p := range m.items {
		if p.PostingUID == ownerID {
			out = append(out, p)
		}
	}
	return out, nil
}

func seedPostings(n int) *memoryPostings {
	repo := &memoryPostings{}
	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	for i := 1; i <= n; i++ {
		repo.items = append(repo.items, &entity.Posting{
			ID:          fmt.Sprintf("p%02d", i),
			PostingName: fmt.Sprintf("Service %02d", i),
			Description: "Weekend gardening help",
			Price:       entity.Price(fmt.Sprintf("%d", i*5)),
			ServiceType: entity.ServiceType("offering"),
			Category:    "gardening",
			PostingUID:  "owner",
			CreatedAt:   base.Add(time.Duration(i) * time.Hour),
		})
	}
	return repo
}

type listEnvelope struct {
	Success bool `json:"success"`
	Data    struct {
		Items []struct {
			ID    string       `json:"id"`
			Price entity.Price `json:"price"`
		} `json:"items"`
		Total      int `json:"total"`
		Page       int `json:"page"`
		TotalPages int `json:"totalPages"`
	} `json:"data"`
}

func listPostings(t *testing.T, h *PostingHandler, query string) listEnvelope {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/postings?"+query, nil)
	rec := httptest.NewRecorder()
	require.NoError(t, h.ListPostings(e.NewContext(req, rec)))
	require.Equal(t, http.StatusOK, rec.Code)

	var out listEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestListPostingsPagesByTen(t *testing.T) {
	h := NewPostingHandler(usecase.NewPostingUseCase(seedPostings(23), nil))

	first := listPostings(t, h, "")
	assert.Equal(t, 23, first.Data.Total)
	assert.Equal(t, 3, first.Data.TotalPages)
	assert.Len(t, first.Data.Items, 10)

	last := listPostings(t, h, "page=3")
	assert.Equal(t, 3, last.Data.Page)
	assert.Len(t, last.Data.Items, 3)

	clamped := listPostings(t, h, "page=99")
	assert.Equal(t, 3, clamped.Data.Page)
}

func TestListPostingsFiltersAndSorts(t *testing.T) {
	h := NewPostingHandler(usecase.NewPostingUseCase(seedPostings(6), nil))

	out := listPostings(t, h, "maxPrice=20&sort=price-high-low")
	require.Len(t, out.Data.Items, 4)
	assert.Equal(t, "p04", out.Data.Items[0].ID)
	assert.Equal(t, "p01", out.Data.Items[3].ID)

	out = listPostings(t, h, "category=tutoring")
	assert.Empty(t, out.Data.Items)
	assert.Equal(t, 1, out.Data.TotalPages)
}

func TestListPostingsRejectsBadMaxPrice(t *testing.T) {
	h := NewPostingHandler(usecase.NewPostingUseCase(seedPostings(1), nil))

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/postings?maxPrice=cheap", nil)
	rec := httptest.NewRecorder()
	require.NoError(t, h.ListPostings(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreatePostingJSON(t *testing.T) {
	repo := seedPostings(0)
	h := NewPostingHandler(usecase.NewPostingUseCase(repo, nil))

	e := echo.New()
	e.Validator = api.NewValidator()

	create := func(body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/v1/postings", strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.Set("uid", "seller")
		require.NoError(t, h.CreatePosting(c))
		return rec
	}

	rec := create(`{"postingName":"Piano lessons","description":"Beginner friendly","price":"30","serviceType":"offering","category":"tutoring"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	require.Len(t, repo.created, 1)
	assert.Equal(t, "seller", repo.created[0].PostingUID)
	assert.Equal(t, entity.Price("30"), repo.created[0].Price)

	rec = create(`{"postingName":"Piano lessons","description":"Beginner friendly","price":"thirty","serviceType":"offering","category":"tutoring"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = create(`{"postingName":"Piano lessons","description":"Beginner friendly","price":30,"serviceType":"selling","category":"tutoring"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Len(t, repo.created, 1)
}
