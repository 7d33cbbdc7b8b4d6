package usecase

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"gigmarket/internal/domain/entity"
)

const (
	SortPostingName  = "postingName"
	SortAlphabetical = "alphabetical"
	SortDescription  = "description"
	SortPrice        = "price"
	SortPriceLowHigh = "price-low-high"
	SortPriceHighLow = "price-high-low"

	FilterAll = "all"

	// MaxKeywordRunes bounds the search keyword; longer keywords are cut.
	MaxKeywordRunes = 64
)

type PostingQuery struct {
	Keyword     string
	ServiceType string
	Category    string
	MaxPrice    *float64
	Sort        string
}

// ApplyPostingQuery returns the postings that pass the keyword, service
// type, category and price filters, ordered by q.Sort. The input slice is
// left untouched.
//
// A posting whose price does not parse is dropped whenever MaxPrice is set
// and sorts after every priced posting in both price orders.
func ApplyPostingQuery(postings []*entity.Posting, q PostingQuery) []*entity.Posting {
	keyword := strings.ToLower(strings.TrimSpace(q.Keyword))
	if r := []rune(keyword); len(r) > MaxKeywordRunes {
		keyword = string(r[:MaxKeywordRunes])
	}

	out := make([]*entity.Posting, 0, len(postings))
	for _, p := range postings {
		if keyword != "" && !FuzzyContains(p.PostingName, keyword) && !FuzzyContains(p.Description, keyword) {
			continue
		}
		if !passes(q.ServiceType, string(p.ServiceType)) || !passes(q.Category, p.Category) {
			continue
		}
		if q.MaxPrice != nil {
			price, ok := p.Price.Float()
			if !ok || price > *q.MaxPrice {
				continue
			}
		}
		out = append(out, p)
	}

	SortPostings(out, q.Sort)
	return out
}

func passes(filter, value string) bool {
	return filter == "" || filter == FilterAll || filter == value
}

// FuzzyContains reports whether keyword occurs in text, ignoring case and
// tolerating one edit per four keyword runes. Keywords shorter than four
// runes must occur exactly.
func FuzzyContains(text, keyword string) bool {
	keyword = strings.ToLower(strings.TrimSpace(keyword))
	if keyword == "" {
		return true
	}
	text = strings.ToLower(text)
	if strings.Contains(text, keyword) {
		return true
	}

	k := []rune(keyword)
	maxEdits := len(k) / 4
	if maxEdits == 0 {
		return false
	}

	return withinEdits(k, []rune(text), maxEdits)
}

// withinEdits reports whether some substring of text is at most maxEdits
// edits away from pattern. col[i] is the cheapest alignment of pattern[:i]
// ending at the current text rune; col[0] stays zero so a match may start
// anywhere. Runs in O(len(pattern)*len(text)).
func withinEdits(pattern, text []rune, maxEdits int) bool {
	col := make([]int, len(pattern)+1)
	for i := range col {
		col[i] = i
	}
	for _, r := range text {
		diag := col[0]
		for i := 1; i <= len(pattern); i++ {
			cost := 1
			if pattern[i-1] == r {
				cost = 0
			}
			next := min(col[i]+1, col[i-1]+1, diag+cost)
			diag, col[i] = col[i], next
		}
		if col[len(pattern)] <= maxEdits {
			return true
		}
	}
	return false
}

// SortPostings orders postings in place. Unknown keys keep the input order.
func SortPostings(postings []*entity.Posting, key string) {
	switch key {
	case SortPostingName, SortAlphabetical:
		sortByText(postings, func(p *entity.Posting) string { return p.PostingName })
	case SortDescription:
		sortByText(postings, func(p *entity.Posting) string { return p.Description })
	case SortPrice, SortPriceLowHigh:
		sortByPrice(postings, false)
	case SortPriceHighLow:
		sortByPrice(postings, true)
	}
}

func sortByText(postings []*entity.Posting, field func(*entity.Posting) string) {
	col := collate.New(language.English)
	sort.SliceStable(postings, func(i, j int) bool {
		return col.CompareString(field(postings[i]), field(postings[j])) < 0
	})
}

func sortByPrice(postings []*entity.Posting, descending bool) {
	sort.SliceStable(postings, func(i, j int) bool {
		a, aok := postings[i].Price.Float()
		b, bok := postings[j].Price.Float()
		switch {
		case !aok:
			return false
		case !bok:
			return true
		case descending:
			return a > b
		default:
			return a < b
		}
	})
}
