package services

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/Learnathon-By-Geeky-Solutions/momentum/app/models"
	"github.com/Learnathon-By-Geeky-Solutions/momentum/app/models/other"
	"github.com/Learnathon-By-Geeky-Solutions/momentum/app/repositories"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// SearchQuery is the structured form of a free-text search.
type SearchQuery struct {
	Keywords []string
	Category string
	Brand    string
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
}

type QueryParser interface {
	Parse(ctx context.Context, q string) (SearchQuery, error)
}

type Ranker interface {
	Rank(products []models.Product, keywords []string) []models.Product
}

var (
	filterTokenRe = regexp.MustCompile(`(?i)\b(category|brand):("[^"]+"|\S+)`)
	betweenRe     = regexp.MustCompile(`(?i)\bbetween\s+(\d+(?:\.\d+)?)\s+(?:and|-)\s+(\d+(?:\.\d+)?)`)
	underRe       = regexp.MustCompile(`(?i)\b(?:under|below|less than|max)\s+(\d+(?:\.\d+)?)`)
	overRe        = regexp.MustCompile(`(?i)\b(?:over|above|more than|min)\s+(\d+(?:\.\d+)?)`)
	wordRe        = regexp.MustCompile(`[\p{L}\p{N}]+`)
)

var stopWords = map[string]struct{}{
	"a": {}, "an": {}, "the": {}, "for": {}, "with": {}, "and": {}, "or": {}, "of": {},
	"in": {}, "to": {}, "i": {}, "want": {}, "need": {}, "show": {}, "me": {}, "some": {},
	"find": {}, "looking": {}, "buy": {}, "price": {}, "taka": {}, "tk": {}, "bdt": {},
}

// KeywordParser extracts filters and keywords without any external service.
// Supported filters: category:x, brand:x, "under N", "over N", "between N and M".
type KeywordParser struct{}

func (KeywordParser) Parse(_ context.Context, q string) (SearchQuery, error) {
	var out SearchQuery

	for _, m := range filterTokenRe.FindAllStringSubmatch(q, -1) {
		value := strings.Trim(m[2], `"`)
		switch strings.ToLower(m[1]) {
		case "category":
			out.Category = value
		case "brand":
			out.Brand = value
		}
	}
	q = filterTokenRe.ReplaceAllString(q, " ")

	if m := betweenRe.FindStringSubmatch(q); m != nil {
		lo, hi := decimal.RequireFromString(m[1]), decimal.RequireFromString(m[2])
		if lo.GreaterThan(hi) {
			lo, hi = hi, lo
		}
		out.MinPrice, out.MaxPrice = &lo, &hi
		q = betweenRe.ReplaceAllString(q, " ")
	}
	if m := underRe.FindStringSubmatch(q); m != nil {
		v := decimal.RequireFromString(m[1])
		out.MaxPrice = &v
		q = underRe.ReplaceAllString(q, " ")
	}
	if m := overRe.FindStringSubmatch(q); m != nil {
		v := decimal.RequireFromString(m[1])
		out.MinPrice = &v
		q = overRe.ReplaceAllString(q, " ")
	}

	seen := map[string]struct{}{}
	for _, w := range wordRe.FindAllString(strings.ToLower(q), -1) {
		if _, stop := stopWords[w]; stop {
			continue
		}
		if _, dup := seen[w]; dup {
			continue
		}
		seen[w] = struct{}{}
		out.Keywords = append(out.Keywords, w)
	}
	return out, nil
}

// KeywordRanker keeps products whose text contains the whole keyword phrase.
// When none do, it falls back to products matching any keyword, best first.
type KeywordRanker struct{}

func productText(p models.Product) string {
	desc := ""
	if p.Description != nil {
		desc = *p.Description
	}
	return strings.ToLower(p.Name + " " + p.Category + " " + desc)
}

func (KeywordRanker) Rank(products []models.Product, keywords []string) []models.Product {
	if len(keywords) == 0 {
		return products
	}

	phrase := strings.Join(keywords, " ")
	var exact []models.Product
	for _, p := range products {
		if strings.Contains(productText(p), phrase) {
			exact = append(exact, p)
		}
	}
	if len(exact) > 0 {
		return exact
	}

	type scored struct {
		product models.Product
		score   int
	}
	var hits []scored
	for _, p := range products {
		text := productText(p)
		score := 0
		for _, kw := range keywords {
			if strings.Contains(text, kw) {
				score++
			}
		}
		if score > 0 {
			hits = append(hits, scored{product: p, score: score})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].score > hits[j].score })

	ranked := make([]models.Product, len(hits))
	for i, h := range hits {
		ranked[i] = h.product
	}
	return ranked
}

type SearchService struct {
	productRepo repositories.ProductRepository
	parser      QueryParser
	ranker      Ranker
	log         *zap.Logger
}

func NewSearchService(productRepo repositories.ProductRepository, parser QueryParser, ranker Ranker, log *zap.Logger) *SearchService {
	if parser == nil {
		parser = KeywordParser{}
	}
	if ranker == nil {
		ranker = KeywordRanker{}
	}
	return &SearchService{productRepo: productRepo, parser: parser, ranker: ranker, log: log}
}

func (s *SearchService) Search(ctx context.Context, q string) (*other.SearchResult, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return nil, detail(ErrValidation, "q is required")
	}

	parsed, err := s.parser.Parse(ctx, q)
	if err != nil {
		s.log.Warn("query parser failed, falling back to keywords", zap.String("q", q), zap.Error(err))
		parsed, _ = KeywordParser{}.Parse(ctx, q)
	}

	products, err := s.productRepo.Search(ctx, repositories.ProductFilter{
		Category:  parsed.Category,
		BrandName: parsed.Brand,
		MinPrice:  parsed.MinPrice,
		MaxPrice:  parsed.MaxPrice,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search products: %w", err)
	}

	ranked := s.ranker.Rank(products, parsed.Keywords)

	keywords := parsed.Keywords
	if keywords == nil {
		keywords = []string{}
	}
	result := &other.SearchResult{
		Keywords:   keywords,
		TotalFound: len(ranked),
		Products:   make([]other.SearchProduct, len(ranked)),
	}
	for i, p := range ranked {
		result.Products[i] = other.SearchProduct{
			ProductID:   p.ID,
			Name:        p.Name,
			Category:    p.Category,
			Price:       p.Price,
			Description: p.Description,
			Images:      nonNil(p.Pictures),
			Videos:      nonNil(p.Videos),
		}
	}
	return result, nil
}
