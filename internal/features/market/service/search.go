package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"cs2-giveaway-backend/internal/common/config"
	apperrors "cs2-giveaway-backend/internal/common/errors"
	"cs2-giveaway-backend/internal/common/logger"
	"cs2-giveaway-backend/internal/features/diag"
	"cs2-giveaway-backend/internal/features/market/catalog"
	"cs2-giveaway-backend/internal/features/market/models"
)

const (
	minQueryLength = 2
	searchPath     = "/api/v2/search-item-by-hash-name"
	// Steam economy CDN pattern used when the marketplace returns a class
	// identifier instead of a direct image URL.
	imageURLPattern = "https://community.cloudflare.steamstatic.com/economy/image/class/730/%s/360fx360f"
)

var centsPerUnit = decimal.NewFromInt(100)

// SearchService translates free-text skin queries into normalized prize
// listings via the marketplace search API.
type SearchService interface {
	Search(ctx context.Context, query string) ([]models.Listing, error)
}

type searchService struct {
	httpClient *http.Client
	rates      *RateService
	diag       *diag.Log
	relayBase  string
	apiKey     string
}

func NewSearchService(rates *RateService, diagLog *diag.Log, cfg *config.Config) SearchService {
	return &searchService{
		httpClient: &http.Client{Timeout: time.Duration(cfg.Market.RequestTimeoutSec) * time.Second},
		rates:      rates,
		diag:       diagLog,
		relayBase:  strings.TrimSuffix(cfg.Market.RelayBaseURL, "/"),
		apiKey:     cfg.Market.APIKey,
	}
}

// Search runs the query against the marketplace. Queries shorter than two
// characters never go remote and return no results; a remote empty result
// set is success, not an error.
func (s *searchService) Search(ctx context.Context, query string) ([]models.Listing, error) {
	query = strings.TrimSpace(query)
	if len([]rune(query)) < minQueryLength {
		return []models.Listing{}, nil
	}

	refined := catalog.Refine(query)
	if refined != query {
		logger.Debug().Str("query", query).Str("refined", refined).Msg("Search query refined via catalog")
	}

	response, err := s.fetch(ctx, refined)
	if err != nil {
		return nil, err
	}

	rate := s.rates.USDToRUB(ctx)

	listings := make([]models.Listing, 0, len(response.Data))
	for _, item := range response.Data {
		listings = append(listings, s.normalize(item, rate))
	}
	return listings, nil
}

func (s *searchService) fetch(ctx context.Context, query string) (*models.SearchResponse, error) {
	endpoint := fmt.Sprintf("%s%s?%s", s.relayBase, searchPath, url.Values{
		"hash_name": {query},
	}.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, apperrors.NewSearchFailedError(0, err)
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		s.diag.Record(ctx, "market-search", fmt.Sprintf("relay unreachable: %v", err))
		return nil, apperrors.NewSearchFailedError(0, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		s.diag.Record(ctx, "market-search", fmt.Sprintf("status %d for %q", resp.StatusCode, query))
		return nil, apperrors.NewSearchFailedError(resp.StatusCode, fmt.Errorf("marketplace returned status %d", resp.StatusCode))
	}

	var response models.SearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		s.diag.Record(ctx, "market-search", fmt.Sprintf("malformed response for %q: %v", query, err))
		return nil, apperrors.NewSearchFailedError(resp.StatusCode, fmt.Errorf("malformed marketplace response: %w", err))
	}

	if !response.Success {
		s.diag.Record(ctx, "market-search", fmt.Sprintf("marketplace error for %q: %s", query, response.Error))
		return nil, apperrors.NewSearchFailedError(resp.StatusCode, fmt.Errorf("marketplace error: %s", response.Error)).
			WithDetail("marketplace_error", response.Error)
	}

	return &response, nil
}

// normalize maps a raw marketplace row into the prize shape: price
// converted to the display currency, rarity enriched from the catalog with
// marketplace fallback, image synthesized from the class ID when absent,
// and display labels localized.
func (s *searchService) normalize(item models.SearchItem, rate decimal.Decimal) models.Listing {
	priceUSD := decimal.NewFromInt(item.Price).Div(centsPerUnit)
	priceRUB := priceUSD.Mul(rate).Round(2)

	rarityName := item.Rarity
	rarityColor := ""
	if entry, ok := catalog.RarityByName(item.MarketHashName); ok {
		rarityName = entry.RarityName
		rarityColor = entry.RarityColor
	}

	imageURL := item.ImageURL
	if imageURL == "" && item.ClassID != "" {
		imageURL = fmt.Sprintf(imageURLPattern, item.ClassID)
	}

	return models.Listing{
		Name:        item.MarketHashName,
		DisplayName: catalog.LocalizeExterior(item.MarketHashName),
		Price:       priceRUB,
		ImageURL:    imageURL,
		RarityName:  catalog.LocalizeRarity(rarityName),
		RarityColor: rarityColor,
	}
}
