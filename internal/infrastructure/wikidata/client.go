package wikidata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/location-microservice/internal/domain"
	"github.com/location-microservice/internal/domain/repository"
)

type client struct {
	httpClient *http.Client
	apiURL     string
	limiter    *rate.Limiter
	logger     *zap.Logger
}

// Config configures the Wikidata enrichment client.
type Config struct {
	APIURL         string
	RequestTimeout time.Duration
}

const (
	chunkSize         = 30
	maxAttempts       = 3
	propEmployeeCount = "P1128"
	propMarketCap     = "P2226"
	propAsOf          = "P585"
)

// NewClient builds a WikidataRepository batch entity lookup client.
func NewClient(cfg Config, logger *zap.Logger) repository.WikidataRepository {
	return &client{
		httpClient: &http.Client{Timeout: cfg.RequestTimeout},
		apiURL:     cfg.APIURL,
		limiter:    rate.NewLimiter(rate.Limit(4), 4),
		logger:     logger,
	}
}

// GetEntities fetches claims for qids in chunks of chunkSize, retrying each
// chunk up to maxAttempts times on 429/5xx/network error.
func (c *client) GetEntities(ctx context.Context, qids []string) (map[string]domain.WikidataEntity, error) {
	result := make(map[string]domain.WikidataEntity, len(qids))

	for start := 0; start < len(qids); start += chunkSize {
		end := start + chunkSize
		if end > len(qids) {
			end = len(qids)
		}
		chunk := qids[start:end]

		entities, err := c.fetchChunk(ctx, chunk)
		if err != nil {
			return result, err
		}
		for qid, entity := range entities {
			result[qid] = entity
		}
	}

	return result, nil
}

func (c *client) fetchChunk(ctx context.Context, qids []string) (map[string]domain.WikidataEntity, error) {
	url := fmt.Sprintf("%s?action=wbgetentities&format=json&props=claims&ids=%s", c.apiURL, strings.Join(qids, "|"))

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		entities, retryable, err := c.getOnce(ctx, url)
		if err == nil {
			return entities, nil
		}
		lastErr = err
		c.logger.Warn("wikidata request failed", zap.Int("attempt", attempt), zap.Error(err))
		if !retryable {
			break
		}
		if err := sleepContext(ctx, time.Duration(400*attempt)*time.Millisecond); err != nil {
			return nil, err
		}
	}

	return nil, fmt.Errorf("wikidata: chunk failed: %w", lastErr)
}

func (c *client) getOnce(ctx context.Context, url string) (map[string]domain.WikidataEntity, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, false, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, true, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		var parsed entitiesResponse
		if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
			return nil, false, fmt.Errorf("wikidata: decode: %w", err)
		}
		return parsed.toDomain(), false, nil
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		body, _ := io.ReadAll(resp.Body)
		return nil, true, fmt.Errorf("wikidata: status %d: %s", resp.StatusCode, string(body))
	default:
		body, _ := io.ReadAll(resp.Body)
		return nil, false, fmt.Errorf("wikidata: status %d: %s", resp.StatusCode, string(body))
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// --- wire format ---

type entitiesResponse struct {
	Entities map[string]rawEntity `json:"entities"`
}

type rawEntity struct {
	ID     string               `json:"id"`
	Claims map[string][]rawClaim `json:"claims"`
}

type rawClaim struct {
	Rank     string `json:"rank"`
	Mainsnak struct {
		Datavalue struct {
			Value json.RawMessage `json:"value"`
		} `json:"datavalue"`
	} `json:"mainsnak"`
	Qualifiers map[string][]rawClaim `json:"qualifiers"`
}

type quantityValue struct {
	Amount string `json:"amount"`
	Unit   string `json:"unit"`
}

type timeValue struct {
	Time string `json:"time"`
}

func (r entitiesResponse) toDomain() map[string]domain.WikidataEntity {
	out := make(map[string]domain.WikidataEntity, len(r.Entities))
	for qid, raw := range r.Entities {
		entity := domain.WikidataEntity{ID: qid}
		entity.EmployeeCount = bestQuantityClaim(raw.Claims[propEmployeeCount], false)
		entity.MarketCap = bestQuantityClaim(raw.Claims[propMarketCap], true)
		out[qid] = entity
	}
	return out
}

var rankOrder = map[string]int{"preferred": 2, "normal": 1, "other": 0}

// bestQuantityClaim selects the non-deprecated claim with the highest rank,
// tie-broken by the most recent P585 qualifier.
func bestQuantityClaim(claims []rawClaim, withUnit bool) *domain.WikidataQuantityClaim {
	var best *rawClaim
	var bestAsOf *time.Time

	for i := range claims {
		claim := claims[i]
		if claim.Rank == "deprecated" {
			continue
		}
		asOf := mostRecentAsOf(claim.Qualifiers[propAsOf])

		if best == nil {
			best, bestAsOf = &claim, asOf
			continue
		}

		if rankOrder[claim.Rank] > rankOrder[best.Rank] {
			best, bestAsOf = &claim, asOf
			continue
		}
		if rankOrder[claim.Rank] == rankOrder[best.Rank] && isMoreRecent(asOf, bestAsOf) {
			best, bestAsOf = &claim, asOf
		}
	}

	if best == nil {
		return nil
	}

	var qv quantityValue
	if err := json.Unmarshal(best.Mainsnak.Datavalue.Value, &qv); err != nil {
		return nil
	}
	amount, err := strconv.ParseFloat(strings.TrimPrefix(qv.Amount, "+"), 64)
	if err != nil {
		return nil
	}

	result := &domain.WikidataQuantityClaim{Amount: amount, AsOf: bestAsOf}
	if withUnit && qv.Unit != "" && qv.Unit != "1" {
		unitQID := unitToQID(qv.Unit)
		result.UnitQID = &unitQID
	}
	return result
}

func mostRecentAsOf(qualifiers []rawClaim) *time.Time {
	var best *time.Time
	for _, q := range qualifiers {
		var tv timeValue
		if err := json.Unmarshal(q.Mainsnak.Datavalue.Value, &tv); err != nil {
			continue
		}
		t, ok := canonicalizeWikidataTime(tv.Time)
		if !ok {
			continue
		}
		if best == nil || t.After(*best) {
			best = &t
		}
	}
	return best
}

func isMoreRecent(a, b *time.Time) bool {
	if a == nil {
		return false
	}
	if b == nil {
		return true
	}
	return a.After(*b)
}

// canonicalizeWikidataTime parses a Wikidata "+YYYY-MM-DDT00:00:00Z" style
// timestamp, rewriting a zeroed month or day to 01.
func canonicalizeWikidataTime(raw string) (time.Time, bool) {
	s := strings.TrimPrefix(raw, "+")
	s = strings.TrimSuffix(s, "Z")
	datePart, _, found := strings.Cut(s, "T")
	if !found {
		datePart = s
	}
	parts := strings.Split(datePart, "-")
	if len(parts) != 3 {
		return time.Time{}, false
	}
	if parts[1] == "00" {
		parts[1] = "01"
	}
	if parts[2] == "00" {
		parts[2] = "01"
	}
	canon := strings.Join(parts, "-") + "T00:00:00Z"
	t, err := time.Parse(time.RFC3339, canon)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// unitToQID extracts the trailing Q-id from a Wikidata unit URI such as
// "http://www.wikidata.org/entity/Q4917".
func unitToQID(unitURI string) string {
	idx := strings.LastIndex(unitURI, "/")
	if idx == -1 {
		return unitURI
	}
	return unitURI[idx+1:]
}
