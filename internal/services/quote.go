package services

import (
	"context"
	"errors"
	"time"

	"github.com/AnshRaj112/saferplace/internal/apiclient"
	"github.com/AnshRaj112/saferplace/internal/models"
	"github.com/sirupsen/logrus"
)

// QuoteErrorText is shown in place of the quote when it cannot be loaded.
const QuoteErrorText = "Failed to load message"

var ErrQuoteUnavailable = errors.New("message of the day unavailable")

// QuoteService fetches the message of the day and caches it until local midnight.
type QuoteService struct {
	api   *apiclient.Client
	cache Cache
	log   *logrus.Entry
	now   func() time.Time
}

func NewQuoteService(api *apiclient.Client, cache Cache, log *logrus.Entry) *QuoteService {
	return &QuoteService{api: api, cache: cache, log: log, now: time.Now}
}

// Today returns the cached quote for the current day, fetching it on a miss.
func (q *QuoteService) Today(ctx context.Context) (models.Quote, error) {
	var quote models.Quote
	found, err := q.cache.Get(ctx, q.key(), &quote)
	if err != nil {
		q.log.WithError(err).Warn("quote cache read failed")
	}
	if found {
		return quote, nil
	}
	return q.Refresh(ctx)
}

// Refresh bypasses the cache and stores the new quote.
func (q *QuoteService) Refresh(ctx context.Context) (models.Quote, error) {
	var quote models.Quote
	if err := q.api.Get(ctx, "/message-of-the-day", &quote); err != nil {
		q.log.WithError(err).Error("Failed to load message")
		return models.Quote{}, errors.Join(ErrQuoteUnavailable, err)
	}

	if ttl := untilMidnight(q.now()); ttl > 0 {
		if err := q.cache.Set(ctx, q.key(), quote, ttl); err != nil {
			q.log.WithError(err).Warn("quote cache write failed")
		}
	}
	return quote, nil
}

func (q *QuoteService) key() string {
	return CacheKey("quote", q.now().Format("2006-01-02"))
}

func untilMidnight(now time.Time) time.Duration {
	y, m, d := now.Date()
	return time.Date(y, m, d+1, 0, 0, 0, 0, now.Location()).Sub(now)
}
