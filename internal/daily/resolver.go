// ABOUTME: Turns user date tokens (today, yesterday, last, YYYY-MM-DD) into DateKeys.
// ABOUTME: Keyword matching is case-insensitive; "last" defers to a latest-entry lookup.
package daily

import (
	"strings"
	"time"

	"github.com/2389-research/daily/internal/models"
)

// LookbackDays bounds how far back the latest-entry scan looks, today included.
const LookbackDays = 30

// Clock returns the current time; the local calendar date of its result is "today".
type Clock func() time.Time

// LatestFunc finds the most recent date with an entry. ok is false when none exists.
type LatestFunc func() (key models.DateKey, ok bool, err error)

type keyword int

const (
	notKeyword keyword = iota
	keywordToday
	keywordYesterday
	keywordLast
)

func lookupKeyword(token string) keyword {
	switch strings.ToLower(strings.TrimSpace(token)) {
	case "today", "t":
		return keywordToday
	case "yesterday", "y":
		return keywordYesterday
	case "last", "l":
		return keywordLast
	default:
		return notKeyword
	}
}

// ValidateToken checks token syntax without consulting any storage.
func ValidateToken(token string) error {
	if lookupKeyword(token) != notKeyword {
		return nil
	}
	_, err := models.ParseDateKey(token)
	return err
}

// Resolver maps tokens to DateKeys.
type Resolver struct {
	now    Clock
	latest LatestFunc
}

// NewResolver returns a Resolver. A nil clock uses time.Now.
func NewResolver(now Clock, latest LatestFunc) *Resolver {
	if now == nil {
		now = time.Now
	}
	return &Resolver{now: now, latest: latest}
}

// Today returns the host-local calendar date.
func (r *Resolver) Today() models.DateKey {
	return models.DateKeyFromTime(r.now())
}

// Resolve maps token to a DateKey or returns an *models.InvalidDateError.
// "last" with no entry in the lookback window resolves to today.
func (r *Resolver) Resolve(token string) (models.DateKey, error) {
	switch lookupKeyword(token) {
	case keywordToday:
		return r.Today(), nil
	case keywordYesterday:
		return r.Today().AddDays(-1), nil
	case keywordLast:
		if r.latest == nil {
			return r.Today(), nil
		}
		key, ok, err := r.latest()
		if err != nil {
			return models.DateKey{}, err
		}
		if !ok {
			return r.Today(), nil
		}
		return key, nil
	}
	return models.ParseDateKey(token)
}
