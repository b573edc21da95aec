package query

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/goliatone/go-formtemplate/pkg/template"
)

// ErrInvalidSortKey is returned for sort keys outside SortKeys.
var ErrInvalidSortKey = errors.New("query: invalid sort key")

// SortKey orders community templates, always descending.
type SortKey string

const (
	SortPopular SortKey = "popular"
	SortNewest  SortKey = "newest"
	SortRating  SortKey = "rating"
)

// SortKeys lists the accepted keys; the first is the default.
func SortKeys() []SortKey {
	return []SortKey{SortPopular, SortNewest, SortRating}
}

// ParseSortKey resolves raw into a SortKey. An empty value selects
// SortPopular.
func ParseSortKey(raw string) (SortKey, error) {
	trimmed := strings.ToLower(strings.TrimSpace(raw))
	if trimmed == "" {
		return SortPopular, nil
	}
	for _, key := range SortKeys() {
		if string(key) == trimmed {
			return key, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidSortKey, raw)
}

// Sort returns a new slice ordered by key, descending. Ties keep their input
// order. SortNewest compares DatePublished as instants; dates that parse
// neither as YYYY-MM-DD nor RFC 3339 sort last.
func Sort(items []template.CommunityTemplate, key SortKey) ([]template.CommunityTemplate, error) {
	less, err := comparator(key)
	if err != nil {
		return nil, err
	}
	entries := make([]entry, len(items))
	for i, item := range items {
		entries[i] = entry{item: item}
		if key == SortNewest {
			entries[i].published, entries[i].dated = published(item.Stats)
		}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return less(entries[i], entries[j])
	})
	out := make([]template.CommunityTemplate, len(entries))
	for i, e := range entries {
		out[i] = e.item
	}
	return out, nil
}

type entry struct {
	item      template.CommunityTemplate
	published time.Time
	dated     bool
}

func published(stats template.Stats) (time.Time, bool) {
	if t, err := stats.Published(); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, strings.TrimSpace(stats.DatePublished)); err == nil {
		return t, true
	}
	return time.Time{}, false
}

func comparator(key SortKey) (func(a, b entry) bool, error) {
	switch key {
	case SortPopular:
		return func(a, b entry) bool {
			return a.item.Stats.Downloads > b.item.Stats.Downloads
		}, nil
	case SortRating:
		return func(a, b entry) bool {
			return a.item.Stats.Rating > b.item.Stats.Rating
		}, nil
	case SortNewest:
		return func(a, b entry) bool {
			if !a.dated || !b.dated {
				return a.dated && !b.dated
			}
			return a.published.After(b.published)
		}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidSortKey, string(key))
	}
}

// Browse filters then sorts community templates, the order used by the
// marketplace listing.
func Browse(items []template.CommunityTemplate, filter Filter, key SortKey) ([]template.CommunityTemplate, error) {
	return Sort(Search(items, filter), key)
}
