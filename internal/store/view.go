package store

import (
	"sort"
	"strings"
	"time"

	"flashpro-backend/internal/models"
)

type SortOption string

const (
	SortNameAsc  SortOption = "name-asc"
	SortNameDesc SortOption = "name-desc"
	SortDateAsc  SortOption = "date-asc"
	SortDateDesc SortOption = "date-desc"
	SortPriority SortOption = "priority"
)

func (o SortOption) Valid() bool {
	switch o {
	case SortNameAsc, SortNameDesc, SortDateAsc, SortDateDesc, SortPriority:
		return true
	}
	return false
}

type FilterOption string

const (
	FilterAll    FilterOption = "all"
	FilterRead   FilterOption = "read"
	FilterUnread FilterOption = "unread"
	FilterHigh   FilterOption = "high"
	FilterMedium FilterOption = "medium"
	FilterLow    FilterOption = "low"
)

func (o FilterOption) Valid() bool {
	switch o {
	case FilterAll, FilterRead, FilterUnread, FilterHigh, FilterMedium, FilterLow:
		return true
	}
	return false
}

// ViewParams are the user-controlled criteria behind the derived view.
type ViewParams struct {
	Search   string
	SortBy   SortOption
	FilterBy FilterOption
}

func DefaultViewParams() ViewParams {
	return ViewParams{SortBy: SortDateDesc, FilterBy: FilterAll}
}

// ComputeFilteredSorted derives the visible collection: search, then
// filter, then a stable sort. It is a pure function of its inputs.
func ComputeFilteredSorted(sets []models.FlashcardSet, p ViewParams) []models.FlashcardSet {
	term := strings.ToLower(strings.TrimSpace(p.Search))

	out := make([]models.FlashcardSet, 0, len(sets))
	for _, set := range sets {
		if matchesSearch(set, term) && matchesFilter(set, p.FilterBy) {
			out = append(out, set)
		}
	}

	switch p.SortBy {
	case SortNameAsc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	case SortNameDesc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Name > out[j].Name })
	case SortDateAsc:
		sort.SliceStable(out, func(i, j int) bool {
			return createdAt(out[i]).Before(createdAt(out[j]))
		})
	case SortDateDesc:
		sort.SliceStable(out, func(i, j int) bool {
			return createdAt(out[j]).Before(createdAt(out[i]))
		})
	case SortPriority:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Priority.Rank() > out[j].Priority.Rank()
		})
	}

	return out
}

// matchesSearch is a case-insensitive substring match against the set
// name or any card's question or answer.
func matchesSearch(set models.FlashcardSet, term string) bool {
	if term == "" {
		return true
	}
	if strings.Contains(strings.ToLower(set.Name), term) {
		return true
	}
	for _, card := range set.Cards {
		if strings.Contains(strings.ToLower(card.Question), term) ||
			strings.Contains(strings.ToLower(card.Answer), term) {
			return true
		}
	}
	return false
}

func matchesFilter(set models.FlashcardSet, filter FilterOption) bool {
	switch filter {
	case FilterRead:
		if len(set.Cards) == 0 {
			return false
		}
		for _, card := range set.Cards {
			if !card.IsRead {
				return false
			}
		}
		return true
	case FilterUnread:
		for _, card := range set.Cards {
			if !card.IsRead {
				return true
			}
		}
		return false
	case FilterHigh, FilterMedium, FilterLow:
		return set.Priority == models.Priority(filter)
	}
	return true
}

func createdAt(set models.FlashcardSet) time.Time {
	t, err := time.Parse(time.RFC3339, set.CreatedAt)
	if err != nil {
		return time.Time{}
	}
	return t
}

// Group is one partition of the collection under a shared name.
type Group struct {
	Key  string                `json:"key"`  // trimmed, lowercased name
	Name string                `json:"name"` // first-seen display name
	Sets []models.FlashcardSet `json:"sets"`
}

// ComputeGrouped partitions all sets by case-insensitive trimmed name.
// Groups appear in first-seen collection order and sets keep their
// collection order inside a group.
func ComputeGrouped(sets []models.FlashcardSet) []Group {
	index := make(map[string]int)
	var groups []Group

	for _, set := range sets {
		display := strings.TrimSpace(set.Name)
		key := strings.ToLower(display)

		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, Group{Key: key, Name: display})
		}
		groups[i].Sets = append(groups[i].Sets, set)
	}

	return groups
}
