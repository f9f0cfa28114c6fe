package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"log"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"

	"flashpro-backend/internal/models"
	"flashpro-backend/internal/storage"
)

// Cards beyond this count are discarded at creation time.
const MaxCardsPerSet = 5

// Store is the single owner of the flashcard-set collection. All
// mutation goes through Add/Update/Remove; each one persists
// synchronously before returning. Persistence failures are logged and
// swallowed: the in-memory state stays authoritative for the session.
type Store struct {
	mu      sync.Mutex
	storage storage.Storage
	sets    []models.FlashcardSet // most-recent-first
	params  ViewParams
}

// Open restores the collection from durable storage. A missing value
// starts empty; a malformed one is logged and also starts empty rather
// than failing startup. Loaded cards go through the isRead migration
// and the migrated form is written straight back.
func Open(st storage.Storage) *Store {
	s := &Store{storage: st, params: DefaultViewParams()}

	data, err := st.Load()
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			log.Printf("store: load failed, starting empty: %v", err)
		}
		return s
	}

	sets, err := decodeCollection(data)
	if err != nil {
		log.Printf("store: malformed collection, starting empty: %v", err)
		return s
	}

	s.sets = sets
	s.save()
	return s
}

// persistedCard tolerates legacy collections where isRead was absent,
// null, or otherwise not a strict boolean.
type persistedCard struct {
	Question string          `json:"question"`
	Answer   string          `json:"answer"`
	IsRead   json.RawMessage `json:"isRead"`
}

type persistedSet struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Cards     []persistedCard `json:"cards"`
	Priority  models.Priority `json:"priority"`
	IsRead    json.RawMessage `json:"isRead"`
	CreatedAt string          `json:"createdAt"`
}

func decodeCollection(data []byte) ([]models.FlashcardSet, error) {
	var raw []persistedSet
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	sets := make([]models.FlashcardSet, len(raw))
	for i, ps := range raw {
		cards := make([]models.Flashcard, len(ps.Cards))
		for j, pc := range ps.Cards {
			cards[j] = models.Flashcard{
				Question: pc.Question,
				Answer:   pc.Answer,
				IsRead:   coerceBool(pc.IsRead),
			}
		}

		priority := ps.Priority
		if !priority.Valid() {
			priority = models.PriorityMedium
		}

		sets[i] = models.FlashcardSet{
			ID:        ps.ID,
			Name:      ps.Name,
			Cards:     cards,
			Priority:  priority,
			IsRead:    coerceBool(ps.IsRead),
			CreatedAt: ps.CreatedAt,
		}
	}
	return sets, nil
}

// coerceBool maps anything that is not a JSON true to false.
func coerceBool(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("true"))
}

// save must be called with s.mu held (or before the store is shared).
func (s *Store) save() {
	data, err := json.Marshal(s.sets)
	if err != nil {
		log.Printf("store: marshal failed: %v", err)
		return
	}
	if err := s.storage.Save(data); err != nil {
		log.Printf("store: persist failed, keeping in-memory state: %v", err)
	}
}

// Add creates a set from the given fields: cards are capped at
// MaxCardsPerSet, every card starts unread, and the new set is
// prepended to the collection.
func (s *Store) Add(name string, cards []models.Flashcard, priority models.Priority, isRead bool) models.FlashcardSet {
	if !priority.Valid() {
		priority = models.PriorityMedium
	}
	if len(cards) > MaxCardsPerSet {
		cards = cards[:MaxCardsPerSet]
	}

	fresh := make([]models.Flashcard, len(cards))
	for i, c := range cards {
		fresh[i] = models.Flashcard{Question: c.Question, Answer: c.Answer, IsRead: false}
	}

	set := models.FlashcardSet{
		ID:        uuid.NewString(),
		Name:      name,
		Cards:     fresh,
		Priority:  priority,
		IsRead:    isRead,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sets = append([]models.FlashcardSet{set}, s.sets...)
	s.save()
	return set
}

// SetUpdate is a partial update; nil fields are left untouched. Cards
// replaces the whole list, never merges per card.
type SetUpdate struct {
	Name     *string
	Cards    *[]models.Flashcard
	Priority *models.Priority
	IsRead   *bool
}

// Update merges upd into the set with the given id and reports whether
// it was found. An unknown id is a no-op.
func (s *Store) Update(id string, upd SetUpdate) (models.FlashcardSet, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.sets {
		if s.sets[i].ID != id {
			continue
		}
		if upd.Name != nil {
			s.sets[i].Name = *upd.Name
		}
		if upd.Cards != nil {
			s.sets[i].Cards = append([]models.Flashcard(nil), (*upd.Cards)...)
		}
		if upd.Priority != nil && upd.Priority.Valid() {
			s.sets[i].Priority = *upd.Priority
		}
		if upd.IsRead != nil {
			s.sets[i].IsRead = *upd.IsRead
		}
		s.save()
		return s.sets[i], true
	}
	return models.FlashcardSet{}, false
}

// Remove deletes the set with the given id and reports whether it was
// found. An unknown id is a no-op.
func (s *Store) Remove(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.sets {
		if s.sets[i].ID == id {
			s.sets = append(s.sets[:i], s.sets[i+1:]...)
			s.save()
			return true
		}
	}
	return false
}

// Get returns the set with the given id.
func (s *Store) Get(id string) (models.FlashcardSet, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, set := range s.sets {
		if set.ID == id {
			return set, true
		}
	}
	return models.FlashcardSet{}, false
}

// Sets returns a copy of the full collection in storage order.
func (s *Store) Sets() []models.FlashcardSet {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.FlashcardSet(nil), s.sets...)
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sets)
}

// SetSearchTerm, SetSortBy and SetFilterBy adjust the store's current
// view parameters. Invalid options are ignored.
func (s *Store) SetSearchTerm(term string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.params.Search = term
}

func (s *Store) SetSortBy(opt SortOption) {
	if !opt.Valid() {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.params.SortBy = opt
}

func (s *Store) SetFilterBy(opt FilterOption) {
	if !opt.Valid() {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.params.FilterBy = opt
}

func (s *Store) Params() ViewParams {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.params
}

// View recomputes the filtered/sorted collection from the current
// state and parameters. There is no cached copy to go stale.
func (s *Store) View() []models.FlashcardSet {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ComputeFilteredSorted(s.sets, s.params)
}

// Grouped partitions the entire collection by set name, unaffected by
// search, sort, or filter.
func (s *Store) Grouped() []Group {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ComputeGrouped(s.sets)
}
