package stories

import (
	"context"
	"sort"
	"sync"
)

type memoryRepository struct {
	mu      sync.RWMutex
	stories map[string]Story
}

// NewMemoryRepository builds an in-memory story store.
func NewMemoryRepository() Repository {
	return &memoryRepository{stories: make(map[string]Story)}
}

func (r *memoryRepository) Create(_ context.Context, story Story) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stories[story.ID] = clone(story)
	return nil
}

func (r *memoryRepository) Get(_ context.Context, id string) (Story, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	story, ok := r.stories[id]
	if !ok {
		return Story{}, ErrNotFound
	}
	return clone(story), nil
}

func (r *memoryRepository) List(_ context.Context, filter Filter) ([]Story, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Story
	for _, s := range r.stories {
		if filter.matches(s) {
			out = append(out, clone(s))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SubmittedAt.After(out[j].SubmittedAt) })
	return out, nil
}

func (r *memoryRepository) UpdateModeration(_ context.Context, story Story) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	current, ok := r.stories[story.ID]
	if !ok {
		return ErrNotFound
	}
	if current.Status != StatusPending {
		return ErrAlreadyModerated
	}
	current.Status = story.Status
	current.ApprovedAt = story.ApprovedAt
	current.ApprovedBy = story.ApprovedBy
	r.stories[story.ID] = current
	return nil
}

func clone(s Story) Story {
	s.Tags = append([]string(nil), s.Tags...)
	if s.ApprovedAt != nil {
		t := *s.ApprovedAt
		s.ApprovedAt = &t
	}
	return s
}
