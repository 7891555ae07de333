package stories

import (
	"strings"
	"time"
)

// Story statuses.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// TagUrgency marks stories that need fast follow-up.
const TagUrgency = "urgency"

// Story is a personal account submitted by a user for moderation.
type Story struct {
	ID          string
	UserID      string
	Title       string
	Content     string
	AudioURL    string
	Tags        []string
	Status      string
	SubmittedAt time.Time
	ApprovedAt  *time.Time
	ApprovedBy  string
}

// HasTag reports whether the story carries tag.
func (s Story) HasTag(tag string) bool {
	for _, t := range s.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Filter narrows story listings. Empty fields match everything.
type Filter struct {
	UserID string
	Status string
}

func (f Filter) matches(s Story) bool {
	if f.UserID != "" && s.UserID != f.UserID {
		return false
	}
	if f.Status != "" && s.Status != f.Status {
		return false
	}
	return true
}

func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]bool, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}
