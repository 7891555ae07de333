package users

import (
	"strings"
	"time"
)

const (
	TypeCreative = "creative"
	TypeAgent    = "agent"
	TypeAdmin    = "admin"

	GenderPreferNotToSay = "prefer_not_to_say"

	GroupRefugee = "refugee"
	GroupPWD     = "PWD"
	GroupLGBTQI  = "LGBTQI+"
)

var (
	userTypes = map[string]bool{TypeCreative: true, TypeAgent: true, TypeAdmin: true}
	genders   = map[string]bool{"male": true, "female": true, "non-binary": true, "other": true, GenderPreferNotToSay: true}
)

// SocialProof names a person who can vouch for the user.
type SocialProof struct {
	ReferenceName string `json:"reference_name"`
	Relationship  string `json:"relationship"`
	Phone         string `json:"phone"`
}

func (p SocialProof) trimmed() SocialProof {
	return SocialProof{
		ReferenceName: strings.TrimSpace(p.ReferenceName),
		Relationship:  strings.TrimSpace(p.Relationship),
		Phone:         strings.TrimSpace(p.Phone),
	}
}

// User represents a registered platform member and their accessibility profile.
type User struct {
	ID                    string
	Email                 string
	FullName              string
	Phone                 string
	Location              string
	UserType              string
	Gender                string
	Disability            bool
	DisabilityType        string
	MarginalizedGroups    []string
	PrimaryDevice         string
	LiteracyLevel         string
	SocialProof           SocialProof
	ConsentDataCollection bool
	ConsentContact        bool
	PasswordHash          []byte
	DateJoined            time.Time
}

// InGroup reports whether the user self-identifies with the given group.
func (u User) InGroup(group string) bool {
	for _, g := range u.MarginalizedGroups {
		if g == group {
			return true
		}
	}
	return false
}

// HasSocialProof reports whether a reference person has been named. Fields
// are trimmed on write, so a blank name is stored as "".
func (u User) HasSocialProof() bool {
	return u.SocialProof.ReferenceName != ""
}

// Registration carries the data required to create a user.
type Registration struct {
	Email                 string
	Password              string
	FullName              string
	Phone                 string
	Location              string
	UserType              string
	Gender                string
	Disability            bool
	DisabilityType        string
	MarginalizedGroups    []string
	PrimaryDevice         string
	LiteracyLevel         string
	SocialProof           SocialProof
	ConsentDataCollection bool
	ConsentContact        bool
}

// ProfileUpdate holds optional profile edits. Nil fields are left unchanged.
type ProfileUpdate struct {
	Phone              *string
	Location           *string
	Disability         *bool
	DisabilityType     *string
	MarginalizedGroups []string
	PrimaryDevice      *string
	LiteracyLevel      *string
	SocialProof        *SocialProof
}

func (p ProfileUpdate) apply(u User) User {
	if p.Phone != nil {
		u.Phone = *p.Phone
	}
	if p.Location != nil {
		u.Location = *p.Location
	}
	if p.Disability != nil {
		u.Disability = *p.Disability
	}
	if p.DisabilityType != nil {
		u.DisabilityType = *p.DisabilityType
	}
	if p.MarginalizedGroups != nil {
		u.MarginalizedGroups = normalizeGroups(p.MarginalizedGroups)
	}
	if p.PrimaryDevice != nil {
		u.PrimaryDevice = strings.TrimSpace(*p.PrimaryDevice)
	}
	if p.LiteracyLevel != nil {
		u.LiteracyLevel = strings.TrimSpace(*p.LiteracyLevel)
	}
	if p.SocialProof != nil {
		u.SocialProof = p.SocialProof.trimmed()
	}
	return u
}

// normalizeGroups trims entries and drops blanks and duplicates, keeping order.
func normalizeGroups(groups []string) []string {
	out := make([]string, 0, len(groups))
	seen := make(map[string]bool, len(groups))
	for _, g := range groups {
		g = strings.TrimSpace(g)
		if g == "" || seen[g] {
			continue
		}
		seen[g] = true
		out = append(out, g)
	}
	return out
}
