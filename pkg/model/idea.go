package model

import (
	"strings"

	"github.com/m-mizutani/goerr/v2"
)

const (
	MinAvailabilityScore = 1
	MaxAvailabilityScore = 10
)

// IdentityIdea is a generated candidate identity. Handle is the unique key
// within a generation batch and within a favorites namespace.
type IdentityIdea struct {
	Handle            string `json:"handle" firestore:"handle"`
	Style             string `json:"style" firestore:"style"`
	Vibe              string `json:"vibe" firestore:"vibe"`
	Category          string `json:"category" firestore:"category"`
	Explanation       string `json:"explanation" firestore:"explanation"`
	AvailabilityScore int    `json:"availabilityScore" firestore:"availability_score"`
}

// Validate checks the fields the rest of the system relies on. Descriptive
// fields are opaque and not checked.
func (x *IdentityIdea) Validate() error {
	if x == nil {
		return goerr.Wrap(ErrInvalidIdea, "idea is nil")
	}
	if strings.TrimSpace(x.Handle) == "" {
		return goerr.Wrap(ErrInvalidIdea, "handle is empty")
	}
	if x.AvailabilityScore < MinAvailabilityScore || x.AvailabilityScore > MaxAvailabilityScore {
		return goerr.Wrap(ErrInvalidIdea, "availability score out of range",
			goerr.V("handle", x.Handle),
			goerr.V("score", x.AvailabilityScore))
	}
	return nil
}

// Copy returns a shallow copy so callers can not mutate shared records.
func (x *IdentityIdea) Copy() *IdentityIdea {
	if x == nil {
		return nil
	}
	c := *x
	return &c
}

// CopyIdeas copies every idea of the slice. A nil input returns an empty,
// non-nil slice.
func CopyIdeas(ideas []*IdentityIdea) []*IdentityIdea {
	out := make([]*IdentityIdea, 0, len(ideas))
	for _, idea := range ideas {
		out = append(out, idea.Copy())
	}
	return out
}

// Category is the fixed classification used to pick a visual preset.
type Category string

const (
	CategoryCommerce Category = "Commerce"
	CategoryGaming   Category = "Gaming"
	CategoryTech     Category = "Tech"
	CategoryCreative Category = "Creative"
	CategoryPersonal Category = "Personal"
	CategoryOther    Category = "Other"
)

// Categories lists every category in display order.
var Categories = []Category{
	CategoryCommerce,
	CategoryGaming,
	CategoryTech,
	CategoryCreative,
	CategoryPersonal,
	CategoryOther,
}

// ParseCategory matches s case-insensitively. Anything unrecognized is Other.
func ParseCategory(s string) Category {
	s = strings.TrimSpace(s)
	for _, c := range Categories {
		if strings.EqualFold(string(c), s) {
			return c
		}
	}
	return CategoryOther
}
