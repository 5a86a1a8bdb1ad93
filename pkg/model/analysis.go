package model

import "strings"

// TLDState is the inferred registration state of one suffix.
type TLDState string

const (
	TLDAvailable TLDState = "AVAILABLE"
	TLDTaken     TLDState = "TAKEN"
	TLDUnknown   TLDState = "UNKNOWN"
)

// ParseTLDState normalizes backend output. Unrecognized values are UNKNOWN.
func ParseTLDState(s string) TLDState {
	switch TLDState(strings.ToUpper(strings.TrimSpace(s))) {
	case TLDAvailable:
		return TLDAvailable
	case TLDTaken:
		return TLDTaken
	default:
		return TLDUnknown
	}
}

// IdentityAnalysis is the availability enrichment of exactly one idea.
type IdentityAnalysis struct {
	Handle             string              `json:"handle"`
	TakenOn            []string            `json:"takenOn"`
	Summary            string              `json:"summary"`
	ProfileTitle       string              `json:"profileTitle,omitempty"`
	ProfileDescription string              `json:"profileDescription,omitempty"`
	TLDStatus          map[string]TLDState `json:"tldStatus,omitempty"`

	// Degraded is set when the analysis is the default produced after the
	// backend failed or returned something unreadable.
	Degraded bool `json:"degraded,omitempty"`
}

const DefaultUnknownSummary = "Could not verify availability details."

// NewUnknownAnalysis returns the default "unknown" analysis for handle.
func NewUnknownAnalysis(handle, summary string) *IdentityAnalysis {
	if summary == "" {
		summary = DefaultUnknownSummary
	}
	return &IdentityAnalysis{
		Handle:    handle,
		TakenOn:   []string{},
		Summary:   summary,
		TLDStatus: map[string]TLDState{},
		Degraded:  true,
	}
}

// Taken reports whether the analysis found the name on any platform or TLD.
func (x *IdentityAnalysis) Taken() bool {
	if len(x.TakenOn) > 0 {
		return true
	}
	for _, st := range x.TLDStatus {
		if st == TLDTaken {
			return true
		}
	}
	return false
}
