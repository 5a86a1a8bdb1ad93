package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/namer/pkg/model"
)

func newSpinner(w io.Writer, message string) *spinner.Spinner {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(w))
	s.Suffix = " " + message
	return s
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return goerr.Wrap(err, "failed to encode output")
	}
	return nil
}

// printIdeas lists ideas numbered from 1. saved marks ideas already in the
// favorites; analyses adds the availability line when present.
func printIdeas(w io.Writer, ideas []*model.IdentityIdea, saved func(string) bool, analyses map[string]*model.IdentityAnalysis) {
	if len(ideas) == 0 {
		fmt.Fprintln(w, "No ideas.")
		return
	}

	for i, idea := range ideas {
		mark := " "
		if saved != nil && saved(idea.Handle) {
			mark = "*"
		}
		fmt.Fprintf(w, "%2d.%s %s  [%s] score %d/10\n", i+1, mark, idea.Handle, idea.Category, idea.AvailabilityScore)
		fmt.Fprintf(w, "     %s, %s\n", idea.Style, idea.Vibe)
		if idea.Explanation != "" {
			fmt.Fprintf(w, "     %s\n", idea.Explanation)
		}
		if analysis, ok := analyses[idea.Handle]; ok {
			fmt.Fprintf(w, "     %s\n", availabilityLine(analysis))
		}
	}
}

func availabilityLine(analysis *model.IdentityAnalysis) string {
	if len(analysis.TakenOn) == 0 {
		return "available: " + analysis.Summary
	}
	return "taken on " + strings.Join(analysis.TakenOn, ", ") + ": " + analysis.Summary
}

func printAnalysis(w io.Writer, analysis *model.IdentityAnalysis) {
	fmt.Fprintf(w, "Handle:  %s\n", analysis.Handle)
	if len(analysis.TakenOn) == 0 {
		fmt.Fprintln(w, "Taken:   nowhere found")
	} else {
		fmt.Fprintf(w, "Taken:   %s\n", strings.Join(analysis.TakenOn, ", "))
	}
	fmt.Fprintf(w, "Summary: %s\n", analysis.Summary)
	if analysis.ProfileTitle != "" {
		fmt.Fprintf(w, "Site:    %s\n", analysis.ProfileTitle)
	}
	if analysis.ProfileDescription != "" {
		fmt.Fprintf(w, "         %s\n", analysis.ProfileDescription)
	}

	tlds := make([]string, 0, len(analysis.TLDStatus))
	for tld := range analysis.TLDStatus {
		tlds = append(tlds, tld)
	}
	sort.Strings(tlds)
	for _, tld := range tlds {
		fmt.Fprintf(w, "  %-6s %s\n", tld, analysis.TLDStatus[tld])
	}
	if analysis.Degraded {
		fmt.Fprintln(w, "(availability could not be verified)")
	}
}

func printLinks(w io.Writer, idea *model.IdentityIdea) {
	fmt.Fprintf(w, "Handle:   %s\n", idea.Handle)
	fmt.Fprintf(w, "Search:   %s\n", model.SearchURL(idea.Handle))
	fmt.Fprintf(w, "Twitter:  %s\n", model.TwitterShareURL(idea))
	fmt.Fprintf(w, "Facebook: %s\n", model.FacebookShareURL())
}

func avatarExtension(mimeType string) string {
	switch mimeType {
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	default:
		return ".jpg"
	}
}

// fileSafe keeps a handle usable as a file or object name.
func fileSafe(handle string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|', ' ':
			return '_'
		}
		return r
	}, handle)
}
