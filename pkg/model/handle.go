package model

import (
	"net/url"
	"strings"

	"github.com/weppos/publicsuffix-go/publicsuffix"
)

// SplitHandle separates a handle into its registrable name and public
// suffix, keeping the original case: "KnitCraft.io" -> ("KnitCraft", ".io"),
// "shop.example.co.uk" -> ("example", ".co.uk"). A bare username has no
// suffix. Handles the suffix list can not decompose fall back to the text
// before the first dot.
func SplitHandle(handle string) (name, suffix string) {
	handle = strings.TrimPrefix(strings.TrimSpace(handle), "@")
	if !strings.Contains(handle, ".") {
		return handle, ""
	}

	dn, err := publicsuffix.Parse(handle)
	if err == nil && dn.SLD != "" {
		suffixLen := len(dn.TLD) + 1
		end := len(handle) - suffixLen
		start := end - len(dn.SLD)
		if start >= 0 && strings.EqualFold(handle[start:end], dn.SLD) &&
			strings.EqualFold(handle[end:], "."+dn.TLD) {
			return handle[start:end], handle[end:]
		}
	}

	name, rest, _ := strings.Cut(handle, ".")
	return name, "." + rest
}

const (
	shareText = "Check out this username idea I found on Namer.ai: @"
	shareURL  = "https://namer.ai"
)

// SearchURL is an exact-phrase web search for the handle.
func SearchURL(handle string) string {
	return "https://www.google.com/search?q=" + url.QueryEscape(`"`+handle+`"`)
}

// TwitterShareURL is a tweet intent announcing the idea.
func TwitterShareURL(idea *IdentityIdea) string {
	text := shareText + idea.Handle + " - " + idea.Explanation
	return "https://twitter.com/intent/tweet?text=" + url.QueryEscape(text) + "&url=" + url.QueryEscape(shareURL)
}

// FacebookShareURL shares the site link.
func FacebookShareURL() string {
	return "https://www.facebook.com/sharer/sharer.php?u=" + url.QueryEscape(shareURL)
}
