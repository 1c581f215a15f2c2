package models

import (
	"regexp"
	"strings"

	"github.com/cehbz/torrentname"

	"github.com/amaumene/nekoview/internal/constants"
)

var bracketTag = regexp.MustCompile(`\[([^\]]*)\]`)

// TitleInfo is what a card shows about a raw catalog title.
type TitleInfo struct {
	Clean      string   `json:"clean"`
	Tags       []string `json:"tags,omitempty"`
	Badge      string   `json:"badge,omitempty"`
	Episode    int      `json:"episode,omitempty"`
	Resolution string   `json:"resolution,omitempty"`
}

// ParseTitle extracts bracketed tags, the display badge and any episode or
// resolution hints from a catalog title.
func ParseTitle(title string) TitleInfo {
	info := TitleInfo{}
	for _, m := range bracketTag.FindAllStringSubmatch(title, -1) {
		if tag := strings.TrimSpace(m[1]); tag != "" {
			info.Tags = append(info.Tags, tag)
		}
	}
	info.Badge = Badge(title)
	info.Clean = strings.Join(strings.Fields(bracketTag.ReplaceAllString(title, " ")), " ")

	if info.Clean == "" {
		return info
	}
	if parsed := torrentname.Parse(info.Clean); parsed != nil {
		info.Episode = parsed.Episode
		info.Resolution = parsed.Resolution
	}
	return info
}

// Badge returns the first badge present in title, or "" for none.
// NEW matches any tag opening with "[NEW", the rest match whole tags.
// Matching is case-sensitive.
func Badge(title string) string {
	if title == "" {
		return ""
	}
	for _, badge := range constants.TitleBadges {
		if badge == "NEW" {
			if strings.Contains(title, "[NEW") {
				return badge
			}
			continue
		}
		if strings.Contains(title, "["+badge+"]") {
			return badge
		}
	}
	return ""
}
