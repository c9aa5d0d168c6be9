// Package scraper implements the search plugin for The Pirate Bay.
// It maps a query, a category label and a page number onto the site's
// search URL, fetches the results page and turns its HTML table into
// normalized Result records.
package scraper

import (
	"errors"
	"strings"
)

// Category is a plugin-level category label.
type Category string

const (
	CategoryAll          Category = "all"
	CategoryAudio        Category = "audio"
	CategoryVideo        Category = "video"
	CategoryApplications Category = "applications"
	CategoryGames        Category = "games"
	CategoryOther        Category = "other"
)

// Categories lists every label accepted by Search, in display order.
var Categories = []Category{
	CategoryAll,
	CategoryAudio,
	CategoryVideo,
	CategoryApplications,
	CategoryGames,
	CategoryOther,
}

// categoryIDs maps labels to the site's numeric category codes.
// Labels missing from this table fall back to the CategoryAll code.
var categoryIDs = map[Category]string{
	CategoryAll:          "0",
	CategoryAudio:        "100",
	CategoryVideo:        "200",
	CategoryApplications: "300",
	CategoryGames:        "400",
	CategoryOther:        "600",
}

// ResolveCategory returns the site category id for a label.
func ResolveCategory(label string) string {
	if id, ok := categoryIDs[Category(label)]; ok {
		return id
	}
	return categoryIDs[CategoryAll]
}

// InferCategory guesses a result category from the site's category link text.
func InferCategory(text string) Category {
	text = strings.ToLower(text)
	switch {
	case strings.Contains(text, "audio"), strings.Contains(text, "music"):
		return CategoryAudio
	case strings.Contains(text, "video"), strings.Contains(text, "movie"):
		return CategoryVideo
	case strings.Contains(text, "application"), strings.Contains(text, "software"):
		return CategoryApplications
	case strings.Contains(text, "game"):
		return CategoryGames
	}
	return CategoryOther
}

// Info describes the plugin to its host.
type Info struct {
	DisplayName string     `json:"display_name"`
	Version     string     `json:"version"`
	Categories  []Category `json:"categories"`
}

// Result represents a search result
type Result struct {
	Title string `json:"title"`
	URL   string `json:"url"`
	// TorrentURL is always empty: the site offers no direct .torrent download.
	TorrentURL string   `json:"torrent_url"`
	MagnetLink string   `json:"magnet_link"`
	Size       string   `json:"size"`
	Seeds      int      `json:"seeds"`
	Leechs     int      `json:"leechs"`
	Category   Category `json:"category"`
}

// Health returns a health score 0-100 based on seeders/leechers ratio
func (r Result) Health() int {
	if r.Seeds == 0 {
		return 0
	}
	if r.Leechs == 0 {
		return 100
	}

	ratio := float64(r.Seeds) / float64(r.Seeds+r.Leechs) * 100
	if ratio > 100 {
		ratio = 100
	}
	return int(ratio)
}

// Row skip reasons reported by ParseRow.
var (
	ErrShortRow = errors.New("row has fewer than 4 cells")
	ErrNoTitle  = errors.New("row has no title link")
	ErrBadLink  = errors.New("row has an unresolvable detail link")
)
