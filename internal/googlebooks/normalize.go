package googlebooks

import (
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/5w1tchy/library-api/internal/models"
)

const (
	typeISBN13 = "ISBN_13"
	typeISBN10 = "ISBN_10"
)

// normalize flattens provider volumes into suggestions. Volumes without volumeInfo are dropped.
func normalize(items []volume) []models.BookSuggestion {
	out := make([]models.BookSuggestion, 0, len(items))
	for _, it := range items {
		if it.VolumeInfo == nil {
			continue
		}
		out = append(out, toSuggestion(it.ID, it.VolumeInfo))
	}
	return out
}

func toSuggestion(id string, vi *volumeInfo) models.BookSuggestion {
	s := models.BookSuggestion{
		ExternalID:    id,
		Title:         nfc(vi.Title),
		Subtitle:      nfc(vi.Subtitle),
		Authors:       joinNames(vi.Authors),
		Publisher:     vi.Publisher,
		PublishedDate: vi.PublishedDate,
		Description:   vi.Description,
		ISBN13:        firstIdentifier(vi.IndustryIdentifiers, typeISBN13),
		ISBN10:        firstIdentifier(vi.IndustryIdentifiers, typeISBN10),
		PageCount:     vi.PageCount,
		Categories:    joinNames(vi.Categories),
		Language:      vi.Language,
		PreviewLink:   vi.PreviewLink,
		InfoLink:      vi.InfoLink,
	}
	if il := vi.ImageLinks; il != nil {
		s.SmallThumbnail = il.SmallThumbnail
		s.Thumbnail = il.Thumbnail
		s.Small = il.Small
		s.Medium = il.Medium
		s.Large = il.Large
	}
	return s
}

func firstIdentifier(ids []industryIdentifier, kind string) string {
	for _, id := range ids {
		if id.Type == kind {
			return id.Identifier
		}
	}
	return ""
}

func joinNames(names []string) string {
	if len(names) == 0 {
		return ""
	}
	out := make([]string, 0, len(names))
	for _, n := range names {
		out = append(out, nfc(n))
	}
	return strings.Join(out, ", ")
}

// nfc keeps composed and decomposed spellings of a name byte-identical for exact matching.
func nfc(s string) string { return norm.NFC.String(s) }
