package models

// BookSuggestion is one normalized provider search result. It is never stored.
type BookSuggestion struct {
	ExternalID     string `json:"external_id"`
	Title          string `json:"title"`
	Subtitle       string `json:"subtitle,omitempty"`
	Authors        string `json:"authors"`
	Publisher      string `json:"publisher,omitempty"`
	PublishedDate  string `json:"published_date,omitempty"`
	Description    string `json:"description,omitempty"`
	ISBN10         string `json:"isbn10,omitempty"`
	ISBN13         string `json:"isbn13,omitempty"`
	PageCount      int    `json:"page_count,omitempty"`
	Categories     string `json:"categories,omitempty"`
	Language       string `json:"language,omitempty"`
	SmallThumbnail string `json:"small_thumbnail,omitempty"`
	Thumbnail      string `json:"thumbnail,omitempty"`
	Small          string `json:"small,omitempty"`
	Medium         string `json:"medium,omitempty"`
	Large          string `json:"large,omitempty"`
	PreviewLink    string `json:"preview_link,omitempty"`
	InfoLink       string `json:"info_link,omitempty"`
}
