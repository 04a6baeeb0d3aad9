package models

// Word is a vocabulary entry from the CDN-hosted seed datasets.
// WordType is filled in by the service ("verb" or "adjective"), not
// by the data files themselves.
type Word struct {
	ID       string `json:"id"`
	Japanese string `json:"japanese"`
	English  string `json:"english"`
	Romaji   string `json:"romaji"`
	WordType string `json:"word_type,omitempty"`
}

type WordList struct {
	Verbs      []Word `json:"verbs"`
	Adjectives []Word `json:"adjectives"`
	TotalCount int    `json:"total_count"`
}

type WordSearchResponse struct {
	Query   string `json:"query"`
	Results []Word `json:"results"`
	Count   int    `json:"count"`
}
