package models

// KanaItem is one character entry from kana-data.json.
type KanaItem struct {
	Character string `json:"character"`
	Romaji    string `json:"romaji"`
}

// KanaData maps script name ("hiragana" or "katakana") to its characters.
type KanaData map[string][]KanaItem

type KanaSearchResult struct {
	Character string `json:"character"`
	Romaji    string `json:"romaji"`
	Script    string `json:"script"`
}

// KanaEvaluation is the parsed model verdict for a handwritten kana image.
// When the model answer cannot be parsed as JSON, RawResponse carries the
// unparsed text and ErrorParsing the reason — still a success at the
// gateway level, per the API contract.
type KanaEvaluation struct {
	Success      bool   `json:"success"`
	Character    string `json:"character,omitempty"`
	Script       string `json:"script,omitempty"`
	Romanization string `json:"romanization,omitempty"`
	QualityScore int    `json:"quality_score,omitempty"`
	Feedback     string `json:"feedback,omitempty"`
	Match        *bool  `json:"match,omitempty"`
	RawResponse  string `json:"raw_response,omitempty"`
	ErrorParsing string `json:"error_parsing,omitempty"`
	Error        string `json:"error,omitempty"`
}

type UploadURLResponse struct {
	UploadURL string `json:"upload_url"`
	FileKey   string `json:"file_key"`
}
