package models

// Comment lives inside a Post's embedded sequence. It has no identity of its
// own and cannot be deleted. Timestamp is a display string fixed at creation
// time, minute granularity.
type Comment struct {
	AuthorName string `json:"authorName"`
	Text       string `json:"text"`
	Timestamp  string `json:"timestamp"`
}
