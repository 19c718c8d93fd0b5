package domain

import (
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// Item is one syndicated entry as produced by a source.
type Item struct {
	Title       string `json:"title"`
	Link        string `json:"link"`
	Author      string `json:"author"`
	Description string `json:"description"`
	GUID        string `json:"guid"`
	PublishedAt string `json:"publish"` // publisher-native format, never reparsed
}

// UID returns the hex MD5 of the guid, or of the link when the guid is empty.
func (i Item) UID() string {
	key := i.GUID
	if key == "" {
		key = i.Link
	}
	sum := md5.Sum([]byte(key))
	return hex.EncodeToString(sum[:])
}

// Batch is the ordered set of items fetched in one run plus feed-level metadata.
type Batch struct {
	Source      string         `json:"source,omitempty"`
	Title       string         `json:"title,omitempty"`
	Link        string         `json:"link,omitempty"`
	Description string         `json:"description,omitempty"`
	Language    string         `json:"language,omitempty"`
	Meta        map[string]any `json:"meta,omitempty"`
	Items       []Item         `json:"items"`
}

// Document renders the whole batch as one JSON document.
func (b *Batch) Document() ([]byte, error) {
	if b == nil {
		return nil, fmt.Errorf("%w: nil batch", ErrSerialization)
	}

	doc := *b
	if doc.Items == nil {
		doc.Items = []Item{}
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("%w: marshal batch: %w", ErrSerialization, err)
	}
	return data, nil
}

// Rows returns the items in batch order for per-row persistence.
func (b *Batch) Rows() []Item {
	if b == nil {
		return nil
	}
	return b.Items
}
