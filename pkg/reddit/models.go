package reddit

import "encoding/json"

// Envelope is the {kind, data} wrapper around every upstream entity.
// Data is kept raw so the normalization layer can inspect its shape.
type Envelope struct {
	Kind string          `json:"kind"`
	Data json.RawMessage `json:"data"`
}

// HasData reports whether the envelope carries a non-null payload
func (e Envelope) HasData() bool {
	return len(e.Data) > 0 && string(e.Data) != "null"
}

// Listing is one page of a cursor-paginated collection
type Listing struct {
	Kind string      `json:"kind"`
	Data ListingData `json:"data"`
}

// ListingData holds the children and the cursors of a page.
// A missing and a null After are equivalent.
type ListingData struct {
	After    *string    `json:"after"`
	Before   *string    `json:"before"`
	Dist     *int       `json:"dist,omitempty"`
	Children []Envelope `json:"children"`
}

// NextCursor returns the cursor for the following page, or "" at the end
func (l *Listing) NextCursor() string {
	if l.Data.After == nil {
		return ""
	}
	return *l.Data.After
}

// Thread is the two-element response of a post's comment page: the post
// listing followed by the comment listing.
type Thread []Listing
