package douban

// Kind is one of the four collection types tracked for a user.
type Kind string

const (
	KindMovie  Kind = "movie"
	KindSerial Kind = "serial"
	KindBook   Kind = "book"
	KindMusic  Kind = "music"
)

// Item is one entry of a user's public collection, parsed from a
// single listing fragment. Immutable once created.
type Item struct {
	Title     string `json:"title"`
	DetailURL string `json:"url"`
	// Year is the release/publication year, 0 when it could not be
	// resolved from the fragment.
	Year     int    `json:"year,omitempty"`
	CoverURL string `json:"cover,omitempty"`
	// Rating is the user's star annotation, 0 means unrated.
	Rating int  `json:"rating"`
	Kind   Kind `json:"kind"`
}

// CategoryResult is everything one paginator run produced for a single
// vertical. Items are in the origin's emit order, most recent first.
// TotalCount is the origin's authoritative count when it was
// discoverable, otherwise the number of actually fetched items, which
// undercounts when pagination hit the page cap.
type CategoryResult struct {
	Items      []Item
	TotalCount int
}

// Profile is the owner of the scraped collection. Every field may be
// empty when the profile page did not expose it.
type Profile struct {
	Name         string `json:"name"`
	AvatarURL    string `json:"avatar,omitempty"`
	RegisteredAt string `json:"registered_at,omitempty"`
}
