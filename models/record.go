package models

// KernelMeta holds the secondary fields scraped from a kernel listing card.
// All fields are best-effort: an empty string means the card did not expose
// the value in a recognizable place.
type KernelMeta struct {
	AuthorName   string
	AuthorURL    string
	ThumbnailSrc string
	CommentCount int
	LastUpdated  string
	BestScore    string
	// Description is the card's visible blurb, already converted to Markdown.
	Description string
}

// KernelRecord is one entry of the competition code listing.
// Records are immutable after extraction and ordered by display rank.
type KernelRecord struct {
	// Rank is the 1-based position of the card in scrape order.
	Rank int

	Title string

	// URL is the absolute kernel URL.
	URL string

	// Votes is the parsed vote count. Always >= 0.
	Votes int

	Meta KernelMeta
}

// KernelVersion is one row of a kernel's version history table.
type KernelVersion struct {
	// Label is the version name as shown in the table (e.g. "Version 12").
	Label string

	// CommittedAt is the raw committed-at text from the table.
	CommittedAt string

	// URL is the absolute version URL.
	URL string

	// Score is the public score parsed from the version page.
	// Zero means the score was absent or unparsable.
	Score float64
}

// Profile pairs a listing record with its version history. Versions is nil
// when version profiling is disabled or failed for this kernel.
type Profile struct {
	Record   KernelRecord
	Versions []KernelVersion
}
