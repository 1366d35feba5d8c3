// Package model contains domain models passed between layers.
package model

// EventType classifies an event for the type-specific scoring rules.
type EventType string

// Known event types. Scrapers may emit other values; those only take part in
// the type-independent rules.
const (
	TypeMusic    EventType = "music"
	TypeCultural EventType = "cultural"
	TypeFilm     EventType = "film"
)

// Event is a canonical listing produced by a scraper.
// Fields mirror the scraper output schema; anything missing decodes to its zero value.
type Event struct {
	Name        string    `json:"name"`
	Artists     []string  `json:"artists"`
	Venue       string    `json:"venue"`
	Date        string    `json:"date"` // YYYY-MM-DD or empty
	Time        string    `json:"time"` // HH:MM (24h) or empty
	URL         string    `json:"url"`
	Source      string    `json:"source"`
	Genre       string    `json:"genre"`
	SubGenre    string    `json:"subGenre"`
	Type        EventType `json:"type"`
	Description string    `json:"description"`
	Director    string    `json:"director"`
}

// Breakdown records what each scoring category contributed to an event's score.
type Breakdown struct {
	DirectMatch       float64  `json:"directMatch"`
	MatchedArtists    []string `json:"matchedArtists"`
	GenreMatch        float64  `json:"genreMatch"`
	VenueBonus        float64  `json:"venueBonus"`
	CulturalSignal    float64  `json:"culturalSignal"`
	NoveltyBonus      float64  `json:"noveltyBonus"`
	FilmVenue         float64  `json:"filmVenue"`
	FilmKeywords      float64  `json:"filmKeywords"`
	FavoredDirector   string   `json:"favoredDirector,omitempty"`
	DirectorBonus     float64  `json:"directorBonus"`
	FilmHint          float64  `json:"filmHint"`
	CrossDisciplinary float64  `json:"crossDisciplinary"`
}

// ScoredEvent is an Event with its final score, breakdown and tier.
// It is created once by the scorer and never mutated afterwards.
type ScoredEvent struct {
	Event
	Score     float64   `json:"score"`
	Breakdown Breakdown `json:"breakdown"`
	Tier      Tier      `json:"tier"`
}

// PrimaryArtist returns the first listed artist, or the event name when no
// artists are listed.
func (e *Event) PrimaryArtist() string {
	if len(e.Artists) > 0 {
		return e.Artists[0]
	}
	return e.Name
}
