package taste

// DNA is the optional extended taste configuration. When present it replaces
// the built-in venue tables and supplies favored directors and
// cross-disciplinary hints.
type DNA struct {
	VenueAffinities          VenueAffinities          `json:"venueAffinities"`
	FilmTaste                FilmTaste                `json:"filmTaste"`
	CrossDisciplinarySignals CrossDisciplinarySignals `json:"crossDisciplinarySignals"`
}

// VenueAffinities groups venue names into three tiers.
type VenueAffinities struct {
	Tier1Perfect VenueLists `json:"tier1_perfect"`
	Tier2Great   VenueLists `json:"tier2_great"`
	Tier3Solid   VenueLists `json:"tier3_solid"`
}

// VenueLists holds venue names per event category.
type VenueLists struct {
	Music    []string `json:"music"`
	Cultural []string `json:"cultural"`
	Film     []string `json:"film"`
}

// FilmTaste carries film-specific preferences.
type FilmTaste struct {
	FavoredDirectors []string `json:"favoredDirectors"`
}

// CrossDisciplinarySignals carries free-text hints spanning media.
type CrossDisciplinarySignals struct {
	EventScoringHints EventScoringHints `json:"eventScoringHints"`
}

// EventScoringHints holds phrases matched loosely against event text.
type EventScoringHints struct {
	StrongPositive []string `json:"strongPositive"`
}

// All returns the union of every category's venues, in music, cultural, film order.
func (v VenueLists) All() []string {
	out := make([]string, 0, len(v.Music)+len(v.Cultural)+len(v.Film))
	out = append(out, v.Music...)
	out = append(out, v.Cultural...)
	return append(out, v.Film...)
}

// Empty reports whether the DNA carries no usable data at all.
func (d *DNA) Empty() bool {
	if d == nil {
		return true
	}
	va := d.VenueAffinities
	return len(va.Tier1Perfect.All()) == 0 &&
		len(va.Tier2Great.All()) == 0 &&
		len(va.Tier3Solid.All()) == 0 &&
		len(d.FilmTaste.FavoredDirectors) == 0 &&
		len(d.CrossDisciplinarySignals.EventScoringHints.StrongPositive) == 0
}
