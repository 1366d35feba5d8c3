package scoring

import (
	"math"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/okian/tonight/internal/domain/affinity"
	"github.com/okian/tonight/internal/domain/model"
	"github.com/okian/tonight/internal/domain/taste"
)

// Category caps and point values.
const (
	directCap         = 40
	directPerAffinity = 36
	genreCap          = 25
	genreWordPoints   = 8
	genreFullPoints   = 12
	culturalCap       = 15
	culturalHigh      = 5
	culturalMedium    = 3
	noveltyCap        = 10
	noveltyRatio      = 0.4
	noveltyVenueMin   = 7
	noveltyVenueLift  = 3
	filmKeywordEach   = 3
	directorPoints    = 15
	filmHintPoints    = 5
	crossPoints       = 3
	hintMinWordLen    = 4
	hintMinWords      = 2
	maxScore          = 100

	culturalSource = "thoughtgallery"
)

// venuePoints maps a 1-based venue tier to its bonus.
var venuePoints = [...]float64{0, 10, 7, 4} //nolint:gochecknoglobals // read-only table

// filmVenuePoints maps a 1-based film venue tier to its bonus.
var filmVenuePoints = [...]float64{0, 10, 6} //nolint:gochecknoglobals // read-only table

var genreSplit = regexp.MustCompile(`[\s,\-/]+`) //nolint:gochecknoglobals // compiled once

// Input is the per-event state threaded through the rules. Text fields are
// lowercased once; the raw category values let later rules depend on earlier
// ones without reading rounded breakdown entries.
type Input struct {
	Event   *model.Event
	Profile *taste.Profile
	Source  affinity.Source

	text     string // name genre subGenre description venue
	filmText string // name description subGenre
	fullText string // text plus director

	direct float64
	genre  float64
	venue  float64
}

func newInput(e *model.Event, p *taste.Profile, src affinity.Source) *Input {
	text := strings.ToLower(strings.Join([]string{e.Name, e.Genre, e.SubGenre, e.Description, e.Venue}, " "))
	return &Input{
		Event:    e,
		Profile:  p,
		Source:   src,
		text:     text,
		filmText: strings.ToLower(strings.Join([]string{e.Name, e.Description, e.SubGenre}, " ")),
		fullText: text + " " + strings.ToLower(e.Director),
	}
}

// Rule is one scoring category. Apply records its breakdown entry and returns
// the points it contributes.
type Rule struct {
	Name  string
	Apply func(in *Input, b *model.Breakdown) float64
}

// Rules returns the scoring categories in evaluation order.
func Rules() []Rule {
	return []Rule{
		{Name: "directMatch", Apply: directMatch},
		{Name: "genreMatch", Apply: genreMatch},
		{Name: "venueBonus", Apply: venueBonus},
		{Name: "culturalSignal", Apply: culturalSignal},
		{Name: "noveltyBonus", Apply: noveltyBonus},
		{Name: "film", Apply: film},
		{Name: "crossDisciplinary", Apply: crossDisciplinary},
	}
}

// directMatch takes the best-matching artist, never the sum.
func directMatch(in *Input, b *model.Breakdown) float64 {
	for _, artist := range in.Event.Artists {
		score, ok := in.Profile.Affinity(artist)
		if !ok {
			continue
		}
		in.direct = math.Max(in.direct, math.Min(directCap, score*directPerAffinity))
		b.MatchedArtists = append(b.MatchedArtists, artist)
	}
	b.DirectMatch = round1(in.direct)
	return in.direct
}

func genreMatch(in *Input, b *model.Breakdown) float64 {
	var pts float64
	for _, field := range []string{in.Event.Genre, in.Event.SubGenre} {
		if field == "" {
			continue
		}
		g := strings.ToLower(field)
		for _, word := range genreSplit.Split(g, -1) {
			if word != "" && in.Profile.HasKeyword(word) {
				pts += genreWordPoints
			}
		}
		if in.Profile.HasKeyword(g) {
			pts += genreFullPoints
		}
	}
	in.genre = math.Min(genreCap, pts)
	b.GenreMatch = in.genre
	return in.genre
}

func venueBonus(in *Input, b *model.Breakdown) float64 {
	if in.Event.Type == model.TypeFilm && in.Source.SkipsVenueBonusForFilm() {
		return 0
	}
	in.venue = venuePoints[in.Source.VenueTier(in.Event.Venue, in.Event.Type)]
	b.VenueBonus = in.venue
	return in.venue
}

// culturalSignal counts each keyword once, however often it occurs.
func culturalSignal(in *Input, b *model.Breakdown) float64 {
	if in.Event.Type != model.TypeCultural && in.Event.Source != culturalSource {
		return 0
	}
	var pts float64
	for _, kw := range in.Source.HighAffinity() {
		if strings.Contains(in.text, kw) {
			pts += culturalHigh
		}
	}
	for _, kw := range in.Source.MediumAffinity() {
		if strings.Contains(in.text, kw) {
			pts += culturalMedium
		}
	}
	b.CulturalSignal = math.Min(culturalCap, pts)
	return b.CulturalSignal
}

// noveltyBonus rewards an unknown artist in a liked genre.
func noveltyBonus(in *Input, b *model.Breakdown) float64 {
	if in.direct != 0 || in.genre <= 0 {
		return 0
	}
	pts := math.Min(noveltyCap, in.genre*noveltyRatio)
	if in.venue >= noveltyVenueMin {
		pts = math.Min(noveltyCap, pts+noveltyVenueLift)
	}
	b.NoveltyBonus = round1(pts)
	return pts
}

func film(in *Input, b *model.Breakdown) float64 {
	if in.Event.Type != model.TypeFilm {
		return 0
	}
	b.FilmVenue = filmVenuePoints[in.Source.FilmVenueTier(in.Event.Venue)]

	for _, kw := range in.Source.HighAffinity() {
		if strings.Contains(in.filmText, kw) {
			b.FilmKeywords += filmKeywordEach
		}
	}

	director := strings.ToLower(in.Event.Director)
	for _, d := range in.Source.FavoredDirectors() {
		if strings.Contains(in.filmText, d) || strings.Contains(director, d) {
			b.FavoredDirector = d
			b.DirectorBonus = directorPoints
			break
		}
	}

	if anyHint(in.Source.Hints(), in.filmText) {
		b.FilmHint = filmHintPoints
	}
	return b.FilmVenue + b.FilmKeywords + b.DirectorBonus + b.FilmHint
}

// crossDisciplinary applies to every type. A film event whose hint already
// matched in the film rule collects this bonus as well.
func crossDisciplinary(in *Input, b *model.Breakdown) float64 {
	if anyHint(in.Source.Hints(), in.fullText) {
		b.CrossDisciplinary = crossPoints
	}
	return b.CrossDisciplinary
}

// anyHint reports whether some phrase has at least two distinct words longer
// than four characters present in text.
func anyHint(phrases []string, text string) bool {
	for _, phrase := range phrases {
		if hintMatches(phrase, text) {
			return true
		}
	}
	return false
}

func hintMatches(phrase, text string) bool {
	seen := make(map[string]struct{})
	hits := 0
	for _, w := range strings.Fields(phrase) {
		w = strings.TrimFunc(w, unicode.IsPunct)
		if utf8.RuneCountInString(w) <= hintMinWordLen {
			continue
		}
		if _, dup := seen[w]; dup {
			continue
		}
		seen[w] = struct{}{}
		if strings.Contains(text, w) {
			hits++
			if hits >= hintMinWords {
				return true
			}
		}
	}
	return false
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
