// Package taste loads the user's taste configuration: the mandatory profile of
// artist affinities and genre keywords, and the optional extended taste DNA.
package taste

import "strings"

// Profile is the baseline taste used by every scoring call. It is read-only
// after loading and safe for concurrent use.
type Profile struct {
	artistScores  map[string]float64
	genreKeywords map[string]struct{}
}

// Artist is one entry of the profile's top artists.
type Artist struct {
	Name  string  `json:"name" validate:"required"`
	Score float64 `json:"score" validate:"gte=0"`
}

// NewProfile builds a Profile from artist affinities and genre keywords.
// Names and keywords are lowercased; a later duplicate artist overrides an
// earlier one, case-insensitively.
func NewProfile(artists []Artist, keywords []string) *Profile {
	p := &Profile{
		artistScores:  make(map[string]float64, len(artists)),
		genreKeywords: make(map[string]struct{}, len(keywords)),
	}
	for _, a := range artists {
		p.artistScores[strings.ToLower(a.Name)] = a.Score
	}
	for _, k := range keywords {
		p.genreKeywords[strings.ToLower(k)] = struct{}{}
	}
	return p
}

// Affinity returns the affinity for an artist, matched case-insensitively.
func (p *Profile) Affinity(artist string) (float64, bool) {
	score, ok := p.artistScores[strings.ToLower(artist)]
	return score, ok
}

// HasKeyword reports whether kw is a genre keyword. kw must already be lowercase.
func (p *Profile) HasKeyword(kw string) bool {
	_, ok := p.genreKeywords[kw]
	return ok
}

// ArtistCount returns the number of known artists.
func (p *Profile) ArtistCount() int { return len(p.artistScores) }

// KeywordCount returns the number of genre keywords.
func (p *Profile) KeywordCount() int { return len(p.genreKeywords) }

// profileFile is the on-disk shape of taste-profile.json.
type profileFile struct {
	TopArtists    []Artist `json:"topArtists" validate:"dive"`
	GenreKeywords []string `json:"genreKeywords"`
	Keywords      []string `json:"keywords"`
}

func (f *profileFile) toProfile() *Profile {
	keywords := f.GenreKeywords
	if keywords == nil {
		keywords = f.Keywords
	}
	return NewProfile(f.TopArtists, keywords)
}
