package affinity

import (
	"github.com/okian/tonight/internal/domain/model"
	"github.com/okian/tonight/internal/domain/taste"
)

type dnaSource struct {
	byType map[model.EventType]tierTable
	all    tierTable
	film   tierTable

	directors []string
	hints     []string
}

// NewDNASource builds a source from loaded taste DNA. Venue lists are picked
// by the event's type; an unrecognized type searches every category. Film
// venue tiers come from the film lists of tiers 1 and 2. Cultural keywords are
// not part of the DNA and stay built-in.
func NewDNASource(dna *taste.DNA) Source {
	va := dna.VenueAffinities
	tiers := []taste.VenueLists{va.Tier1Perfect, va.Tier2Great, va.Tier3Solid}

	s := &dnaSource{
		byType: make(map[model.EventType]tierTable, 3),
		all:    make(tierTable, len(tiers)),
		film:   tierTable{lowerAll(va.Tier1Perfect.Film), lowerAll(va.Tier2Great.Film)},

		directors: lowerAll(dna.FilmTaste.FavoredDirectors),
		hints:     lowerAll(dna.CrossDisciplinarySignals.EventScoringHints.StrongPositive),
	}
	music := make(tierTable, len(tiers))
	cultural := make(tierTable, len(tiers))
	film := make(tierTable, len(tiers))
	for i, l := range tiers {
		music[i] = lowerAll(l.Music)
		cultural[i] = lowerAll(l.Cultural)
		film[i] = lowerAll(l.Film)
		s.all[i] = lowerAll(l.All())
	}
	s.byType[model.TypeMusic] = music
	s.byType[model.TypeCultural] = cultural
	s.byType[model.TypeFilm] = film
	return s
}

func (s *dnaSource) Provider() string { return ProviderDNA }

func (s *dnaSource) VenueTier(venue string, t model.EventType) int {
	if table, ok := s.byType[t]; ok {
		return table.match(venue)
	}
	return s.all.match(venue)
}

func (s *dnaSource) FilmVenueTier(venue string) int { return s.film.match(venue) }

func (s *dnaSource) SkipsVenueBonusForFilm() bool { return true }

func (s *dnaSource) HighAffinity() []string { return highAffinityKeywords }

func (s *dnaSource) MediumAffinity() []string { return mediumAffinityKeywords }

func (s *dnaSource) FavoredDirectors() []string { return s.directors }

func (s *dnaSource) Hints() []string { return s.hints }
