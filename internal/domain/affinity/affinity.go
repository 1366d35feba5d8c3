// Package affinity resolves where venue tiers, cultural keywords, favored
// directors and hint phrases come from: the user's taste DNA when it was
// loaded, otherwise built-in tables. The scorer only sees the Source interface.
package affinity

import (
	"strings"

	"github.com/okian/tonight/internal/domain/model"
	"github.com/okian/tonight/internal/domain/taste"
)

// Provider names reported by Source.Provider.
const (
	ProviderDNA     = "dna"
	ProviderBuiltin = "builtin"
)

// Source answers affinity lookups for the scorer. Implementations are
// immutable after construction and safe for concurrent use.
type Source interface {
	// Provider names the backing data set.
	Provider() string
	// VenueTier returns 1, 2 or 3 for the first tier whose list contains a
	// substring of venue, or 0.
	VenueTier(venue string, t model.EventType) int
	// FilmVenueTier returns 1 or 2 for a film venue match, or 0.
	FilmVenueTier(venue string) int
	// SkipsVenueBonusForFilm reports whether film events are left to the
	// film venue lookup instead of VenueTier.
	SkipsVenueBonusForFilm() bool
	// HighAffinity and MediumAffinity return lowercase cultural keywords.
	HighAffinity() []string
	MediumAffinity() []string
	// FavoredDirectors returns lowercase director names in priority order.
	FavoredDirectors() []string
	// Hints returns lowercase cross-disciplinary hint phrases.
	Hints() []string
}

// Resolve picks the provider once per run: the DNA-backed source when dna
// carries data, the built-in tables otherwise.
func Resolve(dna *taste.DNA) Source {
	if dna.Empty() {
		return Builtin()
	}
	return NewDNASource(dna)
}

// tierTable is an ordered list of lowercase venue lists, tier 1 first.
type tierTable [][]string

// match returns the 1-based index of the first tier containing a substring of
// venue, or 0.
func (t tierTable) match(venue string) int {
	if venue == "" {
		return 0
	}
	v := strings.ToLower(venue)
	for i, names := range t {
		for _, n := range names {
			if strings.Contains(v, n) {
				return i + 1
			}
		}
	}
	return 0
}

// lowerAll lowercases and trims names, dropping empty ones.
func lowerAll(names ...[]string) []string {
	n := 0
	for _, l := range names {
		n += len(l)
	}
	out := make([]string, 0, n)
	for _, l := range names {
		for _, s := range l {
			s = strings.ToLower(strings.TrimSpace(s))
			if s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}
