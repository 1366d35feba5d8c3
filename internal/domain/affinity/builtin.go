package affinity

import "github.com/okian/tonight/internal/domain/model"

// Built-in venue tiers. A venue listed in more than one tier resolves to the
// highest one.
var builtinVenues = tierTable{ //nolint:gochecknoglobals // read-only lookup table
	{
		"village vanguard", "le poisson rouge", "national sawdust", "roulette",
		"pioneer works", "issue project room", "public records", "nublu", "smalls",
		"barbes", "55 bar", "dizzy's club", "the stone", "cafe oto",
		"experimental intermedia",
	},
	{
		"brooklyn steel", "baby's all right", "elsewhere", "knockdown center",
		"sultan room", "blue note", "jazz standard", "market hotel", "rough trade",
		"union pool", "trans-pecos", "the hall at elsewhere", "zankel hall",
		"david geffen hall", "stern auditorium", "joe's pub", "le poisson rouge",
		"bowery ballroom", "music hall of williamsburg",
	},
	{
		"brooklyn academy of music", "bam", "town hall", "beacon theatre",
		"terminal 5", "irving plaza", "webster hall", "kings theatre",
		"brooklyn mirage", "avant gardner", "racket", "tv eye", "carnegie hall",
		"metropolitan museum", "the met", "moma", "whitney museum", "new museum",
		"the shed", "park avenue armory",
	},
}

var builtinFilmVenues = tierTable{ //nolint:gochecknoglobals // read-only lookup table
	{"film forum", "metrograph", "anthology film archives", "film at lincoln center"},
	{"bam", "ifc center", "nitehawk", "museum of the moving image", "moma", "angelika", "village east"},
}

var highAffinityKeywords = []string{ //nolint:gochecknoglobals // read-only lookup table
	"philosophy", "existential", "literary", "fiction", "sci-fi", "science fiction",
	"speculative", "dystopia", "utopia", "surreal", "magical realism",
	"latin american", "japanese", "african", "postcolonial", "translation",
	"experimental", "avant-garde", "consciousness", "identity", "queer", "ai",
	"artificial intelligence", "technology", "digital", "future", "poetry",
	"essay", "journalism", "media", "culture", "subculture",
}

var mediumAffinityKeywords = []string{ //nolint:gochecknoglobals // read-only lookup table
	"art", "visual", "design", "architecture", "photography", "film", "cinema",
	"documentary", "animation", "world", "global", "urban", "politics", "justice",
	"democracy", "history", "anthropology", "psychology", "neuroscience",
	"ecology", "nature", "climate",
}

type builtinSource struct{}

// Builtin returns the source backed by the built-in tables. It has no
// favored directors and no hint phrases.
func Builtin() Source { return builtinSource{} }

func (builtinSource) Provider() string { return ProviderBuiltin }

func (builtinSource) VenueTier(venue string, _ model.EventType) int {
	return builtinVenues.match(venue)
}

func (builtinSource) FilmVenueTier(venue string) int { return builtinFilmVenues.match(venue) }

func (builtinSource) SkipsVenueBonusForFilm() bool { return false }

func (builtinSource) HighAffinity() []string { return highAffinityKeywords }

func (builtinSource) MediumAffinity() []string { return mediumAffinityKeywords }

func (builtinSource) FavoredDirectors() []string { return nil }

func (builtinSource) Hints() []string { return nil }
