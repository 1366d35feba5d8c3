package taste

import (
	"bytes"
	"context"
	"os"
	"path/filepath"

	"github.com/goccy/go-json"
	"github.com/pkg/errors"

	"github.com/okian/tonight/internal/validation"
	"github.com/okian/tonight/pkg/logger"
)

// Default file names, resolved against the root directory.
const (
	DefaultProfileFile = "taste-profile.json"
	DefaultDNAFile     = "taste-dna.json"
)

// Option applies a configuration option to Load.
type Option func(*loadOptions)

type loadOptions struct {
	profileFile string
	dnaFile     string
	logger      logger.Logger
}

// WithProfileFile overrides the profile file name or path.
func WithProfileFile(name string) Option {
	return func(o *loadOptions) {
		if name != "" {
			o.profileFile = name
		}
	}
}

// WithDNAFile overrides the DNA file name or path.
func WithDNAFile(name string) Option {
	return func(o *loadOptions) {
		if name != "" {
			o.dnaFile = name
		}
	}
}

// WithLogger sets the logger used to report DNA fallback.
func WithLogger(l logger.Logger) Option {
	return func(o *loadOptions) {
		if l != nil {
			o.logger = l
		}
	}
}

// Load reads the taste profile and, best effort, the taste DNA from root.
// A missing or malformed profile is returned as an error; any DNA failure is
// logged and yields a nil DNA.
func Load(ctx context.Context, root string, opts ...Option) (*Profile, *DNA, error) {
	o := loadOptions{
		profileFile: DefaultProfileFile,
		dnaFile:     DefaultDNAFile,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = logger.Get().Named("taste")
	}

	profile, err := LoadProfile(resolve(root, o.profileFile))
	if err != nil {
		return nil, nil, err
	}
	o.logger.Info(ctx, "loaded taste profile",
		logger.Int("artists", profile.ArtistCount()),
		logger.Int("genreKeywords", profile.KeywordCount()),
	)

	dnaPath := resolve(root, o.dnaFile)
	dna, err := LoadDNA(dnaPath)
	if err != nil {
		o.logger.Warn(ctx, "taste dna unavailable; using built-in tables",
			logger.String("path", dnaPath),
			logger.Error(err),
		)
		return profile, nil, nil
	}
	return profile, dna, nil
}

// LoadProfile reads and validates a taste profile file.
func LoadProfile(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(ErrProfileNotFound, "read %s: %v", path, err)
	}

	if !bytes.HasPrefix(bytes.TrimSpace(data), []byte("{")) {
		return nil, errors.Wrapf(ErrProfileMalformed, "parse %s: document is not a JSON object", path)
	}

	var f profileFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, errors.Wrapf(ErrProfileMalformed, "parse %s: %v", path, err)
	}
	if err := validation.Struct(&f); err != nil {
		return nil, errors.Wrapf(ErrProfileMalformed, "validate %s: %v", path, err)
	}
	return f.toProfile(), nil
}

// LoadDNA reads a taste DNA file. An empty document counts as unavailable.
func LoadDNA(path string) (*DNA, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(ErrDNAUnavailable, "read %s: %v", path, err)
	}

	var dna DNA
	if err := json.Unmarshal(data, &dna); err != nil {
		return nil, errors.Wrapf(ErrDNAUnavailable, "parse %s: %v", path, err)
	}
	if dna.Empty() {
		return nil, errors.Wrapf(ErrDNAUnavailable, "%s has no venue, director or hint data", path)
	}
	return &dna, nil
}

func resolve(root, name string) string {
	if filepath.IsAbs(name) || root == "" {
		return name
	}
	return filepath.Join(root, name)
}
