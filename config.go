package filesort

import (
	"github.com/sirupsen/logrus"
	"golang.org/x/text/language"
)

const (
	// MinBufferSize is the smallest accepted Config.BufferSize.
	MinBufferSize = 1 << 20 // 1MiB
	// MaxBufferSize is the largest accepted Config.BufferSize.
	MaxBufferSize = 256 << 20 // 256MiB
	// DefaultBufferSize is used when Config.BufferSize is unset.
	DefaultBufferSize = 10 << 20 // 10MiB
)

// Config holds configuration settings for filesort
type Config struct {
	BufferSize int64        // bytes of line content held in memory per chunk, also the direct-sort threshold
	Comparison Comparison   // how two lines are compared
	Descending bool         // reverse the order produced by Comparison
	Locale     language.Tag // collation locale for the CurrentCulture modes, language.Und when unset
	Unique     bool         // write consecutive equal lines once
	// TempFilesDir is the root under which each sort creates and removes its
	// workspace. Empty selects the OS default ex: /tmp. A missing root is
	// created and left in place; a root that is not a directory is ignored
	// with a warning and the OS default is used instead.
	TempFilesDir string
	Logger       logrus.FieldLogger // nil for logrus.StandardLogger()
}

// DefaultConfig returns the default configuration options used if none provided
func DefaultConfig() *Config {
	return &Config{
		BufferSize:   DefaultBufferSize,
		Comparison:   Ordinal,
		Descending:   false,
		Locale:       language.Und,
		Unique:       false,
		TempFilesDir: "",
		Logger:       logrus.StandardLogger(),
	}
}

// mergeConfig takes a provided config and replaces any values not set with the defaults.
// The provided config is not modified.
func mergeConfig(c *Config) *Config {
	d := DefaultConfig()
	if c == nil {
		return d
	}
	m := *c
	if m.BufferSize == 0 {
		m.BufferSize = d.BufferSize
	}
	if m.Logger == nil {
		m.Logger = d.Logger
	}
	// Comparison zero value is Ordinal, Locale zero value is language.Und,
	// skipping TempFilesDir as it is the empty string
	return &m
}

// validate checks the ranges of a merged config. The comparison mode is
// checked when the order is resolved.
func (c *Config) validate() error {
	if c.BufferSize < MinBufferSize || c.BufferSize > MaxBufferSize {
		return NewConfigError("BufferSize", c.BufferSize, "must be between 1 MiB and 256 MiB")
	}
	return nil
}
