// Package config provides configuration loading and management.
package config

// Config represents the atlasgen CLI configuration.
// Loaded from ~/.atlasgen/config.yaml; environment variables take precedence.
type Config struct {
	// Destination is the default output directory for generated projects.
	// Env: ATLASGEN_DESTINATION
	Destination string `mapstructure:"destination"`

	// CopySidecars controls whether project side-car files are copied next to
	// every generated project. Default: true.
	// Env: ATLASGEN_COPY_SIDECARS
	CopySidecars *bool `mapstructure:"copySidecars"`

	// ExtentMargin is the default extent margin percentage applied when a
	// project does not configure one. Default: 0.
	// Env: ATLASGEN_EXTENT_MARGIN
	ExtentMargin int `mapstructure:"extentMargin"`

	// Limit caps the number of coverage records processed per batch run.
	// Zero or negative means no limit. Intended for debugging.
	// Env: ATLASGEN_LIMIT
	Limit int `mapstructure:"limit"`
}

// WithDefaults returns a copy of the config with defaults applied.
func (c *Config) WithDefaults() *Config {
	out := *c
	if out.CopySidecars == nil {
		v := true
		out.CopySidecars = &v
	}
	return &out
}

// ShouldCopySidecars reports the effective side-car copy setting.
func (c *Config) ShouldCopySidecars() bool {
	if c.CopySidecars == nil {
		return true
	}
	return *c.CopySidecars
}
