package config

// Config is the top-level application configuration. It carries defaults
// used when the corresponding CLI flags are not provided. It is loaded from
// ~/.config/mcs/config.yaml; a missing file yields the built-in defaults.
type Config struct {
	AWS  AWSConfig  `yaml:"aws"  json:"aws"`
	Scan ScanConfig `yaml:"scan" json:"scan"`
}

// AWSConfig holds AWS-specific defaults.
type AWSConfig struct {
	// DefaultRegion is used when no region flag or profile region is set.
	DefaultRegion string `yaml:"default_region" json:"default_region"`

	// DefaultProfile is used when no --profile flag is provided.
	DefaultProfile string `yaml:"default_profile" json:"default_profile"`
}

// ScanConfig holds scan execution defaults.
type ScanConfig struct {
	// ServiceTimeoutSeconds caps each individual service scan.
	// Zero means the built-in default.
	ServiceTimeoutSeconds int `yaml:"service_timeout_seconds" json:"service_timeout_seconds"`

	// Parallel runs service scanners concurrently.
	Parallel bool `yaml:"parallel" json:"parallel"`
}
