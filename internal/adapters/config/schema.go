package config

// SupportedVersion is the only config file version this loader understands.
const SupportedVersion = "1"

// Modfile represents the structure of the modloader.yaml configuration file.
type Modfile struct {
	Version     string            `yaml:"version"`
	Root        string            `yaml:"root"`
	Phases      map[string]string `yaml:"phases"`
	Provided    []string          `yaml:"provided"`
	Cache       string            `yaml:"cache"`
	Parallelism int               `yaml:"parallelism"`
	LogLevel    string            `yaml:"log_level"`
}
