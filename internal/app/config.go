package app

import "errors"

const (
	DefaultMappingFile = "custom/mapping.txt"
	DefaultTemplate    = "igvwebConfig_template.json"
	DefaultGenome      = "mm10"
	DefaultOutput      = "custom/igvwebConfig.js"
	DefaultPort        = "8898"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	DataPath     string // directory scanned for tracks
	MappingFile  string
	TemplatePath string
	Genome       string
	OutputPath   string
	Port         string // passed through to the server unvalidated
	ProfilePath  string // optional HCL launcher profile

	PrintProfile    bool
	DryRun          bool
	CheckAlignments bool

	LogFormat string
	LogLevel  string
}

func NewConfig(cfg Config) (*Config, error) {
	if cfg.PrintProfile {
		return &cfg, nil
	}
	if cfg.DataPath == "" {
		return nil, errors.New("DataPath is a required configuration field and cannot be empty")
	}
	if cfg.MappingFile == "" || cfg.TemplatePath == "" || cfg.OutputPath == "" {
		return nil, errors.New("mapping file, template and output paths cannot be empty")
	}

	return &cfg, nil
}
