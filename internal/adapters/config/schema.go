package config

import "go.trai.ch/xform/internal/core/domain"

// Configfile represents the structure of the xform.yaml configuration file.
type Configfile struct {
	Version     string                       `yaml:"version"`
	Root        string                       `yaml:"root"`
	CacheDir    string                       `yaml:"cacheDir"`
	Concurrency int                          `yaml:"concurrency"`
	Compiler    CompilerDTO                  `yaml:"compiler"`
	Log         LogDTO                       `yaml:"log"`
	Presets     map[string]domain.ConfigData `yaml:"presets"`
	Config      domain.ConfigData            `yaml:"config"`
	Overrides   []domain.ConfigData          `yaml:"overrides"`
	Transform   []TransformRuleDTO           `yaml:"transform"`
}

// CompilerDTO selects and configures the compiler.
type CompilerDTO struct {
	Kind    string            `yaml:"kind"`
	Command []string          `yaml:"command"`
	Env     map[string]string `yaml:"env"`
}

// LogDTO configures logging.
type LogDTO struct {
	Level string `yaml:"level"`
}

// TransformRuleDTO maps a file pattern to a transform mode.
type TransformRuleDTO struct {
	Match     string `yaml:"match"`
	Transform string `yaml:"transform"`
}
