// Package config is for app wide settings that are unmarshalled
// from Viper (see: /cmd)
package config

import (
	"log"
	"os"

	"github.com/spf13/viper"
)

// stderr logs without a timestamp prefix
var stderr = log.New(os.Stderr, "", 0)

// KrakenConfig holds the spacing and sequence rules applied to raw
// primer3 candidates after generation. They are specific to the Kraken
// qPCR workflow and are checked per candidate index.
type KrakenConfig struct {
	// whether the post-generation rules are applied at all
	Enabled bool `mapstructure:"enabled"`

	// minimum bp gap between the left primer's 3' end and the probe's 5' start
	MinLeftProbeGap int `mapstructure:"min-left-probe-gap"`

	// minimum bp gap between the probe's 3' end and the right primer's 5'-most base
	MinRightProbeGap int `mapstructure:"min-right-probe-gap"`

	// the probe's leading bases that must not contain a G (quenching chemistry)
	ProbeNoGPrefixLen int `mapstructure:"probe-no-g-prefix-len"`
}

// SchedulerConfig is for the tunable-relaxation scheduler
type SchedulerConfig struct {
	// seed for the scheduler's random source. fixed so the exact relaxation
	// order is reproducible run to run
	Seed int64 `mapstructure:"seed"`

	// importance multiplier slope: multiplier(i) = step * i
	ImportanceStep float64 `mapstructure:"importance-step"`
}

// ScoringConfig holds the group weights used when combining quantile
// scores into a single suitability percentage
type ScoringConfig struct {
	PairWeight     float64 `mapstructure:"pair-weight"`
	PrimersWeight  float64 `mapstructure:"primers-weight"`
	InternalWeight float64 `mapstructure:"internal-weight"`
}

// GroupWeights returns the configured weights keyed by group name
func (s ScoringConfig) GroupWeights() map[string]float64 {
	return map[string]float64{
		"pair":     s.PairWeight,
		"primers":  s.PrimersWeight,
		"internal": s.InternalWeight,
	}
}

// Primer3Config is for the external primer3 executables
type Primer3Config struct {
	// path to the primer3_core executable
	CorePath string `mapstructure:"core-path"`

	// path to the ntthal executable (hairpin analysis)
	NtthalPath string `mapstructure:"ntthal-path"`

	// path to the primer3 thermodynamic parameters folder. empty means
	// primer3_core's compiled-in default
	ConfDir string `mapstructure:"conf-dir"`
}

// Config is the root-level settings struct and is a mix of settings
// available in settings.yaml and those available from the command line
type Config struct {
	// Kraken candidate gating rules
	Kraken KrakenConfig `mapstructure:"kraken"`

	// relaxation scheduler settings
	Scheduler SchedulerConfig `mapstructure:"scheduler"`

	// scoring group weights
	Scoring ScoringConfig `mapstructure:"scoring"`

	// primer3 executable settings
	Primer3 Primer3Config `mapstructure:"primer3"`

	// fixed primer3 arguments. these always win over tunable-derived keys
	Constants map[string]string

	// the relaxable constraint table, in resolution order
	Tunables []Tunable

	// the largest importance tier present in Tunables
	MaxImportance int

	// per-metric optimal targets for quantile scoring
	Optimals Optimals
}

// Multiplier is the importance decay curve: each step up in importance
// divides the tier's draw weight by this much
func (c *Config) Multiplier(importance int) float64 {
	return c.Scheduler.ImportanceStep * float64(importance)
}

// setDefaults registers every scalar setting with viper
func setDefaults() {
	viper.SetDefault("kraken.enabled", true)
	viper.SetDefault("kraken.min-left-probe-gap", 5)
	viper.SetDefault("kraken.min-right-probe-gap", 10)
	viper.SetDefault("kraken.probe-no-g-prefix-len", 3)

	viper.SetDefault("scheduler.seed", 0)
	viper.SetDefault("scheduler.importance-step", 2.0)

	viper.SetDefault("scoring.pair-weight", 1.0/3.0)
	viper.SetDefault("scoring.primers-weight", 1.0/3.0)
	viper.SetDefault("scoring.internal-weight", 1.0/3.0)

	viper.SetDefault("primer3.core-path", "primer3_core")
	viper.SetDefault("primer3.ntthal-path", "ntthal")
	viper.SetDefault("primer3.conf-dir", "")
}

// New returns a new Config populated by viper settings (either from a local
// settings file and/or command line arguments) on top of the built-in
// defaults. The tunable rule table and scoring targets are code-defined
// design policy and are attached here.
func New() *Config {
	setDefaults()

	if settingsFile := viper.GetString("settings"); settingsFile != "" {
		viper.SetConfigFile(settingsFile)
		if err := viper.ReadInConfig(); err != nil {
			stderr.Fatalf("failed to read settings file %s: %v", settingsFile, err)
		}
	}

	c := &Config{}
	if err := viper.Unmarshal(c); err != nil {
		stderr.Fatalf("failed to decode settings: %v", err)
	}

	c.Constants = primer3Constants()
	c.Tunables = tunableRules()
	c.MaxImportance = maxImportance(c.Tunables)
	c.Optimals = defaultOptimals()

	return c
}
