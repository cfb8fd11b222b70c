// Package config loads application settings from an optional YAML file,
// a .env file and PHISHWISE_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is the environment variable prefix for every key.
const EnvPrefix = "PHISHWISE"

// Config is the full application configuration.
type Config struct {
	Paths    PathsConfig    `mapstructure:"paths"`
	Scoring  ScoringConfig  `mapstructure:"scoring"`
	Training TrainingConfig `mapstructure:"training"`
	Store    StoreConfig    `mapstructure:"store"`
	Log      LogConfig      `mapstructure:"log"`
	LLM      LLMConfig      `mapstructure:"llm"`
	Quiz     QuizConfig     `mapstructure:"quiz"`

	// File is the config file that was read, if any.
	File string `mapstructure:"-"`
}

type PathsConfig struct {
	AnswerKey    string `mapstructure:"answer_key"`
	Dataset      string `mapstructure:"dataset"`
	Explanations string `mapstructure:"explanations"`
	Results      string `mapstructure:"results"`
	Database     string `mapstructure:"database"`
	Model        string `mapstructure:"model"`
	Features     string `mapstructure:"features"`
	ExportDir    string `mapstructure:"export_dir"`
}

type ScoringConfig struct {
	MatchPolicy string `mapstructure:"match_policy"`
	TierTable   string `mapstructure:"tier_table"`
}

type TrainingConfig struct {
	MatchPolicy          string  `mapstructure:"match_policy"`
	TierTable            string  `mapstructure:"tier_table"`
	TestSize             float64 `mapstructure:"test_size"`
	Seed                 uint64  `mapstructure:"seed"`
	MaxDepth             int     `mapstructure:"max_depth"`
	MinSamplesSplit      int     `mapstructure:"min_samples_split"`
	ClassWeight          string  `mapstructure:"class_weight"`
	SyntheticMaxFraction float64 `mapstructure:"synthetic_max_fraction"`
}

type StoreConfig struct {
	// Driver is "sqlite" or "postgres".
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

type LLMConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

type QuizConfig struct {
	NonInteractive bool `mapstructure:"non_interactive"`
}

// Options controls where Load looks.
type Options struct {
	// File is an explicit config path. When set it must exist.
	File string
	// EnvFile is loaded into the process environment before reading.
	// Missing env files are ignored.
	EnvFile string
	// SearchPaths are searched for phishwise.yaml when File is empty.
	SearchPaths []string
}

// DefaultSearchPaths returns the working directory and the user config dir.
func DefaultSearchPaths() []string {
	paths := []string{"."}
	if dir, err := os.UserConfigDir(); err == nil {
		paths = append(paths, filepath.Join(dir, "phishwise"))
	}
	return paths
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("paths.answer_key", "answer_sheetphi.json")
	v.SetDefault("paths.dataset", "phishing_dataset.csv")
	v.SetDefault("paths.explanations", "ExplanationBankphi.json")
	v.SetDefault("paths.results", "user_phishing_assessment_results.json")
	v.SetDefault("paths.database", "phishing_assessment_database.json")
	v.SetDefault("paths.model", "phishing_model.json")
	v.SetDefault("paths.features", "phishing_features.json")
	v.SetDefault("paths.export_dir", ".")

	v.SetDefault("scoring.match_policy", "exact")
	v.SetDefault("scoring.tier_table", "standard")

	v.SetDefault("training.match_policy", "partial")
	v.SetDefault("training.tier_table", "dataset")
	v.SetDefault("training.test_size", 0.2)
	v.SetDefault("training.seed", 42)
	v.SetDefault("training.max_depth", 10)
	v.SetDefault("training.min_samples_split", 5)
	v.SetDefault("training.class_weight", "")
	v.SetDefault("training.synthetic_max_fraction", 0.2)

	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.dsn", "")

	v.SetDefault("log.level", "warn")
	v.SetDefault("log.file", "")

	v.SetDefault("llm.enabled", true)
	v.SetDefault("quiz.non_interactive", false)
}

// Load resolves configuration. Precedence, highest first: environment,
// config file, defaults.
func Load(opts Options) (*Config, error) {
	envFile := opts.EnvFile
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load %s: %w", envFile, err)
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// The bare NON_INTERACTIVE variable is honored for scripted runs.
	if err := v.BindEnv("quiz.non_interactive", EnvPrefix+"_QUIZ_NON_INTERACTIVE", "NON_INTERACTIVE"); err != nil {
		return nil, err
	}

	if opts.File != "" {
		v.SetConfigFile(opts.File)
	} else {
		v.SetConfigName("phishwise")
		v.SetConfigType("yaml")
		paths := opts.SearchPaths
		if paths == nil {
			paths = DefaultSearchPaths()
		}
		for _, p := range paths {
			v.AddConfigPath(p)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if opts.File != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.File = v.ConfigFileUsed()
	return &cfg, nil
}
