package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override: data.dir → RECRUITLYTICS_DATA_DIR.
const EnvPrefix = "RECRUITLYTICS"

// Defaults mirror the original exports: French file names, "Hired" or
// "Embauché" as the hired status.
func setDefaults(v *viper.Viper) {
	v.SetDefault("data.dir", ".")
	v.SetDefault("data.applications", "Candidatures.CSV")
	v.SetDefault("data.positions", "postes.CSV")
	v.SetDefault("data.interviews", "Entretiens.CSV")
	v.SetDefault("data.costs", "couts.CSV")
	v.SetDefault("data.encoding", "utf-8")
	v.SetDefault("data.sqlite", "")

	v.SetDefault("analysis.hired_statuses", []string{"Hired", "Embauché"})
	v.SetDefault("analysis.min_group_size", 3)
	v.SetDefault("analysis.histogram_bins", 15)
	v.SetDefault("analysis.hire_quantile", 0.2)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	v.SetDefault("output.format", "pretty")
	v.SetDefault("output.path", "")
	v.SetDefault("output.metrics_file", "")
}

// Load reads configuration. path may be empty, in which case config.yaml is
// looked up in ./configs and the working directory and is optional.
// A .env file in the working directory is loaded first when present.
func Load(path string) (*Config, error) {
	loadEnvFile(".env")

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("error reading config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	// env values arrive comma separated: RECRUITLYTICS_ANALYSIS_HIRED_STATUSES="Hired, Offer"
	cfg.Analysis.HiredStatuses = splitList(strings.Join(cfg.Analysis.HiredStatuses, ","))

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// loadEnvFile loads a .env file without overriding variables already set.
func loadEnvFile(path string) {
	if _, err := os.Stat(path); err != nil {
		return
	}
	_ = godotenv.Load(path)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
