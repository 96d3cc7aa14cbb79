package config

import (
	"fmt"
	"path/filepath"
	"strings"

	internal "github.com/ZanzyTHEbar/seqprep/seqprep"

	"github.com/spf13/viper"
)

// Config stores all configuration of the preprocessing pipeline.
// The values are read by viper from a config file or environment variables.
type Config struct {
	Preprocess PreprocessConfig `mapstructure:"preprocess"`
	Batch      BatchConfig      `mapstructure:"batch"`
	Model      ModelConfig      `mapstructure:"model"`
}

// PreprocessConfig stores vocabulary construction settings.
type PreprocessConfig struct {
	Lowercase       bool `mapstructure:"lowercase"`
	NumberNormalize bool `mapstructure:"numberNormalize"`
	CharFeature     bool `mapstructure:"charFeature"`
}

// BatchConfig stores batching settings for the dynamic phase.
type BatchConfig struct {
	Size    int `mapstructure:"size"`
	Workers int `mapstructure:"workers"`
}

// ModelConfig stores persistence locations for fitted vocabularies.
type ModelConfig struct {
	Dir            string `mapstructure:"dir"`
	VocabularyFile string `mapstructure:"vocabularyFile"`
}

var AppConfig Config

// LoadConfig reads configuration from file or environment variables.
func LoadConfig(configPath string) (*Config, error) {
	if configPath != "" {
		viper.SetConfigFile(configPath)
	} else {
		viper.AddConfigPath(".")
		viper.AddConfigPath("..")
		viper.AddConfigPath(filepath.Join("etc", internal.DefaultAppName))
		viper.AddConfigPath(internal.DefaultConfigPath)
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	// Set default values
	viper.SetDefault("preprocess.lowercase", true)
	viper.SetDefault("preprocess.numberNormalize", true)
	viper.SetDefault("preprocess.charFeature", true)

	viper.SetDefault("batch.size", internal.DefaultBatchSize)
	viper.SetDefault("batch.workers", 0) // 0 means one worker per CPU

	viper.SetDefault("model.dir", internal.DefaultModelDir)
	viper.SetDefault("model.vocabularyFile", internal.DefaultVocabularyFile)

	viper.AutomaticEnv()                                   // Read in environment variables that match
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_")) // Replace dots with underscores in env var names e.g. preprocess.numberNormalize becomes PREPROCESS_NUMBERNORMALIZE

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Config file not found; defaults will be used. This is not an error for the application to halt on.
		} else {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	err := viper.Unmarshal(&AppConfig)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	return &AppConfig, nil
}
