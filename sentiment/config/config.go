package config

import (
	"fmt"
	"path/filepath"
	"strings"

	internal "github.com/ZanzyTHEbar/go-sentiment/sentiment"

	"github.com/spf13/viper"
)

// Config stores all configuration of the application.
// The values are read by viper from a config file or environment variables.
type Config struct {
	Data     DataConfig     `mapstructure:"data"`
	Pipeline PipelineConfig `mapstructure:"pipeline"`
	Model    ModelConfig    `mapstructure:"model"`
	Training TrainingConfig `mapstructure:"training"`
	Runs     RunsConfig     `mapstructure:"runs"`
	Server   ServerConfig   `mapstructure:"server"`
}

// DataConfig stores corpus locations and the train/valid split.
type DataConfig struct {
	TrainDir   string  `mapstructure:"trainDir"`
	TestDir    string  `mapstructure:"testDir"`
	ValidRatio float64 `mapstructure:"validRatio"`
	IgnoreFile string  `mapstructure:"ignoreFile"`
}

// PipelineConfig stores tokenization and vectorization settings.
type PipelineConfig struct {
	Tokenizer    string `mapstructure:"tokenizer"` // "basic" or "wordpiece"
	VocabFile    string `mapstructure:"vocabFile"` // wordpiece vocab.txt, unused for basic
	Bigrams      bool   `mapstructure:"bigrams"`
	MinDocFreq   int    `mapstructure:"minDocFreq"`
	MaxVocabSize int    `mapstructure:"maxVocabSize"`
}

// ModelConfig stores classifier dimensions and persistence paths.
type ModelConfig struct {
	EmbedDim       int    `mapstructure:"embedDim"`
	CheckpointPath string `mapstructure:"checkpointPath"`
	VocabPath      string `mapstructure:"vocabPath"`
}

// TrainingConfig stores training-loop hyperparameters.
type TrainingConfig struct {
	Epochs       int     `mapstructure:"epochs"`
	BatchSize    int     `mapstructure:"batchSize"`
	LearningRate float64 `mapstructure:"learningRate"`
	WeightDecay  float64 `mapstructure:"weightDecay"`
	LRDecay      float64 `mapstructure:"lrDecay"`
	Seed         int64   `mapstructure:"seed"`
}

// RunsConfig stores experiment-tracking database settings.
type RunsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	DSN     string `mapstructure:"dsn"`
	Type    string `mapstructure:"type"`
}

// ServerConfig stores the prediction API settings.
type ServerConfig struct {
	Addr               string `mapstructure:"addr"`
	ReadTimeoutSeconds int    `mapstructure:"readTimeoutSeconds"`
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
	viper.SetDefault("data.trainDir", "./data/train")
	viper.SetDefault("data.testDir", "./data/test")
	viper.SetDefault("data.validRatio", 0.1)
	viper.SetDefault("data.ignoreFile", ".corpusignore")

	viper.SetDefault("pipeline.tokenizer", "basic")
	viper.SetDefault("pipeline.bigrams", true)
	viper.SetDefault("pipeline.minDocFreq", 1)
	viper.SetDefault("pipeline.maxVocabSize", 0)

	viper.SetDefault("model.embedDim", 64)
	viper.SetDefault("model.checkpointPath", internal.DefaultModelPath)
	viper.SetDefault("model.vocabPath", internal.DefaultVocabPath)

	viper.SetDefault("training.epochs", 5)
	viper.SetDefault("training.batchSize", 64)
	viper.SetDefault("training.learningRate", 0.5)
	viper.SetDefault("training.weightDecay", 0.0)
	viper.SetDefault("training.lrDecay", 0.5)
	viper.SetDefault("training.seed", 1)

	viper.SetDefault("runs.enabled", true)
	viper.SetDefault("runs.dsn", internal.DefaultRunsDBPath)
	viper.SetDefault("runs.type", internal.DefaultDatabaseType)

	viper.SetDefault("server.addr", "127.0.0.1:8080")
	viper.SetDefault("server.readTimeoutSeconds", 30)

	viper.AutomaticEnv()                                   // Read in environment variables that match
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_")) // Replace dots with underscores in env var names e.g. training.learningRate becomes TRAINING_LEARNINGRATE

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
