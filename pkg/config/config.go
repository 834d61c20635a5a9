package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

var DebugLog func(string, ...interface{})

type Config struct {
	DefaultSettings DefaultSettings `yaml:"default_settings"`
	Dataset         Dataset         `yaml:"dataset"`
	Trainer         Trainer         `yaml:"trainer"`
	Evaluation      Evaluation      `yaml:"evaluation"`
	Hub             Hub             `yaml:"hub"`
	Database        Database        `yaml:"database"`
	Elastic         Elastic         `yaml:"elastic"`
}

type DefaultSettings struct {
	Timeout int `yaml:"timeout"`
}

type Dataset struct {
	InventoryPath string `yaml:"inventory_path"`
	OutputDir     string `yaml:"output_dir"`
	Name          string `yaml:"name"`
	Seed          int64  `yaml:"seed"`
	Shuffle       bool   `yaml:"shuffle"`
}

type Trainer struct {
	Binary        string  `yaml:"binary"`
	Model         string  `yaml:"model"`
	Template      string  `yaml:"template"`
	LoraRank      int     `yaml:"lora_rank"`
	LearningRate  float64 `yaml:"learning_rate"`
	Epochs        float64 `yaml:"epochs"`
	CutoffLen     int     `yaml:"cutoff_len"`
	OutputDir     string  `yaml:"output_dir"`
	ExportDir     string  `yaml:"export_dir"`
	TokenListPath string  `yaml:"token_list_path"`
}

type Evaluation struct {
	Endpoint    string  `yaml:"endpoint"`
	Model       string  `yaml:"model"`
	APIKey      string  `yaml:"api_key"`
	MaxTokens   int     `yaml:"max_tokens"`
	Temperature float32 `yaml:"temperature"`
}

type Hub struct {
	Endpoint string `yaml:"endpoint"`
	Token    string `yaml:"token"`
	Repo     string `yaml:"repo"`
}

type Database struct {
	Enabled  bool   `yaml:"enabled"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
}

type Elastic struct {
	URL      string `yaml:"url"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Index    string `yaml:"index"`
}

type Manager struct {
	config     *Config
	configPath string
}

func NewManager(configPath string) *Manager {
	return &Manager{
		configPath: configPath,
	}
}

func (m *Manager) LoadConfig() error {
	if m.configPath == "" {
		m.configPath = m.findConfigFile()
	}

	if DebugLog != nil {
		DebugLog("loading config from %s", m.configPath)
	}

	if _, err := os.Stat(m.configPath); os.IsNotExist(err) {
		return fmt.Errorf("config file not found at %s. Please create one based on config.yaml.example", m.configPath)
	}

	data, err := os.ReadFile(m.configPath)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	ApplyDefaults(&config)

	if err := Validate(&config); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	if DebugLog != nil && config.Hub.Token != "" {
		DebugLog("hub token found for %s", config.Hub.Endpoint)
	}

	m.config = &config
	return nil
}

func (m *Manager) GetConfig() *Config {
	return m.config
}

func (m *Manager) findConfigFile() string {
	if _, err := os.Stat("config.yaml"); err == nil {
		return "config.yaml"
	}

	if _, err := os.Stat("config/config.yaml"); err == nil {
		return "config/config.yaml"
	}

	configPath := GetDefaultConfigPath()
	if _, err := os.Stat(configPath); err == nil {
		return configPath
	}

	return "config/config.yaml"
}

func ApplyDefaults(config *Config) {
	if config.DefaultSettings.Timeout == 0 {
		config.DefaultSettings.Timeout = 30
	}
	if config.Dataset.OutputDir == "" {
		config.Dataset.OutputDir = "data"
	}
	if config.Dataset.Name == "" {
		config.Dataset.Name = "weapon_inventory_sft"
	}
	if config.Dataset.Seed == 0 {
		config.Dataset.Seed = 42
	}
	if config.Trainer.Binary == "" {
		config.Trainer.Binary = "llamafactory-cli"
	}
	if config.Trainer.Template == "" {
		config.Trainer.Template = "qwen"
	}
	if config.Trainer.LoraRank == 0 {
		config.Trainer.LoraRank = 16
	}
	if config.Trainer.LearningRate == 0 {
		config.Trainer.LearningRate = 1e-4
	}
	if config.Trainer.Epochs == 0 {
		config.Trainer.Epochs = 3
	}
	if config.Trainer.CutoffLen == 0 {
		config.Trainer.CutoffLen = 512
	}
	if config.Evaluation.Endpoint == "" {
		config.Evaluation.Endpoint = "http://127.0.0.1:8000/v1"
	}
	if config.Evaluation.MaxTokens == 0 {
		config.Evaluation.MaxTokens = 128
	}
	if config.Hub.Endpoint == "" {
		config.Hub.Endpoint = "https://huggingface.co"
	}
}

func Validate(config *Config) error {
	if config.DefaultSettings.Timeout <= 0 {
		return fmt.Errorf("timeout must be greater than 0")
	}

	if config.Trainer.LoraRank < 0 {
		return fmt.Errorf("trainer lora_rank must not be negative")
	}

	if config.Evaluation.Temperature < 0 {
		return fmt.Errorf("evaluation temperature must not be negative")
	}

	return nil
}

func (m *Manager) SetHubToken(token string) error {
	if m.config == nil {
		return fmt.Errorf("configuration not loaded")
	}

	m.config.Hub.Token = token
	return nil
}
