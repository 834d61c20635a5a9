package trainer

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// TrainConfig is the YAML handed to the external trainer for the LoRA
// fine-tuning run. The key set follows the trainer's own schema; this
// package only populates it.
type TrainConfig struct {
	ModelNameOrPath string `yaml:"model_name_or_path"`

	Stage          string `yaml:"stage"`
	DoTrain        bool   `yaml:"do_train"`
	FinetuningType string `yaml:"finetuning_type"`
	LoraRank       int    `yaml:"lora_rank"`
	LoraTarget     string `yaml:"lora_target"`
	// Embedding and output-projection matrices are trained in full so the
	// extended vocabulary gets real representations.
	AdditionalTarget     string `yaml:"additional_target"`
	ResizeVocab          bool   `yaml:"resize_vocab"`
	NewSpecialTokensPath string `yaml:"new_special_tokens_path,omitempty"`

	Dataset    string `yaml:"dataset"`
	DatasetDir string `yaml:"dataset_dir"`
	Template   string `yaml:"template"`
	CutoffLen  int    `yaml:"cutoff_len"`

	LearningRate                float64 `yaml:"learning_rate"`
	NumTrainEpochs              float64 `yaml:"num_train_epochs"`
	PerDeviceTrainBatchSize     int     `yaml:"per_device_train_batch_size"`
	GradientAccumulationSteps   int     `yaml:"gradient_accumulation_steps"`
	LRSchedulerType             string  `yaml:"lr_scheduler_type"`
	WarmupRatio                 float64 `yaml:"warmup_ratio"`
	BF16                        bool    `yaml:"bf16"`
	LoggingSteps                int     `yaml:"logging_steps"`
	SaveSteps                   int     `yaml:"save_steps"`
	PlotLoss                    bool    `yaml:"plot_loss"`
	OverwriteOutputDir          bool    `yaml:"overwrite_output_dir"`

	OutputDir string `yaml:"output_dir"`
}

// ExportConfig is the YAML that merges the trained adapter back into the
// base checkpoint and writes a standalone model.
type ExportConfig struct {
	ModelNameOrPath   string `yaml:"model_name_or_path"`
	AdapterNameOrPath string `yaml:"adapter_name_or_path"`
	Template          string `yaml:"template"`
	FinetuningType    string `yaml:"finetuning_type"`

	ExportDir          string `yaml:"export_dir"`
	ExportSize         int    `yaml:"export_size"`
	ExportDevice       string `yaml:"export_device"`
	ExportLegacyFormat bool   `yaml:"export_legacy_format"`
}

// DefaultTrainConfig returns the settings the weapon-inventory runs use.
func DefaultTrainConfig() TrainConfig {
	return TrainConfig{
		Stage:                     "sft",
		DoTrain:                   true,
		FinetuningType:            "lora",
		LoraRank:                  16,
		LoraTarget:                "all",
		AdditionalTarget:          "embed_tokens,lm_head",
		ResizeVocab:               true,
		Dataset:                   "weapon_inventory_sft",
		DatasetDir:                "data",
		Template:                  "qwen",
		CutoffLen:                 512,
		LearningRate:              1e-4,
		NumTrainEpochs:            3,
		PerDeviceTrainBatchSize:   4,
		GradientAccumulationSteps: 4,
		LRSchedulerType:           "cosine",
		WarmupRatio:               0.1,
		BF16:                      true,
		LoggingSteps:              10,
		SaveSteps:                 500,
		PlotLoss:                  true,
		OverwriteOutputDir:        true,
		OutputDir:                 "saves/weapon-inventory-lora",
	}
}

// DefaultExportConfig returns the adapter-merge settings matching
// DefaultTrainConfig.
func DefaultExportConfig() ExportConfig {
	return ExportConfig{
		Template:           "qwen",
		FinetuningType:     "lora",
		AdapterNameOrPath:  "saves/weapon-inventory-lora",
		ExportDir:          "export/weapon-inventory-merged",
		ExportSize:         2,
		ExportDevice:       "cpu",
		ExportLegacyFormat: false,
	}
}

func (c TrainConfig) Render() ([]byte, error) {
	return yaml.Marshal(c)
}

func (c TrainConfig) Write(path string) error {
	data, err := c.Render()
	if err != nil {
		return fmt.Errorf("failed to render train config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write train config: %w", err)
	}
	return nil
}

func LoadTrainConfig(path string) (TrainConfig, error) {
	var c TrainConfig
	data, err := os.ReadFile(path)
	if err != nil {
		return c, fmt.Errorf("failed to read train config: %w", err)
	}
	if err := yaml.Unmarshal(data, &c); err != nil {
		return c, fmt.Errorf("failed to parse train config: %w", err)
	}
	return c, nil
}

func (c ExportConfig) Render() ([]byte, error) {
	return yaml.Marshal(c)
}

func (c ExportConfig) Write(path string) error {
	data, err := c.Render()
	if err != nil {
		return fmt.Errorf("failed to render export config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write export config: %w", err)
	}
	return nil
}

func LoadExportConfig(path string) (ExportConfig, error) {
	var c ExportConfig
	data, err := os.ReadFile(path)
	if err != nil {
		return c, fmt.Errorf("failed to read export config: %w", err)
	}
	if err := yaml.Unmarshal(data, &c); err != nil {
		return c, fmt.Errorf("failed to parse export config: %w", err)
	}
	return c, nil
}
