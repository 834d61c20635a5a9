package orchestrator

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/easonai/armorytune/pkg/config"
	"github.com/easonai/armorytune/pkg/database"
	"github.com/easonai/armorytune/pkg/dataset"
	"github.com/easonai/armorytune/pkg/elastic"
	"github.com/easonai/armorytune/pkg/evalset"
	"github.com/easonai/armorytune/pkg/evaluator"
	"github.com/easonai/armorytune/pkg/inventory"
	"github.com/easonai/armorytune/pkg/trainer"
	"github.com/easonai/armorytune/pkg/vocab"

	"github.com/sirupsen/logrus"
)

var DebugLog func(string, ...interface{})

type Orchestrator struct {
	config        *config.Config
	configManager *config.Manager
	logger        *logrus.Logger
	db            *database.DB
}

type PrepareOptions struct {
	InventoryPath string
	OutputDir     string
	MergePath     string
	Seed          int64
	Shuffle       bool
	Stats         bool
	Silent        bool
}

type PrepareResult struct {
	StartTime     time.Time
	EndTime       time.Time
	Duration      time.Duration
	Items         int
	Weapons       int
	Excluded      int
	Tokens        int
	TrainRecords  int
	EvalCases     int
	MergedRecords int
	TypeCounts    map[string]int
	QualityCounts map[string]int
	GenStats      dataset.GenerationStats
	Files         []string
}

type EvalOptions struct {
	EvalsetPath string
	OutputPath  string
	Model       string
	ESExport    bool
}

type customFormatter struct{}

func (f *customFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	var levelText string
	switch entry.Level {
	case logrus.InfoLevel:
		levelText = "[INF]"
	case logrus.WarnLevel:
		levelText = "[WARN]"
	case logrus.ErrorLevel:
		levelText = "[ERR]"
	case logrus.DebugLevel:
		levelText = "[DBG]"
	default:
		levelText = "[???]"
	}
	return []byte(fmt.Sprintf("%s %s\n", levelText, entry.Message)), nil
}

func NewOrchestrator(configPath string) (*Orchestrator, error) {
	logger := logrus.New()
	logger.SetLevel(logrus.InfoLevel)
	logger.SetFormatter(&customFormatter{})

	configManager := config.NewManager(configPath)
	if err := configManager.LoadConfig(); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	cfg := configManager.GetConfig()

	db, err := database.New(&cfg.Database)
	if err != nil {
		logger.Warnf("Database initialization failed: %v", err)
	}

	return &Orchestrator{
		config:        cfg,
		configManager: configManager,
		logger:        logger,
		db:            db,
	}, nil
}

// RunPrepare runs the full data preparation pipeline: parse the inventory
// export, build the token list, generate the training dataset and the
// evaluation set, and render the trainer configs.
func (o *Orchestrator) RunPrepare(options PrepareOptions) (*PrepareResult, error) {
	startTime := time.Now()

	result := &PrepareResult{
		StartTime: startTime,
	}

	inventoryPath := options.InventoryPath
	if inventoryPath == "" {
		inventoryPath = o.config.Dataset.InventoryPath
	}
	if inventoryPath == "" {
		return nil, fmt.Errorf("inventory file is required (use -i or set dataset.inventory_path)")
	}

	outputDir := options.OutputDir
	if outputDir == "" {
		outputDir = o.config.Dataset.OutputDir
	}
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	seed := options.Seed
	if seed == 0 {
		seed = o.config.Dataset.Seed
	}

	items, err := inventory.ParseItems(inventoryPath)
	if err != nil {
		return nil, fmt.Errorf("failed to parse inventory: %w", err)
	}
	result.Items = len(items)
	if !options.Silent {
		o.logger.Infof("Parsed %d unique item names from %s", len(items), inventoryPath)
	}

	tokens := vocab.BuildTokenList(items)
	result.Tokens = len(tokens)

	tokenPath := filepath.Join(outputDir, "new_tokens.txt")
	if err := vocab.WriteTokenList(tokens, tokenPath); err != nil {
		return nil, fmt.Errorf("failed to write token list: %w", err)
	}
	result.Files = append(result.Files, tokenPath)
	if !options.Silent {
		o.logger.Infof("Wrote %d vocabulary tokens to %s", len(tokens), tokenPath)
	}

	weapons := inventory.ClassifyItems(items)
	result.Weapons = len(weapons)
	result.Excluded = len(items) - len(weapons)
	if len(weapons) == 0 {
		return nil, fmt.Errorf("no weapons found in inventory (all %d items excluded)", len(items))
	}
	if !options.Silent {
		o.logger.Infof("Classified %d weapons, excluded %d non-weapon items", len(weapons), result.Excluded)
	}

	idx := inventory.BuildIndex(weapons)
	result.TypeCounts = idx.TypeCounts()
	result.QualityCounts = idx.QualityCounts()

	gen := dataset.NewGenerator(seed, weapons)
	pairs, genStats := gen.Generate()
	result.GenStats = genStats

	if options.MergePath != "" {
		secondary, err := dataset.ReadJSON(options.MergePath)
		if err != nil {
			return nil, fmt.Errorf("failed to read merge dataset: %w", err)
		}
		var added int
		pairs, added = dataset.Merge(pairs, secondary)
		result.MergedRecords = added
		if !options.Silent {
			o.logger.Infof("Merged %d records from %s", added, options.MergePath)
		}
	}

	if options.Shuffle || o.config.Dataset.Shuffle {
		dataset.Shuffle(rand.New(rand.NewSource(seed)), pairs)
	}
	result.TrainRecords = len(pairs)

	trainPath := filepath.Join(outputDir, o.config.Dataset.Name+".json")
	if err := dataset.WriteJSON(pairs, trainPath); err != nil {
		return nil, fmt.Errorf("failed to write training dataset: %w", err)
	}
	result.Files = append(result.Files, trainPath)
	if !options.Silent {
		o.logger.Infof("Wrote %d training records to %s", len(pairs), trainPath)
	}

	cases, err := evalset.Build(weapons, seed)
	if err != nil {
		o.logger.Warnf("Evaluation set skipped: %v", err)
	} else {
		result.EvalCases = len(cases)
		evalPath := filepath.Join(outputDir, "evalset.json")
		if err := evalset.WriteJSON(cases, evalPath); err != nil {
			return nil, fmt.Errorf("failed to write evaluation set: %w", err)
		}
		result.Files = append(result.Files, evalPath)
		if !options.Silent {
			o.logger.Infof("Wrote %d evaluation cases to %s", len(cases), evalPath)
		}
	}

	if err := o.writeTrainerConfigs(outputDir, tokenPath, result); err != nil {
		return nil, err
	}

	endTime := time.Now()
	result.EndTime = endTime
	result.Duration = endTime.Sub(startTime)

	return result, nil
}

func (o *Orchestrator) writeTrainerConfigs(outputDir, tokenPath string, result *PrepareResult) error {
	tc := trainer.DefaultTrainConfig()
	tc.ModelNameOrPath = o.config.Trainer.Model
	tc.Template = o.config.Trainer.Template
	tc.LoraRank = o.config.Trainer.LoraRank
	tc.LearningRate = o.config.Trainer.LearningRate
	tc.NumTrainEpochs = o.config.Trainer.Epochs
	tc.CutoffLen = o.config.Trainer.CutoffLen
	tc.Dataset = o.config.Dataset.Name
	tc.DatasetDir = outputDir
	tc.NewSpecialTokensPath = tokenPath
	if o.config.Trainer.TokenListPath != "" {
		tc.NewSpecialTokensPath = o.config.Trainer.TokenListPath
	}
	tc.OutputDir = o.config.Trainer.OutputDir

	trainCfgPath := filepath.Join(outputDir, "train.yaml")
	if err := tc.Write(trainCfgPath); err != nil {
		return fmt.Errorf("failed to write train config: %w", err)
	}
	result.Files = append(result.Files, trainCfgPath)

	ec := trainer.DefaultExportConfig()
	ec.ModelNameOrPath = o.config.Trainer.Model
	ec.AdapterNameOrPath = o.config.Trainer.OutputDir
	ec.Template = o.config.Trainer.Template
	ec.ExportDir = o.config.Trainer.ExportDir

	exportCfgPath := filepath.Join(outputDir, "export.yaml")
	if err := ec.Write(exportCfgPath); err != nil {
		return fmt.Errorf("failed to write export config: %w", err)
	}
	result.Files = append(result.Files, exportCfgPath)

	if DebugLog != nil {
		DebugLog("rendered trainer configs: %s, %s", trainCfgPath, exportCfgPath)
	}

	return nil
}

// RunEval loads an evaluation set, queries the configured inference
// endpoint for every case, grades the answers, and writes a JSONL report.
func (o *Orchestrator) RunEval(ctx context.Context, options EvalOptions) (*evaluator.Report, error) {
	evalsetPath := options.EvalsetPath
	if evalsetPath == "" {
		evalsetPath = filepath.Join(o.config.Dataset.OutputDir, "evalset.json")
	}

	cases, err := evalset.ReadJSON(evalsetPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read evaluation set: %w", err)
	}
	o.logger.Infof("Loaded %d evaluation cases from %s", len(cases), evalsetPath)

	model := options.Model
	if model == "" {
		model = o.config.Evaluation.Model
	}
	if model == "" {
		return nil, fmt.Errorf("model name is required (use -m or set evaluation.model)")
	}

	client := evaluator.NewChatClient(evaluator.ChatConfig{
		Endpoint:    o.config.Evaluation.Endpoint,
		APIKey:      o.config.Evaluation.APIKey,
		Model:       model,
		MaxTokens:   o.config.Evaluation.MaxTokens,
		Temperature: o.config.Evaluation.Temperature,
	})

	o.logger.Infof("Evaluating %s against %s", model, o.config.Evaluation.Endpoint)

	timeout := time.Duration(o.config.DefaultSettings.Timeout) * time.Minute
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	report, err := evaluator.Run(runCtx, client, model, cases)
	if err != nil {
		return nil, fmt.Errorf("evaluation failed: %w", err)
	}

	outputPath := options.OutputPath
	if outputPath == "" {
		outputPath = filepath.Join(o.config.Dataset.OutputDir, "eval_results.jsonl")
	}
	if err := evaluator.WriteJSONL(report.Results, outputPath); err != nil {
		return nil, fmt.Errorf("failed to write results: %w", err)
	}
	o.logger.Infof("Wrote %d results to %s", len(report.Results), outputPath)

	if o.db != nil && o.db.IsEnabled() {
		run := database.EvalRun{
			Model:  model,
			Total:  report.Total,
			Passed: report.Passed,
		}
		for _, stat := range report.Stats {
			run.Categories = append(run.Categories, database.CategoryResult{
				Category: string(stat.Category),
				Total:    stat.Total,
				Passed:   stat.Passed,
			})
		}
		if err := o.db.TrackEvalRun(run); err != nil {
			o.logger.Warnf("Failed to track evaluation run in database: %v", err)
		}
	}

	if options.ESExport {
		if err := o.exportToElastic(ctx, outputPath); err != nil {
			o.logger.Warnf("Elasticsearch export failed: %v", err)
		}
	}

	return report, nil
}

func (o *Orchestrator) exportToElastic(ctx context.Context, path string) error {
	if o.config.Elastic.URL == "" {
		return fmt.Errorf("elastic.url is not configured")
	}

	es, err := elastic.New(elastic.Config{
		URL:      o.config.Elastic.URL,
		Username: o.config.Elastic.Username,
		Password: o.config.Elastic.Password,
		Index:    o.config.Elastic.Index,
	})
	if err != nil {
		return err
	}

	count, err := es.IndexJSONLinesFile(ctx, path)
	if err != nil {
		return err
	}
	o.logger.Infof("Indexed %d documents into Elasticsearch", count)

	return nil
}

func (o *Orchestrator) GetConfig() *config.Config {
	return o.config
}

func (o *Orchestrator) GetDB() *database.DB {
	return o.db
}

func (o *Orchestrator) Logger() *logrus.Logger {
	return o.logger
}
