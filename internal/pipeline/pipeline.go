// Package pipeline orchestrates the per-file conversion stages and
// assembles the run summary.
package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/csvforge/internal/analyzer"
	"github.com/sells-group/csvforge/internal/config"
	"github.com/sells-group/csvforge/internal/infer"
	"github.com/sells-group/csvforge/internal/model"
	"github.com/sells-group/csvforge/internal/report"
	"github.com/sells-group/csvforge/internal/rowparser"
	"github.com/sells-group/csvforge/internal/store"
	"github.com/sells-group/csvforge/internal/validate"
	"github.com/sells-group/csvforge/internal/writer"
)

// Options configures one conversion run.
type Options struct {
	Format        string // "json" or "jsonl"
	OutputDir     string
	TypeInference bool
	Strict        bool
	HeaderRow     int // model.HeaderAuto, model.HeaderNone, or explicit index
	Concurrency   int // 1 = sequential
	Limit         int // 0 = all files
}

// Result is the outcome of a run, including artifact paths.
type Result struct {
	Summary     *model.RunSummary
	SummaryPath string
	ReportPath  string
}

// Failed reports whether any file in the run failed.
func (r *Result) Failed() bool {
	return r.Summary != nil && r.Summary.Failed > 0
}

// Orchestrator drives the conversion stages per file. One bad file
// never aborts the batch: every per-file error is downgraded to a
// metadata record.
type Orchestrator struct {
	cfg       *config.Config
	log       *zap.Logger
	analyzer  *analyzer.Analyzer
	parser    *rowparser.Parser
	engine    *infer.Engine
	validator *validate.Validator
	writer    *writer.Writer
	reporter  *report.Generator
	ledger    *store.Ledger // optional
}

// New wires the pipeline components. ledger may be nil.
func New(cfg *config.Config, ledger *store.Ledger, log *zap.Logger) *Orchestrator {
	if log == nil {
		log = zap.L()
	}
	return &Orchestrator{
		cfg:       cfg,
		log:       log,
		analyzer:  analyzer.New(cfg.Analyze, log),
		parser:    rowparser.New(log),
		engine:    infer.New(cfg.Infer),
		validator: validate.New(log),
		writer:    writer.New(log),
		reporter:  report.New(log),
		ledger:    ledger,
	}
}

// Run resolves the input specs, processes every file, and writes the
// run artifacts. The returned error covers run-level failures only
// (no inputs, artifact write failure); per-file failures are reported
// through the summary.
func (o *Orchestrator) Run(ctx context.Context, specs []string, opts Options) (*Result, error) {
	runID := uuid.New().String()
	started := time.Now().UTC()

	inputs, err := ResolveInputs(specs)
	if err != nil {
		return nil, err
	}
	if len(inputs) == 0 {
		return nil, eris.New("pipeline: no input files matched")
	}
	if opts.Limit > 0 && opts.Limit < len(inputs) {
		inputs = inputs[:opts.Limit]
	}

	if err := os.MkdirAll(opts.OutputDir, 0o755); err != nil {
		return nil, eris.Wrapf(model.ErrIO, "pipeline: mkdir %s: %v", opts.OutputDir, err)
	}

	o.log.Info("starting run",
		zap.String("run_id", runID),
		zap.Int("files", len(inputs)),
		zap.String("format", opts.Format),
		zap.Bool("strict", opts.Strict),
		zap.Int("concurrency", opts.Concurrency),
	)

	concurrency := opts.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	var mu sync.Mutex
	metadata := make([]model.FileMetadata, len(inputs))

	for i, input := range inputs {
		i, input := i, input
		g.Go(func() error {
			meta := o.processFile(gCtx, input, opts)
			mu.Lock()
			metadata[i] = meta
			mu.Unlock()
			return nil // don't abort batch on individual failure
		})
	}
	_ = g.Wait()

	summary := report.Build(runID, started, time.Now().UTC(), metadata)

	o.log.Info("run complete",
		zap.String("run_id", runID),
		zap.Int("succeeded", summary.Succeeded),
		zap.Int("failed", summary.Failed),
		zap.Int("rows", summary.TotalRows),
	)

	summaryPath, reportPath, err := o.reporter.Summarize(summary, opts.OutputDir)
	if err != nil {
		return nil, err
	}

	// Ledger append is best-effort.
	if o.ledger != nil {
		if err := o.ledger.RecordRun(ctx, summary); err != nil {
			o.log.Warn("ledger append failed", zap.Error(err))
		}
	}

	return &Result{Summary: summary, SummaryPath: summaryPath, ReportPath: reportPath}, nil
}

// processFile runs the stage machine for one input:
// analyze, parse, infer, validate, write. Any stage error is captured
// in the returned metadata.
func (o *Orchestrator) processFile(_ context.Context, input string, opts Options) model.FileMetadata {
	start := time.Now()
	meta := model.FileMetadata{Input: input}
	log := o.log.With(zap.String("input", input))

	fail := func(err error) model.FileMetadata {
		meta.Error = eris.ToString(err, false)
		meta.ElapsedMS = time.Since(start).Milliseconds()
		log.Error("file failed", zap.Error(err))
		return meta
	}

	profile, err := o.analyzer.Analyze(input, opts.HeaderRow)
	if err != nil {
		return fail(err)
	}
	meta.Encoding = profile.Encoding
	meta.ColumnCount = profile.ColumnCount

	rows, err := o.parser.Parse(profile)
	if err != nil {
		return fail(err)
	}
	meta.RowCount = len(rows)

	var typeMap map[string]model.ColumnTypeInfo
	if opts.TypeInference {
		typeMap = o.engine.Infer(rows, profile.ColumnNames)
	} else {
		typeMap = infer.AllString(profile.ColumnNames)
	}
	meta.Types = typeMap

	result := o.validator.Validate(rows, typeMap, opts.Strict, profile.ColumnCount)
	meta.Issues = result.Issues
	meta.Stats = result.Stats

	if !result.ValidationPassed {
		return fail(eris.Wrapf(model.ErrStrictValidation, "pipeline: %s: %d issues", input, len(result.Issues)))
	}

	outputPath := outputPathFor(input, opts.OutputDir, opts.Format)
	writeResult, err := o.writer.Write(rows, typeMap, profile.ColumnNames, outputPath, opts.Format)
	if err != nil {
		return fail(err)
	}

	meta.Output = writeResult.OutputFile
	meta.ElapsedMS = time.Since(start).Milliseconds()

	log.Info("file converted",
		zap.String("output", meta.Output),
		zap.Int("rows", writeResult.RowsWritten),
		zap.Int("issues", len(meta.Issues)),
		zap.Int64("elapsed_ms", meta.ElapsedMS),
	)

	return meta
}

// outputPathFor derives {output_dir}/{stem}.{format} for an input.
func outputPathFor(input, outputDir, format string) string {
	stem := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	ext := writer.FormatJSON
	if format == writer.FormatJSONL {
		ext = writer.FormatJSONL
	}
	return filepath.Join(outputDir, stem+"."+ext)
}
