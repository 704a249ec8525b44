package app

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"eegitpc/domain/core"
	"eegitpc/domain/eeg"
	"eegitpc/domain/run"
	"eegitpc/internal/complexval"
	"eegitpc/internal/config"
	"eegitpc/internal/errors"
	"eegitpc/internal/grouping"
	"eegitpc/internal/itpc"
	"eegitpc/ports"

	"golang.org/x/sync/errgroup"
)

// CodeVersion is stamped into every run manifest
var CodeVersion = "dev"

// AnalysisService runs the full ITPC pipeline from trial table to results file
type AnalysisService struct {
	reader   ports.TableReader
	writer   ports.ResultsWriter
	logger   ports.Logger
	analysis config.AnalysisConfig
	output   string
}

// Report is everything one successful run produced
type Report struct {
	Rows      []eeg.ResultRow
	Summaries []eeg.ConditionSummary
	// MeanPhases holds the resultant angle per bucket, keyed like ResultRow.Key
	MeanPhases map[string]itpc.Vector
	// Coefficients holds the parsed trials x frequencies matrix per bucket,
	// keyed like ResultRow.Key
	Coefficients map[string]*itpc.CoefficientMatrix
	Manifest     *run.Manifest
}

// NewAnalysisService creates an analysis service writing to cfg.Paths.Output
func NewAnalysisService(reader ports.TableReader, writer ports.ResultsWriter, logger ports.Logger, cfg *config.Config) *AnalysisService {
	return &AnalysisService{
		reader:   reader,
		writer:   writer,
		logger:   logger,
		analysis: cfg.Analysis,
		output:   cfg.Paths.Output,
	}
}

// ManifestPath is where the manifest of a results file is written
func ManifestPath(output string) string {
	return output + ".manifest.json"
}

// bucketResult is the write-once slot filled by one worker
type bucketResult struct {
	row       eeg.ResultRow
	meanPhase itpc.Vector
	coeffs    *itpc.CoefficientMatrix
}

// Run loads src, computes ITPC for every (condition, electrode) bucket and
// persists the results table and its manifest. It returns a complete report
// or a labelled *errors.AppError, never a partial report.
func (s *AnalysisService) Run(ctx context.Context, src ports.Source) (*Report, error) {
	startedAt := core.Now()
	runID := core.NewRunID()
	freqs := s.analysis.NumFrequencies
	s.logger.Info("[AnalysisService] run %s started: input=%s conditions=%s electrodes=%d frequencies=%d",
		runID, src.Path, s.analysis.Conditions, s.analysis.NumElectrodes, freqs)

	// Step 1: Load the raw table
	table, err := s.reader.ReadTable(ctx, src)
	if err != nil {
		return nil, classifyReadError(ctx, src.Path, err)
	}

	// Step 2: Check the schema and type the key columns
	trials, err := BuildTrials(table, freqs)
	if err != nil {
		return nil, errors.SchemaInvalid(err)
	}

	// Step 3: Partition trials into buckets
	buckets := grouping.Group(trials, s.analysis.Conditions, s.analysis.NumElectrodes)
	if buckets.Excluded > 0 {
		s.logger.Info("[AnalysisService] %d trials fall outside every condition range", buckets.Excluded)
	}
	if buckets.StrayElectrode > 0 {
		s.logger.Warn("[AnalysisService] %d trials have an electrode outside 1..%d", buckets.StrayElectrode, s.analysis.NumElectrodes)
	}

	// Step 4: Compute ITPC per bucket in parallel
	var opts []complexval.Option
	if s.analysis.ZeroPhaseForReals {
		opts = append(opts, complexval.WithZeroPhaseForReals())
	}
	parser := complexval.NewParser(s.logger, opts...)

	results, err := s.computeBuckets(ctx, buckets, parser)
	if err != nil {
		return nil, err
	}

	rows := make([]eeg.ResultRow, len(results))
	meanPhases := make(map[string]itpc.Vector, len(results))
	coefficients := make(map[string]*itpc.CoefficientMatrix, len(results))
	for i, r := range results {
		rows[i] = r.row
		meanPhases[r.row.Key()] = r.meanPhase
		coefficients[r.row.Key()] = r.coeffs
	}
	for _, key := range buckets.Empty() {
		s.logger.Warn("[AnalysisService] bucket %s has no trials: %v", key, core.ErrEmptyBucket)
	}

	// Step 5: Summaries
	summaries := Summarize(rows, s.analysis.Conditions)

	// Step 6: Persist results and manifest
	if err := ctx.Err(); err != nil {
		return nil, errors.Cancelled(err)
	}
	if err := s.writer.WriteResults(ctx, s.output, rows); err != nil {
		return nil, classifyWriteError(ctx, s.output, err)
	}

	manifest := &run.Manifest{
		RunID:          runID,
		InputPath:      src.Path,
		OutputPath:     s.output,
		Conditions:     s.analysis.Conditions.Conditions(),
		NumElectrodes:  s.analysis.NumElectrodes,
		NumFrequencies: freqs,
		Frequencies:    s.analysis.Frequencies,
		ConfigHash: run.ConfigFingerprint(s.analysis.Conditions, s.analysis.NumElectrodes, freqs,
			s.analysis.ZeroPhaseForReals),
		ResultsHash: run.ResultsFingerprint(rows),
		Counts: run.Counts{
			InputRows:      len(table.Rows),
			AssignedTrials: buckets.Assigned(),
			ExcludedTrials: buckets.Excluded,
			StrayElectrode: buckets.StrayElectrode,
			Buckets:        buckets.Len(),
			ParsedCells:    int64(buckets.Assigned()) * int64(freqs),
			ParseFailures:  parser.Failures(),
		},
		EmptyBuckets: buckets.Empty(),
		CodeVersion:  CodeVersion,
		StartedAt:    startedAt,
		FinishedAt:   core.Now(),
	}
	if err := manifest.Validate(); err != nil {
		return nil, errors.Wrap(err, "run manifest incomplete")
	}
	manifestPath := ManifestPath(s.output)
	if err := s.writer.WriteManifest(ctx, manifestPath, manifest); err != nil {
		return nil, classifyWriteError(ctx, manifestPath, err)
	}

	if manifest.Counts.ParseFailures > 0 {
		s.logger.Warn("[AnalysisService] %d of %d coefficient cells fell back to 0+0i (%.2f%%)",
			manifest.Counts.ParseFailures, manifest.Counts.ParsedCells, 100*manifest.ParseFailureRate())
	}
	s.logger.Info("[AnalysisService] run %s finished in %s: %d buckets, %d empty",
		runID, manifest.FinishedAt.Time().Sub(startedAt.Time()).Round(time.Millisecond),
		buckets.Len(), len(manifest.EmptyBuckets))

	return &Report{
		Rows:         rows,
		Summaries:    summaries,
		MeanPhases:   meanPhases,
		Coefficients: coefficients,
		Manifest:     manifest,
	}, nil
}

// computeBuckets fans out over buckets with at most Workers goroutines.
// Each worker owns one slot of the returned slice.
func (s *AnalysisService) computeBuckets(ctx context.Context, buckets *grouping.Buckets, parser *complexval.Parser) ([]bucketResult, error) {
	all := buckets.All()
	results := make([]bucketResult, len(all))
	freqs := s.analysis.NumFrequencies

	workers := s.analysis.Workers
	if workers < 1 {
		workers = 1
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, bucket := range all {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			phases, coeffs := itpc.Build(bucket.Trials, freqs, parser.Parse)
			vector := itpc.Compute(phases)
			results[i] = bucketResult{
				row: eeg.ResultRow{
					Condition: bucket.Condition.Code,
					Electrode: bucket.Electrode,
					ITPC:      vector,
					Trials:    len(bucket.Trials),
					Defined:   vector.Defined(),
				},
				meanPhase: itpc.MeanPhase(phases),
				coeffs:    coeffs,
			}
			s.logger.Debug("[AnalysisService] bucket %s: %d trials", bucket.Key(), len(bucket.Trials))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		if isContextError(err) {
			return nil, errors.Cancelled(err)
		}
		return nil, errors.Wrap(err, "bucket computation failed")
	}
	return results, nil
}

func isContextError(err error) bool {
	return stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded)
}

func classifyReadError(ctx context.Context, path string, err error) error {
	switch {
	case isContextError(err) || ctx.Err() != nil:
		return errors.Cancelled(err)
	case core.IsSchemaError(err):
		return errors.SchemaInvalid(fmt.Errorf("%s: %w", path, err))
	default:
		return errors.IOFailure("cannot read", path, err)
	}
}

func classifyWriteError(ctx context.Context, path string, err error) error {
	if isContextError(err) || ctx.Err() != nil {
		return errors.Cancelled(err)
	}
	return errors.IOFailure("cannot write", path, err)
}
