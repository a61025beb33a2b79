// src/services/reconcile_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/username/shiprecon/src/logger"
	"github.com/username/shiprecon/src/models"
	"github.com/username/shiprecon/src/parsers"
	"github.com/username/shiprecon/src/processors"
)

type reconcileServiceImpl struct {
	directory Directory
	decider   processors.DecisionProcessor
	arbiter   processors.ArbitrationProcessor
	workers   int
}

// NewReconcileService wires the lookup pipeline. workers bounds how many rows
// are evaluated at once; 1 evaluates rows strictly in sequence.
func NewReconcileService(
	directory Directory,
	decider processors.DecisionProcessor,
	arbiter processors.ArbitrationProcessor,
	workers int,
) ReconcileService {
	if workers < 1 {
		workers = 1
	}
	return &reconcileServiceImpl{
		directory: directory,
		decider:   decider,
		arbiter:   arbiter,
		workers:   workers,
	}
}

// rowJob is one extracted row together with where it came from.
type rowJob struct {
	row   models.CanonicalRow
	file  string
	modes []models.Mode
}

func (s *reconcileServiceImpl) ReconcileBatch(ctx context.Context, files []UploadFile, opts BatchOptions) (*models.BatchResult, error) {
	if s.directory == nil {
		return nil, ErrDirectoryUnavailable
	}

	runID := uuid.NewString()
	start := time.Now()
	logger.L.Info("Batch START", "runID", runID, "files", len(files), "strict", opts.Strict, "windowDays", s.decider.WindowDays())

	result := &models.BatchResult{
		RunID:   runID,
		Summary: make(map[models.VerdictKind]int),
		Details: []models.RowDetail{},
	}

	var jobs []rowJob
	var fileErrs []error
	for _, f := range files {
		rows, err := parsers.ExtractRows(f.Data, f.Name)
		if err != nil {
			logger.L.Warn("File rejected", "runID", runID, "file", f.Name, "source", f.Source, "error", err)
			if opts.Strict {
				return nil, fmt.Errorf("%w: %s: %w", ErrParsingFailed, f.Name, err)
			}
			fileErrs = append(fileErrs, err)
			result.FileErrors = append(result.FileErrors, newFileError(f, err))
			continue
		}

		modes := processors.SelectModes(opts.Mode, f.Source)
		for _, row := range rows {
			row.SourceTag = f.Source
			jobs = append(jobs, rowJob{row: row, file: f.Name, modes: modes})
		}
	}

	if len(jobs) == 0 && len(fileErrs) > 0 {
		return nil, fmt.Errorf("%w: %w", ErrParsingFailed, errors.Join(fileErrs...))
	}

	outcomes := s.evaluate(ctx, jobs)

	for i, job := range jobs {
		detail := newRowDetail(i+1, job, outcomes[i])
		result.Summary[detail.Verdict]++
		result.Details = append(result.Details, detail)
	}

	logger.L.Info("Batch END", "runID", runID, "rows", len(jobs), "fileErrors", len(result.FileErrors), "duration", time.Since(start))
	return result, nil
}

// evaluate runs every job on a bounded pool. Outcomes keep job order.
func (s *reconcileServiceImpl) evaluate(ctx context.Context, jobs []rowJob) []RowOutcome {
	outcomes := make([]RowOutcome, len(jobs))

	var g errgroup.Group
	g.SetLimit(s.workers)
	for i := range jobs {
		g.Go(func() error {
			outcomes[i] = s.ReconcileRow(ctx, jobs[i].row, jobs[i].modes)
			if outcomes[i].Err != nil {
				logger.L.Error("Row failed", "row", i+1, "file", jobs[i].file, "line", jobs[i].row.Line, "error", outcomes[i].Err)
			}
			return nil
		})
	}
	_ = g.Wait()
	return outcomes
}

// ReconcileRow looks the row up and decides under each mode, arbitrating
// when more than one mode is given. Failures, including panics, come back
// as RowOutcome.Err.
func (s *reconcileServiceImpl) ReconcileRow(ctx context.Context, row models.CanonicalRow, modes []models.Mode) (out RowOutcome) {
	defer func() {
		if r := recover(); r != nil {
			out = RowOutcome{Err: fmt.Errorf("row evaluation panicked: %v", r)}
		}
	}()

	if len(modes) == 0 {
		modes = []models.Mode{row.SourceTag.PreferredMode()}
	}

	perMode := make(map[models.Mode]models.Verdict, len(modes))
	for _, mode := range modes {
		if err := ctx.Err(); err != nil {
			return RowOutcome{Err: err}
		}
		in := s.gather(ctx, mode, row)
		if err := ctx.Err(); err != nil {
			return RowOutcome{Err: err}
		}
		perMode[mode] = s.decider.Decide(in)
	}
	return RowOutcome{Result: s.arbiter.Arbitrate(row.SourceTag, perMode)}
}

// gather performs the lookups for one row under one mode. Lookup failures
// degrade to absent results.
func (s *reconcileServiceImpl) gather(ctx context.Context, mode models.Mode, row models.CanonicalRow) processors.DecisionInput {
	in := processors.DecisionInput{
		Mode:           mode,
		PartyUpload:    row.PartyName,
		TrackingUpload: row.TrackingNumber,
		AssertedDate:   row.AssertedDate,
	}

	if row.OrderNumber == "" {
		activity, err := s.directory.FindActivityByTracking(ctx, mode, row.TrackingNumber, row.AssertedDate)
		if err != nil {
			logger.L.Warn("Tracking lookup failed, treating as absent", "mode", mode, "tracking", row.TrackingNumber, "error", err)
			activity = nil
		}
		in.Packages = processors.ExtractPackages(activity)
		in.OrderExists = len(in.Packages) > 0
		in.PartyDirectory = processors.ExtractParty(activity)
		return in
	}

	order, err := s.directory.FetchOrder(ctx, mode, row.OrderNumber)
	if err != nil {
		logger.L.Warn("Order lookup failed, treating as absent", "mode", mode, "orderNumber", row.OrderNumber, "error", err)
		order = nil
	}
	in.OrderExists = order != nil
	in.PartyDirectory = order.Party()
	if !in.OrderExists {
		return in
	}

	activity, err := s.directory.FetchActivityByOrder(ctx, mode, row.OrderNumber)
	if err != nil {
		logger.L.Warn("Activity lookup failed, treating as absent", "mode", mode, "orderNumber", row.OrderNumber, "error", err)
		activity = nil
	}
	in.Packages = processors.ExtractPackages(activity)
	if in.PartyDirectory == "" {
		in.PartyDirectory = processors.ExtractParty(activity)
	}
	return in
}

func newRowDetail(n int, job rowJob, out RowOutcome) models.RowDetail {
	row := job.row
	d := models.RowDetail{
		Row:            n,
		File:           job.file,
		Line:           row.Line,
		Source:         row.SourceTag,
		Modes:          job.modes,
		OrderNumber:    row.OrderNumber,
		PartyUpload:    row.PartyName,
		TrackingUpload: row.TrackingNumber,
		AssertedDate:   row.AssertedDay(),
		Amount:         row.Amount,
	}

	if out.Err != nil {
		v := models.ErrorVerdict(out.Err)
		d.Mode = row.SourceTag.PreferredMode()
		if len(job.modes) == 1 {
			d.Mode = job.modes[0]
		}
		d.Verdict, d.Reason = v.Kind, v.Reason
		return d
	}

	res := out.Result
	d.Mode = res.Mode
	d.Modes = res.Modes
	d.Verdict = res.Chosen.Kind
	d.Reason = res.Chosen.Reason
	d.DayDelta = res.Chosen.DayDelta
	if res.Arbitrated() {
		d.PrimaryVerdict = res.PerMode[models.ModePrimary].Kind
		d.SecondaryVerdict = res.PerMode[models.ModeSecondary].Kind
	}
	return d
}

func newFileError(f UploadFile, err error) models.FileError {
	fe := models.FileError{File: f.Name, Source: f.Source, Message: err.Error()}
	var nar *parsers.NoActionableRowsError
	if errors.As(err, &nar) {
		fe.Headers = nar.Headers
	}
	return fe
}
