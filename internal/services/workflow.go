package services

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/vvka-141/ingest/internal/checksum"
	"github.com/vvka-141/ingest/internal/files/filesystem"
	"github.com/vvka-141/ingest/internal/metadata"
	"github.com/vvka-141/ingest/internal/provenance"
	"github.com/vvka-141/ingest/pkg/ingest"
)

// EditionRecorder audits one edition and commits its provenance record.
// *provenance.Auditor implements it.
type EditionRecorder interface {
	Record(ctx context.Context, req provenance.RecordRequest) (*ingest.EditionRecord, error)
}

// Stores are the sinks a run writes to once its table has validated.
type Stores struct {
	Recorder EditionRecorder
	Data     ingest.DataStore
}

// StoreOpener connects the stores of one run. The returned release func,
// which may be nil, is called when the run ends.
type StoreOpener func(ctx context.Context) (Stores, func(), error)

// WorkflowDeps holds the collaborators of a Workflow.
type WorkflowDeps struct {
	// FileSystem reads the metadata document and fingerprints raw files
	FileSystem filesystem.FileSystemProvider

	Loader ingest.FileLoader

	// Recorder and DataStore are used as-is when OpenStores is nil.
	Recorder  EditionRecorder
	DataStore ingest.DataStore

	// OpenStores is called only after validation passes, so no-op, dry and
	// invalid runs never connect.
	OpenStores StoreOpener

	Checksum checksum.Calculator
	Logger   ingest.Logger
}

// Workflow runs the audited ingestion of one table edition:
// load, transform, validate, record provenance, then write data.
//
// Data is never written before the edition's provenance record has been
// committed. There are no retries within a run; re-running is the recovery.
//
// Thread-Safety: Run holds no state between calls, so a Workflow may be
// shared if its dependencies are safe for concurrent use. Concurrent runs of
// the same edition are not coordinated.
type Workflow struct {
	fs       filesystem.FileSystemProvider
	loader   ingest.FileLoader
	open     StoreOpener
	checksum checksum.Calculator
	logger   ingest.Logger

	now func() time.Time
}

// NewWorkflow creates a Workflow. Panics if any dependency is nil. Recorder
// and DataStore may be nil only when OpenStores is set.
func NewWorkflow(deps WorkflowDeps) *Workflow {
	if deps.FileSystem == nil {
		panic("file system cannot be nil")
	}
	if deps.Loader == nil {
		panic("loader cannot be nil")
	}
	open := deps.OpenStores
	if open == nil {
		if deps.Recorder == nil {
			panic("recorder cannot be nil")
		}
		if deps.DataStore == nil {
			panic("data store cannot be nil")
		}
		stores := Stores{Recorder: deps.Recorder, Data: deps.DataStore}
		open = func(context.Context) (Stores, func(), error) { return stores, nil, nil }
	}
	if deps.Checksum == nil {
		panic("checksum calculator cannot be nil")
	}
	if deps.Logger == nil {
		panic("logger cannot be nil")
	}

	return &Workflow{
		fs:       deps.FileSystem,
		loader:   deps.Loader,
		open:     open,
		checksum: deps.Checksum,
		logger:   deps.Logger,
		now:      time.Now,
	}
}

// run tracks the state machine of a single Run call.
type run struct {
	result ingest.RunResult
	start  time.Time
	w      *Workflow
}

func (r *run) advance(state ingest.RunState) {
	r.result.State = state
	r.result.LastStage = state
	r.w.logger.Verbose("%s %s: %s", r.result.Table, r.result.EditionDate, state)
}

// abort ends the run without writing. A nil err is a successful abort.
func (r *run) abort(outcome ingest.Outcome, reason string, err error) (ingest.RunResult, error) {
	r.result.State = ingest.StateAborted
	r.result.Outcome = outcome
	r.result.Reason = reason
	r.result.Duration = r.w.now().Sub(r.start)
	return r.result, err
}

func (r *run) fail(err error) (ingest.RunResult, error) {
	r.w.logger.Verbose("Run of %s aborted after %s", r.result.Table, r.result.LastStage)
	return r.abort(ingest.OutcomeFailed, err.Error(), err)
}

// Run executes the workflow for def and the edition selected by cfg.
//
// A transform that returns ingest.NoOp ends the run with OutcomeNoOp and a
// nil error. With cfg.DryRun the run stops after validation. Any other
// abort returns an error and OutcomeFailed.
func (w *Workflow) Run(ctx context.Context, cfg ingest.RunConfig, def ingest.TableDefinition) (ingest.RunResult, error) {
	r := &run{
		w:     w,
		start: w.now(),
		result: ingest.RunResult{
			Table:       def.Name,
			EditionDate: cfg.EditionDate,
			State:       ingest.StatePending,
			LastStage:   ingest.StatePending,
		},
	}

	if err := errors.Join(cfg.Validate(), def.Validate()); err != nil {
		return r.fail(fmt.Errorf("invalid run configuration: %w", err))
	}

	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	w.logger.Verbose("Starting %s edition %s", def.Name, cfg.EditionDate)

	topic, err := metadata.Load(w.fs, resolvePath(cfg.WorkDir, cfg.MetadataFile))
	if err != nil {
		return r.fail(err)
	}
	table, err := topic.Table(def.Name)
	if err != nil {
		return r.fail(err)
	}
	edition, err := table.Edition(cfg.EditionDate)
	if err != nil {
		return r.fail(err)
	}

	declaredRaw := edition.RawPath
	if declaredRaw == "" {
		declaredRaw = ConventionalRawPath(cfg.DataDir, def.Name, cfg.EditionDate)
		w.logger.Verbose("Edition %s of %s has no raw_path, using %s", cfg.EditionDate, def.Name, declaredRaw)
	}
	rawPath := resolvePath(cfg.WorkDir, declaredRaw)

	w.logger.Verbose("Loading %s as %s", rawPath, def.FileType)
	raw, err := w.loader.Load(rawPath, def.FileType)
	if err != nil {
		return r.fail(err)
	}
	r.advance(ingest.StateLoaded)

	transformed, err := def.Transform(raw)
	if err != nil {
		return r.fail(fmt.Errorf("cleanup of %s failed: %w", def.Name, err))
	}
	if transformed.IsNoOp() {
		w.logger.Info("%s", transformed.Reason())
		return r.abort(ingest.OutcomeNoOp, transformed.Reason(), nil)
	}
	if transformed.Table() == nil {
		return r.fail(fmt.Errorf("cleanup of %s returned no table: %w", def.Name, ingest.ErrInvalidConfig))
	}
	r.advance(ingest.StateTransformed)

	w.logger.Info("Cleaning %s was successful validating schema", def.Name)
	validated, err := def.Schema.Validate(transformed.Table())
	if err != nil {
		w.logger.Error("Schema validation failed for %s", def.Name)
		return r.fail(err)
	}
	r.advance(ingest.StateValidated)

	if cfg.DryRun {
		w.logger.Info("Dry run: %d rows of %s validated, nothing written", validated.Len(), def.Name)
		return r.abort(ingest.OutcomeDryRun, "dry run", nil)
	}
	w.logger.Info("Validating %s was successful. Recording metadata.", def.Name)

	stores, release, err := w.open(ctx)
	if err != nil {
		return r.fail(err)
	}
	if release != nil {
		defer release()
	}
	if stores.Recorder == nil || stores.Data == nil {
		return r.fail(fmt.Errorf("store opener returned no store: %w", ingest.ErrInvalidConfig))
	}

	sum, err := checksum.File(w.checksum, w.fs, rawPath)
	if err != nil {
		return r.fail(fmt.Errorf("%w: %w", ingest.ErrSourceIO, err))
	}

	dest := ingest.Destination{
		Schema: destinationSchema(table.Schema, cfg.DestinationSchema),
		Table:  def.DestinationName(),
	}

	req := provenance.RecordRequest{
		Schema:      def.Schema,
		ScriptPath:  def.ScriptPath,
		TableName:   def.Name,
		Topic:       topic,
		EditionDate: cfg.EditionDate,
		Data:        validated,
		SchemaName:  dest.Schema,
		RawChecksum: sum,
	}
	if edition.RawPath == "" {
		req.RawPath = declaredRaw
	}

	rec, err := stores.Recorder.Record(ctx, req)
	if err != nil {
		return r.fail(err)
	}
	r.result.Edition = rec
	r.advance(ingest.StateAudited)

	w.logger.Info("Metadata recorded, pushing data to db")
	rows, err := stores.Data.Write(ctx, dest, validated, def.WriteMode)
	if err != nil {
		return r.fail(fmt.Errorf("provenance for %s edition %s is recorded but data was not written: %w",
			def.Name, cfg.EditionDate, err))
	}
	r.result.RowsWritten = rows
	r.advance(ingest.StatePersisted)

	w.logger.Info("✓ Wrote %d rows to %s (%s)", rows, dest, def.WriteMode)
	r.result.Outcome = ingest.OutcomeCompleted
	r.result.Duration = w.now().Sub(r.start)
	return r.result, nil
}

// resolvePath anchors a relative path at dir.
func resolvePath(dir, p string) string {
	if p == "" || filepath.IsAbs(p) || dir == "" {
		return p
	}
	return filepath.Join(dir, p)
}

// ConventionalRawPath returns <data_dir>/<table>/raw/<table>_<edition>.csv,
// where an edition without a raw_path is looked up.
func ConventionalRawPath(dataDir, table, edition string) string {
	if dataDir == "" {
		dataDir = ingest.DefaultDataDir
	}
	return filepath.Join(dataDir, table, "raw", fmt.Sprintf("%s_%s.csv", table, edition))
}

func destinationSchema(declared, configured string) string {
	switch {
	case declared != "":
		return declared
	case configured != "":
		return configured
	default:
		return ingest.DefaultDestinationSchema
	}
}
