package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ytget/yt-frame-extractor/internal/download"
	"github.com/ytget/yt-frame-extractor/internal/errs"
	"github.com/ytget/yt-frame-extractor/internal/frames"
	"github.com/ytget/yt-frame-extractor/internal/metrics"
	"github.com/ytget/yt-frame-extractor/internal/model"
)

// RunIDPrefix starts every run identifier
const RunIDPrefix = "run-"

// Extractor is the frame extraction stage
type Extractor interface {
	Extract(ctx context.Context, job frames.Job) (frames.Result, error)
}

// Request is what the user asked for
type Request struct {
	URL    string
	Frames int
}

// Validate rejects requests that cannot start a run
func (r Request) Validate() error {
	if strings.TrimSpace(r.URL) == "" {
		return fmt.Errorf("%w: video URL is empty", errs.ErrInvalidInput)
	}
	if r.Frames <= 0 {
		return fmt.Errorf("%w: frame count must be 1 or more, got %d", errs.ErrInvalidInput, r.Frames)
	}
	return nil
}

// Pipeline runs title resolution, download and extraction strictly in order
type Pipeline struct {
	fetcher   download.Fetcher
	extractor Extractor
	metrics   *metrics.Metrics
	log       *zap.Logger
}

// New creates a pipeline. metrics may be nil.
func New(fetcher download.Fetcher, extractor Extractor, m *metrics.Metrics, log *zap.Logger) *Pipeline {
	if log == nil {
		log = zap.NewNop()
	}
	return &Pipeline{
		fetcher:   fetcher,
		extractor: extractor,
		metrics:   m,
		log:       log.Named("pipeline"),
	}
}

// Run executes one extraction run. Events are sent on events (which may be
// nil); the caller must keep receiving until Run returns. An invalid request
// returns ErrInvalidInput without creating a run.
func (p *Pipeline) Run(ctx context.Context, req Request, events chan<- Event) (*model.ExtractionTask, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	r := &run{
		p:      p,
		task:   model.NewExtractionTask(NewRunID(), strings.TrimSpace(req.URL), req.Frames),
		events: events,
	}
	r.log = p.log.With(zap.String("run_id", r.task.ID))
	r.log.Info("run started", zap.String("url", r.task.URL), zap.Int("frames", req.Frames))

	return r.execute(ctx)
}

// run carries the state of a single Pipeline.Run call
type run struct {
	p      *Pipeline
	task   *model.ExtractionTask
	events chan<- Event
	log    *zap.Logger

	written int
}

func (r *run) execute(ctx context.Context) (*model.ExtractionTask, error) {
	task := r.task

	if err := r.advance(model.RunStateResolvingTitle); err != nil {
		return r.fail(err)
	}
	title, err := r.p.fetcher.ResolveTitle(ctx, task.URL)
	if err != nil {
		return r.fail(err)
	}
	task.Title = title

	if err := r.advance(model.RunStateDownloading); err != nil {
		return r.fail(err)
	}
	asset, err := r.p.fetcher.Download(ctx, task.URL, title)
	if err != nil {
		return r.fail(err)
	}
	task.VideoPath = asset.Path
	task.Cached = asset.Cached
	r.p.metrics.ObserveDownload(asset.Cached)

	task.OutputDir = frames.OutputDir(r.p.fetcher.VideoDirectory(), title)
	if err := r.advance(model.RunStateExtracting); err != nil {
		return r.fail(err)
	}

	res, err := r.p.extractor.Extract(ctx, frames.Job{
		VideoPath:  task.VideoPath,
		OutputDir:  task.OutputDir,
		Requested:  task.Requested,
		OnPlan:     r.onPlan,
		OnProgress: r.onProgress,
	})
	r.record(res)
	if err != nil {
		return r.fail(err)
	}

	if err := r.advance(model.RunStateDone); err != nil {
		return r.fail(err)
	}
	r.p.metrics.ObserveRun(metrics.ResultDone, task.Duration())
	r.log.Info("run finished",
		zap.String("output", task.OutputDir),
		zap.Int("written", task.Succeeded),
		zap.Int("skipped", task.Skipped),
		zap.Int("failed", task.Failed),
		zap.Duration("took", task.Duration()),
	)
	return task, nil
}

func (r *run) onPlan(totalFrames, effective int) {
	r.task.Effective = effective
	r.emit(Event{Kind: EventProgress, State: r.task.State, Done: 0, Total: effective})

	if effective < r.task.Requested {
		msg := fmt.Sprintf("video has only %d frames, extracting %d instead of %d", totalFrames, effective, r.task.Requested)
		r.log.Warn("frame count clamped", zap.Int("total_frames", totalFrames), zap.Int("requested", r.task.Requested))
		r.emit(Event{Kind: EventWarning, State: r.task.State, Total: effective, Message: msg})
	}
}

func (r *run) onProgress(fr model.FrameResult, done, total int) {
	if fr.Outcome == model.FrameWritten {
		r.written++
	}
	r.emit(Event{Kind: EventProgress, State: r.task.State, Done: done, Written: r.written, Total: total, Frame: &fr})
}

func (r *run) record(res frames.Result) {
	r.task.Effective = res.Effective
	r.task.Succeeded = res.Written
	r.task.Skipped = res.Skipped
	r.task.Failed = res.Failed
}

// advance moves to the next state and announces it
func (r *run) advance(to model.RunState) error {
	if err := r.task.Transition(to); err != nil {
		return err
	}
	r.log.Debug("state changed", zap.Stringer("state", to))

	ev := Event{Kind: EventState, State: to, Title: r.task.GetDisplayTitle(), Total: r.task.Effective}
	if to == model.RunStateDone {
		ev.OutputDir = r.task.OutputDir
		ev.Done = r.task.Succeeded
		ev.Written = r.task.Succeeded
		ev.Message = r.task.Summary()
	}
	r.emit(ev)
	return nil
}

func (r *run) fail(err error) (*model.ExtractionTask, error) {
	task := r.task
	task.LastError = err.Error()
	if task.State.IsFinished() {
		return task, err
	}
	_ = task.Transition(model.RunStateFailed)

	kind := FailureKind(err)
	r.p.metrics.ObserveRun(metrics.ResultFailed, task.Duration())
	r.p.metrics.ObserveFailure(kind)
	r.log.Error("run failed", zap.String("kind", kind), zap.Error(err), zap.Duration("took", task.Duration()))
	r.emit(Event{Kind: EventState, State: model.RunStateFailed, Title: task.GetDisplayTitle(), Message: err.Error(), Err: err})
	return task, err
}

func (r *run) emit(ev Event) {
	if r.events == nil {
		return
	}
	ev.RunID = r.task.ID
	r.events <- ev
}

// FailureKind names the stage an error came from, for logs and metrics
func FailureKind(err error) string {
	switch errs.Kind(err) {
	case errs.ErrDependencyMissing:
		return "dependency"
	case errs.ErrInvalidInput:
		return "invalid_input"
	case errs.ErrTitleFetch:
		return "title"
	case errs.ErrDownload:
		return "download"
	case errs.ErrVideoOpen:
		return "video_open"
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return "canceled"
	}
	return "other"
}

// NewRunID returns a time ordered run identifier
func NewRunID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return fmt.Sprintf(RunIDPrefix+"%d", time.Now().UnixNano())
	}
	return RunIDPrefix + id.String()
}
