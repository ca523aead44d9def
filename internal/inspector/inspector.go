// Package inspector explains failed element lookups: it reads the current UI
// snapshot, finds the node the locator most likely meant, and builds a
// report with alternative locators and the surrounding markup.
package inspector

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	oteltrace "go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/mj1618/element-inspector/internal/excerpt"
	"github.com/mj1618/element-inspector/internal/locator"
	"github.com/mj1618/element-inspector/internal/match"
	"github.com/mj1618/element-inspector/internal/model"
	"github.com/mj1618/element-inspector/internal/platform"
	"github.com/mj1618/element-inspector/internal/snapshot"
)

const tracerName = "element-inspector"

// Reporter receives every report produced by Guard and Find.
type Reporter interface {
	Report(r *Report) error
}

// ReporterFunc adapts a function to Reporter.
type ReporterFunc func(r *Report) error

// Report calls f.
func (f ReporterFunc) Report(r *Report) error { return f(r) }

// Inspector runs inspections. The zero value is not usable; call New.
type Inspector struct {
	enabled      atomic.Bool
	logger       *zap.Logger
	reporter     Reporter
	contextDepth int
	snapshotOpts []snapshot.Option
}

// Option configures an Inspector.
type Option func(*Inspector)

// WithLogger sets the diagnostic logger.
func WithLogger(l *zap.Logger) Option {
	return func(i *Inspector) { i.logger = l }
}

// WithReporter sets where Guard and Find deliver reports.
func WithReporter(r Reporter) Option {
	return func(i *Inspector) { i.reporter = r }
}

// WithContextDepth sets how many levels of the container are rendered.
func WithContextDepth(depth int) Option {
	return func(i *Inspector) { i.contextDepth = depth }
}

// WithSnapshotOptions sets parser limits.
func WithSnapshotOptions(opts ...snapshot.Option) Option {
	return func(i *Inspector) { i.snapshotOpts = append(i.snapshotOpts, opts...) }
}

// WithEnabled sets the initial state of the toggle.
func WithEnabled(enabled bool) Option {
	return func(i *Inspector) { i.enabled.Store(enabled) }
}

// New returns an enabled Inspector.
func New(opts ...Option) *Inspector {
	i := &Inspector{
		logger:       zap.NewNop(),
		contextDepth: excerpt.DefaultDepth,
	}
	i.enabled.Store(true)
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// SetEnabled turns inspection on or off. Safe for concurrent use.
func (i *Inspector) SetEnabled(enabled bool) { i.enabled.Store(enabled) }

// Enabled reports whether inspection runs.
func (i *Inspector) Enabled() bool { return i.enabled.Load() }

// Errors returned by Explain when no report could be produced.
var (
	ErrDisabled = errors.New("inspector is disabled")
	ErrInternal = errors.New("inspection failed internally")
)

// Inspect reads a snapshot from src and explains descriptor against it.
// It returns nil when inspection is disabled, when no snapshot is available,
// or when inspection failed internally. It never returns an error: inspection
// is diagnostics on top of a failure that is already being reported.
func (i *Inspector) Inspect(ctx context.Context, src platform.Source, descriptor string) *Report {
	report, _ := i.Explain(ctx, src, descriptor)
	return report
}

// Explain is Inspect with the reason for a missing report: ErrDisabled,
// snapshot.ErrUnavailable wrapping the source or parse failure, or
// ErrInternal for a recovered panic. A report with no match is not an error.
func (i *Inspector) Explain(ctx context.Context, src platform.Source, descriptor string) (report *Report, err error) {
	if !i.Enabled() {
		recordOutcome(outcomeDisabled)
		return nil, ErrDisabled
	}

	ctx, span := otel.Tracer(tracerName).Start(ctx, "inspector.Inspect",
		oteltrace.WithAttributes(attribute.String("locator", descriptor)),
	)
	defer span.End()

	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			i.logger.Error("inspection failed",
				zap.String("locator", descriptor),
				zap.Any("panic", r),
				zap.Stack("stack"),
			)
			span.SetStatus(codes.Error, fmt.Sprint(r))
			recordOutcome(outcomePanic)
			report, err = nil, fmt.Errorf("%w: %v", ErrInternal, r)
		}
	}()

	root, err := i.load(ctx, src)
	if err != nil {
		i.logger.Debug("inspection skipped", zap.String("locator", descriptor), zap.Error(err))
		span.SetAttributes(attribute.String("outcome", outcomeSkipped))
		recordOutcome(outcomeSkipped)
		return nil, err
	}

	report = i.explain(root, descriptor)
	inspectionSeconds.Observe(time.Since(start).Seconds())

	outcome := outcomeNoMatch
	if report.Found() {
		outcome = outcomeMatched
		span.SetAttributes(attribute.Int("score", report.Match.Score))
	}
	span.SetAttributes(
		attribute.String("term", report.Term),
		attribute.String("outcome", outcome),
	)
	span.SetStatus(codes.Ok, "")
	recordOutcome(outcome)

	i.logger.Debug("inspection complete",
		zap.String("locator", descriptor),
		zap.String("term", report.Term),
		zap.String("outcome", outcome),
	)
	return report, nil
}

// Rank scores every node in the snapshot against descriptor and returns up
// to limit candidates, best first. Unlike Inspect it reports failures.
func (i *Inspector) Rank(ctx context.Context, src platform.Source, descriptor string, limit int) (*Ranking, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "inspector.Rank",
		oteltrace.WithAttributes(attribute.String("locator", descriptor)),
	)
	defer span.End()

	root, err := i.load(ctx, src)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	term := locator.ExtractTerm(descriptor)
	all := match.Rank(root, term, 0)
	ranking := &Ranking{Locator: descriptor, Term: term, Total: len(all)}
	if limit > 0 && len(all) > limit {
		all = all[:limit]
	}
	for _, c := range all {
		ranking.Candidates = append(ranking.Candidates, Ranked{
			Score:       c.Score,
			Order:       c.Order,
			Class:       c.Node.Class,
			Path:        model.PathOf(c.Node),
			Text:        c.Node.Text(),
			ResourceID:  c.Node.ResourceID(),
			ContentDesc: c.Node.ContentDesc(),
		})
	}
	span.SetAttributes(attribute.Int("candidates", ranking.Total))
	span.SetStatus(codes.Ok, "")
	return ranking, nil
}

// Guard is called after a lookup. When lookupErr is nil it returns nil and
// does nothing else. Otherwise it inspects, hands the report to the
// reporter, and returns lookupErr unchanged.
func (i *Inspector) Guard(ctx context.Context, src platform.Source, descriptor string, lookupErr error) error {
	if lookupErr == nil {
		return nil
	}
	report := i.Inspect(ctx, src, descriptor)
	if report != nil && i.reporter != nil {
		if err := i.reporter.Report(report); err != nil {
			i.logger.Warn("failed to deliver report", zap.String("locator", descriptor), zap.Error(err))
		}
	}
	return lookupErr
}

// Find looks loc up with finder. When the element does not exist the
// inspection report is delivered and the finder's error is returned as is.
func (i *Inspector) Find(ctx context.Context, finder platform.Finder, src platform.Source, loc platform.Locator) (string, error) {
	id, err := finder.FindElement(ctx, loc)
	if err != nil && errors.Is(err, platform.ErrNoSuchElement) {
		return "", i.Guard(ctx, src, loc.Descriptor(), err)
	}
	return id, err
}

// DefaultPollInterval is how often WaitFind repeats the lookup.
const DefaultPollInterval = 500 * time.Millisecond

// WaitFind repeats the lookup every interval until it succeeds or timeout
// elapses. Only the last miss is inspected. Errors other than a miss end the
// wait at once. A non-positive timeout behaves like Find.
func (i *Inspector) WaitFind(ctx context.Context, finder platform.Finder, src platform.Source, loc platform.Locator, timeout, interval time.Duration) (string, error) {
	if timeout <= 0 {
		return i.Find(ctx, finder, src, loc)
	}
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	deadline := time.NewTimer(timeout)
	defer deadline.Stop()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		id, err := finder.FindElement(ctx, loc)
		if err == nil {
			return id, nil
		}
		if !errors.Is(err, platform.ErrNoSuchElement) {
			return "", err
		}
		select {
		case <-ctx.Done():
			return "", err
		case <-deadline.C:
			return "", i.Guard(ctx, src, loc.Descriptor(), err)
		case <-ticker.C:
		}
	}
}

// FindAll looks up every element matching loc. An empty result is inspected
// and the report delivered, but it is still returned as an empty slice.
func (i *Inspector) FindAll(ctx context.Context, finder platform.ElementsFinder, src platform.Source, loc platform.Locator) ([]string, error) {
	ids, err := finder.FindElements(ctx, loc)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		_ = i.Guard(ctx, src, loc.Descriptor(), fmt.Errorf("%w: %s", platform.ErrNoSuchElement, loc.Descriptor()))
	}
	return ids, nil
}

func (i *Inspector) load(ctx context.Context, src platform.Source) (*model.Node, error) {
	if src == nil {
		return nil, fmt.Errorf("%w: no source", snapshot.ErrUnavailable)
	}
	markup, err := src.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", snapshot.ErrUnavailable, err)
	}
	root, err := snapshot.Parse(markup, i.snapshotOpts...)
	if err != nil {
		return nil, err
	}
	snapshotNodes.Observe(float64(model.Count(root)))
	return root, nil
}

func (i *Inspector) explain(root *model.Node, descriptor string) *Report {
	term := locator.ExtractTerm(descriptor)
	report := &Report{Locator: descriptor, Term: term}

	best, ok := match.Best(root, term)
	if !ok {
		return report
	}

	container := excerpt.ContainerOf(best.Node)
	report.Match = &Match{
		Score:          best.Score,
		Class:          best.Node.Class,
		Path:           model.PathOf(best.Node),
		Attributes:     best.Node.CopyAttrs(),
		Suggestions:    locator.Suggest(best.Node),
		ContainerClass: container.Class,
		Context:        excerpt.Lines(container, i.contextDepth),
	}
	return report
}
