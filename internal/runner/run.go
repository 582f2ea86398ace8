package runner

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-yaml"
	v1 "github.com/infracollect/pizzacheck/apis/v1"
	"github.com/infracollect/pizzacheck/internal/checker"
	"github.com/infracollect/pizzacheck/internal/engine"
	"github.com/samber/do/v2"
	"go.uber.org/zap"
)

var (
	defaultValidator = validator.New(validator.WithRequiredStructEnabled())
)

// ParseCheckJob parses a YAML or JSON job file and validates it.
func ParseCheckJob(data []byte) (v1.CheckJob, error) {
	var job v1.CheckJob
	if err := yaml.Unmarshal(data, &job); err != nil {
		return v1.CheckJob{}, fmt.Errorf("failed to unmarshal job data: %w", err)
	}

	if err := ValidateCheckJob(job); err != nil {
		return v1.CheckJob{}, err
	}

	return job, nil
}

// ValidateCheckJob validates job. Call it again after ExpandJob, since
// expanded values can be empty.
func ValidateCheckJob(job v1.CheckJob) error {
	if err := defaultValidator.Struct(job); err != nil {
		return fmt.Errorf("failed to validate job: %w", err)
	}
	return nil
}

type Runner struct {
	logger         *zap.Logger
	job            v1.CheckJob
	injector       *do.RootScope
	httpClient     *http.Client
	encoder        engine.Encoder
	sink           engine.Sink
	checkerOptions []checker.Option
}

type Option func(*Runner)

// WithSink overrides the sink configured in the job.
func WithSink(sink engine.Sink) Option {
	return func(r *Runner) {
		r.sink = sink
	}
}

// WithHTTPClient replaces the pooled client shared by all targets.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(r *Runner) {
		r.httpClient = httpClient
	}
}

// WithCheckerOptions are passed to every target's checker.
func WithCheckerOptions(opts ...checker.Option) Option {
	return func(r *Runner) {
		r.checkerOptions = append(r.checkerOptions, opts...)
	}
}

func New(logger *zap.Logger, job v1.CheckJob, opts ...Option) (*Runner, error) {
	logger.Info("creating runner", zap.String("job_name", job.Metadata.Name), zap.Int("targets", len(job.Spec.Targets)))

	r := &Runner{
		logger: logger,
		job:    job,
	}
	for _, opt := range opts {
		opt(r)
	}

	r.injector = BuildContainer(logger)
	if r.httpClient != nil {
		do.OverrideValue(r.injector, r.httpClient)
	}

	encoder, err := buildEncoder(job.Spec.Output)
	if err != nil {
		return nil, fmt.Errorf("failed to build encoder: %w", err)
	}
	r.encoder = encoder

	if r.sink == nil {
		sink, err := buildSink(job)
		if err != nil {
			return nil, fmt.Errorf("failed to build sink: %w", err)
		}
		r.sink = sink
	}

	return r, nil
}

// Run checks every target in order and writes one result per target. Check
// failures are reported in the results; only setup and output errors are
// returned.
func (r *Runner) Run(ctx context.Context) (map[string]checker.Status, error) {
	statuses := make(map[string]checker.Status, len(r.job.Spec.Targets))

	defer func() {
		// Background context so the sink is closed even after cancellation.
		if err := r.sink.Close(context.Background()); err != nil {
			r.logger.Error("failed to close sink", zap.String("sink", r.sink.Name()), zap.Error(err))
		}
	}()

	for _, target := range r.job.Spec.Targets {
		if err := ctx.Err(); err != nil {
			return statuses, fmt.Errorf("context cancelled while checking target '%s': %w", target.ID, err)
		}

		result := r.checkTarget(ctx, target)
		statuses[target.ID] = result.Status

		if err := r.writeResult(ctx, target, result); err != nil {
			return statuses, fmt.Errorf("failed to write result for target '%s': %w", target.ID, err)
		}
	}

	return statuses, nil
}

// checkTarget never fails: a target that cannot be checked is reported as
// down so the remaining targets still run.
func (r *Runner) checkTarget(ctx context.Context, target v1.Target) checker.CheckResult {
	logger := do.MustInvoke[*zap.Logger](r.injector).With(zap.String("target_id", target.ID))

	flag := checker.NewFlag()
	if target.Flag != nil {
		flag = *target.Flag
	}

	c, err := r.newChecker(target, logger)
	if err != nil {
		logger.Warn("failed to set up checker", zap.Error(err))
		return checker.Unchecked(flag, err)
	}

	result := c.Check(ctx, flag)
	logger.Info("checked target",
		zap.Stringer("status", result.Status),
		zap.String("message", result.Message),
	)

	return result
}

func (r *Runner) newChecker(target v1.Target, logger *zap.Logger) (*checker.Checker, error) {
	httpClient, err := do.Invoke[*http.Client](r.injector)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve http client: %w", err)
	}

	opts := append([]checker.Option{
		checker.WithLogger(logger.Named("checker")),
		checker.WithHTTPClient(httpClient),
	}, r.checkerOptions...)

	return checker.NewChecker(r.checkerConfig(target), opts...)
}

func (r *Runner) checkerConfig(target v1.Target) checker.Config {
	cfg := checker.Config{
		Target:  checker.Target{Host: target.Host, Port: target.Port},
		Headers: r.job.Spec.Headers,
	}

	if t := r.job.Spec.Timeouts; t != nil {
		if t.SetFlag != nil {
			cfg.SetFlagTimeout = time.Duration(*t.SetFlag) * time.Second
		}
		if t.GetFlag != nil {
			cfg.GetFlagTimeout = time.Duration(*t.GetFlag) * time.Second
		}
	}

	return cfg
}

func (r *Runner) writeResult(ctx context.Context, target v1.Target, result checker.CheckResult) error {
	reader, err := r.encoder.EncodeResult(ctx, engine.Result{
		ID:   target.ID,
		Data: result,
		Meta: map[string]string{
			"job":    r.job.Metadata.Name,
			"target": checker.Target{Host: target.Host, Port: target.Port}.String(),
		},
	})
	if err != nil {
		return err
	}

	filename := fmt.Sprintf("%s.%s", target.ID, r.encoder.FileExtension())
	return r.sink.Write(ctx, filename, reader)
}
