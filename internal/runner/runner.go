// Package runner runs discovered puppets attempt by attempt and collects
// their results.
package runner

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/AndreyAkinshin/theater/internal/config"
	theatererrors "github.com/AndreyAkinshin/theater/internal/errors"
	"github.com/AndreyAkinshin/theater/internal/output"
	"github.com/AndreyAkinshin/theater/internal/perfparser"
	"github.com/AndreyAkinshin/theater/internal/puppet"
	"github.com/AndreyAkinshin/theater/internal/results"
)

// Environment variables passed to every puppet.
const (
	EnvPuppet  = "THEATER_PUPPET"
	EnvAttempt = "THEATER_ATTEMPT"
)

// Options configures where and how puppets are spawned.
type Options struct {
	// Dir is the execution directory. Puppets are discovered below it and
	// run with it as working directory. Empty means the current directory.
	Dir string
	// Executor spawns puppets. Nil means puppet.NewProcess().
	Executor puppet.Executor
	// Out receives banners, progress lines and the summary. Nil means output.New().
	Out *output.Writer
	// Stderr receives puppet stderr. Nil means os.Stderr.
	Stderr io.Writer
}

// Runner executes puppets for one validated configuration.
type Runner struct {
	cfg    *config.Config
	dir    string
	exec   puppet.Executor
	out    *output.Writer
	stderr io.Writer
}

// New validates cfg and creates a Runner.
func New(cfg *config.Config, opts Options) (*Runner, error) {
	if err := config.Validate(cfg); err != nil {
		return nil, theatererrors.Validation(err)
	}

	dir := opts.Dir
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, theatererrors.Wrap(err, "failed to resolve execution directory")
		}
		dir = wd
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, theatererrors.Wrap(err, "failed to resolve execution directory")
	}

	r := &Runner{
		cfg:    cfg,
		dir:    abs,
		exec:   opts.Executor,
		out:    opts.Out,
		stderr: opts.Stderr,
	}
	if r.exec == nil {
		r.exec = puppet.NewProcess()
	}
	if r.out == nil {
		r.out = output.New()
	}
	if r.stderr == nil {
		r.stderr = os.Stderr
	}
	return r, nil
}

// Dir returns the absolute execution directory.
func (r *Runner) Dir() string {
	return r.dir
}

// Discover lists the puppets selected by the configuration, relative to the
// execution directory where possible, in run order.
func (r *Runner) Discover() ([]string, error) {
	glob := r.cfg.AdditionalParams.FastGlobParams
	found, err := puppet.Discover(r.cfg.Path.Pattern, puppet.GlobOptions{
		Dot:             glob.Dot,
		OnlyFiles:       glob.OnlyFiles,
		CaseInsensitive: glob.CaseInsensitive,
		FollowSymlinks:  glob.FollowSymlinks,
		Ignore:          glob.Ignore,
	}, r.dir)
	if err != nil {
		return nil, err
	}
	for i, p := range found {
		found[i] = puppet.Relative(r.dir, p)
	}
	return found, nil
}

// RunAttempt spawns puppetPath once and records its parsed result in store
// under attempt index. The returned entry is empty when performance checks
// are disabled.
func (r *Runner) RunAttempt(ctx context.Context, puppetPath string, store results.Results, index int) (results.Results, error) {
	if err := r.checkInputs(puppetPath, store); err != nil {
		return nil, err
	}
	if index < 0 {
		return nil, theatererrors.Configf("attempt index must be non-negative, got %d", index)
	}

	params := r.cfg.AdditionalParams
	if !params.Silent {
		r.out.Attempt(index + 1)
	}

	stdout, err := r.exec.Exec(ctx, puppet.Request{
		Puppet:      puppetPath,
		Dir:         r.dir,
		Interpreter: r.cfg.Interpreter,
		Env: map[string]string{
			EnvPuppet:  puppetPath,
			EnvAttempt: strconv.Itoa(index + 1),
		},
		Stderr: r.stderr,
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, theatererrors.Interrupted(ctxErr)
		}
		if !params.ContinueOnFailure {
			return nil, theatererrors.PuppetError(puppetPath, index+1, err)
		}
		r.out.CrashRecorded(puppetPath, index+1, err)
		entry := results.Results{puppetPath: {index: results.CrashMarker(err)}}
		results.Assign(entry, store)
		return entry, r.callback(ctx)
	}

	entry := results.Results{}
	if params.CheckPerformance {
		entry = perfparser.Parse(stdout, index, puppetPath)
		results.Assign(entry, store)
	}
	if err := r.callback(ctx); err != nil {
		return nil, err
	}
	return entry, nil
}

// RunGroup runs every attempt of puppetPath in order and stores the group's
// elapsed milliseconds in perf.
func (r *Runner) RunGroup(ctx context.Context, puppetPath string, store results.Results, perf results.Performance) (results.Performance, error) {
	if _, err := r.group(ctx, puppetPath, store, perf); err != nil {
		return perf, err
	}
	return perf, nil
}

// group returns the number of attempts that completed.
func (r *Runner) group(ctx context.Context, puppetPath string, store results.Results, perf results.Performance) (int, error) {
	if err := r.checkInputs(puppetPath, store); err != nil {
		return 0, err
	}
	if perf == nil {
		return 0, theatererrors.Config("performance store is required")
	}

	silent := r.cfg.AdditionalParams.Silent
	if !silent {
		r.out.GroupStarted(puppetPath)
	}

	attempts := r.cfg.Attempts
	start := time.Now()
	completed := 0
	stopped := false
	for i := 0; attempts.IsUnbounded() || i < int(attempts); i++ {
		if attempts.IsUnbounded() && ctx.Err() != nil {
			stopped = true
			break
		}
		if _, err := r.RunAttempt(ctx, puppetPath, store, i); err != nil {
			if attempts.IsUnbounded() && isInterrupt(err) {
				stopped = true
				break
			}
			return completed, err
		}
		completed++
	}
	perf.Assign(puppetPath, time.Since(start).Milliseconds())

	if !silent {
		r.out.GroupEnded(puppetPath)
	}
	if stopped {
		return completed, nil
	}
	return completed, r.callback(ctx)
}

// Launch discovers the configured puppets and runs a group for each of them,
// then prints the summary, writes the results file and invokes the callback.
//
// With no puppets nothing is spawned and no file is written. An unbounded run
// ends when ctx is canceled and is then wrapped up like a finished one.
func (r *Runner) Launch(ctx context.Context) (*results.Log, error) {
	found, err := r.Discover()
	if err != nil {
		return nil, err
	}

	log := results.NewLog()
	r.out.TheaterStart()
	if len(found) == 0 {
		r.out.NoPuppets(r.cfg.Path.Pattern)
		r.out.TheaterEnd()
		return log, nil
	}

	unbounded := r.cfg.Attempts.IsUnbounded()
	for _, p := range found {
		if ctxErr := ctx.Err(); ctxErr != nil {
			if unbounded {
				break
			}
			return log, theatererrors.Interrupted(ctxErr)
		}
		log.Order = append(log.Order, p)
		n, err := r.group(ctx, p, log.Tests, log.Performance)
		log.Attempts[p] = n
		if err != nil {
			return log, err
		}
	}
	r.out.TheaterEnd()

	params := r.cfg.AdditionalParams
	if params.CheckPerformance {
		r.out.PerformanceSummary(log)
	}
	if params.WriteResultsToFile {
		path := r.ResultsPath()
		if err := results.WriteFile(path, log.Performance); err != nil {
			return log, theatererrors.Wrap(err, "failed to write results")
		}
		r.out.ResultsWritten(path)
	}
	if ctx.Err() != nil {
		return log, nil
	}
	return log, r.callback(ctx)
}

// ResultsPath returns the results file location, resolved against the
// execution directory when relative.
func (r *Runner) ResultsPath() string {
	p := filepath.FromSlash(r.cfg.Path.Results)
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(r.dir, p)
}

// Launch validates cfg and runs it. See Runner.Launch.
func Launch(ctx context.Context, cfg *config.Config, opts Options) (*results.Log, error) {
	r, err := New(cfg, opts)
	if err != nil {
		return nil, err
	}
	return r.Launch(ctx)
}

// LaunchWith merges a raw user configuration onto the defaults and launches it.
func LaunchWith(ctx context.Context, userCfg map[string]any, opts Options) (*results.Log, error) {
	cfg, err := config.Resolve(userCfg)
	if err != nil {
		return nil, theatererrors.Validation(err)
	}
	return Launch(ctx, cfg, opts)
}

func (r *Runner) checkInputs(puppetPath string, store results.Results) error {
	if strings.TrimSpace(puppetPath) == "" {
		return theatererrors.Config("puppet path is required")
	}
	if err := config.Validate(r.cfg); err != nil {
		return theatererrors.Validation(err)
	}
	if store == nil {
		return theatererrors.Config("results store is required")
	}
	return nil
}

func (r *Runner) callback(ctx context.Context) error {
	cb := r.cfg.AdditionalParams.Callback
	if cb == nil {
		return nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return theatererrors.Interrupted(ctxErr)
	}
	if err := cb(ctx); err != nil {
		return theatererrors.CallbackError(err)
	}
	return nil
}

func isInterrupt(err error) bool {
	var te *theatererrors.TheaterError
	return errors.As(err, &te) && te.Kind == theatererrors.KindInterrupted
}
