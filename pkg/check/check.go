// Package check resolves every hook a configuration selects against the
// manifest of the repository that publishes it.
package check

import (
	"context"
	stderrors "errors"
	"fmt"

	"github.com/grovetools/hookcfg/config"
	"github.com/grovetools/hookcfg/errors"
	"github.com/grovetools/hookcfg/logging"
	"github.com/grovetools/hookcfg/pkg/manifest"
	"github.com/grovetools/hookcfg/pkg/profiling"
	"github.com/grovetools/hookcfg/pkg/store"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// DefaultJobs bounds concurrent repository fetches when Jobs is unset.
const DefaultJobs = 4

// Store provides checkouts of hook repositories.
type Store interface {
	Ensure(ctx context.Context, repo, rev string) (store.Entry, error)
}

// Result is the outcome for one declaration.
type Result struct {
	Repo   string                  `json:"repo"`
	Rev    string                  `json:"rev,omitempty"`
	Commit string                  `json:"commit,omitempty"`
	Hooks  []manifest.ResolvedHook `json:"hooks,omitempty"`
	Err    error                   `json:"-"`
	Error  string                  `json:"error,omitempty"`
}

// Report holds one Result per declaration, in declaration order.
type Report struct {
	Results []Result `json:"results"`
}

// Err joins the failures of every declaration, or returns nil.
func (r *Report) Err() error {
	var errs []error
	for _, res := range r.Results {
		if res.Err != nil {
			errs = append(errs, res.Err)
		}
	}
	return stderrors.Join(errs...)
}

// Hooks returns every resolved hook in execution order.
func (r *Report) Hooks() []manifest.ResolvedHook {
	var hooks []manifest.ResolvedHook
	for _, res := range r.Results {
		hooks = append(hooks, res.Hooks...)
	}
	return hooks
}

// Checker resolves configurations against fetched manifests.
type Checker struct {
	Store  Store
	Jobs   int
	Logger *logrus.Entry
}

// New returns a Checker backed by s.
func New(s Store, jobs int) *Checker {
	return &Checker{
		Store:  s,
		Jobs:   jobs,
		Logger: logging.NewLogger("check"),
	}
}

// Check resolves every declaration of cfg. Per-declaration failures are
// recorded in the report; the returned error is only set when ctx ends first.
func (c *Checker) Check(ctx context.Context, cfg *config.Config) (*Report, error) {
	report := &Report{Results: make([]Result, len(cfg.Repos))}

	jobs := c.Jobs
	if jobs <= 0 {
		jobs = DefaultJobs
	}

	var g errgroup.Group
	g.SetLimit(jobs)

	for i, repo := range cfg.Repos {
		i, repo := i, repo
		g.Go(func() error {
			var res Result
			switch {
			case repo.IsLocal():
				res = c.checkLocal(repo)
			case repo.IsMeta():
				res = c.checkMeta(repo)
			default:
				res = c.checkRemote(ctx, repo)
			}
			for j := range res.Hooks {
				applyDefaults(cfg, &res.Hooks[j])
			}
			if res.Err != nil {
				res.Error = res.Err.Error()
			}
			report.Results[i] = res
			return nil
		})
	}
	_ = g.Wait()

	return report, ctx.Err()
}

func (c *Checker) logger() *logrus.Entry {
	if c.Logger != nil {
		return c.Logger
	}
	return logging.NewLogger("check")
}

func (c *Checker) checkRemote(ctx context.Context, repo config.Repo) Result {
	defer profiling.Start("resolve " + store.Key(repo.Repo, repo.Rev)).Stop()

	res := Result{Repo: repo.Repo, Rev: repo.Rev}
	log := c.logger().WithFields(logrus.Fields{"repo": repo.Repo, "rev": repo.Rev})

	if err := ctx.Err(); err != nil {
		res.Err = err
		return res
	}

	entry, err := c.Store.Ensure(ctx, repo.Repo, repo.Rev)
	if err != nil {
		log.WithError(err).Debug("Fetch failed")
		res.Err = err
		return res
	}
	res.Commit = entry.Commit

	m, err := manifest.Load(entry.Path)
	if err != nil {
		if hookErr, ok := errors.As(err); ok {
			hookErr.WithDetail("repo", repo.Repo).WithDetail("rev", repo.Rev)
		}
		res.Err = err
		return res
	}

	res.Hooks, res.Err = resolveAll(repo, func(id string) (manifest.Definition, bool) {
		return m.Lookup(id)
	})
	log.WithField("hooks", len(res.Hooks)).Debug("Resolved declaration")
	return res
}

func (c *Checker) checkLocal(repo config.Repo) Result {
	res := Result{Repo: repo.Repo}
	res.Hooks, res.Err = resolveAll(repo, func(id string) (manifest.Definition, bool) {
		return manifest.Definition{ID: id}, true
	})
	return res
}

func (c *Checker) checkMeta(repo config.Repo) Result {
	res := Result{Repo: repo.Repo}
	res.Hooks, res.Err = resolveAll(repo, manifest.Meta.Lookup)
	return res
}

func resolveAll(repo config.Repo, lookup func(string) (manifest.Definition, bool)) ([]manifest.ResolvedHook, error) {
	var (
		hooks []manifest.ResolvedHook
		errs  []error
	)
	for _, h := range repo.Hooks {
		def, ok := lookup(h.ID)
		if !ok {
			errs = append(errs, errors.HookNotFound(repo.Repo, repo.Rev, h.ID))
			continue
		}
		resolved, err := manifest.Resolve(def, h)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", repo.Repo, err))
			continue
		}
		resolved.Repo = repo.Repo
		resolved.Rev = repo.Rev
		hooks = append(hooks, resolved)
	}
	if len(errs) == 1 {
		return hooks, errs[0]
	}
	return hooks, stderrors.Join(errs...)
}

// applyDefaults fills language_version and stages from the top-level
// defaults when neither the manifest nor the hook set them.
func applyDefaults(cfg *config.Config, hook *manifest.ResolvedHook) {
	if hook.LanguageVersion == "" {
		if v, ok := cfg.DefaultLanguageVersion[hook.Language]; ok {
			hook.LanguageVersion = v
		} else {
			hook.LanguageVersion = "default"
		}
	}
	if len(hook.Stages) == 0 && len(cfg.DefaultStages) > 0 {
		hook.Stages = append([]string(nil), cfg.DefaultStages...)
	}
}
