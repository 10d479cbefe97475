// Package fraudlens assesses whether a social-media account is fraudulent.
// It resolves the account through a ladder of fetch strategies, checks the
// profile picture against a corpus of known images, scores the account with
// a remote fraud model, and combines both signals into a final verdict.
package fraudlens

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/fraudlens/fraudlens/apiclient"
	"github.com/fraudlens/fraudlens/classify"
	"github.com/fraudlens/fraudlens/config"
	"github.com/fraudlens/fraudlens/features"
	"github.com/fraudlens/fraudlens/headless"
	"github.com/fraudlens/fraudlens/httpcache"
	"github.com/fraudlens/fraudlens/imagecheck"
	"github.com/fraudlens/fraudlens/legacyjson"
	"github.com/fraudlens/fraudlens/profile"
	"github.com/fraudlens/fraudlens/resolve"
	"github.com/fraudlens/fraudlens/thirdparty"
	"github.com/fraudlens/fraudlens/verdict"
	"github.com/fraudlens/fraudlens/webapi"
	"github.com/fraudlens/fraudlens/webpage"
)

// Account is the normalized account representation.
type Account = profile.Account

// Sentinel errors surfaced by resolution.
var (
	ErrNotFound            = profile.ErrNotFound
	ErrDenied              = profile.ErrDenied
	ErrRateLimited         = profile.ErrRateLimited
	ErrInvalidInput        = profile.ErrInvalidInput
	ErrStrategyUnavailable = profile.ErrStrategyUnavailable
)

// ManualStrategy is the provenance recorded when the caller supplies the
// account data directly instead of resolving it.
const ManualStrategy = "manual entry"

// Input names what to assess. Either Username (resolved over the network) or
// Account (entered manually) must be set; Account wins when both are.
// ImagePath optionally points at the profile picture to check for reuse.
type Input struct {
	Account   *Account
	Username  string
	ImagePath string
}

// Report is a full assessment.
type Report struct {
	Account    *Account
	Strategy   string
	Features   features.Vector
	Prediction classify.Prediction
	Image      imagecheck.Result
	Verdict    verdict.Result
}

// Option configures an assessment.
type Option func(*settings)

type settings struct {
	cfg            config.Config
	cookies        map[string]string
	cache          httpcache.Cacher
	logger         *slog.Logger
	classifier     classify.Classifier
	browserCookies bool
}

// WithConfig applies a loaded configuration.
func WithConfig(cfg config.Config) Option {
	return func(s *settings) { s.cfg = cfg }
}

// WithCookies sets explicit session cookie values for the authenticated
// strategy.
func WithCookies(cookies map[string]string) Option {
	return func(s *settings) { s.cookies = cookies }
}

// WithBrowserCookies enables reading session cookies from browser stores.
func WithBrowserCookies() Option {
	return func(s *settings) { s.browserCookies = true }
}

// WithHTTPCache overrides the HTTP response cache.
func WithHTTPCache(cache httpcache.Cacher) Option {
	return func(s *settings) { s.cache = cache }
}

// WithClassifier overrides the fraud model client. Without this option the
// model endpoint from the configuration is used.
func WithClassifier(c classify.Classifier) Option {
	return func(s *settings) { s.classifier = c }
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *settings) { s.logger = logger }
}

func newSettings(opts []Option) (*settings, error) {
	s := &settings{cfg: config.Default(), logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}

	if s.cache == nil {
		if s.cfg.Cache.Disabled {
			s.cache = httpcache.NewNull()
		} else {
			cache, err := httpcache.New(s.cfg.Cache.TTL.Std())
			if err != nil {
				return nil, fmt.Errorf("cache setup failed: %w", err)
			}
			s.cache = cache
		}
	}

	if s.classifier == nil && s.cfg.Model.URL != "" {
		s.classifier = classify.NewHTTPClient(s.cfg.Model.URL,
			classify.WithAPIKey(s.cfg.Model.APIKey),
			classify.WithLogger(s.logger))
	}
	return s, nil
}

// newResolver assembles the strategies in priority order: authenticated
// client, structured web API, legacy JSON endpoint, plain document, headless
// browser, third-party library.
func newResolver(ctx context.Context, s *settings) (*resolve.Resolver, error) {
	apiOpts := []apiclient.Option{apiclient.WithLogger(s.logger)}
	if len(s.cookies) > 0 {
		apiOpts = append(apiOpts, apiclient.WithCookies(s.cookies))
	}
	if s.browserCookies || s.cfg.Strategies.BrowserCookies {
		apiOpts = append(apiOpts, apiclient.WithBrowserCookies())
	}
	authenticated, err := apiclient.New(ctx, apiOpts...)
	if err != nil {
		return nil, err
	}

	structured, err := webapi.New(ctx, webapi.WithHTTPCache(s.cache), webapi.WithLogger(s.logger))
	if err != nil {
		return nil, err
	}

	legacy, err := legacyjson.New(ctx, legacyjson.WithHTTPCache(s.cache), legacyjson.WithLogger(s.logger))
	if err != nil {
		return nil, err
	}

	document, err := webpage.New(ctx, webpage.WithHTTPCache(s.cache), webpage.WithLogger(s.logger))
	if err != nil {
		return nil, err
	}

	strategies := []resolve.Strategy{authenticated, structured, legacy, document}

	if !s.cfg.Strategies.DisableHeadless {
		browser, err := headless.New(ctx,
			headless.WithSettle(s.cfg.Strategies.HeadlessSettle.Std()),
			headless.WithLogger(s.logger))
		if err != nil {
			return nil, err
		}
		strategies = append(strategies, browser)
	}

	library, err := thirdparty.New(ctx,
		thirdparty.WithEnabled(s.cfg.Strategies.EnableThirdParty),
		thirdparty.WithLogger(s.logger))
	if err != nil {
		return nil, err
	}
	strategies = append(strategies, library)

	return resolve.New(strategies, resolve.WithLogger(s.logger)), nil
}

// Resolve fetches an account without running the assessment pipeline.
func Resolve(ctx context.Context, username string, opts ...Option) (*resolve.Result, error) {
	s, err := newSettings(opts)
	if err != nil {
		return nil, err
	}
	resolver, err := newResolver(ctx, s)
	if err != nil {
		return nil, err
	}
	return resolver.Resolve(ctx, username)
}

// Assess runs the full pipeline: resolve (or accept) the account, check the
// image, score the features, and compute the verdict.
func Assess(ctx context.Context, in Input, opts ...Option) (*Report, error) {
	s, err := newSettings(opts)
	if err != nil {
		return nil, err
	}
	if s.classifier == nil {
		return nil, errors.New("no classifier configured: set model.url or use WithClassifier")
	}

	report := &Report{}

	switch {
	case in.Account != nil:
		normalized := in.Account.Normalized()
		if normalized.Username == "" {
			return nil, fmt.Errorf("%w: manual account needs a username", profile.ErrInvalidInput)
		}
		report.Account = &normalized
		report.Strategy = ManualStrategy
	case in.Username != "":
		resolver, err := newResolver(ctx, s)
		if err != nil {
			return nil, err
		}
		result, err := resolver.Resolve(ctx, in.Username)
		if err != nil {
			return nil, err
		}
		report.Account = result.Account
		report.Strategy = result.Strategy
	default:
		return nil, fmt.Errorf("%w: no username or account given", profile.ErrInvalidInput)
	}

	report.Image = imagecheck.NoImage()
	if in.ImagePath != "" && s.cfg.Image.CorpusDir == "" {
		s.logger.WarnContext(ctx, "image supplied but no corpus directory configured, skipping reuse check",
			"image", in.ImagePath)
	}
	if in.ImagePath != "" && s.cfg.Image.CorpusDir != "" {
		checker := imagecheck.New(
			imagecheck.WithThreshold(s.cfg.Image.Threshold),
			imagecheck.WithLogger(s.logger))
		img, err := checker.Check(in.ImagePath, s.cfg.Image.CorpusDir)
		if err != nil {
			return nil, fmt.Errorf("image check failed: %w", err)
		}
		report.Image = img
	}

	report.Features = features.FromAccount(*report.Account)

	prediction, err := s.classifier.Classify(ctx, report.Features.Slice())
	if err != nil {
		return nil, fmt.Errorf("classification failed: %w", err)
	}
	report.Prediction = prediction

	var similarity *float64
	if report.Image.Status != imagecheck.StatusNoImage {
		similarity = &report.Image.Similarity
	}
	report.Verdict = verdict.Compute(prediction.Label, prediction.Confidence, report.Image.Status, similarity)

	s.logger.InfoContext(ctx, "assessment complete",
		"username", report.Account.Username,
		"strategy", report.Strategy,
		"verdict", report.Verdict.Verdict,
		"risk_score", report.Verdict.RiskScore)

	return report, nil
}
