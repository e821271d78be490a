// Package generation implements the podcast generation workflow: quota
// enforcement, bounded concurrency around the TTS engines, the Cantonese
// translation branch, and the atomic record-plus-counter commit.
package generation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"server/internal/audio"
	"server/internal/cantonese"
	"server/internal/domain"
	"server/internal/metrics"
	"server/internal/providers/speech"
	"server/internal/providers/translate"
)

// ArtifactStore persists synthesized audio artifacts.
type ArtifactStore interface {
	Write(ctx context.Context, key string, data []byte) (string, error)
	Remove(ctx context.Context, key string) error
}

// Request carries one generation call. Texts arrive raw; the coordinator
// normalizes them before validation.
type Request struct {
	Text          string
	Voice         string
	Emotion       string
	Speed         float64
	Language      domain.Language
	UserEmail     string
	IsTranslated  bool
	Title         string
	Description   string
	Tags          []string
	CoverImageURL string
	IsPublic      bool
}

// Result is returned on a successful generation.
type Result struct {
	Record *domain.PodcastRecord
	// Remaining is the monthly generations left after this one, or
	// domain.UnlimitedGenerations for uncapped plans.
	Remaining int
}

// Config bounds the workflow.
type Config struct {
	MaxTextChars            int
	MaxAudioSeconds         float64
	EstimatedSecondsPerChar float64
	SynthesisTimeout        time.Duration
	AudioBaseURL            string
}

func (c Config) withDefaults() Config {
	if c.MaxTextChars <= 0 {
		c.MaxTextChars = 10000
	}
	if c.MaxAudioSeconds <= 0 {
		c.MaxAudioSeconds = 3600
	}
	if c.EstimatedSecondsPerChar <= 0 {
		c.EstimatedSecondsPerChar = 0.25
	}
	if c.SynthesisTimeout <= 0 {
		c.SynthesisTimeout = 120 * time.Second
	}
	return c
}

// Coordinator is the single entry point for podcast generation.
type Coordinator struct {
	cfg        Config
	users      domain.UserRepository
	podcasts   domain.PodcastRepository
	quota      *QuotaPolicy
	gate       *Gate
	detector   cantonese.Detector
	translator translate.Translator
	synth      speech.Synthesizer
	inspector  audio.Inspector
	store      ArtifactStore
	catalog    *speech.Catalog
	metrics    *metrics.GenerationMetrics
	logger     zerolog.Logger
	now        func() time.Time
}

// Options wires the coordinator's collaborators. Translator, Inspector and
// Metrics are optional; everything else is required.
type Options struct {
	Config     Config
	Users      domain.UserRepository
	Podcasts   domain.PodcastRepository
	Gate       *Gate
	Detector   cantonese.Detector
	Translator translate.Translator
	Synth      speech.Synthesizer
	Inspector  audio.Inspector
	Store      ArtifactStore
	Catalog    *speech.Catalog
	Metrics    *metrics.GenerationMetrics
	Logger     zerolog.Logger
	Now        func() time.Time
}

func NewCoordinator(opts Options) (*Coordinator, error) {
	if opts.Users == nil || opts.Podcasts == nil {
		return nil, errors.New("generation: user and podcast repositories are required")
	}
	if opts.Synth == nil {
		return nil, errors.New("generation: synthesizer is required")
	}
	if opts.Store == nil {
		return nil, errors.New("generation: artifact store is required")
	}
	if opts.Gate == nil {
		opts.Gate = NewGate(20, 0)
	}
	if opts.Detector == nil {
		opts.Detector = cantonese.NewMarkerDetector(nil)
	}
	if opts.Catalog == nil {
		opts.Catalog = speech.DefaultCatalog()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Coordinator{
		cfg:        opts.Config.withDefaults(),
		users:      opts.Users,
		podcasts:   opts.Podcasts,
		quota:      NewQuotaPolicy(opts.Users),
		gate:       opts.Gate,
		detector:   opts.Detector,
		translator: opts.Translator,
		synth:      opts.Synth,
		inspector:  opts.Inspector,
		store:      opts.Store,
		catalog:    opts.Catalog,
		metrics:    opts.Metrics,
		logger:     opts.Logger,
		now:        opts.Now,
	}, nil
}

// Quota exposes the coordinator's quota policy for the stats endpoint.
func (c *Coordinator) Quota() *QuotaPolicy {
	return c.quota
}

// Catalog exposes the voice catalog for the voices endpoints.
func (c *Coordinator) Catalog() *speech.Catalog {
	return c.catalog
}

// Generate runs the full workflow. Before the final commit no failure path
// leaves observable side effects besides the lazy monthly reset.
func (c *Coordinator) Generate(ctx context.Context, req Request) (*Result, error) {
	started := c.now()
	result, err := c.generate(ctx, req, started)
	c.metrics.ObserveResult(resultLabel(err), c.now().Sub(started).Seconds())
	return result, err
}

func (c *Coordinator) generate(ctx context.Context, req Request, now time.Time) (*Result, error) {
	user, err := c.users.GetByEmail(ctx, req.UserEmail)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("user %q: %w", req.UserEmail, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("load user: %w", err)
	}
	if !user.IsVerified {
		return nil, domain.ErrUnverified
	}
	if err := c.quota.Ensure(ctx, user, now); err != nil {
		return nil, err
	}

	language := req.Language
	if language == "" {
		language = domain.LanguageCantonese
	}
	if !language.Valid() {
		return nil, domain.NewValidationError("language", "unsupported language")
	}
	voice, ok := c.catalog.Resolve(language, req.Voice)
	if !ok {
		return nil, domain.NewValidationError("voice", fmt.Sprintf("voice %q is not available for language %q", req.Voice, language))
	}

	text := PrepareText(req.Text)
	if text == "" {
		return nil, domain.NewValidationError("text", "text cannot be empty")
	}
	runeCount := utf8.RuneCountInString(text)
	if runeCount > c.cfg.MaxTextChars {
		return nil, domain.NewValidationError("text", fmt.Sprintf("text exceeds %d characters", c.cfg.MaxTextChars))
	}
	if estimate := float64(runeCount) * c.cfg.EstimatedSecondsPerChar; estimate > c.cfg.MaxAudioSeconds {
		return nil, domain.NewValidationError("text", fmt.Sprintf("estimated duration %.0fs exceeds the %.0fs maximum", estimate, c.cfg.MaxAudioSeconds))
	}

	release, err := c.gate.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	text = c.maybeTranslate(ctx, text, req, language)

	audioBytes, err := c.synthesize(ctx, speech.SynthesisInput{Text: text, Voice: voice, Speed: req.Speed})
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("podcasts/%s.mp3", uuid.NewString())
	storedKey, err := c.store.Write(ctx, key, audioBytes)
	if err != nil {
		return nil, fmt.Errorf("store audio: %w: %v", domain.ErrPersistence, err)
	}

	duration := "00:00:00"
	if c.inspector != nil {
		if seconds, err := c.inspector.Duration(audioBytes); err != nil {
			c.logger.Warn().Err(err).Msg("generation: duration probe failed, keeping placeholder")
		} else {
			duration = domain.FormatDuration(seconds)
		}
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		title = DeriveTitle(text)
	}
	emotion := req.Emotion
	if emotion == "" {
		emotion = "normal"
	}
	speed := req.Speed
	if speed == 0 {
		speed = 1.0
	}

	record := &domain.PodcastRecord{
		Title:       title,
		Description: req.Description,
		Content:     text,
		Voice:       req.Voice,
		Emotion:     emotion,
		Speed:       speed,
		AudioURL:    c.audioURL(storedKey),
		Duration:    duration,
		FileSize:    int64(len(audioBytes)),
		OwnerEmail:  user.Email,
		Tags:        req.Tags,
		IsPublic:    req.IsPublic,
		Language:    language,
	}

	stored, remaining, err := c.podcasts.CreateWithQuota(ctx, record, now)
	if err != nil {
		if removeErr := c.store.Remove(context.WithoutCancel(ctx), storedKey); removeErr != nil {
			c.logger.Error().Err(removeErr).Str("key", storedKey).Msg("generation: failed to remove orphaned audio artifact")
		}
		var quotaErr *domain.QuotaExceededError
		if errors.As(err, &quotaErr) {
			return nil, err
		}
		return nil, fmt.Errorf("commit podcast: %w: %v", domain.ErrPersistence, err)
	}

	c.logger.Info().
		Int64("podcast_id", stored.ID).
		Str("owner", stored.OwnerEmail).
		Str("language", string(stored.Language)).
		Int("remaining", remaining).
		Msg("generation: podcast created")

	return &Result{Record: stored, Remaining: remaining}, nil
}

// maybeTranslate runs the Cantonese translation branch. Failures are
// non-fatal: the original text is kept and the request continues.
func (c *Coordinator) maybeTranslate(ctx context.Context, text string, req Request, language domain.Language) string {
	if req.IsTranslated || c.translator == nil || language == domain.LanguageMandarin {
		return text
	}
	if !c.detector.IsChinese(text) || c.detector.IsCantonese(text) {
		return text
	}
	translated, err := c.translator.Translate(ctx, text, string(domain.LanguageCantonese))
	if err != nil {
		c.metrics.TranslationFallback()
		c.logger.Warn().Err(err).Msg("generation: translation failed, using original text")
		return text
	}
	if out := PrepareText(translated); out != "" {
		return out
	}
	return text
}

// synthesize runs the engine call under the configured timeout. The select
// abandons the wait on timeout; the engine call itself is additionally bound
// by the derived context.
func (c *Coordinator) synthesize(ctx context.Context, input speech.SynthesisInput) ([]byte, error) {
	synthCtx, cancel := context.WithTimeout(ctx, c.cfg.SynthesisTimeout)
	defer cancel()

	type synthResult struct {
		data []byte
		err  error
	}
	done := make(chan synthResult, 1)
	c.metrics.SynthesisStarted()
	go func() {
		defer c.metrics.SynthesisFinished()
		data, err := c.synth.Synthesize(synthCtx, input)
		done <- synthResult{data: data, err: err}
	}()

	select {
	case res := <-done:
		if res.err != nil {
			if synthCtx.Err() != nil && ctx.Err() == nil {
				return nil, fmt.Errorf("synthesis: %w", domain.ErrSynthesisTimeout)
			}
			return nil, fmt.Errorf("synthesis: %w: %v", domain.ErrProviderFailure, res.err)
		}
		return res.data, nil
	case <-synthCtx.Done():
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("synthesis: %w", domain.ErrSynthesisTimeout)
	}
}

func (c *Coordinator) audioURL(key string) string {
	base := strings.TrimRight(c.cfg.AudioBaseURL, "/")
	if base == "" {
		base = "/static"
	}
	return base + "/" + key
}

func resultLabel(err error) string {
	switch {
	case err == nil:
		return metrics.ResultSuccess
	case errors.Is(err, domain.ErrSynthesisTimeout):
		return metrics.ResultTimeout
	case errors.Is(err, domain.ErrBusy):
		return metrics.ResultBusy
	case errors.Is(err, domain.ErrProviderFailure):
		return metrics.ResultProviderError
	case errors.Is(err, domain.ErrPersistence):
		return metrics.ResultPersistenceError
	default:
		var quotaErr *domain.QuotaExceededError
		if errors.As(err, &quotaErr) {
			return metrics.ResultQuotaExceeded
		}
		return metrics.ResultValidation
	}
}
