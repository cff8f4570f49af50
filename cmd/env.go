package cmd

import (
	"context"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/hwhelper/internal/config"
	"github.com/abhisek/hwhelper/internal/export"
	"github.com/abhisek/hwhelper/internal/grammar"
	"github.com/abhisek/hwhelper/internal/learning"
	"github.com/abhisek/hwhelper/internal/llm"
	"github.com/abhisek/hwhelper/internal/logger"
	"github.com/abhisek/hwhelper/internal/newsletter"
	"github.com/abhisek/hwhelper/internal/passage"
	"github.com/abhisek/hwhelper/internal/practice"
	"github.com/abhisek/hwhelper/internal/resolver"
	"github.com/abhisek/hwhelper/internal/store"
	"github.com/abhisek/hwhelper/internal/topics"
	"github.com/abhisek/hwhelper/internal/tutor"
)

// env is what every command works against: resolved configuration, the
// logger, the open store and, on demand, the LLM provider.
type env struct {
	cfg   config.Config
	log   *logger.Logger
	store *store.Store

	provider llm.Provider
	llmErr   error
}

// openEnv resolves configuration from the environment and the persistent
// flags, then opens the logger and the store.
func openEnv(cmd *cobra.Command) (*env, error) {
	cfg, err := config.FromEnv()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	applyFlags(cmd, &cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if err := cfg.EnsureDirs(); err != nil {
		return nil, err
	}

	log, err := logger.New(cfg.LogMode)
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}
	st, err := store.Open(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	log.Debug("store opened", "path", cfg.DBPath, "data_dir", cfg.DataDir)
	return &env{cfg: cfg, log: log, store: st}, nil
}

func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if d, _ := flags.GetString("data-dir"); d != "" {
		cfg.DataDir = d
		if os.Getenv("HWHELPER_DB") == "" {
			cfg.DBPath = filepath.Join(d, config.DBFileName)
		}
	}
	if p, _ := flags.GetString("db"); p != "" {
		cfg.DBPath = p
	}
	if s, _ := flags.GetString("subject"); s != "" {
		cfg.Subject = strings.ToLower(strings.TrimSpace(s))
	}
	if g, _ := flags.GetInt("grade"); g > 0 {
		cfg.GradeLevel = g
	}
	if m, _ := flags.GetString("log"); m != "" {
		cfg.LogMode = m
	}
}

func (e *env) Close() {
	if err := e.store.Close(); err != nil {
		e.log.Warn("close store failed", "error", err)
	}
	e.log.Sync()
}

// llm returns the configured provider. The lookup happens once; a missing
// key is remembered and returned on every call.
func (e *env) llm(ctx context.Context) (llm.Provider, error) {
	if e.provider != nil || e.llmErr != nil {
		return e.provider, e.llmErr
	}
	cfg, err := llm.Resolve()
	if err != nil {
		e.llmErr = fmt.Errorf("LLM provider not configured: %w", err)
		return nil, e.llmErr
	}
	p, err := llm.NewProvider(ctx, cfg, e.store.EventRepo(), e.log)
	if err != nil {
		e.llmErr = err
		return nil, err
	}
	e.log.Debug("llm provider ready", "provider", cfg.Provider, "model", p.ModelID())
	e.provider = p
	return p, nil
}

func (e *env) resolver() *resolver.Resolver {
	return resolver.New(e.store.ConceptMap(), e.cfg.DataDir, e.log)
}

func (e *env) syncer() *topics.Syncer {
	return topics.NewSyncer(e.cfg.DataDir, e.store.Topics(), e.store.ConceptMap(), e.log)
}

func (e *env) exporter() *export.Exporter {
	return export.New(e.cfg.ExportsDir())
}

func (e *env) library() *passage.Library {
	return passage.NewLibrary(e.cfg.PassagesDir())
}

func (e *env) loader() *passage.Loader {
	return passage.NewLoader(e.library(), passage.NewClient(passage.DefaultGutendexURL), e.store.History(), rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())), e.log)
}

func (e *env) practiceDeps() practice.Deps {
	return practice.Deps{
		Topics:   e.store.Topics(),
		Prompts:  e.store.Prompts(),
		Attempts: e.store.Attempts(),
		Resolver: e.resolver(),
		Hinter:   practice.NewHinter(e.cfg.DataDir, e.cfg.Subject),
		Log:      e.log,
	}
}

func (e *env) practice(ctx context.Context) (*practice.Service, error) {
	p, err := e.llm(ctx)
	if err != nil {
		return nil, err
	}
	deps := e.practiceDeps()
	deps.Generator = grammar.New(p, grammar.DefaultConfig(), e.log)
	return practice.NewService(deps, e.cfg.Subject, e.cfg.GradeLevel), nil
}

// hints is a practice service for term lookups only. It works without an
// LLM provider; Start must not be called on it.
func (e *env) hints() *practice.Service {
	return practice.NewService(e.practiceDeps(), e.cfg.Subject, e.cfg.GradeLevel)
}

func (e *env) learning(ctx context.Context) (*learning.Service, error) {
	p, err := e.llm(ctx)
	if err != nil {
		return nil, err
	}
	return learning.NewService(tutor.New(p, e.log), e.store.History(), e.log), nil
}

// ingestor builds a newsletter ingestor. OCR is attached only when asked
// for, since the Vision client needs credentials; the returned closer
// releases it.
func (e *env) ingestor(ctx context.Context, withOCR bool) (*newsletter.Ingestor, func(), error) {
	var (
		ocr     newsletter.OCR
		release = func() {}
	)
	if withOCR {
		v, err := newsletter.NewVisionOCR(ctx, e.log)
		if err != nil {
			return nil, nil, err
		}
		ocr = v
		release = func() { v.Close() }
	}
	return newsletter.NewIngestor(e.syncer(), e.store.Concepts(), ocr, e.log), release, nil
}

// withEnv opens the env for cmd and closes it after fn returns.
func withEnv(cmd *cobra.Command, fn func(ctx context.Context, e *env) error) error {
	e, err := openEnv(cmd)
	if err != nil {
		return err
	}
	defer e.Close()
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return fn(ctx, e)
}
