package main

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/hrdocs-cli/internal/extract"
	"github.com/sells-group/hrdocs-cli/internal/model"
	"github.com/sells-group/hrdocs-cli/internal/pipeline"
	"github.com/sells-group/hrdocs-cli/internal/schema"
	"github.com/sells-group/hrdocs-cli/internal/store"
	"github.com/sells-group/hrdocs-cli/internal/validate"
	"github.com/sells-group/hrdocs-cli/pkg/notify"
	"github.com/sells-group/hrdocs-cli/pkg/render"
	"github.com/sells-group/hrdocs-cli/pkg/storage"
)

// pipelineEnv holds the initialized clients, the orchestrator, and its
// collaborators needed by the sweep/process/serve commands.
type pipelineEnv struct {
	Store        store.Store
	Storage      storage.Client
	Engine       render.Engine
	Orchestrator *pipeline.Orchestrator
	Policy       pipeline.Policy
	Notifier     notify.Notifier
}

// Close releases resources held by the environment. The render engine is
// closed here so one engine instance spans exactly one sweep.
func (pe *pipelineEnv) Close() {
	if pe.Engine != nil {
		_ = pe.Engine.Close()
	}
	if pe.Store != nil {
		_ = pe.Store.Close()
	}
}

// initPipeline sets up the store, storage client, render engine, and
// orchestrator. Callers should defer env.Close().
func initPipeline(ctx context.Context) (*pipelineEnv, error) {
	st, err := initStore(ctx)
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		_ = st.Close()
		return nil, eris.Wrap(err, "migrate store")
	}

	storageClient, err := initStorage()
	if err != nil {
		_ = st.Close()
		return nil, err
	}

	dict, err := loadDictionary()
	if err != nil {
		_ = st.Close()
		return nil, err
	}

	engine := render.NewEngine(cfg.Render.BaseURL)

	extractor := extract.New(dict, extract.Options{
		HeaderRow:     cfg.Sweep.HeaderRow,
		SkipEmptyRows: cfg.Sweep.SkipEmptyRows,
	})
	validator := validate.New(validate.RulesFor(model.DocumentFamily(cfg.Sweep.DocumentFamily)))

	generators := []pipeline.Generator{
		pipeline.ContractGenerator{Engine: engine},
		pipeline.SCTRReportGenerator{Engine: engine},
		pipeline.DataExportGenerator{},
	}

	policy := pipeline.DefaultPolicy{MaxRetries: cfg.Sweep.MaxRetries}

	orch := pipeline.New(
		storageClient,
		pipeline.SpreadsheetValidator{MaxSize: int64(cfg.Sweep.MaxFileSizeMB) << 20},
		extractor,
		validator,
		generators,
		policy,
	)

	return &pipelineEnv{
		Store:        st,
		Storage:      storageClient,
		Engine:       engine,
		Orchestrator: orch,
		Policy:       policy,
		Notifier:     notify.NewWebhook(cfg.Notify.WebhookURL),
	}, nil
}

// initStore opens the configured run-history backend.
func initStore(ctx context.Context) (store.Store, error) {
	switch cfg.Store.Driver {
	case "postgres":
		return store.NewPostgres(ctx, cfg.Store.DatabaseURL)
	case "sqlite", "":
		return store.NewSQLite(cfg.Store.DatabaseURL)
	default:
		return nil, eris.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}

// initStorage builds the configured remote storage client.
func initStorage() (storage.Client, error) {
	switch cfg.Storage.Backend {
	case "ftp":
		return storage.NewFTP(storage.FTPConfig{
			Host:     cfg.Storage.FTP.Host,
			User:     cfg.Storage.FTP.User,
			Password: cfg.Storage.FTP.Password,
			Timeout:  time.Duration(cfg.Storage.FTP.TimeoutSecs) * time.Second,
		}), nil
	case "graph", "":
		opts := []storage.GraphOption{storage.WithGraphRateLimit(cfg.Storage.Graph.RateLimit)}
		if cfg.Storage.Graph.BaseURL != "" {
			opts = append(opts, storage.WithGraphBaseURL(cfg.Storage.Graph.BaseURL))
		}
		return storage.NewGraph(cfg.Storage.Graph.Token, cfg.Storage.Graph.DriveID, opts...), nil
	default:
		return nil, eris.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}

// loadDictionary returns the alias dictionary for the configured family,
// preferring a YAML override file when one is configured.
func loadDictionary() (schema.Dictionary, error) {
	if cfg.Sweep.DictionaryPath != "" {
		dict, err := schema.LoadDictionaryFile(cfg.Sweep.DictionaryPath)
		if err != nil {
			return schema.Dictionary{}, err
		}
		zap.L().Info("loaded dictionary override",
			zap.String("path", cfg.Sweep.DictionaryPath),
			zap.String("family", dict.Family),
		)
		return dict, nil
	}
	return schema.DictionaryFor(cfg.Sweep.DocumentFamily)
}
