package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/dd0wney/cluso-mepflow/pkg/classify"
	"github.com/dd0wney/cluso-mepflow/pkg/config"
	"github.com/dd0wney/cluso-mepflow/pkg/connectivity"
	"github.com/dd0wney/cluso-mepflow/pkg/export"
	"github.com/dd0wney/cluso-mepflow/pkg/geo"
	"github.com/dd0wney/cluso-mepflow/pkg/graph"
	"github.com/dd0wney/cluso-mepflow/pkg/logging"
	"github.com/dd0wney/cluso-mepflow/pkg/metrics"
	"github.com/dd0wney/cluso-mepflow/pkg/model"
	"github.com/dd0wney/cluso-mepflow/pkg/snapshot"
)

// ErrCancelled is returned when the user backs out of a command
var ErrCancelled = errors.New("cancelled")

type globalOptions struct {
	configPath   string
	snapshotPath string
	metricsFile  string
	logLevel     string
	logFormat    string
}

// app is the per-invocation wiring shared by all commands
type app struct {
	cfg     *config.Config
	logger  logging.Logger
	metrics *metrics.Registry
	loader  *snapshot.Loader
	out     io.Writer
	in      io.Reader

	snapshotPath string
}

func newApp(cmd *cobra.Command, opts *globalOptions) (*app, error) {
	if opts.snapshotPath == "" {
		return nil, errors.New("--snapshot is required")
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	// Flags override the file
	if opts.logLevel != "" {
		cfg.Log.Level = opts.logLevel
	}
	if opts.logFormat != "" {
		cfg.Log.Format = opts.logFormat
	}
	if opts.metricsFile != "" {
		cfg.Metrics.TextfilePath = opts.metricsFile
	}

	logger := logging.NewLogger(cmd.ErrOrStderr(), cfg.LogLevel(), cfg.LogFormat())
	reg := metrics.NewRegistry()

	return &app{
		cfg:          cfg,
		logger:       logger.With(logging.String("command", cmd.Name())),
		metrics:      reg,
		loader:       snapshot.NewLoader(logger, reg),
		out:          cmd.OutOrStdout(),
		in:           cmd.InOrStdin(),
		snapshotPath: opts.snapshotPath,
	}, nil
}

func (a *app) loadSnapshot() (*model.Document, error) {
	doc, err := a.loader.Load(a.snapshotPath)
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	return doc, nil
}

// buildResolver builds the connector graph and a resolver over it
func (a *app) buildResolver(doc *model.Document) (*connectivity.Resolver, error) {
	g, err := graph.Build(doc)
	if err != nil {
		return nil, err
	}

	stats := g.Statistics()
	a.metrics.UpdateGraphMetrics(stats.Elements, stats.Connectors, stats.Links, stats.Faulted)
	a.logger.Info("connector graph built",
		logging.Int("elements", stats.Elements),
		logging.Int("connectors", stats.Connectors),
		logging.Int("links", stats.Links),
		logging.Int("faulted", stats.Faulted))

	classifier := classify.NewClassifier(a.cfg.ClassifierRules()...)
	return connectivity.NewResolver(g, classifier).WithMetrics(a.metrics), nil
}

// projection uses the configured unit when set, else the snapshot's
func (a *app) projection(doc *model.Document) (geo.Projection, error) {
	name := a.cfg.Geo.LengthUnit
	if name == "" {
		name = doc.LengthUnit
	}
	unit, err := geo.ParseUnit(name)
	if err != nil {
		return geo.Projection{}, err
	}
	return geo.NewProjection(doc, unit, a.cfg.Geo.EarthRadius), nil
}

func (a *app) exporter(doc *model.Document) (*export.Exporter, error) {
	resolver, err := a.buildResolver(doc)
	if err != nil {
		return nil, err
	}
	projection, err := a.projection(doc)
	if err != nil {
		return nil, err
	}
	return export.NewExporter(resolver, projection, a.logger, a.metrics), nil
}

// upload copies a finished export to S3 when enabled by flag or config
func (a *app) upload(ctx context.Context, path string, enabled bool) (string, error) {
	if !enabled && !a.cfg.Upload.Enabled {
		return "", nil
	}
	if a.cfg.Upload.Bucket == "" {
		return "", fmt.Errorf("%w: upload.bucket is not set", export.ErrUploadFailed)
	}

	u := a.cfg.Upload
	uploader, err := export.NewS3Uploader(ctx, export.UploadOptions{
		Bucket:          u.Bucket,
		Prefix:          u.Prefix,
		Region:          u.Region,
		Endpoint:        u.Endpoint,
		UsePathStyle:    u.UsePathStyle,
		AccessKeyID:     u.AccessKeyID,
		SecretAccessKey: u.SecretAccessKey,
	}, a.logger, a.metrics)
	if err != nil {
		return "", err
	}
	return uploader.Upload(ctx, path)
}

// close writes the metrics textfile when one is configured
func (a *app) close() {
	path := a.cfg.Metrics.TextfilePath
	if path == "" {
		return
	}
	if err := a.metrics.WriteTextfile(path); err != nil {
		a.logger.Warn("failed to write metrics textfile", logging.Path(path), logging.Error(err))
	}
}
