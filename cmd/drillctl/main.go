package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"github.com/goliatone/go-dashboard-item/components/dashboard"
	"github.com/goliatone/go-dashboard-item/components/dashboard/commands"
	"github.com/goliatone/go-dashboard-item/pkg/dataclient"
)

type cli struct {
	Config   string `type:"path" env:"DRILLCTL_CONFIG" help:"Optional YAML config file."`
	LogLevel string `name:"log-level" help:"Override the configured log level (debug, info, warn, error)."`

	Validate validateCmd `cmd:"" help:"Validate a board manifest and every widget config in it."`
	Replay   replayCmd   `cmd:"" help:"Replay drill gestures against a board manifest and print the resulting events."`
	Chrome   chromeCmd   `cmd:"" help:"Render the chrome HTML of a board item."`
	Chart    chartCmd    `cmd:"" help:"Render the chart HTML of a board item."`
}

type validateCmd struct {
	Manifest string `required:"" type:"existingfile" help:"Board manifest YAML."`
}

type replayCmd struct {
	Manifest string `required:"" type:"existingfile" help:"Board manifest YAML."`
	Script   string `required:"" type:"existingfile" help:"YAML list of gestures to replay."`
	Rows     string `type:"existingfile" help:"Optional YAML of sample rows keyed by widget id."`
}

type chromeCmd struct {
	Manifest string `required:"" type:"existingfile" help:"Board manifest YAML."`
	Item     int    `required:"" help:"Item id."`
}

type chartCmd struct {
	Manifest string `required:"" type:"existingfile" help:"Board manifest YAML."`
	Item     int    `required:"" help:"Item id."`
	Rows     string `type:"existingfile" help:"YAML of sample rows keyed by widget id; ignored when data.base_url is configured."`
}

func main() {
	root := &cli{}
	ctx := kong.Parse(root,
		kong.Description("Drill gesture replay and rendering utility for dashboard items."),
		kong.UsageOnError(),
	)
	cfg, err := loadConfig(root.Config)
	ctx.FatalIfErrorf(err)
	if root.LogLevel != "" {
		cfg.Log.Level = root.LogLevel
	}
	app := &appContext{cfg: cfg, logger: newLogger(os.Stderr, cfg.Log), out: os.Stdout}
	slog.SetDefault(app.logger)
	ctx.BindTo(context.Background(), (*context.Context)(nil))
	err = ctx.Run(app)
	ctx.FatalIfErrorf(err)
}

type appContext struct {
	cfg    Config
	logger *slog.Logger
	out    io.Writer
}

// session is a board loaded from a manifest.
type session struct {
	registry *dashboard.WidgetRegistry
	board    *dashboard.Board
	manifest *dashboard.BoardManifest
	async    *dataclient.AsyncFetcher
	events   *eventLog
}

func (app *appContext) open(ctx context.Context, manifestPath string, querier dataclient.Querier) (*session, error) {
	doc, err := dashboard.ReadManifest(manifestPath)
	if err != nil {
		return nil, err
	}
	registry, err := dashboard.NewWidgetRegistry()
	if err != nil {
		return nil, err
	}
	s := &session{registry: registry, manifest: doc, events: newEventLog(app.out)}
	fetcher := dashboard.Fetcher(s.events)
	if querier != nil {
		s.async = dataclient.NewAsyncFetcher(querier, nil, dataclient.AsyncOptions{Logger: app.logger})
		fetcher = dashboard.FetcherFunc(func(ctx context.Context, req dashboard.FetchRequest) {
			s.events.FetchChartData(ctx, req)
			s.async.FetchChartData(ctx, req)
		})
	}
	s.board = dashboard.NewBoard(dashboard.BoardOptions{
		Item: dashboard.ItemOptions{
			Fetcher:       fetcher,
			DrillListener: s.events,
			Widgets:       registry,
			Telemetry:     dashboard.SlogTelemetry{Logger: app.logger},
			Logger:        app.logger,
		},
	})
	if s.async != nil {
		s.async.SetSink(s.board)
	}
	if err := doc.Load(ctx, registry, s.board); err != nil {
		s.board.Close()
		return nil, err
	}
	s.settle()
	return s, nil
}

func (s *session) settle() {
	if s.async != nil {
		s.async.Wait()
	}
}

func (s *session) close() {
	s.board.Close()
	s.settle()
}

func (app *appContext) querier(rowsPath string) (dataclient.Querier, error) {
	if app.cfg.Data.BaseURL != "" {
		return dataclient.NewHTTPClient(dataclient.HTTPConfig{
			BaseURL: app.cfg.Data.BaseURL,
			APIKey:  app.cfg.Data.APIKey,
		})
	}
	if rowsPath == "" {
		return nil, nil
	}
	rows, err := readRows(rowsPath)
	if err != nil {
		return nil, err
	}
	return dataclient.NewMockClient(rows), nil
}

func (cmd *validateCmd) Run(ctx context.Context, app *appContext) error {
	doc, err := dashboard.ReadManifest(cmd.Manifest)
	if err != nil {
		return err
	}
	validator := dashboard.NewJSONSchemaValidator(nil)
	for _, w := range doc.Widgets {
		if err := validator.ValidateConfig(w.Config); err != nil {
			return fmt.Errorf("drillctl: widget %d: %w", w.ID, err)
		}
		if _, err := dashboard.ParseWidgetConfig(w.Config); err != nil {
			return fmt.Errorf("drillctl: widget %d: %w", w.ID, err)
		}
	}
	registry, err := dashboard.NewWidgetRegistry()
	if err != nil {
		return err
	}
	if err := doc.Register(registry); err != nil {
		return err
	}
	if _, err := doc.Props(registry); err != nil {
		return err
	}
	fmt.Fprintf(app.out, "✓ %s: %d widgets, %d items\n", cmd.Manifest, len(doc.Widgets), len(doc.Items))
	return nil
}

func (cmd *replayCmd) Run(ctx context.Context, app *appContext) error {
	steps, err := readScript(cmd.Script)
	if err != nil {
		return err
	}
	querier, err := app.querier(cmd.Rows)
	if err != nil {
		return err
	}
	s, err := app.open(ctx, cmd.Manifest, querier)
	if err != nil {
		return err
	}
	defer s.close()
	return s.replay(ctx, steps, app.logger)
}

func (s *session) replay(ctx context.Context, steps []gesture, logger *slog.Logger) error {
	set := commands.NewSet(s.board, nil)
	for idx, step := range steps {
		logger.Debug("replay gesture", slog.Int("step", idx), slog.String("gesture", step.Gesture), slog.Int("item_id", step.Item))
		if err := step.apply(ctx, set); err != nil {
			return fmt.Errorf("drillctl: step %d (%s): %w", idx, step.Gesture, err)
		}
		s.settle()
		for itemID, history := range s.events.pending() {
			if err := s.board.Patch(ctx, itemID, func(p *dashboard.Props) {
				p.DrillHistory = history
			}); err != nil {
				return fmt.Errorf("drillctl: step %d: record history: %w", idx, err)
			}
		}
	}
	return nil
}

func (cmd *chromeCmd) Run(ctx context.Context, app *appContext) error {
	s, err := app.open(ctx, cmd.Manifest, nil)
	if err != nil {
		return err
	}
	defer s.close()
	view, err := s.board.View(ctx, cmd.Item)
	if err != nil {
		return err
	}
	renderer, err := dashboard.NewTemplateRenderer()
	if err != nil {
		return fmt.Errorf("drillctl: template renderer: %w", err)
	}
	_, err = dashboard.RenderChrome(renderer, view.Chrome, app.out)
	return err
}

func (cmd *chartCmd) Run(ctx context.Context, app *appContext) error {
	querier, err := app.querier(cmd.Rows)
	if err != nil {
		return err
	}
	if querier == nil {
		return fmt.Errorf("drillctl: chart needs --rows or data.base_url")
	}
	out := app.out
	app.out = io.Discard
	s, err := app.open(ctx, cmd.Manifest, querier)
	if err != nil {
		return err
	}
	defer s.close()
	renderer := dashboard.NewEChartsRenderer(
		dashboard.WithChartTheme(app.cfg.Chart.Theme),
		dashboard.WithChartAssetsHost(app.cfg.Chart.AssetsHost),
	)
	html, err := s.board.RenderChart(cmd.Item, renderer)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, html)
	return err
}
