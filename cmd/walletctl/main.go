package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/ettle/strcase"
	"github.com/gofiber/fiber/v2"
	router "github.com/goliatone/go-router"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/rs/zerolog"

	core "github.com/goliatone/go-wallet/components/wallet"
	"github.com/goliatone/go-wallet/components/wallet/gorouter"
	"github.com/goliatone/go-wallet/components/wallet/httpapi"
	"github.com/goliatone/go-wallet/pkg/analytics"
	"github.com/goliatone/go-wallet/pkg/config"
	walletpkg "github.com/goliatone/go-wallet/pkg/wallet"
)

type cli struct {
	Config   string `short:"c" type:"path" help:"Path to a YAML or TOML config file."`
	Fixtures string `type:"path" help:"JSON analytics fixtures replacing the built-in datasets."`

	Snapshot snapshotCmd `cmd:"" help:"Print the analytics snapshot of a period."`
	Render   renderCmd   `cmd:"" help:"Render the analytics charts to PNG or HTML files."`
	QR       qrCmd       `cmd:"" name:"qr" help:"Generate a receive-payment QR code."`
	Theme    themeCmd    `cmd:"" help:"Show, toggle or set the persisted theme."`
	Serve    serveCmd    `cmd:"" help:"Serve the wallet page and JSON API over HTTP."`
}

// runtime is bound into every command's Run method.
type runtime struct {
	ctx      context.Context
	cfg      config.Config
	logger   zerolog.Logger
	fixtures string
	out      io.Writer
}

func main() {
	var args cli
	kctx := kong.Parse(&args,
		kong.Name("walletctl"),
		kong.Description("Command line companion for go-wallet: analytics, charts, QR codes and the HTTP shell."),
		kong.UsageOnError(),
	)
	cfg, err := config.Load(args.Config)
	kctx.FatalIfErrorf(err)

	rt := &runtime{
		ctx:      context.Background(),
		cfg:      cfg,
		logger:   config.NewLogger(cfg.Log, os.Stderr),
		fixtures: args.Fixtures,
		out:      os.Stdout,
	}
	kctx.FatalIfErrorf(kctx.Run(rt))
}

// options builds service options from the config and optional fixtures.
func (rt *runtime) options() (core.Options, io.Closer, error) {
	opts, closer, err := walletpkg.OptionsFromConfig(rt.cfg, rt.logger)
	if err != nil {
		return core.Options{}, nil, err
	}
	if rt.fixtures != "" {
		data, err := analytics.LoadMockFile(rt.fixtures)
		if err != nil {
			closer.Close()
			return core.Options{}, nil, err
		}
		client := analytics.NewMockClient(data)
		opts.Analytics = analytics.NewSnapshotProvider(client)
		if len(data.Activity) > 0 {
			opts.Activity = analytics.NewActivitySource(client)
		}
	}
	return opts, closer, nil
}

type snapshotCmd struct {
	Period string `default:"month" enum:"week,month,year,weekly,monthly,yearly" help:"Analytics period."`
}

func (cmd *snapshotCmd) Run(rt *runtime) error {
	opts, closer, err := rt.options()
	if err != nil {
		return err
	}
	defer closer.Close()
	opts.InitialPeriod = core.Period(cmd.Period)
	opts.Surfaces = core.NewRecorderRegistry()

	svc, err := core.NewService(rt.ctx, opts)
	if err != nil {
		return err
	}
	return writeSnapshotTable(rt.out, svc.Formatter(), svc.Snapshot(), svc.Legend())
}

func writeSnapshotTable(w io.Writer, f *core.Formatter, snapshot core.Snapshot, legend []core.LegendRow) error {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleRounded)
	tw.SetTitle("Analitik %s", snapshot.Period.Label())
	tw.AppendHeader(table.Row{"Kategori", "Jumlah", "Persen"})
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
		{Number: 3, Align: text.AlignRight},
	})
	for _, row := range legend {
		tw.AppendRow(table.Row{row.Icon + " " + row.Label, row.Amount, row.Percent})
	}
	tw.AppendFooter(table.Row{"Pemasukan", f.FormatCurrency(snapshot.Income), ""})
	tw.AppendFooter(table.Row{"Pengeluaran", f.FormatCurrency(snapshot.Expense), ""})
	tw.AppendFooter(table.Row{"Bersih", f.FormatCurrency(snapshot.Net), f.FormatPercent(snapshot.Savings.Percentage)})
	tw.Render()
	_, err := fmt.Fprintln(w)
	return err
}

type renderCmd struct {
	Out    string `type:"path" default:"charts" help:"Output directory."`
	Period string `default:"month" enum:"week,month,year,weekly,monthly,yearly" help:"Analytics period."`
	Theme  string `help:"Theme override (dark or light); the persisted theme is left untouched."`
	Format string `default:"png" enum:"png,html" help:"Output format."`
}

func (cmd *renderCmd) Run(rt *runtime) error {
	opts, closer, err := rt.options()
	if err != nil {
		return err
	}
	defer closer.Close()

	theme, err := resolveTheme(rt.ctx, opts.ThemeStore, cmd.Theme)
	if err != nil {
		return err
	}
	store := core.NewInMemoryKeyValueStore()
	if err := store.Set(rt.ctx, core.ThemeStorageKey, string(theme)); err != nil {
		return err
	}
	opts.ThemeStore = store
	opts.InitialPeriod = core.Period(cmd.Period)
	opts.Surfaces = core.NewRasterRegistry()

	svc, err := core.NewService(rt.ctx, opts)
	if err != nil {
		return err
	}
	paths, err := renderCharts(rt.ctx, svc, cmd.Out, cmd.Format)
	if err != nil {
		return err
	}
	for _, path := range paths {
		fmt.Fprintf(rt.out, "✓ %s\n", path)
	}
	return nil
}

func resolveTheme(ctx context.Context, store core.KeyValueStore, override string) (core.Theme, error) {
	if override != "" {
		theme := core.Theme(override)
		if !theme.Valid() {
			return "", fmt.Errorf("%w: %q", core.ErrInvalidTheme, override)
		}
		return theme, nil
	}
	if store != nil {
		if stored, ok, err := store.Get(ctx, core.ThemeStorageKey); err == nil && ok && core.Theme(stored).Valid() {
			return core.Theme(stored), nil
		}
	}
	return core.ThemeDark, nil
}

// chartFileName maps a surface id such as "spending-chart" to spending_chart.png.
func chartFileName(id, format string) string {
	return strcase.ToSnake(id) + "." + format
}

func renderCharts(ctx context.Context, svc *core.Service, dir, format string) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("walletctl: mkdir %s: %w", dir, err)
	}
	var paths []string
	for _, id := range []string{core.SurfaceSpending, core.SurfaceTrend, core.SurfaceActivity} {
		path := filepath.Join(dir, chartFileName(id, format))
		file, err := os.Create(path)
		if err != nil {
			return paths, fmt.Errorf("walletctl: create %s: %w", path, err)
		}
		switch format {
		case "html":
			var html string
			html, err = svc.ChartHTML(ctx, id)
			if err == nil {
				_, err = io.WriteString(file, html)
			}
		default:
			err = svc.ChartPNG(ctx, id, file)
		}
		if closeErr := file.Close(); err == nil {
			err = closeErr
		}
		if err != nil {
			return paths, fmt.Errorf("walletctl: render %s: %w", id, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

type qrCmd struct {
	Out string `type:"path" default:"qr.png" help:"Output PNG path."`
}

func (cmd *qrCmd) Run(rt *runtime) error {
	opts, closer, err := rt.options()
	if err != nil {
		return err
	}
	defer closer.Close()
	opts.Surfaces = core.NewRasterRegistry()

	svc, err := core.NewService(rt.ctx, opts)
	if err != nil {
		return err
	}
	code, ok := svc.GenerateQR(rt.ctx)
	if !ok {
		return errors.New("walletctl: qr surface not attached")
	}
	file, err := os.Create(cmd.Out)
	if err != nil {
		return fmt.Errorf("walletctl: create %s: %w", cmd.Out, err)
	}
	if err := svc.ShareQR(rt.ctx, file); err != nil {
		file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return err
	}
	fmt.Fprintf(rt.out, "%s\n%s (%s)\n✓ %s\n", code.Payload, svc.Formatter().FormatCurrency(code.Amount), code.Description, cmd.Out)
	return nil
}

type themeCmd struct {
	Action string `arg:"" optional:"" default:"show" enum:"show,toggle,set" help:"show, toggle or set."`
	Value  string `arg:"" optional:"" help:"Theme for set (dark or light)."`
}

func (cmd *themeCmd) Run(rt *runtime) error {
	opts, closer, err := rt.options()
	if err != nil {
		return err
	}
	defer closer.Close()

	themes := core.NewThemeManager(rt.ctx, core.ThemeOptions{Store: opts.ThemeStore, Telemetry: opts.Telemetry})
	switch cmd.Action {
	case "toggle":
		if _, err := themes.Toggle(rt.ctx); err != nil {
			return err
		}
	case "set":
		if err := themes.Set(rt.ctx, core.Theme(cmd.Value)); err != nil {
			return err
		}
	}
	fmt.Fprintln(rt.out, themes.Current())
	return nil
}

type serveCmd struct {
	Addr       string `help:"Listen address; overrides server.addr."`
	Router     string `default:"fiber" enum:"fiber,gorouter" help:"HTTP stack: the full Fiber API or the go-router adapter."`
	EventsAddr string `help:"Optional net/http listen address streaming bus events at /events (SSE) and /ws."`
}

// server is the part of both HTTP stacks the serve command drives.
type server interface {
	Serve(addr string) error
	Shutdown(ctx context.Context) error
}

type fiberServer struct{ app *fiber.App }

func (s fiberServer) Serve(addr string) error { return s.app.Listen(addr) }

func (s fiberServer) Shutdown(ctx context.Context) error { return s.app.ShutdownWithContext(ctx) }

func (cmd *serveCmd) Run(rt *runtime) error {
	opts, closer, err := rt.options()
	if err != nil {
		return err
	}
	defer closer.Close()

	svc, err := core.NewService(rt.ctx, opts)
	if err != nil {
		return err
	}
	srv, err := cmd.server(rt, svc)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(rt.ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		if err := svc.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			rt.logger.Error().Err(err).Msg("balance refresh stopped")
		}
	}()

	var events *http.Server
	if cmd.EventsAddr != "" && svc.Bus() != nil {
		events = &http.Server{Addr: cmd.EventsAddr, Handler: eventsMux(svc.Bus())}
		go func() {
			if err := events.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				rt.logger.Error().Err(err).Msg("event stream stopped")
			}
		}()
	}

	go func() {
		<-ctx.Done()
		shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if events != nil {
			events.Shutdown(shutdown)
		}
		if err := srv.Shutdown(shutdown); err != nil {
			rt.logger.Error().Err(err).Msg("shutdown")
		}
	}()

	addr := cmd.Addr
	if addr == "" {
		addr = rt.cfg.Server.Addr
	}
	rt.logger.Info().Str("addr", addr).Str("router", cmd.Router).Msg("wallet listening")
	return srv.Serve(addr)
}

func (cmd *serveCmd) server(rt *runtime, svc *core.Service) (server, error) {
	renderer, err := core.NewTemplateRenderer()
	if err != nil {
		return nil, fmt.Errorf("walletctl: templates: %w", err)
	}
	controller := core.NewController(core.ControllerOptions{Service: svc, Renderer: renderer})
	handlers := httpapi.NewHandlers(svc, core.NewLogTelemetry(rt.logger))

	if cmd.Router == "gorouter" {
		adapter := router.NewFiberAdapter()
		err := gorouter.Register(gorouter.Config[*fiber.App]{
			Router:     adapter.Router(),
			Controller: controller,
			Handlers:   handlers,
			Bus:        svc.Bus(),
			BasePath:   rt.cfg.Server.BasePath,
		})
		return adapter, err
	}

	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	err = httpapi.Register(httpapi.Config{
		Router:      app,
		Service:     svc,
		Controller:  controller,
		Handlers:    handlers,
		Logger:      &rt.logger,
		BasePath:    rt.cfg.Server.BasePath,
		ScanTimeout: rt.cfg.Server.ScanTimeout,
	})
	return fiberServer{app: app}, err
}

// eventsMux exposes the bus to plain net/http clients.
func eventsMux(bus *core.EventBus) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/events", bus.ServeSSE)
	mux.HandleFunc("/ws", bus.ServeWebSocket)
	return mux
}
