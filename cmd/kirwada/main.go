// cmd/kirwada/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"kirwada/internal/adapters/export"
	"kirwada/internal/core/domain"
	"kirwada/internal/core/ports"
	"kirwada/internal/core/usecases"
	"kirwada/internal/platform/config"
	"kirwada/internal/platform/logx"
	"kirwada/internal/platform/registry"
	"kirwada/internal/platform/ui"
	"kirwada/internal/platform/validator"

	// Import units for auto-registration via init()
	_ "kirwada/internal/units/dnslookup"
	_ "kirwada/internal/units/emailcheck"
	_ "kirwada/internal/units/hibp"
	_ "kirwada/internal/units/ipinfo"
	_ "kirwada/internal/units/namehunt"
	_ "kirwada/internal/units/phonenum"
	_ "kirwada/internal/units/webpage"
	_ "kirwada/internal/units/whois"
)

var (
	// Rellenables con -ldflags en build
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: configuration load failed: %v\n", err)
		os.Exit(2)
	}

	if cfg.PrintVersion {
		fmt.Printf("kirwada %s (commit %s, built %s)\n", version, commit, date)
		return
	}

	if cfg.ListUnits {
		ui.NewShell(version).UnitList(registry.Global().GetAllMetadata())
		return
	}

	// En modo interactivo la terminal es de la shell; el logger se silencia.
	var logger logx.Logger
	if cfg.Interactive {
		logger = logx.NewSilent()
	} else {
		logger = logx.New()
	}

	logger.Info("kirwada starting", "version", version)
	logger.Debug("configuration loaded", "config", fmt.Sprint(cfg.Redacted()))

	ctx, cancel := rootContextWithSignals()
	defer cancel()

	// Credenciales: archivo read-only, bootstrap de plantilla si no existe.
	if created, err := config.BootstrapCredentials(cfg.CredentialsFile); err != nil {
		logger.Warn("cannot bootstrap credentials file", "error", err.Error())
	} else if created {
		logger.Info("credentials template created", "path", cfg.CredentialsFile)
	}

	creds, err := config.LoadCredentials(cfg.CredentialsFile)
	if err != nil {
		logger.Err(err, "phase", "credentials")
		os.Exit(2)
	}

	units, err := registry.Global().Build(cfg.Units, creds, logger)
	if err != nil {
		logger.Err(err, "phase", "unit-build")
		os.Exit(2)
	}
	defer func() {
		for _, u := range units {
			if err := u.Close(); err != nil {
				logger.Warn("failed to close unit", "unit", u.Name(), "error", err.Error())
			}
		}
	}()

	shell := ui.NewShell(version)

	query, kind, selected, formats, err := resolvePlan(cfg, shell)
	if err != nil {
		shell.Error(err)
		os.Exit(2)
	}

	applicable := registry.UnitsSupporting(units, kind)
	if len(selected) > 0 {
		applicable = filterByName(applicable, selected)
	}

	dispatcher := usecases.NewDispatcher(logger)
	req := usecases.Request{
		Query:          query,
		Kind:           kind,
		Units:          applicable,
		MaxConcurrency: cfg.Workers,
		PerUnitTimeout: cfg.UnitTimeout(),
	}

	var done func(bool)
	if cfg.Interactive {
		done = shell.Dispatching(query, len(applicable))
	}

	var session *domain.SearchSession
	if cfg.Unit != "" {
		// Unit concreta por flag: desconocida o sin soporte del kind deja
		// un outcome fallido/skipped en la sesión, no un error.
		req.Units = units
		session, err = dispatcher.DispatchSingle(ctx, req, cfg.Unit)
	} else {
		session, err = dispatcher.Dispatch(ctx, req)
	}
	if err != nil {
		if done != nil {
			done(false)
		}
		shell.Error(err)
		os.Exit(2)
	}
	session.Version = version

	if done != nil {
		done(session.Summary.FailedCount == 0 && session.Summary.TimedOutCount == 0)
	}

	view := usecases.NewAggregator(logger).Aggregate(session)

	if !cfg.NoSummary {
		shell.SessionSummary(session)
		shell.AggregateSummary(view)
	}

	artifacts, exportErr := export.ExportAll(parseFormats(formats),
		[]*domain.SearchSession{session}, view,
		ports.ExportOptions{OutputDir: cfg.OutputDir, Pretty: cfg.Pretty}, logger)

	shell.Artifacts(artifacts)

	if exportErr != nil {
		shell.Error(exportErr)
		os.Exit(1)
	}

	logger.Info("kirwada finished",
		"session", session.ID,
		"succeeded", session.Summary.SucceededCount,
		"failed", session.Summary.FailedCount,
		"artifacts", len(artifacts),
	)
}

// resolvePlan decide query, kind, units y formatos: de flags en modo batch,
// preguntando en modo interactivo.
func resolvePlan(cfg config.Config, shell *ui.Shell) (string, domain.SearchKind, []string, []string, error) {
	if !cfg.Interactive {
		kind := domain.SearchKind(cfg.Kind)
		if cfg.Kind == "" {
			inferred, ok := inferKind(cfg.Query)
			if !ok {
				return "", "", nil, nil, fmt.Errorf("cannot infer query kind for %q, use --kind", cfg.Query)
			}
			kind = inferred
		}
		if !kind.IsValid() {
			return "", "", nil, nil, fmt.Errorf("invalid query kind %q", cfg.Kind)
		}
		if !validator.MatchesKind(cfg.Query, kind) {
			return "", "", nil, nil, fmt.Errorf("query %q does not look like a %s", cfg.Query, kind)
		}
		return cfg.Query, kind, nil, cfg.Formats, nil
	}

	shell.Banner()

	kind, err := shell.AskKind()
	if err != nil {
		return "", "", nil, nil, err
	}

	query, err := shell.AskQuery(kind)
	if err != nil {
		return "", "", nil, nil, err
	}
	if !validator.MatchesKind(query, kind) {
		return "", "", nil, nil, fmt.Errorf("query %q does not look like a %s", query, kind)
	}

	selected, err := shell.AskUnits(registry.Global().GetAllMetadata(), kind)
	if err != nil {
		return "", "", nil, nil, err
	}

	formats, err := shell.AskFormats(cfg.Formats)
	if err != nil {
		return "", "", nil, nil, err
	}

	return query, kind, selected, formats, nil
}

// inferKind prueba la query contra cada kind en un orden de especificidad
// fijo: los formatos más restrictivos primero, username al final porque
// casi cualquier token corto encaja.
func inferKind(query string) (domain.SearchKind, bool) {
	order := []domain.SearchKind{
		domain.KindEmail,
		domain.KindURL,
		domain.KindIP,
		domain.KindPhone,
		domain.KindDomain,
		domain.KindUsername,
	}
	for _, k := range order {
		if validator.MatchesKind(query, k) {
			return k, true
		}
	}
	return "", false
}

func filterByName(units []ports.Unit, names []string) []ports.Unit {
	wanted := make(map[string]struct{}, len(names))
	for _, n := range names {
		wanted[n] = struct{}{}
	}
	out := make([]ports.Unit, 0, len(units))
	for _, u := range units {
		if _, ok := wanted[u.Name()]; ok {
			out = append(out, u)
		}
	}
	return out
}

func parseFormats(names []string) []ports.ExportFormat {
	out := make([]ports.ExportFormat, 0, len(names))
	for _, n := range names {
		out = append(out, ports.ExportFormat(n))
	}
	return out
}

// rootContextWithSignals crea el contexto raíz cancelado por SIGINT/SIGTERM.
func rootContextWithSignals() (context.Context, context.CancelFunc) {
	base, baseCancel := context.WithCancel(context.Background())

	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case <-ch:
			baseCancel()
		case <-base.Done():
		}
	}()

	cleanup := func() {
		signal.Stop(ch)
		close(ch)
		baseCancel()
	}
	return base, cleanup
}
