// internal/core/usecases/dispatcher.go
package usecases

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"kirwada/internal/core/domain"
	"kirwada/internal/core/ports"
	"kirwada/internal/platform/errors"
	"kirwada/internal/platform/logx"
	"kirwada/internal/platform/validator"
)

const (
	defaultMaxConcurrency = 4
	defaultPerUnitTimeout = 30 * time.Second
)

// Dispatcher coordina la ejecución de múltiples units de forma concurrente
// bajo un pool acotado, con timeout independiente por unit. No mantiene
// estado entre despachos: cada Dispatch es autocontenido.
type Dispatcher struct {
	logger logx.Logger
}

// Request describe un despacho completo.
type Request struct {
	// Query consulta literal, no vacía
	Query string

	// Kind categoría de la consulta
	Kind domain.SearchKind

	// Units conjunto de units en orden de registro; puede estar vacío
	Units []ports.Unit

	// MaxConcurrency units simultáneamente en vuelo (>= 1, se ajusta a len(Units))
	MaxConcurrency int

	// PerUnitTimeout presupuesto de tiempo independiente por unit
	PerUnitTimeout time.Duration
}

// NewDispatcher crea una nueva instancia del dispatcher.
func NewDispatcher(logger logx.Logger) *Dispatcher {
	if logger == nil {
		logger = logx.New()
	}
	return &Dispatcher{
		logger: logger.With("component", "dispatcher"),
	}
}

// Dispatch ejecuta todas las units contra la query y retorna la sesión con
// un outcome por unit, en orden de registro.
//
// Garantía de aislamiento de fallos: el fallo, timeout o panic de una unit
// nunca aborta la sesión; solo una query/kind inválido (pre-despacho) es un
// error duro. Una vez comenzado el despacho la sesión siempre se retorna
// completa, incluso bajo cancelación del caller.
func (d *Dispatcher) Dispatch(ctx context.Context, req Request) (*domain.SearchSession, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	maxConcurrency := req.MaxConcurrency
	if maxConcurrency <= 0 {
		maxConcurrency = defaultMaxConcurrency
	}
	if maxConcurrency > len(req.Units) && len(req.Units) > 0 {
		maxConcurrency = len(req.Units)
	}
	timeout := req.PerUnitTimeout
	if timeout <= 0 {
		timeout = defaultPerUnitTimeout
	}

	session := domain.NewSearchSession(req.Query, req.Kind)

	d.logger.Info("starting dispatch",
		"query", req.Query,
		"kind", req.Kind,
		"units", len(req.Units),
		"workers", maxConcurrency,
		"unit_timeout_ms", timeout.Milliseconds(),
	)

	// Outcomes direccionados por índice: la colocación es determinista
	// (orden de registro) aunque la finalización no lo sea.
	outcomes := make([]domain.ExecutionOutcome, len(req.Units))
	sem := make(chan struct{}, maxConcurrency)
	var wg sync.WaitGroup

	for i, unit := range req.Units {
		// Units que no declaran el kind se registran como Skipped sin
		// consumir slot de concurrencia.
		if !unit.SupportsKind(req.Kind) {
			outcomes[i] = domain.SkippedOutcome(unit.Name(), req.Kind, req.Query, time.Now())
			d.logger.Debug("unit skipped", "unit", unit.Name(), "kind", req.Kind)
			continue
		}

		wg.Add(1)
		go func(idx int, u ports.Unit) {
			defer wg.Done()

			// Adquirir slot, o registrar cancelación si el caller aborta
			// antes de que la unit llegue a ejecutar.
			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				now := time.Now()
				outcomes[idx] = domain.CancelledOutcome(u.Name(), req.Kind, req.Query, now, now)
				return
			}

			outcomes[idx] = d.executeUnit(ctx, u, req.Query, req.Kind, timeout)
		}(i, unit)
	}

	wg.Wait()

	session.Outcomes = outcomes
	session.Finalize()

	d.logger.Info("dispatch completed",
		"query", req.Query,
		"succeeded", session.Summary.SucceededCount,
		"failed", session.Summary.FailedCount,
		"timedout", session.Summary.TimedOutCount,
		"skipped", session.Summary.SkippedCount,
		"cancelled", session.Summary.CancelledCount,
		"duration_ms", session.Duration().Milliseconds(),
	)

	return session, nil
}

// DispatchSingle ejecuta una única unit por nombre. Unit desconocida o kind
// no soportado producen outcomes (Failed/Skipped), no errores: el caller
// siempre recibe una sesión con exactamente un outcome salvo input inválido.
func (d *Dispatcher) DispatchSingle(ctx context.Context, req Request, unitName string) (*domain.SearchSession, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	for _, u := range req.Units {
		if u.Name() == unitName {
			req.Units = []ports.Unit{u}
			return d.Dispatch(ctx, req)
		}
	}

	session := domain.NewSearchSession(req.Query, req.Kind)
	now := time.Now()
	session.Outcomes = []domain.ExecutionOutcome{
		domain.FailedOutcome(unitName, req.Kind, req.Query,
			fmt.Sprintf("%s: %q", errors.ErrUnitNotFound.Error(), unitName), now, now),
	}
	session.Finalize()
	return session, nil
}

// executeUnit ejecuta una unit individual bajo su timeout y convierte
// cualquier fallo en un outcome sintetizado.
func (d *Dispatcher) executeUnit(
	ctx context.Context,
	unit ports.Unit,
	query string,
	kind domain.SearchKind,
	timeout time.Duration,
) domain.ExecutionOutcome {
	unitName := unit.Name()
	started := time.Now()

	d.logger.Debug("executing unit", "unit", unitName)

	// Contexto propio de la unit: units cooperativas pueden abortar solas.
	// Si no cooperan, la ejecución queda abandonada tras el timeout y su
	// resultado eventual se descarta.
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type unitReturn struct {
		record *domain.ResultRecord
		err    error
	}
	done := make(chan unitReturn, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- unitReturn{err: fmt.Errorf("unit panicked: %v", r)}
			}
		}()
		record, err := unit.Run(runCtx, query, kind)
		done <- unitReturn{record: record, err: err}
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case ret := <-done:
		finished := time.Now()
		if ret.err != nil {
			d.logger.Warn("unit failed", "unit", unitName, "error", ret.err.Error())
			return domain.FailedOutcome(unitName, kind, query, ret.err.Error(), started, finished)
		}
		if ret.record == nil {
			return domain.FailedOutcome(unitName, kind, query, "unit returned no record", started, finished)
		}
		record := normalizeRecord(ret.record, unitName, kind, query, started, finished)
		d.logger.Debug("unit completed",
			"unit", unitName,
			"succeeded", record.Succeeded,
			"duration_ms", record.DurationMs,
		)
		return domain.CompletedOutcome(record)

	case <-timer.C:
		d.logger.Warn("unit timed out", "unit", unitName, "timeout_ms", timeout.Milliseconds())
		return domain.TimedOutOutcome(unitName, kind, query, timeout, started)

	case <-ctx.Done():
		d.logger.Debug("unit abandoned by cancellation", "unit", unitName)
		return domain.CancelledOutcome(unitName, kind, query, started, time.Now())
	}
}

// normalizeRecord rellena los campos de identidad y timing que la unit
// pueda haber dejado en cero, sin tocar payload ni error.
func normalizeRecord(r *domain.ResultRecord, unitName string, kind domain.SearchKind, query string, started, finished time.Time) *domain.ResultRecord {
	out := *r
	if out.UnitName == "" {
		out.UnitName = unitName
	}
	if out.Kind == "" {
		out.Kind = kind
	}
	if out.Query == "" {
		out.Query = query
	}
	if out.StartedAt.IsZero() {
		out.StartedAt = started
	}
	if out.FinishedAt.IsZero() {
		out.FinishedAt = finished
	}
	if out.DurationMs == 0 {
		out.DurationMs = out.FinishedAt.Sub(out.StartedAt).Milliseconds()
	}
	return &out
}

// validateRequest aplica el rechazo pre-despacho: query no vacía, kind
// válido y formato de query coherente con el kind.
func validateRequest(req Request) error {
	query := strings.TrimSpace(req.Query)
	if query == "" {
		return errors.Wrap(errors.ErrInvalidInput, domain.ErrEmptyQuery.Error())
	}
	if !req.Kind.IsValid() {
		return errors.Wrapf(errors.ErrInvalidInput, "%s: %q", domain.ErrInvalidKind.Error(), req.Kind)
	}
	if !validator.MatchesKind(query, req.Kind) {
		return errors.Wrapf(errors.ErrInvalidInput, "%s: %q is not a valid %s",
			domain.ErrQueryKindFormat.Error(), query, req.Kind)
	}
	return nil
}
