// internal/core/usecases/mocks_test.go
package usecases

import (
	"context"
	"time"

	"kirwada/internal/core/domain"
)

// mockUnit es una unit configurable para tests del dispatcher.
type mockUnit struct {
	name    string
	kinds   []domain.SearchKind
	delay   time.Duration
	payload domain.Value
	err     error
	panics  bool

	// ignoreCtx simula una unit no cooperativa que no mira el contexto.
	ignoreCtx bool

	closed bool
}

func newMockUnit(name string, kinds ...domain.SearchKind) *mockUnit {
	if len(kinds) == 0 {
		kinds = []domain.SearchKind{domain.KindEmail}
	}
	return &mockUnit{
		name:    name,
		kinds:   kinds,
		payload: domain.MapValue(map[string]domain.Value{"from": domain.StringValue(name)}),
	}
}

func (m *mockUnit) Name() string               { return m.name }
func (m *mockUnit) Type() domain.UnitType      { return domain.UnitTypeBuiltin }
func (m *mockUnit) Kinds() []domain.SearchKind { return m.kinds }

func (m *mockUnit) SupportsKind(kind domain.SearchKind) bool {
	for _, k := range m.kinds {
		if k == kind {
			return true
		}
	}
	return false
}

func (m *mockUnit) Run(ctx context.Context, query string, kind domain.SearchKind) (*domain.ResultRecord, error) {
	started := time.Now()

	if m.panics {
		panic("mock unit exploded")
	}

	if m.delay > 0 {
		if m.ignoreCtx {
			time.Sleep(m.delay)
		} else {
			select {
			case <-time.After(m.delay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}

	if m.err != nil {
		return nil, m.err
	}

	return domain.NewResultRecord(m.name, kind, query, m.payload, started, time.Now()), nil
}

func (m *mockUnit) Close() error {
	m.closed = true
	return nil
}
