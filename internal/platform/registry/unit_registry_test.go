// internal/platform/registry/unit_registry_test.go
package registry

import (
	"context"
	"fmt"
	"testing"

	"kirwada/internal/core/domain"
	"kirwada/internal/core/ports"
	"kirwada/internal/platform/errors"
	"kirwada/internal/platform/logx"
	"kirwada/internal/testutil"
)

type stubUnit struct {
	name  string
	kinds []domain.SearchKind
}

func (s *stubUnit) Name() string               { return s.name }
func (s *stubUnit) Type() domain.UnitType      { return domain.UnitTypeBuiltin }
func (s *stubUnit) Kinds() []domain.SearchKind { return s.kinds }
func (s *stubUnit) Close() error               { return nil }

func (s *stubUnit) SupportsKind(kind domain.SearchKind) bool {
	for _, k := range s.kinds {
		if k == kind {
			return true
		}
	}
	return false
}

func (s *stubUnit) Run(ctx context.Context, query string, kind domain.SearchKind) (*domain.ResultRecord, error) {
	return nil, nil
}

func stubFactory(name string, kinds ...domain.SearchKind) (UnitFactory, ports.UnitMetadata) {
	factory := func(cfg ports.UnitConfig, creds ports.CredentialStore, logger logx.Logger) (ports.Unit, error) {
		return &stubUnit{name: name, kinds: kinds}, nil
	}
	meta := ports.UnitMetadata{Name: name, Type: domain.UnitTypeBuiltin, Kinds: kinds}
	return factory, meta
}

func newTestRegistry() *UnitRegistry {
	return NewUnitRegistry(testutil.NewTestLogger())
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	r := newTestRegistry()
	f, meta := stubFactory("dup", domain.KindEmail)

	testutil.AssertNoError(t, r.Register("dup", f, meta), "first registration")
	testutil.AssertError(t, r.Register("dup", f, meta), "duplicate rejected")
	testutil.AssertError(t, r.Register("", f, meta), "empty name rejected")
	testutil.AssertError(t, r.Register("nilfactory", nil, meta), "nil factory rejected")
}

func TestBuildPreservesRegistrationOrder(t *testing.T) {
	r := newTestRegistry()
	for _, name := range []string{"zeta", "alpha", "mid"} {
		f, meta := stubFactory(name, domain.KindEmail)
		testutil.AssertNoError(t, r.Register(name, f, meta), "register "+name)
	}

	units, err := r.Build(map[string]ports.UnitConfig{}, nil, testutil.NewTestLogger())
	testutil.AssertNoError(t, err, "build")
	testutil.AssertEqual(t, len(units), 3, "all units built")
	testutil.AssertEqual(t, units[0].Name(), "zeta", "registration order, not lexical")
	testutil.AssertEqual(t, units[1].Name(), "alpha", "registration order")
	testutil.AssertEqual(t, units[2].Name(), "mid", "registration order")
}

func TestBuildSkipsDisabledUnits(t *testing.T) {
	r := newTestRegistry()
	for _, name := range []string{"on", "off"} {
		f, meta := stubFactory(name, domain.KindEmail)
		testutil.AssertNoError(t, r.Register(name, f, meta), "register "+name)
	}

	disabled := ports.DefaultUnitConfig()
	disabled.Enabled = false
	units, err := r.Build(map[string]ports.UnitConfig{"off": disabled}, nil, testutil.NewTestLogger())

	testutil.AssertNoError(t, err, "build")
	testutil.AssertEqual(t, len(units), 1, "disabled unit skipped")
	testutil.AssertEqual(t, units[0].Name(), "on", "enabled unit built")
}

func TestBuildContinuesPastFactoryFailure(t *testing.T) {
	r := newTestRegistry()

	broken := func(cfg ports.UnitConfig, creds ports.CredentialStore, logger logx.Logger) (ports.Unit, error) {
		return nil, fmt.Errorf("no api key")
	}
	testutil.AssertNoError(t, r.Register("broken", broken, ports.UnitMetadata{Name: "broken"}), "register broken")

	f, meta := stubFactory("healthy", domain.KindEmail)
	testutil.AssertNoError(t, r.Register("healthy", f, meta), "register healthy")

	units, err := r.Build(map[string]ports.UnitConfig{}, nil, testutil.NewTestLogger())
	testutil.AssertNoError(t, err, "one failed factory does not abort the build")
	testutil.AssertEqual(t, len(units), 1, "only the healthy unit built")
}

func TestBuildFailsWhenNothingBuilds(t *testing.T) {
	r := newTestRegistry()
	broken := func(cfg ports.UnitConfig, creds ports.CredentialStore, logger logx.Logger) (ports.Unit, error) {
		return nil, fmt.Errorf("boom")
	}
	testutil.AssertNoError(t, r.Register("broken", broken, ports.UnitMetadata{Name: "broken"}), "register")

	_, err := r.Build(map[string]ports.UnitConfig{}, nil, testutil.NewTestLogger())
	testutil.AssertError(t, err, "no units could be built")
	testutil.AssertTrue(t, errors.Is(err, errors.ErrNoUnitsAvailable), "sentinel preserved")
}

func TestMetadataAndListing(t *testing.T) {
	r := newTestRegistry()
	f, meta := stubFactory("hibp", domain.KindEmail)
	testutil.AssertNoError(t, r.Register("hibp", f, meta), "register")

	testutil.AssertTrue(t, r.IsRegistered("hibp"), "registered")
	testutil.AssertFalse(t, r.IsRegistered("ghost"), "unknown name")

	got, ok := r.GetMetadata("hibp")
	testutil.AssertTrue(t, ok, "metadata present")
	testutil.AssertEqual(t, got.Name, "hibp", "metadata name")

	testutil.AssertEqual(t, len(r.List()), 1, "listing")
	testutil.AssertEqual(t, len(r.GetAllMetadata()), 1, "all metadata")

	r.Clear()
	testutil.AssertFalse(t, r.IsRegistered("hibp"), "cleared")
}

func TestUnitsSupporting(t *testing.T) {
	units := []ports.Unit{
		&stubUnit{name: "email-only", kinds: []domain.SearchKind{domain.KindEmail}},
		&stubUnit{name: "multi", kinds: []domain.SearchKind{domain.KindEmail, domain.KindDomain}},
		&stubUnit{name: "ip-only", kinds: []domain.SearchKind{domain.KindIP}},
	}

	matched := UnitsSupporting(units, domain.KindEmail)
	testutil.AssertEqual(t, len(matched), 2, "filter by kind")
	testutil.AssertEqual(t, matched[0].Name(), "email-only", "order preserved")
	testutil.AssertEqual(t, matched[1].Name(), "multi", "order preserved")
}
