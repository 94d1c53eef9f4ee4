// internal/units/namehunt/namehunt_test.go
package namehunt

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"kirwada/internal/core/domain"
	"kirwada/internal/core/ports"
	"kirwada/internal/testutil"
)

func testConfig() ports.UnitConfig {
	cfg := ports.DefaultUnitConfig()
	cfg.Timeout = 5 * time.Second
	return cfg
}

func TestProbeFindsExistingProfiles(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasPrefix(r.URL.Path, "/exists/"):
			w.Write([]byte("<html>profile page</html>"))
		case strings.HasPrefix(r.URL.Path, "/soft404/"):
			// 200 con marcador de ausencia
			w.Write([]byte("<html>No such user.</html>"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	sites := []Site{
		{Name: "alpha", URLTemplate: srv.URL + "/exists/{}"},
		{Name: "beta", URLTemplate: srv.URL + "/missing/{}"},
		{Name: "gamma", URLTemplate: srv.URL + "/soft404/{}", NotFoundMarker: "No such user."},
	}
	u := NewWithSites(testutil.NewTestLogger(), testConfig(), sites)

	rec, err := u.Run(context.Background(), "someuser", domain.KindUsername)
	testutil.AssertNoError(t, err, "run should not error")
	testutil.AssertTrue(t, rec.Succeeded, "probe run succeeds")

	checked, _ := rec.Payload.Get("sites_checked")
	testutil.AssertEqual(t, checked.Num(), 3.0, "all sites probed")

	hits, _ := rec.Payload.Get("hits")
	testutil.AssertEqual(t, hits.Num(), 1.0, "only the real profile counts")

	accounts, _ := rec.Payload.Get("accounts")
	site, _ := accounts.List()[0].Get("site")
	testutil.AssertEqual(t, site.Str(), "alpha", "hit attributed to the right site")

	urls, _ := rec.Payload.Get("urls")
	testutil.AssertContains(t, urls.List()[0].Str(), "/exists/someuser", "profile URL built from template")
}

func TestNoHitsIsStillSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(http.NotFound))
	defer srv.Close()

	sites := []Site{{Name: "alpha", URLTemplate: srv.URL + "/{}"}}
	u := NewWithSites(testutil.NewTestLogger(), testConfig(), sites)

	rec, err := u.Run(context.Background(), "ghost", domain.KindUsername)
	testutil.AssertNoError(t, err, "run should not error")
	testutil.AssertTrue(t, rec.Succeeded, "zero hits is a successful no-data result")

	hits, _ := rec.Payload.Get("hits")
	testutil.AssertEqual(t, hits.Num(), 0.0, "no hits")
}

func TestProbeStatusBounds(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasPrefix(r.URL.Path, "/created/"):
			w.WriteHeader(http.StatusCreated)
		case strings.HasPrefix(r.URL.Path, "/choices/"):
			w.WriteHeader(http.StatusMultipleChoices)
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	defer srv.Close()

	sites := []Site{
		{Name: "created", URLTemplate: srv.URL + "/created/{}"},
		{Name: "choices", URLTemplate: srv.URL + "/choices/{}"},
		{Name: "broken", URLTemplate: srv.URL + "/broken/{}"},
	}
	u := NewWithSites(testutil.NewTestLogger(), testConfig(), sites)

	rec, err := u.Run(context.Background(), "someuser", domain.KindUsername)
	testutil.AssertNoError(t, err, "run should not error")

	hits, _ := rec.Payload.Get("hits")
	testutil.AssertEqual(t, hits.Num(), 1.0, "any 2xx is presence, 3xx and 5xx are not")

	accounts, _ := rec.Payload.Get("accounts")
	site, _ := accounts.List()[0].Get("site")
	testutil.AssertEqual(t, site.Str(), "created", "201 counts as present")
}

func TestSiteFilterFromConfig(t *testing.T) {
	cfg := testConfig()
	cfg.Custom = map[string]string{"sites": "github, keybase"}

	u := New(testutil.NewTestLogger(), cfg)
	testutil.AssertEqual(t, len(u.sites), 2, "filter keeps only the named sites")
}

func TestCancelledContextPropagates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	sites := []Site{{Name: "slow", URLTemplate: srv.URL + "/{}"}}
	u := NewWithSites(testutil.NewTestLogger(), testConfig(), sites)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	_, err := u.Run(ctx, "someone", domain.KindUsername)
	testutil.AssertError(t, err, "cancelled context surfaces as error")
}
