// internal/units/webpage/webpage_test.go
package webpage

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"kirwada/internal/core/domain"
	"kirwada/internal/core/ports"
	"kirwada/internal/testutil"
)

const samplePage = `<!DOCTYPE html>
<html>
<head>
  <title>  Acme Corp — Contact  </title>
  <meta name="description" content="Acme corporate site">
</head>
<body>
  <a href="/about">About</a>
  <a href="https://partner.example.com/deal">Partner</a>
  <a href="#section">Anchor</a>
  <a href="mailto:sales@acme.example">Mail us</a>
  <a href="javascript:void(0)">Nope</a>
  <p>Reach us at Support@Acme.example or sales@acme.example.</p>
</body>
</html>`

func TestParsePage(t *testing.T) {
	payload := ParsePage("https://acme.example/contact", []byte(samplePage))

	title, ok := payload.Get("title")
	testutil.AssertTrue(t, ok, "title present")
	testutil.AssertContains(t, title.Str(), "Acme Corp", "title text trimmed")

	desc, ok := payload.Get("description")
	testutil.AssertTrue(t, ok, "description present")
	testutil.AssertEqual(t, desc.Str(), "Acme corporate site", "meta description")

	links, ok := payload.Get("links")
	testutil.AssertTrue(t, ok, "links present")
	testutil.AssertEqual(t, len(links.List()), 2, "anchors, mailto and javascript dropped")
	testutil.AssertEqual(t, links.List()[0].Str(), "https://acme.example/about", "relative link absolutized")

	emails, ok := payload.Get("emails")
	testutil.AssertTrue(t, ok, "emails present")
	testutil.AssertEqual(t, len(emails.List()), 2, "emails lowercased and deduplicated")
	testutil.AssertEqual(t, emails.List()[0].Str(), "sales@acme.example", "sorted order")
}

func TestRunFetchesAndParses(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(samplePage))
	}))
	defer srv.Close()

	cfg := ports.DefaultUnitConfig()
	cfg.Timeout = 5 * time.Second
	u := New(testutil.NewTestLogger(), cfg)

	rec, err := u.Run(context.Background(), srv.URL, domain.KindURL)
	testutil.AssertNoError(t, err, "run should not error")
	testutil.AssertTrue(t, rec.Succeeded, "fetch and parse succeed")

	urls, _ := rec.Payload.Get("urls")
	testutil.AssertEqual(t, urls.List()[0].Str(), srv.URL, "queried URL echoed")
}

func TestRunNotFoundIsUnitFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(http.NotFound))
	defer srv.Close()

	cfg := ports.DefaultUnitConfig()
	cfg.Timeout = 5 * time.Second
	u := New(testutil.NewTestLogger(), cfg)

	rec, err := u.Run(context.Background(), srv.URL+"/missing", domain.KindURL)
	testutil.AssertNoError(t, err, "run should not error")
	testutil.AssertFalse(t, rec.Succeeded, "404 page fails the unit")
}

func TestParsePageMalformedHTMLStillExtractsEmails(t *testing.T) {
	payload := ParsePage("https://x.example", []byte("<<<not html>>> contact: ops@x.example"))

	emails, ok := payload.Get("emails")
	testutil.AssertTrue(t, ok, "emails extracted from malformed page")
	testutil.AssertEqual(t, emails.List()[0].Str(), "ops@x.example", "email found")
}
