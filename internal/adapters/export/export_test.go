// internal/adapters/export/export_test.go
package export

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"kirwada/internal/core/domain"
	"kirwada/internal/core/ports"
	"kirwada/internal/testutil"
)

func testSession(t *testing.T) *domain.SearchSession {
	t.Helper()

	s := domain.NewSearchSession("test@example.com", domain.KindEmail)

	started := time.Now().Add(-2 * time.Second)
	finished := started.Add(120 * time.Millisecond)

	okPayload := domain.MapValue(map[string]domain.Value{
		"emails": domain.StringListValue([]string{"test@example.com"}),
		"mx":     domain.StringListValue([]string{"mx1.example.com", "mx2.example.com"}),
	})
	s.Outcomes = append(s.Outcomes, domain.CompletedOutcome(
		domain.NewResultRecord("emailcheck", domain.KindEmail, "test@example.com", okPayload, started, finished)))

	otherPayload := domain.MapValue(map[string]domain.Value{
		"breaches": domain.NumberValue(3),
	})
	s.Outcomes = append(s.Outcomes, domain.CompletedOutcome(
		domain.NewResultRecord("hibp", domain.KindEmail, "test@example.com", otherPayload, started, finished)))

	s.Outcomes = append(s.Outcomes, domain.FailedOutcome(
		"whois", domain.KindEmail, "test@example.com", "whois binary not found", started, finished))

	s.Finalize()
	return s
}

func TestSanitizeQuery(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"test@example.com", "test_example_com"},
		{"user name", "user_name"},
		{"simple", "simple"},
		{"", "session"},
		{strings.Repeat("a", 50), strings.Repeat("a", 30)},
	}

	for _, tt := range tests {
		got := sanitizeQuery(tt.in)
		testutil.AssertEqual(t, got, tt.want, "sanitized query")
	}
}

func TestJSONRoundTrip(t *testing.T) {
	dir := t.TempDir()
	session := testSession(t)

	exp := NewJSON(testutil.NewTestLogger())
	art, err := exp.Export([]*domain.SearchSession{session}, nil, ports.ExportOptions{
		OutputDir: dir,
		Filename:  "roundtrip.json",
		Pretty:    true,
	})
	testutil.AssertNoError(t, err, "export should succeed")
	testutil.AssertEqual(t, art.Format, ports.FormatJSON, "artifact format")
	testutil.AssertTrue(t, art.Bytes > 0, "artifact should not be empty")

	back, err := ImportJSON(art.Path)
	testutil.AssertNoError(t, err, "import should succeed")
	testutil.AssertEqual(t, len(back), 1, "one session")

	got := back[0]
	testutil.AssertEqual(t, got.ID, session.ID, "session id survives")
	testutil.AssertEqual(t, got.Query, session.Query, "query survives")
	testutil.AssertEqual(t, len(got.Outcomes), len(session.Outcomes), "outcome count survives")

	// El árbol estructurado sobrevive sin pérdida.
	orig := session.Outcomes[0].Record.Payload
	reread := got.Outcomes[0].Record.Payload
	testutil.AssertTrue(t, orig.Equal(reread), "payload tree should round-trip")
}

func TestCSVUnionColumns(t *testing.T) {
	dir := t.TempDir()
	session := testSession(t)

	exp := NewCSV(testutil.NewTestLogger())
	art, err := exp.Export([]*domain.SearchSession{session}, nil, ports.ExportOptions{
		OutputDir: dir,
		Filename:  "out.csv",
	})
	testutil.AssertNoError(t, err, "export should succeed")

	f, err := os.Open(art.Path)
	testutil.AssertNoError(t, err, "open CSV")
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	testutil.AssertNoError(t, err, "parse CSV")
	testutil.AssertEqual(t, len(rows), 4, "header + 3 outcomes")

	header := rows[0]
	testutil.AssertContains(t, header, "unit", "base column present")
	testutil.AssertContains(t, header, "breaches", "hibp payload column present")
	testutil.AssertContains(t, header, "emails.0", "flattened list column present")
	testutil.AssertContains(t, header, "mx.1", "second list element column present")

	// Outcome sin esa ruta deja la celda vacía.
	col := -1
	for i, h := range header {
		if h == "breaches" {
			col = i
		}
	}
	testutil.AssertTrue(t, col >= 0, "breaches column located")
	testutil.AssertEqual(t, rows[1][col], "", "emailcheck row leaves breaches empty")
	testutil.AssertEqual(t, rows[2][col], "3", "hibp row fills breaches")
}

func TestCSVFailedRowCarriesError(t *testing.T) {
	dir := t.TempDir()
	session := testSession(t)

	exp := NewCSV(testutil.NewTestLogger())
	art, err := exp.Export([]*domain.SearchSession{session}, nil, ports.ExportOptions{
		OutputDir: dir,
		Filename:  "err.csv",
	})
	testutil.AssertNoError(t, err, "export should succeed")

	data, err := os.ReadFile(art.Path)
	testutil.AssertNoError(t, err, "read CSV")
	testutil.AssertContains(t, string(data), "whois binary not found", "error message in failed row")
}

func TestHTMLReport(t *testing.T) {
	dir := t.TempDir()
	session := testSession(t)

	view := &ports.AggregateView{
		Summary: session.Summary,
		Fields: map[string]*domain.DeduplicatedField{
			"test@example.com": {
				Value:  "test@example.com",
				Fields: []string{"emails"},
				Units:  []string{"emailcheck", "hibp"},
			},
		},
	}

	exp := NewHTML(testutil.NewTestLogger())
	art, err := exp.Export([]*domain.SearchSession{session}, view, ports.ExportOptions{
		OutputDir: dir,
		Filename:  "report.html",
	})
	testutil.AssertNoError(t, err, "export should succeed")

	data, err := os.ReadFile(art.Path)
	testutil.AssertNoError(t, err, "read report")
	html := string(data)

	testutil.AssertContains(t, html, "emailcheck", "unit section present")
	testutil.AssertContains(t, html, "test@example.com", "query present")
	testutil.AssertContains(t, html, "Deduplicated fields", "dedup section present")
	testutil.AssertContains(t, html, "whois binary not found", "failure shown")
}

func TestSQLiteSnapshot(t *testing.T) {
	dir := t.TempDir()
	session := testSession(t)

	exp := NewSQLite(testutil.NewTestLogger())
	art, err := exp.Export([]*domain.SearchSession{session}, nil, ports.ExportOptions{
		OutputDir: dir,
		Filename:  "snapshot.db",
	})
	testutil.AssertNoError(t, err, "export should succeed")
	testutil.AssertTrue(t, art.Bytes > 0, "database should not be empty")

	// Atomicidad: no debe quedar temporal visible.
	entries, err := os.ReadDir(dir)
	testutil.AssertNoError(t, err, "list output dir")
	testutil.AssertEqual(t, len(entries), 1, "only the final artifact remains")
}

func TestExportAllContinuesOnFailure(t *testing.T) {
	dir := t.TempDir()
	session := testSession(t)

	formats := []ports.ExportFormat{ports.FormatJSON, ports.ExportFormat("bogus"), ports.FormatCSV}
	artifacts, err := ExportAll(formats, []*domain.SearchSession{session}, nil,
		ports.ExportOptions{OutputDir: dir}, testutil.NewTestLogger())

	testutil.AssertError(t, err, "bogus format should surface an error")
	testutil.AssertEqual(t, len(artifacts), 2, "valid formats still export")
}

func TestAutoFilename(t *testing.T) {
	dir := t.TempDir()
	session := testSession(t)

	exp := NewJSON(testutil.NewTestLogger())
	art, err := exp.Export([]*domain.SearchSession{session}, nil, ports.ExportOptions{OutputDir: dir})
	testutil.AssertNoError(t, err, "export should succeed")

	base := filepath.Base(art.Path)
	testutil.AssertTrue(t, strings.HasPrefix(base, "test_example_com_"), "filename starts with sanitized query")
	testutil.AssertTrue(t, strings.HasSuffix(base, ".json"), "filename carries extension")
}
