// internal/core/domain/record_test.go
package domain

import (
	"testing"
	"time"

	"kirwada/internal/testutil"
)

func TestResultRecordValidity(t *testing.T) {
	started := time.Now().Add(-250 * time.Millisecond)
	finished := time.Now()

	ok := NewResultRecord("hibp", KindEmail, "a@b.com", StringValue("x"), started, finished)
	testutil.AssertTrue(t, ok.IsValid(), "success record is valid")
	testutil.AssertTrue(t, ok.Succeeded, "success flag")
	testutil.AssertTrue(t, ok.DurationMs >= 250, "duration derived from timestamps")

	bad := NewFailureRecord("hibp", KindEmail, "a@b.com", "rate limited", started, finished)
	testutil.AssertTrue(t, bad.IsValid(), "failure record is valid")
	testutil.AssertFalse(t, bad.Succeeded, "failure flag")
	testutil.AssertTrue(t, bad.Payload.IsNull(), "failure carries no payload")

	// Violaciones del invariante payload-xor-error
	broken := NewResultRecord("hibp", KindEmail, "a@b.com", StringValue("x"), started, finished)
	broken.ErrorMessage = "leftover"
	testutil.AssertFalse(t, broken.IsValid(), "success with error message is invalid")

	silent := NewFailureRecord("hibp", KindEmail, "a@b.com", "", started, finished)
	testutil.AssertFalse(t, silent.IsValid(), "failure without message is invalid")

	anonymous := NewResultRecord("", KindEmail, "a@b.com", StringValue("x"), started, finished)
	testutil.AssertFalse(t, anonymous.IsValid(), "record must name its unit")
}

func TestTimedOutOutcomeDerivesFinish(t *testing.T) {
	started := time.Now()
	o := TimedOutOutcome("slowpoke", KindDomain, "example.com", 5*time.Second, started)

	testutil.AssertEqual(t, o.Status, StatusTimedOut, "status")
	testutil.AssertEqual(t, o.Record.FinishedAt, started.Add(5*time.Second), "finish pinned to budget")
	testutil.AssertContains(t, o.Record.ErrorMessage, "5s", "message names the budget")
}

func TestSkippedOutcomeNamesKind(t *testing.T) {
	o := SkippedOutcome("ipinfo", KindEmail, "a@b.com", time.Now())
	testutil.AssertEqual(t, o.Status, StatusSkipped, "status")
	testutil.AssertContains(t, o.Record.ErrorMessage, "email", "message names the kind")
}
