package contexthelpers_test

import (
	"net/http/httptest"
	"testing"

	"github.com/myrjola/liftplan/internal/contexthelpers"
)

func TestContextHelpers(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	if got := contexthelpers.CSPNonce(r.Context()); got != "" {
		t.Errorf("CSPNonce() on bare context = %q, want empty", got)
	}
	if got := contexthelpers.TraceID(r.Context()); got != "" {
		t.Errorf("TraceID() on bare context = %q, want empty", got)
	}

	r = contexthelpers.SetTraceID(contexthelpers.SetCSPNonce(r, "nonce"), "trace")
	if got := contexthelpers.CSPNonce(r.Context()); got != "nonce" {
		t.Errorf("CSPNonce() = %q, want nonce", got)
	}
	if got := contexthelpers.TraceID(r.Context()); got != "trace" {
		t.Errorf("TraceID() = %q, want trace", got)
	}
}
