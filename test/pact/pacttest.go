//go:build pact
// +build pact

package pacttest

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

const (
	ProviderName = "bdo-api"
	ConsumerName = "bdo-portal"

	StateAdminExists     = "admin JP exists"
	StateReportsExist    = "admin JP exists with a finished report"
	StateNoSuchReport    = "admin JP exists and report missing-report does not"
	StateReportsBaseline = "no reports exist"
)

const (
	AdminFirstName = "Juan"
	AdminLastName  = "Perez"
	AdminUsername  = "JP"
	AdminPassword  = "pact-pass"
	AdminZone      = "Norte"

	MissingReportID = "missing-report"
)

// ExampleToken is the bearer token recorded in the pact. Provider
// verification swaps it for a live token.
const ExampleToken = "eyJhbGciOiJIUzI1NiJ9.pact.example"

// ExampleReportDraft provides stable data for report interactions.
func ExampleReportDraft() map[string]any {
	return map[string]any{
		"airline":          "Avianca",
		"reference_number": 7781,
		"bdo_number":       1204,
		"delivery_zone":    AdminZone,
		"destination":      "Chapinero",
	}
}

// PactDir returns the workspace-level directory for generated pact files.
func PactDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "pacts")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact dir: %v", err)
	}
	return dir
}

// PactFile returns the canonical pact file path for the portal consumer.
func PactFile(t testing.TB) string {
	t.Helper()
	return filepath.Join(PactDir(t), ConsumerName+"-"+ProviderName+".json")
}

// LogDir returns the log output directory for pact-go.
func LogDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "bin", "pact-logs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact log dir: %v", err)
	}
	return dir
}

// projectRoot walks up from this file to the workspace root.
func projectRoot(t testing.TB) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("cannot determine caller for pact paths")
	}
	return filepath.Clean(filepath.Join(filepath.Dir(file), "..", ".."))
}
