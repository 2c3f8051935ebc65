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
	ProviderName = "shelter-api"
	ConsumerName = "dog-portal"

	StateLoggedIn  = "a logged in user"
	StateLoggedOut = "no login cookie"
	StateDogsExist = "dogs d1 and d2 exist"
)

const (
	ExistingDogID = "d1"
	OtherDogID    = "d2"
	ExampleZip    = "02134"
)

// PactDir returns the workspace-level directory for generated pact files.
func PactDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "pacts")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact dir: %v", err)
	}
	return dir
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

// ExampleDogPayload provides stable test data for dog interactions.
func ExampleDogPayload(id string) map[string]any {
	return map[string]any{
		"id":       id,
		"img":      "https://example.pact/dogs/" + id + ".jpg",
		"name":     "Pact Pup " + id,
		"age":      3,
		"zip_code": ExampleZip,
		"breed":    "Beagle",
	}
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
