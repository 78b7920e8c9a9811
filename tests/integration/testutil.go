// Package integration runs the storefront binary end to end against
// isolated config and data directories.
package integration

import (
	"bytes"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

var (
	// storefrontBin is the path to the built storefront binary.
	storefrontBin string
	// buildErr captures any build error.
	buildErr error
)

// BuildError wraps a build error with output.
type BuildError struct {
	Err    error
	Output string
}

func (e *BuildError) Error() string {
	return e.Err.Error() + ": " + e.Output
}

// FindProjectRoot finds the project root by walking up and looking for go.mod.
func FindProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", os.ErrNotExist
		}
		dir = parent
	}
}

// SetStorefrontBin sets the path to the storefront binary (called from TestMain).
func SetStorefrontBin(path string) {
	storefrontBin = path
}

// SetBuildErr sets the build error (called from TestMain).
func SetBuildErr(err error) {
	buildErr = err
}

// TestEnv provides an isolated test environment with its own config and data directory.
type TestEnv struct {
	t       *testing.T
	TempDir string
	Config  string
	DataDir string
}

// NewTestEnv creates an environment whose config.yaml selects backend and
// makes the simulated gateway answer immediately. failureRate is written
// as checkout.failure_rate.
func NewTestEnv(t *testing.T, backend string, failureRate string) *TestEnv {
	t.Helper()

	if buildErr != nil {
		t.Fatalf("failed to build storefront: %v", buildErr)
	}
	if storefrontBin == "" {
		t.Fatal("storefront binary not built (storefrontBin is empty)")
	}

	tempDir := t.TempDir()
	dataDir := filepath.Join(tempDir, "data")
	configDir := filepath.Join(tempDir, "config")

	if err := os.MkdirAll(configDir, 0o755); err != nil {
		t.Fatalf("failed to create config dir: %v", err)
	}
	configContent := strings.Join([]string{
		"backend: " + backend,
		"checkout:",
		"  failure_rate: " + failureRate,
		"  min_delay: 0s",
		"  max_delay: 0s",
		"",
	}, "\n")
	if err := os.WriteFile(filepath.Join(configDir, "config.yaml"), []byte(configContent), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	return &TestEnv{
		t:       t,
		TempDir: tempDir,
		Config:  configDir,
		DataDir: dataDir,
	}
}

// CmdResult holds the result of a storefront command execution.
type CmdResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// RunStorefront executes the storefront CLI with the given arguments and
// optional stdin.
func (e *TestEnv) RunStorefront(stdin string, args ...string) CmdResult {
	e.t.Helper()

	allArgs := append([]string{"--config-dir", e.Config, "--data-dir", e.DataDir}, args...)
	cmd := exec.Command(storefrontBin, allArgs...)
	cmd.Stdin = strings.NewReader(stdin)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	exitCode := 0
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			exitCode = exitErr.ExitCode()
		} else {
			e.t.Fatalf("failed to run storefront: %v", err)
		}
	}

	return CmdResult{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		ExitCode: exitCode,
	}
}

// MustRunStorefront executes the storefront CLI and fails the test if it returns non-zero.
func (e *TestEnv) MustRunStorefront(args ...string) CmdResult {
	e.t.Helper()
	result := e.RunStorefront("", args...)
	if result.ExitCode != 0 {
		e.t.Fatalf("storefront %v failed with exit code %d:\nstdout: %s\nstderr: %s",
			args, result.ExitCode, result.Stdout, result.Stderr)
	}
	return result
}

// ParseJSON parses JSON output into the target type.
func ParseJSON[T any](t *testing.T, jsonStr string) T {
	t.Helper()
	var result T
	if err := json.Unmarshal([]byte(jsonStr), &result); err != nil {
		t.Fatalf("failed to parse JSON %q: %v", jsonStr, err)
	}
	return result
}

// ReadJSONFile reads and parses a JSON file from the data directory.
func ReadJSONFile[T any](t *testing.T, path string) T {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read file %s: %v", path, err)
	}
	return ParseJSON[T](t, string(data))
}

// Product is the JSON shape of a catalog product.
type Product struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Price    string `json:"price"`
	Category string `json:"category"`
}

// CartLine is the JSON shape of one cart line in "cart show".
type CartLine struct {
	ProductID int    `json:"productId"`
	Quantity  int    `json:"quantity"`
	Name      string `json:"name"`
}

// CartTotals is the JSON shape of the cart totals.
type CartTotals struct {
	Subtotal  string `json:"subtotal"`
	Total     string `json:"total"`
	ItemCount int    `json:"itemCount"`
}

// Cart is the JSON shape of "cart show".
type Cart struct {
	Lines  []CartLine `json:"lines"`
	Totals CartTotals `json:"totals"`
}

// Item is a product id and quantity pair as stored in orders and records.
type Item struct {
	ProductID int `json:"productId"`
	Quantity  int `json:"quantity"`
}

// Order is the JSON shape of a placed order.
type Order struct {
	OrderID     string `json:"orderId"`
	OrderNumber string `json:"orderNumber"`
	Items       []Item `json:"items"`
}

// CartRecord is the persisted shoppingCart record.
type CartRecord struct {
	Items       []Item `json:"items"`
	LastUpdated string `json:"lastUpdated"`
}
