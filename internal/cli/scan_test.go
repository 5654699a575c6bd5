package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"dividend-screener/internal/config"
)

func execute(t *testing.T, args ...string) error {
	t.Helper()
	root := NewRootCmd(config.Default(), zerolog.Nop())
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	return root.Execute()
}

func TestScanRejectsZeroConcurrency(t *testing.T) {
	err := execute(t, "scan", "--concurrency", "0")
	if err == nil {
		t.Fatal("scan --concurrency 0 must fail validation, not run")
	}
	if !strings.Contains(err.Error(), "concurrency") {
		t.Errorf("err = %v, want a concurrency validation message", err)
	}
}

func TestScanRejectsNegativeConcurrency(t *testing.T) {
	if err := execute(t, "scan", "--concurrency", "-2"); err == nil {
		t.Fatal("scan --concurrency -2 must fail validation, not run")
	}
}

func TestScanRejectsNegativeThresholdOverrides(t *testing.T) {
	if err := execute(t, "scan", "--min-yield", "-1"); err == nil {
		t.Fatal("scan --min-yield -1 must fail validation")
	}
	if err := execute(t, "scan", "--min-dollar-volume", "-5"); err == nil {
		t.Fatal("scan --min-dollar-volume -5 must fail validation")
	}
}

func TestScanRejectsInvertedWindow(t *testing.T) {
	err := execute(t, "scan", "--from", "2026-09-05", "--to", "2026-09-01")
	if err == nil {
		t.Fatal("window end before start must fail")
	}
	if !strings.Contains(err.Error(), "precedes") {
		t.Errorf("err = %v, want the window-order message", err)
	}
}

func TestScanRejectsMalformedDates(t *testing.T) {
	if err := execute(t, "scan", "--from", "09/01/2026"); err == nil {
		t.Fatal("malformed --from must fail")
	}
	if err := execute(t, "scan", "--to", "tomorrow"); err == nil {
		t.Fatal("malformed --to must fail")
	}
}
