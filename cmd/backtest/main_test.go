package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRunMainFailureIsLogged(t *testing.T) {
	dir := t.TempDir()
	logFile := filepath.Join(dir, "run.log")
	cfgFile := filepath.Join(dir, "run.yaml")
	body := "symbol: TEST\n" +
		"strategy: ma_cross\n" +
		"data_file: " + filepath.Join(dir, "missing.csv") + "\n" +
		"log:\n" +
		"  file: " + logFile + "\n" +
		"  console: false\n"
	if err := os.WriteFile(cfgFile, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}

	if code := runMain([]string{"-config", cfgFile}); code != 1 {
		t.Fatalf("expected exit code 1, got %d", code)
	}
	out, err := os.ReadFile(logFile)
	if err != nil {
		t.Fatalf("log file missing: %v", err)
	}
	if !strings.Contains(string(out), "backtest_failed") {
		t.Fatalf("failure not flushed to the log file:\n%s", out)
	}
}

func TestRunMainRejectsUnknownFlag(t *testing.T) {
	if code := runMain([]string{"-nope"}); code != 2 {
		t.Fatalf("expected exit code 2, got %d", code)
	}
}
