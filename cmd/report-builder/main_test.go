package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRun(t *testing.T) {
	dir := t.TempDir()

	csvPath := filepath.Join(dir, "pay.csv")
	if err := os.WriteFile(csvPath, []byte("grade,value\nA,10\nB,20\n"), 0644); err != nil {
		t.Fatal(err)
	}

	configPath := filepath.Join(dir, "report_config.toml")
	configData := `
[workbook]
output = "report.xlsx"

[[sheets]]
name = "Pay"
title = "Mean pay by grade"

[[sheets.tables]]
[sheets.tables.source]
type = "function"
registry = "group_means"

[sheets.tables.source.kwargs]
csv = "` + csvPath + `"
`
	if err := os.WriteFile(configPath, []byte(configData), 0644); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	if err := run(&out, []string{"-config", configPath}); err != nil {
		t.Fatalf("run() error = %v\noutput:\n%s", err, out.String())
	}

	if _, err := os.Stat(filepath.Join(dir, "report.xlsx")); err != nil {
		t.Errorf("output workbook missing: %v", err)
	}
	if !strings.Contains(out.String(), "Successfully built") {
		t.Errorf("run() output missing build confirmation:\n%s", out.String())
	}
}

func TestRun_MissingConfig(t *testing.T) {
	var out bytes.Buffer
	err := run(&out, []string{"-config", filepath.Join(t.TempDir(), "absent.toml")})
	if err == nil {
		t.Fatal("run() expected error for missing config")
	}
}

func TestRun_BadFlag(t *testing.T) {
	var out bytes.Buffer
	if err := run(&out, []string{"-no-such-flag"}); err == nil {
		t.Fatal("run() expected error for unknown flag")
	}
}
