package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	if err != nil {
		t.Fatalf("version failed: %v", err)
	}
	if out != "patientdesk dev\n" {
		t.Errorf("Unexpected output %q", out)
	}
}

func TestConfigInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf", "patientdesk.yaml")

	out, err := execute(t, "config", "init", path)
	if err != nil {
		t.Fatalf("config init failed: %v", err)
	}
	if !strings.Contains(out, "Wrote "+path) {
		t.Errorf("Unexpected output %q", out)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if !strings.Contains(string(data), "url: http://127.0.0.1:8765") {
		t.Errorf("Expected default host in file:\n%s", data)
	}

	if _, err := execute(t, "config", "init", path); err == nil {
		t.Error("Expected error when the file exists")
	}
	if _, err := execute(t, "config", "init", "--force", path); err != nil {
		t.Errorf("Expected --force to overwrite: %v", err)
	}
}

func TestImport_Errors(t *testing.T) {
	t.Chdir(t.TempDir())

	if _, err := execute(t, "import"); err == nil {
		t.Error("Expected error without a file argument")
	}

	_, err := execute(t, "import", "missing.dcm")
	if err == nil || !strings.Contains(err.Error(), "missing.dcm") {
		t.Errorf("Expected error naming the file, got %v", err)
	}
}

func TestImport_BadFieldMapping(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	cfg := "dicom:\n  fields:\n    name: PatientNmae\n"
	if err := os.WriteFile(filepath.Join(dir, "patientdesk.yaml"), []byte(cfg), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := execute(t, "import", "scan.dcm")
	if err == nil || !strings.Contains(err.Error(), "PatientName") {
		t.Errorf("Expected a suggestion for the misspelt tag, got %v", err)
	}
}

func TestRoot_RejectsBadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("ui:\n  theme: neon\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := execute(t, "--config", path); err == nil {
		t.Error("Expected error for an invalid theme")
	}
}

func TestServeDemo_RejectsBadEdgeCases(t *testing.T) {
	t.Chdir(t.TempDir())

	_, err := execute(t, "serve-demo", "--addr", "127.0.0.1:0", "--edge-cases", "120")
	if err == nil || !strings.Contains(err.Error(), "demo.edge_cases") {
		t.Errorf("Expected edge case percentage error, got %v", err)
	}

	_, err = execute(t, "serve-demo", "--addr", "127.0.0.1:0", "--edge-cases", "10", "--edge-case-types", "odd")
	if err == nil || !strings.Contains(err.Error(), "odd") {
		t.Errorf("Expected unknown type error, got %v", err)
	}
}
