package main

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

var (
	testBinary     string
	testBinaryOnce sync.Once
	testBinaryErr  error
)

// buildTestBinary builds the aisp binary once for all tests
func buildTestBinary() (string, error) {
	testBinaryOnce.Do(func() {
		tmpBinary := filepath.Join(os.TempDir(), "aisp-test")
		cmd := exec.Command("go", "build", "-o", tmpBinary, ".")
		if out, err := cmd.CombinedOutput(); err != nil {
			testBinaryErr = err
			testBinary = string(out)
			return
		}
		testBinary = tmpBinary
	})

	if testBinaryErr != nil {
		return "", testBinaryErr
	}
	return testBinary, nil
}

// TestVersionCommand tests the version command
func TestVersionCommand(t *testing.T) {
	binary, err := buildTestBinary()
	if err != nil {
		t.Fatalf("failed to build test binary: %v", err)
	}

	cmd := exec.Command(binary, "version")
	output, err := cmd.CombinedOutput()

	if err != nil {
		t.Fatalf("version command failed: %v\nOutput: %s", err, output)
	}

	outputStr := string(output)
	expected := []string{
		"AISP version:",
		"Git commit:",
		"Build date:",
		"Go version:",
	}

	for _, exp := range expected {
		if !strings.Contains(outputStr, exp) {
			t.Errorf("version output missing expected string: %q\nGot: %s", exp, outputStr)
		}
	}
}

// TestValidateCommandMissingFile tests error handling for a missing source file
func TestValidateCommandMissingFile(t *testing.T) {
	binary, err := buildTestBinary()
	if err != nil {
		t.Fatalf("failed to build test binary: %v", err)
	}

	cmd := exec.Command(binary, "validate", "no-such-file.aisp")
	cmd.Dir = t.TempDir()
	output, err := cmd.CombinedOutput()

	if err == nil {
		t.Error("validate command should fail for a missing source file")
	}

	if !strings.Contains(string(output), "failed to read") {
		t.Errorf("error message should mention the read failure, got: %s", output)
	}
}

// TestValidateCommandJSONOutput tests --json flag
func TestValidateCommandJSONOutput(t *testing.T) {
	binary, err := buildTestBinary()
	if err != nil {
		t.Fatalf("failed to build test binary: %v", err)
	}

	tmpDir := t.TempDir()
	source := "≜ ∀ ⇒ ∧ ∈ ≤ ∪ ∃ λ ¬"
	sourcePath := filepath.Join(tmpDir, "spec.aisp")
	if err := os.WriteFile(sourcePath, []byte(source), 0644); err != nil {
		t.Fatalf("failed to write source file: %v", err)
	}

	cmd := exec.Command(binary, "validate", "--json", sourcePath)
	cmd.Dir = tmpDir
	// Exit status tracks validity, which is not under test here.
	output, _ := cmd.CombinedOutput()

	outputStr := string(output)
	for _, field := range []string{`"semantic"`, `"tier"`, `"delta"`} {
		if !strings.Contains(outputStr, field) {
			t.Errorf("JSON output should contain %s, got: %s", field, outputStr)
		}
	}
}

// TestValidateCommandTerminalOutput tests the default terminal rendering
func TestValidateCommandTerminalOutput(t *testing.T) {
	binary, err := buildTestBinary()
	if err != nil {
		t.Fatalf("failed to build test binary: %v", err)
	}

	tmpDir := t.TempDir()
	source := "≜ ∀ ⇒ ∧ ∈ ≤ ∪ ∃ λ ¬"
	sourcePath := filepath.Join(tmpDir, "spec.aisp")
	if err := os.WriteFile(sourcePath, []byte(source), 0644); err != nil {
		t.Fatalf("failed to write source file: %v", err)
	}

	cmd := exec.Command(binary, "validate", sourcePath)
	cmd.Dir = tmpDir
	output, _ := cmd.CombinedOutput()

	outputStr := string(output)
	for _, exp := range []string{"Tier:", "Density δ:", "Ambiguity:"} {
		if !strings.Contains(outputStr, exp) {
			t.Errorf("terminal output missing expected string: %q\nGot: %s", exp, outputStr)
		}
	}
}

// TestValidateCommandBadDocument tests error handling for a malformed document tree
func TestValidateCommandBadDocument(t *testing.T) {
	binary, err := buildTestBinary()
	if err != nil {
		t.Fatalf("failed to build test binary: %v", err)
	}

	tmpDir := t.TempDir()
	sourcePath := filepath.Join(tmpDir, "spec.aisp")
	if err := os.WriteFile(sourcePath, []byte("≜ ∀"), 0644); err != nil {
		t.Fatalf("failed to write source file: %v", err)
	}

	docPath := filepath.Join(tmpDir, "doc.json")
	if err := os.WriteFile(docPath, []byte(`{"blocks": [{"kind": "bogus"}]}`), 0644); err != nil {
		t.Fatalf("failed to write document file: %v", err)
	}

	cmd := exec.Command(binary, "validate", "--doc", docPath, sourcePath)
	cmd.Dir = tmpDir
	output, err := cmd.CombinedOutput()

	if err == nil {
		t.Error("validate command should fail for a malformed document tree")
	}

	if !strings.Contains(string(output), "failed to decode") {
		t.Errorf("error message should mention the decode failure, got: %s", output)
	}
}
