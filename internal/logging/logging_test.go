package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSetup_Levels(t *testing.T) {
	var buf bytes.Buffer
	logger, closer, err := Setup(Options{Output: &buf})
	if err != nil {
		t.Fatal(err)
	}
	defer closer.Close()

	logger.Debug("hidden")
	logger.Info("shown", "key", "value")
	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("debug record written without Verbose")
	}
	if !strings.Contains(out, "msg=shown") || !strings.Contains(out, "key=value") {
		t.Errorf("output = %q", out)
	}

	buf.Reset()
	logger, _, _ = Setup(Options{Output: &buf, Verbose: true})
	logger.Debug("visible")
	if !strings.Contains(buf.String(), "visible") {
		t.Errorf("verbose output = %q", buf.String())
	}
}

func TestSetup_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger, _, err := Setup(Options{Output: &buf, JSON: true})
	if err != nil {
		t.Fatal(err)
	}
	logger.Info("imported", "template", "shop")

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("output is not JSON: %v (%q)", err, buf.String())
	}
	if rec["msg"] != "imported" || rec["template"] != "shop" {
		t.Errorf("record = %v", rec)
	}
}

func TestSetup_File(t *testing.T) {
	var buf bytes.Buffer
	path := filepath.Join(t.TempDir(), "logs", "vhv.log")
	logger, closer, err := Setup(Options{Output: &buf, File: path})
	if err != nil {
		t.Fatal(err)
	}
	logger.Warn("to both")
	if err := closer.Close(); err != nil {
		t.Fatalf("Close error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("log file: %v", err)
	}
	if !strings.Contains(string(data), "to both") || !strings.Contains(buf.String(), "to both") {
		t.Errorf("file = %q, console = %q", data, buf.String())
	}
}
