package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestNew(t *testing.T) {
	cfg := New()

	if cfg.TemplatesDir != DefaultTemplatesDir {
		t.Errorf("TemplatesDir = %q, want %q", cfg.TemplatesDir, DefaultTemplatesDir)
	}
	if cfg.Server.Port != DefaultPort {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, DefaultPort)
	}
	if cfg.Server.Host != DefaultHost {
		t.Errorf("Server.Host = %q, want %q", cfg.Server.Host, DefaultHost)
	}
	if cfg.Analysis.Workers <= 0 {
		t.Errorf("Analysis.Workers = %d, want > 0", cfg.Analysis.Workers)
	}
	if cfg.Analysis.MaxFileSize != DefaultMaxFileSize {
		t.Errorf("Analysis.MaxFileSize = %d, want %d", cfg.Analysis.MaxFileSize, DefaultMaxFileSize)
	}
	if cfg.Remote.Prefix != DefaultRemotePrefix {
		t.Errorf("Remote.Prefix = %q, want %q", cfg.Remote.Prefix, DefaultRemotePrefix)
	}
	if cfg.HasRemote() {
		t.Error("HasRemote() should be false without a bucket")
	}
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	tmpDir := t.TempDir()

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Dir() != tmpDir {
		t.Errorf("Dir() = %q, want %q", cfg.Dir(), tmpDir)
	}
	if want := filepath.Join(tmpDir, DefaultTemplatesDir); cfg.TemplatesPath() != want {
		t.Errorf("TemplatesPath() = %q, want %q", cfg.TemplatesPath(), want)
	}
}

func TestLoad(t *testing.T) {
	tmpDir := t.TempDir()

	configJSON := `{
  "templatesDir": "my-templates",
  "frameworkManifest": "framework/package.json",
  "analysis": {
    "workers": 3,
    "cacheSize": 10
  },
  "import": {
    "timeout": "90s",
    "defaultBranch": "main"
  },
  "remote": {
    "bucket": "tpl-bucket",
    "endpoint": "http://localhost:9000"
  },
  "server": {
    "port": 8080
  }
}
`
	if err := os.WriteFile(filepath.Join(tmpDir, ConfigFileName), []byte(configJSON), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	if cfg.TemplatesPath() != filepath.Join(tmpDir, "my-templates") {
		t.Errorf("TemplatesPath() = %q", cfg.TemplatesPath())
	}
	if cfg.FrameworkManifestPath() != filepath.Join(tmpDir, "framework", "package.json") {
		t.Errorf("FrameworkManifestPath() = %q", cfg.FrameworkManifestPath())
	}
	if cfg.Analysis.Workers != 3 {
		t.Errorf("Analysis.Workers = %d, want 3", cfg.Analysis.Workers)
	}
	if cfg.Analysis.MaxFileSize != DefaultMaxFileSize {
		t.Errorf("Analysis.MaxFileSize = %d, want default", cfg.Analysis.MaxFileSize)
	}
	if cfg.Import.DefaultBranch != "main" {
		t.Errorf("Import.DefaultBranch = %q, want %q", cfg.Import.DefaultBranch, "main")
	}
	timeout, err := cfg.ImportTimeout()
	if err != nil || timeout != 90*time.Second {
		t.Errorf("ImportTimeout() = %v, %v; want 90s", timeout, err)
	}
	if !cfg.HasRemote() {
		t.Error("HasRemote() should be true")
	}
	if cfg.Remote.Prefix != DefaultRemotePrefix {
		t.Errorf("Remote.Prefix = %q, want default", cfg.Remote.Prefix)
	}
	if cfg.ServerAddress() != "localhost:8080" {
		t.Errorf("ServerAddress() = %q, want %q", cfg.ServerAddress(), "localhost:8080")
	}
}

func TestLoad_InvalidJSON(t *testing.T) {
	tmpDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(tmpDir, ConfigFileName), []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(tmpDir); err == nil {
		t.Error("Expected error for invalid JSON")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	tmpDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(tmpDir, ConfigFileName), []byte(`{"server":{"port":8080}}`), 0644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("VHV_SERVER_PORT", "9090")
	t.Setenv("VHV_TEMPLATES_DIR", "/srv/templates")

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.TemplatesPath() != "/srv/templates" {
		t.Errorf("TemplatesPath() = %q, want %q", cfg.TemplatesPath(), "/srv/templates")
	}
}

func TestLoad_DotEnv(t *testing.T) {
	tmpDir := t.TempDir()
	// Registered first so t.Setenv restores the original state after the
	// dotenv loader has set the variable.
	t.Setenv("VHV_REMOTE_BUCKET", "")
	os.Unsetenv("VHV_REMOTE_BUCKET")

	if err := os.WriteFile(filepath.Join(tmpDir, EnvFileName), []byte("VHV_REMOTE_BUCKET=from-dotenv\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Remote.Bucket != "from-dotenv" {
		t.Errorf("Remote.Bucket = %q, want %q", cfg.Remote.Bucket, "from-dotenv")
	}
}

func TestSaveAndReload(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, ConfigFileName)

	cfg := New()
	cfg.TemplatesDir = "tpl"
	cfg.Remote.Bucket = "b"
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo error: %v", err)
	}
	if cfg.Path() != path {
		t.Errorf("Path() = %q, want %q", cfg.Path(), path)
	}

	loaded, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile error: %v", err)
	}
	if loaded.TemplatesDir != "tpl" || loaded.Remote.Bucket != "b" {
		t.Errorf("reloaded config = %+v", loaded)
	}

	if err := New().Save(); err == nil {
		t.Error("Save without a path should fail")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"bad port", func(c *Config) { c.Server.Port = 70000 }, true},
		{"negative cache", func(c *Config) { c.Analysis.CacheSize = -1 }, true},
		{"bad timeout", func(c *Config) { c.Import.Timeout = "soon" }, true},
		{"good timeout", func(c *Config) { c.Import.Timeout = "5m" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := New()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestFindProjectRoot(t *testing.T) {
	tmpDir := t.TempDir()
	nested := filepath.Join(tmpDir, "a", "b")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(tmpDir, ConfigFileName), []byte("{}"), 0644); err != nil {
		t.Fatal(err)
	}

	root, err := FindProjectRoot(nested)
	if err != nil {
		t.Fatalf("FindProjectRoot error: %v", err)
	}
	if root != tmpDir {
		t.Errorf("root = %q, want %q", root, tmpDir)
	}
}
