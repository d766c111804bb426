package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestValidate_InvalidPort(t *testing.T) {
	cfg := Config{
		HTTP: HTTPConfig{Port: 0},
		Database: DatabaseConfig{
			Addrs: []string{"localhost:6379"},
		},
	}

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for invalid port")
	}
}

func TestValidate_MissingDatabaseAddrs(t *testing.T) {
	cfg := Config{
		HTTP: HTTPConfig{Port: 8080},
		Database: DatabaseConfig{
			Addrs: []string{},
		},
	}

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for missing database addrs")
	}
}

func TestValidate_CategoryThresholdOutOfRange(t *testing.T) {
	cfg := Config{
		HTTP: HTTPConfig{Port: 8080},
		Database: DatabaseConfig{
			Addrs: []string{"localhost:6379"},
		},
		Confidence: ConfidenceConfig{
			CategoryThresholds: map[string]float64{"password": 1.5},
		},
	}

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for category threshold > 1")
	}
}

func TestValidate_ValidCategoryThresholds(t *testing.T) {
	cfg := Config{
		HTTP: HTTPConfig{Port: 8080},
		Database: DatabaseConfig{
			Addrs: []string{"localhost:6379"},
		},
		Confidence: ConfidenceConfig{
			CategoryThresholds: map[string]float64{
				"password": 0.9,
				"general":  0.55,
			},
		},
	}

	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()

	if cfg.HTTP.ReadTimeoutSec != 10 {
		t.Errorf("expected ReadTimeoutSec=10, got %d", cfg.HTTP.ReadTimeoutSec)
	}
	if cfg.HTTP.ShutdownSec != 10 {
		t.Errorf("expected ShutdownSec=10, got %d", cfg.HTTP.ShutdownSec)
	}
	if cfg.Database.ReadinessTimeout != 10 {
		t.Errorf("expected ReadinessTimeout=10, got %d", cfg.Database.ReadinessTimeout)
	}
	if cfg.Matcher.Threshold != 0.7 {
		t.Errorf("expected matcher threshold 0.7, got %g", cfg.Matcher.Threshold)
	}
	if cfg.Matcher.MaxResults != 5 {
		t.Errorf("expected matcher max results 5, got %d", cfg.Matcher.MaxResults)
	}
	if cfg.Confidence.DefaultThreshold != 0.55 {
		t.Errorf("expected default confidence threshold 0.55, got %g", cfg.Confidence.DefaultThreshold)
	}
	if cfg.Confidence.TopK != 3 {
		t.Errorf("expected confidence top_k 3, got %d", cfg.Confidence.TopK)
	}
	if cfg.Confidence.Epsilon != 0.05 {
		t.Errorf("expected epsilon 0.05, got %g", cfg.Confidence.Epsilon)
	}
	if cfg.Retrieval.TimeoutMS != 2000 {
		t.Errorf("expected retrieval timeout 2000ms, got %d", cfg.Retrieval.TimeoutMS)
	}
	if cfg.Retrieval.IndexName != "refdesk-evidence" {
		t.Errorf("expected index name refdesk-evidence, got %q", cfg.Retrieval.IndexName)
	}
	if cfg.Cache.TTLSec != 300 {
		t.Errorf("expected cache TTL 300s, got %d", cfg.Cache.TTLSec)
	}
	if cfg.Cache.KeyPrefix != "refdesk:" {
		t.Errorf("expected key prefix refdesk:, got %q", cfg.Cache.KeyPrefix)
	}
}

func TestApplyDefaults_PreservesExplicitValues(t *testing.T) {
	cfg := Config{
		Matcher:    MatcherConfig{Threshold: 0.85, MaxResults: 3},
		Confidence: ConfidenceConfig{DefaultThreshold: 0.6},
	}
	cfg.ApplyDefaults()

	if cfg.Matcher.Threshold != 0.85 {
		t.Errorf("expected matcher threshold 0.85, got %g", cfg.Matcher.Threshold)
	}
	if cfg.Matcher.MaxResults != 3 {
		t.Errorf("expected matcher max results 3, got %d", cfg.Matcher.MaxResults)
	}
	if cfg.Confidence.DefaultThreshold != 0.6 {
		t.Errorf("expected confidence threshold 0.6, got %g", cfg.Confidence.DefaultThreshold)
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("REFDESK_TEST_KEY", "secret")

	in := []byte("api_key: ${REFDESK_TEST_KEY}\nmodel: ${REFDESK_TEST_MODEL:-fallback}")
	out := string(expandEnvVars(in))

	want := "api_key: secret\nmodel: fallback"
	if out != want {
		t.Errorf("expandEnvVars:\ngot:  %q\nwant: %q", out, want)
	}
}

func TestLoad_FromFile(t *testing.T) {
	dir := t.TempDir()
	configDir := filepath.Join(dir, "config")
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		t.Fatal(err)
	}

	yaml := `
http:
  port: 9090
database:
  addrs: ["localhost:6379"]
confidence:
  category_thresholds:
    password: 0.9
`
	if err := os.WriteFile(filepath.Join(configDir, "test.yaml"), []byte(yaml), 0o600); err != nil {
		t.Fatal(err)
	}

	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })

	cfg, err := Load("test")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.HTTP.Port != 9090 {
		t.Errorf("expected port 9090, got %d", cfg.HTTP.Port)
	}
	if cfg.Confidence.CategoryThresholds["password"] != 0.9 {
		t.Errorf("expected password threshold 0.9, got %g", cfg.Confidence.CategoryThresholds["password"])
	}
	// defaults filled in
	if cfg.Matcher.Threshold != 0.7 {
		t.Errorf("expected default matcher threshold, got %g", cfg.Matcher.Threshold)
	}
}
