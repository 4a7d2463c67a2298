package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultSettings_Valid(t *testing.T) {
	if err := DefaultSettings().Validate(); err != nil {
		t.Fatalf("DefaultSettings().Validate() = %v", err)
	}
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if s.IDColumn != "UPC" || s.Workers != 1 {
		t.Errorf("unexpected defaults: %+v", s)
	}
}

func TestLoad_YAMLOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "batch-dl.yaml")
	content := "workers: 4\nretry: -1\nengine: browser\nid_column: SKU\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if s.Workers != 4 || s.Retry != -1 || s.Engine != EngineBrowser || s.IDColumn != "SKU" {
		t.Errorf("YAML values not applied: %+v", s)
	}
	if s.LocatorColumn != "IMAGES LINK" {
		t.Errorf("LocatorColumn = %q, want default", s.LocatorColumn)
	}
}

func TestLoad_JSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "batch-dl.json")
	s := DefaultSettings()
	s.Workers = 3
	s.MaxImageSize = 1200
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got.Workers != 3 || got.MaxImageSize != 1200 {
		t.Errorf("Load() lost values: %+v", got)
	}
}

func TestLoad_BadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte("{"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("Load() should fail on malformed JSON")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Settings)
		wantErr bool
	}{
		{"defaults", func(*Settings) {}, false},
		{"zero workers", func(s *Settings) { s.Workers = 0 }, true},
		{"unlimited retry", func(s *Settings) { s.Retry = -1 }, false},
		{"retry below -1", func(s *Settings) { s.Retry = -2 }, true},
		{"unknown engine", func(s *Settings) { s.Engine = "ftp" }, true},
		{"unknown progress", func(s *Settings) { s.Progress = "dots" }, true},
		{"manual proxy without address", func(s *Settings) { s.ProxyType = "manual" }, true},
		{"manual proxy", func(s *Settings) { s.ProxyType = "manual"; s.ProxyAddress = "127.0.0.1"; s.ProxyPort = 8080 }, false},
		{"blank id column", func(s *Settings) { s.IDColumn = " " }, true},
		{"no http attempts", func(s *Settings) { s.DownloadMaxRetries = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultSettings()
			tt.mutate(s)
			err := s.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConversions(t *testing.T) {
	s := DefaultSettings()
	s.IgnoreCategory = true
	s.ProxyType = "manual"
	s.ProxyAddress = "proxy.local"
	s.ProxyPort = 8080
	s.MaxImageSize = 2000

	schema := s.ToSchema()
	if schema.IDColumn != "UPC" || schema.LocatorColumn != "IMAGES LINK" || !schema.IgnoreCategory {
		t.Errorf("ToSchema() = %+v", schema)
	}

	client := s.ToClientOptions()
	if client.Timeout.Seconds() != 120 || client.MaxRetries != 3 || client.ProxyAddress != "proxy.local" || client.ProxyPort != 8080 {
		t.Errorf("ToClientOptions() = %+v", client)
	}

	b := s.ToBrowserOptions()
	if !b.Headless || b.Timeout.Seconds() != 180 {
		t.Errorf("ToBrowserOptions() = %+v", b)
	}

	p := s.ToPipelineConfig("out")
	if p.OutputRoot != "out" || !p.VerifyImages || p.MaxImageSize != 2000 {
		t.Errorf("ToPipelineConfig() = %+v", p)
	}
}
