package cli

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/ppiankov/boycotts/internal/model"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

func TestWriteDefaultConfig(t *testing.T) {
	dir := filepath.Join(t.TempDir(), ".boycotts")

	path, err := writeDefaultConfig(dir)
	if err != nil {
		t.Fatalf("writeDefaultConfig failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	var got model.Config
	if err := yaml.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if !reflect.DeepEqual(&got, model.DefaultConfig()) {
		t.Errorf("Written config differs from defaults:\n got %+v\nwant %+v", got, *model.DefaultConfig())
	}

	if _, err := writeDefaultConfig(dir); err == nil {
		t.Error("Expected error when config already exists")
	}
}

func TestBuildConfig_Precedence(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	t.Setenv("HOME", t.TempDir())
	t.Setenv("BOYCOTTS_OUTPUT_DIR", "/env/out")
	t.Setenv("BOYCOTTS_HTTP_TIMEOUT", "45s")
	t.Setenv("BOYCOTTS_HTTP_USER_AGENT", "env-agent")
	initConfig()

	ua := scrapeCmd.Flags().Lookup("ua")
	if err := ua.Value.Set("flag-agent"); err != nil {
		t.Fatalf("Set flag failed: %v", err)
	}
	ua.Changed = true
	t.Cleanup(func() {
		_ = ua.Value.Set(ua.DefValue)
		ua.Changed = false
	})

	cfg, err := buildConfig(scrapeCmd)
	if err != nil {
		t.Fatalf("buildConfig failed: %v", err)
	}

	if cfg.Output.Dir != "/env/out" {
		t.Errorf("Expected env output dir, got %q", cfg.Output.Dir)
	}
	if cfg.HTTP.Timeout != 45*time.Second {
		t.Errorf("Expected env timeout 45s, got %v", cfg.HTTP.Timeout)
	}
	if cfg.HTTP.UserAgent != "flag-agent" {
		t.Errorf("Expected flag to override env, got %q", cfg.HTTP.UserAgent)
	}
	if cfg.Extract != model.DefaultConfig().Extract {
		t.Errorf("Expected default extract windows, got %+v", cfg.Extract)
	}
	if cfg.Source.URL != model.DefaultSourceURL {
		t.Errorf("Expected default URL, got %q", cfg.Source.URL)
	}
}

func TestBuildConfig_NoCacheRefreshes(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	flag := scrapeCmd.Flags().Lookup("no-cache")
	if err := flag.Value.Set("true"); err != nil {
		t.Fatalf("Set flag failed: %v", err)
	}
	flag.Changed = true
	t.Cleanup(func() {
		_ = flag.Value.Set(flag.DefValue)
		flag.Changed = false
	})

	cfg, err := buildConfig(scrapeCmd)
	if err != nil {
		t.Fatalf("buildConfig failed: %v", err)
	}
	if !cfg.Cache.Enabled || !cfg.Cache.Refresh {
		t.Errorf("Expected cache enabled with refresh, got %+v", cfg.Cache)
	}
}
