package config_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/devday/devday/internal/config"
	"github.com/devday/devday/internal/testutil"
)

func TestDefault(t *testing.T) {
	cfg := config.Default()

	testutil.AssertEqual(t, cfg.Server.Port, 8080)
	testutil.AssertEqual(t, cfg.OpenAI.Model, "gpt-3.5-turbo")
	testutil.AssertEqual(t, cfg.OpenAI.BaseURL, "https://api.openai.com")
	testutil.AssertEqual(t, time.Duration(cfg.Auth.SessionTTL), 30*24*time.Hour)
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "nope.json"))
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, cfg.Server.Port, 8080)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	cfg := config.Default()
	cfg.Server.Port = 9090
	cfg.OpenAI.Model = "gpt-4o-mini"
	cfg.OpenAI.APIKey = "sk-secret"
	testutil.AssertNoError(t, cfg.Save(path))

	testutil.SetEnv(t, "OPENAI_API_KEY", "")
	loaded, err := config.Load(path)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, loaded.Server.Port, 9090)
	testutil.AssertEqual(t, loaded.OpenAI.Model, "gpt-4o-mini")

	// The API key never lands on disk
	testutil.AssertEqual(t, loaded.OpenAI.APIKey, "")
	data, err := os.ReadFile(path)
	testutil.AssertNoError(t, err)
	if len(data) == 0 {
		t.Fatal("empty config file")
	}
	if bytes.Contains(data, []byte("sk-secret")) {
		t.Error("API key written to config file")
	}
}

func TestEnvOverridesAPIKey(t *testing.T) {
	testutil.SetEnv(t, "OPENAI_API_KEY", "sk-from-env")

	cfg, err := config.Load(filepath.Join(t.TempDir(), "nope.json"))
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, cfg.OpenAI.APIKey, "sk-from-env")
}

func TestDurationJSON(t *testing.T) {
	var d config.Duration
	testutil.AssertNoError(t, d.UnmarshalJSON([]byte(`"90m"`)))
	testutil.AssertEqual(t, time.Duration(d), 90*time.Minute)

	out, err := d.MarshalJSON()
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, string(out), `"1h30m0s"`)

	testutil.AssertNoError(t, d.UnmarshalJSON([]byte(`60000000000`)))
	testutil.AssertEqual(t, time.Duration(d), time.Minute)
}
