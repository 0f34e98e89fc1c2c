package config

import (
	"os"
	"testing"
)

func TestExpandEnvironmentVariables(t *testing.T) {
	os.Setenv("DSP_ENGINE_TEST_VAR", "48000")
	defer os.Unsetenv("DSP_ENGINE_TEST_VAR")

	got := ExpandEnvironmentVariables("rate=$DSP_ENGINE_TEST_VAR/sec")
	want := "rate=48000/sec"
	if got != want {
		t.Errorf("ExpandEnvironmentVariables = %q, want %q", got, want)
	}
}

func TestExpandEnvironmentVariablesUnknown(t *testing.T) {
	got := ExpandEnvironmentVariables("$DSP_ENGINE_DOES_NOT_EXIST")
	if got != "$DSP_ENGINE_DOES_NOT_EXIST" {
		t.Errorf("ExpandEnvironmentVariables on unknown var = %q, want literal", got)
	}
}

func TestGetStringDottedPath(t *testing.T) {
	c := New(map[string]any{
		"engine": map[string]any{
			"http": map[string]any{
				"host": "0.0.0.0",
			},
		},
	})

	got, ok := c.GetString("engine.http.host")
	if !ok || got != "0.0.0.0" {
		t.Errorf("GetString(engine.http.host) = %q, %v, want 0.0.0.0, true", got, ok)
	}

	_, ok = c.GetString("engine.http.missing")
	if ok {
		t.Error("GetString on missing key returned ok=true")
	}
}

func TestGetIntOrDefault(t *testing.T) {
	c := New(map[string]any{"engine": map[string]any{"http": map[string]any{"port": 7890}}})
	if got := c.GetIntOr("engine.http.port", 0); got != 7890 {
		t.Errorf("GetIntOr = %d, want 7890", got)
	}
	if got := c.GetIntOr("engine.http.missing", 42); got != 42 {
		t.Errorf("GetIntOr default = %d, want 42", got)
	}
}
