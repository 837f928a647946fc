package llm

import (
	"testing"
	"time"
)

// clearLLMEnv blanks every env var the config reads so ambient keys on the
// test machine can't leak into assertions.
func clearLLMEnv(t *testing.T) {
	t.Helper()
	for _, v := range []string{
		"GEMINI_API_KEY", "OPENAI_API_KEY", "ANTHROPIC_API_KEY", "OPENROUTER_API_KEY",
		"RESONA_LLM_PROVIDER",
		"RESONA_GEMINI_API_KEY", "RESONA_GEMINI_MODEL",
		"RESONA_ANTHROPIC_API_KEY", "RESONA_ANTHROPIC_MODEL",
		"RESONA_OPENAI_API_KEY", "RESONA_OPENAI_MODEL", "RESONA_OPENAI_BASE_URL",
		"RESONA_OPENROUTER_API_KEY", "RESONA_OPENROUTER_MODEL",
	} {
		t.Setenv(v, "")
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Provider != "gemini" {
		t.Errorf("provider = %q, want gemini", cfg.Provider)
	}
	if cfg.Gemini.Model != "gemini-flash" {
		t.Errorf("gemini model = %q", cfg.Gemini.Model)
	}
	if cfg.Retry.MaxAttempts != 3 {
		t.Errorf("max attempts = %d, want 3", cfg.Retry.MaxAttempts)
	}
	if cfg.Retry.Wait != 5*time.Second {
		t.Errorf("wait = %v, want 5s", cfg.Retry.Wait)
	}
}

func TestDiscoverConfig_NothingSet(t *testing.T) {
	clearLLMEnv(t)

	_, ok := DiscoverConfig()
	if ok {
		t.Fatal("expected no config with no keys set")
	}
}

func TestDiscoverConfig_GeminiWinsProbeOrder(t *testing.T) {
	clearLLMEnv(t)
	t.Setenv("GEMINI_API_KEY", "g-key")
	t.Setenv("OPENAI_API_KEY", "o-key")

	cfg, ok := DiscoverConfig()
	if !ok {
		t.Fatal("expected config")
	}
	if cfg.Provider != "gemini" {
		t.Errorf("provider = %q, want gemini", cfg.Provider)
	}
	if cfg.Gemini.APIKey != "g-key" {
		t.Errorf("api key = %q", cfg.Gemini.APIKey)
	}
}

func TestDiscoverConfig_FallsThroughToAnthropic(t *testing.T) {
	clearLLMEnv(t)
	t.Setenv("ANTHROPIC_API_KEY", "a-key")

	cfg, ok := DiscoverConfig()
	if !ok {
		t.Fatal("expected config")
	}
	if cfg.Provider != "anthropic" {
		t.Errorf("provider = %q, want anthropic", cfg.Provider)
	}
	if cfg.Anthropic.APIKey != "a-key" {
		t.Errorf("api key = %q", cfg.Anthropic.APIKey)
	}
	if cfg.Anthropic.Model != "claude-haiku" {
		t.Errorf("model = %q, want default claude-haiku", cfg.Anthropic.Model)
	}
}

func TestDiscoverConfig_ExplicitProviderOverride(t *testing.T) {
	clearLLMEnv(t)
	t.Setenv("GEMINI_API_KEY", "g-key")
	t.Setenv("RESONA_LLM_PROVIDER", "openai")
	t.Setenv("RESONA_OPENAI_API_KEY", "o-key")

	cfg, ok := DiscoverConfig()
	if !ok {
		t.Fatal("expected config")
	}
	if cfg.Provider != "openai" {
		t.Errorf("provider = %q, want openai", cfg.Provider)
	}
	if cfg.OpenAI.APIKey != "o-key" {
		t.Errorf("api key = %q", cfg.OpenAI.APIKey)
	}
}

func TestDiscoverConfig_ModelOverlay(t *testing.T) {
	clearLLMEnv(t)
	t.Setenv("GEMINI_API_KEY", "g-key")
	t.Setenv("RESONA_GEMINI_MODEL", "gemini-pro")

	cfg, ok := DiscoverConfig()
	if !ok {
		t.Fatal("expected config")
	}
	if cfg.Gemini.Model != "gemini-pro" {
		t.Errorf("model = %q, want gemini-pro", cfg.Gemini.Model)
	}
}

func TestConfigFromEnv_Defaults(t *testing.T) {
	clearLLMEnv(t)

	cfg := ConfigFromEnv()
	if cfg.Provider != "gemini" {
		t.Errorf("provider = %q, want gemini", cfg.Provider)
	}
	if cfg.OpenAI.Model != "gpt-4o-mini" {
		t.Errorf("openai model = %q", cfg.OpenAI.Model)
	}
}

func TestConfigFromEnv_Overrides(t *testing.T) {
	clearLLMEnv(t)
	t.Setenv("RESONA_LLM_PROVIDER", "openrouter")
	t.Setenv("RESONA_OPENROUTER_API_KEY", "or-key")
	t.Setenv("RESONA_OPENROUTER_MODEL", "meta-llama/llama-3-8b")

	cfg := ConfigFromEnv()
	if cfg.Provider != "openrouter" {
		t.Errorf("provider = %q, want openrouter", cfg.Provider)
	}
	if cfg.OpenRouter.APIKey != "or-key" {
		t.Errorf("api key = %q", cfg.OpenRouter.APIKey)
	}
	if cfg.OpenRouter.Model != "meta-llama/llama-3-8b" {
		t.Errorf("model = %q", cfg.OpenRouter.Model)
	}
}
