package llm

import (
	"testing"

	"github.com/maestrobot/gh-maestro/internal/config"
)

func TestFromConfig_Disabled(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.LLMConfig
	}{
		{
			name: "no provider",
			cfg:  config.LLMConfig{},
		},
		{
			name: "provider without key",
			cfg:  config.LLMConfig{Provider: "anthropic"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := FromConfig(&tt.cfg)
			if err != nil {
				t.Fatalf("FromConfig() error = %v, want nil", err)
			}
			if p != nil {
				t.Errorf("FromConfig() = %v, want nil (disabled)", p)
			}
		})
	}
}

func TestFromConfig_UnknownProvider(t *testing.T) {
	cfg := config.LLMConfig{Provider: "llama", APIKey: "key"}
	if _, err := FromConfig(&cfg); err == nil {
		t.Error("FromConfig(unknown provider) should return an error")
	}
}

func TestFromConfig_Anthropic(t *testing.T) {
	cfg := config.LLMConfig{Provider: "anthropic", APIKey: "test-key"}
	p, err := FromConfig(&cfg)
	if err != nil {
		t.Fatalf("FromConfig() error = %v", err)
	}
	if p == nil {
		t.Fatal("FromConfig() = nil, want provider")
	}
	defer p.Close()

	if _, ok := p.(*AnthropicProvider); !ok {
		t.Errorf("FromConfig() = %T, want *AnthropicProvider", p)
	}
}
