package entities

import "strings"

type ProviderType string

const (
	ProviderOpenAI   ProviderType = "openai"
	ProviderGroq     ProviderType = "groq"
	ProviderCerebras ProviderType = "cerebras"
	ProviderOllama   ProviderType = "ollama"
	ProviderGeneric  ProviderType = "generic"
)

// Provider describes an OpenAI-compatible chat endpoint.
type Provider struct {
	Type         ProviderType
	Name         string
	BaseURL      string
	APIKeyName   string
	DefaultModel string
}

func DefaultProviders() []Provider {
	return []Provider{
		{Type: ProviderOpenAI, Name: "OpenAI", BaseURL: "https://api.openai.com/v1", APIKeyName: "OPENAI_API_KEY", DefaultModel: "gpt-4o-mini"},
		{Type: ProviderGroq, Name: "Groq", BaseURL: "https://api.groq.com/openai/v1", APIKeyName: "GROQ_API_KEY", DefaultModel: "llama-3.3-70b-versatile"},
		{Type: ProviderCerebras, Name: "Cerebras", BaseURL: "https://api.cerebras.ai/v1", APIKeyName: "CRE_API_KEY", DefaultModel: "llama3.1-70b"},
		{Type: ProviderOllama, Name: "Ollama", BaseURL: "http://localhost:11434/v1", APIKeyName: "OLLAMA_API_KEY", DefaultModel: "llama3.1"},
		{Type: ProviderGeneric, Name: "Generic", BaseURL: "", APIKeyName: "GAURIKA_API_KEY", DefaultModel: ""},
	}
}

// LookupProvider finds a provider by type, case-insensitively.
func LookupProvider(name string) (Provider, bool) {
	for _, p := range DefaultProviders() {
		if string(p.Type) == strings.ToLower(strings.TrimSpace(name)) {
			return p, true
		}
	}
	return Provider{}, false
}
