package config

// SampleConfig returns a fully commented configuration file
func SampleConfig() string {
	return `# SalesDash configuration
version: "1.0"

ai:
  # gemini, openai or ollama
  provider: gemini
  model: gemini-2.5-flash
  # leave empty for the provider default
  endpoint: ""
  # leave empty to read GEMINI_API_KEY / API_KEY (gemini) or OPENAI_API_KEY (openai)
  api_key: ""
  timeout: 120s
  # each analysis is a single attempt unless this is raised
  max_retries: 0
  max_tokens: 0

server:
  addr: 127.0.0.1:8080
  # sample and analyze requests per client IP
  rate_limit_per_minute: 10
  allowed_origins:
    - http://localhost:3000
  read_timeout: 15s
  write_timeout: 30s
  max_input_bytes: 10485760

output:
  # text, json, markdown, csv or html
  format: text
  # auto, always or never
  color: auto
  emoji: true
  verbose: false

ui:
  phase_interval: 1.2s
  # default, high-contrast or minimal
  theme: default
  alt_screen: true
`
}

// MinimalSampleConfig returns a compact configuration with essential settings
func MinimalSampleConfig() string {
	return `version: "1.0"
ai:
  provider: gemini
  model: gemini-2.5-flash
output:
  format: text
`
}
