package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "pagebench/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// ExportConfig holds settings for the page export stage.
type ExportConfig struct {
	// DPI is the rendering resolution for page images (default 150).
	// Pages are rasterized at a linear scale of DPI/72 relative to the
	// 72-dpi PDF baseline.
	DPI int `json:"dpi" yaml:"dpi"`

	// Contrast is the multiplicative contrast enhancement applied to the
	// grayscale image variant (default 1.25; 1.0 is identity).
	Contrast float64 `json:"contrast" yaml:"contrast"`

	// OutputDir overrides the base output directory. When empty, the
	// source document's filename stem is used.
	OutputDir string `json:"output_dir,omitempty" yaml:"output_dir,omitempty"`
}

// AIConfig holds shared settings for stages that call a Generative AI API.
type AIConfig struct {
	// Model is the AI model identifier (e.g. "google/gemini-2.5-flash-lite").
	Model string `json:"model" yaml:"model"`

	// APIKey is the authentication key for the AI API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// BaseURL is the API endpoint base URL. Any OpenAI-compatible
	// endpoint works; the default targets OpenRouter.
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty"`

	// MaxRetries is the number of retry attempts for failed API calls (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// OCRProvider identifies the vision model provider family.
type OCRProvider string

const (
	ProviderOpenRouter OCRProvider = "openrouter"
	ProviderOpenAI     OCRProvider = "openai"
	ProviderAnthropic  OCRProvider = "anthropic"
)

// OCRConfig holds settings for the vision-LLM OCR stage.
type OCRConfig struct {
	AIConfig   `yaml:",inline"`
	HTTPConfig `yaml:",inline"`

	// Provider selects the model provider: openrouter, openai, or anthropic.
	Provider OCRProvider `json:"provider" yaml:"provider"`

	// RefineModel is the model used for the second, refinement pass.
	// When empty the transcription model is reused.
	RefineModel string `json:"refine_model,omitempty" yaml:"refine_model,omitempty"`
}

// CompareConfig holds settings for the markdown comparison stage.
type CompareConfig struct {
	// ContextLines is the number of context lines in unified diffs (default 3).
	ContextLines int `json:"context_lines" yaml:"context_lines"`
}

// RunLogConfig holds settings for the run ledger.
type RunLogConfig struct {
	// LogDir is the directory holding the ledger database (default ".pagebench").
	LogDir string `json:"log_dir" yaml:"log_dir"`
}

// PipelineConfig groups all stage configurations.
type PipelineConfig struct {
	Export  ExportConfig  `json:"export" yaml:"export"`
	OCR     OCRConfig     `json:"ocr" yaml:"ocr"`
	Compare CompareConfig `json:"compare" yaml:"compare"`
	RunLog  RunLogConfig  `json:"run_log" yaml:"run_log"`
}
