package ui

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"
	"unicode"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/go-resty/resty/v2"
	"github.com/raine/pricesnap/internal/config"
)

const (
	geminiAPIBaseURL  = "https://generativelanguage.googleapis.com"
	keyCheckTimeout   = 10 * time.Second
	providerLocalOnly = "local"
)

// RunSetupWizard asks for a vision provider and its API key and stores them in
// the config file. Choosing local-only skips the key. Returns true if the
// client should continue starting.
func RunSetupWizard(ctx context.Context, cfg config.Config) bool {
	fmt.Println()
	fmt.Println(titleStyle.Render("📸 PriceSnap - First-time Setup"))
	fmt.Println()

	provider := config.ProviderOpenAI
	var apiKey string

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Vision model").
				Description("Photos are sent to this provider for analysis").
				Options(
					huh.NewOption("OpenAI (gpt-4o)", config.ProviderOpenAI),
					huh.NewOption("Google Gemini", config.ProviderGemini),
					huh.NewOption("Local classifier only", providerLocalOnly),
				).
				Value(&provider),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("API Key").
				DescriptionFunc(func() string {
					if provider == config.ProviderGemini {
						return "Get yours at https://aistudio.google.com/apikey"
					}
					return "Get yours at https://platform.openai.com/api-keys"
				}, &provider).
				EchoMode(huh.EchoModePassword).
				Value(&apiKey).
				Validate(func(s string) error {
					if err := checkKeyFormat(s); err != nil {
						return err
					}
					ctx, cancel := context.WithTimeout(ctx, keyCheckTimeout)
					defer cancel()
					if provider == config.ProviderGemini {
						return validateGeminiKey(ctx, geminiAPIBaseURL, s)
					}
					return validateOpenAIKey(ctx, cfg.OpenAIBaseURL, s)
				}),
		).WithHideFunc(func() bool { return provider == providerLocalOnly }),
	).WithTheme(huh.ThemeBase16())

	if err := form.RunWithContext(ctx); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			fmt.Println("\nSetup cancelled.")
			return false
		}
		fmt.Printf("\nError: %v\n", err)
		return false
	}

	values := setupValues(provider, apiKey)
	path, err := config.EnvFilePath()
	if err == nil {
		err = config.WriteEnvFile(path, values)
	}
	if err != nil {
		fmt.Printf("\nError saving configuration: %v\n", err)
		return false
	}

	// Set values in current process
	for k, v := range values {
		os.Setenv(k, v)
	}

	pathStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	fmt.Println()
	fmt.Println(successStyle.Render("✓ Configuration saved"))
	fmt.Println(pathStyle.Render("  " + path))
	if provider == providerLocalOnly {
		fmt.Println(mutedStyle.Render("Continuing with the local classifier only."))
	}
	fmt.Println()
	return true
}

// setupValues returns the config.env entries for the chosen provider. Choosing
// a remote provider clears an earlier local-only choice.
func setupValues(provider, apiKey string) map[string]string {
	switch provider {
	case config.ProviderGemini:
		return map[string]string{
			"PREDICTION_PROVIDER": config.ProviderGemini,
			"GEMINI_API_KEY":      apiKey,
			"LOCAL_ONLY":          "false",
		}
	case config.ProviderOpenAI:
		return map[string]string{
			"PREDICTION_PROVIDER": config.ProviderOpenAI,
			"OPENAI_API_KEY":      apiKey,
			"LOCAL_ONLY":          "false",
		}
	default:
		return map[string]string{"LOCAL_ONLY": "true"}
	}
}

// checkKeyFormat rejects input that cannot be an API key. Keys are a single
// token without quotes, which also keeps them intact in config.env.
func checkKeyFormat(key string) error {
	if key == "" {
		return errors.New("API key is required")
	}
	if strings.ContainsAny(key, "\"'`\\") {
		return errors.New("API key must not contain quotes or backslashes")
	}
	if strings.IndexFunc(key, unicode.IsSpace) >= 0 {
		return errors.New("API key must not contain spaces")
	}
	return nil
}

type keyCheckError struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// validateOpenAIKey lists models, which is cheap and requires a valid key.
func validateOpenAIKey(ctx context.Context, baseURL, key string) error {
	var apiErr keyCheckError
	res, err := resty.New().R().
		SetContext(ctx).
		SetAuthToken(key).
		SetError(&apiErr).
		Get(baseURL + "/models")
	return keyCheckResult(ctx, res, err, apiErr)
}

// validateGeminiKey lists models, which is cheap and requires a valid key.
func validateGeminiKey(ctx context.Context, baseURL, key string) error {
	var apiErr keyCheckError
	res, err := resty.New().R().
		SetContext(ctx).
		SetQueryParam("key", key).
		SetError(&apiErr).
		Get(baseURL + "/v1beta/models")
	return keyCheckResult(ctx, res, err, apiErr)
}

func keyCheckResult(ctx context.Context, res *resty.Response, err error, apiErr keyCheckError) error {
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return errors.New("connection timed out - check your internet")
		}
		return errors.New("connection failed - check your internet")
	}
	switch res.StatusCode() {
	case http.StatusOK:
		return nil
	case http.StatusBadRequest, http.StatusUnauthorized, http.StatusForbidden:
		if apiErr.Error.Message != "" {
			return errors.New(apiErr.Error.Message)
		}
		return fmt.Errorf("API key rejected (HTTP %d)", res.StatusCode())
	default:
		return fmt.Errorf("unexpected response (HTTP %d)", res.StatusCode())
	}
}
