package cmd

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/linanwx/nagochat/config"
	"github.com/linanwx/nagochat/provider"
)

var onboardCmd = &cobra.Command{
	Use:   "onboard",
	Short: "Initialize nagochat configuration",
	Long:  `Create the nagochat configuration directory and default config file.`,
	RunE:  runOnboard,
}

func init() {
	rootCmd.AddCommand(onboardCmd)
}

// providerURLs maps provider names to their API key portal URLs.
var providerURLs = map[string]string{
	"deepseek":  "https://platform.deepseek.com",
	"openai":    "https://platform.openai.com/api-keys",
	"anthropic": "https://console.anthropic.com",
}

func runOnboard(_ *cobra.Command, _ []string) error {
	configPath, err := config.ConfigPath()
	if err != nil {
		return err
	}
	if _, err := os.Stat(configPath); err == nil {
		fmt.Println("Config already exists at:", configPath)
		fmt.Println("To reconfigure, edit the file directly or delete it first.")
		return nil
	}

	cfg := config.DefaultConfig()

	// --- interactive wizard ---

	var (
		endpoint         = cfg.Console.Endpoint
		locale           = cfg.Console.Locale
		selectedProvider string
		apiKey           string
	)

	// Step 1: console
	err = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Responder endpoint").
				Description("The console posts messages here. Keep the default to use 'nagochat serve'.").
				Validate(validateEndpoint).
				Value(&endpoint),
			huh.NewSelect[string]().
				Title("Console language").
				Options(
					huh.NewOption("English", "en"),
					huh.NewOption("简体中文", "zh"),
				).
				Value(&locale),
		),
	).Run()
	if err != nil {
		return err
	}

	// Step 2: backend for the local responder
	err = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Choose the responder backend").
				Description("Used by 'nagochat serve'. echo needs no API key.").
				Options(buildProviderOptions()...).
				Value(&selectedProvider),
		),
	).Run()
	if err != nil {
		return err
	}

	// Step 3: API key
	if reg, ok := provider.Registration(selectedProvider); ok && reg.NeedsKey {
		keyURL := providerURLs[selectedProvider]
		err = huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title("Enter your "+selectedProvider+" API key").
					Description("Create one at "+keyURL+". Leave empty to use "+reg.EnvKey+".").
					EchoMode(huh.EchoModePassword).
					Value(&apiKey),
			),
		).Run()
		if err != nil {
			return err
		}
	}

	// --- apply config ---

	cfg.Console.Endpoint = strings.TrimSpace(endpoint)
	cfg.Console.Locale = locale
	cfg.Server.Provider = selectedProvider
	if strings.TrimSpace(apiKey) != "" {
		cfg.SetProviderAPIKey(selectedProvider, apiKey)
	}

	if err := cfg.Save(); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Println()
	fmt.Println("nagochat initialized successfully!")
	fmt.Println()
	fmt.Println("  Config:", configPath)
	fmt.Println("  Endpoint:", cfg.Console.Endpoint)
	fmt.Println("  Backend:", selectedProvider)
	fmt.Println()
	fmt.Println("Run 'nagochat serve' in one terminal and 'nagochat' in another.")
	return nil
}

func validateEndpoint(s string) error {
	u, err := url.Parse(strings.TrimSpace(s))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("enter a full URL such as http://127.0.0.1:8000/get_response/")
	}
	return nil
}

func buildProviderOptions() []huh.Option[string] {
	names := provider.SupportedProviders()
	// Put deepseek first.
	sorted := make([]string, 0, len(names))
	for _, n := range names {
		if n == "deepseek" {
			sorted = append([]string{n}, sorted...)
		} else {
			sorted = append(sorted, n)
		}
	}
	options := make([]huh.Option[string], 0, len(sorted))
	for _, name := range sorted {
		label := name
		if reg, ok := provider.Registration(name); ok && reg.DefaultModel != "" {
			label += " (" + reg.DefaultModel + ")"
		}
		if name == "deepseek" {
			label += " [Recommended]"
		}
		options = append(options, huh.NewOption(label, name))
	}
	return options
}
