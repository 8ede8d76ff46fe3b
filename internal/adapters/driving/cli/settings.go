package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/wilson-cli/internal/core/domain"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure the parser, embedding provider, index and server.

Settings are stored in ~/.wilson/config.toml.`,
	RunE: runSettingsShow,
}

var settingsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all settings",
	Args:  cobra.NoArgs,
	RunE:  runSettingsShow,
}

var settingsGetCmd = &cobra.Command{
	Use:   "get [key]",
	Short: "Print one setting",
	Args:  cobra.ExactArgs(1),
	RunE:  runSettingsGet,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Change one setting",
	Long: `Change one setting. Secret keys prompt for their value when it is
omitted, without echoing it.

Examples:
  wilson settings set parser.api_key
  wilson settings set parser.provider llamaparse
  wilson settings set embedding.provider ollama
  wilson settings set index.metric cosine
  wilson settings set server.allowed_origins http://localhost:3000,https://app.example`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runSettingsSet,
}

func init() {
	settingsCmd.AddCommand(settingsListCmd)
	settingsCmd.AddCommand(settingsGetCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	rootCmd.AddCommand(settingsCmd)
}

// settingKey describes one user-facing setting.
// Keys with apply are routed through the settings service for validation;
// the rest are edited in place and saved.
type settingKey struct {
	name   string
	secret bool
	get    func(s *domain.AppSettings) string
	set    func(s *domain.AppSettings, value string) error
	apply  func(s *domain.AppSettings, value string) error
}

//nolint:gochecknoglobals // static key table
var settingKeys = []settingKey{
	{
		name: "data_dir",
		get:  func(s *domain.AppSettings) string { return s.DataDir },
		set: func(s *domain.AppSettings, v string) error {
			s.DataDir = v
			return nil
		},
	},
	{
		name: "parser.provider",
		get:  func(s *domain.AppSettings) string { return s.Parser.Provider.String() },
		apply: func(_ *domain.AppSettings, v string) error {
			return settingsService.SetParserProvider(domain.ParserProvider(strings.ToLower(v)), "")
		},
	},
	{
		name: "parser.base_url",
		get:  func(s *domain.AppSettings) string { return s.Parser.BaseURL },
		set: func(s *domain.AppSettings, v string) error {
			s.Parser.BaseURL = v
			return nil
		},
	},
	{
		name:   "parser.api_key",
		secret: true,
		get:    func(s *domain.AppSettings) string { return s.Parser.APIKey },
		set: func(s *domain.AppSettings, v string) error {
			s.Parser.APIKey = v
			return nil
		},
	},
	{
		name: "parser.requests_per_second",
		get:  func(s *domain.AppSettings) string { return formatFloat(s.Parser.RequestsPerSecond) },
		set: func(s *domain.AppSettings, v string) error {
			return parseFloatInto(&s.Parser.RequestsPerSecond, v)
		},
	},
	{
		name: "embedding.provider",
		get:  func(s *domain.AppSettings) string { return s.Embedding.Provider.String() },
		apply: func(s *domain.AppSettings, v string) error {
			provider := domain.AIProvider(strings.ToLower(v))
			apiKey := ""
			if provider.RequiresAPIKey() {
				apiKey = s.Embedding.APIKey
			}
			return settingsService.SetEmbeddingProvider(provider, "", apiKey)
		},
	},
	{
		name: "embedding.model",
		get:  func(s *domain.AppSettings) string { return s.Embedding.Model },
		set: func(s *domain.AppSettings, v string) error {
			s.Embedding.Model = v
			s.Embedding.Dimensions = domain.EmbeddingDimensions()[v]
			return nil
		},
	},
	{
		name: "embedding.base_url",
		get:  func(s *domain.AppSettings) string { return s.Embedding.BaseURL },
		set: func(s *domain.AppSettings, v string) error {
			s.Embedding.BaseURL = v
			return nil
		},
	},
	{
		name:   "embedding.api_key",
		secret: true,
		get:    func(s *domain.AppSettings) string { return s.Embedding.APIKey },
		set: func(s *domain.AppSettings, v string) error {
			s.Embedding.APIKey = v
			return nil
		},
	},
	{
		name: "embedding.dimensions",
		get:  func(s *domain.AppSettings) string { return strconv.Itoa(s.Embedding.Dimensions) },
		set: func(s *domain.AppSettings, v string) error {
			return parseIntInto(&s.Embedding.Dimensions, v, 0)
		},
	},
	{
		name: "embedding.requests_per_second",
		get:  func(s *domain.AppSettings) string { return formatFloat(s.Embedding.RequestsPerSecond) },
		set: func(s *domain.AppSettings, v string) error {
			return parseFloatInto(&s.Embedding.RequestsPerSecond, v)
		},
	},
	{
		name: "index.metric",
		get:  func(s *domain.AppSettings) string { return s.Index.Metric.String() },
		apply: func(_ *domain.AppSettings, v string) error {
			return settingsService.SetMetric(domain.DistanceMetric(strings.ToLower(v)))
		},
	},
	{
		name: "server.addr",
		get:  func(s *domain.AppSettings) string { return s.Server.Addr },
		set: func(s *domain.AppSettings, v string) error {
			s.Server.Addr = v
			return nil
		},
	},
	{
		name: "server.allowed_origins",
		get:  func(s *domain.AppSettings) string { return strings.Join(s.Server.AllowedOrigins, ",") },
		set: func(s *domain.AppSettings, v string) error {
			var origins []string
			for _, o := range strings.Split(v, ",") {
				if o = strings.TrimSpace(o); o != "" {
					origins = append(origins, o)
				}
			}
			s.Server.AllowedOrigins = origins
			return nil
		},
	},
	{
		name: "pipeline.heading.max_level",
		get: func(s *domain.AppSettings) string {
			return fmt.Sprint(s.Pipeline.GetProcessorConfig("heading")["max_level"])
		},
		set: func(s *domain.AppSettings, v string) error {
			var level int
			if err := parseIntInto(&level, v, 1); err != nil {
				return err
			}
			if level > domain.MaxHeadingLevel {
				return fmt.Errorf("%w: max_level must be between 1 and %d", domain.ErrInvalidInput, domain.MaxHeadingLevel)
			}
			if s.Pipeline.ProcessorConfigs == nil {
				s.Pipeline.ProcessorConfigs = map[string]map[string]any{}
			}
			s.Pipeline.ProcessorConfigs["heading"] = map[string]any{"max_level": level}
			return nil
		},
	},
}

func lookupSetting(name string) (settingKey, error) {
	for _, k := range settingKeys {
		if k.name == name {
			return k, nil
		}
	}
	return settingKey{}, fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, name)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	section := ""
	for _, k := range settingKeys {
		if s, _, found := strings.Cut(k.name, "."); found && s != section {
			section = s
			cmd.Printf("[%s]\n", section)
		}
		cmd.Printf("  %s = %s\n", k.name, displayValue(k, settings))
	}
	cmd.Println()

	if err := settingsService.Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
		cmd.Println("Run 'wilson settings set <key> <value>' to fix configuration issues.")
	} else {
		cmd.Println("Configuration is valid.")
	}

	return nil
}

func runSettingsGet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	key, err := lookupSetting(args[0])
	if err != nil {
		return err
	}
	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println(displayValue(key, settings))
	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	key, err := lookupSetting(args[0])
	if err != nil {
		return err
	}

	var value string
	switch {
	case len(args) == 2:
		value = strings.TrimSpace(args[1])
	case key.secret:
		cmd.Printf("Enter %s: ", key.name)
		value = readPassword(cmd.InOrStdin())
		cmd.Println()
	default:
		return fmt.Errorf("%w: a value is required for %s", domain.ErrInvalidInput, key.name)
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	if key.apply != nil {
		err = key.apply(settings, value)
	} else {
		err = key.set(settings, value)
		if err == nil {
			err = settingsService.Save(settings)
		}
	}
	if err != nil {
		return fmt.Errorf("failed to set %s: %w", key.name, err)
	}

	if key.secret {
		cmd.Printf("%s updated\n", key.name)
	} else {
		cmd.Printf("%s = %s\n", key.name, value)
	}
	return nil
}

func displayValue(k settingKey, s *domain.AppSettings) string {
	v := k.get(s)
	switch {
	case k.secret && v == "":
		return "(not set)"
	case k.secret:
		return maskAPIKey(v)
	case v == "":
		return "(default)"
	default:
		return v
	}
}

func parseIntInto(dst *int, v string, minVal int) error {
	n, err := strconv.Atoi(v)
	if err != nil || n < minVal {
		return fmt.Errorf("%w: %q is not a whole number >= %d", domain.ErrInvalidInput, v, minVal)
	}
	*dst = n
	return nil
}

func parseFloatInto(dst *float64, v string) error {
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f < 0 {
		return fmt.Errorf("%w: %q is not a non-negative number", domain.ErrInvalidInput, v)
	}
	*dst = f
	return nil
}

func formatFloat(f float64) string {
	if f == 0 {
		return ""
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// Helper functions.

//nolint:errcheck // CLI helper, error ignored for UX
func readPassword(in io.Reader) string {
	// Try to read password without echo
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		password, err := term.ReadPassword(int(f.Fd()))
		if err == nil {
			return strings.TrimSpace(string(password))
		}
	}
	// Fallback to regular input
	reader := bufio.NewReader(in)
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
