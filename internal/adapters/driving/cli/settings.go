package cli

import (
	"bufio"
	"cmp"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/contentrag/internal/core/domain"
	"github.com/custodia-labs/contentrag/internal/core/services"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure AI providers, chunking, search, storage and caching.

Every setting can also be overridden by a CONTENTRAG_* environment variable,
e.g. search.threshold by CONTENTRAG_SEARCH_THRESHOLD.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Change a single setting",
	Long: `Change a single setting. API keys are prompted for without echo
when the value is omitted. Run 'contentrag settings keys' for the list of keys.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runSettingsSet,
}

var settingsKeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List setting keys and their environment variables",
	Args:  cobra.NoArgs,
	RunE:  runSettingsKeys,
}

var settingsEmbeddingCmd = &cobra.Command{
	Use:   "embedding",
	Short: "Configure embedding provider",
	Long:  `Configure the embedding provider used for ingestion and search.`,
	RunE:  runSettingsEmbedding,
}

var settingsLLMCmd = &cobra.Command{
	Use:   "llm",
	Short: "Configure LLM provider",
	Long:  `Configure the LLM provider used for content generation.`,
	RunE:  runSettingsLLM,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsKeysCmd)
	settingsCmd.AddCommand(settingsEmbeddingCmd)
	settingsCmd.AddCommand(settingsLLMCmd)
	rootCmd.AddCommand(settingsCmd)
}

// section is one bracketed block of `settings show` output.
type section struct {
	title string
	rows  [][2]string
}

func (s *section) add(label, format string, args ...any) {
	s.rows = append(s.rows, [2]string{label, fmt.Sprintf(format, args...)})
}

func (s *section) addIf(ok bool, label, format string, args ...any) {
	if ok {
		s.add(label, format, args...)
	}
}

func configuredRow(sec *section, ok bool) {
	if ok {
		sec.add("Status", "configured")
		return
	}
	sec.add("Status", "not configured")
}

func providerSection(title string, p domain.AIProvider, model, baseURL, apiKey string) section {
	sec := section{title: title}
	if p == "" {
		sec.add("Provider", "(none, fallback template is used)")
	} else {
		sec.add("Provider", "%s", p.Description())
		sec.addIf(p != domain.AIProviderMock, "Model", "%s", model)
		sec.addIf(p.IsLocal(), "Base URL", "%s", baseURL)
		sec.addIf(p.RequiresAPIKey(), "API Key", "%s", cmp.Or(maskedOrEmpty(apiKey), "(not set)"))
	}
	return sec
}

func settingsSections(s *domain.AppSettings) []section {
	emb := providerSection("Embedding", s.Embedding.Provider, s.Embedding.Model, s.Embedding.BaseURL, s.Embedding.APIKey)
	emb.add("Dimensions", "%d", s.Embedding.Dimensions)
	emb.addIf(s.Embedding.RequestsPerSecond > 0, "Rate limit", "%g req/s", s.Embedding.RequestsPerSecond)
	configuredRow(&emb, s.Embedding.IsConfigured())

	llm := providerSection("LLM", s.LLM.Provider, s.LLM.Model, s.LLM.BaseURL, s.LLM.APIKey)
	configuredRow(&llm, s.LLM.IsConfigured())

	pipeline := section{title: "Pipeline"}
	pipeline.add("Chunk size", "%d", s.Pipeline.ChunkSize)
	pipeline.add("Overlap", "%d", s.Pipeline.Overlap)
	pipeline.add("Max file size", "%d bytes", s.Pipeline.MaxFileSize)

	search := section{title: "Search"}
	search.add("Limit", "%d", s.Search.Limit)
	search.add("Threshold", "%g", s.Search.Threshold)
	search.add("Candidates", "%d", s.Search.CandidateLimit)
	search.add("Context budget", "%d characters", s.Context.MaxChars)

	storage := section{title: "Storage"}
	storage.add("Store", "%s", s.Store.Backend)
	storage.addIf(s.Store.DataDir != "", "Data dir", "%s", s.Store.DataDir)
	storage.add("Cache", "%s", s.Cache.Backend)
	storage.addIf(s.Cache.Backend == domain.CacheBackendLRU, "Cache size", "%d", s.Cache.Size)
	storage.addIf(s.Cache.Backend == domain.CacheBackendRedis, "Redis", "%s", s.Cache.RedisAddr)
	storage.addIf(s.Cache.Backend != domain.CacheBackendNone, "Cache TTL", "%s", s.Cache.TTL)
	storage.add("Blobs", "%s", s.Blob.Backend)
	storage.addIf(s.Blob.Backend == domain.BlobBackendLocal && s.Blob.Dir != "", "Blob dir", "%s", s.Blob.Dir)
	storage.addIf(s.Blob.Backend == domain.BlobBackendS3, "Bucket", "%s (%s)", s.Blob.Bucket, s.Blob.Region)
	storage.addIf(s.Blob.Backend == domain.BlobBackendS3 && s.Blob.Endpoint != "", "Endpoint", "%s", s.Blob.Endpoint)

	return []section{emb, llm, pipeline, search, storage}
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
	for _, sec := range settingsSections(settings) {
		cmd.Printf("\n[%s]\n", sec.title)
		for _, row := range sec.rows {
			cmd.Printf("  %s: %s\n", row[0], row[1])
		}
	}
	cmd.Println()

	if err := settingsService.Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
		cmd.Println("Run 'contentrag settings set' to fix configuration issues.")
		return nil
	}
	cmd.Println("Configuration is valid.")
	return nil
}

func isSecretKey(key string) bool { return strings.HasSuffix(key, ".api_key") }

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	key := args[0]
	var value string
	switch {
	case len(args) == 2:
		value = args[1]
	case isSecretKey(key):
		cmd.Printf("Enter value for %s: ", key)
		value = readSecret(cmd, bufio.NewReader(cmd.InOrStdin()))
		cmd.Println()
	default:
		return fmt.Errorf("missing value for %s", key)
	}

	if err := settingsService.Set(key, value); err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			cmd.PrintErrf("Valid keys: %s\n", strings.Join(services.SettingKeys(), ", "))
		}
		return fmt.Errorf("failed to set %s: %w", key, err)
	}

	shown := value
	if isSecretKey(key) {
		shown = maskAPIKey(value)
	}
	cmd.Printf("%s = %s\n", key, shown)
	return nil
}

func runSettingsKeys(cmd *cobra.Command, _ []string) error {
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "KEY\tENVIRONMENT")
	for _, key := range services.SettingKeys() {
		fmt.Fprintf(tw, "%s\t%s\n", key, services.EnvName(key))
	}
	return tw.Flush()
}

// providerWizard is one interactive provider selection flow.
type providerWizard struct {
	kind      string
	providers []domain.AIProvider
	models    map[domain.AIProvider]string
	apply     func(p domain.AIProvider, model, apiKey string) error
	validate  func() error
}

func runSettingsEmbedding(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}
	return runWizard(cmd, bufio.NewReader(cmd.InOrStdin()), providerWizard{
		kind:      "embedding",
		providers: domain.AllEmbeddingProviders(),
		models:    domain.DefaultEmbeddingModels(),
		apply:     settingsService.SetEmbeddingProvider,
		validate:  settingsService.ValidateEmbeddingConfig,
	})
}

func runSettingsLLM(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}
	return runWizard(cmd, bufio.NewReader(cmd.InOrStdin()), providerWizard{
		kind:      "LLM",
		providers: domain.AllLLMProviders(),
		models:    domain.DefaultLLMModels(),
		apply:     settingsService.SetLLMProvider,
		validate:  settingsService.ValidateLLMConfig,
	})
}

// runWizard asks for provider, model and, for cloud providers, an API key,
// then saves and pings the result.
func runWizard(cmd *cobra.Command, in *bufio.Reader, w providerWizard) error {
	cmd.Printf("Select %s provider\n", w.kind)
	for i, p := range w.providers {
		cmd.Printf("  %d. %s\n", i+1, p.Description())
	}
	cmd.Print("\nEnter choice [1]: ")
	provider := w.providers[parseChoice(readLine(in), len(w.providers), 1)-1]

	model := w.models[provider]
	cmd.Printf("Enter model name [%s]: ", model)
	if typed := readLine(in); typed != "" {
		model = typed
	}

	var apiKey string
	if provider.RequiresAPIKey() {
		cmd.Print("Enter API key: ")
		apiKey = readSecret(cmd, in)
		cmd.Println()
		if apiKey == "" {
			return fmt.Errorf("%s requires an API key", provider)
		}
	}

	if err := w.apply(provider, model, apiKey); err != nil {
		return fmt.Errorf("failed to configure %s provider: %w", w.kind, err)
	}

	cmd.Print("Validating configuration... ")
	if err := w.validate(); err != nil {
		cmd.Printf("FAILED: %v\n", err)
		return fmt.Errorf("%s configuration validation failed: %w", w.kind, err)
	}
	cmd.Println("OK")
	cmd.Printf("%s provider configured: %s (%s)\n", w.kind, provider.Description(), model)
	return nil
}

func readLine(in *bufio.Reader) string {
	line, _ := in.ReadString('\n')
	return strings.TrimSpace(line)
}

// parseChoice returns def for blank or out-of-range input.
func parseChoice(input string, maxVal, def int) int {
	n, err := strconv.Atoi(input)
	if err != nil || n < 1 || n > maxVal {
		return def
	}
	return n
}

// readSecret reads without echo when stdin is a terminal and falls back to
// a plain line otherwise, e.g. when piped or under test.
func readSecret(cmd *cobra.Command, in *bufio.Reader) string {
	if f, ok := cmd.InOrStdin().(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		if b, err := term.ReadPassword(int(f.Fd())); err == nil {
			return strings.TrimSpace(string(b))
		}
	}
	return readLine(in)
}

func maskedOrEmpty(key string) string {
	if key == "" {
		return ""
	}
	return maskAPIKey(key)
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
