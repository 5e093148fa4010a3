package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/talentwire/linkedin-mcp-bridge/configs"
	"github.com/talentwire/linkedin-mcp-bridge/internal/app"
	"github.com/talentwire/linkedin-mcp-bridge/internal/audit"
	"github.com/talentwire/linkedin-mcp-bridge/internal/auth"
	"github.com/talentwire/linkedin-mcp-bridge/internal/cache"
	"github.com/talentwire/linkedin-mcp-bridge/internal/config"
	"github.com/talentwire/linkedin-mcp-bridge/internal/constants"
	"github.com/talentwire/linkedin-mcp-bridge/internal/http/health"
	"github.com/talentwire/linkedin-mcp-bridge/internal/linkedin"
	"github.com/talentwire/linkedin-mcp-bridge/internal/log"
	"github.com/talentwire/linkedin-mcp-bridge/internal/proxy"
	"github.com/talentwire/linkedin-mcp-bridge/internal/session"
	"github.com/talentwire/linkedin-mcp-bridge/internal/timeutil"
)

var (
	flagConfig     string
	flagTransport  string
	flagHTTPURL    string
	flagCommand    []string
	flagTimeout    int
	flagLimit      int
	flagKeywords   string
	flagLocation   string
	flagTimePosted string
)

var rootCmd = &cobra.Command{
	Use:           "linkedin-bridge",
	Short:         "Proxy and CLI for the LinkedIn MCP server",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the backend proxy",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

var listToolsCmd = &cobra.Command{
	Use:   "list-tools",
	Short: "List tools advertised by the external server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(func(ctx context.Context, client *linkedin.Client) error {
			tools, err := client.ListTools(ctx)
			if err != nil {
				return err
			}
			fmt.Printf("Available tools (%d):\n\n", len(tools))
			for _, tool := range tools {
				fmt.Printf("  %s\n", tool.Name)
				if tool.Description != "" {
					fmt.Printf("    %s\n", tool.Description)
				}
			}
			return nil
		})
	},
}

var personCmd = &cobra.Command{
	Use:   "person <url>",
	Short: "Fetch a person profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(func(ctx context.Context, client *linkedin.Client) error {
			profile, err := client.GetPersonProfile(ctx, args[0])
			if err != nil {
				return err
			}
			return printJSON(profile)
		})
	},
}

var companyCmd = &cobra.Command{
	Use:   "company <url>",
	Short: "Fetch a company profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(func(ctx context.Context, client *linkedin.Client) error {
			company, err := client.GetCompanyProfile(ctx, args[0])
			if err != nil {
				return err
			}
			return printJSON(company)
		})
	},
}

var postsCmd = &cobra.Command{
	Use:   "posts <url>",
	Short: "Fetch recent company posts",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var limit *int
		if cmd.Flags().Changed("limit") {
			limit = &flagLimit
		}
		return withClient(func(ctx context.Context, client *linkedin.Client) error {
			posts, err := client.GetCompanyPosts(ctx, args[0], limit)
			if err != nil {
				return err
			}
			return printJSON(posts)
		})
	},
}

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search job postings",
	RunE: func(cmd *cobra.Command, args []string) error {
		params := linkedin.JobSearchParams{
			Keywords:   flagKeywords,
			Location:   flagLocation,
			TimePosted: flagTimePosted,
		}
		if cmd.Flags().Changed("limit") {
			params.Limit = flagLimit
		}
		return withClient(func(ctx context.Context, client *linkedin.Client) error {
			result, err := client.SearchJobs(ctx, params)
			if err != nil {
				return err
			}
			return printJSON(result)
		})
	},
}

var jobCmd = &cobra.Command{
	Use:   "job <url>",
	Short: "Fetch details for a job posting",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(func(ctx context.Context, client *linkedin.Client) error {
			details, err := client.GetJobDetails(ctx, args[0])
			if err != nil {
				return err
			}
			return printJSON(details)
		})
	},
}

var closeCmd = &cobra.Command{
	Use:   "close",
	Short: "Close the external server's browser session",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(func(ctx context.Context, client *linkedin.Client) error {
			closed, err := client.CloseSession(ctx)
			if err != nil {
				return err
			}
			return printJSON(closed)
		})
	},
}

var interactiveCmd = &cobra.Command{
	Use:   "interactive",
	Short: "Explore tools in a REPL over one connected session",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(runInteractive)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "path to YAML config (defaults to $LINKEDIN_BRIDGE_CONFIG)")
	rootCmd.PersistentFlags().StringVar(&flagTransport, "transport", "", "transport to the MCP server (stdio or http)")
	rootCmd.PersistentFlags().StringVar(&flagHTTPURL, "http-url", "", "MCP server base URL for http transport")
	rootCmd.PersistentFlags().StringSliceVar(&flagCommand, "command", nil, "command spawning the MCP server for stdio transport")
	rootCmd.PersistentFlags().IntVar(&flagTimeout, "timeout", 0, "per-call timeout in seconds")

	postsCmd.Flags().IntVar(&flagLimit, "limit", 10, "maximum number of posts")
	searchCmd.Flags().StringVar(&flagKeywords, "keywords", "", "search keywords")
	searchCmd.Flags().StringVar(&flagLocation, "location", "", "location filter")
	searchCmd.Flags().IntVar(&flagLimit, "limit", 10, "maximum number of results")
	searchCmd.Flags().StringVar(&flagTimePosted, "time-posted", "", "time filter, e.g. 24h or 7d")

	rootCmd.AddCommand(serveCmd, listToolsCmd, personCmd, companyCmd, postsCmd, searchCmd, jobCmd, closeCmd, interactiveCmd)
}

func main() {
	// Optional .env for local development; missing files are fine.
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadFileConfig reads the YAML config from the flag/env path, falling back
// to the embedded default when no file exists on disk.
func loadFileConfig(envCfg config.Config) (*config.File, error) {
	path := flagConfig
	if path == "" {
		path = envCfg.ConfigPath
	}
	if _, err := os.Stat(path); err == nil {
		return config.LoadFile(path)
	}
	raw, err := configs.Default()
	if err != nil {
		return nil, err
	}
	return config.LoadBytes(raw)
}

// clientConfig merges the file config with CLI flag overrides.
func clientConfig(fileCfg *config.File, store *session.Store) linkedin.Config {
	cfg := linkedin.Config{
		Transport:      fileCfg.MCP.Transport,
		Command:        fileCfg.MCP.Command,
		Args:           fileCfg.MCP.Args,
		Env:            fileCfg.MCP.Env,
		HTTPURL:        fileCfg.MCP.HTTPURL,
		Timeout:        timeutil.ParseDurationOrDefault(fileCfg.MCP.Timeout, 30*time.Second),
		ConnectTimeout: timeutil.ParseDurationOrDefault(fileCfg.MCP.ConnectTimeout, 0),
		Cookie:         store.Get,
	}
	if flagTransport != "" {
		cfg.Transport = flagTransport
	}
	if flagHTTPURL != "" {
		cfg.HTTPURL = flagHTTPURL
		if flagTransport == "" {
			cfg.Transport = constants.TransportHTTP
		}
	}
	if len(flagCommand) > 0 {
		cfg.Command = flagCommand[0]
		cfg.Args = flagCommand[1:]
	}
	if flagTimeout > 0 {
		cfg.Timeout = time.Duration(flagTimeout) * time.Second
	}
	return cfg
}

// withClient runs fn inside a scoped client session wired to signal handling.
func withClient(fn func(context.Context, *linkedin.Client) error) error {
	envCfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	logger := log.New(envCfg.LogLevel, "text")

	fileCfg, err := loadFileConfig(envCfg)
	if err != nil {
		return err
	}

	store := session.NewStore("")
	cfg := clientConfig(fileCfg, store)
	cfg.Logger = logger

	client, err := linkedin.NewClient(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return client.Session(ctx, func(c *linkedin.Client) error {
		return fn(ctx, c)
	})
}

func runServe() error {
	envCfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	logger := log.New(envCfg.LogLevel, envCfg.LogFormat)

	fileCfg, err := loadFileConfig(envCfg)
	if err != nil {
		logger.Error("load config failed", "error", err)
		return err
	}

	store := session.NewStore("")

	verifier, err := buildVerifier(fileCfg.Auth)
	if err != nil {
		logger.Error("configure auth failed", "error", err)
		return err
	}

	var responseCache *cache.Cache
	if fileCfg.Cache.Enabled {
		ttl := timeutil.ParseDurationOrDefault(fileCfg.Cache.TTL, 5*time.Minute)
		responseCache = cache.New(ttl, fileCfg.Cache.MaxEntries)
	}

	clientCfg := clientConfig(fileCfg, store)
	clientCfg.Logger = logger

	handler := proxy.New(proxy.Options{
		Dialer:        &proxy.Dialer{Config: clientCfg},
		Verifier:      verifier,
		Sessions:      store,
		Cache:         responseCache,
		RatePerMinute: fileCfg.Server.RatePerMinute,
		RateBurst:     fileCfg.Server.RateBurst,
		Audit:         audit.New(logger),
		Logger:        logger,
		SearchDelay:   timeutil.ParseDurationOrDefault(fileCfg.Server.SearchDelay, time.Second),
	})

	baseCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, syscall.SIGHUP)
	go func() {
		sig := <-sigCh
		logger.Warn("shutdown requested", "signal", sig.String())
		cancel()
	}()

	application, err := app.New(baseCtx, fileCfg.Server, handler.Routes(), health.New(store), logger, envCfg.ShutdownTimeout)
	if err != nil {
		logger.Error("build server failed", "error", err)
		return err
	}

	return application.Run(baseCtx)
}

func buildVerifier(authCfg config.AuthConfig) (auth.Verifier, error) {
	switch authCfg.Mode {
	case constants.AuthModeRemote:
		verifier := auth.NewHTTPVerifier(authCfg.VerifyURL, timeutil.ParseDurationOrDefault(authCfg.Timeout, 5*time.Second))
		ttl := timeutil.ParseDurationOrDefault(authCfg.CacheTTL, 5*time.Minute)
		return auth.NewCached(verifier, ttl), nil
	case constants.AuthModeStatic:
		return auth.NewStatic(authCfg.Tokens), nil
	case constants.AuthModeNone:
		return auth.AllowAll{}, nil
	default:
		return nil, fmt.Errorf("unknown auth mode %q", authCfg.Mode)
	}
}

func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(strings.TrimSpace(string(data)))
	return nil
}
