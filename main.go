package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"pagegen/chatlog"
	"pagegen/config"
	"pagegen/generator"
	"pagegen/mcp"
	"pagegen/server"
)

func main() {
	configPath := flag.String("config", "", "path to config.json or config.yaml (defaults apply when empty)")
	addr := flag.String("addr", "", "http listen address (overrides config.server_addr)")
	mcpMode := flag.String("mcp", "", "serve MCP tools instead of the web app: stdio or http")
	mcpAddr := flag.String("mcp-addr", ":8081", "listen address for -mcp http")
	verbose := flag.Bool("v", false, "enable debug logs")
	flag.Parse()

	logger, err := newLogger(*verbose)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(logger, *configPath, *addr, *mcpMode, *mcpAddr); err != nil {
		logger.Error("exit", zap.Error(err))
		os.Exit(1)
	}
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func run(logger *zap.Logger, configPath, addr, mcpMode, mcpAddr string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	llm, err := buildLLM(cfg)
	if err != nil {
		return err
	}
	opts := []generator.Option{
		generator.WithLogger(logger.Named("generator")),
		generator.WithNestedStamping(cfg.StampNestedIDs),
	}
	images, err := buildImages(cfg)
	if err != nil {
		return err
	}
	if images != nil {
		opts = append(opts, generator.WithImageClient(images))
	}
	agent, err := generator.NewAgent(llm, opts...)
	if err != nil {
		return err
	}
	log := chatlog.New()

	switch mcpMode {
	case "":
	case "stdio":
		logger.Info("starting MCP server in stdio mode")
		return mcpserver.ServeStdio(mcp.NewServer(agent, log, logger.Named("mcp")))
	case "http":
		logger.Info("starting MCP server", zap.String("addr", mcpAddr))
		return mcpserver.NewStreamableHTTPServer(mcp.NewServer(agent, log, logger.Named("mcp"))).Start(mcpAddr)
	default:
		return fmt.Errorf("unknown -mcp mode %q (want stdio or http)", mcpMode)
	}

	srv, err := server.New(agent, log,
		server.WithLogger(logger.Named("http")),
		server.WithTimeout(time.Duration(cfg.RequestTimeoutSeconds)*time.Second),
	)
	if err != nil {
		return err
	}
	listen := cfg.ServerAddr
	if addr != "" {
		listen = addr
	}
	logger.Info("starting web server",
		zap.String("addr", listen),
		zap.String("provider", cfg.LLM.Provider),
		zap.String("model", cfg.LLM.Model),
	)
	return http.ListenAndServe(listen, srv.Routes())
}

func buildLLM(cfg config.Config) (generator.LLMClient, error) {
	settings := &generator.LLMSettings{
		Provider: cfg.LLM.Provider,
		Model:    cfg.LLM.Model,
		APIKey:   cfg.LLM.ResolveAPIKey(),
		BaseURL:  cfg.LLM.BaseURL,
	}
	switch cfg.LLM.Provider {
	case "openai":
		return generator.NewOpenAILLMFromConfig(settings)
	case "deepseek":
		// DeepSeek serves an OpenAI-compatible API and needs its base_url.
		if cfg.LLM.BaseURL == "" {
			return nil, fmt.Errorf("llm provider deepseek requires base_url (OpenAI-compatible endpoint)")
		}
		return generator.NewOpenAILLMFromConfig(settings)
	case "anthropic":
		return generator.NewAnthropicLLMFromConfig(settings)
	case "mock":
		return generator.MockLLM{}, nil
	default:
		return nil, fmt.Errorf("llm provider %s not supported", cfg.LLM.Provider)
	}
}

func buildImages(cfg config.Config) (generator.ImageClient, error) {
	switch cfg.LLM.ImageProvider {
	case "openai":
		settings := &generator.LLMSettings{
			Provider:   "openai",
			ImageModel: cfg.LLM.ImageModel,
			APIKey:     cfg.LLM.OpenAIKey(),
		}
		if cfg.LLM.Provider == "openai" {
			settings.BaseURL = cfg.LLM.BaseURL
		} else if settings.APIKey == "" {
			return nil, fmt.Errorf("image provider openai reads its key from %s, which is empty; set it or set llm.image_provider to none", config.OpenAIKeyEnv)
		}
		return generator.NewOpenAIImagerFromConfig(settings)
	case "mock":
		return generator.MockImager{}, nil
	case "none":
		return nil, nil
	default:
		return nil, fmt.Errorf("image provider %s not supported", cfg.LLM.ImageProvider)
	}
}
