package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	mcpGoServer "github.com/mark3labs/mcp-go/server"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/i2y/raml2graphql/configs"
	"github.com/i2y/raml2graphql/internal/adapter/inbound/adminhttp"
	"github.com/i2y/raml2graphql/internal/adapter/inbound/mcptool"
	"github.com/i2y/raml2graphql/internal/adapter/outbound/github"
	"github.com/i2y/raml2graphql/internal/adapter/outbound/graphql"
	"github.com/i2y/raml2graphql/internal/adapter/outbound/memrepo"
	"github.com/i2y/raml2graphql/internal/adapter/outbound/openapi"
	"github.com/i2y/raml2graphql/internal/adapter/outbound/raml"
	"github.com/i2y/raml2graphql/internal/domain"
	"github.com/i2y/raml2graphql/internal/usecase"
)

const (
	serviceName    = "raml2graphql"
	serviceVersion = "0.1.0"
)

func main() {
	// === Command Line Flags ===
	var transport, format, outDir string
	flag.StringVar(&transport, "transport", "cli", "Transport mode: cli, stdio or sse")
	flag.StringVar(&format, "format", "", "Output format in cli mode: text, json or yaml (default from config)")
	flag.StringVar(&outDir, "out", "", "Directory for cli output files (default stdout)")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] [source ...]\n\n", os.Args[0])
		fmt.Fprintln(flag.CommandLine.Output(), "Sources are RAML or OpenAPI files, http(s) URLs or github://owner/repo/path[@ref].")
		fmt.Fprintln(flag.CommandLine.Output(), "Without sources, the schema_sources of the config file are converted.")
		flag.PrintDefaults()
	}
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// === Configuration ===
	cfg, err := configs.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if format == "" {
		format = cfg.OutputFormat
	}
	if outDir == "" {
		outDir = cfg.OutputDir
	}

	// === Logging ===
	logLevel := cfg.ParsedLogLevel()
	var logger *slog.Logger
	if transport == "stdio" {
		// In STDIO mode, log to file to avoid interfering with stdio communication
		logFile, err := os.OpenFile("/tmp/raml2graphql.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			logger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: logLevel}))
		} else {
			defer logFile.Close()
			logger = slog.New(slog.NewTextHandler(logFile, &slog.HandlerOptions{Level: logLevel}))
		}
	} else {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
	}
	slog.SetDefault(logger)
	logger.Info("Logger initialized.", slog.String("level", logLevel.String()), slog.String("transport", transport))

	// === OpenTelemetry Initialization ===
	shutdownOtel, err := initOtelProvider(cfg)
	if err != nil {
		logger.Error("Failed to initialize OpenTelemetry.", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := shutdownOtel(context.Background()); err != nil {
			logger.Error("Failed to shutdown OpenTelemetry TracerProvider.", slog.Any("error", err))
		}
	}()

	// === Dependency Injection ===
	httpClient := &http.Client{Timeout: cfg.HTTPClientTimeout}
	logger.Debug("HTTP Client configured.", slog.Duration("timeout", cfg.HTTPClientTimeout))

	fetchers := map[domain.SchemaType]usecase.SchemaFetcher{
		domain.SchemaTypeRAML:    raml.NewSchemaFetcher(httpClient, logger),
		domain.SchemaTypeOpenAPI: openapi.NewSchemaFetcher(httpClient, logger),
		domain.SchemaTypeGitHub:  github.NewFetcher(logger),
	}
	repo := memrepo.NewInMemorySchemaRepository(logger)
	convertUC := usecase.NewConvertSchemaUseCase(fetchers, graphql.NewGenerator(logger), repo, logger)
	listUC := usecase.NewListSchemasUseCase(repo, logger)

	// === Transport Mode Selection ===
	switch transport {
	case "cli":
		sources := cfg.Sources()
		if flag.NArg() > 0 {
			sources = make([]domain.SchemaSource, 0, flag.NArg())
			for _, arg := range flag.Args() {
				sources = append(sources, domain.SchemaSource{URL: arg})
			}
		}
		if err := runCLI(ctx, convertUC, sources, format, outDir, os.Stdout); err != nil {
			logger.Error("Conversion failed.", slog.Any("error", err))
			os.Exit(1)
		}

	case "stdio":
		convertConfigured(ctx, convertUC, cfg, logger)
		mcpSrv := newMCPServer(convertUC, logger)

		logger.Info("Starting in STDIO mode")
		if err := mcpGoServer.NewStdioServer(mcpSrv).Listen(ctx, os.Stdin, os.Stdout); err != nil {
			logger.Error("STDIO server error", slog.Any("error", err))
			os.Exit(1)
		}

	case "sse":
		convertConfigured(ctx, convertUC, cfg, logger)
		mcpSrv := newMCPServer(convertUC, logger)
		runSSE(ctx, stop, cfg, mcpSrv, adminhttp.NewHandlers(convertUC, listUC, logger), logger)

	default:
		logger.Error("Invalid transport mode", slog.String("transport", transport))
		os.Exit(1)
	}
}

func newMCPServer(convertUC *usecase.ConvertSchemaUseCase, logger *slog.Logger) *mcpGoServer.MCPServer {
	mcpSrv := mcpGoServer.NewMCPServer(serviceName, serviceVersion, mcpGoServer.WithToolCapabilities(false))
	mcptool.NewTools(convertUC, logger).Register(mcpSrv)
	logger.Info("MCP server (mark3labs/mcp-go) initialized.")
	return mcpSrv
}

// convertConfigured converts the configured sources before serving. Failures
// are logged and serving continues.
func convertConfigured(ctx context.Context, convertUC *usecase.ConvertSchemaUseCase, cfg *configs.Config, logger *slog.Logger) {
	sources := cfg.Sources()
	if len(sources) == 0 {
		return
	}
	logger.Info("Performing initial schema conversion...", slog.Int("source_count", len(sources)))
	if _, err := convertUC.ConvertAll(ctx, sources); err != nil {
		logger.Error("Initial schema conversion failed for some sources.", slog.Any("error", err))
		return
	}
	logger.Info("Initial schema conversion completed successfully.")
}

func runSSE(ctx context.Context, stop context.CancelFunc, cfg *configs.Config, mcpSrv *mcpGoServer.MCPServer, admin *adminhttp.Handlers, logger *slog.Logger) {
	logger.Info("Starting in SSE mode")
	sseServer := mcpGoServer.NewSSEServer(mcpSrv, mcpGoServer.WithBaseURL("http://"+cfg.ListenAddr))

	adminMux := http.NewServeMux()
	admin.RegisterRoutes(adminMux)
	adminServer := &http.Server{
		Addr:         cfg.AdminAddr,
		Handler:      adminMux,
		ReadTimeout:  cfg.ServerReadTimeout,
		WriteTimeout: cfg.ServerWriteTimeout,
		IdleTimeout:  cfg.ServerIdleTimeout,
	}
	go func() {
		logger.Info("Admin HTTP server starting.", slog.String("address", adminServer.Addr))
		if err := adminServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Admin HTTP server failed to start.", slog.Any("error", err))
			stop()
		}
	}()

	go func() {
		logger.Info("MCP SSE server starting.", slog.String("address", cfg.ListenAddr))
		if err := sseServer.Start(cfg.ListenAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("MCP SSE server failed to start.", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()

	logger.Info("Shutting down servers...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := adminServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("Admin HTTP server graceful shutdown failed.", slog.Any("error", err))
	}
	if err := sseServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("MCP SSE server graceful shutdown failed.", slog.Any("error", err))
	}
	logger.Info("Servers shut down gracefully.")
}

// initOtelProvider initializes the OpenTelemetry SDK and sets up the OTLP trace exporter.
// It returns a shutdown function to be called on application exit.
func initOtelProvider(cfg *configs.Config) (func(context.Context) error, error) {
	ctx := context.Background()

	if cfg.OtelExporterOtlpEndpoint == "" {
		slog.Info("OTEL_EXPORTER_OTLP_ENDPOINT not set, OpenTelemetry tracing disabled.")
		return func(context.Context) error { return nil }, nil
	}

	slog.Info("Initializing OTLP exporter.", slog.String("endpoint", cfg.OtelExporterOtlpEndpoint))

	grpcOpts := []grpc.DialOption{}
	if cfg.OtelExporterOtlpInsecure {
		grpcOpts = append(grpcOpts, grpc.WithTransportCredentials(insecure.NewCredentials()))
		slog.Warn("Using insecure connection for OTLP exporter.")
	}

	conn, err := grpc.NewClient(cfg.OtelExporterOtlpEndpoint, grpcOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create gRPC connection to OTLP endpoint: %w", err)
	}

	traceExporter, err := otlptracegrpc.New(ctx, otlptracegrpc.WithGRPCConn(conn))
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to create OTLP trace exporter: %w", err)
	}

	r, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceNameKey.String(serviceName),
			semconv.ServiceVersionKey.String(serviceVersion),
		),
	)
	if err != nil {
		_ = traceExporter.Shutdown(ctx)
		_ = conn.Close()
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(traceExporter),
		sdktrace.WithResource(r),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))

	slog.Info("OpenTelemetry TracerProvider configured.")

	return func(ctx context.Context) error {
		providerErr := tp.Shutdown(ctx)
		connErr := conn.Close()
		return errors.Join(providerErr, connErr)
	}, nil
}
