// =============================================================================
// Synax 主入口
// =============================================================================
// 路由服务入口点：HTTP 健康检查、模型目录、Prometheus 指标
//
// 使用方法:
//
//	synax serve                       # 启动服务
//	synax serve --config config.yaml  # 指定配置文件
//	synax validate --config c.yaml    # 校验配置与路由
//	synax models --config c.yaml      # 打印模型目录
//	synax version                     # 显示版本信息
//	synax health                      # 健康检查
// =============================================================================

package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/BaSui01/synax"
	"github.com/BaSui01/synax/config"
	"github.com/BaSui01/synax/internal/tlsutil"
)

// 版本信息（构建时注入）
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	if len(os.Args) < 2 {
		printUsage(os.Stdout)
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "serve":
		err = runServe(os.Args[2:])
	case "validate":
		err = runValidate(os.Args[2:], os.Stdout)
	case "models":
		err = runModels(os.Args[2:], os.Stdout)
	case "version":
		printVersion(os.Stdout)
	case "health":
		err = runHealthCheck(os.Args[2:], os.Stdout)
	case "help", "-h", "--help":
		printUsage(os.Stdout)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", os.Args[1])
		printUsage(os.Stderr)
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

// loadConfig 解析 --config 并加载、校验配置
func loadConfig(name string, args []string) (*config.Config, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	configPath := fs.String("config", "", "Path to config file")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	loader := config.NewLoader()
	if *configPath != "" {
		loader = loader.WithConfigPath(*configPath)
	}
	cfg, err := loader.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func runServe(args []string) error {
	cfg, err := loadConfig("serve", args)
	if err != nil {
		return err
	}

	logger := initLogger(cfg.Log)
	defer logger.Sync()

	logger.Info("Starting Synax",
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
		zap.String("git_commit", GitCommit),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := buildApp(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to build app", zap.Error(err))
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		a.close(shutdownCtx)
	}()

	if err := serve(ctx, a); err != nil {
		logger.Error("server stopped with error", zap.Error(err))
		return err
	}
	logger.Info("Synax stopped")
	return nil
}

// runValidate 加载配置并实际构建一次路由，插件引用错误也会在这里暴露
func runValidate(args []string, out io.Writer) error {
	cfg, err := loadConfig("validate", args)
	if err != nil {
		return err
	}
	s, err := synax.FromConfig(context.Background(), cfg.Routing, synax.Options{Logger: zap.NewNop()})
	if err != nil {
		return fmt.Errorf("invalid routing: %w", err)
	}
	fmt.Fprintf(out, "OK: %d providers, %d groups, %d dispatchers\n",
		len(s.ListProviders()), len(s.ListGroups()), len(s.ListDispatchers()))
	return nil
}

func runModels(args []string, out io.Writer) error {
	cfg, err := loadConfig("models", args)
	if err != nil {
		return err
	}
	s, err := synax.FromConfig(context.Background(), cfg.Routing, synax.Options{Logger: zap.NewNop()})
	if err != nil {
		return fmt.Errorf("invalid routing: %w", err)
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(s.ListModels())
}

func runHealthCheck(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("health", flag.ContinueOnError)
	addr := fs.String("addr", "http://localhost:8080", "Server address")
	if err := fs.Parse(args); err != nil {
		return err
	}

	client := tlsutil.HTTPClient(5 * time.Second)
	resp, err := client.Get(*addr + "/health")
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check failed: status %d", resp.StatusCode)
	}
	fmt.Fprintln(out, "OK")
	return nil
}

func printVersion(out io.Writer) {
	fmt.Fprintf(out, "Synax %s\n", Version)
	fmt.Fprintf(out, "  Build Time: %s\n", BuildTime)
	fmt.Fprintf(out, "  Git Commit: %s\n", GitCommit)
}

func printUsage(out io.Writer) {
	fmt.Fprintln(out, `Synax - capability dispatch for LLM providers

Usage:
  synax <command> [options]

Commands:
  serve     Start the Synax server
  validate  Load the config and build routing without serving
  models    Print the model catalog as JSON
  version   Show version information
  health    Check server health
  help      Show this help message

Options for 'serve', 'validate', 'models':
  --config <path>   Path to configuration file (YAML)

Examples:
  synax serve --config /etc/synax/config.yaml
  synax models --config ./synax.yaml
  synax health --addr http://localhost:8080`)
}

// initLogger 按配置构建 zap logger
func initLogger(cfg config.LogConfig) *zap.Logger {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var encoderConfig zapcore.EncoderConfig
	encoding := "json"
	if cfg.Format == "console" {
		encoding = "console"
		encoderConfig = zap.NewDevelopmentEncoderConfig()
		encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		encoderConfig = zap.NewProductionEncoderConfig()
		encoderConfig.TimeKey = "timestamp"
		encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}

	outputs := cfg.OutputPaths
	if len(outputs) == 0 {
		outputs = []string{"stdout"}
	}

	zapConfig := zap.Config{
		Level:             zap.NewAtomicLevelAt(level),
		Development:       encoding == "console",
		Encoding:          encoding,
		EncoderConfig:     encoderConfig,
		OutputPaths:       outputs,
		ErrorOutputPaths:  []string{"stderr"},
		DisableCaller:     !cfg.EnableCaller,
		DisableStacktrace: !cfg.EnableStacktrace,
	}

	logger, err := zapConfig.Build()
	if err != nil {
		// 回退到基本 logger
		logger, _ = zap.NewProduction()
	}
	return logger
}
