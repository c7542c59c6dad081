package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/ironsheep/image-enhance-mcp/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Handle --version and -v flags
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("image-enhance-mcp %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			fmt.Println("image-enhance-mcp - MCP server for image enhancement")
			fmt.Println()
			fmt.Println("Usage: image-enhance-mcp [options]")
			fmt.Println()
			fmt.Println("Options:")
			fmt.Println("  --version, -v    Print version information")
			fmt.Println("  --help, -h       Print this help message")
			fmt.Println()
			fmt.Println("Environment variables:")
			fmt.Printf("  %s=debug       Log level (debug, info, warn, error)\n", server.EnvLogLevel)
			fmt.Printf("  %s=95       JPEG export quality (1-100)\n", server.EnvJPEGQuality)
			fmt.Printf("  %s=eng          Default OCR language\n", server.EnvOCRLanguage)
			fmt.Printf("  %s=2m            Per-call timeout\n", server.EnvTimeout)
			fmt.Printf("  %s=native        Enhancement backend\n", server.EnvBackend)
			fmt.Println()
			fmt.Println("This server communicates via MCP protocol over stdin/stdout.")
			fmt.Println("Configure it in your MCP client (e.g., Claude Desktop).")
			return
		}
	}

	cfg, err := server.ConfigFromEnv(os.Getenv)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(2)
	}

	logger := initLogger(cfg.LogLevel)
	logger.WithFields(logrus.Fields{
		"version":    Version,
		"build_time": BuildTime,
		"commit":     GitCommit,
	}).Debug("Image Enhance MCP Server")

	srv, err := server.New(cfg, logger)
	if err != nil {
		logger.WithError(err).Fatal("failed to create server")
	}
	if err := srv.Run(); err != nil {
		logger.WithError(err).Fatal("server error")
	}
}

// initLogger writes to stderr; stdout carries the MCP protocol.
func initLogger(level logrus.Level) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetLevel(level)

	if level >= logrus.DebugLevel {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	} else {
		logger.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02 15:04:05",
		})
	}

	return logger
}
