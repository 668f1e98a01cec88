package main

import (
	"flag"
	"fmt"
	"loxvm/internal/config"
	"loxvm/internal/logger"
	"loxvm/internal/runner"
	"loxvm/pkg/color"
	"os"

	"github.com/charmbracelet/log"
)

// Main entry point for the loxvm interpreter.
func main() {
	options := runner.Runner{}

	flag.BoolVar(&options.Help, "h", false, "Show help")
	flag.BoolVar(&options.Verbose, "v", false, "Verbose mode")
	flag.BoolVar(&options.NoColor, "n", false, "No color")
	flag.BoolVar(&options.Trace, "t", false, "Trace execution")
	flag.BoolVar(&options.Disassemble, "d", false, "Disassemble chunks before running them")
	flag.BoolVar(&options.PrintTokens, "p", false, "Print tokens")
	flag.BoolVar(&options.Demo, "demo", false, "Run the built-in demo chunk")
	flag.IntVar(&options.StackSize, "stack", 0, "Operand stack capacity (default from config)")
	flag.StringVar(&options.ConfigFile, "config", config.DefaultFile, "Configuration file")

	flag.Parse()
	args := flag.Args()

	logger.Init(options.Verbose, options.NoColor)
	if options.Help {
		fmt.Printf("Usage: %s [options] [file]\n", os.Args[0])
		fmt.Println("Options:")
		flag.PrintDefaults()
		return
	}

	if options.NoColor {
		color.EnableColor(false)
	}

	if len(args) > 1 {
		log.Error("Too many arguments", "help", fmt.Sprintf("%s -h", os.Args[0]))
		os.Exit(64)
	}
	if len(args) == 1 {
		options.SourceFile = args[0]
	}

	cfg, err := config.Load(options.ConfigFile)
	if err != nil {
		log.Error("Invalid configuration", "error", err)
		os.Exit(64)
	}
	options.Merge(cfg)

	if err := options.Run(); err != nil {
		options.ReportError(err)
		os.Exit(runner.ExitCode(err))
	}
}
