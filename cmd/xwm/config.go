package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/1broseidon/xwm/internal/config"
)

func printConfigUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  xwm config validate [--path PATH]")
	fmt.Fprintln(w, "  xwm config print [--path PATH] [--defaults]")
	fmt.Fprintln(w, "  xwm config explain [--path PATH] <key>")
}

func runConfig(args []string) int {
	if len(args) == 0 {
		printConfigUsage(os.Stderr)
		return 2
	}

	switch args[0] {
	case "validate":
		return runConfigValidate(args[1:])
	case "print":
		return runConfigPrint(args[1:])
	case "explain":
		return runConfigExplain(args[1:])
	case "help", "-h", "--help":
		printConfigUsage(os.Stdout)
		return 0
	default:
		fmt.Fprintf(os.Stderr, "Unknown config subcommand: %s\n\n", args[0])
		printConfigUsage(os.Stderr)
		return 2
	}
}

func configFlagSet(name string) (*flag.FlagSet, *string) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	path := fs.String("path", "", "Config file path (default: ~/.config/xwm/config.yaml)")
	return fs, path
}

func runConfigValidate(args []string) int {
	fs, path := configFlagSet("validate")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	res, err := loadConfig(*path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Printf("config: ok (%d file(s))\n", len(res.Files))
	return 0
}

func runConfigPrint(args []string) int {
	fs, path := configFlagSet("print")
	defaults := fs.Bool("defaults", false, "Print built-in defaults, ignoring files")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg := config.DefaultConfig()
	if !*defaults {
		res, err := loadConfig(*path)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		for _, f := range res.Files {
			fmt.Printf("# file: %s\n", f)
		}
		cfg = res.Config
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Print(string(data))
	return 0
}

func runConfigExplain(args []string) int {
	fs, path := configFlagSet("explain")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "explain takes one key, one of: %s\n", strings.Join(config.Keys(), ", "))
		return 2
	}
	key := fs.Arg(0)

	res, err := loadConfig(*path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	value, src, err := config.Explain(res, key)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Printf("%s: %v\n", key, value)
	fmt.Printf("source: %s\n", formatSource(src))
	return 0
}

func formatSource(src config.Source) string {
	switch src.Kind {
	case config.SourceDefault:
		if src.Name == "" {
			return "default"
		}
		return "default:" + src.Name
	case config.SourceFile:
		switch {
		case src.File == "":
			return "file"
		case src.Line > 0:
			return fmt.Sprintf("file:%s:%d:%d", src.File, src.Line, src.Column)
		default:
			return "file:" + src.File
		}
	}
	return string(src.Kind)
}
