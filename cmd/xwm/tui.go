package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/1broseidon/xwm/internal/tui"
)

func runTUI(args []string) int {
	fs := flag.NewFlagSet("tui", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	cf := newClientFlags(fs)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: xwm tui [--config PATH] [--display DISPLAY]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Interactive view of the running window manager and its settings.")
		fmt.Fprintln(os.Stderr, "Settings can be edited while the manager is not running.")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Keybindings:")
		fmt.Fprintln(os.Stderr, "  1-3, Tab   Switch tabs")
		fmt.Fprintln(os.Stderr, "  m / v      Toggle managed / mapped filter (windows)")
		fmt.Fprintln(os.Stderr, "  e          Edit settings")
		fmt.Fprintln(os.Stderr, "  Ctrl+S     Review and save config changes")
		fmt.Fprintln(os.Stderr, "  q, Ctrl+C  Quit")
	}
	if rc, ok := parseNoArgs(fs, args); !ok {
		return rc
	}

	if err := tui.Run(*cf.configPath, cf.client()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}
