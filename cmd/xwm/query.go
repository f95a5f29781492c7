package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	"github.com/1broseidon/xwm/internal/ipc"
)

// clientFlags are the flags shared by the commands that talk to a
// running window manager.
type clientFlags struct {
	display    *string
	configPath *string
}

func newClientFlags(fs *flag.FlagSet) clientFlags {
	return clientFlags{
		display:    fs.String("display", "", "Display of the window manager (default: config display, then $DISPLAY)"),
		configPath: fs.String("config", "", "Config file used to resolve the display"),
	}
}

// client dials the flag display, then the configured one. An unreadable
// config is not an error here.
func (f clientFlags) client() *ipc.Client {
	display := *f.display
	if display == "" {
		if res, err := loadConfig(*f.configPath); err == nil {
			display = res.Config.Display
		}
	}
	return ipc.NewClient(display)
}

func parseNoArgs(fs *flag.FlagSet, args []string) (int, bool) {
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0, false
		}
		return 2, false
	}
	if fs.NArg() != 0 {
		fmt.Fprintf(os.Stderr, "%s takes no arguments\n", fs.Name())
		fs.Usage()
		return 2, false
	}
	return 0, true
}

func runStatus(args []string) int {
	fs := flag.NewFlagSet("status", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: xwm status [--display DISPLAY]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Show window manager status via IPC.")
	}
	cf := newClientFlags(fs)
	if code, ok := parseNoArgs(fs, args); !ok {
		return code
	}

	status, err := cf.client().GetStatus()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	writeStatus(os.Stdout, status)
	return 0
}

func writeStatus(w io.Writer, status *ipc.StatusData) {
	fmt.Fprintf(w, "uptime_seconds: %d\n", status.UptimeSeconds)
	fmt.Fprintf(w, "iterations:     %d\n", status.Iterations)
	fmt.Fprintf(w, "events:         %d\n", status.Events)
	fmt.Fprintf(w, "windows:        %d\n", status.Windows)
	fmt.Fprintf(w, "managed:        %d\n", status.Managed)
	fmt.Fprintf(w, "mapped:         %d\n", status.Mapped)
	fmt.Fprintf(w, "outputs:        %d\n", status.Outputs)
}

func runWindows(args []string) int {
	fs := flag.NewFlagSet("windows", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: xwm windows [--json] [--managed] [--mapped]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "List the windows the window manager knows about. Output is a table on a")
		fmt.Fprintln(os.Stderr, "terminal and JSON otherwise.")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Flags:")
		fs.PrintDefaults()
	}
	cf := newClientFlags(fs)
	jsonOut := fs.Bool("json", false, "Output JSON even on a terminal")
	managedOnly := fs.Bool("managed", false, "Only managed windows")
	mappedOnly := fs.Bool("mapped", false, "Only mapped windows")
	if code, ok := parseNoArgs(fs, args); !ok {
		return code
	}

	data, err := cf.client().GetWindows(ipc.WindowsPayload{
		ManagedOnly: *managedOnly,
		MappedOnly:  *mappedOnly,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	if *jsonOut || !term.IsTerminal(int(os.Stdout.Fd())) {
		return writeJSON(os.Stdout, data)
	}
	writeWindowsTable(os.Stdout, data.Windows)
	return 0
}

func writeWindowsTable(w io.Writer, windows []ipc.WindowInfo) {
	fmt.Fprintf(w, "%-10s %-7s %-7s %-20s %-20s %s\n", "ID", "MANAGED", "MAPPED", "GEOMETRY", "CLASS", "TITLE")
	for _, win := range windows {
		geometry := fmt.Sprintf("%dx%d+%d+%d", win.Width, win.Height, win.X, win.Y)
		fmt.Fprintf(w, "0x%08x %-7v %-7v %-20s %-20s %s\n", win.ID, win.Managed, win.Mapped, geometry, win.Class, win.Title)
	}
}

func runOutputs(args []string) int {
	fs := flag.NewFlagSet("outputs", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: xwm outputs [--json]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "List the active outputs.")
	}
	cf := newClientFlags(fs)
	jsonOut := fs.Bool("json", false, "Output JSON")
	if code, ok := parseNoArgs(fs, args); !ok {
		return code
	}

	data, err := cf.client().GetOutputs()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if *jsonOut {
		return writeJSON(os.Stdout, data)
	}
	for _, o := range data.Outputs {
		fmt.Printf("%s: %dx%d+%d+%d\n", o.Name, o.Width, o.Height, o.X, o.Y)
	}
	return 0
}

func runQuit(args []string) int {
	fs := flag.NewFlagSet("quit", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: xwm quit [--display DISPLAY]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Stop the running window manager.")
	}
	cf := newClientFlags(fs)
	if code, ok := parseNoArgs(fs, args); !ok {
		return code
	}

	if err := cf.client().Quit(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func writeJSON(w io.Writer, v any) int {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}
