// SPDX-License-Identifier: Unlicense OR MIT

// Command strata-sim drives the layout engine headlessly from an
// op script and prints JSON state snapshots, the same shape an
// IPC consumer would read. It exists for debugging layout
// behavior without a compositor session.
package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/fang"
	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"

	"strata.dev/anim"
	"strata.dev/config"
	"strata.dev/f64"
	"strata.dev/layout"
)

type options struct {
	Debug    bool
	Snapshot bool
}

func main() {
	var opts options

	rootCmd := &cobra.Command{
		Use:   "strata-sim [flags] [script]",
		Short: "Headless driver for the scrolling layout engine",
		Long: `strata-sim feeds an op script to the layout engine and prints
the resulting state as JSON. Scripts are plain text, one op per
line; "help-ops" lists them. With no script, ops are read from
stdin.`,
		Example: `  # Run a script
  strata-sim session.ops

  # Pipe ops in
  printf 'add-output eDP-1 1280x720\nadd-window 100x200\n' | strata-sim -s`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			setupLogging(opts.Debug)
			in := os.Stdin
			if len(args) == 1 {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
			}
			return run(cmd.OutOrStdout(), in, opts)
		},
	}
	rootCmd.Flags().BoolVarP(&opts.Debug, "debug", "d", false, "enable debug logging")
	rootCmd.Flags().BoolVarP(&opts.Snapshot, "snapshot", "s", true, "print a JSON snapshot after the script")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "help-ops",
		Short: "List the script ops",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprint(cmd.OutOrStdout(), opsHelp)
		},
	})

	if err := fang.Execute(context.Background(), rootCmd); err != nil {
		os.Exit(1)
	}
}

func setupLogging(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
	})))
}

const opsHelp = `Ops, one per line ("#" starts a comment):

  add-output <name> <W>x<H>       connect an output
  remove-output <name>            disconnect an output
  focus-output <name>
  add-window <W>x<H>              map a window (auto-placed)
  close-window <id>
  focus-column-left | focus-column-right
  focus-window-up | focus-window-down
  move-column-left | move-column-right
  consume | expel
  set-width <+px|-px|=prop>
  set-height <+px|-px|=prop>
  toggle-full-width
  toggle-tabbed
  fullscreen <id>
  switch-workspace <idx>
  name-workspace <idx> <name>
  advance-ms <n>                  advance the clock
  complete                        finish all animations
`

type sim struct {
	layout  *layout.Layout
	windows map[layout.WindowID]*layout.TestWindow
	nextWin int
	now     time.Duration
}

func run(out io.Writer, in io.Reader, opts options) error {
	clock := anim.NewClock(0)
	s := &sim{
		layout:  layout.New(clock, config.Default()),
		windows: map[layout.WindowID]*layout.TestWindow{},
	}

	scanner := bufio.NewScanner(in)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if err := s.apply(line); err != nil {
			slog.Error("op failed", "line", lineNo, "op", line, "error", err)
			return err
		}
		s.ackAll()
		if err := s.layout.VerifyInvariants(); err != nil {
			slog.Warn("invariant violated after op", "line", lineNo, "op", line, "error", err)
			s.layout.RecoverInvariants(err)
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}

	if opts.Snapshot {
		return writeSnapshot(out, s.layout)
	}
	return nil
}

// ackAll acknowledges every pending configure, standing in for
// well-behaved clients.
func (s *sim) ackAll() {
	for id, w := range s.windows {
		for {
			serial, ok := w.AckLast()
			if !ok {
				break
			}
			s.layout.OnCommit(id, serial)
		}
	}
}

func (s *sim) apply(line string) error {
	fields := strings.Fields(line)
	op, args := fields[0], fields[1:]
	l := s.layout

	switch op {
	case "add-output":
		if len(args) != 2 {
			return fmt.Errorf("add-output wants <name> <WxH>")
		}
		size, err := parseSize(args[1])
		if err != nil {
			return err
		}
		l.AddOutput(args[0], size, 1, nil)
	case "remove-output":
		l.RemoveOutput(argOr(args, 0))
	case "focus-output":
		l.FocusOutput(argOr(args, 0))
	case "add-window":
		size, err := parseSize(argOr(args, 0))
		if err != nil {
			return err
		}
		s.nextWin++
		id := layout.NextWindowID()
		win := layout.NewTestWindow(id, size.Round())
		s.windows[id] = win
		l.AddWindow(win, layout.AddTarget{Kind: layout.AddAuto}, true)
		slog.Debug("window added", "id", id)
	case "close-window":
		id, err := parseID(argOr(args, 0))
		if err != nil {
			return err
		}
		l.RemoveWindow(id, nil)
		delete(s.windows, id)
	case "focus-column-left":
		l.FocusColumnLeft()
	case "focus-column-right":
		l.FocusColumnRight()
	case "focus-window-up":
		l.FocusWindowUp()
	case "focus-window-down":
		l.FocusWindowDown()
	case "move-column-left":
		l.MoveColumnLeft()
	case "move-column-right":
		l.MoveColumnRight()
	case "consume":
		l.ConsumeIntoColumn()
	case "expel":
		l.ExpelFromColumn()
	case "set-width":
		change, err := parseSizeChange(argOr(args, 0))
		if err != nil {
			return err
		}
		l.SetColumnWidth(change)
	case "set-height":
		change, err := parseSizeChange(argOr(args, 0))
		if err != nil {
			return err
		}
		l.SetWindowHeight(change)
	case "toggle-full-width":
		l.ToggleFullWidth()
	case "toggle-tabbed":
		l.ToggleColumnTabbedDisplay()
	case "fullscreen":
		id, err := parseID(argOr(args, 0))
		if err != nil {
			return err
		}
		l.ToggleFullscreenWindow(id)
	case "switch-workspace":
		idx, err := strconv.Atoi(argOr(args, 0))
		if err != nil {
			return err
		}
		l.FocusWorkspace(idx)
	case "name-workspace":
		if len(args) != 2 {
			return fmt.Errorf("name-workspace wants <idx> <name>")
		}
		idx, err := strconv.Atoi(args[0])
		if err != nil {
			return err
		}
		l.SetWorkspaceName(args[1], idx)
	case "advance-ms":
		n, err := strconv.Atoi(argOr(args, 0))
		if err != nil {
			return err
		}
		s.now += time.Duration(n) * time.Millisecond
		l.AdvanceAnimations(s.now)
	case "complete":
		l.CompleteAnimations()
		l.Refresh()
	default:
		return fmt.Errorf("unknown op %q", op)
	}
	return nil
}

func argOr(args []string, i int) string {
	if i < len(args) {
		return args[i]
	}
	return ""
}

func parseSize(s string) (f64.Size, error) {
	w, h, ok := strings.Cut(s, "x")
	if !ok {
		return f64.Size{}, fmt.Errorf("size %q: want <W>x<H>", s)
	}
	wv, err := strconv.ParseFloat(w, 64)
	if err != nil {
		return f64.Size{}, err
	}
	hv, err := strconv.ParseFloat(h, 64)
	if err != nil {
		return f64.Size{}, err
	}
	return f64.Size{W: wv, H: hv}, nil
}

func parseID(s string) (layout.WindowID, error) {
	v, err := strconv.ParseUint(s, 10, 64)
	return layout.WindowID(v), err
}

func parseSizeChange(s string) (layout.SizeChange, error) {
	switch {
	case strings.HasPrefix(s, "="):
		v, err := strconv.ParseFloat(s[1:], 64)
		if err != nil {
			return layout.SizeChange{}, err
		}
		if v <= 1 {
			return layout.SizeChange{Kind: layout.SetProportion, Value: v}, nil
		}
		return layout.SizeChange{Kind: layout.SetFixed, Value: v}, nil
	case strings.HasPrefix(s, "+"), strings.HasPrefix(s, "-"):
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return layout.SizeChange{}, err
		}
		return layout.SizeChange{Kind: layout.AdjustFixed, Value: v}, nil
	}
	return layout.SizeChange{}, fmt.Errorf("size change %q: want +px, -px or =value", s)
}
