package main

import (
	"fmt"
	"os"
	"regexp"

	"github.com/fatih/color"
	"golang.org/x/sys/unix"
)

func setupColor(mode string) error {
	switch mode {
	case "auto":
		color.NoColor = !isatty()
	case "always":
		color.NoColor = false
	case "never":
		color.NoColor = true
	default:
		return fmt.Errorf("invalid -c value: %s", mode)
	}
	return nil
}

// isatty reports whether the program is running in a terminal. If it is true,
// we can use ANSI color codes.
func isatty() bool {
	_, err := unix.IoctlGetWinsize(int(os.Stdout.Fd()), unix.TIOCGWINSZ)
	return err == nil
}

var (
	rePos = regexp.MustCompile(`(?m)^(\S+:\d+:\d+:)(.*)$`)
	reTab = regexp.MustCompile(`(?m)^\t.+`)

	posColor  = color.New(color.Bold)
	msgColor  = color.New(color.FgRed)
	codeColor = color.New(color.Faint)
)

// colorize adds ANSI color codes to an error message. Positions are bold,
// messages after them red, and indented lines dim.
func colorize(message string) string {
	if color.NoColor {
		return message
	}
	message = rePos.ReplaceAllStringFunc(message, func(line string) string {
		m := rePos.FindStringSubmatch(line)
		return posColor.Sprint(m[1]) + msgColor.Sprint(m[2])
	})
	return reTab.ReplaceAllStringFunc(message, func(line string) string {
		return codeColor.Sprint(line)
	})
}
