// Package detector selects how progress is shown for the current terminal.
package detector

import (
	"os"

	"golang.org/x/term"
)

// OutputMode represents the progress rendering mode.
type OutputMode int

const (
	// ModeAuto detects the mode from the environment.
	ModeAuto OutputMode = iota
	// ModeTUI shows the live progress view.
	ModeTUI
	// ModePlain only prints results and logs.
	ModePlain
)

// String returns the flag spelling of the mode.
func (m OutputMode) String() string {
	switch m {
	case ModeTUI:
		return "tui"
	case ModePlain:
		return "plain"
	default:
		return "auto"
	}
}

// DetectEnvironment returns ModeTUI when f is a terminal outside CI, ModePlain otherwise.
func DetectEnvironment(f *os.File) OutputMode {
	return Detect(f != nil && term.IsTerminal(int(f.Fd())), os.Getenv("CI"))
}

// Detect picks the mode from terminal state and the value of CI.
func Detect(isTTY bool, ci string) OutputMode {
	if !isTTY || ci == "true" || ci == "1" {
		return ModePlain
	}
	return ModeTUI
}

// ResolveMode applies the user's --progress flag to the detected mode.
// Unknown values fall back to detection.
func ResolveMode(detected OutputMode, flag string) OutputMode {
	switch flag {
	case "tui":
		return ModeTUI
	case "plain", "linear", "ci":
		return ModePlain
	default:
		return detected
	}
}
