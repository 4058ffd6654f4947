// Package clipboard copies text through the platform clipboard utility.
// Failure is never surfaced to the user; the share action just doesn't
// land.
package clipboard

import (
	"fmt"
	"os/exec"
	"runtime"
	"strings"
)

// candidates lists the utilities to try per platform, in order.
func candidates() [][]string {
	switch runtime.GOOS {
	case "darwin":
		return [][]string{{"pbcopy"}}
	case "windows":
		return [][]string{{"clip"}}
	default:
		return [][]string{
			{"wl-copy"},
			{"xclip", "-selection", "clipboard"},
			{"xsel", "--clipboard", "--input"},
		}
	}
}

// Copy writes text to the system clipboard via the first available
// utility.
func Copy(text string) error {
	var lastErr error
	for _, c := range candidates() {
		if _, err := exec.LookPath(c[0]); err != nil {
			lastErr = err
			continue
		}
		cmd := exec.Command(c[0], c[1:]...)
		cmd.Stdin = strings.NewReader(text)
		if err := cmd.Run(); err != nil {
			lastErr = err
			continue
		}
		return nil
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("no clipboard utility found")
	}
	return fmt.Errorf("clipboard copy failed: %w", lastErr)
}
