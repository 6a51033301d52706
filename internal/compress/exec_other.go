//go:build !windows

package compress

import "os/exec"

// hideConsoleWindow is a no-op on platforms without console windows.
func hideConsoleWindow(*exec.Cmd) {}
