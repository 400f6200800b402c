package sysutil

import (
	"os"
	"os/exec"
	"runtime"
)

// ClearTerminal clears the terminal screen in supported operating systems.
func ClearTerminal() {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "windows":
		cmd = exec.Command("cmd", "/c", "cls")
	case "linux", "darwin":
		cmd = exec.Command("clear")
	default:
		return
	}

	cmd.Stdout = os.Stdout
	_ = cmd.Run()
}
