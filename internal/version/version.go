package version

import "fmt"

const (
	Version = "v0.0.1"

	colorReset    = "\033[0m"
	colorCyanBold = "\033[36;1m"
)

// bannerTpl returns the banner printed by the gosqlite command line tools.
func bannerTpl() string {
	banner := `GoSQLite %s ` + Version + `
SQLite object facade for Go - https://github.com/neosmart/gosqlite`

	return colorCyanBold + banner + colorReset
}

// ShellVersion returns the banner for the interactive shell.
func ShellVersion() string {
	return fmt.Sprintf(bannerTpl(), "Shell")
}

// BenchVersion returns the banner for the benchmark tool.
func BenchVersion() string {
	return fmt.Sprintf(bannerTpl(), "Bench")
}
