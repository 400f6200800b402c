package shell

import (
	"fmt"
	"log"

	"github.com/alexflint/go-arg"
	"github.com/neosmart/gosqlite/internal/version"
)

// Config represents the configuration for the gosqlite shell.
type Config struct {
	Path     string `arg:"positional" help:"Path of the SQLite database file to open (defaults to an in-memory database)" default:":memory:"`
	ReadOnly bool   `arg:"--readonly" help:"Open the database read-only"`
	Verbose  bool   `arg:"-v,--verbose" help:"Trace every statement sent to the engine"`
}

func (Config) Version() string {
	return fmt.Sprintf("%s\n", version.ShellVersion())
}

// MustParse parses and validates the configuration from the command line
// arguments. It returns a Config struct or exits the program with an error.
func MustParse(args []string) Config {
	cfg := Config{}

	parser, err := arg.NewParser(arg.Config{}, &cfg)
	if err != nil {
		log.Fatal(err)
	}
	parser.MustParse(args[1:])

	return cfg
}
