// Package shell implements the interactive gosqlite shell.
package shell

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/neosmart/gosqlite"
	"github.com/neosmart/gosqlite/internal/log"
	"github.com/neosmart/gosqlite/internal/version"
)

// Run runs the gosqlite shell.
func Run(ctx context.Context) error {
	conf := MustParse(os.Args)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Println(version.ShellVersion())

	db := gosqlite.New()
	if conf.Verbose {
		logger := log.NewLogger(os.Stdout)
		logger.EnableDebug()

		db.EnableVerboseLogging(true)
		db.SetLogHandler(func(level gosqlite.Level, message string) {
			switch level {
			case gosqlite.LevelError:
				logger.ErrorNs("engine", message)
			case gosqlite.LevelWarning:
				logger.Warn(message)
			case gosqlite.LevelInfo:
				logger.InfoNs("engine", message)
			default:
				logger.DebugNs("engine", message)
			}
		})
	}

	flags := gosqlite.DefaultOpenFlags
	if conf.ReadOnly {
		flags = gosqlite.OpenReadOnly
	}
	if err := db.Open(conf.Path, flags); err != nil {
		return fmt.Errorf("failed to open %s: %w", conf.Path, err)
	}
	defer func() { _ = db.Close() }()

	rp := NewRepl(ctx, stop, conf, db)
	defer rp.Shutdown()
	go func() {
		if err := rp.Start(); err != nil {
			fmt.Println(err)
			stop()
		}
	}()

	<-ctx.Done()
	fmt.Printf("\nGoodbye!\n\n")
	return nil
}
