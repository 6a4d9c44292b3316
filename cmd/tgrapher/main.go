package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/BTBurke/tgrapher"
	"github.com/spf13/pflag"
)

func main() {
	os.Exit(run())
}

// run holds the program so deferred cleanup happens before the exit code is returned
func run() int {
	opts, err := tgrapher.ParseCommandLine()
	if err != nil {
		if !errors.Is(err, pflag.ErrHelp) {
			fmt.Printf(" Error! %s\n\nUse tgrapher --help for options\n", err)
		}
		return 1
	}

	g, errs := tgrapher.New(opts...)
	if len(errs) > 0 {
		fmt.Println(" Error in config:")
		for _, e := range errs {
			fmt.Println(" ", e)
		}
		return 1
	}
	defer g.Config.Logger().Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := g.Run(ctx); err != nil {
		fmt.Printf(" Error! %s\n", err)
		g.Report(err)
		g.Wait()
		return 1
	}
	return 0
}
