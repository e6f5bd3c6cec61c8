package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// CatchCtrlC cancels the context on SIGINT or SIGTERM.
func CatchCtrlC(cancel context.CancelFunc) {
	signals := make(chan os.Signal, 1)
	signal.Notify(signals,
		syscall.SIGTERM,
		syscall.SIGINT,
	)

	go func() {
		<-signals
		signal.Stop(signals)
		cancel()
	}()
}

// PrintError writes err to stderr with a red prefix.
func PrintError(err error) {
	printError(os.Stderr, err)
}
