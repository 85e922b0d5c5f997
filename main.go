package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/aryanA101a/lulu/translate"
	"github.com/aryanA101a/lulu/vm"
)

var f = translate.From

const (
	exitUsage     = 2
	exitImage     = 3
	exitFault     = 4
	exitInterrupt = 130
)

func main() {
	os.Exit(run())
}

func run() int {
	var trace bool
	var dump bool
	var logFile string
	var origin uint
	var steps uint64
	var raw bool

	flag.BoolVar(&trace, "trace", false, "Log every executed instruction")
	flag.BoolVar(&dump, "dump", false, "Print the registers on exit")
	flag.StringVar(&logFile, "log", "", "Write diagnostics to this file")
	flag.UintVar(&origin, "origin", vm.UserSpaceStart, "Initial program counter")
	flag.Uint64Var(&steps, "steps", 0, "Stop after this many instructions (0 is unlimited)")
	flag.BoolVar(&raw, "raw", true, "Put the terminal in raw mode")
	flag.Usage = func() {
		fmt.Fprintln(flag.CommandLine.Output(), f("usage: %v [flags] image-file1 ...", os.Args[0]))
		flag.PrintDefaults()
	}

	flag.Parse()

	if flag.NArg() < 1 || origin > 0xFFFF {
		flag.Usage()
		return exitUsage
	}

	logger := log.New(os.Stderr, "lc3: ", 0)
	if logFile != "" {
		lf, err := os.OpenFile(logFile, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
		if err != nil {
			logger.Printf("%v: %v", logFile, err)
			return exitUsage
		}
		defer lf.Close()
		logger = log.New(lf, "", log.LstdFlags)
	}

	machine := vm.NewVM(vm.Config{
		Origin:   uint16(origin),
		Logger:   logger,
		Trace:    trace,
		MaxSteps: steps,
	})

	for _, path := range flag.Args() {
		if err := machine.LoadImageFile(path); err != nil {
			logger.Print(err)
			return exitImage
		}
	}

	if raw {
		terminal := vm.NewTerminal(os.Stdin)
		if err := terminal.EnableRawMode(); err != nil {
			logger.Print(f("raw mode: %v", err))
		}
		defer terminal.DisableRawMode()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := machine.Run(ctx)
	if dump || (err != nil && !errors.Is(err, context.Canceled)) {
		machine.Dump(os.Stderr)
	}

	switch {
	case err == nil:
		return 0
	case errors.Is(err, context.Canceled):
		fmt.Fprintln(os.Stdout)
		return exitInterrupt
	default:
		logger.Print(err)
		return exitFault
	}
}
