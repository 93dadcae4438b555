package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"go.brendoncarroll.net/stdctx/logctx"
	"go.uber.org/zap"

	"go.creack.net/intcode/cli"
	"go.creack.net/intcode/search"
	"go.creack.net/intcode/vm"
)

// nounVerbLimit is the highest noun and verb value tried.
const nounVerbLimit = 99

func run(ctx context.Context, cfg cli.Config) error {
	vmCfg := cfg.Network.VM

	if cfg.Target != nil {
		res, err := search.FindNounVerb(ctx, vmCfg, cfg.Program, *cfg.Target, nounVerbLimit)
		if err != nil {
			return fmt.Errorf("noun/verb search: %w", err)
		}
		fmt.Println(res)
		return nil
	}

	var wg sync.WaitGroup
	if cfg.Verbose {
		messages := make(chan vm.Message, 64)
		vmCfg.Messages = messages
		wg.Add(1)
		go func() {
			defer wg.Done()
			cli.LogMessages(ctx, messages)
		}()
		defer func() {
			close(messages)
			wg.Wait()
		}()
	}

	c := vm.NewComputer(vmCfg, cfg.Program, cfg.Inputs...)
	err := c.RunToHalt()
	for _, elem := range c.DrainOutput() {
		fmt.Println(elem)
	}
	if err != nil {
		if errors.Is(err, vm.ErrInputStarved) {
			return fmt.Errorf("program needs more input than the %d provided: %w", len(cfg.Inputs), err)
		}
		return fmt.Errorf("run: %w", err)
	}
	logctx.Info(ctx, "halted",
		zap.Uint64("steps", c.Steps),
		zap.Int("memory", c.Mem.Len()),
	)
	return nil
}

func main() {
	cfg, err := cli.ParseConfig(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Fail: %s.\nusage: %s %s\n", err, os.Args[0], cli.Usage)
		os.Exit(2)
	}

	l, err := cli.NewLogger(cfg.Verbose)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Fail: %s.\n", err)
		os.Exit(1)
	}
	defer func() { _ = l.Sync() }() // Best effort.
	ctx := logctx.NewContext(context.Background(), l)

	if err := run(ctx, cfg); err != nil {
		logctx.Error(ctx, "intcode failed", zap.Error(err))
		_ = l.Sync()
		os.Exit(1)
	}
}
