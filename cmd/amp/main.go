package main

import (
	"context"
	"fmt"
	"os"
	"sync"

	"go.brendoncarroll.net/stdctx/logctx"
	"go.uber.org/zap"

	"go.creack.net/intcode/cli"
	"go.creack.net/intcode/search"
	"go.creack.net/intcode/vm"
)

// cacheSize is enough for every permutation of 8 phase settings.
const cacheSize = 40320

// run evaluates the network with the given phases when they are fixed with -p,
// otherwise searches the permutation of the default phases maximizing the output.
func run(ctx context.Context, cfg cli.Config) error {
	netCfg := cfg.Network

	if len(cfg.Phases) > 0 {
		var wg sync.WaitGroup
		if cfg.Verbose {
			messages := make(chan vm.Message, 64)
			netCfg.VM.Messages = messages
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

		n := vm.NewNetwork(netCfg, cfg.Program, cfg.Phases)
		out, err := n.Run()
		if err != nil {
			return fmt.Errorf("network %v: %w", cfg.Phases, err)
		}
		logctx.Info(ctx, "network halted", zap.Int("rounds", n.Rounds), zap.Int64s("phases", n.Phases))
		fmt.Println(out)
		return nil
	}

	cache, err := search.NewCache(cacheSize)
	if err != nil {
		return fmt.Errorf("new cache: %w", err)
	}
	res, err := search.MaxThrust(ctx, cfg.Program, search.DefaultPhases(netCfg.Feedback), search.Options{
		Network: netCfg,
		Cache:   cache,
	})
	if err != nil {
		return fmt.Errorf("max thrust: %w", err)
	}
	fmt.Printf("%d %s\n", res.Output, fmtPhases(res.Phases))
	return nil
}

func fmtPhases(phases []int64) string {
	buf := make([]byte, 0, len(phases))
	for _, elem := range phases {
		buf = fmt.Appendf(buf, "%d", elem)
	}
	return string(buf)
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
		logctx.Error(ctx, "amp failed", zap.Error(err))
		_ = l.Sync()
		os.Exit(1)
	}
}
