// Package search looks for the inputs maximizing, or matching, a program result:
// phase settings of an amplifier network, noun and verb of a program.
package search

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"slices"
	"sync"

	"github.com/hashicorp/golang-lru/v2/simplelru"
	"go.brendoncarroll.net/stdctx/logctx"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"go.creack.net/intcode/program"
	"go.creack.net/intcode/vm"
)

var (
	ErrNoPhases = errors.New("no phase settings")
	ErrNotFound = errors.New("no matching input")
)

// Phase setting candidates.
var (
	SeriesPhases   = []int64{0, 1, 2, 3, 4}
	FeedbackPhases = []int64{5, 6, 7, 8, 9}
)

// DefaultPhases returns a copy of the candidates for the given wiring.
func DefaultPhases(feedback bool) []int64 {
	if feedback {
		return slices.Clone(FeedbackPhases)
	}
	return slices.Clone(SeriesPhases)
}

type Options struct {
	Network vm.NetworkConfig
	Workers int    // Networks evaluated concurrently, <= 0 for GOMAXPROCS.
	Cache   *Cache // Optional.
}

// DefaultOptions evaluates feedback rings without cache.
func DefaultOptions() Options {
	return Options{Network: vm.DefaultNetworkConfig()}
}

type Result struct {
	Output    int64
	Phases    []int64
	Evaluated int // Number of networks actually run, cache hits excluded.
}

type cacheKey struct {
	fingerprint uint64
	feedback    bool
	seed        int64
	memSize     int
	phases      string
}

// Cache memoizes network results. Safe for concurrent use.
type Cache struct {
	mu  sync.Mutex
	lru *simplelru.LRU[cacheKey, int64]
}

func NewCache(size int) (*Cache, error) {
	lru, err := simplelru.NewLRU[cacheKey, int64](size, nil)
	if err != nil {
		return nil, fmt.Errorf("new lru: %w", err)
	}
	return &Cache{lru: lru}, nil
}

func (c *Cache) get(k cacheKey) (int64, bool) {
	if c == nil {
		return 0, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Get(k)
}

func (c *Cache) add(k cacheKey, v int64) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lru.Add(k, v)
}

// Len returns the number of cached results.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Len()
}

// Network runs a fresh network for the given phases and returns its final output.
func Network(cfg vm.NetworkConfig, prog, phases []int64) (int64, error) {
	return vm.NewNetwork(cfg, prog, phases).Run()
}

// MaxThrust runs one network per permutation of phases and returns the highest output.
// Ties go to the first permutation in lexicographic order, so the result does
// not depend on the evaluation order.
func MaxThrust(ctx context.Context, prog, phases []int64, opts Options) (Result, error) {
	perms := Permutations(phases)
	if len(perms) == 0 {
		return Result{}, ErrNoPhases
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	fp := program.Fingerprint(prog)
	outputs := make([]int64, len(perms))
	var (
		evaluated int
		mu        sync.Mutex
	)

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)
	for i, perm := range perms {
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			key := cacheKey{
				fingerprint: fp,
				feedback:    opts.Network.Feedback,
				seed:        opts.Network.Seed,
				memSize:     opts.Network.VM.MemSize,
				phases:      program.Format(perm),
			}
			if v, ok := opts.Cache.get(key); ok {
				outputs[i] = v
				return nil
			}
			out, err := Network(opts.Network, prog, perm)
			if err != nil {
				return fmt.Errorf("phases %v: %w", perm, err)
			}
			opts.Cache.add(key, out)
			outputs[i] = out

			mu.Lock()
			evaluated++
			mu.Unlock()
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return Result{}, err
	}

	best := 0
	for i, elem := range outputs {
		if elem > outputs[best] {
			best = i
		}
	}
	res := Result{
		Output:    outputs[best],
		Phases:    perms[best],
		Evaluated: evaluated,
	}
	logctx.Info(ctx, "max thrust",
		zap.Int64("output", res.Output),
		zap.Int64s("phases", res.Phases),
		zap.Int("permutations", len(perms)),
		zap.Int("evaluated", res.Evaluated),
	)
	return res, nil
}

// FindNounVerb patches memory[1] (noun) and memory[2] (verb) with every value
// in [0, limit], runs the program and returns 100*noun+verb for the first pair
// leaving target in memory[0]. Pairs making the program fault are skipped.
func FindNounVerb(ctx context.Context, cfg vm.Config, prog []int64, target, limit int64) (int64, error) {
	for noun := int64(0); noun <= limit; noun++ {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		for verb := int64(0); verb <= limit; verb++ {
			c := vm.NewComputer(cfg, prog)
			if err := c.Poke(1, noun); err != nil {
				return 0, fmt.Errorf("set noun: %w", err)
			}
			if err := c.Poke(2, verb); err != nil {
				return 0, fmt.Errorf("set verb: %w", err)
			}
			if err := c.RunToHalt(); err != nil {
				logctx.Debug(ctx, "skipping noun/verb", zap.Int64("noun", noun), zap.Int64("verb", verb), zap.Error(err))
				continue
			}
			v, err := c.Peek(0)
			if err != nil {
				return 0, fmt.Errorf("read result: %w", err)
			}
			if v == target {
				logctx.Infof(ctx, "found noun %d verb %d", noun, verb)
				return 100*noun + verb, nil
			}
		}
	}
	return 0, fmt.Errorf("target %d: %w", target, ErrNotFound)
}
