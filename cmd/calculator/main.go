// Command calculator feeds arithmetic ops through a dependent store and prints
// every resulting state as a JSON line.
//
//	calculator +5 -1 '*100'
//	calculator -limit 100 -- -1 +5
//	printf '+5\n-1\n' | calculator
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/AnatoleLucet/dependent"
	"github.com/AnatoleLucet/dependent/internal/calculator"
	"github.com/AnatoleLucet/dependent/internal/platform/config"
	"github.com/AnatoleLucet/dependent/internal/platform/otel"
	"github.com/AnatoleLucet/dependent/store"
)

const serviceName = "calculator"

const shutdownTimeout = 5 * time.Second

var errOpsFailed = errors.New("some ops failed")

type appConfig struct {
	config.Logging
	OTel otel.Config

	Limit int `env:"DEPENDENT_CALC_LIMIT" envDefault:"0"`
}

func main() {
	var cfg appConfig
	if err := config.ParseEnv(&cfg); err != nil {
		config.Exitf("%v", err)
	}

	fs := flag.NewFlagSet(serviceName, flag.ExitOnError)
	fs.IntVar(&cfg.Limit, "limit", cfg.Limit, "fail once the total exceeds this value (0 disables)")
	_ = fs.Parse(os.Args[1:])

	logger, err := cfg.NewLogger(os.Stderr)
	if err != nil {
		config.Exitf("%v", err)
	}
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	shutdown, err := otel.Setup(ctx, serviceName, cfg.OTel)
	if err != nil {
		config.Exitf("otel: %v", err)
	}

	err = run(ctx, cfg, fs.Args(), os.Stdin, os.Stdout)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if serr := shutdown(shutdownCtx); serr != nil {
		slog.Warn("otel shutdown", "error", serr)
	}

	if err != nil {
		config.Exitf("%s: %v", serviceName, err)
	}
}

// run reads ops from args, or from in when args is empty.
func run(ctx context.Context, cfg appConfig, args []string, in io.Reader, out io.Writer) error {
	calc, err := calculator.New(calculator.WithLimit(cfg.Limit))
	if err != nil {
		return err
	}

	s, err := store.New(calc.Reducer)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(out)
	s.Subscribe(func(state dependent.State) {
		if err := enc.Encode(state); err != nil {
			slog.Error("write state", "error", err)
		}
	})

	ops := args
	if len(ops) == 0 {
		ops, err = readOps(in)
		if err != nil {
			return err
		}
	}

	failed := 0
	for _, op := range ops {
		if err := ctx.Err(); err != nil {
			return err
		}

		action, err := calculator.Parse(op)
		if err == nil {
			err = s.Dispatch(ctx, action)
		}
		if err != nil {
			failed++
			slog.Error("op failed", "op", op, "error", err)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%w: %d of %d", errOpsFailed, failed, len(ops))
	}
	return nil
}

func readOps(in io.Reader) ([]string, error) {
	var ops []string

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		ops = append(ops, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read ops: %w", err)
	}

	return ops, nil
}
