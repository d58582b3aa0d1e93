package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"

	"github.com/goccy/go-json"
	"github.com/jessevdk/go-flags"
	"github.com/karupanerura/lettercalc/internal/batch"
	"github.com/karupanerura/lettercalc/internal/expression"
	"github.com/karupanerura/lettercalc/internal/server"
	"github.com/karupanerura/lettercalc/internal/types"
	"github.com/mattn/go-isatty"
)

type Option struct {
	Exprs    []string           `short:"e" long:"expr" description:"[OPTIONAL] Expression to evaluate (repeatable)"`
	File     string             `short:"f" long:"file" description:"[OPTIONAL] Batch file of cases (.yaml or .json)"`
	Dialect  expression.Dialect `short:"d" long:"dialect" description:"[OPTIONAL] Notation of expressions" choice:"mixed" choice:"mnemonic" choice:"symbolic" default:"mixed"`
	Listen   string             `short:"l" long:"listen" description:"[OPTIONAL] Listen host and port to serve the evaluation API"`
	Parallel int                `short:"j" long:"parallel" description:"[OPTIONAL] Number of batch cases evaluated concurrently" default:"4"`
	JSON     bool               `long:"json" description:"[OPTIONAL] Print results as JSON"`
	Debug    bool               `long:"debug" description:"[OPTIONAL] Trace tokenizer and evaluator stacks"`
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	var opt Option
	parser := flags.NewParser(&opt, flags.Default)
	parser.Usage = "[OPTIONS] [EXPRESSION...]"
	rest, err := parser.ParseArgs(args)
	if err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			return 0
		} else {
			parser.WriteHelp(stdout)
			return 1
		}
	}
	exprs := append(opt.Exprs, rest...)

	modes := 0
	for _, enabled := range []bool{opt.Listen != "", opt.File != "", len(exprs) != 0} {
		if enabled {
			modes++
		}
	}
	if modes != 1 {
		parser.WriteHelp(stdout)
		return 1
	}

	// server mode
	if opt.Listen != "" {
		if err := serve(opt.Listen); err != nil {
			log.Printf("failed to serve: %v", err)
			return 1
		}
		return 0
	}

	// batch mode
	if opt.File != "" {
		suite, err := loadSuite(opt.File)
		if err != nil {
			log.Printf("failed to load batch file: %v", err)
			return 1
		}
		results, err := suite.Run(context.Background(), opt.Parallel)
		if err != nil {
			log.Printf("failed to run batch: %v", err)
			return 1
		}
		if err = dumpJSON(stdout, results); err != nil {
			log.Printf("failed to dump batch results: %v", err)
			return 1
		}
		if passed, failed := batch.Summary(results); failed != 0 {
			fmt.Fprintf(stderr, "%d passed, %d failed\n", passed, failed)
			return 1
		}
		return 0
	}

	tokenizer := &expression.Tokenizer{Dialect: opt.Dialect, Debug: opt.Debug}
	status := 0
	for _, source := range exprs {
		if err := evaluate(tokenizer, source, opt.JSON, stdout, stderr); err != nil {
			status = 1
		}
	}
	return status
}

func evaluate(p expression.Parser, source string, asJSON bool, stdout, stderr io.Writer) error {
	expr, err := p.Parse(source)
	var v float64
	if err == nil {
		v, err = expr.Evaluate()
	}

	if asJSON {
		out := map[string]any{"expr": source}
		if err != nil {
			var exception types.Exception
			if errors.As(err, &exception) {
				out["error"] = exception.Exception()
			} else {
				out["error"] = err.Error()
			}
		} else {
			out["result"] = types.Number(v)
		}
		if dumpErr := dumpJSON(stdout, out); dumpErr != nil {
			log.Printf("failed to dump result: %v", dumpErr)
		}
		return err
	}

	if err != nil {
		if _, dumpErr := fmt.Fprintf(stderr, "%s: %v\n", source, err); dumpErr != nil {
			log.Printf("failed to dump error: %v", dumpErr)
		}
		return err
	}
	if _, dumpErr := fmt.Fprintln(stdout, types.Number(v).String()); dumpErr != nil {
		log.Printf("failed to dump result: %v", dumpErr)
	}
	return nil
}

func loadSuite(filePath string) (*batch.Suite, error) {
	var parseSuite func(io.Reader) (*batch.Suite, error)
	switch filepath.Ext(filePath) {
	case ".json":
		parseSuite = batch.ParseSuiteJSON
	case ".yaml", ".yml":
		parseSuite = batch.ParseSuiteYAML
	default:
		return nil, fmt.Errorf("unsupported file extension: %s", filePath)
	}

	f, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("os.Open(%q): %w", filePath, err)
	}
	defer f.Close()

	suite, err := parseSuite(f)
	if err != nil {
		return nil, fmt.Errorf("batch.ParseSuite: %w", err)
	}
	return suite, nil
}

func serve(listen string) error {
	srv := http.Server{
		Handler: server.NewHTTPHandler(),
		Addr:    listen,
	}

	log.Printf("Listen HTTP on %s", listen)
	if err := srv.ListenAndServe(); errors.Is(err, http.ErrServerClosed) {
		return nil
	} else if err != nil {
		return err
	}
	return nil
}

func dumpJSON(w io.Writer, v any) error {
	opts := []json.EncodeOptionFunc{json.DisableHTMLEscape()}
	if f, ok := w.(interface{ Fd() uintptr }); ok {
		if isatty.IsTerminal(f.Fd()) {
			opts = append(opts, json.Colorize(json.DefaultColorScheme))
		}
	}

	b, err := json.MarshalIndentWithOption(v, "", "\t", opts...)
	if err != nil {
		return fmt.Errorf("json.MarshalIndentWithOption: %w", err)
	}

	if _, err = w.Write(b); err != nil {
		return fmt.Errorf("w.Write: %w", err)
	}
	if _, err = io.WriteString(w, "\n"); err != nil {
		return fmt.Errorf("io.WriteString: %w", err)
	}
	return nil
}
