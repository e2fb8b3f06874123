package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/reoring/dtoskema/source"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	switch os.Args[1] {
	case "decode":
		decodeCmd(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "dtoskema CLI\n\nUsage:\n  dtoskema decode [-format json|yaml] [-dup error|warn|ignore] [-max-depth N] [-v] FILE\n\nNotes:\n  - decode prints the plain data a serializer would receive, as JSON.\n  - FILE may be - for stdin.")
}

func decodeCmd(args []string) {
	fs := flag.NewFlagSet("decode", flag.ExitOnError)
	var format, dup string
	var maxDepth int
	var verbose bool
	fs.StringVar(&format, "format", "", "input format (json or yaml); guessed from the extension when empty")
	fs.StringVar(&dup, "dup", "error", "duplicate key policy: error, warn or ignore")
	fs.IntVar(&maxDepth, "max-depth", 0, "maximum nesting depth (0 uses the default, negative disables)")
	fs.BoolVar(&verbose, "v", false, "enable verbose logs")
	_ = fs.Parse(args)
	if fs.NArg() != 1 {
		fs.Usage()
		os.Exit(2)
	}

	level := zerolog.WarnLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()
	ctx := logger.WithContext(context.Background())

	opts, err := parseOptions(dup, maxDepth)
	if err != nil {
		fatalf("%v", err)
	}
	path := fs.Arg(0)
	if format == "" {
		format = guessFormat(path)
	}
	b, err := readInput(path)
	if err != nil {
		fatalf("reading input: %v", err)
	}
	logger.Debug().Str("path", path).Str("format", format).Int("bytes", len(b)).Msg("decode")

	v, err := decode(ctx, format, b, opts)
	if err != nil {
		fatalf("%v", err)
	}
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fatalf("encoding output: %v", err)
	}
	fmt.Println(string(out))
}

func decode(ctx context.Context, format string, b []byte, opts source.Options) (any, error) {
	switch format {
	case "json":
		return source.JSONBytes(ctx, b, opts)
	case "yaml", "yml":
		return source.YAMLBytes(ctx, b, opts)
	default:
		return nil, fmt.Errorf("unknown format %q", format)
	}
}

func parseOptions(dup string, maxDepth int) (source.Options, error) {
	opts := source.Options{MaxDepth: maxDepth}
	switch dup {
	case "error":
		opts.OnDuplicate = source.DuplicateError
	case "warn":
		opts.OnDuplicate = source.DuplicateWarn
	case "ignore":
		opts.OnDuplicate = source.DuplicateIgnore
	default:
		return opts, fmt.Errorf("unknown duplicate policy %q", dup)
	}
	return opts, nil
}

func guessFormat(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return "yaml"
	default:
		return "json"
	}
}

func readInput(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

func fatalf(format string, a ...any) {
	fmt.Fprintf(os.Stderr, "dtoskema: "+format+"\n", a...)
	os.Exit(1)
}
