// Package cli implements the typc command: it wires the processing
// pipeline together, loads the optional typc.yaml configuration and
// reports diagnostics.
package cli

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/typelang/typc/internal/config"
	"github.com/typelang/typc/internal/decision"
	"github.com/typelang/typc/internal/emitter"
	"github.com/typelang/typc/internal/lexer"
	"github.com/typelang/typc/internal/parser"
	"github.com/typelang/typc/internal/pipeline"
	"github.com/typelang/typc/internal/prettyprinter"
	"github.com/typelang/typc/internal/resolver"
)

const usage = `Usage: typc [options] [file%s]

Reads declarations from the given file (or stdin) and writes the
generated capability graph to stdout or -o.

Options:
  -o <file>        write output to <file> instead of stdout
  -check           validate only, emit nothing
  -config <file>   read configuration from <file> instead of typc.yaml
  -debug           dump the reparsed canonical source to stderr
`

// Run executes the command line and returns the process exit code:
// 0 on success, 1 on diagnostics, 2 on usage or I/O errors.
func Run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("typc", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { fmt.Fprintf(stderr, usage, config.SourceFileExt) }

	outPath := fs.String("o", "", "output file")
	checkOnly := fs.Bool("check", false, "validate only")
	configPath := fs.String("config", "", "configuration file")
	debugMode := fs.Bool("debug", false, "dump canonical source")

	if err := fs.Parse(args); err != nil {
		return 2
	}

	sourceCode, filePath, err := readInput(fs.Args())
	if err != nil {
		fmt.Fprintf(stderr, "Error: %s\n", err)
		return 2
	}

	cfg, err := loadConfig(*configPath, filePath)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %s\n", err)
		return 2
	}

	ctx := runPipeline(sourceCode, filePath, cfg)

	if *debugMode {
		printer := prettyprinter.NewCodePrinter()
		fmt.Fprintln(stderr, printer.Print(ctx.Functions))
	}

	if ctx.HasErrors() {
		color := colorsEnabled(stderr)
		fmt.Fprintf(stderr, "Processing failed with %d error(s):\n", len(ctx.Errors))
		for _, err := range ctx.Errors {
			fmt.Fprintf(stderr, "- %s\n", err.Pretty(color))
		}
		return 1
	}

	if *checkOnly {
		return 0
	}

	if *outPath != "" {
		if err := os.WriteFile(*outPath, []byte(ctx.Output), 0644); err != nil {
			fmt.Fprintf(stderr, "Error writing output: %s\n", err)
			return 2
		}
		return 0
	}

	fmt.Fprint(stdout, ctx.Output)
	return 0
}

// runPipeline assembles and runs the full stage chain over one source.
func runPipeline(sourceCode, filePath string, cfg *config.Config) *pipeline.PipelineContext {
	initialContext := pipeline.NewPipelineContext(sourceCode)
	initialContext.FilePath = filePath

	processingPipeline := pipeline.New(
		&lexer.LexerProcessor{},
		&parser.ParserProcessor{},
		decision.NewBuilderProcessor(cfg.Names),
		&resolver.ResolverProcessor{},
		emitter.NewEmitterProcessor(cfg),
	)

	return processingPipeline.Run(initialContext)
}

func readInput(args []string) (string, string, error) {
	if len(args) == 0 {
		stat, _ := os.Stdin.Stat()
		if (stat.Mode() & os.ModeCharDevice) != 0 {
			return "", "", fmt.Errorf("no input file and stdin is a terminal")
		}
		input, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(input), "<stdin>", nil
	}

	path := args[0]
	input, err := os.ReadFile(path)
	if err != nil {
		return "", "", fmt.Errorf("reading input: %w", err)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	return string(input), abs, nil
}

// loadConfig resolves the configuration: an explicit -config path must
// exist; otherwise a typc.yaml next to the source is used when present.
func loadConfig(explicit, filePath string) (*config.Config, error) {
	if explicit != "" {
		return config.Load(explicit)
	}

	if filePath != "" && filePath != "<stdin>" {
		candidate := filepath.Join(filepath.Dir(filePath), config.ConfigFileName)
		if _, err := os.Stat(candidate); err == nil {
			return config.Load(candidate)
		}
	}
	return config.Default(), nil
}

// colorsEnabled follows the NO_COLOR convention (https://no-color.org/)
// and disables color on dumb terminals and non-tty outputs.
func colorsEnabled(w io.Writer) bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	if strings.EqualFold(os.Getenv("TERM"), "dumb") {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
