// cleanc drives the CleanWorld pipeline: one command per stage, each
// reading one input artifact and writing one output artifact, so stages
// can be invoked and inspected separately.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"gopkg.in/urfave/cli.v1"

	"github.com/cleanworld/cleanc/pkg/compiler/ast"
	"github.com/cleanworld/cleanc/pkg/compiler/lower"
	"github.com/cleanworld/cleanc/pkg/compiler/parser"
	"github.com/cleanworld/cleanc/pkg/compiler/semantic"
	"github.com/cleanworld/cleanc/pkg/diag"
	"github.com/cleanworld/cleanc/pkg/interp"
)

// Exit codes distinguish where the pipeline failed.
const (
	exitUsage   = 64
	exitBadCode = 65 // LEX, PARSE or SEMANTIC failure
	exitRuntime = 70 // RUNTIME failure
	exitIO      = 74
)

var (
	configFlag = cli.StringFlag{
		Name:  "config",
		Usage: "TOML run configuration file (world seeding, step budget)",
	}
	stepsFlag = cli.IntFlag{
		Name:  "steps",
		Usage: "override the maximum step budget",
	}
	verboseFlag = cli.BoolFlag{
		Name:  "verbose, v",
		Usage: "render the world before and after execution",
	}
)

func main() {
	if !isatty.IsTerminal(os.Stderr.Fd()) {
		color.NoColor = true
	}

	app := cli.NewApp()
	app.Name = "cleanc"
	app.Usage = "CleanWorld language pipeline"
	app.Commands = []cli.Command{
		{
			Name:      "lex",
			Usage:     "Tokenize a source file and print token, symbol and literal tables",
			ArgsUsage: "<source.clean>",
			Action:    lexSource,
		},
		{
			Name:      "parse",
			Usage:     "Parse a source file into a CST artifact",
			ArgsUsage: "<source.clean> <cst.json>",
			Action:    parseSource,
		},
		{
			Name:      "lower",
			Usage:     "Lower a CST artifact into an AST artifact",
			ArgsUsage: "<cst.json> <ast.json>",
			Action:    lowerCST,
		},
		{
			Name:      "analyze",
			Usage:     "Analyze an AST artifact; semantic findings are data, not failure",
			ArgsUsage: "<ast.json> <diagnostics.json>",
			Action:    analyzeAST,
		},
		{
			Name:      "run",
			Usage:     "Execute an AST artifact (or a .clean source via the full pipeline)",
			ArgsUsage: "<ast.json|source.clean> <trace.json>",
			Flags:     []cli.Flag{configFlag, stepsFlag, verboseFlag},
			Action:    runProgram,
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func parseSource(ctx *cli.Context) error {
	if ctx.NArg() != 2 {
		return cli.NewExitError("usage: cleanc parse <source.clean> <cst.json>", exitUsage)
	}
	src, err := os.ReadFile(ctx.Args().Get(0))
	if err != nil {
		return cli.NewExitError(err.Error(), exitIO)
	}

	root, d := parser.Parse(src)
	if d != nil {
		reportDiag(*d)
		return cli.NewExitError("", exitBadCode)
	}
	return writeArtifact(ctx.Args().Get(1), func(f *os.File) error {
		return cstEncode(f, root)
	})
}

func lowerCST(ctx *cli.Context) error {
	if ctx.NArg() != 2 {
		return cli.NewExitError("usage: cleanc lower <cst.json> <ast.json>", exitUsage)
	}
	root, err := readCST(ctx.Args().Get(0))
	if err != nil {
		return cli.NewExitError(err.Error(), exitIO)
	}
	prog, err := lower.Lower(root)
	if err != nil {
		return cli.NewExitError(err.Error(), exitBadCode)
	}
	return writeArtifact(ctx.Args().Get(1), func(f *os.File) error {
		return ast.Encode(f, prog)
	})
}

func analyzeAST(ctx *cli.Context) error {
	if ctx.NArg() != 2 {
		return cli.NewExitError("usage: cleanc analyze <ast.json> <diagnostics.json>", exitUsage)
	}
	prog, err := readAST(ctx.Args().Get(0))
	if err != nil {
		return cli.NewExitError(err.Error(), exitIO)
	}

	diags := semantic.Analyze(prog)
	for _, d := range diags {
		reportDiag(d)
	}
	// Semantic findings are the stage's output, not its failure: the
	// command exits zero even when errors were found.
	return writeArtifact(ctx.Args().Get(1), func(f *os.File) error {
		return writeDiags(f, diags)
	})
}

func runProgram(ctx *cli.Context) error {
	if ctx.NArg() != 2 {
		return cli.NewExitError("usage: cleanc run <ast.json|source.clean> <trace.json>", exitUsage)
	}
	inputPath := ctx.Args().Get(0)

	var prog *ast.Program
	if filepath.Ext(inputPath) == ".clean" {
		src, err := os.ReadFile(inputPath)
		if err != nil {
			return cli.NewExitError(err.Error(), exitIO)
		}
		root, d := parser.Parse(src)
		if d != nil {
			reportDiag(*d)
			return cli.NewExitError("", exitBadCode)
		}
		if prog, err = lower.Lower(root); err != nil {
			return cli.NewExitError(err.Error(), exitBadCode)
		}
	} else {
		var err error
		if prog, err = readAST(inputPath); err != nil {
			return cli.NewExitError(err.Error(), exitIO)
		}
	}

	// Interpretation is refused while any ERROR-severity semantic
	// diagnostic exists; warnings are reported and execution proceeds.
	diags := semantic.Analyze(prog)
	for _, d := range diags {
		reportDiag(d)
	}
	if diag.HasErrors(diags) {
		return cli.NewExitError("cleanc: program rejected by semantic analysis", exitBadCode)
	}

	cfg := interp.DefaultConfig()
	if path := ctx.String("config"); path != "" {
		var err error
		if cfg, err = interp.LoadConfig(path); err != nil {
			return cli.NewExitError(err.Error(), exitIO)
		}
	}
	if steps := ctx.Int("steps"); steps > 0 {
		cfg.MaxSteps = steps
	}

	result, d := interp.New(cfg).Run(prog)
	if ctx.Bool("verbose") {
		fmt.Println(renderSnapshot(result))
	}
	if err := writeArtifact(ctx.Args().Get(1), func(f *os.File) error {
		return interp.WriteResult(f, result)
	}); err != nil {
		return err
	}
	if d != nil {
		reportDiag(*d)
		return cli.NewExitError("", exitRuntime)
	}
	return nil
}

func renderSnapshot(r *interp.Result) string {
	w := interp.NewWorld(r.World.Width, r.World.Height)
	w.AgentX, w.AgentY = r.World.AgentX, r.World.AgentY
	w.Facing = r.World.Facing
	for _, c := range r.World.Dirt {
		w.Dirt[c] = true
	}
	return w.Render()
}

func writeDiags(f *os.File, diags []diag.Diagnostic) error {
	if diags == nil {
		diags = []diag.Diagnostic{}
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(diags)
}

func reportDiag(d diag.Diagnostic) {
	paint := color.New(color.FgRed).SprintFunc()
	if d.Severity == diag.Warning {
		paint = color.New(color.FgYellow).SprintFunc()
	}
	fmt.Fprintln(os.Stderr, paint(d.Error()))
}

func writeArtifact(path string, write func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return cli.NewExitError(err.Error(), exitIO)
	}
	defer f.Close()
	if err := write(f); err != nil {
		return cli.NewExitError(err.Error(), exitIO)
	}
	return nil
}
