package main

import (
	"fmt"
	"os"
	"sort"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"gopkg.in/urfave/cli.v1"

	"github.com/cleanworld/cleanc/pkg/compiler/lexer"
)

// lexSource prints the token stream plus the symbol and literal tables
// collected from it.
func lexSource(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return cli.NewExitError("usage: cleanc lex <source.clean>", exitUsage)
	}
	src, err := os.ReadFile(ctx.Args().Get(0))
	if err != nil {
		return cli.NewExitError(err.Error(), exitIO)
	}

	tokens, d := lexer.Scan(src)
	if d != nil {
		reportDiag(*d)
		return cli.NewExitError("", exitBadCode)
	}

	symbols := make(map[string]bool)
	literals := make(map[string]bool)

	stream := tablewriter.NewWriter(os.Stdout)
	stream.SetHeader([]string{"Line", "Col", "Kind", "Lexeme"})
	for _, tok := range tokens {
		if tok.Kind == lexer.KindEOF {
			continue
		}
		stream.Append([]string{
			strconv.Itoa(tok.Line),
			strconv.Itoa(tok.Column),
			tok.Kind.String(),
			tok.Lexeme,
		})
		switch tok.Kind {
		case lexer.KindIdentifier:
			symbols[tok.Lexeme] = true
		case lexer.KindIntLiteral, lexer.KindStringLiteral:
			literals[tok.Lexeme] = true
		}
	}

	fmt.Println("----- TOKEN STREAM -----")
	stream.Render()
	fmt.Println("\n----- SYMBOL TABLE -----")
	renderSet(symbols)
	fmt.Println("\n----- LITERAL TABLE -----")
	renderSet(literals)
	return nil
}

func renderSet(set map[string]bool) {
	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)

	table := tablewriter.NewWriter(os.Stdout)
	for _, name := range names {
		table.Append([]string{name})
	}
	table.Render()
}
