package main

import (
	"os"

	"github.com/cleanworld/cleanc/pkg/compiler/ast"
	"github.com/cleanworld/cleanc/pkg/compiler/cst"
)

func cstEncode(f *os.File, root *cst.Node) error {
	return cst.Encode(f, root)
}

func readCST(path string) (*cst.Node, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return cst.Decode(f)
}

func readAST(path string) (*ast.Program, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ast.Decode(f)
}
