// Command paperclip-core is a thin demonstration binary for the core
// pipeline: parse a `.pc` file, evaluate it, and print its evaluated
// VDOM/CSS as wire JSON.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/paperclip-run/paperclip-core/internal/ast"
	"github.com/paperclip-run/paperclip-core/internal/evaluator"
	"github.com/paperclip-run/paperclip-core/internal/parser"
	"github.com/paperclip-run/paperclip-core/internal/wire"
)

// fsLoader resolves an Import's path relative to the importing file's
// directory by reading and parsing it from disk (spec §4.3 step 1's
// "host process supplies a ModuleLoader backed by disk").
type fsLoader struct {
	baseDir string
	cache   map[string]*ast.Document
}

func newFSLoader(baseDir string) *fsLoader {
	return &fsLoader{baseDir: baseDir, cache: make(map[string]*ast.Document)}
}

func (l *fsLoader) Load(importPath string) (*ast.Document, error) {
	full := filepath.Join(l.baseDir, importPath)
	if doc, ok := l.cache[full]; ok {
		return doc, nil
	}
	source, err := os.ReadFile(full)
	if err != nil {
		return nil, fmt.Errorf("loading %q: %w", full, err)
	}
	doc, errs := parser.Parse(full, string(source))
	if len(errs) > 0 {
		return nil, fmt.Errorf("parsing %q: %w", full, errs)
	}
	l.cache[full] = doc
	return doc, nil
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: paperclip-core <file.pc>")
		os.Exit(1)
	}
	path := os.Args[1]
	source, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "paperclip-core: %v\n", err)
		os.Exit(1)
	}

	doc, parseErrs := parser.Parse(path, string(source))
	if len(parseErrs) > 0 {
		for _, e := range parseErrs {
			fmt.Fprintln(os.Stderr, e.Error())
		}
		os.Exit(2)
	}

	loader := newFSLoader(filepath.Dir(path))
	result := evaluator.Evaluate(doc, loader)
	for _, e := range result.Errors {
		fmt.Fprintln(os.Stderr, e.Error())
	}

	out, err := wire.Marshal(wire.FromVDocument(result.Document))
	if err != nil {
		fmt.Fprintf(os.Stderr, "paperclip-core: encoding output: %v\n", err)
		os.Exit(2)
	}
	fmt.Println(string(out))

	if len(result.Errors) > 0 {
		os.Exit(2)
	}
}
