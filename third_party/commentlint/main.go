// Package main runs the commentlint CLI.
package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/spf13/pflag"
)

type pkgInfo struct {
	Dir         string   `json:"Dir"`
	GoFiles     []string `json:"GoFiles"`
	TestGoFiles []string `json:"TestGoFiles"`
}

// main is the entrypoint for the comment linter CLI.
func main() {
	configPath := pflag.String("config", ".golangci.yml", "golangci-lint config providing exclusions and the issue limit")
	types := pflag.Bool("types", true, "Also require doc comments on exported types")
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] [packages]\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Ensures every function has a doc comment. Defaults to ./...\n")
		pflag.PrintDefaults()
	}
	pflag.Parse()
	patterns := pflag.Args()
	if len(patterns) == 0 {
		patterns = []string{"./..."}
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fail(err)
	}
	rules, err := newRules(cfg, *types)
	if err != nil {
		fail(err)
	}
	pkgs, err := listPackages(patterns)
	if err != nil {
		fail(err)
	}

	var files []string
	for _, pkg := range pkgs {
		for _, file := range append(append([]string{}, pkg.GoFiles...), pkg.TestGoFiles...) {
			files = append(files, filepath.Join(pkg.Dir, file))
		}
	}

	report, err := rules.lint(files)
	if err != nil {
		fail(err)
	}
	if len(report.findings) == 0 {
		return
	}
	for _, f := range report.findings {
		fmt.Fprintf(os.Stderr, "%s:%d:%d: %s\n", relativePath(f.pos.Filename), f.pos.Line, f.pos.Column, f.msg)
	}
	if report.truncated {
		fmt.Fprintf(os.Stderr, "commentlint: output truncated after %d issues (see %s)\n", rules.limit, *configPath)
	}
	os.Exit(1)
}

// fail prints err and exits.
func fail(err error) {
	fmt.Fprintf(os.Stderr, "commentlint: %v\n", err)
	os.Exit(1)
}

// listPackages invokes `go list -json` for the provided patterns and returns the package metadata.
func listPackages(patterns []string) ([]pkgInfo, error) {
	args := append([]string{"list", "-json"}, patterns...)
	cmd := exec.Command("go", args...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, err
	}
	cmd.Stderr = os.Stderr
	if err := cmd.Start(); err != nil {
		return nil, err
	}

	dec := json.NewDecoder(bufio.NewReader(stdout))
	var pkgs []pkgInfo
	for dec.More() {
		var info pkgInfo
		if err := dec.Decode(&info); err != nil {
			_ = cmd.Wait()
			return nil, err
		}
		pkgs = append(pkgs, info)
	}
	if err := cmd.Wait(); err != nil {
		return nil, err
	}
	return pkgs, nil
}
