package main

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

type finding struct {
	pos token.Position
	msg string
}

type golangciConfig struct {
	Issues struct {
		MaxIssuesPerLinter int      `yaml:"max-issues-per-linter"`
		ExcludeDirs        []string `yaml:"exclude-dirs"`
		ExcludeFiles       []string `yaml:"exclude-files"`
	} `yaml:"issues"`
}

// rules holds the resolved exclusions and limits for one run.
type rules struct {
	excludeDirs  []string
	excludeFiles []*regexp.Regexp
	limit        int
	types        bool
}

// result is the outcome of linting a file set.
type result struct {
	findings  []finding
	truncated bool
}

// loadConfig reads the golangci-lint config; a missing file yields defaults.
func loadConfig(path string) (golangciConfig, error) {
	var cfg golangciConfig
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// newRules compiles the config exclusions.
func newRules(cfg golangciConfig, types bool) (*rules, error) {
	r := &rules{limit: cfg.Issues.MaxIssuesPerLinter, types: types}
	for _, d := range cfg.Issues.ExcludeDirs {
		d = strings.TrimSpace(strings.TrimPrefix(d, "./"))
		if d != "" {
			r.excludeDirs = append(r.excludeDirs, filepath.ToSlash(d))
		}
	}
	for _, p := range cfg.Issues.ExcludeFiles {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		rx, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid exclude regex %q: %w", p, err)
		}
		r.excludeFiles = append(r.excludeFiles, rx)
	}
	return r, nil
}

// lint parses every non-excluded file and collects findings up to the limit.
func (r *rules) lint(files []string) (result, error) {
	var res result
	fset := token.NewFileSet()
	for _, filename := range files {
		if r.excluded(filepath.ToSlash(relativePath(filename))) {
			continue
		}
		src, err := os.ReadFile(filename)
		if err != nil {
			return res, err
		}
		if isGenerated(src) {
			continue
		}
		found, err := r.lintSource(fset, filename, src)
		if err != nil {
			return res, err
		}
		for _, f := range found {
			if r.limit > 0 && len(res.findings) >= r.limit {
				res.truncated = true
				return res, nil
			}
			res.findings = append(res.findings, f)
		}
	}
	return res, nil
}

// lintSource reports undocumented functions, and exported types when enabled.
func (r *rules) lintSource(fset *token.FileSet, filename string, src []byte) ([]finding, error) {
	f, err := parser.ParseFile(fset, filename, src, parser.ParseComments)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", filename, err)
	}
	var out []finding
	for _, decl := range f.Decls {
		switch d := decl.(type) {
		case *ast.FuncDecl:
			if d.Body == nil || documented(d.Doc) {
				continue
			}
			out = append(out, finding{pos: fset.Position(d.Pos()), msg: fmt.Sprintf("missing doc comment for function %q", d.Name.Name)})
		case *ast.GenDecl:
			if !r.types || d.Tok != token.TYPE {
				continue
			}
			for _, spec := range d.Specs {
				ts := spec.(*ast.TypeSpec)
				if !ts.Name.IsExported() || documented(ts.Doc) || (len(d.Specs) == 1 && documented(d.Doc)) {
					continue
				}
				out = append(out, finding{pos: fset.Position(ts.Pos()), msg: fmt.Sprintf("missing doc comment for type %q", ts.Name.Name)})
			}
		}
	}
	return out, nil
}

// excluded reports whether a relative path matches the configured exclusions.
func (r *rules) excluded(rel string) bool {
	for _, d := range r.excludeDirs {
		if rel == d || strings.HasPrefix(rel, d+"/") {
			return true
		}
	}
	for _, rx := range r.excludeFiles {
		if rx.MatchString(rel) {
			return true
		}
	}
	return false
}

// documented reports whether a comment group has text.
func documented(doc *ast.CommentGroup) bool {
	return doc != nil && strings.TrimSpace(doc.Text()) != ""
}

// isGenerated checks the first lines for the standard generated-code header.
func isGenerated(src []byte) bool {
	scanner := bufio.NewScanner(bytes.NewReader(src))
	for i := 0; i < 10 && scanner.Scan(); i++ {
		line := scanner.Text()
		if strings.Contains(line, "Code generated") || strings.Contains(line, "DO NOT EDIT") {
			return true
		}
	}
	return false
}

// relativePath converts an absolute path to one relative to the working directory when possible.
func relativePath(path string) string {
	if rel, err := filepath.Rel(".", path); err == nil {
		return rel
	}
	return path
}
