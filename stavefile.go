//go:build stave

package main

import (
	"cmp"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/yaklabco/stave/pkg/sh"
	"github.com/yaklabco/stave/pkg/st"
	"github.com/yaklabco/stave/pkg/target"
)

const (
	binary   = "bin/quickfix"
	mainPkg  = "./cmd/quickfix"
	coverOut = "coverage.out"
)

// Default target.
var Default = Build

// Aliases for the targets run most often.
var Aliases = map[string]any{
	"b": Build,
	"t": Test.Unit,
	"l": Lint.Run,
	"c": Check,
	"f": Test.Fuzz,
	"s": Smoke,
}

type (
	// Test runs the test suites.
	Test st.Namespace
	// Lint checks formatting and static analysis.
	Lint st.Namespace
	// Release verifies the tree is ready to tag.
	Release st.Namespace
)

// Build compiles bin/quickfix with version information, unless it is newer
// than every source file.
func Build() error {
	stale, err := target.Dir(binary, "cmd/", "internal/", "pkg/", "go.mod", "go.sum")
	if err != nil {
		return err
	}
	if !stale {
		fmt.Println(binary, "is up to date")
		return nil
	}
	return sh.RunV("go", "build", "-ldflags", ldflags(), "-o", binary, mainPkg)
}

// Install runs go install with version information.
func Install() error {
	return sh.RunV("go", "install", "-ldflags", ldflags(), mainPkg)
}

// Check formats, lints and tests the tree.
func Check() {
	st.SerialDeps(Lint.Fmt, Lint.Run, Test.Unit)
}

// Clean removes build and coverage output.
func Clean() error {
	return errors.Join(sh.Rm("bin"), sh.Rm(coverOut), sh.Rm("coverage.html"))
}

// Smoke lists and previews the fixes offered in a small C++ file.
func Smoke() error {
	st.Deps(Build)

	dir, err := os.MkdirTemp("", "quickfix-smoke")
	if err != nil {
		return err
	}
	defer os.RemoveAll(dir)

	src := filepath.Join(dir, "smoke.cpp")
	code := "int scale(int n) {\n  if (n > 0) return n * 255;\n  return 0;\n}\n"
	if err := os.WriteFile(src, []byte(code), 0o644); err != nil {
		return err
	}
	if err := sh.RunV(binary, "list", src, "-l", "2", "-c", "3"); err != nil {
		return err
	}
	return sh.RunV(binary, "apply", src, "-l", "2", "-c", "3", "--rule", "add-braces")
}

// Unit runs every package's tests with the race detector and coverage.
func (Test) Unit() error {
	return gotestsum("pkgname-and-test-fails", "-race", "-coverprofile="+coverOut, "-covermode=atomic", "./...")
}

// Verbose runs the tests printing every test name.
func (Test) Verbose() error {
	return gotestsum("testdox", "-race", "./...")
}

// Cover renders coverage.out as HTML.
func (Test) Cover() error {
	st.Deps(Test.Unit)
	return sh.RunV("go", "tool", "cover", "-html="+coverOut, "-o", "coverage.html")
}

// Fuzz runs each fuzz target for FUZZTIME (default 30s).
func (Test) Fuzz() error {
	fuzzTime := cmp.Or(os.Getenv("FUZZTIME"), "30s")
	targets := []struct{ pkg, name string }{
		{"./pkg/fix", "FuzzChangeSetApply"},
		{"./pkg/fix", "FuzzGenerateDiff"},
		{"./pkg/fsutil", "FuzzWriteAtomic"},
	}
	for _, tgt := range targets {
		if err := sh.RunV("go", "test", tgt.pkg, "-run=^$", "-fuzz=^"+tgt.name+"$", "-fuzztime="+fuzzTime); err != nil {
			return fmt.Errorf("%s: %w", tgt.name, err)
		}
	}
	return nil
}

// Bench runs the parser and dispatcher benchmarks.
func (Test) Bench() error {
	return sh.RunV("go", "test", "-run=^$", "-bench=.", "-benchmem",
		"./pkg/cppast/...", "./pkg/quickfix/...", "./pkg/semantic/...")
}

// Run runs golangci-lint, fixing what it can outside CI.
func (Lint) Run() error {
	args := []string{"run", "./..."}
	if os.Getenv("CI") == "" {
		args = append(args, "--fix")
	}
	return sh.RunV("golangci-lint", args...)
}

// Fmt rewrites Go sources with gofmt.
func (Lint) Fmt() error {
	return sh.RunV("gofmt", "-w", "cmd", "internal", "pkg")
}

// Release checks formatting, vet, module tidiness and cross builds.
func (Release) Check() error {
	unformatted, err := sh.Output("gofmt", "-l", "cmd", "internal", "pkg")
	if err != nil {
		return err
	}
	if unformatted != "" {
		return fmt.Errorf("unformatted files:\n%s", unformatted)
	}
	if err := sh.RunV("go", "vet", "./..."); err != nil {
		return err
	}
	if err := sh.RunV("go", "mod", "tidy", "-diff"); err != nil {
		return fmt.Errorf("go.mod is not tidy: %w", err)
	}
	st.SerialDeps(Release.Cross)
	return nil
}

// Cross builds for each release platform.
func (Release) Cross() error {
	platforms := []string{
		"linux/amd64", "linux/arm64",
		"darwin/amd64", "darwin/arm64",
		"windows/amd64", "windows/arm64",
		"freebsd/amd64",
	}
	for _, platform := range platforms {
		goos, goarch, _ := strings.Cut(platform, "/")
		env := map[string]string{"GOOS": goos, "GOARCH": goarch, "CGO_ENABLED": "0"}
		if err := sh.RunWith(env, "go", "build", "-o", os.DevNull, mainPkg); err != nil {
			return fmt.Errorf("build %s: %w", platform, err)
		}
	}
	return nil
}

func gotestsum(format string, testArgs ...string) error {
	procs := cmp.Or(os.Getenv("STAVE_NUM_PROCESSORS"), fmt.Sprint(runtime.NumCPU()))
	args := append([]string{"tool", "gotestsum", "-f", format, "--", "-p", procs}, testArgs...)
	return sh.RunV("go", args...)
}

func ldflags() string {
	git := func(args ...string) string {
		out, err := sh.Output("git", args...)
		if err != nil {
			return ""
		}
		return strings.TrimSpace(out)
	}
	return fmt.Sprintf("-s -w -X main.version=%s -X main.commit=%s -X main.date=%s",
		cmp.Or(git("describe", "--tags", "--always", "--dirty"), "dev"),
		cmp.Or(git("rev-parse", "--short", "HEAD"), "none"),
		time.Now().UTC().Format(time.RFC3339),
	)
}
