package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/oxlua/oxlua/oxlua"
)

func main() {
	if err := runCLI(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runCLI(args []string) error {
	if len(args) < 2 {
		return usageError()
	}
	switch args[1] {
	case "build":
		return buildCommand(args[2:])
	case "fmt":
		return fmtCommand(args[2:])
	case "play":
		return runPlayground()
	case "help", "-h", "--help":
		printUsage()
		return nil
	default:
		return usageError()
	}
}

func buildCommand(args []string) error {
	fs := flag.NewFlagSet("build", flag.ContinueOnError)
	fs.SetOutput(new(flagErrorSink))
	file := fs.String("f", "", "source file to compile")
	output := fs.String("o", "", "write emitted code to this file instead of stdout")
	indent := fs.String("indent", "    ", "indentation unit for emitted code")
	if err := fs.Parse(args); err != nil {
		return err
	}

	path := *file
	if path == "" && len(fs.Args()) == 1 {
		path = fs.Args()[0]
	}
	if path == "" {
		return errors.New("oxlua build: source file required (-f <file>)")
	}

	srcBytes, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read source: %w", err)
	}
	src := string(srcBytes)

	emitted, err := oxlua.TranspileWithOptions(src, oxlua.Options{Indent: *indent})
	if err != nil {
		return oxlua.WrapWithSource(err, src)
	}

	if *output == "" {
		fmt.Print(emitted)
		return nil
	}
	if err := os.WriteFile(*output, []byte(emitted), 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}

func usageError() error {
	printUsage()
	return errors.New("invalid command")
}

func printUsage() {
	prog := filepath.Base(os.Args[0])
	fmt.Fprintf(os.Stderr, "Usage: %s <command> [flags]\n", prog)
	fmt.Fprintln(os.Stderr, "Commands:")
	fmt.Fprintln(os.Stderr, "  build -f <file> [-o <out>]")
	fmt.Fprintln(os.Stderr, "    compile a source file to Luau")
	fmt.Fprintln(os.Stderr, "  fmt [-w] [-check] <paths>")
	fmt.Fprintln(os.Stderr, "    rewrite source files in canonical form")
	fmt.Fprintln(os.Stderr, "  play")
	fmt.Fprintln(os.Stderr, "    interactive transpiler playground")
}

type flagErrorSink struct{}

func (flagErrorSink) Write(p []byte) (int, error) {
	return len(p), nil
}
