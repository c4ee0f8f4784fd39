package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
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
	case "check":
		return checkCommand(args[2:], os.Stdout)
	case "repl":
		return replCommand(args[2:])
	case "help", "-h", "--help":
		printUsage()
		return nil
	default:
		return usageError()
	}
}

func checkCommand(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("check", flag.ContinueOnError)
	fs.SetOutput(new(flagErrorSink))
	verbose := fs.Bool("verbose", false, "print every class with its member counts")
	if err := fs.Parse(args); err != nil {
		return err
	}
	remaining := fs.Args()
	if len(remaining) == 0 {
		return errors.New("strict check: declaration file required")
	}

	registry, err := loadDeclFile(remaining[0])
	if err != nil {
		return err
	}
	names := registry.ClassNames()
	if *verbose {
		for _, name := range names {
			schema, err := registry.Lookup(name)
			if err != nil {
				return err
			}
			methods := schema.MethodNames()
			sort.Strings(methods)
			fmt.Fprintf(out, "%s: %d attributes, %d methods\n",
				name, len(schema.AttributeNames()), len(methods))
		}
	}
	fmt.Fprintf(out, "%d classes defined, contracts satisfied\n", len(names))
	return nil
}

func replCommand(args []string) error {
	env, err := loadReplEnv()
	if err != nil {
		return err
	}

	fs := flag.NewFlagSet("repl", flag.ContinueOnError)
	fs.SetOutput(new(flagErrorSink))
	classFile := fs.String("classes", env.Classes, "declaration file to load on startup")
	watch := fs.Bool("watch", env.Watch, "reload declarations when the file changes")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *watch && *classFile == "" {
		return errors.New("strict repl: -watch requires -classes")
	}

	model, err := newREPLModel(*classFile)
	if err != nil {
		return err
	}
	return runREPL(model, *watch)
}

func usageError() error {
	printUsage()
	return errors.New("invalid command")
}

func printUsage() {
	prog := filepath.Base(os.Args[0])
	fmt.Fprintf(os.Stderr, "Usage: %s <command> [flags]\n", prog)
	fmt.Fprintln(os.Stderr, "Commands:")
	fmt.Fprintln(os.Stderr, "  check [-verbose] <decls.json>")
	fmt.Fprintln(os.Stderr, "    load a declaration file and report contract violations")
	fmt.Fprintln(os.Stderr, "  repl [-classes <decls.json>] [-watch]")
	fmt.Fprintln(os.Stderr, "    interactive inspector for classes and instances")
	fmt.Fprintln(os.Stderr, "Environment:")
	fmt.Fprintln(os.Stderr, "  STRICT_CLASSES  default for -classes")
	fmt.Fprintln(os.Stderr, "  STRICT_WATCH    default for -watch")
}

type flagErrorSink struct{}

func (flagErrorSink) Write(p []byte) (int, error) {
	return len(p), nil
}

// splitFields tokenizes a repl line, keeping double-quoted strings as
// single tokens with their quotes intact.
func splitFields(input string) ([]string, error) {
	var fields []string
	var current strings.Builder
	inQuote := false
	escaped := false

	flush := func() {
		if current.Len() > 0 {
			fields = append(fields, current.String())
			current.Reset()
		}
	}

	for _, r := range input {
		switch {
		case escaped:
			current.WriteRune(r)
			escaped = false
		case inQuote && r == '\\':
			current.WriteRune(r)
			escaped = true
		case r == '"':
			current.WriteRune(r)
			inQuote = !inQuote
		case !inQuote && (r == ' ' || r == '\t'):
			flush()
		default:
			current.WriteRune(r)
		}
	}
	if inQuote {
		return nil, errors.New("unterminated string")
	}
	flush()
	return fields, nil
}
