// Command grammartool runs one of packrattle's built-in grammars over a
// literal expression or a list of files, using a separate packrattle
// engine per input so concurrent files never share parser state.
package main

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/alexzandros/packrattle"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var (
	grammarName string
	exprFlag    string
	configPath  string
	verbose     bool
	consumeAll  bool
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "grammartool",
		Short: "Parse text against one of packrattle's built-in grammars",
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML config file")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(newParseCmd())
	root.AddCommand(newListCmd())
	return root
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List built-in grammar names",
		RunE: func(cmd *cobra.Command, args []string) error {
			names := make([]string, 0, len(builtinGrammars))
			for name := range builtinGrammars {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
}

func newParseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse [files...]",
		Short: "Parse an expression or one or more files against a grammar",
		RunE:  runParse,
	}
	cmd.Flags().StringVarP(&grammarName, "grammar", "g", "arith", "built-in grammar to use")
	cmd.Flags().StringVarP(&exprFlag, "expr", "e", "", "parse this literal expression instead of reading files")
	cmd.Flags().BoolVar(&consumeAll, "consume", true, "require the whole input to be consumed")
	return cmd
}

func applyConfig() error {
	opts := &packrattle.EngineOptions{Verbose: verbose}
	if configPath != "" {
		fileOpts, err := packrattle.LoadEngineOptions(configPath)
		if err != nil {
			return err
		}
		opts = fileOpts
		if verbose {
			opts.Verbose = true
		}
	}
	opts.Apply()
	return nil
}

func runParse(cmd *cobra.Command, args []string) error {
	if err := applyConfig(); err != nil {
		return err
	}

	build, ok := builtinGrammars[grammarName]
	if !ok {
		return fmt.Errorf("unknown grammar %q (see `grammartool list`)", grammarName)
	}

	if exprFlag != "" {
		return parseOne(cmd, build, "<expr>", exprFlag)
	}
	if len(args) == 0 {
		return fmt.Errorf("provide --expr or at least one file")
	}

	// Each file gets its own grammar instance and its own engine: a
	// packrattle engine is not safe for concurrent use, but independent
	// engines over independent grammars are, so this is safe despite
	// running every file's parse on its own goroutine.
	group, _ := errgroup.WithContext(context.Background())
	for _, path := range args {
		path := path
		group.Go(func() error {
			data, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			return parseOne(cmd, build, path, string(data))
		})
	}
	return group.Wait()
}

func parseOne(cmd *cobra.Command, build func() *packrattle.Parser, label, text string) error {
	grammar := build()
	var (
		value any
		err   error
	)
	if consumeAll {
		value, err = grammar.Consume(text)
	} else {
		value, err = grammar.Execute(text)
	}
	if err != nil {
		return fmt.Errorf("%s: %w", label, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s => %v\n", label, value)
	return nil
}
