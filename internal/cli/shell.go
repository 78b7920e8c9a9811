package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

const shellPrompt = "storefront> "

func newShellCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Start an interactive session",
		Long: "Shell reads commands line by line and runs them against one open\n" +
			"store. The current search results and metrics carry over between\n" +
			"commands. Type \"metrics\" to print counters, \"exit\" or \"quit\" to leave.",
		Args: noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := e.open(); err != nil {
				return err
			}
			e.session = true
			defer func() { e.session = false }()
			return e.runShell(cmd)
		},
	}
}

func (e *env) runShell(cmd *cobra.Command) error {
	out := cmd.OutOrStdout()
	interactive := isTerminal(e.stdin)
	scanner := bufio.NewScanner(e.stdin)
	for {
		if interactive {
			fmt.Fprint(out, shellPrompt)
		}
		if !scanner.Scan() {
			break
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if fields[0] == "exit" || fields[0] == "quit" {
			return nil
		}
		if err := e.shellLine(cmd, fields); err != nil {
			fmt.Fprintln(cmd.ErrOrStderr(), "Error:", err)
		}
	}
	if err := scanner.Err(); err != nil {
		return systemError(fmt.Errorf("reading input: %w", err))
	}
	return nil
}

// shellLine runs one line of input on a fresh command tree sharing e.
func (e *env) shellLine(parent *cobra.Command, args []string) error {
	sub := &cobra.Command{
		Use:           "storefront",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	sub.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return userError(err)
	})
	sub.CompletionOptions.DisableDefaultCmd = true
	addSessionCommands(sub, e)
	sub.AddCommand(newMetricsCmd(e))
	sub.SetArgs(args)
	sub.SetIn(e.stdin)
	sub.SetOut(parent.OutOrStdout())
	sub.SetErr(parent.ErrOrStderr())
	return sub.ExecuteContext(parent.Context())
}

func newMetricsCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "metrics",
		Short: "Print session counters",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := e.open()
			if err != nil {
				return err
			}
			return app.Metrics.WriteText(cmd.OutOrStdout())
		},
	}
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
