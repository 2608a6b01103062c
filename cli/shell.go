package cli

import (
	"bufio"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/spf13/cobra"
)

// splitArgs splits a shell line on whitespace, keeping single- or
// double-quoted runs together.
func splitArgs(line string) ([]string, error) {
	var (
		args  []string
		cur   strings.Builder
		quote rune
		inArg bool
	)
	for _, r := range line {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			} else {
				cur.WriteRune(r)
			}
		case r == '"' || r == '\'':
			quote, inArg = r, true
		case unicode.IsSpace(r):
			if inArg {
				args = append(args, cur.String())
				cur.Reset()
				inArg = false
			}
		default:
			cur.WriteRune(r)
			inArg = true
		}
	}
	if quote != 0 {
		return nil, errors.New("unterminated quote")
	}
	if inArg {
		args = append(args, cur.String())
	}
	return args, nil
}

func init() {
	shellCmd := &cobra.Command{
		Use:   "shell",
		Short: "Interactive shell mode; data is saved on exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			if inShell {
				return errors.New("already in shell")
			}
			out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()
			r := bufio.NewReader(cmd.InOrStdin())
			inShell, stdin = true, r
			defer func() { inShell, stdin = false, nil }()
			for {
				fmt.Fprint(out, "inventory> ")
				line, err := r.ReadString('\n')
				if err != nil && line == "" {
					return nil
				}
				line = strings.TrimSpace(line)
				if line == "" {
					continue
				}
				if line == "exit" || line == "quit" {
					return nil
				}
				fields, perr := splitArgs(line)
				if perr != nil {
					fmt.Fprintln(errOut, perr)
					continue
				}
				rootCmd.SetArgs(fields)
				if err := rootCmd.Execute(); err != nil {
					fmt.Fprintln(errOut, err)
				}
				rootCmd.SetArgs(nil)
				resetFlags(rootCmd)
			}
		},
	}
	rootCmd.AddCommand(shellCmd)
}
