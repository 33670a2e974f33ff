package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ericfisherdev/prboard/internal/adapter/driving/presenter"
	"github.com/ericfisherdev/prboard/internal/domain/model"
)

// Checker resolves a batch of links. *application.StatusService satisfies it.
type Checker interface {
	CheckLinks(ctx context.Context, links []string) []model.StatusReport
}

// CheckerFactory builds a Checker for the token and API base URL given on
// the command line.
type CheckerFactory func(token, apiURL string) (Checker, error)

// Defaults seeds flag defaults, normally from configuration.
type Defaults struct {
	Token  string
	APIURL string
}

const (
	formatTable = "table"
	formatJSON  = "json"
)

// NewRootCommand builds the prcheck command. Links come from the arguments or,
// when there are none, one per line from stdin.
func NewRootCommand(newChecker CheckerFactory, defaults Defaults) *cobra.Command {
	var (
		format string
		token  string
		apiURL string
		strict bool
	)

	cmd := &cobra.Command{
		Use:   "prcheck [links...]",
		Short: "Report the status of GitHub pull requests",
		Long: "Fetches state, CI checks, mergeability and reviews for each pull request link.\n\n" +
			"Blank links are skipped. Results keep the input order.",
		Example: strings.Join([]string{
			"  prcheck https://github.com/octo/hello/pull/42",
			"  prcheck --format json < links.txt",
		}, "\n"),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != formatTable && format != formatJSON {
				return fmt.Errorf("invalid --format %q: expected %s or %s", format, formatTable, formatJSON)
			}

			links := args
			if len(links) == 0 {
				var err error
				if links, err = readLinks(cmd.InOrStdin()); err != nil {
					return err
				}
			}

			checker, err := newChecker(token, apiURL)
			if err != nil {
				return err
			}

			records := presenter.FromReports(checker.CheckLinks(cmd.Context(), links))

			out := cmd.OutOrStdout()
			if format == formatJSON {
				err = RenderJSON(out, records)
			} else {
				err = RenderTable(out, records)
			}
			if err != nil {
				return fmt.Errorf("write output: %w", err)
			}

			if strict {
				return failedError(records)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", formatTable, "Output format: table or json")
	cmd.Flags().StringVar(&token, "token", defaults.Token, "GitHub token (default from PRBOARD_GITHUB_TOKEN)")
	cmd.Flags().StringVar(&apiURL, "api-url", defaults.APIURL, "GitHub Enterprise base URL")
	cmd.Flags().BoolVar(&strict, "strict", false, "Exit non-zero when any link could not be resolved")
	return cmd
}

func readLinks(r io.Reader) ([]string, error) {
	var links []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		links = append(links, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read links from stdin: %w", err)
	}
	return links, nil
}

func failedError(records []presenter.PullRequestRecord) error {
	failed := 0
	for _, r := range records {
		if r.Status == presenter.StatusInvalidURL || strings.HasPrefix(r.Status, "Error:") {
			failed++
		}
	}
	if failed == 0 {
		return nil
	}
	return fmt.Errorf("%d of %d links could not be resolved", failed, len(records))
}
