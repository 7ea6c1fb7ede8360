package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/cafebazaar/pav/internal/backend/memory"
	"github.com/cafebazaar/pav/pkg/pav"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var electCmd = &cobra.Command{
	Use:   "elect <ballots-file>",
	Short: "rank committees for a ballots file",
	Long: `rank committees for a ballots file. Each line is one ballot of comma
separated approvals, a blank line is an empty ballot and lines starting with # are ignored`,
	Args: cobra.ExactArgs(1),
	RunE: elect,
}

func init() {
	electCmd.Flags().Int("limit", 0, "Print only the best n committees, 0 prints all")
	rootCmd.AddCommand(electCmd)
}

func elect(cmd *cobra.Command, args []string) error {
	config := loadConfigOrPanic(cmd)
	defer startProfilingIfEnabled(config).Stop()

	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return err
	}

	file, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer file.Close()

	svc := getService(memory.New(), config)
	defer svc.Close()

	n, err := castBallots(svc, file)
	if err != nil {
		return err
	}
	log.WithField("ballots", n).Debug("ballots cast")

	response, err := svc.Result(context.Background(), &pav.ResultRequest{Limit: limit})
	if err != nil {
		return err
	}

	return printResult(cmd.OutOrStdout(), response.Committees)
}

func castBallots(svc pav.Service, r io.Reader) (int, error) {
	scanner := bufio.NewScanner(r)
	n := 0

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if strings.HasPrefix(line, "#") {
			continue
		}

		var candidates []pav.Candidate
		for _, candidate := range strings.Split(line, pav.CommitteeSeparator) {
			if candidate = strings.TrimSpace(candidate); candidate != "" {
				candidates = append(candidates, candidate)
			}
		}

		if _, err := svc.Cast(context.Background(), &pav.CastRequest{Candidates: candidates}); err != nil {
			return n, err
		}
		n++
	}

	return n, scanner.Err()
}

func printResult(w io.Writer, committees []pav.CommitteeScore) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "RANK\tCOMMITTEE\tSCORE")

	for i, row := range committees {
		fmt.Fprintf(tw, "%d\t%s\t%.6f\n", i+1, row.Committee.String(), row.Score)
	}

	return tw.Flush()
}
