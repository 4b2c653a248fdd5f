package cmd

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"
	"github.com/spf13/cobra"

	"github.com/abhisek/learncricket/internal/llm"
	"github.com/abhisek/learncricket/internal/store"
)

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Inspect recorded LLM requests",
}

var llmListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent LLM requests",
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := llmQueryOpts(cmd)
		if err != nil {
			return err
		}
		opts.Limit, _ = cmd.Flags().GetInt("limit")

		s, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		events, err := s.EventRepo().QueryLLMEvents(context.Background(), opts)
		if err != nil {
			return fmt.Errorf("query llm events: %w", err)
		}
		out := cmd.OutOrStdout()
		if len(events) == 0 {
			fmt.Fprintln(out, "No LLM requests recorded.")
			return nil
		}

		t := newCLITable("ID", "Time", "Purpose", "Model", "In", "Out", "Ms", "OK")
		for _, e := range events {
			ok := "✓"
			if !e.Success {
				ok = "✗"
			}
			t.Row(
				strconv.Itoa(e.ID),
				e.Timestamp.Local().Format("Jan 02 15:04:05"),
				e.Purpose,
				truncate(e.Model, 28),
				strconv.Itoa(e.InputTokens),
				strconv.Itoa(e.OutputTokens),
				strconv.FormatInt(e.LatencyMs, 10),
				ok,
			)
		}
		fmt.Fprintln(out, t.String())
		return nil
	},
}

var llmViewCmd = &cobra.Command{
	Use:   "view <id>",
	Short: "Show the full prompt and response of one request",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid id %q", args[0])
		}

		s, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		e, err := s.EventRepo().GetLLMEvent(context.Background(), id)
		if err != nil {
			return fmt.Errorf("get llm event: %w", err)
		}
		if e == nil {
			return fmt.Errorf("llm event %d not found", id)
		}
		printLLMEvent(cmd.OutOrStdout(), e)
		return nil
	},
}

func printLLMEvent(w io.Writer, e *store.LLMRequestEvent) {
	fields := [][2]string{
		{"ID", strconv.Itoa(e.ID)},
		{"Time", e.Timestamp.Local().Format("2006-01-02 15:04:05")},
		{"Provider", e.Provider},
		{"Model", e.Model},
		{"Purpose", e.Purpose},
		{"Tokens", fmt.Sprintf("%d in / %d out", e.InputTokens, e.OutputTokens)},
		{"Latency", fmt.Sprintf("%dms", e.LatencyMs)},
		{"Success", strconv.FormatBool(e.Success)},
	}
	if e.ErrorMessage != "" {
		fields = append(fields, [2]string{"Error", e.ErrorMessage})
	}
	for _, f := range fields {
		fmt.Fprintf(w, "%-9s  %s\n", f[0]+":", f[1])
	}

	rule := strings.Repeat("─", 60)
	for _, sec := range [][2]string{{"REQUEST", e.RequestBody}, {"RESPONSE", e.ResponseBody}} {
		body := sec[1]
		if body == "" {
			body = "(not captured)"
		}
		fmt.Fprintf(w, "\n%s\n%s\n%s\n%s\n", rule, sec[0], rule, body)
	}
}

var llmStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarize token usage and estimated cost per model",
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := llmQueryOpts(cmd)
		if err != nil {
			return err
		}

		s, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		events, err := s.EventRepo().QueryLLMEvents(context.Background(), opts)
		if err != nil {
			return fmt.Errorf("query llm events: %w", err)
		}
		out := cmd.OutOrStdout()
		usage := llm.SummarizeUsage(events)
		if len(usage) == 0 {
			fmt.Fprintln(out, "No LLM usage recorded.")
			return nil
		}

		t := newCLITable("Model", "Calls", "Failed", "Input", "Output", "Avg ms", "Cost")
		var calls, in, outTok int
		var total float64
		var unpriced []string
		for _, u := range usage {
			cost := "?"
			if u.Cost != nil {
				cost = formatCost(*u.Cost)
				total += *u.Cost
			} else {
				unpriced = append(unpriced, u.Model)
			}
			t.Row(truncate(u.Model, 32), strconv.Itoa(u.Calls), strconv.Itoa(u.Failures),
				strconv.Itoa(u.InputTokens), strconv.Itoa(u.OutputTokens), strconv.FormatInt(u.AvgLatencyMs, 10), cost)
			calls += u.Calls
			in += u.InputTokens
			outTok += u.OutputTokens
		}
		label := "TOTAL"
		if len(unpriced) > 0 {
			label = "TOTAL (partial)"
		}
		t.Row(label, strconv.Itoa(calls), "", strconv.Itoa(in), strconv.Itoa(outTok), "", formatCost(total))
		fmt.Fprintln(out, t.String())

		if len(unpriced) > 0 {
			fmt.Fprintf(out, "No pricing for: %s\n", strings.Join(unpriced, ", "))
		}
		return nil
	},
}

// llmQueryOpts reads the shared --purpose and --since filters.
func llmQueryOpts(cmd *cobra.Command) (store.QueryOpts, error) {
	var opts store.QueryOpts
	opts.Purpose, _ = cmd.Flags().GetString("purpose")
	if since, _ := cmd.Flags().GetDuration("since"); since > 0 {
		opts.From = time.Now().Add(-since)
	} else if since < 0 {
		return opts, fmt.Errorf("--since must be positive")
	}
	return opts, nil
}

// newCLITable returns a borderless table with a bold header row.
func newCLITable(headers ...string) *table.Table {
	header := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cell := lipgloss.NewStyle().Padding(0, 1)
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderTop(false).BorderBottom(false).BorderLeft(false).BorderRight(false).
		BorderColumn(false).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			return cell
		})
}

func truncate(s string, n int) string {
	if len([]rune(s)) <= n {
		return s
	}
	return string([]rune(s)[:n-1]) + "…"
}

func formatCost(usd float64) string {
	if usd < 0.01 {
		return fmt.Sprintf("$%.4f", usd)
	}
	return fmt.Sprintf("$%.2f", usd)
}

func init() {
	for _, c := range []*cobra.Command{llmListCmd, llmStatsCmd} {
		c.Flags().StringP("purpose", "p", "", "Only requests with this purpose (e.g. question-gen)")
		c.Flags().Duration("since", 0, "Only requests newer than this, e.g. 24h")
	}
	llmListCmd.Flags().IntP("limit", "n", 20, "Number of requests to show")

	llmCmd.AddCommand(llmListCmd, llmViewCmd, llmStatsCmd)
}
