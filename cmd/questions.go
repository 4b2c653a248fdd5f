package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/spf13/cobra"

	"github.com/abhisek/learncricket/internal/questions"
	"github.com/abhisek/learncricket/internal/topics"
	"github.com/abhisek/learncricket/internal/ui/theme"
)

var questionsCmd = &cobra.Command{
	Use:   "questions",
	Short: "Try questions from the configured source (no progress saved)",
	Long: `Fetch questions from the question bank or the LLM and answer them
at the prompt. No progress is saved and no innings is recorded.

Useful for checking question quality for a topic or difficulty.`,
	RunE: runQuestions,
}

func init() {
	questionsCmd.Flags().String("topic", "", "Topic, e.g. rules or famous-players (default any)")
	questionsCmd.Flags().String("difficulty", "", "Difficulty: easy, medium or hard (default any)")
	questionsCmd.Flags().Int("count", 5, "Number of questions")
	questionsCmd.Flags().String("source", "", "Question source: auto, bank or llm (default from config)")
}

func runQuestions(cmd *cobra.Command, args []string) error {
	topicVal, _ := cmd.Flags().GetString("topic")
	diffVal, _ := cmd.Flags().GetString("difficulty")
	count, _ := cmd.Flags().GetInt("count")
	source, _ := cmd.Flags().GetString("source")

	req := questions.Request{Count: count}
	if topicVal != "" {
		req.Topic = topics.Normalize(topicVal)
		if req.Topic == "" {
			return fmt.Errorf("unknown topic %q", topicVal)
		}
	}
	if diffVal != "" {
		d, err := topics.ParseDifficulty(diffVal)
		if err != nil {
			return err
		}
		req.Difficulty = d
	}

	c := cfg
	if source != "" {
		c.Supply.Source = source
		if err := c.Validate(); err != nil {
			return err
		}
	}

	log, err := consoleLogger()
	if err != nil {
		return err
	}

	// No event repo: LLM requests are not recorded.
	ctx := context.Background()
	src, err := newSupplySource(ctx, c, nil, log)
	if err != nil {
		return err
	}
	supply, err := src.New()
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Source: %s\n", src.Name())
	fmt.Fprintf(cmd.OutOrStdout(), "Fetching %d questions...\n\n", count)

	var qs []questions.Question
	for len(qs) < count {
		r := req
		r.Count = count - len(qs)
		for _, q := range qs {
			r.ExcludeIDs = append(r.ExcludeIDs, q.ID)
			r.PriorPrompts = append(r.PriorPrompts, q.Prompt)
		}
		batch, err := supply.Fetch(ctx, r)
		if errors.Is(err, questions.ErrExhausted) {
			break
		}
		if err != nil {
			return fmt.Errorf("fetch questions: %w", err)
		}
		qs = append(qs, batch...)
	}
	if len(qs) == 0 {
		return fmt.Errorf("no questions available")
	}

	quiz(cmd.InOrStdin(), cmd.OutOrStdout(), qs)
	return nil
}

var (
	rightStyle = lipgloss.NewStyle().Foreground(theme.Success).Bold(true)
	outStyle   = lipgloss.NewStyle().Foreground(theme.Error).Bold(true)
	dimStyle   = lipgloss.NewStyle().Foreground(theme.TextDim)
)

// quiz asks each question on w and reads answers line by line from r.
// A blank line skips; closed input ends the quiz early.
func quiz(r io.Reader, w io.Writer, qs []questions.Question) {
	scanner := bufio.NewScanner(r)
	var correct, answered int

	for i, q := range qs {
		fmt.Fprintln(w, dimStyle.Render(fmt.Sprintf("── %d/%d · %s · %s ──",
			i+1, len(qs), topics.DisplayName(q.Topic), q.Difficulty)))
		fmt.Fprintln(w, q.Prompt)
		for j, opt := range q.Options {
			fmt.Fprintf(w, "  %c) %s\n", 'a'+j, opt)
		}

		fmt.Fprint(w, "\nYour answer: ")
		if !scanner.Scan() {
			fmt.Fprintln(w, "\n(input closed)")
			break
		}
		answer := strings.TrimSpace(scanner.Text())
		if answer == "" {
			fmt.Fprint(w, "(skipped)\n\n")
			continue
		}
		choice, ok := parseChoice(answer, len(q.Options))
		if !ok {
			fmt.Fprintf(w, "(not an option) Answer: %s\n\n", q.CorrectOption())
			continue
		}

		answered++
		if q.IsCorrect(choice) {
			correct++
			fmt.Fprintln(w, rightStyle.Render("✓ Correct!"))
		} else {
			fmt.Fprintln(w, outStyle.Render("✗ Out!"), "Answer:", q.CorrectOption())
		}
		if q.Explanation != "" {
			fmt.Fprintln(w, dimStyle.Render(q.Explanation))
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "%d/%d correct\n", correct, answered)
}

// parseChoice accepts a letter (A-based) or a number (1-based).
func parseChoice(s string, n int) (int, bool) {
	if len(s) != 1 {
		return 0, false
	}
	c := s[0]
	var idx int
	switch {
	case c >= 'a' && c <= 'z':
		idx = int(c - 'a')
	case c >= 'A' && c <= 'Z':
		idx = int(c - 'A')
	case c >= '1' && c <= '9':
		idx = int(c - '1')
	default:
		return 0, false
	}
	return idx, idx < n
}
