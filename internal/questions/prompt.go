package questions

import (
	"fmt"
	"slices"
	"strings"

	"github.com/abhisek/learncricket/internal/topics"
)

const systemPrompt = `You are a cricket quiz master writing multiple-choice questions for a fast-paced quiz game.

Rules:
- Every question has exactly 4 options and exactly one correct answer.
- Questions must be factually accurate. If you are not certain of a fact, ask about something else.
- Keep prompts short: the player has only a few seconds to answer.
- Distractors should be plausible, not jokes. Do not use "all of the above" or "none of the above".
- Vary the position of the correct option across the batch.
- The explanation is one or two sentences and states why the answer is correct.
- Set "topic" to the requested topic slug. When any topic is allowed, pick one from the listed slugs.
- Do not repeat or rephrase any question from the "already asked" list.`

// buildUserMessage describes the wanted batch.
func buildUserMessage(req Request, maxPrior int) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Number of questions: %d\n", req.count())

	if req.Topic != "" {
		fmt.Fprintf(&b, "Topic: %s (%s)\n", req.Topic, topics.DisplayName(req.Topic))
	} else {
		slugs := make([]string, 0, len(topics.All()))
		for _, t := range topics.All() {
			if !slices.Contains(req.ExcludeRecentTopics, t) {
				slugs = append(slugs, string(t))
			}
		}
		fmt.Fprintf(&b, "Topic: any of %s\n", strings.Join(slugs, ", "))
	}

	difficulty := "any"
	if req.Difficulty.Valid() {
		difficulty = req.Difficulty.String()
	}
	fmt.Fprintf(&b, "Difficulty: %s\n", difficulty)

	if len(req.ExcludeRecentTopics) > 0 {
		avoid := make([]string, len(req.ExcludeRecentTopics))
		for i, t := range req.ExcludeRecentTopics {
			avoid[i] = string(t)
		}
		fmt.Fprintf(&b, "Avoid topics: %s\n", strings.Join(avoid, ", "))
	}

	b.WriteString("\nAlready asked in this session:\n")
	b.WriteString(buildDedup(req.PriorPrompts, maxPrior))

	return b.String()
}

// buildDedup formats prior prompts, keeping the most recent max.
func buildDedup(prior []string, max int) string {
	if len(prior) == 0 {
		return "None"
	}
	if max > 0 && len(prior) > max {
		prior = prior[len(prior)-max:]
	}

	var b strings.Builder
	for i, p := range prior {
		fmt.Fprintf(&b, "%d. %s\n", i+1, p)
	}
	return strings.TrimRight(b.String(), "\n")
}
