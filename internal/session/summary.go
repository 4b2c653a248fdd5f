package session

import (
	"fmt"
	"sort"

	"github.com/abhisek/learncricket/internal/adaptive"
	"github.com/abhisek/learncricket/internal/innings"
	"github.com/abhisek/learncricket/internal/topics"
)

// TopicResult is one topic's record within a single innings.
type TopicResult struct {
	Topic     topics.Topic
	Attempted int
	Correct   int
}

// Accuracy returns Correct/Attempted, 0 when nothing was attempted.
func (t TopicResult) Accuracy() float64 {
	if t.Attempted == 0 {
		return 0
	}
	return float64(t.Correct) / float64(t.Attempted)
}

// Summary is the end-of-innings scorecard.
type Summary struct {
	SessionID string
	Phase     Phase
	Config    innings.Config
	State     innings.State
	Overs     []innings.OverSummary

	Correct                int
	Accuracy               float64
	AverageResponseSeconds float64
	BestStreak             int

	// Topics is sorted by name.
	Topics []TopicResult

	// BestTopic and WorstTopic are empty when fewer than two topics
	// were asked.
	BestTopic  topics.Topic
	WorstTopic topics.Topic

	Recommendation adaptive.Recommendation
}

// ScoreLine renders "runs/wickets (overs ov)", e.g. "23/1 (1.4 ov)".
func (s Summary) ScoreLine() string {
	return fmt.Sprintf("%s (%s ov)", s.State.ScoreLine(), innings.OversNotation(s.State.BallsBowled, s.Config.BallsPerOver))
}

// BuildSummary derives a scorecard from the balls of one innings.
func BuildSummary(id string, phase Phase, cfg innings.Config, st innings.State, overs []innings.OverSummary, balls []BallResult, rec adaptive.Recommendation) Summary {
	s := Summary{
		SessionID:      id,
		Phase:          phase,
		Config:         cfg,
		State:          st,
		Overs:          overs,
		Recommendation: rec,
	}

	byTopic := map[topics.Topic]*TopicResult{}
	var totalSecs float64
	streak := 0
	for _, b := range balls {
		tr := byTopic[b.Question.Topic]
		if tr == nil {
			tr = &TopicResult{Topic: b.Question.Topic}
			byTopic[b.Question.Topic] = tr
		}
		tr.Attempted++
		totalSecs += b.ResponseSeconds
		if b.Correct {
			tr.Correct++
			s.Correct++
			streak++
			s.BestStreak = max(s.BestStreak, streak)
		} else {
			streak = 0
		}
	}
	if n := len(balls); n > 0 {
		s.Accuracy = float64(s.Correct) / float64(n)
		s.AverageResponseSeconds = totalSecs / float64(n)
	}

	for _, tr := range byTopic {
		s.Topics = append(s.Topics, *tr)
	}
	sort.Slice(s.Topics, func(i, j int) bool { return s.Topics[i].Topic < s.Topics[j].Topic })

	if len(s.Topics) >= 2 {
		ranked := append([]TopicResult(nil), s.Topics...)
		sort.SliceStable(ranked, func(i, j int) bool {
			ai, aj := ranked[i].Accuracy(), ranked[j].Accuracy()
			if ai != aj {
				return ai > aj
			}
			return ranked[i].Attempted > ranked[j].Attempted
		})
		s.BestTopic = ranked[0].Topic
		s.WorstTopic = ranked[len(ranked)-1].Topic
	}
	return s
}

// Summary returns the scorecard so far.
func (o *Orchestrator) Summary() Summary {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return BuildSummary(o.id, o.phase, o.machine.Config(), o.machine.State(), o.machine.Overs(), o.balls, cloneRecommendation(o.rec))
}
