package home

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/rs/zerolog"

	"github.com/abhisek/learncricket/internal/adaptive"
	"github.com/abhisek/learncricket/internal/router"
	"github.com/abhisek/learncricket/internal/screens/match"
	sess "github.com/abhisek/learncricket/internal/session"
	"github.com/abhisek/learncricket/internal/store"
)

type mockProgressRepo struct {
	data    map[string]*store.ProgressData
	loadErr error
}

func (m *mockProgressRepo) Load(_ context.Context, key string) (*store.ProgressData, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	return m.data[key], nil
}

func (m *mockProgressRepo) Save(_ context.Context, key string, data *store.ProgressData) error {
	m.data[key] = data
	return nil
}

func (m *mockProgressRepo) Delete(_ context.Context, key string) error {
	delete(m.data, key)
	return nil
}

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

func testProgress() *mockProgressRepo {
	return &mockProgressRepo{data: map[string]*store.ProgressData{
		"asha": {
			Version: store.ProgressVersion,
			Topics: map[string]*store.BucketData{
				"rules":   {Attempted: 10, Correct: 9},
				"batting": {Attempted: 10, Correct: 8},
			},
			Innings: &store.InningsTotals{Played: 3, Runs: 61, Balls: 20, BestRuns: 28},
		},
	}}
}

func testHome(progress store.ProgressRepo) (*HomeScreen, *[]string) {
	var played []string
	h := New(Options{
		Key:      "asha",
		Progress: progress,
		NewMatch: func(key string) match.Factory {
			played = append(played, key)
			return func(sess.Listener) (*sess.Orchestrator, error) {
				return nil, errors.New("not in this test")
			}
		},
		Log: zerolog.Nop(),
	})
	return h, &played
}

func load(t *testing.T, h *HomeScreen, cmd tea.Cmd) {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a load command")
	}
	h.Update(cmd())
	if !h.loaded {
		t.Fatal("expected stats to be loaded")
	}
}

func TestComputeStats(t *testing.T) {
	s := computeStats(testProgress().data["asha"], adaptive.Config{})
	if s.Played != 3 || s.BestRuns != 28 || s.Runs != 61 {
		t.Errorf("stats = %+v", s)
	}
	if s.Accuracy < 0.849 || s.Accuracy > 0.851 {
		t.Errorf("Accuracy = %v, want 0.85", s.Accuracy)
	}
	if s.Level != adaptive.Advanced {
		t.Errorf("Level = %s, want advanced", s.Level)
	}

	empty := computeStats(nil, adaptive.Config{})
	if empty.Played != 0 || empty.Accuracy != 0 {
		t.Errorf("empty stats = %+v", empty)
	}
}

func TestHomeScreen_ShowsStats(t *testing.T) {
	h, _ := testHome(testProgress())
	load(t, h, h.Init())

	view := h.View(120, 40)
	for _, want := range []string{"asha", "3 INNINGS", "BEST 28", "85% CORRECT", "PLAY", "HISTORY", "PLAYER", "QUIT"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
	if h.Status() != "player: asha" {
		t.Errorf("Status = %q", h.Status())
	}
}

func TestHomeScreen_NewPlayer(t *testing.T) {
	h, _ := testHome(&mockProgressRepo{data: map[string]*store.ProgressData{}})
	load(t, h, h.Init())
	if !strings.Contains(h.View(120, 40), "No innings yet") {
		t.Error("expected the new-player message")
	}
}

func TestHomeScreen_LoadError(t *testing.T) {
	h, _ := testHome(&mockProgressRepo{loadErr: errors.New("redis: connection refused")})
	load(t, h, h.Init())
	if h.errMsg == "" {
		t.Error("expected the load error to be kept")
	}
	if !strings.Contains(h.View(120, 40), "could not load progress") {
		t.Error("expected the load warning")
	}
}

func TestHomeScreen_NoProgressRepo(t *testing.T) {
	h, _ := testHome(nil)
	if cmd := h.Init(); cmd != nil {
		t.Error("expected no load without a progress repo")
	}
	if !h.loaded {
		t.Error("expected the screen to be ready")
	}
}

func TestHomeScreen_HistoryDisabledWithoutEvents(t *testing.T) {
	h, _ := testHome(nil)
	if !h.menu.Items[1].Disabled {
		t.Error("expected HISTORY to be disabled")
	}
}

func TestHomeScreen_PlayPushesMatch(t *testing.T) {
	h, played := testHome(nil)

	_, cmd := h.Update(specialKey(tea.KeyEnter))
	if cmd == nil {
		t.Fatal("expected a command on enter")
	}
	push, ok := cmd().(router.PushScreenMsg)
	if !ok {
		t.Fatal("expected PushScreenMsg")
	}
	if _, ok := push.Screen.(*match.MatchScreen); !ok {
		t.Errorf("pushed %T, want *match.MatchScreen", push.Screen)
	}
	if len(*played) != 1 || (*played)[0] != "asha" {
		t.Errorf("played = %v, want [asha]", *played)
	}
}

func TestHomeScreen_SwitchPlayer(t *testing.T) {
	progress := testProgress()
	h, played := testHome(progress)
	load(t, h, h.Init())

	// PLAYER is the third item; HISTORY is skipped because it is disabled.
	h.Update(specialKey(tea.KeyDown))
	h.Update(specialKey(tea.KeyEnter))
	if !h.editing {
		t.Fatal("expected the player editor")
	}
	if !strings.Contains(h.View(120, 40), "Who's batting?") {
		t.Error("expected the player prompt")
	}

	h.input.Model.SetValue("")
	for _, r := range "ravi" {
		h.Update(keyPress(r))
	}
	_, cmd := h.Update(specialKey(tea.KeyEnter))
	if h.editing {
		t.Error("expected the editor to close")
	}
	if h.Key() != "ravi" {
		t.Fatalf("Key = %q, want ravi", h.Key())
	}
	load(t, h, cmd)
	if h.stats.Played != 0 {
		t.Errorf("expected fresh stats for a new player, got %+v", h.stats)
	}

	h.Update(specialKey(tea.KeyUp))
	h.Update(specialKey(tea.KeyUp))
	_, cmd = h.Update(specialKey(tea.KeyEnter))
	cmd()
	if (*played)[0] != "ravi" {
		t.Errorf("played = %v, want [ravi]", *played)
	}
}

func TestHomeScreen_EditCancel(t *testing.T) {
	h, _ := testHome(nil)
	h.editPlayer()
	h.Update(keyPress('x'))
	h.Update(specialKey(tea.KeyEscape))
	if h.editing || h.Key() != "asha" {
		t.Errorf("editing=%v key=%q, want closed editor and unchanged key", h.editing, h.Key())
	}
}

func TestHomeScreen_EmptyNameRejected(t *testing.T) {
	h, _ := testHome(nil)
	h.editPlayer()
	h.input.Model.SetValue("")
	h.Update(specialKey(tea.KeyEnter))
	if !h.editing {
		t.Error("expected the editor to stay open for an empty name")
	}
}

func TestHomeScreen_StaleStatsIgnored(t *testing.T) {
	h, _ := testHome(testProgress())
	cmd := h.Init()
	h.key = "ravi"
	h.Update(cmd())
	if h.loaded {
		t.Error("expected stats for the previous player to be dropped")
	}
}

func TestHomeScreen_Refresh(t *testing.T) {
	progress := testProgress()
	h, _ := testHome(progress)
	load(t, h, h.Init())

	progress.data["asha"].Innings.Played = 4
	load(t, h, h.Refresh())
	if h.stats.Played != 4 {
		t.Errorf("Played = %d, want 4 after refresh", h.stats.Played)
	}
}
