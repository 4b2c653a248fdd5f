// Package router keeps the stack of screens shown by the app and turns
// navigation messages into stack operations.
package router

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/learncricket/internal/screen"
)

// PushScreenMsg opens Screen above the active one.
type PushScreenMsg struct {
	Screen screen.Screen
}

// PopScreenMsg returns to the screen below the active one.
type PopScreenMsg struct{}

// ReplaceScreenMsg swaps the top screen, e.g. a finished match for its
// scorecard, so that popping returns to the screen below both.
type ReplaceScreenMsg struct {
	Screen screen.Screen
}

// Open, Back and Swap wrap the navigation messages as commands.
func Open(s screen.Screen) tea.Cmd {
	return func() tea.Msg { return PushScreenMsg{Screen: s} }
}

func Back() tea.Msg { return PopScreenMsg{} }

func Swap(s screen.Screen) tea.Cmd {
	return func() tea.Msg { return ReplaceScreenMsg{Screen: s} }
}

// Router holds the screen stack. The bottom screen is never removed.
type Router struct {
	screens []screen.Screen
}

func New(root screen.Screen) *Router {
	return &Router{screens: []screen.Screen{root}}
}

func (r *Router) top() int { return len(r.screens) - 1 }

// Push makes s the active screen and starts it.
func (r *Router) Push(s screen.Screen) tea.Cmd {
	r.screens = append(r.screens, s)
	return s.Init()
}

// Pop drops the active screen unless it is the root. The revealed screen
// gets a chance to reload, since whatever ran above it may have changed
// what it shows.
func (r *Router) Pop() tea.Cmd {
	if r.top() == 0 {
		return nil
	}
	r.screens[r.top()] = nil
	r.screens = r.screens[:r.top()]
	if rf, ok := r.Active().(screen.Refresher); ok {
		return rf.Refresh()
	}
	return nil
}

// Replace puts s in place of the active screen and starts it.
func (r *Router) Replace(s screen.Screen) tea.Cmd {
	r.screens[r.top()] = s
	return s.Init()
}

func (r *Router) Active() screen.Screen {
	if len(r.screens) == 0 {
		return nil
	}
	return r.screens[r.top()]
}

func (r *Router) Depth() int { return len(r.screens) }

// CloseAll winds up every screen holding running work, top first.
func (r *Router) CloseAll() {
	for i := r.top(); i >= 0; i-- {
		if c, ok := r.screens[i].(screen.Closer); ok {
			c.Close()
		}
	}
}

// Update applies navigation messages. Anything else goes to the active
// screen, whose returned value replaces it on the stack.
func (r *Router) Update(msg tea.Msg) tea.Cmd {
	switch nav := msg.(type) {
	case PushScreenMsg:
		return r.Push(nav.Screen)
	case PopScreenMsg:
		return r.Pop()
	case ReplaceScreenMsg:
		return r.Replace(nav.Screen)
	}

	if len(r.screens) == 0 {
		return nil
	}
	next, cmd := r.screens[r.top()].Update(msg)
	r.screens[r.top()] = next
	return cmd
}

func (r *Router) View(width, height int) string {
	if s := r.Active(); s != nil {
		return s.View(width, height)
	}
	return ""
}
