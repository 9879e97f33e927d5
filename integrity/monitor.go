// Package integrity models the client-side observer that watches a student
// while a test is open. State transitions are pure; Session executes their
// effects against the UI and the API.
package integrity

import "fmt"

// MaxWarnings is the number of violations that ends a session.
const MaxWarnings = 3

const (
	ReasonFullscreenExited = "Exited full-screen mode"
	ReasonTabHidden        = "Switched tabs or minimized window"
	ReasonFocusLost        = "Window lost focus"
	ReasonClipboard        = "Attempted to copy/paste"
)

type Phase int

const (
	Normal Phase = iota
	Warned
	Terminated
)

func (p Phase) String() string {
	switch p {
	case Normal:
		return "normal"
	case Warned:
		return "warned"
	case Terminated:
		return "terminated"
	}
	return fmt.Sprintf("phase(%d)", int(p))
}

type Event int

const (
	Mounted Event = iota
	FullscreenRequested
	FullscreenEntered
	FullscreenExited
	VisibilityHidden
	WindowBlurred
	ClipboardUsed
)

type EffectKind int

const (
	ReportActivity EffectKind = iota
	ShowWarning
	RequestFullscreen
	Terminate
)

type Effect struct {
	Kind EffectKind
	// Reason is set for ReportActivity and ShowWarning.
	Reason string
	// Warning is the warning number shown by ShowWarning.
	Warning int
}

// State is the monitor's value object. The zero value is the state before the
// test view mounts.
type State struct {
	Warnings          int
	Fullscreen        bool
	FullscreenPending bool
	Terminated        bool
}

func (s State) Phase() Phase {
	switch {
	case s.Terminated:
		return Terminated
	case s.Warnings > 0:
		return Warned
	default:
		return Normal
	}
}

// AnswersEnabled reports whether answer inputs accept changes.
func (s State) AnswersEnabled() bool {
	return s.Fullscreen && !s.Terminated
}

// Apply returns the state after e and the effects the caller must run.
// Events after termination are ignored.
func (s State) Apply(e Event) (State, []Effect) {
	if s.Terminated {
		return s, nil
	}

	switch e {
	case Mounted, FullscreenRequested:
		return s.requestFullscreen()
	case FullscreenEntered:
		s.Fullscreen = true
		s.FullscreenPending = false
		return s, nil
	case FullscreenExited:
		// Exit notifications while already windowed come from our own
		// toggling and are not violations.
		if !s.Fullscreen {
			s.FullscreenPending = false
			return s, nil
		}
		s.Fullscreen = false
		return s.violation(ReasonFullscreenExited)
	case VisibilityHidden:
		return s.violation(ReasonTabHidden)
	case WindowBlurred:
		return s.violation(ReasonFocusLost)
	case ClipboardUsed:
		return s.violation(ReasonClipboard)
	}
	return s, nil
}

// FullscreenFailed clears a pending request the browser refused.
func (s State) FullscreenFailed() State {
	s.FullscreenPending = false
	return s
}

func (s State) requestFullscreen() (State, []Effect) {
	if s.Fullscreen || s.FullscreenPending {
		return s, nil
	}
	s.FullscreenPending = true
	return s, []Effect{{Kind: RequestFullscreen}}
}

func (s State) violation(reason string) (State, []Effect) {
	s.Warnings++
	effects := []Effect{
		{Kind: ReportActivity, Reason: reason},
		{Kind: ShowWarning, Reason: reason, Warning: s.Warnings},
	}
	if s.Warnings >= MaxWarnings {
		s.Terminated = true
		effects = append(effects, Effect{Kind: Terminate})
	}
	return s, effects
}
