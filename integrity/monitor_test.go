package integrity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func kinds(effects []Effect) []EffectKind {
	out := make([]EffectKind, 0, len(effects))
	for _, e := range effects {
		out = append(out, e.Kind)
	}
	return out
}

func mountedFullscreen() State {
	s, _ := State{}.Apply(Mounted)
	s, _ = s.Apply(FullscreenEntered)
	return s
}

func TestApply_MountRequestsFullscreenOnce(t *testing.T) {
	s, effects := State{}.Apply(Mounted)
	assert.Equal(t, []EffectKind{RequestFullscreen}, kinds(effects))
	assert.Equal(t, Normal, s.Phase())
	assert.False(t, s.AnswersEnabled())

	s, effects = s.Apply(FullscreenRequested)
	assert.Empty(t, effects, "a pending request is not repeated")

	s, _ = s.Apply(FullscreenEntered)
	assert.True(t, s.AnswersEnabled())

	_, effects = s.Apply(FullscreenRequested)
	assert.Empty(t, effects, "already full-screen")
}

func TestApply_ViolationsEscalateToTermination(t *testing.T) {
	s := mountedFullscreen()

	s, effects := s.Apply(WindowBlurred)
	assert.Equal(t, []EffectKind{ReportActivity, ShowWarning}, kinds(effects))
	assert.Equal(t, ReasonFocusLost, effects[0].Reason)
	assert.Equal(t, Warned, s.Phase())
	assert.Equal(t, 1, s.Warnings)

	s, effects = s.Apply(ClipboardUsed)
	assert.Equal(t, ReasonClipboard, effects[0].Reason)
	assert.Equal(t, 2, effects[1].Warning)

	s, effects = s.Apply(VisibilityHidden)
	assert.Equal(t, []EffectKind{ReportActivity, ShowWarning, Terminate}, kinds(effects))
	assert.Equal(t, Terminated, s.Phase())
	assert.False(t, s.AnswersEnabled())

	after, effects := s.Apply(WindowBlurred)
	assert.Empty(t, effects)
	assert.Equal(t, s, after)
}

func TestApply_FullscreenExitDebounce(t *testing.T) {
	s := mountedFullscreen()

	s, effects := s.Apply(FullscreenExited)
	assert.Equal(t, []EffectKind{ReportActivity, ShowWarning}, kinds(effects))
	assert.Equal(t, ReasonFullscreenExited, effects[0].Reason)
	assert.False(t, s.AnswersEnabled(), "answers lock while windowed")
	assert.Equal(t, 1, s.Warnings)

	s, effects = s.Apply(FullscreenExited)
	assert.Empty(t, effects, "repeated exit notifications are not new violations")
	assert.Equal(t, 1, s.Warnings)

	s, effects = s.Apply(FullscreenRequested)
	assert.Equal(t, []EffectKind{RequestFullscreen}, kinds(effects))
	s, _ = s.Apply(FullscreenEntered)
	assert.True(t, s.AnswersEnabled())
	assert.Equal(t, Warned, s.Phase(), "re-entering does not clear warnings")
}

func TestApply_AnswersIndependentOfWarnings(t *testing.T) {
	s := mountedFullscreen()
	s, _ = s.Apply(WindowBlurred)
	s, _ = s.Apply(WindowBlurred)
	assert.True(t, s.AnswersEnabled())
}

func TestPhaseString(t *testing.T) {
	assert.Equal(t, "normal", Normal.String())
	assert.Equal(t, "terminated", Terminated.String())
}
