package scoring

import (
	"errors"
	"fmt"
)

// ErrSubtestCycle means a dispatch pointed back at a quiz already
// completed in the same session. That is a malformed definition graph,
// fatal for the session.
var ErrSubtestCycle = errors.New("subtest dispatch cycle detected")

// ErrInvalidTransition means a session operation was attempted out of
// order.
var ErrInvalidTransition = errors.New("invalid session state transition")

// SessionState is the per-session quiz flow state.
type SessionState int

const (
	StateIntro SessionState = iota
	StateAnswering
	StateScored
	StateDispatched
	StateSynthesizing
	StateCompleted
)

func (s SessionState) String() string {
	switch s {
	case StateIntro:
		return "intro"
	case StateAnswering:
		return "answering"
	case StateScored:
		return "scored"
	case StateDispatched:
		return "dispatched"
	case StateSynthesizing:
		return "synthesizing"
	case StateCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

// Session tracks one user's walk through a quiz and its dispatched
// subtests. A quiz counts as completed only once its report has been
// synthesized; a failed attempt is rewound with Abort and the same quiz
// can be retried.
type Session struct {
	state     SessionState
	resumeAt  SessionState
	current   string
	completed map[string]bool
}

func NewSession() *Session {
	return &Session{
		state:     StateIntro,
		resumeAt:  StateIntro,
		completed: make(map[string]bool),
	}
}

func (s *Session) State() SessionState { return s.state }

// Begin enters answering for the given quiz slug, guarding against a
// quiz the session already completed.
func (s *Session) Begin(slug string) error {
	if s.state != StateIntro && s.state != StateDispatched {
		return fmt.Errorf("%w: cannot begin %q from %s", ErrInvalidTransition, slug, s.state)
	}
	if s.completed[slug] {
		return fmt.Errorf("%w: %q was already completed in this session", ErrSubtestCycle, slug)
	}
	s.resumeAt = s.state
	s.state = StateAnswering
	s.current = slug
	return nil
}

// MarkScored records that the current quiz has a full score vector. The
// quiz does not count as completed yet; that only happens when its
// report synthesis succeeds.
func (s *Session) MarkScored() error {
	if s.state != StateAnswering {
		return fmt.Errorf("%w: cannot score from %s", ErrInvalidTransition, s.state)
	}
	s.state = StateScored
	return nil
}

// ValidateDispatch checks the refs for cycles without changing state,
// so a malformed graph surfaces before the synthesis call is made.
func (s *Session) ValidateDispatch(refs []SubtestRef) error {
	if s.state != StateScored {
		return fmt.Errorf("%w: cannot dispatch from %s", ErrInvalidTransition, s.state)
	}
	return s.checkRefs(refs)
}

func (s *Session) checkRefs(refs []SubtestRef) error {
	for _, ref := range refs {
		if s.completed[ref.Slug] || ref.Slug == s.current {
			return fmt.Errorf("%w: %q was already completed in this session", ErrSubtestCycle, ref.Slug)
		}
	}
	return nil
}

// BeginSynthesis moves from scored to synthesizing.
func (s *Session) BeginSynthesis() error {
	if s.state != StateScored {
		return fmt.Errorf("%w: cannot synthesize from %s", ErrInvalidTransition, s.state)
	}
	s.state = StateSynthesizing
	return nil
}

// Dispatch records the current quiz as completed and awaits the next
// subtest. Called after synthesis has succeeded; on a cycle the whole
// dispatch fails, the malformed graph should surface, not loop.
func (s *Session) Dispatch(refs []SubtestRef) error {
	if s.state != StateSynthesizing {
		return fmt.Errorf("%w: cannot dispatch from %s", ErrInvalidTransition, s.state)
	}
	if err := s.checkRefs(refs); err != nil {
		return err
	}
	s.completed[s.current] = true
	s.state = StateDispatched
	return nil
}

// Complete finishes the session.
func (s *Session) Complete() error {
	if s.state != StateSynthesizing {
		return fmt.Errorf("%w: cannot complete from %s", ErrInvalidTransition, s.state)
	}
	s.completed[s.current] = true
	s.state = StateCompleted
	return nil
}

// Abort rewinds a failed attempt so the same quiz can be submitted
// again. The quiz is not recorded as completed. No-op outside an
// active attempt.
func (s *Session) Abort() {
	switch s.state {
	case StateAnswering, StateScored, StateSynthesizing:
		s.state = s.resumeAt
		s.current = ""
	}
}

// Completed reports whether the slug finished in this session.
func (s *Session) Completed(slug string) bool { return s.completed[slug] }
