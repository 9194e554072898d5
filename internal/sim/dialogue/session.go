package dialogue

// Display is what the UI shows for the current beat of a session.
type Display struct {
	Text    string
	Speaker string

	// Choices is non-empty only while the session is presenting choices.
	Choices []string
	Cursor  int
}

// Session walks a dialogue payload forward: first the flat line queue, then
// (if present) the script tree. There is no history stack; the only ways
// out are advancing off the end or cancelling the whole session.
type Session struct {
	lines   []string
	lineIdx int

	script *Script
	node   int

	showingChoices bool
	cursor         int
}

// NewSession starts a session over flat lines followed by an optional
// script. Either part may be empty; a session with neither is immediately
// exhausted.
func NewSession(lines []string, script *Script) *Session {
	s := &Session{lines: lines, script: script, node: NoNode}
	if len(s.lines) == 0 {
		s.enterScript()
	}
	return s
}

// NewLinesSession starts a session over flat lines only (signs, graves,
// static NPCs without a tree).
func NewLinesSession(lines []string) *Session {
	return NewSession(lines, nil)
}

func (s *Session) enterScript() {
	if s.script != nil && s.script.Len() > 0 {
		s.node = s.script.Root
	}
}

// Exhausted reports whether the session has nothing left to show.
func (s *Session) Exhausted() bool {
	if s.lineIdx < len(s.lines) {
		return false
	}
	return s.node == NoNode
}

// InTree reports whether the session has moved past the flat lines into the
// script tree.
func (s *Session) InTree() bool {
	return s.node != NoNode
}

// ShowingChoices reports whether the current beat presents choices.
func (s *Session) ShowingChoices() bool {
	return s.showingChoices
}

// Current returns the display for the current beat.
func (s *Session) Current() Display {
	if s.lineIdx < len(s.lines) {
		return Display{Text: s.lines[s.lineIdx]}
	}
	if s.node == NoNode {
		return Display{}
	}

	n := s.script.Node(s.node)
	d := Display{Text: n.Text, Speaker: n.Speaker}
	if s.showingChoices {
		for _, c := range n.Choices {
			d.Choices = append(d.Choices, c.Label)
		}
		d.Cursor = s.cursor
	}
	return d
}

// Advance consumes one advance input. While draining lines it moves to the
// next line; at a tree node with choices it switches to presenting them;
// at a terminal node it ends the session. Returns true when the session is
// finished. Advancing while choices are shown is ignored; selection is the
// only way forward there.
func (s *Session) Advance() (finished bool) {
	if s.lineIdx < len(s.lines) {
		s.lineIdx++
		if s.lineIdx < len(s.lines) {
			return false
		}
		s.enterScript()
		return s.node == NoNode
	}

	if s.node == NoNode {
		return true
	}
	if s.showingChoices {
		return false
	}

	n := s.script.Node(s.node)
	if len(n.Choices) == 0 {
		s.node = NoNode
		return true
	}

	s.showingChoices = true
	s.cursor = 0
	return false
}

// MoveCursor shifts the choice cursor by delta, clamped to the choice list.
func (s *Session) MoveCursor(delta int) {
	if !s.showingChoices {
		return
	}
	n := s.script.Node(s.node)
	s.cursor += delta
	if s.cursor < 0 {
		s.cursor = 0
	}
	if s.cursor > len(n.Choices)-1 {
		s.cursor = len(n.Choices) - 1
	}
}

// Select commits the highlighted choice: the active node becomes that
// choice's destination and display restarts at its text.
func (s *Session) Select() {
	if !s.showingChoices {
		return
	}
	n := s.script.Node(s.node)
	if s.cursor < 0 || s.cursor >= len(n.Choices) {
		return
	}
	s.node = n.Choices[s.cursor].Next
	s.showingChoices = false
	s.cursor = 0
}
