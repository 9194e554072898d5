// Package dialogue implements the branching-conversation engine shared by
// signs, graves, static NPCs, and trainer encounters.
//
// Scripts are authored in YAML as nested nodes. On load they are flattened
// into an arena of index-addressed nodes, so traversal never follows owned
// pointers and the choice graph can be checked for cycles. Nodes may carry
// an id and choices may reference earlier nodes by id; a reference that
// closes a loop is rejected at load time.
package dialogue

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// NoNode marks the absence of a node index.
const NoNode = -1

// Choice is one selectable branch out of a node.
type Choice struct {
	Label string
	Next  int // arena index
}

// Node is one text beat of a conversation. A node with no choices is
// terminal: advancing past it ends the session.
type Node struct {
	Text    string
	Speaker string
	Choices []Choice
}

// Script is one conversation tree: an arena of nodes and a root index.
type Script struct {
	ID    string
	Root  int
	nodes []Node
}

// Node returns the node at an arena index. Out-of-range indexes return an
// empty terminal node rather than panicking.
func (s *Script) Node(i int) Node {
	if s == nil || i < 0 || i >= len(s.nodes) {
		return Node{}
	}
	return s.nodes[i]
}

// Len returns the number of nodes in the arena.
func (s *Script) Len() int {
	if s == nil {
		return 0
	}
	return len(s.nodes)
}

// Library is a set of scripts keyed by id.
type Library struct {
	scripts map[string]*Script
}

// Get returns a script by id.
func (l *Library) Get(id string) (*Script, bool) {
	if l == nil {
		return nil, false
	}
	s, ok := l.scripts[id]
	return s, ok
}

// yamlNode is the authored form of a node.
type yamlNode struct {
	ID      string       `yaml:"id"`
	Text    string       `yaml:"text"`
	Speaker string       `yaml:"speaker"`
	Choices []yamlChoice `yaml:"choices"`
}

// yamlChoice carries either an inline next node or a reference to a node
// authored elsewhere in the same script.
type yamlChoice struct {
	Label string    `yaml:"label"`
	Next  *yamlNode `yaml:"next"`
	Ref   string    `yaml:"ref"`
}

type yamlScript struct {
	ID   string    `yaml:"id"`
	Root *yamlNode `yaml:"root"`
}

type yamlFile struct {
	Scripts []yamlScript `yaml:"scripts"`
}

// LoadLibrary reads a script library from a YAML file.
func LoadLibrary(path string) (*Library, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read script file %s: %w", path, err)
	}
	lib, err := ParseLibrary(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid script file %s: %w", path, err)
	}
	return lib, nil
}

// ParseLibrary parses YAML script data into a validated library.
func ParseLibrary(raw []byte) (*Library, error) {
	var file yamlFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("failed to parse scripts: %w", err)
	}

	lib := &Library{scripts: make(map[string]*Script, len(file.Scripts))}
	for _, ys := range file.Scripts {
		if ys.ID == "" {
			return nil, fmt.Errorf("script with empty id")
		}
		if _, dup := lib.scripts[ys.ID]; dup {
			return nil, fmt.Errorf("duplicate script id %q", ys.ID)
		}
		s, err := compileScript(ys)
		if err != nil {
			return nil, fmt.Errorf("script %q: %w", ys.ID, err)
		}
		lib.scripts[ys.ID] = s
	}
	return lib, nil
}

// compileScript flattens a nested authored tree into an arena, resolves id
// references, and rejects cyclic choice graphs.
func compileScript(ys yamlScript) (*Script, error) {
	if ys.Root == nil {
		return nil, fmt.Errorf("missing root node")
	}

	s := &Script{ID: ys.ID}
	named := make(map[string]int)

	type pendingRef struct {
		node, choice int
		ref          string
	}
	var pending []pendingRef

	var flatten func(n *yamlNode) (int, error)
	flatten = func(n *yamlNode) (int, error) {
		idx := len(s.nodes)
		s.nodes = append(s.nodes, Node{Text: n.Text, Speaker: n.Speaker})

		if n.ID != "" {
			if _, dup := named[n.ID]; dup {
				return NoNode, fmt.Errorf("duplicate node id %q", n.ID)
			}
			named[n.ID] = idx
		}

		for ci, c := range n.Choices {
			if c.Label == "" {
				return NoNode, fmt.Errorf("node %d choice %d has no label", idx, ci)
			}
			switch {
			case c.Next != nil && c.Ref != "":
				return NoNode, fmt.Errorf("node %d choice %q has both next and ref", idx, c.Label)
			case c.Next != nil:
				childIdx, err := flatten(c.Next)
				if err != nil {
					return NoNode, err
				}
				s.nodes[idx].Choices = append(s.nodes[idx].Choices, Choice{Label: c.Label, Next: childIdx})
			case c.Ref != "":
				s.nodes[idx].Choices = append(s.nodes[idx].Choices, Choice{Label: c.Label, Next: NoNode})
				pending = append(pending, pendingRef{node: idx, choice: len(s.nodes[idx].Choices) - 1, ref: c.Ref})
			default:
				return NoNode, fmt.Errorf("node %d choice %q has no destination", idx, c.Label)
			}
		}
		return idx, nil
	}

	root, err := flatten(ys.Root)
	if err != nil {
		return nil, err
	}
	s.Root = root

	for _, p := range pending {
		target, ok := named[p.ref]
		if !ok {
			return nil, fmt.Errorf("choice ref %q does not match any node id", p.ref)
		}
		s.nodes[p.node].Choices[p.choice].Next = target
	}

	if err := s.checkAcyclic(); err != nil {
		return nil, err
	}
	return s, nil
}

// checkAcyclic runs a DFS over choice edges and rejects any path that
// revisits a node already on the current stack.
func (s *Script) checkAcyclic() error {
	const (
		unvisited = 0
		onStack   = 1
		done      = 2
	)
	state := make([]int, len(s.nodes))

	var visit func(i int) error
	visit = func(i int) error {
		switch state[i] {
		case onStack:
			return fmt.Errorf("conversation cycle through node %d (%q)", i, s.nodes[i].Text)
		case done:
			return nil
		}
		state[i] = onStack
		for _, c := range s.nodes[i].Choices {
			if err := visit(c.Next); err != nil {
				return err
			}
		}
		state[i] = done
		return nil
	}
	return visit(s.Root)
}
