package topic

// Matcher indexes subscription patterns in a segment trie so that a
// published topic can be resolved to every pattern it matches.
// It is not safe for concurrent use; callers hold their own lock.
type Matcher struct {
	root *trieNode
}

type trieNode struct {
	children map[string]*trieNode
	patterns []Topic
}

func newTrieNode() *trieNode {
	return &trieNode{children: make(map[string]*trieNode)}
}

// NewMatcher creates an empty matcher.
func NewMatcher() *Matcher {
	return &Matcher{root: newTrieNode()}
}

// Add registers a pattern. Adding a pattern twice is a no-op.
func (m *Matcher) Add(pattern Topic) {
	if pattern == "" {
		return
	}
	node := m.root
	for _, seg := range pattern.Segments() {
		if node.children[seg] == nil {
			node.children[seg] = newTrieNode()
		}
		node = node.children[seg]
	}
	for _, p := range node.patterns {
		if p == pattern {
			return
		}
	}
	node.patterns = append(node.patterns, pattern)
}

// Remove unregisters a pattern.
func (m *Matcher) Remove(pattern Topic) {
	node := m.root
	for _, seg := range pattern.Segments() {
		if node = node.children[seg]; node == nil {
			return
		}
	}
	for i, p := range node.patterns {
		if p == pattern {
			node.patterns = append(node.patterns[:i], node.patterns[i+1:]...)
			return
		}
	}
}

// Match returns every registered pattern matching the concrete topic.
// Each pattern appears at most once.
func (m *Matcher) Match(t Topic) []Topic {
	if t == "" {
		return nil
	}
	seen := make(map[Topic]bool)
	var out []Topic
	m.match(m.root, t.Segments(), 0, func(p Topic) {
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	})
	return out
}

func (m *Matcher) match(node *trieNode, segs []string, depth int, emit func(Topic)) {
	if depth == len(segs) {
		for _, p := range node.patterns {
			emit(p)
		}
		if child := node.children[WildcardMulti]; child != nil {
			m.match(child, segs, depth, emit)
		}
		return
	}
	if child := node.children[segs[depth]]; child != nil {
		m.match(child, segs, depth+1, emit)
	}
	if child := node.children[WildcardSingle]; child != nil {
		m.match(child, segs, depth+1, emit)
	}
	if child := node.children[WildcardMulti]; child != nil {
		for i := depth; i <= len(segs); i++ {
			m.match(child, segs, i, emit)
		}
	}
}

// Clear removes every pattern.
func (m *Matcher) Clear() {
	m.root = newTrieNode()
}
