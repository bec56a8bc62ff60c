package rules

// NodeSnapshot is the JSON-serializable form of one trie node: a terminal
// and exception marker plus a nested mapping of child label -> NodeSnapshot,
// per spec §6 ("a pair of nested mappings ... each value is either another
// such mapping or a marker"). Round-tripping through FromSnapshot/ToSnapshot
// is lossless.
type NodeSnapshot struct {
	Terminal  bool                    `json:"terminal,omitempty"`
	Exception bool                    `json:"exception,omitempty"`
	Children  map[string]NodeSnapshot `json:"children,omitempty"`
}

// Snapshot is the wire/cache form of an entire RuleSet: one nested mapping
// per PSL section.
type Snapshot struct {
	ICANN   NodeSnapshot `json:"icann"`
	Private NodeSnapshot `json:"private"`
}

func nodeToSnapshot(n *node) NodeSnapshot {
	snap := NodeSnapshot{Terminal: n.terminal, Exception: n.exception}
	if len(n.children) > 0 {
		snap.Children = make(map[string]NodeSnapshot, len(n.children))
		for label, child := range n.children {
			snap.Children[label] = nodeToSnapshot(child)
		}
	}
	return snap
}

func snapshotToNode(snap NodeSnapshot) *node {
	n := newNode()
	n.terminal = snap.Terminal
	n.exception = snap.Exception
	for label, child := range snap.Children {
		n.children[label] = snapshotToNode(child)
	}
	return n
}

// ToSnapshot serializes the RuleSet into its nested-mapping wire form.
func (rs *RuleSet) ToSnapshot() Snapshot {
	return Snapshot{
		ICANN:   nodeToSnapshot(rs.icann),
		Private: nodeToSnapshot(rs.private),
	}
}

// FromSnapshot rebuilds a RuleSet from a previously serialized Snapshot. It
// is the left inverse of (*RuleSet).ToSnapshot.
func FromSnapshot(snap Snapshot) (*RuleSet, error) {
	return &RuleSet{
		icann:   snapshotToNode(snap.ICANN),
		private: snapshotToNode(snap.Private),
	}, nil
}
