// path: src/vfs.go
package src

import (
	"fmt"
	"path"
	"sort"
	"strings"
	"sync"
)

// NodeKind tags the FileSystemNode union.
type NodeKind int

const (
	NodeFile NodeKind = iota
	NodeFolder
)

// Node is one entry of the virtual file tree: a file with content and a
// derived language, or a folder with ordered children. Nodes are treated
// as immutable once published; mutation goes through Tree, which clones
// along the touched path.
type Node struct {
	Name     string
	Kind     NodeKind
	Content  string
	Language string
	Children []*Node
}

func (n *Node) child(name string) (*Node, int) {
	for i, c := range n.Children {
		if c.Name == name {
			return c, i
		}
	}
	return nil, -1
}

// clone shallow-copies a node; children slices are copied, child nodes are
// shared until a write path touches them.
func (n *Node) clone() *Node {
	cp := *n
	cp.Children = append([]*Node(nil), n.Children...)
	return &cp
}

// Tree owns a virtual file hierarchy. Readers get a consistent snapshot
// via Root; writers clone the touched path and swap the root under the
// lock, so a mutation costs O(depth) and never exposes a partial tree.
type Tree struct {
	mu   sync.RWMutex
	root *Node
}

func NewTree() *Tree {
	return &Tree{root: &Node{Name: "/", Kind: NodeFolder}}
}

// TreeFromMap builds a tree from a flat path → content map, creating
// intermediate folders on demand and merging folders that appear under
// multiple paths. Paths are inserted in sorted order for determinism.
func TreeFromMap(files map[string]string) *Tree {
	t := NewTree()
	paths := make([]string, 0, len(files))
	for p := range files {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	for _, p := range paths {
		t.root = insert(t.root, splitPath(p), files[p])
	}
	return t
}

func splitPath(p string) []string {
	p = strings.Trim(path.Clean("/"+p), "/")
	if p == "" {
		return nil
	}
	return strings.Split(p, "/")
}

func insert(n *Node, segs []string, content string) *Node {
	if len(segs) == 0 {
		return n
	}
	cp := n.clone()
	child, idx := cp.child(segs[0])
	if len(segs) == 1 {
		leaf := &Node{
			Name:     segs[0],
			Kind:     NodeFile,
			Content:  content,
			Language: LanguageForPath(segs[0]),
		}
		if idx >= 0 {
			cp.Children[idx] = leaf
		} else {
			cp.Children = append(cp.Children, leaf)
		}
		return cp
	}
	if child == nil || child.Kind != NodeFolder {
		// A file occupying this name gives way to the folder; appending a
		// second node under the same name would break sibling uniqueness.
		child = &Node{Name: segs[0], Kind: NodeFolder}
	}
	sub := insert(child, segs[1:], content)
	if idx >= 0 {
		cp.Children[idx] = sub
	} else {
		cp.Children = append(cp.Children, sub)
	}
	return cp
}

// Root returns the current snapshot. The returned node must be treated as
// read-only.
func (t *Tree) Root() *Node {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.root
}

// Replace swaps in an entirely new tree built from a file map. New
// generations replace, not merge.
func (t *Tree) Replace(files map[string]string) {
	fresh := TreeFromMap(files)
	t.mu.Lock()
	t.root = fresh.root
	t.mu.Unlock()
}

func (t *Tree) lookup(p string) *Node {
	n := t.Root()
	for _, seg := range splitPath(p) {
		if n.Kind != NodeFolder {
			return nil
		}
		child, _ := n.child(seg)
		if child == nil {
			return nil
		}
		n = child
	}
	return n
}

// Read returns the content of the file at path.
func (t *Tree) Read(p string) (string, bool) {
	n := t.lookup(p)
	if n == nil || n.Kind != NodeFile {
		return "", false
	}
	return n.Content, true
}

// Exists reports whether any node (file or folder) lives at path.
func (t *Tree) Exists(p string) bool {
	return t.lookup(p) != nil
}

// Write updates a file in place, preserving all siblings. The target must
// already exist as a file.
func (t *Tree) Write(p, content string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	segs := splitPath(p)
	if len(segs) == 0 {
		return fmt.Errorf("write %q: not a file path", p)
	}
	if n := lookupFrom(t.root, segs); n == nil || n.Kind != NodeFile {
		return fmt.Errorf("write %q: no such file", p)
	}
	t.root = insert(t.root, segs, content)
	return nil
}

// Create adds an empty file, building intermediate folders as needed.
// Fails if a node already exists at the exact path or if an intermediate
// segment is occupied by a file.
func (t *Tree) Create(p string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	segs := splitPath(p)
	if len(segs) == 0 {
		return fmt.Errorf("create %q: not a file path", p)
	}
	if lookupFrom(t.root, segs) != nil {
		return fmt.Errorf("create %q: already exists", p)
	}
	for i := 1; i < len(segs); i++ {
		if n := lookupFrom(t.root, segs[:i]); n != nil && n.Kind != NodeFolder {
			return fmt.Errorf("create %q: %q is a file", p, strings.Join(segs[:i], "/"))
		}
	}
	t.root = insert(t.root, segs, "")
	return nil
}

// Delete removes the node at path; folders are removed with all
// descendants.
func (t *Tree) Delete(p string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	segs := splitPath(p)
	if len(segs) == 0 {
		return fmt.Errorf("delete %q: not a valid path", p)
	}
	root, ok := remove(t.root, segs)
	if !ok {
		return fmt.Errorf("delete %q: no such node", p)
	}
	t.root = root
	return nil
}

func lookupFrom(n *Node, segs []string) *Node {
	for _, seg := range segs {
		if n.Kind != NodeFolder {
			return nil
		}
		child, _ := n.child(seg)
		if child == nil {
			return nil
		}
		n = child
	}
	return n
}

func remove(n *Node, segs []string) (*Node, bool) {
	cp := n.clone()
	child, idx := cp.child(segs[0])
	if child == nil {
		return n, false
	}
	if len(segs) == 1 {
		cp.Children = append(cp.Children[:idx], cp.Children[idx+1:]...)
		return cp, true
	}
	if child.Kind != NodeFolder {
		return n, false
	}
	sub, ok := remove(child, segs[1:])
	if !ok {
		return n, false
	}
	cp.Children[idx] = sub
	return cp, true
}

// FirstFile returns the path of the structurally first file in pre-order,
// or "" for an empty tree.
func (t *Tree) FirstFile() string {
	var walk func(n *Node, prefix string) string
	walk = func(n *Node, prefix string) string {
		for _, c := range n.Children {
			p := c.Name
			if prefix != "" {
				p = prefix + "/" + c.Name
			}
			if c.Kind == NodeFile {
				return p
			}
			if found := walk(c, p); found != "" {
				return found
			}
		}
		return ""
	}
	return walk(t.Root(), "")
}

// Files flattens the tree back into a path → content map.
func (t *Tree) Files() map[string]string {
	out := map[string]string{}
	var walk func(n *Node, prefix string)
	walk = func(n *Node, prefix string) {
		for _, c := range n.Children {
			p := c.Name
			if prefix != "" {
				p = prefix + "/" + c.Name
			}
			if c.Kind == NodeFile {
				out[p] = c.Content
			} else {
				walk(c, p)
			}
		}
	}
	walk(t.Root(), "")
	return out
}

// Paths lists every file path in pre-order.
func (t *Tree) Paths() []string {
	var out []string
	var walk func(n *Node, prefix string)
	walk = func(n *Node, prefix string) {
		for _, c := range n.Children {
			p := c.Name
			if prefix != "" {
				p = prefix + "/" + c.Name
			}
			if c.Kind == NodeFile {
				out = append(out, p)
			} else {
				walk(c, p)
			}
		}
	}
	walk(t.Root(), "")
	return out
}

// RenderTree draws the hierarchy for the code panel sidebar.
func (t *Tree) RenderTree() string {
	var lines []string
	var walk func(prefix string, n *Node)
	walk = func(prefix string, n *Node) {
		for _, c := range n.Children {
			line := prefix + "└─ " + c.Name
			if c.Kind == NodeFolder {
				line += "/"
			}
			lines = append(lines, line)
			if c.Kind == NodeFolder {
				walk(prefix+"  ", c)
			}
		}
	}
	walk("", t.Root())
	return strings.Join(lines, "\n")
}

// LanguageForPath derives a file's language deterministically from its
// extension.
func LanguageForPath(p string) string {
	ext := strings.ToLower(path.Ext(p))
	switch ext {
	case ".js", ".mjs", ".cjs":
		return "javascript"
	case ".jsx":
		return "javascript"
	case ".ts":
		return "typescript"
	case ".tsx":
		return "typescript"
	case ".html", ".htm":
		return "html"
	case ".css":
		return "css"
	case ".json":
		return "json"
	case ".md":
		return "markdown"
	case ".yml", ".yaml":
		return "yaml"
	case ".svg":
		return "xml"
	case ".go":
		return "go"
	case ".py":
		return "python"
	case ".sh":
		return "bash"
	default:
		return "plaintext"
	}
}
