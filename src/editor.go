// path: src/editor.go
package src

// EditorState tracks the code panel's open tabs, the selected tab and
// which files carry unsaved edits. It never touches file content; the
// tree owns that.
type EditorState struct {
	Selected string
	Open     []string
	unsaved  map[string]bool
}

func NewEditorState() *EditorState {
	return &EditorState{unsaved: map[string]bool{}}
}

func (e *EditorState) isOpen(path string) bool {
	for _, p := range e.Open {
		if p == path {
			return true
		}
	}
	return false
}

// OpenFile adds path as a tab if needed and selects it.
func (e *EditorState) OpenFile(path string) {
	if path == "" {
		return
	}
	if !e.isOpen(path) {
		e.Open = append(e.Open, path)
	}
	e.Selected = path
}

// CloseFile removes a tab. When the selected tab closes, selection moves
// to the first remaining tab; when the last tab closes, the tree's first
// file is reopened so the panel never goes empty while files exist.
func (e *EditorState) CloseFile(path string, tree *Tree) {
	for i, p := range e.Open {
		if p == path {
			e.Open = append(e.Open[:i], e.Open[i+1:]...)
			break
		}
	}
	delete(e.unsaved, path)
	if e.Selected != path {
		return
	}
	if len(e.Open) > 0 {
		e.Selected = e.Open[0]
		return
	}
	e.Selected = ""
	if tree != nil {
		if first := tree.FirstFile(); first != "" {
			e.OpenFile(first)
		}
	}
}

// MarkUnsaved flags path as carrying edits not yet applied.
func (e *EditorState) MarkUnsaved(path string) {
	if path != "" {
		e.unsaved[path] = true
	}
}

// MarkSaved clears the unsaved flag.
func (e *EditorState) MarkSaved(path string) {
	delete(e.unsaved, path)
}

// IsUnsaved reports whether path has pending edits.
func (e *EditorState) IsUnsaved(path string) bool {
	return e.unsaved[path]
}

// DropMissing closes tabs whose files no longer exist in the tree, then
// repairs the selection. Called after a new generation replaces the tree.
func (e *EditorState) DropMissing(tree *Tree) {
	kept := e.Open[:0]
	for _, p := range e.Open {
		if tree.Exists(p) {
			kept = append(kept, p)
		} else {
			delete(e.unsaved, p)
		}
	}
	e.Open = kept
	if e.Selected != "" && !e.isOpen(e.Selected) {
		e.Selected = ""
	}
	if e.Selected == "" {
		if len(e.Open) > 0 {
			e.Selected = e.Open[0]
		} else if first := tree.FirstFile(); first != "" {
			e.OpenFile(first)
		}
	}
}
