package ports

// DocumentEvents receives editor document lifecycle events
type DocumentEvents interface {
	DidOpen(path, text string)
	DidSave(path, text string)
}
