package ports

import "os/exec"

// DocumentOpener defines the interface for showing a generated file to the user
type DocumentOpener interface {
	// OpenFile opens the file with the platform's default viewer
	OpenFile(path string) error

	// Command returns the exec.Cmd OpenFile would run
	Command(path string) (*exec.Cmd, error)
}
