package viewer

import (
	"fmt"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"prodtrack/internal/ports"
)

// Opener implements ports.DocumentOpener with the platform's default viewer
type Opener struct {
	goos string
}

// Ensure Opener implements DocumentOpener
var _ ports.DocumentOpener = (*Opener)(nil)

// NewOpener creates a new viewer opener for the running platform
func NewOpener() *Opener {
	return &Opener{goos: runtime.GOOS}
}

// OpenFile opens a file with the default application for its type
func (o *Opener) OpenFile(path string) error {
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("cannot open %s: %w", path, err)
	}

	cmd, err := o.Command(path)
	if err != nil {
		return err
	}
	return cmd.Run()
}

// Command returns the exec.Cmd that opens path on this platform
func (o *Opener) Command(path string) (*exec.Cmd, error) {
	switch o.goos {
	case "darwin":
		return exec.Command("open", path), nil
	case "linux", "freebsd", "openbsd", "netbsd":
		return exec.Command("xdg-open", path), nil
	case "windows":
		return exec.Command("cmd", "/c", "start", "", path), nil
	default:
		return nil, fmt.Errorf("unsupported operating system: %s", o.goos)
	}
}

// FileURI builds the file:// URI for an absolute path
func FileURI(path string) (string, error) {
	if !filepath.IsAbs(path) {
		return "", fmt.Errorf("path is not absolute: %s", path)
	}

	// URIs expect forward slashes, with a leading slash before Windows drive letters
	slashed := filepath.ToSlash(path)
	if slashed[0] != '/' {
		slashed = "/" + slashed
	}

	u := url.URL{Scheme: "file", Path: slashed}
	return u.String(), nil
}
