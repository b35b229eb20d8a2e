package gate

import "os"

// PauseFlag reads the out-of-process pause toggle: a flag file whose
// presence means tracking is manually paused. The file is owned by the
// user (menubar shell, pause command); the gate only reads it.
type PauseFlag struct {
	path string
}

// NewPauseFlag creates a reader for the flag file at path.
func NewPauseFlag(path string) PauseFlag {
	return PauseFlag{path: path}
}

// Paused reports whether the flag file exists. Read once per invocation;
// the snapshot is not re-checked mid-pipeline.
func (p PauseFlag) Paused() bool {
	if p.path == "" {
		return false
	}
	_, err := os.Stat(p.path)
	return err == nil
}

// Set creates or removes the flag file.
func (p PauseFlag) Set(paused bool) error {
	if paused {
		f, err := os.OpenFile(p.path, os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return err
		}
		return f.Close()
	}
	err := os.Remove(p.path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
