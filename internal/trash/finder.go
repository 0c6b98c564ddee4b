package trash

import (
	"fmt"
	"os/exec"
)

// OpenTrash opens the Trash folder in Finder so the user can review
// or restore what was moved there.
func (t *Trasher) OpenTrash() error {
	if err := exec.Command("open", t.trashDir).Run(); err != nil {
		return fmt.Errorf("opening trash folder: %w", err)
	}
	return nil
}

// RevealInFinder shows the given path selected in a Finder window.
func RevealInFinder(path string) error {
	if err := exec.Command("open", "-R", path).Run(); err != nil {
		return fmt.Errorf("revealing %s in finder: %w", path, err)
	}
	return nil
}

// QuickLook previews the file with Quick Look. The viewer runs in the
// background; this returns as soon as it launches.
func QuickLook(path string) error {
	cmd := exec.Command("qlmanage", "-p", path)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("launching quick look: %w", err)
	}
	go func() { _ = cmd.Wait() }()
	return nil
}
