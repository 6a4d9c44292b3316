package tgrapher

import (
	"fmt"
	"os/exec"
	"runtime"
)

// Viewer displays a rendered plot image
type Viewer interface {
	Open(path string) error
}

// systemViewer hands the image to the desktop's default application
type systemViewer struct{}

func (systemViewer) Open(path string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", path)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", path)
	default:
		viewer, err := exec.LookPath("xdg-open")
		if err != nil {
			return fmt.Errorf("no image viewer found, use --batch with --plot to only write the image")
		}
		cmd = exec.Command(viewer, path)
	}
	if err := cmd.Start(); err != nil {
		return err
	}
	// the viewer outlives us, reap it in the background
	go cmd.Wait()
	return nil
}
