package platform

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
)

// Operating system constants
const (
	OSDarwin  = "darwin"
	OSWindows = "windows"
	OSLinux   = "linux"
)

// File permissions
const (
	DefaultDirPermissions = 0755
)

// Command constants
const (
	OpenCommand     = "open"
	ExplorerCommand = "explorer"
	XDGOpenCommand  = "xdg-open"
)

// File manager names
var (
	LinuxFileManagers = []string{"nautilus", "dolphin", "thunar", "nemo", "pcmanfm"}
)

// OpenFolder opens the directory in the system file manager
func OpenFolder(dirPath string) error {
	if dirPath == "" {
		return fmt.Errorf("folder path is empty")
	}

	info, err := os.Stat(dirPath)
	if err != nil {
		return fmt.Errorf("folder does not exist: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("not a folder: %s", dirPath)
	}

	absPath, err := filepath.Abs(dirPath)
	if err != nil {
		return fmt.Errorf("failed to get absolute path: %w", err)
	}

	cmd, err := openFolderCommand(runtime.GOOS, absPath, exec.LookPath)
	if err != nil {
		return err
	}
	// explorer.exe returns exit code 1 even on success, so only start failures count
	if runtime.GOOS == OSWindows {
		return cmd.Start()
	}
	return cmd.Run()
}

// openFolderCommand picks the file manager command for the given OS
func openFolderCommand(goos, dir string, lookPath func(string) (string, error)) (*exec.Cmd, error) {
	switch goos {
	case OSDarwin:
		return exec.Command(OpenCommand, dir), nil
	case OSWindows:
		return exec.Command(ExplorerCommand, dir), nil
	case OSLinux:
		// Try xdg-open first (most common)
		if _, err := lookPath(XDGOpenCommand); err == nil {
			return exec.Command(XDGOpenCommand, dir), nil
		}
		// Fallback to common file managers
		for _, fm := range LinuxFileManagers {
			if _, err := lookPath(fm); err == nil {
				return exec.Command(fm, dir), nil
			}
		}
		return nil, fmt.Errorf("no suitable file manager found")
	default:
		return nil, fmt.Errorf("unsupported operating system: %s", goos)
	}
}

// CreateDirectoryIfNotExists creates directory if it doesn't exist
func CreateDirectoryIfNotExists(dirPath string) error {
	if _, err := os.Stat(dirPath); os.IsNotExist(err) {
		return os.MkdirAll(dirPath, DefaultDirPermissions)
	}
	return nil
}

// FileExists reports whether path exists and is a regular file
func FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular()
}
