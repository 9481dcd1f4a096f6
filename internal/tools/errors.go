package tools

import "fmt"

// MissingArgumentError means a required tool argument was empty or
// absent. The operation never reaches the executor.
type MissingArgumentError struct {
	Name string
}

func (e *MissingArgumentError) Error() string {
	return fmt.Sprintf("Missing required argument: %s", e.Name)
}

// PathNotFoundError means the resolved project path does not exist on
// the filesystem.
type PathNotFoundError struct {
	Path string
}

func (e *PathNotFoundError) Error() string {
	return fmt.Sprintf("Project path not found: %s", e.Path)
}
