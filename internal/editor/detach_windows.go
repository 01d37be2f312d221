//go:build windows

package editor

import "syscall"

// CREATE_NEW_PROCESS_GROUP keeps console signals aimed at gwt away from the editor.
func detachedAttr() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{CreationFlags: syscall.CREATE_NEW_PROCESS_GROUP}
}
