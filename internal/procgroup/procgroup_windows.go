// SPDX-License-Identifier: MIT

//go:build windows

package procgroup

import "os/exec"

// Set is a no-op on Windows; process groups are not used there.
func Set(cmd *exec.Cmd) {}

// Kill terminates the process directly. Windows has no group semantics in
// this context, so helper processes of the downloader may outlive it briefly.
func Kill(cmd *exec.Cmd) error {
	if cmd == nil || cmd.Process == nil {
		return nil
	}
	return cmd.Process.Kill()
}
