// SPDX-License-Identifier: MIT

// Package procgroup spawns child processes in their own process groups so a
// cancelled download can reap the downloader together with any helper
// processes it forked. The downloader and transcoder must both be dead after
// Kill; no graceful ordering is required.
package procgroup
