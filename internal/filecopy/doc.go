// Package filecopy discovers and copies the untracked files a fresh
// worktree needs (.env files, IDE settings, local overrides).
//
// Entries are paths relative to the source worktree. An entry containing
// glob syntax is matched with github.com/gobwas/glob using "/" as the
// separator, so "*" stays within one directory level and "**" crosses
// levels. Copy never fails as a whole: problems with individual entries
// are written as warnings and the remaining entries are still copied.
package filecopy
