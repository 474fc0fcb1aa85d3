// Package bundle embeds the default content shipped with the app: the
// module and quiz records, the exam category taxonomy and the 2025
// exam-changes metadata.
package bundle

import (
	"embed"
	"io/fs"
)

//go:embed modules quizzes taxonomy.json exam-changes.json
var files embed.FS

// FS returns the embedded content file system.
func FS() fs.FS {
	return files
}
