package cmd

import (
	"io/fs"
	"os"
	"path/filepath"

	"github.com/gobwas/glob"
)

const defaultInclude = "**.md"

// markdownFiles expands paths into the markdown files to process. Files are
// taken as given; directories are walked and their files kept when the
// slash separated path relative to the directory matches include.
func markdownFiles(paths []string, include string) ([]string, error) {
	pattern, err := glob.Compile(include, '/')
	if err != nil {
		return nil, err
	}

	var files []string

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, err
		}

		if !info.IsDir() {
			files = append(files, path)

			continue
		}

		err = filepath.WalkDir(path, func(name string, entry fs.DirEntry, err error) error {
			if err != nil || entry.IsDir() {
				return err
			}

			rel, err := filepath.Rel(path, name)
			if err != nil {
				return err
			}

			if pattern.Match(filepath.ToSlash(rel)) {
				files = append(files, name)
			}

			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	return files, nil
}
