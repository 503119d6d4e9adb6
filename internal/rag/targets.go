package rag

import (
	"sort"
	"strings"
)

// Target describes one documentation source repository and the file
// selection rules the combine-files batch tool applies when scraping it.
type Target struct {
	RepoURL        string   `json:"repoUrl"`
	FileExtensions []string `json:"fileExtensions"`
	IncludeFolders []string `json:"includeFolders"`
	ExcludeFolders []string `json:"excludeFolders"`
}

// targets is defined once at process start and never mutated. Adding a new
// documentation source means adding a new entry here.
var targets = map[string]Target{
	"discord": {
		RepoURL:        "https://github.com/discordjs/discord.js",
		FileExtensions: []string{"ts"},
		IncludeFolders: []string{"builders"},
		ExcludeFolders: []string{},
	},
	"elysia": {
		RepoURL:        "https://github.com/elysiajs/elysia",
		FileExtensions: []string{"ts"},
		IncludeFolders: []string{"src"},
		ExcludeFolders: []string{"test"},
	},
}

func Lookup(name string) (Target, bool) {
	t, ok := targets[name]
	return t, ok
}

// All returns a copy of the table so callers cannot mutate the static data.
func All() map[string]Target {
	out := make(map[string]Target, len(targets))
	for name, t := range targets {
		out[name] = t
	}
	return out
}

func Names() []string {
	names := make([]string, 0, len(targets))
	for name := range targets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Matches reports whether a repository-relative file path is selected by
// this target's rules: the extension must match, the path must sit under
// one of the include folders (an empty include list means everywhere), and
// must not sit under any exclude folder.
func (t Target) Matches(path string) bool {
	matched := false
	for _, ext := range t.FileExtensions {
		if strings.HasSuffix(path, "."+ext) {
			matched = true
			break
		}
	}
	if !matched {
		return false
	}

	for _, folder := range t.ExcludeFolders {
		if underFolder(path, folder) {
			return false
		}
	}

	if len(t.IncludeFolders) == 0 {
		return true
	}
	for _, folder := range t.IncludeFolders {
		if underFolder(path, folder) {
			return true
		}
	}
	return false
}

func underFolder(path, folder string) bool {
	folder = strings.TrimSuffix(folder, "/")
	if folder == "" {
		return true
	}
	return path == folder || strings.HasPrefix(path, folder+"/")
}
