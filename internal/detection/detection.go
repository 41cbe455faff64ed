// Package detection identifies supported game releases from their data files.
package detection

import (
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path"
	"strings"

	"golang.org/x/text/language"
)

// Platform is the platform a release was built for.
type Platform string

const (
	PlatformWindows Platform = "windows"
)

// Flags describe a release's status.
type Flags uint8

const (
	FlagDemo Flags = 1 << iota
	FlagUnsupported
)

// Has reports whether every bit of f2 is set in f.
func (f Flags) Has(f2 Flags) bool { return f&f2 == f2 }

// String lists the set flags, or "none".
func (f Flags) String() string {
	var parts []string
	if f.Has(FlagDemo) {
		parts = append(parts, "demo")
	}
	if f.Has(FlagUnsupported) {
		parts = append(parts, "unsupported")
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "|")
}

// GUIOptions lists front-end options a release turns off or on.
type GUIOptions []string

// GUINoMIDI hides MIDI settings.
const GUINoMIDI = "nomidi"

// FileEntry identifies one file of a release by the md5 of its leading
// bytes and its full size.
type FileEntry struct {
	Name string
	MD5  string
	Size int64
}

// Release is one known edition of a game.
type Release struct {
	GameID   string
	Extra    string
	Files    []FileEntry
	Language language.Tag
	Platform Platform
	Flags    Flags
	GUI      GUIOptions
}

// Engine describes a detection table and how to scan for its files.
type Engine struct {
	ID        string
	Name      string
	Copyright string
	// Games maps game ids to display names.
	Games map[string]string
	// DirectoryGlobs name the subdirectories scanned below the root,
	// matched case-insensitively.
	DirectoryGlobs []string
	// MaxScanDepth counts the root as depth 1.
	MaxScanDepth int
	// MD5Bytes is how many leading bytes of a file are hashed.
	MD5Bytes int64
	Releases []Release
}

// PrivateEye is the detection table for Private Eye.
var PrivateEye = Engine{
	ID:             "private",
	Name:           "Private Eye",
	Copyright:      "Copyright (C) Brooklyn Multimedia",
	Games:          map[string]string{"private-eye": "Private Eye"},
	DirectoryGlobs: []string{"SUPPORT"},
	MaxScanDepth:   2,
	MD5Bytes:       5000,
	Releases: []Release{
		{
			GameID:   "private-eye",
			Files:    []FileEntry{{Name: "ASSETS.Z", MD5: "3a7532349cda8126e96dd5e49884af3a", Size: 40232}},
			Language: language.AmericanEnglish,
			Platform: PlatformWindows,
			GUI:      GUIOptions{GUINoMIDI},
		},
		{
			GameID:   "private-eye",
			Files:    []FileEntry{{Name: "ASSETS.Z", MD5: "73874f969026d6fd21a4e9834ce4a1a7", Size: 17695}},
			Language: language.BritishEnglish,
			Platform: PlatformWindows,
			Flags:    FlagUnsupported,
			GUI:      GUIOptions{GUINoMIDI},
		},
		{
			GameID:   "private-eye",
			Extra:    "Demo",
			Files:    []FileEntry{{Name: "ASSETS.Z", MD5: "854e141bb67535359620a1833fcc1566", Size: 5955}},
			Language: language.AmericanEnglish,
			Platform: PlatformWindows,
			Flags:    FlagDemo,
			GUI:      GUIOptions{GUINoMIDI},
		},
		{
			GameID:   "private-eye",
			Extra:    "Demo",
			Files:    []FileEntry{{Name: "ASSETS.Z", MD5: "045766e39f44d6ee3bf92f0d4521587c", Size: 5961}},
			Language: language.AmericanEnglish,
			Platform: PlatformWindows,
			Flags:    FlagDemo,
			GUI:      GUIOptions{GUINoMIDI},
		},
		{
			GameID:   "private-eye",
			Extra:    "Demo",
			Files:    []FileEntry{{Name: "ASSETS.Z", MD5: "15e10e8fbb1e9aac4d32c5d8215e7c86", Size: 2299}},
			Language: language.BritishEnglish,
			Platform: PlatformWindows,
			Flags:    FlagDemo | FlagUnsupported,
			GUI:      GUIOptions{GUINoMIDI},
		},
	},
}

// Fingerprint is the observed identity of a scanned file.
type Fingerprint struct {
	Path string
	MD5  string
	Size int64
}

// Match is a release whose files were all found.
type Match struct {
	Release Release
	Files   []Fingerprint
}

// Detect runs the Private Eye table over fsys.
func Detect(fsys fs.FS) ([]Match, error) {
	return PrivateEye.Detect(fsys)
}

// Detect scans fsys for the engine's files and returns every release whose
// files all match by md5 and size, in table order.
//
// Postcondition: Returns an empty slice, not an error, when nothing matches.
func (e Engine) Detect(fsys fs.FS) ([]Match, error) {
	prints, err := e.scan(fsys)
	if err != nil {
		return nil, err
	}

	var out []Match
	for _, rel := range e.Releases {
		files := make([]Fingerprint, 0, len(rel.Files))
		for _, want := range rel.Files {
			fp, ok := prints[strings.ToUpper(want.Name)]
			if !ok || fp.MD5 != want.MD5 || fp.Size != want.Size {
				break
			}
			files = append(files, fp)
		}
		if len(files) == len(rel.Files) {
			out = append(out, Match{Release: rel, Files: files})
		}
	}
	return out, nil
}

// wanted returns the upper-cased names of every file the table references.
func (e Engine) wanted() map[string]bool {
	names := make(map[string]bool)
	for _, rel := range e.Releases {
		for _, f := range rel.Files {
			names[strings.ToUpper(f.Name)] = true
		}
	}
	return names
}

func (e Engine) scanDir(dir string) bool {
	name := strings.ToUpper(path.Base(dir))
	for _, g := range e.DirectoryGlobs {
		if ok, _ := path.Match(strings.ToUpper(g), name); ok {
			return true
		}
	}
	return false
}

// scan fingerprints every referenced file within the scan depth. The first
// file found for a name in lexical walk order wins.
func (e Engine) scan(fsys fs.FS) (map[string]Fingerprint, error) {
	wanted := e.wanted()
	prints := make(map[string]Fingerprint)

	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if p == "." {
				return nil
			}
			// Entries of p sit one level below it; the root's entries are level 1.
			level := strings.Count(p, "/") + 2
			if level > e.MaxScanDepth || !e.scanDir(p) {
				return fs.SkipDir
			}
			return nil
		}
		key := strings.ToUpper(d.Name())
		if !wanted[key] {
			return nil
		}
		if _, seen := prints[key]; seen {
			return nil
		}
		fp, err := e.fingerprint(fsys, p)
		if err != nil {
			return err
		}
		prints[key] = fp
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning for %s files: %w", e.Name, err)
	}
	return prints, nil
}

func (e Engine) fingerprint(fsys fs.FS, p string) (Fingerprint, error) {
	f, err := fsys.Open(p)
	if err != nil {
		return Fingerprint{}, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return Fingerprint{}, err
	}
	h := md5.New()
	if _, err := io.CopyN(h, f, e.MD5Bytes); err != nil && !errors.Is(err, io.EOF) {
		return Fingerprint{}, fmt.Errorf("hashing %s: %w", p, err)
	}
	return Fingerprint{Path: p, MD5: hex.EncodeToString(h.Sum(nil)), Size: info.Size()}, nil
}
