// SPDX-License-Identifier: MPL-2.0

package format

import (
	"encoding/xml"
	"os"
	"path/filepath"

	"github.com/gmksplit/gmksplit/internal/issue"
	"github.com/gmksplit/gmksplit/internal/reconcile"
	"github.com/gmksplit/gmksplit/internal/refs"
	"github.com/gmksplit/gmksplit/internal/restree"
	"github.com/gmksplit/gmksplit/pkg/gmfile"
)

const (
	// ConstantsFile holds the constant list.
	ConstantsFile = "Constants.xml"
	// ExtensionsFile holds the extension package names.
	ExtensionsFile = "Extension Packages.xml"
	// GameInfoFile holds the game information window settings.
	GameInfoFile = "Game Information.xml"
	// GameInfoTextFile holds the game information text.
	GameInfoTextFile = "Game Information.rtf"
)

var (
	_ Format[gmfile.Resource]   = (*resourceFormat[*gmfile.Sprite, xmlSprite])(nil)
	_ Format[[]gmfile.Constant] = (*ConstantsFormat)(nil)
	_ Format[[]string]          = (*ExtensionsFormat)(nil)
	_ Format[[]*gmfile.Include] = (*IncludesFormat)(nil)
	_ Format[*gmfile.GameInfo]  = (*GameInfoFormat)(nil)
)

type (
	// ConstantsFormat reads and writes Constants.xml. Its Read and Write
	// take the project directory.
	ConstantsFormat struct{ set *Set }

	// ExtensionsFormat reads and writes Extension Packages.xml in the
	// project directory. The file is only written for a non-empty list.
	ExtensionsFormat struct{ set *Set }

	// GameInfoFormat reads and writes the game information files in the
	// project directory.
	GameInfoFormat struct{ set *Set }

	xmlConstants struct {
		XMLName   xml.Name      `xml:"constants"`
		Constants []xmlConstant `xml:"constant"`
	}

	xmlConstant struct {
		Name   string `xml:"name,attr"`
		Value  string `xml:"value,attr"`
		Hidden bool   `xml:"hidden,attr,omitempty"`
	}

	xmlExtensions struct {
		XMLName  xml.Name `xml:"extensions"`
		Packages []string `xml:"package"`
	}

	xmlGameInfo struct {
		XMLName         xml.Name  `xml:"gameInfo"`
		BackgroundColor uint32    `xml:"backgroundColor"`
		MimicGameWindow bool      `xml:"mimicGameWindow"`
		FormCaption     string    `xml:"formCaption"`
		Window          xmlWindow `xml:"window"`
		ShowBorder      bool      `xml:"showBorder"`
		AllowResize     bool      `xml:"allowResize"`
		StayOnTop       bool      `xml:"stayOnTop"`
		PauseGame       bool      `xml:"pauseGame"`
	}

	xmlWindow struct {
		Left   int `xml:"left,attr"`
		Top    int `xml:"top,attr"`
		Width  int `xml:"width,attr"`
		Height int `xml:"height,attr"`
	}
)

// Write writes the constant list, empty or not.
func (f *ConstantsFormat) Write(dir string, consts []gmfile.Constant, _ *gmfile.Archive) error {
	x := xmlConstants{}
	for _, c := range consts {
		x.Constants = append(x.Constants, xmlConstant(c))
	}
	return f.set.writeDocument(filepath.Join(dir, ConstantsFile), "constants", &x)
}

// Read reads the constant list. A missing file is an empty list.
func (f *ConstantsFormat) Read(dir, _ string, _ *refs.Registry) ([]gmfile.Constant, error) {
	var x xmlConstants
	found, err := readDocument(filepath.Join(dir, ConstantsFile), &x)
	if err != nil || !found {
		return nil, err
	}
	var out []gmfile.Constant
	for _, c := range x.Constants {
		out = append(out, gmfile.Constant(c))
	}
	return out, nil
}

// AddResToTree does nothing: constants have no tree node.
func (f *ConstantsFormat) AddResToTree([]gmfile.Constant, *restree.Node) {}

// AddAll stores the constant list. It expects exactly one list.
func (f *ConstantsFormat) AddAll(vs [][]gmfile.Constant, a *gmfile.Archive, _ *reconcile.Context) error {
	consts, err := single(gmfile.KindConstants, vs)
	if err != nil {
		return err
	}
	a.Constants = consts
	return nil
}

// Write writes the package list if it is not empty.
func (f *ExtensionsFormat) Write(dir string, pkgs []string, _ *gmfile.Archive) error {
	if len(pkgs) == 0 {
		return nil
	}
	return f.set.writeDocument(filepath.Join(dir, ExtensionsFile), "extension packages", &xmlExtensions{Packages: pkgs})
}

// Read reads the package list. A missing file is an empty list.
func (f *ExtensionsFormat) Read(dir, _ string, _ *refs.Registry) ([]string, error) {
	var x xmlExtensions
	found, err := readDocument(filepath.Join(dir, ExtensionsFile), &x)
	if err != nil || !found {
		return nil, err
	}
	return x.Packages, nil
}

// AddResToTree does nothing: the extension packages leaf is one of the
// fixed root entries.
func (f *ExtensionsFormat) AddResToTree([]string, *restree.Node) {}

// AddAll stores the package list. It expects exactly one list.
func (f *ExtensionsFormat) AddAll(vs [][]string, a *gmfile.Archive, _ *reconcile.Context) error {
	pkgs, err := single(gmfile.KindExtensions, vs)
	if err != nil {
		return err
	}
	a.Packages = pkgs
	return nil
}

// Write writes the window settings and the text.
func (f *GameInfoFormat) Write(dir string, gi *gmfile.GameInfo, _ *gmfile.Archive) error {
	x := xmlGameInfo{
		BackgroundColor: gi.BackgroundColor,
		MimicGameWindow: gi.MimicGameWindow,
		FormCaption:     gi.FormCaption,
		Window:          xmlWindow{Left: gi.Left, Top: gi.Top, Width: gi.Width, Height: gi.Height},
		ShowBorder:      gi.ShowBorder,
		AllowResize:     gi.AllowResize,
		StayOnTop:       gi.StayOnTop,
		PauseGame:       gi.PauseGame,
	}
	data, err := marshal(&x)
	if err != nil {
		return issue.Wrap(issue.Internal, err)
	}
	return f.set.writeFiles("game information", []file{
		{path: filepath.Join(dir, GameInfoFile), data: data},
		{path: filepath.Join(dir, GameInfoTextFile), data: []byte(gi.Text)},
	})
}

// Read reads the game information. Missing files leave the defaults.
func (f *GameInfoFormat) Read(dir, _ string, _ *refs.Registry) (*gmfile.GameInfo, error) {
	gi := &gmfile.GameInfo{}
	var x xmlGameInfo
	found, err := readDocument(filepath.Join(dir, GameInfoFile), &x)
	if err != nil {
		return nil, err
	}
	if found {
		*gi = gmfile.GameInfo{
			BackgroundColor: x.BackgroundColor,
			MimicGameWindow: x.MimicGameWindow,
			FormCaption:     x.FormCaption,
			Left:            x.Window.Left,
			Top:             x.Window.Top,
			Width:           x.Window.Width,
			Height:          x.Window.Height,
			ShowBorder:      x.ShowBorder,
			AllowResize:     x.AllowResize,
			StayOnTop:       x.StayOnTop,
			PauseGame:       x.PauseGame,
		}
	}

	text, _, err := readBlob(filepath.Join(dir, GameInfoTextFile))
	if err != nil {
		return nil, err
	}
	gi.Text = string(text)
	return gi, nil
}

// AddResToTree does nothing: the game information leaf is one of the fixed
// root entries.
func (f *GameInfoFormat) AddResToTree(*gmfile.GameInfo, *restree.Node) {}

// AddAll stores the game information. It expects exactly one value.
func (f *GameInfoFormat) AddAll(vs []*gmfile.GameInfo, a *gmfile.Archive, _ *reconcile.Context) error {
	gi, err := single(gmfile.KindGameInfo, vs)
	if err != nil {
		return err
	}
	a.GameInfo = *gi
	return nil
}

// single returns the only element of vs.
func single[T any](k gmfile.Kind, vs []T) (T, error) {
	if len(vs) != 1 {
		var zero T
		return zero, issue.New(issue.Internal, "%s added %d times, want exactly once", k, len(vs))
	}
	return vs[0], nil
}

// writeDocument marshals v and writes it to path.
func (s *Set) writeDocument(path, owner string, v any) error {
	data, err := marshal(v)
	if err != nil {
		return issue.Wrap(issue.Internal, err)
	}
	return s.WriteFile(path, owner, data)
}

// WriteFile claims path and writes data to it.
func (s *Set) WriteFile(path, owner string, data []byte) error {
	return s.writeFiles(owner, []file{{path: path, data: data}})
}

// readDocument unmarshals the file at path into v. It reports false when the
// file does not exist.
func readDocument(path string, v any) (bool, error) {
	data, found, err := readBlob(path)
	if err != nil || !found {
		return false, err
	}
	if err := xml.Unmarshal(data, v); err != nil {
		return false, issue.Wrap(issue.MalformedData, err).WithPath(path)
	}
	return true, nil
}

// CreateDir claims dir and creates it.
func (s *Set) CreateDir(dir, owner string) error {
	if err := s.Claim(dir, owner); err != nil {
		return err
	}
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return issue.Wrap(issue.IOFailure, err).WithPath(dir)
	}
	return nil
}
