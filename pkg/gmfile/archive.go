// SPDX-License-Identifier: MPL-2.0

package gmfile

import "fmt"

// DefaultVersion is the archive format version written by composition when
// no manifest says otherwise.
const DefaultVersion = 800

// Include export modes.
const (
	ExportNone IncludeExport = iota
	ExportTemp
	ExportGameDir
	ExportFolder
)

type (
	// Constant is one named game constant.
	Constant struct {
		Name   string `cbor:"name"`
		Value  string `cbor:"value"`
		Hidden bool   `cbor:"hidden"`
	}

	// IncludeExport selects where an included file is exported at game start.
	IncludeExport uint8

	// Include is a binary file embedded in the archive.
	Include struct {
		FileName        string        `cbor:"fileName"`
		FilePath        string        `cbor:"filePath"`
		Original        bool          `cbor:"original"`
		Export          IncludeExport `cbor:"export"`
		ExportFolder    string        `cbor:"exportFolder"`
		Overwrite       bool          `cbor:"overwrite"`
		FreeMemory      bool          `cbor:"freeMemory"`
		RemoveAtGameEnd bool          `cbor:"removeAtEnd"`
		Data            []byte        `cbor:"data"`
	}

	// GameInfo is the game information page shown to players.
	GameInfo struct {
		BackgroundColor uint32 `cbor:"bgColor"`
		MimicGameWindow bool   `cbor:"mimic"`
		FormCaption     string `cbor:"caption"`
		Left            int    `cbor:"left"`
		Top             int    `cbor:"top"`
		Width           int    `cbor:"width"`
		Height          int    `cbor:"height"`
		ShowBorder      bool   `cbor:"border"`
		AllowResize     bool   `cbor:"resize"`
		StayOnTop       bool   `cbor:"onTop"`
		PauseGame       bool   `cbor:"pause"`
		Text            string `cbor:"text"`
	}

	// Archive is one complete game project.
	Archive struct {
		Version        int           `cbor:"version"`
		LastInstanceID int           `cbor:"lastInstanceId"`
		LastTileID     int           `cbor:"lastTileId"`
		Sprites        []*Sprite     `cbor:"sprites"`
		Sounds         []*Sound      `cbor:"sounds"`
		Backgrounds    []*Background `cbor:"backgrounds"`
		Paths          []*Path       `cbor:"paths"`
		Scripts        []*Script     `cbor:"scripts"`
		Fonts          []*Font       `cbor:"fonts"`
		Timelines      []*Timeline   `cbor:"timelines"`
		Objects        []*Object     `cbor:"objects"`
		Rooms          []*Room       `cbor:"rooms"`
		Constants      []Constant    `cbor:"constants"`
		Packages       []string      `cbor:"packages"`
		Includes       []*Include    `cbor:"includes"`
		GameInfo       GameInfo      `cbor:"gameInfo"`
	}
)

// NewArchive returns an empty archive of the default version.
func NewArchive() *Archive {
	return &Archive{
		Version:        DefaultVersion,
		LastInstanceID: 100000,
		LastTileID:     10000000,
	}
}

// Resources returns the resources of a tree kind in archive order.
func (a *Archive) Resources(k Kind) []Resource {
	switch k {
	case KindSprite:
		return toResources(a.Sprites)
	case KindSound:
		return toResources(a.Sounds)
	case KindBackground:
		return toResources(a.Backgrounds)
	case KindPath:
		return toResources(a.Paths)
	case KindScript:
		return toResources(a.Scripts)
	case KindFont:
		return toResources(a.Fonts)
	case KindTimeline:
		return toResources(a.Timelines)
	case KindObject:
		return toResources(a.Objects)
	case KindRoom:
		return toResources(a.Rooms)
	default:
		return nil
	}
}

// SetResources replaces the resources of a tree kind. Every element must be
// of the kind's concrete type.
func (a *Archive) SetResources(k Kind, res []Resource) error {
	var err error
	switch k {
	case KindSprite:
		a.Sprites, err = fromResources[*Sprite](k, res)
	case KindSound:
		a.Sounds, err = fromResources[*Sound](k, res)
	case KindBackground:
		a.Backgrounds, err = fromResources[*Background](k, res)
	case KindPath:
		a.Paths, err = fromResources[*Path](k, res)
	case KindScript:
		a.Scripts, err = fromResources[*Script](k, res)
	case KindFont:
		a.Fonts, err = fromResources[*Font](k, res)
	case KindTimeline:
		a.Timelines, err = fromResources[*Timeline](k, res)
	case KindObject:
		a.Objects, err = fromResources[*Object](k, res)
	case KindRoom:
		a.Rooms, err = fromResources[*Room](k, res)
	default:
		err = fmt.Errorf("%s is not a tree kind", k)
	}
	return err
}

// Lookup returns the resource of kind k with identifier id, or nil.
func (a *Archive) Lookup(k Kind, id ID) Resource {
	if id < 0 {
		return nil
	}
	for _, r := range a.Resources(k) {
		if r.Hdr().ID == id {
			return r
		}
	}
	return nil
}

// Resolve returns the resource a reference points at. Bound references
// return their target; raw references are looked up by identifier.
func (a *Archive) Resolve(k Kind, ref Ref) Resource {
	if t := ref.Target(); t != nil {
		return t
	}
	return a.Lookup(k, ref.ID())
}

func toResources[T Resource](in []T) []Resource {
	out := make([]Resource, len(in))
	for i, r := range in {
		out[i] = r
	}
	return out
}

func fromResources[T Resource](k Kind, in []Resource) ([]T, error) {
	if len(in) == 0 {
		return nil, nil
	}
	out := make([]T, 0, len(in))
	for _, r := range in {
		t, ok := r.(T)
		if !ok {
			return nil, fmt.Errorf("%s list holds a %s", k, r.Kind())
		}
		out = append(out, t)
	}
	return out, nil
}
