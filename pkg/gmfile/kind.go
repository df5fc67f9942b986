// SPDX-License-Identifier: MPL-2.0

package gmfile

import "fmt"

const (
	// KindSprite is an animated image with collision data.
	KindSprite Kind = iota + 1
	// KindSound is a sound effect or music track.
	KindSound
	// KindBackground is a background image or tile set.
	KindBackground
	// KindPath is a movement path.
	KindPath
	// KindScript is a named piece of code.
	KindScript
	// KindFont is a font definition.
	KindFont
	// KindTimeline is a list of actions scheduled on steps.
	KindTimeline
	// KindObject is an object with events.
	KindObject
	// KindRoom is a level with instances, tiles and views.
	KindRoom
	// KindGameInfo is the single game information page.
	KindGameInfo
	// KindExtensions is the single list of extension package names.
	KindExtensions
	// KindConstants is the single flat constant list.
	KindConstants
	// KindIncludes is the list of included files.
	KindIncludes
)

// Kind tags a resource category.
type Kind uint8

// TreeKinds lists the kinds that appear as per-kind folders in the resource
// tree, in the archive's root order.
var TreeKinds = []Kind{
	KindSprite,
	KindSound,
	KindBackground,
	KindPath,
	KindScript,
	KindFont,
	KindTimeline,
	KindObject,
	KindRoom,
}

var kindInfo = map[Kind]struct {
	name string
	root string
}{
	KindSprite:     {"sprite", "Sprites"},
	KindSound:      {"sound", "Sounds"},
	KindBackground: {"background", "Backgrounds"},
	KindPath:       {"path", "Paths"},
	KindScript:     {"script", "Scripts"},
	KindFont:       {"font", "Fonts"},
	KindTimeline:   {"timeline", "Time Lines"},
	KindObject:     {"object", "Objects"},
	KindRoom:       {"room", "Rooms"},
	KindGameInfo:   {"gameinfo", "Game Information"},
	KindExtensions: {"extensions", "Extension Packages"},
	KindConstants:  {"constants", "Constants"},
	KindIncludes:   {"includes", "Included Files"},
}

// String returns the lower-case kind name used in XML and messages.
func (k Kind) String() string {
	if info, ok := kindInfo[k]; ok {
		return info.name
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// RootName returns the name of the kind's root node in the resource tree
// ("Sprites", "Time Lines", ...).
func (k Kind) RootName() string {
	return kindInfo[k].root
}

// IsTreeKind reports whether resources of this kind live in per-kind folders.
func (k Kind) IsTreeKind() bool {
	return k >= KindSprite && k <= KindRoom
}

// KindByRootName returns the tree kind whose root node is called name.
func KindByRootName(name string) (Kind, bool) {
	for _, k := range TreeKinds {
		if kindInfo[k].root == name {
			return k, true
		}
	}
	return 0, false
}

// KindByName is the inverse of Kind.String.
func KindByName(name string) (Kind, bool) {
	for k, info := range kindInfo {
		if info.name == name {
			return k, true
		}
	}
	return 0, false
}
