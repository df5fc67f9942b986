// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"github.com/gmksplit/gmksplit/internal/restree"
	"github.com/gmksplit/gmksplit/pkg/gmfile"
)

// SampleArchive returns a small project that uses every kind, every reference
// field and a few groups, together with its resource tree.
//
// Resource lists are in tree order and object identifiers have gaps, so a
// decompose/compose round trip under the "all" policy reproduces the archive
// exactly. All code uses \r\n line endings.
func SampleArchive() (*gmfile.Archive, *restree.Node) {
	a := gmfile.NewArchive()
	a.Version = 810
	a.LastInstanceID = 100004
	a.LastTileID = 10000001

	sprPlayer := &gmfile.Sprite{
		Header:           gmfile.Header{ID: 0, Name: "spr_player"},
		OriginX:          16,
		OriginY:          16,
		Transparent:      true,
		Preload:          true,
		BBoxMode:         gmfile.BBoxManual,
		BBox:             gmfile.Rect{Left: 2, Right: 29, Top: 1, Bottom: 31},
		PreciseCollision: true,
		Subimages:        [][]byte{[]byte("\x89PNG player 0"), []byte("\x89PNG player 1")},
	}
	sprWall := &gmfile.Sprite{
		Header:    gmfile.Header{ID: 1, Name: "spr_wall"},
		Preload:   true,
		Subimages: [][]byte{[]byte("\x89PNG wall")},
	}
	a.Sprites = []*gmfile.Sprite{sprPlayer, sprWall}

	sndJump := &gmfile.Sound{
		Header:   gmfile.Header{ID: 0, Name: "snd_jump"},
		FileType: ".wav",
		FileName: "jump.wav",
		Volume:   0.8,
		Preload:  true,
		Data:     []byte("RIFF....WAVE"),
	}
	a.Sounds = []*gmfile.Sound{sndJump}

	bgSky := &gmfile.Background{
		Header:     gmfile.Header{ID: 0, Name: "bg_sky"},
		Preload:    true,
		Tileset:    true,
		TileWidth:  32,
		TileHeight: 32,
		HSep:       1,
		VSep:       1,
		Image:      []byte("\x89PNG sky"),
	}
	a.Backgrounds = []*gmfile.Background{bgSky}

	scrInit := &gmfile.Script{
		Header: gmfile.Header{ID: 0, Name: "scr_init"},
		Code:   "// set up globals\r\nglobal.score = 0;\r\nglobal.lives = MAX_LIVES;\r\n",
	}
	a.Scripts = []*gmfile.Script{scrInit}

	fntMain := &gmfile.Font{
		Header:   gmfile.Header{ID: 0, Name: "fnt_main"},
		FontName: "Arial",
		Size:     12,
		Bold:     true,
		RangeMin: 32,
		RangeMax: 127,
	}
	a.Fonts = []*gmfile.Font{fntMain}

	objSolid := &gmfile.Object{
		Header:  gmfile.Header{ID: 0, Name: "obj_solid"},
		Solid:   true,
		Visible: true,
	}
	objWall := &gmfile.Object{
		Header:  gmfile.Header{ID: 2, Name: "obj_wall"},
		Sprite:  gmfile.RefID(1),
		Solid:   true,
		Visible: true,
		Parent:  gmfile.RefID(0),
	}
	objPlayer := &gmfile.Object{
		Header:  gmfile.Header{ID: 5, Name: "obj_player"},
		Sprite:  gmfile.RefID(0),
		Visible: true,
		Depth:   -10,
		Mask:    gmfile.RefID(1),
		Events: []gmfile.Event{
			{
				Type: gmfile.EventCreate,
				Actions: []gmfile.Action{{
					LibID:    1,
					ActionID: 603,
					Arguments: []gmfile.Argument{
						{Kind: gmfile.ArgExpression, Value: "hp = 3;\r\nspeed = 4;"},
					},
				}},
			},
			{
				Type:  gmfile.EventCollision,
				Other: gmfile.RefID(2),
				Actions: []gmfile.Action{{
					LibID:         1,
					ActionID:      211,
					AppliesTo:     gmfile.AppliesObject,
					AppliesObject: gmfile.RefID(2),
					Relative:      true,
					Arguments: []gmfile.Argument{
						{Kind: gmfile.ArgSound, Ref: gmfile.RefID(0)},
						{Kind: gmfile.ArgBoolean, Value: "0"},
					},
				}},
			},
			{Type: gmfile.EventKeyboard, Num: 37},
		},
	}
	a.Objects = []*gmfile.Object{objSolid, objWall, objPlayer}

	tlIntro := &gmfile.Timeline{
		Header: gmfile.Header{ID: 0, Name: "tl_intro"},
		Moments: []gmfile.Moment{{
			Step: 30,
			Actions: []gmfile.Action{{
				LibID:     1,
				ActionID:  201,
				Arguments: []gmfile.Argument{{Kind: gmfile.ArgObject, Ref: gmfile.RefID(5)}},
			}},
		}},
	}
	a.Timelines = []*gmfile.Timeline{tlIntro}

	rmStart := &gmfile.Room{
		Header:              gmfile.Header{ID: 0, Name: "rm_start"},
		Caption:             "Level 1",
		Width:               640,
		Height:              480,
		Speed:               30,
		BackgroundColor:     0xC0C0C0,
		DrawBackgroundColor: true,
		CreationCode:        "scr_init();\r\n",
		Backgrounds: []gmfile.RoomBackground{
			{Visible: true, Background: gmfile.RefID(0), TileH: true, TileV: true, HSpeed: 1},
			{},
		},
		EnableViews: true,
		Views: []gmfile.View{
			{
				Visible: true, ViewW: 320, ViewH: 240, PortW: 640, PortH: 480,
				HBorder: 64, VBorder: 64, HSpeed: -1, VSpeed: -1, Follow: gmfile.RefID(5),
			},
			{ViewW: 640, ViewH: 480, PortW: 640, PortH: 480, HBorder: 32, VBorder: 32, HSpeed: -1, VSpeed: -1},
		},
		Instances: []gmfile.Instance{
			{ID: 100001, X: 64, Y: 64, Object: gmfile.RefID(5), CreationCode: "hp = 5;\r\n"},
			{ID: 100002, X: 0, Y: 448, Object: gmfile.RefID(2), Locked: true},
		},
		Tiles: []gmfile.Tile{
			{ID: 10000001, X: 32, Y: 32, Background: gmfile.RefID(0), Width: 32, Height: 32, Depth: 1000000},
		},
	}
	a.Rooms = []*gmfile.Room{rmStart}

	pthPatrol := &gmfile.Path{
		Header:         gmfile.Header{ID: 0, Name: "pth_patrol"},
		Closed:         true,
		Precision:      4,
		BackgroundRoom: gmfile.RefID(0),
		SnapX:          16,
		SnapY:          16,
		Points:         []gmfile.PathPoint{{X: 0, Y: 0, Speed: 100}, {X: 128, Y: 0, Speed: 50.5}},
	}
	a.Paths = []*gmfile.Path{pthPatrol}

	a.Constants = []gmfile.Constant{
		{Name: "MAX_LIVES", Value: "3"},
		{Name: "DEBUG", Value: "false", Hidden: true},
	}
	a.Packages = []string{"Windows Dialogs"}
	a.Includes = []*gmfile.Include{
		{FileName: "levels.dat", FilePath: `C:\game\levels.dat`, Original: true, Export: gmfile.ExportTemp, Data: []byte{0, 1, 2, 3}},
	}
	a.GameInfo = gmfile.GameInfo{
		BackgroundColor: 0xFFFFE1,
		FormCaption:     "Game Information",
		Width:           600,
		Height:          400,
		ShowBorder:      true,
		AllowResize:     true,
		PauseGame:       true,
		Text:            `{\rtf1\ansi Use the arrow keys.}`,
	}

	root := restree.NewRoot()
	sprites := root.AddChild(gmfile.KindSprite.RootName(), restree.StatusPrimary, gmfile.KindSprite)
	sprites.AddChild("Characters", restree.StatusGroup, gmfile.KindSprite).AddLeaf(sprPlayer)
	sprites.AddLeaf(sprWall)
	root.AddChild(gmfile.KindSound.RootName(), restree.StatusPrimary, gmfile.KindSound).AddLeaf(sndJump)
	root.AddChild(gmfile.KindBackground.RootName(), restree.StatusPrimary, gmfile.KindBackground).AddLeaf(bgSky)
	root.AddChild(gmfile.KindPath.RootName(), restree.StatusPrimary, gmfile.KindPath).AddLeaf(pthPatrol)
	root.AddChild(gmfile.KindScript.RootName(), restree.StatusPrimary, gmfile.KindScript).AddLeaf(scrInit)
	root.AddChild(gmfile.KindFont.RootName(), restree.StatusPrimary, gmfile.KindFont).AddLeaf(fntMain)
	root.AddChild(gmfile.KindTimeline.RootName(), restree.StatusPrimary, gmfile.KindTimeline).AddLeaf(tlIntro)
	objects := root.AddChild(gmfile.KindObject.RootName(), restree.StatusPrimary, gmfile.KindObject)
	blocks := objects.AddChild("Blocks", restree.StatusGroup, gmfile.KindObject)
	blocks.AddLeaf(objSolid)
	blocks.AddLeaf(objWall)
	objects.AddLeaf(objPlayer)
	rooms := root.AddChild(gmfile.KindRoom.RootName(), restree.StatusPrimary, gmfile.KindRoom)
	rooms.AddLeaf(rmStart)
	rooms.AddChild("Unused", restree.StatusGroup, gmfile.KindRoom)
	restree.AddSecondaryRoots(root)

	return a, root
}
