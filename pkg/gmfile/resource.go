// SPDX-License-Identifier: MPL-2.0

package gmfile

const (
	// BBoxAutomatic derives the bounding box from the subimages.
	BBoxAutomatic BBoxMode = iota
	// BBoxFull uses the whole image.
	BBoxFull
	// BBoxManual uses the coordinates stored in Sprite.BBox.
	BBoxManual
)

const (
	// SoundNormal is a regular sound effect.
	SoundNormal SoundType = iota
	// SoundBackground is background music.
	SoundBackground
	// SoundThreeD is a positional sound.
	SoundThreeD
	// SoundMultimedia is played through the system media player.
	SoundMultimedia
)

type (
	// Resource is implemented by every first-class resource.
	Resource interface {
		Kind() Kind
		Hdr() *Header
	}

	// Header holds the fields shared by all resources.
	Header struct {
		ID   ID     `cbor:"id"`
		Name string `cbor:"name"`
	}

	// BBoxMode selects how a sprite's bounding box is computed.
	BBoxMode uint8

	// Rect is an inclusive pixel rectangle.
	Rect struct {
		Left   int `cbor:"l"`
		Right  int `cbor:"r"`
		Top    int `cbor:"t"`
		Bottom int `cbor:"b"`
	}

	// Sprite is an animated image.
	Sprite struct {
		Header
		OriginX          int      `cbor:"ox"`
		OriginY          int      `cbor:"oy"`
		Transparent      bool     `cbor:"transparent"`
		Smooth           bool     `cbor:"smooth"`
		Preload          bool     `cbor:"preload"`
		BBoxMode         BBoxMode `cbor:"bboxMode"`
		BBox             Rect     `cbor:"bbox"`
		PreciseCollision bool     `cbor:"precise"`
		SeparateMasks    bool     `cbor:"separateMasks"`
		Subimages        [][]byte `cbor:"subimages"`
	}

	// SoundType classifies how a sound is played.
	SoundType uint8

	// Sound is a sound effect or music track.
	Sound struct {
		Header
		Type     SoundType `cbor:"type"`
		FileType string    `cbor:"fileType"`
		FileName string    `cbor:"fileName"`
		Effects  int       `cbor:"effects"`
		Volume   float64   `cbor:"volume"`
		Pan      float64   `cbor:"pan"`
		Preload  bool      `cbor:"preload"`
		Data     []byte    `cbor:"data"`
	}

	// Background is an image, optionally used as a tile set.
	Background struct {
		Header
		Transparent bool   `cbor:"transparent"`
		Smooth      bool   `cbor:"smooth"`
		Preload     bool   `cbor:"preload"`
		Tileset     bool   `cbor:"tileset"`
		TileWidth   int    `cbor:"tileW"`
		TileHeight  int    `cbor:"tileH"`
		HOffset     int    `cbor:"hOffset"`
		VOffset     int    `cbor:"vOffset"`
		HSep        int    `cbor:"hSep"`
		VSep        int    `cbor:"vSep"`
		Image       []byte `cbor:"image"`
	}

	// PathPoint is one control point of a path.
	PathPoint struct {
		X     float64 `cbor:"x"`
		Y     float64 `cbor:"y"`
		Speed float64 `cbor:"speed"`
	}

	// Path is a movement path. BackgroundRoom refers to a room.
	Path struct {
		Header
		Smooth         bool        `cbor:"smooth"`
		Closed         bool        `cbor:"closed"`
		Precision      int         `cbor:"precision"`
		BackgroundRoom Ref         `cbor:"room"`
		SnapX          int         `cbor:"snapX"`
		SnapY          int         `cbor:"snapY"`
		Points         []PathPoint `cbor:"points"`
	}

	// Script is a named piece of code.
	Script struct {
		Header
		Code string `cbor:"code"`
	}

	// Font is a font definition.
	Font struct {
		Header
		FontName string `cbor:"fontName"`
		Size     int    `cbor:"size"`
		Bold     bool   `cbor:"bold"`
		Italic   bool   `cbor:"italic"`
		RangeMin int    `cbor:"rangeMin"`
		RangeMax int    `cbor:"rangeMax"`
	}

	// Moment is a set of actions run at one step of a timeline.
	Moment struct {
		Step    int      `cbor:"step"`
		Actions []Action `cbor:"actions"`
	}

	// Timeline is an ordered list of moments.
	Timeline struct {
		Header
		Moments []Moment `cbor:"moments"`
	}

	// Object is an object definition. Sprite and Mask refer to sprites,
	// Parent refers to another object.
	Object struct {
		Header
		Sprite     Ref     `cbor:"sprite"`
		Solid      bool    `cbor:"solid"`
		Visible    bool    `cbor:"visible"`
		Depth      int     `cbor:"depth"`
		Persistent bool    `cbor:"persistent"`
		Parent     Ref     `cbor:"parent"`
		Mask       Ref     `cbor:"mask"`
		Events     []Event `cbor:"events"`
	}

	// RoomBackground is one of a room's background layers.
	RoomBackground struct {
		Visible    bool `cbor:"visible"`
		Foreground bool `cbor:"foreground"`
		Background Ref  `cbor:"background"`
		X          int  `cbor:"x"`
		Y          int  `cbor:"y"`
		TileH      bool `cbor:"tileH"`
		TileV      bool `cbor:"tileV"`
		HSpeed     int  `cbor:"hSpeed"`
		VSpeed     int  `cbor:"vSpeed"`
		Stretch    bool `cbor:"stretch"`
	}

	// View is one of a room's views. Follow refers to an object.
	View struct {
		Visible bool `cbor:"visible"`
		ViewX   int  `cbor:"vx"`
		ViewY   int  `cbor:"vy"`
		ViewW   int  `cbor:"vw"`
		ViewH   int  `cbor:"vh"`
		PortX   int  `cbor:"px"`
		PortY   int  `cbor:"py"`
		PortW   int  `cbor:"pw"`
		PortH   int  `cbor:"ph"`
		HBorder int  `cbor:"hBorder"`
		VBorder int  `cbor:"vBorder"`
		HSpeed  int  `cbor:"hSpeed"`
		VSpeed  int  `cbor:"vSpeed"`
		Follow  Ref  `cbor:"follow"`
	}

	// Instance places an object in a room. ID is the instance id, which is
	// global to the archive and unrelated to resource identifiers.
	Instance struct {
		ID           int    `cbor:"id"`
		X            int    `cbor:"x"`
		Y            int    `cbor:"y"`
		Object       Ref    `cbor:"object"`
		CreationCode string `cbor:"code"`
		Locked       bool   `cbor:"locked"`
	}

	// Tile places a region of a background in a room.
	Tile struct {
		ID         int  `cbor:"id"`
		X          int  `cbor:"x"`
		Y          int  `cbor:"y"`
		Background Ref  `cbor:"background"`
		TileX      int  `cbor:"tx"`
		TileY      int  `cbor:"ty"`
		Width      int  `cbor:"w"`
		Height     int  `cbor:"h"`
		Depth      int  `cbor:"depth"`
		Locked     bool `cbor:"locked"`
	}

	// Room is a level.
	Room struct {
		Header
		Caption             string           `cbor:"caption"`
		Width               int              `cbor:"width"`
		Height              int              `cbor:"height"`
		Speed               int              `cbor:"speed"`
		Persistent          bool             `cbor:"persistent"`
		BackgroundColor     uint32           `cbor:"bgColor"`
		DrawBackgroundColor bool             `cbor:"drawBgColor"`
		CreationCode        string           `cbor:"code"`
		Backgrounds         []RoomBackground `cbor:"backgrounds"`
		EnableViews         bool             `cbor:"enableViews"`
		Views               []View           `cbor:"views"`
		Instances           []Instance       `cbor:"instances"`
		Tiles               []Tile           `cbor:"tiles"`
	}
)

// Hdr returns the shared header. It is promoted to every resource type.
func (h *Header) Hdr() *Header { return h }

// Kind implements Resource.
func (*Sprite) Kind() Kind { return KindSprite }

// Kind implements Resource.
func (*Sound) Kind() Kind { return KindSound }

// Kind implements Resource.
func (*Background) Kind() Kind { return KindBackground }

// Kind implements Resource.
func (*Path) Kind() Kind { return KindPath }

// Kind implements Resource.
func (*Script) Kind() Kind { return KindScript }

// Kind implements Resource.
func (*Font) Kind() Kind { return KindFont }

// Kind implements Resource.
func (*Timeline) Kind() Kind { return KindTimeline }

// Kind implements Resource.
func (*Object) Kind() Kind { return KindObject }

// Kind implements Resource.
func (*Room) Kind() Kind { return KindRoom }

// New returns an empty resource of a tree kind with NoID, or nil for other kinds.
func New(k Kind, name string) Resource {
	h := Header{ID: NoID, Name: name}
	switch k {
	case KindSprite:
		return &Sprite{Header: h}
	case KindSound:
		return &Sound{Header: h}
	case KindBackground:
		return &Background{Header: h}
	case KindPath:
		return &Path{Header: h}
	case KindScript:
		return &Script{Header: h}
	case KindFont:
		return &Font{Header: h}
	case KindTimeline:
		return &Timeline{Header: h}
	case KindObject:
		return &Object{Header: h}
	case KindRoom:
		return &Room{Header: h}
	default:
		return nil
	}
}
