// SPDX-License-Identifier: MPL-2.0

package format

import (
	"encoding/xml"

	"github.com/gmksplit/gmksplit/internal/fsname"
	"github.com/gmksplit/gmksplit/internal/issue"
	"github.com/gmksplit/gmksplit/pkg/gmfile"
)

// defaultSoundSuffix is used for sound data whose file type is unknown.
const defaultSoundSuffix = ".snd"

var soundTypeNames = []string{"normal", "background", "3d", "multimedia"}

type xmlSound struct {
	XMLName  xml.Name `xml:"sound"`
	ID       *int     `xml:"id,attr,omitempty"`
	Type     string   `xml:"type"`
	FileType string   `xml:"fileType"`
	FileName string   `xml:"fileName"`
	Effects  int      `xml:"effects"`
	Volume   float64  `xml:"volume"`
	Pan      float64  `xml:"pan"`
	Preload  bool     `xml:"preload"`
}

// soundSuffix returns the extension of the data file. The file type is
// used as is, so it must be usable as part of a file name.
func soundSuffix(fileType string) (string, error) {
	if fileType == "" {
		return defaultSoundSuffix, nil
	}
	if !fsname.IsGoodFilename("x" + fileType) {
		return "", issue.New(issue.InvalidName, "file type %q cannot be used as a file extension", fileType)
	}
	return fileType, nil
}

func encodeSound(e *encoder, s *gmfile.Sound) (*xmlSound, error) {
	if int(s.Type) >= len(soundTypeNames) {
		return nil, issue.New(issue.MalformedData, "unknown sound type %d", s.Type)
	}
	if len(s.Data) > 0 {
		suffix, err := soundSuffix(s.FileType)
		if err != nil {
			return nil, err
		}
		e.blob(suffix, s.Data)
	}
	return &xmlSound{
		ID:       e.id(),
		Type:     soundTypeNames[s.Type],
		FileType: s.FileType,
		FileName: s.FileName,
		Effects:  s.Effects,
		Volume:   s.Volume,
		Pan:      s.Pan,
		Preload:  s.Preload,
	}, nil
}

func decodeSound(d *decoder, x *xmlSound, s *gmfile.Sound) error {
	if err := d.root(x.XMLName, x.ID); err != nil {
		return err
	}
	t, ok := parseName(soundTypeNames, x.Type)
	if !ok {
		return issue.New(issue.MalformedData, "unknown sound type %q", x.Type)
	}
	s.Type = gmfile.SoundType(t)
	s.FileType = x.FileType
	s.FileName = x.FileName
	s.Effects = x.Effects
	s.Volume = x.Volume
	s.Pan = x.Pan
	s.Preload = x.Preload

	suffix, err := soundSuffix(x.FileType)
	if err != nil {
		return err
	}
	data, err := d.optionalBlob(suffix)
	if err != nil {
		return err
	}
	if len(data) > 0 {
		s.Data = data
	}
	return nil
}
