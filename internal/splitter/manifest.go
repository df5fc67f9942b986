// SPDX-License-Identifier: MPL-2.0

package splitter

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/gmksplit/gmksplit/internal/issue"
	"github.com/gmksplit/gmksplit/pkg/gmfile"
)

// ManifestFile holds archive-wide settings that belong to no resource.
const ManifestFile = "Project.toml"

type manifest struct {
	Version        int `toml:"version" comment:"Archive format version (800 or 810)"`
	LastInstanceID int `toml:"last_instance_id" comment:"Highest room instance id handed out so far"`
	LastTileID     int `toml:"last_tile_id" comment:"Highest room tile id handed out so far"`
}

func encodeManifest(a *gmfile.Archive) ([]byte, error) {
	data, err := toml.Marshal(manifest{
		Version:        a.Version,
		LastInstanceID: a.LastInstanceID,
		LastTileID:     a.LastTileID,
	})
	if err != nil {
		return nil, issue.Wrap(issue.Internal, err)
	}
	return data, nil
}

// readManifest applies Project.toml to a. A missing file keeps the defaults.
func readManifest(dir string, a *gmfile.Archive) (bool, error) {
	path := filepath.Join(dir, ManifestFile)
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, issue.Wrap(issue.IOFailure, err).WithPath(path)
	}

	m := manifest{
		Version:        a.Version,
		LastInstanceID: a.LastInstanceID,
		LastTileID:     a.LastTileID,
	}
	if err := toml.Unmarshal(data, &m); err != nil {
		return false, issue.Wrap(issue.MalformedData, err).WithPath(path)
	}
	a.Version = m.Version
	a.LastInstanceID = m.LastInstanceID
	a.LastTileID = m.LastTileID
	return true, nil
}
