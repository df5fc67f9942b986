// SPDX-License-Identifier: MPL-2.0

package format

import (
	"encoding/xml"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/gmksplit/gmksplit/internal/fsname"
	"github.com/gmksplit/gmksplit/internal/issue"
	"github.com/gmksplit/gmksplit/internal/reconcile"
	"github.com/gmksplit/gmksplit/internal/refs"
	"github.com/gmksplit/gmksplit/internal/restree"
	"github.com/gmksplit/gmksplit/pkg/gmfile"
)

const (
	// IncludesDir holds one file per included file plus the index.
	IncludesDir = "Included Files"
	// IncludesIndexFile lists included files in order with their settings.
	IncludesIndexFile = "_index.xml"
)

var exportNames = []string{"none", "temp", "gameDir", "folder"}

type (
	// IncludesFormat reads and writes the Included Files directory below the
	// project directory. Nothing is written for an empty list.
	IncludesFormat struct{ set *Set }

	xmlIncludes struct {
		XMLName  xml.Name     `xml:"includes"`
		Includes []xmlInclude `xml:"include"`
	}

	xmlInclude struct {
		FileName        string `xml:"file,attr"`
		FilePath        string `xml:"path,attr,omitempty"`
		Original        bool   `xml:"original,attr"`
		Export          string `xml:"export,attr"`
		ExportFolder    string `xml:"folder,attr,omitempty"`
		Overwrite       bool   `xml:"overwrite,attr"`
		FreeMemory      bool   `xml:"freeMemory,attr"`
		RemoveAtGameEnd bool   `xml:"removeAtGameEnd,attr"`
	}
)

// Write writes every included file and the index.
func (f *IncludesFormat) Write(dir string, includes []*gmfile.Include, _ *gmfile.Archive) error {
	if len(includes) == 0 {
		return nil
	}
	root := filepath.Join(dir, IncludesDir)

	index := xmlIncludes{}
	files := make([]file, 0, len(includes)+1)
	for _, inc := range includes {
		name, err := fsname.ToFilename(inc.FileName)
		if err != nil {
			return includeError(err, inc)
		}
		if int(inc.Export) >= len(exportNames) {
			return includeError(issue.New(issue.MalformedData, "unknown export mode %d", inc.Export), inc)
		}
		index.Includes = append(index.Includes, xmlInclude{
			FileName:        inc.FileName,
			FilePath:        inc.FilePath,
			Original:        inc.Original,
			Export:          exportNames[inc.Export],
			ExportFolder:    inc.ExportFolder,
			Overwrite:       inc.Overwrite,
			FreeMemory:      inc.FreeMemory,
			RemoveAtGameEnd: inc.RemoveAtGameEnd,
		})
		files = append(files, file{path: filepath.Join(root, name), data: inc.Data})
	}

	data, err := marshal(&index)
	if err != nil {
		return issue.Wrap(issue.Internal, err)
	}
	files = append(files, file{path: filepath.Join(root, IncludesIndexFile), data: data})

	if err := f.set.CreateDir(root, "included files"); err != nil {
		return err
	}
	for _, fl := range files {
		if err := f.set.Claim(fl.path, "included file "+filepath.Base(fl.path)); err != nil {
			return err
		}
	}
	for _, fl := range files {
		if err := os.WriteFile(fl.path, fl.data, filePerm); err != nil {
			return issue.Wrap(issue.IOFailure, err).WithPath(fl.path)
		}
	}
	return nil
}

// Read reads the included files in index order. A missing directory means
// there are none.
func (f *IncludesFormat) Read(dir, _ string, _ *refs.Registry) ([]*gmfile.Include, error) {
	root := filepath.Join(dir, IncludesDir)
	if _, err := os.Stat(root); errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}

	indexPath := filepath.Join(root, IncludesIndexFile)
	var index xmlIncludes
	found, err := readDocument(indexPath, &index)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, issue.New(issue.MalformedData, "included files directory has no %s", IncludesIndexFile).WithPath(root)
	}

	out := make([]*gmfile.Include, 0, len(index.Includes))
	for i, x := range index.Includes {
		export, ok := parseName(exportNames, x.Export)
		if !ok {
			return nil, issue.New(issue.MalformedData, "entry %d has unknown export mode %q", i, x.Export).WithPath(indexPath)
		}
		name, err := fsname.ToFilename(x.FileName)
		if err != nil {
			return nil, issue.Wrap(issue.MalformedData, err).WithPath(indexPath)
		}
		p := filepath.Join(root, name)
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, issue.Wrap(issue.IOFailure, err).WithPath(p)
		}
		inc := &gmfile.Include{
			FileName:        x.FileName,
			FilePath:        x.FilePath,
			Original:        x.Original,
			Export:          gmfile.IncludeExport(export),
			ExportFolder:    x.ExportFolder,
			Overwrite:       x.Overwrite,
			FreeMemory:      x.FreeMemory,
			RemoveAtGameEnd: x.RemoveAtGameEnd,
		}
		if len(data) > 0 {
			inc.Data = data
		}
		out = append(out, inc)
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out, nil
}

// AddResToTree does nothing: included files have no tree node.
func (f *IncludesFormat) AddResToTree([]*gmfile.Include, *restree.Node) {}

// AddAll stores the included files. It expects exactly one list.
func (f *IncludesFormat) AddAll(vs [][]*gmfile.Include, a *gmfile.Archive, _ *reconcile.Context) error {
	includes, err := single(gmfile.KindIncludes, vs)
	if err != nil {
		return err
	}
	a.Includes = includes
	return nil
}

func includeError(err error, inc *gmfile.Include) error {
	var ce *issue.ConvertError
	if !errors.As(err, &ce) {
		ce = issue.Wrap(issue.Internal, err)
	}
	return ce.WithResource(gmfile.KindIncludes.String(), inc.FileName)
}
