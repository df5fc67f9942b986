// SPDX-License-Identifier: MPL-2.0

// Package container reads and writes archive files.
//
// An archive file is a small binary frame around a CBOR document:
//
//	magic "GMKS" | version u16 | compression u8 | body length u32 | body | blake3-256
//
// Integers are little-endian. The body length is the uncompressed size. The
// trailing checksum covers every byte before it. The document holds the
// archive and its resource tree and is encoded with CBOR core deterministic
// encoding, so equal archives always produce equal files.
package container

import (
	"bytes"
	"encoding/binary"
	"math"

	"github.com/fxamacker/cbor/v2"
	"github.com/zeebo/blake3"

	"github.com/gmksplit/gmksplit/internal/issue"
	"github.com/gmksplit/gmksplit/internal/restree"
	"github.com/gmksplit/gmksplit/pkg/gmfile"
)

// Version is the container version written by Encode.
const Version uint16 = 1

const (
	headerSize   = 4 + 2 + 1 + 4
	checksumSize = 32
	noIndex      = -1
)

var magic = []byte("GMKS")

var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	var err error

	encOptions := cbor.CoreDetEncOptions()
	encOptions.NilContainers = cbor.NilContainerAsEmpty
	encMode, err = encOptions.EncMode()
	if err != nil {
		panic("container: CBOR encoder initialization failed: " + err.Error())
	}

	decMode, err = cbor.DecOptions{
		MaxNestedLevels:  256,
		MaxArrayElements: math.MaxInt32,
		MaxMapPairs:      math.MaxInt32,
	}.DecMode()
	if err != nil {
		panic("container: CBOR decoder initialization failed: " + err.Error())
	}
}

type (
	document struct {
		Archive *gmfile.Archive `cbor:"archive"`
		Tree    *treeNode       `cbor:"tree,omitempty"`
	}

	// treeNode is the stored form of a restree.Node. Leaves of tree kinds
	// point at their resource by position in the archive's list of that kind.
	treeNode struct {
		Name     string      `cbor:"name"`
		Status   uint8       `cbor:"status"`
		Kind     uint8       `cbor:"kind"`
		Index    int         `cbor:"index"`
		Children []*treeNode `cbor:"children"`
	}
)

// Encode serializes an archive and its tree. A nil tree stores none; Decode
// then derives the default layout.
func Encode(a *gmfile.Archive, tree *restree.Node, c Compression) ([]byte, error) {
	doc := document{Archive: a}
	if tree != nil {
		positions := make(map[gmfile.Resource]int)
		for _, k := range gmfile.TreeKinds {
			for i, r := range a.Resources(k) {
				positions[r] = i
			}
		}
		stored, err := storeNode(tree, positions)
		if err != nil {
			return nil, err
		}
		doc.Tree = stored
	}

	body, err := encMode.Marshal(&doc)
	if err != nil {
		return nil, issue.Wrap(issue.Internal, err)
	}
	if len(body) > math.MaxUint32 {
		return nil, issue.New(issue.Internal, "archive body of %d bytes is too large", len(body))
	}
	packed, used, err := compress(body, c)
	if err != nil {
		return nil, issue.Wrap(issue.Internal, err)
	}

	var buf bytes.Buffer
	buf.Grow(headerSize + len(packed) + checksumSize)
	buf.Write(magic)
	buf.Write(binary.LittleEndian.AppendUint16(nil, Version))
	buf.WriteByte(byte(used))
	buf.Write(binary.LittleEndian.AppendUint32(nil, uint32(len(body))))
	buf.Write(packed)
	sum := blake3.Sum256(buf.Bytes())
	buf.Write(sum[:])
	return buf.Bytes(), nil
}

// Decode parses an archive file. Resources missing from the stored tree are
// appended to their kind root, so every resource appears exactly once.
func Decode(data []byte) (*gmfile.Archive, *restree.Node, error) {
	if len(data) < headerSize+checksumSize || !bytes.Equal(data[:4], magic) {
		return nil, nil, issue.New(issue.MalformedData, "not an archive file")
	}
	payload, trailer := data[:len(data)-checksumSize], data[len(data)-checksumSize:]
	if sum := blake3.Sum256(payload); !bytes.Equal(sum[:], trailer) {
		return nil, nil, issue.New(issue.MalformedData, "archive checksum mismatch")
	}
	if v := binary.LittleEndian.Uint16(data[4:6]); v != Version {
		return nil, nil, issue.New(issue.MalformedData, "unsupported container version %d", v)
	}
	tag := Compression(data[6])
	size := binary.LittleEndian.Uint32(data[7:11])

	body, err := decompress(payload[headerSize:], tag, int(size))
	if err != nil {
		return nil, nil, issue.Wrap(issue.MalformedData, err)
	}

	var doc document
	if err := decMode.Unmarshal(body, &doc); err != nil {
		return nil, nil, issue.Wrap(issue.MalformedData, err)
	}
	if doc.Archive == nil {
		return nil, nil, issue.New(issue.MalformedData, "archive file holds no archive")
	}
	a := doc.Archive
	if doc.Tree == nil {
		return a, restree.Default(a), nil
	}

	tree, err := loadTree(doc.Tree, a)
	if err != nil {
		return nil, nil, err
	}
	return a, tree, nil
}

func storeNode(n *restree.Node, positions map[gmfile.Resource]int) (*treeNode, error) {
	out := &treeNode{Name: n.Name, Status: uint8(n.Status), Kind: uint8(n.Kind), Index: noIndex}
	if n.IsLeaf() && n.Kind.IsTreeKind() {
		i, ok := positions[n.Res]
		if !ok || n.Res == nil {
			return nil, issue.New(issue.Internal, "tree leaf %q is not in the archive", n.Name)
		}
		out.Index = i
	}
	for _, c := range n.Children() {
		sc, err := storeNode(c, positions)
		if err != nil {
			return nil, err
		}
		out.Children = append(out.Children, sc)
	}
	return out, nil
}

func loadTree(stored *treeNode, a *gmfile.Archive) (*restree.Node, error) {
	lists := make(map[gmfile.Kind][]gmfile.Resource)
	used := make(map[gmfile.Kind][]bool)
	for _, k := range gmfile.TreeKinds {
		lists[k] = a.Resources(k)
		used[k] = make([]bool, len(lists[k]))
	}

	root := restree.NewRoot()
	var load func(dst *restree.Node, src *treeNode) error
	load = func(dst *restree.Node, src *treeNode) error {
		for _, c := range src.Children {
			status, kind := restree.Status(c.Status), gmfile.Kind(c.Kind)
			if status < restree.StatusPrimary || status > restree.StatusSecondary {
				return issue.New(issue.MalformedData, "tree node %q has unknown status %d", c.Name, c.Status)
			}
			if status != restree.StatusSecondary || !kind.IsTreeKind() {
				if err := load(dst.AddChild(c.Name, status, kind), c); err != nil {
					return err
				}
				continue
			}
			list := lists[kind]
			if c.Index < 0 || c.Index >= len(list) {
				return issue.New(issue.MalformedData, "tree leaf %q points at missing %s %d", c.Name, kind, c.Index)
			}
			if used[kind][c.Index] {
				return issue.New(issue.MalformedData, "%s %q appears twice in the tree", kind, list[c.Index].Hdr().Name)
			}
			used[kind][c.Index] = true
			dst.AddLeaf(list[c.Index])
		}
		return nil
	}
	if err := load(root, stored); err != nil {
		return nil, err
	}

	for _, k := range gmfile.TreeKinds {
		kindRoot := root.KindRoot(k)
		if kindRoot == nil {
			kindRoot = root.AddChild(k.RootName(), restree.StatusPrimary, k)
		}
		for i, r := range lists[k] {
			if !used[k][i] {
				kindRoot.AddLeaf(r)
			}
		}
	}
	if root.Child(gmfile.KindGameInfo.RootName()) == nil {
		restree.AddSecondaryRoots(root)
	}
	return root, nil
}
