// SPDX-License-Identifier: MPL-2.0

// Package format converts single resources between their in-memory form and
// their files on disk.
//
// There is one Format per resource kind, chosen through Set.For by kind tag.
// A tree-kind resource is written as <Name>.xml in its group directory, with
// binary payloads (subimages, background images, sound data) and script code
// in sibling files next to it. References to other resources are written by
// name and resolved through a refs.Registry when read back.
//
// The constant list, the extension package list, the included files and the
// game information are single aggregates with formats of their own.
package format
