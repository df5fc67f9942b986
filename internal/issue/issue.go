// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

type (
	// MarkdownMsg is Markdown guidance shown for an issue.
	MarkdownMsg string

	// Issue is a catalog entry explaining one Kind of failure.
	Issue struct {
		kind  Kind
		mdMsg MarkdownMsg
	}
)

// Kind returns the error kind the issue explains.
func (i *Issue) Kind() Kind {
	return i.kind
}

// MarkdownMsg returns the raw Markdown guidance.
func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

// Render renders the guidance for a terminal. stylePath is a glamour style
// name ("dark", "light", "notty") or a path to a JSON style file.
func (i *Issue) Render(stylePath string) (string, error) {
	return render(string(i.mdMsg), stylePath)
}

var (
	render = glamour.Render

	invalidNameIssue = &Issue{
		kind: InvalidName,
		mdMsg: `
# A resource name cannot be used as a file name

Every resource is written to ` + "`<Name>.xml`" + `. Names are never rewritten,
because a silently changed name would not survive the way back.

## Things you can try:
- Rename the resource in the editor so that it contains none of
  ` + "`< > : \" / \\ | ? *`" + ` and no control characters
- Avoid names that end in a dot or a space
- Avoid reserved device names such as ` + "`CON`" + `, ` + "`NUL`" + ` or ` + "`COM1`",
	}

	pathCollisionIssue = &Issue{
		kind: PathCollision,
		mdMsg: `
# Two resources would be written to the same file

Resource names are compared without regard to case, so ` + "`Test`" + ` and
` + "`test`" + ` in the same group collide.

## Things you can try:
- Rename one of the resources
- Move one of them into a different group`,
	}

	malformedDataIssue = &Issue{
		kind: MalformedData,
		mdMsg: `
# A resource file could not be read

The file is not valid XML, has the wrong root element for its folder, or holds
a value of the wrong type.

## Things you can try:
- Check the file for merge conflict markers
- Compare it with the same file in an earlier revision
- Run with ` + "`--verbose`" + ` to see the full error chain`,
	}

	danglingReferenceIssue = &Issue{
		kind: DanglingReference,
		mdMsg: `
# A resource refers to something that does not exist

References are stored by name. The named sprite, object, room or other
resource was not found anywhere in the tree.

## Things you can try:
- Restore the missing resource file
- Update the reference to an existing resource name`,
	}

	duplicateIdentifierIssue = &Issue{
		kind: DuplicateIdentifier,
		mdMsg: `
# Two resources carry the same identifier

Identifiers written in the resource files are kept as they are when the
preservation mode covers that kind. Two files claim the same one.

## Things you can try:
- Remove the ` + "`id`" + ` attribute from one of the files so that a fresh one is assigned
- Compose with ` + "`--preserve-ids none`" + ` to renumber everything`,
	}

	ioFailureIssue = &Issue{
		kind: IOFailure,
		mdMsg: `
# Reading or writing a file failed

## Things you can try:
- Check permissions of the source and destination
- Check that the disk is not full`,
	}

	preconditionFailedIssue = &Issue{
		kind: PreconditionFailed,
		mdMsg: `
# The conversion cannot start

One of ` + "`<source>`" + ` or ` + "`<destination>`" + ` must end in ` + "`.gmk`" + ` or ` + "`.gm81`" + `.
The source must exist and the destination must not: gmksplit never overwrites.

## Example:
~~~
$ gmksplit convert game.gmk game-src
$ gmksplit convert game-src rebuilt.gmk
~~~`,
	}

	internalIssue = &Issue{
		kind: Internal,
		mdMsg: `
# Internal error

This is a bug in gmksplit, not a problem with your files. Please report it
together with the output of ` + "`--verbose`" + `.`,
	}

	issues = map[Kind]*Issue{
		invalidNameIssue.Kind():         invalidNameIssue,
		pathCollisionIssue.Kind():       pathCollisionIssue,
		malformedDataIssue.Kind():       malformedDataIssue,
		danglingReferenceIssue.Kind():   danglingReferenceIssue,
		duplicateIdentifierIssue.Kind(): duplicateIdentifierIssue,
		ioFailureIssue.Kind():           ioFailureIssue,
		preconditionFailedIssue.Kind():  preconditionFailedIssue,
		internalIssue.Kind():            internalIssue,
	}
)

// Values returns every catalog entry ordered by Kind.
func Values() []*Issue {
	all := maps.Values(issues)
	slices.SortFunc(all, func(a, b *Issue) int { return int(a.kind) - int(b.kind) })
	return all
}

// Get returns the catalog entry for kind, or nil.
func Get(kind Kind) *Issue {
	return issues[kind]
}
