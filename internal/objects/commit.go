package objects

import (
	"fmt"
	"regexp"
	"strings"
)

// ErrCorruptCommit is returned when a commit payload is missing its
// mandatory "tree" line.
var ErrCorruptCommit = fmt.Errorf("corrupt commit")

// Commit is the parsed form of a commit object's payload (spec §3, §4.5).
type Commit struct {
	Tree      Hash
	Parent    Hash // ZeroHash if this is a root commit
	HasParent bool
	Author    string // "<name> <<email>> <unix-seconds> +0000"
	Committer string
	Message   string
}

// EncodeCommit serializes a Commit into its payload form:
//
//	tree <hex>\n
//	[parent <hex>\n]
//	author <...>\n
//	committer <...>\n
//	\n
//	<message>\n
func EncodeCommit(c Commit) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "tree %s\n", c.Tree)
	if c.HasParent {
		fmt.Fprintf(&b, "parent %s\n", c.Parent)
	}
	fmt.Fprintf(&b, "author %s\n", c.Author)
	fmt.Fprintf(&b, "committer %s\n", c.Committer)
	b.WriteString("\n")
	b.WriteString(c.Message)
	b.WriteString("\n")
	return []byte(b.String())
}

var treeLineRe = regexp.MustCompile(`tree ([0-9a-f]{40})`)

// DecodeCommit parses a commit payload. Parsing is strict: an absent "tree"
// line is ErrCorruptCommit. As a recovery path (spec §4.6), if strict line
// parsing fails to find a tree line, a regex fallback is tried before
// giving up.
func DecodeCommit(payload []byte) (Commit, error) {
	text := string(payload)

	headerEnd := strings.Index(text, "\n\n")
	var header, message string
	if headerEnd == -1 {
		header = text
	} else {
		header = text[:headerEnd]
		message = strings.TrimSuffix(text[headerEnd+2:], "\n")
	}

	var c Commit
	haveTree := false

	for _, line := range strings.Split(header, "\n") {
		switch {
		case strings.HasPrefix(line, "tree "):
			h, err := ParseHash(strings.TrimPrefix(line, "tree "))
			if err != nil {
				return c, fmt.Errorf("%w: malformed tree line: %v", ErrCorruptCommit, err)
			}
			c.Tree = h
			haveTree = true
		case strings.HasPrefix(line, "parent "):
			h, err := ParseHash(strings.TrimPrefix(line, "parent "))
			if err != nil {
				return c, fmt.Errorf("%w: malformed parent line: %v", ErrCorruptCommit, err)
			}
			c.Parent = h
			c.HasParent = true
		case strings.HasPrefix(line, "author "):
			c.Author = strings.TrimPrefix(line, "author ")
		case strings.HasPrefix(line, "committer "):
			c.Committer = strings.TrimPrefix(line, "committer ")
		}
	}

	if !haveTree {
		if m := treeLineRe.FindStringSubmatch(text); m != nil {
			if h, err := ParseHash(m[1]); err == nil {
				c.Tree = h
				haveTree = true
			}
		}
	}

	if !haveTree {
		return c, fmt.Errorf("%w: missing tree line", ErrCorruptCommit)
	}

	c.Message = message
	return c, nil
}
