package series

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/go-logfmt/logfmt"
)

type metadata map[string]string

// Name identifies a graph.  Optional metadata records how the graph was produced,
// e.g. which gates were applied.  Names are marshalled to a string using a modified
// logfmt, e.g. y_vs_x[energy="[100, 200]" @errors]
type Name struct {
	name string
	md   metadata
}

// String marshals the name to a string representation, such as y_vs_x[tof="[1, 2]"]
func (n Name) String() string {
	md, err := MarshalText(n.md)
	if err != nil {
		md = []byte{}
	}
	return n.name + string(md)
}

// Base returns the name without metadata
func (n Name) Base() string {
	return n.name
}

// NewName returns a new name with the associated metadata
func NewName(name string, md map[string]string) Name {
	if md == nil {
		md = make(map[string]string)
	}
	return Name{name: name, md: md}
}

// AddAnnotation adds keys without values, rendered as @key
func (n Name) AddAnnotation(ann ...string) {
	for _, a := range ann {
		n.md[a] = ""
	}
}

// AddMetadata upserts key/value pairs into the metadata map
func (n Name) AddMetadata(md map[string]string) {
	for k, v := range md {
		n.md[k] = v
	}
}

// MarshalText will return the metadata encoded as a modified logfmt representation.  Metadata opens with a [
// then is followed by (key, value) pairs k=v in sorted key order, then by annotations starting with @ in
// sorted order.  Close with a ].  Example: [energy="[1, 2]" @errors]
func MarshalText(m metadata) ([]byte, error) {
	if len(m) == 0 {
		return []byte{}, nil
	}
	keys := make([]string, 0, len(m))
	ann := make([]string, 0, len(m))
	for k, v := range m {
		switch v {
		case "":
			ann = append(ann, fmt.Sprintf("@%s", k))
		default:
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	sort.Strings(ann)

	var b bytes.Buffer
	b.Write([]byte("["))
	e := logfmt.NewEncoder(&b)
	for _, k := range keys {
		if err := e.EncodeKeyval(k, m[k]); err != nil {
			return nil, fmt.Errorf("failed to encode %s=%s: %v", k, m[k], err)
		}
	}
	if len(keys) > 0 && len(ann) > 0 {
		b.Write([]byte(" "))
	}
	if len(ann) > 0 {
		b.Write([]byte(strings.Join(ann, " ")))
	}
	b.Write([]byte("]"))
	return b.Bytes(), nil
}
