package groupkey

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// NoID marks a key whose numeric id could not be extracted.
const NoID = -1

type Kind string

const (
	KindEntity   Kind = "entity"
	KindProperty Kind = "property"
	KindUnknown  Kind = "unknown"
)

// Key is the parsed form of a raw group identifier such as "property-42".
// Raw keeps the original string because month-row ordering sorts raw keys.
type Key struct {
	Kind Kind   `json:"kind"`
	ID   int    `json:"id"`
	Raw  string `json:"raw"`
}

var keyPattern = regexp.MustCompile(`^(entity|property)-(\d+)$`)

// Parse extracts the kind and numeric id from a raw group identifier.
// It is total: any input that does not match yields a Key with ID == NoID.
func Parse(raw string) Key {
	s := strings.TrimSpace(strings.ToLower(raw))
	k := Key{Kind: KindUnknown, ID: NoID, Raw: raw}
	if s == "" {
		return k
	}
	m := keyPattern.FindStringSubmatch(s)
	if m == nil {
		return k
	}
	id, err := strconv.Atoi(m[2])
	if err != nil {
		return k
	}
	k.Kind = Kind(m[1])
	k.ID = id
	return k
}

// Valid reports whether a numeric id was extracted.
func (k Key) Valid() bool {
	return k.ID != NoID
}

func (k Key) String() string {
	if !k.Valid() {
		return k.Raw
	}
	return fmt.Sprintf("%s-%d", k.Kind, k.ID)
}
