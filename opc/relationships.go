package opc

import (
	"encoding/xml"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Relationship type URIs used by WordprocessingML.
const (
	TypeURIImage     = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/image"
	TypeURIHyperlink = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/hyperlink"

	relsNamespace = "http://schemas.openxmlformats.org/package/2006/relationships"
)

// RelType classifies a relationship by its type URI.
type RelType int

const (
	// RelOther covers every relationship type the engine does not act on.
	RelOther RelType = iota
	// RelImage links a part to a binary image asset.
	RelImage
	// RelHyperlink links a run to an external URL.
	RelHyperlink
)

// String returns the string representation of the relationship type.
func (t RelType) String() string {
	switch t {
	case RelImage:
		return "image"
	case RelHyperlink:
		return "hyperlink"
	default:
		return "other"
	}
}

// typeURI returns the OOXML type URI for known relationship types.
func (t RelType) typeURI() string {
	switch t {
	case RelImage:
		return TypeURIImage
	case RelHyperlink:
		return TypeURIHyperlink
	default:
		return ""
	}
}

func typeFromURI(uri string) RelType {
	switch uri {
	case TypeURIImage:
		return RelImage
	case TypeURIHyperlink:
		return RelHyperlink
	default:
		return RelOther
	}
}

// Relationship maps an id to a target within one owning part's scope.
// Targets are paths relative to the owning part's directory, or
// external URLs when TargetMode is "External".
type Relationship struct {
	ID         string
	Type       RelType
	TypeURI    string
	Target     string
	TargetMode string
}

// Relationships is the relationship set scoped to a single part.
// Ids are unique within the set; allocation is monotonic so a removed
// id is never handed out again within one set's lifetime.
type Relationships struct {
	rels  []Relationship
	index map[string]int
	maxID int
}

// relationshipsXML mirrors the on-disk _rels part.
type relationshipsXML struct {
	XMLName       xml.Name          `xml:"Relationships"`
	Relationships []relationshipXML `xml:"Relationship"`
}

type relationshipXML struct {
	ID         string `xml:"Id,attr"`
	Type       string `xml:"Type,attr"`
	Target     string `xml:"Target,attr"`
	TargetMode string `xml:"TargetMode,attr,omitempty"`
}

// NewRelationships returns an empty relationship set.
func NewRelationships() *Relationships {
	return &Relationships{index: make(map[string]int)}
}

// ParseRelationships parses a _rels part.
func ParseRelationships(data []byte) (*Relationships, error) {
	decoded, err := DecodeXML(data)
	if err != nil {
		decoded = data
	}

	var raw relationshipsXML
	if err := xml.Unmarshal(decoded, &raw); err != nil {
		return nil, fmt.Errorf("%w: relationships: %v", ErrPackageCorrupt, err)
	}

	rs := NewRelationships()
	for _, r := range raw.Relationships {
		rs.append(Relationship{
			ID:         r.ID,
			Type:       typeFromURI(r.Type),
			TypeURI:    r.Type,
			Target:     r.Target,
			TargetMode: r.TargetMode,
		})
	}
	return rs, nil
}

func (rs *Relationships) append(r Relationship) {
	rs.index[r.ID] = len(rs.rels)
	rs.rels = append(rs.rels, r)
	if n, ok := parseRelID(r.ID); ok && n > rs.maxID {
		rs.maxID = n
	}
}

// parseRelID extracts the numeric suffix of a conventional "rIdN" id.
func parseRelID(id string) (int, bool) {
	if !strings.HasPrefix(id, "rId") {
		return 0, false
	}
	n, err := strconv.Atoi(id[3:])
	if err != nil {
		return 0, false
	}
	return n, true
}

// Resolve returns the relationship for an id, or false when absent.
func (rs *Relationships) Resolve(id string) (Relationship, bool) {
	i, ok := rs.index[id]
	if !ok {
		return Relationship{}, false
	}
	return rs.rels[i], true
}

// Insert allocates a fresh id for a relationship of the given type and
// target. The id is one past the highest numeric id ever seen in this
// set, so it cannot collide with a live or previously removed id.
func (rs *Relationships) Insert(t RelType, target string) string {
	rs.maxID++
	id := fmt.Sprintf("rId%d", rs.maxID)
	rel := Relationship{ID: id, Type: t, TypeURI: t.typeURI(), Target: target}
	if t == RelHyperlink {
		rel.TargetMode = "External"
	}
	rs.index[id] = len(rs.rels)
	rs.rels = append(rs.rels, rel)
	return id
}

// Remove deletes a relationship by id and reports whether it existed.
func (rs *Relationships) Remove(id string) bool {
	i, ok := rs.index[id]
	if !ok {
		return false
	}
	rs.rels = append(rs.rels[:i], rs.rels[i+1:]...)
	delete(rs.index, id)
	for j := i; j < len(rs.rels); j++ {
		rs.index[rs.rels[j].ID] = j
	}
	return true
}

// AllOfType returns every relationship of the given type, ordered by id
// for deterministic iteration.
func (rs *Relationships) AllOfType(t RelType) []Relationship {
	var out []Relationship
	for _, r := range rs.rels {
		if r.Type == t {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Len returns the number of relationships in the set.
func (rs *Relationships) Len() int {
	return len(rs.rels)
}

// Marshal serializes the set back to _rels XML. Word requires the
// standalone declaration, so it is emitted explicitly.
func (rs *Relationships) Marshal() ([]byte, error) {
	raw := relationshipsXML{
		XMLName: xml.Name{Space: relsNamespace, Local: "Relationships"},
	}
	for _, r := range rs.rels {
		uri := r.TypeURI
		if uri == "" {
			uri = r.Type.typeURI()
		}
		raw.Relationships = append(raw.Relationships, relationshipXML{
			ID:         r.ID,
			Type:       uri,
			Target:     r.Target,
			TargetMode: r.TargetMode,
		})
	}

	body, err := xml.Marshal(&raw)
	if err != nil {
		return nil, fmt.Errorf("marshaling relationships: %w", err)
	}
	out := append([]byte(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`+"\n"), body...)
	return out, nil
}
