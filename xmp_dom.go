package jfif

import (
	"bytes"
	"encoding/xml"
	"strconv"
	"strings"
)

// xmlElement is the minimal DOM node the XMP codec operates on: built on
// top of encoding/xml's streaming tokenizer rather than a full third-party
// DOM (none exists anywhere in the retrieved example pack), since the
// codec only ever needs element/attribute selection, reparenting, and
// resynthesis — not general XPath or schema validation.
type xmlElement struct {
	Space, Local string
	nsDecls      map[string]string // namespace URI -> prefix; parseXMP and optimizeNamespaces leave it set only on the root
	Attrs        []xmlAttr
	Children     []*xmlElement
	Text         string
	Parent       *xmlElement
}

type xmlAttr struct {
	Space, Local string
	Value        string
}

// wellKnownPrefixes lists the namespace URIs this codec cares about, with
// the prefix it prefers to serialize them under. Any other namespace
// encountered gets a generated "nsN" prefix.
var wellKnownPrefixes = map[string]string{
	"adobe:ns:meta/":                                  "x",
	"http://www.w3.org/1999/02/22-rdf-syntax-ns#":      "rdf",
	"http://ns.adobe.com/xap/1.0/":                     "xmp",
	"http://ns.adobe.com/xap/1.0/mm/":                  "xmpMM",
	"http://ns.adobe.com/xap/1.0/g/img/":                "xmpGImg",
	"http://ns.adobe.com/xmp/note/":                    "xmpNote",
	"http://ns.adobe.com/camera-raw-settings/1.0/":     "crs",
	"http://ns.adobe.com/photoshop/1.0/":               "photoshop",
	"http://purl.org/dc/elements/1.1/":                 "dc",
	"http://ns.adobe.com/exif/1.0/":                    "exif",
	"http://ns.adobe.com/tiff/1.0/":                     "tiff",
}

const (
	nsX         = "adobe:ns:meta/"
	nsRDF       = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	nsXMPNote   = "http://ns.adobe.com/xmp/note/"
)

// parseXMP parses a full xmpmeta packet string into its root element.
func parseXMP(s string) (*xmlElement, error) {
	dec := xml.NewDecoder(strings.NewReader(s))
	var root, cur *xmlElement
	for {
		tok, err := dec.Token()
		if err != nil {
			if err.Error() == "EOF" {
				break
			}
			return nil, NewError(ErrBadXMPRoot, "XMP packet did not parse as XML: %v", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			el := &xmlElement{Space: t.Name.Space, Local: t.Name.Local, Parent: cur}
			for _, a := range t.Attr {
				if a.Name.Space == "xmlns" {
					if el.nsDecls == nil {
						el.nsDecls = make(map[string]string)
					}
					el.nsDecls[a.Value] = a.Name.Local
					continue
				}
				if a.Name.Space == "" && a.Name.Local == "xmlns" {
					if el.nsDecls == nil {
						el.nsDecls = make(map[string]string)
					}
					el.nsDecls[a.Value] = ""
					continue
				}
				el.Attrs = append(el.Attrs, xmlAttr{Space: a.Name.Space, Local: a.Name.Local, Value: a.Value})
			}
			if cur != nil {
				cur.Children = append(cur.Children, el)
			}
			if root == nil {
				root = el
			}
			cur = el
		case xml.EndElement:
			if cur != nil {
				cur = cur.Parent
			}
		case xml.CharData:
			if cur != nil {
				cur.Text += string(t)
			}
		}
	}
	if root == nil {
		return nil, NewError(ErrBadXMPRoot, "XMP packet has no root element")
	}
	if root.Space != nsX || root.Local != "xmpmeta" {
		return nil, NewError(ErrBadXMPRoot, "XMP root is not x:xmpmeta")
	}
	optimizeNamespaces(root)
	return root, nil
}

// children returns el's direct children in namespace ns with local name.
func (el *xmlElement) children(ns, local string) []*xmlElement {
	var out []*xmlElement
	for _, c := range el.Children {
		if c.Space == ns && c.Local == local {
			out = append(out, c)
		}
	}
	return out
}

func (el *xmlElement) firstChild(ns, local string) *xmlElement {
	cs := el.children(ns, local)
	if len(cs) == 0 {
		return nil
	}
	return cs[0]
}

func (el *xmlElement) attr(ns, local string) (string, bool) {
	for _, a := range el.Attrs {
		if a.Space == ns && a.Local == local {
			return a.Value, true
		}
	}
	return "", false
}

func (el *xmlElement) setAttr(ns, local, value string) {
	for i, a := range el.Attrs {
		if a.Space == ns && a.Local == local {
			el.Attrs[i].Value = value
			return
		}
	}
	el.Attrs = append(el.Attrs, xmlAttr{Space: ns, Local: local, Value: value})
}

func (el *xmlElement) removeAttr(ns, local string) {
	out := el.Attrs[:0]
	for _, a := range el.Attrs {
		if a.Space == ns && a.Local == local {
			continue
		}
		out = append(out, a)
	}
	el.Attrs = out
}

// detach removes child from its current parent's child list.
func detach(child *xmlElement) {
	if child.Parent == nil {
		return
	}
	p := child.Parent
	out := p.Children[:0]
	for _, c := range p.Children {
		if c != child {
			out = append(out, c)
		}
	}
	p.Children = out
	child.Parent = nil
}

// moveTo reparents child (detaching it from wherever it currently lives)
// as a new child of dst. This is how the codec splits a DOM subtree out of
// one xmpmeta document and grafts it onto another (or back).
func moveTo(dst *xmlElement, child *xmlElement) {
	detach(child)
	child.Parent = dst
	dst.Children = append(dst.Children, child)
}

// optimizeNamespaces hoists every namespace declaration used anywhere in
// the tree up to the root element and removes duplicate declarations
// lower down, matching how XMP toolkits canonicalize output: one
// xmlns block at the top, none scattered through descendants.
func optimizeNamespaces(root *xmlElement) {
	used := map[string]bool{root.Space: true}
	collectNamespaces(root, used)

	canonical := make(map[string]string, len(used))
	taken := make(map[string]bool)
	for ns := range used {
		if ns == "" {
			continue
		}
		prefix, ok := wellKnownPrefixes[ns]
		if !ok {
			prefix = "ns"
		}
		base := prefix
		n := 1
		for taken[prefix] {
			prefix = base + strconv.Itoa(n)
			n++
		}
		taken[prefix] = true
		canonical[ns] = prefix
	}

	clearNamespaceDecls(root)
	root.nsDecls = canonical
}

func collectNamespaces(el *xmlElement, used map[string]bool) {
	if el.Space != "" {
		used[el.Space] = true
	}
	for _, a := range el.Attrs {
		if a.Space != "" {
			used[a.Space] = true
		}
	}
	for _, c := range el.Children {
		collectNamespaces(c, used)
	}
}

func clearNamespaceDecls(el *xmlElement) {
	el.nsDecls = nil
	for _, c := range el.Children {
		clearNamespaceDecls(c)
	}
}

// serializeXML renders root as an XML byte stream using the namespace
// prefix map assigned by optimizeNamespaces (or, if the root carries none,
// derives prefixes on the fly from wellKnownPrefixes).
func serializeXML(root *xmlElement) []byte {
	prefixes := root.nsDecls
	if prefixes == nil {
		used := map[string]bool{}
		collectNamespaces(root, used)
		prefixes = make(map[string]string, len(used))
		for ns := range used {
			if p, ok := wellKnownPrefixes[ns]; ok {
				prefixes[ns] = p
			} else {
				prefixes[ns] = "ns" + strconv.Itoa(len(prefixes))
			}
		}
	}
	var buf bytes.Buffer
	writeElement(&buf, root, prefixes, true)
	return buf.Bytes()
}

func writeElement(buf *bytes.Buffer, el *xmlElement, prefixes map[string]string, isRoot bool) {
	tag := qualify(prefixes, el.Space, el.Local)
	buf.WriteByte('<')
	buf.WriteString(tag)
	if isRoot {
		for ns, prefix := range prefixes {
			buf.WriteByte(' ')
			if prefix == "" {
				buf.WriteString("xmlns")
			} else {
				buf.WriteString("xmlns:" + prefix)
			}
			buf.WriteString(`="`)
			buf.WriteString(escapeXML(ns))
			buf.WriteByte('"')
		}
	}
	for _, a := range el.Attrs {
		buf.WriteByte(' ')
		buf.WriteString(qualify(prefixes, a.Space, a.Local))
		buf.WriteString(`="`)
		buf.WriteString(escapeXML(a.Value))
		buf.WriteByte('"')
	}
	if len(el.Children) == 0 && el.Text == "" {
		buf.WriteString("/>")
		return
	}
	buf.WriteByte('>')
	buf.WriteString(escapeXML(el.Text))
	for _, c := range el.Children {
		writeElement(buf, c, prefixes, false)
	}
	buf.WriteString("</")
	buf.WriteString(tag)
	buf.WriteByte('>')
}

func qualify(prefixes map[string]string, ns, local string) string {
	prefix, ok := prefixes[ns]
	if !ok || prefix == "" {
		return local
	}
	return prefix + ":" + local
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

// utf8ByteLen returns how many UTF-8 bytes root serializes to, used by the
// greedy-extraction loop to measure how close the base document is to a
// target budget without re-encoding to UTF-16 at every step.
func utf8ByteLen(root *xmlElement) int {
	return len(serializeXML(root))
}
