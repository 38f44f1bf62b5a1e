package jfif

import (
	"crypto/md5"
	"encoding/hex"
	"regexp"
	"sort"
	"strings"
)

// xpacketRe strips the <?xpacket begin=...?> ... <?xpacket end=...?>
// processing-instruction wrapper some XMP embedders add around the packet,
// tolerating arbitrary attributes on either instruction.
var xpacketRe = regexp.MustCompile(`(?s)<\?xpacket\s+begin=.*?\?>(.*)<\?xpacket\s+end=.*?\?>`)

// stripXPacket returns the XML body between the xpacket processing
// instructions, or s itself trimmed if no wrapper is present.
func stripXPacket(s string) string {
	if m := xpacketRe.FindStringSubmatch(s); m != nil {
		return strings.TrimSpace(m[1])
	}
	return strings.TrimSpace(s)
}

// xmpToolkitName identifies this library in the x:xmptk attribute every
// document SerializeXMP writes gets stamped with, overwriting any prior
// value the way Adobe's own XMP toolkits overwrite each other's stamp.
const xmpToolkitName = "jrm-1535/jfif 1.0"

// DefaultMaxBaseUTF8Bytes is a conservative default for how large the base
// XMP document (measured as UTF-8, before the UTF-16 wire encoding that
// roughly doubles it) may grow before the codec starts splitting content
// into Extended-XMP portions.
const DefaultMaxBaseUTF8Bytes = 65000

// DefaultMaxExtendedBytesPerSegment mirrors DefaultMaxExifBytesPerSegment:
// the largest Extended-XMP portion that fits one APP1 segment's 16-bit
// length field alongside the fingerprint/full-length/offset header.
var DefaultMaxExtendedBytesPerSegment = 0xFFFF - 2 - (len(ExtendedXMPNamespace) + 1 + 32 + 4 + 4)

// XMPReadOptions configures DeserializeXMP.
type XMPReadOptions struct {
	// ThrowOnInvalidSamples makes DeserializeXMP fail with
	// ErrBadExtendedXMP when Extended-XMP portions exist but don't pass
	// contiguity/MD5 verification, instead of silently ignoring them
	// and returning just the base document.
	ThrowOnInvalidSamples bool
}

// XMPWriteOptions configures SerializeXMP.
type XMPWriteOptions struct {
	// MaxBaseUTF8Bytes bounds the base document's UTF-8 byte count; 0
	// selects DefaultMaxBaseUTF8Bytes.
	MaxBaseUTF8Bytes int
	// MaxBytesPerSegment bounds each Extended-XMP portion; 0 selects
	// DefaultMaxExtendedBytesPerSegment.
	MaxBytesPerSegment int
}

func (o XMPWriteOptions) maxBase() int {
	if o.MaxBaseUTF8Bytes <= 0 {
		return DefaultMaxBaseUTF8Bytes
	}
	return o.MaxBaseUTF8Bytes
}

func (o XMPWriteOptions) maxPortion() int {
	if o.MaxBytesPerSegment <= 0 {
		return DefaultMaxExtendedBytesPerSegment
	}
	return o.MaxBytesPerSegment
}

// DeserializeXMP reconstructs one logical XMP document from md: the base
// APP1 "xap/1.0/" packet, merged with any Extended-XMP portions whose
// fingerprint matches the base's xmpNote:HasExtendedXMP attribute. It
// returns "", nil if there is no base XMP segment at all.
func DeserializeXMP(md *Metadata, opts XMPReadOptions) (string, error) {
	baseSeg, ok := md.FindFirst(xmpKey)
	if !ok {
		return "", nil
	}
	base := baseSeg.(*XMPSegment)
	root, err := parseXMP(stripXPacket(base.Packet))
	if err != nil {
		return "", err
	}

	rdf := root.firstChild(nsRDF, "RDF")
	if rdf == nil {
		return string(serializeXML(root)), nil
	}
	desc := firstDescriptionWithAttr(rdf, nsXMPNote, "HasExtendedXMP")
	if desc == nil {
		return string(serializeXML(root)), nil
	}
	fpHex, _ := desc.attr(nsXMPNote, "HasExtendedXMP")

	portions := md.FindAll(extXMPKey)
	matching := make([]*ExtendedXMPSegment, 0, len(portions))
	for _, seg := range portions {
		e := seg.(*ExtendedXMPSegment)
		if strings.EqualFold(hex.EncodeToString(e.Fingerprint[:]), fpHex) {
			matching = append(matching, e)
		}
	}
	if len(matching) == 0 {
		return string(serializeXML(root)), nil
	}

	extBytes, err := assembleExtendedPortions(matching, fpHex)
	if err != nil {
		if opts.ThrowOnInvalidSamples {
			return "", err
		}
		return string(serializeXML(root)), nil
	}

	extRDF, err := parseRDFFragment(string(extBytes))
	if err != nil {
		if opts.ThrowOnInvalidSamples {
			return "", err
		}
		return string(serializeXML(root)), nil
	}
	for _, child := range append([]*xmlElement{}, extRDF.Children...) {
		moveTo(rdf, child)
	}
	desc.removeAttr(nsXMPNote, "HasExtendedXMP")
	optimizeNamespaces(root)
	return string(serializeXML(root)), nil
}

func firstDescriptionWithAttr(rdf *xmlElement, ns, local string) *xmlElement {
	for _, d := range rdf.children(nsRDF, "Description") {
		if _, ok := d.attr(ns, local); ok {
			return d
		}
	}
	return nil
}

// assembleExtendedPortions orders portions by StartingOffset, checks
// contiguity and total length against FullLength, concatenates them, and
// verifies the result's MD5 matches fpHex.
func assembleExtendedPortions(portions []*ExtendedXMPSegment, fpHex string) ([]byte, error) {
	sorted := append([]*ExtendedXMPSegment{}, portions...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].StartingOffset < sorted[j].StartingOffset })

	full := sorted[0].FullLength
	buf := make([]byte, 0, full)
	var next uint32
	for _, p := range sorted {
		if p.FullLength != full {
			return nil, NewError(ErrBadExtendedXMP, "Extended-XMP portions disagree on full length")
		}
		if p.StartingOffset != next {
			return nil, NewError(ErrBadExtendedXMP, "Extended-XMP portions are not contiguous: expected offset %d, got %d", next, p.StartingOffset)
		}
		buf = append(buf, p.Portion...)
		next += uint32(len(p.Portion))
	}
	if uint32(len(buf)) != full {
		return nil, NewError(ErrBadExtendedXMP, "Extended-XMP portions total %d bytes, full length declares %d", len(buf), full)
	}
	sum := md5.Sum(buf)
	if !strings.EqualFold(hex.EncodeToString(sum[:]), fpHex) {
		return nil, NewError(ErrBadExtendedXMP, "Extended-XMP MD5 %x does not match fingerprint %s", sum, fpHex)
	}
	return buf, nil
}

// SerializeXMP parses xmpText (a full x:xmpmeta document) and writes it
// into md as a base APP1 XMP segment, splitting content out into
// Extended-XMP portion segments if the base would otherwise exceed
// opts.MaxBaseUTF8Bytes. Extraction proceeds in priority order — thumbnail
// previews, then camera-raw-settings properties, then edit history, then
// (if still oversized) the single largest remaining subtree, repeated
// until the base fits or nothing is left to extract.
func SerializeXMP(md *Metadata, xmpText string, opts XMPWriteOptions) error {
	root, err := parseXMP(xmpText)
	if err != nil {
		return err
	}
	root.setAttr(nsX, "xmptk", xmpToolkitName)

	rdf := root.firstChild(nsRDF, "RDF")
	if rdf == nil {
		return NewError(ErrBadXMPRoot, "XMP root x:xmpmeta has no rdf:RDF child")
	}
	extRDF := &xmlElement{Space: nsRDF, Local: "RDF"}

	if rdf != nil {
		for _, desc := range rdf.children(nsRDF, "Description") {
			desc.removeAttr(nsXMPNote, "HasExtendedXMP")
		}
		maxBase := opts.maxBase()
		for utf8ByteLen(root) > maxBase {
			if !extractOneStep(rdf, extRDF) {
				break
			}
		}
	}

	precedingKeys := []SegmentKey{jfifKey, jfxxKey, exifKey}

	if len(extRDF.Children) == 0 {
		md.RemoveAll(extXMPKey)
		return writeBaseXMP(md, root, precedingKeys)
	}

	extBytes := serializeXML(extRDF)
	sum := md5.Sum(extBytes)
	fpHex := strings.ToUpper(hex.EncodeToString(sum[:]))

	desc := rdf.firstChild(nsRDF, "Description")
	if desc == nil {
		desc = &xmlElement{Space: nsRDF, Local: "Description"}
		moveTo(rdf, desc)
	}
	desc.setAttr(nsXMPNote, "HasExtendedXMP", fpHex)

	if err := writeBaseXMP(md, root, precedingKeys); err != nil {
		return err
	}
	return writeExtendedPortions(md, extBytes, fpHex, opts, append(precedingKeys, xmpKey))
}

func writeBaseXMP(md *Metadata, root *xmlElement, precedingKeys []SegmentKey) error {
	optimizeNamespaces(root)
	wire := encodeUTF16BENoBOM(string(serializeXML(root)))
	seg, _ := md.GetOrCreate(xmpKey, func() Segment { return NewXMPSegment() }, precedingKeys)
	x := seg.(*XMPSegment)
	x.RawBytes = wire
	x.Packet = string(serializeXML(root))
	return nil
}

func writeExtendedPortions(md *Metadata, extBytes []byte, fpHex string, opts XMPWriteOptions, precedingKeys []SegmentKey) error {
	maxPortion := opts.maxPortion()
	var fp [16]byte
	raw, _ := hex.DecodeString(fpHex)
	copy(fp[:], raw)

	var chunks [][]byte
	for off := 0; off < len(extBytes); off += maxPortion {
		end := off + maxPortion
		if end > len(extBytes) {
			end = len(extBytes)
		}
		chunks = append(chunks, extBytes[off:end])
	}

	existing := md.FindAll(extXMPKey)
	offset := uint32(0)
	for i, chunk := range chunks {
		var seg *ExtendedXMPSegment
		if i < len(existing) {
			seg = existing[i].(*ExtendedXMPSegment)
		} else {
			seg = NewExtendedXMPSegment()
			md.Insert(seg, precedingKeys)
		}
		seg.Fingerprint = fp
		seg.FullLength = uint32(len(extBytes))
		seg.StartingOffset = offset
		seg.Portion = chunk
		offset += uint32(len(chunk))
	}
	if len(chunks) < len(existing) {
		for _, stale := range existing[len(chunks):] {
			removeSegmentByIdentity(md, stale)
		}
	}
	return nil
}

// extractOneStep moves one unit of content (an element or an attribute)
// out of rdf into extRDF, in priority order: xmp:Thumbnails first, then
// any camera-raw-settings property, then xmpMM:History, then (once those
// are exhausted) the single largest remaining attribute or child element
// anywhere under an rdf:Description. It reports whether it found anything
// to move.
func extractOneStep(rdf, extRDF *xmlElement) bool {
	if extractMatchingChild(rdf, extRDF, func(c *xmlElement) bool { return c.Local == "Thumbnails" }) {
		return true
	}
	if extractMatchingChild(rdf, extRDF, func(c *xmlElement) bool {
		return c.Space == "http://ns.adobe.com/camera-raw-settings/1.0/"
	}) {
		return true
	}
	if extractMatchingChild(rdf, extRDF, func(c *xmlElement) bool { return c.Local == "History" }) {
		return true
	}
	return extractLargest(rdf, extRDF)
}

// extractMatchingChild moves the first child element of any
// rdf:Description under rdf that matches pred into the rdf:Description of
// extRDF that carries the same rdf:about (created on first use).
func extractMatchingChild(rdf, extRDF *xmlElement, pred func(*xmlElement) bool) bool {
	for _, desc := range rdf.children(nsRDF, "Description") {
		for _, c := range desc.Children {
			if pred(c) {
				dst := descriptionFor(extRDF, desc)
				moveTo(dst, c)
				return true
			}
		}
	}
	return false
}

// extractLargest moves the single largest remaining attribute or child
// element under any rdf:Description, whichever is bigger.
func extractLargest(rdf, extRDF *xmlElement) bool {
	var bestDesc *xmlElement
	var bestAttrIdx = -1
	var bestChild *xmlElement
	bestLen := -1

	for _, desc := range rdf.children(nsRDF, "Description") {
		for i, a := range desc.Attrs {
			if n := len(a.Value); n > bestLen {
				bestLen, bestDesc, bestAttrIdx, bestChild = n, desc, i, nil
			}
		}
		for _, c := range desc.Children {
			if n := utf8ByteLen(c); n > bestLen {
				bestLen, bestDesc, bestAttrIdx, bestChild = n, desc, -1, c
			}
		}
	}
	if bestDesc == nil {
		return false
	}
	dst := descriptionFor(extRDF, bestDesc)
	if bestChild != nil {
		moveTo(dst, bestChild)
		return true
	}
	attr := bestDesc.Attrs[bestAttrIdx]
	bestDesc.Attrs = append(bestDesc.Attrs[:bestAttrIdx], bestDesc.Attrs[bestAttrIdx+1:]...)
	dst.Attrs = append(dst.Attrs, attr)
	return true
}

// descriptionFor returns (creating if needed) the rdf:Description in
// extRDF that mirrors src's rdf:about, so everything extracted from one
// base Description lands together in the extended document.
func descriptionFor(extRDF *xmlElement, src *xmlElement) *xmlElement {
	about, _ := src.attr(nsRDF, "about")
	for _, d := range extRDF.children(nsRDF, "Description") {
		if v, _ := d.attr(nsRDF, "about"); v == about {
			return d
		}
	}
	d := &xmlElement{Space: nsRDF, Local: "Description"}
	d.setAttr(nsRDF, "about", about)
	moveTo(extRDF, d)
	return d
}

// parseRDFFragment parses an Extended-XMP document, which is a bare
// rdf:RDF element with no enclosing x:xmpmeta wrapper.
func parseRDFFragment(s string) (*xmlElement, error) {
	wrapped := "<x:xmpmeta xmlns:x=\"" + nsX + "\">" + s + "</x:xmpmeta>"
	root, err := parseXMP(wrapped)
	if err != nil {
		return nil, NewError(ErrBadExtendedXMP, "Extended-XMP document body did not parse: %v", err)
	}
	rdf := root.firstChild(nsRDF, "RDF")
	if rdf == nil {
		return nil, NewError(ErrBadExtendedXMP, "Extended-XMP document has no rdf:RDF root")
	}
	return rdf, nil
}
