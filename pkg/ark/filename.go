package ark

import "strings"

// ArchiveFilename is a parsed archive-name path component following the
// naming grammar:
//
//	<3-digit priority> "_and_" ["softdlc_" tag "_" dlc_tag] tag
//	                   ["_" (calibre|format|encoding)]{0..3}
//
// Archive sets ship many small archives whose load order and variant
// selection (resolution calibre, texture format, text encoding) are
// encoded entirely in the filename rather than in any header field.
type ArchiveFilename struct {
	Raw string

	Priority string
	IsDLC    bool
	DLCTag   string
	Tag      string
	Calibre  string // raw token: "common", "low", or "veryhigh"; "" if absent
	Format   string // "pvr" or ""
	Encoding string // "astc" or ""
}

// tagOrder ranks the well-known base tags; index 0 loads first. Tags
// absent from this list (including every unrecognized DLC base tag)
// get rankOf's -1 sentinel, so they sort before every listed tag.
var tagOrder = []string{"startup", "mlpextragui", "mlpextra", "mlpextra2", "mlpdata"}

// calibreOrder ranks every calibre bucket, including the implicit
// "high" default used when no calibre suffix is present at all.
var calibreOrder = []string{"all", "low", "high", "veryhigh"}

// calibreToken maps the filename's literal suffix token to its
// calibreOrder bucket name.
var calibreToken = map[string]string{
	"common":   "all",
	"low":      "low",
	"veryhigh": "veryhigh",
}

func rankOf(list []string, value string) int {
	for i, v := range list {
		if v == value {
			return i
		}
	}
	return -1
}

// ParseArchiveFilename parses name against the archive-name grammar. It
// returns ok=false for names that don't match; callers fall back to a
// plain string comparison for those. Unrecognized suffix tokens are
// accepted but leave their category's field empty.
func ParseArchiveFilename(name string) (ArchiveFilename, bool) {
	const sep = "_and_"
	idx := strings.Index(name, sep)
	if idx < 0 {
		return ArchiveFilename{}, false
	}

	f := ArchiveFilename{Raw: name, Priority: name[:idx]}
	rest := name[idx+len(sep):]
	if rest == "" {
		return ArchiveFilename{}, false
	}

	parts := strings.Split(rest, "_")

	if len(parts) >= 3 && parts[0] == "softdlc" {
		f.IsDLC = true
		f.Tag = parts[1]
		f.DLCTag = parts[2]
		parts = parts[3:]
	} else {
		f.Tag = parts[0]
		parts = parts[1:]
	}

	if len(parts) > 3 {
		return ArchiveFilename{}, false
	}
	for _, tok := range parts {
		switch {
		case tok == "pvr":
			f.Format = tok
		case tok == "astc":
			f.Encoding = tok
		case calibreToken[tok] != "":
			f.Calibre = tok
		default:
			// An unrecognized suffix token is accepted but classifies
			// into no category.
		}
	}

	return f, true
}

// String round-trips ParseArchiveFilename: while f's fields still match
// what parsing Raw yields, it returns Raw unchanged. Otherwise it builds
// the name from the fields, with suffix tokens in calibre, format,
// encoding order.
func (f ArchiveFilename) String() string {
	if g, ok := ParseArchiveFilename(f.Raw); ok && g == f {
		return f.Raw
	}
	var b strings.Builder
	b.WriteString(f.Priority)
	b.WriteString("_and_")
	if f.IsDLC {
		b.WriteString("softdlc_")
		b.WriteString(f.Tag)
		b.WriteByte('_')
		b.WriteString(f.DLCTag)
	} else {
		b.WriteString(f.Tag)
	}
	for _, tok := range []string{f.Calibre, f.Format, f.Encoding} {
		if tok != "" {
			b.WriteByte('_')
			b.WriteString(tok)
		}
	}
	return b.String()
}

// compareKey is the load-order tuple:
//
//	(is_dlc, priority, rank(tag), dlc_tag, encoding, -rank(format), rank(calibre))
type compareKey struct {
	isDLC         bool
	priority      string
	tagRank       int
	dlcTag        string
	encodingRank  int
	negFormatRank int
	calibreRank   int
	raw           string
}

func (f ArchiveFilename) key() compareKey {
	calibreRank := rankOf(calibreOrder, "high") // absence of any calibre suffix defaults to high
	if f.Calibre != "" {
		calibreRank = rankOf(calibreOrder, calibreToken[f.Calibre])
	}

	formatRank := -1
	if f.Format != "" {
		formatRank = 0 // the only recognized format is "pvr"
	}

	encodingRank := -1
	if f.Encoding != "" {
		encodingRank = 0 // the only recognized encoding is "astc"
	}

	return compareKey{
		isDLC:         f.IsDLC,
		priority:      f.Priority,
		tagRank:       rankOf(tagOrder, f.Tag),
		dlcTag:        f.DLCTag,
		encodingRank:  encodingRank,
		negFormatRank: -formatRank,
		calibreRank:   calibreRank,
		raw:           f.Raw,
	}
}

// less implements the total order over compareKey tuples. raw is an
// insertion-agnostic tiebreaker so that two filenames which disagree
// only in an unrecognized token still produce a consistent (if
// otherwise arbitrary) order, preserving antisymmetry and transitivity.
func (k compareKey) less(o compareKey) bool {
	if k.isDLC != o.isDLC {
		return !k.isDLC
	}
	if k.priority != o.priority {
		return k.priority < o.priority
	}
	if k.tagRank != o.tagRank {
		return k.tagRank < o.tagRank
	}
	if k.dlcTag != o.dlcTag {
		return k.dlcTag < o.dlcTag
	}
	if k.encodingRank != o.encodingRank {
		return k.encodingRank < o.encodingRank
	}
	if k.negFormatRank != o.negFormatRank {
		return k.negFormatRank < o.negFormatRank
	}
	if k.calibreRank != o.calibreRank {
		return k.calibreRank < o.calibreRank
	}
	return k.raw < o.raw
}

// LessArchiveFilename orders two archive-name paths for load order
// (ascending = load earlier, higher wins overlay). It strips any
// directory prefix and file extension before parsing, then falls back
// to a plain string comparison if either side fails to parse as an
// archive filename.
func LessArchiveFilename(a, b string) bool {
	an, aok := parseBaseName(a)
	bn, bok := parseBaseName(b)
	if !aok || !bok {
		return a < b
	}
	return an.key().less(bn.key())
}

func parseBaseName(path string) (ArchiveFilename, bool) {
	base := path
	if i := strings.LastIndexByte(base, '/'); i >= 0 {
		base = base[i+1:]
	}
	if i := strings.LastIndexByte(base, '.'); i > 0 {
		base = base[:i]
	}
	return ParseArchiveFilename(base)
}
