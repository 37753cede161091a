package markdown

import (
	"strconv"
	"strings"

	"github.com/eykd/pagemark-go/internal/doc"
)

// Export renders d as CommonMark. Blocks are separated by a blank line and the
// output ends with a newline. Empty paragraphs are omitted.
func Export(d *doc.Document) string {
	var parts []string
	var prev *doc.Element
	for _, n := range d.Children {
		el, ok := n.(*doc.Element)
		if !ok {
			continue
		}
		s := exportBlock(el, prev)
		prev = el
		if s != "" {
			parts = append(parts, s)
		}
	}
	if len(parts) == 0 {
		return ""
	}
	return strings.Join(parts, "\n\n") + "\n"
}

func exportBlock(el, prev *doc.Element) string {
	switch el.Kind {
	case doc.KindHeadingOne:
		return strings.TrimRight("# "+oneLine(el), " ")
	case doc.KindHeadingTwo:
		return strings.TrimRight("## "+oneLine(el), " ")
	case doc.KindParagraph:
		return inline(el.Children)
	case doc.KindBlockQuote:
		return prefixLines(inline(el.Children), "> ", "> ")
	case doc.KindCodeBlock:
		return fenced(doc.BlockText(el))
	case doc.KindDivider:
		return "---"
	case doc.KindImage:
		return "![](" + destination(el.URL) + ")"
	case doc.KindBulletedList, doc.KindNumberedList:
		return exportList(el, prev)
	}
	return inline(el.Children)
}

// exportList renders list items. A list directly after another list of the
// same kind switches delimiter so the two do not merge when re-read.
func exportList(el, prev *doc.Element) string {
	alt := prev != nil && prev.Kind == el.Kind
	var lines []string
	n := 0
	for _, c := range el.Children {
		item, ok := c.(*doc.Element)
		if !ok {
			continue
		}
		n++
		marker := "- "
		if alt {
			marker = "* "
		}
		if el.Kind == doc.KindNumberedList {
			delim := ". "
			if alt {
				delim = ") "
			}
			marker = strconv.Itoa(n) + delim
		}
		body := inline(item.Children)
		if body == "" {
			lines = append(lines, strings.TrimRight(marker, " "))
			continue
		}
		lines = append(lines, prefixLines(body, marker, strings.Repeat(" ", len(marker))))
	}
	return strings.Join(lines, "\n")
}

func prefixLines(s, first, rest string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		p := rest
		if i == 0 {
			p = first
		}
		lines[i] = strings.TrimRight(p+l, " ")
	}
	return strings.Join(lines, "\n")
}

// oneLine renders a heading; ATX headings cannot span lines.
func oneLine(el *doc.Element) string {
	leaves := make([]doc.Node, 0, len(el.Children))
	for _, c := range el.Children {
		if t, ok := c.(*doc.Text); ok {
			cp := *t
			cp.Text = strings.ReplaceAll(cp.Text, "\n", " ")
			leaves = append(leaves, &cp)
		}
	}
	return inline(leaves)
}

// inline renders leaves with emphasis delimiters. Bold and italic are kept on
// a stack so runs sharing a mark share one delimiter pair; code is always
// innermost. Whitespace at the edge of a run is moved outside its delimiters.
func inline(leaves []doc.Node) string {
	var b strings.Builder
	var open []doc.Mark
	pending := ""

	closeTo := func(keep func(doc.Mark) bool) {
		i := 0
		for i < len(open) && keep(open[i]) {
			i++
		}
		for j := len(open) - 1; j >= i; j-- {
			b.WriteString(delimiter(open[j]))
		}
		open = open[:i]
	}

	for _, n := range leaves {
		t, ok := n.(*doc.Text)
		if !ok || t.Text == "" {
			continue
		}
		core := strings.TrimLeft(t.Text, " \t\n")
		lead := t.Text[:len(t.Text)-len(core)]
		trimmed := strings.TrimRight(core, " \t\n")
		trail := core[len(trimmed):]
		core = trimmed
		if core == "" {
			pending += lead
			continue
		}

		closeTo(func(m doc.Mark) bool { return t.Has(m) })
		b.WriteString(whitespace(pending + lead))
		pending = trail
		for _, m := range []doc.Mark{doc.MarkBold, doc.MarkItalic} {
			if t.Has(m) && !isOpen(open, m) {
				open = append(open, m)
				b.WriteString(delimiter(m))
			}
		}
		if t.Code {
			b.WriteString(codeSpan(core))
		} else {
			b.WriteString(escapeText(core))
		}
	}
	closeTo(func(doc.Mark) bool { return false })
	return escapeLineStarts(strings.TrimRight(b.String(), " \t\n"))
}

func isOpen(open []doc.Mark, m doc.Mark) bool {
	for _, o := range open {
		if o == m {
			return true
		}
	}
	return false
}

func delimiter(m doc.Mark) string {
	if m == doc.MarkBold {
		return "**"
	}
	return "*"
}

// whitespace renders a run of whitespace; a newline becomes a hard break.
func whitespace(s string) string {
	return strings.ReplaceAll(s, "\n", "\\\n")
}

func escapeText(s string) string {
	var b strings.Builder
	for i, line := range strings.Split(s, "\n") {
		if i > 0 {
			b.WriteString("\\\n")
		}
		for _, r := range line {
			if strings.ContainsRune("\\`*_[]<>&!", r) {
				b.WriteByte('\\')
			}
			b.WriteRune(r)
		}
	}
	return b.String()
}

// escapeLineStarts stops rendered text being read back as block syntax.
func escapeLineStarts(s string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		if l == "" {
			continue
		}
		switch l[0] {
		case '#', '-', '+', '>', '=':
			lines[i] = "\\" + l
			continue
		}
		j := 0
		for j < len(l) && l[j] >= '0' && l[j] <= '9' {
			j++
		}
		if j > 0 && j < len(l) && (l[j] == '.' || l[j] == ')') {
			lines[i] = l[:j] + "\\" + l[j:]
		}
	}
	return strings.Join(lines, "\n")
}

func codeSpan(s string) string {
	fence := strings.Repeat("`", longestRun(s, '`')+1)
	if strings.HasPrefix(s, "`") || strings.HasSuffix(s, "`") {
		s = " " + s + " "
	}
	return fence + strings.ReplaceAll(s, "\n", " ") + fence
}

func fenced(code string) string {
	fence := strings.Repeat("`", max(3, longestRun(code, '`')+1))
	if code == "" {
		return fence + "\n" + fence
	}
	return fence + "\n" + code + "\n" + fence
}

func destination(url string) string {
	if strings.ContainsAny(url, " ()") {
		return "<" + url + ">"
	}
	return url
}

func longestRun(s string, c byte) int {
	best, run := 0, 0
	for i := 0; i < len(s); i++ {
		if s[i] == c {
			run++
			best = max(best, run)
		} else {
			run = 0
		}
	}
	return best
}
