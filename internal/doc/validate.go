package doc

import "fmt"

// Validate checks d against the structural invariants of the model and
// returns every violation found; nil when d is well formed. Errors mean a
// transform or decoder produced an illegal tree; warnings are legal but
// suspicious content.
func Validate(d *Document) []Diagnostic {
	var diags []Diagnostic
	if len(d.Children) == 0 {
		return []Diagnostic{errDiag(CodeEmptyDocument, nil, "document has no blocks")}
	}
	for i, n := range d.Children {
		p := Path{i}
		el, ok := n.(*Element)
		if !ok {
			diags = append(diags, errDiag(CodeRootNotElement, p, "top-level node is a text leaf"))
			continue
		}
		if el.Kind == KindListItem {
			diags = append(diags, errDiag(CodeItemOutsideList, p, "list-item outside a list container"))
		}
		diags = append(diags, validateElement(p, el)...)
	}
	return diags
}

func validateElement(p Path, el *Element) []Diagnostic {
	var diags []Diagnostic
	if _, ok := ParseKind(string(el.Kind)); !ok {
		diags = append(diags, errDiag(CodeUnknownKind, p, fmt.Sprintf("unknown element kind %q", el.Kind)))
	}
	if len(el.Children) == 0 {
		return append(diags, errDiag(CodeNoChildren, p, fmt.Sprintf("%s element has no children", el.Kind)))
	}
	switch {
	case el.Kind.IsList():
		for i, c := range el.Children {
			cp := p.Child(i)
			item, ok := c.(*Element)
			if !ok || item.Kind != KindListItem {
				diags = append(diags, errDiag(CodeListChildNotItem, cp, fmt.Sprintf("%s child is not a list-item", el.Kind)))
				continue
			}
			diags = append(diags, validateElement(cp, item)...)
		}
	case el.IsVoid():
		t, ok := el.Children[0].(*Text)
		if len(el.Children) != 1 || !ok || t.Text != "" {
			diags = append(diags, errDiag(CodeVoidContent, p, fmt.Sprintf("%s must hold exactly one empty leaf", el.Kind)))
		}
		if el.Kind == KindImage && el.URL == "" {
			diags = append(diags, Diagnostic{Severity: "warning", Code: CodeImageWithoutURL, Message: "image has no url", Path: p})
		}
	default:
		for i, c := range el.Children {
			if _, ok := c.(*Text); !ok {
				diags = append(diags, errDiag(CodeBlockChildNotLeaf, p.Child(i), fmt.Sprintf("%s child is not a text leaf", el.Kind)))
			}
		}
	}
	return diags
}

// HasErrors reports whether any diagnostic has error severity.
func HasErrors(diags []Diagnostic) bool {
	for _, d := range diags {
		if d.Severity == "error" {
			return true
		}
	}
	return false
}

func errDiag(code string, p Path, msg string) Diagnostic {
	return Diagnostic{Severity: "error", Code: code, Message: msg, Path: p}
}
