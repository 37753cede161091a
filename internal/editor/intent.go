package editor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/eykd/pagemark-go/internal/doc"
)

// Intent is one discrete editing request, as recorded in a script. Op names
// the request; the other fields are its arguments. Paths use selector
// syntax ("2:1:0").
type Intent struct {
	Op     string     `json:"op"`
	Text   string     `json:"text,omitempty"`
	Kind   string     `json:"kind,omitempty"`
	Mark   string     `json:"mark,omitempty"`
	Path   string     `json:"path,omitempty"`
	To     string     `json:"to,omitempty"`
	Anchor *doc.Point `json:"anchor,omitempty"`
	Focus  *doc.Point `json:"focus,omitempty"`
	Unit   string     `json:"unit,omitempty"`
	Key    string     `json:"key,omitempty"`
	URL    string     `json:"url,omitempty"`
	File   string     `json:"file,omitempty"`
	Action string     `json:"action,omitempty"`
	Split  bool       `json:"split,omitempty"`
}

// ErrUnknownOp is returned by Apply for an intent op it does not recognise.
var ErrUnknownOp = errors.New("unknown intent op")

// ParseIntents decodes a JSON array of intents.
func ParseIntents(r io.Reader) ([]Intent, error) {
	var intents []Intent
	if err := json.NewDecoder(r).Decode(&intents); err != nil {
		return nil, fmt.Errorf("decoding intents: %w", err)
	}
	return intents, nil
}

// Apply replays intents against e in order, stopping at the first one that
// fails. Intents addressing stale paths are not failures; they change
// nothing. Image-file intents open files through the editor's Opener.
func Apply(ctx context.Context, e *Editor, intents []Intent) error {
	for i, in := range intents {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := applyOne(ctx, e, in); err != nil {
			return fmt.Errorf("intent %d (%s): %w", i, in.Op, err)
		}
	}
	return nil
}

func applyOne(ctx context.Context, e *Editor, in Intent) error {
	switch in.Op {
	case "select":
		if in.Anchor == nil {
			return errors.New("missing anchor")
		}
		focus := in.Anchor
		if in.Focus != nil {
			focus = in.Focus
		}
		if !e.Select(doc.RangeBetween(*in.Anchor, *focus)) {
			return errors.New("selection does not resolve")
		}
	case "select-start", "select-end":
		p, err := doc.ParsePath(in.Path)
		if err != nil {
			return err
		}
		ok := e.SelectStart(p)
		if in.Op == "select-end" {
			ok = e.SelectEnd(p)
		}
		if !ok {
			return fmt.Errorf("path %s does not resolve", p)
		}
	case "deselect":
		e.Deselect()
	case "insert-text":
		e.InsertText(in.Text)
	case "delete-backward", "delete-forward":
		unit, ok := ParseUnit(in.Unit)
		if !ok {
			return fmt.Errorf("invalid unit %q", in.Unit)
		}
		if in.Op == "delete-backward" {
			e.DeleteBackward(unit)
		} else {
			e.DeleteForward(unit)
		}
	case "insert-break":
		e.InsertBreak()
	case "toggle-mark":
		mark, ok := doc.ParseMark(in.Mark)
		if !ok {
			return fmt.Errorf("invalid mark %q", in.Mark)
		}
		e.ToggleMark(mark)
	case "toggle-block":
		kind, err := parseKind(in.Kind)
		if err != nil {
			return err
		}
		e.ToggleBlock(kind)
	case "set-node-type":
		p, err := doc.ParsePath(in.Path)
		if err != nil {
			return err
		}
		kind, err := parseKind(in.Kind)
		if err != nil {
			return err
		}
		e.SetNodeType(p, kind)
	case "insert-block":
		p, err := doc.ParsePath(in.Path)
		if err != nil {
			return err
		}
		el, err := intentElement(in)
		if err != nil {
			return err
		}
		e.InsertBlockAfter(p, el)
	case "move":
		from, err := doc.ParsePath(in.Path)
		if err != nil {
			return err
		}
		to, err := doc.ParsePath(in.To)
		if err != nil {
			return err
		}
		e.MoveNode(from, to)
	case "remove":
		p, err := doc.ParsePath(in.Path)
		if err != nil {
			return err
		}
		e.RemoveNode(p)
	case "wrap":
		kind, err := parseKind(in.Kind)
		if err != nil {
			return err
		}
		e.WrapNodes(kind, nil)
	case "unwrap":
		var match Match
		if in.Kind != "" {
			kind, err := parseKind(in.Kind)
			if err != nil {
				return err
			}
			match = MatchKind(kind)
		}
		e.UnwrapNodes(match, UnwrapOptions{Split: in.Split})
	case "hotkey":
		h, err := ParseHotkey(in.Key)
		if err != nil {
			return err
		}
		e.HandleHotkey(h)
	case "action":
		p, err := doc.ParsePath(in.Path)
		if err != nil {
			return err
		}
		arg := in.URL
		if in.File != "" {
			arg = in.File
		}
		return e.RunAction(ctx, in.Action, p, arg)
	case "image-url":
		p, err := doc.ParsePath(in.Path)
		if err != nil {
			return err
		}
		e.InsertImageBelow(p, in.URL)
	case "image-file":
		p, err := doc.ParsePath(in.Path)
		if err != nil {
			return err
		}
		return e.InsertImageFile(ctx, p, in.File)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownOp, in.Op)
	}
	return nil
}

func parseKind(s string) (doc.Kind, error) {
	k, ok := doc.ParseKind(s)
	if !ok {
		return "", fmt.Errorf("invalid kind %q", s)
	}
	return k, nil
}

// intentElement builds the element an insert-block intent describes.
func intentElement(in Intent) (*doc.Element, error) {
	kind, err := parseKind(in.Kind)
	if err != nil {
		return nil, err
	}
	switch {
	case kind == doc.KindImage:
		return doc.NewImage(in.URL), nil
	case kind.IsVoid():
		return doc.NewElement(kind), nil
	case kind.IsList():
		return doc.NewElement(kind, doc.NewElement(doc.KindListItem, doc.NewText(in.Text))), nil
	case kind == doc.KindListItem:
		return nil, errors.New("list-item cannot be inserted at top level")
	}
	return doc.NewElement(kind, doc.NewText(in.Text)), nil
}
