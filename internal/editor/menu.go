package editor

import (
	"context"
	"errors"
	"fmt"

	"github.com/sahilm/fuzzy"

	"github.com/eykd/pagemark-go/internal/doc"
)

// ErrUnknownAction is returned by RunAction for names not in Actions.
var ErrUnknownAction = errors.New("unknown block action")

// Action is an entry of the per-block menu.
type Action struct {
	Name  string
	Title string
	run   func(ctx context.Context, e *Editor, p doc.Path, arg string) error
}

var actions = []Action{
	{Name: "paragraph", Title: "Paragraph below", run: func(_ context.Context, e *Editor, p doc.Path, _ string) error {
		e.InsertBlockAfter(p, doc.NewParagraph())
		return nil
	}},
	{Name: "heading-one", Title: "Heading one", run: func(_ context.Context, e *Editor, p doc.Path, _ string) error {
		e.toggleTypeAt(p, doc.KindHeadingOne)
		return nil
	}},
	{Name: "heading-two", Title: "Heading two", run: func(_ context.Context, e *Editor, p doc.Path, _ string) error {
		e.toggleTypeAt(p, doc.KindHeadingTwo)
		return nil
	}},
	{Name: "divider", Title: "Divider below", run: func(_ context.Context, e *Editor, p doc.Path, _ string) error {
		e.InsertBlockAfter(p, doc.NewElement(doc.KindDivider))
		return nil
	}},
	{Name: "move-up", Title: "Move up", run: func(_ context.Context, e *Editor, p doc.Path, _ string) error {
		e.MoveBlockUp(p)
		return nil
	}},
	{Name: "move-down", Title: "Move down", run: func(_ context.Context, e *Editor, p doc.Path, _ string) error {
		e.MoveBlockDown(p)
		return nil
	}},
	{Name: "delete", Title: "Delete block", run: func(_ context.Context, e *Editor, p doc.Path, _ string) error {
		e.RemoveNode(p)
		return nil
	}},
	{Name: "image-url", Title: "Image from URL", run: func(_ context.Context, e *Editor, p doc.Path, url string) error {
		if url == "" {
			return errors.New("image-url: missing url")
		}
		e.InsertImageBelow(p, url)
		return nil
	}},
	{Name: "image-file", Title: "Image from file", run: func(ctx context.Context, e *Editor, p doc.Path, name string) error {
		if name == "" {
			return errors.New("image-file: missing file")
		}
		return e.InsertImageFile(ctx, p, name)
	}},
}

// Actions returns the block menu in display order.
func Actions() []Action {
	return append([]Action(nil), actions...)
}

// actionSource adapts the menu to fuzzy.Source, matching on name and title.
type actionSource []Action

func (s actionSource) String(i int) string { return s[i].Name + " " + s[i].Title }
func (s actionSource) Len() int            { return len(s) }

// FindActions returns the actions matching query, best match first. An empty
// query returns the whole menu.
func FindActions(query string) []Action {
	if query == "" {
		return Actions()
	}
	matches := fuzzy.FindFrom(query, actionSource(actions))
	out := make([]Action, 0, len(matches))
	for _, m := range matches {
		out = append(out, actions[m.Index])
	}
	return out
}

// RunAction runs the named action against the block at p. arg carries the
// action's parameter: the URL for "image-url" or the file for "image-file".
func (e *Editor) RunAction(ctx context.Context, name string, p doc.Path, arg string) error {
	for _, a := range actions {
		if a.Name == name {
			e.logger.Debug("block action", "action", name, "path", p.String())
			return a.run(ctx, e, p, arg)
		}
	}
	return fmt.Errorf("%w: %q", ErrUnknownAction, name)
}

// toggleTypeAt retypes the element at p to kind, or back to a paragraph when
// it already is kind.
func (e *Editor) toggleTypeAt(p doc.Path, kind doc.Kind) {
	el, ok := e.doc.ElementAt(p)
	if !ok {
		e.logger.Debug("toggle type: stale path", "path", p.String())
		return
	}
	if el.Kind == kind {
		kind = doc.KindParagraph
	}
	e.SetNodeType(p, kind)
}
