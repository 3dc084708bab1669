package main

import (
	"fmt"
	"io"

	"github.com/altamash-faraz/itemcatalog/internal/catalog"
	"github.com/altamash-faraz/itemcatalog/internal/model"
)

// terminalView renders the catalog as text cards. It implements
// catalog.View.
type terminalView struct {
	out io.Writer
}

func newTerminalView(out io.Writer) *terminalView {
	return &terminalView{out: out}
}

// RenderItems displays the given item list.
func (v *terminalView) RenderItems(items []model.Item) {
	if len(items) == 0 {
		fmt.Fprintln(v.out, "No items found. Start by adding your first item.")
		return
	}

	for _, item := range items {
		fmt.Fprintf(v.out, "%s  $%.2f  [%s]\n", item.Name, item.Price, item.Category)
		fmt.Fprintf(v.out, "    %s\n", item.Description)
		fmt.Fprintf(v.out, "    id: %s  created: %s\n", item.ID, item.CreatedAt.Format("2006-01-02"))
	}

	fmt.Fprintf(v.out, "%d item(s)\n", len(items))
}

// ShowMessage displays a transient or dismissable message.
func (v *terminalView) ShowMessage(kind catalog.MessageKind, text string) {
	switch kind {
	case catalog.MessageSuccess:
		fmt.Fprintln(v.out, "[ok] "+text)
	default:
		fmt.Fprintln(v.out, "[error] "+text)
	}
}

// ShowWarning displays a persistent warning banner.
func (v *terminalView) ShowWarning(text string) {
	fmt.Fprintln(v.out, "!!! "+text)
}
