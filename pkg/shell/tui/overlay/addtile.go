package overlay

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/entrhq/hypergx/pkg/shell"
	"github.com/entrhq/hypergx/pkg/shell/tui/types"
	"github.com/entrhq/hypergx/pkg/speeddial"
)

// AddTileOverlay is the "add a site" form of the speed-dial grid.
type AddTileOverlay struct {
	dialog *inputDialog
	width  int
	height int
	added  string
}

// NewAddTileOverlay creates the form. Submitting adds the tile through
// the speed-dial registry; a title that slugs to an existing id replaces
// that tile.
func NewAddTileOverlay(ctrl *shell.Controller, width, height int) *AddTileOverlay {
	o := &AddTileOverlay{width: width, height: height}
	o.dialog = newInputDialog("Add a site", []inputField{
		newInputField("Title", "title", "", "", true),
		newInputField("URL", "url", "", "https://", true),
		newInputField("Icon (URL or local path)", "icon", "", speeddial.DefaultIcon, false),
	}, func(vals map[string]string) error {
		item := speeddial.NewItem(vals["title"], vals["url"], vals["icon"])
		ctrl.SpeedDial().Add(item)
		o.added = item.ID
		return nil
	})
	return o
}

// Update handles messages for the form
func (o *AddTileOverlay) Update(msg tea.Msg, state types.StateProvider, actions types.ActionHandler) (types.Overlay, tea.Cmd) {
	if size, ok := msg.(tea.WindowSizeMsg); ok {
		o.width, o.height = size.Width, size.Height
		return o, nil
	}
	done, cmd := o.dialog.update(msg)
	if !done {
		return o, cmd
	}
	if o.added != "" {
		actions.ShowToast("Tile added", o.added, "✚", false)
	}
	return nil, cmd
}

// Added returns the id of the submitted tile, or "".
func (o *AddTileOverlay) Added() string { return o.added }

// View renders the form
func (o *AddTileOverlay) View() string { return o.dialog.view(64) }

// Focused returns whether this overlay should handle input
func (o *AddTileOverlay) Focused() bool { return true }

// Width returns the overlay width
func (o *AddTileOverlay) Width() int { return o.width }

// Height returns the overlay height
func (o *AddTileOverlay) Height() int { return o.height }
