package control

import (
	"context"
	"fmt"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/entrhq/hypergx/pkg/speeddial"
)

func registerSpeedDialHandlers(api huma.API, s *Server) {
	type listOutput struct {
		Body struct {
			Items []speeddial.Item `json:"items"`
		}
	}
	huma.Register(api, huma.Operation{OperationID: "list-speed-dial", Method: http.MethodGet, Path: "/api/v1/speed-dial", Summary: "List speed-dial tiles in order", Tags: []string{"Speed Dial"}},
		func(ctx context.Context, input *struct{}) (*listOutput, error) {
			out := &listOutput{}
			out.Body.Items = s.dial.Items()
			return out, nil
		})

	type tileBody struct {
		ID    string `json:"id,omitempty" doc:"Defaults to a slug of the title"`
		Title string `json:"title" minLength:"1"`
		URL   string `json:"url" minLength:"1"`
		Icon  string `json:"icon,omitempty"`
	}
	type itemOutput struct {
		Body speeddial.Item
	}
	huma.Register(api, huma.Operation{OperationID: "add-speed-dial", Method: http.MethodPost, Path: "/api/v1/speed-dial", Summary: "Add a tile, replacing one with the same id", Tags: []string{"Speed Dial"}, DefaultStatus: http.StatusCreated},
		func(ctx context.Context, input *struct {
			Body tileBody
		}) (*itemOutput, error) {
			item := speeddial.NewItem(input.Body.Title, input.Body.URL, input.Body.Icon)
			if input.Body.ID != "" {
				item.ID = input.Body.ID
			}
			if item.ID == "" {
				return nil, huma.Error400BadRequest("title must not be blank")
			}
			s.dial.Add(item)
			out := &itemOutput{}
			out.Body = item
			return out, nil
		})

	type itemIDInput struct {
		ItemID string `path:"item_id"`
	}

	huma.Register(api, huma.Operation{OperationID: "update-speed-dial", Method: http.MethodPut, Path: "/api/v1/speed-dial/{item_id}", Summary: "Replace a tile", Tags: []string{"Speed Dial"}},
		func(ctx context.Context, input *struct {
			ItemID string `path:"item_id"`
			Body   tileBody
		}) (*itemOutput, error) {
			item := speeddial.NewItem(input.Body.Title, input.Body.URL, input.Body.Icon)
			item.ID = input.ItemID
			if !s.dial.Update(item) {
				return nil, mapErr(fmt.Errorf("speed-dial item %q: %w", input.ItemID, ErrNotFound))
			}
			out := &itemOutput{}
			out.Body = item
			return out, nil
		})

	huma.Register(api, huma.Operation{OperationID: "remove-speed-dial", Method: http.MethodDelete, Path: "/api/v1/speed-dial/{item_id}", Summary: "Remove a tile", Tags: []string{"Speed Dial"}},
		func(ctx context.Context, input *itemIDInput) (*struct{}, error) {
			if _, ok := s.dial.Get(input.ItemID); !ok {
				return nil, mapErr(fmt.Errorf("speed-dial item %q: %w", input.ItemID, ErrNotFound))
			}
			s.dial.Remove(input.ItemID)
			return &struct{}{}, nil
		})

	huma.Register(api, huma.Operation{OperationID: "reorder-speed-dial", Method: http.MethodPut, Path: "/api/v1/speed-dial/order", Summary: "Reorder tiles by id", Tags: []string{"Speed Dial"}},
		func(ctx context.Context, input *struct {
			Body struct {
				IDs []string `json:"ids" doc:"Every tile id exactly once, in the new order"`
			}
		}) (*listOutput, error) {
			items, err := reorder(s.dial.Items(), input.Body.IDs)
			if err != nil {
				return nil, huma.Error400BadRequest(err.Error())
			}
			s.dial.Reorder(items)
			out := &listOutput{}
			out.Body.Items = items
			return out, nil
		})
}

// reorder arranges items in the order of ids, which must name every item
// exactly once.
func reorder(items []speeddial.Item, ids []string) ([]speeddial.Item, error) {
	if len(ids) != len(items) {
		return nil, fmt.Errorf("expected %d ids, got %d", len(items), len(ids))
	}
	byID := make(map[string]speeddial.Item, len(items))
	for _, it := range items {
		byID[it.ID] = it
	}
	out := make([]speeddial.Item, 0, len(ids))
	for _, id := range ids {
		it, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("unknown or repeated id %q", id)
		}
		delete(byID, id)
		out = append(out, it)
	}
	return out, nil
}
