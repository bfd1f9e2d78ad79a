package control

import (
	"context"
	"fmt"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/entrhq/hypergx/pkg/weburl"
)

type tabIDInput struct {
	TabID string `path:"tab_id"`
}

// target resolves address-or-search input against the configured engine.
func (s *Server) target(input string) string {
	return weburl.Target(s.store.State().SearchEngine, input)
}

// requireTab returns ErrNotFound unless the registry knows id.
func (s *Server) requireTab(id string) error {
	if _, ok := s.tabs.Registry().Get(id); !ok {
		return fmt.Errorf("tab %q: %w", id, ErrNotFound)
	}
	return nil
}

func registerTabHandlers(api huma.API, s *Server) {
	type listTabsOutput struct {
		Body tabsPayload
	}
	huma.Register(api, huma.Operation{OperationID: "list-tabs", Method: http.MethodGet, Path: "/api/v1/tabs", Summary: "List tabs and the active tab", Tags: []string{"Tabs"}},
		func(ctx context.Context, input *struct{}) (*listTabsOutput, error) {
			out := &listTabsOutput{}
			out.Body = s.tabsSnapshot()
			return out, nil
		})

	type newTabOutput struct {
		Body struct {
			ID       string `json:"id"`
			External bool   `json:"external"`
		}
	}
	huma.Register(api, huma.Operation{OperationID: "new-tab", Method: http.MethodPost, Path: "/api/v1/tabs", Summary: "Open a new tab, optionally at a URL", Tags: []string{"Tabs"}, DefaultStatus: http.StatusCreated},
		func(ctx context.Context, input *struct {
			Body struct {
				URL string `json:"url,omitempty" doc:"Address or search text. Omit for the new-tab page."`
			}
		}) (*newTabOutput, error) {
			out := &newTabOutput{}
			u := s.target(input.Body.URL)
			if u == "" {
				out.Body.ID = s.tabs.NewTab()
				return out, nil
			}
			id, err := s.tabs.OpenURL(u)
			if err != nil {
				return nil, mapErr(err)
			}
			out.Body.ID = id
			out.Body.External = id == ""
			return out, nil
		})

	huma.Register(api, huma.Operation{OperationID: "close-tab", Method: http.MethodDelete, Path: "/api/v1/tabs/{tab_id}", Summary: "Close a tab", Tags: []string{"Tabs"}},
		func(ctx context.Context, input *tabIDInput) (*struct{}, error) {
			if !s.tabs.CloseTab(input.TabID) {
				return nil, mapErr(fmt.Errorf("tab %q: %w", input.TabID, ErrNotFound))
			}
			return &struct{}{}, nil
		})

	huma.Register(api, huma.Operation{OperationID: "select-tab", Method: http.MethodPost, Path: "/api/v1/tabs/{tab_id}/select", Summary: "Make a tab active", Tags: []string{"Tabs"}},
		func(ctx context.Context, input *tabIDInput) (*struct{}, error) {
			if !s.tabs.Registry().SelectTab(input.TabID) {
				return nil, mapErr(fmt.Errorf("tab %q: %w", input.TabID, ErrNotFound))
			}
			return &struct{}{}, nil
		})

	type navigateOutput struct {
		Body struct {
			URL string `json:"url"`
		}
	}
	huma.Register(api, huma.Operation{OperationID: "navigate-tab", Method: http.MethodPost, Path: "/api/v1/tabs/{tab_id}/navigate", Summary: "Load an address or search in a tab", Tags: []string{"Tabs"}},
		func(ctx context.Context, input *struct {
			TabID string `path:"tab_id"`
			Body  struct {
				Input string `json:"input" required:"true" doc:"Address or search text"`
			}
		}) (*navigateOutput, error) {
			if err := s.requireTab(input.TabID); err != nil {
				return nil, mapErr(err)
			}
			u, err := s.tabs.Navigate(input.TabID, s.target(input.Body.Input))
			if err != nil {
				return nil, mapErr(err)
			}
			out := &navigateOutput{}
			out.Body.URL = u
			return out, nil
		})

	huma.Register(api, huma.Operation{OperationID: "tab-history", Method: http.MethodPost, Path: "/api/v1/tabs/{tab_id}/history", Summary: "Go back, go forward or reload", Tags: []string{"Tabs"}},
		func(ctx context.Context, input *struct {
			TabID string `path:"tab_id"`
			Body  struct {
				Action string `json:"action" enum:"back,forward,reload" required:"true"`
			}
		}) (*struct{}, error) {
			if err := s.requireTab(input.TabID); err != nil {
				return nil, mapErr(err)
			}
			reg := s.tabs.Registry()
			var ok bool
			switch input.Body.Action {
			case "back":
				ok = reg.Back(input.TabID)
			case "forward":
				ok = reg.Forward(input.TabID)
			default:
				ok = reg.Reload(input.TabID)
			}
			if !ok {
				return nil, huma.Error409Conflict(fmt.Sprintf("tab %q has no content view yet", input.TabID))
			}
			return &struct{}{}, nil
		})
}
