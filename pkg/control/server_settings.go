package control

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/entrhq/hypergx/pkg/settings"
)

func registerSettingsHandlers(api huma.API, s *Server) {
	type settingsOutput struct {
		Body settings.State
	}

	huma.Register(api, huma.Operation{OperationID: "export-settings", Method: http.MethodGet, Path: "/api/v1/settings", Summary: "Export the settings snapshot", Tags: []string{"Settings"}},
		func(ctx context.Context, input *struct{}) (*settingsOutput, error) {
			out := &settingsOutput{}
			out.Body = s.store.State()
			return out, nil
		})

	huma.Register(api, huma.Operation{OperationID: "import-settings", Method: http.MethodPost, Path: "/api/v1/settings", Summary: "Import a settings snapshot (or a subset of its fields)", Tags: []string{"Settings"}},
		func(ctx context.Context, input *struct {
			RawBody []byte `contentType:"application/json"`
		}) (*settingsOutput, error) {
			if err := s.store.Import(string(input.RawBody)); err != nil {
				return nil, mapErr(err)
			}
			out := &settingsOutput{}
			out.Body = s.store.State()
			return out, nil
		})
}
