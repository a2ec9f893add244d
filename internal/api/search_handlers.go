package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/bookclub/bookclub-server/internal/service"
	"github.com/bookclub/bookclub-server/internal/typeahead"
)

func (s *Server) registerSearchRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "suggest",
		Method:      http.MethodGet,
		Path:        "/api/v1/search/suggest",
		Summary:     "Typeahead suggestions",
		Description: "Returns the books whose title starts with q, ignoring case",
		Tags:        []string{"Search"},
	}, s.handleSuggest)

	huma.Register(s.api, huma.Operation{
		OperationID: "searchEvent",
		Method:      http.MethodPost,
		Path:        "/api/v1/search/events",
		Summary:     "Drive the search dropdown",
		Description: "Applies one input event to the dropdown state held by the client and returns the next state plus the effects to render",
		Tags:        []string{"Search"},
	}, s.handleSearchEvent)
}

// SuggestInput is the typeahead query.
type SuggestInput struct {
	Query string `query:"q" maxLength:"200" doc:"Text typed so far"`
}

// SuggestResponse lists typeahead rows.
type SuggestResponse struct {
	Query       string                 `json:"query" doc:"Query as received"`
	Suggestions []typeahead.Suggestion `json:"suggestions" doc:"Matching books in catalog order"`
}

// SuggestOutput wraps suggestions for Huma.
type SuggestOutput struct {
	Body SuggestResponse
}

// SearchEventRequest carries the client's dropdown state and one event.
type SearchEventRequest struct {
	State *typeahead.State       `json:"state,omitempty" doc:"Current dropdown state; omitted means closed"`
	Event typeahead.EventMessage `json:"event" doc:"Event to apply"`
}

// SearchEventInput wraps the event request for Huma.
type SearchEventInput struct {
	Body SearchEventRequest
}

// SearchEventOutput wraps the next state for Huma.
type SearchEventOutput struct {
	Body service.EventsResult
}

func (s *Server) handleSuggest(_ context.Context, input *SuggestInput) (*SuggestOutput, error) {
	return &SuggestOutput{Body: SuggestResponse{
		Query:       input.Query,
		Suggestions: s.services.Search.Suggest(input.Query),
	}}, nil
}

func (s *Server) handleSearchEvent(_ context.Context, input *SearchEventInput) (*SearchEventOutput, error) {
	state := typeahead.Closed()
	if input.Body.State != nil {
		state = *input.Body.State
	}

	res, err := s.services.Search.Events(state, input.Body.Event)
	if err != nil {
		return nil, err
	}
	return &SearchEventOutput{Body: *res}, nil
}
