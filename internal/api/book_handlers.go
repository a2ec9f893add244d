package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/bookclub/bookclub-server/internal/domain"
	"github.com/bookclub/bookclub-server/internal/service"
)

func (s *Server) registerBookRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listBooks",
		Method:      http.MethodGet,
		Path:        "/api/v1/books",
		Summary:     "List books",
		Description: "Returns the catalog in display order, optionally filtered by title or author",
		Tags:        []string{"Books"},
	}, s.handleListBooks)

	huma.Register(s.api, huma.Operation{
		OperationID: "getBook",
		Method:      http.MethodGet,
		Path:        "/api/v1/books/{id}",
		Summary:     "Get book",
		Description: "Returns one book and what the visitor may do with it",
		Tags:        []string{"Books"},
	}, s.handleGetBook)

	huma.Register(s.api, huma.Operation{
		OperationID: "purchaseBook",
		Method:      http.MethodPost,
		Path:        "/api/v1/books/{id}/purchase",
		Summary:     "Purchase book",
		Description: "Records a purchase on this device. Requires a signed-in session.",
		Tags:        []string{"Books"},
	}, s.handlePurchaseBook)

	huma.Register(s.api, huma.Operation{
		OperationID: "rateBook",
		Method:      http.MethodPost,
		Path:        "/api/v1/books/{id}/rate",
		Summary:     "Rate book",
		Description: "Stores the visitor's 1 to 5 star rating, replacing an earlier one. Requires a signed-in session.",
		Tags:        []string{"Reviews"},
	}, s.handleRateBook)

	huma.Register(s.api, huma.Operation{
		OperationID: "listComments",
		Method:      http.MethodGet,
		Path:        "/api/v1/books/{id}/comments",
		Summary:     "List comments",
		Description: "Returns the comments left on a book on this device, newest first",
		Tags:        []string{"Reviews"},
	}, s.handleListComments)

	huma.Register(s.api, huma.Operation{
		OperationID:   "addComment",
		Method:        http.MethodPost,
		Path:          "/api/v1/books/{id}/comments",
		Summary:       "Add comment",
		Description:   "Posts a comment as the signed-in visitor",
		Tags:          []string{"Reviews"},
		DefaultStatus: http.StatusCreated,
	}, s.handleAddComment)

	huma.Register(s.api, huma.Operation{
		OperationID: "listPurchases",
		Method:      http.MethodGet,
		Path:        "/api/v1/purchases",
		Summary:     "List purchases",
		Description: "Returns the books purchased on this device",
		Tags:        []string{"Books"},
	}, s.handleListPurchases)
}

// ListBooksInput filters the catalog.
type ListBooksInput struct {
	Query string `query:"q" maxLength:"200" doc:"Title or author search"`
}

// BookListResponse is a list of books.
type BookListResponse struct {
	Query string        `json:"query,omitempty" doc:"Search applied, if any"`
	Books []domain.Book `json:"books" doc:"Books in catalog order"`
}

// BookListOutput wraps a book list for Huma.
type BookListOutput struct {
	Body BookListResponse
}

// BookIDInput is a book path parameter.
type BookIDInput struct {
	ID string `path:"id" maxLength:"100" doc:"Book ID"`
}

// BookOutput wraps a book view for Huma.
type BookOutput struct {
	Body service.BookView
}

// RateInput is a star rating for one book.
type RateInput struct {
	ID   string `path:"id" maxLength:"100" doc:"Book ID"`
	Body struct {
		Stars int `json:"stars" minimum:"1" maximum:"5" doc:"Stars from 1 to 5"`
	}
}

// RatingOutput wraps a stored rating for Huma.
type RatingOutput struct {
	Body domain.Rating
}

// CommentInput is a new comment on one book.
type CommentInput struct {
	ID   string `path:"id" maxLength:"100" doc:"Book ID"`
	Body struct {
		Content string `json:"content" minLength:"1" maxLength:"1000" doc:"Comment text"`
	}
}

// CommentOutput wraps a stored comment for Huma.
type CommentOutput struct {
	Body domain.Comment
}

// CommentListResponse is a book's comments.
type CommentListResponse struct {
	Comments []domain.Comment `json:"comments" doc:"Newest first"`
}

// CommentListOutput wraps a comment list for Huma.
type CommentListOutput struct {
	Body CommentListResponse
}

func (s *Server) handleListBooks(ctx context.Context, input *ListBooksInput) (*BookListOutput, error) {
	res, err := s.services.Search.Library(ctx, input.Query)
	if err != nil {
		return nil, err
	}
	return &BookListOutput{Body: BookListResponse{Query: res.Query, Books: res.Books}}, nil
}

func (s *Server) handleGetBook(ctx context.Context, input *BookIDInput) (*BookOutput, error) {
	scope, err := requireScope(ctx)
	if err != nil {
		return nil, err
	}

	view, err := s.services.Book.Detail(ctx, scope, input.ID)
	if err != nil {
		return nil, err
	}
	return &BookOutput{Body: *view}, nil
}

func (s *Server) handlePurchaseBook(ctx context.Context, input *BookIDInput) (*BookOutput, error) {
	scope, err := requireScope(ctx)
	if err != nil {
		return nil, err
	}

	view, err := s.services.Book.Purchase(ctx, scope, input.ID)
	if err != nil {
		return nil, err
	}
	return &BookOutput{Body: *view}, nil
}

func (s *Server) handleListPurchases(ctx context.Context, _ *struct{}) (*BookListOutput, error) {
	scope, err := requireScope(ctx)
	if err != nil {
		return nil, err
	}
	return &BookListOutput{Body: BookListResponse{Books: s.services.Book.Purchases(ctx, scope)}}, nil
}

func (s *Server) handleRateBook(ctx context.Context, input *RateInput) (*RatingOutput, error) {
	scope, err := requireScope(ctx)
	if err != nil {
		return nil, err
	}

	rating, err := s.services.Book.Rate(ctx, scope, input.ID, input.Body.Stars)
	if err != nil {
		return nil, err
	}
	return &RatingOutput{Body: *rating}, nil
}

func (s *Server) handleListComments(ctx context.Context, input *BookIDInput) (*CommentListOutput, error) {
	scope, err := requireScope(ctx)
	if err != nil {
		return nil, err
	}

	comments, err := s.services.Book.Comments(ctx, scope, input.ID)
	if err != nil {
		return nil, err
	}
	return &CommentListOutput{Body: CommentListResponse{Comments: comments}}, nil
}

func (s *Server) handleAddComment(ctx context.Context, input *CommentInput) (*CommentOutput, error) {
	scope, err := requireScope(ctx)
	if err != nil {
		return nil, err
	}

	comment, err := s.services.Book.AddComment(ctx, scope, input.ID, input.Body.Content)
	if err != nil {
		return nil, err
	}
	return &CommentOutput{Body: *comment}, nil
}
