package server

import (
	"github.com/labstack/echo/v4"
)

// Envelope is the uniform response shape of every endpoint.
type Envelope struct {
	Success    bool   `json:"success"`
	Data       any    `json:"data,omitempty"`
	Message    string `json:"message,omitempty"`
	Error      string `json:"error,omitempty"`
	Pagination any    `json:"pagination,omitempty"`
}

// ArticlePagination is the paging block of article listings.
type ArticlePagination struct {
	CurrentPage   int `json:"currentPage"`
	TotalPages    int `json:"totalPages"`
	TotalArticles int `json:"totalArticles"`
}

// AnalysisPagination is the paging block of analysis listings.
type AnalysisPagination struct {
	CurrentPage   int `json:"currentPage"`
	TotalPages    int `json:"totalPages"`
	TotalAnalyses int `json:"totalAnalyses"`
}

func totalPages(total, limit int) int {
	if limit < 1 {
		return 0
	}
	return (total + limit - 1) / limit
}

func respondData(c echo.Context, status int, data any) error {
	return c.JSON(status, Envelope{Success: true, Data: data})
}

func respondMessage(c echo.Context, status int, data any, message string) error {
	return c.JSON(status, Envelope{Success: true, Data: data, Message: message})
}

func respondPage(c echo.Context, status int, data, pagination any) error {
	return c.JSON(status, Envelope{Success: true, Data: data, Pagination: pagination})
}

// respondError carries the human-readable message; detail is the raw error
// text and is only attached in development mode.
func respondError(c echo.Context, status int, message, detail string) error {
	return c.JSON(status, Envelope{Success: false, Message: message, Error: detail})
}
