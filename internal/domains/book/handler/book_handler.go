package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"publisher-backoffice/internal/domains/book/model"
	"publisher-backoffice/internal/domains/book/service"
	"publisher-backoffice/internal/shared/pagination"
	"publisher-backoffice/internal/shared/response"
	"publisher-backoffice/internal/shared/utils"
)

type BookHandler struct {
	service service.ServiceInterface
}

func NewBookHandler(svc service.ServiceInterface) *BookHandler {
	return &BookHandler{service: svc}
}

// ════════════════════════════════════════════════════════════════
// CREATE: POST /v1/books
// ════════════════════════════════════════════════════════════════

func (h *BookHandler) Create(c *gin.Context) {
	var req model.BookRequest
	if err := c.ShouldBind(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	b, err := h.service.CreateBook(c.Request.Context(), req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, "Book created successfully", b.ToResponse())
}

// ════════════════════════════════════════════════════════════════
// READ: GET /v1/books/:id
// ════════════════════════════════════════════════════════════════

func (h *BookHandler) GetByID(c *gin.Context) {
	id, err := utils.ParseID(c, "id")
	if err != nil {
		response.FromError(c, err)
		return
	}

	b, err := h.service.GetBook(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Get book successfully", b.ToResponse())
}

// ════════════════════════════════════════════════════════════════
// READ: GET /v1/books?page=1&page_size=10
// ════════════════════════════════════════════════════════════════

func (h *BookHandler) List(c *gin.Context) {
	page, size := utils.PageQuery(c)

	result, err := h.service.ListBooks(c.Request.Context(), page, size)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.SuccessPage(c, "Get books successfully", pagination.Map(result, toResponse))
}

// ════════════════════════════════════════════════════════════════
// UPDATE: PUT /v1/books/:id
// ════════════════════════════════════════════════════════════════

func (h *BookHandler) Update(c *gin.Context) {
	id, err := utils.ParseID(c, "id")
	if err != nil {
		response.FromError(c, err)
		return
	}

	var req model.BookRequest
	if err := c.ShouldBind(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	b, err := h.service.UpdateBook(c.Request.Context(), id, req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Book updated successfully", b.ToResponse())
}

// ════════════════════════════════════════════════════════════════
// AUTHORS: PUT /v1/books/:id/authors (replace), POST (extend)
// ════════════════════════════════════════════════════════════════

func (h *BookHandler) SetAuthors(c *gin.Context) {
	h.changeAuthors(c, h.service.SetBookAuthors)
}

func (h *BookHandler) AddAuthors(c *gin.Context) {
	h.changeAuthors(c, h.service.AddBookAuthors)
}

func (h *BookHandler) changeAuthors(c *gin.Context, apply func(ctx context.Context, id int64, ids []int64) (*model.Book, error)) {
	id, err := utils.ParseID(c, "id")
	if err != nil {
		response.FromError(c, err)
		return
	}

	var req model.BookAuthorsRequest
	if err := c.ShouldBind(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	b, err := apply(c.Request.Context(), id, req.AuthorIDs)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Book authors updated successfully", b.ToResponse())
}

// ════════════════════════════════════════════════════════════════
// DELETE: DELETE /v1/books/:id
// ════════════════════════════════════════════════════════════════

func (h *BookHandler) Delete(c *gin.Context) {
	id, err := utils.ParseID(c, "id")
	if err != nil {
		response.FromError(c, err)
		return
	}

	if err := h.service.DeleteBook(c.Request.Context(), id); err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Book deleted successfully", nil)
}

func toResponse(b model.Book) model.BookResponse {
	return b.ToResponse()
}
