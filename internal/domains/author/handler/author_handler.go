package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"publisher-backoffice/internal/domains/author/model"
	"publisher-backoffice/internal/domains/author/service"
	"publisher-backoffice/internal/shared/pagination"
	"publisher-backoffice/internal/shared/response"
	"publisher-backoffice/internal/shared/utils"
)

type AuthorHandler struct {
	service service.ServiceInterface
}

func NewAuthorHandler(svc service.ServiceInterface) *AuthorHandler {
	return &AuthorHandler{service: svc}
}

// ════════════════════════════════════════════════════════════════
// CREATE: POST /v1/authors
// ════════════════════════════════════════════════════════════════

func (h *AuthorHandler) Create(c *gin.Context) {
	var req model.AuthorRequest
	if err := c.ShouldBind(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	a, err := h.service.CreateAuthor(c.Request.Context(), req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, "Author created successfully", a.ToResponse())
}

// ════════════════════════════════════════════════════════════════
// READ: GET /v1/authors/:id
// ════════════════════════════════════════════════════════════════

func (h *AuthorHandler) GetByID(c *gin.Context) {
	id, err := utils.ParseID(c, "id")
	if err != nil {
		response.FromError(c, err)
		return
	}

	a, err := h.service.GetAuthor(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Get author successfully", a.ToResponse())
}

// ════════════════════════════════════════════════════════════════
// READ: GET /v1/authors?page=1&page_size=10
// ════════════════════════════════════════════════════════════════

func (h *AuthorHandler) List(c *gin.Context) {
	page, size := utils.PageQuery(c)

	result, err := h.service.ListAuthors(c.Request.Context(), page, size)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.SuccessPage(c, "Get authors successfully", pagination.Map(result, toResponse))
}

// ════════════════════════════════════════════════════════════════
// READ: GET /v1/authors/all
// ════════════════════════════════════════════════════════════════

func (h *AuthorHandler) ListAll(c *gin.Context) {
	authors, err := h.service.ListAllAuthors(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}

	out := make([]model.AuthorResponse, len(authors))
	for i := range authors {
		out[i] = authors[i].ToResponse()
	}
	response.Success(c, http.StatusOK, "Get authors successfully", out)
}

// ════════════════════════════════════════════════════════════════
// UPDATE: PUT /v1/authors/:id
// ════════════════════════════════════════════════════════════════

func (h *AuthorHandler) Update(c *gin.Context) {
	id, err := utils.ParseID(c, "id")
	if err != nil {
		response.FromError(c, err)
		return
	}

	var req model.AuthorRequest
	if err := c.ShouldBind(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	a, err := h.service.UpdateAuthor(c.Request.Context(), id, req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Author updated successfully", a.ToResponse())
}

// ════════════════════════════════════════════════════════════════
// DELETE: DELETE /v1/authors/:id
// ════════════════════════════════════════════════════════════════

func (h *AuthorHandler) Delete(c *gin.Context) {
	id, err := utils.ParseID(c, "id")
	if err != nil {
		response.FromError(c, err)
		return
	}

	if err := h.service.DeleteAuthor(c.Request.Context(), id); err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Author deleted successfully", nil)
}

func toResponse(a model.Author) model.AuthorResponse {
	return a.ToResponse()
}
