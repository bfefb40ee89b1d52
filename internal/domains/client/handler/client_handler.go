package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"publisher-backoffice/internal/domains/client/model"
	"publisher-backoffice/internal/domains/client/service"
	"publisher-backoffice/internal/shared/pagination"
	"publisher-backoffice/internal/shared/response"
	"publisher-backoffice/internal/shared/utils"
)

type ClientHandler struct {
	service service.ServiceInterface
}

func NewClientHandler(svc service.ServiceInterface) *ClientHandler {
	return &ClientHandler{service: svc}
}

// ════════════════════════════════════════════════════════════════
// CREATE: POST /v1/clients
// ════════════════════════════════════════════════════════════════

func (h *ClientHandler) Create(c *gin.Context) {
	var req model.ClientRequest
	if err := c.ShouldBind(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	cl, err := h.service.CreateClient(c.Request.Context(), req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, "Client created successfully", cl.ToResponse())
}

// ════════════════════════════════════════════════════════════════
// READ: GET /v1/clients/:id
// ════════════════════════════════════════════════════════════════

func (h *ClientHandler) GetByID(c *gin.Context) {
	id, err := utils.ParseID(c, "id")
	if err != nil {
		response.FromError(c, err)
		return
	}

	cl, err := h.service.GetClient(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Get client successfully", cl.ToResponse())
}

// ════════════════════════════════════════════════════════════════
// READ: GET /v1/clients?page=1&page_size=10
// ════════════════════════════════════════════════════════════════

func (h *ClientHandler) List(c *gin.Context) {
	page, size := utils.PageQuery(c)

	result, err := h.service.ListClients(c.Request.Context(), page, size)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.SuccessPage(c, "Get clients successfully", pagination.Map(result, toResponse))
}

// ════════════════════════════════════════════════════════════════
// READ: GET /v1/clients/all
// ════════════════════════════════════════════════════════════════

func (h *ClientHandler) ListAll(c *gin.Context) {
	clients, err := h.service.ListAllClients(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}

	out := make([]model.ClientResponse, len(clients))
	for i := range clients {
		out[i] = clients[i].ToResponse()
	}
	response.Success(c, http.StatusOK, "Get clients successfully", out)
}

// ════════════════════════════════════════════════════════════════
// UPDATE: PUT /v1/clients/:id
// ════════════════════════════════════════════════════════════════

func (h *ClientHandler) Update(c *gin.Context) {
	id, err := utils.ParseID(c, "id")
	if err != nil {
		response.FromError(c, err)
		return
	}

	var req model.ClientRequest
	if err := c.ShouldBind(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	cl, err := h.service.UpdateClient(c.Request.Context(), id, req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Client updated successfully", cl.ToResponse())
}

// ════════════════════════════════════════════════════════════════
// DELETE: DELETE /v1/clients/:id
// ════════════════════════════════════════════════════════════════

func (h *ClientHandler) Delete(c *gin.Context) {
	id, err := utils.ParseID(c, "id")
	if err != nil {
		response.FromError(c, err)
		return
	}

	if err := h.service.DeleteClient(c.Request.Context(), id); err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Client deleted successfully", nil)
}

func toResponse(cl model.Client) model.ClientResponse {
	return cl.ToResponse()
}
