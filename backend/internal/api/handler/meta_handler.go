package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/Robproces360/Interfilling-performance/backend/internal/service"
	"github.com/Robproces360/Interfilling-performance/backend/pkg/response"
)

// MetaHandler 前端筛选控件元数据的 HTTP 处理器
type MetaHandler struct {
	downtimeSvc service.DowntimeService
}

// NewMetaHandler 创建 MetaHandler
func NewMetaHandler(downtimeSvc service.DowntimeService) *MetaHandler {
	return &MetaHandler{downtimeSvc: downtimeSvc}
}

// Filters 筛选控件可选项与数据加载报告
// GET /api/v1/meta/filters
func (h *MetaHandler) Filters(c *gin.Context) {
	result, err := h.downtimeSvc.FilterOptions(c.Request.Context())
	if err != nil {
		// 停机数据是主数据源，加载失败对整个看板致命
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}
