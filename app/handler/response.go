package handler

import (
	"errors"
	"net/http"

	"tube-fusion/app/model"

	"github.com/gin-gonic/gin"
)

// ApiResponse 统一响应结构
type ApiResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

// success 统一成功响应
func success(c *gin.Context, data any, message string) {
	c.JSON(http.StatusOK, ApiResponse{
		Code:    0,
		Message: message,
		Data:    data,
	})
}

// fail 统一错误响应
func fail(c *gin.Context, statusCode int, errorCode int, message string) {
	c.JSON(statusCode, ApiResponse{
		Code:    errorCode,
		Message: message,
		Data:    nil,
	})
}

// failWith 按领域错误类型映射状态码：
// 记录不存在 -> 404，参数无效 -> 400，其余 -> 500
func failWith(c *gin.Context, err error) {
	switch {
	case errors.Is(err, model.ErrNotFound):
		fail(c, http.StatusNotFound, 404, err.Error())
	case errors.Is(err, model.ErrValidation):
		fail(c, http.StatusBadRequest, 400, err.Error())
	default:
		fail(c, http.StatusInternalServerError, 500, err.Error())
	}
}
