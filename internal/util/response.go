package util

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// 通用返回结构里的 data 使用 map
type Response map[string]interface{}

// Success 统一成功返回
func Success(c *gin.Context, data Response) {
	c.JSON(http.StatusOK, gin.H{
		"code": CodeOK,
		"data": data,
	})
}

// Created 创建成功返回（201）
func Created(c *gin.Context, data Response) {
	c.JSON(http.StatusCreated, gin.H{
		"code": CodeOK,
		"data": data,
	})
}

// SuccessData 统一成功返回（data 为任意结构，用于分页信封等）
func SuccessData(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, gin.H{
		"code": CodeOK,
		"data": data,
	})
}

// Error 统一错误返回
func Error(c *gin.Context, httpStatus int, code int, msg string) {
	c.JSON(httpStatus, gin.H{
		"code":    code,
		"message": msg,
	})
}

// Fail 把错误映射为响应：AppError 按其状态分类返回，
// 其余一律视为内部错误（500）。204 空结果不带响应体。
func Fail(c *gin.Context, err error) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		if appErr.Status == http.StatusNoContent {
			c.Status(http.StatusNoContent)
			return
		}
		Error(c, appErr.Status, appErr.Code, appErr.Message)
		return
	}
	Error(c, http.StatusInternalServerError, CodeServerErr, "Internal server error")
}
