package utils

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// Response 统一API响应结构
type Response struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// PageResponse 带分页的API响应结构
type PageResponse struct {
	Response
	TotalCount  int `json:"totalCount"`
	CurrentPage int `json:"currentPage"`
	PageSize    int `json:"pageSize"`
}

func respond(c *gin.Context, status int, message string, data any) {
	c.JSON(status, Response{Code: status, Message: message, Data: data})
}

// Success 返回成功响应
func Success(c *gin.Context, data any) {
	respond(c, http.StatusOK, "success", data)
}

// SuccessWithPagination 返回带分页的成功响应
func SuccessWithPagination(c *gin.Context, data any, totalCount int, page Page) {
	c.JSON(http.StatusOK, PageResponse{
		Response:    Response{Code: http.StatusOK, Message: "success", Data: data},
		TotalCount:  totalCount,
		CurrentPage: page.Number,
		PageSize:    page.Size,
	})
}

// Created 返回创建成功响应
func Created(c *gin.Context, data any) {
	respond(c, http.StatusCreated, "created", data)
}

// BadRequest 返回请求错误响应
func BadRequest(c *gin.Context, message string) {
	respond(c, http.StatusBadRequest, message, nil)
}

// Unauthorized 返回未授权响应
func Unauthorized(c *gin.Context, message string) {
	respond(c, http.StatusUnauthorized, message, nil)
}

// Forbidden 返回权限不足响应
func Forbidden(c *gin.Context, message string) {
	respond(c, http.StatusForbidden, message, nil)
}

// Conflict 返回资源冲突响应
func Conflict(c *gin.Context, message string) {
	respond(c, http.StatusConflict, message, nil)
}

// NotFound 返回资源未找到响应
func NotFound(c *gin.Context, message string) {
	respond(c, http.StatusNotFound, message, nil)
}

// InternalServerError 返回服务器内部错误响应
func InternalServerError(c *gin.Context, message string) {
	respond(c, http.StatusInternalServerError, message, nil)
}

const (
	defaultPageSize = 10
	maxPageSize     = 100
	maxPageNumber   = 1000000
)

// Page 分页参数
type Page struct {
	Number int
	Size   int
}

// Offset 返回 SQL OFFSET
func (p Page) Offset() int {
	return (p.Number - 1) * p.Size
}

// ParsePage 读取 page、pageSize 查询参数，非法值取默认
func ParsePage(c *gin.Context) Page {
	number, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || number < 1 {
		number = 1
	}
	if number > maxPageNumber {
		number = maxPageNumber
	}
	size, err := strconv.Atoi(c.DefaultQuery("pageSize", strconv.Itoa(defaultPageSize)))
	if err != nil || size < 1 {
		size = defaultPageSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}
	return Page{Number: number, Size: size}
}
