// Package handler 实现目录各资源的 HTTP 接口。
package handler

import (
	"github.com/hgalarze/mcfood-backend/internal/search"
	"github.com/hgalarze/mcfood-backend/internal/util"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// objectIDFromParam 解析路径参数里的文档 id
func objectIDFromParam(c *gin.Context) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return primitive.NilObjectID, util.NewValidationError("Invalid id %s", c.Param("id"))
	}
	return id, nil
}

// searchParams 从查询串取出搜索参数，解析和收敛交给 search 包
func searchParams(c *gin.Context) search.Params {
	return search.Params{
		Query:    c.Query("query"),
		Page:     c.Query("page"),
		PageSize: c.Query("pageSize"),
		Sort:     c.Query("sort"),
	}
}
