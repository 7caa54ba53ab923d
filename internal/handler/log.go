package handler

import (
	"encoding/base64"
	"strconv"

	"github.com/hgalarze/mcfood-backend/internal/database"
	"github.com/hgalarze/mcfood-backend/internal/models"
	"github.com/hgalarze/mcfood-backend/internal/util"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// LogHandler 负责审计日志查询
type LogHandler struct {
	DB         *mongo.Database
	EncryptKey string
}

// NewLogHandler 构造函数
func NewLogHandler(db *mongo.Database, encryptKey string) *LogHandler {
	return &LogHandler{DB: db, EncryptKey: encryptKey}
}

// decryptField 尝试解密 base64+AES，失败则返回原值
func (h *LogHandler) decryptField(cipherStr string) string {
	if cipherStr == "" || h.EncryptKey == "" {
		return cipherStr
	}
	b, err := base64.StdEncoding.DecodeString(cipherStr)
	if err != nil {
		return cipherStr
	}
	plain, err := util.DecryptAES(h.EncryptKey, b)
	if err != nil {
		return cipherStr
	}
	return string(plain)
}

// List 分页返回审计日志，按时间倒序
func (h *LogHandler) List(c *gin.Context) {
	page := 1
	if n, err := strconv.Atoi(c.Query("page")); err == nil && n > 1 {
		page = n
	}
	pageSize := 20
	if n, err := strconv.Atoi(c.Query("pageSize")); err == nil && n >= 1 && n <= 100 {
		pageSize = n
	}

	ctx := c.Request.Context()
	coll := h.DB.Collection(database.AuditLogCollection)

	total, err := coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		util.Fail(c, err)
		return
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(int64((page - 1) * pageSize)).
		SetLimit(int64(pageSize))

	cur, err := coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		util.Fail(c, err)
		return
	}

	logs := make([]models.AuditLog, 0, pageSize)
	if err := cur.All(ctx, &logs); err != nil {
		util.Fail(c, err)
		return
	}

	// 请求体展示前解密
	for i := range logs {
		logs[i].Body = h.decryptField(logs[i].Body)
	}

	util.Success(c, util.Response{
		"logs":     logs,
		"total":    total,
		"page":     page,
		"pageSize": pageSize,
	})
}
