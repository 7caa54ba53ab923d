package middleware

import (
	"bytes"
	"encoding/base64"
	"io"
	"time"

	"github.com/hgalarze/mcfood-backend/internal/database"
	"github.com/hgalarze/mcfood-backend/internal/models"
	"github.com/hgalarze/mcfood-backend/internal/util"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
)

func encryptField(encryptKey, plain string) (string, error) {
	if plain == "" || encryptKey == "" {
		return plain, nil
	}
	b, err := util.EncryptAES(encryptKey, []byte(plain))
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(b), nil
}

// AuditMiddleware 记录登录用户对受保护接口的每次调用，
// 请求体加密后写入 auditlogs 集合。写日志失败不影响请求本身。
func AuditMiddleware(db *mongo.Database, encryptKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 读取请求体，读完塞回去供 handler 使用
		var bodyBytes []byte
		if c.Request.Body != nil {
			bodyBytes, _ = io.ReadAll(c.Request.Body)
			c.Request.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))
		}

		// 执行请求
		c.Next()

		// 只记录登录用户的操作
		claims := CurrentClaims(c)
		if claims == nil {
			return
		}

		var body string
		if len(bodyBytes) > 0 && len(bodyBytes) < 2000 {
			body = string(bodyBytes)
		}
		bodyEnc, err := encryptField(encryptKey, body)
		if err != nil {
			bodyEnc = ""
		}

		entry := models.AuditLog{
			UserID:    claims.UserID,
			UserEmail: claims.UserEmail,
			Method:    c.Request.Method,
			Path:      c.Request.URL.Path,
			Body:      bodyEnc,
			Status:    c.Writer.Status(),
			CreatedAt: time.Now(),
		}

		_, _ = db.Collection(database.AuditLogCollection).InsertOne(c.Request.Context(), entry)
	}
}
