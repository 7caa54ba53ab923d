package middleware

import (
	"net/http"
	"strings"

	"github.com/hgalarze/mcfood-backend/internal/util"

	"github.com/gin-gonic/gin"
)

// 登录 token 所在的 cookie 名
const AuthCookie = "authtoken"

// context 里存放解码后 Claims 的 key
const ClaimsKey = "currentClaims"

// TokenMiddleware 校验 JWT，并把解码后的身份放进 context。
// token 优先取 cookie authtoken，其次取 Authorization: Bearer 头；
// token 自包含，这里不查库。过期只会直接拒绝，需要重新登录。
func TokenMiddleware(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var tokenStr string

		// 1) Cookie authtoken
		if cookie, err := c.Cookie(AuthCookie); err == nil && cookie != "" {
			tokenStr = cookie
		}

		// 2) Header: Authorization: Bearer xxx
		if tokenStr == "" {
			authHeader := c.GetHeader("Authorization")
			if authHeader != "" {
				parts := strings.SplitN(authHeader, " ", 2)
				if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
					tokenStr = parts[1]
				}
			}
		}

		if tokenStr == "" {
			util.Error(c, http.StatusBadRequest, util.CodeAuth, "Missing access token")
			c.Abort()
			return
		}

		claims, err := util.ParseToken(jwtSecret, tokenStr)
		if err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeAuth, "Invalid access token")
			c.Abort()
			return
		}

		c.Set(ClaimsKey, claims)
		c.Next()
	}
}

// CurrentClaims 从 context 取出当前登录身份，未登录返回 nil。
func CurrentClaims(c *gin.Context) *util.Claims {
	v, ok := c.Get(ClaimsKey)
	if !ok {
		return nil
	}
	claims, ok := v.(*util.Claims)
	if !ok {
		return nil
	}
	return claims
}
