package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/hgalarze/mcfood-backend/internal/database"
	"github.com/hgalarze/mcfood-backend/internal/middleware"
	"github.com/hgalarze/mcfood-backend/internal/models"
	"github.com/hgalarze/mcfood-backend/internal/search"
	"github.com/hgalarze/mcfood-backend/internal/util"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// 账号不存在和密码错误必须返回同一条信息，避免暴露哪个环节失败
const invalidCredentialsMsg = "User or password are incorrect"

// 登录 cookie 的外层有效期：24 小时。
// token 本身 1 小时就过期，cookie 只是传输层的宽松上界。
const authCookieTTL = 24 * time.Hour

// UserHandler 负责用户 CRUD、搜索和登录
type UserHandler struct {
	DB        *mongo.Database
	JWTSecret string
	TokenTTL  time.Duration
}

// NewUserHandler 构造函数
func NewUserHandler(db *mongo.Database, jwtSecret string, ttlMinutes int) *UserHandler {
	if ttlMinutes <= 0 {
		ttlMinutes = 60
	}
	return &UserHandler{
		DB:        db,
		JWTSecret: jwtSecret,
		TokenTTL:  time.Duration(ttlMinutes) * time.Minute,
	}
}

func (h *UserHandler) col() *mongo.Collection {
	return h.DB.Collection(database.UserCollection)
}

// ---------- 请求结构 ----------

type userReq struct {
	FirstName string `json:"firstName" binding:"required,min=2,max=30"`
	LastName  string `json:"lastName" binding:"required,min=2,max=30"`
	Email     string `json:"email" binding:"required,email,max=30"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
	Password  string `json:"password"`
}

type userPatchReq struct {
	FirstName *string `json:"firstName" binding:"omitempty,min=2,max=30"`
	LastName  *string `json:"lastName" binding:"omitempty,min=2,max=30"`
	Email     *string `json:"email" binding:"omitempty,email,max=30"`
	Phone     *string `json:"phone"`
	Address   *string `json:"address"`
	Password  *string `json:"password"`
}

// normalize 和原数据模型保持一致：文本字段去空白并转小写
func (r *userReq) normalize() {
	r.FirstName = strings.ToLower(strings.TrimSpace(r.FirstName))
	r.LastName = strings.ToLower(strings.TrimSpace(r.LastName))
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.Phone = strings.TrimSpace(r.Phone)
	r.Address = strings.ToLower(strings.TrimSpace(r.Address))
}

// checkRawPassword 校验新密码：必须是符合强度的明文。
// 已经长得像 bcrypt 哈希的值直接拒绝，防止把哈希再哈希一遍。
func checkRawPassword(pwd string) error {
	if util.IsHashedValue(pwd) || !util.IsValidPassword(pwd) {
		return util.NewValidationError(
			"Password must be between 6 and 12 characters, with at least one number, one uppercase letter and one lowercase letter")
	}
	return nil
}

// findUserByID 查不到返回 404
func (h *UserHandler) findUserByID(c *gin.Context, id primitive.ObjectID) (*models.User, error) {
	var user models.User
	err := h.col().FindOne(c.Request.Context(), bson.M{"_id": id}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, util.NewNotFound("There are no user by id %s", id.Hex())
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// ---------- 列表 / 详情 ----------

// List 返回全部用户，空集合按约定返回 204
func (h *UserHandler) List(c *gin.Context) {
	cur, err := h.col().Find(c.Request.Context(), bson.M{})
	if err != nil {
		util.Fail(c, err)
		return
	}

	users := make([]models.User, 0)
	if err := cur.All(c.Request.Context(), &users); err != nil {
		util.Fail(c, err)
		return
	}

	if len(users) == 0 {
		util.Fail(c, util.NewEmptyResult("There are no users"))
		return
	}

	util.Success(c, util.Response{"users": users})
}

// GetByID 按 id 返回用户
func (h *UserHandler) GetByID(c *gin.Context) {
	id, err := objectIDFromParam(c)
	if err != nil {
		util.Fail(c, err)
		return
	}

	user, err := h.findUserByID(c, id)
	if err != nil {
		util.Fail(c, err)
		return
	}

	util.Success(c, util.Response{"user": user})
}

// ---------- 创建 ----------

// Create 新建用户：邮箱唯一，密码先校验强度再哈希，只哈希这一次
func (h *UserHandler) Create(c *gin.Context) {
	var req userReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Fail(c, util.NewValidationError("Invalid request body"))
		return
	}
	req.normalize()

	if err := checkRawPassword(req.Password); err != nil {
		util.Fail(c, err)
		return
	}

	// 先查重，竞态下的重复插入由唯一索引兜底
	count, err := h.col().CountDocuments(c.Request.Context(), bson.M{"email": req.Email})
	if err != nil {
		util.Fail(c, err)
		return
	}
	if count > 0 {
		util.Fail(c, util.NewConflict("User with this email already exists"))
		return
	}

	hash, err := util.HashPassword(req.Password)
	if err != nil {
		util.Fail(c, err)
		return
	}

	now := time.Now()
	user := models.User{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		Phone:        req.Phone,
		Address:      req.Address,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if _, err := h.col().InsertOne(c.Request.Context(), user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			util.Fail(c, util.NewConflict("User with this email already exists"))
			return
		}
		util.Fail(c, err)
		return
	}

	util.Created(c, util.Response{"message": "User created"})
}

// ---------- 更新 ----------

// Update PUT 全量覆盖。密码只有在请求里带了新明文时才重新哈希，
// 否则保留已有的哈希。
func (h *UserHandler) Update(c *gin.Context) {
	id, err := objectIDFromParam(c)
	if err != nil {
		util.Fail(c, err)
		return
	}

	var req userReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Fail(c, util.NewValidationError("Invalid request body"))
		return
	}
	req.normalize()

	if _, err := h.findUserByID(c, id); err != nil {
		util.Fail(c, err)
		return
	}

	set := bson.M{
		"firstName": req.FirstName,
		"lastName":  req.LastName,
		"email":     req.Email,
		"phone":     req.Phone,
		"address":   req.Address,
		"updatedAt": time.Now(),
	}
	if req.Password != "" {
		if err := checkRawPassword(req.Password); err != nil {
			util.Fail(c, err)
			return
		}
		hash, err := util.HashPassword(req.Password)
		if err != nil {
			util.Fail(c, err)
			return
		}
		set["passwordHash"] = hash
	}

	updated, err := h.applyUpdate(c, id, set)
	if err != nil {
		util.Fail(c, err)
		return
	}

	util.Created(c, util.Response{"user": updated})
}

// Patch 部分更新：只写请求里出现的字段
func (h *UserHandler) Patch(c *gin.Context) {
	id, err := objectIDFromParam(c)
	if err != nil {
		util.Fail(c, err)
		return
	}

	var req userPatchReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Fail(c, util.NewValidationError("Invalid request body"))
		return
	}

	if _, err := h.findUserByID(c, id); err != nil {
		util.Fail(c, err)
		return
	}

	set := bson.M{"updatedAt": time.Now()}
	if req.FirstName != nil {
		set["firstName"] = strings.ToLower(strings.TrimSpace(*req.FirstName))
	}
	if req.LastName != nil {
		set["lastName"] = strings.ToLower(strings.TrimSpace(*req.LastName))
	}
	if req.Email != nil {
		set["email"] = strings.ToLower(strings.TrimSpace(*req.Email))
	}
	if req.Phone != nil {
		set["phone"] = strings.TrimSpace(*req.Phone)
	}
	if req.Address != nil {
		set["address"] = strings.ToLower(strings.TrimSpace(*req.Address))
	}
	if req.Password != nil {
		if err := checkRawPassword(*req.Password); err != nil {
			util.Fail(c, err)
			return
		}
		hash, err := util.HashPassword(*req.Password)
		if err != nil {
			util.Fail(c, err)
			return
		}
		set["passwordHash"] = hash
	}

	updated, err := h.applyUpdate(c, id, set)
	if err != nil {
		util.Fail(c, err)
		return
	}

	util.Created(c, util.Response{"user": updated})
}

// applyUpdate $set 并返回更新后的文档
func (h *UserHandler) applyUpdate(c *gin.Context, id primitive.ObjectID, set bson.M) (*models.User, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated models.User
	err := h.col().FindOneAndUpdate(
		c.Request.Context(),
		bson.M{"_id": id},
		bson.M{"$set": set},
		opts,
	).Decode(&updated)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, util.NewNotFound("There are no user by id %s", id.Hex())
	}
	if mongo.IsDuplicateKeyError(err) {
		return nil, util.NewConflict("User with this email already exists")
	}
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// ---------- 删除 ----------

// Delete 按 id 删除用户
func (h *UserHandler) Delete(c *gin.Context) {
	id, err := objectIDFromParam(c)
	if err != nil {
		util.Fail(c, err)
		return
	}

	if _, err := h.findUserByID(c, id); err != nil {
		util.Fail(c, err)
		return
	}

	if err := h.col().FindOneAndDelete(c.Request.Context(), bson.M{"_id": id}).Err(); err != nil &&
		!errors.Is(err, mongo.ErrNoDocuments) {
		util.Fail(c, err)
		return
	}

	util.Success(c, util.Response{"message": "User deleted successfully"})
}

// ---------- 搜索 ----------

// Search 模糊搜索用户：邮箱子串、姓名/地址全词、电话按数字模糊。
// 空结果也返回 200 的空分页信封。
func (h *UserHandler) Search(c *gin.Context) {
	res, err := search.Run[models.User](c.Request.Context(), h.col(), search.Users, searchParams(c))
	if err != nil {
		util.Fail(c, err)
		return
	}
	util.SuccessData(c, res)
}

// ---------- 登录 ----------

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login 用邮箱+密码换取访问 token。
// 成功后 token 同时写入 HttpOnly cookie，cookie 有效期比 token 长，
// cookie 还在但 token 过期时校验照样失败。
func (h *UserHandler) Login(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Fail(c, util.NewAuthError("There's a missing field"))
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		util.Fail(c, util.NewAuthError("There's a missing field"))
		return
	}

	var user models.User
	err := h.col().FindOne(c.Request.Context(), bson.M{"email": req.Email}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		util.Fail(c, util.NewAuthError(invalidCredentialsMsg))
		return
	}
	if err != nil {
		util.Fail(c, err)
		return
	}

	if !util.CheckPassword(req.Password, user.PasswordHash) {
		util.Fail(c, util.NewAuthError(invalidCredentialsMsg))
		return
	}

	token, err := util.GenerateToken(h.JWTSecret, user.ID.Hex(), user.Email, h.TokenTTL)
	if err != nil {
		util.Fail(c, err)
		return
	}

	// 生产模式下 cookie 要求 https
	secure := gin.Mode() == gin.ReleaseMode
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.AuthCookie, token, int(authCookieTTL.Seconds()), "/", "", secure, true)

	util.Success(c, util.Response{
		"message": "Logged in",
		"token":   token,
	})
}
