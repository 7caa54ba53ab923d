package handler

import (
	"errors"
	"strings"
	"time"

	"github.com/hgalarze/mcfood-backend/internal/database"
	"github.com/hgalarze/mcfood-backend/internal/models"
	"github.com/hgalarze/mcfood-backend/internal/search"
	"github.com/hgalarze/mcfood-backend/internal/util"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CategoryHandler 负责分类相关接口
type CategoryHandler struct {
	DB *mongo.Database
}

// NewCategoryHandler 构造函数
func NewCategoryHandler(db *mongo.Database) *CategoryHandler {
	return &CategoryHandler{DB: db}
}

func (h *CategoryHandler) col() *mongo.Collection {
	return h.DB.Collection(database.CategoryCollection)
}

// ---------- 请求结构 ----------

type categoryReq struct {
	Name        string `json:"name" binding:"required,min=2,max=30"`
	Description string `json:"description" binding:"required,max=100"`
	ImageURL    string `json:"imageUrl"`
}

type categoryPatchReq struct {
	Name        *string `json:"name" binding:"omitempty,min=2,max=30"`
	Description *string `json:"description" binding:"omitempty,max=100"`
	ImageURL    *string `json:"imageUrl"`
}

// 名称小写存储，唯一性不区分大小写
func (r *categoryReq) normalize() {
	r.Name = strings.ToLower(strings.TrimSpace(r.Name))
	r.Description = strings.TrimSpace(r.Description)
}

func (h *CategoryHandler) findCategoryByID(c *gin.Context, id primitive.ObjectID) (*models.Category, error) {
	var category models.Category
	err := h.col().FindOne(c.Request.Context(), bson.M{"_id": id}).Decode(&category)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, util.NewNotFound("There are no category by id %s", id.Hex())
	}
	if err != nil {
		return nil, err
	}
	return &category, nil
}

// ---------- 列表 / 详情 ----------

// List 返回全部分类，空集合按约定返回 204
func (h *CategoryHandler) List(c *gin.Context) {
	cur, err := h.col().Find(c.Request.Context(), bson.M{})
	if err != nil {
		util.Fail(c, err)
		return
	}

	categories := make([]models.Category, 0)
	if err := cur.All(c.Request.Context(), &categories); err != nil {
		util.Fail(c, err)
		return
	}

	if len(categories) == 0 {
		util.Fail(c, util.NewEmptyResult("There are no categories"))
		return
	}

	util.Success(c, util.Response{"categories": categories})
}

// GetByID 按 id 返回分类
func (h *CategoryHandler) GetByID(c *gin.Context) {
	id, err := objectIDFromParam(c)
	if err != nil {
		util.Fail(c, err)
		return
	}

	category, err := h.findCategoryByID(c, id)
	if err != nil {
		util.Fail(c, err)
		return
	}

	util.Success(c, util.Response{"category": category})
}

// ---------- 创建 / 更新 / 删除 ----------

// Create 新建分类，名称唯一
func (h *CategoryHandler) Create(c *gin.Context) {
	var req categoryReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Fail(c, util.NewValidationError("Invalid request body"))
		return
	}
	req.normalize()

	count, err := h.col().CountDocuments(c.Request.Context(), bson.M{"name": req.Name})
	if err != nil {
		util.Fail(c, err)
		return
	}
	if count > 0 {
		util.Fail(c, util.NewConflict("Category with this name already exists"))
		return
	}

	now := time.Now()
	category := models.Category{
		Name:        req.Name,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if _, err := h.col().InsertOne(c.Request.Context(), category); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			util.Fail(c, util.NewConflict("Category with this name already exists"))
			return
		}
		util.Fail(c, err)
		return
	}

	util.Created(c, util.Response{"message": "Category created"})
}

// Update PUT 全量覆盖
func (h *CategoryHandler) Update(c *gin.Context) {
	id, err := objectIDFromParam(c)
	if err != nil {
		util.Fail(c, err)
		return
	}

	var req categoryReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Fail(c, util.NewValidationError("Invalid request body"))
		return
	}
	req.normalize()

	if _, err := h.findCategoryByID(c, id); err != nil {
		util.Fail(c, err)
		return
	}

	set := bson.M{
		"name":        req.Name,
		"description": req.Description,
		"imageUrl":    req.ImageURL,
		"updatedAt":   time.Now(),
	}

	updated, err := h.applyUpdate(c, id, set)
	if err != nil {
		util.Fail(c, err)
		return
	}

	util.Created(c, util.Response{"category": updated})
}

// Patch 部分更新：只写请求里出现的字段
func (h *CategoryHandler) Patch(c *gin.Context) {
	id, err := objectIDFromParam(c)
	if err != nil {
		util.Fail(c, err)
		return
	}

	var req categoryPatchReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Fail(c, util.NewValidationError("Invalid request body"))
		return
	}

	if _, err := h.findCategoryByID(c, id); err != nil {
		util.Fail(c, err)
		return
	}

	set := bson.M{"updatedAt": time.Now()}
	if req.Name != nil {
		set["name"] = strings.ToLower(strings.TrimSpace(*req.Name))
	}
	if req.Description != nil {
		set["description"] = strings.TrimSpace(*req.Description)
	}
	if req.ImageURL != nil {
		set["imageUrl"] = *req.ImageURL
	}

	updated, err := h.applyUpdate(c, id, set)
	if err != nil {
		util.Fail(c, err)
		return
	}

	util.Created(c, util.Response{"category": updated})
}

func (h *CategoryHandler) applyUpdate(c *gin.Context, id primitive.ObjectID, set bson.M) (*models.Category, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated models.Category
	err := h.col().FindOneAndUpdate(
		c.Request.Context(),
		bson.M{"_id": id},
		bson.M{"$set": set},
		opts,
	).Decode(&updated)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, util.NewNotFound("There are no category by id %s", id.Hex())
	}
	if mongo.IsDuplicateKeyError(err) {
		return nil, util.NewConflict("Category with this name already exists")
	}
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete 按 id 删除分类
func (h *CategoryHandler) Delete(c *gin.Context) {
	id, err := objectIDFromParam(c)
	if err != nil {
		util.Fail(c, err)
		return
	}

	if _, err := h.findCategoryByID(c, id); err != nil {
		util.Fail(c, err)
		return
	}

	if err := h.col().FindOneAndDelete(c.Request.Context(), bson.M{"_id": id}).Err(); err != nil &&
		!errors.Is(err, mongo.ErrNoDocuments) {
		util.Fail(c, err)
		return
	}

	util.Success(c, util.Response{"message": "Category deleted successfully"})
}

// ---------- 搜索 ----------

// Search 按名称/描述全词模糊搜索分类
func (h *CategoryHandler) Search(c *gin.Context) {
	res, err := search.Run[models.Category](c.Request.Context(), h.col(), search.Categories, searchParams(c))
	if err != nil {
		util.Fail(c, err)
		return
	}
	util.SuccessData(c, res)
}
