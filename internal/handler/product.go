package handler

import (
	"errors"
	"strconv"
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

// 精选商品默认最多返回的条数
const defaultHighlightedLimit = 10

// ProductHandler 负责商品相关接口
type ProductHandler struct {
	DB *mongo.Database
}

// NewProductHandler 构造函数
func NewProductHandler(db *mongo.Database) *ProductHandler {
	return &ProductHandler{DB: db}
}

func (h *ProductHandler) col() *mongo.Collection {
	return h.DB.Collection(database.ProductCollection)
}

// ---------- 请求结构 ----------

type productReq struct {
	Name        string  `json:"name" binding:"required,min=2,max=50"`
	Description string  `json:"description" binding:"required,min=2,max=500"`
	Price       float64 `json:"price" binding:"required,gt=0"`
	Stock       *int    `json:"stock" binding:"required,gte=0"`
	ImageURL    string  `json:"imageUrl"`
	Highlighted bool    `json:"highlighted"`
	CategoryID  string  `json:"categoryId" binding:"required"`
}

type productPatchReq struct {
	Name        *string  `json:"name" binding:"omitempty,min=2,max=50"`
	Description *string  `json:"description" binding:"omitempty,min=2,max=500"`
	Price       *float64 `json:"price" binding:"omitempty,gt=0"`
	Stock       *int     `json:"stock" binding:"omitempty,gte=0"`
	ImageURL    *string  `json:"imageUrl"`
	Highlighted *bool    `json:"highlighted"`
	CategoryID  *string  `json:"categoryId"`
}

func (r *productReq) normalize() {
	r.Name = strings.ToLower(strings.TrimSpace(r.Name))
	r.Description = strings.TrimSpace(r.Description)
}

func (h *ProductHandler) findProductByID(c *gin.Context, id primitive.ObjectID) (*models.Product, error) {
	var product models.Product
	err := h.col().FindOne(c.Request.Context(), bson.M{"_id": id}).Decode(&product)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, util.NewNotFound("There are no product by id %s", id.Hex())
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// ---------- 列表 / 详情 ----------

// List 返回全部商品，空集合按约定返回 204
func (h *ProductHandler) List(c *gin.Context) {
	cur, err := h.col().Find(c.Request.Context(), bson.M{})
	if err != nil {
		util.Fail(c, err)
		return
	}

	products := make([]models.Product, 0)
	if err := cur.All(c.Request.Context(), &products); err != nil {
		util.Fail(c, err)
		return
	}

	if len(products) == 0 {
		util.Fail(c, util.NewEmptyResult("There are no products"))
		return
	}

	util.Success(c, util.Response{"products": products})
}

// GetByID 按 id 返回商品
func (h *ProductHandler) GetByID(c *gin.Context) {
	id, err := objectIDFromParam(c)
	if err != nil {
		util.Fail(c, err)
		return
	}

	product, err := h.findProductByID(c, id)
	if err != nil {
		util.Fail(c, err)
		return
	}

	util.Success(c, util.Response{"product": product})
}

// ByCategory 返回某分类下的全部商品，空结果返回空数组
func (h *ProductHandler) ByCategory(c *gin.Context) {
	id, err := objectIDFromParam(c)
	if err != nil {
		util.Fail(c, err)
		return
	}

	cur, err := h.col().Find(c.Request.Context(), bson.M{"category": id})
	if err != nil {
		util.Fail(c, err)
		return
	}

	products := make([]models.Product, 0)
	if err := cur.All(c.Request.Context(), &products); err != nil {
		util.Fail(c, err)
		return
	}

	util.Success(c, util.Response{"products": products})
}

// Highlighted 返回精选商品，:maxItems 不合法时用默认条数
func (h *ProductHandler) Highlighted(c *gin.Context) {
	limit := defaultHighlightedLimit
	if n, err := strconv.Atoi(c.Param("maxItems")); err == nil && n > 0 {
		limit = n
	}

	opts := options.Find().SetLimit(int64(limit))
	cur, err := h.col().Find(c.Request.Context(), bson.M{"highlighted": true}, opts)
	if err != nil {
		util.Fail(c, err)
		return
	}

	products := make([]models.Product, 0)
	if err := cur.All(c.Request.Context(), &products); err != nil {
		util.Fail(c, err)
		return
	}

	util.Success(c, util.Response{"products": products})
}

// ---------- 创建 / 更新 / 删除 ----------

// Create 新建商品：名称唯一，分类必填
func (h *ProductHandler) Create(c *gin.Context) {
	var req productReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Fail(c, util.NewValidationError("Invalid request body"))
		return
	}
	req.normalize()

	categoryID, err := primitive.ObjectIDFromHex(req.CategoryID)
	if err != nil {
		util.Fail(c, util.NewValidationError("Invalid category id %s", req.CategoryID))
		return
	}

	count, err := h.col().CountDocuments(c.Request.Context(), bson.M{"name": req.Name})
	if err != nil {
		util.Fail(c, err)
		return
	}
	if count > 0 {
		util.Fail(c, util.NewConflict("Product with this name already exists"))
		return
	}

	now := time.Now()
	product := models.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Stock:       *req.Stock,
		ImageURL:    req.ImageURL,
		Highlighted: req.Highlighted,
		Category:    categoryID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if _, err := h.col().InsertOne(c.Request.Context(), product); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			util.Fail(c, util.NewConflict("Product with this name already exists"))
			return
		}
		util.Fail(c, err)
		return
	}

	util.Created(c, util.Response{"message": "Product created"})
}

// Update PUT 全量覆盖
func (h *ProductHandler) Update(c *gin.Context) {
	id, err := objectIDFromParam(c)
	if err != nil {
		util.Fail(c, err)
		return
	}

	var req productReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Fail(c, util.NewValidationError("Invalid request body"))
		return
	}
	req.normalize()

	categoryID, err := primitive.ObjectIDFromHex(req.CategoryID)
	if err != nil {
		util.Fail(c, util.NewValidationError("Invalid category id %s", req.CategoryID))
		return
	}

	if _, err := h.findProductByID(c, id); err != nil {
		util.Fail(c, err)
		return
	}

	set := bson.M{
		"name":        req.Name,
		"description": req.Description,
		"price":       req.Price,
		"stock":       *req.Stock,
		"imageUrl":    req.ImageURL,
		"highlighted": req.Highlighted,
		"category":    categoryID,
		"updatedAt":   time.Now(),
	}

	updated, err := h.applyUpdate(c, id, set)
	if err != nil {
		util.Fail(c, err)
		return
	}

	util.Created(c, util.Response{"product": updated})
}

// Patch 部分更新：只写请求里出现的字段
func (h *ProductHandler) Patch(c *gin.Context) {
	id, err := objectIDFromParam(c)
	if err != nil {
		util.Fail(c, err)
		return
	}

	var req productPatchReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Fail(c, util.NewValidationError("Invalid request body"))
		return
	}

	if _, err := h.findProductByID(c, id); err != nil {
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
	if req.Price != nil {
		set["price"] = *req.Price
	}
	if req.Stock != nil {
		set["stock"] = *req.Stock
	}
	if req.ImageURL != nil {
		set["imageUrl"] = *req.ImageURL
	}
	if req.Highlighted != nil {
		set["highlighted"] = *req.Highlighted
	}
	if req.CategoryID != nil {
		categoryID, err := primitive.ObjectIDFromHex(*req.CategoryID)
		if err != nil {
			util.Fail(c, util.NewValidationError("Invalid category id %s", *req.CategoryID))
			return
		}
		set["category"] = categoryID
	}

	updated, err := h.applyUpdate(c, id, set)
	if err != nil {
		util.Fail(c, err)
		return
	}

	util.Created(c, util.Response{"product": updated})
}

func (h *ProductHandler) applyUpdate(c *gin.Context, id primitive.ObjectID, set bson.M) (*models.Product, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated models.Product
	err := h.col().FindOneAndUpdate(
		c.Request.Context(),
		bson.M{"_id": id},
		bson.M{"$set": set},
		opts,
	).Decode(&updated)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, util.NewNotFound("There are no product by id %s", id.Hex())
	}
	if mongo.IsDuplicateKeyError(err) {
		return nil, util.NewConflict("Product with this name already exists")
	}
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete 按 id 删除商品
func (h *ProductHandler) Delete(c *gin.Context) {
	id, err := objectIDFromParam(c)
	if err != nil {
		util.Fail(c, err)
		return
	}

	if _, err := h.findProductByID(c, id); err != nil {
		util.Fail(c, err)
		return
	}

	if err := h.col().FindOneAndDelete(c.Request.Context(), bson.M{"_id": id}).Err(); err != nil &&
		!errors.Is(err, mongo.ErrNoDocuments) {
		util.Fail(c, err)
		return
	}

	util.Success(c, util.Response{"message": "Product deleted successfully"})
}

// ---------- 搜索 ----------

// Search 按名称/描述全词模糊搜索商品
func (h *ProductHandler) Search(c *gin.Context) {
	res, err := search.Run[models.Product](c.Request.Context(), h.col(), search.Products, searchParams(c))
	if err != nil {
		util.Fail(c, err)
		return
	}
	util.SuccessData(c, res)
}
