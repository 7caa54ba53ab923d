package handler

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/hgalarze/mcfood-backend/internal/database"
	"github.com/hgalarze/mcfood-backend/internal/models"
	"github.com/hgalarze/mcfood-backend/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// ExportHandler 负责商品目录导出
type ExportHandler struct {
	DB *mongo.Database
}

// NewExportHandler 构造函数
func NewExportHandler(db *mongo.Database) *ExportHandler {
	return &ExportHandler{DB: db}
}

// loadCatalog 取全部商品，并把分类 id 解析成分类名
func (h *ExportHandler) loadCatalog(c *gin.Context) ([]models.Product, map[string]string, error) {
	ctx := c.Request.Context()

	cur, err := h.DB.Collection(database.ProductCollection).Find(ctx, bson.M{})
	if err != nil {
		return nil, nil, err
	}
	products := make([]models.Product, 0)
	if err := cur.All(ctx, &products); err != nil {
		return nil, nil, err
	}

	catCur, err := h.DB.Collection(database.CategoryCollection).Find(ctx, bson.M{})
	if err != nil {
		return nil, nil, err
	}
	categories := make([]models.Category, 0)
	if err := catCur.All(ctx, &categories); err != nil {
		return nil, nil, err
	}

	names := make(map[string]string, len(categories))
	for _, cat := range categories {
		names[cat.ID.Hex()] = cat.Name
	}

	return products, names, nil
}

var exportHeader = []string{"Name", "Description", "Price", "Stock", "Category", "Highlighted", "Created at"}

func exportRow(p models.Product, categoryNames map[string]string) []string {
	category := categoryNames[p.Category.Hex()]
	if category == "" {
		category = p.Category.Hex()
	}
	return []string{
		p.Name,
		p.Description,
		strconv.FormatFloat(p.Price, 'f', 2, 64),
		strconv.Itoa(p.Stock),
		category,
		strconv.FormatBool(p.Highlighted),
		p.CreatedAt.Format("2006-01-02"),
	}
}

// ExportCSV 导出商品目录为 CSV
func (h *ExportHandler) ExportCSV(c *gin.Context) {
	products, categoryNames, err := h.loadCatalog(c)
	if err != nil {
		util.Fail(c, err)
		return
	}

	// 设置响应头
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"products_%s.csv\"",
		time.Now().Format("20060102")))

	writer := csv.NewWriter(c.Writer)
	defer writer.Flush()

	// UTF-8 BOM（让 Excel 正确识别编码）
	c.Writer.Write([]byte{0xEF, 0xBB, 0xBF})

	// 写入表头
	writer.Write(exportHeader)

	// 写入数据
	for _, p := range products {
		writer.Write(exportRow(p, categoryNames))
	}
}

// ExportXLSX 导出商品目录为 XLSX
func (h *ExportHandler) ExportXLSX(c *gin.Context) {
	products, categoryNames, err := h.loadCatalog(c)
	if err != nil {
		util.Fail(c, err)
		return
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Products"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		util.Fail(c, err)
		return
	}

	header := make([]interface{}, len(exportHeader))
	for i, v := range exportHeader {
		header[i] = v
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		util.Fail(c, err)
		return
	}

	for i, p := range products {
		row := exportRow(p, categoryNames)
		cells := make([]interface{}, len(row))
		for j, v := range row {
			cells[j] = v
		}
		if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", i+2), &cells); err != nil {
			util.Fail(c, err)
			return
		}
	}

	// 使用 uuid + 时间作为文件名
	filename := fmt.Sprintf("products_%s_%s.xlsx",
		time.Now().Format("20060102"), uuid.New().String()[:8])

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", filename))

	if err := f.Write(c.Writer); err != nil {
		// 响应已经开始写，只能中断连接
		c.AbortWithStatus(http.StatusInternalServerError)
	}
}
