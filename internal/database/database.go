package database

import (
	"context"
	"fmt"
	"time"

	"github.com/hgalarze/mcfood-backend/internal/config"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// 集合名集中定义，handler 里统一引用
const (
	UserCollection     = "users"
	CategoryCollection = "categories"
	ProductCollection  = "products"
	AuditLogCollection = "auditlogs"
)

// Connect establishes the MongoDB connection and pings it.
// 启动时数据库连不上属于致命错误，由调用方决定退出。
func Connect(cfg config.DatabaseConfig) (*mongo.Database, error) {
	if cfg.URI == "" {
		return nil, fmt.Errorf("database uri is empty")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return client.Database(cfg.Name), nil
}

// EnsureIndexes creates the unique indexes the catalog relies on:
// users.email / categories.name / products.name。
// 并发创建撞索引也没关系，CreateOne 对已存在的索引是幂等的。
func EnsureIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	unique := func(coll, field string) error {
		_, err := db.Collection(coll).Indexes().CreateOne(ctx, mongo.IndexModel{
			Keys:    bson.D{{Key: field, Value: 1}},
			Options: options.Index().SetUnique(true),
		})
		if err != nil {
			return fmt.Errorf("create index %s.%s: %w", coll, field, err)
		}
		return nil
	}

	if err := unique(UserCollection, "email"); err != nil {
		return err
	}
	if err := unique(CategoryCollection, "name"); err != nil {
		return err
	}
	return unique(ProductCollection, "name")
}
