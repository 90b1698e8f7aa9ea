package repository

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/solartech/storefront/services/product-service/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const countersCollection = "counters"

// MongoRepo stores products in the "products" collection.
type MongoRepo struct {
	collection *mongo.Collection
	counters   *mongo.Collection
}

func NewMongoRepo(db *mongo.Database) *MongoRepo {
	return &MongoRepo{
		collection: db.Collection("products"),
		counters:   db.Collection(countersCollection),
	}
}

// EnsureIndexes creates the unique slug and SKU indexes and the filter index.
func (r *MongoRepo) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "slug", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "sku", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "category", Value: 1}, {Key: "brand", Value: 1}, {Key: "price", Value: 1}}},
		{Keys: bson.D{{Key: "seq", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("create product indexes: %w", err)
	}
	return nil
}

// SeedIfEmpty inserts products when the collection has no documents.
func (r *MongoRepo) SeedIfEmpty(ctx context.Context, products []models.Product) (int, error) {
	n, err := r.collection.EstimatedDocumentCount(ctx)
	if err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}
	if n > 0 {
		return 0, nil
	}

	docs := make([]interface{}, len(products))
	var maxSeq int64
	for i := range products {
		docs[i] = products[i]
		if products[i].Seq > maxSeq {
			maxSeq = products[i].Seq
		}
	}
	if _, err := r.collection.InsertMany(ctx, docs); err != nil {
		return 0, fmt.Errorf("seed products: %w", err)
	}
	_, err = r.counters.UpdateOne(ctx,
		bson.M{"_id": "products"},
		bson.M{"$max": bson.M{"value": maxSeq}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return 0, fmt.Errorf("seed product counter: %w", err)
	}
	return len(docs), nil
}

func (r *MongoRepo) Find(ctx context.Context, q models.Query) ([]models.Product, int64, error) {
	filter := buildFilter(q.Filter)

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}

	opts := options.Find().SetSort(buildSort(q.Sort))
	if q.Skip > 0 {
		opts.SetSkip(int64(q.Skip))
	}
	if q.Limit > 0 {
		opts.SetLimit(int64(q.Limit))
	}

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("find products: %w", err)
	}
	defer cursor.Close(ctx)

	products := make([]models.Product, 0)
	if err := cursor.All(ctx, &products); err != nil {
		return nil, 0, fmt.Errorf("decode products: %w", err)
	}
	return products, total, nil
}

func (r *MongoRepo) FindByID(ctx context.Context, id string) (*models.Product, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *MongoRepo) FindBySlug(ctx context.Context, slug string) (*models.Product, error) {
	return r.findOne(ctx, bson.M{"slug": slug})
}

func (r *MongoRepo) FindBySKU(ctx context.Context, sku string) (*models.Product, error) {
	return r.findOne(ctx, bson.M{"sku": sku})
}

func (r *MongoRepo) findOne(ctx context.Context, filter bson.M) (*models.Product, error) {
	var p models.Product
	err := r.collection.FindOne(ctx, filter).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find product: %w", err)
	}
	return &p, nil
}

func (r *MongoRepo) Create(ctx context.Context, product *models.Product) error {
	_, err := r.collection.InsertOne(ctx, product)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicate
	}
	if err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// optionalFields are omitted from the encoded product when empty and must be
// unset explicitly so a cleared value does not survive an update.
var optionalFields = []string{"original_price", "discount", "wattage", "features", "specifications", "dimensions", "weight"}

func (r *MongoRepo) Update(ctx context.Context, product *models.Product) error {
	raw, err := bson.Marshal(product)
	if err != nil {
		return fmt.Errorf("encode product: %w", err)
	}
	var fields bson.M
	if err := bson.Unmarshal(raw, &fields); err != nil {
		return fmt.Errorf("encode product: %w", err)
	}
	delete(fields, "_id")
	delete(fields, "stock")
	delete(fields, "in_stock")
	update := bson.M{"$set": fields}
	unset := bson.M{}
	for _, key := range optionalFields {
		if _, ok := fields[key]; !ok {
			unset[key] = ""
		}
	}
	if len(unset) > 0 {
		update["$unset"] = unset
	}

	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": product.ID}, update)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicate
	}
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoRepo) Delete(ctx context.Context, id string) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoRepo) DeleteMany(ctx context.Context, ids []string) (int64, error) {
	res, err := r.collection.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return 0, fmt.Errorf("delete products: %w", err)
	}
	return res.DeletedCount, nil
}

func (r *MongoRepo) SetStatus(ctx context.Context, ids []string, status string) (int64, error) {
	res, err := r.collection.UpdateMany(ctx,
		bson.M{"_id": bson.M{"$in": ids}},
		bson.M{"$set": bson.M{"status": status, "updated_at": time.Now().UTC()}},
	)
	if err != nil {
		return 0, fmt.Errorf("update product status: %w", err)
	}
	return res.ModifiedCount, nil
}

// AdjustStock applies delta atomically. The stock guard in the filter keeps
// the level from going negative under concurrent checkouts.
func (r *MongoRepo) AdjustStock(ctx context.Context, id string, delta int) (*models.Product, error) {
	filter := bson.M{"_id": id}
	if delta < 0 {
		filter["stock"] = bson.M{"$gte": -delta}
	}
	update := mongo.Pipeline{
		{{Key: "$set", Value: bson.M{
			"stock":      bson.M{"$add": bson.A{"$stock", delta}},
			"updated_at": time.Now().UTC(),
		}}},
		{{Key: "$set", Value: bson.M{"in_stock": bson.M{"$gt": bson.A{"$stock", 0}}}}},
	}

	var p models.Product
	err := r.collection.FindOneAndUpdate(ctx, filter, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		if _, findErr := r.FindByID(ctx, id); findErr != nil {
			return nil, findErr
		}
		return nil, ErrInsufficientStock
	}
	if err != nil {
		return nil, fmt.Errorf("adjust stock: %w", err)
	}
	return &p, nil
}

func (r *MongoRepo) SetStock(ctx context.Context, id string, stock int) (*models.Product, error) {
	if stock < 0 {
		stock = 0
	}
	var p models.Product
	err := r.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"stock": stock, "in_stock": stock > 0, "updated_at": time.Now().UTC()}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("set stock: %w", err)
	}
	return &p, nil
}

func (r *MongoRepo) NextSeq(ctx context.Context) (int64, error) {
	var doc struct {
		Value int64 `bson:"value"`
	}
	err := r.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": "products"},
		bson.M{"$inc": bson.M{"value": 1}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		return 0, fmt.Errorf("next product seq: %w", err)
	}
	return doc.Value, nil
}

func buildFilter(f models.ProductFilter) bson.M {
	filter := bson.M{}
	if len(f.IDs) > 0 {
		filter["_id"] = bson.M{"$in": f.IDs}
	}
	if f.Category != "" {
		filter["category"] = f.Category
	}
	if f.Brand != "" {
		filter["brand"] = f.Brand
	}
	price := bson.M{}
	if f.MinPrice != nil {
		price["$gte"] = *f.MinPrice
	}
	if f.MaxPrice != nil {
		price["$lte"] = *f.MaxPrice
	}
	if len(price) > 0 {
		filter["price"] = price
	}
	if f.InStock {
		filter["in_stock"] = true
	}
	if f.Featured {
		filter["featured"] = true
	}
	if f.Wattage != nil {
		w := bson.M{"$gte": f.Wattage.Min}
		if !f.Wattage.OpenEnded {
			w["$lte"] = f.Wattage.Max
		}
		filter["wattage"] = w
	}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	if f.Search != "" {
		pattern := primitiveRegex(f.Search)
		filter["$or"] = bson.A{
			bson.M{"name": pattern},
			bson.M{"sku": pattern},
		}
	}
	return filter
}

func buildSort(key string) bson.D {
	switch key {
	case models.SortPriceAsc:
		return bson.D{{Key: "price", Value: 1}, {Key: "seq", Value: 1}}
	case models.SortPriceDesc:
		return bson.D{{Key: "price", Value: -1}, {Key: "seq", Value: 1}}
	case models.SortRatingDesc:
		return bson.D{{Key: "rating", Value: -1}, {Key: "reviews", Value: -1}}
	case models.SortNameAsc:
		return bson.D{{Key: "name", Value: 1}}
	case models.SortNameDesc:
		return bson.D{{Key: "name", Value: -1}}
	case models.SortNewest:
		return bson.D{{Key: "created_at", Value: -1}, {Key: "seq", Value: -1}}
	default:
		return bson.D{{Key: "seq", Value: 1}}
	}
}

func primitiveRegex(search string) bson.M {
	return bson.M{"$regex": regexp.QuoteMeta(search), "$options": "i"}
}
