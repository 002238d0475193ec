// internal/database/product_repository.go
package database

import (
	"context"
	"fmt"
	"time"

	"krishi-vaidya/internal/models"
	"krishi-vaidya/internal/utils"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ProductDocument represents the MongoDB schema for a marketplace listing
type ProductDocument struct {
	ID          string    `bson:"_id"`
	Name        string    `bson:"name"`
	Price       int       `bson:"price"`
	Unit        string    `bson:"unit"`
	Location    string    `bson:"location"`
	Category    string    `bson:"category"`
	Description string    `bson:"description"`
	SellerName  string    `bson:"seller"`
	SellerPhone string    `bson:"sellerPhone"`
	ImageURL    string    `bson:"image"`
	CreatedAt   time.Time `bson:"createdAt"`
	UpdatedAt   time.Time `bson:"updatedAt"`
}

func productModelToDocument(p *models.Product) *ProductDocument {
	return &ProductDocument{
		ID:          p.ID.String(),
		Name:        p.Name,
		Price:       p.Price,
		Unit:        p.Unit,
		Location:    p.Location,
		Category:    p.Category,
		Description: p.Description,
		SellerName:  p.SellerName,
		SellerPhone: p.SellerPhone,
		ImageURL:    p.ImageURL,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func productDocumentToModel(doc *ProductDocument) (*models.Product, error) {
	id, err := uuid.Parse(doc.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid product ID: %w", err)
	}

	return &models.Product{
		ID:          id,
		Name:        doc.Name,
		Price:       doc.Price,
		Unit:        doc.Unit,
		Location:    doc.Location,
		Category:    doc.Category,
		Description: doc.Description,
		SellerName:  doc.SellerName,
		SellerPhone: doc.SellerPhone,
		ImageURL:    doc.ImageURL,
		CreatedAt:   doc.CreatedAt,
		UpdatedAt:   doc.UpdatedAt,
	}, nil
}

// SaveProduct creates or updates a listing in MongoDB
func (m *MongoDB) SaveProduct(ctx context.Context, product *models.Product) error {
	doc := productModelToDocument(product)

	opts := options.Update().SetUpsert(true)
	filter := bson.M{"_id": product.ID.String()}
	update := bson.M{"$set": doc}

	_, err := m.Products.UpdateOne(ctx, filter, update, opts)
	return err
}

// GetProduct retrieves a listing by its ID
func (m *MongoDB) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var doc ProductDocument

	err := m.Products.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, utils.NewAppError(utils.ErrProductNotFound, "Product not found", err)
	}
	if err != nil {
		return nil, err
	}

	return productDocumentToModel(&doc)
}

func (m *MongoDB) findProducts(ctx context.Context, filter bson.M) ([]*models.Product, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := m.Products.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer cursor.Close(ctx)

	products := []*models.Product{}
	for cursor.Next(ctx) {
		var doc ProductDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode product: %w", err)
		}
		product, err := productDocumentToModel(&doc)
		if err != nil {
			return nil, err
		}
		products = append(products, product)
	}

	return products, cursor.Err()
}

// GetAllProducts returns every listing, newest first.
func (m *MongoDB) GetAllProducts(ctx context.Context) ([]*models.Product, error) {
	return m.findProducts(ctx, bson.M{})
}

// GetSellerProducts returns the listings owned by one seller, newest first.
func (m *MongoDB) GetSellerProducts(ctx context.Context, sellerPhone string) ([]*models.Product, error) {
	return m.findProducts(ctx, bson.M{"sellerPhone": sellerPhone})
}

// UpdateProduct applies an edit to a listing. The image is replaced only
// when the update carries a new one.
func (m *MongoDB) UpdateProduct(ctx context.Context, id uuid.UUID, update ProductUpdate) error {
	fields := bson.M{
		"name":        update.Name,
		"price":       update.Price,
		"unit":        update.Unit,
		"location":    update.Location,
		"category":    update.Category,
		"description": update.Description,
		"updatedAt":   time.Now(),
	}
	if update.ImageURL != "" {
		fields["image"] = update.ImageURL
	}

	result, err := m.Products.UpdateOne(ctx, bson.M{"_id": id.String()}, bson.M{"$set": fields})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return utils.NewAppError(utils.ErrProductNotFound, "Product not found", nil)
	}
	return nil
}

// DeleteProduct removes a listing. Ownership is checked by the caller.
func (m *MongoDB) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	result, err := m.Products.DeleteOne(ctx, bson.M{"_id": id.String()})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return utils.NewAppError(utils.ErrProductNotFound, "Product not found", nil)
	}
	return nil
}
