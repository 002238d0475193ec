// internal/database/post_repository.go
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

// PostDocument represents the MongoDB schema for a community post.
// Comments are embedded: the sequence is append-only and has no identity
// of its own.
type PostDocument struct {
	ID          string            `bson:"_id"`
	AuthorName  string            `bson:"authorName"`
	AuthorPhone string            `bson:"authorPhone"`
	Title       string            `bson:"title"`
	Body        string            `bson:"body"`
	Tag         string            `bson:"tag"`
	Likes       int               `bson:"likes"`
	Comments    []CommentDocument `bson:"comments"`
	AvatarURL   string            `bson:"avatarUrl"`
	CreatedAt   time.Time         `bson:"createdAt"`
}

type CommentDocument struct {
	AuthorName string `bson:"authorName"`
	Text       string `bson:"text"`
	Timestamp  string `bson:"timestamp"`
}

func postModelToDocument(post *models.Post) *PostDocument {
	doc := &PostDocument{
		ID:          post.ID.String(),
		AuthorName:  post.AuthorName,
		AuthorPhone: post.AuthorPhone,
		Title:       post.Title,
		Body:        post.Body,
		Tag:         post.Tag,
		Likes:       post.Likes,
		Comments:    make([]CommentDocument, len(post.Comments)),
		AvatarURL:   post.AvatarURL,
		CreatedAt:   post.CreatedAt,
	}
	for i, c := range post.Comments {
		doc.Comments[i] = CommentDocument(c)
	}
	return doc
}

func postDocumentToModel(doc *PostDocument) (*models.Post, error) {
	id, err := uuid.Parse(doc.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid post ID: %w", err)
	}

	comments := make([]models.Comment, len(doc.Comments))
	for i, c := range doc.Comments {
		comments[i] = models.Comment(c)
	}

	return &models.Post{
		ID:          id,
		AuthorName:  doc.AuthorName,
		AuthorPhone: doc.AuthorPhone,
		Title:       doc.Title,
		Body:        doc.Body,
		Tag:         doc.Tag,
		Likes:       doc.Likes,
		Comments:    comments,
		AvatarURL:   doc.AvatarURL,
		CreatedAt:   doc.CreatedAt,
	}, nil
}

// SavePost creates or updates a post in MongoDB.
func (m *MongoDB) SavePost(ctx context.Context, post *models.Post) error {
	doc := postModelToDocument(post)

	opts := options.Update().SetUpsert(true)
	filter := bson.M{"_id": post.ID.String()}
	update := bson.M{"$set": doc}

	_, err := m.Posts.UpdateOne(ctx, filter, update, opts)
	return err
}

// GetPost retrieves a post by its ID.
func (m *MongoDB) GetPost(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	var doc PostDocument

	err := m.Posts.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, utils.NewAppError(utils.ErrPostNotFound, "Post not found", err)
	}
	if err != nil {
		return nil, err
	}

	return postDocumentToModel(&doc)
}

// GetRecentPosts returns the whole feed, newest first.
func (m *MongoDB) GetRecentPosts(ctx context.Context) ([]*models.Post, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := m.Posts.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query feed: %w", err)
	}
	defer cursor.Close(ctx)

	posts := []*models.Post{}
	for cursor.Next(ctx) {
		var doc PostDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode post: %w", err)
		}
		post, err := postDocumentToModel(&doc)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}

	return posts, cursor.Err()
}

// IncrementLikes bumps the like counter by exactly one. There is no
// per-actor de-duplication: repeated calls keep incrementing.
func (m *MongoDB) IncrementLikes(ctx context.Context, postID uuid.UUID) error {
	filter := bson.M{"_id": postID.String()}
	update := bson.M{"$inc": bson.M{"likes": 1}}

	result, err := m.Posts.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return utils.NewAppError(utils.ErrPostNotFound, "Post not found", nil)
	}
	return nil
}

// AppendComment pushes one comment onto the end of the post's sequence.
func (m *MongoDB) AppendComment(ctx context.Context, postID uuid.UUID, comment models.Comment) error {
	filter := bson.M{"_id": postID.String()}
	update := bson.M{"$push": bson.M{"comments": CommentDocument(comment)}}

	result, err := m.Posts.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return utils.NewAppError(utils.ErrPostNotFound, "Post not found", nil)
	}
	return nil
}
