// internal/database/user_repository.go
package database

import (
	"context"
	"fmt"
	"time"

	"krishi-vaidya/internal/models"
	"krishi-vaidya/internal/reputation"
	"krishi-vaidya/internal/utils"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// UserDocument represents the MongoDB schema for a user
type UserDocument struct {
	ID             string     `bson:"_id"`
	Phone          string     `bson:"phone"`
	FullName       string     `bson:"fullName"`
	HashedPassword string     `bson:"hashedPassword"`
	DOB            string     `bson:"dob,omitempty"`
	Role           string     `bson:"role"`
	Score          int        `bson:"score"`
	LastPostAt     *time.Time `bson:"lastPostAt"`
	CreatedAt      time.Time  `bson:"createdAt"`
}

func userDocumentToModel(doc *UserDocument) (*models.User, error) {
	id, err := uuid.Parse(doc.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID in database: %w", err)
	}

	return &models.User{
		ID:             id,
		Phone:          doc.Phone,
		FullName:       doc.FullName,
		HashedPassword: doc.HashedPassword,
		DOB:            doc.DOB,
		Role:           doc.Role,
		Score:          doc.Score,
		LastPostAt:     doc.LastPostAt,
		CreatedAt:      doc.CreatedAt,
	}, nil
}

// SaveUser creates or updates a user in MongoDB
func (m *MongoDB) SaveUser(ctx context.Context, user *models.User) error {
	doc := UserDocument{
		ID:             user.ID.String(),
		Phone:          user.Phone,
		FullName:       user.FullName,
		HashedPassword: user.HashedPassword,
		DOB:            user.DOB,
		Role:           user.Role,
		Score:          user.Score,
		LastPostAt:     user.LastPostAt,
		CreatedAt:      user.CreatedAt,
	}

	opts := options.Update().SetUpsert(true)
	filter := bson.M{"_id": user.ID.String()}
	update := bson.M{"$set": doc}

	_, err := m.Users.UpdateOne(ctx, filter, update, opts)
	if mongo.IsDuplicateKeyError(err) {
		return utils.NewAppError(utils.ErrUserAlreadyExists, "User already exists", err)
	}
	return err
}

// GetUserByPhone retrieves a user by their phone number (the unique key)
func (m *MongoDB) GetUserByPhone(ctx context.Context, phone string) (*models.User, error) {
	var doc UserDocument

	err := m.Users.FindOne(ctx, bson.M{"phone": phone}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, utils.NewUserNotFoundError(phone)
	}
	if err != nil {
		return nil, err
	}

	return userDocumentToModel(&doc)
}

// accrueMaxAttempts bounds the optimistic-update retry loop.
const accrueMaxAttempts = 3

// AccrueOnPost applies the daily posting reward to the user identified by
// phone and unconditionally resets their last-post marker to now.
//
// The write is a conditional update: the filter matches the score and
// last-post value we just read, so a concurrent accrual for the same user
// makes the update match nothing and we re-read and retry. That keeps the
// reward exactly-once per calendar day even under racing post-creation
// requests. A missing user is reported as a skipped accrual, not an error.
func (m *MongoDB) AccrueOnPost(ctx context.Context, phone string, now time.Time) (AccrualResult, error) {
	for attempt := 0; attempt < accrueMaxAttempts; attempt++ {
		var doc UserDocument
		err := m.Users.FindOne(ctx, bson.M{"phone": phone}).Decode(&doc)
		if err == mongo.ErrNoDocuments {
			return AccrualResult{Updated: false}, nil
		}
		if err != nil {
			return AccrualResult{}, err
		}

		delta := reputation.Accrue(doc.LastPostAt, now)

		filter := bson.M{"_id": doc.ID, "score": doc.Score}
		if doc.LastPostAt == nil {
			filter["lastPostAt"] = nil
		} else {
			filter["lastPostAt"] = *doc.LastPostAt
		}

		update := bson.M{
			"$inc": bson.M{"score": delta},
			"$set": bson.M{"lastPostAt": now},
		}

		res, err := m.Users.UpdateOne(ctx, filter, update)
		if err != nil {
			return AccrualResult{}, err
		}
		if res.MatchedCount == 1 {
			return AccrualResult{Updated: true, NewScore: doc.Score + delta, Delta: delta}, nil
		}
		// A concurrent writer won the conditional update; re-read and retry.
	}

	return AccrualResult{}, utils.NewAppError(utils.ErrDatabase, "reputation update contention for "+phone, nil)
}

// TopUsersByScore returns up to limit users ordered by score descending.
// Ties are broken by _id ascending, the deterministic order the store
// provides.
func (m *MongoDB) TopUsersByScore(ctx context.Context, limit int) ([]*models.User, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "score", Value: -1}, {Key: "_id", Value: 1}}).
		SetLimit(int64(limit))

	cursor, err := m.Users.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query top users: %w", err)
	}
	defer cursor.Close(ctx)

	users := []*models.User{}
	for cursor.Next(ctx) {
		var doc UserDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode user: %w", err)
		}
		user, err := userDocumentToModel(&doc)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}

	return users, cursor.Err()
}
