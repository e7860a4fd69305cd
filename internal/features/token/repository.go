package token

import (
	"context"
	"errors"
	"time"

	"go-approvals/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	ErrRecordNotFound = errors.New("issued token record not found")
	ErrAlreadyUsed    = errors.New("issued token record already consumed")
)

type TokenRepository interface {
	Create(ctx context.Context, record *Record) error
	GetByNonce(ctx context.Context, nonce string) (*Record, error)
	// Consume atomically flips is_used from false to true; exactly one of
	// any number of concurrent callers succeeds for a given nonce.
	Consume(ctx context.Context, nonce string, remarks string) (*Record, error)
	// Release un-consumes a record when the task mutation failed after a
	// successful Consume, so the approver can retry.
	Release(ctx context.Context, nonce string) error
	DeleteConsumedBefore(ctx context.Context, cutoff time.Time) (int64, error)
	// DeleteExpiredBefore reclaims unconsumed records minted before cutoff.
	// Safe only for cutoffs past the token TTL: decode rejects those tokens
	// before the record is ever looked up, so they can never be consumed.
	DeleteExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type TokenRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewTokenRepository(mongodb *database.MongodbDB) TokenRepository {
	return &TokenRepositoryImpl{
		Collection: mongodb.DB.Collection("approval_tokens"),
	}
}

func (r *TokenRepositoryImpl) Create(ctx context.Context, record *Record) error {
	record.CreatedAt = time.Now()
	_, err := r.Collection.InsertOne(ctx, record)
	return err
}

func (r *TokenRepositoryImpl) GetByNonce(ctx context.Context, nonce string) (*Record, error) {
	var record Record
	err := r.Collection.FindOne(ctx, bson.M{"nonce": nonce}).Decode(&record)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return &record, nil
}

func (r *TokenRepositoryImpl) Consume(ctx context.Context, nonce string, remarks string) (*Record, error) {
	now := time.Now()
	update := bson.M{
		"$set": bson.M{
			"is_used": true,
			"used_at": now,
			"remarks": remarks,
		},
	}

	var record Record
	err := r.Collection.FindOneAndUpdate(ctx, bson.M{"nonce": nonce, "is_used": false}, update).Decode(&record)
	if err == nil {
		record.IsUsed = true
		record.UsedAt = &now
		record.Remarks = remarks
		return &record, nil
	}
	if err != mongo.ErrNoDocuments {
		return nil, err
	}

	// Either never issued or lost the race; look again to tell them apart.
	existing, lookupErr := r.GetByNonce(ctx, nonce)
	if lookupErr != nil {
		return nil, lookupErr
	}
	if existing.IsUsed {
		return nil, ErrAlreadyUsed
	}
	return nil, ErrRecordNotFound
}

func (r *TokenRepositoryImpl) Release(ctx context.Context, nonce string) error {
	update := bson.M{
		"$set": bson.M{"is_used": false},
		"$unset": bson.M{
			"used_at": "",
			"remarks": "",
		},
	}
	res, err := r.Collection.UpdateOne(ctx, bson.M{"nonce": nonce, "is_used": true}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrRecordNotFound
	}
	return nil
}

func (r *TokenRepositoryImpl) DeleteConsumedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.Collection.DeleteMany(ctx, bson.M{
		"is_used":    true,
		"created_at": bson.M{"$lt": cutoff},
	})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

func (r *TokenRepositoryImpl) DeleteExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.Collection.DeleteMany(ctx, bson.M{
		"is_used":    false,
		"created_at": bson.M{"$lt": cutoff},
	})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
