package email

import (
	"context"
	"time"

	"go-approvals/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type EmailRepository interface {
	Create(ctx context.Context, email *SentEmail) error
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status EmailStatus, errorMsg, messageID string) error
	GetByID(ctx context.Context, id string) (*SentEmail, error)
	List(ctx context.Context, filter map[string]interface{}, limit, offset int64) ([]SentEmail, error)
	DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type EmailRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewEmailRepository(mongodb *database.MongodbDB) EmailRepository {
	return &EmailRepositoryImpl{
		Collection: mongodb.DB.Collection("sent_emails"),
	}
}

func (r *EmailRepositoryImpl) Create(ctx context.Context, email *SentEmail) error {
	if email.ID.IsZero() {
		email.ID = primitive.NewObjectID()
	}
	email.CreatedAt = time.Now()
	_, err := r.Collection.InsertOne(ctx, email)
	return err
}

func (r *EmailRepositoryImpl) UpdateStatus(ctx context.Context, id primitive.ObjectID, status EmailStatus, errorMsg, messageID string) error {
	set := bson.M{
		"status":        status,
		"error_message": errorMsg,
	}
	if messageID != "" {
		set["message_id"] = messageID
	}
	if status == EmailSent {
		set["sent_at"] = time.Now()
	}
	_, err := r.Collection.UpdateByID(ctx, id, bson.M{"$set": set})
	return err
}

func (r *EmailRepositoryImpl) GetByID(ctx context.Context, id string) (*SentEmail, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}

	var email SentEmail
	err = r.Collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&email)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &email, nil
}

func (r *EmailRepositoryImpl) List(ctx context.Context, filter map[string]interface{}, limit, offset int64) ([]SentEmail, error) {
	query := bson.M{}
	for key, value := range filter {
		query[key] = value
	}

	opts := options.Find().
		SetSort(bson.M{"created_at": -1}).
		SetLimit(limit).
		SetSkip(offset)

	cursor, err := r.Collection.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var emails []SentEmail
	if err := cursor.All(ctx, &emails); err != nil {
		return nil, err
	}
	return emails, nil
}

func (r *EmailRepositoryImpl) DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.Collection.DeleteMany(ctx, bson.M{"created_at": bson.M{"$lt": cutoff}})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
