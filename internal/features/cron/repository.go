package cron_feature

import (
	"context"
	"time"

	"go-approvals/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type CronRepository interface {
	CreateLog(ctx context.Context, log *SweepLog) error
	UpdateLog(ctx context.Context, log *SweepLog) error
	GetLogs(ctx context.Context, limit int) ([]SweepLog, error)
	// DeleteAppLogsBefore clears old entries written by the DB log writer.
	DeleteAppLogsBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type CronRepositoryImpl struct {
	logCollection *mongo.Collection
	appLogs       *mongo.Collection
}

func NewCronRepository(db *database.MongodbDB) CronRepository {
	return &CronRepositoryImpl{
		logCollection: db.DB.Collection("retention_sweeps"),
		appLogs:       db.DB.Collection("logs"),
	}
}

func (r *CronRepositoryImpl) CreateLog(ctx context.Context, log *SweepLog) error {
	log.ID = primitive.NewObjectID()
	log.CreatedAt = time.Now()

	_, err := r.logCollection.InsertOne(ctx, log)
	return err
}

func (r *CronRepositoryImpl) UpdateLog(ctx context.Context, log *SweepLog) error {
	_, err := r.logCollection.UpdateOne(ctx, bson.M{"_id": log.ID}, bson.M{"$set": log})
	return err
}

func (r *CronRepositoryImpl) GetLogs(ctx context.Context, limit int) ([]SweepLog, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "start_time", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := r.logCollection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	logs := []SweepLog{}
	if err = cursor.All(ctx, &logs); err != nil {
		return nil, err
	}
	return logs, nil
}

func (r *CronRepositoryImpl) DeleteAppLogsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.appLogs.DeleteMany(ctx, bson.M{"created_on_utc": bson.M{"$lt": cutoff}})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
