package task

import (
	"context"
	"errors"
	"time"

	"go-approvals/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	ErrTaskNotFound   = errors.New("task not found")
	ErrTaskNotPending = errors.New("task is not pending")
)

type TaskRepository interface {
	Create(ctx context.Context, task *Task) error
	FindByID(ctx context.Context, taskID int) (*Task, error)
	List(ctx context.Context, filter map[string]interface{}, limit, offset int64) ([]Task, error)
	// ApplyDecision resolves a pending task. Returns ErrTaskNotPending
	// when the task exists but was already resolved.
	ApplyDecision(ctx context.Context, taskID int, decision Decision, status TaskStatus) (*Task, error)
}

type TaskRepositoryImpl struct {
	Collection *mongo.Collection
	Counters   *mongo.Collection
}

func NewTaskRepository(mongodb *database.MongodbDB) TaskRepository {
	return &TaskRepositoryImpl{
		Collection: mongodb.DB.Collection("tasks"),
		Counters:   mongodb.DB.Collection("counters"),
	}
}

// nextTaskID increments the shared sequence document, creating it on
// first use.
func (r *TaskRepositoryImpl) nextTaskID(ctx context.Context) (int, error) {
	var doc struct {
		Seq int `bson:"seq"`
	}
	err := r.Counters.FindOneAndUpdate(ctx,
		bson.M{"_id": "tasks"},
		bson.M{"$inc": bson.M{"seq": 1}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		return 0, err
	}
	return doc.Seq, nil
}

func (r *TaskRepositoryImpl) Create(ctx context.Context, task *Task) error {
	id, err := r.nextTaskID(ctx)
	if err != nil {
		return err
	}
	task.ID = id
	task.Status = TaskPending
	now := time.Now().UTC()
	task.CreatedAt = now
	task.UpdatedAt = now

	_, err = r.Collection.InsertOne(ctx, task)
	return err
}

func (r *TaskRepositoryImpl) FindByID(ctx context.Context, taskID int) (*Task, error) {
	var task Task
	err := r.Collection.FindOne(ctx, bson.M{"task_id": taskID}).Decode(&task)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}
	return &task, nil
}

func (r *TaskRepositoryImpl) List(ctx context.Context, filter map[string]interface{}, limit, offset int64) ([]Task, error) {
	query := bson.M{}
	for k, v := range filter {
		query[k] = v
	}

	opts := options.Find().SetSort(bson.M{"created_at": -1})
	if limit > 0 {
		opts.SetLimit(limit).SetSkip(offset)
	}

	cursor, err := r.Collection.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	tasks := []Task{}
	if err := cursor.All(ctx, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (r *TaskRepositoryImpl) ApplyDecision(ctx context.Context, taskID int, decision Decision, status TaskStatus) (*Task, error) {
	var task Task
	err := r.Collection.FindOneAndUpdate(ctx,
		bson.M{"task_id": taskID, "status": TaskPending},
		bson.M{"$set": bson.M{
			"status":     status,
			"decision":   decision,
			"updated_at": time.Now().UTC(),
		}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&task)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			// Distinguish missing from already-resolved.
			if _, lookupErr := r.FindByID(ctx, taskID); lookupErr != nil {
				return nil, lookupErr
			}
			return nil, ErrTaskNotPending
		}
		return nil, err
	}
	return &task, nil
}
