package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"interviewlens/internal/model"
)

// ResultRepo handles MongoDB operations for finished evaluations
type ResultRepo interface {
	// Save upserts the record keyed by candidate id, so retried pipelines
	// overwrite their own partial write instead of duplicating it.
	Save(ctx context.Context, record *model.ResultRecord) error
	GetByCandidate(ctx context.Context, candidateID string) (*model.ResultRecord, error)
	List(ctx context.Context, limit int) ([]*model.ResultRecord, error)
}

type resultRepo struct {
	collection *mongo.Collection
}

// NewResultRepo creates a new result repository
func NewResultRepo(db *mongo.Database) ResultRepo {
	return &resultRepo{
		collection: db.Collection("results"),
	}
}

func (r *resultRepo) Save(ctx context.Context, record *model.ResultRecord) error {
	if record.ProcessedAt.IsZero() {
		record.ProcessedAt = time.Now()
	}
	opts := options.Replace().SetUpsert(true)
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": record.CandidateID}, record, opts)
	if err != nil {
		return &model.PersistenceError{Op: "save result", Err: err}
	}
	return nil
}

func (r *resultRepo) GetByCandidate(ctx context.Context, candidateID string) (*model.ResultRecord, error) {
	var record model.ResultRecord
	err := r.collection.FindOne(ctx, bson.M{"_id": candidateID}).Decode(&record)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, &model.PersistenceError{Op: "get result", Err: err}
	}
	return &record, nil
}

func (r *resultRepo) List(ctx context.Context, limit int) ([]*model.ResultRecord, error) {
	opts := options.Find().SetSort(bson.M{"processedAt": -1})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, &model.PersistenceError{Op: "list results", Err: err}
	}
	defer cursor.Close(ctx)

	var records []*model.ResultRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, &model.PersistenceError{Op: "list results", Err: err}
	}
	return records, nil
}
