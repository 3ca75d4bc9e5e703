package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"interviewlens/internal/model"
)

// CandidateRepo handles MongoDB operations for the candidate worklist
type CandidateRepo interface {
	Insert(ctx context.Context, candidate *model.Candidate) error
	GetByID(ctx context.Context, id string) (*model.Candidate, error)
	// FindUnprocessed returns claimable rows: not processed, not permanently
	// failed, and not held by a live claim.
	FindUnprocessed(ctx context.Context, limit int) ([]*model.Candidate, error)
	// Claim atomically takes ownership of one row. Returns nil when someone
	// else already holds it or it is no longer claimable.
	Claim(ctx context.Context, id string) (*model.Candidate, error)
	// Release gives a claim back so a later scan can retry the row.
	Release(ctx context.Context, id, lastError string) error
	MarkProcessed(ctx context.Context, id string) error
	// MarkFailed retires a row permanently after retries are exhausted.
	MarkFailed(ctx context.Context, id, lastError string) error
}

type candidateRepo struct {
	collection *mongo.Collection
	claimTTL   time.Duration
}

// NewCandidateRepo creates a new candidate repository. Claims older than
// claimTTL are treated as abandoned and become claimable again.
func NewCandidateRepo(db *mongo.Database, claimTTL time.Duration) CandidateRepo {
	return &candidateRepo{
		collection: db.Collection("candidates"),
		claimTTL:   claimTTL,
	}
}

// claimable matches rows that a scan may pick up right now.
func (r *candidateRepo) claimable() bson.M {
	staleBefore := time.Now().Add(-r.claimTTL)
	return bson.M{
		"processed":         0,
		"permanentlyFailed": bson.M{"$ne": true},
		"$or": []bson.M{
			{"claimedAt": nil},
			{"claimedAt": bson.M{"$lt": staleBefore}},
		},
	}
}

func (r *candidateRepo) Insert(ctx context.Context, candidate *model.Candidate) error {
	if candidate.CreatedAt.IsZero() {
		candidate.CreatedAt = time.Now()
	}
	_, err := r.collection.InsertOne(ctx, candidate)
	if err != nil {
		return &model.PersistenceError{Op: "insert candidate", Err: err}
	}
	return nil
}

func (r *candidateRepo) GetByID(ctx context.Context, id string) (*model.Candidate, error) {
	var c model.Candidate
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&c)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, &model.PersistenceError{Op: "get candidate", Err: err}
	}
	return &c, nil
}

func (r *candidateRepo) FindUnprocessed(ctx context.Context, limit int) ([]*model.Candidate, error) {
	opts := options.Find().SetSort(bson.M{"createdAt": 1})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	cursor, err := r.collection.Find(ctx, r.claimable(), opts)
	if err != nil {
		return nil, &model.PersistenceError{Op: "find unprocessed", Err: err}
	}
	defer cursor.Close(ctx)

	var candidates []*model.Candidate
	if err := cursor.All(ctx, &candidates); err != nil {
		return nil, &model.PersistenceError{Op: "find unprocessed", Err: err}
	}
	return candidates, nil
}

func (r *candidateRepo) Claim(ctx context.Context, id string) (*model.Candidate, error) {
	filter := r.claimable()
	filter["_id"] = id

	update := bson.M{
		"$set": bson.M{"claimedAt": time.Now()},
		"$inc": bson.M{"attempts": 1},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var c model.Candidate
	err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&c)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, &model.PersistenceError{Op: "claim candidate", Err: err}
	}
	return &c, nil
}

func (r *candidateRepo) Release(ctx context.Context, id, lastError string) error {
	update := bson.M{
		"$unset": bson.M{"claimedAt": ""},
		"$set":   bson.M{"lastError": lastError},
	}
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return &model.PersistenceError{Op: "release claim", Err: err}
	}
	return nil
}

func (r *candidateRepo) MarkProcessed(ctx context.Context, id string) error {
	update := bson.M{
		"$set":   bson.M{"processed": 1, "lastError": ""},
		"$unset": bson.M{"claimedAt": ""},
	}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return &model.PersistenceError{Op: "mark processed", Err: err}
	}
	if result.MatchedCount == 0 {
		return &model.PersistenceError{Op: "mark processed", Err: mongo.ErrNoDocuments}
	}
	return nil
}

func (r *candidateRepo) MarkFailed(ctx context.Context, id, lastError string) error {
	update := bson.M{
		"$set":   bson.M{"permanentlyFailed": true, "lastError": lastError},
		"$unset": bson.M{"claimedAt": ""},
	}
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return &model.PersistenceError{Op: "mark failed", Err: err}
	}
	return nil
}
