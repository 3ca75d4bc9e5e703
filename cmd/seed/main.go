package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"interviewlens/internal/model"
)

func main() {
	mongoURI := os.Getenv("INTERVIEWLENS_MONGO_URI")
	if mongoURI == "" {
		mongoURI = "mongodb://localhost:27017"
	}
	dbName := os.Getenv("INTERVIEWLENS_MONGO_DB")
	if dbName == "" {
		dbName = "interviewlens"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer client.Disconnect(ctx)

	coll := client.Database(dbName).Collection("candidates")

	candidates := []model.Candidate{
		{
			ID:           uuid.New().String(),
			Name:         "Anna Kowalska",
			Email:        "anna.kowalska@example.com",
			Phone:        "+48 600 100 200",
			Preferences:  "backend, remote",
			VideoURL:     "http://localhost:9090/media/anna-interview.mp4",
			CVURL:        "http://localhost:9090/docs/anna-cv.txt",
			QuestionsURL: "http://localhost:9090/docs/backend-questions.txt",
			CreatedAt:    time.Now(),
		},
		{
			ID:          uuid.New().String(),
			Name:        "Ivan Petrov",
			Email:       "ivan.petrov@example.com",
			Phone:       "+7 900 123 45 67",
			Preferences: "platform engineering",
			VideoURL:    "http://localhost:9090/media/ivan-interview.mp4",
			CreatedAt:   time.Now(),
		},
		{
			ID:        uuid.New().String(),
			Name:      "Jane Doe",
			Email:     "jane.doe@example.com",
			Phone:     "+1 555 0100",
			VideoURL:  "http://localhost:9090/media/jane-interview.mp4",
			CVURL:     "http://localhost:9090/docs/jane-cv.txt",
			CreatedAt: time.Now(),
		},
	}

	for _, c := range candidates {
		if _, err := coll.InsertOne(ctx, c); err != nil {
			log.Fatalf("Failed to insert candidate %s: %v", c.Name, err)
		}
	}

	fmt.Printf("Seeded %d candidates into %s.candidates\n", len(candidates), dbName)
}
