package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/birdieplay/birdieplay-backend/internal/models"
	"github.com/birdieplay/birdieplay-backend/pkg/mongodb"
	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Imports historical score records from a CSV export. Expected columns:
// email, score, date (YYYY-MM-DD), courseRef (optional). Rows for unknown
// users are skipped with a warning.
func main() {
	err := godotenv.Load()
	if err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	mongoURI := os.Getenv("MONGODB_URI")
	if mongoURI == "" {
		log.Fatal("MONGODB_URI environment variable is required")
	}

	dbName := os.Getenv("MONGODB_DATABASE")
	if dbName == "" {
		dbName = "birdieplay"
	}

	if len(os.Args) < 2 {
		log.Fatal("CSV file path is required as a command line argument")
	}
	csvFilePath := os.Args[1]

	client, err := mongodb.NewClient(mongoURI)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer client.Disconnect(context.Background())

	db := client.Database(dbName)

	imported, skipped, err := importScores(db, csvFilePath)
	if err != nil {
		log.Fatalf("Failed to import scores: %v", err)
	}

	log.Printf("Import finished: %d scores imported, %d rows skipped", imported, skipped)
}

func importScores(db *mongo.Database, csvFilePath string) (int, int, error) {
	file, err := os.Open(csvFilePath)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to open CSV file: %v", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	records, err := reader.ReadAll()
	if err != nil {
		return 0, 0, fmt.Errorf("failed to parse CSV file: %v", err)
	}

	if len(records) < 2 {
		return 0, 0, fmt.Errorf("CSV file is empty or has only a header")
	}

	usersCollection := db.Collection("users")
	scoresCollection := db.Collection("scores")

	imported, skipped := 0, 0
	for i, record := range records {
		if i == 0 {
			continue
		}

		if len(record) < 3 {
			log.Printf("Warning: row %d has fewer than 3 fields, skipping", i)
			skipped++
			continue
		}

		email := record[0]
		score, err := strconv.Atoi(record[1])
		if err != nil || score < 0 || score > 60 {
			log.Printf("Warning: row %d has an invalid score, skipping", i)
			skipped++
			continue
		}
		date, err := time.Parse("2006-01-02", record[2])
		if err != nil {
			log.Printf("Warning: row %d has an invalid date format, skipping", i)
			skipped++
			continue
		}
		courseRef := ""
		if len(record) > 3 {
			courseRef = record[3]
		}

		var user struct {
			ID primitive.ObjectID `bson:"_id"`
		}
		err = usersCollection.FindOne(context.Background(), bson.M{"email": email}).Decode(&user)
		if err != nil {
			log.Printf("Warning: row %d references unknown user %s, skipping", i, email)
			skipped++
			continue
		}

		scoreRecord := models.ScoreRecord{
			UserID:    user.ID,
			Score:     score,
			CourseRef: courseRef,
			CreatedAt: date,
		}
		if _, err := scoresCollection.InsertOne(context.Background(), scoreRecord); err != nil {
			log.Printf("Warning: failed to insert score for row %d: %v", i, err)
			skipped++
			continue
		}
		imported++
	}

	return imported, skipped, nil
}
