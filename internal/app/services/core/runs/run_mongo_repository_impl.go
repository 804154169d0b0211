package runs

import (
	"context"
	"openmrs-billing-e2e/internal/app/contracts"
	"openmrs-billing-e2e/internal/app/models"
	"openmrs-billing-e2e/internal/pkg/constvars"
	"openmrs-billing-e2e/internal/pkg/exceptions"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type RunMongoRepository struct {
	Collection *mongo.Collection
}

func NewRunMongoRepository(db *mongo.Client, dbName string) contracts.RunRepository {
	return &RunMongoRepository{
		Collection: db.Database(dbName).Collection(constvars.MongoCollectionRuns),
	}
}

func (repo *RunMongoRepository) CreateRun(ctx context.Context, run *models.Run) error {
	_, err := repo.Collection.InsertOne(ctx, run)
	if err != nil {
		return exceptions.ErrMongoDBInsertDocument(err, constvars.MongoCollectionRuns)
	}
	return nil
}

func (repo *RunMongoRepository) UpdateRun(ctx context.Context, run *models.Run) error {
	filter := bson.M{"_id": run.ID}
	_, err := repo.Collection.ReplaceOne(ctx, filter, run, options.Replace().SetUpsert(false))
	if err != nil {
		return exceptions.ErrMongoDBUpdateDocument(err, constvars.MongoCollectionRuns)
	}
	return nil
}

// FindRunByID returns nil without an error when no run carries the id.
func (repo *RunMongoRepository) FindRunByID(ctx context.Context, runID string) (*models.Run, error) {
	run := new(models.Run)
	err := repo.Collection.FindOne(ctx, bson.M{"_id": runID}).Decode(run)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, exceptions.ErrMongoDBFindDocument(err, constvars.MongoCollectionRuns)
	}
	return run, nil
}

func (repo *RunMongoRepository) ListRuns(ctx context.Context, limit int) ([]models.Run, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "startedAt", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := repo.Collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, exceptions.ErrMongoDBFindDocument(err, constvars.MongoCollectionRuns)
	}
	defer cursor.Close(ctx)

	runs := make([]models.Run, 0)
	if err := cursor.All(ctx, &runs); err != nil {
		return nil, exceptions.ErrMongoDBDecodeDocument(err, constvars.MongoCollectionRuns)
	}
	return runs, nil
}
