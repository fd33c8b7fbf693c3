package mongostore

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/joestump/movies/internal/store"
)

type movieDoc struct {
	ID          bson.ObjectID  `bson:"_id"`
	Name        string         `bson:"name"`
	Description string         `bson:"description"`
	Year        int            `bson:"year"`
	Genres      []string       `bson:"genres"`
	Rating      float64        `bson:"rating"`
	CreatedBy   *bson.ObjectID `bson:"createdBy,omitempty"`
	CreatedAt   time.Time      `bson:"createdAt"`
	UpdatedAt   time.Time      `bson:"updatedAt"`
}

func (d *movieDoc) movie() *store.Movie {
	m := &store.Movie{
		ID:          d.ID.Hex(),
		Name:        d.Name,
		Description: d.Description,
		Year:        d.Year,
		Genres:      d.Genres,
		Rating:      d.Rating,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
	if d.CreatedBy != nil {
		m.CreatedBy = d.CreatedBy.Hex()
	}
	return m
}

func newMovieDoc(in store.MovieInput, createdBy string, now time.Time) (movieDoc, error) {
	doc := movieDoc{
		ID:          bson.NewObjectID(),
		Name:        in.Name,
		Description: in.Description,
		Year:        in.Year,
		Genres:      in.Genres,
		Rating:      in.Rating,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if createdBy != "" {
		oid, err := bson.ObjectIDFromHex(createdBy)
		if err != nil {
			return movieDoc{}, err
		}
		doc.CreatedBy = &oid
	}
	return doc, nil
}

// MovieStore is the MongoDB implementation of store.MovieStoreIface.
type MovieStore struct {
	coll *mongo.Collection
}

func NewMovieStore(db *mongo.Database) *MovieStore {
	return &MovieStore{coll: db.Collection(moviesCollection)}
}

func (s *MovieStore) Create(ctx context.Context, in store.MovieInput, createdBy string) (*store.Movie, error) {
	doc, err := newMovieDoc(in, createdBy, time.Now().UTC().Truncate(time.Millisecond))
	if err != nil {
		return nil, err
	}
	if _, err := s.coll.InsertOne(ctx, doc); err != nil {
		return nil, err
	}
	return doc.movie(), nil
}

func (s *MovieStore) GetByID(ctx context.Context, id string) (*store.Movie, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	var doc movieDoc
	if err := s.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		return nil, notFound(err)
	}
	return doc.movie(), nil
}

func (s *MovieStore) List(ctx context.Context) ([]*store.Movie, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "name", Value: 1}})
	cur, err := s.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	var docs []movieDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	movies := make([]*store.Movie, 0, len(docs))
	for i := range docs {
		movies = append(movies, docs[i].movie())
	}
	return movies, nil
}

func (s *MovieStore) Update(ctx context.Context, id string, in store.MovieInput) (*store.Movie, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	update := bson.M{"$set": bson.M{
		"name":        in.Name,
		"description": in.Description,
		"year":        in.Year,
		"genres":      in.Genres,
		"rating":      in.Rating,
		"updatedAt":   time.Now().UTC().Truncate(time.Millisecond),
	}}
	res, err := s.coll.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return nil, err
	}
	if res.MatchedCount == 0 {
		return nil, store.ErrNotFound
	}
	return s.GetByID(ctx, id)
}

func (s *MovieStore) Delete(ctx context.Context, id string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

// ReplaceAll deletes every movie and inserts movies. Unlike the SQL store this
// is not atomic: MongoDB transactions need a replica set.
func (s *MovieStore) ReplaceAll(ctx context.Context, movies []store.MovieInput, createdBy string) (int, error) {
	now := time.Now().UTC().Truncate(time.Millisecond)
	docs := make([]any, 0, len(movies))
	for _, in := range movies {
		doc, err := newMovieDoc(in, createdBy, now)
		if err != nil {
			return 0, err
		}
		docs = append(docs, doc)
	}

	if _, err := s.coll.DeleteMany(ctx, bson.M{}); err != nil {
		return 0, err
	}
	if len(docs) == 0 {
		return 0, nil
	}
	res, err := s.coll.InsertMany(ctx, docs)
	if err != nil {
		return 0, err
	}
	return len(res.InsertedIDs), nil
}
