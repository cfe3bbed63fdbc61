package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"bookbridge.io/bookbridge/internal/domain"
	"bookbridge.io/bookbridge/internal/scope"
	"bookbridge.io/bookbridge/internal/store"
)

// newID mints a fresh 24-hex record identifier.
func newID() string {
	return primitive.NewObjectID().Hex()
}

// BookStore implements store.BookStore on the books collection.
type BookStore struct {
	coll *mongo.Collection
}

func (s *BookStore) Insert(ctx context.Context, book *domain.Book) (*domain.Book, error) {
	now := time.Now().UTC()
	book.ID = newID()
	book.CreatedAt = now
	book.UpdatedAt = now

	if _, err := s.coll.InsertOne(ctx, book); err != nil {
		return nil, fmt.Errorf("insert book: %w", err)
	}
	return book, nil
}

func (s *BookStore) FindByID(ctx context.Context, id string) (*domain.Book, error) {
	if !store.ValidID(id) {
		return nil, store.ErrInvalidID
	}
	var out domain.Book
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find book %s: %w", id, err)
	}
	return &out, nil
}

func (s *BookStore) List(ctx context.Context, q scope.BookQuery) ([]domain.Book, int64, error) {
	filter := bookFilter(q.Filter)

	total, err := s.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count books: %w", err)
	}

	opts := options.Find().
		SetSort(sortNewestFirst).
		SetSkip(int64(q.Page.Skip())).
		SetLimit(int64(q.Page.Size))

	cursor, err := s.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list books: %w", err)
	}
	defer cursor.Close(ctx)

	items := make([]domain.Book, 0, q.Page.Size)
	if err := cursor.All(ctx, &items); err != nil {
		return nil, 0, fmt.Errorf("decode books: %w", err)
	}
	return items, total, nil
}

// MarkRequested is a conditional write: the filter pins the current status
// to available, so two concurrent requesters cannot both win. The loser
// sees no matching document and gets ErrConflict (or ErrNotFound when the
// book never existed).
func (s *BookStore) MarkRequested(ctx context.Context, id, requesterEmail string, donationAmount *int64) (*domain.Book, error) {
	if !store.ValidID(id) {
		return nil, store.ErrInvalidID
	}

	set := bson.M{
		"status":      domain.BookRequested,
		"requestedBy": requesterEmail,
		"updatedAt":   time.Now().UTC(),
	}
	if donationAmount != nil {
		set["donationAmount"] = *donationAmount
	}

	var out domain.Book
	err := s.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "status": domain.BookAvailable},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		if _, findErr := s.FindByID(ctx, id); findErr != nil {
			return nil, findErr
		}
		return nil, store.ErrConflict
	}
	if err != nil {
		return nil, fmt.Errorf("mark book %s requested: %w", id, err)
	}
	return &out, nil
}

func (s *BookStore) Count(ctx context.Context, filter scope.BookFilter) (int64, error) {
	n, err := s.coll.CountDocuments(ctx, bookFilter(filter))
	if err != nil {
		return 0, fmt.Errorf("count books: %w", err)
	}
	return n, nil
}

func bookFilter(f scope.BookFilter) bson.M {
	filter := bson.M{}
	if f.OwnerEmail != "" {
		filter["ownerEmail"] = f.OwnerEmail
	}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	return filter
}
