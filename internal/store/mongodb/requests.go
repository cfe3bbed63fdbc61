package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"bookbridge.io/bookbridge/internal/domain"
	"bookbridge.io/bookbridge/internal/scope"
	"bookbridge.io/bookbridge/internal/store"
)

// RequestStore implements store.RequestStore on the requests collection.
type RequestStore struct {
	coll *mongo.Collection
}

func (s *RequestStore) Insert(ctx context.Context, req *domain.DonationRequest) (*domain.DonationRequest, error) {
	now := time.Now().UTC()
	req.ID = newID()
	req.CreatedAt = now
	req.UpdatedAt = now

	if _, err := s.coll.InsertOne(ctx, req); err != nil {
		return nil, fmt.Errorf("insert request: %w", err)
	}
	return req, nil
}

func (s *RequestStore) FindByID(ctx context.Context, id string) (*domain.DonationRequest, error) {
	if !store.ValidID(id) {
		return nil, store.ErrInvalidID
	}
	var out domain.DonationRequest
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find request %s: %w", id, err)
	}
	return &out, nil
}

func (s *RequestStore) List(ctx context.Context, q scope.RequestQuery) ([]domain.DonationRequest, int64, error) {
	filter := requestFilter(q.Filter)

	total, err := s.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count requests: %w", err)
	}

	opts := options.Find().
		SetSort(sortNewestFirst).
		SetSkip(int64(q.Page.Skip())).
		SetLimit(int64(q.Page.Size))

	cursor, err := s.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list requests: %w", err)
	}
	defer cursor.Close(ctx)

	items := make([]domain.DonationRequest, 0, q.Page.Size)
	if err := cursor.All(ctx, &items); err != nil {
		return nil, 0, fmt.Errorf("decode requests: %w", err)
	}
	return items, total, nil
}

func (s *RequestStore) UpdateStatus(ctx context.Context, id string, status domain.RequestStatus) (*domain.DonationRequest, error) {
	if !store.ValidID(id) {
		return nil, store.ErrInvalidID
	}

	var out domain.DonationRequest
	err := s.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"status": status, "updatedAt": time.Now().UTC()}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update request %s: %w", id, err)
	}
	return &out, nil
}

func (s *RequestStore) Delete(ctx context.Context, id string) error {
	if !store.ValidID(id) {
		return store.ErrInvalidID
	}
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete request %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *RequestStore) Count(ctx context.Context, filter scope.RequestFilter) (int64, error) {
	n, err := s.coll.CountDocuments(ctx, requestFilter(filter))
	if err != nil {
		return 0, fmt.Errorf("count requests: %w", err)
	}
	return n, nil
}

func requestFilter(f scope.RequestFilter) bson.M {
	filter := bson.M{}
	if f.RequesterEmail != "" {
		filter["requesterEmail"] = f.RequesterEmail
	}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	return filter
}
