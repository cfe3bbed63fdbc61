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

// AccountStore implements store.AccountStore on the users collection.
type AccountStore struct {
	coll *mongo.Collection
}

// UpsertLogin records a login in one atomic round trip. $setOnInsert seeds
// role, status and createdAt only when the account is new; an existing
// account keeps its role and status no matter what the claims carry. The
// unique email index turns a concurrent duplicate upsert into a retryable
// duplicate-key error instead of a second account.
func (s *AccountStore) UpsertLogin(ctx context.Context, acct *domain.Account) (*domain.Account, error) {
	now := time.Now().UTC()

	setFields := bson.M{"updatedAt": now}
	if acct.DisplayName != "" {
		setFields["displayName"] = acct.DisplayName
	}
	if acct.PhotoURL != "" {
		setFields["photoURL"] = acct.PhotoURL
	}

	update := bson.M{
		"$set": setFields,
		"$inc": bson.M{"loginCount": 1},
		"$setOnInsert": bson.M{
			"_id":       newID(),
			"email":     acct.Email,
			"role":      acct.Role,
			"status":    acct.Status,
			"createdAt": now,
		},
	}

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var out domain.Account
	err := s.coll.FindOneAndUpdate(ctx, bson.M{"email": acct.Email}, update, opts).Decode(&out)
	if mongo.IsDuplicateKeyError(err) {
		// Lost a concurrent first-login race; the other writer created
		// the account, so this call degrades to a plain login update.
		err = s.coll.FindOneAndUpdate(ctx, bson.M{"email": acct.Email}, bson.M{
			"$set": setFields,
			"$inc": bson.M{"loginCount": 1},
		}, options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&out)
	}
	if err != nil {
		return nil, fmt.Errorf("upsert login %s: %w", acct.Email, err)
	}
	return &out, nil
}

func (s *AccountStore) FindByEmail(ctx context.Context, email string) (*domain.Account, error) {
	var out domain.Account
	err := s.coll.FindOne(ctx, bson.M{"email": email}).Decode(&out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find account by email: %w", err)
	}
	return &out, nil
}

func (s *AccountStore) List(ctx context.Context, q scope.AccountQuery) ([]domain.Account, int64, error) {
	filter := bson.M{}
	if q.Filter.ExcludeEmail != "" {
		filter["email"] = bson.M{"$ne": q.Filter.ExcludeEmail}
	}

	total, err := s.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count accounts: %w", err)
	}

	opts := options.Find().
		SetSort(sortNewestFirst).
		SetSkip(int64(q.Page.Skip())).
		SetLimit(int64(q.Page.Size))

	cursor, err := s.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list accounts: %w", err)
	}
	defer cursor.Close(ctx)

	items := make([]domain.Account, 0, q.Page.Size)
	if err := cursor.All(ctx, &items); err != nil {
		return nil, 0, fmt.Errorf("decode accounts: %w", err)
	}
	return items, total, nil
}

func (s *AccountStore) UpdateRole(ctx context.Context, email string, role domain.Role) error {
	return s.updateField(ctx, email, bson.M{"role": role})
}

func (s *AccountStore) UpdateStatus(ctx context.Context, email string, status domain.AccountStatus) error {
	return s.updateField(ctx, email, bson.M{"status": status})
}

func (s *AccountStore) updateField(ctx context.Context, email string, fields bson.M) error {
	fields["updatedAt"] = time.Now().UTC()
	res, err := s.coll.UpdateOne(ctx, bson.M{"email": email}, bson.M{"$set": fields})
	if err != nil {
		return fmt.Errorf("update account %s: %w", email, err)
	}
	if res.MatchedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *AccountStore) Count(ctx context.Context) (int64, error) {
	n, err := s.coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("count accounts: %w", err)
	}
	return n, nil
}
