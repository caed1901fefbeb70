package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/moneymanager/money-api/internal/core/domain"
)

// TransactionRepository stores one Kind in its own collection. Dates are kept
// as YYYY-MM-DD strings so lexical comparison matches calendar order.
type TransactionRepository struct {
	col  *mongo.Collection
	kind domain.Kind
}

func NewTransactionRepository(db *mongo.Database, kind domain.Kind) *TransactionRepository {
	name := collectionExpenses
	if kind == domain.KindIncome {
		name = collectionIncomes
	}
	return &TransactionRepository{col: db.Collection(name), kind: kind}
}

type mongoTransaction struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	UserID      string             `bson:"user_id"`
	Username    string             `bson:"username"`
	Amount      float64            `bson:"amount"`
	Category    string             `bson:"category"`
	Description string             `bson:"description"`
	Date        string             `bson:"date"`
	Emoji       string             `bson:"emoji,omitempty"`
	CreatedAt   int64              `bson:"created_at"`
	UpdatedAt   int64              `bson:"updated_at"`
}

func (r *TransactionRepository) toDomain(m *mongoTransaction) (*domain.Transaction, error) {
	d, err := domain.ParseDate(m.Date)
	if err != nil {
		return nil, fmt.Errorf("decode %s date %q: %w", r.kind, m.Date, err)
	}
	return &domain.Transaction{
		ID:            m.ID.Hex(),
		Kind:          r.kind,
		UserID:        m.UserID,
		OwnerUsername: m.Username,
		Amount:        m.Amount,
		Category:      m.Category,
		Description:   m.Description,
		Date:          d,
		Emoji:         m.Emoji,
		CreatedAt:     unixToTime(m.CreatedAt),
		UpdatedAt:     unixToTime(m.UpdatedAt),
	}, nil
}

func (r *TransactionRepository) Kind() domain.Kind { return r.kind }

func (r *TransactionRepository) Create(ctx context.Context, t *domain.Transaction) (*domain.Transaction, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoTransaction{
		ID:          primitive.NewObjectID(),
		UserID:      t.UserID,
		Username:    t.OwnerUsername,
		Amount:      t.Amount,
		Category:    t.Category,
		Description: t.Description,
		Date:        t.Date.String(),
		Emoji:       t.Emoji,
		CreatedAt:   t.CreatedAt.Unix(),
		UpdatedAt:   t.UpdatedAt.Unix(),
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("insert %s: %w", r.kind, err)
	}
	return r.toDomain(&doc)
}

// FindByID returns the transaction regardless of its owner.
func (r *TransactionRepository) FindByID(ctx context.Context, id string) (*domain.Transaction, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrTransactionNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var m mongoTransaction
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&m); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrTransactionNotFound
		}
		return nil, fmt.Errorf("find %s: %w", r.kind, err)
	}
	return r.toDomain(&m)
}

func (r *TransactionRepository) Update(ctx context.Context, t *domain.Transaction) error {
	oid, err := primitive.ObjectIDFromHex(t.ID)
	if err != nil {
		return domain.ErrTransactionNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{
		"amount":      t.Amount,
		"category":    t.Category,
		"description": t.Description,
		"date":        t.Date.String(),
		"emoji":       t.Emoji,
		"updated_at":  t.UpdatedAt.Unix(),
	}})
	if err != nil {
		return fmt.Errorf("update %s: %w", r.kind, err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrTransactionNotFound
	}
	return nil
}

func (r *TransactionRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrTransactionNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete %s: %w", r.kind, err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrTransactionNotFound
	}
	return nil
}

func (r *TransactionRepository) ListByUser(ctx context.Context, username string) ([]*domain.Transaction, error) {
	return r.find(ctx, bson.M{"username": username})
}

func (r *TransactionRepository) ListByCategory(ctx context.Context, username, category string) ([]*domain.Transaction, error) {
	return r.find(ctx, bson.M{"username": username, "category": category})
}

func (r *TransactionRepository) ListByDateRange(ctx context.Context, username string, start, end domain.Date) ([]*domain.Transaction, error) {
	return r.find(ctx, bson.M{
		"username": username,
		"date":     bson.M{"$gte": start.String(), "$lte": end.String()},
	})
}

func (r *TransactionRepository) Total(ctx context.Context, username string) (float64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"username": username}}},
		{{Key: "$group", Value: bson.M{"_id": nil, "total": bson.M{"$sum": "$amount"}}}},
	})
	if err != nil {
		return 0, fmt.Errorf("total %s: %w", r.kind, err)
	}
	defer cur.Close(ctx)

	var rows []struct {
		Total float64 `bson:"total"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return 0, fmt.Errorf("decode %s total: %w", r.kind, err)
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return rows[0].Total, nil
}

func (r *TransactionRepository) TotalsByCategory(ctx context.Context, username string) ([]domain.CategoryTotal, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"username": username}}},
		{{Key: "$group", Value: bson.M{"_id": "$category", "amount": bson.M{"$sum": "$amount"}}}},
		{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
	})
	if err != nil {
		return nil, fmt.Errorf("totals by category %s: %w", r.kind, err)
	}
	defer cur.Close(ctx)

	var rows []struct {
		Category string  `bson:"_id"`
		Amount   float64 `bson:"amount"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("decode %s category totals: %w", r.kind, err)
	}

	out := make([]domain.CategoryTotal, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.CategoryTotal{Category: row.Category, Amount: row.Amount})
	}
	return out, nil
}

func (r *TransactionRepository) find(ctx context.Context, filter bson.M) ([]*domain.Transaction, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}, {Key: "created_at", Value: -1}})
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", r.kind, err)
	}
	defer cur.Close(ctx)

	var docs []mongoTransaction
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode %s: %w", r.kind, err)
	}

	out := make([]*domain.Transaction, 0, len(docs))
	for i := range docs {
		t, err := r.toDomain(&docs[i])
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}
