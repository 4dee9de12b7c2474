package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/peoplehub/hr-service/internal/core/domain"
)

const collectionCandidates = "candidates"

type CandidateRepository struct {
	col *mongo.Collection
}

func NewCandidateRepository(db *mongo.Database) *CandidateRepository {
	return &CandidateRepository{col: db.Collection(collectionCandidates)}
}

type candidateDoc struct {
	ID             primitive.ObjectID `bson:"_id,omitempty"`
	FullName       string             `bson:"full_name"`
	Email          string             `bson:"email"`
	Phone          string             `bson:"phone"`
	Position       string             `bson:"position"`
	Department     string             `bson:"department"`
	Experience     float64            `bson:"experience"`
	DateOfJoining  time.Time          `bson:"date_of_joining"`
	ResumePublicID string             `bson:"resume_public_id,omitempty"`
	Status         string             `bson:"status"`
	CreatedBy      primitive.ObjectID `bson:"created_by,omitempty"`
	CreatedAt      time.Time          `bson:"created_at"`
	UpdatedAt      time.Time          `bson:"updated_at"`
}

func newCandidateDoc(c *domain.Candidate) candidateDoc {
	return candidateDoc{
		ID:             optionalID(c.ID),
		FullName:       c.FullName,
		Email:          c.Email,
		Phone:          c.Phone,
		Position:       c.Position,
		Department:     c.Department,
		Experience:     c.Experience,
		DateOfJoining:  c.DateOfJoining,
		ResumePublicID: c.ResumePublicID,
		Status:         c.Status,
		CreatedBy:      optionalID(c.CreatedBy),
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
}

func (d *candidateDoc) toDomain() *domain.Candidate {
	return &domain.Candidate{
		ID:             d.ID.Hex(),
		FullName:       d.FullName,
		Email:          d.Email,
		Phone:          d.Phone,
		Position:       d.Position,
		Department:     d.Department,
		Experience:     d.Experience,
		DateOfJoining:  d.DateOfJoining.UTC(),
		ResumePublicID: d.ResumePublicID,
		Status:         d.Status,
		CreatedBy:      hexOrEmpty(d.CreatedBy),
		CreatedAt:      d.CreatedAt.UTC(),
		UpdatedAt:      d.UpdatedAt.UTC(),
	}
}

func (r *CandidateRepository) Create(ctx context.Context, c *domain.Candidate) (*domain.Candidate, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := newCandidateDoc(c)
	doc.ID = primitive.NewObjectID()
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrCandidateExists
		}
		return nil, fmt.Errorf("insert candidate: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *CandidateRepository) FindByID(ctx context.Context, id string) (*domain.Candidate, error) {
	oid, err := objectID(id, domain.ErrCandidateNotFound)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc candidateDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if isNoDocuments(err) {
			return nil, domain.ErrCandidateNotFound
		}
		return nil, fmt.Errorf("find candidate: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *CandidateRepository) List(ctx context.Context) ([]*domain.Candidate, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("list candidates: %w", err)
	}
	var docs []candidateDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode candidates: %w", err)
	}

	out := make([]*domain.Candidate, 0, len(docs))
	for i := range docs {
		out = append(out, docs[i].toDomain())
	}
	return out, nil
}

// Update replaces the stored candidate with c, keeping creator and creation time.
func (r *CandidateRepository) Update(ctx context.Context, c *domain.Candidate) error {
	oid, err := objectID(c.ID, domain.ErrCandidateNotFound)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{
		"full_name":        c.FullName,
		"email":            c.Email,
		"phone":            c.Phone,
		"position":         c.Position,
		"department":       c.Department,
		"experience":       c.Experience,
		"date_of_joining":  c.DateOfJoining,
		"resume_public_id": c.ResumePublicID,
		"status":           c.Status,
		"updated_at":       c.UpdatedAt,
	}})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrCandidateExists
		}
		return fmt.Errorf("update candidate: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrCandidateNotFound
	}
	return nil
}

func (r *CandidateRepository) Delete(ctx context.Context, id string) error {
	oid, err := objectID(id, domain.ErrCandidateNotFound)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete candidate: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrCandidateNotFound
	}
	return nil
}

// EnsureIndexes creates necessary indexes on the candidates collection.
func (r *CandidateRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "status", Value: 1}}},
	})
	return err
}
