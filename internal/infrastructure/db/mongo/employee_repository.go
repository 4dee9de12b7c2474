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

const collectionEmployees = "employees"

type EmployeeRepository struct {
	col *mongo.Collection
}

func NewEmployeeRepository(db *mongo.Database) *EmployeeRepository {
	return &EmployeeRepository{col: db.Collection(collectionEmployees)}
}

type employeeDoc struct {
	ID             primitive.ObjectID `bson:"_id,omitempty"`
	FullName       string             `bson:"full_name"`
	Email          string             `bson:"email"`
	Phone          string             `bson:"phone"`
	Position       string             `bson:"position"`
	Department     string             `bson:"department"`
	Experience     float64            `bson:"experience"`
	Salary         float64            `bson:"salary"`
	DateOfJoining  time.Time          `bson:"date_of_joining"`
	ResumePublicID string             `bson:"resume_public_id,omitempty"`
	CandidateID    primitive.ObjectID `bson:"candidate_id,omitempty"`
	Attendance     domain.Ledger      `bson:"attendance"`
	CreatedBy      primitive.ObjectID `bson:"created_by,omitempty"`
	CreatedAt      time.Time          `bson:"created_at"`
	UpdatedAt      time.Time          `bson:"updated_at"`
}

func newEmployeeDoc(e *domain.Employee) employeeDoc {
	ledger := e.Attendance
	if ledger == nil {
		ledger = domain.Ledger{}
	}
	return employeeDoc{
		ID:             optionalID(e.ID),
		FullName:       e.FullName,
		Email:          e.Email,
		Phone:          e.Phone,
		Position:       e.Position,
		Department:     e.Department,
		Experience:     e.Experience,
		Salary:         e.Salary,
		DateOfJoining:  e.DateOfJoining,
		ResumePublicID: e.ResumePublicID,
		CandidateID:    optionalID(e.CandidateID),
		Attendance:     ledger,
		CreatedBy:      optionalID(e.CreatedBy),
		CreatedAt:      e.CreatedAt,
		UpdatedAt:      e.UpdatedAt,
	}
}

func (d *employeeDoc) toDomain() *domain.Employee {
	ledger := make(domain.Ledger, len(d.Attendance))
	for i, a := range d.Attendance {
		a.Date = a.Date.UTC()
		ledger[i] = a
	}
	return &domain.Employee{
		ID:             d.ID.Hex(),
		FullName:       d.FullName,
		Email:          d.Email,
		Phone:          d.Phone,
		Position:       d.Position,
		Department:     d.Department,
		Experience:     d.Experience,
		Salary:         d.Salary,
		DateOfJoining:  d.DateOfJoining.UTC(),
		ResumePublicID: d.ResumePublicID,
		CandidateID:    hexOrEmpty(d.CandidateID),
		Attendance:     ledger,
		CreatedBy:      hexOrEmpty(d.CreatedBy),
		CreatedAt:      d.CreatedAt.UTC(),
		UpdatedAt:      d.UpdatedAt.UTC(),
	}
}

// Create inserts a new employee document.
func (r *EmployeeRepository) Create(ctx context.Context, e *domain.Employee) (*domain.Employee, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := newEmployeeDoc(e)
	doc.ID = primitive.NewObjectID()
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrEmployeeExists
		}
		return nil, fmt.Errorf("insert employee: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *EmployeeRepository) FindByID(ctx context.Context, id string) (*domain.Employee, error) {
	oid, err := objectID(id, domain.ErrEmployeeNotFound)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc employeeDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if isNoDocuments(err) {
			return nil, domain.ErrEmployeeNotFound
		}
		return nil, fmt.Errorf("find employee: %w", err)
	}
	return doc.toDomain(), nil
}

// List returns all employees, newest first.
func (r *EmployeeRepository) List(ctx context.Context) ([]*domain.Employee, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}
	var docs []employeeDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode employees: %w", err)
	}

	out := make([]*domain.Employee, 0, len(docs))
	for i := range docs {
		out = append(out, docs[i].toDomain())
	}
	return out, nil
}

// Update overwrites the profile fields. The attendance array is not part of
// the $set so concurrent marks survive.
func (r *EmployeeRepository) Update(ctx context.Context, e *domain.Employee) error {
	oid, err := objectID(e.ID, domain.ErrEmployeeNotFound)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{
		"full_name":        e.FullName,
		"email":            e.Email,
		"phone":            e.Phone,
		"position":         e.Position,
		"department":       e.Department,
		"experience":       e.Experience,
		"salary":           e.Salary,
		"date_of_joining":  e.DateOfJoining,
		"resume_public_id": e.ResumePublicID,
		"updated_at":       e.UpdatedAt,
	}})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrEmployeeExists
		}
		return fmt.Errorf("update employee: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrEmployeeNotFound
	}
	return nil
}

func (r *EmployeeRepository) Delete(ctx context.Context, id string) error {
	oid, err := objectID(id, domain.ErrEmployeeNotFound)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete employee: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrEmployeeNotFound
	}
	return nil
}

// UpsertAttendance replaces the entry for entry.Date in place, or appends it
// when the day is not yet recorded. Both paths are single-document atomic
// updates, so a day never ends up with two entries.
func (r *EmployeeRepository) UpsertAttendance(ctx context.Context, employeeID string, entry domain.AttendanceEntry) (domain.Ledger, error) {
	oid, err := objectID(employeeID, domain.ErrEmployeeNotFound)
	if err != nil {
		return nil, err
	}
	entry.Date = domain.Day(entry.Date)
	now := time.Now().UTC()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	replace := func() (*employeeDoc, error) {
		return r.findOneAndUpdate(ctx,
			bson.M{"_id": oid, "attendance.date": entry.Date},
			bson.M{"$set": bson.M{
				"attendance.$.status": entry.Status,
				"attendance.$.note":   entry.Note,
				"updated_at":          now,
			}})
	}

	doc, err := replace()
	if err != nil {
		return nil, err
	}
	if doc == nil {
		doc, err = r.findOneAndUpdate(ctx,
			bson.M{"_id": oid, "attendance.date": bson.M{"$ne": entry.Date}},
			bson.M{
				"$push": bson.M{"attendance": entry},
				"$set":  bson.M{"updated_at": now},
			})
		if err != nil {
			return nil, err
		}
	}
	if doc == nil {
		// Either the employee is gone or a concurrent mark appended the same
		// day between our two updates; the latter now matches the replace.
		if doc, err = replace(); err != nil {
			return nil, err
		}
	}
	if doc == nil {
		return nil, domain.ErrEmployeeNotFound
	}
	return doc.toDomain().Attendance, nil
}

// findOneAndUpdate returns the updated document, or nil when filter matched
// nothing.
func (r *EmployeeRepository) findOneAndUpdate(ctx context.Context, filter, update bson.M) (*employeeDoc, error) {
	var doc employeeDoc
	err := r.col.FindOneAndUpdate(ctx, filter, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if isNoDocuments(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("upsert attendance: %w", err)
	}
	return &doc, nil
}

// EnsureIndexes creates necessary indexes on the employees collection.
func (r *EmployeeRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "created_by", Value: 1}}},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
	})
	return err
}
