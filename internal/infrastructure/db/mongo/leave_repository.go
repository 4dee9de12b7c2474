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

const collectionLeaves = "leaves"

// LeaveRepository implements ports.LeaveRepository using MongoDB.
type LeaveRepository struct {
	col *mongo.Collection
}

func NewLeaveRepository(db *mongo.Database) *LeaveRepository {
	return &LeaveRepository{col: db.Collection(collectionLeaves)}
}

type leaveDoc struct {
	ID               primitive.ObjectID `bson:"_id,omitempty"`
	EmployeeID       primitive.ObjectID `bson:"employee"`
	StartDate        time.Time          `bson:"start_date"`
	EndDate          time.Time          `bson:"end_date"`
	Reason           string             `bson:"reason"`
	DocumentPublicID string             `bson:"document_public_id,omitempty"`
	Status           string             `bson:"status"`
	ApprovedBy       primitive.ObjectID `bson:"approved_by,omitempty"`
	CreatedBy        primitive.ObjectID `bson:"created_by,omitempty"`
	CreatedAt        time.Time          `bson:"created_at"`
	UpdatedAt        time.Time          `bson:"updated_at"`
}

type employeeSummaryDoc struct {
	ID         primitive.ObjectID `bson:"_id"`
	FullName   string             `bson:"full_name"`
	Email      string             `bson:"email"`
	Department string             `bson:"department"`
}

type userSummaryDoc struct {
	ID    primitive.ObjectID `bson:"_id"`
	Name  string             `bson:"name"`
	Email string             `bson:"email"`
}

// leaveViewDoc is one row of the join pipeline. $lookup always yields arrays;
// each holds at most one element here.
type leaveViewDoc struct {
	Leave        leaveDoc             `bson:",inline"`
	EmployeeInfo []employeeSummaryDoc `bson:"employee_info"`
	ApproverInfo []userSummaryDoc     `bson:"approver_info"`
}

func newLeaveDoc(l *domain.Leave) leaveDoc {
	return leaveDoc{
		ID:               optionalID(l.ID),
		EmployeeID:       optionalID(l.EmployeeID),
		StartDate:        l.Period.Start,
		EndDate:          l.Period.End,
		Reason:           l.Reason,
		DocumentPublicID: l.DocumentPublicID,
		Status:           string(l.Status),
		ApprovedBy:       optionalID(l.ApprovedBy),
		CreatedBy:        optionalID(l.CreatedBy),
		CreatedAt:        l.CreatedAt,
		UpdatedAt:        l.UpdatedAt,
	}
}

func (d *leaveDoc) toDomain() *domain.Leave {
	return &domain.Leave{
		ID:               d.ID.Hex(),
		EmployeeID:       hexOrEmpty(d.EmployeeID),
		Period:           domain.LeavePeriod{Start: d.StartDate.UTC(), End: d.EndDate.UTC()},
		Reason:           d.Reason,
		DocumentPublicID: d.DocumentPublicID,
		Status:           domain.LeaveStatus(d.Status),
		ApprovedBy:       hexOrEmpty(d.ApprovedBy),
		CreatedBy:        hexOrEmpty(d.CreatedBy),
		CreatedAt:        d.CreatedAt.UTC(),
		UpdatedAt:        d.UpdatedAt.UTC(),
	}
}

func (d *leaveViewDoc) toDomain() *domain.LeaveView {
	v := &domain.LeaveView{Leave: *d.Leave.toDomain()}
	if len(d.EmployeeInfo) > 0 {
		e := d.EmployeeInfo[0]
		v.Employee = &domain.EmployeeSummary{ID: e.ID.Hex(), FullName: e.FullName, Email: e.Email, Department: e.Department}
	}
	if len(d.ApproverInfo) > 0 {
		u := d.ApproverInfo[0]
		v.Approver = &domain.UserSummary{ID: u.ID.Hex(), Name: u.Name, Email: u.Email}
	}
	return v
}

func (r *LeaveRepository) Create(ctx context.Context, l *domain.Leave) (*domain.Leave, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := newLeaveDoc(l)
	doc.ID = primitive.NewObjectID()
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("insert leave: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *LeaveRepository) FindByID(ctx context.Context, id string) (*domain.Leave, error) {
	oid, err := objectID(id, domain.ErrLeaveNotFound)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc leaveDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if isNoDocuments(err) {
			return nil, domain.ErrLeaveNotFound
		}
		return nil, fmt.Errorf("find leave: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *LeaveRepository) View(ctx context.Context, id string) (*domain.LeaveView, error) {
	oid, err := objectID(id, domain.ErrLeaveNotFound)
	if err != nil {
		return nil, err
	}
	views, err := r.aggregate(ctx, bson.M{"_id": oid}, true)
	if err != nil {
		return nil, err
	}
	if len(views) == 0 {
		return nil, domain.ErrLeaveNotFound
	}
	return views[0], nil
}

// List returns every leave, newest first, with employee and approver joined.
func (r *LeaveRepository) List(ctx context.Context) ([]*domain.LeaveView, error) {
	return r.aggregate(ctx, bson.M{}, true)
}

// ListByEmployee returns one employee's leaves with approver details only.
func (r *LeaveRepository) ListByEmployee(ctx context.Context, employeeID string) ([]*domain.LeaveView, error) {
	oid, err := objectID(employeeID, domain.ErrEmployeeNotFound)
	if err != nil {
		return nil, err
	}
	return r.aggregate(ctx, bson.M{"employee": oid}, false)
}

// UpdateStatus applies the decision atomically. With expect set the filter
// includes the expected status, so a concurrent decision wins exactly once.
func (r *LeaveRepository) UpdateStatus(ctx context.Context, id string, expect, status domain.LeaveStatus, approvedBy string, at time.Time) (*domain.Leave, error) {
	oid, err := objectID(id, domain.ErrLeaveNotFound)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"_id": oid}
	if expect != "" {
		filter["status"] = string(expect)
	}
	update := bson.M{"$set": bson.M{
		"status":      string(status),
		"approved_by": optionalID(approvedBy),
		"updated_at":  at,
	}}

	var doc leaveDoc
	err = r.col.FindOneAndUpdate(ctx, filter, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err == nil {
		return doc.toDomain(), nil
	}
	if !isNoDocuments(err) {
		return nil, fmt.Errorf("update leave status: %w", err)
	}
	if expect == "" {
		return nil, domain.ErrLeaveNotFound
	}
	// Distinguish a missing leave from one that was decided meanwhile.
	if _, err := r.FindByID(ctx, id); err != nil {
		return nil, err
	}
	return nil, domain.ErrLeaveDecided
}

func (r *LeaveRepository) Delete(ctx context.Context, id string) error {
	oid, err := objectID(id, domain.ErrLeaveNotFound)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete leave: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrLeaveNotFound
	}
	return nil
}

func (r *LeaveRepository) aggregate(ctx context.Context, match bson.M, withEmployee bool) ([]*domain.LeaveView, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Aggregate(ctx, leaveViewPipeline(match, withEmployee))
	if err != nil {
		return nil, fmt.Errorf("aggregate leaves: %w", err)
	}
	var docs []leaveViewDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode leaves: %w", err)
	}

	out := make([]*domain.LeaveView, 0, len(docs))
	for i := range docs {
		out = append(out, docs[i].toDomain())
	}
	return out, nil
}

// leaveViewPipeline joins display fields of the referenced employee and
// approver. Sensitive and bulky fields of the joined documents are dropped.
func leaveViewPipeline(match bson.M, withEmployee bool) mongo.Pipeline {
	p := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$sort", Value: bson.D{{Key: "created_at", Value: -1}}}},
	}
	project := bson.D{}
	if withEmployee {
		p = append(p, bson.D{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: collectionEmployees},
			{Key: "localField", Value: "employee"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "employee_info"},
		}}})
		project = append(project,
			bson.E{Key: "employee_info.attendance", Value: 0},
			bson.E{Key: "employee_info.salary", Value: 0},
		)
	}
	p = append(p, bson.D{{Key: "$lookup", Value: bson.D{
		{Key: "from", Value: collectionUsers},
		{Key: "localField", Value: "approved_by"},
		{Key: "foreignField", Value: "_id"},
		{Key: "as", Value: "approver_info"},
	}}})
	project = append(project, bson.E{Key: "approver_info.password_hash", Value: 0})
	return append(p, bson.D{{Key: "$project", Value: project}})
}

// EnsureIndexes creates necessary indexes on the leaves collection.
func (r *LeaveRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "employee", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
	})
	return err
}
