// internal/app/store/messages/messagestore.go
package messages

import (
	"context"
	"time"

	"github.com/campuschat/campuschat/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store manages persisted chat messages.
type Store struct {
	c *mongo.Collection
}

// New creates a new messages Store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("messages")}
}

// EnsureIndexes creates necessary indexes for efficient querying.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		// Branch history, oldest first
		{
			Keys:    bson.D{{Key: "branch", Value: 1}, {Key: "created_at", Value: 1}},
			Options: options.Index().SetName("idx_messages_branch_created"),
		},
	}
	_, err := s.c.Indexes().CreateMany(ctx, indexes)
	return err
}

// Create inserts a new message with status "sent" and the creation
// timestamp assigned here. clientMsgID is the optional client-assigned
// correlation id; empty means none.
func (s *Store) Create(ctx context.Context, branch string, sender models.Sender, text, clientMsgID string) (models.Message, error) {
	msg := models.Message{
		ID:          primitive.NewObjectID(),
		Branch:      branch,
		Sender:      sender,
		Text:        text,
		Status:      models.StatusSent,
		ClientMsgID: clientMsgID,
		CreatedAt:   time.Now().UTC(),
	}

	if _, err := s.c.InsertOne(ctx, msg); err != nil {
		return models.Message{}, err
	}
	return msg, nil
}

// AppendDeliveredTo records userIDs as having received the message.
// Set semantics: repeated appends are no-ops, the message's own sender
// is never recorded, and status only advances sent -> delivered (a
// read message stays read). Unknown or malformed ids are no-ops.
func (s *Store) AppendDeliveredTo(ctx context.Context, messageID string, userIDs []string) error {
	oid, err := primitive.ObjectIDFromHex(messageID)
	if err != nil {
		return nil
	}

	// Read the sender so it never lands in the delivered set, even on
	// a client-supplied ack.
	var meta struct {
		Sender models.Sender `bson:"sender"`
	}
	err = s.c.FindOne(ctx, bson.M{"_id": oid},
		options.FindOne().SetProjection(bson.M{"sender": 1})).Decode(&meta)
	if err == mongo.ErrNoDocuments {
		return nil
	}
	if err != nil {
		return err
	}

	recipients := make([]string, 0, len(userIDs))
	for _, id := range userIDs {
		if id != meta.Sender.ID {
			recipients = append(recipients, id)
		}
	}
	if len(recipients) == 0 {
		return nil
	}

	_, err = s.c.UpdateOne(ctx,
		bson.M{"_id": oid},
		bson.M{"$addToSet": bson.M{"delivered_to": bson.M{"$each": recipients}}},
	)
	if err != nil {
		return err
	}

	// Status advances sent -> delivered only; the conditional filter
	// keeps a concurrent read receipt from being demoted.
	_, err = s.c.UpdateOne(ctx,
		bson.M{"_id": oid, "status": models.StatusSent},
		bson.M{"$set": bson.M{"status": models.StatusDelivered}},
	)
	return err
}

// AppendReadBy records userID as having read the message and advances
// status to "read". Idempotent; the sender is never recorded. Unknown
// or malformed ids are no-ops.
func (s *Store) AppendReadBy(ctx context.Context, messageID, userID string) error {
	oid, err := primitive.ObjectIDFromHex(messageID)
	if err != nil {
		return nil
	}

	_, err = s.c.UpdateOne(ctx,
		bson.M{"_id": oid, "sender.id": bson.M{"$ne": userID}},
		bson.M{
			"$addToSet": bson.M{"read_by": userID},
			"$set":      bson.M{"status": models.StatusRead},
		},
	)
	return err
}

// SetStatus advances a message's status. Transitions are monotonic
// (sent -> delivered -> read); a request to move backwards is a no-op,
// as are unknown or malformed ids.
func (s *Store) SetStatus(ctx context.Context, messageID, status string) error {
	oid, err := primitive.ObjectIDFromHex(messageID)
	if err != nil {
		return nil
	}

	filter := bson.M{"_id": oid}
	switch status {
	case models.StatusSent:
		return nil
	case models.StatusDelivered:
		filter["status"] = models.StatusSent
	case models.StatusRead:
		filter["status"] = bson.M{"$in": bson.A{models.StatusSent, models.StatusDelivered}}
	default:
		return nil
	}

	_, err = s.c.UpdateOne(ctx, filter, bson.M{"$set": bson.M{"status": status}})
	return err
}

// GetByID fetches one message. Returns mongo.ErrNoDocuments when the
// id is unknown.
func (s *Store) GetByID(ctx context.Context, messageID string) (models.Message, error) {
	oid, err := primitive.ObjectIDFromHex(messageID)
	if err != nil {
		return models.Message{}, mongo.ErrNoDocuments
	}

	var msg models.Message
	err = s.c.FindOne(ctx, bson.M{"_id": oid}).Decode(&msg)
	return msg, err
}

// ListByBranch returns all messages for a branch, oldest first. Used
// to hydrate a client's view at session start.
func (s *Store) ListByBranch(ctx context.Context, branch string) ([]models.Message, error) {
	// _id breaks created_at ties (millisecond timestamp resolution).
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})

	cur, err := s.c.Find(ctx, bson.M{"branch": branch}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var msgs []models.Message
	if err := cur.All(ctx, &msgs); err != nil {
		return nil, err
	}
	return msgs, nil
}
