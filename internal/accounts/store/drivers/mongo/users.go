package mongo

import (
	"context"
	"fmt"
	"time"

	"github.com/aussiebroadwan/accounts/internal/accounts/domain"
	"github.com/aussiebroadwan/accounts/internal/accounts/store"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type userDoc struct {
	ID              string       `bson:"_id"`
	Email           string       `bson:"email"`
	Password        string       `bson:"password"`
	Active          bool         `bson:"active"`
	ActivationID    *string      `bson:"activationID"`
	PasswordResetID *string      `bson:"passwordResetID"`
	Tokens          []sessionDoc `bson:"tokens"`
	CreatedAt       time.Time    `bson:"createdAt"`
	UpdatedAt       time.Time    `bson:"updatedAt"`
}

type sessionDoc struct {
	Access    string    `bson:"access"`
	TokenHash string    `bson:"tokenHash"`
	CreatedAt time.Time `bson:"createdAt"`
	ExpiresAt time.Time `bson:"expiresAt"`
}

func toDoc(u domain.User) userDoc {
	// Never store a null array, $push and $pull refuse to touch one.
	tokens := make([]sessionDoc, 0, len(u.Tokens))
	for _, s := range u.Tokens {
		tokens = append(tokens, toSessionDoc(s))
	}
	return userDoc{
		ID:              u.ID,
		Email:           u.Email,
		Password:        u.PasswordHash,
		Active:          u.Active,
		ActivationID:    u.ActivationID,
		PasswordResetID: u.PasswordResetID,
		Tokens:          tokens,
		CreatedAt:       u.CreatedAt.UTC(),
		UpdatedAt:       u.UpdatedAt.UTC(),
	}
}

func toSessionDoc(s domain.Session) sessionDoc {
	return sessionDoc{
		Access:    s.Access,
		TokenHash: s.TokenHash,
		CreatedAt: s.CreatedAt.UTC(),
		ExpiresAt: s.ExpiresAt.UTC(),
	}
}

func (d userDoc) toDomain() domain.User {
	tokens := make([]domain.Session, 0, len(d.Tokens))
	for _, s := range d.Tokens {
		tokens = append(tokens, domain.Session{
			Access:    s.Access,
			TokenHash: s.TokenHash,
			CreatedAt: s.CreatedAt,
			ExpiresAt: s.ExpiresAt,
		})
	}
	return domain.User{
		ID:              d.ID,
		Email:           d.Email,
		PasswordHash:    d.Password,
		Active:          d.Active,
		ActivationID:    d.ActivationID,
		PasswordResetID: d.PasswordResetID,
		Tokens:          tokens,
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}
}

type usersRepo struct {
	c *mongo.Collection
}

func (r *usersRepo) findOne(ctx context.Context, filter bson.M) (domain.User, error) {
	var d userDoc
	if err := r.c.FindOne(ctx, filter).Decode(&d); err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return d.toDomain(), nil
}

// findOneAndUpdate applies update to the first match and returns the
// document as it is after the update.
func (r *usersRepo) findOneAndUpdate(ctx context.Context, filter bson.M, update bson.M) (domain.User, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var d userDoc
	if err := r.c.FindOneAndUpdate(ctx, filter, update, opts).Decode(&d); err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return d.toDomain(), nil
}

func now() time.Time { return time.Now().UTC() }

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	if _, err := r.c.InsertOne(ctx, toDoc(u)); err != nil {
		return fmt.Errorf("create user: %w", mapDuplicate(err))
	}
	return nil
}

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *usersRepo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *usersRepo) ActivateUser(ctx context.Context, activationID string) (domain.User, error) {
	if activationID == "" {
		return domain.User{}, store.ErrNotFound
	}
	return r.findOneAndUpdate(ctx,
		bson.M{"activationID": activationID},
		bson.M{"$set": bson.M{"active": true, "activationID": nil, "updatedAt": now()}},
	)
}

func (r *usersRepo) SetPasswordResetID(ctx context.Context, email, resetID string) (domain.User, error) {
	return r.findOneAndUpdate(ctx,
		bson.M{"email": email},
		bson.M{"$set": bson.M{"passwordResetID": resetID, "updatedAt": now()}},
	)
}

func (r *usersRepo) ClearPasswordResetID(ctx context.Context, email, resetID string) error {
	_, err := r.c.UpdateOne(ctx,
		bson.M{"email": email, "passwordResetID": resetID},
		bson.M{"$set": bson.M{"passwordResetID": nil, "updatedAt": now()}},
	)
	return err
}

func (r *usersRepo) ResetPassword(ctx context.Context, resetID, passwordHash string) (domain.User, error) {
	if resetID == "" {
		return domain.User{}, store.ErrNotFound
	}
	return r.findOneAndUpdate(ctx,
		bson.M{"passwordResetID": resetID},
		bson.M{"$set": bson.M{"password": passwordHash, "passwordResetID": nil, "updatedAt": now()}},
	)
}

func (r *usersRepo) DeleteUserByEmail(ctx context.Context, email string) error {
	_, err := r.c.DeleteOne(ctx, bson.M{"email": email})
	return err
}

func (r *usersRepo) AddSession(ctx context.Context, userID string, s domain.Session) error {
	res, err := r.c.UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{
			"$push": bson.M{"tokens": toSessionDoc(s)},
			"$set":  bson.M{"updatedAt": now()},
		},
	)
	if err != nil {
		return fmt.Errorf("add session: %w", err)
	}
	if res.MatchedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *usersRepo) GetUserBySession(ctx context.Context, userID, tokenHash string) (domain.User, error) {
	return r.findOne(ctx, bson.M{"_id": userID, "tokens.tokenHash": tokenHash})
}

func (r *usersRepo) RemoveSession(ctx context.Context, userID, tokenHash string) error {
	_, err := r.c.UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{"$pull": bson.M{"tokens": bson.M{"tokenHash": tokenHash}}},
	)
	return err
}

// DeleteExpiredSessions reports the number of users whose sessions were
// pruned, mongo does not count the array elements it pulls.
func (r *usersRepo) DeleteExpiredSessions(ctx context.Context, at time.Time) (int64, error) {
	at = at.UTC()
	res, err := r.c.UpdateMany(ctx,
		bson.M{"tokens.expiresAt": bson.M{"$lte": at}},
		bson.M{"$pull": bson.M{"tokens": bson.M{"expiresAt": bson.M{"$lte": at}}}},
	)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}
