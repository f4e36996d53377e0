package models

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"
)

const resetTokenLifetime = 15 * time.Minute

// InsertPasswordUser registers a password-credential account.
func (m *MongoDB) InsertPasswordUser(ctx context.Context, name, email, password string, avatar Image) (*User, error) {
	if err := ValidateIdentity(name, email, password); err != nil {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), 12)
	if err != nil {
		return nil, errors.Wrap(err, "hashing password")
	}

	user := User{
		ID:     primitive.NewObjectID(),
		Name:   name,
		Email:  email,
		Avatar: avatar,
		Role:   RoleUser,
		Credential: Credential{
			Kind:         CredentialPassword,
			PasswordHash: string(hashed),
		},
		CreatedAt: time.Now(),
	}

	if _, err := m.Users.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrDuplicateIdentity
		}
		return nil, errors.Wrap(err, "inserting user")
	}
	return &user, nil
}

// Authenticate checks an email/password pair against the stored hash.
func (m *MongoDB) Authenticate(ctx context.Context, email, password string) (*User, error) {
	var user User
	filter := bson.M{"email": email, "credential.kind": CredentialPassword}
	err := m.Users.FindOne(ctx, filter).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrInvalidCredentials
		}
		return nil, errors.Wrap(err, "looking up user")
	}

	err = bcrypt.CompareHashAndPassword([]byte(user.Credential.PasswordHash), []byte(password))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, ErrInvalidCredentials
		}
		return nil, errors.Wrap(err, "comparing password")
	}
	return &user, nil
}

// FindOrCreateGoogleUser looks an account up by provider id and creates it
// with the default role and a snapshot of the provider avatar when absent.
func (m *MongoDB) FindOrCreateGoogleUser(ctx context.Context, providerID, name, email, avatarURL string) (*User, error) {
	var user User
	filter := bson.M{"credential.kind": CredentialGoogle, "credential.providerId": providerID}
	err := m.Users.FindOne(ctx, filter).Decode(&user)
	if err == nil {
		return &user, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, errors.Wrap(err, "looking up google user")
	}

	user = User{
		ID:     primitive.NewObjectID(),
		Name:   name,
		Email:  email,
		Avatar: Image{URL: avatarURL},
		Role:   RoleUser,
		Credential: Credential{
			Kind:       CredentialGoogle,
			Provider:   "google",
			ProviderID: providerID,
		},
		CreatedAt: time.Now(),
	}
	if _, err := m.Users.InsertOne(ctx, user); err != nil {
		return nil, errors.Wrap(err, "inserting google user")
	}
	return &user, nil
}

func (m *MongoDB) GetUser(ctx context.Context, id primitive.ObjectID) (*User, error) {
	var user User
	err := m.Users.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNoRecord
		}
		return nil, errors.Wrap(err, "getting user")
	}
	return &user, nil
}

func (m *MongoDB) GetAllUsers(ctx context.Context) ([]*User, error) {
	cur, err := m.Users.Find(ctx, bson.M{})
	if err != nil {
		return nil, errors.Wrap(err, "listing users")
	}
	defer cur.Close(ctx)
	var users []*User
	err = cur.All(ctx, &users)
	return users, errors.Wrap(err, "decoding users")
}

// UpdateProfile changes the display name and, when avatar is non-nil, the
// avatar reference. Past review snapshots keep the old name.
func (m *MongoDB) UpdateProfile(ctx context.Context, id primitive.ObjectID, name string, avatar *Image) (*User, error) {
	set := bson.M{"name": name}
	if avatar != nil {
		set["avatar"] = *avatar
	}
	return m.findAndUpdateUser(ctx, id, bson.M{"$set": set})
}

// UpdateUserRole is the only promotion path to admin.
func (m *MongoDB) UpdateUserRole(ctx context.Context, id primitive.ObjectID, name, email, role string) (*User, error) {
	if role != RoleUser && role != RoleAdmin {
		return nil, invalid("Role must be user or admin")
	}
	set := bson.M{"role": role}
	if name != "" {
		set["name"] = name
	}
	if email != "" {
		set["email"] = email
	}
	return m.findAndUpdateUser(ctx, id, bson.M{"$set": set})
}

func (m *MongoDB) findAndUpdateUser(ctx context.Context, id primitive.ObjectID, update bson.M) (*User, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var user User
	err := m.Users.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNoRecord
		}
		return nil, errors.Wrap(err, "updating user")
	}
	return &user, nil
}

// DeleteUser removes the account and returns the deleted document so the
// caller can clean up the avatar blob. Orders and embedded reviews stay.
func (m *MongoDB) DeleteUser(ctx context.Context, id primitive.ObjectID) (*User, error) {
	var user User
	err := m.Users.FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNoRecord
		}
		return nil, errors.Wrap(err, "deleting user")
	}
	return &user, nil
}

func (m *MongoDB) CountUsers(ctx context.Context) (int64, error) {
	return m.Users.CountDocuments(ctx, bson.M{})
}

// CreateResetToken issues a password-reset token for a password account.
// The raw token goes to the user; only its SHA-256 is stored.
func (m *MongoDB) CreateResetToken(ctx context.Context, email string) (string, error) {
	raw := make([]byte, 20)
	if _, err := rand.Read(raw); err != nil {
		return "", errors.Wrap(err, "generating reset token")
	}
	token := hex.EncodeToString(raw)
	digest := sha256.Sum256([]byte(token))

	filter := bson.M{"email": email, "credential.kind": CredentialPassword}
	update := bson.M{"$set": bson.M{
		"credential.resetToken":   hex.EncodeToString(digest[:]),
		"credential.resetExpires": time.Now().Add(resetTokenLifetime),
	}}
	res, err := m.Users.UpdateOne(ctx, filter, update)
	if err != nil {
		return "", errors.Wrap(err, "storing reset token")
	}
	if res.MatchedCount == 0 {
		return "", ErrNoRecord
	}
	return token, nil
}

// ResetPassword consumes a reset token within its expiry window.
func (m *MongoDB) ResetPassword(ctx context.Context, token, password string) (*User, error) {
	if len(password) < 8 {
		return nil, invalid("Please enter the password with a minimum of 8 characters")
	}
	digest := sha256.Sum256([]byte(token))

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), 12)
	if err != nil {
		return nil, errors.Wrap(err, "hashing password")
	}

	filter := bson.M{
		"credential.resetToken":   hex.EncodeToString(digest[:]),
		"credential.resetExpires": bson.M{"$gt": time.Now()},
	}
	update := bson.M{
		"$set":   bson.M{"credential.passwordHash": string(hashed)},
		"$unset": bson.M{"credential.resetToken": "", "credential.resetExpires": ""},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var user User
	err = m.Users.FindOneAndUpdate(ctx, filter, update, opts).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, invalid("Reset token is invalid or has expired")
		}
		return nil, errors.Wrap(err, "resetting password")
	}
	return &user, nil
}
