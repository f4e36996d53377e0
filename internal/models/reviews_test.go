package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func review(user primitive.ObjectID, rating int, comment string) Review {
	return Review{
		ID:      primitive.NewObjectID(),
		UserID:  user,
		Name:    "Reviewer",
		Rating:  rating,
		Comment: comment,
	}
}

func TestUpsertReviewAppendsForNewUser(t *testing.T) {
	alice := primitive.NewObjectID()
	bob := primitive.NewObjectID()

	reviews := upsertReview(nil, review(alice, 5, "great"))
	reviews = upsertReview(reviews, review(bob, 3, "fine"))

	require.Len(t, reviews, 2)
	count, mean := summarizeReviews(reviews)
	assert.Equal(t, 2, count)
	assert.Equal(t, 4.0, mean)
}

func TestUpsertReviewOverwritesInPlace(t *testing.T) {
	alice := primitive.NewObjectID()
	bob := primitive.NewObjectID()
	carol := primitive.NewObjectID()

	reviews := []Review{
		review(alice, 5, "great"),
		review(bob, 2, "meh"),
		review(carol, 4, "good"),
	}
	originalBobID := reviews[1].ID

	reviews = upsertReview(reviews, review(bob, 1, "changed my mind"))

	require.Len(t, reviews, 3)
	assert.Equal(t, bob, reviews[1].UserID, "overwritten review keeps its position")
	assert.Equal(t, originalBobID, reviews[1].ID, "overwritten review keeps its id")
	assert.Equal(t, 1, reviews[1].Rating)
	assert.Equal(t, "changed my mind", reviews[1].Comment)
}

func TestResubmitScenario(t *testing.T) {
	// First review on an empty product, then the same user resubmits.
	user := primitive.NewObjectID()

	reviews := upsertReview(nil, review(user, 5, "excellent"))
	count, mean := summarizeReviews(reviews)
	assert.Equal(t, 1, count)
	assert.Equal(t, 5.0, mean)

	reviews = upsertReview(reviews, review(user, 3, "actually ok"))
	count, mean = summarizeReviews(reviews)
	assert.Equal(t, 1, count, "resubmission must overwrite, not append")
	assert.Equal(t, 3.0, mean)
}

func TestRemoveReview(t *testing.T) {
	a := review(primitive.NewObjectID(), 5, "a")
	b := review(primitive.NewObjectID(), 1, "b")

	reviews := removeReview([]Review{a, b}, a.ID)
	require.Len(t, reviews, 1)
	assert.Equal(t, b.ID, reviews[0].ID)

	// Removing an unknown id keeps the list intact.
	reviews = removeReview(reviews, primitive.NewObjectID())
	assert.Len(t, reviews, 1)
}

func TestSummarizeReviewsEmptyListIsZero(t *testing.T) {
	count, mean := summarizeReviews(nil)
	assert.Equal(t, 0, count)
	assert.Equal(t, 0.0, mean)

	count, mean = summarizeReviews([]Review{})
	assert.Equal(t, 0, count)
	assert.Equal(t, 0.0, mean)
}

func TestReviewValidateRange(t *testing.T) {
	for _, rating := range []int{0, 6, -1} {
		err := Review{Rating: rating}.Validate()
		assert.Error(t, err, "rating %d should fail", rating)
	}
	for _, rating := range []int{1, 3, 5} {
		assert.NoError(t, Review{Rating: rating}.Validate())
	}
}
