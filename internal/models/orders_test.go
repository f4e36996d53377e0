package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// matchesTransitionFilter evaluates the guard the way the datastore would:
// the id must match and the current status must not be Delivered.
func matchesTransitionFilter(filter bson.M, id primitive.ObjectID, status string) bool {
	if filter["_id"] != id {
		return false
	}
	guard := filter["orderStatus"].(bson.M)
	return status != guard["$ne"]
}

func TestTransitionFilterBlocksRedelivery(t *testing.T) {
	id := primitive.NewObjectID()
	filter := transitionFilter(id)

	assert.True(t, matchesTransitionFilter(filter, id, StatusProcessing))
	assert.True(t, matchesTransitionFilter(filter, id, "Shipped"))
	assert.False(t, matchesTransitionFilter(filter, id, StatusDelivered),
		"a Delivered order must never match a second transition")
	assert.False(t, matchesTransitionFilter(filter, primitive.NewObjectID(), StatusProcessing))
}

func TestTransitionUpdateStampsDeliveredAtOnlyOnDelivery(t *testing.T) {
	now := time.Now()

	set := transitionUpdate(StatusDelivered, now)["$set"].(bson.M)
	assert.Equal(t, StatusDelivered, set["orderStatus"])
	assert.Equal(t, now, set["deliveredAt"])

	set = transitionUpdate("Shipped", now)["$set"].(bson.M)
	assert.Equal(t, "Shipped", set["orderStatus"])
	assert.NotContains(t, set, "deliveredAt")
	assert.NotContains(t, set, "returnDate", "the return window is fixed at creation")
}

func TestStockDecrement(t *testing.T) {
	productID := primitive.NewObjectID()
	item := OrderItem{Name: "Lamp", Price: 250, Quantity: 3, ProductID: productID}

	filter, update := stockDecrement(item)
	assert.Equal(t, bson.M{"_id": productID}, filter)

	inc := update["$inc"].(bson.M)
	require.Contains(t, inc, "stock")
	assert.Equal(t, -3, inc["stock"])

	// Stock 10, quantity 3: one application of the increment leaves 7.
	assert.Equal(t, 7, 10+inc["stock"].(int))
}

func TestDeliverTwiceDecrementsStockOnce(t *testing.T) {
	// The second delivery attempt matches nothing, so its decrements never
	// run; the stock adjustment is applied exactly once per line item.
	id := primitive.NewObjectID()
	filter := transitionFilter(id)

	status := StatusProcessing
	stock := 10
	item := OrderItem{Quantity: 3, ProductID: primitive.NewObjectID()}

	for attempt := 0; attempt < 2; attempt++ {
		if !matchesTransitionFilter(filter, id, status) {
			continue
		}
		status = StatusDelivered
		_, update := stockDecrement(item)
		stock += update["$inc"].(bson.M)["stock"].(int)
	}

	assert.Equal(t, StatusDelivered, status)
	assert.Equal(t, 7, stock, "two delivery attempts must decrement once")
}
