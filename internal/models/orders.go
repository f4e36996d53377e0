package models

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// InsertOrder stores a new order. The caller supplies payment method,
// paidAt, and optional payment reference; status and the return window are
// fixed here.
func (m *MongoDB) InsertOrder(ctx context.Context, o *Order) error {
	if err := o.Validate(); err != nil {
		return err
	}
	o.ID = primitive.NewObjectID()
	o.OrderStatus = StatusProcessing
	o.CreatedAt = time.Now()
	o.ReturnDate = o.PaidAt.AddDate(0, 0, ReturnWindowDays)

	_, err := m.Orders.InsertOne(ctx, o)
	return errors.Wrap(err, "inserting order")
}

func (m *MongoDB) GetOrder(ctx context.Context, id primitive.ObjectID) (*Order, error) {
	var o Order
	err := m.Orders.FindOne(ctx, bson.M{"_id": id}).Decode(&o)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNoRecord
		}
		return nil, errors.Wrap(err, "getting order")
	}
	return &o, nil
}

func (m *MongoDB) GetOrdersByUser(ctx context.Context, userID primitive.ObjectID) ([]*Order, error) {
	cur, err := m.Orders.Find(ctx, bson.M{"user": userID})
	if err != nil {
		return nil, errors.Wrap(err, "listing user orders")
	}
	defer cur.Close(ctx)
	orders := []*Order{}
	err = cur.All(ctx, &orders)
	return orders, errors.Wrap(err, "decoding orders")
}

func (m *MongoDB) GetAllOrders(ctx context.Context) ([]*Order, error) {
	cur, err := m.Orders.Find(ctx, bson.M{})
	if err != nil {
		return nil, errors.Wrap(err, "listing orders")
	}
	defer cur.Close(ctx)
	orders := []*Order{}
	err = cur.All(ctx, &orders)
	return orders, errors.Wrap(err, "decoding orders")
}

// transitionFilter matches the order only while it is not yet Delivered.
// Because the guard lives in the filter, two concurrent delivery requests
// cannot both match: the loser sees zero matches and fails.
func transitionFilter(id primitive.ObjectID) bson.M {
	return bson.M{"_id": id, "orderStatus": bson.M{"$ne": StatusDelivered}}
}

// transitionUpdate sets the new status; only a transition to exactly
// Delivered stamps deliveredAt.
func transitionUpdate(status string, now time.Time) bson.M {
	set := bson.M{"orderStatus": status}
	if status == StatusDelivered {
		set["deliveredAt"] = now
	}
	return bson.M{"$set": set}
}

// stockDecrement is the atomic per-item stock adjustment applied once on
// delivery.
func stockDecrement(item OrderItem) (filter, update bson.M) {
	return bson.M{"_id": item.ProductID}, bson.M{"$inc": bson.M{"stock": -item.Quantity}}
}

// UpdateOrderStatus transitions an order to the given status. A Delivered
// order never transitions again; on transition to Delivered each line
// item's stock is decremented atomically, best-effort.
func (m *MongoDB) UpdateOrderStatus(ctx context.Context, id primitive.ObjectID, status string) (*Order, error) {
	if status == "" {
		return nil, invalid("Please provide a status")
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var order Order
	err := m.Orders.FindOneAndUpdate(ctx, transitionFilter(id), transitionUpdate(status, time.Now()), opts).Decode(&order)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			// Either the order is missing or it is already Delivered.
			if _, getErr := m.GetOrder(ctx, id); getErr != nil {
				return nil, getErr
			}
			return nil, ErrAlreadyDelivered
		}
		return nil, errors.Wrap(err, "updating order status")
	}

	if status == StatusDelivered {
		m.decrementStock(ctx, order.OrderItems)
	}
	return &order, nil
}

// decrementStock applies $inc per line item. A failed item is logged and
// does not roll back the others or the status change.
func (m *MongoDB) decrementStock(ctx context.Context, items []OrderItem) {
	for _, item := range items {
		filter, update := stockDecrement(item)
		if _, err := m.Products.UpdateOne(ctx, filter, update); err != nil {
			m.logger.Error().Err(err).
				Str("product", item.ProductID.Hex()).
				Int("quantity", item.Quantity).
				Msg("failed to update stock")
		}
	}
}

func (m *MongoDB) DeleteOrder(ctx context.Context, id primitive.ObjectID) error {
	res, err := m.Orders.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return errors.Wrap(err, "deleting order")
	}
	if res.DeletedCount == 0 {
		return ErrNoRecord
	}
	return nil
}

// InsertPayment persists a verified gateway payment.
func (m *MongoDB) InsertPayment(ctx context.Context, p *Payment) error {
	p.ID = primitive.NewObjectID()
	p.CreatedAt = time.Now()
	_, err := m.Payments.InsertOne(ctx, p)
	return errors.Wrap(err, "inserting payment")
}

// OrderStats is the admin reporting rollup.
type OrderStats struct {
	Total       int64   `json:"total"`
	Processing  int64   `json:"processing"`
	Delivered   int64   `json:"delivered"`
	TotalIncome float64 `json:"-"`
}

// GetOrderStats groups orders by status in one aggregation pass.
func (m *MongoDB) GetOrderStats(ctx context.Context) (OrderStats, error) {
	pipeline := []bson.M{
		{"$group": bson.M{
			"_id":    "$orderStatus",
			"count":  bson.M{"$sum": 1},
			"income": bson.M{"$sum": "$totalPrice"},
		}},
	}
	cur, err := m.Orders.Aggregate(ctx, pipeline)
	if err != nil {
		return OrderStats{}, errors.Wrap(err, "aggregating orders")
	}
	defer cur.Close(ctx)

	var groups []struct {
		Status string  `bson:"_id"`
		Count  int64   `bson:"count"`
		Income float64 `bson:"income"`
	}
	if err := cur.All(ctx, &groups); err != nil {
		return OrderStats{}, errors.Wrap(err, "decoding order stats")
	}

	var stats OrderStats
	for _, g := range groups {
		stats.Total += g.Count
		stats.TotalIncome += g.Income
		switch g.Status {
		case StatusProcessing:
			stats.Processing = g.Count
		case StatusDelivered:
			stats.Delivered = g.Count
		}
	}
	return stats, nil
}
