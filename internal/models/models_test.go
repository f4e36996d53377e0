package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func validOrder() *Order {
	return &Order{
		ShippingInfo: ShippingInfo{
			RoomNumber: "101",
			Hostel:     "A Block",
			Branch:     "CSE",
			Course:     "BTech",
			Semester:   "5",
			PhoneNo:    "9999999999",
		},
		OrderItems: []OrderItem{
			{Name: "Lamp", Price: 250, Quantity: 1, Image: "/api/v1/images/x", ProductID: primitive.NewObjectID()},
		},
		ItemsPrice:    250,
		TotalPrice:    250,
		PaymentMethod: PaymentMethodCOD,
	}
}

func TestOrderValidate(t *testing.T) {
	require.NoError(t, validOrder().Validate())

	o := validOrder()
	o.ShippingInfo.Hostel = ""
	assert.Error(t, o.Validate())

	o = validOrder()
	o.OrderItems = nil
	assert.Error(t, o.Validate())

	o = validOrder()
	o.OrderItems[0].Quantity = 0
	assert.Error(t, o.Validate())

	o = validOrder()
	o.OrderItems[0].ProductID = primitive.NilObjectID
	assert.Error(t, o.Validate())

	o = validOrder()
	o.PaymentMethod = "Barter"
	assert.Error(t, o.Validate())

	o = validOrder()
	o.PaymentMethod = PaymentMethodOnline
	assert.NoError(t, o.Validate())
}

func TestProductValidate(t *testing.T) {
	p := &Product{Name: "Lamp", Description: "Desk lamp", Price: 250, Category: "electronics", Stock: 10}
	require.NoError(t, p.Validate())

	tests := []struct {
		name   string
		mutate func(*Product)
	}{
		{"missing name", func(p *Product) { p.Name = " " }},
		{"missing description", func(p *Product) { p.Description = "" }},
		{"zero price", func(p *Product) { p.Price = 0 }},
		{"missing category", func(p *Product) { p.Category = "" }},
		{"negative stock", func(p *Product) { p.Stock = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &Product{Name: "Lamp", Description: "Desk lamp", Price: 250, Category: "electronics", Stock: 10}
			tt.mutate(p)
			err := p.Validate()
			require.Error(t, err)
			var ve *ValidationError
			assert.ErrorAs(t, err, &ve)
		})
	}
}

func TestValidateIdentity(t *testing.T) {
	assert.NoError(t, ValidateIdentity("Alice Smith", "alice@example.com", "longenough"))
	assert.Error(t, ValidateIdentity("Al", "alice@example.com", "longenough"))
	assert.Error(t, ValidateIdentity("Alice Smith", "not-an-email", "longenough"))
	assert.Error(t, ValidateIdentity("Alice Smith", "alice@example.com", "short"))

	long := make([]byte, 31)
	for i := range long {
		long[i] = 'a'
	}
	assert.Error(t, ValidateIdentity(string(long), "alice@example.com", "longenough"))
}
