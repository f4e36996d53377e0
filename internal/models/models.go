package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"

	CredentialPassword = "password"
	CredentialGoogle   = "google"

	PaymentMethodCOD    = "COD"
	PaymentMethodOnline = "Online"

	StatusProcessing = "Processing"
	StatusDelivered  = "Delivered"
)

// ReturnWindowDays is the fixed return deadline counted from payment time.
const ReturnWindowDays = 5

// Image is a stored blob reference: the object key inside the blob store
// and the URL clients fetch it from.
type Image struct {
	ObjectKey string `bson:"objectKey,omitempty" json:"objectKey,omitempty"`
	URL       string `bson:"url" json:"url"`
}

// Credential is the tagged variant distinguishing password accounts from
// OAuth accounts. Exactly one set of fields is populated per Kind.
type Credential struct {
	Kind         string    `bson:"kind" json:"-"`
	PasswordHash string    `bson:"passwordHash,omitempty" json:"-"`
	ResetToken   string    `bson:"resetToken,omitempty" json:"-"`
	ResetExpires time.Time `bson:"resetExpires,omitempty" json:"-"`
	Provider     string    `bson:"provider,omitempty" json:"-"`
	ProviderID   string    `bson:"providerId,omitempty" json:"-"`
}

type User struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name       string             `bson:"name" json:"name"`
	Email      string             `bson:"email,omitempty" json:"email,omitempty"`
	Avatar     Image              `bson:"avatar" json:"avatar"`
	Role       string             `bson:"role" json:"role"`
	Credential Credential         `bson:"credential" json:"-"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
}

// Review is embedded in its product. Name is a snapshot of the reviewer's
// display name at submission time and is never updated retroactively.
type Review struct {
	ID      primitive.ObjectID `bson:"_id" json:"_id"`
	UserID  primitive.ObjectID `bson:"user" json:"user"`
	Name    string             `bson:"name" json:"name"`
	Rating  int                `bson:"rating" json:"rating"`
	Comment string             `bson:"comment" json:"comment"`
}

type Product struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name            string             `bson:"name" json:"name"`
	Description     string             `bson:"description" json:"description"`
	Price           float64            `bson:"price" json:"price"`
	Ratings         float64            `bson:"ratings" json:"ratings"`
	Image           Image              `bson:"images" json:"images"`
	Category        string             `bson:"category" json:"category"`
	Stock           int                `bson:"stock" json:"stock"`
	NumberOfReviews int                `bson:"numberOfReviews" json:"numberOfReviews"`
	Reviews         []Review           `bson:"reviews" json:"reviews"`
	CreatedBy       primitive.ObjectID `bson:"user" json:"user"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
}

type ShippingInfo struct {
	RoomNumber string `bson:"roomNumber" json:"roomNumber"`
	Hostel     string `bson:"hostel" json:"hostel"`
	Branch     string `bson:"branch" json:"branch"`
	Course     string `bson:"course" json:"course"`
	Semester   string `bson:"semester" json:"semester"`
	PhoneNo    string `bson:"phoneNo" json:"phoneNo"`
}

// OrderItem is a snapshot of one purchased product at order time. Later
// product edits or deletions do not touch it.
type OrderItem struct {
	Name      string             `bson:"name" json:"name"`
	Price     float64            `bson:"price" json:"price"`
	Quantity  int                `bson:"quantity" json:"quantity"`
	Image     string             `bson:"image" json:"image"`
	ProductID primitive.ObjectID `bson:"product" json:"product"`
}

type Order struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	ShippingInfo   ShippingInfo       `bson:"shippingInfo" json:"shippingInfo"`
	OrderItems     []OrderItem        `bson:"orderItems" json:"orderItems"`
	UserID         primitive.ObjectID `bson:"user" json:"user"`
	ItemsPrice     float64            `bson:"itemsPrice" json:"itemsPrice"`
	DeliveryCharge float64            `bson:"deliveryCharge" json:"deliveryCharge"`
	TotalPrice     float64            `bson:"totalPrice" json:"totalPrice"`
	PaymentMethod  string             `bson:"paymentMethod" json:"paymentMethod"`
	PaymentInfo    primitive.ObjectID `bson:"paymentInfo,omitempty" json:"paymentInfo,omitempty"`
	PaidAt         time.Time          `bson:"paidAt" json:"paidAt"`
	OrderStatus    string             `bson:"orderStatus" json:"orderStatus"`
	DeliveredAt    *time.Time         `bson:"deliveredAt,omitempty" json:"deliveredAt,omitempty"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
	ReturnDate     time.Time          `bson:"returnDate" json:"returnDate"`
}

type Payment struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	GatewayOrderID   string             `bson:"razorpay_order_id" json:"razorpay_order_id"`
	GatewayPaymentID string             `bson:"razorpay_payment_id" json:"razorpay_payment_id"`
	Signature        string             `bson:"razorpay_signature" json:"razorpay_signature"`
	CreatedAt        time.Time          `bson:"createdAt" json:"createdAt"`
}

func (p *Product) Validate() error {
	switch {
	case strings.TrimSpace(p.Name) == "":
		return invalid("Please enter product name")
	case strings.TrimSpace(p.Description) == "":
		return invalid("Please enter product description")
	case p.Price <= 0:
		return invalid("Please enter product price")
	case strings.TrimSpace(p.Category) == "":
		return invalid("Please specify the product's category")
	case p.Stock < 0:
		return invalid("Stock cannot be negative")
	}
	return nil
}

func (r Review) Validate() error {
	if r.Rating < 1 || r.Rating > 5 {
		return invalid("Rating must be between 1 and 5")
	}
	return nil
}

func (o *Order) Validate() error {
	s := o.ShippingInfo
	for _, field := range []string{s.RoomNumber, s.Hostel, s.Branch, s.Course, s.Semester, s.PhoneNo} {
		if strings.TrimSpace(field) == "" {
			return invalid("Please fill in all shipping fields")
		}
	}
	if len(o.OrderItems) == 0 {
		return invalid("Order must contain at least one item")
	}
	for _, item := range o.OrderItems {
		if item.Quantity < 1 {
			return invalid("Item quantity must be at least 1")
		}
		if item.ProductID.IsZero() {
			return invalid("Order item is missing its product reference")
		}
	}
	if o.PaymentMethod != PaymentMethodCOD && o.PaymentMethod != PaymentMethodOnline {
		return invalid("Payment method must be COD or Online")
	}
	return nil
}

// ValidateIdentity checks the fields a password signup must supply.
func ValidateIdentity(name, email, password string) error {
	switch {
	case len(name) < 4:
		return invalid("Please enter the name with a minimum of 4 characters")
	case len(name) > 30:
		return invalid("Name exceeded 30 characters")
	case !strings.Contains(email, "@"):
		return invalid("Please enter a valid email")
	case len(password) < 8:
		return invalid("Please enter the password with a minimum of 8 characters")
	}
	return nil
}
