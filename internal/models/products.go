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

// InsertProduct stores a new product with zeroed review aggregates.
func (m *MongoDB) InsertProduct(ctx context.Context, p *Product) error {
	if err := p.Validate(); err != nil {
		return err
	}
	p.ID = primitive.NewObjectID()
	p.Ratings = 0
	p.NumberOfReviews = 0
	p.Reviews = []Review{}
	p.CreatedAt = time.Now()

	_, err := m.Products.InsertOne(ctx, p)
	return errors.Wrap(err, "inserting product")
}

func (m *MongoDB) GetProduct(ctx context.Context, id primitive.ObjectID) (*Product, error) {
	var p Product
	err := m.Products.FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNoRecord
		}
		return nil, errors.Wrap(err, "getting product")
	}
	return &p, nil
}

func (m *MongoDB) GetAllProducts(ctx context.Context) ([]*Product, error) {
	cur, err := m.Products.Find(ctx, bson.M{})
	if err != nil {
		return nil, errors.Wrap(err, "listing products")
	}
	defer cur.Close(ctx)
	var products []*Product
	err = cur.All(ctx, &products)
	return products, errors.Wrap(err, "decoding products")
}

// ListProducts runs a catalog query plan and also returns the unfiltered
// total, which the listing endpoint reports alongside the page.
func (m *MongoDB) ListProducts(ctx context.Context, q ListQuery) ([]*Product, int64, error) {
	total, err := m.Products.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, errors.Wrap(err, "counting products")
	}

	opts := options.Find().SetSkip(q.Skip()).SetLimit(ResultsPerPage)
	cur, err := m.Products.Find(ctx, q.Filter(), opts)
	if err != nil {
		return nil, 0, errors.Wrap(err, "querying products")
	}
	defer cur.Close(ctx)

	products := []*Product{}
	if err := cur.All(ctx, &products); err != nil {
		return nil, 0, errors.Wrap(err, "decoding products")
	}
	return products, total, nil
}

// UpdateProduct applies the non-zero fields of p to the stored document and
// returns the updated product.
func (m *MongoDB) UpdateProduct(ctx context.Context, id primitive.ObjectID, p *Product) (*Product, error) {
	set := bson.M{}
	if p.Name != "" {
		set["name"] = p.Name
	}
	if p.Description != "" {
		set["description"] = p.Description
	}
	if p.Price > 0 {
		set["price"] = p.Price
	}
	if p.Category != "" {
		set["category"] = p.Category
	}
	if p.Stock >= 0 {
		set["stock"] = p.Stock
	}
	if p.Image.URL != "" {
		set["images"] = p.Image
	}
	if len(set) == 0 {
		return m.GetProduct(ctx, id)
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated Product
	err := m.Products.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&updated)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNoRecord
		}
		return nil, errors.Wrap(err, "updating product")
	}
	return &updated, nil
}

// DeleteProduct removes the document and returns it so the caller can clean
// up the image blob. Historical order snapshots are untouched.
func (m *MongoDB) DeleteProduct(ctx context.Context, id primitive.ObjectID) (*Product, error) {
	var p Product
	err := m.Products.FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&p)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNoRecord
		}
		return nil, errors.Wrap(err, "deleting product")
	}
	return &p, nil
}

// upsertReview applies r to the list: an existing review by the same user
// is overwritten in place, keeping its position and id; otherwise r is
// appended.
func upsertReview(reviews []Review, r Review) []Review {
	for i := range reviews {
		if reviews[i].UserID == r.UserID {
			reviews[i].Rating = r.Rating
			reviews[i].Comment = r.Comment
			return reviews
		}
	}
	return append(reviews, r)
}

// removeReview drops the review with the given id, if present.
func removeReview(reviews []Review, id primitive.ObjectID) []Review {
	kept := make([]Review, 0, len(reviews))
	for _, rev := range reviews {
		if rev.ID != id {
			kept = append(kept, rev)
		}
	}
	return kept
}

// summarizeReviews recomputes the embedded aggregates: count and arithmetic
// mean of ratings, 0 when the list is empty.
func summarizeReviews(reviews []Review) (count int, mean float64) {
	if len(reviews) == 0 {
		return 0, 0
	}
	total := 0
	for _, rev := range reviews {
		total += rev.Rating
	}
	return len(reviews), float64(total) / float64(len(reviews))
}

// SubmitReview upserts a user's review on a product and rewrites the
// aggregates in a single update.
func (m *MongoDB) SubmitReview(ctx context.Context, productID primitive.ObjectID, r Review) error {
	if err := r.Validate(); err != nil {
		return err
	}
	if r.ID.IsZero() {
		r.ID = primitive.NewObjectID()
	}

	p, err := m.GetProduct(ctx, productID)
	if err != nil {
		return err
	}

	reviews := upsertReview(p.Reviews, r)
	count, mean := summarizeReviews(reviews)
	return m.writeReviews(ctx, productID, reviews, count, mean)
}

// DeleteReview removes a review by id and recomputes the aggregates.
func (m *MongoDB) DeleteReview(ctx context.Context, productID, reviewID primitive.ObjectID) error {
	p, err := m.GetProduct(ctx, productID)
	if err != nil {
		return err
	}

	reviews := removeReview(p.Reviews, reviewID)
	count, mean := summarizeReviews(reviews)
	return m.writeReviews(ctx, productID, reviews, count, mean)
}

func (m *MongoDB) writeReviews(ctx context.Context, productID primitive.ObjectID, reviews []Review, count int, mean float64) error {
	update := bson.M{"$set": bson.M{
		"reviews":         reviews,
		"numberOfReviews": count,
		"ratings":         mean,
	}}
	_, err := m.Products.UpdateOne(ctx, bson.M{"_id": productID}, update)
	return errors.Wrap(err, "writing reviews")
}
