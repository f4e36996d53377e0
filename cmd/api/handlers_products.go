package main

import (
	"io"
	"net/http"
	"strconv"

	"campuskart/internal/models"
	"campuskart/internal/storage"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func (app *application) listProducts(w http.ResponseWriter, r *http.Request) {
	q := models.ParseListQuery(r.URL.Query())

	products, total, err := app.db.ListProducts(r.Context(), q)
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}

	app.writeJSON(w, http.StatusOK, envelope{
		"success":              true,
		"products":             products,
		"productsCount":        total,
		"resultPerPage":        models.ResultsPerPage,
		"filteredProductCount": len(products),
	})
}

func (app *application) productDetails(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}
	product, err := app.db.GetProduct(r.Context(), id)
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}
	app.writeJSON(w, http.StatusOK, envelope{"success": true, "product": product})
}

func (app *application) adminProducts(w http.ResponseWriter, r *http.Request) {
	products, err := app.db.GetAllProducts(r.Context())
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}
	app.writeJSON(w, http.StatusOK, envelope{"success": true, "products": products})
}

// productForm reads the shared multipart fields for create/update.
func productForm(r *http.Request) (*models.Product, error) {
	p := &models.Product{
		Name:        r.FormValue("name"),
		Description: r.FormValue("description"),
		Category:    r.FormValue("category"),
	}
	if raw := r.FormValue("price"); raw != "" {
		price, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, &models.ValidationError{Message: "Please enter product price"}
		}
		p.Price = price
	}
	// -1 marks "not provided" so updates leave stock alone.
	p.Stock = -1
	if raw := r.FormValue("stock"); raw != "" {
		stock, err := strconv.Atoi(raw)
		if err != nil {
			return nil, &models.ValidationError{Message: "Please specify stock"}
		}
		p.Stock = stock
	}
	return p, nil
}

func (app *application) createProduct(w http.ResponseWriter, r *http.Request) {
	product, err := productForm(r)
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}

	file, filename, contentType, err := formFile(r, "images")
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}
	if file == nil {
		app.errorResponse(w, r, &models.ValidationError{Message: "No file uploaded"})
		return
	}
	defer file.Close()

	key, url, err := app.images.Put(filename, contentType, file)
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}
	product.Image = models.Image{ObjectKey: key, URL: url}
	if product.Stock < 0 {
		product.Stock = 1
	}

	userID, err := app.currentUserID(r)
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}
	product.CreatedBy = userID

	if err := app.db.InsertProduct(r.Context(), product); err != nil {
		app.deleteBlob(key)
		app.errorResponse(w, r, err)
		return
	}

	app.writeJSON(w, http.StatusCreated, envelope{"success": true, "product": product})
}

func (app *application) updateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}

	product, err := productForm(r)
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}

	file, filename, contentType, err := formFile(r, "images")
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}
	if file != nil {
		defer file.Close()

		current, err := app.db.GetProduct(r.Context(), id)
		if err != nil {
			app.errorResponse(w, r, err)
			return
		}
		app.deleteBlob(current.Image.ObjectKey)

		key, url, err := app.images.Put(filename, contentType, file)
		if err != nil {
			app.errorResponse(w, r, err)
			return
		}
		product.Image = models.Image{ObjectKey: key, URL: url}
	}

	updated, err := app.db.UpdateProduct(r.Context(), id, product)
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}
	app.writeJSON(w, http.StatusOK, envelope{"success": true, "product": updated})
}

func (app *application) deleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}

	product, err := app.db.DeleteProduct(r.Context(), id)
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}
	app.deleteBlob(product.Image.ObjectKey)

	app.writeJSON(w, http.StatusOK, envelope{"success": true, "message": "Product deleted successfully"})
}

func (app *application) submitReview(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Rating    int    `json:"rating"`
		Comment   string `json:"comment"`
		ProductID string `json:"productId"`
	}
	if err := app.readJSON(w, r, &input); err != nil {
		app.errorResponse(w, r, err)
		return
	}

	productID, err := primitive.ObjectIDFromHex(input.ProductID)
	if err != nil {
		app.errorResponse(w, r, models.ErrNoRecord)
		return
	}
	userID, err := app.currentUserID(r)
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}

	review := models.Review{
		UserID:  userID,
		Name:    app.session.GetString(r.Context(), sessionKeyUserName),
		Rating:  input.Rating,
		Comment: input.Comment,
	}
	if err := app.db.SubmitReview(r.Context(), productID, review); err != nil {
		app.errorResponse(w, r, err)
		return
	}
	app.writeJSON(w, http.StatusOK, envelope{"success": true})
}

func (app *application) listReviews(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(r.URL.Query().Get("id"))
	if err != nil {
		app.errorResponse(w, r, models.ErrNoRecord)
		return
	}
	product, err := app.db.GetProduct(r.Context(), id)
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}
	app.writeJSON(w, http.StatusOK, envelope{"success": true, "reviews": product.Reviews})
}

func (app *application) deleteReview(w http.ResponseWriter, r *http.Request) {
	productID, err := primitive.ObjectIDFromHex(r.URL.Query().Get("productId"))
	if err != nil {
		app.errorResponse(w, r, models.ErrNoRecord)
		return
	}
	reviewID, err := primitive.ObjectIDFromHex(r.URL.Query().Get("id"))
	if err != nil {
		app.errorResponse(w, r, models.ErrNoRecord)
		return
	}

	if err := app.db.DeleteReview(r.Context(), productID, reviewID); err != nil {
		app.errorResponse(w, r, err)
		return
	}
	app.writeJSON(w, http.StatusOK, envelope{"success": true})
}

func (app *application) serveImage(w http.ResponseWriter, r *http.Request) {
	blob, err := app.images.Open(r.URL.Query().Get(":id"))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			app.errorResponse(w, r, models.ErrNoRecord)
			return
		}
		app.errorResponse(w, r, err)
		return
	}
	defer blob.Close()

	if blob.ContentType != "" {
		w.Header().Set("Content-Type", blob.ContentType)
	}
	w.Header().Set("Content-Length", strconv.FormatInt(blob.Length, 10))
	io.Copy(w, blob)
}
