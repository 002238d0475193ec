// internal/handlers/marketplace_handlers.go
package handlers

import (
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"krishi-vaidya/internal/database"
	"krishi-vaidya/internal/marketplace"
	"krishi-vaidya/internal/middleware"
	"krishi-vaidya/internal/models"
	"krishi-vaidya/internal/utils"
)

const (
	maxUploadBytes = 10 << 20

	// Listings created without a photo get a stock produce image.
	defaultProductImage = "https://images.unsplash.com/photo-1574323347407-f5e1ad6d020b?auto=format&fit=crop&w=400&q=80"
)

var allowedImageExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
}

// HandleProducts lists the marketplace (GET, with optional filters) and
// creates a listing (POST, multipart with optional image).
func (s *Server) HandleProducts(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.handleListProducts(w, r)
	case http.MethodPost:
		s.Sessions.RequireSession(s.handleCreateProduct)(w, r)
	default:
		s.writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

func (s *Server) handleListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := s.Store.GetAllProducts(r.Context())
	if err != nil {
		s.respondAppError(w, err)
		return
	}

	filter := marketplace.Filter{
		Search:   r.URL.Query().Get("search"),
		Category: r.URL.Query().Get("category"),
		Location: r.URL.Query().Get("location"),
	}
	if v := r.URL.Query().Get("min_price"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			filter.MinPrice = &n
		}
	}
	if v := r.URL.Query().Get("max_price"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			filter.MaxPrice = &n
		}
	}

	respondJSON(w, http.StatusOK, marketplace.Apply(products, filter))
}

func (s *Server) handleCreateProduct(w http.ResponseWriter, r *http.Request) {
	claims, _ := middleware.SessionFromContext(r.Context())

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid form data")
		return
	}

	name := r.FormValue("name")
	priceStr := r.FormValue("price")
	if name == "" || priceStr == "" {
		s.writeError(w, http.StatusBadRequest, "Missing required fields")
		return
	}
	price, err := strconv.Atoi(priceStr)
	if err != nil || price < 0 {
		s.writeError(w, http.StatusBadRequest, "Invalid price")
		return
	}

	imageURL := defaultProductImage
	if file, header, err := r.FormFile("image"); err == nil {
		defer file.Close()
		saved, err := s.saveUpload(file, header.Filename)
		if err != nil {
			s.respondAppError(w, err)
			return
		}
		if saved != "" {
			imageURL = saved
		}
	}

	now := time.Now()
	product := &models.Product{
		ID:          uuid.New(),
		Name:        name,
		Price:       price,
		Unit:        r.FormValue("unit"),
		Location:    r.FormValue("location"),
		Category:    r.FormValue("category"),
		Description: r.FormValue("description"),
		SellerName:  claims.FullName,
		SellerPhone: claims.Phone,
		ImageURL:    imageURL,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.Store.SaveProduct(r.Context(), product); err != nil {
		s.respondAppError(w, err)
		return
	}

	slog.Info("listing created", "product", product.ID, "seller", claims.Phone)
	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"message": "Product listed!",
		"product": product,
	})
}

// saveUpload writes an uploaded image under the upload directory with a
// random filename and returns its public URL path. Files with an
// unrecognized extension are skipped, not rejected.
func (s *Server) saveUpload(file io.Reader, filename string) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedImageExtensions[ext] {
		return "", nil
	}

	if err := os.MkdirAll(s.UploadDir, 0o755); err != nil {
		return "", utils.NewAppError(utils.ErrDatabase, "failed to prepare upload directory", err)
	}

	name := uuid.New().String() + ext
	dst, err := os.Create(filepath.Join(s.UploadDir, name))
	if err != nil {
		return "", utils.NewAppError(utils.ErrDatabase, "failed to store image", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, io.LimitReader(file, maxUploadBytes)); err != nil {
		return "", utils.NewAppError(utils.ErrDatabase, "failed to store image", err)
	}
	return "/static/uploads/" + name, nil
}

// HandleMyFarm lists the logged-in farmer's own listings.
func (s *Server) HandleMyFarm(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	s.Sessions.RequireSession(func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.SessionFromContext(r.Context())

		products, err := s.Store.GetSellerProducts(r.Context(), claims.Phone)
		if err != nil {
			s.respondAppError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, products)
	})(w, r)
}

// HandleEditProduct updates a listing. Only the seller may edit.
func (s *Server) HandleEditProduct(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost && r.Method != http.MethodPut {
		s.writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	s.Sessions.RequireSession(s.handleEditProduct)(w, r)
}

func (s *Server) handleEditProduct(w http.ResponseWriter, r *http.Request) {
	claims, _ := middleware.SessionFromContext(r.Context())

	product, ok := s.ownedProduct(w, r, claims.Phone)
	if !ok {
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid form data")
		return
	}

	price := product.Price
	if v := r.FormValue("price"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			s.writeError(w, http.StatusBadRequest, "Invalid price")
			return
		}
		price = n
	}

	update := database.ProductUpdate{
		Name:        formValueOr(r, "name", product.Name),
		Price:       price,
		Unit:        formValueOr(r, "unit", product.Unit),
		Location:    formValueOr(r, "location", product.Location),
		Category:    formValueOr(r, "category", product.Category),
		Description: formValueOr(r, "description", product.Description),
	}

	if file, header, err := r.FormFile("image"); err == nil {
		defer file.Close()
		saved, err := s.saveUpload(file, header.Filename)
		if err != nil {
			s.respondAppError(w, err)
			return
		}
		update.ImageURL = saved
	}

	if err := s.Store.UpdateProduct(r.Context(), product.ID, update); err != nil {
		s.respondAppError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Product updated!",
	})
}

// HandleDeleteProduct removes a listing. Only the seller may delete.
func (s *Server) HandleDeleteProduct(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost && r.Method != http.MethodDelete {
		s.writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	s.Sessions.RequireSession(func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.SessionFromContext(r.Context())

		product, ok := s.ownedProduct(w, r, claims.Phone)
		if !ok {
			return
		}

		if err := s.Store.DeleteProduct(r.Context(), product.ID); err != nil {
			s.respondAppError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"message": "Product deleted!",
		})
	})(w, r)
}

// ownedProduct loads the product named by ?id= and checks ownership,
// writing the error response itself on failure.
func (s *Server) ownedProduct(w http.ResponseWriter, r *http.Request, sellerPhone string) (*models.Product, bool) {
	id, err := uuid.Parse(r.URL.Query().Get("id"))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid product ID")
		return nil, false
	}

	product, err := s.Store.GetProduct(r.Context(), id)
	if err != nil {
		s.respondAppError(w, err)
		return nil, false
	}

	if product.SellerPhone != sellerPhone {
		s.writeError(w, http.StatusForbidden, "You can only manage your own listings")
		return nil, false
	}
	return product, true
}

func formValueOr(r *http.Request, key, fallback string) string {
	if v := r.FormValue(key); v != "" {
		return v
	}
	return fallback
}
