package web

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/erazemk/nakupi/internal/imaging"
	"github.com/erazemk/nakupi/internal/model"
	"github.com/erazemk/nakupi/internal/store"
)

// maxFormBytes bounds an admin item form including all uploaded photos.
const maxFormBytes = 64 << 20

var errBadForm = errors.New("invalid form")

// parseItemForm reads the item fields of the create and edit forms.
func parseItemForm(r *http.Request) (model.ItemInput, error) {
	var in model.ItemInput

	in.Title = strings.TrimSpace(r.FormValue("title"))
	if in.Title == "" {
		return in, fmt.Errorf("%w: title is required", errBadForm)
	}

	price, err := model.ParseMoney(r.FormValue("price"))
	if err != nil {
		return in, fmt.Errorf("%w: price: %v", errBadForm, err)
	}
	in.Price = price

	if d := strings.TrimSpace(r.FormValue("purchaseDate")); d != "" {
		t, err := time.Parse(model.DateLayout, d)
		if err != nil {
			return in, fmt.Errorf("%w: purchase date must be YYYY-MM-DD", errBadForm)
		}
		in.PurchaseDate = &t
	}

	status, err := model.ParseStatus(r.FormValue("status"))
	if err != nil {
		return in, fmt.Errorf("%w: %v", errBadForm, err)
	}
	in.Status = status
	in.IsSubscription = r.FormValue("isSubscription") == "true"

	ids := map[string]*int64{
		"categoryId": &in.CategoryID,
		"storeId":    &in.StoreID,
		"yearId":     &in.YearID,
	}
	for field, dst := range ids {
		id, err := strconv.ParseInt(r.FormValue(field), 10, 64)
		if err != nil || id <= 0 {
			return in, fmt.Errorf("%w: %s is required", errBadForm, field)
		}
		*dst = id
	}

	if v := r.FormValue("brandId"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil || id <= 0 {
			return in, fmt.Errorf("%w: invalid brand", errBadForm)
		}
		in.BrandID = &id
	}

	if v := r.FormValue("rating"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return in, fmt.Errorf("%w: invalid rating", errBadForm)
		}
		in.Rating = &n
	}
	in.Review = strings.TrimSpace(r.FormValue("review"))

	if err := in.Validate(); err != nil {
		return in, fmt.Errorf("%w: %v", errBadForm, err)
	}
	return in, nil
}

// formImages collects uploaded photos (field imageFiles) followed by the
// comma-separated imageUrls, in submission order.
func formImages(r *http.Request) ([]store.NewImage, error) {
	var images []store.NewImage

	if r.MultipartForm != nil {
		for _, fh := range r.MultipartForm.File["imageFiles"] {
			if fh.Size == 0 {
				continue
			}
			img, err := processUpload(fh)
			if err != nil {
				return nil, fmt.Errorf("%w: %s: %v", errBadForm, fh.Filename, err)
			}
			images = append(images, img)
		}
	}

	for _, u := range strings.Split(r.FormValue("imageUrls"), ",") {
		if u = strings.TrimSpace(u); u != "" {
			images = append(images, store.NewImage{URL: u})
		}
	}
	return images, nil
}

func processUpload(fh *multipart.FileHeader) (store.NewImage, error) {
	f, err := fh.Open()
	if err != nil {
		return store.NewImage{}, err
	}
	defer f.Close()

	photo, err := imaging.Process(f)
	if err != nil {
		return store.NewImage{}, err
	}
	return store.NewImage{Data: photo.Data, MIME: photo.MIME}, nil
}

// parseForm parses urlencoded and multipart bodies alike.
func parseForm(w http.ResponseWriter, r *http.Request) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		return r.ParseMultipartForm(maxFormBytes)
	}
	return r.ParseForm()
}
