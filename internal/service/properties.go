package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/erazemk/nepremicnine/internal/blob"
	"github.com/erazemk/nepremicnine/internal/imaging"
	"github.com/erazemk/nepremicnine/internal/metrics"
	"github.com/erazemk/nepremicnine/internal/model"
)

// ImagePathPrefix is the URL path under which uploaded images are served.
// A property's Image holds this prefix followed by the blob key.
const ImagePathPrefix = "/api/images/"

// codeAttempts bounds internal code generation retries on collisions.
const codeAttempts = 5

// PropertyService implements the property use cases.
type PropertyService struct {
	properties PropertyRepository
	owners     OwnerRepository
	images     blob.Store
	imageOpts  imaging.Options
	codes      *CodeGenerator
	now        func() time.Time
}

// PropertyOption configures a PropertyService.
type PropertyOption func(*PropertyService)

// WithImageStore enables image uploads into store.
func WithImageStore(store blob.Store) PropertyOption {
	return func(s *PropertyService) { s.images = store }
}

// WithImageOptions overrides the image processing limits.
func WithImageOptions(opts imaging.Options) PropertyOption {
	return func(s *PropertyService) { s.imageOpts = opts }
}

// WithCodeGenerator replaces the process-wide internal code generator.
func WithCodeGenerator(g *CodeGenerator) PropertyOption {
	return func(s *PropertyService) { s.codes = g }
}

// WithClock replaces time.Now, used for the default construction year.
func WithClock(now func() time.Time) PropertyOption {
	return func(s *PropertyService) { s.now = now }
}

// NewPropertyService returns a property service over the given repositories.
func NewPropertyService(properties PropertyRepository, owners OwnerRepository, opts ...PropertyOption) *PropertyService {
	s := &PropertyService{
		properties: properties,
		owners:     owners,
		codes:      DefaultCodeGenerator(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Search returns one page of properties matching f, enriched with owner
// names, and the total number of matches.
func (s *PropertyService) Search(ctx context.Context, f model.PropertyFilter) ([]model.PropertyView, int, error) {
	if err := f.Validate(); err != nil {
		return nil, 0, Invalid("%s", err.Error())
	}

	properties, total, err := s.properties.Search(ctx, f)
	if err != nil {
		return nil, 0, Internal(err, "could not search properties")
	}

	views, err := s.enrich(ctx, properties)
	if err != nil {
		return nil, 0, err
	}
	return views, total, nil
}

// List returns every property in creation order.
func (s *PropertyService) List(ctx context.Context) ([]model.PropertyView, error) {
	properties, err := s.properties.List(ctx)
	if err != nil {
		return nil, Internal(err, "could not list properties")
	}
	return s.enrich(ctx, properties)
}

// ListByOwner returns the properties of one owner.
func (s *PropertyService) ListByOwner(ctx context.Context, ownerID string) ([]model.PropertyView, error) {
	exists, err := s.owners.Exists(ctx, ownerID)
	if err != nil {
		return nil, Internal(err, "could not look up owner")
	}
	if !exists {
		return nil, NotFound("owner not found")
	}

	properties, err := s.properties.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, Internal(err, "could not list properties")
	}
	return s.enrich(ctx, properties)
}

// Get returns one enriched property.
func (s *PropertyService) Get(ctx context.Context, id string) (*model.PropertyView, error) {
	p, err := s.properties.Get(ctx, id)
	if err != nil {
		return nil, Internal(err, "could not get property")
	}
	if p == nil {
		return nil, NotFound("property not found")
	}
	return s.enrichOne(ctx, p)
}

// Create validates in, checks that the owner exists, assigns an internal
// code and stores the property.
func (s *PropertyService) Create(ctx context.Context, in model.PropertyCreate) (*model.PropertyView, error) {
	if err := in.Validate(); err != nil {
		return nil, Invalid("%s", err.Error())
	}

	exists, err := s.owners.Exists(ctx, in.OwnerID)
	if err != nil {
		return nil, Internal(err, "could not look up owner")
	}
	if !exists {
		return nil, Invalid("referenced owner not found")
	}

	p := &model.Property{
		OwnerID: in.OwnerID,
		Name:    in.Name,
		Address: in.Address,
		Price:   in.Price,
		Image:   in.Image,
		Year:    in.Year,
	}
	if p.Year == 0 {
		p.Year = s.now().Year()
	}

	if err := s.insertWithCode(ctx, p); err != nil {
		return nil, err
	}
	return s.enrichOne(ctx, p)
}

// insertWithCode stores p under a fresh internal code, drawing a new code
// when the previous one is already taken.
func (s *PropertyService) insertWithCode(ctx context.Context, p *model.Property) error {
	var err error
	for range codeAttempts {
		p.CodeInternal = s.codes.Next()
		err = s.properties.Create(ctx, p)
		if err == nil {
			return nil
		}
		if !errors.Is(err, model.ErrDuplicateCode) {
			return Internal(err, "could not create property")
		}
		metrics.CodeCollisions.Inc()
		slog.Warn("internal code collision", "code", p.CodeInternal)
	}
	return Internal(err, "could not allocate internal code")
}

// Update merges in into the stored property. Owner and internal code are
// never changed.
func (s *PropertyService) Update(ctx context.Context, id string, in model.PropertyUpdate) (*model.PropertyView, error) {
	if err := in.Validate(); err != nil {
		return nil, Invalid("%s", err.Error())
	}

	p, err := s.properties.Get(ctx, id)
	if err != nil {
		return nil, Internal(err, "could not get property")
	}
	if p == nil {
		return nil, NotFound("property not found")
	}

	in.Apply(p)

	ok, err := s.properties.Update(ctx, p)
	if err != nil {
		return nil, Internal(err, "could not update property")
	}
	if !ok {
		return nil, Internal(nil, "could not update property")
	}
	return s.enrichOne(ctx, p)
}

// Delete removes a property and any image uploaded for it.
func (s *PropertyService) Delete(ctx context.Context, id string) error {
	p, err := s.properties.Get(ctx, id)
	if err != nil {
		return Internal(err, "could not get property")
	}
	if p == nil {
		return NotFound("property not found")
	}

	ok, err := s.properties.Delete(ctx, id)
	if err != nil {
		return Internal(err, "could not delete property")
	}
	if !ok {
		return NotFound("property not found")
	}

	s.removeImage(ctx, p.Image)
	return nil
}

// SetImage processes an uploaded photo, stores it and points the property's
// Image at it. A previously uploaded image is removed.
func (s *PropertyService) SetImage(ctx context.Context, id string, r io.Reader) (*model.PropertyView, error) {
	if s.images == nil {
		return nil, Internal(nil, "image storage not configured")
	}

	p, err := s.properties.Get(ctx, id)
	if err != nil {
		return nil, Internal(err, "could not get property")
	}
	if p == nil {
		return nil, NotFound("property not found")
	}

	img, err := imaging.Process(r, s.imageOpts)
	if err != nil {
		if errors.Is(err, imaging.ErrUnsupported) || errors.Is(err, imaging.ErrTooLarge) {
			return nil, Invalid("%s", err.Error())
		}
		return nil, Internal(err, "could not process image")
	}

	key := "properties/" + p.ID + "/" + uuid.NewString() + ".jpg"
	if _, err := s.images.Put(ctx, key, bytes.NewReader(img.Data), img.MIME); err != nil {
		return nil, Internal(err, "could not store image")
	}

	image := ImagePathPrefix + key
	ok, err := s.properties.SetImage(ctx, p.ID, image)
	if err != nil || !ok {
		if _, derr := s.images.Delete(ctx, key); derr != nil {
			slog.Warn("failed to remove orphaned image", "key", key, "error", derr)
		}
		if err != nil {
			return nil, Internal(err, "could not update property")
		}
		return nil, NotFound("property not found")
	}

	s.removeImage(ctx, p.Image)
	p.Image = image
	return s.enrichOne(ctx, p)
}

// OpenImage returns a stored image by its blob key.
func (s *PropertyService) OpenImage(ctx context.Context, key string) (blob.Info, io.ReadCloser, error) {
	if s.images == nil {
		return blob.Info{}, nil, NotFound("image not found")
	}
	if _, err := blob.CleanKey(key); err != nil {
		return blob.Info{}, nil, NotFound("image not found")
	}

	info, rc, err := s.images.Get(ctx, key)
	if errors.Is(err, blob.ErrNotFound) {
		return blob.Info{}, nil, NotFound("image not found")
	}
	if err != nil {
		return blob.Info{}, nil, Internal(err, "could not read image")
	}
	return info, rc, nil
}

// removeImage deletes an uploaded image. External URLs are left alone.
func (s *PropertyService) removeImage(ctx context.Context, image string) {
	if s.images == nil || !strings.HasPrefix(image, ImagePathPrefix) {
		return
	}
	key := strings.TrimPrefix(image, ImagePathPrefix)
	if _, err := s.images.Delete(ctx, key); err != nil {
		slog.Warn("failed to remove image", "key", key, "error", err)
	}
}

func (s *PropertyService) enrichOne(ctx context.Context, p *model.Property) (*model.PropertyView, error) {
	views, err := s.enrich(ctx, []model.Property{*p})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// enrich attaches owner names with one batched lookup. Properties whose
// owner no longer exists get model.OwnerNotFoundName.
func (s *PropertyService) enrich(ctx context.Context, properties []model.Property) ([]model.PropertyView, error) {
	views := make([]model.PropertyView, len(properties))
	if len(properties) == 0 {
		return views, nil
	}

	ids := make([]string, 0, len(properties))
	for _, p := range properties {
		ids = append(ids, p.OwnerID)
	}
	owners, err := s.owners.GetMany(ctx, ids)
	if err != nil {
		return nil, Internal(err, "could not look up owners")
	}

	for i, p := range properties {
		views[i].Property = p
		if o, ok := owners[p.OwnerID]; ok {
			views[i].OwnerName = o.Name
			metrics.OwnerLookups.WithLabelValues(metrics.LookupFound).Inc()
		} else {
			views[i].OwnerName = model.OwnerNotFoundName
			metrics.OwnerLookups.WithLabelValues(metrics.LookupMissing).Inc()
		}
	}
	return views, nil
}
