package service

import (
	"context"
	"errors"
	"strconv"
	"sync"

	"github.com/erazemk/nepremicnine/internal/model"
)

var (
	_ OwnerRepository    = (*fakeOwners)(nil)
	_ PropertyRepository = (*fakeProperties)(nil)
)

// fakeOwners is an in-memory OwnerRepository.
type fakeOwners struct {
	mu      sync.Mutex
	owners  map[string]model.Owner
	refs    map[string]int
	next    int
	err     error
	getMany int
}

func newFakeOwners() *fakeOwners {
	return &fakeOwners{owners: map[string]model.Owner{}, refs: map[string]int{}}
}

func (f *fakeOwners) add(name string) model.Owner {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.next++
	o := model.Owner{ID: "owner-" + strconv.Itoa(f.next), Name: name, Address: "Calle 1", Birthday: model.NewDate(1980, 1, 1)}
	f.owners[o.ID] = o
	return o
}

func (f *fakeOwners) Create(ctx context.Context, o *model.Owner) error {
	if f.err != nil {
		return f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.next++
	o.ID = "owner-" + strconv.Itoa(f.next)
	f.owners[o.ID] = *o
	return nil
}

func (f *fakeOwners) Get(ctx context.Context, id string) (*model.Owner, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.owners[id]
	if !ok {
		return nil, nil
	}
	return &o, nil
}

func (f *fakeOwners) GetMany(ctx context.Context, ids []string) (map[string]model.Owner, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.getMany++
	out := map[string]model.Owner{}
	for _, id := range ids {
		if o, ok := f.owners[id]; ok {
			out[id] = o
		}
	}
	return out, nil
}

func (f *fakeOwners) List(ctx context.Context) ([]model.Owner, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Owner
	for _, o := range f.owners {
		out = append(out, o)
	}
	return out, nil
}

func (f *fakeOwners) Update(ctx context.Context, o *model.Owner) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.owners[o.ID]; !ok {
		return false, nil
	}
	f.owners[o.ID] = *o
	return true, nil
}

func (f *fakeOwners) Delete(ctx context.Context, id string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.refs[id] > 0 {
		return false, model.ErrOwnerReferenced
	}
	if _, ok := f.owners[id]; !ok {
		return false, nil
	}
	delete(f.owners, id)
	return true, nil
}

func (f *fakeOwners) Exists(ctx context.Context, id string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.owners[id]
	return ok, nil
}

// fakeProperties is an in-memory PropertyRepository. Creates that hit a code
// listed in taken fail with model.ErrDuplicateCode.
type fakeProperties struct {
	mu         sync.Mutex
	rows       []model.Property
	taken      map[int]bool
	next       int
	creates    int
	err        error
	missUpdate bool
	imageErr   error
	lastFilter model.PropertyFilter
}

func newFakeProperties() *fakeProperties {
	return &fakeProperties{taken: map[int]bool{}}
}

func (f *fakeProperties) find(id string) int {
	for i, p := range f.rows {
		if p.ID == id {
			return i
		}
	}
	return -1
}

func (f *fakeProperties) Create(ctx context.Context, p *model.Property) error {
	if f.err != nil {
		return f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.creates++
	if f.taken[p.CodeInternal] {
		return model.ErrDuplicateCode
	}
	f.next++
	p.ID = "prop-" + strconv.Itoa(f.next)
	f.taken[p.CodeInternal] = true
	f.rows = append(f.rows, *p)
	return nil
}

func (f *fakeProperties) Get(ctx context.Context, id string) (*model.Property, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.find(id)
	if i < 0 {
		return nil, nil
	}
	p := f.rows[i]
	return &p, nil
}

func (f *fakeProperties) List(ctx context.Context) ([]model.Property, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]model.Property{}, f.rows...), nil
}

func (f *fakeProperties) ListByOwner(ctx context.Context, ownerID string) ([]model.Property, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []model.Property{}
	for _, p := range f.rows {
		if p.OwnerID == ownerID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeProperties) Search(ctx context.Context, flt model.PropertyFilter) ([]model.Property, int, error) {
	if f.err != nil {
		return nil, 0, f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastFilter = flt
	total := len(f.rows)
	start := min(flt.Offset(), total)
	end := min(start+flt.PageSize, total)
	return append([]model.Property{}, f.rows[start:end]...), total, nil
}

func (f *fakeProperties) Update(ctx context.Context, p *model.Property) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.find(p.ID)
	if i < 0 || f.missUpdate {
		return false, nil
	}
	f.rows[i] = *p
	return true, nil
}

func (f *fakeProperties) SetImage(ctx context.Context, id, image string) (bool, error) {
	if f.imageErr != nil {
		return false, f.imageErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.find(id)
	if i < 0 {
		return false, nil
	}
	f.rows[i].Image = image
	return true, nil
}

func (f *fakeProperties) Delete(ctx context.Context, id string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.find(id)
	if i < 0 {
		return false, nil
	}
	f.rows = append(f.rows[:i], f.rows[i+1:]...)
	return true, nil
}

var errStore = errors.New("store unavailable")
