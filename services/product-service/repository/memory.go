package repository

import (
	"context"
	"sync"
	"time"

	"github.com/solartech/storefront/services/product-service/models"
)

// MemoryRepo keeps the catalog in process memory. It is the default store.
type MemoryRepo struct {
	mu       sync.RWMutex
	products map[string]*models.Product
	seq      int64
}

func NewMemoryRepo(seed []models.Product) *MemoryRepo {
	r := &MemoryRepo{products: make(map[string]*models.Product, len(seed))}
	for i := range seed {
		p := cloneProduct(&seed[i])
		r.products[p.ID] = p
		if p.Seq > r.seq {
			r.seq = p.Seq
		}
	}
	return r
}

func (r *MemoryRepo) Find(ctx context.Context, q models.Query) ([]models.Product, int64, error) {
	r.mu.RLock()
	matched := make([]models.Product, 0, len(r.products))
	for _, p := range r.products {
		if q.Filter.Matches(p) {
			matched = append(matched, *cloneProduct(p))
		}
	}
	r.mu.RUnlock()

	sortProducts(matched, q.Sort)
	total := int64(len(matched))

	start := q.Skip
	if start > len(matched) {
		start = len(matched)
	}
	end := len(matched)
	if q.Limit > 0 && start+q.Limit < end {
		end = start + q.Limit
	}
	return matched[start:end], total, nil
}

func (r *MemoryRepo) FindByID(ctx context.Context, id string) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.products[id]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneProduct(p), nil
}

func (r *MemoryRepo) FindBySlug(ctx context.Context, slug string) (*models.Product, error) {
	return r.findOne(func(p *models.Product) bool { return p.Slug == slug })
}

func (r *MemoryRepo) FindBySKU(ctx context.Context, sku string) (*models.Product, error) {
	return r.findOne(func(p *models.Product) bool { return p.SKU == sku })
}

func (r *MemoryRepo) findOne(match func(*models.Product) bool) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range r.products {
		if match(p) {
			return cloneProduct(p), nil
		}
	}
	return nil, ErrNotFound
}

func (r *MemoryRepo) Create(ctx context.Context, product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.products[product.ID]; exists {
		return ErrDuplicate
	}
	for _, p := range r.products {
		if p.SKU == product.SKU || p.Slug == product.Slug {
			return ErrDuplicate
		}
	}
	r.products[product.ID] = cloneProduct(product)
	if product.Seq > r.seq {
		r.seq = product.Seq
	}
	return nil
}

func (r *MemoryRepo) Update(ctx context.Context, product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	current, ok := r.products[product.ID]
	if !ok {
		return ErrNotFound
	}
	for id, p := range r.products {
		if id != product.ID && (p.SKU == product.SKU || p.Slug == product.Slug) {
			return ErrDuplicate
		}
	}
	next := cloneProduct(product)
	next.Stock = current.Stock
	next.InStock = current.InStock
	r.products[product.ID] = next
	return nil
}

func (r *MemoryRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.products[id]; !ok {
		return ErrNotFound
	}
	delete(r.products, id)
	return nil
}

func (r *MemoryRepo) DeleteMany(ctx context.Context, ids []string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, id := range ids {
		if _, ok := r.products[id]; ok {
			delete(r.products, id)
			n++
		}
	}
	return n, nil
}

func (r *MemoryRepo) SetStatus(ctx context.Context, ids []string, status string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	now := time.Now().UTC()
	for _, id := range ids {
		if p, ok := r.products[id]; ok {
			p.Status = status
			p.UpdatedAt = now
			n++
		}
	}
	return n, nil
}

func (r *MemoryRepo) AdjustStock(ctx context.Context, id string, delta int) (*models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return nil, ErrNotFound
	}
	if p.Stock+delta < 0 {
		return nil, ErrInsufficientStock
	}
	p.SetStock(p.Stock + delta)
	p.UpdatedAt = time.Now().UTC()
	return cloneProduct(p), nil
}

func (r *MemoryRepo) SetStock(ctx context.Context, id string, stock int) (*models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return nil, ErrNotFound
	}
	p.SetStock(stock)
	p.UpdatedAt = time.Now().UTC()
	return cloneProduct(p), nil
}

func (r *MemoryRepo) NextSeq(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	return r.seq, nil
}

func cloneProduct(p *models.Product) *models.Product {
	cp := *p
	cp.Images = append([]string(nil), p.Images...)
	cp.Features = append([]string(nil), p.Features...)
	if p.Specifications != nil {
		cp.Specifications = make(map[string]string, len(p.Specifications))
		for k, v := range p.Specifications {
			cp.Specifications[k] = v
		}
	}
	if p.Dimensions != nil {
		d := *p.Dimensions
		cp.Dimensions = &d
	}
	if p.OriginalPrice != nil {
		v := *p.OriginalPrice
		cp.OriginalPrice = &v
	}
	if p.Discount != nil {
		v := *p.Discount
		cp.Discount = &v
	}
	if p.Wattage != nil {
		v := *p.Wattage
		cp.Wattage = &v
	}
	return &cp
}
