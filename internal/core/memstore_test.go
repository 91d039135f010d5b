package core

import (
	"context"
	"slices"
)

// memStore is an in-memory Store for tests.
type memStore struct {
	products []Product
	nextID   int64

	// failOn makes the named method return err
	failOn string
	err    error
}

var _ Store = (*memStore)(nil)

func newMemStore() *memStore {
	return &memStore{nextID: 1}
}

func (m *memStore) fail(method string) error {
	if m.failOn == method {
		return m.err
	}
	return nil
}

func (m *memStore) Create(_ context.Context, d Draft) (Product, error) {
	if err := m.fail("Create"); err != nil {
		return Product{}, err
	}
	p := Product{ID: m.nextID, Name: d.Name, Quantity: d.Quantity, Price: d.Price, LastUpdated: DateOf(d.LastUpdated)}
	m.nextID++
	m.products = append(m.products, p)
	return p, nil
}

func (m *memStore) UpdateByID(_ context.Context, id int64, f Fields) error {
	if err := m.fail("UpdateByID"); err != nil {
		return err
	}
	for i := range m.products {
		if m.products[i].ID == id {
			m.products[i].Quantity = f.Quantity
			m.products[i].Price = f.Price
			m.products[i].LastUpdated = DateOf(f.LastUpdated)
			return nil
		}
	}
	return &NotFoundError{ID: id}
}

func (m *memStore) FindByName(_ context.Context, name string) (Product, bool, error) {
	if err := m.fail("FindByName"); err != nil {
		return Product{}, false, err
	}
	for _, p := range m.products {
		if p.Name == name {
			return p, true, nil
		}
	}
	return Product{}, false, nil
}

func (m *memStore) FindByID(_ context.Context, id int64) (Product, bool, error) {
	if err := m.fail("FindByID"); err != nil {
		return Product{}, false, err
	}
	for _, p := range m.products {
		if p.ID == id {
			return p, true, nil
		}
	}
	return Product{}, false, nil
}

func (m *memStore) ListAll(context.Context) ([]Product, error) {
	if err := m.fail("ListAll"); err != nil {
		return nil, err
	}
	return slices.Clone(m.products), nil
}

func (m *memStore) AllIDs(context.Context) (IDSet, error) {
	if err := m.fail("AllIDs"); err != nil {
		return nil, err
	}
	ids := NewIDSet()
	for _, p := range m.products {
		ids[p.ID] = struct{}{}
	}
	return ids, nil
}

func (m *memStore) Close() error { return nil }
