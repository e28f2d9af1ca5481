package units_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cotowork/userservice/internal/shared"
	"github.com/cotowork/userservice/internal/units"
	_ "github.com/cotowork/userservice/testing"
)

type memRepo struct {
	nextID int64
	byID   map[int64]*units.Unit
}

func newMemRepo() *memRepo {
	return &memRepo{nextID: 1, byID: map[int64]*units.Unit{}}
}

func (m *memRepo) List(ctx context.Context) ([]units.Unit, error) {
	var out []units.Unit
	for id := int64(1); id < m.nextID; id++ {
		if u, ok := m.byID[id]; ok {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (m *memRepo) ListRoots(ctx context.Context) ([]units.Unit, error) {
	all, _ := m.List(ctx)
	var out []units.Unit
	for _, u := range all {
		if u.ParentUnitID == 0 {
			out = append(out, u)
		}
	}
	return out, nil
}

func (m *memRepo) ListByParent(ctx context.Context, parentID int64) ([]units.Unit, error) {
	all, _ := m.List(ctx)
	var out []units.Unit
	for _, u := range all {
		if u.ParentUnitID == parentID {
			out = append(out, u)
		}
	}
	return out, nil
}

func (m *memRepo) Search(ctx context.Context, keyword string) ([]units.Unit, error) {
	needle := strings.ToLower(keyword)
	all, _ := m.List(ctx)
	var out []units.Unit
	for _, u := range all {
		if strings.Contains(strings.ToLower(u.Name), needle) ||
			strings.Contains(strings.ToLower(u.Code), needle) {
			out = append(out, u)
		}
	}
	return out, nil
}

func (m *memRepo) FindByID(ctx context.Context, id int64) (*units.Unit, error) {
	u, ok := m.byID[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	clone := *u
	return &clone, nil
}

func (m *memRepo) FindByCode(ctx context.Context, code string) (*units.Unit, error) {
	for _, u := range m.byID {
		if u.Code == code {
			clone := *u
			return &clone, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (m *memRepo) Create(ctx context.Context, unit *units.Unit) error {
	for _, existing := range m.byID {
		if existing.Code == unit.Code {
			return shared.ErrDuplicate
		}
	}
	unit.ID = m.nextID
	unit.CreatedAt = time.Now().UTC()
	unit.UpdatedAt = unit.CreatedAt
	m.nextID++
	clone := *unit
	m.byID[unit.ID] = &clone
	return nil
}

func (m *memRepo) Update(ctx context.Context, unit *units.Unit) error {
	if _, ok := m.byID[unit.ID]; !ok {
		return shared.ErrNotFound
	}
	clone := *unit
	clone.UpdatedAt = time.Now().UTC()
	m.byID[unit.ID] = &clone
	return nil
}

func (m *memRepo) Deactivate(ctx context.Context, id int64) error {
	u, ok := m.byID[id]
	if !ok {
		return shared.ErrNotFound
	}
	u.IsActive = false
	return nil
}

func TestCreateUnit(t *testing.T) {
	svc := units.NewService(newMemRepo(), nil)

	created, err := svc.Create(context.Background(), units.Input{Code: "ENG", Name: "Engineering"})
	require.NoError(t, err)
	assert.True(t, created.IsActive)
	assert.NotZero(t, created.ID)

	_, err = svc.Create(context.Background(), units.Input{Code: "ENG", Name: "Engineering Again"})
	assert.ErrorIs(t, err, shared.ErrDuplicate)
}

func TestCreateUnitParentMustExist(t *testing.T) {
	repo := newMemRepo()
	svc := units.NewService(repo, nil)

	_, err := svc.Create(context.Background(), units.Input{Code: "SUB", Name: "Sub", ParentUnitID: 99})
	assert.ErrorIs(t, err, shared.ErrValidation)

	parent, err := svc.Create(context.Background(), units.Input{Code: "TOP", Name: "Top"})
	require.NoError(t, err)
	child, err := svc.Create(context.Background(), units.Input{Code: "SUB", Name: "Sub", ParentUnitID: parent.ID})
	require.NoError(t, err)
	assert.Equal(t, parent.ID, child.ParentUnitID)
}

func TestUpdateUnitCannotBeOwnParent(t *testing.T) {
	svc := units.NewService(newMemRepo(), nil)

	created, err := svc.Create(context.Background(), units.Input{Code: "ENG", Name: "Engineering"})
	require.NoError(t, err)

	_, err = svc.Update(context.Background(), created.ID, units.Input{
		Code: "ENG", Name: "Engineering", ParentUnitID: created.ID, IsActive: true,
	})
	assert.ErrorIs(t, err, shared.ErrValidation)
}

func TestUpdateAndDeactivateUnit(t *testing.T) {
	svc := units.NewService(newMemRepo(), nil)

	created, err := svc.Create(context.Background(), units.Input{Code: "ENG", Name: "Engineering"})
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), created.ID, units.Input{
		Code: "ENG", Name: "Platform Engineering", IsActive: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "Platform Engineering", updated.Name)

	require.NoError(t, svc.Deactivate(context.Background(), created.ID))
	got, err := svc.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)

	assert.ErrorIs(t, svc.Deactivate(context.Background(), 404), shared.ErrNotFound)
}

func TestHierarchyQueries(t *testing.T) {
	svc := units.NewService(newMemRepo(), nil)

	top, err := svc.Create(context.Background(), units.Input{Code: "HQ", Name: "Headquarters"})
	require.NoError(t, err)
	child, err := svc.Create(context.Background(), units.Input{Code: "ENG", Name: "Engineering", ParentUnitID: top.ID})
	require.NoError(t, err)

	roots, err := svc.ListRoots(context.Background())
	require.NoError(t, err)
	require.Len(t, roots, 1)
	assert.Equal(t, top.ID, roots[0].ID)

	children, err := svc.ListByParent(context.Background(), top.ID)
	require.NoError(t, err)
	require.Len(t, children, 1)
	assert.Equal(t, child.ID, children[0].ID)

	none, err := svc.ListByParent(context.Background(), child.ID)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestSearchUnits(t *testing.T) {
	svc := units.NewService(newMemRepo(), nil)

	_, err := svc.Create(context.Background(), units.Input{Code: "ENG", Name: "Engineering"})
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), units.Input{Code: "OPS", Name: "Operations"})
	require.NoError(t, err)

	// Matches by name.
	found, err := svc.Search(context.Background(), "engine")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "ENG", found[0].Code)

	// Matches by code.
	found, err = svc.Search(context.Background(), "ops")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Operations", found[0].Name)
}

func TestGetByCode(t *testing.T) {
	svc := units.NewService(newMemRepo(), nil)

	created, err := svc.Create(context.Background(), units.Input{Code: "ENG", Name: "Engineering"})
	require.NoError(t, err)

	got, err := svc.GetByCode(context.Background(), "ENG")
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	_, err = svc.GetByCode(context.Background(), "NOPE")
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
