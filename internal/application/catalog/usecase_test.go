package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/rfid-presence-api/internal/application/dto"
	"github.com/jhoicas/rfid-presence-api/internal/application/scan"
	"github.com/jhoicas/rfid-presence-api/internal/domain"
	"github.com/jhoicas/rfid-presence-api/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes
// ──────────────────────────────────────────────────────────────────────────────

type memLocationRepo struct {
	byCode map[string]*entity.LocationEntry
	byDev  map[string]*entity.LocationEntry
}

func newMemLocationRepo() *memLocationRepo {
	return &memLocationRepo{
		byCode: make(map[string]*entity.LocationEntry),
		byDev:  make(map[string]*entity.LocationEntry),
	}
}

func (m *memLocationRepo) Create(_ context.Context, loc *entity.LocationEntry) error {
	if _, ok := m.byCode[loc.LocationCode]; ok {
		return domain.ErrDuplicate
	}
	if _, ok := m.byDev[loc.DeviceID]; ok {
		return domain.ErrDuplicate
	}
	cp := *loc
	m.byCode[loc.LocationCode] = &cp
	m.byDev[loc.DeviceID] = &cp
	return nil
}

func (m *memLocationRepo) GetByDevice(_ context.Context, deviceID string) (*entity.LocationEntry, error) {
	loc, ok := m.byDev[deviceID]
	if !ok {
		return nil, nil
	}
	cp := *loc
	return &cp, nil
}

func (m *memLocationRepo) GetByCode(_ context.Context, code string) (*entity.LocationEntry, error) {
	loc, ok := m.byCode[code]
	if !ok {
		return nil, nil
	}
	cp := *loc
	return &cp, nil
}

func (m *memLocationRepo) List(context.Context) ([]*entity.LocationEntry, error) {
	out := make([]*entity.LocationEntry, 0, len(m.byCode))
	for _, loc := range m.byCode {
		cp := *loc
		out = append(out, &cp)
	}
	return out, nil
}

func newLocationUC(t *testing.T) (*LocationUseCase, *memLocationRepo) {
	t.Helper()
	repo := newMemLocationRepo()
	return NewLocationUseCase(repo, scan.NewLocationResolver(repo)), repo
}

// ──────────────────────────────────────────────────────────────────────────────
// LocationUseCase
// ──────────────────────────────────────────────────────────────────────────────

func TestLocationUseCase_GetByCode(t *testing.T) {
	uc, repo := newLocationUC(t)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &entity.LocationEntry{
		LocationCode: "BOD-01",
		DeviceID:     "reader-01",
		Name:         "Bodega principal",
		CreatedAt:    time.Now(),
	}))

	loc, err := uc.GetByCode(ctx, "BOD-01")
	require.NoError(t, err)
	assert.Equal(t, "BOD-01", loc.LocationCode)
	assert.Equal(t, "reader-01", loc.DeviceID)
	assert.Equal(t, "Bodega principal", loc.Name)
}

func TestLocationUseCase_GetByCode_NoExiste(t *testing.T) {
	uc, _ := newLocationUC(t)

	_, err := uc.GetByCode(context.Background(), "BOD-99")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestLocationUseCase_GetByCode_CodigoVacio(t *testing.T) {
	uc, _ := newLocationUC(t)

	_, err := uc.GetByCode(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestLocationUseCase_Create_DeviceDuplicado(t *testing.T) {
	uc, _ := newLocationUC(t)
	ctx := context.Background()

	_, err := uc.Create(ctx, dto.CreateLocationRequest{
		LocationCode: "BOD-01", DeviceID: "reader-01", Name: "Bodega principal",
	})
	require.NoError(t, err)

	// Un lector custodia a lo sumo una ubicación.
	_, err = uc.Create(ctx, dto.CreateLocationRequest{
		LocationCode: "BOD-02", DeviceID: "reader-01", Name: "Bodega secundaria",
	})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}
